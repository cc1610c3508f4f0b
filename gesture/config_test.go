package gesture

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 3, cfg.Fingers)
	assert.False(t, cfg.AllowMoreFingers)
	assert.Equal(t, 0.05, cfg.MaxDistanceDelta)
	assert.Equal(t, 300*time.Millisecond, cfg.MaxTimeDelta)
	assert.Equal(t, int64(300), cfg.MaxTimeDeltaMs())
	assert.Empty(t, cfg.IgnoredAppBundles)
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{
			name: "negative fingers clamp to one",
			in:   Config{Fingers: -2, MaxDistanceDelta: 0.1, MaxTimeDelta: time.Second},
			want: Config{Fingers: 1, MaxDistanceDelta: 0.1, MaxTimeDelta: time.Second, IgnoredAppBundles: []string{}},
		},
		{
			name: "distance clamps into unit range",
			in:   Config{Fingers: 3, MaxDistanceDelta: 4, MaxTimeDelta: time.Second},
			want: Config{Fingers: 3, MaxDistanceDelta: 1, MaxTimeDelta: time.Second, IgnoredAppBundles: []string{}},
		},
		{
			name: "negative distance and time clamp to zero",
			in:   Config{Fingers: 3, MaxDistanceDelta: -1, MaxTimeDelta: -time.Second},
			want: Config{Fingers: 3, MaxDistanceDelta: 0, MaxTimeDelta: 0, IgnoredAppBundles: []string{}},
		},
		{
			name: "nan distance falls back to default",
			in:   Config{Fingers: 3, MaxDistanceDelta: math.NaN()},
			want: Config{Fingers: 3, MaxDistanceDelta: DefaultMaxDistanceDelta, IgnoredAppBundles: []string{}},
		},
		{
			name: "bundles are trimmed and deduplicated",
			in:   Config{Fingers: 3, IgnoredAppBundles: []string{" com.b ", "com.a", "", "com.b"}},
			want: Config{Fingers: 3, IgnoredAppBundles: []string{"com.a", "com.b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestConfig_IgnoreList(t *testing.T) {
	cfg := DefaultConfig().WithIgnored("com.example.Game").WithIgnored("com.example.Game")
	assert.Equal(t, []string{"com.example.Game"}, cfg.IgnoredAppBundles)
	assert.True(t, cfg.IsIgnored("com.example.Game"))
	assert.True(t, cfg.IsIgnored(" com.example.Game "))
	assert.False(t, cfg.IsIgnored(""))
	assert.False(t, cfg.IsIgnored("com.apple.finder"))

	cfg = cfg.WithoutIgnored("com.example.Game")
	assert.False(t, cfg.IsIgnored("com.example.Game"))
	assert.Empty(t, cfg.IgnoredAppBundles)
}

func TestConfig_WithIgnoredDoesNotAlias(t *testing.T) {
	base := Config{IgnoredAppBundles: make([]string, 1, 4)}
	base.IgnoredAppBundles[0] = "com.a"

	_ = base.WithIgnored("com.b")
	assert.Equal(t, []string{"com.a"}, base.IgnoredAppBundles)
}

func TestConfig_JSON(t *testing.T) {
	cfg := DefaultConfig().WithIgnored("com.example.Game")
	cfg.MaxTimeDelta = 250 * time.Millisecond

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"fingers": 3,
		"allowMoreFingers": false,
		"maxDistanceDelta": 0.05,
		"maxTimeDelta": 250,
		"ignoredAppBundles": ["com.example.Game"]
	}`, string(data))

	var partial Config
	require.NoError(t, json.Unmarshal([]byte(`{"fingers": 4, "maxTimeDelta": -5}`), &partial))
	assert.Equal(t, 4, partial.Fingers)
	assert.Equal(t, time.Duration(0), partial.MaxTimeDelta)
	assert.Equal(t, DefaultMaxDistanceDelta, partial.MaxDistanceDelta)
	assert.Empty(t, partial.IgnoredAppBundles)

	var huge Config
	require.NoError(t, json.Unmarshal([]byte(`{"maxTimeDelta": 10000000000000}`), &huge))
	assert.Greater(t, huge.MaxTimeDelta, 100*365*24*time.Hour)
}

func TestDurationFromMs(t *testing.T) {
	assert.Equal(t, 300*time.Millisecond, DurationFromMs(300))
	assert.Equal(t, -5*time.Millisecond, DurationFromMs(-5))

	limit := math.MaxInt64 / int64(time.Millisecond)
	assert.Equal(t, time.Duration(limit)*time.Millisecond, DurationFromMs(limit+1))
	assert.Equal(t, time.Duration(limit)*time.Millisecond, DurationFromMs(math.MaxInt64))
	assert.Equal(t, -time.Duration(limit)*time.Millisecond, DurationFromMs(math.MinInt64))
}
