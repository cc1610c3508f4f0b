package prefs

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/middleclick/middleclick/gesture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	for _, name := range []string{"missing.plist", "missing.ini"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), name))
			require.NoError(t, err)
			assert.Equal(t, gesture.DefaultConfig(), cfg)
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "prefs.yaml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad_PlistWithTypedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), BundleID+".plist")
	data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>fingers</key>
	<integer>4</integer>
	<key>allowMoreFingers</key>
	<true/>
	<key>maxDistanceDelta</key>
	<real>0.08</real>
	<key>maxTimeDelta</key>
	<integer>450</integer>
	<key>ignoredAppBundles</key>
	<array>
		<string>com.example.Game</string>
		<string>com.example.Paint</string>
	</array>
	<key>SUEnableAutomaticChecks</key>
	<false/>
</dict>
</plist>`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Fingers)
	assert.True(t, cfg.AllowMoreFingers)
	assert.InDelta(t, 0.08, cfg.MaxDistanceDelta, 1e-9)
	assert.Equal(t, 450*time.Millisecond, cfg.MaxTimeDelta)
	assert.Equal(t, []string{"com.example.Game", "com.example.Paint"}, cfg.IgnoredAppBundles)
}

func TestLoad_PlistWrongTypesFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.plist")
	data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<dict>
	<key>fingers</key>
	<string>lots</string>
	<key>allowMoreFingers</key>
	<string>YES</string>
	<key>maxDistanceDelta</key>
	<real>7.5</real>
	<key>maxTimeDelta</key>
	<integer>-20</integer>
	<key>ignoredAppBundles</key>
	<integer>1</integer>
</dict>
</plist>`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, gesture.DefaultFingers, cfg.Fingers, "unparseable value keeps the default")
	assert.True(t, cfg.AllowMoreFingers, "string booleans are accepted")
	assert.Equal(t, 1.0, cfg.MaxDistanceDelta, "out of range is clamped")
	assert.Equal(t, time.Duration(0), cfg.MaxTimeDelta, "negative is clamped")
	assert.Empty(t, cfg.IgnoredAppBundles)
}

func TestLoad_CorruptPlist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.plist")
	require.NoError(t, os.WriteFile(path, []byte("bplist00 truncated"), 0o644))

	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, gesture.DefaultConfig(), cfg)
}

func TestSaveLoad_Plist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.plist")

	cfg := gesture.DefaultConfig().WithIgnored("com.example.Game")
	cfg.Fingers = 4
	cfg.MaxTimeDelta = 200 * time.Millisecond

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSave_PlistPreservesForeignKeysAndFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.plist")

	data, err := plist.Marshal(map[string]interface{}{
		"fingers":              int64(5),
		"NSStatusItem Visible": true,
	}, plist.BinaryFormat)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	require.NoError(t, Save(path, gesture.DefaultConfig()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var values map[string]interface{}
	format, err := plist.Unmarshal(raw, &values)
	require.NoError(t, err)
	assert.Equal(t, plist.BinaryFormat, format)
	assert.Equal(t, true, values["NSStatusItem Visible"])
	assert.EqualValues(t, 3, values["fingers"])
}

func TestSaveLoad_Ini(t *testing.T) {
	path := filepath.Join(t.TempDir(), "middleclick.ini")

	cfg := gesture.DefaultConfig().WithIgnored("com.b").WithIgnored("com.a")
	cfg.AllowMoreFingers = true
	cfg.MaxDistanceDelta = 0.125

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "ignoredAppBundles")
	assert.Contains(t, string(raw), "com.a,com.b")
}

func TestLoad_IniPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "middleclick.ini")
	require.NoError(t, os.WriteFile(path, []byte("fingers = 0\nmaxTimeDelta = 500\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Fingers)
	assert.Equal(t, 500*time.Millisecond, cfg.MaxTimeDelta)
	assert.Equal(t, gesture.DefaultMaxDistanceDelta, cfg.MaxDistanceDelta)
}

func TestApply(t *testing.T) {
	base := gesture.DefaultConfig()

	cfg, err := Apply(base, gesture.KeyFingers, "4")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Fingers)

	cfg, err = Apply(cfg, gesture.KeyIgnoredAppBundles, "com.a, com.b")
	require.NoError(t, err)
	assert.Equal(t, []string{"com.a", "com.b"}, cfg.IgnoredAppBundles)

	cfg, err = Apply(cfg, gesture.KeyAllowMoreFingers, "yes")
	require.NoError(t, err)
	assert.True(t, cfg.AllowMoreFingers)

	_, err = Apply(cfg, gesture.KeyMaxTimeDelta, "soon")
	assert.Error(t, err)

	// far beyond what a Duration holds: saturates instead of wrapping to 0
	cfg, err = Apply(cfg, gesture.KeyMaxTimeDelta, "10000000000000")
	require.NoError(t, err)
	assert.Equal(t, gesture.DurationFromMs(math.MaxInt64), cfg.MaxTimeDelta)
	assert.Greater(t, cfg.MaxTimeDelta, 100*365*24*time.Hour)

	_, err = Apply(cfg, "tapToClick", "true")
	assert.ErrorContains(t, err, "unknown preference key")
}

func TestReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.plist")
	require.NoError(t, Save(path, gesture.DefaultConfig()))
	require.NoError(t, Reset(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, Reset(path), "removing twice is fine")
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/from-env.ini")

	path, err := ResolvePath("/tmp/explicit.plist")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/explicit.plist", path)

	path, err = ResolvePath("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.ini", path)
}
