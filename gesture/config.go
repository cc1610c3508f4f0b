package gesture

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"
)

// preference keys, as stored by the settings domain
const (
	KeyFingers           = "fingers"
	KeyAllowMoreFingers  = "allowMoreFingers"
	KeyMaxDistanceDelta  = "maxDistanceDelta"
	KeyMaxTimeDelta      = "maxTimeDelta"
	KeyIgnoredAppBundles = "ignoredAppBundles"
)

const (
	// DefaultFingers is the number of fingers needed to simulate a middle click
	DefaultFingers = 3

	// DefaultAllowMoreFingers controls whether more fingers than DefaultFingers still count
	DefaultAllowMoreFingers = false

	// DefaultMaxDistanceDelta is the maximum normalized travel of a finger between touch and release
	DefaultMaxDistanceDelta = 0.05

	// DefaultMaxTimeDelta is the maximum interval between first touch and last release
	DefaultMaxTimeDelta = 300 * time.Millisecond
)

// Keys lists every preference key in display order.
var Keys = []string{
	KeyFingers,
	KeyAllowMoreFingers,
	KeyMaxDistanceDelta,
	KeyMaxTimeDelta,
	KeyIgnoredAppBundles,
}

// Config holds the recognition thresholds. It is treated as an immutable value:
// callers build a new one and hand it to Recognizer.SetConfig.
type Config struct {
	Fingers           int
	AllowMoreFingers  bool
	MaxDistanceDelta  float64
	MaxTimeDelta      time.Duration
	IgnoredAppBundles []string
}

// configJSON is the wire shape of Config, using the preference key names
type configJSON struct {
	Fingers           *int     `json:"fingers,omitempty"`
	AllowMoreFingers  *bool    `json:"allowMoreFingers,omitempty"`
	MaxDistanceDelta  *float64 `json:"maxDistanceDelta,omitempty"`
	MaxTimeDelta      *int64   `json:"maxTimeDelta,omitempty"`
	IgnoredAppBundles []string `json:"ignoredAppBundles"`
}

// MarshalJSON encodes the config with preference key names and MaxTimeDelta in milliseconds.
func (c Config) MarshalJSON() ([]byte, error) {
	ms := c.MaxTimeDeltaMs()
	bundles := c.IgnoredAppBundles
	if bundles == nil {
		bundles = []string{}
	}
	return json.Marshal(configJSON{
		Fingers:           &c.Fingers,
		AllowMoreFingers:  &c.AllowMoreFingers,
		MaxDistanceDelta:  &c.MaxDistanceDelta,
		MaxTimeDelta:      &ms,
		IgnoredAppBundles: bundles,
	})
}

// UnmarshalJSON decodes a config; keys that are absent keep their default value.
func (c *Config) UnmarshalJSON(data []byte) error {
	var raw configJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := DefaultConfig()
	if raw.Fingers != nil {
		out.Fingers = *raw.Fingers
	}
	if raw.AllowMoreFingers != nil {
		out.AllowMoreFingers = *raw.AllowMoreFingers
	}
	if raw.MaxDistanceDelta != nil {
		out.MaxDistanceDelta = *raw.MaxDistanceDelta
	}
	if raw.MaxTimeDelta != nil {
		out.MaxTimeDelta = DurationFromMs(*raw.MaxTimeDelta)
	}
	if raw.IgnoredAppBundles != nil {
		out.IgnoredAppBundles = raw.IgnoredAppBundles
	}

	*c = out.Normalize()
	return nil
}

// DefaultConfig returns the configuration used when no preferences are stored.
func DefaultConfig() Config {
	return Config{
		Fingers:           DefaultFingers,
		AllowMoreFingers:  DefaultAllowMoreFingers,
		MaxDistanceDelta:  DefaultMaxDistanceDelta,
		MaxTimeDelta:      DefaultMaxTimeDelta,
		IgnoredAppBundles: []string{},
	}
}

// DurationFromMs converts milliseconds to a Duration, saturating instead of
// overflowing.
func DurationFromMs(ms int64) time.Duration {
	const limit = math.MaxInt64 / int64(time.Millisecond)
	switch {
	case ms > limit:
		return time.Duration(limit) * time.Millisecond
	case ms < -limit:
		return -time.Duration(limit) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

// MaxTimeDeltaMs returns MaxTimeDelta in whole milliseconds, the unit used on disk.
func (c Config) MaxTimeDeltaMs() int64 {
	return c.MaxTimeDelta.Milliseconds()
}

// Normalize clamps every field into its valid range and returns the result.
// Out of range values are pulled to the nearest valid value, never rejected.
func (c Config) Normalize() Config {
	out := c

	if out.Fingers < 1 {
		out.Fingers = 1
	}

	switch {
	case math.IsNaN(out.MaxDistanceDelta):
		out.MaxDistanceDelta = DefaultMaxDistanceDelta
	case out.MaxDistanceDelta < 0:
		out.MaxDistanceDelta = 0
	case out.MaxDistanceDelta > 1:
		out.MaxDistanceDelta = 1
	}

	if out.MaxTimeDelta < 0 {
		out.MaxTimeDelta = 0
	}

	out.IgnoredAppBundles = cleanBundles(c.IgnoredAppBundles)
	return out
}

// IsIgnored reports whether recognition is suppressed for the given bundle id.
func (c Config) IsIgnored(bundleID string) bool {
	bundleID = strings.TrimSpace(bundleID)
	if bundleID == "" {
		return false
	}
	for _, b := range c.IgnoredAppBundles {
		if b == bundleID {
			return true
		}
	}
	return false
}

// WithIgnored returns a copy of the config with bundleID added to the ignore list.
func (c Config) WithIgnored(bundleID string) Config {
	out := c
	out.IgnoredAppBundles = cleanBundles(append(append([]string{}, c.IgnoredAppBundles...), bundleID))
	return out
}

// WithoutIgnored returns a copy of the config with bundleID removed from the ignore list.
func (c Config) WithoutIgnored(bundleID string) Config {
	bundleID = strings.TrimSpace(bundleID)
	kept := make([]string, 0, len(c.IgnoredAppBundles))
	for _, b := range c.IgnoredAppBundles {
		if b != bundleID {
			kept = append(kept, b)
		}
	}
	out := c
	out.IgnoredAppBundles = cleanBundles(kept)
	return out
}

// cleanBundles trims, drops blanks and duplicates, and sorts
func cleanBundles(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, b := range in {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}
