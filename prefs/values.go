package prefs

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/middleclick/middleclick/gesture"
	"github.com/middleclick/middleclick/utils"
)

// fromValues overlays stored values onto base. Values of the wrong type are
// skipped so the field keeps its base value.
func fromValues(base gesture.Config, values map[string]interface{}) gesture.Config {
	cfg := base

	if v, ok := values[gesture.KeyFingers]; ok {
		if n, ok := toInt(v); ok {
			cfg.Fingers = int(n)
		} else {
			utils.Verbose("ignoring %s=%v: not an integer", gesture.KeyFingers, v)
		}
	}

	if v, ok := values[gesture.KeyAllowMoreFingers]; ok {
		if b, ok := toBool(v); ok {
			cfg.AllowMoreFingers = b
		} else {
			utils.Verbose("ignoring %s=%v: not a boolean", gesture.KeyAllowMoreFingers, v)
		}
	}

	if v, ok := values[gesture.KeyMaxDistanceDelta]; ok {
		if f, ok := toFloat(v); ok {
			cfg.MaxDistanceDelta = f
		} else {
			utils.Verbose("ignoring %s=%v: not a number", gesture.KeyMaxDistanceDelta, v)
		}
	}

	if v, ok := values[gesture.KeyMaxTimeDelta]; ok {
		if n, ok := toInt(v); ok {
			cfg.MaxTimeDelta = gesture.DurationFromMs(n)
		} else {
			utils.Verbose("ignoring %s=%v: not an integer", gesture.KeyMaxTimeDelta, v)
		}
	}

	if v, ok := values[gesture.KeyIgnoredAppBundles]; ok {
		if list, ok := toStrings(v); ok {
			cfg.IgnoredAppBundles = list
		} else {
			utils.Verbose("ignoring %s=%v: not a list of strings", gesture.KeyIgnoredAppBundles, v)
		}
	}

	return cfg.Normalize()
}

// toValues converts a config into the values written to disk
func toValues(cfg gesture.Config) map[string]interface{} {
	bundles := cfg.IgnoredAppBundles
	if bundles == nil {
		bundles = []string{}
	}
	return map[string]interface{}{
		gesture.KeyFingers:           int64(cfg.Fingers),
		gesture.KeyAllowMoreFingers:  cfg.AllowMoreFingers,
		gesture.KeyMaxDistanceDelta:  cfg.MaxDistanceDelta,
		gesture.KeyMaxTimeDelta:      cfg.MaxTimeDeltaMs(),
		gesture.KeyIgnoredAppBundles: bundles,
	}
}

// Apply parses a single key/value pair given as text and returns the updated
// config. Unlike loading, bad input here is reported.
func Apply(cfg gesture.Config, key, value string) (gesture.Config, error) {
	value = strings.TrimSpace(value)

	switch key {
	case gesture.KeyFingers, gesture.KeyMaxTimeDelta:
		if _, ok := toInt(value); !ok {
			return cfg, fmt.Errorf("%s must be an integer, got %q", key, value)
		}
	case gesture.KeyAllowMoreFingers:
		if _, ok := toBool(value); !ok {
			return cfg, fmt.Errorf("%s must be true or false, got %q", key, value)
		}
	case gesture.KeyMaxDistanceDelta:
		if _, ok := toFloat(value); !ok {
			return cfg, fmt.Errorf("%s must be a number, got %q", key, value)
		}
	case gesture.KeyIgnoredAppBundles:
	default:
		return cfg, fmt.Errorf("unknown preference key %q, expected one of: %s", key, strings.Join(gesture.Keys, ", "))
	}

	return fromValues(cfg, map[string]interface{}{key: value}), nil
}

func toInt(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return math.MaxInt64, true
		}
		return int64(n), true
	case float64:
		switch {
		case math.IsNaN(n) || math.IsInf(n, 0):
			return 0, false
		case n >= math.MaxInt64:
			return math.MaxInt64, true
		case n <= math.MinInt64:
			return math.MinInt64, true
		}
		return int64(n), true
	case float32:
		return toInt(float64(n))
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toBool(v interface{}) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case int64:
		return b != 0, true
	case uint64:
		return b != 0, true
	case int:
		return b != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "1", "true", "yes", "on":
			return true, true
		case "0", "false", "no", "off":
			return false, true
		}
	}
	return false, false
}

func toStrings(v interface{}) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case string:
		if strings.TrimSpace(list) == "" {
			return []string{}, true
		}
		return strings.Split(list, ","), true
	}
	return nil, false
}
