// Package prefs loads and stores the recognition preferences.
//
// Two on-disk formats are understood, chosen by file extension: property
// lists (".plist", the macOS defaults domain) and ini files (".ini"). Missing
// files and missing or malformed keys fall back to the documented defaults.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/middleclick/middleclick/gesture"
)

const (
	// BundleID is the defaults domain the preferences are stored under on macOS
	BundleID = "com.rouge41.middleClick"

	// EnvConfigPath overrides the preferences file location
	EnvConfigPath = "MIDDLECLICK_CONFIG"
)

var ErrUnsupportedFormat = errors.New("unsupported preferences format")

type format int

const (
	formatPlist format = iota
	formatIni
)

func formatFor(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".plist":
		return formatPlist, nil
	case ".ini", ".conf":
		return formatIni, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// DefaultPath returns the per-user preferences file for this platform.
func DefaultPath() (string, error) {
	if runtime.GOOS == "darwin" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Preferences", BundleID+".plist"), nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "middleclick", "middleclick.ini"), nil
}

// ResolvePath picks the preferences file: an explicit path wins, then the
// environment, then the platform default.
func ResolvePath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, nil
	}
	return DefaultPath()
}

// Load reads the preferences at path. A missing file yields the defaults.
func Load(path string) (gesture.Config, error) {
	f, err := formatFor(path)
	if err != nil {
		return gesture.DefaultConfig(), err
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return gesture.DefaultConfig(), nil
	}

	var values map[string]interface{}
	switch f {
	case formatPlist:
		values, _, err = readPlist(path)
	case formatIni:
		values, err = readIni(path)
	}
	if err != nil {
		return gesture.DefaultConfig(), err
	}

	return fromValues(gesture.DefaultConfig(), values), nil
}

// Save writes cfg to path, creating parent directories as needed. Other keys
// already present in the file are preserved.
func Save(path string, cfg gesture.Config) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	values := toValues(cfg.Normalize())
	switch f {
	case formatPlist:
		return writePlist(path, values)
	default:
		return writeIni(path, values)
	}
}

// Reset removes the stored preferences so the defaults apply again.
func Reset(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove preferences: %w", err)
	}
	return nil
}
