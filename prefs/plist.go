package prefs

import (
	"errors"
	"fmt"
	"os"

	"howett.net/plist"
)

// readPlist decodes a property list file and reports the format it was in,
// so that writes can keep the file binary or xml as they found it
func readPlist(path string) (map[string]interface{}, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, plist.InvalidFormat, fmt.Errorf("failed to read %s: %w", path, err)
	}

	values := make(map[string]interface{})
	if len(data) == 0 {
		return values, plist.XMLFormat, nil
	}

	format, err := plist.Unmarshal(data, &values)
	if err != nil {
		return nil, plist.InvalidFormat, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return values, format, nil
}

func writePlist(path string, values map[string]interface{}) error {
	existing := make(map[string]interface{})
	format := plist.XMLFormat

	if _, err := os.Stat(path); err == nil {
		current, currentFormat, err := readPlist(path)
		if err != nil {
			return err
		}
		existing = current
		if currentFormat == plist.BinaryFormat {
			format = plist.BinaryFormat
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	for k, v := range values {
		existing[k] = v
	}

	var data []byte
	var err error
	if format == plist.XMLFormat {
		data, err = plist.MarshalIndent(existing, format, "\t")
	} else {
		data, err = plist.Marshal(existing, format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
