package prefs

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/middleclick/middleclick/gesture"
	"gopkg.in/ini.v1"
)

func readIni(path string) (map[string]interface{}, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	section := file.Section("")
	values := make(map[string]interface{})
	for _, key := range gesture.Keys {
		if !section.HasKey(key) {
			continue
		}
		if key == gesture.KeyIgnoredAppBundles {
			values[key] = section.Key(key).Strings(",")
			continue
		}
		values[key] = section.Key(key).String()
	}

	return values, nil
}

func writeIni(path string, values map[string]interface{}) error {
	file := ini.Empty()
	if _, err := os.Stat(path); err == nil {
		file, err = ini.Load(path)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	section := file.Section("")
	for _, key := range gesture.Keys {
		section.Key(key).SetValue(iniValue(values[key]))
	}

	if err := file.SaveTo(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func iniValue(v interface{}) string {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, ",")
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
