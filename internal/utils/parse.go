package utils

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile decodes a TOML file into v. Keys the file does not set keep
// whatever v already holds.
func LoadTOMLFile(path string, v any) error {
	if _, err := toml.DecodeFile(path, v); err != nil {
		log.Warnf("TOML parsing error in %s: %v. Attempting partial recovery...", path, err)
		return err
	}
	return nil
}

// ParseTOMLWithRecovery decodes a TOML file into a generic map, for callers
// that salvage individual sections after a typed decode failed.
func ParseTOMLWithRecovery(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw := make(map[string]any)
	if _, err := toml.Decode(string(data), &raw); err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v", path, err)
		return nil, err
	}
	return raw, nil
}

// ExtractSection returns a table from parsed TOML data.
func ExtractSection(data map[string]any, name string) (map[string]any, bool) {
	section, ok := data[name].(map[string]any)
	return section, ok
}

// ExtractInt returns an integer value. Whole floats are accepted.
func ExtractInt(data map[string]any, key string) (int, bool) {
	switch val := data[key].(type) {
	case int64:
		return int(val), true
	case float64:
		if val == float64(int64(val)) {
			return int(val), true
		}
	}
	return 0, false
}

// ExtractFloat returns a numeric value as float64.
func ExtractFloat(data map[string]any, key string) (float64, bool) {
	switch val := data[key].(type) {
	case float64:
		return val, true
	case int64:
		return float64(val), true
	}
	return 0, false
}

// ExtractBool returns a bool value.
func ExtractBool(data map[string]any, key string) (bool, bool) {
	val, ok := data[key].(bool)
	return val, ok
}

// ExtractString returns a string value.
func ExtractString(data map[string]any, key string) (string, bool) {
	val, ok := data[key].(string)
	return val, ok
}
