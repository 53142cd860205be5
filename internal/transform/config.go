package transform

import (
	"sort"

	"github.com/esphome-dash/designer-core/internal/entity"
)

// Config holds per-binding transform configuration as a JSON map.
// Each transform reads only the keys it documents; unknown keys are ignored.
//
// Examples:
//   - percent:  {"max": 255}
//   - map:      {"map": {"on": true, "off": false}, "default": "?"}
//   - format:   {"precision": 1, "unit": "°C"}
type Config map[string]any

// Float returns a numeric config value, or def when absent or non-numeric.
func (c Config) Float(key string, def float64) float64 {
	if c == nil {
		return def
	}
	if f, ok := entity.ToFloat(c[key]); ok {
		return f
	}
	return def
}

// Int returns an integer config value, or def when absent or non-numeric.
func (c Config) Int(key string, def int) int {
	if c == nil {
		return def
	}
	if i, ok := entity.ToInt(c[key]); ok {
		return i
	}
	return def
}

// String returns a string config value, or def when absent or not a string.
func (c Config) String(key, def string) string {
	if c == nil {
		return def
	}
	if s, ok := c[key].(string); ok {
		return s
	}
	return def
}

// Bool returns a boolean config value, or def when absent or not a bool.
func (c Config) Bool(key string, def bool) bool {
	if c == nil {
		return def
	}
	if b, ok := c[key].(bool); ok {
		return b
	}
	return def
}

// Map returns a nested map config value, or nil when absent.
func (c Config) Map(key string) map[string]any {
	if c == nil {
		return nil
	}
	if m, ok := c[key].(map[string]any); ok {
		return m
	}
	return nil
}

// Has reports whether a key is present, regardless of its value.
func (c Config) Has(key string) bool {
	if c == nil {
		return false
	}
	_, ok := c[key]
	return ok
}

// sortedKeys returns map keys in sorted order. JSON decoding loses the
// declaration order of object keys, so sorted order is the canonical
// iteration order for deterministic expression output.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
