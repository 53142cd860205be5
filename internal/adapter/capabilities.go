package adapter

import (
	"github.com/esphome-dash/designer-core/internal/entity"
)

// Capabilities is an adapter-derived view of what one entity can do, as a
// JSON-ish map. It is recomputed on every evaluation and never persisted.
//
// Every capability set contains the base keys written by baseCapabilities;
// adapters extend (never replace) that map with domain-specific entries.
//
// Examples:
//   - Light: {"supports_brightness": true, "brightness": 128}
//   - Climate: {"min_temp": 7, "max_temp": 35, "hvac_modes": [...]}
type Capabilities map[string]any

// baseCapabilities extracts the fields every capability set carries.
func baseCapabilities(s *entity.State) Capabilities {
	if s == nil {
		return Capabilities{
			"domain":        "",
			"entity_id":     "",
			"friendly_name": "",
			"available":     false,
		}
	}
	return Capabilities{
		"domain":        s.Domain(),
		"entity_id":     s.EntityID,
		"friendly_name": s.FriendlyName(),
		"available":     s.Available(),
	}
}

// Domain returns the entity's domain.
func (c Capabilities) Domain() string { return c.str("domain") }

// EntityID returns the entity id.
func (c Capabilities) EntityID() string { return c.str("entity_id") }

// FriendlyName returns the display name.
func (c Capabilities) FriendlyName() string { return c.str("friendly_name") }

// Available reports whether the entity had a usable state at extraction.
func (c Capabilities) Available() bool { return c.Flag("available") }

// Flag returns a boolean capability, false when absent.
func (c Capabilities) Flag(key string) bool {
	if c == nil {
		return false
	}
	b, _ := c[key].(bool)
	return b
}

// Float returns a numeric capability, or def when absent.
func (c Capabilities) Float(key string, def float64) float64 {
	if c == nil {
		return def
	}
	if f, ok := entity.ToFloat(c[key]); ok {
		return f
	}
	return def
}

// Strings returns a string-list capability, nil when absent.
func (c Capabilities) Strings(key string) []string {
	if c == nil {
		return nil
	}
	list, _ := c[key].([]string)
	return list
}

func (c Capabilities) str(key string) string {
	if c == nil {
		return ""
	}
	s, _ := c[key].(string)
	return s
}

// supportedFeatures reads the entity's supported_features bitmask.
func supportedFeatures(s *entity.State) int {
	v, _ := s.Attribute("supported_features")
	bits, _ := entity.ToInt(v)
	return bits
}

// attrFloat reads a numeric attribute with a fallback default.
func attrFloat(s *entity.State, name string, def float64) float64 {
	v, ok := s.Attribute(name)
	if !ok {
		return def
	}
	if f, ok := entity.ToFloat(v); ok {
		return f
	}
	return def
}

// attrString reads a string attribute, "" when absent.
func attrString(s *entity.State, name string) string {
	v, _ := s.Attribute(name)
	str, _ := v.(string)
	return str
}

// attrStrings reads a list attribute as strings, skipping non-string items.
func attrStrings(s *entity.State, name string) []string {
	v, ok := s.Attribute(name)
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}
