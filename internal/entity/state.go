package entity

import "strings"

// Home Assistant state tokens with special meaning for availability handling.
const (
	StateUnavailable = "unavailable"
	StateUnknown     = "unknown"
	StateOn          = "on"
	StateOff         = "off"
)

// State is a point-in-time view of a single Home Assistant entity.
type State struct {
	EntityID   string         `json:"entity_id"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Domain returns the entity's domain, the id prefix before the first dot.
// Returns "" for ids without a dot.
func (s *State) Domain() string {
	return Domain(s.EntityID)
}

// Attribute returns a named attribute value and whether it was present.
func (s *State) Attribute(name string) (any, bool) {
	if s == nil || s.Attributes == nil {
		return nil, false
	}
	v, ok := s.Attributes[name]
	return v, ok
}

// FriendlyName returns the friendly_name attribute, falling back to the
// entity id when unset.
func (s *State) FriendlyName() string {
	if v, ok := s.Attribute("friendly_name"); ok {
		if name, ok := v.(string); ok && name != "" {
			return name
		}
	}
	return s.EntityID
}

// Available reports whether the state token is a usable value
// (not "unavailable" and not "unknown").
func (s *State) Available() bool {
	return s != nil && s.State != StateUnavailable && s.State != StateUnknown
}

// DeepCopy creates an independent copy of the state. The attribute map is
// cloned recursively so callers can mutate the copy safely.
func (s *State) DeepCopy() *State {
	if s == nil {
		return nil
	}
	cpy := *s
	cpy.Attributes = deepCopyMap(s.Attributes)
	return &cpy
}

// Domain extracts the domain from an entity id ("light.kitchen" -> "light").
func Domain(entityID string) string {
	if i := strings.IndexByte(entityID, '.'); i > 0 {
		return entityID[:i]
	}
	return ""
}

// Snapshot is a read-only map of entity states keyed by entity id.
// It represents one evaluation's view of the world; the core never mutates it.
type Snapshot map[string]*State

// Get returns the state for an entity id, or nil if absent.
func (s Snapshot) Get(entityID string) *State {
	if s == nil {
		return nil
	}
	return s[entityID]
}

// deepCopyMap creates a deep copy of a map[string]any.
// Nested maps and slices are recursively copied.
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cpy := make(map[string]any, len(m))
	for k, v := range m {
		cpy[k] = deepCopyValue(v)
	}
	return cpy
}

// deepCopyValue recursively copies a value, handling nested maps and slices.
func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		cpy := make([]any, len(val))
		for i, elem := range val {
			cpy[i] = deepCopyValue(elem)
		}
		return cpy
	default:
		// Primitives are safe to copy by value
		return v
	}
}
