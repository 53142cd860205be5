package adapter

import (
	"github.com/esphome-dash/designer-core/internal/binding"
	"github.com/esphome-dash/designer-core/internal/entity"
)

// EntityParamID is the id of the always-required entity-selector parameter.
// Default bindings reference this parameter for their entity id.
const EntityParamID = "entity"

// StateDisplay is a short read-only summary of live entity state, used by
// the on-canvas preview (never by the compiler).
type StateDisplay struct {
	Text  string `json:"text"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// ServiceField describes one field of a service call for editor dropdowns.
type ServiceField struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Example     any    `json:"example,omitempty"`
}

// ServiceDescriptor is catalogue metadata for one Home Assistant service.
// It feeds UI dropdowns; the compiler never consumes it.
type ServiceDescriptor struct {
	Service     string         `json:"service"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Fields      []ServiceField `json:"fields,omitempty"`
}

// Adapter is the per-domain capability extraction and default-binding
// surface. Implementations must be pure: deterministic given the entity
// snapshot, no side effects, no panics on missing attributes.
type Adapter interface {
	// Domain returns the primary Home Assistant domain this adapter owns.
	Domain() string

	// Aliases returns additional domains this adapter also handles.
	Aliases() []string

	// Handles reports whether this adapter covers the entity's domain.
	Handles(s *entity.State) bool

	// ExtractCapabilities derives the capability set for an entity. The
	// result always contains the base fields (domain, entity_id,
	// friendly_name, available) extended with domain-specific entries.
	ExtractCapabilities(s *entity.State) Capabilities

	// Parameters derives the control parameter schema: the entity selector
	// first, then feature-gated toggles, then the colour parameters.
	Parameters(caps Capabilities) []binding.ControlParameter

	// DefaultReadBindings returns the feature-gated default read bindings.
	DefaultReadBindings(caps Capabilities) []binding.ReadBinding

	// DefaultWriteBindings returns the feature-gated default write bindings.
	DefaultWriteBindings(caps Capabilities) []binding.WriteBinding

	// StateDisplay summarises live state for the canvas preview.
	StateDisplay(s *entity.State) StateDisplay

	// Services returns the adapter's service catalogue.
	Services() []ServiceDescriptor
}

// base provides domain/alias bookkeeping shared by all adapters.
type base struct {
	domain  string
	aliases []string
}

func (b base) Domain() string    { return b.domain }
func (b base) Aliases() []string { return b.aliases }

// Handles matches the entity id's dot-prefix against the primary domain and
// aliases.
func (b base) Handles(s *entity.State) bool {
	if s == nil {
		return false
	}
	domain := s.Domain()
	if domain == b.domain {
		return true
	}
	for _, alias := range b.aliases {
		if domain == alias {
			return true
		}
	}
	return false
}

// entityParameter builds the always-required entity selector, optionally
// constrained to a set of domains.
func entityParameter(domains ...string) binding.ControlParameter {
	p := binding.ControlParameter{
		ID:       EntityParamID,
		Name:     "Entity",
		Type:     binding.ParamEntity,
		Required: true,
	}
	if len(domains) > 0 {
		p.DomainConstraint = &binding.DomainConstraint{Domains: domains}
	}
	return p
}

// colorParameters are appended to every adapter's parameter list.
func colorParameters() []binding.ControlParameter {
	return []binding.ControlParameter{
		{ID: "accent_color", Name: "Accent colour", Type: binding.ParamColor, DefaultValue: "#03a9f4"},
		{ID: "text_color", Name: "Text colour", Type: binding.ParamColor, DefaultValue: "#ffffff"},
	}
}

// placeholderPolicy is the common "show -- when the entity is away" policy
// used by numeric default bindings.
func placeholderPolicy(text string) binding.AvailabilityPolicy {
	return binding.AvailabilityPolicy{
		OnUnavailable:   binding.BehaviorShowPlaceholder,
		OnUnknown:       binding.BehaviorShowPlaceholder,
		PlaceholderText: text,
	}
}

// onOffMap is the standard "on"/"off" to boolean read transform config.
func onOffMap() map[string]any {
	return map[string]any{"map": map[string]any{"on": true, "off": false}, "default": false}
}
