package binding

import "github.com/esphome-dash/designer-core/internal/transform"

// Availability behaviours control how a read binding renders when its entity
// is unavailable or unknown.
type AvailabilityBehavior string

// AvailabilityBehavior constants.
const (
	// BehaviorHide removes the bound property from rendering entirely.
	BehaviorHide AvailabilityBehavior = "hide"

	// BehaviorDisable keeps the current value visible but marks the result
	// unavailable so the widget can render a disabled treatment.
	BehaviorDisable AvailabilityBehavior = "disable"

	// BehaviorShowPlaceholder substitutes the configured placeholder text.
	BehaviorShowPlaceholder AvailabilityBehavior = "show_placeholder"

	// BehaviorShowLast falls through to normal value extraction. The runtime
	// keeps no history, so "last" means whatever the snapshot currently holds.
	BehaviorShowLast AvailabilityBehavior = "show_last"
)

// Default placeholder texts per unavailability cause.
const (
	DefaultUnavailablePlaceholder = "--"
	DefaultUnknownPlaceholder     = "?"
)

// AvailabilityPolicy declares a binding's behaviour for the two Home
// Assistant pseudo-states.
type AvailabilityPolicy struct {
	OnUnavailable   AvailabilityBehavior `json:"on_unavailable,omitempty" yaml:"on_unavailable,omitempty"`
	OnUnknown       AvailabilityBehavior `json:"on_unknown,omitempty" yaml:"on_unknown,omitempty"`
	PlaceholderText string               `json:"placeholder_text,omitempty" yaml:"placeholder_text,omitempty"`
}

// ReadBinding maps entity state onto a widget property.
type ReadBinding struct {
	ID string `json:"id" yaml:"id"`

	// EntityParam names the control parameter that supplies the entity id.
	EntityParam string `json:"entity_param" yaml:"entity_param"`

	// Attribute selects an entity attribute; empty means the state itself.
	Attribute string `json:"attribute,omitempty" yaml:"attribute,omitempty"`

	// TargetProperty is the dot path written into the widget's resolved
	// property tree, e.g. "props.value".
	TargetProperty string `json:"target_property" yaml:"target_property"`

	// Transform names a registered value transform; empty means identity.
	Transform       string             `json:"transform,omitempty" yaml:"transform,omitempty"`
	TransformConfig transform.Config   `json:"transform_config,omitempty" yaml:"transform_config,omitempty"`
	Availability    AvailabilityPolicy `json:"availability,omitempty" yaml:"availability,omitempty"`
}

// TransformName returns the configured transform, defaulting to identity.
func (b *ReadBinding) TransformName() string {
	if b.Transform == "" {
		return "identity"
	}
	return b.Transform
}

// WriteBinding maps a widget event onto a Home Assistant service call.
type WriteBinding struct {
	ID string `json:"id" yaml:"id"`

	// Event is the widget event name, e.g. "on_click".
	Event string `json:"event" yaml:"event"`

	// Service is the "domain.service" to invoke.
	Service string `json:"service" yaml:"service"`

	// EntityParam names the control parameter that supplies the entity id.
	EntityParam string `json:"entity_param" yaml:"entity_param"`

	// StaticPayload fields are embedded into the call verbatim.
	StaticPayload map[string]any `json:"static_payload,omitempty" yaml:"static_payload,omitempty"`

	// DynamicPayload maps a widget property dot path to a service field; the
	// property is read when the event fires, not at compile time.
	DynamicPayload map[string]string `json:"dynamic_payload,omitempty" yaml:"dynamic_payload,omitempty"`

	// ConfirmPrompt, when non-empty, is advisory metadata: the consuming UI
	// should ask before invoking the service.
	ConfirmPrompt string `json:"confirm_prompt,omitempty" yaml:"confirm_prompt,omitempty"`

	// Debounce defaults to true when nil.
	Debounce   *bool `json:"debounce,omitempty" yaml:"debounce,omitempty"`
	DebounceMs int   `json:"debounce_ms,omitempty" yaml:"debounce_ms,omitempty"`
}

// defaultDebounceMs applies when a debounced binding does not set a delay.
const defaultDebounceMs = 500

// Debounced reports whether the binding debounces its service call.
func (b *WriteBinding) Debounced() bool {
	return b.Debounce == nil || *b.Debounce
}

// DelayMs returns the effective debounce delay in milliseconds.
func (b *WriteBinding) DelayMs() int {
	if b.DebounceMs > 0 {
		return b.DebounceMs
	}
	return defaultDebounceMs
}

// ParameterType enumerates the kinds of control parameters.
type ParameterType string

// ParameterType constants.
const (
	ParamEntity  ParameterType = "entity"
	ParamString  ParameterType = "string"
	ParamNumber  ParameterType = "number"
	ParamBoolean ParameterType = "boolean"
	ParamColor   ParameterType = "color"
	ParamIcon    ParameterType = "icon"
	ParamSelect  ParameterType = "select"
)

// DomainConstraint restricts an entity parameter to a set of domains.
type DomainConstraint struct {
	Domains []string `json:"domains" yaml:"domains"`
}

// ControlParameter describes one exposed parameter of a control definition.
// Identifiers are unique within one definition's parameter list.
type ControlParameter struct {
	ID               string            `json:"id" yaml:"id"`
	Name             string            `json:"name" yaml:"name"`
	Type             ParameterType     `json:"type" yaml:"type"`
	Required         bool              `json:"required,omitempty" yaml:"required,omitempty"`
	DefaultValue     any               `json:"default_value,omitempty" yaml:"default_value,omitempty"`
	DomainConstraint *DomainConstraint `json:"domain_constraint,omitempty" yaml:"domain_constraint,omitempty"`
	Min              *float64          `json:"min,omitempty" yaml:"min,omitempty"`
	Max              *float64          `json:"max,omitempty" yaml:"max,omitempty"`
	Step             *float64          `json:"step,omitempty" yaml:"step,omitempty"`
	Options          []string          `json:"options,omitempty" yaml:"options,omitempty"`
}

// boolPtr is a convenience for building WriteBinding literals.
func boolPtr(b bool) *bool { return &b }

// NoDebounce marks a write binding as undebounced.
func NoDebounce() *bool { return boolPtr(false) }
