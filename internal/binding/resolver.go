package binding

import (
	"fmt"
	"strings"

	"github.com/esphome-dash/designer-core/internal/entity"
	"github.com/esphome-dash/designer-core/internal/transform"
)

// HiddenKey marks a property subtree as hidden in EvaluateAll output.
const HiddenKey = "__hidden"

// Result is the tri-state outcome of evaluating one read binding:
// a value, a placeholder, or hidden.
type Result struct {
	Value       any    `json:"value"`
	Available   bool   `json:"available"`
	Placeholder string `json:"placeholder,omitempty"`
	Hidden      bool   `json:"hidden,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}

// ServiceCall is the normalised descriptor of a simulated write-binding
// execution.
type ServiceCall struct {
	Service    string         `json:"service"`
	Data       map[string]any `json:"data"`
	Confirm    string         `json:"confirm,omitempty"`
	Debounce   bool           `json:"debounce"`
	DebounceMs int            `json:"debounce_ms"`
}

// Resolver evaluates bindings against one entity snapshot. It holds no
// mutable state: the same resolver can evaluate any number of bindings, and
// repeated evaluation against an unchanged snapshot is idempotent.
type Resolver struct {
	snapshot   entity.Snapshot
	transforms *transform.Registry
}

// NewResolver creates a resolver over a snapshot. The transform registry
// must not be nil.
func NewResolver(snapshot entity.Snapshot, transforms *transform.Registry) *Resolver {
	return &Resolver{
		snapshot:   snapshot,
		transforms: transforms,
	}
}

// EvaluateReadBinding resolves one read binding against the snapshot.
//
// Resolution order:
//  1. The entity parameter must resolve to a non-empty entity id.
//  2. The entity must exist in the snapshot.
//  3. "unavailable" and "unknown" states are governed by the binding's
//     availability policy.
//  4. Otherwise the attribute (or state) is extracted and transformed.
func (r *Resolver) EvaluateReadBinding(b *ReadBinding, params map[string]any) Result {
	entityID := r.entityID(b.EntityParam, params)
	if entityID == "" {
		return Result{Available: false, Placeholder: "No entity"}
	}

	state := r.snapshot.Get(entityID)
	if state == nil {
		return Result{Available: false, Placeholder: r.placeholder(b, DefaultUnavailablePlaceholder)}
	}

	switch state.State {
	case entity.StateUnavailable:
		if res, done := r.applyPolicy(b, state, b.Availability.OnUnavailable, DefaultUnavailablePlaceholder); done {
			return res
		}
	case entity.StateUnknown:
		if res, done := r.applyPolicy(b, state, b.Availability.OnUnknown, DefaultUnknownPlaceholder); done {
			return res
		}
	}

	return Result{
		Value:     r.extract(b, state),
		Available: true,
	}
}

// applyPolicy handles one availability behaviour. done=false means the
// binding falls through to normal value extraction (show_last).
func (r *Resolver) applyPolicy(b *ReadBinding, state *entity.State, behavior AvailabilityBehavior, defaultPlaceholder string) (Result, bool) {
	switch behavior {
	case BehaviorHide:
		return Result{Available: false, Hidden: true}, true
	case BehaviorDisable:
		return Result{Value: r.extract(b, state), Available: false, Disabled: true}, true
	case BehaviorShowLast:
		// Stale values are not distinguished from fresh ones: the runtime
		// keeps no history, so "last" is whatever the snapshot holds.
		return Result{}, false
	case BehaviorShowPlaceholder:
		fallthrough
	default:
		return Result{Available: false, Placeholder: r.placeholder(b, defaultPlaceholder)}, true
	}
}

// extract pulls the bound value from a state and applies the transform.
func (r *Resolver) extract(b *ReadBinding, state *entity.State) any {
	var raw any
	if b.Attribute != "" {
		raw, _ = state.Attribute(b.Attribute)
	} else {
		raw = state.State
	}
	return r.transforms.Apply(b.TransformName(), raw, b.TransformConfig)
}

// placeholder returns the binding's placeholder text, or a default.
func (r *Resolver) placeholder(b *ReadBinding, def string) string {
	if b.Availability.PlaceholderText != "" {
		return b.Availability.PlaceholderText
	}
	return def
}

// entityID resolves the entity parameter to an entity id string.
func (r *Resolver) entityID(param string, params map[string]any) string {
	if param == "" || params == nil {
		return ""
	}
	if id, ok := params[param].(string); ok {
		return id
	}
	return ""
}

// EvaluateAll resolves many read bindings into a nested property tree keyed
// by each binding's target property path. Evaluation follows slice order;
// later bindings targeting the same path overwrite earlier ones.
//
// Hidden results are written as a {"__hidden": true} subtree, placeholder
// results as the placeholder string.
func (r *Resolver) EvaluateAll(bindings []ReadBinding, params map[string]any) map[string]any {
	out := make(map[string]any)
	for i := range bindings {
		b := &bindings[i]
		if b.TargetProperty == "" {
			continue
		}
		res := r.EvaluateReadBinding(b, params)

		var value any
		switch {
		case res.Hidden:
			value = map[string]any{HiddenKey: true}
		case !res.Available && res.Placeholder != "":
			value = res.Placeholder
		default:
			value = res.Value
		}
		setPath(out, b.TargetProperty, value)
	}
	return out
}

// SimulateWriteBinding builds the service-call descriptor a write binding
// would fire, without invoking anything.
//
// Dynamic payload fields resolve against eventData first, then parameter
// values; a path undefined in both is omitted from the call entirely.
func (r *Resolver) SimulateWriteBinding(b *WriteBinding, params, eventData map[string]any) (*ServiceCall, error) {
	entityID := r.entityID(b.EntityParam, params)
	if entityID == "" {
		return nil, fmt.Errorf("%w: parameter %q", ErrEntityUnresolved, b.EntityParam)
	}

	data := map[string]any{"entity_id": entityID}
	for field, value := range b.StaticPayload {
		data[field] = value
	}
	for path, field := range b.DynamicPayload {
		if v, ok := lookupPath(eventData, path); ok {
			data[field] = v
			continue
		}
		if v, ok := lookupPath(params, path); ok {
			data[field] = v
		}
	}

	return &ServiceCall{
		Service:    b.Service,
		Data:       data,
		Confirm:    b.ConfirmPrompt,
		Debounce:   b.Debounced(),
		DebounceMs: b.DelayMs(),
	}, nil
}

// setPath writes a value at a dot path, creating intermediate maps. A
// non-map intermediate value is replaced by a map.
func setPath(m map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	for i, part := range parts {
		if i == len(parts)-1 {
			m[part] = value
			return
		}
		next, ok := m[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[part] = next
		}
		m = next
	}
}

// lookupPath reads a value at a dot path. Returns false when any segment is
// missing or a non-map intermediate is hit.
func lookupPath(m map[string]any, path string) (any, bool) {
	if m == nil || path == "" {
		return nil, false
	}
	parts := strings.Split(path, ".")
	var cur any = m
	for _, part := range parts {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = node[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
