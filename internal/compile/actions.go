package compile

import (
	"github.com/esphome-dash/designer-core/internal/binding"
	"github.com/esphome-dash/designer-core/internal/project"
)

// StepKind discriminates action steps.
type StepKind string

// Action step kinds.
const (
	StepDelay       StepKind = "delay"
	StepServiceCall StepKind = "service_call"
)

// PayloadKind discriminates when a service data field gets its value.
type PayloadKind string

// Payload kinds. Static values are fixed at compile time; deferred values
// read the named widget property at the moment the event fires.
const (
	PayloadStatic   PayloadKind = "static"
	PayloadDeferred PayloadKind = "deferred"
)

// PayloadValue is one service data field.
type PayloadValue struct {
	Kind  PayloadKind `json:"kind"`
	Value any         `json:"value,omitempty"`
	Path  string      `json:"path,omitempty"`
}

// StaticValue builds a compile-time-fixed payload field.
func StaticValue(v any) PayloadValue {
	return PayloadValue{Kind: PayloadStatic, Value: v}
}

// DeferredProperty builds a payload field read from a widget property when
// the event fires.
func DeferredProperty(path string) PayloadValue {
	return PayloadValue{Kind: PayloadDeferred, Path: path}
}

// Step is one entry in an event's action list: either a delay or a
// service call.
type Step struct {
	Kind StepKind `json:"kind"`

	// Delay step.
	DelayMs int `json:"delay_ms,omitempty"`

	// Service call step.
	Service  string                  `json:"service,omitempty"`
	EntityID string                  `json:"entity_id,omitempty"`
	Data     map[string]PayloadValue `json:"data,omitempty"`
}

// ActionList is every step fired by one widget event, in order.
type ActionList struct {
	WidgetID string `json:"widget_id"`
	Event    string `json:"event"`
	Steps    []Step `json:"steps"`
}

// addWriteBindings compiles a widget's write bindings, grouped by event in
// first-seen order. A debounced binding with a positive delay contributes
// a delay step immediately before its service call.
func (c *Compiler) addWriteBindings(w *project.Widget) {
	if w.EntityID == "" || len(w.WriteBindings) == 0 {
		return
	}

	// Index of each event's ActionList within this widget's slice.
	local := make(map[string]int)
	var lists []ActionList

	for i := range w.WriteBindings {
		b := &w.WriteBindings[i]
		if b.Service == "" || b.Event == "" {
			continue
		}

		idx, ok := local[b.Event]
		if !ok {
			idx = len(lists)
			local[b.Event] = idx
			lists = append(lists, ActionList{WidgetID: w.ID, Event: b.Event})
		}

		if b.Debounced() && b.DelayMs() > 0 {
			lists[idx].Steps = append(lists[idx].Steps, Step{
				Kind:    StepDelay,
				DelayMs: b.DelayMs(),
			})
		}
		lists[idx].Steps = append(lists[idx].Steps, serviceCallStep(w, b))
	}

	c.out.Actions = append(c.out.Actions, lists...)
}

func serviceCallStep(w *project.Widget, b *binding.WriteBinding) Step {
	data := make(map[string]PayloadValue, len(b.StaticPayload)+len(b.DynamicPayload))
	for field, value := range b.StaticPayload {
		data[field] = StaticValue(value)
	}
	for path, field := range b.DynamicPayload {
		data[field] = DeferredProperty(path)
	}
	return Step{
		Kind:     StepServiceCall,
		Service:  b.Service,
		EntityID: w.EntityID,
		Data:     data,
	}
}
