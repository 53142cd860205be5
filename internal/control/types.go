package control

import (
	"time"

	"github.com/esphome-dash/designer-core/internal/binding"
)

// Layout modes for template expansion.
const (
	// LayoutStack layers every widget over the control's full box.
	LayoutStack = "stack"

	// LayoutVertical stacks widgets top to bottom at full width, splitting
	// the control height evenly with fixed spacing between rows.
	LayoutVertical = "vertical"

	// LayoutHorizontal is the x-axis mirror of vertical.
	LayoutHorizontal = "horizontal"

	// LayoutSingle keeps each widget's own declared size. Any unknown
	// layout string behaves the same way.
	LayoutSingle = "single"
)

// layoutSpacing is the gap in pixels between stacked siblings.
const layoutSpacing = 8

// Size is a width/height pair in canvas pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// TemplateWidget is one widget blueprint inside a control template. String
// values in Props may contain `{{param}}` placeholders resolved at
// expansion time.
type TemplateWidget struct {
	Type string `json:"type"`

	// Condition, when set, is a placeholder expression; the widget is
	// skipped when it resolves falsy. Skipped widgets do not count toward
	// layout sizing.
	Condition string `json:"condition,omitempty"`

	// Width/Height apply only in single layout; 0 means the control's box.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	Props map[string]any `json:"props,omitempty"`

	ReadBindings  []binding.ReadBinding  `json:"read_bindings,omitempty"`
	WriteBindings []binding.WriteBinding `json:"write_bindings,omitempty"`
}

// Template is a control definition's widget blueprint list plus its layout
// mode.
type Template struct {
	Layout  string           `json:"layout"`
	Widgets []TemplateWidget `json:"widgets"`
}

// Definition describes one reusable control: its parameter schema, widget
// template and default footprint. Built-in definitions are immutable;
// custom ones are editable through the registry.
type Definition struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	Category    string                     `json:"category"`
	Description string                     `json:"description,omitempty"`
	Parameters  []binding.ControlParameter `json:"parameters"`
	Template    Template                   `json:"template"`
	DefaultSize Size                       `json:"default_size"`

	// Builtin marks code-registered definitions; they cannot be updated or
	// deleted through the registry.
	Builtin bool `json:"builtin,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Parameter returns the parameter with the given id, nil when absent.
func (d *Definition) Parameter(id string) *binding.ControlParameter {
	for i := range d.Parameters {
		if d.Parameters[i].ID == id {
			return &d.Parameters[i]
		}
	}
	return nil
}

// DeepCopy creates an independent copy of the definition so cached
// instances cannot be mutated by callers.
func (d *Definition) DeepCopy() *Definition {
	if d == nil {
		return nil
	}
	cpy := *d

	cpy.Parameters = make([]binding.ControlParameter, len(d.Parameters))
	for i, p := range d.Parameters {
		cpy.Parameters[i] = copyParameter(p)
	}

	cpy.Template.Widgets = make([]TemplateWidget, len(d.Template.Widgets))
	for i, tw := range d.Template.Widgets {
		w := tw
		w.Props = copyValueMap(tw.Props)
		w.ReadBindings = append([]binding.ReadBinding(nil), tw.ReadBindings...)
		w.WriteBindings = append([]binding.WriteBinding(nil), tw.WriteBindings...)
		cpy.Template.Widgets[i] = w
	}
	return &cpy
}

func copyParameter(p binding.ControlParameter) binding.ControlParameter {
	if p.DomainConstraint != nil {
		dc := binding.DomainConstraint{Domains: append([]string(nil), p.DomainConstraint.Domains...)}
		p.DomainConstraint = &dc
	}
	p.Min = copyFloatPtr(p.Min)
	p.Max = copyFloatPtr(p.Max)
	p.Step = copyFloatPtr(p.Step)
	p.Options = append([]string(nil), p.Options...)
	return p
}

func copyFloatPtr(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func copyValueMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cpy := make(map[string]any, len(m))
	for k, v := range m {
		cpy[k] = copyValue(v)
	}
	return cpy
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyValueMap(val)
	case []any:
		cpy := make([]any, len(val))
		for i, item := range val {
			cpy[i] = copyValue(item)
		}
		return cpy
	default:
		return v
	}
}
