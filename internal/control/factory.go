package control

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/esphome-dash/designer-core/internal/project"
)

// Default placement for new instances dropped without coordinates.
const (
	defaultInstanceX = 50
	defaultInstanceY = 50
)

// InstanceOptions configures CreateInstance. Zero values fall back to the
// defaults (x/y 50, the definition's default size, no parameters).
type InstanceOptions struct {
	X, Y          int
	Width, Height int
	Params        map[string]any
}

// CreateInstance places a definition on the canvas. Parameter defaults are
// merged under any explicitly supplied values; explicit wins.
func CreateInstance(def *Definition, opts InstanceOptions) project.ControlInstance {
	x, y := opts.X, opts.Y
	if x == 0 {
		x = defaultInstanceX
	}
	if y == 0 {
		y = defaultInstanceY
	}

	params := make(map[string]any, len(def.Parameters)+len(opts.Params))
	for _, p := range def.Parameters {
		if p.DefaultValue != nil {
			params[p.ID] = p.DefaultValue
		}
	}
	for k, v := range opts.Params {
		params[k] = v
	}

	return project.ControlInstance{
		ID:        uuid.NewString(),
		ControlID: def.ID,
		X:         x,
		Y:         y,
		Width:     opts.Width,
		Height:    opts.Height,
		Params:    params,
	}
}

// ExpandToWidgets materialises an instance into concrete widgets. Template
// widgets whose condition resolves falsy are skipped, and layout sizing
// divides the control's box among the survivors, not the full template.
func ExpandToWidgets(inst *project.ControlInstance, def *Definition) []project.Widget {
	params := inst.Params
	if params == nil {
		params = map[string]any{}
	}

	boxW, boxH := inst.Width, inst.Height
	if boxW == 0 {
		boxW = def.DefaultSize.Width
	}
	if boxH == 0 {
		boxH = def.DefaultSize.Height
	}

	if len(def.Template.Widgets) == 0 {
		return []project.Widget{placeholderWidget(inst, def.Name, boxW, boxH)}
	}

	var survivors []*TemplateWidget
	for i := range def.Template.Widgets {
		tw := &def.Template.Widgets[i]
		if evalCondition(tw.Condition, params) {
			survivors = append(survivors, tw)
		}
	}
	if len(survivors) == 0 {
		return nil
	}

	n := len(survivors)
	widgets := make([]project.Widget, 0, n)
	for i, tw := range survivors {
		// Widget ids derive from the instance id so re-expansion yields
		// the same ids across preview refreshes and exports.
		w := project.Widget{
			ID:    fmt.Sprintf("%s-%d", inst.ID, i),
			Type:  tw.Type,
			Props: resolveProps(tw.Props, params),
		}

		switch def.Template.Layout {
		case LayoutStack:
			w.X, w.Y = inst.X, inst.Y
			w.Width, w.Height = boxW, boxH
		case LayoutVertical:
			h := (boxH - layoutSpacing*(n-1)) / n
			w.X, w.Y = inst.X, inst.Y+i*(h+layoutSpacing)
			w.Width, w.Height = boxW, h
		case LayoutHorizontal:
			width := (boxW - layoutSpacing*(n-1)) / n
			w.X, w.Y = inst.X+i*(width+layoutSpacing), inst.Y
			w.Width, w.Height = width, boxH
		default:
			// single or unrecognised: declared size, or the control's box.
			w.X, w.Y = inst.X, inst.Y
			w.Width, w.Height = tw.Width, tw.Height
			if w.Width == 0 {
				w.Width = boxW
			}
			if w.Height == 0 {
				w.Height = boxH
			}
		}

		w.EntityID = propagatedEntity(w.Props)
		w.ReadBindings = append(w.ReadBindings, tw.ReadBindings...)
		w.WriteBindings = append(w.WriteBindings, tw.WriteBindings...)

		widgets = append(widgets, w)
	}
	return widgets
}

// ExpandProject returns a copy of the project with every page's control
// instances materialised into widgets, appended after the page's own
// widgets. An instance whose definition has been deleted expands to a
// placeholder widget; it never fails the whole expansion. The input
// project is not modified.
func (r *Registry) ExpandProject(ctx context.Context, p *project.Project) *project.Project {
	if p == nil {
		return nil
	}

	expanded := *p
	expanded.Pages = make([]project.Page, len(p.Pages))
	copy(expanded.Pages, p.Pages)

	for i := range expanded.Pages {
		page := &expanded.Pages[i]
		if len(page.Controls) == 0 {
			continue
		}

		widgets := make([]project.Widget, len(page.Widgets), len(page.Widgets)+len(page.Controls))
		copy(widgets, page.Widgets)

		for j := range page.Controls {
			inst := &page.Controls[j]
			def, err := r.Get(ctx, inst.ControlID)
			if err != nil {
				widgets = append(widgets, placeholderWidget(inst, "", inst.Width, inst.Height))
				continue
			}
			widgets = append(widgets, ExpandToWidgets(inst, def)...)
		}
		page.Widgets = widgets
	}
	return &expanded
}

// placeholderWidget stands in for an empty template, or an instance whose
// definition has been deleted.
func placeholderWidget(inst *project.ControlInstance, label string, w, h int) project.Widget {
	if label == "" {
		label = "Missing control"
	}
	return project.Widget{
		ID:     inst.ID + "-placeholder",
		Type:   "label",
		X:      inst.X,
		Y:      inst.Y,
		Width:  w,
		Height: h,
		Props:  map[string]any{"text": label, "placeholder": true},
	}
}

// propagatedEntity picks the widget's entity id from its resolved props:
// an `entity_id` key wins, then keys ending in `_entity` in sorted order.
// At most one entity propagates per widget.
func propagatedEntity(props map[string]any) string {
	if props == nil {
		return ""
	}
	if id, ok := props["entity_id"].(string); ok && id != "" {
		return id
	}

	var keys []string
	for k := range props {
		if strings.HasSuffix(k, "_entity") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if id, ok := props[k].(string); ok && id != "" {
			return id
		}
	}
	return ""
}
