package export

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/esphome-dash/designer-core/internal/compile"
	"github.com/esphome-dash/designer-core/internal/control"
	"github.com/esphome-dash/designer-core/internal/entity"
	"github.com/esphome-dash/designer-core/internal/project"
	"github.com/esphome-dash/designer-core/internal/transform"
)

// Marker comment prefixes carried through the snippet for round-trip
// import.
const (
	markerSchema  = "# designer:schema "
	markerPage    = "# designer:page "
	markerWidget  = "# designer:widget "
	markerControl = "# designer:control "
)

// Generator renders a layout into an ESPHome snippet.
type Generator struct {
	transforms *transform.Registry
	controls   *control.Registry
}

// NewGenerator creates a snippet generator. The control registry may be
// nil, in which case control instances compile as if their pages carried
// no instances.
func NewGenerator(transforms *transform.Registry, controls *control.Registry) *Generator {
	return &Generator{transforms: transforms, controls: controls}
}

// Generate compiles the layout and renders the full snippet text. Each
// call runs a fresh compiler; nothing is shared between exports.
//
// Control instances are expanded into widgets for compilation, but the
// round-trip markers serialise the original document so an import gets
// the instances back, not their expansion.
func (g *Generator) Generate(ctx context.Context, p *project.Project) (string, error) {
	compiled := p
	if g.controls != nil {
		compiled = g.controls.ExpandProject(ctx, p)
	}

	c := compile.New(g.transforms)
	c.AddProject(compiled)
	out := c.Result()

	var b strings.Builder
	b.WriteString("# Generated by esphome-dash designer. Paste below your base ESPHome config.\n")
	b.WriteString("# Do not edit the designer marker comments; import relies on them.\n")
	fmt.Fprintf(&b, "%s%d\n", markerSchema, p.SchemaVersion)

	if err := writeLayoutMarkers(&b, p); err != nil {
		return "", fmt.Errorf("encoding layout markers: %w", err)
	}

	writeSection(&b, "sensor", out.Sensors)
	writeSection(&b, "text_sensor", out.TextSensors)
	writeSection(&b, "binary_sensor", out.BinarySensors)
	writeScripts(&b, out.Actions)

	return b.String(), nil
}

func writeLayoutMarkers(b *strings.Builder, p *project.Project) error {
	for i := range p.Pages {
		page := &p.Pages[i]

		meta, err := json.Marshal(map[string]any{"id": page.ID, "name": page.Name, "icon": page.Icon})
		if err != nil {
			return err
		}
		b.WriteString(markerPage)
		b.Write(meta)
		b.WriteByte('\n')

		for j := range page.Widgets {
			encoded, err := json.Marshal(&page.Widgets[j])
			if err != nil {
				return err
			}
			b.WriteString(markerWidget)
			b.Write(encoded)
			b.WriteByte('\n')
		}

		for j := range page.Controls {
			encoded, err := json.Marshal(&page.Controls[j])
			if err != nil {
				return err
			}
			b.WriteString(markerControl)
			b.Write(encoded)
			b.WriteByte('\n')
		}
	}
	return nil
}

// writeSection emits one top-level declaration section, indenting each
// compiler block two spaces under the section key. Empty sections are
// omitted entirely.
func writeSection(b *strings.Builder, key string, blocks []string) {
	if len(blocks) == 0 {
		return
	}
	b.WriteByte('\n')
	b.WriteString(key)
	b.WriteString(":\n")
	for _, block := range blocks {
		for _, line := range strings.Split(block, "\n") {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
}

// writeScripts renders one ESPHome script per widget event, delay steps
// first when the binding debounces.
func writeScripts(b *strings.Builder, actions []compile.ActionList) {
	if len(actions) == 0 {
		return
	}
	b.WriteString("\nscript:\n")
	for _, list := range actions {
		fmt.Fprintf(b, "  - id: %s\n", scriptID(list.WidgetID, list.Event))
		b.WriteString("    mode: restart\n")
		b.WriteString("    then:\n")
		for _, step := range list.Steps {
			writeStep(b, list.WidgetID, step)
		}
	}
}

func writeStep(b *strings.Builder, widgetID string, step compile.Step) {
	switch step.Kind {
	case compile.StepDelay:
		fmt.Fprintf(b, "      - delay: %dms\n", step.DelayMs)
	case compile.StepServiceCall:
		b.WriteString("      - homeassistant.service:\n")
		fmt.Fprintf(b, "          service: %s\n", step.Service)
		b.WriteString("          data:\n")
		fmt.Fprintf(b, "            entity_id: %s\n", step.EntityID)
		for _, field := range sortedFields(step.Data) {
			writePayloadField(b, widgetID, field, step.Data[field])
		}
	}
}

func writePayloadField(b *strings.Builder, widgetID, field string, pv compile.PayloadValue) {
	switch pv.Kind {
	case compile.PayloadDeferred:
		// The live widget property is read when the event fires.
		fmt.Fprintf(b, "            %s: !lambda 'return id(%s).state;'\n",
			field, propertyID(widgetID, pv.Path))
	default:
		fmt.Fprintf(b, "            %s: %s\n", field, entity.Stringify(pv.Value))
	}
}

// scriptID derives the script identifier for a widget event.
func scriptID(widgetID, event string) string {
	return compile.SafeID(widgetID + "_" + event)
}

// propertyID derives the firmware identifier backing a widget property.
func propertyID(widgetID, path string) string {
	return compile.SafeID(widgetID + "_" + path)
}

// sortedFields keeps generated snippets diffable.
func sortedFields(data map[string]compile.PayloadValue) []string {
	fields := make([]string, 0, len(data))
	for f := range data {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
