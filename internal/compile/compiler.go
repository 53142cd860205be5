package compile

import (
	"fmt"

	"github.com/esphome-dash/designer-core/internal/binding"
	"github.com/esphome-dash/designer-core/internal/project"
	"github.com/esphome-dash/designer-core/internal/transform"
)

// RefreshAction marks one widget as needing re-render when its entity's
// declared sensor reports a new value.
type RefreshAction struct {
	WidgetID string `json:"widget_id"`
}

// Output is everything one compilation run produces. The export layer
// embeds these into the final snippet document.
type Output struct {
	// Declaration blocks per section, in first-registration order.
	Sensors       []string
	TextSensors   []string
	BinarySensors []string

	// Refreshes maps entity id to the widgets reading it, each widget at
	// most once per entity.
	Refreshes map[string][]RefreshAction

	// Expressions maps "widgetID/bindingID" to the compiled display lambda
	// for that read binding. Bindings whose transform compiles to an opaque
	// styling marker are omitted; they never render as expressions.
	Expressions map[string]string

	// Actions holds the per-widget, per-event write action lists in widget
	// processing order.
	Actions []ActionList
}

// Compiler accumulates one export run. Zero value is not usable; call New.
// A Compiler must not be shared across concurrent runs.
type Compiler struct {
	transforms *transform.Registry

	registered map[string]bool
	kinds      map[string]DeclKind

	out Output

	refreshSeen map[string]map[string]bool
	eventIndex  map[string]int
}

// New creates an empty compiler for a single export run.
func New(transforms *transform.Registry) *Compiler {
	return &Compiler{
		transforms: transforms,
		registered: make(map[string]bool),
		kinds:      make(map[string]DeclKind),
		out: Output{
			Refreshes:   make(map[string][]RefreshAction),
			Expressions: make(map[string]string),
		},
		refreshSeen: make(map[string]map[string]bool),
		eventIndex:  make(map[string]int),
	}
}

// AddProject feeds every widget of every page through the compiler, in
// page order.
func (c *Compiler) AddProject(p *project.Project) {
	for _, w := range p.AllWidgets() {
		c.AddWidget(w)
	}
}

// AddWidget registers a widget's read bindings (declaration, refresh
// association, compiled expression) and compiles its write bindings into
// action lists. Widgets without an entity id contribute nothing; a missing
// entity is a degradation case, never an error.
func (c *Compiler) AddWidget(w *project.Widget) {
	if w == nil || !w.HasBindings() {
		return
	}

	for i := range w.ReadBindings {
		c.addReadBinding(w, &w.ReadBindings[i])
	}
	c.addWriteBindings(w)
}

// Result returns the accumulated output. The compiler may continue to
// accept widgets afterwards; Result is just a view of the current state.
func (c *Compiler) Result() *Output {
	return &c.out
}

func (c *Compiler) addReadBinding(w *project.Widget, b *binding.ReadBinding) {
	entityID := w.EntityID
	if entityID == "" {
		return
	}

	safeID := c.registerDeclaration(entityID, b.Attribute)
	c.recordRefresh(entityID, w.ID)

	expr := c.generateReadLambda(safeID, c.kinds[safeID], b)
	if expr == "" {
		return
	}
	c.out.Expressions[w.ID+"/"+b.ID] = expr
}

// registerDeclaration adds the declaration block for an entity on first
// sight and returns its safe id. Re-registration is a no-op.
func (c *Compiler) registerDeclaration(entityID, attribute string) string {
	safeID := SafeID(entityID)
	if c.registered[safeID] {
		return safeID
	}
	c.registered[safeID] = true

	kind := KindForEntity(entityID)
	c.kinds[safeID] = kind

	block := declarationBlock(safeID, entityID, attribute)
	switch kind {
	case KindBinarySensor:
		c.out.BinarySensors = append(c.out.BinarySensors, block)
	case KindTextSensor:
		c.out.TextSensors = append(c.out.TextSensors, block)
	default:
		c.out.Sensors = append(c.out.Sensors, block)
	}
	return safeID
}

// recordRefresh associates a widget with an entity, once per pair.
func (c *Compiler) recordRefresh(entityID, widgetID string) {
	seen := c.refreshSeen[entityID]
	if seen == nil {
		seen = make(map[string]bool)
		c.refreshSeen[entityID] = seen
	}
	if seen[widgetID] {
		return
	}
	seen[widgetID] = true
	c.out.Refreshes[entityID] = append(c.out.Refreshes[entityID], RefreshAction{WidgetID: widgetID})
}

// declarationBlock renders one homeassistant platform entry. The shape is
// fixed: one field per line, two-space nesting, attribute only when set.
func declarationBlock(safeID, entityID, attribute string) string {
	block := "- platform: homeassistant\n" +
		"  id: " + safeID + "\n" +
		"  entity_id: " + entityID + "\n"
	if attribute != "" {
		block += "  attribute: " + attribute + "\n"
	}
	return block + "  internal: true"
}

// generateReadLambda compiles one read binding into a display expression.
// Returns "" for transforms that compile to opaque styling markers; those
// are resolved by the preview layer, not embedded in the snippet.
func (c *Compiler) generateReadLambda(safeID string, kind DeclKind, b *binding.ReadBinding) string {
	base := fmt.Sprintf("id(%s).state", safeID)

	expr := base
	if name := b.TransformName(); name != "identity" {
		expr = c.transforms.ToTargetExpression(name, base, b.TransformConfig)
	}
	if expr == transform.MarkerStateToColor || expr == transform.MarkerStateToIcon {
		return ""
	}

	if !wantsPlaceholder(b.Availability) {
		return expr
	}

	placeholder := b.Availability.PlaceholderText
	if placeholder == "" {
		placeholder = binding.DefaultUnavailablePlaceholder
	}

	// Numeric sensors report NaN until the first value arrives; text and
	// binary sensors expose has_state() instead.
	var guard string
	if kind == KindSensor {
		guard = fmt.Sprintf("isnan(%s)", base)
	} else {
		guard = fmt.Sprintf("!id(%s).has_state()", safeID)
	}
	return fmt.Sprintf("%s ? %q : (%s)", guard, placeholder, expr)
}

func wantsPlaceholder(p binding.AvailabilityPolicy) bool {
	return p.OnUnavailable == binding.BehaviorShowPlaceholder ||
		p.OnUnknown == binding.BehaviorShowPlaceholder
}
