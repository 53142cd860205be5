package preview

import (
	"sync"

	"github.com/esphome-dash/designer-core/internal/binding"
	"github.com/esphome-dash/designer-core/internal/entity"
	"github.com/esphome-dash/designer-core/internal/project"
	"github.com/esphome-dash/designer-core/internal/statestream"
	"github.com/esphome-dash/designer-core/internal/transform"
)

// Update is one widget's re-evaluated property values, published whenever
// a bound entity changes.
type Update struct {
	WidgetID string         `json:"widget_id"`
	Values   map[string]any `json:"values"`
}

// Logger is the minimal logging interface the engine needs.
type Logger interface {
	Debug(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}

// Engine re-evaluates widget read bindings as entity state changes.
//
// The engine holds its own copy of the working layout; SetLayout replaces
// it wholesale. All methods are safe for concurrent use.
type Engine struct {
	store      *statestream.Store
	transforms *transform.Registry
	publish    func(Update)
	logger     Logger

	mu      sync.RWMutex
	widgets map[string]*project.Widget // widget id -> widget
	byEnt   map[string][]string        // entity id -> widget ids, in page order

	unsubscribe func()
}

// NewEngine creates an engine publishing updates through the given function.
// The publish function is called on the statestream message goroutine and
// must not block.
func NewEngine(store *statestream.Store, transforms *transform.Registry, publish func(Update), logger Logger) *Engine {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Engine{
		store:      store,
		transforms: transforms,
		publish:    publish,
		logger:     logger,
		widgets:    make(map[string]*project.Widget),
		byEnt:      make(map[string][]string),
	}
}

// Start begins watching the statestream store. Idempotent.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.unsubscribe != nil {
		return
	}
	e.unsubscribe = e.store.OnChange(e.handleChange)
}

// Stop detaches from the store. Idempotent.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

// SetLayout replaces the layout under evaluation and rebuilds the
// entity-to-widget index. Widgets without an entity or without read
// bindings are not indexed; they have nothing to re-evaluate.
func (e *Engine) SetLayout(p *project.Project) {
	widgets := make(map[string]*project.Widget)
	byEnt := make(map[string][]string)

	if p != nil {
		for _, w := range p.AllWidgets() {
			if w.EntityID == "" || len(w.ReadBindings) == 0 {
				continue
			}
			widgets[w.ID] = w
			byEnt[w.EntityID] = append(byEnt[w.EntityID], w.ID)
		}
	}

	e.mu.Lock()
	e.widgets = widgets
	e.byEnt = byEnt
	e.mu.Unlock()

	e.logger.Debug("preview layout updated", "bound_widgets", len(widgets))
}

// EvaluateAll publishes a fresh update for every bound widget. Called when
// a client connects or the layout changes, so the canvas starts from
// current state instead of waiting for the next entity change.
func (e *Engine) EvaluateAll() []Update {
	e.mu.RLock()
	ids := make([]string, 0, len(e.widgets))
	for id := range e.widgets {
		ids = append(ids, id)
	}
	e.mu.RUnlock()

	updates := make([]Update, 0, len(ids))
	for _, id := range ids {
		if u, ok := e.evaluateWidget(id); ok {
			updates = append(updates, u)
			if e.publish != nil {
				e.publish(u)
			}
		}
	}
	return updates
}

// handleChange re-evaluates every widget bound to the changed entity.
func (e *Engine) handleChange(entityID string) {
	e.mu.RLock()
	ids := e.byEnt[entityID]
	e.mu.RUnlock()

	for _, id := range ids {
		if u, ok := e.evaluateWidget(id); ok && e.publish != nil {
			e.publish(u)
		}
	}
}

// evaluateWidget resolves one widget's read bindings against the current
// store contents. Only the widget's own entity is materialised into the
// evaluation snapshot; bindings never reach across widgets.
func (e *Engine) evaluateWidget(widgetID string) (Update, bool) {
	e.mu.RLock()
	w := e.widgets[widgetID]
	e.mu.RUnlock()
	if w == nil {
		return Update{}, false
	}

	snap := entity.Snapshot{}
	if st := e.store.Get(w.EntityID); st != nil {
		snap[w.EntityID] = st
	}

	params := make(map[string]any)
	for i := range w.ReadBindings {
		if p := w.ReadBindings[i].EntityParam; p != "" {
			params[p] = w.EntityID
		}
	}

	resolver := binding.NewResolver(snap, e.transforms)
	values := resolver.EvaluateAll(w.ReadBindings, params)
	return Update{WidgetID: widgetID, Values: values}, true
}
