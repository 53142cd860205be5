package project

import (
	"time"

	"github.com/google/uuid"

	"github.com/esphome-dash/designer-core/internal/binding"
)

// Schema versioning for stored documents.
const (
	// SchemaVersion is the version written into new documents.
	SchemaVersion = 2

	// MinSchemaVersion is the oldest version this build can still load.
	MinSchemaVersion = 1
)

// Widget is a single positioned element on a page.
//
// Widgets are created by control expansion or directly in the editor.
// A widget that carries an entity id and read/write bindings participates
// in binding resolution and compilation; a bare widget is static chrome.
type Widget struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	// EntityID is the bound Home Assistant entity, "" when unbound.
	EntityID string `json:"entity_id,omitempty"`

	// Props are free-form widget properties (label text, colours, state
	// values written by read bindings).
	Props map[string]any `json:"props,omitempty"`

	ReadBindings  []binding.ReadBinding  `json:"read_bindings,omitempty"`
	WriteBindings []binding.WriteBinding `json:"write_bindings,omitempty"`
}

// HasBindings reports whether the widget carries any bindings at all.
func (w *Widget) HasBindings() bool {
	return w != nil && (len(w.ReadBindings) > 0 || len(w.WriteBindings) > 0)
}

// ControlInstance places one control definition on a page with bound
// parameter values. Width/Height of 0 mean "use the definition's default
// size". Deleting the referenced definition orphans the instance; the
// renderer shows a placeholder rather than cascading the delete.
type ControlInstance struct {
	ID        string         `json:"id"`
	ControlID string         `json:"control_id"`
	X         int            `json:"x"`
	Y         int            `json:"y"`
	Width     int            `json:"width,omitempty"`
	Height    int            `json:"height,omitempty"`
	Params    map[string]any `json:"parameter_values,omitempty"`
}

// Page is one screen of the dashboard.
type Page struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Icon     string            `json:"icon,omitempty"`
	Widgets  []Widget          `json:"widgets"`
	Controls []ControlInstance `json:"controls,omitempty"`
}

// Project is the persisted document: metadata plus pages.
type Project struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	SchemaVersion int       `json:"schema_version"`
	Pages         []Page    `json:"pages"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// New creates an empty project with a fresh id, the current schema version
// and one blank page.
func New(name string) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:            uuid.NewString(),
		Name:          name,
		SchemaVersion: SchemaVersion,
		Pages: []Page{
			{ID: uuid.NewString(), Name: "Page 1", Widgets: []Widget{}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AllWidgets returns every widget across every page, in page order. The
// returned slice holds pointers into the project so callers can resolve
// in place.
func (p *Project) AllWidgets() []*Widget {
	if p == nil {
		return nil
	}
	var out []*Widget
	for i := range p.Pages {
		for j := range p.Pages[i].Widgets {
			out = append(out, &p.Pages[i].Widgets[j])
		}
	}
	return out
}

// FindWidget locates a widget by id across all pages, nil when absent.
func (p *Project) FindWidget(id string) *Widget {
	for _, w := range p.AllWidgets() {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// Touch updates the modification timestamp.
func (p *Project) Touch() {
	p.UpdatedAt = time.Now().UTC()
}
