package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/esphome-dash/designer-core/internal/entity"
)

// maxEntityResults caps the entity picker feed. A statestream with more
// tracked entities than this needs a narrower filter, not a bigger list.
const maxEntityResults = 1000

// handleListEntities returns entities from the statestream snapshot for
// the entity picker.
//
// Query parameters:
//   - domains: comma-separated domain filter (e.g. "light,switch")
//   - search: case-insensitive substring match on entity ID or friendly name
func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, map[string]any{"entities": []entity.State{}, "count": 0})
		return
	}

	var domains []string
	if raw := r.URL.Query().Get("domains"); raw != "" {
		if len(raw) > maxQueryParamLen {
			writeBadRequest(w, "domains exceeds maximum length")
			return
		}
		for _, d := range strings.Split(raw, ",") {
			d = strings.TrimSpace(d)
			if d != "" {
				domains = append(domains, d)
			}
		}
	}

	search := r.URL.Query().Get("search")
	if len(search) > maxQueryParamLen {
		writeBadRequest(w, "search exceeds maximum length")
		return
	}

	entities := s.store.List(domains, search, maxEntityResults)
	writeJSON(w, http.StatusOK, map[string]any{"entities": entities, "count": len(entities)})
}

// handleGetEntity returns the full editor view of one entity: its current
// state, derived capabilities, the control parameter schema, the default
// read and write bindings, a display summary, and the service catalogue.
// The editor calls this when an entity is dropped onto the canvas.
func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	entityID := chi.URLParam(r, "id")
	if entityID == "" || len(entityID) > maxQueryParamLen {
		writeBadRequest(w, "invalid entity id")
		return
	}

	var state *entity.State
	if s.store != nil {
		state = s.store.Get(entityID)
	}
	if state == nil {
		writeNotFound(w, "entity not found")
		return
	}

	a := s.adapters.ForEntity(state)
	caps := a.ExtractCapabilities(state)

	writeJSON(w, http.StatusOK, map[string]any{
		"entity":                 state,
		"capabilities":           caps,
		"state_display":          a.StateDisplay(state),
		"parameters":             a.Parameters(caps),
		"default_read_bindings":  a.DefaultReadBindings(caps),
		"default_write_bindings": a.DefaultWriteBindings(caps),
		"services":               a.Services(),
	})
}
