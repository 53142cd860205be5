package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/esphome-dash/designer-core/internal/project"
)

// maxQueryParamLen limits query parameter length to prevent DoS via oversized URL params.
const maxQueryParamLen = 100

// handleGetLayout returns the working layout, creating an empty one on
// first access.
func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	p, err := s.projects.GetDefault(r.Context())
	if err != nil {
		s.logger.Error("failed to load working layout", "error", err)
		writeInternalError(w, "failed to load layout")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleSaveLayout replaces the working layout wholesale.
//
// The saved document feeds the live preview engine and a layout.changed
// event is broadcast so other editor tabs can reload.
func (s *Server) handleSaveLayout(w http.ResponseWriter, r *http.Request) {
	var p project.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if p.SchemaVersion == 0 {
		p.SchemaVersion = project.SchemaVersion
	}
	if err := project.CheckSchemaVersion(p.SchemaVersion); err != nil {
		writeDomainError(w, err)
		return
	}

	p.Touch()
	if err := s.projects.SetDefault(r.Context(), &p); err != nil {
		s.logger.Error("failed to save working layout", "error", err)
		writeInternalError(w, "failed to save layout")
		return
	}

	s.refreshPreview(r.Context(), &p)

	writeJSON(w, http.StatusOK, &p)
}

// refreshPreview pushes the new layout into the preview engine and notifies
// WebSocket clients. Control instances are expanded to widgets first so
// their bindings participate in live preview. Re-evaluating all bindings
// immediately gives the editor fresh values without waiting for the next
// entity change.
func (s *Server) refreshPreview(ctx context.Context, p *project.Project) {
	if s.preview != nil {
		s.preview.SetLayout(s.expandLayout(ctx, p))
		s.preview.EvaluateAll()
	}
	if s.hub != nil {
		s.hub.Broadcast(ChannelLayoutChanged, map[string]any{
			"id":         p.ID,
			"updated_at": p.UpdatedAt,
		})
	}
}

// expandLayout materialises control instances into widgets for the layout
// consumers (preview, snippet export). Without a control registry the
// layout passes through unchanged.
func (s *Server) expandLayout(ctx context.Context, p *project.Project) *project.Project {
	if s.controls == nil {
		return p
	}
	return s.controls.ExpandProject(ctx, p)
}
