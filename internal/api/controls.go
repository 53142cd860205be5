package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/esphome-dash/designer-core/internal/control"
)

// handleListControls returns all control definitions, built-ins first.
func (s *Server) handleListControls(w http.ResponseWriter, r *http.Request) {
	if s.controls == nil {
		writeJSON(w, http.StatusOK, map[string]any{"controls": []control.Definition{}, "count": 0})
		return
	}

	defs, err := s.controls.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list controls", "error", err)
		writeInternalError(w, "failed to list controls")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"controls": defs, "count": len(defs)})
}

// handleGetControl returns a single control definition by ID.
func (s *Server) handleGetControl(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid control ID")
		return
	}
	if s.controls == nil {
		writeNotFound(w, "control not found")
		return
	}

	def, err := s.controls.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// handleCreateControl creates a custom control definition.
func (s *Server) handleCreateControl(w http.ResponseWriter, r *http.Request) {
	if s.controls == nil {
		writeInternalError(w, "control registry not configured")
		return
	}

	var def control.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.controls.Create(r.Context(), &def); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, &def)
}

// handleUpdateControl updates a custom control definition.
// Built-in definitions are immutable and answered with 403.
func (s *Server) handleUpdateControl(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid control ID")
		return
	}
	if s.controls == nil {
		writeInternalError(w, "control registry not configured")
		return
	}

	var def control.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	def.ID = id

	if err := s.controls.Update(r.Context(), &def); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &def)
}

// handleDeleteControl deletes a custom control definition. Instances
// referencing it are left in place and render as placeholders.
func (s *Server) handleDeleteControl(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid control ID")
		return
	}
	if s.controls == nil {
		writeInternalError(w, "control registry not configured")
		return
	}

	if err := s.controls.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
