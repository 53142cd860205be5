package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/esphome-dash/designer-core/internal/project"
)

// handleListProjects returns all saved projects.
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list projects", "error", err)
		writeInternalError(w, "failed to list projects")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects, "count": len(projects)})
}

// handleGetProject returns a single project by ID.
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid project ID")
		return
	}

	p, err := s.projects.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleCreateProject creates a new project. A body with only a name gets
// a fresh empty document; a full document is stored as sent (the editor
// uses this for "save as").
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var p project.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if strings.TrimSpace(p.Name) == "" {
		writeBadRequest(w, "project name is required")
		return
	}

	if len(p.Pages) == 0 {
		fresh := project.New(p.Name)
		fresh.ID = p.ID
		p = *fresh
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.SchemaVersion == 0 {
		p.SchemaVersion = project.SchemaVersion
	}
	if err := project.CheckSchemaVersion(p.SchemaVersion); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.projects.Create(r.Context(), &p); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, &p)
}

// handleUpdateProject replaces a saved project.
func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid project ID")
		return
	}

	var p project.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	p.ID = id

	if err := project.CheckSchemaVersion(p.SchemaVersion); err != nil {
		writeDomainError(w, err)
		return
	}

	p.Touch()
	if err := s.projects.Update(r.Context(), &p); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &p)
}

// handleDeleteProject deletes a saved project.
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid project ID")
		return
	}

	if err := s.projects.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
