package api

import (
	"io"
	"net/http"

	"github.com/esphome-dash/designer-core/internal/export"
)

// handleGetSnippet compiles the working layout and returns the ESPHome
// snippet as text/yaml.
func (s *Server) handleGetSnippet(w http.ResponseWriter, r *http.Request) {
	p, err := s.projects.GetDefault(r.Context())
	if err != nil {
		s.logger.Error("failed to load working layout for export", "error", err)
		writeInternalError(w, "failed to load layout")
		return
	}

	snippet, err := s.generator.Generate(r.Context(), p)
	if err != nil {
		s.logger.Error("snippet generation failed", "error", err)
		writeInternalError(w, "failed to generate snippet")
		return
	}

	w.Header().Set("Content-Type", "text/yaml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	io.WriteString(w, snippet)
}

// handleImportSnippet parses a pasted snippet back into a layout.
//
// The reconstructed layout is returned without being persisted; the editor
// reviews it and saves via PUT /layout. Parse failures map to the
// structured codes invalid_yaml, unrecognized_display_structure, and
// no_pages_found.
func (s *Server) handleImportSnippet(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "failed to read request body")
		return
	}

	p, err := export.ParseSnippet(string(body))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}
