package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/esphome-dash/designer-core/internal/control"
	"github.com/esphome-dash/designer-core/internal/export"
	"github.com/esphome-dash/designer-core/internal/project"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeUnauthorized = "unauthorised"
	ErrCodeForbidden    = "forbidden"
	ErrCodeConflict     = "conflict"
	ErrCodeInternal     = "internal_error"
	ErrCodeValidation   = "validation_error"
)

// Import error codes, matching the export package's sentinel errors so the
// editor can branch on them when a pasted snippet fails to parse.
const (
	ErrCodeInvalidYAML    = "invalid_yaml"
	ErrCodeUnrecognized   = "unrecognized_display_structure"
	ErrCodeNoPages        = "no_pages_found"
	ErrCodeSchemaMismatch = "schema_version_mismatch"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// writeForbidden writes a 403 error response.
func writeForbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, ErrCodeForbidden, message)
}

// writeConflict writes a 409 error response.
func writeConflict(w http.ResponseWriter, message string) {
	writeError(w, http.StatusConflict, ErrCodeConflict, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeDomainError maps sentinel errors from the project, control, and
// export packages to structured HTTP responses. Unrecognised errors become
// a generic 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, project.ErrNotFound), errors.Is(err, control.ErrNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, project.ErrExists), errors.Is(err, control.ErrExists):
		writeConflict(w, err.Error())
	case errors.Is(err, control.ErrBuiltin):
		writeForbidden(w, err.Error())
	case errors.Is(err, project.ErrInvalidName), errors.Is(err, control.ErrInvalid):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, project.ErrSchemaTooNew), errors.Is(err, project.ErrSchemaTooOld):
		writeError(w, http.StatusBadRequest, ErrCodeSchemaMismatch, err.Error())
	case errors.Is(err, export.ErrInvalidYAML):
		writeError(w, http.StatusBadRequest, ErrCodeInvalidYAML, err.Error())
	case errors.Is(err, export.ErrUnrecognizedStructure):
		writeError(w, http.StatusBadRequest, ErrCodeUnrecognized, err.Error())
	case errors.Is(err, export.ErrNoPages):
		writeError(w, http.StatusBadRequest, ErrCodeNoPages, err.Error())
	default:
		writeInternalError(w, "internal server error")
	}
}
