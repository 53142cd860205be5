package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/login", s.handleLogin)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// WS ticket requires authentication - user must be logged in to request a ticket
			r.Post("/auth/ws-ticket", s.handleWSTicket)

			// Working layout (the single default document the editor operates on)
			r.Get("/layout", s.handleGetLayout)
			r.Put("/layout", s.handleSaveLayout)
			r.Post("/layout", s.handleSaveLayout)

			// Saved project endpoints
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", s.handleListProjects)
				r.Post("/", s.handleCreateProject)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetProject)
					r.Put("/", s.handleUpdateProject)
					r.Delete("/", s.handleDeleteProject)
				})
			})

			// Control definition endpoints
			r.Route("/controls", func(r chi.Router) {
				r.Get("/", s.handleListControls)
				r.Post("/", s.handleCreateControl)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetControl)
					r.Put("/", s.handleUpdateControl)
					r.Delete("/", s.handleDeleteControl)
				})
			})

			// Entity picker feed and per-entity editor view
			r.Get("/entities", s.handleListEntities)
			r.Get("/entities/{id}", s.handleGetEntity)

			// Snippet export / import
			r.Get("/snippet", s.handleGetSnippet)
			r.Post("/import", s.handleImportSnippet)

			// WebSocket (auth via ticket, validated in handler)
			r.Get("/ws", s.handleWebSocket)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"status":  "ok",
		"version": s.version,
	}
	if !s.startedAt.IsZero() {
		resp["uptime_seconds"] = int(time.Since(s.startedAt).Seconds())
	}
	if s.store != nil {
		resp["entities"] = s.store.Len()
	}
	if s.hub != nil {
		resp["websocket_clients"] = s.hub.ClientCount()
	}
	writeJSON(w, http.StatusOK, resp)
}
