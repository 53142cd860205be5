// Package api provides the HTTP REST API and WebSocket server for the
// dashboard designer.
//
// It exposes layout and project persistence, control definitions, the
// entity picker feed, snippet export/import, and a WebSocket channel that
// pushes live preview updates to the editor.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/esphome-dash/designer-core/internal/adapter"
	"github.com/esphome-dash/designer-core/internal/control"
	"github.com/esphome-dash/designer-core/internal/export"
	"github.com/esphome-dash/designer-core/internal/infrastructure/config"
	"github.com/esphome-dash/designer-core/internal/infrastructure/logging"
	"github.com/esphome-dash/designer-core/internal/preview"
	"github.com/esphome-dash/designer-core/internal/project"
	"github.com/esphome-dash/designer-core/internal/statestream"
	"github.com/esphome-dash/designer-core/internal/transform"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	WS          config.WebSocketConfig
	Security    config.SecurityConfig
	Logger      *logging.Logger
	Projects    project.Repository
	Controls    *control.Registry
	Store       *statestream.Store
	Preview     *preview.Engine
	Transforms  *transform.Registry
	Adapters    *adapter.Registry
	ExternalHub *Hub // If set, the server uses this hub instead of creating its own
	Version     string
}

// Server is the HTTP API server for the dashboard designer.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg            config.APIConfig
	wsCfg          config.WebSocketConfig
	secCfg         config.SecurityConfig
	logger         *logging.Logger
	projects       project.Repository
	controls       *control.Registry
	store          *statestream.Store
	preview        *preview.Engine
	adapters       *adapter.Registry
	generator      *export.Generator
	version        string
	startedAt      time.Time
	server         *http.Server
	hub            *Hub
	externalHub    bool // true if hub was injected externally
	tickets        *ticketStore
	cancel         context.CancelFunc // cancels background goroutines on Close()
	stopEntityFeed func()             // detaches the store change listener
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, project repository)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Projects == nil {
		return nil, fmt.Errorf("project repository is required")
	}
	if deps.Transforms == nil {
		return nil, fmt.Errorf("transform registry is required")
	}
	// Store and Preview are optional; without them the entity picker returns
	// an empty list and live preview is disabled, but layout editing works.

	adapters := deps.Adapters
	if adapters == nil {
		adapters = adapter.NewRegistry()
	}

	s := &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		secCfg:    deps.Security,
		logger:    deps.Logger,
		projects:  deps.Projects,
		controls:  deps.Controls,
		store:     deps.Store,
		preview:   deps.Preview,
		adapters:  adapters,
		generator: export.NewGenerator(deps.Transforms, deps.Controls),
		version:   deps.Version,
		tickets:   newTicketStore(),
	}

	// Use externally-provided hub if available (needed when the preview
	// engine also requires the hub for WebSocket broadcasting).
	if deps.ExternalHub != nil {
		s.hub = deps.ExternalHub
		s.externalHub = true
	}

	return s, nil
}

// Hub returns the WebSocket hub, creating one if necessary. Callers that
// need the hub before Start() (to wire the preview engine's publish
// function) use this accessor.
func (s *Server) Hub() *Hub {
	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	return s.hub
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub, attaches to the entity
// store for state broadcasts, and launches the HTTP listener in a
// background goroutine. The server can be stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(ctx context.Context) error {
	// Create internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.startedAt = time.Now()

	// Create WebSocket hub (unless one was injected externally)
	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	if !s.externalHub {
		go s.hub.Run(srvCtx)
	}

	// Start periodic ticket cleanup to prevent memory leaks
	go s.cleanTicketsLoop(srvCtx)

	// Relay entity state changes to WebSocket clients
	s.attachEntityFeed()

	// Build router
	router := s.buildRouter()

	// Create HTTP server
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	// Start listening in background
	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	// Detach from the entity store before tearing down the hub
	if s.stopEntityFeed != nil {
		s.stopEntityFeed()
		s.stopEntityFeed = nil
	}

	// Cancel background goroutines (hub, ticket cleanup)
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}

// attachEntityFeed relays entity state changes from the snapshot store to
// WebSocket clients subscribed to "entity.state_changed". The callback
// runs on the MQTT message goroutine, so it only snapshots one entity and
// hands off to the hub's non-blocking send path.
func (s *Server) attachEntityFeed() {
	if s.store == nil {
		return // statestream not configured; entity broadcast disabled
	}
	s.stopEntityFeed = s.store.OnChange(func(entityID string) {
		if s.hub == nil {
			return
		}
		state := s.store.Get(entityID)
		if state == nil {
			return
		}
		s.hub.Broadcast("entity.state_changed", state)
	})
}
