// Package api implements the HTTP REST API and WebSocket server for the
// dashboard designer.
//
// This package provides:
//   - REST endpoints for layout and project CRUD
//   - Control definition management (built-ins are read-only)
//   - The entity picker feed over the statestream snapshot
//   - Snippet export (text/yaml) and round-trip import
//   - WebSocket hub for live preview and entity state broadcasts
//   - JWT authentication with ticket-based WebSocket auth
//   - Middleware stack (request ID, logging, recovery, CORS)
//   - TLS support for exposed deployments
//
// # Architecture
//
// The API server sits between the browser editor and the designer core.
// Layout edits are persisted through the project repository; entity state
// flows in from the Home Assistant statestream via MQTT and is pushed out
// to WebSocket clients, both raw (entity.state_changed) and resolved
// through widget read bindings (preview.update).
//
// # Security
//
// Authentication uses JWT access tokens with single-user dev credentials;
// the designer is a LAN tool. WebSocket connections use single-use tickets
// to prevent token leakage in URLs.
//
// # Graceful Degradation
//
// The server operates without MQTT. Layout editing, control management,
// and snippet export all work; the entity picker returns an empty list and
// live preview stays silent.
package api
