package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	_ "github.com/mattn/go-sqlite3"

	"github.com/esphome-dash/designer-core/internal/binding"
	"github.com/esphome-dash/designer-core/internal/control"
	"github.com/esphome-dash/designer-core/internal/infrastructure/config"
	"github.com/esphome-dash/designer-core/internal/infrastructure/logging"
	"github.com/esphome-dash/designer-core/internal/project"
	"github.com/esphome-dash/designer-core/internal/statestream"
	"github.com/esphome-dash/designer-core/internal/transform"
)

const testJWTSecret = "test-secret-key-at-least-32-characters-long"

// testServer creates a Server with real repositories backed by in-memory SQLite.
func testServer(t *testing.T) (*Server, *statestream.Store) {
	t.Helper()

	db := setupTestDB(t)
	projects := project.NewSQLiteRepository(db)
	controls := control.NewRegistry(control.NewSQLiteRepository(db))
	if err := controls.RefreshCache(context.Background()); err != nil {
		t.Fatalf("RefreshCache: %v", err)
	}
	store := statestream.NewStore()

	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		WS: config.WebSocketConfig{
			Path:           "/api/v1/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Security: config.SecurityConfig{
			JWT: config.JWTConfig{
				Secret:    testJWTSecret,
				TicketTTL: 60,
			},
		},
		Logger:     log,
		Projects:   projects,
		Controls:   controls,
		Store:      store,
		Transforms: transform.NewRegistry(),
		Version:    "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// Initialise hub for tests
	srv.hub = NewHub(srv.wsCfg, log)
	go srv.hub.Run(context.Background())

	return srv, store
}

// setupTestDB creates an in-memory SQLite database with the designer schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			schema_version INTEGER NOT NULL,
			pages TEXT NOT NULL DEFAULT '[]',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE TABLE custom_controls (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			parameters TEXT NOT NULL DEFAULT '[]',
			template TEXT NOT NULL DEFAULT '{}',
			default_width INTEGER NOT NULL DEFAULT 0,
			default_height INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`

	if _, execErr := db.Exec(schema); execErr != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", execErr)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testToken signs a short-lived access token the auth middleware accepts.
func testToken(t *testing.T) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": "admin",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

// doAuthed executes an authenticated request against the router.
func doAuthed(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+testToken(t))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ─── Health Endpoint Tests ─────────────────────────────────────────

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["version"] != "test" {
		t.Errorf("version = %v, want test", resp["version"])
	}
}

// ─── Middleware Tests ──────────────────────────────────────────────

func TestRequestID_Generated(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header to be set")
	}
}

func TestRequestID_PreservesClient(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "client-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "client-123" {
		t.Errorf("X-Request-ID = %q, want %q", got, "client-123")
	}
}

func TestCORS_Preflight(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("ACAO = %q, want %q", got, "http://localhost:3000")
	}
}

// ─── Auth Tests ────────────────────────────────────────────────────

func TestAuth_MissingToken(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/layout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/layout", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestLogin(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"admin","password":"admin"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp loginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("expected access token")
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("token type = %q, want Bearer", resp.TokenType)
	}

	// Returned token opens protected routes
	req = httptest.NewRequest(http.MethodGet, "/api/v1/layout", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("layout with login token status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"admin","password":"wrong"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestWSTicket_SingleUse(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doAuthed(t, router, http.MethodPost, "/api/v1/auth/ws-ticket", "")
	if w.Code != http.StatusOK {
		t.Fatalf("ticket status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	ticket, _ := resp["ticket"].(string)
	if ticket == "" {
		t.Fatal("expected a ticket")
	}

	if !srv.validateTicket(ticket) {
		t.Error("first validation should succeed")
	}
	if srv.validateTicket(ticket) {
		t.Error("second validation should fail (single-use)")
	}
}

func TestWSTicket_Expired(t *testing.T) {
	srv, _ := testServer(t)

	ticket := generateTicket()
	srv.tickets.mu.Lock()
	srv.tickets.tickets[ticket] = ticketEntry{expiresAt: time.Now().Add(-time.Second)}
	srv.tickets.mu.Unlock()

	if srv.validateTicket(ticket) {
		t.Error("expired ticket should not validate")
	}
}

// ─── Layout Tests ──────────────────────────────────────────────────

func TestGetLayout_CreatesDefault(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doAuthed(t, router, http.MethodGet, "/api/v1/layout", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var p project.Project
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.ID != project.DefaultProjectID {
		t.Errorf("id = %q, want %q", p.ID, project.DefaultProjectID)
	}
	if len(p.Pages) == 0 {
		t.Error("expected the default layout to have a page")
	}
}

func TestSaveLayout_RoundTrip(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	p := project.New("Working layout")
	p.Pages[0].Widgets = []project.Widget{{
		ID:       "w-temp",
		Type:     "gauge",
		EntityID: "sensor.temperature",
		ReadBindings: []binding.ReadBinding{{
			ID:             "rb-1",
			EntityParam:    "entity",
			Attribute:      "state",
			TargetProperty: "props.value",
			Transform:      "round",
			TransformConfig: transform.Config{
				"precision": 1,
			},
		}},
	}}
	body, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	w := doAuthed(t, router, http.MethodPut, "/api/v1/layout", string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("save status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	w = doAuthed(t, router, http.MethodGet, "/api/v1/layout", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, want %d", w.Code, http.StatusOK)
	}

	var got project.Project
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.FindWidget("w-temp") == nil {
		t.Error("saved widget missing from reloaded layout")
	}
}

func TestSaveLayout_SchemaTooNew(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	p := project.New("Future layout")
	p.SchemaVersion = project.SchemaVersion + 1
	body, _ := json.Marshal(p)

	w := doAuthed(t, router, http.MethodPut, "/api/v1/layout", string(body))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var apiErr Error
	if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if apiErr.Code != ErrCodeSchemaMismatch {
		t.Errorf("code = %q, want %q", apiErr.Code, ErrCodeSchemaMismatch)
	}
}

// ─── Project CRUD Tests ────────────────────────────────────────────

func TestProjectCRUD(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	// Create with only a name yields a fresh empty document
	w := doAuthed(t, router, http.MethodPost, "/api/v1/projects", `{"name":"Living room"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var created project.Project
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal created: %v", err)
	}
	if created.ID == "" {
		t.Error("expected project ID to be auto-generated")
	}
	if len(created.Pages) == 0 {
		t.Error("expected a fresh project to have a page")
	}

	// Get
	w = doAuthed(t, router, http.MethodGet, "/api/v1/projects/"+created.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, want %d", w.Code, http.StatusOK)
	}

	// Update
	created.Name = "Renamed"
	body, _ := json.Marshal(created)
	w = doAuthed(t, router, http.MethodPut, "/api/v1/projects/"+created.ID, string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var updated project.Project
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("unmarshal updated: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("name = %q, want Renamed", updated.Name)
	}

	// Delete
	w = doAuthed(t, router, http.MethodDelete, "/api/v1/projects/"+created.ID, "")
	if w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want %d", w.Code, http.StatusNoContent)
	}

	// Confirm gone
	w = doAuthed(t, router, http.MethodGet, "/api/v1/projects/"+created.ID, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestCreateProject_MissingName(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doAuthed(t, router, http.MethodPost, "/api/v1/projects", `{"name":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// ─── Control Tests ─────────────────────────────────────────────────

func TestListControls_IncludesBuiltins(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doAuthed(t, router, http.MethodGet, "/api/v1/controls", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Controls []control.Definition `json:"controls"`
		Count    int                  `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count == 0 {
		t.Fatal("expected built-in controls")
	}
	found := false
	for _, d := range resp.Controls {
		if d.Builtin {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected at least one built-in definition in the list")
	}
}

func TestUpdateBuiltinControl_Forbidden(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	builtins := control.Builtins()
	if len(builtins) == 0 {
		t.Fatal("no built-in controls registered")
	}
	id := builtins[0].ID

	body, _ := json.Marshal(builtins[0])
	w := doAuthed(t, router, http.MethodPut, "/api/v1/controls/"+id, string(body))
	if w.Code != http.StatusForbidden {
		t.Errorf("update builtin status = %d, want %d; body: %s", w.Code, http.StatusForbidden, w.Body.String())
	}

	w = doAuthed(t, router, http.MethodDelete, "/api/v1/controls/"+id, "")
	if w.Code != http.StatusForbidden {
		t.Errorf("delete builtin status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestCreateControl_Invalid(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	// Missing name and template widgets
	w := doAuthed(t, router, http.MethodPost, "/api/v1/controls", `{"category":"custom"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}
}

// ─── Entity Picker Tests ───────────────────────────────────────────

func TestListEntities(t *testing.T) {
	srv, store := testServer(t)
	router := srv.buildRouter()

	store.SetState("light.kitchen", "on")
	store.SetAttribute("light.kitchen", "friendly_name", "Kitchen Light")
	store.SetState("sensor.temperature", "21.5")

	w := doAuthed(t, router, http.MethodGet, "/api/v1/entities", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if int(resp["count"].(float64)) != 2 {
		t.Errorf("count = %v, want 2", resp["count"])
	}

	// Domain filter
	w = doAuthed(t, router, http.MethodGet, "/api/v1/entities?domains=light", "")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if int(resp["count"].(float64)) != 1 {
		t.Errorf("domain-filtered count = %v, want 1", resp["count"])
	}

	// Search by friendly name
	w = doAuthed(t, router, http.MethodGet, "/api/v1/entities?search=kitchen", "")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if int(resp["count"].(float64)) != 1 {
		t.Errorf("search count = %v, want 1", resp["count"])
	}
}

func TestGetEntity(t *testing.T) {
	srv, store := testServer(t)
	router := srv.buildRouter()

	store.SetState("light.kitchen", "on")
	store.SetAttribute("light.kitchen", "friendly_name", "Kitchen Light")

	w := doAuthed(t, router, http.MethodGet, "/api/v1/entities/light.kitchen", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Capabilities map[string]any `json:"capabilities"`
		StateDisplay struct {
			Text string `json:"text"`
		} `json:"state_display"`
		Parameters    []map[string]any `json:"parameters"`
		WriteBindings []map[string]any `json:"default_write_bindings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Capabilities["domain"] != "light" {
		t.Errorf("capabilities.domain = %v, want light", resp.Capabilities["domain"])
	}
	if resp.StateDisplay.Text == "" {
		t.Error("state_display.text is empty")
	}
	if len(resp.Parameters) == 0 || resp.Parameters[0]["id"] != "entity" {
		t.Errorf("parameters[0] = %v, want the entity selector first", resp.Parameters)
	}
	if len(resp.WriteBindings) == 0 {
		t.Error("expected default write bindings for a light")
	}
}

func TestGetEntity_NotFound(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := doAuthed(t, router, http.MethodGet, "/api/v1/entities/light.missing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// ─── Snippet Tests ─────────────────────────────────────────────────

func TestSnippetExportImport(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	p := project.New("Export layout")
	p.Pages[0].Widgets = []project.Widget{{
		ID:       "w-temp",
		Type:     "gauge",
		EntityID: "sensor.temperature",
		ReadBindings: []binding.ReadBinding{{
			ID:             "rb-1",
			EntityParam:    "entity",
			Attribute:      "state",
			TargetProperty: "props.value",
			Transform:      "round",
			TransformConfig: transform.Config{
				"precision": 1,
			},
		}},
	}}
	body, _ := json.Marshal(p)

	w := doAuthed(t, router, http.MethodPut, "/api/v1/layout", string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("save status = %d; body: %s", w.Code, w.Body.String())
	}

	w = doAuthed(t, router, http.MethodGet, "/api/v1/snippet", "")
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d; body: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/yaml") {
		t.Errorf("Content-Type = %q, want text/yaml", ct)
	}
	snippet := w.Body.String()
	if !strings.Contains(snippet, "designer:schema") {
		t.Error("snippet missing schema marker")
	}
	if !strings.Contains(snippet, "sensor:") {
		t.Error("snippet missing sensor section")
	}

	// Round-trip through import
	w = doAuthed(t, router, http.MethodPost, "/api/v1/import", snippet)
	if w.Code != http.StatusOK {
		t.Fatalf("import status = %d; body: %s", w.Code, w.Body.String())
	}

	var imported project.Project
	if err := json.Unmarshal(w.Body.Bytes(), &imported); err != nil {
		t.Fatalf("unmarshal imported: %v", err)
	}
	if imported.FindWidget("w-temp") == nil {
		t.Error("imported layout missing the exported widget")
	}
}

func TestImport_ErrorCodes(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{
			name:     "invalid yaml",
			body:     "sensor: [unclosed",
			wantCode: ErrCodeInvalidYAML,
		},
		{
			name:     "not a snippet",
			body:     "esphome:\n  name: test\n",
			wantCode: ErrCodeUnrecognized,
		},
		{
			name:     "snippet without pages",
			body:     "sensor:\n  - platform: template\n    id: t1\n",
			wantCode: ErrCodeNoPages,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doAuthed(t, router, http.MethodPost, "/api/v1/import", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
			}

			var apiErr Error
			if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", apiErr.Code, tt.wantCode)
			}
		})
	}
}

// ─── Hub Tests ─────────────────────────────────────────────────────

func TestHubBroadcast_RespectsSubscriptions(t *testing.T) {
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	hub := NewHub(config.WebSocketConfig{}, log)

	subscribed := &WSClient{
		hub:           hub,
		send:          make(chan []byte, 1),
		subscriptions: map[string]struct{}{ChannelPreviewUpdate: {}},
	}
	unsubscribed := &WSClient{
		hub:           hub,
		send:          make(chan []byte, 1),
		subscriptions: map[string]struct{}{},
	}
	hub.Register(subscribed)
	hub.Register(unsubscribed)

	hub.Broadcast(ChannelPreviewUpdate, map[string]any{"widget_id": "w-1"})

	select {
	case data := <-subscribed.send:
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if msg.Type != WSTypeEvent || msg.EventType != ChannelPreviewUpdate {
			t.Errorf("got message %+v, want event on %s", msg, ChannelPreviewUpdate)
		}
	default:
		t.Fatal("subscribed client received nothing")
	}

	select {
	case <-unsubscribed.send:
		t.Fatal("unsubscribed client should receive nothing")
	default:
	}
}

func TestHubBroadcast_SkipsFullBuffers(t *testing.T) {
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	hub := NewHub(config.WebSocketConfig{}, log)

	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte), // unbuffered, nothing reading
		subscriptions: map[string]struct{}{ChannelEntityState: {}},
	}
	hub.Register(client)

	// Must not block
	done := make(chan struct{})
	go func() {
		hub.Broadcast(ChannelEntityState, bytes.Repeat([]byte("x"), 16))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full client buffer")
	}
}
