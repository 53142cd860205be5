package control

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry serves control definitions: the immutable built-ins plus
// user-defined custom controls persisted through a Repository and cached
// in memory.
//
// All public methods are thread-safe. Returned definitions are deep
// copies; callers can modify them freely.
type Registry struct {
	repo    Repository
	cache   map[string]*Definition
	cacheMu sync.RWMutex
	logger  Logger

	builtins map[string]*Definition
}

// NewRegistry creates a registry with all built-in definitions loaded.
// repo may be nil for a builtin-only registry (tests, previews).
func NewRegistry(repo Repository) *Registry {
	r := &Registry{
		repo:     repo,
		cache:    make(map[string]*Definition),
		logger:   noopLogger{},
		builtins: make(map[string]*Definition),
	}
	for _, d := range Builtins() {
		r.builtins[d.ID] = d
	}
	return r
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads all custom definitions from the repository.
// Call on application startup.
func (r *Registry) RefreshCache(ctx context.Context) error {
	if r.repo == nil {
		return nil
	}
	defs, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading custom controls: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	r.cache = make(map[string]*Definition, len(defs))
	for i := range defs {
		d := defs[i]
		r.cache[d.ID] = d.DeepCopy()
	}

	r.logger.Info("custom control cache refreshed", "count", len(defs))
	return nil
}

// Get retrieves a definition by id, built-ins first.
// Returns ErrNotFound if the id is unknown.
func (r *Registry) Get(ctx context.Context, id string) (*Definition, error) {
	if d, ok := r.builtins[id]; ok {
		return d.DeepCopy(), nil
	}

	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()
	if ok {
		return cached.DeepCopy(), nil
	}

	if r.repo == nil {
		return nil, ErrNotFound
	}
	d, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cacheMu.Lock()
	r.cache[id] = d.DeepCopy()
	r.cacheMu.Unlock()
	return d, nil
}

// List returns every definition: built-ins sorted by id, then custom
// definitions sorted by name.
func (r *Registry) List(ctx context.Context) ([]Definition, error) {
	out := make([]Definition, 0, len(r.builtins))
	for _, d := range r.builtins {
		out = append(out, *d.DeepCopy())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	r.cacheMu.RLock()
	custom := make([]Definition, 0, len(r.cache))
	for _, d := range r.cache {
		custom = append(custom, *d.DeepCopy())
	}
	r.cacheMu.RUnlock()
	sort.Slice(custom, func(i, j int) bool { return custom[i].Name < custom[j].Name })

	return append(out, custom...), nil
}

// Create validates and persists a new custom definition. An empty id is
// generated. Built-in ids cannot be shadowed.
func (r *Registry) Create(ctx context.Context, d *Definition) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if _, ok := r.builtins[d.ID]; ok {
		return ErrExists
	}
	d.Builtin = false

	if res := ValidateDefinition(d); !res.Valid {
		return fmt.Errorf("%w: %v", ErrInvalid, res.Errors)
	}

	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	if r.repo != nil {
		if err := r.repo.Create(ctx, d); err != nil {
			return err
		}
	}

	r.cacheMu.Lock()
	r.cache[d.ID] = d.DeepCopy()
	r.cacheMu.Unlock()

	r.logger.Info("custom control created", "id", d.ID, "name", d.Name)
	return nil
}

// Update validates and persists changes to a custom definition.
func (r *Registry) Update(ctx context.Context, d *Definition) error {
	if _, ok := r.builtins[d.ID]; ok {
		return ErrBuiltin
	}
	if res := ValidateDefinition(d); !res.Valid {
		return fmt.Errorf("%w: %v", ErrInvalid, res.Errors)
	}

	d.UpdatedAt = time.Now().UTC()

	if r.repo != nil {
		if err := r.repo.Update(ctx, d); err != nil {
			return err
		}
	}

	r.cacheMu.Lock()
	r.cache[d.ID] = d.DeepCopy()
	r.cacheMu.Unlock()

	r.logger.Info("custom control updated", "id", d.ID)
	return nil
}

// Delete removes a custom definition. Instances referencing it are left
// in place and render as placeholders; deletion never cascades.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if _, ok := r.builtins[id]; ok {
		return ErrBuiltin
	}

	if r.repo != nil {
		if err := r.repo.Delete(ctx, id); err != nil {
			return err
		}
	}

	r.cacheMu.Lock()
	delete(r.cache, id)
	r.cacheMu.Unlock()

	r.logger.Info("custom control deleted", "id", id)
	return nil
}
