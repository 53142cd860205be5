package transform

import "sync"

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// ApplyFunc evaluates a transform against a live value.
type ApplyFunc func(value any, cfg Config) any

// ExpressionFunc compiles a transform into an ESPHome lambda expression
// fragment wrapping inputExpr.
type ExpressionFunc func(inputExpr string, cfg Config) string

// Transform is a named, pure value transform.
type Transform struct {
	Name        string
	Description string
	Apply       ApplyFunc
	ToTargetExpression ExpressionFunc
}

// Registry holds named transforms. Registration is idempotent per name;
// registering a second transform under the same name replaces the first,
// which lets downstream code override built-ins.
//
// All methods are safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	transforms map[string]*Transform
	logger     Logger
}

// NewRegistry creates a registry pre-populated with the built-in transforms.
func NewRegistry() *Registry {
	r := &Registry{
		transforms: make(map[string]*Transform),
		logger:     noopLogger{},
	}
	registerBuiltins(r)
	return r
}

// SetLogger sets the logger used for unknown-transform warnings.
func (r *Registry) SetLogger(logger Logger) {
	r.mu.Lock()
	r.logger = logger
	r.mu.Unlock()
}

// Register adds or replaces a transform. Transforms with an empty name or a
// nil Apply function are ignored.
func (r *Registry) Register(t *Transform) {
	if t == nil || t.Name == "" || t.Apply == nil {
		return
	}
	r.mu.Lock()
	r.transforms[t.Name] = t
	r.mu.Unlock()
}

// Get returns the named transform, or nil if not registered.
func (r *Registry) Get(name string) *Transform {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.transforms[name]
}

// Has reports whether a transform is registered under the given name.
func (r *Registry) Has(name string) bool {
	return r.Get(name) != nil
}

// Apply evaluates the named transform against a value. An unknown name is
// non-fatal: the value is returned unchanged and a warning is logged.
func (r *Registry) Apply(name string, value any, cfg Config) any {
	t := r.Get(name)
	if t == nil {
		r.mu.RLock()
		logger := r.logger
		r.mu.RUnlock()
		logger.Warn("unknown transform, passing value through", "transform", name)
		return value
	}
	return t.Apply(value, cfg)
}

// ToTargetExpression compiles the named transform around inputExpr. An
// unknown name or a transform without an expression form returns inputExpr
// unchanged.
func (r *Registry) ToTargetExpression(name, inputExpr string, cfg Config) string {
	t := r.Get(name)
	if t == nil || t.ToTargetExpression == nil {
		return inputExpr
	}
	return t.ToTargetExpression(inputExpr, cfg)
}

// Names returns the registered transform names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}
	sortStrings(names)
	return names
}

// Descriptions returns name -> description for UI catalogues.
func (r *Registry) Descriptions() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.transforms))
	for name, t := range r.transforms {
		out[name] = t.Description
	}
	return out
}

// sortStrings is a tiny insertion sort; registries hold ~16 names.
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
