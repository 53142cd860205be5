package adapter

import (
	"sync"

	"github.com/esphome-dash/designer-core/internal/entity"
)

// Registry resolves entities to domain adapters.
//
// Lookup order for ForEntity:
//  1. exact domain-map hit (primary domain or alias),
//  2. linear probe of every registered adapter's Handles(),
//  3. the catch-all generic adapter.
//
// Registration is last-wins per domain key so downstream code can override
// built-ins. All methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	byDomain map[string]Adapter
	ordered  []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with all built-in adapters registered.
func NewRegistry() *Registry {
	r := &Registry{
		byDomain: make(map[string]Adapter),
		generic:  newGenericAdapter(),
	}

	r.Register(newClimateAdapter())
	r.Register(newLightAdapter())
	r.Register(newSwitchAdapter())
	r.Register(newCoverAdapter())
	r.Register(newFanAdapter())
	r.Register(newSensorAdapter())
	r.Register(newMediaPlayerAdapter())
	r.Register(newLockAdapter())
	r.Register(newSceneAdapter())

	return r
}

// Register adds an adapter under its primary domain and every alias.
// Registering a second adapter for an already-claimed domain silently
// replaces the first.
func (r *Registry) Register(a Adapter) {
	if a == nil || a.Domain() == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byDomain[a.Domain()] = a
	for _, alias := range a.Aliases() {
		r.byDomain[alias] = a
	}

	// Keep the probe list free of duplicates when re-registering.
	for i, existing := range r.ordered {
		if existing.Domain() == a.Domain() {
			r.ordered[i] = a
			return
		}
	}
	r.ordered = append(r.ordered, a)
}

// ForEntity returns the adapter responsible for an entity. Never nil: the
// generic adapter is the final fallback.
func (r *Registry) ForEntity(s *entity.State) Adapter {
	if s == nil {
		return r.generic
	}
	return r.ForDomain(entity.Domain(s.EntityID), s)
}

// ForDomain resolves by domain string, probing Handles() when the domain map
// misses. The state may be nil; it is only used for the probe.
func (r *Registry) ForDomain(domain string, s *entity.State) Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a, ok := r.byDomain[domain]; ok {
		return a
	}
	if s != nil {
		for _, a := range r.ordered {
			if a.Handles(s) {
				return a
			}
		}
	}
	return r.generic
}

// Generic returns the fallback adapter.
func (r *Registry) Generic() Adapter {
	return r.generic
}

// Domains returns the registered primary domains in registration order.
func (r *Registry) Domains() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.ordered))
	for _, a := range r.ordered {
		out = append(out, a.Domain())
	}
	return out
}
