package statestream

import (
	"sort"
	"strings"
	"sync"

	"github.com/esphome-dash/designer-core/internal/entity"
)

// Store holds the latest known state of every tracked entity.
//
// All methods are safe for concurrent use. Writers (the Consumer) and
// readers (snapshot takers, the entity browser) never share memory:
// returned states are deep copies.
type Store struct {
	mu     sync.RWMutex
	states map[string]*entity.State

	subMu       sync.RWMutex
	subscribers map[int]func(entityID string)
	nextSubID   int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		states:      make(map[string]*entity.State),
		subscribers: make(map[int]func(entityID string)),
	}
}

// SetState records an entity's state value, creating the entity if it is
// not yet tracked. Subscribers are notified after the store is updated.
func (s *Store) SetState(entityID, state string) {
	s.mu.Lock()
	st := s.states[entityID]
	if st == nil {
		st = &entity.State{EntityID: entityID}
		s.states[entityID] = st
	}
	st.State = state
	s.mu.Unlock()

	s.notify(entityID)
}

// SetAttribute records one attribute of an entity, creating the entity if
// it is not yet tracked.
func (s *Store) SetAttribute(entityID, attribute string, value any) {
	s.mu.Lock()
	st := s.states[entityID]
	if st == nil {
		st = &entity.State{EntityID: entityID}
		s.states[entityID] = st
	}
	if st.Attributes == nil {
		st.Attributes = make(map[string]any)
	}
	st.Attributes[attribute] = value
	s.mu.Unlock()

	s.notify(entityID)
}

// Get returns a copy of one entity's state, or nil if unknown.
func (s *Store) Get(entityID string) *entity.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[entityID].DeepCopy()
}

// Len returns the number of tracked entities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

// Snapshot returns a point-in-time copy of every tracked entity, suitable
// for one binding evaluation pass.
func (s *Store) Snapshot() entity.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(entity.Snapshot, len(s.states))
	for id, st := range s.states {
		snap[id] = st.DeepCopy()
	}
	return snap
}

// List returns copies of tracked entities matching the given filters,
// sorted by entity id.
//
// Filters:
//   - domains: keep only entities whose domain is in the list (empty keeps all)
//   - search: case-insensitive substring match against the entity id and
//     friendly name (empty keeps all)
//   - limit: maximum number of results (0 or negative means unlimited)
func (s *Store) List(domains []string, search string, limit int) []entity.State {
	domainSet := make(map[string]bool, len(domains))
	for _, d := range domains {
		if d != "" {
			domainSet[d] = true
		}
	}
	search = strings.ToLower(search)

	s.mu.RLock()
	matched := make([]*entity.State, 0, len(s.states))
	for _, st := range s.states {
		if len(domainSet) > 0 && !domainSet[st.Domain()] {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(st.EntityID), search) &&
			!strings.Contains(strings.ToLower(st.FriendlyName()), search) {
			continue
		}
		matched = append(matched, st)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].EntityID < matched[j].EntityID
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	out := make([]entity.State, len(matched))
	for i, st := range matched {
		out[i] = *st.DeepCopy()
	}
	return out
}

// OnChange registers a callback invoked with the entity id after every
// store update. The returned function removes the subscription.
//
// Callbacks run on the consumer's message goroutine and must not block.
func (s *Store) OnChange(fn func(entityID string)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(entityID string) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for _, fn := range s.subscribers {
		fn(entityID)
	}
}
