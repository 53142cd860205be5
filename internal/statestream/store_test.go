package statestream

import (
	"sync"
	"testing"
)

func TestStoreSetStateAndGet(t *testing.T) {
	s := NewStore()

	s.SetState("light.kitchen", "on")

	st := s.Get("light.kitchen")
	if st == nil {
		t.Fatal("Get() = nil, want state")
	}
	if st.State != "on" {
		t.Errorf("State = %q, want %q", st.State, "on")
	}
	if st.EntityID != "light.kitchen" {
		t.Errorf("EntityID = %q, want %q", st.EntityID, "light.kitchen")
	}

	if got := s.Get("light.unknown"); got != nil {
		t.Errorf("Get(unknown) = %v, want nil", got)
	}
}

func TestStoreAttributeBeforeState(t *testing.T) {
	// Statestream delivers attributes and state in arbitrary order; an
	// attribute arriving first must still create the entity.
	s := NewStore()

	s.SetAttribute("climate.living", "current_temperature", 21.5)
	s.SetState("climate.living", "heat")

	st := s.Get("climate.living")
	if st == nil {
		t.Fatal("Get() = nil, want state")
	}
	if st.State != "heat" {
		t.Errorf("State = %q, want %q", st.State, "heat")
	}
	v, ok := st.Attribute("current_temperature")
	if !ok {
		t.Fatal("Attribute(current_temperature) missing")
	}
	if v != 21.5 {
		t.Errorf("current_temperature = %v, want 21.5", v)
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	s := NewStore()
	s.SetState("light.kitchen", "on")
	s.SetAttribute("light.kitchen", "brightness", 128.0)

	st := s.Get("light.kitchen")
	st.State = "off"
	st.Attributes["brightness"] = 0.0

	fresh := s.Get("light.kitchen")
	if fresh.State != "on" {
		t.Error("mutating a returned state leaked into the store")
	}
	if v, _ := fresh.Attribute("brightness"); v != 128.0 {
		t.Error("mutating returned attributes leaked into the store")
	}
}

func TestStoreSnapshotIsIndependent(t *testing.T) {
	s := NewStore()
	s.SetState("sensor.temp", "21.5")

	snap := s.Snapshot()
	if got := snap.Get("sensor.temp"); got == nil || got.State != "21.5" {
		t.Fatalf("snapshot Get(sensor.temp) = %v", got)
	}

	// Later store updates must not show through an existing snapshot.
	s.SetState("sensor.temp", "25.0")
	if got := snap.Get("sensor.temp"); got.State != "21.5" {
		t.Errorf("snapshot changed after store update: %q", got.State)
	}
}

func TestStoreList(t *testing.T) {
	s := NewStore()
	s.SetState("light.kitchen", "on")
	s.SetState("light.bedroom", "off")
	s.SetState("sensor.outdoor_temp", "12.5")
	s.SetAttribute("sensor.outdoor_temp", "friendly_name", "Outdoor Temperature")
	s.SetState("switch.heater", "off")

	tests := []struct {
		name    string
		domains []string
		search  string
		limit   int
		wantIDs []string
	}{
		{
			name:    "no filters, sorted by id",
			wantIDs: []string{"light.bedroom", "light.kitchen", "sensor.outdoor_temp", "switch.heater"},
		},
		{
			name:    "domain filter",
			domains: []string{"light"},
			wantIDs: []string{"light.bedroom", "light.kitchen"},
		},
		{
			name:    "multiple domains",
			domains: []string{"light", "switch"},
			wantIDs: []string{"light.bedroom", "light.kitchen", "switch.heater"},
		},
		{
			name:    "search matches entity id",
			search:  "kitchen",
			wantIDs: []string{"light.kitchen"},
		},
		{
			name:    "search matches friendly name case-insensitively",
			search:  "outdoor temp",
			wantIDs: []string{"sensor.outdoor_temp"},
		},
		{
			name:    "search misses",
			search:  "garage",
			wantIDs: nil,
		},
		{
			name:    "limit truncates",
			limit:   2,
			wantIDs: []string{"light.bedroom", "light.kitchen"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.List(tt.domains, tt.search, tt.limit)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("List() returned %d entities, want %d", len(got), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if got[i].EntityID != want {
					t.Errorf("List()[%d] = %q, want %q", i, got[i].EntityID, want)
				}
			}
		})
	}
}

func TestStoreOnChange(t *testing.T) {
	s := NewStore()

	var mu sync.Mutex
	var changed []string
	unsubscribe := s.OnChange(func(entityID string) {
		mu.Lock()
		changed = append(changed, entityID)
		mu.Unlock()
	})

	s.SetState("light.kitchen", "on")
	s.SetAttribute("light.kitchen", "brightness", 200.0)

	mu.Lock()
	n := len(changed)
	mu.Unlock()
	if n != 2 {
		t.Fatalf("got %d change notifications, want 2", n)
	}

	unsubscribe()
	s.SetState("light.kitchen", "off")

	mu.Lock()
	n = len(changed)
	mu.Unlock()
	if n != 2 {
		t.Errorf("got %d notifications after unsubscribe, want 2", n)
	}
}
