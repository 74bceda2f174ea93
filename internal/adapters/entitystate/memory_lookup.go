// Package entitystate provides read-only adapters over the host's entity
// state store.
package entitystate

import (
	"context"
	"sync"

	"travel-time-service/internal/ports"
)

// MemoryLookup is an in-memory EntityStateLookup. It backs installations
// without a recorder database (zones defined in the config file) and tests.
// Safe for concurrent readers.
type MemoryLookup struct {
	mu     sync.RWMutex
	states map[string]ports.EntityState
}

func NewMemoryLookup() *MemoryLookup {
	return &MemoryLookup{states: make(map[string]ports.EntityState)}
}

// Put stores or replaces an entity state snapshot.
func (m *MemoryLookup) Put(state ports.EntityState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.EntityID] = state
}

func (m *MemoryLookup) Get(_ context.Context, entityID string) (ports.EntityState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.states[entityID]
	if !ok {
		return ports.EntityState{}, ports.ErrEntityNotFound
	}
	return state, nil
}

func (m *MemoryLookup) ZoneByLabel(_ context.Context, label string) (ports.EntityState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var match ports.EntityState
	found := false

	for id, state := range m.states {
		if !isZoneID(id) {
			continue
		}
		if zoneLabel(state) != label {
			continue
		}
		if found {
			return ports.EntityState{}, ports.ErrAmbiguousZone
		}
		match = state
		found = true
	}

	if !found {
		return ports.EntityState{}, ports.ErrEntityNotFound
	}
	return match, nil
}

func isZoneID(id string) bool {
	return len(id) > len("zone.") && id[:len("zone.")] == "zone."
}

func zoneLabel(state ports.EntityState) string {
	label, _ := state.Attributes["friendly_name"].(string)
	return label
}
