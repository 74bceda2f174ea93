package ports

import (
	"context"
	"errors"
)

var (
	// ErrEntityNotFound is returned when no entity exists for an id.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrAmbiguousZone is returned when several zones share a friendly label.
	ErrAmbiguousZone = errors.New("zone label is ambiguous")
)

// EntityState is a read-time snapshot of one tracked entity.
type EntityState struct {
	EntityID   string
	State      string
	Attributes map[string]any
}

// Contract for reading the host's current entity states. Implementations
// are read-only snapshots and must tolerate concurrent readers.
type EntityStateLookup interface {
	// Get returns the current state of an entity, or ErrEntityNotFound.
	Get(ctx context.Context, entityID string) (EntityState, error)

	// ZoneByLabel finds the zone whose friendly label matches.
	// Returns ErrEntityNotFound when no zone matches and ErrAmbiguousZone
	// when the label is not unique.
	ZoneByLabel(ctx context.Context, label string) (EntityState, error)
}
