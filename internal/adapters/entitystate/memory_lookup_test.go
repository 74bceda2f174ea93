package entitystate

import (
	"context"
	"errors"
	"testing"

	"travel-time-service/internal/ports"
)

func TestMemoryLookupGet(t *testing.T) {
	lookup := NewMemoryLookup()
	lookup.Put(ports.EntityState{EntityID: "sensor.speed", State: "42"})

	state, err := lookup.Get(context.Background(), "sensor.speed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.State != "42" {
		t.Fatalf("state = %q, want 42", state.State)
	}

	if _, err := lookup.Get(context.Background(), "sensor.absent"); !errors.Is(err, ports.ErrEntityNotFound) {
		t.Fatalf("err = %v, want ErrEntityNotFound", err)
	}
}

func TestMemoryLookupZoneByLabel(t *testing.T) {
	lookup := NewMemoryLookup()
	lookup.Put(ports.EntityState{
		EntityID:   "zone.home",
		State:      "zoning",
		Attributes: map[string]any{"friendly_name": "Home"},
	})
	lookup.Put(ports.EntityState{
		EntityID:   "device_tracker.home",
		State:      "home",
		Attributes: map[string]any{"friendly_name": "Home"},
	})

	zone, err := lookup.ZoneByLabel(context.Background(), "Home")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zone.EntityID != "zone.home" {
		t.Fatalf("entity = %q, want zone.home (non-zones must not match)", zone.EntityID)
	}

	if _, err := lookup.ZoneByLabel(context.Background(), "Nowhere"); !errors.Is(err, ports.ErrEntityNotFound) {
		t.Fatalf("err = %v, want ErrEntityNotFound", err)
	}

	lookup.Put(ports.EntityState{
		EntityID:   "zone.home_two",
		State:      "zoning",
		Attributes: map[string]any{"friendly_name": "Home"},
	})
	if _, err := lookup.ZoneByLabel(context.Background(), "Home"); !errors.Is(err, ports.ErrAmbiguousZone) {
		t.Fatalf("err = %v, want ErrAmbiguousZone", err)
	}
}
