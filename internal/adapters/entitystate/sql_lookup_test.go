package entitystate

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"travel-time-service/internal/ports"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// One connection so every statement sees the same in-memory database.
	db.SetMaxOpenConns(1)

	if err := InitSchema(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return db
}

func insertState(t *testing.T, db *sql.DB, entityID, state, attrs, lastUpdated string) {
	t.Helper()

	q := `INSERT INTO states (entity_id, state, attributes, last_updated) VALUES ($1, $2, $3, $4);`
	if _, err := db.Exec(q, entityID, state, attrs, lastUpdated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSQLGetReturnsLatestRow(t *testing.T) {
	db := testDB(t)
	insertState(t, db, "device_tracker.phone", "not_home", `{}`, "2026-08-23 10:00:00")
	insertState(t, db, "device_tracker.phone", "home", `{}`, "2026-08-23 11:00:00")

	lookup := NewSQLLookup(db)
	state, err := lookup.Get(context.Background(), "device_tracker.phone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.State != "home" {
		t.Fatalf("state = %q, want latest row home", state.State)
	}

	if _, err := lookup.Get(context.Background(), "device_tracker.absent"); !errors.Is(err, ports.ErrEntityNotFound) {
		t.Fatalf("err = %v, want ErrEntityNotFound", err)
	}
}

func TestSQLZoneByLabelIgnoresHistoryRows(t *testing.T) {
	db := testDB(t)
	insertState(t, db, "zone.home", "zoning",
		`{"friendly_name":"Home","latitude":51.0,"longitude":9.0}`, "2026-08-23 10:00:00")
	insertState(t, db, "zone.home", "zoning",
		`{"friendly_name":"Home","latitude":51.222975,"longitude":9.267577}`, "2026-08-23 11:00:00")

	lookup := NewSQLLookup(db)
	zone, err := lookup.ZoneByLabel(context.Background(), "Home")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zone.EntityID != "zone.home" {
		t.Fatalf("entity = %q, want zone.home", zone.EntityID)
	}
	if lat, _ := zone.Attributes["latitude"].(float64); lat != 51.222975 {
		t.Fatalf("latitude = %v, want newest row 51.222975", lat)
	}
}

func TestSQLZoneByLabelDistinctZonesAmbiguous(t *testing.T) {
	db := testDB(t)
	insertState(t, db, "zone.home", "zoning", `{"friendly_name":"Home"}`, "2026-08-23 10:00:00")
	insertState(t, db, "zone.home_two", "zoning", `{"friendly_name":"Home"}`, "2026-08-23 10:00:00")

	lookup := NewSQLLookup(db)
	if _, err := lookup.ZoneByLabel(context.Background(), "Home"); !errors.Is(err, ports.ErrAmbiguousZone) {
		t.Fatalf("err = %v, want ErrAmbiguousZone", err)
	}
}

func TestSQLZoneByLabelNotFound(t *testing.T) {
	db := testDB(t)
	insertState(t, db, "device_tracker.home", "home", `{"friendly_name":"Home"}`, "2026-08-23 10:00:00")

	lookup := NewSQLLookup(db)
	if _, err := lookup.ZoneByLabel(context.Background(), "Home"); !errors.Is(err, ports.ErrEntityNotFound) {
		t.Fatalf("err = %v, want ErrEntityNotFound (non-zones must not match)", err)
	}
}
