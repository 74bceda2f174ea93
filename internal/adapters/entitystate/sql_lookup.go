package entitystate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"travel-time-service/internal/platform/obs"
	"travel-time-service/internal/ports"
)

// SQLLookup reads entity states from the host recorder database via
// database/sql. Works against sqlite (modernc driver) and PostgreSQL
// (pgx stdlib driver). Read-only; tolerates concurrent readers.
type SQLLookup struct {
	DB *sql.DB
}

func NewSQLLookup(db *sql.DB) *SQLLookup {
	return &SQLLookup{DB: db}
}

func (s *SQLLookup) Get(ctx context.Context, entityID string) (_ ports.EntityState, err error) {
	defer obs.Time(ctx, "entitystate.Get")(&err)

	if s.DB == nil {
		return ports.EntityState{}, errors.New("entity state lookup: db is nil")
	}

	if entityID == "" {
		return ports.EntityState{}, errors.New("entity state lookup: entity id must not be empty")
	}

	q := `
	SELECT state, attributes
	FROM states
	WHERE entity_id = $1
	ORDER BY last_updated DESC
	LIMIT 1;
	`

	var state, attrsJSON string
	if err := s.DB.QueryRowContext(ctx, q, entityID).Scan(&state, &attrsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.EntityState{}, ports.ErrEntityNotFound
		}
		return ports.EntityState{}, fmt.Errorf("entity state lookup: query states: %w", err)
	}

	attrs, err := decodeAttributes(attrsJSON)
	if err != nil {
		return ports.EntityState{}, fmt.Errorf("entity state lookup %q: %w", entityID, err)
	}

	return ports.EntityState{EntityID: entityID, State: state, Attributes: attrs}, nil
}

func (s *SQLLookup) ZoneByLabel(ctx context.Context, label string) (_ ports.EntityState, err error) {
	defer obs.Time(ctx, "entitystate.ZoneByLabel")(&err)

	if s.DB == nil {
		return ports.EntityState{}, errors.New("entity state lookup: db is nil")
	}

	// The recorder keeps one row per update; only the newest row per zone
	// counts, otherwise an entity's own history would read as two zones.
	q := `
	SELECT s.entity_id, s.state, s.attributes
	FROM states s
	JOIN (
		SELECT entity_id, MAX(last_updated) AS last_updated
		FROM states
		WHERE entity_id LIKE 'zone.%'
		GROUP BY entity_id
	) latest
	ON s.entity_id = latest.entity_id AND s.last_updated = latest.last_updated;
	`

	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return ports.EntityState{}, fmt.Errorf("entity state lookup: query zones: %w", err)
	}
	defer rows.Close()

	var match ports.EntityState
	found := false

	// Friendly labels live inside the JSON attribute blob, so filtering
	// happens here rather than in SQL.
	for rows.Next() {
		var id, state, attrsJSON string
		if err := rows.Scan(&id, &state, &attrsJSON); err != nil {
			return ports.EntityState{}, fmt.Errorf("entity state lookup: scan zone row: %w", err)
		}

		attrs, err := decodeAttributes(attrsJSON)
		if err != nil {
			return ports.EntityState{}, fmt.Errorf("entity state lookup %q: %w", id, err)
		}

		candidate := ports.EntityState{EntityID: id, State: state, Attributes: attrs}
		if zoneLabel(candidate) != label {
			continue
		}
		if found {
			return ports.EntityState{}, ports.ErrAmbiguousZone
		}
		match = candidate
		found = true
	}
	if err := rows.Err(); err != nil {
		return ports.EntityState{}, fmt.Errorf("entity state lookup: zone row iteration: %w", err)
	}

	if !found {
		return ports.EntityState{}, ports.ErrEntityNotFound
	}
	return match, nil
}

func decodeAttributes(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}

	var attrs map[string]any
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return nil, fmt.Errorf("decode attributes: %w", err)
	}
	return attrs, nil
}
