package entitystate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"travel-time-service/internal/ports"
)

// InitSchema creates the states table used by local development databases.
// Production installations point the lookup at the host's own recorder.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: db is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS states (
		entity_id    TEXT NOT NULL,
		state        TEXT NOT NULL,
		attributes   TEXT NOT NULL,
		last_updated TIMESTAMP NOT NULL,
		PRIMARY KEY (entity_id, last_updated)
	);
	`

	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init schema: create states table: %w", err)
	}

	return nil
}

// SeedStates upserts entity state snapshots, replacing any prior rows for
// the same entity so the seeded value is always the latest.
func SeedStates(ctx context.Context, db *sql.DB, states []ports.EntityState) error {
	if db == nil {
		return errors.New("seed states: db is nil")
	}

	if len(states) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed states: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	del, err := tx.PrepareContext(ctx, `DELETE FROM states WHERE entity_id = $1;`)
	if err != nil {
		return fmt.Errorf("seed states: prepare delete: %w", err)
	}
	defer del.Close()

	ins, err := tx.PrepareContext(ctx, `
	INSERT INTO states (entity_id, state, attributes, last_updated)
	VALUES ($1, $2, $3, $4);
	`)
	if err != nil {
		return fmt.Errorf("seed states: prepare insert: %w", err)
	}
	defer ins.Close()

	now := time.Now().UTC()
	for _, s := range states {
		if s.EntityID == "" {
			return errors.New("seed states: empty entity id")
		}

		attrs, err := json.Marshal(s.Attributes)
		if err != nil {
			return fmt.Errorf("seed states: marshal attributes for %q: %w", s.EntityID, err)
		}

		if _, err := del.ExecContext(ctx, s.EntityID); err != nil {
			return fmt.Errorf("seed states: delete %q: %w", s.EntityID, err)
		}
		if _, err := ins.ExecContext(ctx, s.EntityID, s.State, string(attrs), now); err != nil {
			return fmt.Errorf("seed states: insert %q: %w", s.EntityID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed states: commit: %w", err)
	}

	return nil
}
