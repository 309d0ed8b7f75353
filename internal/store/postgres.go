package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

const (
	createSlotTable = `
		CREATE TABLE IF NOT EXISTS geocode_cache (
			slot       TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`

	selectSlot = `
		SELECT payload
		FROM geocode_cache
		WHERE slot = $1;
	`

	upsertSlot = `
		INSERT INTO geocode_cache (slot, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (slot) DO UPDATE
		SET
			payload = EXCLUDED.payload,
			updated_at = now();
	`
)

// PostgresSlot keeps the payload in one row of geocode_cache.
// The payload column is plain text so that a damaged value is read back as-is.
type PostgresSlot struct {
	db   Database
	name string
	log  *slog.Logger
}

// NewPostgresSlot binds a slot to the row keyed by name.
func NewPostgresSlot(db Database, name string, log *slog.Logger) *PostgresSlot {
	return &PostgresSlot{db: db, name: name, log: log}
}

// EnsureSchema creates the geocode_cache table if it does not exist.
func (ps *PostgresSlot) EnsureSchema(ctx context.Context) error {
	if _, err := ps.db.Exec(ctx, createSlotTable); err != nil {
		return fmt.Errorf("failed to create geocode_cache table: %w", err)
	}

	return nil
}

func (ps *PostgresSlot) Read(ctx context.Context) ([]byte, error) {
	var payload string
	err := ps.db.QueryRow(ctx, selectSlot, ps.name).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		ps.log.DebugContext(ctx, "Cache slot not found", "slot", ps.name)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache slot: %w", err)
	}

	return []byte(payload), nil
}

func (ps *PostgresSlot) Write(ctx context.Context, payload []byte) error {
	if _, err := ps.db.Exec(ctx, upsertSlot, ps.name, string(payload)); err != nil {
		return fmt.Errorf("failed to write cache slot: %w", err)
	}

	return nil
}

func (ps *PostgresSlot) Ping(ctx context.Context) error {
	return ps.db.Ping(ctx)
}

func (ps *PostgresSlot) Close() error {
	ps.db.Close()
	return nil
}
