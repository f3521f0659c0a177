package database

import (
	"context"
	"fmt"

	"github.com/yourusername/edgecast/internal/config"
)

// Schema is the recommendation store layout. Documents are kept whole in JSONB
// and keyed by recommendation date and market id.
const Schema = `
CREATE TABLE IF NOT EXISTS recommendations (
    date       TEXT        NOT NULL,
    market_id  TEXT        NOT NULL,
    id         UUID        NOT NULL UNIQUE,
    document   JSONB       NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (date, market_id)
);

CREATE TABLE IF NOT EXISTS scored_predictions (
    date        TEXT        NOT NULL,
    market_id   TEXT        NOT NULL,
    id          UUID        NOT NULL UNIQUE,
    document    JSONB       NOT NULL,
    resolved_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (date, market_id)
);

CREATE INDEX IF NOT EXISTS idx_scored_date ON scored_predictions(date);
`

// Initialize creates a connection pool and applies the schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Storage.Database)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates missing tables
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
