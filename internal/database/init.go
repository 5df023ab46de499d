package database

import (
	"context"
	"fmt"

	"github.com/gridironlabs/nfl-predictor/internal/config"
)

// schemaStatements bootstrap the prediction store. Statements are idempotent
// so startup can run them unconditionally.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS model_predictions (
		id UUID PRIMARY KEY,
		season INTEGER NOT NULL,
		week INTEGER NOT NULL,
		game_id TEXT NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_model_predictions_season_week_game
		ON model_predictions (season, week, game_id)`,
	`CREATE INDEX IF NOT EXISTS idx_model_predictions_created_at
		ON model_predictions (created_at)`,
}

// Initialize creates a database connection pool and bootstraps the schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	// Create connection pool
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema applies the bootstrap DDL
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
