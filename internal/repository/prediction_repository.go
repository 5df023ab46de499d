package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gridironlabs/nfl-predictor/internal/database"
	"github.com/gridironlabs/nfl-predictor/internal/models"
)

const errScanPrediction = "failed to scan prediction: %w"

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// UpsertBatch writes a snapshot inside one transaction so a partially
// applied snapshot is never visible
func (r *PostgresPredictionRepository) UpsertBatch(ctx context.Context, predictions []*models.SavedPrediction) error {
	if len(predictions) == 0 {
		return nil
	}

	query := `
		INSERT INTO model_predictions (id, season, week, game_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (season, week, game_id) DO UPDATE SET
			payload = EXCLUDED.payload,
			created_at = EXCLUDED.created_at
	`

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, p := range predictions {
			_, err := tx.Exec(ctx, query,
				p.ID, p.Season, p.Week, p.GameID, p.Payload, p.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert prediction for game %s: %w", p.GameID, err)
			}
		}
		return nil
	})
}

// List retrieves saved predictions for a season and week, newest first
func (r *PostgresPredictionRepository) List(ctx context.Context, season, week, limit int) ([]*models.SavedPrediction, error) {
	query := `
		SELECT id, season, week, game_id, payload, created_at
		FROM model_predictions
		WHERE season = $1 AND week = $2
		ORDER BY created_at DESC, game_id ASC
		LIMIT $3
	`

	rows, err := r.db.GetPool().Query(ctx, query, season, week, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.SavedPrediction
	for rows.Next() {
		p := &models.SavedPrediction{}
		err := rows.Scan(&p.ID, &p.Season, &p.Week, &p.GameID, &p.Payload, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf(errScanPrediction, err)
		}
		predictions = append(predictions, p)
	}

	return predictions, rows.Err()
}

// HasWeek reports whether any snapshot exists for the season and week
func (r *PostgresPredictionRepository) HasWeek(ctx context.Context, season, week int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM model_predictions WHERE season = $1 AND week = $2)`

	var exists bool
	err := r.db.GetPool().QueryRow(ctx, query, season, week).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check snapshot existence: %w", err)
	}
	return exists, nil
}

// Count returns the total number of saved predictions
func (r *PostgresPredictionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetPool().QueryRow(ctx, "SELECT COUNT(*) FROM model_predictions").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count predictions: %w", err)
	}
	return count, nil
}
