package repository

import (
	"context"

	"github.com/gridironlabs/nfl-predictor/internal/models"
)

// PredictionRepository defines the interface for saved prediction data access
type PredictionRepository interface {
	// UpsertBatch writes a snapshot of predictions, replacing any earlier
	// snapshot rows for the same (season, week, game)
	UpsertBatch(ctx context.Context, predictions []*models.SavedPrediction) error

	// List retrieves saved predictions for a season and week, newest first
	List(ctx context.Context, season, week, limit int) ([]*models.SavedPrediction, error)

	// HasWeek reports whether any snapshot exists for the season and week
	HasWeek(ctx context.Context, season, week int) (bool, error)

	// Count returns the total number of saved predictions
	Count(ctx context.Context) (int64, error)
}
