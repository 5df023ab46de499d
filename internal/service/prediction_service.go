// Package service coordinates the prediction engine, cache and persistence
// behind the HTTP and CLI surfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/nfl-predictor/internal/logger"
	"github.com/gridironlabs/nfl-predictor/internal/metrics"
	"github.com/gridironlabs/nfl-predictor/internal/models"
	"github.com/gridironlabs/nfl-predictor/internal/repository"
)

// PredictionEngine scores one week's slate. Implemented by model.Predictor.
type PredictionEngine interface {
	Predict(ctx context.Context, season, week int) ([]models.PredictionRow, error)
}

// PredictionService fronts the engine with a TTL cache and bounds how many
// prediction runs execute concurrently. A full run refetches and retrains,
// so uncached calls are expensive.
type PredictionService struct {
	engine    PredictionEngine
	repo      repository.PredictionRepository
	cache     *gocache.Cache
	semaphore chan struct{}
	logger    *logger.ModelLogger
	now       func() time.Time
}

// NewPredictionService creates the service with the given cache TTL and
// concurrency bound.
func NewPredictionService(
	engine PredictionEngine,
	repo repository.PredictionRepository,
	cacheTTL time.Duration,
	maxConcurrent int,
	baseLogger *logrus.Logger,
) *PredictionService {
	if baseLogger == nil {
		baseLogger = logrus.New()
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	return &PredictionService{
		engine:    engine,
		repo:      repo,
		cache:     gocache.New(cacheTTL, 2*cacheTTL),
		semaphore: make(chan struct{}, maxConcurrent),
		logger:    logger.NewModelLogger(baseLogger),
		now:       time.Now,
	}
}

// Predict returns the scored slate for a season and week, serving repeat
// requests from the cache. A not-ready season yields an empty slate and
// models.ErrNotReady.
func (s *PredictionService) Predict(ctx context.Context, season, week int) ([]models.PredictionRow, error) {
	key := cacheKey(season, week)
	if cached, ok := s.cache.Get(key); ok {
		metrics.RecordCacheHit()
		rows := cached.([]models.PredictionRow)
		s.logger.LogPredictionRun(season, week, len(rows), true, 0)
		return rows, nil
	}
	metrics.RecordCacheMiss()

	select {
	case s.semaphore <- struct{}{}:
		defer func() { <-s.semaphore }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// Another request may have filled the cache while this one waited.
	if cached, ok := s.cache.Get(key); ok {
		metrics.RecordCacheHit()
		return cached.([]models.PredictionRow), nil
	}

	start := s.now()
	rows, err := s.engine.Predict(ctx, season, week)
	elapsed := s.now().Sub(start)
	if err != nil {
		if errors.Is(err, models.ErrNotReady) {
			return []models.PredictionRow{}, err
		}
		return nil, err
	}

	metrics.RecordPrediction(elapsed.Seconds())
	s.cache.Set(key, rows, gocache.DefaultExpiration)
	s.logger.LogPredictionRun(season, week, len(rows), false, float64(elapsed.Milliseconds()))
	return rows, nil
}

// Snapshot runs a prediction and persists the slate, one row per game.
// Returns the number of rows saved.
func (s *PredictionService) Snapshot(ctx context.Context, season, week int) (int, error) {
	if s.repo == nil {
		return 0, fmt.Errorf("prediction store is not configured")
	}

	rows, err := s.Predict(ctx, season, week)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	now := s.now().UTC()
	saved := make([]*models.SavedPrediction, 0, len(rows))
	for i := range rows {
		sp, err := models.NewSavedPrediction(&rows[i], now)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize prediction for game %s: %w", rows[i].GameID, err)
		}
		saved = append(saved, sp)
	}

	if err := s.repo.UpsertBatch(ctx, saved); err != nil {
		return 0, err
	}

	metrics.SnapshotsSavedTotal.Add(float64(len(saved)))
	s.logger.LogSnapshotSaved(season, week, len(saved))
	return len(saved), nil
}

// History returns previously persisted predictions for a season and week.
func (s *PredictionService) History(ctx context.Context, season, week, limit int) ([]*models.SavedPrediction, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("prediction store is not configured")
	}
	return s.repo.List(ctx, season, week, limit)
}

// InvalidateCache drops any cached slate for a season and week.
func (s *PredictionService) InvalidateCache(season, week int) {
	s.cache.Delete(cacheKey(season, week))
}

func cacheKey(season, week int) string {
	return fmt.Sprintf("%d:%d", season, week)
}
