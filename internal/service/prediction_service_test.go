package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/nfl-predictor/internal/models"
)

type stubEngine struct {
	calls int
	rows  []models.PredictionRow
	err   error
}

func (e *stubEngine) Predict(ctx context.Context, season, week int) ([]models.PredictionRow, error) {
	e.calls++
	return e.rows, e.err
}

type memoryRepo struct {
	upserts [][]*models.SavedPrediction
	listed  []*models.SavedPrediction
}

func (r *memoryRepo) UpsertBatch(ctx context.Context, predictions []*models.SavedPrediction) error {
	r.upserts = append(r.upserts, predictions)
	return nil
}

func (r *memoryRepo) List(ctx context.Context, season, week, limit int) ([]*models.SavedPrediction, error) {
	return r.listed, nil
}

func (r *memoryRepo) HasWeek(ctx context.Context, season, week int) (bool, error) {
	return len(r.upserts) > 0, nil
}

func (r *memoryRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	for _, batch := range r.upserts {
		n += int64(len(batch))
	}
	return n, nil
}

func slateRow(gameID, home, away string, pickProb float64) models.PredictionRow {
	row := models.PredictionRow{
		PredMargin:  3.0,
		HomeWinProb: pickProb,
		Pick:        home,
		PickProb:    pickProb,
	}
	row.GameID = gameID
	row.Season = 2024
	row.Week = 5
	row.HomeTeam = home
	row.AwayTeam = away
	return row
}

func newTestService(engine *stubEngine, repo *memoryRepo) *PredictionService {
	return NewPredictionService(engine, repo, time.Minute, 2, nil)
}

func TestPredictCachesResults(t *testing.T) {
	engine := &stubEngine{rows: []models.PredictionRow{slateRow("2024_05_KC_NO", "KC", "NO", 0.64)}}
	svc := newTestService(engine, &memoryRepo{})

	first, err := svc.Predict(context.Background(), 2024, 5)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.Predict(context.Background(), 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, engine.calls, "second call should be served from cache")
}

func TestPredictNotReadyIsNotCached(t *testing.T) {
	engine := &stubEngine{rows: []models.PredictionRow{}, err: models.ErrNotReady}
	svc := newTestService(engine, &memoryRepo{})

	rows, err := svc.Predict(context.Background(), 2024, 1)
	require.ErrorIs(t, err, models.ErrNotReady)
	assert.Empty(t, rows)

	_, err = svc.Predict(context.Background(), 2024, 1)
	require.ErrorIs(t, err, models.ErrNotReady)
	assert.Equal(t, 2, engine.calls, "not-ready results must not be cached")
}

func TestPredictPropagatesEngineErrors(t *testing.T) {
	engine := &stubEngine{err: models.ErrInvalidWeek}
	svc := newTestService(engine, &memoryRepo{})

	_, err := svc.Predict(context.Background(), 2024, 0)
	require.ErrorIs(t, err, models.ErrInvalidWeek)
}

func TestSnapshotPersistsSlate(t *testing.T) {
	engine := &stubEngine{rows: []models.PredictionRow{
		slateRow("2024_05_KC_NO", "KC", "NO", 0.64),
		slateRow("2024_05_SF_SEA", "SF", "SEA", 0.58),
	}}
	repo := &memoryRepo{}
	svc := newTestService(engine, repo)

	saved, err := svc.Snapshot(context.Background(), 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	require.Len(t, repo.upserts, 1)
	batch := repo.upserts[0]
	require.Len(t, batch, 2)
	assert.Equal(t, "2024_05_KC_NO", batch[0].GameID)
	assert.Equal(t, 2024, batch[0].Season)
	assert.Equal(t, 5, batch[0].Week)

	// The stored payload round-trips to the original row
	row, err := batch[0].Row()
	require.NoError(t, err)
	assert.Equal(t, "KC", row.Pick)
	assert.InDelta(t, 0.64, row.PickProb, 1e-9)
}

func TestSnapshotEmptySlateSavesNothing(t *testing.T) {
	engine := &stubEngine{rows: []models.PredictionRow{}}
	repo := &memoryRepo{}
	svc := newTestService(engine, repo)

	saved, err := svc.Snapshot(context.Background(), 2024, 5)
	require.NoError(t, err)
	assert.Zero(t, saved)
	assert.Empty(t, repo.upserts)
}

func TestHistoryPassesThrough(t *testing.T) {
	want := []*models.SavedPrediction{{GameID: "2024_05_KC_NO", Season: 2024, Week: 5}}
	svc := newTestService(&stubEngine{}, &memoryRepo{listed: want})

	got, err := svc.History(context.Background(), 2024, 5, 10)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestInvalidateCacheForcesRerun(t *testing.T) {
	engine := &stubEngine{rows: []models.PredictionRow{slateRow("2024_05_KC_NO", "KC", "NO", 0.64)}}
	svc := newTestService(engine, &memoryRepo{})

	_, err := svc.Predict(context.Background(), 2024, 5)
	require.NoError(t, err)

	svc.InvalidateCache(2024, 5)

	_, err = svc.Predict(context.Background(), 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, engine.calls)
}
