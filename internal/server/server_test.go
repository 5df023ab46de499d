package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/nfl-predictor/internal/config"
	"github.com/gridironlabs/nfl-predictor/internal/models"
)

type fakeService struct {
	rows        []models.PredictionRow
	predictErr  error
	snapshotN   int
	snapshotErr error
	history     []*models.SavedPrediction
	historyErr  error

	lastSeason, lastWeek, lastLimit int
}

func (f *fakeService) Predict(ctx context.Context, season, week int) ([]models.PredictionRow, error) {
	f.lastSeason, f.lastWeek = season, week
	return f.rows, f.predictErr
}

func (f *fakeService) Snapshot(ctx context.Context, season, week int) (int, error) {
	f.lastSeason, f.lastWeek = season, week
	return f.snapshotN, f.snapshotErr
}

func (f *fakeService) History(ctx context.Context, season, week, limit int) ([]*models.SavedPrediction, error) {
	f.lastSeason, f.lastWeek, f.lastLimit = season, week, limit
	return f.history, f.historyErr
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Port:                     8080,
		CacheTTLSeconds:          900,
		MaxConcurrentPredictions: 4,
		DefaultSeason:            2024,
		DefaultWeek:              3,
	}
}

func doRequest(t *testing.T, svc PredictionService, db DatabasePinger, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	srv := New(testServerConfig(), svc, db, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestPredictEndpoint(t *testing.T) {
	row := models.PredictionRow{Pick: "KC", PickProb: 0.63, HomeWinProb: 0.63}
	row.GameID = "2024_03_KC_ATL"
	svc := &fakeService{rows: []models.PredictionRow{row}}

	rec := doRequest(t, svc, nil, http.MethodGet, "/predict?season=2024&week=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PredictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2024, resp.Season)
	assert.Equal(t, 3, resp.Week)
	assert.True(t, resp.ModelReady)
	require.Len(t, resp.Predictions, 1)
	assert.Equal(t, "KC", resp.Predictions[0].Pick)
}

func TestPredictDefaultsFromConfig(t *testing.T) {
	svc := &fakeService{rows: []models.PredictionRow{}}

	rec := doRequest(t, svc, nil, http.MethodGet, "/predict")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2024, svc.lastSeason)
	assert.Equal(t, 3, svc.lastWeek)
}

func TestPredictNotReady(t *testing.T) {
	svc := &fakeService{rows: []models.PredictionRow{}, predictErr: models.ErrNotReady}

	rec := doRequest(t, svc, nil, http.MethodGet, "/predict?season=2024&week=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PredictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.ModelReady)
	assert.Empty(t, resp.Predictions)
}

func TestPredictParamValidation(t *testing.T) {
	svc := &fakeService{}

	tests := []struct {
		name   string
		target string
	}{
		{"season too early", "/predict?season=1998&week=1"},
		{"week zero", "/predict?season=2024&week=0"},
		{"week too large", "/predict?season=2024&week=23"},
		{"season not a number", "/predict?season=abc&week=1"},
		{"week not a number", "/predict?season=2024&week=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, svc, nil, http.MethodGet, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPredictUpstreamFailure(t *testing.T) {
	svc := &fakeService{predictErr: errors.New("fetch current-season plays: connection refused")}

	rec := doRequest(t, svc, nil, http.MethodGet, "/predict?season=2024&week=3")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSnapshotEndpoint(t *testing.T) {
	svc := &fakeService{snapshotN: 14}

	rec := doRequest(t, svc, nil, http.MethodPost, "/predict/snapshot?season=2024&week=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SnapshotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 14, resp.RowsSaved)
}

func TestHistoryEndpoint(t *testing.T) {
	svc := &fakeService{history: []*models.SavedPrediction{
		{GameID: "2024_03_KC_ATL", Season: 2024, Week: 3},
	}}

	rec := doRequest(t, svc, nil, http.MethodGet, "/history?season=2024&week=3&limit=50")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50, svc.lastLimit)

	var resp HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Predictions, 1)
}

func TestHistoryLimitValidation(t *testing.T) {
	svc := &fakeService{}

	rec := doRequest(t, svc, nil, http.MethodGet, "/history?season=2024&week=3&limit=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, svc, nil, http.MethodGet, "/history?season=2024&week=3&limit=1001")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryEmptyIsJSONArray(t *testing.T) {
	svc := &fakeService{history: nil}

	rec := doRequest(t, svc, nil, http.MethodGet, "/history?season=2024&week=3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"predictions":[]`)
}

func TestHealthEndpoint(t *testing.T) {
	rec := doRequest(t, &fakeService{}, fakePinger{}, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Checks["database"])
}

func TestHealthEndpointDegraded(t *testing.T) {
	rec := doRequest(t, &fakeService{}, fakePinger{err: errors.New("dial tcp: refused")}, http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := doRequest(t, &fakeService{}, nil, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}
