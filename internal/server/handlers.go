package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gridironlabs/nfl-predictor/internal/models"
)

const defaultHistoryLimit = 100

// PredictionService is the surface the handlers need from the service layer.
type PredictionService interface {
	Predict(ctx context.Context, season, week int) ([]models.PredictionRow, error)
	Snapshot(ctx context.Context, season, week int) (int, error)
	History(ctx context.Context, season, week, limit int) ([]*models.SavedPrediction, error)
}

// PredictResponse is the JSON envelope for a scored slate.
type PredictResponse struct {
	Season      int                    `json:"season"`
	Week        int                    `json:"week"`
	ModelReady  bool                   `json:"model_ready"`
	Predictions []models.PredictionRow `json:"predictions"`
}

// SnapshotResponse reports how many rows a snapshot persisted.
type SnapshotResponse struct {
	Season    int `json:"season"`
	Week      int `json:"week"`
	RowsSaved int `json:"rows_saved"`
}

// HistoryResponse is the JSON envelope for persisted predictions.
type HistoryResponse struct {
	Season      int                       `json:"season"`
	Week        int                       `json:"week"`
	Predictions []*models.SavedPrediction `json:"predictions"`
}

// HealthResponse represents the JSON response for the health endpoint.
type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	season, week, err := s.seasonWeekParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rows, err := s.service.Predict(r.Context(), season, week)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, PredictResponse{Season: season, Week: week, ModelReady: true, Predictions: rows})
	case errors.Is(err, models.ErrNotReady):
		writeJSON(w, http.StatusOK, PredictResponse{Season: season, Week: week, ModelReady: false, Predictions: []models.PredictionRow{}})
	case errors.Is(err, models.ErrInvalidSeason), errors.Is(err, models.ErrInvalidWeek):
		writeError(w, http.StatusBadRequest, err)
	default:
		s.logger.WithError(err).Error("Prediction request failed")
		writeError(w, http.StatusBadGateway, fmt.Errorf("prediction failed: upstream data unavailable"))
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	season, week, err := s.seasonWeekParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	saved, err := s.service.Snapshot(r.Context(), season, week)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, SnapshotResponse{Season: season, Week: week, RowsSaved: saved})
	case errors.Is(err, models.ErrNotReady):
		writeJSON(w, http.StatusOK, SnapshotResponse{Season: season, Week: week, RowsSaved: 0})
	case errors.Is(err, models.ErrInvalidSeason), errors.Is(err, models.ErrInvalidWeek):
		writeError(w, http.StatusBadRequest, err)
	default:
		s.logger.WithError(err).Error("Snapshot request failed")
		writeError(w, http.StatusInternalServerError, fmt.Errorf("snapshot failed"))
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	season, week, err := s.seasonWeekParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 1000 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("limit must be an integer between 1 and 1000"))
			return
		}
	}

	saved, err := s.service.History(r.Context(), season, week, limit)
	if err != nil {
		s.logger.WithError(err).Error("History request failed")
		writeError(w, http.StatusInternalServerError, fmt.Errorf("history lookup failed"))
		return
	}
	if saved == nil {
		saved = []*models.SavedPrediction{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Season: season, Week: week, Predictions: saved})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := "ok"
	code := http.StatusOK

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			checks["database"] = fmt.Sprintf("error: %v", err)
			status = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}
	}

	writeJSON(w, code, HealthResponse{
		Status:    status,
		Service:   "nfl-predictor",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// seasonWeekParams parses and validates the season and week query params,
// falling back to the configured defaults when absent.
func (s *Server) seasonWeekParams(r *http.Request) (int, int, error) {
	season := s.cfg.DefaultSeason
	week := s.cfg.DefaultWeek

	var err error
	if raw := r.URL.Query().Get("season"); raw != "" {
		season, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("season must be an integer")
		}
	}
	if raw := r.URL.Query().Get("week"); raw != "" {
		week, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("week must be an integer")
		}
	}

	if season < 1999 {
		return 0, 0, models.ErrInvalidSeason
	}
	if week < 1 || week > 22 {
		return 0, 0, models.ErrInvalidWeek
	}
	return season, week, nil
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorResponse{Error: err.Error()})
}
