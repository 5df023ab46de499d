package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PredictionRow is one scored matchup: the feature row plus the model
// output. Rows are returned ordered by descending pick probability.
type PredictionRow struct {
	MatchupFeatureRow

	PredMargin  float64 `json:"pred_margin"`
	HomeWinProb float64 `json:"home_win_prob" validate:"gte=0,lte=1"`
	Pick        string  `json:"pick"`
	PickProb    float64 `json:"pick_prob" validate:"gte=0.5,lte=1"`
}

// SavedPrediction is a persisted snapshot of one PredictionRow, keyed by
// (season, week, game_id) with overwrite-on-conflict semantics.
type SavedPrediction struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	Season    int             `db:"season" json:"season" validate:"required,gte=1999"`
	Week      int             `db:"week" json:"week" validate:"required,gte=1,lte=22"`
	GameID    string          `db:"game_id" json:"game_id" validate:"required"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// NewSavedPrediction serializes a prediction row for persistence.
func NewSavedPrediction(row *PredictionRow, now time.Time) (*SavedPrediction, error) {
	payload, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	return &SavedPrediction{
		ID:        uuid.New(),
		Season:    row.Season,
		Week:      row.Week,
		GameID:    row.GameID,
		Payload:   payload,
		CreatedAt: now,
	}, nil
}

// Row deserializes the stored payload back into a prediction row.
func (s *SavedPrediction) Row() (*PredictionRow, error) {
	var row PredictionRow
	if err := json.Unmarshal(s.Payload, &row); err != nil {
		return nil, err
	}
	return &row, nil
}
