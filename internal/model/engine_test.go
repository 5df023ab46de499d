package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/nfl-predictor/internal/models"
)

func TestPredictRejectsInvalidArguments(t *testing.T) {
	p := NewPredictor(&stubSource{}, DefaultConfig(), nil)

	_, err := p.Predict(context.Background(), 1998, 5)
	assert.ErrorIs(t, err, models.ErrInvalidSeason)

	_, err = p.Predict(context.Background(), 2024, 0)
	assert.ErrorIs(t, err, models.ErrInvalidWeek)

	_, err = p.Predict(context.Background(), 2024, 23)
	assert.ErrorIs(t, err, models.ErrInvalidWeek)
}

func TestPredictNotReadyWithoutQualifyingPlays(t *testing.T) {
	// Schedule exists but no snaps have been recorded for the season.
	_, slate := syntheticWeek(2024, 1, false)
	src := &stubSource{games: slate, failSeasons: map[int]bool{}}

	rows, err := NewPredictor(src, DefaultConfig(), nil).Predict(context.Background(), 2024, 1)

	assert.ErrorIs(t, err, models.ErrNotReady)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestPredictScoresFullSlate(t *testing.T) {
	src := syntheticSeasons(2024, 6, 3)
	p := NewPredictor(src, DefaultConfig(), nil)

	rows, err := p.Predict(context.Background(), 2024, 6)
	require.NoError(t, err)
	require.Len(t, rows, len(syntheticTeams)/2)

	for _, row := range rows {
		assert.Equal(t, 2024, row.Season)
		assert.Equal(t, 6, row.Week)
		assert.Greater(t, row.HomeWinProb, 0.0)
		assert.Less(t, row.HomeWinProb, 1.0)
		assert.GreaterOrEqual(t, row.PickProb, 0.5)
		assert.LessOrEqual(t, row.PickProb, 1.0)
		if row.HomeWinProb >= 0.5 {
			assert.Equal(t, row.HomeTeam, row.Pick)
		} else {
			assert.Equal(t, row.AwayTeam, row.Pick)
		}
	}

	// Rows come back ordered by descending pick probability.
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].PickProb, rows[i].PickProb)
	}
}

func TestPredictIsDeterministic(t *testing.T) {
	src := syntheticSeasons(2024, 6, 3)
	p := NewPredictor(src, DefaultConfig(), nil)

	first, err := p.Predict(context.Background(), 2024, 6)
	require.NoError(t, err)
	second, err := p.Predict(context.Background(), 2024, 6)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPredictServesWhenTrainingWindowUnavailable(t *testing.T) {
	// Prior seasons error out; the learner degrades to fallback weights and
	// the current-season slate still gets scored.
	src := syntheticSeasons(2024, 6, 3)
	src.failSeasons[2021] = true
	src.failSeasons[2022] = true
	src.failSeasons[2023] = true

	rows, err := NewPredictor(src, DefaultConfig(), nil).Predict(context.Background(), 2024, 6)
	require.NoError(t, err)
	assert.Len(t, rows, len(syntheticTeams)/2)
}

func TestPredictFailsWhenCurrentSeasonUnavailable(t *testing.T) {
	src := syntheticSeasons(2024, 6, 3)
	src.failSeasons[2024] = true

	_, err := NewPredictor(src, DefaultConfig(), nil).Predict(context.Background(), 2024, 6)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotReady)
}

func TestScoreNeutralEvenMatchup(t *testing.T) {
	p := NewPredictor(&stubSource{}, DefaultConfig(), nil)
	learned := models.FallbackModel(0)

	rows := p.score([]models.MatchupFeatureRow{{
		GameID:      "g1",
		HomeTeam:    "AAA",
		AwayTeam:    "BBB",
		NeutralSite: true,
	}}, learned, 11.5)

	require.Len(t, rows, 1)
	assert.InDelta(t, 0.0, rows[0].PredMargin, 1e-12)
	assert.InDelta(t, 0.5, rows[0].HomeWinProb, 1e-12)
	assert.InDelta(t, 0.5, rows[0].PickProb, 1e-12)
}

func TestScoreHomeFieldOnly(t *testing.T) {
	// Identical teams at home: the margin is exactly the home-field weight
	// and the home side is the pick.
	p := NewPredictor(&stubSource{}, DefaultConfig(), nil)
	learned := models.FallbackModel(0)

	rows := p.score([]models.MatchupFeatureRow{{
		GameID:   "g1",
		HomeTeam: "AAA",
		AwayTeam: "BBB",
	}}, learned, 11.5)

	require.Len(t, rows, 1)
	assert.InDelta(t, learned.HomeField, rows[0].PredMargin, 1e-12)
	assert.Greater(t, rows[0].HomeWinProb, 0.5)
	assert.Equal(t, "AAA", rows[0].Pick)
	assert.Equal(t, rows[0].HomeWinProb, rows[0].PickProb)
}
