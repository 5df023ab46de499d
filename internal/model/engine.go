package model

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/nfl-predictor/internal/metrics"
	"github.com/gridironlabs/nfl-predictor/internal/models"
)

// Predictor scores a week's slate. Each call retrains from scratch over the
// configured lookback; no model state survives between calls, so identical
// inputs always produce identical output.
type Predictor struct {
	source Source
	cfg    Config
	logger *logrus.Entry
}

// NewPredictor creates a prediction engine over the given data source.
func NewPredictor(source Source, cfg Config, logger *logrus.Logger) *Predictor {
	if logger == nil {
		logger = logrus.New()
	}
	return &Predictor{
		source: source,
		cfg:    cfg,
		logger: logger.WithField("component", "predictor"),
	}
}

// Predict trains on prior seasons and scores every scheduled game of the
// target week, ordered by descending pick probability.
//
// Returns models.ErrNotReady with an empty slice when the target season has
// no qualifying plays yet. Training failures never surface here - the
// learner degrades to fallback coefficients.
func (p *Predictor) Predict(ctx context.Context, season, week int) ([]models.PredictionRow, error) {
	if season < 1999 {
		return nil, models.ErrInvalidSeason
	}
	if week < 1 || week > 22 {
		return nil, models.ErrInvalidWeek
	}

	learned := NewLearner(p.source, p.cfg, p.logger.Logger).Learn(ctx, season)
	metrics.RecordTrainingOutcome(learned)

	plays, err := p.source.FetchPlays(ctx, []int{season})
	if err != nil {
		return nil, fmt.Errorf("fetch current-season plays: %w", err)
	}

	eff := EfficiencySubset(plays, p.cfg.WPMin, p.cfg.WPMax)
	if len(eff) == 0 {
		p.logger.WithFields(logrus.Fields{"season": season, "week": week}).
			Info("No qualifying plays for season yet")
		return []models.PredictionRow{}, models.ErrNotReady
	}

	// Efficiency ratings use the whole season to date; pace and drive
	// quality only use weeks before the target so a partially played
	// target week cannot skew the volume estimates.
	pre := preWeek(plays, week)
	window := BuildRatings(eff, VolumeSubset(pre), p.cfg)
	if window == nil {
		return []models.PredictionRow{}, models.ErrNotReady
	}

	schedule, err := p.source.FetchSchedules(ctx, []int{season})
	if err != nil {
		return nil, fmt.Errorf("fetch current-season schedule: %w", err)
	}
	var games []models.ScheduledGame
	for _, g := range schedule {
		if g.Season == season && g.Week == week && g.GameType == models.GameTypeRegular {
			games = append(games, g)
		}
	}

	drivesPG := DrivesPerGame(withoutClockKills(pre))
	rows := p.score(BuildMatchupRows(games, window, p.cfg), learned, drivesPG)

	p.logger.WithFields(logrus.Fields{
		"season":    season,
		"week":      week,
		"games":     len(rows),
		"fitted":    learned.Fitted,
		"sigma":     learned.Sigma,
		"drives_pg": drivesPG,
	}).Info("Prediction completed")
	return rows, nil
}

// score applies the learned coefficients to each feature row and converts
// margin to win probability through the Normal link.
func (p *Predictor) score(features []models.MatchupFeatureRow, learned models.LearnedModel, drivesPG float64) []models.PredictionRow {
	rows := make([]models.PredictionRow, 0, len(features))
	for _, feat := range features {
		margin := learned.HomeField*feat.HomeFieldIndicator() +
			learned.Efficiency*(feat.KPair*feat.NetEPAPerPlay) +
			learned.DriveQuality*(drivesPG*feat.NetEckel)

		homeWinProb := normalCDF(margin / learned.Sigma)
		pick, pickProb := feat.HomeTeam, homeWinProb
		if homeWinProb < 0.5 {
			pick, pickProb = feat.AwayTeam, 1.0-homeWinProb
		}

		rows = append(rows, models.PredictionRow{
			MatchupFeatureRow: feat,
			PredMargin:        margin,
			HomeWinProb:       homeWinProb,
			Pick:              pick,
			PickProb:          pickProb,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].PickProb != rows[j].PickProb {
			return rows[i].PickProb > rows[j].PickProb
		}
		return rows[i].PredMargin > rows[j].PredMargin
	})
	return rows
}
