package model

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/nfl-predictor/internal/models"
)

// Source supplies play and schedule data for a set of seasons. The pipeline
// treats delivery as synchronous and complete.
type Source interface {
	FetchPlays(ctx context.Context, seasons []int) ([]models.PlayEvent, error)
	FetchSchedules(ctx context.Context, seasons []int) ([]models.ScheduledGame, error)
}

// trainingRow is one labeled game: home-field indicator, the two scaled
// features and the realized margin.
type trainingRow struct {
	h, x1, x2, y float64
}

// Learner fits the regression weights from prior seasons. Any failure in
// the training pipeline degrades to the fixed fallback coefficients; the
// learner never blocks a prediction.
type Learner struct {
	source Source
	cfg    Config
	logger *logrus.Entry
}

// NewLearner creates a weight learner over the given data source.
func NewLearner(source Source, cfg Config, logger *logrus.Logger) *Learner {
	if logger == nil {
		logger = logrus.New()
	}
	return &Learner{
		source: source,
		cfg:    cfg,
		logger: logger.WithField("component", "learner"),
	}
}

// Learn builds leakage-safe weekly training folds from the seasons before
// target and fits a no-intercept least-squares model. The returned model is
// always concrete - fitted, or the documented fallback on thin data or any
// upstream failure.
func (l *Learner) Learn(ctx context.Context, targetSeason int) models.LearnedModel {
	rows, err := l.buildTrainingRows(ctx, targetSeason)
	if err != nil {
		l.logger.WithError(err).Warn("Training data unavailable, using fallback coefficients")
		return models.FallbackModel(0)
	}
	if len(rows) < minTrainingRows {
		l.logger.WithFields(logrus.Fields{
			"rows":     len(rows),
			"required": minTrainingRows,
		}).Warn("Too few training rows, using fallback coefficients")
		return models.FallbackModel(len(rows))
	}

	fitted, err := fitNoIntercept(rows)
	if err != nil {
		l.logger.WithError(err).Warn("Regression fit failed, using fallback coefficients")
		return models.FallbackModel(len(rows))
	}

	l.logger.WithFields(logrus.Fields{
		"rows":    len(rows),
		"b_hfa":   fitted.HomeField,
		"b_epa":   fitted.Efficiency,
		"b_eckel": fitted.DriveQuality,
		"sigma":   fitted.Sigma,
	}).Info("Learned regression weights")
	return fitted
}

func (l *Learner) buildTrainingRows(ctx context.Context, targetSeason int) ([]trainingRow, error) {
	seasons := make([]int, 0, l.cfg.TrainYearsBack)
	for s := targetSeason - l.cfg.TrainYearsBack; s < targetSeason; s++ {
		seasons = append(seasons, s)
	}

	plays, err := l.source.FetchPlays(ctx, seasons)
	if err != nil {
		return nil, fmt.Errorf("fetch training plays: %w", err)
	}
	games, err := l.source.FetchSchedules(ctx, seasons)
	if err != nil {
		return nil, fmt.Errorf("fetch training schedules: %w", err)
	}

	playsBySeason := map[int][]models.PlayEvent{}
	for _, p := range plays {
		playsBySeason[p.Season] = append(playsBySeason[p.Season], p)
	}
	gamesBySeason := map[int][]models.ScheduledGame{}
	for _, g := range games {
		if g.GameType != models.GameTypeRegular {
			continue
		}
		gamesBySeason[g.Season] = append(gamesBySeason[g.Season], g)
	}

	var rows []trainingRow
	for _, season := range seasons {
		rows = append(rows, l.seasonFolds(playsBySeason[season], gamesBySeason[season])...)
	}
	return rows, nil
}

// seasonFolds walks each completed week of one season and builds training
// rows from plays strictly before that week, so a fold never sees the games
// it labels.
func (l *Learner) seasonFolds(plays []models.PlayEvent, games []models.ScheduledGame) []trainingRow {
	weekSet := map[int]struct{}{}
	for _, g := range games {
		if g.IsCompleted() {
			weekSet[g.Week] = struct{}{}
		}
	}
	weeks := make([]int, 0, len(weekSet))
	for wk := range weekSet {
		weeks = append(weeks, wk)
	}
	sort.Ints(weeks)

	var rows []trainingRow
	for _, wk := range weeks {
		pre := preWeek(plays, wk)
		if len(pre) == 0 {
			continue
		}
		window := BuildRatings(
			EfficiencySubset(pre, l.cfg.WPMin, l.cfg.WPMax),
			VolumeSubset(pre),
			l.cfg,
		)
		if window == nil {
			continue
		}

		var weekGames []models.ScheduledGame
		for _, g := range games {
			if g.Week == wk && g.IsCompleted() {
				weekGames = append(weekGames, g)
			}
		}
		if len(weekGames) == 0 {
			continue
		}

		drivesPG := DrivesPerGame(withoutClockKills(pre))
		for _, feat := range BuildMatchupRows(weekGames, window, l.cfg) {
			if feat.Margin == nil {
				continue
			}
			rows = append(rows, trainingRow{
				h:  feat.HomeFieldIndicator(),
				x1: feat.KPair * feat.NetEPAPerPlay,
				x2: drivesPG * feat.NetEckel,
				y:  *feat.Margin,
			})
		}
	}
	return rows
}

// fitNoIntercept solves ordinary least squares without an intercept over
// the columns {H, X1, X2} via the normal equations, and clamps the residual
// spread to the plausible points range.
func fitNoIntercept(rows []trainingRow) (models.LearnedModel, error) {
	var xtx [3][3]float64
	var xty [3]float64
	for _, r := range rows {
		x := [3]float64{r.h, r.x1, r.x2}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				xtx[i][j] += x[i] * x[j]
			}
			xty[i] += x[i] * r.y
		}
	}

	coef, err := solveLinearSystem(xtx, xty)
	if err != nil {
		return models.LearnedModel{}, err
	}

	residuals := make([]float64, len(rows))
	for i, r := range rows {
		predicted := coef[0]*r.h + coef[1]*r.x1 + coef[2]*r.x2
		residuals[i] = r.y - predicted
	}

	return models.LearnedModel{
		HomeField:    coef[0],
		Efficiency:   coef[1],
		DriveQuality: coef[2],
		Sigma:        clamp(sampleStddev(residuals), sigmaMin, sigmaMax),
		Fitted:       true,
		TrainingRows: len(rows),
	}, nil
}
