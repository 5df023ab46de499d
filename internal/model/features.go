package model

import (
	"math"

	"github.com/gridironlabs/nfl-predictor/internal/models"
)

// BuildMatchupRows joins home and away ratings onto a week's schedule,
// producing one feature row per game. Teams missing from the window (bye
// artifacts, expansion quirks) fall back to the league means; pace gaps
// fall back to the configured plays-per-game constant. Pace clamp bounds
// and the soft-clip scale both derive from the same rating window that
// produced the ratings, for training and prediction alike.
func BuildMatchupRows(games []models.ScheduledGame, window *models.RatingWindow, cfg Config) []models.MatchupFeatureRow {
	kLo, kHi := paceBounds(window.PaceSamples())
	scale := clipScale(games, window)

	rows := make([]models.MatchupFeatureRow, 0, len(games))
	for _, g := range games {
		homeOff, homeDef := teamRatings(window, g.HomeTeam)
		awayOff, awayDef := teamRatings(window, g.AwayTeam)

		row := models.MatchupFeatureRow{
			GameID:      g.GameID,
			Season:      g.Season,
			Week:        g.Week,
			HomeTeam:    g.HomeTeam,
			AwayTeam:    g.AwayTeam,
			NeutralSite: g.NeutralSite,
		}

		row.HomeOffEPA = offEPA(homeOff, window)
		row.AwayOffEPA = offEPA(awayOff, window)
		row.HomeDefEPAAllowed = defEPA(homeDef, window)
		row.AwayDefEPAAllowed = defEPA(awayDef, window)

		row.HomeOffVsAwayDef = row.HomeOffEPA + row.AwayDefEPAAllowed
		row.AwayOffVsHomeDef = row.AwayOffEPA + row.HomeDefEPAAllowed
		row.NetEPAPerPlay = softClip(row.HomeOffVsAwayDef-row.AwayOffVsHomeDef, scale)

		row.KPair = clamp((pace(homeOff, cfg)+pace(awayOff, cfg))/2.0, kLo, kHi)

		row.HomeOffEckel = eckel(homeOff, cfg)
		row.AwayOffEckel = eckel(awayOff, cfg)
		row.HomeDefEckelAllowed = eckelAllowed(homeDef, cfg)
		row.AwayDefEckelAllowed = eckelAllowed(awayDef, cfg)
		row.NetEckel = (row.HomeOffEckel - row.AwayDefEckelAllowed) -
			(row.AwayOffEckel - row.HomeDefEckelAllowed)

		if margin, ok := g.Margin(); ok {
			m := margin
			row.Margin = &m
		}

		rows = append(rows, row)
	}
	return rows
}

// paceBounds derives the expected-play-volume clamp from the window's pace
// observations: the 10th-90th percentile with a floor of 50 and a minimum
// 2-unit spread, or a fixed fallback range when observations are scarce.
func paceBounds(samples []float64) (float64, float64) {
	if len(samples) < paceMinSamples {
		return paceFallbackLo, paceFallbackHi
	}
	lo := math.Max(paceFloor, percentile(samples, 10))
	hi := math.Max(lo+paceMinSpread, percentile(samples, 90))
	return lo, hi
}

// clipScale learns the soft-clip scale from the week's unclipped net EPA
// differentials: the 95th percentile of their magnitudes clamped to
// [0.08, 0.20], or 0.15 when the slate is too small to estimate from.
func clipScale(games []models.ScheduledGame, window *models.RatingWindow) float64 {
	diffs := make([]float64, 0, len(games))
	for _, g := range games {
		homeOff, homeDef := teamRatings(window, g.HomeTeam)
		awayOff, awayDef := teamRatings(window, g.AwayTeam)
		net := (offEPA(homeOff, window) + defEPA(awayDef, window)) -
			(offEPA(awayOff, window) + defEPA(homeDef, window))
		diffs = append(diffs, math.Abs(net))
	}
	if len(diffs) < clipMinGames {
		return clipScaleStart
	}
	return clamp(percentile(diffs, 95), clipScaleMin, clipScaleMax)
}

func teamRatings(window *models.RatingWindow, team string) (*models.OffenseRating, *models.DefenseRating) {
	return window.Offense[team], window.Defense[team]
}

func offEPA(r *models.OffenseRating, window *models.RatingWindow) float64 {
	if r == nil {
		return window.LeagueOffEPA
	}
	return r.EPA
}

func defEPA(r *models.DefenseRating, window *models.RatingWindow) float64 {
	if r == nil {
		return window.LeagueDefEPA
	}
	return r.EPAAllowed
}

func pace(r *models.OffenseRating, cfg Config) float64 {
	if r == nil || !r.PaceKnown {
		return cfg.FallbackPlaysPerGame
	}
	return r.PlaysPerGame
}

func eckel(r *models.OffenseRating, cfg Config) float64 {
	if r == nil {
		return cfg.FallbackDriveQuality
	}
	return r.EckelRate
}

func eckelAllowed(r *models.DefenseRating, cfg Config) float64 {
	if r == nil {
		return cfg.FallbackDriveQuality
	}
	return r.EckelRateAllowed
}
