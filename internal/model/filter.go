// Package model implements the prediction pipeline: play filtering, team
// rating construction, matchup featurization, weight learning and scoring.
// Everything here is pure computation over immutable inputs and is safe to
// run concurrently for different season/week arguments.
package model

import "github.com/gridironlabs/nfl-predictor/internal/models"

// EfficiencySubset selects the snaps that back EPA estimates: pass/run
// plays with a known EPA, excluding kneels and spikes, restricted to the
// mid-range win-probability band so garbage-time snaps don't distort the
// estimate.
func EfficiencySubset(plays []models.PlayEvent, wpMin, wpMax float64) []models.PlayEvent {
	out := make([]models.PlayEvent, 0, len(plays))
	for _, p := range plays {
		if !p.IsScrimmageSnap() || p.IsClockKill() {
			continue
		}
		if p.EPA == nil {
			continue
		}
		if p.WinProb < wpMin || p.WinProb > wpMax {
			continue
		}
		out = append(out, p)
	}
	return out
}

// VolumeSubset selects the wider snap set used for pace and drive quality:
// pass/run plays excluding kneels and spikes. Garbage-time snaps still count
// toward drive outcomes, so no win-probability band applies.
func VolumeSubset(plays []models.PlayEvent) []models.PlayEvent {
	out := make([]models.PlayEvent, 0, len(plays))
	for _, p := range plays {
		if !p.IsScrimmageSnap() || p.IsClockKill() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// preWeek returns the plays strictly before week within the slice. Training
// folds are built exclusively from this subset.
func preWeek(plays []models.PlayEvent, week int) []models.PlayEvent {
	out := make([]models.PlayEvent, 0, len(plays))
	for _, p := range plays {
		if p.Week < week {
			out = append(out, p)
		}
	}
	return out
}

// withoutClockKills strips kneels and spikes without restricting play type.
// Drive counting uses this slice so drives without a scrimmage snap still
// register.
func withoutClockKills(plays []models.PlayEvent) []models.PlayEvent {
	out := make([]models.PlayEvent, 0, len(plays))
	for _, p := range plays {
		if p.IsClockKill() {
			continue
		}
		out = append(out, p)
	}
	return out
}
