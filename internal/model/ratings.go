package model

import (
	"sort"

	"github.com/gridironlabs/nfl-predictor/internal/models"
)

// BuildRatings aggregates one rating window into per-team offense and
// defense tables. effPlays backs the EPA estimates, volPlays backs pace and
// drive quality; the two subsets are produced by EfficiencySubset and
// VolumeSubset over the same window.
//
// Returns nil when the efficiency subset is empty - the insufficient-data
// sentinel that callers must turn into a fallback or skip the fold.
func BuildRatings(effPlays, volPlays []models.PlayEvent, cfg Config) *models.RatingWindow {
	if len(effPlays) == 0 {
		return nil
	}

	window := &models.RatingWindow{
		Offense: make(map[string]*models.OffenseRating),
		Defense: make(map[string]*models.DefenseRating),
	}

	// Per-team EPA sums over the efficiency subset.
	offSum := map[string]float64{}
	offN := map[string]int{}
	defSum := map[string]float64{}
	defN := map[string]int{}
	for _, p := range effPlays {
		if p.Offense == "" || p.Defense == "" {
			continue
		}
		offSum[p.Offense] += *p.EPA
		offN[p.Offense]++
		defSum[p.Defense] += *p.EPA
		defN[p.Defense]++
	}
	if len(offN) == 0 || len(defN) == 0 {
		return nil
	}

	// Play-count-weighted league means. Weighting by sample size makes the
	// mean equal the grand per-play mean. Teams are summed in sorted order;
	// float addition over a scrambled map iteration would make repeated runs
	// differ in the last ulp.
	totalOff, totalDef := 0.0, 0.0
	nOff, nDef := 0, 0
	for _, team := range sortedTeamKeys(offN) {
		totalOff += offSum[team]
		nOff += offN[team]
	}
	for _, team := range sortedTeamKeys(defN) {
		totalDef += defSum[team]
		nDef += defN[team]
	}
	window.LeagueOffEPA = totalOff / float64(nOff)
	window.LeagueDefEPA = totalDef / float64(nDef)

	n0 := cfg.ShrinkagePrior
	for team, n := range offN {
		raw := offSum[team] / float64(n)
		window.Offense[team] = &models.OffenseRating{
			Team:   team,
			Plays:  n,
			RawEPA: raw,
			EPA:    (raw*float64(n) + window.LeagueOffEPA*n0) / (float64(n) + n0),
		}
	}
	for team, n := range defN {
		raw := defSum[team] / float64(n)
		window.Defense[team] = &models.DefenseRating{
			Team:          team,
			PlaysAgainst:  n,
			RawEPAAllowed: raw,
			EPAAllowed:    (raw*float64(n) + window.LeagueDefEPA*n0) / (float64(n) + n0),
		}
	}

	attachPace(window, volPlays)
	attachEckel(window, volPlays, cfg.FallbackDriveQuality)

	return window
}

func sortedTeamKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// attachPace computes per-team average plays per game from the volume
// subset: snap counts per (game, team), then the mean across games.
// Per-game counts are sorted before averaging so the float sum does not
// depend on map iteration order.
func attachPace(window *models.RatingWindow, volPlays []models.PlayEvent) {
	type gameTeam struct {
		game, team string
	}
	offCounts := map[gameTeam]int{}
	defCounts := map[gameTeam]int{}
	for _, p := range volPlays {
		if p.Offense != "" {
			offCounts[gameTeam{p.GameID, p.Offense}]++
		}
		if p.Defense != "" {
			defCounts[gameTeam{p.GameID, p.Defense}]++
		}
	}

	offPerTeam := map[string][]float64{}
	for key, n := range offCounts {
		offPerTeam[key.team] = append(offPerTeam[key.team], float64(n))
	}
	defPerTeam := map[string][]float64{}
	for key, n := range defCounts {
		defPerTeam[key.team] = append(defPerTeam[key.team], float64(n))
	}

	for team, rating := range window.Offense {
		if games, ok := offPerTeam[team]; ok {
			sort.Float64s(games)
			rating.PlaysPerGame = mean(games)
			rating.PaceKnown = true
		}
	}
	for team, rating := range window.Defense {
		if games, ok := defPerTeam[team]; ok {
			sort.Float64s(games)
			rating.PlaysPerGame = mean(games)
			rating.PaceKnown = true
		}
	}
}

// attachEckel computes drive-quality rates. A drive is quality when it ends
// in a touchdown or records a first down inside the 40. Teams with no
// drives in the window get the window mean, or the fallback rate when the
// window has no qualifying drives at all.
func attachEckel(window *models.RatingWindow, volPlays []models.PlayEvent, fallbackRate float64) {
	type driveKey struct {
		game             string
		drive            int
		offense, defense string
	}
	quality := map[driveKey]bool{}
	for _, p := range volPlays {
		if p.Offense == "" || p.Defense == "" {
			continue
		}
		key := driveKey{p.GameID, p.DriveID, p.Offense, p.Defense}
		if _, seen := quality[key]; !seen {
			quality[key] = false
		}
		if p.ScoredTouchdown() || (p.FirstDown && p.YardsToGoal <= eckelScoreYards) {
			quality[key] = true
		}
	}

	offDrives := map[string]int{}
	offQuality := map[string]int{}
	defDrives := map[string]int{}
	defQuality := map[string]int{}
	for key, isQuality := range quality {
		offDrives[key.offense]++
		defDrives[key.defense]++
		if isQuality {
			offQuality[key.offense]++
			defQuality[key.defense]++
		}
	}

	// Window means are taken over the rated teams that actually have
	// drives, unweighted, matching the reference model. Rated teams are
	// walked in sorted order so the mean is reproducible.
	offRates := []float64{}
	for _, team := range sortedTeamKeys(window.Offense) {
		if n := offDrives[team]; n > 0 {
			offRates = append(offRates, float64(offQuality[team])/float64(n))
		}
	}
	defRates := []float64{}
	for _, team := range sortedTeamKeys(window.Defense) {
		if n := defDrives[team]; n > 0 {
			defRates = append(defRates, float64(defQuality[team])/float64(n))
		}
	}
	offMean := fallbackRate
	if len(offRates) > 0 {
		offMean = mean(offRates)
	}
	defMean := fallbackRate
	if len(defRates) > 0 {
		defMean = mean(defRates)
	}

	for team, rating := range window.Offense {
		if n := offDrives[team]; n > 0 {
			rating.EckelRate = float64(offQuality[team]) / float64(n)
		} else {
			rating.EckelRate = offMean
		}
	}
	for team, rating := range window.Defense {
		if n := defDrives[team]; n > 0 {
			rating.EckelRateAllowed = float64(defQuality[team]) / float64(n)
		} else {
			rating.EckelRateAllowed = defMean
		}
	}
}

// DrivesPerGame estimates the mean number of distinct drives per team-game
// over a slice of plays (clock kills removed, all play types), clamped to
// the plausible league range. Used to scale the drive-quality feature.
func DrivesPerGame(plays []models.PlayEvent) float64 {
	type gameTeam struct {
		game, team string
	}
	drives := map[gameTeam]map[int]struct{}{}
	for _, p := range plays {
		if p.Offense == "" {
			continue
		}
		key := gameTeam{p.GameID, p.Offense}
		if drives[key] == nil {
			drives[key] = map[int]struct{}{}
		}
		drives[key][p.DriveID] = struct{}{}
	}
	if len(drives) == 0 {
		return drivesPGStart
	}
	total := 0
	for _, set := range drives {
		total += len(set)
	}
	avg := float64(total) / float64(len(drives))
	return clamp(avg, drivesPGMin, drivesPGMax)
}
