package models

// OffenseRating holds one team's offensive efficiency profile for a rating
// window. Built fresh per window and never persisted.
type OffenseRating struct {
	Team         string  `json:"team"`
	Plays        int     `json:"plays"`           // qualifying snaps backing the EPA estimate
	RawEPA       float64 `json:"epa_per_play"`    // unshrunken per-play EPA
	EPA          float64 `json:"epa_per_play_sh"` // shrunken toward the league mean
	PlaysPerGame float64 `json:"off_plays_pg"`
	PaceKnown    bool    `json:"-"` // false when the volume subset had no snaps for the team
	EckelRate    float64 `json:"off_eckel_rate"`
}

// DefenseRating holds one team's defensive efficiency-allowed profile for a
// rating window.
type DefenseRating struct {
	Team             string  `json:"team"`
	PlaysAgainst     int     `json:"plays_against"`
	RawEPAAllowed    float64 `json:"epa_allowed"`
	EPAAllowed       float64 `json:"epa_allowed_sh"`
	PlaysPerGame     float64 `json:"def_plays_pg"`
	PaceKnown        bool    `json:"-"`
	EckelRateAllowed float64 `json:"def_eckel_allowed"`
}

// RatingWindow is the full rating output for one window: a season-to-date
// slice or a single training fold.
type RatingWindow struct {
	Offense map[string]*OffenseRating
	Defense map[string]*DefenseRating

	// League means used for shrinkage and missing-team substitution,
	// weighted by each team's qualifying play count.
	LeagueOffEPA float64
	LeagueDefEPA float64
}

// PaceSamples returns every known plays-per-game observation in the window,
// offense and defense combined. Used to derive the pace clamp bounds.
func (w *RatingWindow) PaceSamples() []float64 {
	samples := make([]float64, 0, len(w.Offense)+len(w.Defense))
	for _, o := range w.Offense {
		if o.PaceKnown {
			samples = append(samples, o.PlaysPerGame)
		}
	}
	for _, d := range w.Defense {
		if d.PaceKnown {
			samples = append(samples, d.PlaysPerGame)
		}
	}
	return samples
}
