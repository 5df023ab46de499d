package models

// MatchupFeatureRow is the feature set for a single scheduled game, built by
// joining the two teams' ratings. Margin is attached only for completed
// games and feeds training; it stays nil for future games.
type MatchupFeatureRow struct {
	GameID   string `json:"game_id"`
	Season   int    `json:"season"`
	Week     int    `json:"week"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`

	HomeOffEPA        float64 `json:"home_off_epa"`
	AwayDefEPAAllowed float64 `json:"away_def_epa_allowed"`
	HomeOffVsAwayDef  float64 `json:"home_off_vs_away_def"`
	AwayOffEPA        float64 `json:"away_off_epa"`
	HomeDefEPAAllowed float64 `json:"home_def_epa_allowed"`
	AwayOffVsHomeDef  float64 `json:"away_off_vs_home_def"`

	// NetEPAPerPlay is the soft-clipped matchup differential.
	NetEPAPerPlay float64 `json:"net_epa_per_play"`

	// KPair is the expected combined play volume, clamped to the window's
	// pace range.
	KPair float64 `json:"k_pair"`

	HomeOffEckel        float64 `json:"home_off_eckel"`
	AwayOffEckel        float64 `json:"away_off_eckel"`
	HomeDefEckelAllowed float64 `json:"home_def_eckel_allowed"`
	AwayDefEckelAllowed float64 `json:"away_def_eckel_allowed"`
	NetEckel            float64 `json:"net_eckel"`

	NeutralSite bool     `json:"neutral_site"`
	Margin      *float64 `json:"margin,omitempty"`
}

// HomeFieldIndicator returns 1 unless the game is at a neutral site.
func (r *MatchupFeatureRow) HomeFieldIndicator() float64 {
	if r.NeutralSite {
		return 0
	}
	return 1
}
