package models

// GameType classifies a scheduled game
type GameType string

const (
	GameTypeRegular    GameType = "REG"
	GameTypePostSeason GameType = "POST"
)

// ScheduledGame represents one matchup on the league schedule.
// Scores are nil until the game has been played.
type ScheduledGame struct {
	GameID      string   `json:"game_id" validate:"required"`
	Season      int      `json:"season" validate:"required,gte=1999"`
	Week        int      `json:"week" validate:"required,gte=1,lte=22"`
	GameType    GameType `json:"game_type"`
	HomeTeam    string   `json:"home_team" validate:"required"`
	AwayTeam    string   `json:"away_team" validate:"required"`
	NeutralSite bool     `json:"neutral_site"`
	HomeScore   *int     `json:"home_score"`
	AwayScore   *int     `json:"away_score"`
}

// IsCompleted reports whether both final scores are present.
func (g *ScheduledGame) IsCompleted() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// Margin returns the home scoring margin for a completed game.
// The second return value is false for future games.
func (g *ScheduledGame) Margin() (float64, bool) {
	if !g.IsCompleted() {
		return 0, false
	}
	return float64(*g.HomeScore - *g.AwayScore), true
}
