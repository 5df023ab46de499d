package models

// PlayType classifies an offensive snap
type PlayType string

const (
	PlayTypePass  PlayType = "pass"
	PlayTypeRun   PlayType = "run"
	PlayTypeOther PlayType = "other"
)

// PlayEvent represents one offensive snap from the play-by-play feed.
// Instances are supplied by the upstream data source and never mutated.
type PlayEvent struct {
	GameID        string   `json:"game_id" validate:"required"`
	Season        int      `json:"season" validate:"required,gte=1999"`
	Week          int      `json:"week" validate:"required,gte=1,lte=22"`
	Offense       string   `json:"posteam"` // possessing team; empty on non-scrimmage rows
	Defense       string   `json:"defteam"`
	PlayType      PlayType `json:"play_type"`
	EPA           *float64 `json:"epa"` // expected points added; nil when the feed has no value
	WinProb       float64  `json:"wp" validate:"gte=0,lte=1"`
	DriveID       int      `json:"drive"`
	YardsToGoal   float64  `json:"yardline_100"` // yards from the opponent goal line, 0-100
	Touchdown     bool     `json:"touchdown"`
	RushTouchdown bool     `json:"rush_touchdown"`
	PassTouchdown bool     `json:"pass_touchdown"`
	QBKneel       bool     `json:"qb_kneel"`
	QBSpike       bool     `json:"qb_spike"`
	FirstDown     bool     `json:"first_down"`
}

// IsScrimmageSnap reports whether the play is a pass or run snap.
func (p *PlayEvent) IsScrimmageSnap() bool {
	return p.PlayType == PlayTypePass || p.PlayType == PlayTypeRun
}

// IsClockKill reports whether the play is a kneel or spike.
func (p *PlayEvent) IsClockKill() bool {
	return p.QBKneel || p.QBSpike
}

// ScoredTouchdown reports whether any touchdown flag is set on the play.
func (p *PlayEvent) ScoredTouchdown() bool {
	return p.Touchdown || p.RushTouchdown || p.PassTouchdown
}
