package model

import (
	"context"
	"fmt"
	"math"

	"github.com/gridironlabs/nfl-predictor/internal/models"
)

// stubSource serves a fixed set of plays and games filtered by season.
// Seasons listed in failSeasons error on fetch, which lets tests break the
// training window while leaving the target season healthy.
type stubSource struct {
	plays       []models.PlayEvent
	games       []models.ScheduledGame
	failSeasons map[int]bool
}

func (s *stubSource) FetchPlays(ctx context.Context, seasons []int) ([]models.PlayEvent, error) {
	wanted := map[int]bool{}
	for _, season := range seasons {
		if s.failSeasons[season] {
			return nil, fmt.Errorf("season %d unavailable", season)
		}
		wanted[season] = true
	}
	out := []models.PlayEvent{}
	for _, p := range s.plays {
		if wanted[p.Season] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubSource) FetchSchedules(ctx context.Context, seasons []int) ([]models.ScheduledGame, error) {
	wanted := map[int]bool{}
	for _, season := range seasons {
		if s.failSeasons[season] {
			return nil, fmt.Errorf("season %d unavailable", season)
		}
		wanted[season] = true
	}
	out := []models.ScheduledGame{}
	for _, g := range s.games {
		if wanted[g.Season] {
			out = append(out, g)
		}
	}
	return out, nil
}

var syntheticTeams = []string{"AAA", "BBB", "CCC", "DDD", "EEE", "FFF", "GGG", "HHH"}

// teamStrength grades the synthetic teams on a fixed ladder so margins and
// ratings stay deterministic across runs.
func teamStrength(team string) float64 {
	for i, t := range syntheticTeams {
		if t == team {
			return 0.14 - 0.04*float64(i)
		}
	}
	return 0
}

// syntheticWeek generates the plays and completed games for one week of a
// synthetic season. Pairings rotate with the week so every team sees varied
// opponents. Each side gets snapCount scrimmage snaps across three drives,
// with EPA driven by the offense's strength and a small deterministic wiggle.
func syntheticWeek(season, week int, completed bool) ([]models.PlayEvent, []models.ScheduledGame) {
	var plays []models.PlayEvent
	var games []models.ScheduledGame

	const snapCount = 12
	n := len(syntheticTeams)
	for pair := 0; pair < n/2; pair++ {
		home := syntheticTeams[(pair*2+week)%n]
		away := syntheticTeams[(pair*2+1+week)%n]
		gameID := fmt.Sprintf("%d_%02d_%s_%s", season, week, away, home)

		game := models.ScheduledGame{
			GameID:   gameID,
			Season:   season,
			Week:     week,
			GameType: models.GameTypeRegular,
			HomeTeam: home,
			AwayTeam: away,
		}
		if completed {
			margin := int(math.Round(20*(teamStrength(home)-teamStrength(away)))) + 3
			homeScore := 20 + margin
			awayScore := 20
			game.HomeScore = &homeScore
			game.AwayScore = &awayScore
		}
		games = append(games, game)

		for side, team := range []string{home, away} {
			opponent := away
			if side == 1 {
				opponent = home
			}
			for snap := 0; snap < snapCount; snap++ {
				epa := teamStrength(team) + 0.02*math.Sin(float64(snap+week))
				playType := models.PlayTypePass
				if snap%2 == 1 {
					playType = models.PlayTypeRun
				}
				plays = append(plays, models.PlayEvent{
					GameID:      gameID,
					Season:      season,
					Week:        week,
					Offense:     team,
					Defense:     opponent,
					PlayType:    playType,
					EPA:         &epa,
					WinProb:     0.5,
					DriveID:     side*10 + snap/4,
					YardsToGoal: 60,
					Touchdown:   snap == snapCount-1 && teamStrength(team) > 0,
					FirstDown:   snap%4 == 0,
				})
			}
		}
	}
	return plays, games
}

// syntheticSeasons builds a complete stub source: full completed seasons for
// every season before target, and completed weeks 1..targetWeek-1 of the
// target season plus an unplayed target-week slate.
func syntheticSeasons(target, targetWeek, yearsBack int) *stubSource {
	src := &stubSource{failSeasons: map[int]bool{}}
	for season := target - yearsBack; season < target; season++ {
		for week := 1; week <= 18; week++ {
			plays, games := syntheticWeek(season, week, true)
			src.plays = append(src.plays, plays...)
			src.games = append(src.games, games...)
		}
	}
	for week := 1; week < targetWeek; week++ {
		plays, games := syntheticWeek(target, week, true)
		src.plays = append(src.plays, plays...)
		src.games = append(src.games, games...)
	}
	_, slate := syntheticWeek(target, targetWeek, false)
	src.games = append(src.games, slate...)
	return src
}

func floatPtr(v float64) *float64 { return &v }
