package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/nfl-predictor/internal/config"
	"github.com/gridironlabs/nfl-predictor/internal/models"
)

func testSourceConfig() config.DataSourceConfig {
	return config.DataSourceConfig{
		Name:               "nflverse",
		Enabled:            true,
		PBPURLTemplate:     "https://example.com/pbp_%d.csv",
		ScheduleURL:        "https://example.com/games.csv",
		TimeoutSeconds:     5,
		RateLimitPerSecond: 10,
		MaxRetries:         1,
	}
}

const pbpCSV = `game_id,week,posteam,defteam,play_type,epa,wp,drive,yardline_100,touchdown,rush_touchdown,pass_touchdown,qb_kneel,qb_spike,first_down
2023_01_KC_DET,1,KC,DET,pass,0.45,0.55,1,75,0,0,0,0,0,1
2023_01_KC_DET,1,KC,DET,run,-0.12,0.57,1,68,0,0,0,0,0,0
2023_01_KC_DET,1,DET,KC,pass,NA,0.44,2,80,0,0,0,0,0,0
2023_01_KC_DET,1,,,kickoff,0.02,0.50,2,35,0,0,0,0,0,0
`

const scheduleCSV = `game_id,season,week,game_type,home_team,away_team,location,home_score,away_score
2023_01_KC_DET,2023,1,REG,KC,DET,Home,20,21
2023_22_SF_KC,2023,22,SB,KC,SF,Neutral,,
2022_01_BUF_LA,2022,1,REG,LA,BUF,Home,10,31
`

func newTestClient(t *testing.T, handler http.Handler) (*NFLVerseClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	httpClient := NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:           5 * time.Second,
		MaxRetries:        1,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      5 * time.Millisecond,
		RateLimit:         1000,
		CircuitBreakerMax: 3,
	}, nil)

	client := NewNFLVerseClient(httpClient, server.URL+"/pbp_%d.csv", server.URL+"/games.csv", true, nil)
	return client, server
}

func TestFetchPlaysParsesSeasonCSV(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pbp_2023.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pbpCSV))
	})
	client, _ := newTestClient(t, mux)

	plays, err := client.FetchPlays(context.Background(), []int{2023})
	require.NoError(t, err)
	require.Len(t, plays, 4)

	first := plays[0]
	assert.Equal(t, "2023_01_KC_DET", first.GameID)
	assert.Equal(t, 2023, first.Season)
	assert.Equal(t, 1, first.Week)
	assert.Equal(t, "KC", first.Offense)
	assert.Equal(t, models.PlayTypePass, first.PlayType)
	require.NotNil(t, first.EPA)
	assert.InDelta(t, 0.45, *first.EPA, 1e-9)
	assert.InDelta(t, 0.55, first.WinProb, 1e-9)
	assert.True(t, first.FirstDown)

	// Missing EPA comes through as nil, not zero
	assert.Nil(t, plays[2].EPA)

	// Non-scrimmage rows stay in the feed with the catch-all play type
	assert.Equal(t, models.PlayTypeOther, plays[3].PlayType)
	assert.Equal(t, "", plays[3].Offense)
}

func TestFetchSchedulesFiltersSeasons(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/games.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(scheduleCSV))
	})
	client, _ := newTestClient(t, mux)

	games, err := client.FetchSchedules(context.Background(), []int{2023})
	require.NoError(t, err)
	require.Len(t, games, 2)

	completed := games[0]
	assert.Equal(t, models.GameTypeRegular, completed.GameType)
	assert.True(t, completed.IsCompleted())
	margin, ok := completed.Margin()
	require.True(t, ok)
	assert.Equal(t, -1.0, margin)

	future := games[1]
	assert.Equal(t, models.GameTypePostSeason, future.GameType)
	assert.True(t, future.NeutralSite)
	assert.False(t, future.IsCompleted())
}

func TestFetchPlaysNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())

	_, err := client.FetchPlays(context.Background(), []int{1998})
	require.Error(t, err)

	var dsErr DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, ErrCodeNotFound, dsErr.Code)
}

func TestFetchPlaysDisabledSource(t *testing.T) {
	client := NewNFLVerseClient(nil, "pbp_%d.csv", "games.csv", false, nil)

	_, err := client.FetchPlays(context.Background(), []int{2023})
	require.Error(t, err)

	_, err = client.FetchSchedules(context.Background(), []int{2023})
	require.Error(t, err)
}

func TestNormalizePlayType(t *testing.T) {
	assert.Equal(t, models.PlayTypePass, normalizePlayType("pass"))
	assert.Equal(t, models.PlayTypeRun, normalizePlayType("run"))
	assert.Equal(t, models.PlayTypeOther, normalizePlayType("punt"))
	assert.Equal(t, models.PlayTypeOther, normalizePlayType(""))
}

func TestParseHelpers(t *testing.T) {
	assert.Nil(t, parseFloatPtr("NA"))
	assert.Nil(t, parseFloatPtr(""))
	require.NotNil(t, parseFloatPtr("-0.5"))
	assert.InDelta(t, -0.5, *parseFloatPtr("-0.5"), 1e-9)

	assert.Equal(t, 12, parseInt("12"))
	assert.Equal(t, 12, parseInt("12.0"))
	assert.Equal(t, 0, parseInt("NA"))

	assert.True(t, parseBool("1"))
	assert.True(t, parseBool("1.0"))
	assert.False(t, parseBool("0"))
	assert.False(t, parseBool(""))
}

func TestFactoryCreatesNFLVerse(t *testing.T) {
	factory := NewFactory(nil, nil)
	httpClient := NewRateLimitedHTTPClient(DefaultHTTPClientConfig(), nil)

	source, err := factory.NewDataSource(testSourceConfig(), httpClient)
	require.NoError(t, err)
	assert.Equal(t, nflverseSourceName, source.Name())
	assert.True(t, source.IsEnabled())

	cfg := testSourceConfig()
	cfg.Name = "unknown"
	_, err = factory.NewDataSource(cfg, httpClient)
	require.Error(t, err)

	_, err = factory.NewDataSource(testSourceConfig(), nil)
	require.Error(t, err)
}
