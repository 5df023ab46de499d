package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gridironlabs/nfl-predictor/internal/models"
)

const nflverseSourceName = "nflverse"

// NFLVerseClient implements DataSource for the nflverse public data releases.
// Play-by-play is published as one CSV per season; the schedule is a single
// CSV covering all seasons.
type NFLVerseClient struct {
	httpClient     *RateLimitedHTTPClient
	pbpURLTemplate string
	scheduleURL    string
	enabled        bool
	logger         *log.Logger
}

// NewNFLVerseClient creates a new nflverse data source client
func NewNFLVerseClient(httpClient *RateLimitedHTTPClient, pbpURLTemplate, scheduleURL string, enabled bool, logger *log.Logger) *NFLVerseClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &NFLVerseClient{
		httpClient:     httpClient,
		pbpURLTemplate: pbpURLTemplate,
		scheduleURL:    scheduleURL,
		enabled:        enabled,
		logger:         logger,
	}
}

// FetchPlays retrieves play-by-play events for the given seasons
func (c *NFLVerseClient) FetchPlays(ctx context.Context, seasons []int) ([]models.PlayEvent, error) {
	if !c.enabled {
		return nil, NewDataSourceError(nflverseSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	var plays []models.PlayEvent
	for _, season := range seasons {
		url := fmt.Sprintf(c.pbpURLTemplate, season)
		seasonPlays, err := c.fetchSeasonPlays(ctx, url, season)
		if err != nil {
			return nil, err
		}
		plays = append(plays, seasonPlays...)
	}
	return plays, nil
}

// FetchSchedules retrieves scheduled games for the given seasons
func (c *NFLVerseClient) FetchSchedules(ctx context.Context, seasons []int) ([]models.ScheduledGame, error) {
	if !c.enabled {
		return nil, NewDataSourceError(nflverseSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	rows, err := c.fetchCSV(ctx, c.scheduleURL)
	if err != nil {
		return nil, err
	}

	wanted := make(map[int]bool, len(seasons))
	for _, s := range seasons {
		wanted[s] = true
	}

	var games []models.ScheduledGame
	for _, row := range rows {
		season := parseInt(row.get("season"))
		if !wanted[season] {
			continue
		}
		game := models.ScheduledGame{
			GameID:      row.get("game_id"),
			Season:      season,
			Week:        parseInt(row.get("week")),
			GameType:    normalizeGameType(row.get("game_type")),
			HomeTeam:    row.get("home_team"),
			AwayTeam:    row.get("away_team"),
			NeutralSite: strings.EqualFold(row.get("location"), "Neutral"),
			HomeScore:   parseIntPtr(row.get("home_score")),
			AwayScore:   parseIntPtr(row.get("away_score")),
		}
		if game.GameID == "" {
			c.logger.Printf("Skipping schedule row with no game_id (season %d)", season)
			continue
		}
		games = append(games, game)
	}
	return games, nil
}

// Name returns the data source name
func (c *NFLVerseClient) Name() string {
	return nflverseSourceName
}

// IsEnabled returns whether this data source is enabled
func (c *NFLVerseClient) IsEnabled() bool {
	return c.enabled
}

// fetchSeasonPlays downloads and parses one season's play-by-play CSV
func (c *NFLVerseClient) fetchSeasonPlays(ctx context.Context, url string, season int) ([]models.PlayEvent, error) {
	rows, err := c.fetchCSV(ctx, url)
	if err != nil {
		return nil, err
	}

	plays := make([]models.PlayEvent, 0, len(rows))
	for _, row := range rows {
		play := models.PlayEvent{
			GameID:        row.get("game_id"),
			Season:        season,
			Week:          parseInt(row.get("week")),
			Offense:       row.get("posteam"),
			Defense:       row.get("defteam"),
			PlayType:      normalizePlayType(row.get("play_type")),
			EPA:           parseFloatPtr(row.get("epa")),
			WinProb:       parseFloat(row.get("wp")),
			DriveID:       parseInt(row.get("drive")),
			YardsToGoal:   parseFloat(row.get("yardline_100")),
			Touchdown:     parseBool(row.get("touchdown")),
			RushTouchdown: parseBool(row.get("rush_touchdown")),
			PassTouchdown: parseBool(row.get("pass_touchdown")),
			QBKneel:       parseBool(row.get("qb_kneel")),
			QBSpike:       parseBool(row.get("qb_spike")),
			FirstDown:     parseBool(row.get("first_down")),
		}
		if play.GameID == "" {
			continue
		}
		plays = append(plays, play)
	}
	return plays, nil
}

// csvRow pairs a record with its header index for name-based access
type csvRow struct {
	header map[string]int
	record []string
}

func (r csvRow) get(column string) string {
	idx, ok := r.header[column]
	if !ok || idx >= len(r.record) {
		return ""
	}
	return r.record[idx]
}

// fetchCSV downloads a CSV file and returns its data rows
func (c *NFLVerseClient) fetchCSV(ctx context.Context, url string) ([]csvRow, error) {
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, NewDataSourceError(nflverseSourceName, ErrCodeNetworkError, "failed to fetch "+url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewDataSourceError(nflverseSourceName, ErrCodeNotFound, "no data published at "+url, nil)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewDataSourceError(nflverseSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewDataSourceError(nflverseSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d for %s", resp.StatusCode, url), nil)
	}

	reader := csv.NewReader(resp.Body)
	reader.ReuseRecord = false
	reader.FieldsPerRecord = -1

	headerRecord, err := reader.Read()
	if err != nil {
		return nil, NewDataSourceError(nflverseSourceName, ErrCodeInvalidData, "failed to read CSV header", err)
	}
	header := make(map[string]int, len(headerRecord))
	for i, name := range headerRecord {
		header[strings.TrimSpace(name)] = i
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewDataSourceError(nflverseSourceName, ErrCodeInvalidData, "failed to parse CSV row", err)
		}
		rows = append(rows, csvRow{header: header, record: record})
	}
	return rows, nil
}

// normalizePlayType maps provider play types onto the model's classification
func normalizePlayType(raw string) models.PlayType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pass":
		return models.PlayTypePass
	case "run":
		return models.PlayTypeRun
	default:
		return models.PlayTypeOther
	}
}

// normalizeGameType collapses the provider's round labels into REG and POST
func normalizeGameType(raw string) models.GameType {
	if strings.EqualFold(strings.TrimSpace(raw), string(models.GameTypeRegular)) {
		return models.GameTypeRegular
	}
	return models.GameTypePostSeason
}

// parseFloat parses a float field, treating missing values as zero
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseFloatPtr parses a float field, returning nil for missing values
func parseFloatPtr(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "NA") {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// parseInt parses an integer field, tolerating float formatting in the feed
func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// parseIntPtr parses an integer field, returning nil for missing values
func parseIntPtr(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "NA") {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n := int(f)
		return &n
	}
	return nil
}

// parseBool parses the feed's 0/1 indicator columns
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "1.0", "true", "t":
		return true
	default:
		return false
	}
}
