package datasource

import (
	"fmt"
	"log"
	"time"

	"github.com/gridironlabs/nfl-predictor/internal/config"
)

// SourceType represents the type of data source
type SourceType string

const (
	// NFLVerse public data release source type
	NFLVerseSourceType SourceType = "nflverse"
)

// Factory creates DataSource implementations based on configuration
type Factory struct {
	logger *log.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *log.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// NewDataSource creates a new DataSource based on the provided configuration
func (f *Factory) NewDataSource(cfg config.DataSourceConfig, httpClient *RateLimitedHTTPClient) (DataSource, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}

	switch cfg.Name {
	case "nflverse":
		return NewNFLVerseClient(httpClient, cfg.PBPURLTemplate, cfg.ScheduleURL, cfg.Enabled, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown data source: %s", cfg.Name)
	}
}

// NewHTTPClient builds the shared rate-limited client from configuration
func (f *Factory) NewHTTPClient(cfg config.DataSourceConfig) *RateLimitedHTTPClient {
	clientCfg := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		clientCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.RateLimitPerSecond > 0 {
		clientCfg.RateLimit = cfg.RateLimitPerSecond
	}
	if cfg.MaxRetries > 0 {
		clientCfg.MaxRetries = cfg.MaxRetries
	}
	clientCfg.APIKey = cfg.APIKey
	return NewRateLimitedHTTPClient(clientCfg, f.logger)
}

// ListAvailableSources returns a list of available source types
func (f *Factory) ListAvailableSources() []SourceType {
	return []SourceType{NFLVerseSourceType}
}
