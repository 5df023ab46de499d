// Package config provides configuration management for the NFL predictor service.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Model      ModelConfig      `mapstructure:"model" validate:"required"`
	DataSource DataSourceConfig `mapstructure:"data_source" validate:"required"`
	Snapshot   SnapshotConfig   `mapstructure:"snapshot"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	Port                     int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	CORSOrigins              []string `mapstructure:"cors_origins"`
	CacheTTLSeconds          int      `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	MaxConcurrentPredictions int      `mapstructure:"max_concurrent_predictions" validate:"required,gt=0"`
	DefaultSeason            int      `mapstructure:"default_season" validate:"required,gte=1999"`
	DefaultWeek              int      `mapstructure:"default_week" validate:"required,gte=1,lte=22"`
}

// ModelConfig represents the rating and training pipeline tunables
type ModelConfig struct {
	WPMin                float64 `mapstructure:"wp_min" validate:"gte=0,lte=1"`
	WPMax                float64 `mapstructure:"wp_max" validate:"gte=0,lte=1"`
	ShrinkagePrior       float64 `mapstructure:"shrinkage_prior" validate:"required,gt=0"`
	TrainYearsBack       int     `mapstructure:"train_years_back" validate:"required,gt=0"`
	FallbackPlaysPerGame float64 `mapstructure:"fallback_plays_per_game" validate:"required,gt=0"`
	FallbackDriveQuality float64 `mapstructure:"fallback_drive_quality" validate:"required,gt=0,lt=1"`
}

// DataSourceConfig represents the play-by-play provider configuration
type DataSourceConfig struct {
	Name               string  `mapstructure:"name" validate:"required"`
	Enabled            bool    `mapstructure:"enabled"`
	PBPURLTemplate     string  `mapstructure:"pbp_url_template" validate:"required"`
	ScheduleURL        string  `mapstructure:"schedule_url" validate:"required,url"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	MaxRetries         int     `mapstructure:"max_retries" validate:"gte=0"`
	APIKey             string  `mapstructure:"api_key"`
}

// SnapshotConfig represents the scheduled snapshot job configuration
type SnapshotConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// CacheTTL returns the prediction cache TTL as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Server.CacheTTLSeconds) * time.Second
}

// DataSourceTimeout returns the provider request timeout as a duration
func (c *Config) DataSourceTimeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
}
