// Package main provides the entry point for the prediction API server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gridironlabs/nfl-predictor/internal/config"
	"github.com/gridironlabs/nfl-predictor/internal/database"
	"github.com/gridironlabs/nfl-predictor/internal/datasource"
	applogger "github.com/gridironlabs/nfl-predictor/internal/logger"
	"github.com/gridironlabs/nfl-predictor/internal/metrics"
	"github.com/gridironlabs/nfl-predictor/internal/model"
	"github.com/gridironlabs/nfl-predictor/internal/repository"
	"github.com/gridironlabs/nfl-predictor/internal/scheduler"
	"github.com/gridironlabs/nfl-predictor/internal/server"
	"github.com/gridironlabs/nfl-predictor/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	logger     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "nfl-predictor",
	Short: "NFL game outcome prediction service",
	Long:  `Serves weekly game outcome predictions over HTTP, backed by EPA efficiency ratings learned from nflverse play-by-play data.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger = applogger.NewLogger(cfg.App.LogLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nfl-predictor %s (%s)\n", Version, GitCommit)
	},
}

func main() {
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func runServer() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.InitRegistry()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	stdLogger := log.New(logger.Writer(), "", 0)
	factory := datasource.NewFactory(cfg, stdLogger)
	httpClient := factory.NewHTTPClient(cfg.DataSource)
	defer httpClient.Close()

	source, err := factory.NewDataSource(cfg.DataSource, httpClient)
	if err != nil {
		return fmt.Errorf("failed to create data source: %w", err)
	}

	engine := model.NewPredictor(source, modelConfig(), logger)
	svc := service.NewPredictionService(
		engine,
		repos.Prediction,
		cfg.CacheTTL(),
		cfg.Server.MaxConcurrentPredictions,
		logger,
	)

	if cfg.Snapshot.Enabled {
		sched := scheduler.NewScheduler(svc, stdLogger)
		target := func() (int, int) { return cfg.Server.DefaultSeason, cfg.Server.DefaultWeek }
		if err := sched.ScheduleSnapshots(cfg.Snapshot.Schedule, target); err != nil {
			return fmt.Errorf("failed to schedule snapshots: %w", err)
		}
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()
	}

	logger.WithFields(logrus.Fields{
		"version":     Version,
		"environment": cfg.App.Environment,
		"source":      source.Name(),
	}).Info("Starting prediction server")

	srv := server.New(cfg.Server, svc, db, logger)
	return srv.Start(ctx)
}

func modelConfig() model.Config {
	mc := model.DefaultConfig()
	if cfg.Model.WPMin > 0 || cfg.Model.WPMax > 0 {
		mc.WPMin = cfg.Model.WPMin
		mc.WPMax = cfg.Model.WPMax
	}
	if cfg.Model.ShrinkagePrior > 0 {
		mc.ShrinkagePrior = cfg.Model.ShrinkagePrior
	}
	if cfg.Model.TrainYearsBack > 0 {
		mc.TrainYearsBack = cfg.Model.TrainYearsBack
	}
	if cfg.Model.FallbackPlaysPerGame > 0 {
		mc.FallbackPlaysPerGame = cfg.Model.FallbackPlaysPerGame
	}
	if cfg.Model.FallbackDriveQuality > 0 {
		mc.FallbackDriveQuality = cfg.Model.FallbackDriveQuality
	}
	return mc
}
