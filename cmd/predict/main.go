// Package main provides a one-shot CLI that scores a single week and
// prints the slate, optionally persisting it as a snapshot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/nfl-predictor/internal/config"
	"github.com/gridironlabs/nfl-predictor/internal/database"
	"github.com/gridironlabs/nfl-predictor/internal/datasource"
	"github.com/gridironlabs/nfl-predictor/internal/metrics"
	"github.com/gridironlabs/nfl-predictor/internal/model"
	"github.com/gridironlabs/nfl-predictor/internal/models"
	"github.com/gridironlabs/nfl-predictor/internal/repository"
	"github.com/gridironlabs/nfl-predictor/internal/service"
)

var (
	configPath = flag.String("config", "./config/config.yaml", "Path to configuration file")
	season     = flag.Int("season", 0, "Season to score (defaults to server.default_season)")
	week       = flag.Int("week", 0, "Week to score (defaults to server.default_week)")
	snapshot   = flag.Bool("snapshot", false, "Persist the scored slate to the database")
	timeout    = flag.Duration("timeout", 15*time.Minute, "Overall run timeout")
)

func main() {
	flag.Parse()

	logger := newLogger()

	cfg, err := loadConfigWithSecrets(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	target := struct{ season, week int }{*season, *week}
	if target.season == 0 {
		target.season = cfg.Server.DefaultSeason
	}
	if target.week == 0 {
		target.week = cfg.Server.DefaultWeek
	}
	if target.season < 1999 {
		logger.Fatalf("Season %d is before play-by-play coverage begins (1999)", target.season)
	}
	if target.week < 1 || target.week > 22 {
		logger.Fatalf("Week %d is outside the valid range 1-22", target.week)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	metrics.InitRegistry()

	stdLogger := log.New(logger.Writer(), "", 0)
	factory := datasource.NewFactory(cfg, stdLogger)
	httpClient := factory.NewHTTPClient(cfg.DataSource)
	defer httpClient.Close()

	source, err := factory.NewDataSource(cfg.DataSource, httpClient)
	if err != nil {
		logger.Fatalf("Failed to create data source: %v", err)
	}

	mc := model.DefaultConfig()
	mc.WPMin = cfg.Model.WPMin
	mc.WPMax = cfg.Model.WPMax
	mc.ShrinkagePrior = cfg.Model.ShrinkagePrior
	mc.TrainYearsBack = cfg.Model.TrainYearsBack
	mc.FallbackPlaysPerGame = cfg.Model.FallbackPlaysPerGame
	mc.FallbackDriveQuality = cfg.Model.FallbackDriveQuality

	engine := model.NewPredictor(source, mc, logger)

	if *snapshot {
		runSnapshot(ctx, cfg, engine, logger, target.season, target.week)
		return
	}

	rows, err := engine.Predict(ctx, target.season, target.week)
	if errors.Is(err, models.ErrNotReady) {
		logger.Warnf("Season %d has no completed games yet, nothing to score", target.season)
		return
	}
	if err != nil {
		logger.Fatalf("Prediction failed: %v", err)
	}

	printSlate(target.season, target.week, rows)
}

func runSnapshot(ctx context.Context, cfg *config.Config, engine service.PredictionEngine, logger *logrus.Logger, season, week int) {
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		logger.Fatalf("Failed to initialize repositories: %v", err)
	}

	svc := service.NewPredictionService(engine, repos.Prediction, time.Minute, 1, logger)
	saved, err := svc.Snapshot(ctx, season, week)
	if err != nil {
		logger.Fatalf("Snapshot failed: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"season":     season,
		"week":       week,
		"rows_saved": saved,
	}).Info("Snapshot saved")
}

func printSlate(season, week int, rows []models.PredictionRow) {
	fmt.Printf("Season %d, week %d: %d games\n\n", season, week, len(rows))
	fmt.Printf("%-12s %-4s @ %-4s %8s %8s %6s %6s\n",
		"GAME", "AWAY", "HOME", "MARGIN", "HOME WP", "PICK", "PROB")
	for _, row := range rows {
		fmt.Printf("%-12s %-4s @ %-4s %8.1f %8.3f %6s %6.3f\n",
			row.GameID, row.AwayTeam, row.HomeTeam,
			row.PredMargin, row.HomeWinProb, row.Pick, row.PickProb)
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	if os.Getenv("ENVIRONMENT") == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func loadConfigWithSecrets(path string) (*config.Config, error) {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return nil, fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
