// Package logger provides model-pipeline logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// ModelLogger provides dedicated logging for pipeline operations.
type ModelLogger struct {
	*logrus.Entry
}

// NewModelLogger creates a new model logger.
func NewModelLogger(baseLogger *logrus.Logger) *ModelLogger {
	return &ModelLogger{
		Entry: baseLogger.WithField("component", "model"),
	}
}

// LogPredictionRun logs a completed prediction run.
func (ml *ModelLogger) LogPredictionRun(season, week, games int, cacheHit bool, durationMs float64) {
	ml.WithFields(logrus.Fields{
		"season":      season,
		"week":        week,
		"games":       games,
		"cache_hit":   cacheHit,
		"duration_ms": durationMs,
	}).Info("Prediction run completed")
}

// LogSnapshotSaved logs a persisted snapshot.
func (ml *ModelLogger) LogSnapshotSaved(season, week, rowsSaved int) {
	ml.WithFields(logrus.Fields{
		"season":     season,
		"week":       week,
		"rows_saved": rowsSaved,
	}).Info("Prediction snapshot persisted")
}
