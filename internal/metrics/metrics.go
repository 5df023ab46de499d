// Package metrics provides the centralized Prometheus metrics registry for
// the prediction service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gridironlabs/nfl-predictor/internal/models"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nfl_predictor",
		Name:      "predictions_total",
		Help:      "Total number of prediction runs",
	})
	TrainingFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nfl_predictor",
		Name:      "training_fallbacks_total",
		Help:      "Total number of training runs that fell back to fixed coefficients",
	})
	SnapshotsSavedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nfl_predictor",
		Name:      "snapshots_saved_total",
		Help:      "Total number of prediction rows persisted by snapshots",
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nfl_predictor",
		Name:      "cache_hits_total",
		Help:      "Total number of prediction cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nfl_predictor",
		Name:      "cache_misses_total",
		Help:      "Total number of prediction cache misses",
	})
)

// Gauge metrics
var (
	TrainingRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nfl_predictor",
		Name:      "training_rows",
		Help:      "Training rows used by the most recent weight fit",
	})
	ModelSigma = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nfl_predictor",
		Name:      "model_sigma",
		Help:      "Residual spread of the most recent model in points",
	})
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nfl_predictor",
		Name:      "cache_hit_ratio",
		Help:      "Prediction cache hit ratio since start",
	})
)

// Histogram metrics
var (
	PredictionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nfl_predictor",
		Name:      "prediction_duration_seconds",
		Help:      "Duration of full train-and-predict runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nfl_predictor",
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "status"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(TrainingFallbacksTotal)
		registry.MustRegister(SnapshotsSavedTotal)
		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)

		registry.MustRegister(TrainingRows)
		registry.MustRegister(ModelSigma)
		registry.MustRegister(CacheHitRatio)

		registry.MustRegister(PredictionDuration)
		registry.MustRegister(RequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

var (
	cacheMu             sync.Mutex
	cacheHits, cacheReq float64
)

// RecordCacheHit counts a prediction cache hit and refreshes the ratio.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
	cacheMu.Lock()
	cacheHits++
	cacheReq++
	CacheHitRatio.Set(cacheHits / cacheReq)
	cacheMu.Unlock()
}

// RecordCacheMiss counts a prediction cache miss and refreshes the ratio.
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
	cacheMu.Lock()
	cacheReq++
	CacheHitRatio.Set(cacheHits / cacheReq)
	cacheMu.Unlock()
}

// RecordTrainingOutcome records the shape of a finished training run.
func RecordTrainingOutcome(m models.LearnedModel) {
	TrainingRows.Set(float64(m.TrainingRows))
	ModelSigma.Set(m.Sigma)
	if !m.Fitted {
		TrainingFallbacksTotal.Inc()
	}
}

// RecordPrediction records one completed prediction run.
func RecordPrediction(durationSeconds float64) {
	PredictionsTotal.Inc()
	PredictionDuration.Observe(durationSeconds)
}
