// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Circuit breaker states as exported by ExtractCircuitState.
const (
	CircuitClosed   = 0
	CircuitHalfOpen = 1
	CircuitOpen     = 2
)

var (
	// Pipeline Metrics
	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gadvi_pipeline_stage_duration_seconds",
			Help:    "Duration of recommendation pipeline stages in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 300, 900},
		},
		[]string{"stage"}, // "extract", "split", "build", "train", "evaluate", "persist"
	)

	SplitTestRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gadvi_split_test_ratio",
			Help: "Fraction of input records that landed in the test partition",
		},
	)

	InteractionSparsity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gadvi_interaction_sparsity",
			Help: "Fraction of empty cells in the player-game interaction matrix",
		},
	)

	ModelEvaluation = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gadvi_model_evaluation",
			Help: "Latest ranking metrics of the trained model",
		},
		[]string{"partition", "metric"}, // partition: "train", "test"; metric: "precision_at_k", "recall_at_k", "auc"
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gadvi_recommendations_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"}, // "served", "cold", "error"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gadvi_recommendation_duration_seconds",
			Help:    "Time spent scoring and filtering recommendations for one player",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gadvi_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gadvi_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	// Artifact Metrics
	ArtifactOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gadvi_artifact_operations_total",
			Help: "Total number of model artifact save/load operations",
		},
		[]string{"backend", "operation", "status"},
	)

	// Extract Metrics
	ExtractRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gadvi_extract_rows_total",
			Help: "Total number of interaction rows read from a source",
		},
		[]string{"source"}, // "tsv", "duckdb"
	)

	ExtractCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gadvi_extract_circuit_state",
			Help: "State of the extract circuit breaker (0=closed, 1=half-open, 2=open)",
		},
	)

	// Model Lifecycle Metrics
	ModelReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gadvi_model_reloads_total",
			Help: "Total number of model reloads by status",
		},
		[]string{"status"}, // "success", "error"
	)

	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gadvi_cache_operations_total",
			Help: "Total number of recommendation cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss", "evict"
	)
)

// ObserveStage records how long a pipeline stage took.
func ObserveStage(stage string, duration time.Duration) {
	PipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordEvaluation publishes the ranking metrics of one partition.
func RecordEvaluation(partition string, precision, recall, auc float64) {
	ModelEvaluation.WithLabelValues(partition, "precision_at_k").Set(precision)
	ModelEvaluation.WithLabelValues(partition, "recall_at_k").Set(recall)
	ModelEvaluation.WithLabelValues(partition, "auc").Set(auc)
}

// RecordRecommendation records a recommendation request outcome
func RecordRecommendation(outcome string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, route string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordArtifactOperation records a save or load against an artifact backend.
func RecordArtifactOperation(backend, operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ArtifactOperations.WithLabelValues(backend, operation, status).Inc()
}

// RecordModelReload records a model swap triggered by a publish event.
func RecordModelReload(err error) {
	if err != nil {
		ModelReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	ModelReloadsTotal.WithLabelValues("success").Inc()
}
