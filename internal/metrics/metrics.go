// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - BGG XML API client performance (latency, retries, 202 queue responses)
// - Circuit breaker state around the BGG upstream
// - Similarity engine compute time and output sizes
// - API endpoint latency and throughput
// - Background refresh outcomes

var (
	// BGG Client Metrics
	BGGRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bgg_request_duration_seconds",
			Help:    "Duration of BGG XML API requests in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}, // BGG can be slow; up to the 60s timeout
		},
		[]string{"endpoint"}, // "collection", "thing", "search"
	)

	BGGRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgg_request_errors_total",
			Help: "Total number of failed BGG XML API requests",
		},
		[]string{"endpoint", "error_type"},
	)

	BGGRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgg_retries_total",
			Help: "Total number of BGG request retries",
		},
		[]string{"endpoint", "reason"}, // reason: "accepted", "server_error", "rate_limited", "network"
	)

	BGGAcceptedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bgg_accepted_responses_total",
			Help: "Total number of HTTP 202 responses (collection export still queued)",
		},
	)

	BGGGamesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bgg_games_fetched_total",
			Help: "Total number of game detail records fetched from BGG",
		},
	)

	BGGBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bgg_thing_batch_size",
			Help:    "Number of game IDs per thing request batch",
			Buckets: []float64{1, 5, 10, 15, 20},
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Similarity Engine Metrics
	EngineComputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engine_compute_duration_seconds",
			Help:    "Duration of similarity engine computations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"operation"}, // "edges", "recommend"
	)

	EngineEdgesProduced = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_edges_produced",
			Help:    "Number of edges produced per graph build",
			Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	EngineGamesScored = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_games_scored",
			Help:    "Number of games in each similarity computation",
			Buckets: []float64{1, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Refresh Metrics
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "refresh_duration_seconds",
			Help:    "Duration of collection refresh operations in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600}, // fetching a large collection takes minutes
		},
	)

	RefreshErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_errors_total",
			Help: "Total number of refresh errors",
		},
		[]string{"stage"}, // "collection", "details", "compute"
	)

	RefreshLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "refresh_last_success_timestamp",
			Help: "Unix timestamp of last successful refresh",
		},
	)

	DatasetNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_nodes",
			Help: "Number of nodes in the currently served graph dataset",
		},
	)

	DatasetEdges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_edges",
			Help: "Number of edges in the currently served graph dataset",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordBGGRequest records a BGG API request metric.
func RecordBGGRequest(endpoint string, duration time.Duration, err error) {
	BGGRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages to keep cardinality bounded
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		BGGRequestErrors.WithLabelValues(endpoint, errorType).Inc()
	}
}

// RecordBGGRetry records a retry against a BGG endpoint.
func RecordBGGRetry(endpoint, reason string) {
	BGGRetries.WithLabelValues(endpoint, reason).Inc()
	if reason == "accepted" {
		BGGAcceptedResponses.Inc()
	}
}

// RecordEngineCompute records a similarity engine computation.
func RecordEngineCompute(operation string, games int, duration time.Duration) {
	EngineComputeDuration.WithLabelValues(operation).Observe(duration.Seconds())
	EngineGamesScored.Observe(float64(games))
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRefresh records a completed refresh run.
func RecordRefresh(duration time.Duration, stage string, err error) {
	RefreshDuration.Observe(duration.Seconds())
	if err != nil {
		RefreshErrors.WithLabelValues(stage).Inc()
		return
	}
	RefreshLastSuccess.Set(float64(time.Now().Unix()))
}

// UpdateDatasetGauges publishes the node and edge counts of the dataset
// currently served by the API.
func UpdateDatasetGauges(nodes, edges int) {
	DatasetNodes.Set(float64(nodes))
	DatasetEdges.Set(float64(edges))
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
