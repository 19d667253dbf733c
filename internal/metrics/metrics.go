// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

// Package metrics provides Prometheus instrumentation for Cinescope:
// API endpoint latency and throughput, memoization cache efficiency,
// movie source request outcomes, and similarity rebuild cost.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
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

	// Memoization cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memo_cache_hits_total",
			Help: "Total number of memoization cache hits",
		},
		[]string{"operation"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memo_cache_misses_total",
			Help: "Total number of memoization cache misses",
		},
		[]string{"operation"},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "memo_cache_evictions_total",
			Help: "Total number of memoization cache evictions",
		},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "memo_cache_entries",
			Help: "Current number of memoization cache entries",
		},
	)

	// Movie source metrics
	SourceRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_source_requests_total",
			Help: "Total number of movie source requests",
		},
		[]string{"operation", "outcome"}, // outcome: "success", "failure", "rejected"
	)

	SourceRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movie_source_request_duration_seconds",
			Help:    "Movie source request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Circuit breaker state: 0 = closed, 1 = half-open, 2 = open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Catalog and similarity metrics
	CorpusSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_corpus_size",
			Help: "Number of movies in the current corpus snapshot",
		},
	)

	CorpusRebuildsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_rebuilds_total",
			Help: "Total number of corpus rebuilds",
		},
	)

	SimilarityBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "similarity_matrix_build_duration_seconds",
			Help:    "Time taken to vectorize the corpus and compute the similarity matrix",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	// Recommendation metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"}, // "success", "not_found", "error"
	)

	EnrichmentDrops = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_enrichment_drops_total",
			Help: "Candidates dropped because detail enrichment failed",
		},
	)
)

// RecordAPIRequest records API endpoint metrics.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordSourceRequest records a movie source call outcome.
func RecordSourceRequest(operation, outcome string, duration time.Duration) {
	SourceRequestsTotal.WithLabelValues(operation, outcome).Inc()
	SourceRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
