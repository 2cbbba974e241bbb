// Recstack - Hybrid Recommendation Engine
// Copyright 2026 Recstack Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/recstack/engine

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the recommendation engine:
// - request throughput and latency per operation
// - no-signal fallbacks (cold-start pressure)
// - corpus snapshot sizes

var (
	// RequestsTotal counts engine requests by operation and outcome.
	// Outcomes: ok, no_signal, invalid_weights, error.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"operation", "outcome"},
	)

	// RequestDuration observes per-operation latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_request_duration_seconds",
			Help:    "Recommendation request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// CandidatesReturned observes result-list sizes per operation.
	CandidatesReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_candidates_returned",
			Help:    "Number of candidates returned per request",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"operation"},
	)

	// NoSignalTotal counts personalized requests that had to report
	// insufficient history.
	NoSignalTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_no_signal_total",
			Help: "Total number of requests with no personalized signal",
		},
		[]string{"operation"},
	)

	// CorpusRatings tracks the size of the last fetched rating snapshot.
	CorpusRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_corpus_ratings",
			Help: "Rating records in the most recent corpus snapshot",
		},
	)

	// CorpusItems tracks the size of the last fetched catalog snapshot.
	CorpusItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_corpus_items",
			Help: "Catalog items in the most recent corpus snapshot",
		},
	)
)

// ObserveRequest records one completed request.
func ObserveRequest(operation, outcome string, start time.Time, returned int) {
	RequestsTotal.WithLabelValues(operation, outcome).Inc()
	RequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if outcome == "ok" {
		CandidatesReturned.WithLabelValues(operation).Observe(float64(returned))
	}
}
