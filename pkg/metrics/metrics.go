// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeDegraded = "degraded"
	OutcomeOffline  = "offline"
	OutcomeFailure  = "failure"
	OutcomeFallback = "fallback"
)

var (
	// PredictionsTotal counts predict calls by outcome (success, degraded, offline).
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "churn_dashboard_predictions_total",
			Help: "Total number of predict calls against the scoring backend",
		},
		[]string{"outcome"},
	)

	// BackendFetchesTotal counts view fetches by resource and outcome.
	BackendFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "churn_dashboard_backend_fetches_total",
			Help: "Total number of view fetches against the analytics backend",
		},
		[]string{"resource", "outcome"},
	)

	// StaleResponsesTotal counts predictions discarded because a newer simulation was issued.
	StaleResponsesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "churn_dashboard_stale_responses_total",
			Help: "Total number of prediction responses discarded as stale",
		},
	)

	// SimulationDuration observes the end-to-end latency of a simulation.
	SimulationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "churn_dashboard_simulation_duration_seconds",
			Help:    "Duration of risk simulations including the predict call",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register adds all dashboard collectors to registry.
func Register(registry prometheus.Registerer) {
	registry.MustRegister(
		PredictionsTotal,
		BackendFetchesTotal,
		StaleResponsesTotal,
		SimulationDuration,
	)
}
