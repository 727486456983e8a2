// Package metrics holds the prometheus collectors shared by the advisor components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

var (
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_catalog_requests_total",
			Help: "Catalog API requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_catalog_request_duration_seconds",
			Help:    "Duration of catalog API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	LLMCompletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_llm_completions_total",
			Help: "Language model completions by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	LLMCompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_llm_completion_duration_seconds",
			Help:    "Duration of language model completions in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"provider"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_http_requests_total",
			Help: "HTTP API requests by route pattern and status code",
		},
		[]string{"route", "status"},
	)

	// Advice counts orchestrator results by operation and the message key returned,
	// "completion" when the model's text was passed through.
	Advice = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_advice_total",
			Help: "Recommendation and comparison results by operation and result",
		},
		[]string{"operation", "result"},
	)
)
