// Package metrics exposes Prometheus instrumentation for the console.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes used as label values.
const (
	OutcomeSuccess   = "success"
	OutcomeNonZero   = "nonzero_exit"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
	OutcomeInline    = "inline"
)

var (
	// Execution metrics
	ExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irconsole_executions_total",
			Help: "Total number of dispatched actions by entity kind, backend and outcome",
		},
		[]string{"kind", "backend", "outcome"},
	)

	ExecutionDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "irconsole_execution_duration_seconds",
			Help:    "Round-trip time of remote executions",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
		},
		[]string{"kind", "backend"},
	)

	StaleSettlesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "irconsole_stale_settles_total",
			Help: "Execution results discarded because the modal had moved on",
		},
	)

	// Explanation metrics
	ExplanationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irconsole_explanations_total",
			Help: "Total number of explanation sessions by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	StreamFramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irconsole_stream_frames_total",
			Help: "Streamed explanation frames by result (content, parse_error)",
		},
		[]string{"result"},
	)

	ExplanationsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "irconsole_explanations_active",
			Help: "Explanation streams currently being read",
		},
	)
)

// RecordExecution records one settled dispatch.
func RecordExecution(kind, backend, outcome string, duration time.Duration) {
	ExecutionsTotal.WithLabelValues(kind, backend, outcome).Inc()
	if outcome != OutcomeInline {
		ExecutionDurationSeconds.WithLabelValues(kind, backend).Observe(duration.Seconds())
	}
}

// RecordStaleSettle counts a discarded execution result.
func RecordStaleSettle() {
	StaleSettlesTotal.Inc()
}

// RecordExplanation records the end of an explanation session.
func RecordExplanation(provider, outcome string) {
	ExplanationsTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordStreamFrame counts one data frame.
func RecordStreamFrame(result string) {
	StreamFramesTotal.WithLabelValues(result).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
