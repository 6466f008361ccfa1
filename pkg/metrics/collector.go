// Package metrics exposes Prometheus collectors for the assistant.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/atelier-shop/assistant-bot/internal/order"
)

var (
	turnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialogue_turns_total",
			Help: "Total number of dialogue turns labeled by route and status",
		},
		[]string{"route", "status"},
	)
	turnDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dialogue_turn_duration_seconds",
			Help:    "Duration of dialogue turns in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	stageTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_stage_transitions_total",
			Help: "Total number of order stage transitions",
		},
		[]string{"from", "to"},
	)
	orderOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_outcomes_total",
			Help: "Completed order flows labeled by outcome (committed or cancelled)",
		},
		[]string{"outcome"},
	)
	fallbackFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fallback_failures_total",
			Help: "Total number of failed or timed-out fallback responder calls",
		},
	)
	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Current number of live order sessions",
		},
	)
)

func init() {
	order.RegisterTransitionRecorder(RecordStageTransition)
	order.RegisterOutcomeRecorder(RecordOrderOutcome)
}

// RecordTurn increments the turn counter and records its duration.
func RecordTurn(route, status string, duration time.Duration) {
	turnsTotal.WithLabelValues(route, status).Inc()
	turnDurationSeconds.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordStageTransition counts a stage transition.
func RecordStageTransition(from, to string) {
	stageTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordOrderOutcome counts a finished order flow.
func RecordOrderOutcome(outcome string) {
	orderOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordFallbackFailure counts a failed fallback responder call.
func RecordFallbackFailure() {
	fallbackFailuresTotal.Inc()
}

// SetActiveSessions updates the live session gauge.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}
