// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pollboard"

// Outcome label used for accepted operations; rejections use their apperr code.
const OutcomeOK = "ok"

// Metrics groups the collectors for poll and session operations. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	PollOperations *prometheus.CounterVec
	VotesAccepted  prometheus.Counter
	LoginAttempts  *prometheus.CounterVec
	LoginDuration  prometheus.Histogram
}

// New registers the collectors with reg. Pass a fresh prometheus.NewRegistry()
// in tests so constructors can run more than once.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PollOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "polls",
				Name:      "operations_total",
				Help:      "Poll store operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		VotesAccepted: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "polls",
				Name:      "votes_accepted_total",
				Help:      "Votes recorded across all polls",
			},
		),
		LoginAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "login_attempts_total",
				Help:      "Login attempts by result",
			},
			[]string{"result"},
		),
		LoginDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "login_duration_seconds",
				Help:      "Time from login request to resolution",
				Buckets:   prometheus.LinearBuckets(0.2, 0.2, 8), // 200ms to 1.6s
			},
		),
	}
}

// ObserveOperation counts one poll store operation.
func (m *Metrics) ObserveOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.PollOperations.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ObserveVote() {
	if m == nil {
		return
	}
	m.VotesAccepted.Inc()
}

// ObserveLogin counts a login attempt and how long it took to resolve.
func (m *Metrics) ObserveLogin(result string, seconds float64) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
	m.LoginDuration.Observe(seconds)
}
