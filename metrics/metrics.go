// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus instruments for sessions and plays.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Play results
const (
	ResultPlayed    = "played"
	ResultExhausted = "exhausted"
	ResultRejected  = "rejected"
)

var (
	// PlaysTotal counts play requests by bandit and outcome
	PlaysTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bandit_plays_total",
		Help: "Total play requests by bandit and result",
	}, []string{"bandit", "result"})

	// Payout tracks the payout of each accepted play
	Payout = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bandit_payout",
		Help:    "Payout per accepted play",
		Buckets: []float64{0, 1, 2, 3, 5, 13, 45},
	}, []string{"bandit"})

	// SessionsCreated counts new sessions
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bandit_sessions_created_total",
		Help: "Total sessions created",
	})

	// SessionsEnded counts sessions removed, by reason
	SessionsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bandit_sessions_ended_total",
		Help: "Total sessions ended by reason",
	}, []string{"reason"})

	// SessionsActive is the number of sessions currently held
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bandit_sessions_active",
		Help: "Sessions currently held by the store",
	})
)

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
