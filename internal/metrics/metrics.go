// Package metrics holds the Prometheus collectors of the editor workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	Autosaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkdraft_autosaves_total",
		Help: "Total number of debounced draft saves",
	}, []string{"result"})

	ManualSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkdraft_manual_saves_total",
		Help: "Total number of explicit draft saves",
	}, []string{"result"})

	AIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkdraft_ai_requests_total",
		Help: "Total number of finished AI generate and improve requests",
	}, []string{"operation", "outcome"})

	DraftRestores = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkdraft_draft_restores_total",
		Help: "Total number of drafts restored into a fresh session",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "inkdraft_active_sessions",
		Help: "Number of open editor sessions",
	})

	ExpiredSessions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkdraft_expired_sessions_total",
		Help: "Total number of sessions closed for being idle",
	})
)

// Result maps an error to the result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
