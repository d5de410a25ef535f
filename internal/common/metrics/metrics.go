package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Total number of chat turns by attributed agent",
		},
		[]string{"agent"},
	)

	ChatTurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "chat_turn_duration_seconds",
			Help: "Duration of chat round trips in seconds",
		},
	)

	BackendFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_failures_total",
			Help: "Total number of backend calls that fell back locally",
		},
		[]string{"endpoint"},
	)

	ApplicationsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applications_created_total",
			Help: "Total number of applications materialized, by origin",
		},
		[]string{"origin"},
	)
)
