// Package metrics exposes gameplay counters on the Prometheus registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActionsProcessed counts reducer transitions by action kind.
	ActionsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "featherquest",
		Name:      "actions_processed_total",
		Help:      "Game actions processed by the state machine.",
	}, []string{"action"})

	// QuestionsAsked counts questions presented, by category.
	QuestionsAsked = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "featherquest",
		Name:      "questions_asked_total",
		Help:      "Questions presented to players.",
	}, []string{"category"})

	// GamesCompleted counts games that reached a winner.
	GamesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "featherquest",
		Name:      "games_completed_total",
		Help:      "Games finished with a winner.",
	})

	// ActiveRooms tracks open game rooms.
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "featherquest",
		Name:      "active_rooms",
		Help:      "Rooms currently open.",
	})
)
