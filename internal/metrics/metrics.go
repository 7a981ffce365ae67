// Package metrics exposes the engine's Prometheus collectors. Collectors are
// registered on the default registry; serve them with promhttp.Handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchesFormed counts matches the runner committed, per queue.
	MatchesFormed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchbox",
		Name:      "matches_formed_total",
		Help:      "Matches formed and consumed from a queue.",
	}, []string{"queue"})

	// PlayersMatched counts players placed into lobbies, per queue.
	PlayersMatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchbox",
		Name:      "players_matched_total",
		Help:      "Players placed into a lobby from a queue.",
	}, []string{"queue"})

	// TickDuration observes how long a full runner tick takes.
	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "matchbox",
		Name:      "tick_duration_seconds",
		Help:      "Wall time of one matchmaking tick across all queues.",
		Buckets:   prometheus.DefBuckets,
	})

	// QueueDepth tracks the number of entries waiting in each queue.
	QueueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "matchbox",
		Name:      "queue_depth",
		Help:      "Entries currently waiting in a queue.",
	}, []string{"queue"})

	// TickErrors counts per-queue failures during ticks.
	TickErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchbox",
		Name:      "tick_errors_total",
		Help:      "Errors encountered while processing a queue during a tick.",
	}, []string{"queue"})
)
