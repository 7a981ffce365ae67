package service

import (
	"context"
	"log"
	"sort"
	"sync/atomic"
	"time"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/colerae/matchbox/internal/metrics"
)

// QueueRunnerConfig tunes how the runner treats one queue.
type QueueRunnerConfig struct {
	Enabled bool `json:"enabled"`
	// Priority orders queues within a tick; higher goes first.
	Priority int `json:"priority"`
	// MaxConcurrentMatches caps matches committed from this queue per tick.
	// Zero means unlimited.
	MaxConcurrentMatches int `json:"maxConcurrentMatches"`
}

// RunnerConfig tunes the tick loop.
type RunnerConfig struct {
	TickIntervalMs int `json:"tickIntervalMs"`
	// MaxMatchesPerTick caps matches committed across all queues per tick.
	// Zero means unlimited.
	MaxMatchesPerTick int `json:"maxMatchesPerTick"`
	// AutoDispatch skips the manual ready flow and moves fresh lobbies
	// straight to Dispatched.
	AutoDispatch bool `json:"autoDispatch"`
	// Queues overrides per-queue behavior. Queues not listed here run with
	// defaults (enabled, priority 0, uncapped).
	Queues map[string]QueueRunnerConfig `json:"queues"`
}

// DefaultRunnerConfig ticks once a second with no caps.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{TickIntervalMs: 1000}
}

// FastRunnerConfig ticks every 100ms, suited to high-traffic queues.
func FastRunnerConfig() RunnerConfig {
	return RunnerConfig{TickIntervalMs: 100}
}

// SlowRunnerConfig ticks every 5s with a modest per-tick budget.
func SlowRunnerConfig() RunnerConfig {
	return RunnerConfig{TickIntervalMs: 5000, MaxMatchesPerTick: 10}
}

// Runner periodically sweeps every registered queue, commits the matches it
// finds and opens lobbies for them. At most one loop runs at a time.
type Runner struct {
	config   RunnerConfig
	queueSvc *QueueService
	lobbySvc *LobbyService

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewRunner builds a runner over the queue and lobby services.
func NewRunner(config RunnerConfig, queueSvc *QueueService, lobbySvc *LobbyService) *Runner {
	if config.TickIntervalMs <= 0 {
		config.TickIntervalMs = DefaultRunnerConfig().TickIntervalMs
	}
	return &Runner{config: config, queueSvc: queueSvc, lobbySvc: lobbySvc}
}

// IsRunning reports whether the tick loop is active.
func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

// Start launches the tick loop. It returns ErrRunnerAlreadyRunning if a loop
// is already active. The loop stops when ctx is cancelled or Stop is called.
func (r *Runner) Start(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return domain.ErrRunnerAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	interval := time.Duration(r.config.TickIntervalMs) * time.Millisecond
	log.Printf("[RUNNER] starting, tick interval %s", interval)

	go func() {
		defer close(r.done)
		defer r.running.Store(false)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Printf("[RUNNER] stopped")
				return
			case <-ticker.C:
				r.Tick(ctx)
			}
		}
	}()
	return nil
}

// Stop halts the tick loop and waits for the in-flight tick to finish.
func (r *Runner) Stop() {
	if !r.running.Load() {
		return
	}
	r.cancel()
	<-r.done
}

// Tick runs one matchmaking pass over every enabled queue in priority order.
// A failure in one queue is logged and does not stop the others.
func (r *Runner) Tick(ctx context.Context) {
	started := time.Now()
	defer func() {
		metrics.TickDuration.Observe(time.Since(started).Seconds())
	}()

	budget := r.config.MaxMatchesPerTick
	for _, queueName := range r.tickOrder() {
		if budget == 0 && r.config.MaxMatchesPerTick > 0 {
			break
		}
		committed := r.tickQueue(ctx, queueName, budget)
		if r.config.MaxMatchesPerTick > 0 {
			budget -= committed
		}
	}
}

// tickOrder returns the enabled queues, highest priority first, names
// breaking ties so the order is stable.
func (r *Runner) tickOrder() []string {
	names := r.queueSvc.QueueNames()
	enabled := names[:0]
	for _, name := range names {
		if qc, ok := r.config.Queues[name]; ok && !qc.Enabled {
			continue
		}
		enabled = append(enabled, name)
	}
	sort.Slice(enabled, func(i, j int) bool {
		pi, pj := r.config.Queues[enabled[i]].Priority, r.config.Queues[enabled[j]].Priority
		if pi != pj {
			return pi > pj
		}
		return enabled[i] < enabled[j]
	})
	return enabled
}

// tickQueue finds, commits and opens lobbies for one queue's matches. It
// returns how many matches were committed.
func (r *Runner) tickQueue(ctx context.Context, queueName string, budget int) int {
	if depth, err := r.queueSvc.QueueSize(queueName); err == nil {
		metrics.QueueDepth.WithLabelValues(queueName).Set(float64(depth))
	}

	matches, err := r.queueSvc.FindMatches(queueName)
	if err != nil {
		log.Printf("ERROR [runner.Tick] queue %s: find matches: %v", queueName, err)
		metrics.TickErrors.WithLabelValues(queueName).Inc()
		return 0
	}
	if len(matches) == 0 {
		return 0
	}

	if limit := r.config.Queues[queueName].MaxConcurrentMatches; limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	if budget > 0 && r.config.MaxMatchesPerTick > 0 && len(matches) > budget {
		matches = matches[:budget]
	}

	config, err := r.queueSvc.QueueConfig(queueName)
	if err != nil {
		log.Printf("ERROR [runner.Tick] queue %s: load config: %v", queueName, err)
		metrics.TickErrors.WithLabelValues(queueName).Inc()
		return 0
	}

	// Entries leave the queue before any lobby exists so a crash between the
	// two steps can never double-match a player.
	if err := r.queueSvc.Consume(ctx, queueName, matches); err != nil {
		log.Printf("ERROR [runner.Tick] queue %s: consume: %v", queueName, err)
		metrics.TickErrors.WithLabelValues(queueName).Inc()
		return 0
	}

	for _, match := range matches {
		metadata := domain.LobbyMetadata{QueueName: queueName}
		lobby, err := r.lobbySvc.CreateFromMatch(ctx, match, config.Format, metadata)
		if err != nil {
			log.Printf("ERROR [runner.Tick] queue %s: create lobby for match %s: %v", queueName, match.MatchID, err)
			metrics.TickErrors.WithLabelValues(queueName).Inc()
			continue
		}

		metrics.MatchesFormed.WithLabelValues(queueName).Inc()
		metrics.PlayersMatched.WithLabelValues(queueName).Add(float64(len(lobby.PlayerIDs)))
		log.Printf("[RUNNER] queue %s: match %s -> lobby %s (%d players)", queueName, match.MatchID, lobby.ID, len(lobby.PlayerIDs))

		if r.config.AutoDispatch {
			if _, err := r.lobbySvc.AutoDispatch(ctx, lobby.ID); err != nil {
				log.Printf("ERROR [runner.Tick] queue %s: auto-dispatch lobby %s: %v", queueName, lobby.ID, err)
				metrics.TickErrors.WithLabelValues(queueName).Inc()
			}
		} else {
			if _, err := r.lobbySvc.BeginReadyCheck(ctx, lobby.ID); err != nil {
				log.Printf("ERROR [runner.Tick] queue %s: ready check for lobby %s: %v", queueName, lobby.ID, err)
				metrics.TickErrors.WithLabelValues(queueName).Inc()
			}
		}
	}
	return len(matches)
}
