package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Proton-105/podcast-bot/internal/state"
)

var (
	botUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of bot updates handled labeled by handler and status",
		},
		[]string{"handler", "status"},
	)
	updateDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "update_duration_seconds",
			Help:    "Duration of bot update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler"},
	)
	lookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "podcast_lookups_total",
			Help: "Total number of podcast provider lookups labeled by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
	lookupDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "podcast_lookup_duration_seconds",
			Help:    "Latency of podcast provider lookups in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	sessionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_transitions_total",
			Help: "Total number of conversation state transitions",
		},
		[]string{"from", "to"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by code and severity",
		},
		[]string{"code", "severity"},
	)
	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Current number of live conversation sessions",
		},
	)
	sessionsByState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sessions_by_state",
			Help: "Number of conversation sessions per state",
		},
		[]string{"state"},
	)
)

var trackedStates = []state.State{
	state.StateAwaitingQuery,
	state.StateAwaitingPodcastChoice,
	state.StateAwaitingEpisodeChoice,
	state.StateDone,
}

func init() {
	state.RegisterTransitionRecorder(RecordStateTransition)
}

// RecordUpdate increments update counters and records duration.
func RecordUpdate(handler, status string, duration time.Duration) {
	if handler == "" {
		handler = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botUpdatesTotal.WithLabelValues(handler, status).Inc()
	updateDurationSeconds.WithLabelValues(handler).Observe(duration.Seconds())
}

// RecordLookup tracks a single call to the podcast provider.
func RecordLookup(operation, outcome string, duration time.Duration) {
	lookupsTotal.WithLabelValues(operation, outcome).Inc()
	lookupDurationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordStateTransition tracks session transitions.
func RecordStateTransition(from, to string) {
	if from == "" {
		from = "unknown"
	}
	if to == "" {
		to = "unknown"
	}

	sessionTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordError increments error counters with metadata.
func RecordError(code, severity string) {
	if code == "" {
		code = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(code, severity).Inc()
}

// StateCollector periodically gathers session counts and emits gauge metrics.
type StateCollector struct {
	fsm      state.StateMachine
	interval time.Duration
	log      *slog.Logger
}

// NewStateCollector builds a metrics collector bound to the provided session machine.
func NewStateCollector(fsm state.StateMachine, interval time.Duration, log *slog.Logger) *StateCollector {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &StateCollector{fsm: fsm, interval: interval, log: log}
}

// Run polls the session store every interval until ctx is cancelled.
func (c *StateCollector) Run(ctx context.Context) {
	if c == nil || c.fsm == nil {
		return
	}

	for {
		if err := c.collect(ctx); err != nil {
			c.log.Debug("session metrics collection failed", slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.interval):
		}
	}
}

func (c *StateCollector) collect(ctx context.Context) error {
	sessions, err := c.fsm.GetAllStates(ctx)
	if err != nil {
		return err
	}

	activeSessions.Set(float64(len(sessions)))

	counts := make(map[string]int, len(trackedStates))
	for _, s := range sessions {
		label := "unknown"
		if s != nil && s.State != "" {
			label = string(s.State)
		}
		counts[label]++
	}

	sessionsByState.Reset()

	for _, tracked := range trackedStates {
		label := string(tracked)
		sessionsByState.WithLabelValues(label).Set(float64(counts[label]))
		delete(counts, label)
	}

	for label, count := range counts {
		sessionsByState.WithLabelValues(label).Set(float64(count))
	}

	return nil
}
