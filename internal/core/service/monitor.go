package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/navkeep-go/internal/core/domain"
	"github.com/yndnr/navkeep-go/internal/core/policy"
	"github.com/yndnr/navkeep-go/internal/infra/clock"
	"github.com/yndnr/navkeep-go/internal/storage"
	"github.com/yndnr/navkeep-go/internal/telemetry/metric"
)

// Default tuning for the lifecycle monitor.
const (
	// DefaultQueueSize bounds the inbound event queue.
	DefaultQueueSize = 128

	// DefaultDecisionBuffer bounds the outbound decision stream.
	DefaultDecisionBuffer = 16
)

// MonitorConfig tunes the lifecycle monitor.
type MonitorConfig struct {
	// Policy is the restoration policy, fixed at construction.
	Policy policy.Config

	// QueueSize bounds the inbound event queue.
	// Defaults to DefaultQueueSize.
	QueueSize int

	// DecisionBuffer bounds the outbound decision stream.
	// Defaults to DefaultDecisionBuffer.
	DecisionBuffer int

	// JournalRetention caps the decision journal.
	// Defaults to storage.DefaultJournalRetention.
	JournalRetention int
}

func (c MonitorConfig) withDefaults() MonitorConfig {
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.DecisionBuffer <= 0 {
		c.DecisionBuffer = DefaultDecisionBuffer
	}
	if c.JournalRetention <= 0 {
		c.JournalRetention = storage.DefaultJournalRetention
	}
	return c
}

// eventKind discriminates the inbound event types.
type eventKind int

const (
	eventLifecycle eventKind = iota
	eventRoute
)

// event is one entry on the inbound queue. Lifecycle notifications and
// route changes share the queue so the engine observes them in arrival
// order.
type event struct {
	kind  eventKind
	phase domain.Phase
	raw   string // original lifecycle notification
	route string
}

// LifecycleMonitor turns host lifecycle notifications into snapshot and
// restoration work.
//
// It is a two-state, edge-triggered machine: only transitions between
// Active and Background do work, a repeated notification of the current
// phase is a no-op. The monitor starts in PhaseBackground, so the first
// "active" notification after process start walks the same restoration
// path as every later foreground transition.
type LifecycleMonitor struct {
	store   *StateService
	journal *storage.JournalStore
	cfg     MonitorConfig
	clock   clock.Clock
	metrics *metric.Metrics
	logger  *slog.Logger

	events    chan event
	decisions chan domain.Decision

	phaseMu sync.RWMutex
	phase   domain.Phase

	running   atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewLifecycleMonitor creates the monitor. clk, m and logger may be
// nil; the system clock, a private metric set and slog.Default() are
// used in their place.
func NewLifecycleMonitor(cfg MonitorConfig, store *StateService, journal *storage.JournalStore, clk clock.Clock, m *metric.Metrics, logger *slog.Logger) *LifecycleMonitor {
	cfg = cfg.withDefaults()
	if clk == nil {
		clk = clock.NewSystem()
	}
	if m == nil {
		m = metric.NewNop()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LifecycleMonitor{
		store:     store,
		journal:   journal,
		cfg:       cfg,
		clock:     clk,
		metrics:   m,
		logger:    logger.With("component", "lifecycle"),
		events:    make(chan event, cfg.QueueSize),
		decisions: make(chan domain.Decision, cfg.DecisionBuffer),
		phase:     domain.PhaseBackground,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start launches the event loop.
func (m *LifecycleMonitor) Start() {
	m.startOnce.Do(func() {
		m.running.Store(true)
		go m.run()
	})
}

// Stop drains queued events and stops the loop. A background edge
// queued just before shutdown still gets its snapshot written.
func (m *LifecycleMonitor) Stop(ctx context.Context) error {
	m.stopOnce.Do(func() {
		m.running.Store(false)
		close(m.stopCh)
	})

	select {
	case <-m.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NotifyLifecycle queues a host lifecycle notification ("active",
// "inactive" or "background"). It never blocks: when the queue is full
// the event is dropped and counted.
func (m *LifecycleMonitor) NotifyLifecycle(raw string) error {
	phase, err := domain.ParseLifecycleEvent(raw)
	if err != nil {
		return err
	}
	if !m.running.Load() {
		return domain.ErrMonitorNotRunning
	}

	m.metrics.LifecycleEvents.WithLabelValues(raw).Inc()

	select {
	case m.events <- event{kind: eventLifecycle, phase: phase, raw: raw}:
		return nil
	default:
		m.metrics.EventsDropped.Inc()
		m.logger.Warn("lifecycle event dropped, queue full", "event", raw)
		return domain.ErrEventOverflow
	}
}

// NotifyRoute queues a route change observed by the UI layer.
func (m *LifecycleMonitor) NotifyRoute(route string) error {
	if !m.running.Load() {
		return domain.ErrMonitorNotRunning
	}

	select {
	case m.events <- event{kind: eventRoute, route: route}:
		return nil
	default:
		m.metrics.EventsDropped.Inc()
		m.logger.Warn("route change dropped, queue full", "route", route)
		return domain.ErrEventOverflow
	}
}

// Decisions exposes the restoration decision stream. One decision is
// emitted per foreground edge; a slow consumer misses decisions rather
// than stalling the engine.
func (m *LifecycleMonitor) Decisions() <-chan domain.Decision {
	return m.decisions
}

// Phase reports the current lifecycle phase.
func (m *LifecycleMonitor) Phase() domain.Phase {
	m.phaseMu.RLock()
	defer m.phaseMu.RUnlock()
	return m.phase
}

func (m *LifecycleMonitor) setPhase(p domain.Phase) {
	m.phaseMu.Lock()
	m.phase = p
	m.phaseMu.Unlock()
}

func (m *LifecycleMonitor) run() {
	defer close(m.doneCh)

	for {
		select {
		case ev := <-m.events:
			m.handle(ev)
		case <-m.stopCh:
			// Drain whatever the host managed to queue; a final
			// background snapshot must not be lost to shutdown.
			for {
				select {
				case ev := <-m.events:
					m.handle(ev)
				default:
					return
				}
			}
		}
	}
}

func (m *LifecycleMonitor) handle(ev event) {
	ctx := context.Background()

	switch ev.kind {
	case eventRoute:
		m.store.RecordRouteChange(ev.route)

	case eventLifecycle:
		if ev.phase == m.Phase() {
			m.logger.Debug("lifecycle notification ignored, already in phase",
				"event", ev.raw, "phase", string(ev.phase))
			return
		}
		m.setPhase(ev.phase)

		switch ev.phase {
		case domain.PhaseBackground:
			m.onBackground(ctx, ev.raw)
		case domain.PhaseActive:
			m.onActive(ctx)
		}
	}
}

// onBackground persists the state. The write is awaited: the edge does
// not count as handled until the state is on disk or the write has
// definitively failed.
func (m *LifecycleMonitor) onBackground(ctx context.Context, raw string) {
	if err := m.store.SnapshotOnBackground(ctx); err != nil {
		m.logger.Error("background edge persisted nothing", "event", raw, "error", err)
	}
}

// onActive loads the snapshot, decides, records and emits. Exactly one
// decision per foreground edge.
func (m *LifecycleMonitor) onActive(ctx context.Context) {
	now := m.clock.Now()

	state, err := m.store.LoadOnForeground(ctx)
	if err != nil {
		m.logger.Error("foreground load failed", "error", err)
	}

	decision := policy.Decide(state, now, m.cfg.Policy)
	m.metrics.Decisions.WithLabelValues(string(decision.Outcome), string(decision.Reason)).Inc()
	m.logger.Info("restoration decided",
		"outcome", string(decision.Outcome),
		"reason", string(decision.Reason),
		"route", decision.Route,
	)

	m.recordDecision(ctx, decision, state, now)
	m.emit(decision)
}

func (m *LifecycleMonitor) recordDecision(ctx context.Context, d domain.Decision, state *domain.NavigationState, now time.Time) {
	var savedRoute string
	var backgroundFor time.Duration
	if state != nil {
		savedRoute = state.CurrentRoute
		backgroundFor = state.BackgroundFor(now)
	}

	rec, err := domain.NewDecisionRecord(d, savedRoute, backgroundFor, now)
	if err != nil {
		m.logger.Warn("decision record not created", "error", err)
		return
	}
	if err := m.journal.Append(ctx, rec); err != nil {
		m.logger.Warn("journal append failed", "error", err)
		return
	}
	if _, err := m.journal.Prune(ctx, m.cfg.JournalRetention); err != nil {
		m.logger.Warn("journal prune failed", "error", err)
	}
	if n, err := m.journal.Count(ctx); err == nil {
		m.metrics.JournalEntries.Set(float64(n))
	}
}

func (m *LifecycleMonitor) emit(d domain.Decision) {
	select {
	case m.decisions <- d:
	default:
		// No live consumer. The decision still reached the journal
		// and the log.
		m.logger.Warn("decision not consumed", "decision", d.String())
	}
}
