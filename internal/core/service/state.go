package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/navkeep-go/internal/core/domain"
	"github.com/yndnr/navkeep-go/internal/infra/clock"
	"github.com/yndnr/navkeep-go/internal/storage"
	"github.com/yndnr/navkeep-go/internal/telemetry/metric"
)

// DefaultPersistInterval rate-limits opportunistic persists on route
// changes. Background snapshots bypass the limiter.
const DefaultPersistInterval = 2 * time.Second

// StateConfig tunes the state service.
type StateConfig struct {
	// HistoryLimit bounds RouteHistory.
	// Defaults to domain.DefaultHistoryLimit.
	HistoryLimit int

	// PersistInterval is the minimum gap between opportunistic
	// route-change persists. Defaults to DefaultPersistInterval.
	PersistInterval time.Duration
}

func (c StateConfig) withDefaults() StateConfig {
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = domain.DefaultHistoryLimit
	}
	if c.PersistInterval <= 0 {
		c.PersistInterval = DefaultPersistInterval
	}
	return c
}

// StateService owns the canonical navigation state.
//
// Route changes are cheap in-memory updates with best-effort
// persistence behind a rate limiter. Background snapshots persist
// synchronously: the OS may kill the process at any point after
// backgrounding, so that write is the one that matters.
type StateService struct {
	cfg     StateConfig
	kv      storage.KV
	codec   *storage.RecordCodec
	journal *storage.JournalStore
	clock   clock.Clock
	metrics *metric.Metrics
	logger  *slog.Logger

	mu    sync.RWMutex
	state *domain.NavigationState

	// persistMu serializes durable writes against loads, so a load
	// issued after a write always observes it.
	persistMu sync.Mutex

	limiter *rate.Limiter

	wg sync.WaitGroup // in-flight opportunistic persists
}

// NewStateService creates the state service. clk, m and logger may be
// nil; the system clock, a private metric set and slog.Default() are
// used in their place.
func NewStateService(cfg StateConfig, kv storage.KV, codec *storage.RecordCodec, journal *storage.JournalStore, clk clock.Clock, m *metric.Metrics, logger *slog.Logger) *StateService {
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

	return &StateService{
		cfg:     cfg,
		kv:      kv,
		codec:   codec,
		journal: journal,
		clock:   clk,
		metrics: m,
		logger:  logger.With("component", "state"),
		state:   domain.NewNavigationState(),
		limiter: rate.NewLimiter(rate.Every(cfg.PersistInterval), 1),
	}
}

// Hydrate populates the in-memory state from the persisted record, if
// any. Route and history carry over for diagnostic continuity;
// WasInBackground is a per-launch fact and starts false. The record
// itself is left untouched, so the first foreground edge still decides
// against the pre-restart snapshot.
func (s *StateService) Hydrate(ctx context.Context) error {
	loaded, err := s.load(ctx)
	if err != nil || loaded == nil {
		return err
	}

	s.mu.Lock()
	s.state.CurrentRoute = loaded.CurrentRoute
	s.state.RouteHistory = append([]string(nil), loaded.RouteHistory...)
	s.state.LastActiveAt = loaded.LastActiveAt
	s.state.WasInBackground = false
	s.mu.Unlock()

	s.logger.Info("state hydrated",
		"route", loaded.CurrentRoute,
		"history_len", len(loaded.RouteHistory),
	)
	return nil
}

// RecordRouteChange records a route transition. It never fails the
// caller: bad input is logged and dropped, persistence is best-effort.
func (s *StateService) RecordRouteChange(route string) {
	if err := domain.ValidateRouteName(route); err != nil {
		s.logger.Warn("ignoring invalid route", "route", route, "error", err)
		return
	}

	s.mu.Lock()
	changed := s.state.VisitRoute(route, s.cfg.HistoryLimit)
	s.mu.Unlock()
	if !changed {
		return
	}

	s.metrics.RouteChanges.Inc()
	s.logger.Debug("route recorded", "route", route)

	// A skipped persist only costs snapshot freshness until the next
	// background edge.
	if !s.limiter.Allow() {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.persistMu.Lock()
		defer s.persistMu.Unlock()
		if err := s.persist(context.Background()); err != nil {
			s.logger.Warn("opportunistic persist failed", "error", err)
		}
	}()
}

// SnapshotOnBackground stamps the state as backgrounded and persists it
// synchronously.
func (s *StateService) SnapshotOnBackground(ctx context.Context) error {
	now := s.clock.Now()

	s.mu.Lock()
	s.state.MarkBackground(now)
	route := s.state.CurrentRoute
	s.mu.Unlock()

	start := time.Now()
	s.persistMu.Lock()
	err := s.persist(ctx)
	s.persistMu.Unlock()
	s.metrics.SnapshotDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.metrics.SnapshotFailures.Inc()
		s.logger.Error("background snapshot failed", "error", err)
		return err
	}

	s.metrics.SnapshotWrites.Inc()
	s.logger.Debug("background snapshot written", "route", route)
	return nil
}

// LoadOnForeground returns the last persisted snapshot and stamps the
// in-memory state active. A nil state with nil error means there is
// nothing to restore. The persist mutex makes the read wait out any
// write still in flight.
func (s *StateService) LoadOnForeground(ctx context.Context) (*domain.NavigationState, error) {
	s.persistMu.Lock()
	loaded, err := s.load(ctx)
	s.persistMu.Unlock()

	now := s.clock.Now()
	s.mu.Lock()
	s.state.MarkActive(now)
	s.mu.Unlock()

	return loaded, err
}

// Reset clears the in-memory state, the persisted record and the
// decision journal.
func (s *StateService) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.state = domain.NewNavigationState()
	s.mu.Unlock()

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := s.kv.Delete(ctx, []byte(storage.StateKey)); err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	if err := s.journal.Clear(ctx); err != nil {
		return err
	}

	s.metrics.Resets.Inc()
	s.logger.Info("navigation state reset")
	return nil
}

// View returns a deep copy of the current in-memory state.
func (s *StateService) View() *domain.NavigationState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Decisions returns the newest decision records, most recent first.
func (s *StateService) Decisions(ctx context.Context, limit int) ([]*domain.DecisionRecord, error) {
	return s.journal.List(ctx, limit)
}

// Export collects the persisted record and the decision journal into
// a diagnostic bundle. The persisted record is read as-is, without
// stamping activity: exporting must not look like a foreground edge.
func (s *StateService) Export(ctx context.Context) (*storage.Bundle, error) {
	s.persistMu.Lock()
	state, err := s.load(ctx)
	s.persistMu.Unlock()
	if err != nil {
		return nil, err
	}

	decisions, err := s.journal.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	return &storage.Bundle{State: state, Decisions: decisions}, nil
}

// Close waits for in-flight opportunistic persists to settle.
func (s *StateService) Close() error {
	s.wg.Wait()
	return nil
}

// persist writes the current in-memory state. Caller holds persistMu.
func (s *StateService) persist(ctx context.Context) error {
	s.mu.RLock()
	snap := s.state.Clone()
	s.mu.RUnlock()

	data, err := s.codec.Encode(snap)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, []byte(storage.StateKey), data); err != nil {
		return domain.ErrSnapshotWrite.WithCause(err)
	}
	return nil
}

// load fetches and decodes the persisted record. Missing, unreadable
// and undecodable records all come back as (nil, nil): a snapshot we
// cannot trust is a snapshot we do not have.
func (s *StateService) load(ctx context.Context) (*domain.NavigationState, error) {
	raw, err := s.kv.Get(ctx, []byte(storage.StateKey))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if errors.Is(err, storage.ErrClosed) {
		return nil, domain.ErrServiceUnavailable.WithCause(err)
	}
	if err != nil {
		s.logger.Error("snapshot read failed", "error", err)
		return nil, nil
	}

	state, err := s.codec.Decode(raw)
	if err != nil {
		s.metrics.CorruptDiscards.Inc()
		s.logger.Warn("discarding unreadable snapshot", "error", err)
		// Drop the record so the next load is a clean miss.
		if derr := s.kv.Delete(ctx, []byte(storage.StateKey)); derr != nil {
			s.logger.Warn("corrupt snapshot delete failed", "error", derr)
		}
		return nil, nil
	}
	return state, nil
}
