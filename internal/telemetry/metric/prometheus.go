package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics.
type Metrics struct {
	// State metrics
	RouteChanges     prometheus.Counter
	SnapshotWrites   prometheus.Counter
	SnapshotFailures prometheus.Counter
	SnapshotDuration prometheus.Histogram
	CorruptDiscards  prometheus.Counter
	Resets           prometheus.Counter
	JournalEntries   prometheus.Gauge

	// Lifecycle metrics
	LifecycleEvents *prometheus.CounterVec
	EventsDropped   prometheus.Counter
	Decisions       *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// ClockSkew is the NTP-measured wall clock offset at startup.
	ClockSkew prometheus.Gauge
}

// New creates the metric set and registers it with the given registry.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		RouteChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navkeep",
			Subsystem: "state",
			Name:      "route_changes_total",
			Help:      "Total number of recorded route changes.",
		}),
		SnapshotWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navkeep",
			Subsystem: "state",
			Name:      "snapshot_writes_total",
			Help:      "Total number of state snapshots written.",
		}),
		SnapshotFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navkeep",
			Subsystem: "state",
			Name:      "snapshot_failures_total",
			Help:      "Total number of snapshot writes that failed.",
		}),
		SnapshotDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "navkeep",
			Subsystem: "state",
			Name:      "snapshot_duration_seconds",
			Help:      "Time spent writing a state snapshot.",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		CorruptDiscards: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navkeep",
			Subsystem: "state",
			Name:      "corrupt_discards_total",
			Help:      "Total number of persisted snapshots discarded as unreadable.",
		}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navkeep",
			Subsystem: "state",
			Name:      "resets_total",
			Help:      "Total number of state resets.",
		}),
		JournalEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "navkeep",
			Subsystem: "state",
			Name:      "journal_entries",
			Help:      "Current number of decision journal entries.",
		}),
		LifecycleEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navkeep",
			Subsystem: "lifecycle",
			Name:      "events_total",
			Help:      "Total number of lifecycle events received.",
		}, []string{"event"}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navkeep",
			Subsystem: "lifecycle",
			Name:      "events_dropped_total",
			Help:      "Total number of events dropped because the queue was full.",
		}),
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navkeep",
			Subsystem: "lifecycle",
			Name:      "decisions_total",
			Help:      "Total number of restoration decisions by outcome and reason.",
		}, []string{"outcome", "reason"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navkeep",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "navkeep",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ClockSkew: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "navkeep",
			Subsystem: "clock",
			Name:      "skew_seconds",
			Help:      "Wall clock offset against NTP measured at startup.",
		}),
	}

	registry.MustRegister(
		m.RouteChanges,
		m.SnapshotWrites,
		m.SnapshotFailures,
		m.SnapshotDuration,
		m.CorruptDiscards,
		m.Resets,
		m.JournalEntries,
		m.LifecycleEvents,
		m.EventsDropped,
		m.Decisions,
		m.HTTPRequests,
		m.HTTPDuration,
		m.ClockSkew,
	)

	return m
}

// NewNop returns a metric set on a private registry, for tests and
// callers that do not export metrics.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
