package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/navkeep-go/internal/core/service"
	"github.com/yndnr/navkeep-go/internal/server/httpserver/handler"
	"github.com/yndnr/navkeep-go/internal/telemetry/metric"
	"github.com/yndnr/navkeep-go/pkg/crypto/adaptive"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// State is the engine state service.
	State *service.StateService

	// Monitor is the lifecycle monitor fed by the ingest endpoints.
	Monitor *service.LifecycleMonitor

	// Cipher seals export bundles; nil exports in the clear.
	Cipher adaptive.Cipher

	// Metrics is the engine metric set instrumenting requests.
	Metrics *metric.Metrics

	// MetricsHandler serves GET /metrics; nil leaves it unmounted.
	MetricsHandler http.Handler

	// AdminToken guards the admin endpoints. Empty removes the admin
	// surface entirely rather than leaving it open.
	AdminToken string

	// RateLimit is the per-IP request rate (requests/second) with
	// RateBurst as the matching burst. Zero disables limiting.
	RateLimit float64
	RateBurst int

	// Logger for request logging.
	Logger *slog.Logger
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	h := handler.New(cfg.State, cfg.Monitor, cfg.Cipher, log)

	base := []Middleware{
		RequestID(),
		Recover(log),
	}
	if cfg.Metrics != nil {
		base = append(base, Instrument(cfg.Metrics))
	}

	limited := base
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limited = append(append([]Middleware{}, base...), RateLimit(cfg.RateLimit, burst))
	}

	// Health probes stay un-ratelimited; a throttled liveness check
	// reads as an outage.
	probeHandler := Chain(h, base...)
	apiHandler := Chain(h, limited...)

	mux := http.NewServeMux()

	mux.Handle("GET /health", probeHandler)
	mux.Handle("GET /ready", probeHandler)

	mux.Handle("GET /state", apiHandler)
	mux.Handle("GET /decisions", apiHandler)
	mux.Handle("POST /events/lifecycle", apiHandler)
	mux.Handle("POST /events/route", apiHandler)

	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", Chain(cfg.MetricsHandler, base...))
	}

	// The admin surface only exists when a token is configured.
	if cfg.AdminToken != "" {
		adminChain := append(append([]Middleware{}, limited...), BearerAuth(cfg.AdminToken))
		adminHandler := Chain(h, adminChain...)
		mux.Handle("POST /admin/v1/reset", adminHandler)
		mux.Handle("GET /admin/v1/export", adminHandler)
	}

	return mux
}
