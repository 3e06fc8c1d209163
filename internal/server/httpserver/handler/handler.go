package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yndnr/navkeep-go/internal/core/domain"
	"github.com/yndnr/navkeep-go/internal/core/service"
	"github.com/yndnr/navkeep-go/internal/telemetry/logger"
	"github.com/yndnr/navkeep-go/pkg/crypto/adaptive"
)

// Handler routes API requests to the engine.
type Handler struct {
	state   *service.StateService
	monitor *service.LifecycleMonitor
	cipher  adaptive.Cipher
	logger  *slog.Logger
	mux     *http.ServeMux
}

// New creates a Handler over the engine services. cipher may be nil
// when at-rest encryption is disabled; export bundles are then written
// in the clear.
func New(state *service.StateService, monitor *service.LifecycleMonitor, cipher adaptive.Cipher, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	h := &Handler{
		state:   state,
		monitor: monitor,
		cipher:  cipher,
		logger:  log.With("component", "http"),
		mux:     http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	h.mux.HandleFunc("GET /state", h.handleState)
	h.mux.HandleFunc("GET /decisions", h.handleDecisions)

	h.mux.HandleFunc("POST /events/lifecycle", h.handleLifecycleEvent)
	h.mux.HandleFunc("POST /events/route", h.handleRouteEvent)

	h.mux.HandleFunc("POST /admin/v1/reset", h.handleReset)
	h.mux.HandleFunc("GET /admin/v1/export", h.handleExport)
}

// writeJSON writes a success response in the standard envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response in the standard envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := logger.RequestIDFromContext(r.Context())
	response := NewErrorResponse(requestID, code, message)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// handleServiceError converts engine errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsDomainError(err, "") {
		code := domain.GetErrorCode(err)
		h.writeError(w, r, errorCodeToHTTPStatus(code), code, err.Error())
		return
	}

	h.logger.Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, "NK-SYS-5000", "internal server error")
}

// errorCodeToHTTPStatus maps NK-* error codes onto HTTP status codes
// by their numeric suffix.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4010"), strings.HasSuffix(code, "-4011"):
		return http.StatusUnauthorized
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4220"):
		return http.StatusUnprocessableEntity
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-5030"):
		return http.StatusServiceUnavailable
	case strings.Contains(code, "-5"):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// decodeBody decodes a JSON request body into target.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "NK-SYS-4000", "invalid request body")
		return false
	}
	return true
}
