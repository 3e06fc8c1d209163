package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/navkeep-go/internal/infra/buildinfo"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": buildinfo.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /ready. The engine is ready once the
// lifecycle monitor accepts events.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "ready",
		"phase":  string(h.monitor.Phase()),
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
