package handler

import (
	"net/http"

	"github.com/yndnr/navkeep-go/internal/core/domain"
)

// handleLifecycleEvent handles POST /events/lifecycle. The event is
// queued, not handled inline: 202 means the engine will observe it in
// arrival order, not that restoration has already run.
func (h *Handler) handleLifecycleEvent(w http.ResponseWriter, r *http.Request) {
	var req LifecycleEventRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	if err := h.monitor.NotifyLifecycle(req.Event); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusAccepted, EventAcceptedResponse{
		Accepted: true,
		Phase:    string(h.monitor.Phase()),
	})
}

// handleRouteEvent handles POST /events/route.
func (h *Handler) handleRouteEvent(w http.ResponseWriter, r *http.Request) {
	var req RouteEventRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	// Route names are validated here at the ingest boundary so the
	// caller gets a 400; the engine itself only logs and drops.
	if err := domain.ValidateRouteName(req.Route); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if err := h.monitor.NotifyRoute(req.Route); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusAccepted, EventAcceptedResponse{Accepted: true})
}
