package handler

import (
	"net/http"
	"strconv"
)

// maxDecisionPageSize caps the /decisions page size.
const maxDecisionPageSize = 500

// handleState handles GET /state. It returns the diagnostic view of
// the in-memory navigation state, never the persisted record.
func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	state := h.state.View()

	h.writeJSON(w, r, http.StatusOK, StateResponse{
		CurrentRoute:    state.CurrentRoute,
		RouteHistory:    state.RouteHistory,
		LastActiveAt:    state.LastActiveAt,
		WasInBackground: state.WasInBackground,
		Phase:           string(h.monitor.Phase()),
	})
}

// handleDecisions handles GET /decisions. Records come back newest
// first; ?limit= bounds the page.
func (h *Handler) handleDecisions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeError(w, r, http.StatusBadRequest, "NK-ARG-1001", "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxDecisionPageSize {
		limit = maxDecisionPageSize
	}

	records, err := h.state.Decisions(r.Context(), limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	items := make([]DecisionEntry, 0, len(records))
	for _, rec := range records {
		items = append(items, DecisionEntry{
			ID:           rec.ID,
			DecidedAt:    rec.DecidedAt,
			Outcome:      string(rec.Outcome),
			Route:        rec.Route,
			Reason:       string(rec.Reason),
			BackgroundMs: rec.BackgroundMs,
			SavedRoute:   rec.SavedRoute,
		})
	}

	h.writeJSON(w, r, http.StatusOK, DecisionsResponse{
		Items: items,
		Total: len(items),
	})
}
