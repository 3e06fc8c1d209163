package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/yndnr/navkeep-go/internal/storage"
)

// handleReset handles POST /admin/v1/reset. It clears the in-memory
// state, the persisted record and the decision journal.
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.state.Reset(r.Context()); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("state reset via admin API")
	h.writeJSON(w, r, http.StatusOK, ResetResponse{Reset: true})
}

// handleExport handles GET /admin/v1/export. The response body is a
// bundle stream, not the JSON envelope. The bundle is assembled in
// memory first so a failure can still produce a proper error status;
// it holds one state record and a bounded journal, so it stays small.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.state.Export(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	info, err := storage.WriteBundle(&buf, bundle, h.cipher, time.Now())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("export bundle written",
		"bundle_id", info.ID,
		"size", info.Size,
		"decisions", info.DecisionCount,
	)

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+info.ID+`.nkbundle"`)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.Header().Set("X-Bundle-ID", info.ID)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("export download interrupted", "error", err)
	}
}
