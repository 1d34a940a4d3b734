package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Compass/internal/engine"
	"github.com/MikeSquared-Agency/Compass/internal/store"
)

type AdminHandler struct {
	store  store.Store
	engine *engine.Engine
}

func NewAdminHandler(s store.Store, e *engine.Engine) *AdminHandler {
	return &AdminHandler{store: s, engine: e}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Rescore forces a fresh evaluation and publish for one analysis,
// bypassing the sweep schedule.
func (h *AdminHandler) Rescore(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid analysis id"})
		return
	}
	if h.engine == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "engine not running"})
		return
	}

	h.engine.MarkDirty(id)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued", "analysis_id": id.String()})
}
