package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Compass/internal/report"
	"github.com/MikeSquared-Agency/Compass/internal/scoring"
	"github.com/MikeSquared-Agency/Compass/internal/store"
)

// ScoreHandler computes rankings on demand. Results are derived fresh
// from the store on every request; nothing is cached or persisted.
type ScoreHandler struct {
	store  store.Store
	scorer *scoring.Scorer
}

func NewScoreHandler(s store.Store, scorer *scoring.Scorer) *ScoreHandler {
	return &ScoreHandler{store: s, scorer: scorer}
}

// Recommend scores a stored analysis and returns the full ranked result.
func (h *ScoreHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid analysis id"})
		return
	}

	snap, err := h.store.GetSnapshot(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if snap == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "analysis not found"})
		return
	}

	// An analysis with no options scores to a null result; that is a
	// valid answer, not an error.
	result := h.scorer.Evaluate(snap)
	writeJSON(w, http.StatusOK, result)
}

// Evaluate scores a snapshot supplied in the request body, without
// touching the store.
func (h *ScoreHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var snap scoring.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(snap.Options) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "options required"})
		return
	}

	result := h.scorer.Evaluate(&snap)
	writeJSON(w, http.StatusOK, result)
}

// Report renders a stored analysis as a markdown document.
func (h *ScoreHandler) Report(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid analysis id"})
		return
	}

	a, err := h.store.GetAnalysis(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if a == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "analysis not found"})
		return
	}

	items, err := h.store.ListItems(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	result := h.scorer.Evaluate(store.SnapshotFrom(a, items))
	doc := report.Markdown(a.Title, result)

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
