package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Compass/internal/events"
	"github.com/MikeSquared-Agency/Compass/internal/store"
)

type AnalysesHandler struct {
	store  store.Store
	events events.Client
}

func NewAnalysesHandler(s store.Store, ev events.Client) *AnalysesHandler {
	return &AnalysesHandler{store: s, events: ev}
}

type CreateAnalysisRequest struct {
	Title       string                 `json:"title"`
	Goal        string                 `json:"goal,omitempty"`
	Description string                 `json:"description,omitempty"`
	Framework   string                 `json:"framework,omitempty"`
	Options     []string               `json:"options"`
	Tags        []string               `json:"tags,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

func (h *AnalysesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title required"})
		return
	}

	a := &store.Analysis{
		Title:       req.Title,
		Goal:        req.Goal,
		Description: req.Description,
		Framework:   req.Framework,
		Owner:       r.Header.Get("X-Analyst-ID"),
		Status:      store.StatusDraft,
		Options:     req.Options,
		Tags:        req.Tags,
		Metadata:    req.Metadata,
	}
	if a.Framework == "" {
		a.Framework = "swot"
	}

	if err := h.store.CreateAnalysis(r.Context(), a); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	_ = h.store.CreateAnalysisEvent(r.Context(), &store.AnalysisEvent{
		AnalysisID: a.ID,
		Event:      "created",
		AnalystID:  a.Owner,
	})

	if h.events != nil {
		_ = h.events.Publish(events.SubjectAnalysisCreated(a.ID.String()), events.AnalysisCreatedEvent{
			AnalysisID: a.ID.String(),
			Title:      a.Title,
			Goal:       a.Goal,
			Owner:      a.Owner,
			Options:    a.Options,
		})
	}

	writeJSON(w, http.StatusCreated, a)
}

func (h *AnalysesHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.AnalysisFilter{
		Owner: r.URL.Query().Get("owner"),
		Tag:   r.URL.Query().Get("tag"),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := store.AnalysisStatus(s)
		filter.Status = &status
	}

	analyses, err := h.store.ListAnalyses(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if analyses == nil {
		analyses = []*store.Analysis{}
	}
	writeJSON(w, http.StatusOK, analyses)
}

func (h *AnalysesHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, a)
}

func (h *AnalysesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid analysis id"})
		return
	}

	a, err := h.store.GetAnalysis(r.Context(), id)
	if err != nil || a == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "analysis not found"})
		return
	}

	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if v, ok := patch["title"].(string); ok && v != "" {
		a.Title = v
	}
	if v, ok := patch["goal"].(string); ok {
		a.Goal = v
	}
	if v, ok := patch["description"].(string); ok {
		a.Description = v
	}
	if v, ok := patch["status"].(string); ok {
		switch store.AnalysisStatus(v) {
		case store.StatusDraft, store.StatusActive, store.StatusArchived:
			a.Status = store.AnalysisStatus(v)
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
			return
		}
	}
	if v, ok := patch["options"].([]interface{}); ok {
		a.Options = toStrings(v)
	}
	if v, ok := patch["tags"].([]interface{}); ok {
		a.Tags = toStrings(v)
	}
	if v, ok := patch["metadata"].(map[string]interface{}); ok {
		a.Metadata = v
	}

	if err := h.store.UpdateAnalysis(r.Context(), a); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	_ = h.store.CreateAnalysisEvent(r.Context(), &store.AnalysisEvent{
		AnalysisID: a.ID,
		Event:      "updated",
		AnalystID:  r.Header.Get("X-Analyst-ID"),
	})

	if h.events != nil {
		subject := events.SubjectAnalysisUpdated(a.ID.String())
		if a.Status == store.StatusArchived {
			subject = events.SubjectAnalysisArchived(a.ID.String())
		}
		_ = h.events.Publish(subject, events.AnalysisUpdatedEvent{
			AnalysisID: a.ID.String(),
			Status:     string(a.Status),
		})
	}

	writeJSON(w, http.StatusOK, a)
}

func (h *AnalysesHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.store.DeleteAnalysis(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectAnalysisDeleted(id.String()), events.AnalysisUpdatedEvent{
			AnalysisID: id.String(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AnalysesHandler) Events(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid analysis id"})
		return
	}

	evts, err := h.store.GetAnalysisEvents(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if evts == nil {
		evts = []*store.AnalysisEvent{}
	}
	writeJSON(w, http.StatusOK, evts)
}

func toStrings(vs []interface{}) []string {
	var out []string
	for _, v := range vs {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
