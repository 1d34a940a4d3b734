package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Compass/internal/events"
	"github.com/MikeSquared-Agency/Compass/internal/scoring"
	"github.com/MikeSquared-Agency/Compass/internal/store"
)

type ItemsHandler struct {
	store  store.Store
	events events.Client
}

func NewItemsHandler(s store.Store, ev events.Client) *ItemsHandler {
	return &ItemsHandler{store: s, events: ev}
}

type CreateItemRequest struct {
	Category    string   `json:"category"`
	Text        string   `json:"text"`
	Confidence  string   `json:"confidence,omitempty"`
	EvidenceIDs []string `json:"evidence_ids,omitempty"`
	AppliesTo   []string `json:"applies_to,omitempty"`
	Position    int      `json:"position,omitempty"`
}

func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	analysisID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid analysis id"})
		return
	}

	a, err := h.store.GetAnalysis(r.Context(), analysisID)
	if err != nil || a == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "analysis not found"})
		return
	}

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	category := scoring.Category(req.Category)
	if !category.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category must be strength, weakness, opportunity, or threat"})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text required"})
		return
	}

	item := &store.Item{
		AnalysisID:  analysisID,
		Category:    category,
		Text:        req.Text,
		Confidence:  scoring.ParseConfidence(req.Confidence),
		EvidenceIDs: req.EvidenceIDs,
		AppliesTo:   req.AppliesTo,
		Position:    req.Position,
	}

	if err := h.store.CreateItem(r.Context(), item); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectItemAdded(analysisID.String()), events.ItemChangedEvent{
			AnalysisID: analysisID.String(),
			ItemID:     item.ID.String(),
			Category:   string(item.Category),
		})
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	analysisID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid analysis id"})
		return
	}

	items, err := h.store.ListItems(r.Context(), analysisID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if items == nil {
		items = []*store.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "item_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}

	item, err := h.store.GetItem(r.Context(), itemID)
	if err != nil || item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if v, ok := patch["category"].(string); ok {
		category := scoring.Category(v)
		if !category.Valid() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category"})
			return
		}
		item.Category = category
	}
	if v, ok := patch["text"].(string); ok {
		item.Text = v
	}
	if v, ok := patch["confidence"].(string); ok {
		item.Confidence = scoring.ParseConfidence(v)
	}
	if v, ok := patch["evidence_ids"].([]interface{}); ok {
		item.EvidenceIDs = toStrings(v)
	}
	if v, ok := patch["applies_to"].([]interface{}); ok {
		item.AppliesTo = toStrings(v)
	}
	if v, ok := patch["position"].(float64); ok {
		item.Position = int(v)
	}

	if err := h.store.UpdateItem(r.Context(), item); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectItemUpdated(item.AnalysisID.String()), events.ItemChangedEvent{
			AnalysisID: item.AnalysisID.String(),
			ItemID:     item.ID.String(),
			Category:   string(item.Category),
		})
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "item_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}

	item, err := h.store.GetItem(r.Context(), itemID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	if err := h.store.DeleteItem(r.Context(), itemID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectItemRemoved(item.AnalysisID.String()), events.ItemChangedEvent{
			AnalysisID: item.AnalysisID.String(),
			ItemID:     itemID.String(),
			Category:   string(item.Category),
		})
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
