package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/MikeSquared-Agency/Compass/internal/scoring"
	"github.com/MikeSquared-Agency/Compass/internal/store"
)

// MockStore implements store.Store for handler-level tests.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetItem(ctx context.Context, id uuid.UUID) (*store.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Item), args.Error(1)
}

func (m *MockStore) UpdateItem(ctx context.Context, item *store.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStore) DeleteItem(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Remaining methods are no-ops for these tests.
func (m *MockStore) CreateAnalysis(ctx context.Context, a *store.Analysis) error { return nil }
func (m *MockStore) GetAnalysis(ctx context.Context, id uuid.UUID) (*store.Analysis, error) {
	return nil, nil
}
func (m *MockStore) ListAnalyses(ctx context.Context, filter store.AnalysisFilter) ([]*store.Analysis, error) {
	return nil, nil
}
func (m *MockStore) UpdateAnalysis(ctx context.Context, a *store.Analysis) error { return nil }
func (m *MockStore) DeleteAnalysis(ctx context.Context, id uuid.UUID) error      { return nil }
func (m *MockStore) CreateItem(ctx context.Context, item *store.Item) error      { return nil }
func (m *MockStore) ListItems(ctx context.Context, analysisID uuid.UUID) ([]*store.Item, error) {
	return nil, nil
}
func (m *MockStore) GetSnapshot(ctx context.Context, id uuid.UUID) (*scoring.Snapshot, error) {
	return nil, nil
}
func (m *MockStore) ListUpdatedSince(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	return nil, nil
}
func (m *MockStore) CreateAnalysisEvent(ctx context.Context, event *store.AnalysisEvent) error {
	return nil
}
func (m *MockStore) GetAnalysisEvents(ctx context.Context, analysisID uuid.UUID) ([]*store.AnalysisEvent, error) {
	return nil, nil
}
func (m *MockStore) GetStats(ctx context.Context) (*store.ServiceStats, error) { return nil, nil }
func (m *MockStore) Close() error                                              { return nil }

func itemRequest(method, path, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	req.Header.Set("X-Analyst-ID", "test-analyst")
	return req
}

func TestUpdateItemConfidence(t *testing.T) {
	ms := new(MockStore)
	h := NewItemsHandler(ms, nil)

	analysisID := uuid.New()
	itemID := uuid.New()
	existing := &store.Item{
		ID:         itemID,
		AnalysisID: analysisID,
		Category:   scoring.CategoryStrength,
		Text:       "talent pool",
		Confidence: scoring.ConfidenceLow,
	}

	ms.On("GetItem", mock.Anything, itemID).Return(existing, nil)
	ms.On("UpdateItem", mock.Anything, mock.MatchedBy(func(it *store.Item) bool {
		return it.Confidence == scoring.ConfidenceHigh
	})).Return(nil)

	r := chi.NewRouter()
	r.Patch("/analyses/{id}/items/{item_id}", h.Update)

	req := itemRequest("PATCH",
		"/analyses/"+analysisID.String()+"/items/"+itemID.String(),
		`{"confidence":"high"}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	ms.AssertExpectations(t)
}

func TestUpdateItemRejectsBadCategory(t *testing.T) {
	ms := new(MockStore)
	h := NewItemsHandler(ms, nil)

	itemID := uuid.New()
	existing := &store.Item{
		ID:       itemID,
		Category: scoring.CategoryThreat,
		Text:     "churn risk",
	}
	ms.On("GetItem", mock.Anything, itemID).Return(existing, nil)

	r := chi.NewRouter()
	r.Patch("/items/{item_id}", h.Update)

	req := itemRequest("PATCH", "/items/"+itemID.String(), `{"category":"advantage"}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	ms.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything)
}

func TestDeleteItemNotFound(t *testing.T) {
	ms := new(MockStore)
	h := NewItemsHandler(ms, nil)

	itemID := uuid.New()
	ms.On("GetItem", mock.Anything, itemID).Return(nil, nil)

	r := chi.NewRouter()
	r.Delete("/items/{item_id}", h.Delete)

	req := itemRequest("DELETE", "/items/"+itemID.String(), "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	ms.AssertNotCalled(t, "DeleteItem", mock.Anything, mock.Anything)
}
