package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Compass/internal/scoring"
	"github.com/MikeSquared-Agency/Compass/internal/store"
)

// Mocks
type mockStore struct {
	analyses map[uuid.UUID]*store.Analysis
	items    map[uuid.UUID]*store.Item
	events   []*store.AnalysisEvent
}

func newMockStore() *mockStore {
	return &mockStore{
		analyses: make(map[uuid.UUID]*store.Analysis),
		items:    make(map[uuid.UUID]*store.Item),
	}
}
func (m *mockStore) CreateAnalysis(_ context.Context, a *store.Analysis) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.analyses[a.ID] = a
	return nil
}
func (m *mockStore) GetAnalysis(_ context.Context, id uuid.UUID) (*store.Analysis, error) {
	return m.analyses[id], nil
}
func (m *mockStore) ListAnalyses(_ context.Context, _ store.AnalysisFilter) ([]*store.Analysis, error) {
	var out []*store.Analysis
	for _, a := range m.analyses {
		out = append(out, a)
	}
	return out, nil
}
func (m *mockStore) UpdateAnalysis(_ context.Context, a *store.Analysis) error {
	m.analyses[a.ID] = a
	return nil
}
func (m *mockStore) DeleteAnalysis(_ context.Context, id uuid.UUID) error {
	delete(m.analyses, id)
	return nil
}
func (m *mockStore) CreateItem(_ context.Context, it *store.Item) error {
	it.ID = uuid.New()
	it.CreatedAt = time.Now()
	it.UpdatedAt = time.Now()
	m.items[it.ID] = it
	return nil
}
func (m *mockStore) GetItem(_ context.Context, id uuid.UUID) (*store.Item, error) {
	return m.items[id], nil
}
func (m *mockStore) ListItems(_ context.Context, analysisID uuid.UUID) ([]*store.Item, error) {
	var out []*store.Item
	for _, it := range m.items {
		if it.AnalysisID == analysisID {
			out = append(out, it)
		}
	}
	return out, nil
}
func (m *mockStore) UpdateItem(_ context.Context, it *store.Item) error {
	m.items[it.ID] = it
	return nil
}
func (m *mockStore) DeleteItem(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}
func (m *mockStore) GetSnapshot(ctx context.Context, id uuid.UUID) (*scoring.Snapshot, error) {
	a := m.analyses[id]
	if a == nil {
		return nil, nil
	}
	items, _ := m.ListItems(ctx, id)
	return store.SnapshotFrom(a, items), nil
}
func (m *mockStore) ListUpdatedSince(_ context.Context, _ time.Time) ([]uuid.UUID, error) {
	return nil, nil
}
func (m *mockStore) CreateAnalysisEvent(_ context.Context, e *store.AnalysisEvent) error {
	e.ID = uuid.New()
	m.events = append(m.events, e)
	return nil
}
func (m *mockStore) GetAnalysisEvents(_ context.Context, _ uuid.UUID) ([]*store.AnalysisEvent, error) {
	return nil, nil
}
func (m *mockStore) GetStats(_ context.Context) (*store.ServiceStats, error) {
	return &store.ServiceStats{TotalActive: 1}, nil
}
func (m *mockStore) Close() error { return nil }

type mockEvents struct{}

func (m *mockEvents) Publish(_ string, _ interface{}) error            { return nil }
func (m *mockEvents) Subscribe(_ string, _ func(string, []byte)) error { return nil }
func (m *mockEvents) Close()                                           {}

func setupTestRouter() (http.Handler, *mockStore) {
	ms := newMockStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scorer := scoring.NewScorer(scoring.DefaultPolicy(), true, logger)
	router := NewRouter(ms, &mockEvents{}, nil, scorer, "test-token", logger)
	return router, ms
}

func seedAnalysis(ms *mockStore, options []string) *store.Analysis {
	a := &store.Analysis{
		Title:   "Office Move",
		Goal:    "pick a city",
		Status:  store.StatusActive,
		Options: options,
	}
	_ = ms.CreateAnalysis(context.Background(), a)
	return a
}

func TestCreateAnalysis(t *testing.T) {
	router, _ := setupTestRouter()

	body := `{"title":"Office Move","goal":"pick a city","options":["berlin","lisbon"]}`
	req := httptest.NewRequest("POST", "/api/v1/analyses", bytes.NewBufferString(body))
	req.Header.Set("X-Analyst-ID", "test-analyst")
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var a store.Analysis
	json.NewDecoder(w.Body).Decode(&a)
	if a.Title != "Office Move" {
		t.Errorf("expected 'Office Move', got '%s'", a.Title)
	}
	if a.Owner != "test-analyst" {
		t.Errorf("expected owner from header, got '%s'", a.Owner)
	}
	if a.Framework != "swot" {
		t.Errorf("expected default framework swot, got '%s'", a.Framework)
	}
	if len(a.Options) != 2 {
		t.Errorf("expected 2 options, got %d", len(a.Options))
	}
}

func TestCreateAnalysisMissingTitle(t *testing.T) {
	router, _ := setupTestRouter()

	body := `{"goal":"no title"}`
	req := httptest.NewRequest("POST", "/api/v1/analyses", bytes.NewBufferString(body))
	req.Header.Set("X-Analyst-ID", "test-analyst")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestMissingAnalystID(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/api/v1/analyses", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestCreateItemInvalidCategory(t *testing.T) {
	router, ms := setupTestRouter()
	a := seedAnalysis(ms, []string{"berlin"})

	body := `{"category":"bonus","text":"not a real category"}`
	req := httptest.NewRequest("POST", "/api/v1/analyses/"+a.ID.String()+"/items", bytes.NewBufferString(body))
	req.Header.Set("X-Analyst-ID", "test-analyst")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCreateAndListItems(t *testing.T) {
	router, ms := setupTestRouter()
	a := seedAnalysis(ms, []string{"berlin", "lisbon"})

	body := `{"category":"strength","text":"strong talent pool","confidence":"high","applies_to":["berlin"]}`
	req := httptest.NewRequest("POST", "/api/v1/analyses/"+a.ID.String()+"/items", bytes.NewBufferString(body))
	req.Header.Set("X-Analyst-ID", "test-analyst")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created store.Item
	json.NewDecoder(w.Body).Decode(&created)
	if created.Confidence != scoring.ConfidenceHigh {
		t.Errorf("expected high confidence, got %q", created.Confidence)
	}

	req = httptest.NewRequest("GET", "/api/v1/analyses/"+a.ID.String()+"/items", nil)
	req.Header.Set("X-Analyst-ID", "test-analyst")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	var items []*store.Item
	json.NewDecoder(w.Body).Decode(&items)
	if len(items) != 1 {
		t.Errorf("expected 1 item, got %d", len(items))
	}
}

func TestRecommendation(t *testing.T) {
	router, ms := setupTestRouter()
	a := seedAnalysis(ms, []string{"berlin", "lisbon"})
	_ = ms.CreateItem(context.Background(), &store.Item{
		AnalysisID: a.ID,
		Category:   scoring.CategoryStrength,
		Text:       "strong talent pool",
		Confidence: scoring.ConfidenceHigh,
		AppliesTo:  []string{"berlin"},
	})

	req := httptest.NewRequest("GET", "/api/v1/analyses/"+a.ID.String()+"/recommendation", nil)
	req.Header.Set("X-Analyst-ID", "test-analyst")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result scoring.DecisionResult
	json.NewDecoder(w.Body).Decode(&result)
	if result.TopChoice != "berlin" {
		t.Errorf("expected berlin on top, got %s", result.TopChoice)
	}
	if len(result.Matrix) != 2 {
		t.Errorf("expected 2 matrix rows, got %d", len(result.Matrix))
	}
}

func TestRecommendationNoOptions(t *testing.T) {
	router, ms := setupTestRouter()
	a := seedAnalysis(ms, nil)

	req := httptest.NewRequest("GET", "/api/v1/analyses/"+a.ID.String()+"/recommendation", nil)
	req.Header.Set("X-Analyst-ID", "test-analyst")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for option-less analysis, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "null" {
		t.Errorf("expected null result, got %q", w.Body.String())
	}
}

func TestStatelessScore(t *testing.T) {
	router, _ := setupTestRouter()

	body := `{
		"options": ["a", "b"],
		"strengths": [{"text": "cheap", "confidence": "high", "applies_to": ["a"]}]
	}`
	req := httptest.NewRequest("POST", "/api/v1/score", bytes.NewBufferString(body))
	req.Header.Set("X-Analyst-ID", "test-analyst")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result scoring.DecisionResult
	json.NewDecoder(w.Body).Decode(&result)
	if result.TopChoice != "a" {
		t.Errorf("expected a on top, got %s", result.TopChoice)
	}
}

func TestStatelessScoreRequiresOptions(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest("POST", "/api/v1/score", bytes.NewBufferString(`{"options":[]}`))
	req.Header.Set("X-Analyst-ID", "test-analyst")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestReportEndpoint(t *testing.T) {
	router, ms := setupTestRouter()
	a := seedAnalysis(ms, []string{"berlin"})

	req := httptest.NewRequest("GET", "/api/v1/analyses/"+a.ID.String()+"/report", nil)
	req.Header.Set("X-Analyst-ID", "test-analyst")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("expected markdown content type, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), "# Office Move") {
		t.Errorf("expected report heading, got %q", w.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := NewMetricsRouter()
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestStatsRequiresAdminToken(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	req.Header.Set("X-Analyst-ID", "test-analyst")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestStatsWithToken(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	req.Header.Set("X-Analyst-ID", "test-analyst")
	req.Header.Set("Authorization", "Bearer test-token")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestDeleteAnalysis(t *testing.T) {
	router, ms := setupTestRouter()
	a := seedAnalysis(ms, []string{"berlin"})

	req := httptest.NewRequest("DELETE", "/api/v1/analyses/"+a.ID.String(), nil)
	req.Header.Set("X-Analyst-ID", "test-analyst")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if _, ok := ms.analyses[a.ID]; ok {
		t.Error("expected analysis removed from store")
	}
}
