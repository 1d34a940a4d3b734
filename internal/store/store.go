package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Compass/internal/scoring"
)

type AnalysisStatus string

const (
	StatusDraft    AnalysisStatus = "draft"
	StatusActive   AnalysisStatus = "active"
	StatusArchived AnalysisStatus = "archived"
)

// Analysis is one decision under evaluation: a goal, the candidate
// options, and bookkeeping. Its qualitative items live in their own
// table and are fetched separately or as a Snapshot.
type Analysis struct {
	ID          uuid.UUID `json:"analysis_id"`
	Title       string    `json:"title"`
	Goal        string    `json:"goal"`
	Description string    `json:"description,omitempty"`
	Framework   string    `json:"framework"`
	Owner       string    `json:"owner"`

	Status  AnalysisStatus `json:"status"`
	Options []string       `json:"options"`
	Tags    []string       `json:"tags,omitempty"`

	Metadata map[string]interface{} `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is one qualitative entry in an analysis. Category places it in
// one of the four lists; AppliesTo scopes it to specific options, empty
// meaning all of them.
type Item struct {
	ID         uuid.UUID          `json:"item_id"`
	AnalysisID uuid.UUID          `json:"analysis_id"`
	Category   scoring.Category   `json:"category"`
	Text       string             `json:"text"`
	Confidence scoring.Confidence `json:"confidence,omitempty"`

	EvidenceIDs []string `json:"evidence_ids,omitempty"`
	AppliesTo   []string `json:"applies_to,omitempty"`

	Position int `json:"position"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AnalysisFilter struct {
	Status *AnalysisStatus
	Owner  string
	Tag    string
	Limit  int
	Offset int
}

type AnalysisEvent struct {
	ID         uuid.UUID              `json:"id"`
	AnalysisID uuid.UUID              `json:"analysis_id"`
	Event      string                 `json:"event"`
	AnalystID  string                 `json:"analyst_id,omitempty"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

type ServiceStats struct {
	TotalDraft    int     `json:"total_draft"`
	TotalActive   int     `json:"total_active"`
	TotalArchived int     `json:"total_archived"`
	TotalItems    int     `json:"total_items"`
	AvgItemCount  float64 `json:"avg_item_count"`
}

// SnapshotFrom assembles a scoring snapshot from an analysis and its
// items, bucketing by category. Items with an unknown category are
// dropped.
func SnapshotFrom(a *Analysis, items []*Item) *scoring.Snapshot {
	snap := &scoring.Snapshot{
		Goal:    a.Goal,
		Options: a.Options,
	}
	for _, it := range items {
		ai := scoring.AnalysisItem{
			Text:        it.Text,
			Confidence:  it.Confidence,
			EvidenceIDs: it.EvidenceIDs,
			AppliesTo:   it.AppliesTo,
		}
		switch it.Category {
		case scoring.CategoryStrength:
			snap.Strengths = append(snap.Strengths, ai)
		case scoring.CategoryWeakness:
			snap.Weaknesses = append(snap.Weaknesses, ai)
		case scoring.CategoryOpportunity:
			snap.Opportunities = append(snap.Opportunities, ai)
		case scoring.CategoryThreat:
			snap.Threats = append(snap.Threats, ai)
		}
	}
	return snap
}

type Store interface {
	CreateAnalysis(ctx context.Context, a *Analysis) error
	GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error)
	ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]*Analysis, error)
	UpdateAnalysis(ctx context.Context, a *Analysis) error
	DeleteAnalysis(ctx context.Context, id uuid.UUID) error

	CreateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	ListItems(ctx context.Context, analysisID uuid.UUID) ([]*Item, error)
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error

	// GetSnapshot loads an analysis and its items as one scoring input.
	// Returns nil, nil when the analysis does not exist.
	GetSnapshot(ctx context.Context, id uuid.UUID) (*scoring.Snapshot, error)

	// ListUpdatedSince returns IDs of analyses whose own row or items
	// changed after the cutoff. The rescore sweep feeds on this.
	ListUpdatedSince(ctx context.Context, since time.Time) ([]uuid.UUID, error)

	CreateAnalysisEvent(ctx context.Context, event *AnalysisEvent) error
	GetAnalysisEvents(ctx context.Context, analysisID uuid.UUID) ([]*AnalysisEvent, error)

	GetStats(ctx context.Context) (*ServiceStats, error)

	Close() error
}
