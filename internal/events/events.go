package events

import (
	"time"

	"github.com/MikeSquared-Agency/Compass/internal/scoring"
)

type AnalysisCreatedEvent struct {
	AnalysisID string   `json:"analysis_id"`
	Title      string   `json:"title"`
	Goal       string   `json:"goal,omitempty"`
	Owner      string   `json:"owner"`
	Options    []string `json:"options"`
}

type AnalysisUpdatedEvent struct {
	AnalysisID string `json:"analysis_id"`
	Status     string `json:"status,omitempty"`
}

type ItemChangedEvent struct {
	AnalysisID string `json:"analysis_id"`
	ItemID     string `json:"item_id"`
	Category   string `json:"category"`
}

// ScoreUpdatedEvent carries a freshly computed ranking. The result is
// the whole payload; nothing is written back to the store.
type ScoreUpdatedEvent struct {
	AnalysisID string                  `json:"analysis_id"`
	Result     *scoring.DecisionResult `json:"result"`
	ComputedAt time.Time               `json:"computed_at"`
}

// StatsEvent carries service totals, published after each sweep that
// rescored at least one analysis.
type StatsEvent struct {
	Draft      int       `json:"draft"`
	Active     int       `json:"active"`
	Archived   int       `json:"archived"`
	TotalItems int       `json:"total_items"`
	Timestamp  time.Time `json:"timestamp"`
}
