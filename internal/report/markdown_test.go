package report

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/Compass/internal/scoring"
)

func TestMarkdownNilResult(t *testing.T) {
	out := Markdown("Vendor Selection", nil)
	if !strings.HasPrefix(out, "# Vendor Selection") {
		t.Errorf("expected title heading, got %q", out)
	}
	if !strings.Contains(out, "No options") {
		t.Error("expected a no-options notice")
	}
}

func TestMarkdownDefaultTitle(t *testing.T) {
	out := Markdown("", nil)
	if !strings.HasPrefix(out, "# Decision Report") {
		t.Errorf("expected fallback heading, got %q", out)
	}
}

func TestMarkdownFullReport(t *testing.T) {
	scorer := scoring.NewScorer(scoring.DefaultPolicy(), true, slog.New(slog.NewTextHandler(io.Discard, nil)))
	res := scorer.Evaluate(&scoring.Snapshot{
		Goal:    "pick a venue",
		Options: []string{"downtown", "suburb"},
		Strengths: []scoring.AnalysisItem{
			{Text: "foot traffic", Confidence: scoring.ConfidenceHigh, AppliesTo: []string{"downtown"}},
			{Text: "cheap lease", Confidence: scoring.ConfidenceLow, AppliesTo: []string{"suburb"}},
		},
		Threats: []scoring.AnalysisItem{
			{Text: "rising rent", AppliesTo: []string{"downtown"}},
		},
	})
	if res == nil {
		t.Fatal("expected a result")
	}

	out := Markdown("Venue", res)
	for _, want := range []string{
		"# Venue",
		"**Goal:** pick a venue",
		"**Top choice:**",
		"## Comparison Matrix",
		"| Option | Strengths | Weaknesses | Opportunities | Threats | Net Score |",
		"## Options",
		"### downtown",
		"### suburb",
		"Recommendation:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}

	// One matrix row per option.
	if got := strings.Count(out, "| downtown |")+strings.Count(out, "| suburb |"); got != 2 {
		t.Errorf("expected 2 matrix rows, got %d", got)
	}
}
