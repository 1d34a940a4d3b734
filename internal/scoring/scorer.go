package scoring

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
)

// Snapshot is the full input to one scoring run: the declared options plus
// the four category lists. The scorer never mutates it.
type Snapshot struct {
	Goal          string         `json:"goal,omitempty"`
	Options       []string       `json:"options"`
	Strengths     []AnalysisItem `json:"strengths,omitempty"`
	Weaknesses    []AnalysisItem `json:"weaknesses,omitempty"`
	Opportunities []AnalysisItem `json:"opportunities,omitempty"`
	Threats       []AnalysisItem `json:"threats,omitempty"`
}

// CategoryScore is one category's aggregate for a single option.
type CategoryScore struct {
	Score float64 `json:"score"`
	Count int     `json:"count"`
}

// Recommendation is the qualitative tier derived from an option's scores.
type Recommendation string

const (
	HighlyRecommended Recommendation = "highly_recommended"
	Recommended       Recommendation = "recommended"
	Viable            Recommendation = "viable"
	NotRecommended    Recommendation = "not_recommended"
)

// OptionScore is the complete scoring output for one option. Recomputed
// fully on every run; never persisted or mutated incrementally.
type OptionScore struct {
	Option        string        `json:"option"`
	Strengths     CategoryScore `json:"strengths"`
	Weaknesses    CategoryScore `json:"weaknesses"`
	Opportunities CategoryScore `json:"opportunities"`
	Threats       CategoryScore `json:"threats"`

	TotalPositive float64 `json:"total_positive"`
	TotalNegative float64 `json:"total_negative"`
	NetScore      float64 `json:"net_score"`

	// ConfidenceScore is the secondary confidence/evidence metric. It is
	// exposed for consumers but never participates in ranking.
	ConfidenceScore float64 `json:"confidence_score"`

	Recommendation Recommendation `json:"recommendation"`
	Reasoning      []string       `json:"reasoning"`
}

// MatrixRow is one option's row in the comparison matrix, every score
// rounded to one decimal place.
type MatrixRow struct {
	Option        string  `json:"option"`
	Strengths     float64 `json:"strengths"`
	Weaknesses    float64 `json:"weaknesses"`
	Opportunities float64 `json:"opportunities"`
	Threats       float64 `json:"threats"`
	NetScore      float64 `json:"net_score"`
}

// DecisionResult is the ranked outcome of one scoring run. It exists only
// for the duration of a single evaluation; callers recompute whenever the
// source data changes.
type DecisionResult struct {
	Goal      string        `json:"goal,omitempty"`
	TopChoice string        `json:"top_choice"`
	Options   []OptionScore `json:"options"`
	Matrix    []MatrixRow   `json:"comparison_matrix"`
	Frontier  []string      `json:"frontier,omitempty"`
	Decisive  bool          `json:"decisive"`
	Reasoning []string      `json:"reasoning"`
}

// Scorer ranks a set of options from categorized qualitative items.
// Pure and re-entrant: no I/O, no shared state, safe for concurrent use.
type Scorer struct {
	policy          Policy
	frontierEnabled bool
	logger          *slog.Logger
}

// NewScorer creates a Scorer with the given policy and configuration.
func NewScorer(policy Policy, frontierEnabled bool, logger *slog.Logger) *Scorer {
	return &Scorer{policy: policy, frontierEnabled: frontierEnabled, logger: logger}
}

// Evaluate scores every declared option and assembles the ranked result.
// An empty options list is a deliberate no-op and returns nil, not an
// error. Malformed items (empty text) contribute zero rather than
// failing the batch.
func (s *Scorer) Evaluate(snap *Snapshot) *DecisionResult {
	if snap == nil || len(snap.Options) == 0 {
		return nil
	}

	scores := make([]OptionScore, 0, len(snap.Options))
	for _, opt := range snap.Options {
		scores = append(scores, s.scoreOption(opt, snap))
	}
	rank(scores)

	result := &DecisionResult{
		Goal:      snap.Goal,
		TopChoice: scores[0].Option,
		Options:   scores,
		Matrix:    buildMatrix(scores),
		Decisive:  Decisive(scores),
		Reasoning: s.overallReasoning(scores),
	}
	if s.frontierEnabled {
		result.Frontier = Frontier(scores)
	}

	if s.logger != nil {
		s.logger.Debug("decision scored",
			"options", len(scores),
			"top_choice", result.TopChoice,
			"net_score", scores[0].NetScore,
			"recommendation", scores[0].Recommendation,
		)
	}
	return result
}

// rank sorts descending by net score. The sort is stable, so options with
// identical net scores keep their input order; there is deliberately no
// secondary sort key.
func rank(scores []OptionScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].NetScore > scores[j].NetScore
	})
}

func (s *Scorer) scoreOption(option string, snap *Snapshot) OptionScore {
	os := OptionScore{
		Option:        option,
		Strengths:     s.scoreCategory(option, snap.Strengths),
		Weaknesses:    s.scoreCategory(option, snap.Weaknesses),
		Opportunities: s.scoreCategory(option, snap.Opportunities),
		Threats:       s.scoreCategory(option, snap.Threats),
	}

	os.TotalPositive = os.Strengths.Score + os.Opportunities.Score
	os.TotalNegative = os.Weaknesses.Score + os.Threats.Score
	os.NetScore = s.policy.PositiveMultiplier*os.TotalPositive -
		s.policy.NegativeMultiplier*os.TotalNegative

	highCount, evidenceCount := s.secondaryCounts(option, snap)
	os.ConfidenceScore = float64(highCount)*s.policy.HighConfidenceCredit +
		float64(evidenceCount)*s.policy.EvidenceCredit

	os.Recommendation = s.recommend(os.NetScore, os.TotalPositive, os.TotalNegative)
	os.Reasoning = s.optionReasoning(os, evidenceCount)
	return os
}

// scoreCategory sums per-item contributions over the items applicable to
// the option. Items without text are skipped entirely.
func (s *Scorer) scoreCategory(option string, items []AnalysisItem) CategoryScore {
	var cs CategoryScore
	for _, it := range items {
		if it.Text == "" || !it.appliesToOption(option) {
			continue
		}
		cs.Score += s.contribution(it)
		cs.Count++
	}
	return cs
}

// contribution is the per-item weight: confidence weight plus the
// evidence bonus per citation, uncapped.
func (s *Scorer) contribution(it AnalysisItem) float64 {
	return s.policy.ConfidenceWeight(it.Confidence) +
		s.policy.EvidenceBonus*float64(len(it.EvidenceIDs))
}

// secondaryCounts tallies high-confidence items and evidence citations
// across all four categories' applicable items.
func (s *Scorer) secondaryCounts(option string, snap *Snapshot) (highCount, evidenceCount int) {
	for _, items := range [][]AnalysisItem{snap.Strengths, snap.Weaknesses, snap.Opportunities, snap.Threats} {
		for _, it := range items {
			if it.Text == "" || !it.appliesToOption(option) {
				continue
			}
			if it.Confidence == ConfidenceHigh {
				highCount++
			}
			evidenceCount += len(it.EvidenceIDs)
		}
	}
	return highCount, evidenceCount
}

// recommend maps the aggregates to a tier. Ordered, first match wins.
func (s *Scorer) recommend(net, totalPositive, totalNegative float64) Recommendation {
	switch {
	case net > s.policy.HighlyRecommendedNet && totalPositive > totalNegative*2:
		return HighlyRecommended
	case net > s.policy.RecommendedNet && totalPositive > totalNegative:
		return Recommended
	case net > s.policy.ViableNet:
		return Viable
	default:
		return NotRecommended
	}
}

func (s *Scorer) optionReasoning(os OptionScore, evidenceCount int) []string {
	lines := []string{
		fmt.Sprintf("%d strengths identified (score: %.1f)", os.Strengths.Count, os.Strengths.Score),
		fmt.Sprintf("%d weaknesses identified (score: %.1f)", os.Weaknesses.Count, os.Weaknesses.Score),
		fmt.Sprintf("%d opportunities identified (score: %.1f)", os.Opportunities.Count, os.Opportunities.Score),
		fmt.Sprintf("%d threats identified (score: %.1f)", os.Threats.Count, os.Threats.Score),
	}
	if os.TotalPositive > 1.5*os.TotalNegative {
		lines = append(lines, "Strong positive outlook")
	} else if os.TotalNegative > 1.5*os.TotalPositive {
		lines = append(lines, "Challenging factors outweigh positives")
	}
	if evidenceCount > 5 {
		lines = append(lines, fmt.Sprintf("Well evidenced: %d supporting citations", evidenceCount))
	}
	return lines
}

// overallReasoning compares the top two ranked options: a leader
// announcement phrased per tier, a margin remark, and up to three
// differentiator call-outs folded into one sentence.
func (s *Scorer) overallReasoning(ranked []OptionScore) []string {
	top := ranked[0]

	var lines []string
	switch top.Recommendation {
	case HighlyRecommended:
		lines = append(lines, fmt.Sprintf("%s is the clear front-runner (net score %.1f).", top.Option, top.NetScore))
	case Recommended:
		lines = append(lines, fmt.Sprintf("%s leads the field (net score %.1f).", top.Option, top.NetScore))
	case Viable:
		lines = append(lines, fmt.Sprintf("%s ranks first, though the case for it is modest (net score %.1f).", top.Option, top.NetScore))
	default:
		lines = append(lines, fmt.Sprintf("%s ranks first, but no option scores well (net score %.1f).", top.Option, top.NetScore))
	}

	if len(ranked) < 2 {
		return lines
	}
	runner := ranked[1]

	margin := top.NetScore - runner.NetScore
	if margin < 1 {
		lines = append(lines, fmt.Sprintf("Close competition: %s trails by only %.1f points.", runner.Option, round1(margin)))
	} else {
		lines = append(lines, fmt.Sprintf("%s leads %s by %.1f points.", top.Option, runner.Option, round1(margin)))
	}

	var callouts []string
	if top.Strengths.Score > 1.5*runner.Strengths.Score && top.Strengths.Score > 0 {
		callouts = append(callouts, fmt.Sprintf("markedly stronger strengths (%.1f vs %.1f)", top.Strengths.Score, runner.Strengths.Score))
	}
	if top.Opportunities.Score > 1.5*runner.Opportunities.Score && top.Opportunities.Score > 0 {
		callouts = append(callouts, fmt.Sprintf("greater opportunity upside (%.1f vs %.1f)", top.Opportunities.Score, runner.Opportunities.Score))
	}
	if top.Threats.Score < 0.7*runner.Threats.Score {
		callouts = append(callouts, fmt.Sprintf("a lighter threat profile (%.1f vs %.1f)", top.Threats.Score, runner.Threats.Score))
	}
	if len(callouts) > 0 {
		lines = append(lines, fmt.Sprintf("What sets %s apart: %s.", top.Option, joinClauses(callouts)))
	}
	return lines
}

func buildMatrix(ranked []OptionScore) []MatrixRow {
	rows := make([]MatrixRow, 0, len(ranked))
	for _, os := range ranked {
		rows = append(rows, MatrixRow{
			Option:        os.Option,
			Strengths:     round1(os.Strengths.Score),
			Weaknesses:    round1(os.Weaknesses.Score),
			Opportunities: round1(os.Opportunities.Score),
			Threats:       round1(os.Threats.Score),
			NetScore:      round1(os.NetScore),
		})
	}
	return rows
}

// round1 rounds to one decimal place, half away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func joinClauses(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return parts[0] + ", " + parts[1] + ", and " + parts[2]
	}
}
