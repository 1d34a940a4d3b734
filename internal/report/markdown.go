package report

import (
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/Compass/internal/scoring"
)

// Markdown renders a scored decision as a self-contained markdown
// document. A nil result (no options declared) still yields a valid
// document stating that.
func Markdown(title string, res *scoring.DecisionResult) string {
	var b strings.Builder

	heading := title
	if heading == "" {
		heading = "Decision Report"
	}
	fmt.Fprintf(&b, "# %s\n\n", heading)

	if res == nil {
		b.WriteString("No options have been declared for this analysis, so there is nothing to rank yet.\n")
		return b.String()
	}

	if res.Goal != "" {
		fmt.Fprintf(&b, "**Goal:** %s\n\n", res.Goal)
	}
	fmt.Fprintf(&b, "**Top choice:** %s\n\n", res.TopChoice)

	if len(res.Reasoning) > 0 {
		b.WriteString("## Summary\n\n")
		for _, line := range res.Reasoning {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Comparison Matrix\n\n")
	b.WriteString("| Option | Strengths | Weaknesses | Opportunities | Threats | Net Score |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, row := range res.Matrix {
		fmt.Fprintf(&b, "| %s | %.1f | %.1f | %.1f | %.1f | %.1f |\n",
			row.Option, row.Strengths, row.Weaknesses, row.Opportunities, row.Threats, row.NetScore)
	}
	b.WriteString("\n")

	b.WriteString("## Options\n\n")
	for _, os := range res.Options {
		fmt.Fprintf(&b, "### %s\n\n", os.Option)
		fmt.Fprintf(&b, "- Recommendation: %s\n", formatRecommendation(os.Recommendation))
		fmt.Fprintf(&b, "- Net score: %.1f (positive %.1f, negative %.1f)\n",
			os.NetScore, os.TotalPositive, os.TotalNegative)
		fmt.Fprintf(&b, "- Confidence score: %.1f\n", os.ConfidenceScore)
		for _, line := range os.Reasoning {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}

	if len(res.Frontier) > 0 {
		b.WriteString("## Frontier\n\n")
		fmt.Fprintf(&b, "Options worth keeping on the table: %s.\n\n", strings.Join(res.Frontier, ", "))
	}

	if res.Decisive {
		b.WriteString("The ranking is decisive: the leader concedes nothing to the runner-up on any dimension.\n")
	} else if len(res.Options) > 1 {
		b.WriteString("The ranking involves trade-offs: the runner-up beats the leader on at least one dimension.\n")
	}

	return b.String()
}

func formatRecommendation(r scoring.Recommendation) string {
	switch r {
	case scoring.HighlyRecommended:
		return "Highly Recommended"
	case scoring.Recommended:
		return "Recommended"
	case scoring.Viable:
		return "Viable"
	default:
		return "Not Recommended"
	}
}
