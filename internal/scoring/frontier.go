package scoring

// Frontier returns the labels of non-dominated options across the four
// category dimensions. An option is dominated if another option is >= on
// both positive dimensions, <= on both negative dimensions, and strictly
// better on at least one. O(n^2) dominance check, fine for the
// single-digit option counts this is used with.
func Frontier(scores []OptionScore) []string {
	if len(scores) == 0 {
		return nil
	}

	var frontier []string
	for i := range scores {
		dominated := false
		for j := range scores {
			if i == j {
				continue
			}
			if dominates(scores[j], scores[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, scores[i].Option)
		}
	}
	return frontier
}

// dominates returns true if a dominates b.
// Strengths and opportunities: higher is better.
// Weaknesses and threats: lower is better.
func dominates(a, b OptionScore) bool {
	if a.Strengths.Score < b.Strengths.Score ||
		a.Opportunities.Score < b.Opportunities.Score ||
		a.Weaknesses.Score > b.Weaknesses.Score ||
		a.Threats.Score > b.Threats.Score {
		return false
	}
	return a.Strengths.Score > b.Strengths.Score ||
		a.Opportunities.Score > b.Opportunities.Score ||
		a.Weaknesses.Score < b.Weaknesses.Score ||
		a.Threats.Score < b.Threats.Score
}
