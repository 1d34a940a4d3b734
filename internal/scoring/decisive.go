package scoring

// Decisive reports whether the ranked leader needs no hedging: it is at
// least as good as the runner-up on every category dimension and strictly
// ahead on net score. A single option is trivially decisive.
func Decisive(ranked []OptionScore) bool {
	if len(ranked) < 2 {
		return true
	}
	top, runner := ranked[0], ranked[1]

	return top.Strengths.Score >= runner.Strengths.Score &&
		top.Opportunities.Score >= runner.Opportunities.Score &&
		top.Weaknesses.Score <= runner.Weaknesses.Score &&
		top.Threats.Score <= runner.Threats.Score &&
		top.NetScore > runner.NetScore
}
