package scoring

import "testing"

func opt(label string, s, w, o, t float64) OptionScore {
	return OptionScore{
		Option:        label,
		Strengths:     CategoryScore{Score: s},
		Weaknesses:    CategoryScore{Score: w},
		Opportunities: CategoryScore{Score: o},
		Threats:       CategoryScore{Score: t},
	}
}

func TestFrontierEmpty(t *testing.T) {
	if got := Frontier(nil); got != nil {
		t.Errorf("expected nil frontier, got %v", got)
	}
}

func TestFrontierSingle(t *testing.T) {
	got := Frontier([]OptionScore{opt("solo", 1, 1, 1, 1)})
	if len(got) != 1 || got[0] != "solo" {
		t.Errorf("single option must be on the frontier, got %v", got)
	}
}

func TestFrontierDominated(t *testing.T) {
	scores := []OptionScore{
		opt("better", 3, 0.5, 2, 0.5),
		opt("worse", 1, 2, 1, 2),
	}
	got := Frontier(scores)
	if len(got) != 1 || got[0] != "better" {
		t.Errorf("expected only the dominating option, got %v", got)
	}
}

func TestFrontierTradeoff(t *testing.T) {
	// High upside with high risk vs modest upside with low risk: neither
	// dominates, both stay.
	scores := []OptionScore{
		opt("bold", 4, 1, 3, 3),
		opt("safe", 2, 0.5, 1, 0.5),
	}
	got := Frontier(scores)
	if len(got) != 2 {
		t.Errorf("expected both trade-off options on the frontier, got %v", got)
	}
}

func TestFrontierEqualScores(t *testing.T) {
	// Identical options do not dominate each other.
	scores := []OptionScore{
		opt("a", 2, 1, 2, 1),
		opt("b", 2, 1, 2, 1),
	}
	got := Frontier(scores)
	if len(got) != 2 {
		t.Errorf("equal options must both survive, got %v", got)
	}
}

func TestDecisiveSingleOption(t *testing.T) {
	if !Decisive([]OptionScore{opt("solo", 1, 1, 1, 1)}) {
		t.Error("single option should be decisive")
	}
}

func TestDecisiveClearWinner(t *testing.T) {
	top := opt("top", 3, 0.5, 2, 0.5)
	top.NetScore = 8.5
	runner := opt("runner", 1, 2, 1, 2)
	runner.NetScore = -2
	if !Decisive([]OptionScore{top, runner}) {
		t.Error("expected decisive when leader dominates on every dimension")
	}
}

func TestDecisiveTradeoff(t *testing.T) {
	// Leader wins on net but carries the heavier threat load.
	top := opt("top", 4, 1, 3, 3)
	top.NetScore = 8
	runner := opt("runner", 2, 0.5, 1, 0.5)
	runner.NetScore = 4.5
	if Decisive([]OptionScore{top, runner}) {
		t.Error("expected not decisive when runner-up is better on a dimension")
	}
}

func TestDecisiveTiedNet(t *testing.T) {
	top := opt("top", 2, 1, 2, 1)
	top.NetScore = 3.5
	runner := opt("runner", 2, 1, 2, 1)
	runner.NetScore = 3.5
	if Decisive([]OptionScore{top, runner}) {
		t.Error("a tie on net score is never decisive")
	}
}
