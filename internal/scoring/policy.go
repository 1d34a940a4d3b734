package scoring

import "fmt"

// Policy gathers every constant the scoring algorithm uses so the policy
// is auditable and swappable without touching control flow. The defaults
// are domain-tuned values carried over as-is, not derived.
type Policy struct {
	// Per-item confidence weights.
	ConfidenceHigh   float64
	ConfidenceMedium float64
	ConfidenceLow    float64
	ConfidenceUnset  float64

	// Credit per supporting citation on an item. Uncapped: a heavily
	// cited item may exceed weight 1.0, which is intentional emphasis.
	EvidenceBonus float64

	// Net score multipliers. Positive factors are weighted higher than
	// negative ones, an optimism bias the policy deliberately encodes.
	PositiveMultiplier float64
	NegativeMultiplier float64

	// Recommendation tier cutoffs on the net score.
	HighlyRecommendedNet float64
	RecommendedNet       float64
	ViableNet            float64

	// Secondary confidence/evidence score weights. Informational only,
	// never part of ranking.
	HighConfidenceCredit float64
	EvidenceCredit       float64
}

// DefaultPolicy returns the standard scoring policy.
func DefaultPolicy() Policy {
	return Policy{
		ConfidenceHigh:       1.0,
		ConfidenceMedium:     0.7,
		ConfidenceLow:        0.4,
		ConfidenceUnset:      0.5,
		EvidenceBonus:        0.15,
		PositiveMultiplier:   2.0,
		NegativeMultiplier:   1.5,
		HighlyRecommendedNet: 5.0,
		RecommendedNet:       2.0,
		ViableNet:            -2.0,
		HighConfidenceCredit: 0.3,
		EvidenceCredit:       0.1,
	}
}

// ConfidenceWeight maps a confidence level to its per-item weight.
func (p Policy) ConfidenceWeight(c Confidence) float64 {
	switch c {
	case ConfidenceHigh:
		return p.ConfidenceHigh
	case ConfidenceMedium:
		return p.ConfidenceMedium
	case ConfidenceLow:
		return p.ConfidenceLow
	default:
		return p.ConfidenceUnset
	}
}

// Validate checks the policy is internally consistent: weights ordered,
// multipliers positive, tier cutoffs strictly descending.
func (p Policy) Validate() error {
	for _, v := range []float64{
		p.ConfidenceHigh, p.ConfidenceMedium, p.ConfidenceLow, p.ConfidenceUnset,
		p.EvidenceBonus, p.HighConfidenceCredit, p.EvidenceCredit,
	} {
		if v < 0 {
			return fmt.Errorf("negative policy weight: %f", v)
		}
	}
	if p.ConfidenceHigh < p.ConfidenceMedium || p.ConfidenceMedium < p.ConfidenceLow {
		return fmt.Errorf("confidence weights not ordered: high=%.2f medium=%.2f low=%.2f",
			p.ConfidenceHigh, p.ConfidenceMedium, p.ConfidenceLow)
	}
	if p.PositiveMultiplier <= 0 || p.NegativeMultiplier <= 0 {
		return fmt.Errorf("multipliers must be positive: positive=%.2f negative=%.2f",
			p.PositiveMultiplier, p.NegativeMultiplier)
	}
	if p.HighlyRecommendedNet <= p.RecommendedNet || p.RecommendedNet <= p.ViableNet {
		return fmt.Errorf("tier cutoffs not descending: %.1f / %.1f / %.1f",
			p.HighlyRecommendedNet, p.RecommendedNet, p.ViableNet)
	}
	return nil
}
