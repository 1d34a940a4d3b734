package scoring

// Confidence expresses how certain the analyst is about an item's claim.
// The zero value is "unset", which scores with its own default weight
// rather than being treated as an error.
type Confidence string

const (
	ConfidenceUnset  Confidence = ""
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ParseConfidence maps a free-form string to a Confidence level.
// Anything unrecognised collapses to unset.
func ParseConfidence(s string) Confidence {
	switch Confidence(s) {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return Confidence(s)
	default:
		return ConfidenceUnset
	}
}

// Category is one of the four qualitative buckets items are sorted into.
type Category string

const (
	CategoryStrength    Category = "strength"
	CategoryWeakness    Category = "weakness"
	CategoryOpportunity Category = "opportunity"
	CategoryThreat      Category = "threat"
)

// Positive reports whether the category counts toward an option's case
// rather than against it.
func (c Category) Positive() bool {
	return c == CategoryStrength || c == CategoryOpportunity
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryStrength, CategoryWeakness, CategoryOpportunity, CategoryThreat:
		return true
	}
	return false
}

// AnalysisItem is a single qualitative claim feeding the scorer.
type AnalysisItem struct {
	Text        string     `json:"text"`
	Confidence  Confidence `json:"confidence,omitempty"`
	EvidenceIDs []string   `json:"evidence_ids,omitempty"`

	// AppliesTo restricts the item to a subset of the declared options.
	// Empty means the item applies to every option.
	AppliesTo []string `json:"applies_to,omitempty"`
}

// appliesToOption implements the inclusive default: unlabeled items apply
// everywhere, labeled items only where listed.
func (it AnalysisItem) appliesToOption(option string) bool {
	if len(it.AppliesTo) == 0 {
		return true
	}
	for _, o := range it.AppliesTo {
		if o == option {
			return true
		}
	}
	return false
}
