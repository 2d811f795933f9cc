// Package classify implements cascading document classification against
// the standard taxonomy: a filename hint, embedding similarity against
// the catalog, and an LLM fallback for low-confidence documents.
package classify

// Confidence expresses how certain a classification is.
type Confidence string

// Confidence levels, weakest to strongest.
const (
	ConfidenceNone   Confidence = "none"
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

var confidenceRank = map[Confidence]int{
	ConfidenceNone:   0,
	ConfidenceLow:    1,
	ConfidenceMedium: 2,
	ConfidenceHigh:   3,
}

// AtLeast reports whether c is at least as strong as other.
func (c Confidence) AtLeast(other Confidence) bool {
	return confidenceRank[c] >= confidenceRank[other]
}

// Valid reports whether c is a known confidence level.
func (c Confidence) Valid() bool {
	_, ok := confidenceRank[c]
	return ok
}

// Tiers of the classification cascade.
const (
	TierGuard     = 0
	TierEmbedding = 2
	TierLLM       = 3
)

// Result is the outcome of classifying one document.
type Result struct {
	// StandardID is the matched catalog id, or empty when no standard
	// could be determined.
	StandardID string `json:"standard_id"`

	// Confidence qualifies the match.
	Confidence Confidence `json:"confidence"`

	// Reasoning explains how the result was reached.
	Reasoning string `json:"reasoning"`

	// Tier records which cascade stage produced the result.
	Tier int `json:"tier"`
}
