package model

// Vanity feature names used in VanityScore breakdowns.
// The scorer guarantees that every breakdown contains exactly these keys.
const (
	// FeatureRepeatRun scores the longest run of one identical hex digit.
	FeatureRepeatRun = "repeat_run"
	// FeaturePatternRun scores the longest tandem repeat of a short motif.
	FeaturePatternRun = "pattern_run"
	// FeatureZeroEdges scores all-zero segments at the start or end.
	FeatureZeroEdges = "zero_edges"
	// FeatureDiversity scores low symbol diversity (few distinct digits).
	FeatureDiversity = "diversity"
	// FeatureEntropy scores low Shannon entropy of the nibble distribution.
	FeatureEntropy = "entropy"
	// FeatureEdgeRun scores repeated-digit runs at the start or end,
	// regardless of which digit repeats.
	FeatureEdgeRun = "edge_run"
)

// FeatureNames lists all vanity features in their fixed evaluation order.
// The order is load-bearing: dominant-feature ties resolve to the earliest
// name so that reports are reproducible.
var FeatureNames = []string{
	FeatureRepeatRun,
	FeaturePatternRun,
	FeatureZeroEdges,
	FeatureDiversity,
	FeatureEntropy,
	FeatureEdgeRun,
}

// VanityScore is the per-address structural anomaly score.
// It is a pure function of the address value: the same input always yields
// the same VanityScore, which the report reproducibility tests rely on.
type VanityScore struct {
	// Address is the canonical hex value the score belongs to.
	Address string `json:"address"`

	// Score is the weighted combination of all sub-scores, in [0,1].
	Score float64 `json:"score"`

	// Dominant is the feature name contributing the highest sub-score.
	Dominant string `json:"dominant"`

	// Breakdown maps feature name to its sub-score in [0,1].
	Breakdown map[string]float64 `json:"breakdown"`

	// Entropy is the raw Shannon entropy in bits per nibble (max 4.0).
	Entropy float64 `json:"entropy"`

	// Palindrome is true if the payload reads the same in both directions.
	// Recorded as a flag rather than a weighted feature: palindromes are
	// rare enough that a binary signal would dominate the weighted sum.
	Palindrome bool `json:"palindrome"`

	// Prefix and Suffix are the first and last four hex digits, kept for
	// the summary's collision tables.
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
}
