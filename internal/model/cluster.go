package model

// Cluster is a set of two or more addresses connected transitively by
// near pairs at or above the similarity threshold.
//
// Clusters are built once per run and immutable afterward. The ID is
// assigned after sorting clusters by descending aggregate score, ties broken
// by ascending lowest member value, so IDs are stable across runs.
type Cluster struct {
	// ID is the 1-based rank of the cluster in the report ordering.
	ID int `json:"id"`

	// Members lists the canonical address values, sorted ascending.
	Members []string `json:"members"`

	// Score is the aggregate suspicion score in [0,1]: a weighted
	// combination of the maximum member vanity score and the internal
	// edge density.
	Score float64 `json:"score"`

	// MaxVanity is the highest vanity score among members.
	MaxVanity float64 `json:"max_vanity"`

	// Density is actual near pairs within the cluster divided by
	// possible pairs (k*(k-1)/2 for k members).
	Density float64 `json:"density"`

	// PairCount is the number of near pairs internal to the cluster.
	PairCount int `json:"pair_count"`
}

// Size returns the number of member addresses.
func (c *Cluster) Size() int {
	return len(c.Members)
}

// Key returns the lowest member value. It identifies the cluster across
// runs more stably than the rank-based ID and is used by run comparison.
func (c *Cluster) Key() string {
	if len(c.Members) == 0 {
		return ""
	}
	return c.Members[0]
}
