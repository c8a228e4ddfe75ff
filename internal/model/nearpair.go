package model

// NearPair links two distinct addresses whose similarity score reached the
// active threshold. Pairs are unordered but stored canonically with A < B
// (lexicographic on the hex value) so that the pair set is identical across
// runs regardless of internal iteration order.
//
// NearPair values are created by the similarity engine and are immutable.
// The cluster builder references them, it does not own them.
type NearPair struct {
	// A is the lexicographically smaller address value.
	A string `json:"a"`

	// B is the lexicographically larger address value.
	B string `json:"b"`

	// AIndex and BIndex are the arena indexes of A and B.
	AIndex int `json:"-"`
	BIndex int `json:"-"`

	// Score is the composite similarity in [0,1].
	Score float64 `json:"score"`

	// Pattern describes the dominant matched structure, e.g.
	// "single hex-digit substitution" or "shared 32-char run at offset 4".
	Pattern string `json:"pattern"`
}
