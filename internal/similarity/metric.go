package similarity

import "fmt"

// Metric blend and position weighting constants.
// The blend is a documented, overridable baseline (see package doc); it was
// tuned against hand-labeled example clusters, not derived from first
// principles.
const (
	// editWeight and substringWeight blend the two metric components.
	editWeight      = 0.6
	substringWeight = 0.4

	// edgeZone is the number of positions at each end that receive
	// boosted edit cost.
	edgeZone = 8

	// edgeBoost is the maximum extra weight of the outermost position.
	// A mismatch on the first or last digit costs 1+edgeBoost times a
	// middle-digit mismatch.
	edgeBoost = 2.0
)

// Metric scores the similarity of two equal-length hex payloads.
// It precomputes the position weight table for one payload length, so one
// Metric instance serves a whole run.
type Metric struct {
	// minSharedRun is the minimum aligned matching-run length that earns
	// the substring bonus.
	minSharedRun int

	// weights holds the per-position edit weights.
	weights []float64

	// totalWeight is the sum of all position weights.
	totalWeight float64
}

// NewMetric creates a Metric for payloads of the given hex length.
func NewMetric(hexLength, minSharedRun int) *Metric {
	m := &Metric{
		minSharedRun: minSharedRun,
		weights:      make([]float64, hexLength),
	}
	for i := range m.weights {
		m.weights[i] = positionWeight(i, hexLength)
		m.totalWeight += m.weights[i]
	}
	return m
}

// positionWeight returns the edit cost of position i in a payload of
// length n. The weight decays linearly from 1+edgeBoost at the outermost
// positions to 1.0 outside the edge zones.
func positionWeight(i, n int) float64 {
	dist := i
	if n-1-i < dist {
		dist = n - 1 - i
	}
	if dist >= edgeZone {
		return 1.0
	}
	return 1.0 + edgeBoost*float64(edgeZone-dist)/float64(edgeZone)
}

// Score returns the composite similarity of a and b in [0,1] and a short
// description of the dominant matched pattern.
//
// Symmetry holds by construction: every term depends only on whether
// digits at the same offset match. Score(a,a) is exactly 1.0.
func (m *Metric) Score(a, b string) (float64, string) {
	if len(a) != len(b) || len(a) != len(m.weights) {
		// The normalizer guarantees equal configured lengths; anything
		// else is a programming error upstream, scored as no match.
		return 0, "length mismatch"
	}

	mismatchWeight := 0.0
	mismatches := 0
	bestRun, bestRunOffset := 0, 0
	run := 0

	for i := 0; i < len(a); i++ {
		if a[i] == b[i] {
			run++
			if run > bestRun {
				bestRun = run
				bestRunOffset = i - run + 1
			}
			continue
		}
		mismatchWeight += m.weights[i]
		mismatches++
		run = 0
	}

	editSim := 1.0 - mismatchWeight/m.totalWeight

	bonus := 0.0
	if bestRun >= m.minSharedRun {
		bonus = float64(bestRun) / float64(len(a))
	}

	score := editWeight*editSim + substringWeight*bonus
	if score > 1 {
		score = 1
	}

	return score, m.pattern(a, mismatches, bestRun, bestRunOffset)
}

// pattern describes the dominant matched structure for the near-pair export.
func (m *Metric) pattern(a string, mismatches, bestRun, bestRunOffset int) string {
	switch {
	case mismatches == 0:
		return "identical payload"
	case mismatches == 1:
		return "single hex-digit substitution"
	case bestRun >= m.minSharedRun && bestRunOffset == 0:
		return fmt.Sprintf("shared %d-char prefix", bestRun)
	case bestRun >= m.minSharedRun && bestRunOffset+bestRun == len(a):
		return fmt.Sprintf("shared %d-char suffix", bestRun)
	case bestRun >= m.minSharedRun:
		return fmt.Sprintf("shared %d-char run at offset %d", bestRun, bestRunOffset)
	default:
		return fmt.Sprintf("%d weighted digit edits", mismatches)
	}
}
