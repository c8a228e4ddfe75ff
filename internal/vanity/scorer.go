package vanity

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/sybilglass/internal/model"
)

// Normalization constants for the sub-scores.
// They saturate each feature where the underlying signal stops being
// informative: an 8-digit run is already astronomically unlikely at random,
// so longer runs do not make an address more suspicious.
const (
	// runSaturation is the identical-digit run length scoring 1.0.
	runSaturation = 8

	// patternSaturation is the tandem-repeat region length scoring 1.0.
	patternSaturation = 16

	// edgeSaturation is the combined edge-run length scoring 1.0.
	edgeSaturation = 16

	// maxEntropyBits is the maximum Shannon entropy in bits per nibble.
	maxEntropyBits = 4.0

	// entropySpan maps entropy below maxEntropyBits onto [0,1].
	// Random 40-digit payloads sit near 3.6 bits, scoring about 0.13;
	// anything below one bit saturates at 1.0.
	entropySpan = 3.0

	// minMotif and maxMotif bound the tandem-repeat motif length.
	minMotif = 2
	maxMotif = 4

	// edgeSegment is the prefix/suffix length kept for collision tables.
	edgeSegment = 4
)

// Scorer computes vanity scores with a fixed weight configuration.
// The zero value is not usable; construct with New.
type Scorer struct {
	// weights maps feature names to their weights.
	weights map[string]float64

	// total is the weight sum used for normalization.
	total float64
}

// New creates a Scorer from a validated weight map.
// Features missing from the map get zero weight. The map is copied, so the
// caller's configuration stays isolated from the run.
func New(weights map[string]float64) *Scorer {
	s := &Scorer{weights: make(map[string]float64, len(weights))}
	for _, name := range model.FeatureNames {
		w := weights[name]
		s.weights[name] = w
		s.total += w
	}
	return s
}

// Score computes the vanity score of one canonical address value.
// Pure function: no state is read or written.
func (s *Scorer) Score(value string) model.VanityScore {
	breakdown := map[string]float64{
		model.FeatureRepeatRun:  runScore(value),
		model.FeaturePatternRun: patternScore(value),
		model.FeatureZeroEdges:  zeroEdgeScore(value),
		model.FeatureDiversity:  diversityScore(value),
		model.FeatureEntropy:    entropyScore(value),
		model.FeatureEdgeRun:    edgeRunScore(value),
	}

	var weighted float64
	dominant := model.FeatureNames[0]
	for _, name := range model.FeatureNames {
		weighted += s.weights[name] * breakdown[name]
		if breakdown[name] > breakdown[dominant] {
			dominant = name
		}
	}

	score := 0.0
	if s.total > 0 {
		score = weighted / s.total
	}

	return model.VanityScore{
		Address:    value,
		Score:      clamp01(score),
		Dominant:   dominant,
		Breakdown:  breakdown,
		Entropy:    shannonEntropy(value),
		Palindrome: isPalindrome(value),
		Prefix:     edge(value, true),
		Suffix:     edge(value, false),
	}
}

// ScoreAll scores every address using up to workers goroutines.
// Each worker writes disjoint slice positions, so no locking is needed and
// the output order matches the arena order regardless of scheduling.
func (s *Scorer) ScoreAll(ctx context.Context, addrs []*model.Address, workers int) ([]model.VanityScore, error) {
	scores := make([]model.VanityScore, len(addrs))

	g, _ := errgroup.WithContext(ctx)
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	chunk := (len(addrs) + workers - 1) / workers
	for start := 0; start < len(addrs); start += chunk {
		end := min(start+chunk, len(addrs))
		g.Go(func() error {
			for i := start; i < end; i++ {
				scores[i] = s.Score(addrs[i].Value)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// runScore scores the longest identical-digit run.
func runScore(value string) float64 {
	return clamp01(float64(longestRun(value)-1) / float64(runSaturation-1))
}

// patternScore scores the longest tandem repeat of a short motif.
// A region must contain at least two full repetitions of the motif to
// count; isolated coincidental matches score zero.
func patternScore(value string) float64 {
	best := 0
	for p := minMotif; p <= maxMotif; p++ {
		run := 0
		for i := p; i < len(value); i++ {
			if value[i] == value[i-p] {
				run++
				if region := run + p; region >= 2*p && region > best {
					best = region
				}
			} else {
				run = 0
			}
		}
	}
	return clamp01(float64(best) / patternSaturation)
}

// zeroEdgeScore scores all-zero segments at the start or end.
func zeroEdgeScore(value string) float64 {
	lead := 0
	for lead < len(value) && value[lead] == '0' {
		lead++
	}
	trail := 0
	for trail < len(value)-lead && value[len(value)-1-trail] == '0' {
		trail++
	}
	return clamp01(float64(lead+trail) / edgeSaturation)
}

// diversityScore scores how few distinct hex digits appear.
func diversityScore(value string) float64 {
	if len(value) == 0 {
		return 0
	}
	var seen [256]bool
	distinct := 0
	for i := 0; i < len(value); i++ {
		if !seen[value[i]] {
			seen[value[i]] = true
			distinct++
		}
	}
	return clamp01(float64(16-distinct) / 15.0)
}

// entropyScore scores low Shannon entropy, saturating below one bit.
func entropyScore(value string) float64 {
	if len(value) == 0 {
		return 0
	}
	return clamp01((maxEntropyBits - shannonEntropy(value)) / entropySpan)
}

// edgeRunScore scores repeated-digit runs of length >= 2 at either end.
func edgeRunScore(value string) float64 {
	lead := identicalRunAt(value, true)
	trail := identicalRunAt(value, false)
	if lead < 2 {
		lead = 0
	}
	if trail < 2 {
		trail = 0
	}
	if lead+trail > len(value) {
		// The whole payload is one run; count it once.
		lead, trail = len(value), 0
	}
	return clamp01(float64(lead+trail) / edgeSaturation)
}

// longestRun returns the longest run of one identical digit.
func longestRun(value string) int {
	if len(value) == 0 {
		return 0
	}
	best, cur := 1, 1
	for i := 1; i < len(value); i++ {
		if value[i] == value[i-1] {
			cur++
			if cur > best {
				best = cur
			}
		} else {
			cur = 1
		}
	}
	return best
}

// identicalRunAt returns the identical-digit run length at one end.
func identicalRunAt(value string, leading bool) int {
	if len(value) == 0 {
		return 0
	}
	run := 1
	if leading {
		for run < len(value) && value[run] == value[0] {
			run++
		}
	} else {
		last := len(value) - 1
		for run < len(value) && value[last-run] == value[last] {
			run++
		}
	}
	return run
}

// shannonEntropy returns the entropy of the digit distribution in bits
// per nibble. The maximum is log2(16) = 4.0.
func shannonEntropy(value string) float64 {
	if len(value) == 0 {
		return 0
	}
	var counts [256]int
	for i := 0; i < len(value); i++ {
		counts[value[i]]++
	}
	n := float64(len(value))
	ent := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		ent -= p * math.Log2(p)
	}
	return ent
}

// isPalindrome reports whether the payload reads the same both ways.
func isPalindrome(value string) bool {
	for i, j := 0, len(value)-1; i < j; i, j = i+1, j-1 {
		if value[i] != value[j] {
			return false
		}
	}
	return len(value) > 0
}

// edge returns the leading or trailing segment kept for collision tables.
func edge(value string, leading bool) string {
	if len(value) <= edgeSegment {
		return value
	}
	if leading {
		return value[:edgeSegment]
	}
	return value[len(value)-edgeSegment:]
}

// clamp01 clamps v into [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
