package cluster

import (
	"log/slog"
	"sort"

	"github.com/nao1215/sybilglass/internal/model"
)

// Builder turns a near-pair edge set into scored, ordered clusters.
// Construct with NewBuilder; the zero value is not usable.
type Builder struct {
	// vanityWeight and densityWeight blend the cluster aggregate score.
	// They are normalized by their sum, so only the ratio matters.
	vanityWeight  float64
	densityWeight float64

	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithWeights sets the vanity and density weights of the aggregate score.
func WithWeights(vanity, density float64) Option {
	return func(b *Builder) {
		b.vanityWeight = vanity
		b.densityWeight = density
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder creates a Builder with equal vanity and density weights.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		vanityWeight:  0.5,
		densityWeight: 0.5,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build groups the arena into clusters using the near-pair edges.
//
// The scores slice must be arena-ordered, matching addrs. Pair order does
// not affect the result: union-find merges are commutative and every
// derived quantity is computed from the final components. Adding
// addresses to the input can merge or grow clusters but never splits an
// existing one.
func (b *Builder) Build(addrs []*model.Address, pairs []model.NearPair, scores []model.VanityScore) []model.Cluster {
	if len(pairs) == 0 {
		return nil
	}

	uf := newUnionFind(len(addrs))
	for _, p := range pairs {
		uf.union(p.AIndex, p.BIndex)
	}

	members := make(map[int][]int)
	for i := range addrs {
		root := uf.find(i)
		if uf.size[root] < 2 {
			continue
		}
		members[root] = append(members[root], i)
	}

	pairCounts := make(map[int]int, len(members))
	for _, p := range pairs {
		pairCounts[uf.find(p.AIndex)]++
	}

	clusters := make([]model.Cluster, 0, len(members))
	for root, idxs := range members {
		c := model.Cluster{
			Members:   make([]string, 0, len(idxs)),
			PairCount: pairCounts[root],
		}
		for _, i := range idxs {
			c.Members = append(c.Members, addrs[i].Value)
			if s := scores[i].Score; s > c.MaxVanity {
				c.MaxVanity = s
			}
		}
		sort.Strings(c.Members)

		k := len(idxs)
		possible := k * (k - 1) / 2
		c.Density = float64(c.PairCount) / float64(possible)
		c.Score = b.aggregate(c.MaxVanity, c.Density)
		clusters = append(clusters, c)
	}

	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Score != clusters[j].Score {
			return clusters[i].Score > clusters[j].Score
		}
		return clusters[i].Key() < clusters[j].Key()
	})
	for i := range clusters {
		clusters[i].ID = i + 1
	}

	b.logger.Debug("clustering complete",
		slog.Int("clusters", len(clusters)), slog.Int("pairs", len(pairs)))
	return clusters
}

// aggregate blends max member vanity and edge density into one score.
func (b *Builder) aggregate(maxVanity, density float64) float64 {
	total := b.vanityWeight + b.densityWeight
	if total <= 0 {
		return 0
	}
	return (b.vanityWeight*maxVanity + b.densityWeight*density) / total
}
