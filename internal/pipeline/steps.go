package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/nao1215/sybilglass/internal/cluster"
	"github.com/nao1215/sybilglass/internal/config"
	"github.com/nao1215/sybilglass/internal/model"
	"github.com/nao1215/sybilglass/internal/normalize"
	"github.com/nao1215/sybilglass/internal/similarity"
	"github.com/nao1215/sybilglass/internal/vanity"
)

// Aggregation constants for the assemble step.
const (
	// lowEntropyBits is the entropy below which an address counts toward
	// the low-entropy ratio of the health index.
	lowEntropyBits = 3.0

	// topSegments is the number of rows kept in the prefix and suffix
	// collision tables.
	topSegments = 5

	// Health index component weights. Duplicates and pair density carry
	// the most signal; checksum skew is a weak tell on its own.
	healthDupWeight      = 0.25
	healthPairWeight     = 0.30
	healthVanityWeight   = 0.20
	healthEntropyWeight  = 0.15
	healthChecksumWeight = 0.10
)

// NormalizeStep canonicalizes and deduplicates the raw input entries.
type NormalizeStep struct {
	normalizer *normalize.Normalizer
	logger     *slog.Logger
}

// NewNormalizeStep creates the normalize step.
func NewNormalizeStep(cfg *config.Config, logger *slog.Logger) *NormalizeStep {
	return &NormalizeStep{
		normalizer: normalize.New(cfg.HexLength, normalize.WithLogger(logger)),
		logger:     logger,
	}
}

// Name returns the step name.
func (s *NormalizeStep) Name() string {
	return "normalize"
}

// Do executes the normalize step.
func (s *NormalizeStep) Do(_ context.Context, run *Run) error {
	addrs, rejections := s.normalizer.Normalize(run.Entries)
	run.Addresses = addrs
	run.Rejections = rejections

	s.logger.Debug("normalization complete",
		"entries", len(run.Entries),
		"unique", len(addrs),
		"rejected", len(rejections),
	)
	return nil
}

// VanityStep scores each address for structural anomaly.
type VanityStep struct {
	scorer  *vanity.Scorer
	workers int
	logger  *slog.Logger
}

// NewVanityStep creates the vanity step.
func NewVanityStep(cfg *config.Config, logger *slog.Logger) *VanityStep {
	workers := cfg.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &VanityStep{
		scorer:  vanity.New(cfg.VanityWeights),
		workers: workers,
		logger:  logger,
	}
}

// Name returns the step name.
func (s *VanityStep) Name() string {
	return "vanity"
}

// Do executes the vanity step.
func (s *VanityStep) Do(ctx context.Context, run *Run) error {
	scores, err := s.scorer.ScoreAll(ctx, run.Addresses, s.workers)
	if err != nil {
		return err
	}
	run.Scores = scores
	return nil
}

// SimilarityStep finds near-duplicate address pairs.
type SimilarityStep struct {
	engine *similarity.Engine
}

// NewSimilarityStep creates the similarity step.
func NewSimilarityStep(cfg *config.Config, logger *slog.Logger) *SimilarityStep {
	return &SimilarityStep{
		engine: similarity.New(cfg.HexLength, cfg.MinSharedSubstring,
			similarity.WithThreshold(cfg.SimilarityThreshold),
			similarity.WithCutover(cfg.LSHCutover),
			similarity.WithBucketing(cfg.LSHWindow, cfg.LSHStride),
			similarity.WithWorkers(cfg.Workers),
			similarity.WithLogger(logger),
		),
	}
}

// Name returns the step name.
func (s *SimilarityStep) Name() string {
	return "similarity"
}

// Do executes the similarity step.
func (s *SimilarityStep) Do(ctx context.Context, run *Run) error {
	pairs, err := s.engine.Pairs(ctx, run.Addresses)
	if err != nil {
		return err
	}
	run.Pairs = pairs
	return nil
}

// ClusterStep groups near-pair addresses into connected components.
type ClusterStep struct {
	builder *cluster.Builder
}

// NewClusterStep creates the cluster step.
func NewClusterStep(cfg *config.Config, logger *slog.Logger) *ClusterStep {
	return &ClusterStep{
		builder: cluster.NewBuilder(
			cluster.WithWeights(cfg.ClusterVanityWeight, cfg.ClusterDensityWeight),
			cluster.WithLogger(logger),
		),
	}
}

// Name returns the step name.
func (s *ClusterStep) Name() string {
	return "cluster"
}

// Do executes the cluster step.
func (s *ClusterStep) Do(_ context.Context, run *Run) error {
	run.Clusters = s.builder.Build(run.Addresses, run.Pairs, run.Scores)
	return nil
}

// AssembleStep folds the accumulated run state into the final report.
//
// Design decision: All list-level aggregates are computed here, in one
// place, rather than accumulated incrementally by earlier steps. That
// keeps the earlier steps pure over their own concern and makes the
// report a function of the run state alone.
type AssembleStep struct {
	singletonThreshold float64
	logger             *slog.Logger
}

// NewAssembleStep creates the assemble step.
func NewAssembleStep(cfg *config.Config, logger *slog.Logger) *AssembleStep {
	return &AssembleStep{
		singletonThreshold: cfg.SingletonVanityThreshold,
		logger:             logger,
	}
}

// Name returns the step name.
func (s *AssembleStep) Name() string {
	return "assemble"
}

// Do executes the assemble step.
func (s *AssembleStep) Do(_ context.Context, run *Run) error {
	report := model.NewReport(run.Source)
	report.Clusters = run.Clusters
	report.NearPairs = run.Pairs
	report.Rejections = run.Rejections
	report.Scores = run.Scores
	report.Singletons = s.singletons(run)
	report.Summary = s.summarize(run)
	run.Report = report

	s.logger.Debug("report assembled",
		"unique", report.Summary.UniqueAddresses,
		"clusters", report.Summary.ClusterCount,
		"health_index", report.Summary.HealthIndex,
	)
	return nil
}

// singletons returns high-vanity addresses outside every cluster, ordered
// by descending score then ascending value.
func (s *AssembleStep) singletons(run *Run) []model.VanityScore {
	clustered := make(map[string]bool)
	for _, c := range run.Clusters {
		for _, m := range c.Members {
			clustered[m] = true
		}
	}

	var singles []model.VanityScore
	for _, score := range run.Scores {
		if score.Score >= s.singletonThreshold && !clustered[score.Address] {
			singles = append(singles, score)
		}
	}
	sort.SliceStable(singles, func(i, j int) bool {
		if singles[i].Score != singles[j].Score {
			return singles[i].Score > singles[j].Score
		}
		return singles[i].Address < singles[j].Address
	})
	return singles
}

// summarize computes the list-level aggregates.
func (s *AssembleStep) summarize(run *Run) model.Summary {
	sum := model.Summary{
		TotalInput:      len(run.Entries),
		UniqueAddresses: len(run.Addresses),
		InvalidEntries:  len(run.Rejections),
		NearPairCount:   len(run.Pairs),
		ClusterCount:    len(run.Clusters),
	}

	for _, a := range run.Addresses {
		sum.DuplicateEntries += a.Occurrences - 1
		switch a.Style {
		case model.ChecksumLower:
			sum.Checksums.Lower++
		case model.ChecksumUpper:
			sum.Checksums.Upper++
		case model.ChecksumMixed:
			sum.Checksums.Mixed++
		}
	}

	for _, c := range run.Clusters {
		sum.ClusteredAddresses += c.Size()
		if c.Size() > sum.MaxClusterSize {
			sum.MaxClusterSize = c.Size()
		}
	}

	lowEntropy := 0
	for _, score := range run.Scores {
		if score.Score >= s.singletonThreshold {
			sum.HighVanityCount++
		}
		if score.Entropy < lowEntropyBits {
			lowEntropy++
		}
	}

	sum.TopPrefixes = topSegmentCounts(run.Scores, true)
	sum.TopSuffixes = topSegmentCounts(run.Scores, false)
	sum.HealthIndex = healthIndex(sum, lowEntropy)
	return sum
}

// topSegmentCounts builds the heaviest four-digit prefix or suffix
// collisions, ordered by descending count then ascending segment.
func topSegmentCounts(scores []model.VanityScore, prefix bool) []model.SegmentCount {
	counts := make(map[string]int)
	for _, s := range scores {
		seg := s.Suffix
		if prefix {
			seg = s.Prefix
		}
		counts[seg]++
	}

	segments := make([]model.SegmentCount, 0, len(counts))
	for seg, count := range counts {
		segments = append(segments, model.SegmentCount{Segment: seg, Count: count})
	}
	sort.Slice(segments, func(i, j int) bool {
		if segments[i].Count != segments[j].Count {
			return segments[i].Count > segments[j].Count
		}
		return segments[i].Segment < segments[j].Segment
	})
	if len(segments) > topSegments {
		segments = segments[:topSegments]
	}
	return segments
}

// healthIndex combines the list-level risk ratios into a 0..100 index,
// higher meaning riskier. Checksum skew is the share of addresses not
// carrying a mixed-case checksum; farmed lists are typically emitted by
// scripts in uniform casing.
func healthIndex(sum model.Summary, lowEntropy int) float64 {
	// No addresses means nothing to assess, not maximal skew.
	if sum.UniqueAddresses == 0 {
		return 0
	}
	n := sum.UniqueAddresses
	valid := sum.TotalInput - sum.InvalidEntries
	if valid < 1 {
		valid = 1
	}

	dupRatio := float64(sum.DuplicateEntries) / float64(valid)
	pairDensity := float64(sum.NearPairCount) / float64(n)
	vanityRatio := float64(sum.HighVanityCount) / float64(n)
	lowEntropyRatio := float64(lowEntropy) / float64(n)
	checksumSkew := 1.0 - float64(sum.Checksums.Mixed)/float64(n)

	health := 100 * (dupRatio*healthDupWeight +
		pairDensity*healthPairWeight +
		vanityRatio*healthVanityWeight +
		lowEntropyRatio*healthEntropyWeight +
		checksumSkew*healthChecksumWeight)
	if health > 100 {
		health = 100
	}
	return health
}

// DefaultPipeline creates a pipeline with all analysis steps in standard
// order.
//
// Design decision: We provide a default pipeline because:
// 1. Every analysis wants the same stage order
// 2. It reduces boilerplate in the CLI
// 3. Step wiring from config stays in one place
func DefaultPipeline(cfg *config.Config, opts ...Option) *Pipeline {
	p := New(opts...)
	logger := p.logger

	p.AddSteps(
		NewNormalizeStep(cfg, logger),
		NewVanityStep(cfg, logger),
		NewSimilarityStep(cfg, logger),
		NewClusterStep(cfg, logger),
		NewAssembleStep(cfg, logger),
	)
	return p
}

// Analyze runs the default pipeline over raw entries and returns the
// assembled report. This is the single-list entry point used by the CLI.
func Analyze(ctx context.Context, cfg *config.Config, source string, entries []model.RawEntry, opts ...Option) (*model.Report, error) {
	start := time.Now()

	run := NewRun(source, entries)
	p := DefaultPipeline(cfg, opts...)
	if err := p.Execute(ctx, run); err != nil {
		return nil, err
	}

	p.logger.Debug("analysis complete",
		"source", source,
		"elapsed", time.Since(start),
	)
	return run.Report, nil
}
