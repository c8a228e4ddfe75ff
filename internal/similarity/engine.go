package similarity

import (
	"context"
	"log/slog"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/sybilglass/internal/model"
)

// Engine finds near-duplicate pairs in a normalized address arena.
// Construct with New; the zero value is not usable.
type Engine struct {
	metric    *Metric
	threshold float64
	cutover   int
	window    int
	stride    int
	workers   int
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold sets the minimum score for a pair to be reported.
func WithThreshold(threshold float64) Option {
	return func(e *Engine) { e.threshold = threshold }
}

// WithCutover sets the arena size above which candidate generation switches
// from all-pairs scanning to signature bucketing. Zero disables bucketing.
func WithCutover(cutover int) Option {
	return func(e *Engine) { e.cutover = cutover }
}

// WithBucketing sets the window and stride of the signature buckets.
func WithBucketing(window, stride int) Option {
	return func(e *Engine) {
		e.window = window
		e.stride = stride
	}
}

// WithWorkers sets the number of scoring goroutines.
// Zero or negative means one per CPU.
func WithWorkers(workers int) Option {
	return func(e *Engine) { e.workers = workers }
}

// WithLogger sets the logger used for progress and strategy messages.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an Engine for payloads of the given hex length.
func New(hexLength, minSharedRun int, opts ...Option) *Engine {
	e := &Engine{
		metric:    NewMetric(hexLength, minSharedRun),
		threshold: 0.75,
		cutover:   5000,
		window:    8,
		stride:    4,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.NumCPU()
	}
	return e
}

// Score exposes the underlying metric for single-pair inspection, used by
// the explain command and the assembler's pair annotations.
func (e *Engine) Score(a, b string) (float64, string) {
	return e.metric.Score(a, b)
}

// Pairs returns every address pair scoring at or above the threshold.
//
// The result is canonical and reproducible: each pair carries the
// lexically smaller value first, the slice is sorted by (A, B), and for a
// fixed arena the same pairs come back on every run. The arena is sorted
// by value at normalization time, so input file order cannot leak into
// the output.
func (e *Engine) Pairs(ctx context.Context, addrs []*model.Address) ([]model.NearPair, error) {
	if len(addrs) < 2 {
		return nil, nil
	}

	values := make([]string, len(addrs))
	for i, a := range addrs {
		values[i] = a.Value
	}

	var pairs []model.NearPair
	var err error
	if e.cutover > 0 && len(addrs) > e.cutover {
		e.logger.Debug("similarity strategy", slog.String("mode", "bucketed"),
			slog.Int("addresses", len(addrs)), slog.Int("window", e.window), slog.Int("stride", e.stride))
		pairs, err = e.bucketedPairs(ctx, values)
	} else {
		e.logger.Debug("similarity strategy", slog.String("mode", "all-pairs"),
			slog.Int("addresses", len(addrs)))
		pairs, err = e.allPairs(ctx, values)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})

	e.logger.Debug("similarity pass complete", slog.Int("pairs", len(pairs)))
	return pairs, nil
}

// allPairs scans every index pair, splitting rows across workers.
// Each worker appends to its own slice; the shards are merged after Wait,
// so no locking happens on the hot path.
func (e *Engine) allPairs(ctx context.Context, values []string) ([]model.NearPair, error) {
	shards := make([][]model.NearPair, e.workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < e.workers; w++ {
		g.Go(func() error {
			var local []model.NearPair
			for i := w; i < len(values); i += e.workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				for j := i + 1; j < len(values); j++ {
					if p, ok := e.scorePair(values, i, j); ok {
						local = append(local, p)
					}
				}
			}
			shards[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pairs []model.NearPair
	for _, s := range shards {
		pairs = append(pairs, s...)
	}
	return pairs, nil
}

// pairKey packs a canonical index pair into one map key for dedup.
// Callers must pass i < j.
func pairKey(i, j int) uint64 {
	return uint64(i)<<32 | uint64(j)
}

// bucketedPairs scores only pairs sharing at least one window bucket.
// Multi-bucket pairs are deduplicated before scoring, so each pair is
// scored at most once.
func (e *Engine) bucketedPairs(ctx context.Context, values []string) ([]model.NearPair, error) {
	idx := newBucketIndex(values, e.window, e.stride)

	type job struct{ i, j int }
	seen := make(map[uint64]struct{})
	var jobs []job
	idx.candidates(func(i, j int) {
		key := pairKey(i, j)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		jobs = append(jobs, job{i, j})
	})

	e.logger.Debug("bucketed candidates", slog.Int("candidates", len(jobs)),
		slog.Int("buckets", len(idx.buckets)))

	shards := make([][]model.NearPair, e.workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < e.workers; w++ {
		g.Go(func() error {
			var local []model.NearPair
			for k := w; k < len(jobs); k += e.workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				if p, ok := e.scorePair(values, jobs[k].i, jobs[k].j); ok {
					local = append(local, p)
				}
			}
			shards[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pairs []model.NearPair
	for _, s := range shards {
		pairs = append(pairs, s...)
	}
	return pairs, nil
}

// scorePair scores one canonical index pair against the threshold.
// The arena is sorted by value, so i < j implies values[i] < values[j] and
// the pair is already in canonical order.
func (e *Engine) scorePair(values []string, i, j int) (model.NearPair, bool) {
	score, pattern := e.metric.Score(values[i], values[j])
	if score < e.threshold {
		return model.NearPair{}, false
	}
	return model.NearPair{
		A:       values[i],
		B:       values[j],
		AIndex:  i,
		BIndex:  j,
		Score:   score,
		Pattern: pattern,
	}, true
}
