package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/sybilglass/internal/model"
)

// BatchInput is one input list queued for batch analysis.
type BatchInput struct {
	// Source is the list label carried into the report.
	Source string

	// Entries is the raw input read from the source.
	Entries []model.RawEntry
}

// BatchResult pairs a source with its analysis outcome.
// Exactly one of Report and Err is set.
type BatchResult struct {
	Source string
	Report *model.Report
	Err    error
}

// BatchProcessor analyzes several input lists concurrently.
// Each list gets its own pipeline instance, so no state leaks between
// analyses.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-list execution
// 2. It allows different batch strategies (e.g., fail-fast, keep-going)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each analysis.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent analyses.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent analyses.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each list to create a fresh
// pipeline instance. This ensures that pipeline state doesn't leak between
// analyses and allows for per-list customization if needed.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch analyzes all inputs and returns one result per input, in
// input order.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// A failed analysis is recorded in its result rather than aborting the
// batch; one malformed list shouldn't discard the reports of the others.
// The error return is non-nil only when the batch itself was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, inputs []BatchInput) ([]BatchResult, error) {
	bp.logger.Debug("starting batch processing",
		"total_inputs", len(inputs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocated so each goroutine writes its own slot, keeping input
	// order without locking.
	results := make([]BatchResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, in := range inputs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			run := NewRun(in.Source, in.Entries)
			err := bp.pipelineFactory().Execute(gctx, run)

			results[i] = BatchResult{Source: in.Source, Report: run.Report, Err: err}
			if err != nil {
				bp.logger.Warn("analysis failed",
					"source", in.Source,
					"error", err,
				)
			}
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Debug("batch processing complete",
		"total_inputs", len(inputs),
		"elapsed", time.Since(startTime),
	)

	return results, err
}
