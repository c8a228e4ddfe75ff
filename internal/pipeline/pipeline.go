package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/sybilglass/internal/model"
)

// Run is the accumulated state of one analysis.
// Steps fill it in stage order; later steps read what earlier steps wrote.
type Run struct {
	// Source is the input list label carried into the report.
	Source string

	// Entries is the raw input, set before the pipeline executes.
	Entries []model.RawEntry

	// Addresses is the deduplicated arena, sorted by value with
	// contiguous indexes. Set by the normalize step.
	Addresses []*model.Address

	// Rejections lists invalid entries in input order. Set by the
	// normalize step.
	Rejections []model.Rejection

	// Scores is the arena-ordered vanity scores. Set by the vanity step.
	Scores []model.VanityScore

	// Pairs is the canonical near-pair set. Set by the similarity step.
	Pairs []model.NearPair

	// Clusters is the ordered cluster list. Set by the cluster step.
	Clusters []model.Cluster

	// Report is the assembled result. Set by the assemble step.
	Report *model.Report
}

// NewRun creates a Run over raw input entries.
func NewRun(source string, entries []model.RawEntry) *Run {
	return &Run{Source: source, Entries: entries}
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the accumulated
// run state from previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., per-step timing)
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation and the run state to extend.
	Do(ctx context.Context, run *Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
//
// Design decision: Unlike a crawler, where partial results are still
// useful, a partial analysis would misstate every list-level aggregate.
// Execution therefore stops at the first failing step and no report is
// produced.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	for _, step := range p.steps {
		// Check for cancellation before starting each step
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"source", run.Source,
		)

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"source", run.Source,
				"error", err,
			)
			return err
		}
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
