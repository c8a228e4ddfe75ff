// Package pipeline orchestrates the analysis stages of a run.
//
// A run flows through five steps in fixed order: normalize, vanity,
// similarity, cluster, assemble. Each step reads the accumulated Run state
// and writes its own outputs; the assemble step folds everything into the
// final Report. Steps never mutate each other's outputs, so the pipeline
// is idempotent: executing it twice over the same entries yields equal
// reports apart from the generation timestamp.
//
// BatchProcessor runs independent analyses over several input lists
// concurrently with a bounded worker count.
package pipeline
