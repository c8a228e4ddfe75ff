package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoInput is returned when no input list is specified.
	ErrNoInput = errors.New("no input specified: provide one or more list files or \"-\" for stdin")

	// ErrInvalidHexLength is returned when the address payload length is
	// shorter than two hex digits.
	ErrInvalidHexLength = errors.New("invalid hex length: must be at least 2")

	// ErrInvalidSimilarityThreshold is returned when the similarity
	// threshold is outside [0,1].
	ErrInvalidSimilarityThreshold = errors.New("invalid similarity threshold: must be in [0,1]")

	// ErrInvalidSingletonThreshold is returned when the singleton vanity
	// threshold is outside [0,1].
	ErrInvalidSingletonThreshold = errors.New("invalid singleton vanity threshold: must be in [0,1]")

	// ErrInvalidMinSharedSubstring is returned when the minimum shared
	// substring length is below 2 or exceeds the address length.
	ErrInvalidMinSharedSubstring = errors.New("invalid minimum shared substring: must be between 2 and the hex length")

	// ErrInvalidLSHCutover is returned when the bucketing cutover is negative.
	ErrInvalidLSHCutover = errors.New("invalid LSH cutover: must be non-negative")

	// ErrInvalidLSHWindow is returned when the bucketing window is below 2
	// or exceeds the address length.
	ErrInvalidLSHWindow = errors.New("invalid LSH window: must be between 2 and the hex length")

	// ErrInvalidLSHStride is returned when the bucketing stride is not positive.
	ErrInvalidLSHStride = errors.New("invalid LSH stride: must be positive")

	// ErrUnknownVanityFeature is returned when the weight map names a
	// feature the scorer does not implement.
	ErrUnknownVanityFeature = errors.New("unknown vanity feature in weights")

	// ErrNegativeVanityWeight is returned when any vanity weight is negative.
	ErrNegativeVanityWeight = errors.New("invalid vanity weights: must be non-negative")

	// ErrZeroVanityWeights is returned when all vanity weights are zero.
	ErrZeroVanityWeights = errors.New("invalid vanity weights: at least one weight must be positive")

	// ErrInvalidClusterWeights is returned when the cluster score weights
	// are negative or sum to zero.
	ErrInvalidClusterWeights = errors.New("invalid cluster score weights: must be non-negative and sum to a positive value")

	// ErrInvalidWorkers is returned when the worker count is negative.
	// Zero is valid and means one worker per CPU.
	ErrInvalidWorkers = errors.New("invalid workers: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
