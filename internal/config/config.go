package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/nao1215/sybilglass/internal/model"
)

// Default configuration values.
// The analysis defaults are documented baselines, not ground truth: the
// similarity blend and vanity weights are policy choices validated against
// hand-labeled example clusters, and every one of them is overridable.
const (
	// DefaultHexLength is the EVM address payload length in hex digits
	// (20 bytes).
	DefaultHexLength = 40

	// DefaultSimilarityThreshold is the minimum composite similarity for
	// two addresses to form a near pair. 0.75 keeps single-digit edits and
	// long shared runs while excluding coincidental partial overlap.
	DefaultSimilarityThreshold = 0.75

	// DefaultMinSharedSubstring is the minimum aligned shared-run length
	// that earns a substring bonus. Runs of 6+ hex digits at the same
	// offset are rare between independently generated addresses.
	DefaultMinSharedSubstring = 6

	// DefaultLSHCutover is the list size above which the similarity engine
	// switches from exhaustive all-pairs comparison to signature bucketing.
	// Below 5,000 addresses the quadratic scan finishes in well under a
	// second and has no false negatives.
	DefaultLSHCutover = 5000

	// DefaultLSHWindow is the length of the rolling-hash windows used for
	// bucketing. Two addresses within a single-digit edit of each other
	// share every window not covering the edited position.
	DefaultLSHWindow = 8

	// DefaultLSHStride is the offset step between consecutive windows.
	DefaultLSHStride = 4

	// DefaultSingletonVanityThreshold is the minimum vanity score for an
	// unclustered address to appear in the report's singleton list.
	DefaultSingletonVanityThreshold = 0.8

	// DefaultClusterVanityWeight and DefaultClusterDensityWeight combine
	// the maximum member vanity score and the internal edge density into
	// a cluster's aggregate score.
	DefaultClusterVanityWeight  = 0.5
	DefaultClusterDensityWeight = 0.5

	// DefaultTopPreview is the number of most suspicious addresses shown
	// in the console preview.
	DefaultTopPreview = 10

	// AppName is the application name used for XDG directory paths.
	AppName = "sybilglass"
)

// DefaultVanityWeights returns the default feature weights for the vanity
// scorer: equal weight for every feature. The returned map is fresh on each
// call so callers may mutate it.
func DefaultVanityWeights() map[string]float64 {
	weights := make(map[string]float64, len(model.FeatureNames))
	for _, name := range model.FeatureNames {
		weights[name] = 1.0
	}
	return weights
}

// Config holds all configuration options for sybilglass.
// This struct is populated from CLI flags and the optional configuration
// file and passed through the application via dependency injection rather
// than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., SimilarityConfig, ReportConfig) for simplicity. The number of
// options is manageable, and nesting would add complexity without
// significant benefit.
type Config struct {
	// HexLength is the expected address payload length in hex digits.
	// Entries of any other length are rejected with WRONG_LENGTH.
	HexLength int

	// SimilarityThreshold is the minimum composite similarity in [0,1]
	// for a near pair.
	SimilarityThreshold float64

	// MinSharedSubstring is the minimum aligned shared-run length that
	// contributes a substring bonus to the similarity score.
	MinSharedSubstring int

	// LSHCutover is the unique-address count above which candidate pairs
	// are generated by signature bucketing instead of all-pairs scanning.
	// Bucketing trades a bounded false-negative rate for near-linear
	// expected time. Zero disables bucketing entirely.
	LSHCutover int

	// LSHWindow is the rolling-hash window length used for bucketing.
	LSHWindow int

	// LSHStride is the offset step between bucketing windows.
	LSHStride int

	// VanityWeights maps vanity feature names to their weights in the
	// scorer's weighted sum. Weights are normalized by their sum, so only
	// their ratios matter. Missing features default to zero weight.
	VanityWeights map[string]float64

	// SingletonVanityThreshold is the minimum vanity score in [0,1] for
	// an unclustered address to be reported as a high-vanity singleton.
	// Independent of the clustering threshold.
	SingletonVanityThreshold float64

	// ClusterVanityWeight and ClusterDensityWeight combine max member
	// vanity and edge density into the cluster aggregate score.
	ClusterVanityWeight  float64
	ClusterDensityWeight float64

	// Workers is the number of goroutines used for pair scoring and
	// vanity scoring. Zero means one worker per CPU.
	Workers int

	// TopPreview is the number of addresses in the console preview.
	TopPreview int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// MaskAddresses abbreviates full address values in log output.
	// Airdrop recipient lists are frequently confidential before the
	// distribution is announced.
	MaskAddresses bool

	// JSONReport enables JSON report output instead of human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When empty, the report is written to stdout.
	ReportFile string

	// ScoresCSVFile, when set, receives the per-address score export.
	ScoresCSVFile string

	// PairsCSVFile, when set, receives the near-pair export.
	PairsCSVFile string

	// BadgeFile, when set, receives the SVG health badge.
	BadgeFile string

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches for .sybilglass in the current directory and then in
	// the user's home directory.
	ConfigFilePath string

	// Inputs is the list of address list files to analyze ("-" for stdin).
	Inputs []string

	// SaveToDB indicates whether to save run summaries to the history
	// database for later comparison.
	SaveToDB bool

	// DBDir is the directory holding the SQLite history database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a new Config with default values.
// All fields are set to the documented baseline defaults; callers override
// specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (thresholds, window
// sizes). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		HexLength:                DefaultHexLength,
		SimilarityThreshold:      DefaultSimilarityThreshold,
		MinSharedSubstring:       DefaultMinSharedSubstring,
		LSHCutover:               DefaultLSHCutover,
		LSHWindow:                DefaultLSHWindow,
		LSHStride:                DefaultLSHStride,
		VanityWeights:            DefaultVanityWeights(),
		SingletonVanityThreshold: DefaultSingletonVanityThreshold,
		ClusterVanityWeight:      DefaultClusterVanityWeight,
		ClusterDensityWeight:     DefaultClusterDensityWeight,
		TopPreview:               DefaultTopPreview,
	}
}

// XDGDataDir returns the XDG data directory for sybilglass.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/sybilglass
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sybilglass.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: A malformed configuration would silently produce a
// misleading report, so validation is fatal and happens once after CLI
// parsing, before any processing begins. We return the first error found
// rather than collecting all errors because fixing one error often makes
// others irrelevant.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	// A payload shorter than two digits has no meaningful structure.
	if c.HexLength < 2 {
		return ErrInvalidHexLength
	}

	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return ErrInvalidSimilarityThreshold
	}

	if c.SingletonVanityThreshold < 0 || c.SingletonVanityThreshold > 1 {
		return ErrInvalidSingletonThreshold
	}

	if c.MinSharedSubstring < 2 || c.MinSharedSubstring > c.HexLength {
		return ErrInvalidMinSharedSubstring
	}

	if c.LSHCutover < 0 {
		return ErrInvalidLSHCutover
	}

	if c.LSHWindow < 2 || c.LSHWindow > c.HexLength {
		return ErrInvalidLSHWindow
	}

	if c.LSHStride < 1 {
		return ErrInvalidLSHStride
	}

	if err := c.validateVanityWeights(); err != nil {
		return err
	}

	if c.ClusterVanityWeight < 0 || c.ClusterDensityWeight < 0 {
		return ErrInvalidClusterWeights
	}
	if c.ClusterVanityWeight+c.ClusterDensityWeight <= 0 {
		return ErrInvalidClusterWeights
	}

	if c.Workers < 0 {
		return ErrInvalidWorkers
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// validateVanityWeights checks the vanity feature weight map.
func (c *Config) validateVanityWeights() error {
	known := make(map[string]bool, len(model.FeatureNames))
	for _, name := range model.FeatureNames {
		known[name] = true
	}

	var sum float64
	for name, weight := range c.VanityWeights {
		if !known[name] {
			return ErrUnknownVanityFeature
		}
		if weight < 0 {
			return ErrNegativeVanityWeight
		}
		sum += weight
	}
	if sum <= 0 {
		return ErrZeroVanityWeights
	}
	return nil
}
