package config

import (
	"errors"
	"testing"

	"github.com/nao1215/sybilglass/internal/model"
)

// validConfig returns a configuration that passes validation.
func validConfig() *Config {
	cfg := NewConfig()
	cfg.Inputs = []string{"list.txt"}
	return cfg
}

// TestConfigValidate tests validation of the default configuration.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	if err := validConfig().Validate(); err != nil {
		t.Errorf("default config with input should be valid, got %v", err)
	}
}

// TestConfigValidateErrors tests that each invalid field yields its
// sentinel error.
func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		mutate   func(*Config)
		expected error
	}{
		{
			name:     "no input",
			mutate:   func(c *Config) { c.Inputs = nil },
			expected: ErrNoInput,
		},
		{
			name:     "hex length too short",
			mutate:   func(c *Config) { c.HexLength = 1 },
			expected: ErrInvalidHexLength,
		},
		{
			name:     "similarity threshold above one",
			mutate:   func(c *Config) { c.SimilarityThreshold = 1.5 },
			expected: ErrInvalidSimilarityThreshold,
		},
		{
			name:     "similarity threshold negative",
			mutate:   func(c *Config) { c.SimilarityThreshold = -0.1 },
			expected: ErrInvalidSimilarityThreshold,
		},
		{
			name:     "singleton threshold above one",
			mutate:   func(c *Config) { c.SingletonVanityThreshold = 2 },
			expected: ErrInvalidSingletonThreshold,
		},
		{
			name:     "shared substring too short",
			mutate:   func(c *Config) { c.MinSharedSubstring = 1 },
			expected: ErrInvalidMinSharedSubstring,
		},
		{
			name:     "shared substring exceeds length",
			mutate:   func(c *Config) { c.MinSharedSubstring = 41 },
			expected: ErrInvalidMinSharedSubstring,
		},
		{
			name:     "negative cutover",
			mutate:   func(c *Config) { c.LSHCutover = -1 },
			expected: ErrInvalidLSHCutover,
		},
		{
			name:     "window exceeds length",
			mutate:   func(c *Config) { c.LSHWindow = 80 },
			expected: ErrInvalidLSHWindow,
		},
		{
			name:     "zero stride",
			mutate:   func(c *Config) { c.LSHStride = 0 },
			expected: ErrInvalidLSHStride,
		},
		{
			name:     "unknown vanity feature",
			mutate:   func(c *Config) { c.VanityWeights["sparkle"] = 1 },
			expected: ErrUnknownVanityFeature,
		},
		{
			name:     "negative vanity weight",
			mutate:   func(c *Config) { c.VanityWeights[model.FeatureRepeatRun] = -1 },
			expected: ErrNegativeVanityWeight,
		},
		{
			name: "all vanity weights zero",
			mutate: func(c *Config) {
				for name := range c.VanityWeights {
					c.VanityWeights[name] = 0
				}
			},
			expected: ErrZeroVanityWeights,
		},
		{
			name:     "negative cluster weight",
			mutate:   func(c *Config) { c.ClusterVanityWeight = -0.5 },
			expected: ErrInvalidClusterWeights,
		},
		{
			name: "cluster weights sum to zero",
			mutate: func(c *Config) {
				c.ClusterVanityWeight = 0
				c.ClusterDensityWeight = 0
			},
			expected: ErrInvalidClusterWeights,
		},
		{
			name:     "negative workers",
			mutate:   func(c *Config) { c.Workers = -1 },
			expected: ErrInvalidWorkers,
		},
		{
			name: "conflicting report formats",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			expected: ErrConflictingReportFormats,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.expected) {
				t.Errorf("got %v, expected %v", err, tc.expected)
			}
		})
	}
}

// TestDefaultVanityWeights tests that every feature gets equal weight and
// the map is safe to mutate.
func TestDefaultVanityWeights(t *testing.T) {
	t.Parallel()

	weights := DefaultVanityWeights()
	if len(weights) != len(model.FeatureNames) {
		t.Fatalf("got %d weights, expected %d", len(weights), len(model.FeatureNames))
	}
	for _, name := range model.FeatureNames {
		if weights[name] != 1.0 {
			t.Errorf("feature %q: got weight %f, expected 1.0", name, weights[name])
		}
	}

	weights[model.FeatureRepeatRun] = 0
	if DefaultVanityWeights()[model.FeatureRepeatRun] != 1.0 {
		t.Error("mutating a returned map must not affect later calls")
	}
}

// TestXDGDirs tests that the XDG helpers embed the application name.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if dir := XDGDataDir(); dir == "" {
		t.Error("XDGDataDir returned empty path")
	}
	if dir := XDGConfigDir(); dir == "" {
		t.Error("XDGConfigDir returned empty path")
	}
}
