package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/sybilglass/internal/model"
)

// TestLoadConfigFile tests loading and applying a YAML configuration file.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	content := `
similarity_threshold: 0.9
min_shared_substring: 8
lsh_cutover: 100
singleton_vanity_threshold: 0.6
vanity_weights:
  repeat_run: 2.0
  entropy: 0.5
cluster_score_weights:
  vanity: 0.7
  density: 0.3
workers: 4
top_preview: 5
`
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cf, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := NewConfig()
	cf.Apply(cfg)

	if cfg.SimilarityThreshold != 0.9 {
		t.Errorf("similarity threshold: got %f, expected 0.9", cfg.SimilarityThreshold)
	}
	if cfg.MinSharedSubstring != 8 {
		t.Errorf("min shared substring: got %d, expected 8", cfg.MinSharedSubstring)
	}
	if cfg.LSHCutover != 100 {
		t.Errorf("lsh cutover: got %d, expected 100", cfg.LSHCutover)
	}
	if cfg.SingletonVanityThreshold != 0.6 {
		t.Errorf("singleton threshold: got %f, expected 0.6", cfg.SingletonVanityThreshold)
	}
	if cfg.VanityWeights[model.FeatureRepeatRun] != 2.0 {
		t.Errorf("repeat_run weight: got %f, expected 2.0", cfg.VanityWeights[model.FeatureRepeatRun])
	}
	if cfg.VanityWeights[model.FeatureEntropy] != 0.5 {
		t.Errorf("entropy weight: got %f, expected 0.5", cfg.VanityWeights[model.FeatureEntropy])
	}
	// Features not listed keep their defaults.
	if cfg.VanityWeights[model.FeatureDiversity] != 1.0 {
		t.Errorf("diversity weight: got %f, expected default 1.0", cfg.VanityWeights[model.FeatureDiversity])
	}
	if cfg.ClusterVanityWeight != 0.7 || cfg.ClusterDensityWeight != 0.3 {
		t.Errorf("cluster weights: got %f/%f, expected 0.7/0.3",
			cfg.ClusterVanityWeight, cfg.ClusterDensityWeight)
	}
	if cfg.Workers != 4 {
		t.Errorf("workers: got %d, expected 4", cfg.Workers)
	}
	if cfg.TopPreview != 5 {
		t.Errorf("top preview: got %d, expected 5", cfg.TopPreview)
	}
	// Untouched fields keep their defaults.
	if cfg.HexLength != DefaultHexLength {
		t.Errorf("hex length: got %d, expected default %d", cfg.HexLength, DefaultHexLength)
	}
}

// TestLoadConfigFileNotFound tests the sentinel error for missing files.
func TestLoadConfigFileNotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("got %v, expected ErrConfigNotFound", err)
	}
}

// TestLoadConfigFileInvalidYAML tests that malformed YAML is an error.
func TestLoadConfigFileInvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte("similarity_threshold: [not a number"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadConfigFile(path); err == nil {
		t.Error("expected error for malformed YAML, got nil")
	}
}

// TestFindConfigFileExplicit tests explicit path resolution.
func TestFindConfigFileExplicit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("workers: 1\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if got := FindConfigFile(path); got != path {
		t.Errorf("got %q, expected %q", got, path)
	}

	if got := FindConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); got != "" {
		t.Errorf("got %q, expected empty string for missing explicit path", got)
	}
}
