package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".sybilglass"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// ClusterWeights is the cluster aggregate score combiner in the
// configuration file.
type ClusterWeights struct {
	// Vanity is the weight of the maximum member vanity score.
	Vanity float64 `yaml:"vanity"`

	// Density is the weight of the internal edge density.
	Density float64 `yaml:"density"`
}

// File represents the structure of the .sybilglass configuration file.
// Every field is optional; unset fields keep their defaults. Pointer fields
// distinguish "unset" from an explicit zero, which matters for thresholds
// where zero is a legal value.
type File struct {
	// HexLength overrides the expected address payload length.
	HexLength *int `yaml:"hex_length,omitempty"`

	// SimilarityThreshold overrides the near-pair threshold.
	SimilarityThreshold *float64 `yaml:"similarity_threshold,omitempty"`

	// MinSharedSubstring overrides the minimum aligned shared-run length.
	MinSharedSubstring *int `yaml:"min_shared_substring,omitempty"`

	// LSHCutover overrides the bucketing cutover list size.
	LSHCutover *int `yaml:"lsh_cutover,omitempty"`

	// LSHWindow overrides the bucketing window length.
	LSHWindow *int `yaml:"lsh_window,omitempty"`

	// LSHStride overrides the bucketing window stride.
	LSHStride *int `yaml:"lsh_stride,omitempty"`

	// SingletonVanityThreshold overrides the singleton reporting threshold.
	SingletonVanityThreshold *float64 `yaml:"singleton_vanity_threshold,omitempty"`

	// VanityWeights overrides individual vanity feature weights.
	// Features not listed keep their default weight.
	VanityWeights map[string]float64 `yaml:"vanity_weights,omitempty"`

	// ClusterScoreWeights overrides the cluster aggregate combiner.
	ClusterScoreWeights *ClusterWeights `yaml:"cluster_score_weights,omitempty"`

	// Workers overrides the scoring goroutine count.
	Workers *int `yaml:"workers,omitempty"`

	// TopPreview overrides the console preview size.
	TopPreview *int `yaml:"top_preview,omitempty"`
}

// LoadConfigFile loads analysis settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Apply copies every set field of the file onto the configuration.
// Validation happens afterwards on the merged Config, so out-of-range file
// values produce the same fatal errors as out-of-range flags.
func (cf *File) Apply(cfg *Config) {
	if cf.HexLength != nil {
		cfg.HexLength = *cf.HexLength
	}
	if cf.SimilarityThreshold != nil {
		cfg.SimilarityThreshold = *cf.SimilarityThreshold
	}
	if cf.MinSharedSubstring != nil {
		cfg.MinSharedSubstring = *cf.MinSharedSubstring
	}
	if cf.LSHCutover != nil {
		cfg.LSHCutover = *cf.LSHCutover
	}
	if cf.LSHWindow != nil {
		cfg.LSHWindow = *cf.LSHWindow
	}
	if cf.LSHStride != nil {
		cfg.LSHStride = *cf.LSHStride
	}
	if cf.SingletonVanityThreshold != nil {
		cfg.SingletonVanityThreshold = *cf.SingletonVanityThreshold
	}
	for name, weight := range cf.VanityWeights {
		cfg.VanityWeights[name] = weight
	}
	if cf.ClusterScoreWeights != nil {
		cfg.ClusterVanityWeight = cf.ClusterScoreWeights.Vanity
		cfg.ClusterDensityWeight = cf.ClusterScoreWeights.Density
	}
	if cf.Workers != nil {
		cfg.Workers = *cf.Workers
	}
	if cf.TopPreview != nil {
		cfg.TopPreview = *cf.TopPreview
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .sybilglass in the current directory
// 3. Look for .sybilglass in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
