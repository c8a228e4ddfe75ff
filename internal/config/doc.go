// Package config provides configuration structures and utilities for
// sybilglass. It defines the analysis thresholds and weights, report output
// preferences, and the YAML configuration file loader.
package config
