package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/sybilglass.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = ".sybilglass"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new sybilglass configuration file",
		Long: `Initialize creates a new .sybilglass configuration file in the current directory.

The generated file includes:
- All analysis thresholds with their default values
- Vanity feature weights and cluster score weights
- Documentation for every available option

Examples:
  # Create .sybilglass in current directory
  sybilglass init

  # Create config file at a specific path
  sybilglass init -o myconfig.yaml

  # Force overwrite existing file
  sybilglass init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := configTemplate.ReadFile("templates/sybilglass.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write configuration file
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to tune the analysis, for example:")
	fmt.Fprintln(out, "  - The near-pair similarity threshold")
	fmt.Fprintln(out, "  - Vanity feature weights")
	fmt.Fprintln(out, "  - The bucketing cutover for very large lists")

	return nil
}
