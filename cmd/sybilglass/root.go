// Package main provides the entry point for the sybilglass CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sybilglass.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sybilglass",
		Short: "Offline sybil-farming analyzer for EVM address lists",
		Long: `Sybilglass analyzes lists of EVM addresses for signs of sybil farming.

It works entirely offline on the address strings themselves: near-duplicate
detection finds addresses a few hex digits apart, vanity scoring finds
addresses with improbable structure, and clustering groups related addresses
into likely farm wallets. Results roll up into a list health index.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewExplainCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
