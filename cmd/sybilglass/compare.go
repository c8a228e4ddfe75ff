package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/sybilglass/internal/config"
	"github.com/nao1215/sybilglass/internal/database"
	"github.com/nao1215/sybilglass/internal/model"
)

// Constants for health direction and summary messages.
const (
	healthDirectionWorsened  = "worsened"
	healthDirectionImproved  = "improved"
	healthDirectionUnchanged = "unchanged"
)

// NewCompareCmd creates the compare command.
// This command compares analysis runs stored in the history database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [source]",
		Short: "Compare analysis runs with historical data",
		Long: `Compare displays differences between the latest two analysis runs of a list.

This command retrieves run history from the database and shows:
- Changes in the health index and headline counts
- Clusters that appeared since the previous run
- Clusters that are no longer present

The comparison requires at least two saved runs for the specified source.
Use 'sybilglass analyze' to run analyses and save results.

Examples:
  # Compare the latest two runs of a list
  sybilglass compare wave1.txt

  # List run history for a list
  sybilglass compare --list wave1.txt

  # Compare the latest run with a specific historical run by ID
  sybilglass compare --with-run-id 5 wave1.txt

  # Output comparison in JSON format
  sybilglass compare --json wave1.txt

  # List all analyzed sources in the database
  sybilglass compare --list-sources`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List run history for the specified source")
	cmd.Flags().BoolP("list-sources", "L", false,
		"List all analyzed sources in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare with a specific run by ID (use --list to see available IDs)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")

	// Database location (defaults to the XDG data directory)
	cmd.Flags().String("db-dir", "",
		"Directory holding the history database (default: XDG data directory)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	listSources, err := cmd.Flags().GetBool("list-sources")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database
	var source string
	if !listSources {
		if len(args) == 0 {
			return errors.New("source is required (use --list-sources to see available sources)")
		}
		source = args[0]
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listSources {
		return listAnalyzedSources(ctx, db, cmd)
	}

	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listRunHistory(ctx, db, source, cmd)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, source, withRunID, jsonOutput, cmd)
}

// listAnalyzedSources lists all sources that have runs in the database.
func listAnalyzedSources(ctx context.Context, db *database.RunDB, cmd *cobra.Command) error {
	runs, err := db.ListRuns(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No analysis runs found in the database.")
		fmt.Fprintln(out, "\nUse 'sybilglass analyze <file>' to analyze an address list.")
		return nil
	}

	counts := make(map[string]int)
	var sources []string
	for _, meta := range runs {
		if counts[meta.Source] == 0 {
			sources = append(sources, meta.Source)
		}
		counts[meta.Source]++
	}
	sort.Strings(sources)

	fmt.Fprintf(out, "Analyzed sources (%d):\n\n", len(sources))
	for _, source := range sources {
		fmt.Fprintf(out, "  %s (%d runs)\n", source, counts[source])
	}
	fmt.Fprintln(out, "\nUse 'sybilglass compare --list <source>' to see run history for a source.")

	return nil
}

// listRunHistory lists all runs for a specific source.
func listRunHistory(ctx context.Context, db *database.RunDB, source string, cmd *cobra.Command) error {
	runs, err := db.ListRuns(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintf(out, "No run history found for %s\n", source)
		fmt.Fprintln(out, "\nUse 'sybilglass analyze' to analyze this list.")
		return nil
	}

	fmt.Fprintf(out, "Run history for %s (%d runs):\n\n", source, len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-8s  %-9s  %-7s  %s\n",
		"ID", "Date", "Health", "Clusters", "Pairs", "High-Vanity")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 70))

	for _, meta := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-8d  %-9d  %-7d  %d\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			healthScore(meta.Summary.HealthIndex),
			meta.Summary.ClusterCount,
			meta.Summary.NearPairCount,
			meta.Summary.HighVanityCount,
		)
	}

	fmt.Fprintln(out, "\nUse 'sybilglass compare <source>' to compare the latest two runs.")
	fmt.Fprintln(out, "Use 'sybilglass compare --with-run-id <id> <source>' to compare with a specific run.")

	return nil
}

// runComparison performs the actual comparison between two runs.
func runComparison(ctx context.Context, db *database.RunDB, source string, withRunID int64, jsonOutput bool, cmd *cobra.Command) error {
	latest, err := db.LatestRuns(ctx, source, 2)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(latest) == 0 {
		return fmt.Errorf("no run history found for %s", source)
	}
	if len(latest) < 2 && withRunID == 0 {
		return fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(latest))
	}

	// Latest run is always the current one
	current := latest[0]

	var previous *model.Report
	if withRunID > 0 {
		previous, err = db.GetRun(ctx, withRunID)
		if err != nil {
			return fmt.Errorf("failed to get run with ID %d: %w", withRunID, err)
		}
		if previous == nil {
			return fmt.Errorf("run with ID %d not found", withRunID)
		}
		if previous.Source != source {
			return fmt.Errorf("run ID %d belongs to %s, not %s", withRunID, previous.Source, source)
		}
	} else {
		previous = latest[1]
	}

	comparison := compareRuns(previous, current)

	if jsonOutput {
		return outputComparisonJSON(comparison, cmd)
	}
	return outputComparisonText(comparison, cmd)
}

// ComparisonResult holds the result of comparing two analysis runs.
type ComparisonResult struct {
	// Source is the analyzed input list label.
	Source string `json:"source"`

	// PreviousRun contains metadata about the previous run.
	PreviousRun RunSnapshot `json:"previous_run"`

	// CurrentRun contains metadata about the current run.
	CurrentRun RunSnapshot `json:"current_run"`

	// NewClusters contains keys of clusters that appeared since the
	// previous run. A cluster key is its lowest member address.
	NewClusters []string `json:"new_clusters,omitempty"`

	// ResolvedClusters contains keys of clusters from the previous run
	// that are no longer present.
	ResolvedClusters []string `json:"resolved_clusters,omitempty"`

	// UnchangedClusters is the number of clusters present in both runs.
	UnchangedClusters int `json:"unchanged_clusters"`

	// HealthChange describes the overall change in list health.
	HealthChange HealthChange `json:"health_change"`
}

// RunSnapshot contains metadata about a run for comparison display.
type RunSnapshot struct {
	// GeneratedAt is when the run was performed.
	GeneratedAt time.Time `json:"generated_at"`

	// HealthScore is the 0..100 list health score (higher is healthier).
	HealthScore int `json:"health_score"`

	// UniqueAddresses is the number of unique addresses analyzed.
	UniqueAddresses int `json:"unique_addresses"`

	// ClusterCount is the number of near-duplicate clusters.
	ClusterCount int `json:"cluster_count"`

	// NearPairCount is the number of near-duplicate pairs.
	NearPairCount int `json:"near_pair_count"`

	// HighVanityCount is the number of high-vanity addresses.
	HighVanityCount int `json:"high_vanity_count"`
}

// HealthChange describes the change in list health between runs.
type HealthChange struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// HealthDelta is the change in health score (positive means healthier).
	HealthDelta int `json:"health_delta"`

	// ClusterDelta is the change in cluster count.
	ClusterDelta int `json:"cluster_delta"`

	// NearPairDelta is the change in near-pair count.
	NearPairDelta int `json:"near_pair_delta"`

	// HighVanityDelta is the change in high-vanity address count.
	HighVanityDelta int `json:"high_vanity_delta"`
}

// compareRuns compares two runs and generates a comparison result.
func compareRuns(previous, current *model.Report) *ComparisonResult {
	result := &ComparisonResult{
		Source:      current.Source,
		PreviousRun: snapshot(previous),
		CurrentRun:  snapshot(current),
	}

	// Clusters match across runs by key (lowest member address).
	previousClusters := make(map[string]bool, len(previous.Clusters))
	for _, c := range previous.Clusters {
		previousClusters[c.Key()] = true
	}
	currentClusters := make(map[string]bool, len(current.Clusters))
	for _, c := range current.Clusters {
		currentClusters[c.Key()] = true
	}

	for key := range currentClusters {
		if !previousClusters[key] {
			result.NewClusters = append(result.NewClusters, key)
		}
	}
	for key := range previousClusters {
		if currentClusters[key] {
			result.UnchangedClusters++
		} else {
			result.ResolvedClusters = append(result.ResolvedClusters, key)
		}
	}
	sort.Strings(result.NewClusters)
	sort.Strings(result.ResolvedClusters)

	result.HealthChange = calculateHealthChange(result.PreviousRun, result.CurrentRun)

	return result
}

// snapshot extracts the comparison-relevant fields of a report.
func snapshot(r *model.Report) RunSnapshot {
	return RunSnapshot{
		GeneratedAt:     r.GeneratedAt,
		HealthScore:     r.HealthScore(),
		UniqueAddresses: r.Summary.UniqueAddresses,
		ClusterCount:    r.Summary.ClusterCount,
		NearPairCount:   r.Summary.NearPairCount,
		HighVanityCount: r.Summary.HighVanityCount,
	}
}

// calculateHealthChange calculates the change in health between two runs.
func calculateHealthChange(previous, current RunSnapshot) HealthChange {
	change := HealthChange{
		HealthDelta:     current.HealthScore - previous.HealthScore,
		ClusterDelta:    current.ClusterCount - previous.ClusterCount,
		NearPairDelta:   current.NearPairCount - previous.NearPairCount,
		HighVanityDelta: current.HighVanityCount - previous.HighVanityCount,
	}

	switch {
	case change.HealthDelta > 0:
		change.Direction = healthDirectionImproved
	case change.HealthDelta < 0:
		change.Direction = healthDirectionWorsened
	default:
		change.Direction = healthDirectionUnchanged
	}

	return change
}

// healthScore converts a health index to the 0..100 display score.
func healthScore(index float64) int {
	score := 100 - int(index+0.5)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult, cmd *cobra.Command) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(result *ComparisonResult, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Run Comparison: %s\n", result.Source)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nHealth Status: %s\n", formatHealthDirection(result.HealthChange.Direction))

	fmt.Fprintf(out, "\nPrevious run: %s\n", result.PreviousRun.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Current run:  %s\n", result.CurrentRun.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintln(out, "\nSummary:")
	fmt.Fprintf(out, "  %-16s  %-10s  %-10s  %-10s\n", "Metric", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 52))
	fmt.Fprintf(out, "  %-16s  %-10d  %-10d  %-10s\n", "Health score",
		result.PreviousRun.HealthScore, result.CurrentRun.HealthScore,
		formatDelta(result.HealthChange.HealthDelta))
	fmt.Fprintf(out, "  %-16s  %-10d  %-10d  %-10s\n", "Unique addrs",
		result.PreviousRun.UniqueAddresses, result.CurrentRun.UniqueAddresses,
		formatDelta(result.CurrentRun.UniqueAddresses-result.PreviousRun.UniqueAddresses))
	fmt.Fprintf(out, "  %-16s  %-10d  %-10d  %-10s\n", "Clusters",
		result.PreviousRun.ClusterCount, result.CurrentRun.ClusterCount,
		formatDelta(result.HealthChange.ClusterDelta))
	fmt.Fprintf(out, "  %-16s  %-10d  %-10d  %-10s\n", "Near pairs",
		result.PreviousRun.NearPairCount, result.CurrentRun.NearPairCount,
		formatDelta(result.HealthChange.NearPairDelta))
	fmt.Fprintf(out, "  %-16s  %-10d  %-10d  %-10s\n", "High vanity",
		result.PreviousRun.HighVanityCount, result.CurrentRun.HighVanityCount,
		formatDelta(result.HealthChange.HighVanityDelta))

	if len(result.NewClusters) > 0 {
		fmt.Fprintf(out, "\nNew Clusters (%d):\n", len(result.NewClusters))
		for _, key := range result.NewClusters {
			fmt.Fprintf(out, "  [+] 0x%s\n", key)
		}
	}

	if len(result.ResolvedClusters) > 0 {
		fmt.Fprintf(out, "\nResolved Clusters (%d):\n", len(result.ResolvedClusters))
		for _, key := range result.ResolvedClusters {
			fmt.Fprintf(out, "  [-] 0x%s\n", key)
		}
	}

	if result.UnchangedClusters > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d clusters\n", result.UnchangedClusters)
	}

	return nil
}

// formatHealthDirection formats the health change direction for display.
func formatHealthDirection(direction string) string {
	switch direction {
	case healthDirectionImproved:
		return "IMPROVED (list looks healthier)"
	case healthDirectionWorsened:
		return "WORSENED (sybil signals increased)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
