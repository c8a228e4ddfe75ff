package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/sybilglass/internal/config"
	"github.com/nao1215/sybilglass/internal/database"
	"github.com/nao1215/sybilglass/internal/input"
	"github.com/nao1215/sybilglass/internal/log"
	"github.com/nao1215/sybilglass/internal/model"
	"github.com/nao1215/sybilglass/internal/pipeline"
	"github.com/nao1215/sybilglass/internal/report"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Analyze EVM address lists for sybil farming signals",
		Long: `Analyze reads one or more address list files and reports sybil signals.

Input files may be plain text (one address per line), CSV (an "address"
column or the first column), or JSON (an array of strings or of objects
with an "address" field). Use "-" to read from stdin.

The analysis runs entirely offline and detects:
- Near-duplicate address pairs (a few hex digits apart)
- Vanity-generated addresses (repeats, patterns, low entropy)
- Clusters of related addresses built from the near-pair graph
- Duplicate and malformed entries

Examples:
  # Analyze a recipient list
  sybilglass analyze wave1.txt

  # Analyze from stdin
  cat recipients.csv | sybilglass analyze -

  # Multiple lists, one report each
  sybilglass analyze wave1.txt wave2.txt wave3.txt

  # Multiple lists merged into a single analysis
  sybilglass analyze --merge wave1.txt wave2.txt

  # JSON report to a file, plus CSV exports
  sybilglass analyze --json -o report.json --scores-csv scores.csv wave1.txt

  # Stricter pairing threshold
  sybilglass analyze --threshold 0.9 wave1.txt`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	// Analysis tuning flags
	cmd.Flags().Float64P("threshold", "t", config.DefaultSimilarityThreshold,
		"Minimum composite similarity for a near pair (0..1)")
	cmd.Flags().Int("hex-length", config.DefaultHexLength,
		"Expected address payload length in hex digits")
	cmd.Flags().Int("min-shared", config.DefaultMinSharedSubstring,
		"Minimum aligned shared-run length that earns a substring bonus")
	cmd.Flags().Int("lsh-cutover", config.DefaultLSHCutover,
		"List size above which candidate pairs come from signature bucketing (0 disables)")
	cmd.Flags().Int("lsh-window", config.DefaultLSHWindow,
		"Bucketing window length in hex digits")
	cmd.Flags().Int("lsh-stride", config.DefaultLSHStride,
		"Offset step between bucketing windows")
	cmd.Flags().Float64("singleton-threshold", config.DefaultSingletonVanityThreshold,
		"Minimum vanity score for an unclustered address to be reported")
	cmd.Flags().IntP("workers", "w", 0,
		"Scoring goroutine count (0 = one per CPU)")

	// Input handling flags
	cmd.Flags().Bool("merge", false,
		"Analyze all input files as a single combined list")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sybilglass in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Int("top", config.DefaultTopPreview,
		"Number of most suspicious addresses in the console preview")
	cmd.Flags().String("scores-csv", "",
		"Write per-address vanity scores to the specified CSV file")
	cmd.Flags().String("pairs-csv", "",
		"Write near-duplicate pairs to the specified CSV file")
	cmd.Flags().String("svg-badge", "",
		"Write an SVG health badge to the specified file")

	// Privacy and persistence flags
	cmd.Flags().Bool("mask", false,
		"Abbreviate address values in log output")
	cmd.Flags().Bool("no-save", false,
		"Skip saving the run to the history database")
	cmd.Flags().String("db-dir", "",
		"Directory holding the history database (default: XDG data directory)")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	merge, err := cmd.Flags().GetBool("merge")
	if err != nil {
		return err
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose, cfg.MaskAddresses)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAnalyze(ctx, cfg, merge, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the configuration file and cobra flags.
// File values override defaults, explicit flags override the file, so the
// precedence a user sees is flags > file > defaults.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	configPathFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configPathFlag

	// Load settings from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently continue on defaults.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if err := applyAnalysisFlags(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	cfg.ScoresCSVFile, err = cmd.Flags().GetString("scores-csv")
	if err != nil {
		return nil, err
	}
	cfg.PairsCSVFile, err = cmd.Flags().GetString("pairs-csv")
	if err != nil {
		return nil, err
	}
	cfg.BadgeFile, err = cmd.Flags().GetString("svg-badge")
	if err != nil {
		return nil, err
	}

	cfg.MaskAddresses, err = cmd.Flags().GetBool("mask")
	if err != nil {
		return nil, err
	}
	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments are the input files
	cfg.Inputs = args

	return cfg, nil
}

// applyAnalysisFlags copies explicitly set tuning flags onto the config.
// Unset flags keep whatever the config file (or the defaults) provided.
func applyAnalysisFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("threshold") {
		if cfg.SimilarityThreshold, err = flags.GetFloat64("threshold"); err != nil {
			return err
		}
	}
	if flags.Changed("hex-length") {
		if cfg.HexLength, err = flags.GetInt("hex-length"); err != nil {
			return err
		}
	}
	if flags.Changed("min-shared") {
		if cfg.MinSharedSubstring, err = flags.GetInt("min-shared"); err != nil {
			return err
		}
	}
	if flags.Changed("lsh-cutover") {
		if cfg.LSHCutover, err = flags.GetInt("lsh-cutover"); err != nil {
			return err
		}
	}
	if flags.Changed("lsh-window") {
		if cfg.LSHWindow, err = flags.GetInt("lsh-window"); err != nil {
			return err
		}
	}
	if flags.Changed("lsh-stride") {
		if cfg.LSHStride, err = flags.GetInt("lsh-stride"); err != nil {
			return err
		}
	}
	if flags.Changed("singleton-threshold") {
		if cfg.SingletonVanityThreshold, err = flags.GetFloat64("singleton-threshold"); err != nil {
			return err
		}
	}
	if flags.Changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return err
		}
	}
	if flags.Changed("top") {
		if cfg.TopPreview, err = flags.GetInt("top"); err != nil {
			return err
		}
	}

	return nil
}

// runAnalyze executes the analysis.
func runAnalyze(ctx context.Context, cfg *config.Config, merge bool, logger *slog.Logger) error {
	logger.Info("starting analysis",
		"inputs", cfg.Inputs,
		"threshold", cfg.SimilarityThreshold,
		"merge", merge,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.RunDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	reader := input.NewReader(input.WithLogger(logger))

	if merge || len(cfg.Inputs) == 1 {
		return runSingleAnalysis(ctx, cfg, merge, reader, db, logger)
	}
	return runBatchAnalysis(ctx, cfg, reader, db, logger)
}

// runSingleAnalysis analyzes one input, or all inputs merged into one list.
func runSingleAnalysis(ctx context.Context, cfg *config.Config, merge bool, reader *input.Reader, db *database.RunDB, logger *slog.Logger) error {
	source := sourceLabel(cfg.Inputs[0])
	var entries []model.RawEntry
	var err error

	if merge {
		source = mergedLabel(cfg.Inputs)
		entries, err = reader.ReadAll(cfg.Inputs)
	} else {
		entries, err = reader.Read(cfg.Inputs[0])
	}
	if err != nil {
		return err
	}

	fmt.Printf("Analyzing %s (%d entries)...\n", source, len(entries))
	startTime := time.Now()

	rep, err := pipeline.Analyze(ctx, cfg, source, entries, pipeline.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("analysis of %s failed: %w", source, err)
	}

	fmt.Printf("Analysis completed in %s\n\n", time.Since(startTime).Round(time.Millisecond))

	if err := outputReport(cfg, rep, false); err != nil {
		return err
	}
	return saveReport(ctx, db, rep, logger)
}

// runBatchAnalysis analyzes multiple inputs concurrently, one report each.
func runBatchAnalysis(ctx context.Context, cfg *config.Config, reader *input.Reader, db *database.RunDB, logger *slog.Logger) error {
	inputs := make([]pipeline.BatchInput, 0, len(cfg.Inputs))
	for _, src := range cfg.Inputs {
		entries, err := reader.Read(src)
		if err != nil {
			return err
		}
		inputs = append(inputs, pipeline.BatchInput{
			Source:  sourceLabel(src),
			Entries: entries,
		})
	}

	fmt.Printf("Analyzing %d lists...\n\n", len(inputs))
	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline(cfg, pipeline.WithLogger(logger))
		},
		pipeline.WithBatchLogger(logger),
	)

	results, err := bp.ProcessBatch(ctx, inputs)
	if err != nil {
		return err
	}

	var failed int
	for i, result := range results {
		fmt.Printf("[%d/%d] %s\n", i+1, len(results), result.Source)

		if result.Err != nil {
			failed++
			logger.Error("analysis failed", "source", result.Source, "error", result.Err)
			fmt.Fprintf(os.Stderr, "Analysis error for %s: %v\n", result.Source, result.Err)
			continue
		}

		if err := outputReport(cfg, result.Report, true); err != nil {
			logger.Error("report failed", "source", result.Source, "error", err)
		}
		if err := saveReport(ctx, db, result.Report, logger); err != nil {
			logger.Error("failed to save report", "source", result.Source, "error", err)
		}
	}

	fmt.Printf("\nBatch analysis completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	if failed == len(results) {
		return errors.New("every input failed to analyze")
	}
	return nil
}

// sourceLabel converts an input path to the source label used in reports.
func sourceLabel(src string) string {
	if src == "-" {
		return "stdin"
	}
	return filepath.Base(src)
}

// mergedLabel joins all input labels for a merged run.
func mergedLabel(inputs []string) string {
	labels := make([]string, 0, len(inputs))
	for _, src := range inputs {
		labels = append(labels, sourceLabel(src))
	}
	return strings.Join(labels, "+")
}

// outputReport writes the report in the requested format, plus any
// configured side exports (CSV files, SVG badge).
func outputReport(cfg *config.Config, rep *model.Report, multi bool) error {
	writer, closeFn, err := primaryWriter(cfg, rep, multi)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := writer.Write(rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return writeSideExports(cfg, rep, multi)
}

// primaryWriter builds the main report writer and its cleanup function.
func primaryWriter(cfg *config.Config, rep *model.Report, multi bool) (report.Writer, func(), error) {
	output := os.Stdout
	closeFn := func() {}

	if cfg.ReportFile != "" {
		f, err := createOutputFile(perSourcePath(cfg.ReportFile, rep.Source, multi))
		if err != nil {
			return nil, nil, err
		}
		output = f
		closeFn = func() { f.Close() }
	}

	if cfg.JSONReport {
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion())), closeFn, nil
	}
	if cfg.MarkdownReport {
		return report.NewMarkdownWriter(output), closeFn, nil
	}
	return report.NewSimpleWriter(output,
		report.WithTopPreview(cfg.TopPreview),
		report.WithVerbose(cfg.Verbose),
	), closeFn, nil
}

// writeSideExports writes the optional CSV and badge files.
func writeSideExports(cfg *config.Config, rep *model.Report, multi bool) error {
	exports := []struct {
		path string
		make func(f *os.File) report.Writer
	}{
		{cfg.ScoresCSVFile, func(f *os.File) report.Writer { return report.NewScoresCSVWriter(f) }},
		{cfg.PairsCSVFile, func(f *os.File) report.Writer { return report.NewPairsCSVWriter(f) }},
		{cfg.BadgeFile, func(f *os.File) report.Writer { return report.NewBadgeWriter(f) }},
	}

	for _, export := range exports {
		if export.path == "" {
			continue
		}
		path := perSourcePath(export.path, rep.Source, multi)
		f, err := createOutputFile(path)
		if err != nil {
			return err
		}
		_, err = export.make(f).Write(rep)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Printf("Wrote %s\n", path)
	}

	return nil
}

// perSourcePath derives a per-source file path for batch runs so reports
// from different inputs never overwrite each other. Single runs use the
// path as given.
func perSourcePath(path, source string, multi bool) string {
	if !multi {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	safe := strings.ReplaceAll(source, string(filepath.Separator), "_")
	return stem + "." + safe + ext
}

// createOutputFile creates the file and any missing parent directories.
// Reports over confidential recipient lists stay owner-readable only.
func createOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // user-chosen output path
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// saveReport saves the report to the history database if enabled.
// If db is nil, this function is a no-op.
func saveReport(ctx context.Context, db *database.RunDB, rep *model.Report, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveRun(ctx, rep)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	logger.Info("run saved to database", "source", rep.Source, "runID", id)
	return nil
}
