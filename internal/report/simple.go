package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/sybilglass/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// printer renders counts with locale-aware grouping, so a
	// two-million-entry airdrop list reads as 2,000,000.
	printer *message.Printer

	// topPreview is the number of most suspicious addresses previewed.
	topPreview int

	// verbose adds the near-pair listing to the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithTopPreview sets the number of addresses in the suspicion preview.
func WithTopPreview(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.topPreview = n
	}
}

// WithVerbose enables verbose output with the near-pair listing.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		printer:    message.NewPrinter(language.English),
		topPreview: 10,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeClusters(&sb, report)
	w.writeSingletons(&sb, report)
	w.writePreview(&sb, report)
	if w.verbose {
		w.writePairs(&sb, report)
	}
	w.writeRejections(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        SYBILGLASS REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Source:        %s\n", report.Source))
	sb.WriteString(fmt.Sprintf("Generated:     %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Health:        %d/100\n", report.HealthScore()))
	sb.WriteString("\n")
}

// writeSummary writes the list-level aggregate section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.Report) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\nSUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	s := report.Summary
	sb.WriteString(w.printer.Sprintf("  Input entries:       %d\n", s.TotalInput))
	sb.WriteString(w.printer.Sprintf("  Unique addresses:    %d\n", s.UniqueAddresses))
	sb.WriteString(w.printer.Sprintf("  Duplicate entries:   %d\n", s.DuplicateEntries))
	sb.WriteString(w.printer.Sprintf("  Invalid entries:     %d\n", s.InvalidEntries))
	sb.WriteString(w.printer.Sprintf("  Near pairs:          %d\n", s.NearPairCount))
	sb.WriteString(w.printer.Sprintf("  Clusters:            %d (largest %d, %d addresses total)\n",
		s.ClusterCount, s.MaxClusterSize, s.ClusteredAddresses))
	sb.WriteString(w.printer.Sprintf("  High-vanity:         %d\n", s.HighVanityCount))
	sb.WriteString(fmt.Sprintf("  Health index:        %.2f (higher = riskier)\n", s.HealthIndex))
	sb.WriteString(w.printer.Sprintf("  Checksum mix:        lower %d / upper %d / mixed %d\n",
		s.Checksums.Lower, s.Checksums.Upper, s.Checksums.Mixed))

	if len(s.TopPrefixes) > 0 {
		sb.WriteString("  Top prefixes:        ")
		sb.WriteString(formatSegments(s.TopPrefixes))
		sb.WriteString("\n")
	}
	if len(s.TopSuffixes) > 0 {
		sb.WriteString("  Top suffixes:        ")
		sb.WriteString(formatSegments(s.TopSuffixes))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// formatSegments renders a collision table as "aaaa x3, bbbb x2".
func formatSegments(segments []model.SegmentCount) string {
	parts := make([]string, len(segments))
	for i, seg := range segments {
		parts[i] = fmt.Sprintf("%s x%d", seg.Segment, seg.Count)
	}
	return strings.Join(parts, ", ")
}

// writeClusters writes the near-duplicate cluster section.
func (w *SimpleWriter) writeClusters(sb *strings.Builder, report *model.Report) {
	if len(report.Clusters) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\nNEAR-DUPLICATE CLUSTERS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, c := range report.Clusters {
		sb.WriteString(fmt.Sprintf("[#%d] score %.3f | %d members | density %.2f | max vanity %.3f\n",
			c.ID, c.Score, c.Size(), c.Density, c.MaxVanity))
		for _, m := range c.Members {
			sb.WriteString(fmt.Sprintf("  0x%s\n", m))
		}
		sb.WriteString("\n")
	}
}

// writeSingletons writes the high-vanity singleton section.
func (w *SimpleWriter) writeSingletons(sb *strings.Builder, report *model.Report) {
	if len(report.Singletons) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\nHIGH-VANITY SINGLETONS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, s := range report.Singletons {
		sb.WriteString(fmt.Sprintf("  0x%s  score %.3f  (%s)\n", s.Address, s.Score, s.Dominant))
	}
	sb.WriteString("\n")
}

// writePreview writes the most suspicious addresses overall.
func (w *SimpleWriter) writePreview(sb *strings.Builder, report *model.Report) {
	top := report.TopSuspicious(w.topPreview)
	if len(top) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString(fmt.Sprintf("\nTOP %d BY VANITY SCORE\n", len(top)))
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, s := range top {
		flags := s.Dominant
		if s.Palindrome {
			flags += ", palindrome"
		}
		sb.WriteString(fmt.Sprintf("  0x%s  %.3f  (%s)\n", s.Address, s.Score, flags))
	}
	sb.WriteString("\n")
}

// writePairs writes the near-pair listing, verbose mode only.
func (w *SimpleWriter) writePairs(sb *strings.Builder, report *model.Report) {
	if len(report.NearPairs) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\nNEAR PAIRS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, p := range report.NearPairs {
		sb.WriteString(fmt.Sprintf("  0x%s ~ 0x%s  %.3f  %s\n", p.A, p.B, p.Score, p.Pattern))
	}
	sb.WriteString("\n")
}

// writeRejections writes the invalid-entry section.
func (w *SimpleWriter) writeRejections(sb *strings.Builder, report *model.Report) {
	if len(report.Rejections) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\nREJECTED ENTRIES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, r := range report.Rejections {
		sb.WriteString(fmt.Sprintf("  line %d: %q (%s)\n", r.Entry.Line, r.Entry.Token, r.Reason))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by sybilglass\n")
	sb.WriteString("https://github.com/nao1215/sybilglass\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
