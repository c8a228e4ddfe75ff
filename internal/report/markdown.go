package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/sybilglass/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeClusters(md, report)
	w.writeSingletons(md, report)
	w.writeRejections(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("Sybilglass Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", "`" + report.Source + "`"},
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Health", fmt.Sprintf("%d/100", report.HealthScore())},
		},
	})
	md.PlainText("")
}

// writeSummary writes the list-level aggregates with a checksum mix chart.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.Report) {
	md.H2("Summary")
	md.PlainText("")

	s := report.Summary
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Input entries", strconv.Itoa(s.TotalInput)},
			{"Unique addresses", strconv.Itoa(s.UniqueAddresses)},
			{"Duplicate entries", strconv.Itoa(s.DuplicateEntries)},
			{"Invalid entries", strconv.Itoa(s.InvalidEntries)},
			{"Near pairs", strconv.Itoa(s.NearPairCount)},
			{"Clusters", strconv.Itoa(s.ClusterCount)},
			{"Largest cluster", strconv.Itoa(s.MaxClusterSize)},
			{"Clustered addresses", strconv.Itoa(s.ClusteredAddresses)},
			{"High-vanity addresses", strconv.Itoa(s.HighVanityCount)},
			{"Health index", fmt.Sprintf("%.2f", s.HealthIndex)},
		},
	})
	md.PlainText("")

	if s.UniqueAddresses > 0 {
		w.writeChecksumChart(md, s.Checksums)
	}

	w.writeAlert(md, report)

	if len(s.TopPrefixes) > 0 || len(s.TopSuffixes) > 0 {
		w.writeSegmentTables(md, s)
	}
}

// writeChecksumChart writes a mermaid pie chart of the checksum casing mix.
func (w *MarkdownWriter) writeChecksumChart(md *markdown.Markdown, mix model.ChecksumMix) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Checksum Casing Mix"),
		piechart.WithShowData(true),
	)

	if mix.Lower > 0 {
		chart.LabelAndIntValue("lower", uint64(mix.Lower))
	}
	if mix.Upper > 0 {
		chart.LabelAndIntValue("upper", uint64(mix.Upper))
	}
	if mix.Mixed > 0 {
		chart.LabelAndIntValue("mixed (EIP-55)", uint64(mix.Mixed))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert matching the overall risk level.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.Report) {
	s := report.Summary
	switch {
	case s.HealthIndex >= 67:
		md.Cautionf(
			"This list shows strong farming signals: health index %.2f with %d cluster(s) covering %d addresses.",
			s.HealthIndex, s.ClusterCount, s.ClusteredAddresses,
		)
	case s.HealthIndex >= 34:
		md.Warningf(
			"This list shows moderate farming signals: health index %.2f. Review the clusters below.",
			s.HealthIndex,
		)
	case s.ClusterCount > 0 || s.HighVanityCount > 0:
		md.Importantf(
			"Low overall risk, but %d cluster(s) and %d high-vanity address(es) deserve a spot check.",
			s.ClusterCount, s.HighVanityCount,
		)
	default:
		md.Tip("No significant sybil signals detected.")
	}
	md.PlainText("")
}

// writeSegmentTables writes the prefix and suffix collision tables.
func (w *MarkdownWriter) writeSegmentTables(md *markdown.Markdown, s model.Summary) {
	md.H3("Segment Collisions")
	md.PlainText("")

	rows := make([][]string, 0, len(s.TopPrefixes)+len(s.TopSuffixes))
	for _, seg := range s.TopPrefixes {
		rows = append(rows, []string{"prefix", "`" + seg.Segment + "`", strconv.Itoa(seg.Count)})
	}
	for _, seg := range s.TopSuffixes {
		rows = append(rows, []string{"suffix", "`" + seg.Segment + "`", strconv.Itoa(seg.Count)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Segment", "Addresses"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeClusters writes the near-duplicate cluster tables.
func (w *MarkdownWriter) writeClusters(md *markdown.Markdown, report *model.Report) {
	md.H2("Near-Duplicate Clusters")
	md.PlainText("")

	if len(report.Clusters) == 0 {
		md.PlainText("No clusters found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Clusters))
	for i, c := range report.Clusters {
		rows[i] = []string{
			strconv.Itoa(c.ID),
			fmt.Sprintf("%.3f", c.Score),
			strconv.Itoa(c.Size()),
			fmt.Sprintf("%.2f", c.Density),
			fmt.Sprintf("%.3f", c.MaxVanity),
			"`0x" + truncateString(c.Key(), 16) + "`",
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"ID", "Score", "Members", "Density", "Max Vanity", "Lowest Member"},
		Rows:   rows,
	})
	md.PlainText("")

	// Full member lists collapse behind details blocks to keep large
	// reports scannable.
	for _, c := range report.Clusters {
		members := ""
		for _, m := range c.Members {
			members += "0x" + m + "<br>"
		}
		md.Details(fmt.Sprintf("Cluster %d members", c.ID), members)
	}
	md.PlainText("")
}

// writeSingletons writes the high-vanity singleton table.
func (w *MarkdownWriter) writeSingletons(md *markdown.Markdown, report *model.Report) {
	md.H2("High-Vanity Singletons")
	md.PlainText("")

	if len(report.Singletons) == 0 {
		md.PlainText("No high-vanity singletons found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Singletons))
	for i, s := range report.Singletons {
		rows[i] = []string{
			"`0x" + s.Address + "`",
			fmt.Sprintf("%.3f", s.Score),
			s.Dominant,
			fmt.Sprintf("%.2f", s.Entropy),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Address", "Score", "Dominant Feature", "Entropy"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeRejections writes the invalid-entry table.
func (w *MarkdownWriter) writeRejections(md *markdown.Markdown, report *model.Report) {
	if len(report.Rejections) == 0 {
		return
	}

	md.H2("Rejected Entries")
	md.PlainText("")

	rows := make([][]string, len(report.Rejections))
	for i, r := range report.Rejections {
		rows[i] = []string{
			strconv.Itoa(r.Entry.Line),
			"`" + truncateString(r.Entry.Token, 50) + "`",
			r.Reason.String(),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Line", "Token", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [sybilglass](https://github.com/nao1215/sybilglass)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
