package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/sybilglass/internal/model"
)

// ScoresCSVWriter exports the per-address vanity scores as CSV.
// One row per unique address, ordered by address value, so exports diff
// cleanly between runs.
type ScoresCSVWriter struct {
	baseWriter
}

// NewScoresCSVWriter creates a ScoresCSVWriter for the given output.
func NewScoresCSVWriter(output io.Writer) *ScoresCSVWriter {
	return &ScoresCSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the per-address score rows.
// The byte count is approximate: encoding/csv does not report it, so the
// count reflects the rendered row lengths.
func (w *ScoresCSVWriter) Write(report *model.Report) (int, error) {
	cw := csv.NewWriter(w.output)

	header := append([]string{"address", "score", "dominant", "entropy", "palindrome", "prefix4", "suffix4"},
		model.FeatureNames...)
	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	total := 0
	for _, s := range report.Scores {
		row := []string{
			"0x" + s.Address,
			strconv.FormatFloat(s.Score, 'f', 4, 64),
			s.Dominant,
			strconv.FormatFloat(s.Entropy, 'f', 4, 64),
			strconv.FormatBool(s.Palindrome),
			s.Prefix,
			s.Suffix,
		}
		for _, name := range model.FeatureNames {
			row = append(row, strconv.FormatFloat(s.Breakdown[name], 'f', 4, 64))
		}
		if err := cw.Write(row); err != nil {
			return total, fmt.Errorf("failed to write CSV row: %w", err)
		}
		for _, field := range row {
			total += len(field) + 1
		}
	}

	cw.Flush()
	return total, cw.Error()
}

// PairsCSVWriter exports the near-pair set as CSV.
// Rows are canonical (smaller address first) and ordered, matching the
// report's NearPairs slice.
type PairsCSVWriter struct {
	baseWriter
}

// NewPairsCSVWriter creates a PairsCSVWriter for the given output.
func NewPairsCSVWriter(output io.Writer) *PairsCSVWriter {
	return &PairsCSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the near-pair rows.
func (w *PairsCSVWriter) Write(report *model.Report) (int, error) {
	cw := csv.NewWriter(w.output)

	if err := cw.Write([]string{"addr1", "addr2", "score", "pattern"}); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	total := 0
	for _, p := range report.NearPairs {
		row := []string{
			"0x" + p.A,
			"0x" + p.B,
			strconv.FormatFloat(p.Score, 'f', 4, 64),
			p.Pattern,
		}
		if err := cw.Write(row); err != nil {
			return total, fmt.Errorf("failed to write CSV row: %w", err)
		}
		for _, field := range row {
			total += len(field) + 1
		}
	}

	cw.Flush()
	return total, cw.Error()
}
