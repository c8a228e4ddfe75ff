package report

import (
	"fmt"
	"io"

	"github.com/nao1215/sybilglass/internal/model"
)

// Badge colors by health band: green for healthy, amber for questionable,
// red for risky.
const (
	badgeGreen = "#3fb950"
	badgeAmber = "#d29922"
	badgeRed   = "#f85149"

	healthyFloor      = 66
	questionableFloor = 33
)

// badgeTemplate is the rendered SVG. The layout is fixed-size so the badge
// embeds cleanly in README files.
const badgeTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="370" height="48" role="img" aria-label="Airdrop list health">
  <rect width="370" height="48" fill="#0d1117" rx="8"/>
  <text x="16" y="30" font-family="Segoe UI, Inter, Arial" font-size="16" fill="#e6edf3">
    sybilglass: health %d/100
  </text>
  <circle cx="345" cy="24" r="6" fill="%s"/>
</svg>
`

// BadgeWriter renders the list health as a small SVG badge.
//
// Design decision: The SVG is a fixed template with two substitutions, so
// text/template would be ceremony without benefit. fmt.Fprintf keeps the
// badge a single readable constant.
type BadgeWriter struct {
	baseWriter
}

// NewBadgeWriter creates a BadgeWriter for the given output.
func NewBadgeWriter(output io.Writer) *BadgeWriter {
	return &BadgeWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the badge for the report's health score.
func (w *BadgeWriter) Write(report *model.Report) (int, error) {
	health := report.HealthScore()

	color := badgeRed
	switch {
	case health >= healthyFloor:
		color = badgeGreen
	case health >= questionableFloor:
		color = badgeAmber
	}

	return fmt.Fprintf(w.output, badgeTemplate, health, color)
}
