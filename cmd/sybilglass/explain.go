package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/sybilglass/internal/config"
	"github.com/nao1215/sybilglass/internal/model"
	"github.com/nao1215/sybilglass/internal/normalize"
	"github.com/nao1215/sybilglass/internal/similarity"
	"github.com/nao1215/sybilglass/internal/vanity"
)

// NewExplainCmd creates the explain command.
func NewExplainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain [address] [address]",
		Short: "Explain the heuristics, a single address, or an address pair",
		Long: `Explain describes the analysis heuristics and how to interpret results.

With no arguments it prints documentation for every signal and the health
index. With one address it prints that address's vanity score breakdown.
With two addresses it prints their similarity score and the matched
pattern, exactly as the analyze command would compute them.

Examples:
  # Describe the heuristics
  sybilglass explain

  # Score a single address
  sybilglass explain 0x1111111111111111111111111111111111111aaa

  # Score an address pair
  sybilglass explain 0xaaaa...0001 0xaaaa...0002`,
		Args: cobra.MaximumNArgs(2),
		RunE: runExplainCmd,
	}

	cmd.Flags().Int("hex-length", config.DefaultHexLength,
		"Expected address payload length in hex digits")
	cmd.Flags().Int("min-shared", config.DefaultMinSharedSubstring,
		"Minimum aligned shared-run length that earns a substring bonus")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// runExplainCmd executes the explain command.
func runExplainCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	hexLength, err := cmd.Flags().GetInt("hex-length")
	if err != nil {
		return err
	}
	minShared, err := cmd.Flags().GetInt("min-shared")
	if err != nil {
		return err
	}

	switch len(args) {
	case 0:
		return explainHeuristics(cmd, jsonOutput)
	case 1:
		return explainAddress(cmd, args[0], hexLength, jsonOutput)
	default:
		return explainPair(cmd, args[0], args[1], hexLength, minShared, jsonOutput)
	}
}

// heuristicsDoc is the machine-readable heuristics documentation.
type heuristicsDoc struct {
	Signals     map[string]string `json:"signals"`
	HealthIndex string            `json:"health_index"`
	Advice      []string          `json:"advice"`
}

// explainDoc returns the documentation for every analysis signal.
func explainDoc() heuristicsDoc {
	return heuristicsDoc{
		Signals: map[string]string{
			"near_pairs":               "Addresses very close in 160-bit space suggest scripted or vanity derivation. Similarity blends position-weighted digit agreement with aligned shared runs.",
			"prefix_suffix_collisions": "Many addresses sharing the same first or last 4 hex digits point at a common generator.",
			"checksum_style":           "Mixed-case (EIP-55) vs all-lower or all-upper; skew may indicate a generation pipeline.",
			"vanity_runs":              "Long runs of the same hex digit (e.g. 000000) are rare in random addresses.",
			"entropy":                  "Per-digit Shannon entropy; unusually low may mean constrained generation.",
			"clusters":                 "Connected groups of near pairs. Dense clusters of high-vanity addresses are the strongest sybil signal.",
		},
		HealthIndex: "0..100 (higher = riskier). Combines duplicates, pair density, vanity and entropy ratios, and checksum skew. The report shows the inverted 0..100 health score where higher is healthier.",
		Advice: []string{
			"Investigate clusters first; their members share a likely common origin.",
			"Spot-check top suspicious addresses and their on-chain activity (outside this tool).",
			"Raise --threshold towards 0.9 for stricter pairing on very large lists.",
		},
	}
}

// explainHeuristics prints the heuristics documentation.
func explainHeuristics(cmd *cobra.Command, jsonOutput bool) error {
	doc := explainDoc()
	out := cmd.OutOrStdout()

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(doc)
	}

	fmt.Fprintln(out, "SIGNALS")
	names := make([]string, 0, len(doc.Signals))
	for name := range doc.Signals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-26s %s\n", name, doc.Signals[name])
	}

	fmt.Fprintf(out, "\nHEALTH INDEX\n  %s\n", doc.HealthIndex)

	fmt.Fprintln(out, "\nADVICE")
	for _, line := range doc.Advice {
		fmt.Fprintf(out, "  - %s\n", line)
	}

	return nil
}

// parseAddress normalizes a single CLI address argument.
func parseAddress(token string, hexLength int) (*model.Address, error) {
	entries := []model.RawEntry{{Token: token, Line: 1, Source: "cli"}}
	addrs, rejections := normalize.New(hexLength).Normalize(entries)
	if len(addrs) == 0 {
		reason := "invalid address"
		if len(rejections) > 0 {
			reason = rejections[0].Reason.String()
		}
		return nil, fmt.Errorf("cannot parse %q: %s", token, reason)
	}
	return addrs[0], nil
}

// explainAddress prints the vanity score breakdown for one address.
func explainAddress(cmd *cobra.Command, token string, hexLength int, jsonOutput bool) error {
	addr, err := parseAddress(token, hexLength)
	if err != nil {
		return err
	}

	score := vanity.New(config.DefaultVanityWeights()).Score(addr.Value)
	out := cmd.OutOrStdout()

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(score)
	}

	fmt.Fprintf(out, "Address:    0x%s\n", score.Address)
	fmt.Fprintf(out, "Vanity:     %.4f (dominant: %s)\n", score.Score, score.Dominant)
	fmt.Fprintf(out, "Entropy:    %.4f\n", score.Entropy)
	fmt.Fprintf(out, "Palindrome: %t\n", score.Palindrome)
	fmt.Fprintf(out, "Edges:      %s... ...%s\n", score.Prefix, score.Suffix)

	fmt.Fprintln(out, "\nFeature breakdown:")
	for _, name := range model.FeatureNames {
		fmt.Fprintf(out, "  %-14s %.4f\n", name, score.Breakdown[name])
	}

	return nil
}

// pairExplanation is the JSON shape of a pair explanation.
type pairExplanation struct {
	A       string  `json:"a"`
	B       string  `json:"b"`
	Score   float64 `json:"score"`
	Pattern string  `json:"pattern"`
	IsPair  bool    `json:"is_near_pair"`
}

// explainPair prints the similarity score for two addresses.
func explainPair(cmd *cobra.Command, tokenA, tokenB string, hexLength, minShared int, jsonOutput bool) error {
	a, err := parseAddress(tokenA, hexLength)
	if err != nil {
		return err
	}
	b, err := parseAddress(tokenB, hexLength)
	if err != nil {
		return err
	}

	engine := similarity.New(hexLength, minShared)
	score, pattern := engine.Score(a.Value, b.Value)
	result := pairExplanation{
		A:       "0x" + a.Value,
		B:       "0x" + b.Value,
		Score:   score,
		Pattern: pattern,
		IsPair:  score >= config.DefaultSimilarityThreshold,
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	fmt.Fprintf(out, "A:          %s\n", result.A)
	fmt.Fprintf(out, "B:          %s\n", result.B)
	fmt.Fprintf(out, "Similarity: %.4f\n", result.Score)
	fmt.Fprintf(out, "Pattern:    %s\n", result.Pattern)

	verdict := "below the default near-pair threshold"
	if result.IsPair {
		verdict = "a near pair at the default threshold"
	}
	fmt.Fprintf(out, "Verdict:    %s (%.2f)\n", verdict, config.DefaultSimilarityThreshold)

	// Visual diff of mismatched digit positions
	fmt.Fprintf(out, "\n  %s\n  %s\n", a.Value, diffMarkers(a.Value, b.Value))

	return nil
}

// diffMarkers renders a caret under every mismatched digit position.
func diffMarkers(a, b string) string {
	var sb strings.Builder
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			sb.WriteByte(' ')
		} else {
			sb.WriteByte('^')
		}
	}
	return sb.String()
}
