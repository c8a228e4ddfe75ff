package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// TestNewExplainCmd tests the explain command creation.
func TestNewExplainCmd(t *testing.T) {
	t.Parallel()

	cmd := NewExplainCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "explain [address] [address]" {
			t.Errorf("expected use 'explain [address] [address]', got %q", cmd.Use)
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("json")
		if flag == nil {
			t.Fatal("expected json flag")
		}
		if flag.Shorthand != "j" {
			t.Errorf("expected shorthand 'j', got %q", flag.Shorthand)
		}
	})

	t.Run("has tuning flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"hex-length", "min-shared"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})
}

// TestExplainHeuristics tests the no-argument documentation output.
func TestExplainHeuristics(t *testing.T) {
	t.Run("text output", func(t *testing.T) {
		root := NewRootCmd()
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetArgs([]string{"explain"})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"SIGNALS", "near_pairs", "HEALTH INDEX", "ADVICE"} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("json output", func(t *testing.T) {
		root := NewRootCmd()
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetArgs([]string{"explain", "--json"})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc heuristicsDoc
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(doc.Signals) == 0 || doc.HealthIndex == "" || len(doc.Advice) == 0 {
			t.Errorf("documentation is incomplete: %+v", doc)
		}
	})
}

// TestExplainAddress tests the single-address vanity breakdown.
func TestExplainAddress(t *testing.T) {
	vanityAddr := "0x" + strings.Repeat("1", 36) + "aaaa"

	t.Run("text output", func(t *testing.T) {
		root := NewRootCmd()
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetArgs([]string{"explain", vanityAddr})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Address:",
			"repeat_run",
			"Entropy:",
			strings.Repeat("1", 36) + "aaaa",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("json output has full breakdown", func(t *testing.T) {
		root := NewRootCmd()
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetArgs([]string{"explain", "--json", vanityAddr})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var score struct {
			Address   string             `json:"address"`
			Score     float64            `json:"score"`
			Dominant  string             `json:"dominant"`
			Breakdown map[string]float64 `json:"breakdown"`
		}
		if err := json.Unmarshal(buf.Bytes(), &score); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if score.Dominant != "repeat_run" {
			t.Errorf("dominant %q, expected repeat_run", score.Dominant)
		}
		if score.Score < 0.8 {
			t.Errorf("vanity score %f unexpectedly low", score.Score)
		}
		if len(score.Breakdown) != 6 {
			t.Errorf("breakdown has %d features, expected 6", len(score.Breakdown))
		}
	})

	t.Run("rejects malformed address", func(t *testing.T) {
		root := NewRootCmd()
		root.SetArgs([]string{"explain", "not_an_address"})

		err := root.Execute()
		if err == nil {
			t.Fatal("expected error for malformed address")
		}
		if !strings.Contains(err.Error(), "cannot parse") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// TestExplainPair tests the two-address similarity explanation.
func TestExplainPair(t *testing.T) {
	base := "aaaa" + strings.Repeat("0", 32) + "aaaa"
	edited := "aaaa" + strings.Repeat("0", 32) + "aaab"

	t.Run("near pair", func(t *testing.T) {
		root := NewRootCmd()
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetArgs([]string{"explain", base, edited})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Similarity: 0.9590",
			"single hex-digit substitution",
			"a near pair at the default threshold",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("json output", func(t *testing.T) {
		root := NewRootCmd()
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetArgs([]string{"explain", "--json", base, edited})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var result pairExplanation
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if !result.IsPair {
			t.Error("expected the pair to clear the default threshold")
		}
		if result.Pattern != "single hex-digit substitution" {
			t.Errorf("pattern %q", result.Pattern)
		}
	})

	t.Run("distant pair is not a near pair", func(t *testing.T) {
		root := NewRootCmd()
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetArgs([]string{"explain", "--json", base, strings.Repeat("1", 36) + "aaaa"})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var result pairExplanation
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if result.IsPair {
			t.Error("expected a distant pair to stay below the threshold")
		}
	})
}

// TestDiffMarkers tests the mismatch marker rendering.
func TestDiffMarkers(t *testing.T) {
	t.Parallel()

	got := diffMarkers("abcd", "abed")
	if got != "  ^ " {
		t.Errorf("markers %q, expected %q", got, "  ^ ")
	}

	if got := diffMarkers("aaaa", "aaaa"); strings.Contains(got, "^") {
		t.Errorf("identical values produced markers %q", got)
	}
}
