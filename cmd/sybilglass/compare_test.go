package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/sybilglass/internal/database"
	"github.com/nao1215/sybilglass/internal/model"
)

// comparisonReport builds a report with the given health index and cluster
// keys for comparison tests.
func comparisonReport(source string, healthIndex float64, clusterKeys ...string) *model.Report {
	r := model.NewReport(source)
	r.GeneratedAt = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	r.Summary = model.Summary{
		TotalInput:      10,
		UniqueAddresses: 10,
		ClusterCount:    len(clusterKeys),
		NearPairCount:   len(clusterKeys),
		HealthIndex:     healthIndex,
	}
	for i, key := range clusterKeys {
		r.Clusters = append(r.Clusters, model.Cluster{
			ID:      i + 1,
			Members: []string{key, key[:len(key)-1] + "f"},
			Score:   0.7,
		})
	}
	return r
}

// seedComparisonDB saves two runs for wave1.txt and returns the directory.
func seedComparisonDB(t *testing.T) string {
	t.Helper()

	dbDir := t.TempDir()
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	keyA := "a" + strings.Repeat("0", 39)
	keyB := "b" + strings.Repeat("0", 39)
	keyC := "c" + strings.Repeat("0", 39)

	// Older run: clusters A and B, health index 50.
	if _, err := db.SaveRun(ctx, comparisonReport("wave1.txt", 50, keyA, keyB)); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	// Newer run: clusters A and C, health index 30 (healthier).
	if _, err := db.SaveRun(ctx, comparisonReport("wave1.txt", 30, keyA, keyC)); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	return dbDir
}

// TestNewCompareCmd tests the compare command creation.
func TestNewCompareCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCompareCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "compare [source]" {
			t.Errorf("expected use 'compare [source]', got %q", cmd.Use)
		}
	})

	t.Run("has list flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("list")
		if flag == nil {
			t.Fatal("expected list flag")
		}
		if flag.Shorthand != "l" {
			t.Errorf("expected shorthand 'l', got %q", flag.Shorthand)
		}
	})

	t.Run("has list-sources flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("list-sources")
		if flag == nil {
			t.Fatal("expected list-sources flag")
		}
		if flag.Shorthand != "L" {
			t.Errorf("expected shorthand 'L', got %q", flag.Shorthand)
		}
	})

	t.Run("has with-run-id flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("with-run-id")
		if flag == nil {
			t.Fatal("expected with-run-id flag")
		}
		if flag.Shorthand != "i" {
			t.Errorf("expected shorthand 'i', got %q", flag.Shorthand)
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("json") == nil {
			t.Error("expected json flag")
		}
	})
}

// TestCompareRuns tests the run diffing logic.
func TestCompareRuns(t *testing.T) {
	t.Parallel()

	keyA := "a" + strings.Repeat("0", 39)
	keyB := "b" + strings.Repeat("0", 39)
	keyC := "c" + strings.Repeat("0", 39)

	previous := comparisonReport("wave1.txt", 50, keyA, keyB)
	current := comparisonReport("wave1.txt", 30, keyA, keyC)

	result := compareRuns(previous, current)

	if result.Source != "wave1.txt" {
		t.Errorf("source %q", result.Source)
	}
	if len(result.NewClusters) != 1 || result.NewClusters[0] != keyC {
		t.Errorf("new clusters %v, expected [%s]", result.NewClusters, keyC)
	}
	if len(result.ResolvedClusters) != 1 || result.ResolvedClusters[0] != keyB {
		t.Errorf("resolved clusters %v, expected [%s]", result.ResolvedClusters, keyB)
	}
	if result.UnchangedClusters != 1 {
		t.Errorf("unchanged clusters %d, expected 1", result.UnchangedClusters)
	}
	// Health index dropped 50 -> 30, so the 0..100 score rose 50 -> 70.
	if result.HealthChange.Direction != healthDirectionImproved {
		t.Errorf("direction %q, expected improved", result.HealthChange.Direction)
	}
	if result.HealthChange.HealthDelta != 20 {
		t.Errorf("health delta %d, expected 20", result.HealthChange.HealthDelta)
	}
}

// TestCalculateHealthChange tests direction classification.
func TestCalculateHealthChange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		previous  int
		current   int
		direction string
	}{
		{name: "improved", previous: 40, current: 70, direction: healthDirectionImproved},
		{name: "worsened", previous: 70, current: 40, direction: healthDirectionWorsened},
		{name: "unchanged", previous: 50, current: 50, direction: healthDirectionUnchanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			change := calculateHealthChange(
				RunSnapshot{HealthScore: tt.previous},
				RunSnapshot{HealthScore: tt.current},
			)
			if change.Direction != tt.direction {
				t.Errorf("direction %q, expected %q", change.Direction, tt.direction)
			}
		})
	}
}

// TestHealthScoreConversion tests index to score conversion and clamping.
func TestHealthScoreConversion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		index float64
		want  int
	}{
		{index: 0, want: 100},
		{index: 41.4, want: 59},
		{index: 41.6, want: 58},
		{index: 100, want: 0},
		{index: 150, want: 0},
	}

	for _, tt := range tests {
		if got := healthScore(tt.index); got != tt.want {
			t.Errorf("healthScore(%f) = %d, want %d", tt.index, got, tt.want)
		}
	}
}

// TestFormatDelta tests delta formatting.
func TestFormatDelta(t *testing.T) {
	t.Parallel()

	if got := formatDelta(3); got != "+3" {
		t.Errorf("positive delta %q", got)
	}
	if got := formatDelta(-2); got != "-2" {
		t.Errorf("negative delta %q", got)
	}
	if got := formatDelta(0); got != "0" {
		t.Errorf("zero delta %q", got)
	}
}

// TestRunCompareCmd tests the compare command end to end.
func TestRunCompareCmd(t *testing.T) {
	t.Run("requires a source", func(t *testing.T) {
		root := NewRootCmd()
		root.SetArgs([]string{"compare", "--db-dir", t.TempDir()})

		err := root.Execute()
		if err == nil {
			t.Fatal("expected error for missing source")
		}
		if !strings.Contains(err.Error(), "source is required") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("errors with fewer than two runs", func(t *testing.T) {
		dbDir := t.TempDir()
		db, err := database.Open(dbDir, database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if _, err := db.SaveRun(context.Background(), comparisonReport("wave1.txt", 50)); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		db.Close()

		root := NewRootCmd()
		root.SetArgs([]string{"compare", "--db-dir", dbDir, "wave1.txt"})

		err = root.Execute()
		if err == nil {
			t.Fatal("expected error with a single run")
		}
		if !strings.Contains(err.Error(), "at least 2 runs") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("compares latest two runs", func(t *testing.T) {
		dbDir := seedComparisonDB(t)

		root := NewRootCmd()
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetArgs([]string{"compare", "--db-dir", dbDir, "wave1.txt"})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Run Comparison: wave1.txt",
			"IMPROVED",
			"New Clusters (1)",
			"Resolved Clusters (1)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("outputs JSON", func(t *testing.T) {
		dbDir := seedComparisonDB(t)

		root := NewRootCmd()
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetArgs([]string{"compare", "--json", "--db-dir", dbDir, "wave1.txt"})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var result ComparisonResult
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if result.Source != "wave1.txt" {
			t.Errorf("source %q", result.Source)
		}
		if result.HealthChange.Direction != healthDirectionImproved {
			t.Errorf("direction %q", result.HealthChange.Direction)
		}
	})

	t.Run("lists run history", func(t *testing.T) {
		dbDir := seedComparisonDB(t)

		root := NewRootCmd()
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetArgs([]string{"compare", "--list", "--db-dir", dbDir, "wave1.txt"})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Run history for wave1.txt (2 runs)") {
			t.Errorf("output missing history header: %q", output)
		}
	})

	t.Run("lists sources", func(t *testing.T) {
		dbDir := seedComparisonDB(t)

		root := NewRootCmd()
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetArgs([]string{"compare", "--list-sources", "--db-dir", dbDir})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "wave1.txt (2 runs)") {
			t.Errorf("output missing source listing: %q", output)
		}
	})

	t.Run("compares with specific run ID", func(t *testing.T) {
		dbDir := seedComparisonDB(t)

		root := NewRootCmd()
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetArgs([]string{"compare", "--with-run-id", "1", "--db-dir", dbDir, "wave1.txt"})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "Run Comparison: wave1.txt") {
			t.Error("output missing comparison header")
		}
	})

	t.Run("rejects run ID from another source", func(t *testing.T) {
		dbDir := seedComparisonDB(t)

		db, err := database.Open(dbDir, database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if _, err := db.SaveRun(context.Background(), comparisonReport("other.txt", 10)); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		db.Close()

		root := NewRootCmd()
		root.SetArgs([]string{"compare", "--with-run-id", "3", "--db-dir", dbDir, "wave1.txt"})

		err = root.Execute()
		if err == nil {
			t.Fatal("expected error for foreign run ID")
		}
		if !strings.Contains(err.Error(), "belongs to other.txt") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
