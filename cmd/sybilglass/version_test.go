package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestGetVersion tests the version string resolution.
func TestGetVersion(t *testing.T) {
	t.Run("returns non-empty version", func(t *testing.T) {
		if got := getVersion(); got == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("prefers ldflags value", func(t *testing.T) {
		original := version
		defer func() { version = original }()

		version = "v1.2.3"
		if got := getVersion(); got != "v1.2.3" {
			t.Errorf("expected 'v1.2.3', got %q", got)
		}
	})
}

// TestGetCommit tests the commit hash resolution.
func TestGetCommit(t *testing.T) {
	t.Run("returns non-empty commit", func(t *testing.T) {
		if got := getCommit(); got == "" {
			t.Error("expected non-empty commit")
		}
	})

	t.Run("prefers ldflags value", func(t *testing.T) {
		original := commit
		defer func() { commit = original }()

		commit = "abc1234"
		if got := getCommit(); got != "abc1234" {
			t.Errorf("expected 'abc1234', got %q", got)
		}
	})
}

// TestGetDate tests the build date resolution.
func TestGetDate(t *testing.T) {
	t.Run("returns non-empty date", func(t *testing.T) {
		if got := getDate(); got == "" {
			t.Error("expected non-empty date")
		}
	})

	t.Run("prefers ldflags value", func(t *testing.T) {
		original := date
		defer func() { date = original }()

		date = "2026-08-25"
		if got := getDate(); got != "2026-08-25" {
			t.Errorf("expected '2026-08-25', got %q", got)
		}
	})
}

// TestNewVersionCmd tests the version command output.
func TestNewVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "sybilglass version") {
		t.Errorf("expected version line, got %q", output)
	}
	if !strings.Contains(output, "commit:") {
		t.Errorf("expected commit line, got %q", output)
	}
	if !strings.Contains(output, "built:") {
		t.Errorf("expected build date line, got %q", output)
	}
}
