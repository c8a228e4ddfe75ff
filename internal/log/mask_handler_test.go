package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestAbbreviate tests address abbreviation.
func TestAbbreviate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "prefixed address",
			input:    "0x00000000219ab540356cbb839cbe05303d7705fa",
			expected: "0x0000…05fa",
		},
		{
			name:     "bare payload",
			input:    "00000000219ab540356cbb839cbe05303d7705fa",
			expected: "0000…05fa",
		},
		{
			name:     "short value unchanged",
			input:    "deadbeef",
			expected: "deadbeef",
		},
		{
			name:     "empty unchanged",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Abbreviate(tc.input); got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
		})
	}
}

// TestMaskHandlerMasksAddressAttrs tests that address attributes are
// abbreviated while other attributes pass through.
func TestMaskHandlerMasksAddressAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true, true)

	full := "0x00000000219ab540356cbb839cbe05303d7705fa"
	logger.Info("scoring pair",
		"a", full,
		"count", 3,
		"note", "not an address",
	)

	output := buf.String()
	if strings.Contains(output, full) {
		t.Errorf("full address leaked into log output: %s", output)
	}
	if !strings.Contains(output, "0x0000…05fa") {
		t.Errorf("abbreviated address missing from output: %s", output)
	}
	if !strings.Contains(output, "not an address") {
		t.Errorf("non-address attribute was modified: %s", output)
	}
}

// TestMaskHandlerPatternMatch tests that address-shaped values are masked
// even under unknown keys.
func TestMaskHandlerPatternMatch(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true, true)

	full := strings.Repeat("ab", 20)
	logger.Info("bucket", "candidate", full)

	if strings.Contains(buf.String(), full) {
		t.Errorf("address-shaped value leaked into log output: %s", buf.String())
	}
}

// TestMaskHandlerGroups tests recursive masking inside groups.
func TestMaskHandlerGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true, true)

	full := "0x" + strings.Repeat("1", 40)
	logger.Info("pair", slog.Group("edge", "a", full, "score", 0.9))

	if strings.Contains(buf.String(), full) {
		t.Errorf("grouped address leaked into log output: %s", buf.String())
	}
}

// TestNewLoggerUnmasked tests that masking can be disabled.
func TestNewLoggerUnmasked(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true, false)

	full := "0x" + strings.Repeat("2", 40)
	logger.Info("pair", "a", full)

	if !strings.Contains(buf.String(), full) {
		t.Errorf("unmasked logger should log full addresses: %s", buf.String())
	}
}

// TestNewLoggerLevel tests the verbose flag controls the log level.
func TestNewLoggerLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, false, false)

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug record logged at warn level: %s", buf.String())
	}

	logger.Warn("visible")
	if buf.Len() == 0 {
		t.Error("warn record missing at warn level")
	}
}
