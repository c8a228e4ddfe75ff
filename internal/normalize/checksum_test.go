package normalize

import (
	"strings"
	"testing"

	"github.com/nao1215/sybilglass/internal/model"
)

// Well-known EIP-55 test vectors from the proposal text.
var eip55Vectors = []string{
	"5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	"fB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
	"dbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
	"D1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
}

// TestChecksum tests EIP-55 rendering against the proposal's vectors.
func TestChecksum(t *testing.T) {
	t.Parallel()

	for _, vector := range eip55Vectors {
		t.Run(vector, func(t *testing.T) {
			t.Parallel()
			if got := Checksum(strings.ToLower(vector)); got != vector {
				t.Errorf("got %q, expected %q", got, vector)
			}
		})
	}
}

// TestVerifyEIP55 tests checksum verification.
func TestVerifyEIP55(t *testing.T) {
	t.Parallel()

	for _, vector := range eip55Vectors {
		if !VerifyEIP55(vector) {
			t.Errorf("valid checksum %q reported invalid", vector)
		}
	}

	// Flipping the case of one letter breaks the checksum.
	broken := "5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAeD"
	if VerifyEIP55(broken) {
		t.Errorf("broken checksum %q reported valid", broken)
	}

	// All-lowercase makes no checksum claim.
	if VerifyEIP55(strings.ToLower(eip55Vectors[0])) {
		t.Error("all-lowercase payload must not verify as checksummed")
	}
}

// TestStyle tests casing classification.
func TestStyle(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		payload  string
		expected model.ChecksumStyle
	}{
		{"lowercase", "abcdef0123", model.ChecksumLower},
		{"uppercase", "ABCDEF0123", model.ChecksumUpper},
		{"mixed", "aBcDeF0123", model.ChecksumMixed},
		{"digits only classify lower", "0123456789", model.ChecksumLower},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Style(tc.payload); got != tc.expected {
				t.Errorf("got %v, expected %v", got, tc.expected)
			}
		})
	}
}
