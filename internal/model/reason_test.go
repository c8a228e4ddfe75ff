package model

import "testing"

// TestRejectReasonString tests the String method of RejectReason.
func TestRejectReasonString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		reason   RejectReason
		expected string
	}{
		{RejectEmpty, "EMPTY"},
		{RejectWrongLength, "WRONG_LENGTH"},
		{RejectNonHex, "NON_HEX_CHARACTER"},
		{RejectReason(999), "UNKNOWN"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.reason.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.reason.String(), tc.expected)
			}
		})
	}
}

// TestRejectReasonMarshalText tests that reasons serialize as code names.
func TestRejectReasonMarshalText(t *testing.T) {
	t.Parallel()

	got, err := RejectWrongLength.MarshalText()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "WRONG_LENGTH" {
		t.Errorf("got %q, expected %q", string(got), "WRONG_LENGTH")
	}
}
