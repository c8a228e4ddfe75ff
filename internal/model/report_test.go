package model

import "testing"

// TestReportTopSuspicious tests the preview ordering: score descending,
// ties broken by ascending address value.
func TestReportTopSuspicious(t *testing.T) {
	t.Parallel()

	r := NewReport("test.txt")
	r.Scores = []VanityScore{
		{Address: "aaaa", Score: 0.5},
		{Address: "bbbb", Score: 0.9},
		{Address: "cccc", Score: 0.9},
		{Address: "dddd", Score: 0.1},
	}

	top := r.TopSuspicious(3)
	if len(top) != 3 {
		t.Fatalf("got %d entries, expected 3", len(top))
	}

	expected := []string{"bbbb", "cccc", "aaaa"}
	for i, want := range expected {
		if top[i].Address != want {
			t.Errorf("position %d: got %q, expected %q", i, top[i].Address, want)
		}
	}

	// The original slice must not be reordered.
	if r.Scores[0].Address != "aaaa" {
		t.Error("TopSuspicious must not mutate the report's score slice")
	}
}

// TestReportTopSuspiciousShortList tests that n larger than the score count
// returns everything.
func TestReportTopSuspiciousShortList(t *testing.T) {
	t.Parallel()

	r := NewReport("-")
	r.Scores = []VanityScore{{Address: "aaaa", Score: 0.5}}

	if got := r.TopSuspicious(10); len(got) != 1 {
		t.Errorf("got %d entries, expected 1", len(got))
	}
}

// TestReportHealthScore tests the badge value derivation.
func TestReportHealthScore(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		index    float64
		expected int
	}{
		{"clean list", 0, 100},
		{"mid risk", 42.4, 58},
		{"rounds half up", 42.5, 57},
		{"max risk clamps", 120, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := NewReport("-")
			r.Summary.HealthIndex = tc.index
			if got := r.HealthScore(); got != tc.expected {
				t.Errorf("got %d, expected %d", got, tc.expected)
			}
		})
	}
}
