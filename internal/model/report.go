package model

import (
	"sort"
	"time"
)

// ChecksumMix counts addresses by checksum casing style.
type ChecksumMix struct {
	// Lower is the number of all-lowercase payloads.
	Lower int `json:"lower"`

	// Upper is the number of all-uppercase payloads.
	Upper int `json:"upper"`

	// Mixed is the number of mixed-case (EIP-55-like) payloads.
	Mixed int `json:"mixed"`
}

// SegmentCount is one entry of a prefix or suffix collision table.
type SegmentCount struct {
	// Segment is the shared four-digit prefix or suffix.
	Segment string `json:"segment"`

	// Count is the number of addresses carrying it.
	Count int `json:"count"`
}

// Summary holds the list-level aggregates of one analysis run.
type Summary struct {
	// TotalInput is the number of input entries read, valid or not.
	TotalInput int `json:"total_input"`

	// UniqueAddresses is the number of canonical addresses after dedup.
	UniqueAddresses int `json:"unique_addresses"`

	// DuplicateEntries is the number of input entries collapsed by dedup.
	DuplicateEntries int `json:"duplicate_entries"`

	// InvalidEntries is the number of rejected input entries.
	InvalidEntries int `json:"invalid_entries"`

	// ClusterCount is the number of near-duplicate clusters (size >= 2).
	ClusterCount int `json:"cluster_count"`

	// MaxClusterSize is the member count of the largest cluster.
	MaxClusterSize int `json:"max_cluster_size"`

	// ClusteredAddresses is the total number of addresses inside clusters.
	ClusteredAddresses int `json:"clustered_addresses"`

	// NearPairCount is the number of near pairs at or above the threshold.
	NearPairCount int `json:"near_pair_count"`

	// HighVanityCount is the number of addresses at or above the singleton
	// vanity threshold, clustered or not.
	HighVanityCount int `json:"high_vanity_count"`

	// HealthIndex is the list-level risk index in 0..100, higher = riskier.
	// It combines duplicate ratio, pair density, vanity ratio, low-entropy
	// ratio, and checksum-style skew.
	HealthIndex float64 `json:"health_index"`

	// Checksums is the checksum casing distribution.
	Checksums ChecksumMix `json:"checksum_mix"`

	// TopPrefixes and TopSuffixes are the heaviest four-digit collisions.
	TopPrefixes []SegmentCount `json:"top_prefixes,omitempty"`
	TopSuffixes []SegmentCount `json:"top_suffixes,omitempty"`
}

// Report is the top-level result of one analysis run.
//
// A Report is only constructed after every pipeline stage completed; no
// partial report is ever returned. All slices are deterministically ordered,
// and GeneratedAt is the only field excluded from content-equality checks.
type Report struct {
	// Source is the input list label (file path or "-").
	Source string `json:"source"`

	// GeneratedAt is when the report was assembled. Metadata only:
	// two reports over the same input and config are considered equal
	// regardless of this field.
	GeneratedAt time.Time `json:"generated_at"`

	// Summary holds the list-level aggregates.
	Summary Summary `json:"summary"`

	// Clusters is ordered by descending aggregate score, ties broken by
	// ascending lowest member value.
	Clusters []Cluster `json:"clusters,omitempty"`

	// Singletons lists high-vanity addresses that belong to no cluster,
	// ordered by descending score then ascending address value.
	Singletons []VanityScore `json:"singletons,omitempty"`

	// NearPairs is the machine-readable near-pair export, ordered by
	// (A, B) ascending.
	NearPairs []NearPair `json:"near_pairs,omitempty"`

	// Rejections lists invalid input entries with reason codes, in input
	// order.
	Rejections []Rejection `json:"rejections,omitempty"`

	// Scores holds the full per-address vanity scores, ordered by address
	// value ascending. This backs the per-address CSV export.
	Scores []VanityScore `json:"scores,omitempty"`
}

// NewReport creates an empty report for the given source label.
func NewReport(source string) *Report {
	return &Report{
		Source:      source,
		GeneratedAt: time.Now(),
	}
}

// TopSuspicious returns up to n per-address scores ordered by descending
// score, ties broken by ascending address value. Used for console previews.
func (r *Report) TopSuspicious(n int) []VanityScore {
	top := make([]VanityScore, len(r.Scores))
	copy(top, r.Scores)
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Score != top[j].Score {
			return top[i].Score > top[j].Score
		}
		return top[i].Address < top[j].Address
	})
	if n < len(top) {
		top = top[:n]
	}
	return top
}

// HealthScore returns the inverse health value in 0..100, higher = healthier.
// This is the number rendered on the SVG badge.
func (r *Report) HealthScore() int {
	score := 100 - int(r.Summary.HealthIndex+0.5)
	if score < 0 {
		return 0
	}
	return score
}
