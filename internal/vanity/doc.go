// Package vanity scores the structural anomaly of individual addresses.
//
// A randomly generated address payload is statistically featureless: short
// runs, near-uniform digit distribution, entropy close to four bits per
// nibble. Vanity generation and constrained derivation leave measurable
// fingerprints, which this package quantifies as weighted sub-scores:
//
//   - repeat_run: longest run of one identical hex digit
//   - pattern_run: longest tandem repeat of a 2-4 digit motif
//   - zero_edges: all-zero segments at the start or end
//   - diversity: how few distinct hex digits appear
//   - entropy: Shannon entropy of the nibble distribution
//   - edge_run: repeated-digit runs at the start or end, any digit
//
// Scoring is a pure function of the address value. The same input always
// yields the same VanityScore, which report reproducibility and the
// property tests depend on.
package vanity
