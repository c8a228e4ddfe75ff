// Package similarity finds near-duplicate address pairs.
//
// The distance metric is a weighted blend of two signals:
//
//   - Position-weighted Hamming similarity over the hex digits. Edits near
//     the start or end of the address weigh more than middle-byte edits:
//     farming scripts commonly grind only a prefix or suffix "vanity"
//     segment while reusing a generated core, and the ends are also the
//     digits humans actually compare.
//   - A shared-substring bonus for aligned runs of matching digits at or
//     above a configurable minimum length.
//
// Both components normalize to [0,1] and the blend stays in [0,1], with
// identical addresses scoring exactly 1.0.
//
// Candidate generation is exhaustive below a configurable cutover. Above
// it, addresses are bucketed by rolling-hash signatures of fixed-length
// windows and only bucket-mates are compared. Bucketing trades a bounded
// false-negative rate (a pair is missed only when every window spans at
// least one differing digit) for near-linear expected time.
//
// For a fixed input set and threshold the returned pair set is identical
// across runs: pairs are canonicalized with the smaller value first,
// deduplicated by arena index, and sorted before returning.
package similarity
