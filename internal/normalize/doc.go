// Package normalize turns raw input tokens into the canonical address set.
//
// Parsing is deliberately forgiving: tokens may carry a "0x" prefix or not,
// surrounding whitespace, and trailing commentary after a delimiter.
// Malformed entries are rejected with a reason code instead of failing the
// run, because a single bad row must not invalidate an audit of a
// million-entry list.
//
// Duplicate tokens collapse into one Address carrying an occurrence count
// and the originating line numbers. Duplicates are themselves evidence of
// list padding and are never silently dropped.
//
// EIP-55 checksum casing is verified with keccak-256 but only ever recorded
// as a feature: the analysis target is sybil structure, not protocol
// compliance, so a mismatched checksum never causes a rejection.
package normalize
