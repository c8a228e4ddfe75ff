// Package model defines the core data structures used throughout sybilglass.
//
// This package contains the following main types:
//   - RawEntry: A single input token as read from a list file
//   - Address: A canonical, deduplicated EVM address
//   - NearPair: Two addresses linked by a similarity score
//   - VanityScore: Per-address structural anomaly score
//   - Cluster: A connected component of near-duplicate addresses
//   - Report: The top-level analysis result
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (normalize, similarity, cluster, report)
// need to use these types, so centralizing them prevents import cycles.
//
// Every entity is created by exactly one pipeline stage and treated as
// read-only by downstream stages. The models are designed to be serializable
// to JSON for report output and database storage.
package model
