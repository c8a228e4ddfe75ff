// Package cluster groups near-pair addresses into connected components.
//
// Clustering is transitive closure over the near-pair edge set: a cluster
// is any connected component with two or more members. The builder uses a
// weighted union-find over arena indexes, so the grouping is independent
// of pair order and runs in near-linear time.
//
// Each cluster carries an aggregate suspicion score blending the highest
// member vanity score with the internal edge density. Clusters are sorted
// by descending score, ties broken by ascending lowest member, and IDs are
// the 1-based ranks in that order.
package cluster
