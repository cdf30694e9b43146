// Package spatial provides geometric predicates over building objects:
// distance, adjacency, overlap, floor levels, and egress distance.
//
// All predicates are pure functions of object locations. Objects without a
// location are infinitely far from everything, which makes distance-based
// predicates false rather than erroring on incomplete models.
package spatial
