// Package graph provides the mutable, array-backed graph used at every level
// of the coarsening hierarchy, together with its partition slots.
//
// Nodes are dense zero-based indices that are only meaningful within one
// Graph value. A Graph carries a primary partition index (the block each node
// currently belongs to), a partition count k, and an optional secondary
// partition index that stores an auxiliary clustering without disturbing the
// primary one.
package graph

import "fmt"

// NodeID is a dense zero-based node index within one Graph.
type NodeID = int

// PartitionID identifies a block of a partition or a cluster of a clustering.
type PartitionID = int

// CoarseMapping maps every node of a finer graph to a node of the next
// coarser graph. Coarser ids are dense in [0, k).
type CoarseMapping []NodeID

// Matching maps every node to its matched partner, or to itself when the
// node is unmatched.
type Matching []NodeID

// NewIdentityMatching returns a matching in which every node is unmatched.
func NewIdentityMatching(n int) Matching {
	m := make(Matching, n)
	for i := range m {
		m[i] = i
	}
	return m
}

// Validate checks that the mapping covers n finer nodes and that its values
// are exactly {0, ..., k-1}.
func (m CoarseMapping) Validate(n, k int) error {
	if len(m) != n {
		return fmt.Errorf("%w: length %d, expected %d", ErrInvalidMapping, len(m), n)
	}
	if k < 0 || k > n {
		return fmt.Errorf("%w: %d coarser nodes for %d finer nodes", ErrInvalidMapping, k, n)
	}
	seen := make([]bool, k)
	distinct := 0
	for u, c := range m {
		if c < 0 || c >= k {
			return fmt.Errorf("%w: node %d maps to %d outside [0,%d)", ErrInvalidMapping, u, c, k)
		}
		if !seen[c] {
			seen[c] = true
			distinct++
		}
	}
	if distinct != k {
		return fmt.Errorf("%w: %d distinct coarser nodes, expected %d", ErrInvalidMapping, distinct, k)
	}
	return nil
}
