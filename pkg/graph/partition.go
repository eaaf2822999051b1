package graph

import "fmt"

// PartitionCount returns k, the number of blocks of the primary partition.
func (g *Graph) PartitionCount() PartitionID {
	return g.partitionCount
}

// SetPartitionCount sets k.
func (g *Graph) SetPartitionCount(k PartitionID) {
	g.partitionCount = k
}

// PartitionIndex returns the primary partition index of u.
func (g *Graph) PartitionIndex(u NodeID) PartitionID {
	return g.partitionIndex[u]
}

// SetPartitionIndex sets the primary partition index of u.
func (g *Graph) SetPartitionIndex(u NodeID, p PartitionID) {
	g.partitionIndex[u] = p
}

// HasSecondPartitionIndex reports whether the secondary slot has been sized.
func (g *Graph) HasSecondPartitionIndex() bool {
	return g.secondPartitionIndex != nil
}

// ResizeSecondPartitionIndex allocates the secondary slot for n nodes,
// keeping existing values where possible.
func (g *Graph) ResizeSecondPartitionIndex(n int) {
	if len(g.secondPartitionIndex) == n {
		return
	}
	resized := make([]PartitionID, n)
	copy(resized, g.secondPartitionIndex)
	g.secondPartitionIndex = resized
}

// SecondPartitionIndex returns the secondary partition index of u.
func (g *Graph) SecondPartitionIndex(u NodeID) PartitionID {
	return g.secondPartitionIndex[u]
}

// SetSecondPartitionIndex sets the secondary partition index of u.
func (g *Graph) SetSecondPartitionIndex(u NodeID, p PartitionID) {
	g.secondPartitionIndex[u] = p
}

// ProjectPartition copies the partition of coarser down to g through the
// mapping: every node u of g receives the block of coarser node mapping[u].
func (g *Graph) ProjectPartition(coarser *Graph, mapping CoarseMapping) error {
	if len(mapping) != g.NumNodes {
		return fmt.Errorf("%w: length %d, expected %d", ErrInvalidMapping, len(mapping), g.NumNodes)
	}
	g.partitionCount = coarser.partitionCount
	for u, c := range mapping {
		if c < 0 || c >= coarser.NumNodes {
			return fmt.Errorf("%w: node %d maps to %d, coarser graph has %d nodes",
				ErrInvalidMapping, u, c, coarser.NumNodes)
		}
		g.partitionIndex[u] = coarser.partitionIndex[c]
	}
	return nil
}
