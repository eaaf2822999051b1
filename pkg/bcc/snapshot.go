package bcc

import "github.com/gilchrisn/graph-coarsening/pkg/graph"

// PartitionSnapshot is an owned copy of a graph's partition count and
// primary partition index. The zero value is empty.
type PartitionSnapshot struct {
	k     graph.PartitionID
	index []graph.PartitionID
	valid bool
}

// Set copies k and the primary partition index out of g.
func (s *PartitionSnapshot) Set(g *graph.Graph) {
	s.k = g.PartitionCount()
	s.index = make([]graph.PartitionID, g.NumNodes)
	for u := 0; u < g.NumNodes; u++ {
		s.index[u] = g.PartitionIndex(u)
	}
	s.valid = true
}

// Apply writes the snapshot back into g, overwriting the current primary
// partition. It returns false and leaves g untouched when the snapshot was
// never set or was taken from a graph of a different size.
func (s *PartitionSnapshot) Apply(g *graph.Graph) bool {
	if !s.valid || len(s.index) != g.NumNodes {
		return false
	}
	g.SetPartitionCount(s.k)
	for u, p := range s.index {
		g.SetPartitionIndex(u, p)
	}
	return true
}

// IsSet reports whether the snapshot holds data.
func (s *PartitionSnapshot) IsSet() bool {
	return s.valid
}
