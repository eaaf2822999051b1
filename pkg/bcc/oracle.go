// Package bcc implements cluster-guided coarsening support: the partition
// snapshot used to borrow a graph's primary partition slot, the adapter
// around an external community-detection oracle and the mapping verifier.
package bcc

import "github.com/gilchrisn/graph-coarsening/pkg/graph"

// Input is the array contract handed to an oracle.
type Input struct {
	graph.CSR

	TimeLimit int // seconds, 0 = unspecified
	Seed      int

	// InitialClustering is an optional warm start, one cluster id per node.
	InitialClustering []int
}

// Output is what an oracle reports besides the per-node assignment.
type Output struct {
	Modularity float64
	// ClusterCount is the number of distinct clusters, negative when the
	// oracle could not determine it.
	ClusterCount int
}

// Oracle is a black-box community detection algorithm with three entry
// points. Each fills partitionMap, which the caller allocates with one slot
// per node.
type Oracle interface {
	RunDefault(in Input, partitionMap []int) (Output, error)
	RunShallow(in Input, partitionMap []int) (Output, error)
	RunShallowNoLP(in Input, partitionMap []int) (Output, error)
}

// QualityMetric computes the modularity of a graph's primary partition.
type QualityMetric func(g *graph.Graph) float64
