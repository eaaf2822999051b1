// Package quality computes the modularity of a graph's primary partition.
package quality

import (
	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/gilchrisn/graph-coarsening/pkg/graph"
)

// Modularity returns the modularity of g's primary partition with
// resolution 1. A graph without edges has modularity 0.
func Modularity(g *graph.Graph) float64 {
	if g.NumNodes == 0 || g.TotalWeight == 0 {
		return 0.0
	}
	return community.Q(ToGonum(g), Communities(g), 1)
}

// ToGonum converts g into a gonum weighted undirected graph. Node IDs are
// preserved; parallel edges are merged by summing their weights.
func ToGonum(g *graph.Graph) *simple.WeightedUndirectedGraph {
	wg := simple.NewWeightedUndirectedGraph(0, 0)
	for u := 0; u < g.NumNodes; u++ {
		wg.AddNode(simple.Node(u))
	}
	for u := 0; u < g.NumNodes; u++ {
		for j, v := range g.Adjacency[u] {
			if v <= u {
				continue
			}
			w := g.Weights[u][j]
			if e := wg.WeightedEdge(int64(u), int64(v)); e != nil {
				w += e.Weight()
			}
			wg.SetWeightedEdge(wg.NewWeightedEdge(simple.Node(u), simple.Node(v), w))
		}
	}
	return wg
}

// Communities groups the nodes of g by primary partition index, in
// ascending order of block id. Empty blocks are omitted.
func Communities(g *graph.Graph) [][]gonumgraph.Node {
	maxBlock := -1
	for u := 0; u < g.NumNodes; u++ {
		if p := g.PartitionIndex(u); p > maxBlock {
			maxBlock = p
		}
	}

	blocks := make([][]gonumgraph.Node, maxBlock+1)
	for u := 0; u < g.NumNodes; u++ {
		p := g.PartitionIndex(u)
		blocks[p] = append(blocks[p], simple.Node(u))
	}

	communities := make([][]gonumgraph.Node, 0, len(blocks))
	for _, b := range blocks {
		if len(b) > 0 {
			communities = append(communities, b)
		}
	}
	return communities
}
