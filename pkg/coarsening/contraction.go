package coarsening

import (
	"fmt"
	"sort"

	"github.com/gilchrisn/graph-coarsening/pkg/config"
	"github.com/gilchrisn/graph-coarsening/pkg/graph"
)

// Contractor builds the coarser graph of a level.
type Contractor interface {
	Contract(cfg config.PartitionConfig, finer *graph.Graph, matching graph.Matching, mapping graph.CoarseMapping, k int) (*graph.Graph, error)
}

// MappingContractor merges every group of finer nodes that share a coarse
// node. Node weights are summed, edges inside a group disappear and parallel
// coarse edges are merged by summing their weights.
//
// The coarser graph inherits k. It inherits the primary partition when
// cfg.GraphAlreadyPartitioned is set and the secondary partition when
// cfg.Combine is set.
type MappingContractor struct{}

func (MappingContractor) Contract(cfg config.PartitionConfig, finer *graph.Graph, matching graph.Matching, mapping graph.CoarseMapping, k int) (*graph.Graph, error) {
	if err := mapping.Validate(finer.NumNodes, k); err != nil {
		return nil, err
	}
	if matching != nil {
		if len(matching) != finer.NumNodes {
			return nil, fmt.Errorf("%w: matching has %d entries, graph has %d nodes",
				ErrInconsistentMatching, len(matching), finer.NumNodes)
		}
		for u, v := range matching {
			if mapping[u] != mapping[v] {
				return nil, fmt.Errorf("%w: %d and %d are matched but map to %d and %d",
					ErrInconsistentMatching, u, v, mapping[u], mapping[v])
			}
		}
	}

	coarser := graph.NewGraph(k)
	for c := range coarser.NodeWeights {
		coarser.NodeWeights[c] = 0
	}
	for u := 0; u < finer.NumNodes; u++ {
		coarser.NodeWeights[mapping[u]] += finer.NodeWeights[u]
	}

	edges := make(map[[2]int]float64)
	for u := 0; u < finer.NumNodes; u++ {
		for j, v := range finer.Adjacency[u] {
			cu, cv := mapping[u], mapping[v]
			if v < u || cu == cv {
				continue
			}
			if cv < cu {
				cu, cv = cv, cu
			}
			edges[[2]int{cu, cv}] += finer.Weights[u][j]
		}
	}

	keys := make([][2]int, 0, len(edges))
	for e := range edges {
		keys = append(keys, e)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a][0] != keys[b][0] {
			return keys[a][0] < keys[b][0]
		}
		return keys[a][1] < keys[b][1]
	})
	for _, e := range keys {
		if err := coarser.AddEdge(e[0], e[1], edges[e]); err != nil {
			return nil, fmt.Errorf("contract edge %d-%d: %w", e[0], e[1], err)
		}
	}

	coarser.SetPartitionCount(finer.PartitionCount())
	if cfg.GraphAlreadyPartitioned {
		for u := 0; u < finer.NumNodes; u++ {
			coarser.SetPartitionIndex(mapping[u], finer.PartitionIndex(u))
		}
	}
	if cfg.Combine && finer.HasSecondPartitionIndex() {
		coarser.ResizeSecondPartitionIndex(k)
		for u := 0; u < finer.NumNodes; u++ {
			coarser.SetSecondPartitionIndex(mapping[u], finer.SecondPartitionIndex(u))
		}
	}

	return coarser, nil
}
