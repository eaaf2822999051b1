package bcc

import (
	"fmt"

	"github.com/gilchrisn/graph-coarsening/pkg/config"
	"github.com/gilchrisn/graph-coarsening/pkg/graph"
)

// VerifyMapping checks that mapping never merges the endpoints of an edge
// whose endpoints lie in different clusters of g's secondary partition.
// It must only be called in SecondPartitionIndex combine mode after the
// clustering has been stored, i.e. with cfg.Combine set.
func VerifyMapping(g *graph.Graph, mapping graph.CoarseMapping, cfg config.PartitionConfig) error {
	if cfg.BCCCombineMode != config.SecondPartitionIndex {
		return fmt.Errorf("%w: got %s", ErrVerifierCombineMode, cfg.BCCCombineMode)
	}
	if !cfg.Combine {
		return ErrVerifierCombineUnset
	}
	if len(mapping) != g.NumNodes {
		return fmt.Errorf("%w: mapping has %d entries, graph has %d nodes", ErrMappingSize, len(mapping), g.NumNodes)
	}
	if !g.HasSecondPartitionIndex() {
		return ErrMissingSecondPartition
	}

	for u := 0; u < g.NumNodes; u++ {
		for _, v := range g.Adjacency[u] {
			if g.SecondPartitionIndex(u) == g.SecondPartitionIndex(v) {
				continue
			}
			if mapping[u] == mapping[v] {
				return fmt.Errorf("%w: edge %d-%d, clusters %d and %d, both mapped to %d",
					ErrBoundaryContracted, u, v, g.SecondPartitionIndex(u), g.SecondPartitionIndex(v), mapping[u])
			}
		}
	}
	return nil
}
