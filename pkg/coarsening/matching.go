package coarsening

import (
	"math/rand"
	"sort"

	"github.com/gilchrisn/graph-coarsening/pkg/config"
	"github.com/gilchrisn/graph-coarsening/pkg/graph"
)

// Matcher pairs up nodes of a level. It returns the matching, the coarse
// mapping derived from it and the number of coarse nodes.
type Matcher interface {
	Match(cfg config.PartitionConfig, g *graph.Graph, rng *rand.Rand) (graph.Matching, graph.CoarseMapping, int)
}

// RandomMatching visits nodes in random order and matches each unmatched
// node with its first eligible unmatched neighbor.
type RandomMatching struct{}

func (RandomMatching) Match(cfg config.PartitionConfig, g *graph.Graph, rng *rand.Rand) (graph.Matching, graph.CoarseMapping, int) {
	matching := graph.NewIdentityMatching(g.NumNodes)
	matched := make([]bool, g.NumNodes)

	for _, u := range rng.Perm(g.NumNodes) {
		if matched[u] {
			continue
		}
		for _, v := range g.Adjacency[u] {
			if matched[v] || !eligible(cfg, g, u, v) {
				continue
			}
			matching[u], matching[v] = v, u
			matched[u], matched[v] = true, true
			break
		}
	}

	mapping, k := mappingFromMatching(matching)
	return matching, mapping, k
}

// GPAMatching matches greedily along edges in order of decreasing rating.
// Ties are broken by a random permutation of the edges.
type GPAMatching struct{}

type ratedEdge struct {
	u, v   graph.NodeID
	rating float64
}

func (GPAMatching) Match(cfg config.PartitionConfig, g *graph.Graph, rng *rand.Rand) (graph.Matching, graph.CoarseMapping, int) {
	edges := make([]ratedEdge, 0, g.NumEdges()/2)
	for u := 0; u < g.NumNodes; u++ {
		for j, v := range g.Adjacency[u] {
			if v > u {
				edges = append(edges, ratedEdge{u: u, v: v, rating: g.EdgeRating(u, j)})
			}
		}
	}
	rng.Shuffle(len(edges), func(i, j int) { edges[i], edges[j] = edges[j], edges[i] })
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].rating > edges[j].rating })

	matching := graph.NewIdentityMatching(g.NumNodes)
	matched := make([]bool, g.NumNodes)
	for _, e := range edges {
		if matched[e.u] || matched[e.v] || !eligible(cfg, g, e.u, e.v) {
			continue
		}
		matching[e.u], matching[e.v] = e.v, e.u
		matched[e.u], matched[e.v] = true, true
	}

	mapping, k := mappingFromMatching(matching)
	return matching, mapping, k
}

// eligible reports whether u and v may be merged: the result must respect
// the vertex weight bound, a preserved clustering and an existing partition.
func eligible(cfg config.PartitionConfig, g *graph.Graph, u, v graph.NodeID) bool {
	if g.NodeWeights[u]+g.NodeWeights[v] > cfg.MaxVertexWeight {
		return false
	}
	if cfg.Combine && g.HasSecondPartitionIndex() && g.SecondPartitionIndex(u) != g.SecondPartitionIndex(v) {
		return false
	}
	if cfg.GraphAlreadyPartitioned && g.PartitionIndex(u) != g.PartitionIndex(v) {
		return false
	}
	return true
}

// mappingFromMatching numbers coarse nodes in order of their lowest finer node.
func mappingFromMatching(matching graph.Matching) (graph.CoarseMapping, int) {
	mapping := make(graph.CoarseMapping, len(matching))
	for i := range mapping {
		mapping[i] = -1
	}

	k := 0
	for u, partner := range matching {
		if mapping[u] != -1 {
			continue
		}
		mapping[u] = k
		mapping[partner] = k
		k++
	}
	return mapping, k
}

// MatcherFactory picks the matcher for a level.
type MatcherFactory func(cfg config.PartitionConfig, level int) Matcher

// ConfigureMatcher selects the matcher from cfg.MatchingType. Random-GPA
// uses random matching for the first AggressiveRandomLevels levels.
func ConfigureMatcher(cfg config.PartitionConfig, level int) Matcher {
	switch cfg.MatchingType {
	case config.MatchingRandom:
		return RandomMatching{}
	case config.MatchingRandomGPA:
		if level < cfg.AggressiveRandomLevels {
			return RandomMatching{}
		}
		return GPAMatching{}
	default:
		return GPAMatching{}
	}
}
