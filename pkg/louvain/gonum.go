package louvain

import (
	"math/rand/v2"

	"github.com/rs/zerolog"
	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/gilchrisn/graph-coarsening/pkg/bcc"
	"github.com/gilchrisn/graph-coarsening/pkg/graph"
)

var _ bcc.Oracle = (*GonumOracle)(nil)

// GonumOracle clusters with gonum's community.Modularize. The three
// variants read different levels of the returned hierarchy: RunDefault the
// top, RunShallow the second lowest and RunShallowNoLP the lowest. Warm
// starts and time limits are not supported.
type GonumOracle struct {
	resolution float64
	logger     zerolog.Logger
}

// NewGonumOracle creates a gonum-backed oracle with resolution 1.
func NewGonumOracle(logger zerolog.Logger) *GonumOracle {
	return &GonumOracle{resolution: 1, logger: logger.With().Str("component", "gonum").Logger()}
}

// RunDefault implements bcc.Oracle.
func (o *GonumOracle) RunDefault(in bcc.Input, partitionMap []int) (bcc.Output, error) {
	return o.run(in, partitionMap, func(levels []community.ReducedGraph) community.ReducedGraph {
		return levels[0]
	})
}

// RunShallow implements bcc.Oracle.
func (o *GonumOracle) RunShallow(in bcc.Input, partitionMap []int) (bcc.Output, error) {
	return o.run(in, partitionMap, func(levels []community.ReducedGraph) community.ReducedGraph {
		if len(levels) > 1 {
			return levels[len(levels)-2]
		}
		return levels[0]
	})
}

// RunShallowNoLP implements bcc.Oracle.
func (o *GonumOracle) RunShallowNoLP(in bcc.Input, partitionMap []int) (bcc.Output, error) {
	return o.run(in, partitionMap, func(levels []community.ReducedGraph) community.ReducedGraph {
		return levels[len(levels)-1]
	})
}

// run modularizes the graph and reads the communities of the level chosen
// by pick, which receives the hierarchy from the top level down.
func (o *GonumOracle) run(in bcc.Input, partitionMap []int, pick func([]community.ReducedGraph) community.ReducedGraph) (bcc.Output, error) {
	wg := csrToGonum(in.CSR)
	if len(in.AdjNcy) == 0 {
		for i := range partitionMap {
			partitionMap[i] = i
		}
		return bcc.Output{Modularity: 0, ClusterCount: in.N}, nil
	}

	seed := uint64(in.Seed)
	reduced := community.Modularize(wg, o.resolution, rand.NewPCG(seed, seed))

	levels := expansions(reduced)

	var communities [][]gonumgraph.Node
	for _, c := range pick(levels).Communities() {
		if len(c) > 0 {
			communities = append(communities, c)
		}
	}
	for id, members := range communities {
		for _, n := range members {
			partitionMap[n.ID()] = id
		}
	}

	q := community.Q(wg, communities, o.resolution)
	o.logger.Debug().
		Int("levels", len(levels)).
		Int("communities", len(communities)).
		Float64("modularity", q).
		Msg("Modularize completed")

	return bcc.Output{Modularity: q, ClusterCount: len(communities)}, nil
}

// expansions lists r and every lower level below it, top level first. The
// lowest level's Expanded holds a typed nil pointer, so the walk stops on
// the concrete value.
func expansions(r community.ReducedGraph) []community.ReducedGraph {
	levels := []community.ReducedGraph{r}
	for {
		lower, ok := r.Expanded().(*community.ReducedUndirected)
		if !ok || lower == nil {
			return levels
		}
		levels = append(levels, lower)
		r = lower
	}
}

func csrToGonum(c graph.CSR) *simple.WeightedUndirectedGraph {
	wg := simple.NewWeightedUndirectedGraph(0, 0)
	for u := 0; u < c.N; u++ {
		wg.AddNode(simple.Node(u))
	}
	for u := 0; u < c.N; u++ {
		for j := c.XAdj[u]; j < c.XAdj[u+1]; j++ {
			v := c.AdjNcy[j]
			if v <= u {
				continue
			}
			w := c.AdjWgt[j]
			if e := wg.WeightedEdge(int64(u), int64(v)); e != nil {
				w += e.Weight()
			}
			wg.SetWeightedEdge(wg.NewWeightedEdge(simple.Node(u), simple.Node(v), w))
		}
	}
	return wg
}
