package coarsening

import (
	"github.com/gilchrisn/graph-coarsening/pkg/config"
	"github.com/gilchrisn/graph-coarsening/pkg/graph"
)

// EdgeRater scores the edges of a level for the matchers.
type EdgeRater interface {
	Rate(cfg config.PartitionConfig, g *graph.Graph, level int)
}

// WeightRater rates edges by weight and the expansion* heuristics.
type WeightRater struct{}

// Rate fills g.Ratings according to cfg.EdgeRating.
func (WeightRater) Rate(cfg config.PartitionConfig, g *graph.Graph, level int) {
	g.ResetRatings()
	for u := 0; u < g.NumNodes; u++ {
		for j, v := range g.Adjacency[u] {
			w := g.Weights[u][j]
			su, sv := float64(g.NodeWeights[u]), float64(g.NodeWeights[v])

			switch cfg.EdgeRating {
			case config.ExpansionStar:
				g.Ratings[u][j] = w / (su * sv)
			case config.ExpansionStar2:
				g.Ratings[u][j] = w * w / (su * sv)
			default:
				g.Ratings[u][j] = w
			}
		}
	}
}
