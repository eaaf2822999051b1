package louvain

import (
	"fmt"
	"runtime"
	"time"

	"github.com/gilchrisn/graph-coarsening/pkg/graph"
)

// Graph represents a weighted undirected graph using simple arrays. Unlike
// graph.Graph it allows self-loops, which aggregation produces.
type Graph struct {
	NumNodes    int         `json:"num_nodes"`
	Adjacency   [][]int     `json:"-"`            // adjacency[i] = list of neighbors of node i
	Weights     [][]float64 `json:"-"`            // weights[i][j] = weight of edge from node i to neighbor adjacency[i][j]
	Degrees     []float64   `json:"degrees"`      // degrees[i] = weighted degree of node i
	TotalWeight float64     `json:"total_weight"` // sum of all edge weights
}

// NewGraph creates a new graph with n nodes
func NewGraph(numNodes int) *Graph {
	return &Graph{
		NumNodes:  numNodes,
		Adjacency: make([][]int, numNodes),
		Weights:   make([][]float64, numNodes),
		Degrees:   make([]float64, numNodes),
	}
}

// FromCSR builds a graph from the oracle array contract. Every undirected
// edge appears twice in the CSR arrays and is added once.
func FromCSR(c graph.CSR) (*Graph, error) {
	g := NewGraph(c.N)
	for u := 0; u < c.N; u++ {
		for j := c.XAdj[u]; j < c.XAdj[u+1]; j++ {
			v := c.AdjNcy[j]
			if v < u {
				continue
			}
			if err := g.AddEdge(u, v, c.AdjWgt[j]); err != nil {
				return nil, fmt.Errorf("csr edge %d-%d: %w", u, v, err)
			}
		}
	}
	return g, nil
}

// AddEdge adds a weighted edge between two nodes
func (g *Graph) AddEdge(u, v int, weight float64) error {
	if u < 0 || u >= g.NumNodes || v < 0 || v >= g.NumNodes {
		return fmt.Errorf("node index out of range: u=%d, v=%d, numNodes=%d", u, v, g.NumNodes)
	}
	if weight <= 0 {
		return fmt.Errorf("edge weight must be positive: %f", weight)
	}

	g.Adjacency[u] = append(g.Adjacency[u], v)
	g.Weights[u] = append(g.Weights[u], weight)
	g.Degrees[u] += weight

	if u != v {
		g.Adjacency[v] = append(g.Adjacency[v], u)
		g.Weights[v] = append(g.Weights[v], weight)
		g.Degrees[v] += weight
	} else {
		// Self-loop: count weight twice for degree
		g.Degrees[u] += weight
	}

	g.TotalWeight += weight
	return nil
}

// SelfLoop returns the weight of the self-loop of u, 0 if there is none.
func (g *Graph) SelfLoop(u int) float64 {
	w := 0.0
	for i, v := range g.Adjacency[u] {
		if v == u {
			w += g.Weights[u][i]
		}
	}
	return w
}

// GetNeighbors returns neighbors and their edge weights for a node
func (g *Graph) GetNeighbors(node int) ([]int, []float64) {
	if node < 0 || node >= g.NumNodes {
		return nil, nil
	}
	return g.Adjacency[node], g.Weights[node]
}

// Options controls one Louvain run.
type Options struct {
	MaxLevels         int
	MaxIterations     int
	MinModularityGain float64
	// Restarts is the number of independent runs per batch of the default
	// variant; the best one wins.
	Restarts int
	// LabelPropagationRounds bounds the warm-up of the shallow variant.
	LabelPropagationRounds int
	// Deadline stops local moving once passed. Zero means no deadline.
	Deadline time.Time
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		MaxLevels:              10,
		MaxIterations:          100,
		MinModularityGain:      1e-6,
		Restarts:               runtime.NumCPU(),
		LabelPropagationRounds: 10,
	}
}

func (o Options) expired() bool {
	return !o.Deadline.IsZero() && time.Now().After(o.Deadline)
}

// Result represents the algorithm output
type Result struct {
	// Communities assigns each original node a dense community id.
	Communities    []int        `json:"communities"`
	NumCommunities int          `json:"num_communities"`
	Modularity     float64      `json:"modularity"`
	NumLevels      int          `json:"num_levels"`
	TotalMoves     int          `json:"total_moves"`
	Levels         []LevelStats `json:"level_stats"`
	RuntimeMS      int64        `json:"runtime_ms"`
}

// LevelStats contains per-level statistics
type LevelStats struct {
	Level             int     `json:"level"`
	Nodes             int     `json:"nodes"`
	Moves             int     `json:"moves"`
	InitialModularity float64 `json:"initial_modularity"`
	FinalModularity   float64 `json:"final_modularity"`
	RuntimeMS         int64   `json:"runtime_ms"`
}
