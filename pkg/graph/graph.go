package graph

import (
	"fmt"
)

// Graph represents a weighted undirected graph using simple arrays. Every
// undirected edge is stored as two directed edge records, one in the
// adjacency list of each endpoint.
type Graph struct {
	NumNodes    int         `json:"num_nodes"`
	Adjacency   [][]NodeID  `json:"-"`            // adjacency[i] = list of neighbors of node i
	Weights     [][]float64 `json:"-"`            // weights[i][j] = weight of edge from node i to neighbor adjacency[i][j]
	Ratings     [][]float64 `json:"-"`            // ratings[i][j] = edge rating, nil until rated
	NodeWeights []int       `json:"node_weights"` // nodeWeights[i] = weight of node i
	Degrees     []float64   `json:"degrees"`      // degrees[i] = weighted degree of node i
	TotalWeight float64     `json:"total_weight"` // sum of all undirected edge weights

	numEdges int

	partitionIndex       []PartitionID
	secondPartitionIndex []PartitionID
	partitionCount       PartitionID
}

// NewGraph creates a new graph with n nodes of unit weight and no edges.
func NewGraph(numNodes int) *Graph {
	g := &Graph{
		NumNodes:       numNodes,
		Adjacency:      make([][]NodeID, numNodes),
		Weights:        make([][]float64, numNodes),
		NodeWeights:    make([]int, numNodes),
		Degrees:        make([]float64, numNodes),
		partitionIndex: make([]PartitionID, numNodes),
	}
	for i := range g.NodeWeights {
		g.NodeWeights[i] = 1
	}
	return g
}

// AddEdge adds a weighted undirected edge between two distinct nodes.
func (g *Graph) AddEdge(u, v NodeID, weight float64) error {
	if u < 0 || u >= g.NumNodes || v < 0 || v >= g.NumNodes {
		return fmt.Errorf("%w: u=%d, v=%d, numNodes=%d", ErrNodeOutOfRange, u, v, g.NumNodes)
	}
	if u == v {
		return fmt.Errorf("%w: node %d", ErrSelfLoop, u)
	}
	if weight <= 0 {
		return fmt.Errorf("%w: %f", ErrNonPositiveWeight, weight)
	}

	g.Adjacency[u] = append(g.Adjacency[u], v)
	g.Weights[u] = append(g.Weights[u], weight)
	g.Degrees[u] += weight

	g.Adjacency[v] = append(g.Adjacency[v], u)
	g.Weights[v] = append(g.Weights[v], weight)
	g.Degrees[v] += weight

	g.TotalWeight += weight
	g.numEdges += 2
	g.Ratings = nil
	return nil
}

// SetNodeWeight sets the weight of a node.
func (g *Graph) SetNodeWeight(u NodeID, weight int) {
	g.NodeWeights[u] = weight
}

// NumEdges returns the number of directed edge records (twice the number of
// undirected edges).
func (g *Graph) NumEdges() int {
	return g.numEdges
}

// TotalNodeWeight returns the sum of all node weights.
func (g *Graph) TotalNodeWeight() int {
	total := 0
	for _, w := range g.NodeWeights {
		total += w
	}
	return total
}

// GetEdgeWeight returns the weight of edge between u and v
func (g *Graph) GetEdgeWeight(u, v NodeID) float64 {
	if u < 0 || u >= g.NumNodes || v < 0 || v >= g.NumNodes {
		return 0.0
	}

	for i, neighbor := range g.Adjacency[u] {
		if neighbor == v {
			return g.Weights[u][i]
		}
	}
	return 0.0
}

// GetNeighbors returns neighbors and their edge weights for a node
func (g *Graph) GetNeighbors(node NodeID) ([]NodeID, []float64) {
	if node < 0 || node >= g.NumNodes {
		return nil, nil
	}
	return g.Adjacency[node], g.Weights[node]
}

// EdgeRating returns the rating of the j-th edge of u, falling back to the
// edge weight when the graph has not been rated.
func (g *Graph) EdgeRating(u NodeID, j int) float64 {
	if g.Ratings == nil {
		return g.Weights[u][j]
	}
	return g.Ratings[u][j]
}

// ResetRatings allocates a zeroed rating slot for every edge record.
func (g *Graph) ResetRatings() {
	g.Ratings = make([][]float64, g.NumNodes)
	for u := 0; u < g.NumNodes; u++ {
		g.Ratings[u] = make([]float64, len(g.Adjacency[u]))
	}
}

// Clone creates a deep copy of the graph, partition slots included.
func (g *Graph) Clone() *Graph {
	clone := NewGraph(g.NumNodes)
	clone.TotalWeight = g.TotalWeight
	clone.numEdges = g.numEdges
	copy(clone.Degrees, g.Degrees)
	copy(clone.NodeWeights, g.NodeWeights)

	for i := 0; i < g.NumNodes; i++ {
		clone.Adjacency[i] = make([]NodeID, len(g.Adjacency[i]))
		clone.Weights[i] = make([]float64, len(g.Weights[i]))
		copy(clone.Adjacency[i], g.Adjacency[i])
		copy(clone.Weights[i], g.Weights[i])
	}

	copy(clone.partitionIndex, g.partitionIndex)
	clone.partitionCount = g.partitionCount
	if g.secondPartitionIndex != nil {
		clone.secondPartitionIndex = make([]PartitionID, len(g.secondPartitionIndex))
		copy(clone.secondPartitionIndex, g.secondPartitionIndex)
	}

	return clone
}

// Validate checks graph consistency
func (g *Graph) Validate() error {
	if g.NumNodes <= 0 {
		return ErrEmptyGraph
	}

	for i := 0; i < g.NumNodes; i++ {
		if len(g.Adjacency[i]) != len(g.Weights[i]) {
			return fmt.Errorf("%w: adjacency and weights differ for node %d", ErrInconsistent, i)
		}
		if g.NodeWeights[i] <= 0 {
			return fmt.Errorf("%w: non-positive node weight %d for node %d", ErrInconsistent, g.NodeWeights[i], i)
		}

		for j, neighbor := range g.Adjacency[i] {
			if neighbor < 0 || neighbor >= g.NumNodes {
				return fmt.Errorf("%w: invalid neighbor %d for node %d", ErrNodeOutOfRange, neighbor, i)
			}

			if g.Weights[i][j] <= 0 {
				return fmt.Errorf("%w: %f for edge %d-%d", ErrNonPositiveWeight, g.Weights[i][j], i, neighbor)
			}
		}
	}

	return nil
}
