package louvain

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Community represents the state of communities (simple arrays)
type Community struct {
	NodeToCommunity          []int     // nodeToComm[i] = community ID of node i
	CommunitySizes           []int     // commSizes[c] = number of nodes in community c
	CommunityWeights         []float64 // commWeights[c] = total degree of community c
	CommunityInternalWeights []float64 // commInternal[c] = internal weight of community c, both directions
	NumCommunities           int       // number of community slots
}

// NewCommunity initializes each node in its own community
func NewCommunity(graph *Graph) *Community {
	n := graph.NumNodes
	comm := &Community{
		NodeToCommunity:          make([]int, n),
		CommunitySizes:           make([]int, n),
		CommunityWeights:         make([]float64, n),
		CommunityInternalWeights: make([]float64, n),
		NumCommunities:           n,
	}

	for i := 0; i < n; i++ {
		comm.NodeToCommunity[i] = i
		comm.CommunitySizes[i] = 1
		comm.CommunityWeights[i] = graph.Degrees[i]
		comm.CommunityInternalWeights[i] = 2 * graph.SelfLoop(i) // self-loops count double
	}

	return comm
}

// NewCommunityFromAssignment initializes communities from an existing
// assignment, one id per node. Ids are renumbered densely.
func NewCommunityFromAssignment(graph *Graph, assignment []int) (*Community, error) {
	if len(assignment) != graph.NumNodes {
		return nil, fmt.Errorf("assignment has %d entries, graph has %d nodes", len(assignment), graph.NumNodes)
	}
	dense, _ := normalize(assignment)

	comm := &Community{
		NodeToCommunity:          dense,
		CommunitySizes:           make([]int, graph.NumNodes),
		CommunityWeights:         make([]float64, graph.NumNodes),
		CommunityInternalWeights: make([]float64, graph.NumNodes),
		NumCommunities:           graph.NumNodes,
	}

	for u := 0; u < graph.NumNodes; u++ {
		cu := dense[u]
		comm.CommunitySizes[cu]++
		comm.CommunityWeights[cu] += graph.Degrees[u]
		neighbors, weights := graph.GetNeighbors(u)
		for i, v := range neighbors {
			if dense[v] != cu {
				continue
			}
			if v == u {
				comm.CommunityInternalWeights[cu] += 2 * weights[i]
			} else {
				comm.CommunityInternalWeights[cu] += weights[i]
			}
		}
	}
	return comm, nil
}

// CalculateModularity computes Newman's modularity
func CalculateModularity(graph *Graph, comm *Community) float64 {
	if graph.TotalWeight == 0 {
		return 0.0
	}

	modularity := 0.0
	m2 := 2.0 * graph.TotalWeight

	for c := 0; c < comm.NumCommunities; c++ {
		if comm.CommunitySizes[c] == 0 {
			continue
		}

		internal := comm.CommunityInternalWeights[c]
		total := comm.CommunityWeights[c]

		modularity += internal/m2 - (total/m2)*(total/m2)
	}

	return modularity
}

// CalculateModularityGain computes the gain, scaled by m, of inserting an
// isolated node into targetComm whose total excludes the node.
func CalculateModularityGain(graph *Graph, node int, commTotal, edgeWeight float64) float64 {
	nodeDegree := graph.Degrees[node]
	m2 := 2.0 * graph.TotalWeight

	return edgeWeight - (nodeDegree*commTotal)/m2
}

// GetEdgeWeightToComm calculates total edge weight from node to community,
// ignoring self-loops
func GetEdgeWeightToComm(graph *Graph, comm *Community, node, targetComm int) float64 {
	weight := 0.0
	neighbors, weights := graph.GetNeighbors(node)

	for i, neighbor := range neighbors {
		if neighbor != node && comm.NodeToCommunity[neighbor] == targetComm {
			weight += weights[i]
		}
	}

	return weight
}

// MoveNode moves a node to a different community
func MoveNode(graph *Graph, comm *Community, node, oldComm, newComm int) {
	if oldComm == newComm {
		return
	}

	nodeDegree := graph.Degrees[node]
	selfLoop := graph.SelfLoop(node)

	oldWeight := GetEdgeWeightToComm(graph, comm, node, oldComm)
	comm.CommunitySizes[oldComm]--
	comm.CommunityWeights[oldComm] -= nodeDegree
	comm.CommunityInternalWeights[oldComm] -= 2 * (oldWeight + selfLoop)

	newWeight := GetEdgeWeightToComm(graph, comm, node, newComm)
	comm.NodeToCommunity[node] = newComm
	comm.CommunitySizes[newComm]++
	comm.CommunityWeights[newComm] += nodeDegree
	comm.CommunityInternalWeights[newComm] += 2 * (newWeight + selfLoop)
}

// OneLevel performs one level of local optimization
func OneLevel(graph *Graph, comm *Community, opts Options, rng *rand.Rand, logger zerolog.Logger) (bool, int) {
	if graph.TotalWeight == 0 {
		return false, 0
	}

	improvement := false
	totalMoves := 0

	// Create node processing order
	nodes := make([]int, graph.NumNodes)
	for i := range nodes {
		nodes[i] = i
	}

	for iteration := 0; iteration < opts.MaxIterations; iteration++ {
		if opts.expired() {
			logger.Debug().Int("iteration", iteration).Msg("Deadline reached")
			break
		}
		iterationMoves := 0

		// Shuffle nodes for better convergence
		rng.Shuffle(len(nodes), func(i, j int) { nodes[i], nodes[j] = nodes[j], nodes[i] })

		for _, node := range nodes {
			oldComm := comm.NodeToCommunity[node]
			nodeDegree := graph.Degrees[node]

			// Find neighbor communities
			neighborComms := make(map[int]float64)
			neighbors, weights := graph.GetNeighbors(node)
			for i, neighbor := range neighbors {
				if neighbor == node {
					continue
				}
				neighborComms[comm.NodeToCommunity[neighbor]] += weights[i]
			}

			// Gain of staying, measured as if the node were removed first
			stay := CalculateModularityGain(graph, node, comm.CommunityWeights[oldComm]-nodeDegree, neighborComms[oldComm])

			bestComm := oldComm
			bestGain := 0.0
			for targetComm, edgeWeight := range neighborComms {
				if targetComm == oldComm {
					continue
				}
				gain := CalculateModularityGain(graph, node, comm.CommunityWeights[targetComm], edgeWeight) - stay
				if gain > bestGain || (gain == bestGain && bestComm != oldComm && targetComm < bestComm) { // tiebreaking by community ID
					bestComm = targetComm
					bestGain = gain
				}
			}

			if bestComm != oldComm && bestGain > opts.MinModularityGain {
				MoveNode(graph, comm, node, oldComm, bestComm)
				iterationMoves++
				improvement = true
			}
		}

		totalMoves += iterationMoves

		if iterationMoves == 0 {
			logger.Debug().Int("iteration", iteration+1).Msg("Converged: no moves")
			break
		}
	}

	return improvement, totalMoves
}

// AggregateGraph creates a super-graph from communities. It returns the
// super-graph and the super-node of every community slot, -1 for empty ones.
func AggregateGraph(graph *Graph, comm *Community) (*Graph, []int, error) {
	commToSuper := make([]int, comm.NumCommunities)
	numSuperNodes := 0
	for c := 0; c < comm.NumCommunities; c++ {
		if comm.CommunitySizes[c] > 0 {
			commToSuper[c] = numSuperNodes
			numSuperNodes++
		} else {
			commToSuper[c] = -1
		}
	}
	if numSuperNodes == 0 {
		return nil, nil, fmt.Errorf("no valid communities found")
	}

	superEdges := make(map[[2]int]float64)
	for node := 0; node < graph.NumNodes; node++ {
		superI := commToSuper[comm.NodeToCommunity[node]]

		neighbors, weights := graph.GetNeighbors(node)
		for i, neighbor := range neighbors {
			superJ := commToSuper[comm.NodeToCommunity[neighbor]]

			// Create edge key (sorted for undirected graph)
			edge := [2]int{superI, superJ}
			if superJ < superI {
				edge = [2]int{superJ, superI}
			}

			if neighbor == node {
				// Self-loop: count double because it will be divided by 2 later
				superEdges[edge] += 2 * weights[i]
			} else {
				// Regular edge: encountered twice, divided by 2 later
				superEdges[edge] += weights[i]
			}
		}
	}

	keys := make([][2]int, 0, len(superEdges))
	for edge := range superEdges {
		keys = append(keys, edge)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a][0] != keys[b][0] {
			return keys[a][0] < keys[b][0]
		}
		return keys[a][1] < keys[b][1]
	})

	superGraph := NewGraph(numSuperNodes)
	for _, edge := range keys {
		if weight := superEdges[edge]; weight > 0 {
			if err := superGraph.AddEdge(edge[0], edge[1], weight/2); err != nil {
				return nil, nil, err
			}
		}
	}

	return superGraph, commToSuper, nil
}

// Run executes the complete Louvain algorithm. A non-nil initial assignment
// is used as the starting partition of the first level.
func Run(ctx context.Context, graph *Graph, opts Options, initial []int, rng *rand.Rand, logger zerolog.Logger) (*Result, error) {
	startTime := time.Now()

	var comm *Community
	if initial != nil {
		var err error
		if comm, err = NewCommunityFromAssignment(graph, initial); err != nil {
			return nil, fmt.Errorf("invalid warm start: %w", err)
		}
	} else {
		comm = NewCommunity(graph)
	}

	result := &Result{Levels: make([]LevelStats, 0)}
	currentGraph := graph

	// nodeToCurrent[i] = node of the current level containing original node i
	nodeToCurrent := make([]int, graph.NumNodes)
	for i := range nodeToCurrent {
		nodeToCurrent[i] = i
	}

	for level := 0; level < opts.MaxLevels; level++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		levelStart := time.Now()
		initialMod := CalculateModularity(currentGraph, comm)

		improvement, moves := OneLevel(currentGraph, comm, opts, rng, logger)
		finalMod := CalculateModularity(currentGraph, comm)

		result.Levels = append(result.Levels, LevelStats{
			Level:             level,
			Nodes:             currentGraph.NumNodes,
			Moves:             moves,
			InitialModularity: initialMod,
			FinalModularity:   finalMod,
			RuntimeMS:         time.Since(levelStart).Milliseconds(),
		})
		result.TotalMoves += moves

		logger.Debug().
			Int("level", level).
			Int("nodes", currentGraph.NumNodes).
			Int("moves", moves).
			Float64("modularity", finalMod).
			Msg("Louvain level finished")

		if !improvement || opts.expired() {
			break
		}

		superGraph, commToSuper, err := AggregateGraph(currentGraph, comm)
		if err != nil {
			return nil, fmt.Errorf("aggregation failed at level %d: %w", level, err)
		}
		if superGraph.NumNodes >= currentGraph.NumNodes {
			break
		}

		for i, node := range nodeToCurrent {
			nodeToCurrent[i] = commToSuper[comm.NodeToCommunity[node]]
		}
		currentGraph = superGraph
		comm = NewCommunity(currentGraph)
		if superGraph.NumNodes == 1 {
			break
		}
	}

	final := make([]int, graph.NumNodes)
	for i, node := range nodeToCurrent {
		final[i] = comm.NodeToCommunity[node]
	}
	result.Communities, result.NumCommunities = normalize(final)
	result.Modularity = CalculateModularity(currentGraph, comm)
	result.NumLevels = len(result.Levels)
	result.RuntimeMS = time.Since(startTime).Milliseconds()

	return result, nil
}

// normalize renumbers ids densely in order of first appearance.
func normalize(assignment []int) ([]int, int) {
	ids := make(map[int]int)
	dense := make([]int, len(assignment))
	for i, c := range assignment {
		id, ok := ids[c]
		if !ok {
			id = len(ids)
			ids[c] = id
		}
		dense[i] = id
	}
	return dense, len(ids)
}
