package louvain

import "math/rand"

// LabelPropagation updates labels in place for at most rounds rounds. Each
// node takes the label with the largest total edge weight among its
// neighbors, ties going to the smaller label. It returns the number of
// label changes.
func LabelPropagation(graph *Graph, labels []int, rounds int, rng *rand.Rand) int {
	nodes := make([]int, graph.NumNodes)
	for i := range nodes {
		nodes[i] = i
	}

	changes := 0
	for round := 0; round < rounds; round++ {
		roundChanges := 0
		rng.Shuffle(len(nodes), func(i, j int) { nodes[i], nodes[j] = nodes[j], nodes[i] })

		for _, node := range nodes {
			neighbors, weights := graph.GetNeighbors(node)
			score := make(map[int]float64, len(neighbors))
			for i, neighbor := range neighbors {
				if neighbor != node {
					score[labels[neighbor]] += weights[i]
				}
			}
			if len(score) == 0 {
				continue
			}

			best := labels[node]
			bestScore := score[best]
			for label, s := range score {
				if s > bestScore || (s == bestScore && label < best) {
					best = label
					bestScore = s
				}
			}
			if best != labels[node] {
				labels[node] = best
				roundChanges++
			}
		}

		changes += roundChanges
		if roundChanges == 0 {
			break
		}
	}
	return changes
}
