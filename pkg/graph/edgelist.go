package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadEdgeListFile reads a whitespace separated edge list from a file.
func ReadEdgeListFile(filename string) (*Graph, []string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	return ReadEdgeList(file)
}

// ReadEdgeList reads lines of the form "from to [weight]". Node names are
// arbitrary tokens numbered in order of first appearance; the returned
// slice maps node ids back to names. Repeated edges are merged by summing
// their weights and self loops are dropped. Lines starting with # or % are
// comments.
func ReadEdgeList(r io.Reader) (*Graph, []string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)

	ids := make(map[string]NodeID)
	var names []string
	nodeID := func(name string) NodeID {
		if id, ok := ids[name]; ok {
			return id
		}
		id := len(names)
		ids[name] = id
		names = append(names, name)
		return id
	}

	type edgeKey struct{ u, v NodeID }
	weights := make(map[edgeKey]float64)
	var order []edgeKey

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "%") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			return nil, nil, fmt.Errorf("%w: line %d: edge needs two endpoints", ErrFormat, lineNo)
		}
		weight := 1.0
		if len(parts) >= 3 {
			w, err := strconv.ParseFloat(parts[2], 64)
			if err != nil || w <= 0 {
				return nil, nil, fmt.Errorf("%w: line %d: bad edge weight %q", ErrFormat, lineNo, parts[2])
			}
			weight = w
		}

		u, v := nodeID(parts[0]), nodeID(parts[1])
		if u == v {
			continue
		}
		if v < u {
			u, v = v, u
		}
		key := edgeKey{u, v}
		if _, seen := weights[key]; !seen {
			order = append(order, key)
		}
		weights[key] += weight
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if len(names) == 0 {
		return nil, nil, ErrEmptyGraph
	}

	g := NewGraph(len(names))
	for _, e := range order {
		if err := g.AddEdge(e.u, e.v, weights[e]); err != nil {
			return nil, nil, err
		}
	}
	return g, names, nil
}

// WriteNamedPartition writes "name block" for every node.
func WriteNamedPartition(g *Graph, names []string, filename string) (err error) {
	if len(names) != g.NumNodes {
		return fmt.Errorf("%w: %d names for %d nodes", ErrInconsistent, len(names), g.NumNodes)
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(file)
	for u := 0; u < g.NumNodes; u++ {
		if _, err := fmt.Fprintf(w, "%s %d\n", names[u], g.PartitionIndex(u)); err != nil {
			return err
		}
	}
	return w.Flush()
}
