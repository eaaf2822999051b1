package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadMetisFile reads a graph in METIS format from a file.
func ReadMetisFile(filename string) (*Graph, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadMetis(file)
}

// ReadMetis reads a graph in METIS format. The header is "n m [fmt]" where
// fmt 1 enables edge weights, 10 node weights and 11 both. Node ids in the
// body are 1-based; lines starting with % are comments.
func ReadMetis(r io.Reader) (*Graph, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)

	var g *Graph
	var declaredEdges int
	nodeWeighted, edgeWeighted := false, false
	node := 0
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "%") {
			continue
		}

		if g == nil {
			if line == "" {
				continue
			}
			parts := strings.Fields(line)
			if len(parts) < 2 {
				return nil, fmt.Errorf("%w: line %d: header needs n and m", ErrFormat, lineNo)
			}
			n, err1 := strconv.Atoi(parts[0])
			m, err2 := strconv.Atoi(parts[1])
			if err1 != nil || err2 != nil || n <= 0 || m < 0 {
				return nil, fmt.Errorf("%w: line %d: bad header %q", ErrFormat, lineNo, line)
			}
			if len(parts) >= 3 {
				format := parts[2]
				for len(format) < 3 {
					format = "0" + format
				}
				nodeWeighted = format[1] == '1'
				edgeWeighted = format[2] == '1'
			}
			g = NewGraph(n)
			declaredEdges = m
			continue
		}

		if node >= g.NumNodes {
			if line == "" {
				continue
			}
			return nil, fmt.Errorf("%w: line %d: more node lines than declared", ErrFormat, lineNo)
		}

		fields := strings.Fields(line)
		pos := 0
		if nodeWeighted {
			if len(fields) == 0 {
				return nil, fmt.Errorf("%w: line %d: missing node weight", ErrFormat, lineNo)
			}
			w, err := strconv.Atoi(fields[0])
			if err != nil || w <= 0 {
				return nil, fmt.Errorf("%w: line %d: bad node weight %q", ErrFormat, lineNo, fields[0])
			}
			g.SetNodeWeight(node, w)
			pos = 1
		}

		for pos < len(fields) {
			target, err := strconv.Atoi(fields[pos])
			if err != nil || target < 1 || target > g.NumNodes {
				return nil, fmt.Errorf("%w: line %d: bad neighbor %q", ErrFormat, lineNo, fields[pos])
			}
			pos++
			weight := 1.0
			if edgeWeighted {
				if pos >= len(fields) {
					return nil, fmt.Errorf("%w: line %d: missing edge weight", ErrFormat, lineNo)
				}
				weight, err = strconv.ParseFloat(fields[pos], 64)
				if err != nil || weight <= 0 {
					return nil, fmt.Errorf("%w: line %d: bad edge weight %q", ErrFormat, lineNo, fields[pos])
				}
				pos++
			}
			// every undirected edge appears in both endpoint lines
			if v := target - 1; v > node {
				if err := g.AddEdge(node, v, weight); err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
			}
		}
		node++
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("%w: missing header", ErrFormat)
	}
	if node != g.NumNodes {
		return nil, fmt.Errorf("%w: %d node lines, expected %d", ErrFormat, node, g.NumNodes)
	}
	if g.NumEdges()/2 != declaredEdges {
		return nil, fmt.Errorf("%w: %d edges read, header declares %d", ErrFormat, g.NumEdges()/2, declaredEdges)
	}

	return g, nil
}

// WritePartition writes the primary partition index, one block id per line.
func WritePartition(g *Graph, filename string) (err error) {
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
		if _, err := fmt.Fprintf(w, "%d\n", g.PartitionIndex(u)); err != nil {
			return err
		}
	}
	return w.Flush()
}
