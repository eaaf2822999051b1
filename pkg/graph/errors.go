package graph

import "errors"

var (
	// ErrEmptyGraph indicates a graph without nodes.
	ErrEmptyGraph = errors.New("graph: graph must have a positive number of nodes")
	// ErrNodeOutOfRange indicates a node index outside [0, n).
	ErrNodeOutOfRange = errors.New("graph: node index out of range")
	// ErrSelfLoop indicates an attempt to add an edge from a node to itself.
	ErrSelfLoop = errors.New("graph: self loops are not supported")
	// ErrNonPositiveWeight indicates an edge weight <= 0.
	ErrNonPositiveWeight = errors.New("graph: edge weight must be positive")
	// ErrInconsistent indicates broken internal array invariants.
	ErrInconsistent = errors.New("graph: inconsistent graph")
	// ErrInvalidMapping indicates a coarse mapping that is not dense in [0, k).
	ErrInvalidMapping = errors.New("graph: invalid coarse mapping")
	// ErrFormat indicates a malformed graph file.
	ErrFormat = errors.New("graph: malformed graph file")
)
