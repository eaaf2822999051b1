// Package hierarchy stores the levels produced by multilevel coarsening and
// projects partitions from coarse levels back to finer ones.
package hierarchy

import (
	"fmt"

	"github.com/gilchrisn/graph-coarsening/pkg/graph"
)

// Level is one graph of the hierarchy together with the mapping of its
// nodes onto the next coarser level. The coarsest level has no mapping.
type Level struct {
	Graph   *graph.Graph
	Mapping graph.CoarseMapping
}

// GraphHierarchy is a LIFO of levels, finest at the bottom.
type GraphHierarchy struct {
	levels []Level

	currentCoarser *graph.Graph
	currentMapping graph.CoarseMapping
}

// New returns an empty hierarchy.
func New() *GraphHierarchy {
	return &GraphHierarchy{}
}

// PushBack appends g as the new coarsest level. mapping maps g's nodes onto
// the level pushed next; the terminal push passes nil.
func (h *GraphHierarchy) PushBack(g *graph.Graph, mapping graph.CoarseMapping) {
	h.levels = append(h.levels, Level{Graph: g, Mapping: mapping})
}

// PopFinerAndProject pops the coarsest remaining level and returns the next
// finer graph, whose primary partition and k are overwritten with the
// projection of the level above it.
//
// The first call consumes two levels: the coarsest graph, which holds the
// partition to project, and the graph below it.
func (h *GraphHierarchy) PopFinerAndProject() (*graph.Graph, error) {
	if len(h.levels) == 0 {
		return nil, ErrEmptyHierarchy
	}

	if h.currentCoarser == nil {
		h.currentCoarser = h.pop().Graph
		if len(h.levels) == 0 {
			return nil, ErrNoFinerLevel
		}
	}

	finer := h.pop()
	if err := finer.Graph.ProjectPartition(h.currentCoarser, finer.Mapping); err != nil {
		return nil, fmt.Errorf("project level %d: %w", len(h.levels), err)
	}

	h.currentCoarser = finer.Graph
	h.currentMapping = finer.Mapping
	return finer.Graph, nil
}

func (h *GraphHierarchy) pop() Level {
	top := h.levels[len(h.levels)-1]
	h.levels[len(h.levels)-1] = Level{}
	h.levels = h.levels[:len(h.levels)-1]
	return top
}

// GetCoarsest returns the top level's graph without popping it.
func (h *GraphHierarchy) GetCoarsest() *graph.Graph {
	if len(h.levels) == 0 {
		return nil
	}
	return h.levels[len(h.levels)-1].Graph
}

// GetMappingOfCurrentFiner returns the mapping used by the last projection.
func (h *GraphHierarchy) GetMappingOfCurrentFiner() graph.CoarseMapping {
	return h.currentMapping
}

// At returns the i-th level counted from the top: 0 is the coarsest.
func (h *GraphHierarchy) At(i int) (Level, error) {
	if i < 0 || i >= len(h.levels) {
		return Level{}, fmt.Errorf("%w: %d, size %d", ErrIndexOutOfRange, i, len(h.levels))
	}
	return h.levels[len(h.levels)-1-i], nil
}

// Levels returns the remaining levels from finest to coarsest.
func (h *GraphHierarchy) Levels() []Level {
	out := make([]Level, len(h.levels))
	copy(out, h.levels)
	return out
}

// Size returns the number of remaining levels.
func (h *GraphHierarchy) Size() int {
	return len(h.levels)
}

// IsEmpty reports whether no levels remain.
func (h *GraphHierarchy) IsEmpty() bool {
	return len(h.levels) == 0
}
