// Package report writes summaries of a coarsening run: a hierarchy report in
// YAML or text form and a JSONL trace with one record per level.
package report

import (
	"time"

	"github.com/gilchrisn/graph-coarsening/pkg/coarsening"
	"github.com/gilchrisn/graph-coarsening/pkg/config"
	"github.com/gilchrisn/graph-coarsening/pkg/hierarchy"
)

// LevelSummary describes one graph of the hierarchy.
type LevelSummary struct {
	Level           int     `yaml:"level"`
	Nodes           int     `yaml:"nodes"`
	Edges           int     `yaml:"edges"`
	TotalNodeWeight int     `yaml:"total_node_weight"`
	MaxNodeWeight   int     `yaml:"max_node_weight"`
	TotalEdgeWeight float64 `yaml:"total_edge_weight"`
	HasMapping      bool    `yaml:"has_mapping"`
}

// Report is the summary of one coarsening run.
type Report struct {
	RunID     string                  `yaml:"run_id"`
	Graph     string                  `yaml:"graph,omitempty"`
	Config    string                  `yaml:"config"`
	CreatedAt time.Time               `yaml:"created_at"`
	Duration  time.Duration           `yaml:"duration"`
	Hierarchy []LevelSummary          `yaml:"hierarchy"`
	Levels    []coarsening.LevelStats `yaml:"levels"`
}

// Build summarizes a finished run. h must still hold every level, i.e. it
// is built before any projection pops levels off.
func Build(runID string, cfg config.PartitionConfig, stats *coarsening.Stats, h *hierarchy.GraphHierarchy) *Report {
	r := &Report{
		RunID:     runID,
		Graph:     cfg.GraphFilename,
		Config:    cfg.String(),
		CreatedAt: time.Now().UTC(),
	}
	if stats != nil {
		r.Duration = stats.Duration
		r.Levels = stats.Levels
	}

	for i, level := range h.Levels() {
		g := level.Graph
		s := LevelSummary{
			Level:           i,
			Nodes:           g.NumNodes,
			Edges:           g.NumEdges() / 2,
			TotalNodeWeight: g.TotalNodeWeight(),
			TotalEdgeWeight: g.TotalWeight,
			HasMapping:      level.Mapping != nil,
		}
		for _, w := range g.NodeWeights {
			if w > s.MaxNodeWeight {
				s.MaxNodeWeight = w
			}
		}
		r.Hierarchy = append(r.Hierarchy, s)
	}
	return r
}

// Coarsest returns the summary of the coarsest level, or false for an empty report.
func (r *Report) Coarsest() (LevelSummary, bool) {
	if len(r.Hierarchy) == 0 {
		return LevelSummary{}, false
	}
	return r.Hierarchy[len(r.Hierarchy)-1], true
}
