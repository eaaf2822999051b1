package coarsening

import (
	"math"

	"github.com/gilchrisn/graph-coarsening/pkg/config"
	"github.com/gilchrisn/graph-coarsening/pkg/graph"
)

// StopRule decides when coarsening has gone far enough. It also bounds the
// weight of coarse nodes the matchers may create.
type StopRule interface {
	// Stop reports whether coarsening should end after a level that shrank
	// finerNodes to coarserNodes.
	Stop(finerNodes, coarserNodes int) bool
	MaxVertexWeight() int
}

// NewStopRule builds the rule selected by cfg.StopRule for a graph g.
func NewStopRule(cfg config.PartitionConfig, g *graph.Graph) StopRule {
	n := float64(g.NumNodes)
	k := float64(cfg.K)
	workLoad := float64(g.TotalNodeWeight())

	switch cfg.StopRule {
	case config.StopRuleMultipleK:
		numStop := math.Max(float64(cfg.NumVertStopFactor)*k, 1)
		return newThresholdRule(cfg, numStop, 1.5*workLoad/numStop)
	case config.StopRuleStrong:
		numStop := math.Max(k, 1)
		return newThresholdRule(cfg, numStop, float64(cfg.UpperBoundPartition(g.TotalNodeWeight())))
	default:
		const x = 60.0
		numStop := math.Max(n/(2.0*x*k), 60.0*k)
		return newThresholdRule(cfg, numStop, 1.5*workLoad/numStop)
	}
}

// thresholdRule continues while levels still shrink by at least 10% and
// the coarse graph is not yet below numStop nodes.
type thresholdRule struct {
	numStop         float64
	maxVertexWeight int
}

func newThresholdRule(cfg config.PartitionConfig, numStop, maxVertexWeight float64) *thresholdRule {
	r := &thresholdRule{numStop: numStop, maxVertexWeight: int(maxVertexWeight)}
	if cfg.DisableMaxVertexWeightConstraint {
		r.maxVertexWeight = math.MaxInt
	}
	if r.maxVertexWeight < 1 {
		r.maxVertexWeight = 1
	}
	return r
}

func (r *thresholdRule) Stop(finerNodes, coarserNodes int) bool {
	if coarserNodes == 0 {
		return true
	}
	contractionRate := float64(finerNodes) / float64(coarserNodes)
	return contractionRate < 1.1 || float64(coarserNodes) < r.numStop
}

func (r *thresholdRule) MaxVertexWeight() int {
	return r.maxVertexWeight
}
