package config

import (
	"fmt"
	"strings"
)

// PartitionConfig is the typed configuration of one coarsening run. It is a
// plain value: callers pass it by value and every run works on its own copy.
type PartitionConfig struct {
	K         int
	Seed      int
	Imbalance float64 // percent

	// matching
	EdgeRating                       EdgeRating
	MatchingType                     MatchingType
	AggressiveRandomLevels           int
	MaxVertexWeight                  int
	DisableMaxVertexWeightConstraint bool

	// coarsening
	StopRule                StopRule
	NumVertStopFactor       int
	InitialPartitioning     bool
	GraphAlreadyPartitioned bool
	// Combine is set once the secondary partition index holds a clustering
	// that contraction must preserve; edges between its clusters are never
	// contracted.
	Combine bool

	// cluster-guided coarsening
	BCCMode            BCCMode
	BCCCombineMode     CombineMode
	BCCVieClusMode     VieClusMode
	BCCVerify          bool
	BCCReuseClustering bool
	BCCTimeLimit       int // seconds, 0 = unspecified

	GraphFilename  string
	OutputFilename string
}

// DisableBCC turns cluster-guided coarsening off.
func (c *PartitionConfig) DisableBCC() {
	c.BCCMode = NoClustering
	c.BCCVerify = false
	c.Combine = false
	c.BCCReuseClustering = false
}

// UpperBoundPartition returns the maximum block weight allowed by the
// imbalance for a graph of the given total node weight.
func (c PartitionConfig) UpperBoundPartition(totalWeight int) int {
	if c.K <= 0 {
		return totalWeight
	}
	perBlock := (totalWeight + c.K - 1) / c.K
	return int((1.0 + c.Imbalance/100.0) * float64(perBlock))
}

// String dumps the configuration in one line, the way the CLI logs it.
func (c PartitionConfig) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "{k=%d, seed=%d, imbalance=%g", c.K, c.Seed, c.Imbalance)
	fmt.Fprintf(&b, ", edge_rating=%s, matching_type=%s", c.EdgeRating, c.MatchingType)
	fmt.Fprintf(&b, ", aggressive_random_levels=%d, max_vertex_weight=%d", c.AggressiveRandomLevels, c.MaxVertexWeight)
	fmt.Fprintf(&b, ", stop_rule=%s, num_vert_stop_factor=%d", c.StopRule, c.NumVertStopFactor)
	fmt.Fprintf(&b, ", initial_partitioning=%t, graph_allready_partitioned=%t, combine=%t",
		c.InitialPartitioning, c.GraphAlreadyPartitioned, c.Combine)
	fmt.Fprintf(&b, ", bcc_mode=%s, bcc_combine_mode=%s, bcc_vieclus_mode=%s",
		c.BCCMode, c.BCCCombineMode, c.BCCVieClusMode)
	fmt.Fprintf(&b, ", bcc_verify=%t, bcc_reuse_clustering=%t, bcc_time_limit=%d}",
		c.BCCVerify, c.BCCReuseClustering, c.BCCTimeLimit)
	return b.String()
}
