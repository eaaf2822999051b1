package bcc

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/gilchrisn/graph-coarsening/pkg/config"
	"github.com/gilchrisn/graph-coarsening/pkg/graph"
	"github.com/gilchrisn/graph-coarsening/pkg/quality"
)

// ModularityTolerance is the largest accepted absolute difference between
// the modularity an oracle reports and the locally recomputed one.
const ModularityTolerance = 0.005

// Adapter runs a clustering oracle on a graph and stores the clustering in
// one of the graph's partition slots.
type Adapter struct {
	oracle  Oracle
	quality QualityMetric
	logger  zerolog.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithLogger sets the adapter's logger.
func WithLogger(logger zerolog.Logger) AdapterOption {
	return func(a *Adapter) { a.logger = logger }
}

// WithQualityMetric replaces the modularity routine used for cross-checks.
func WithQualityMetric(q QualityMetric) AdapterOption {
	return func(a *Adapter) { a.quality = q }
}

// NewAdapter creates an adapter around oracle.
func NewAdapter(oracle Oracle, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		oracle:  oracle,
		quality: quality.Modularity,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ComputeAndSetClustering clusters g with the oracle variant selected by
// cfg.BCCVieClusMode and returns the reported modularity.
//
// Under FirstPartitionIndex the clustering replaces g's primary partition and
// k becomes the cluster count. Under SecondPartitionIndex it is written into
// the secondary slot, the primary slot is left alone and cfg.Combine is set.
// With cfg.BCCVerify the reported modularity is recomputed locally and a
// difference above ModularityTolerance is an error. Every error leaves the
// run unusable; nothing is retried.
func (a *Adapter) ComputeAndSetClustering(g *graph.Graph, cfg *config.PartitionConfig) (float64, error) {
	run, err := a.entryPoint(cfg.BCCVieClusMode)
	if err != nil {
		return 0, err
	}
	if !cfg.BCCCombineMode.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCombineMode, int(cfg.BCCCombineMode))
	}

	in := Input{
		CSR:       g.ExportCSR(),
		TimeLimit: cfg.BCCTimeLimit,
		Seed:      cfg.Seed,
	}

	if cfg.BCCReuseClustering && g.HasSecondPartitionIndex() {
		in.InitialClustering = make([]int, g.NumNodes)
		for u := 0; u < g.NumNodes; u++ {
			in.InitialClustering[u] = g.SecondPartitionIndex(u)
		}
		if cfg.BCCVerify {
			q := a.measure(g, in.InitialClustering, clusterCount(in.InitialClustering))
			a.logger.Info().
				Float64("modularity", q).
				Int("nodes", g.NumNodes).
				Msg("Warm start clustering")
		}
	}

	variant := cfg.BCCVieClusMode.String()
	partitionMap := make([]int, g.NumNodes)

	start := time.Now()
	out, err := run(in, partitionMap)
	elapsed := time.Since(start)
	oracleDuration.Observe(elapsed.Seconds())
	if err != nil {
		oracleCalls.WithLabelValues(variant, outcomeError).Inc()
		return 0, fmt.Errorf("%w: %s: %v", ErrOracleFailed, variant, err)
	}

	if out.ClusterCount < 0 {
		oracleCalls.WithLabelValues(variant, outcomeContract).Inc()
		return 0, fmt.Errorf("%w: %s returned %d", ErrUndefinedClusterCount, variant, out.ClusterCount)
	}
	for u, c := range partitionMap {
		if c < 0 || c >= out.ClusterCount {
			oracleCalls.WithLabelValues(variant, outcomeContract).Inc()
			return 0, fmt.Errorf("%w: node %d has cluster %d, k=%d", ErrClusterOutOfRange, u, c, out.ClusterCount)
		}
	}

	if in.InitialClustering != nil && cfg.BCCVerify {
		a.logAgreement(in.InitialClustering, partitionMap)
	}

	a.logger.Info().
		Str("variant", variant).
		Dur("time", elapsed).
		Float64("modularity", out.Modularity).
		Int("clusters", out.ClusterCount).
		Msg("Clustering oracle finished")

	switch cfg.BCCCombineMode {
	case config.FirstPartitionIndex:
		for u, c := range partitionMap {
			g.SetPartitionIndex(u, c)
		}
		g.SetPartitionCount(out.ClusterCount)
	case config.SecondPartitionIndex:
		g.ResizeSecondPartitionIndex(g.NumNodes)
		for u, c := range partitionMap {
			g.SetSecondPartitionIndex(u, c)
		}
	}

	if cfg.BCCVerify {
		local := a.measure(g, partitionMap, out.ClusterCount)
		if diff := math.Abs(local - out.Modularity); diff > ModularityTolerance {
			oracleCalls.WithLabelValues(variant, outcomeMismatch).Inc()
			return 0, fmt.Errorf("%w: reported %.6f, recomputed %.6f, difference %.6f",
				ErrModularityMismatch, out.Modularity, local, diff)
		}
		a.logger.Debug().
			Float64("reported", out.Modularity).
			Float64("recomputed", local).
			Msg("Oracle modularity verified")
	}

	if cfg.BCCCombineMode == config.SecondPartitionIndex {
		cfg.Combine = true
	}

	oracleCalls.WithLabelValues(variant, outcomeSuccess).Inc()
	oracleModularity.Set(out.Modularity)
	return out.Modularity, nil
}

func (a *Adapter) entryPoint(mode config.VieClusMode) (func(Input, []int) (Output, error), error) {
	switch mode {
	case config.VieClusNormal:
		return a.oracle.RunDefault, nil
	case config.VieClusShallow:
		return a.oracle.RunShallow, nil
	case config.VieClusShallowNoLP:
		return a.oracle.RunShallowNoLP, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidVieClusMode, int(mode))
	}
}

// logAgreement logs the NMI between the warm start and the new clustering.
func (a *Adapter) logAgreement(initial, clustering []int) {
	nmi, err := quality.NMI(initial, clustering)
	if err != nil {
		a.logger.Debug().Err(err).Msg("Agreement with warm start clustering not computed")
		return
	}
	a.logger.Info().Float64("nmi", nmi).Msg("Agreement with warm start clustering")
}

// measure installs assignment as g's primary partition, computes its
// modularity and restores the previous primary partition.
func (a *Adapter) measure(g *graph.Graph, assignment []int, k int) float64 {
	var snapshot PartitionSnapshot
	snapshot.Set(g)
	defer snapshot.Apply(g)

	for u, c := range assignment {
		g.SetPartitionIndex(u, c)
	}
	g.SetPartitionCount(k)
	return a.quality(g)
}

func clusterCount(assignment []int) int {
	k := 0
	for _, c := range assignment {
		if c+1 > k {
			k = c + 1
		}
	}
	return k
}
