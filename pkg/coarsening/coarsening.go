// Package coarsening implements the multilevel coarsening loop, optionally
// guided by a clustering oracle, together with its default matching,
// rating, contraction and stop rule collaborators.
package coarsening

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gilchrisn/graph-coarsening/pkg/bcc"
	"github.com/gilchrisn/graph-coarsening/pkg/config"
	"github.com/gilchrisn/graph-coarsening/pkg/graph"
	"github.com/gilchrisn/graph-coarsening/pkg/hierarchy"
)

// levelKind tells the collaborators of one level where its mapping comes from.
type levelKind int

const (
	levelOrdinary levelKind = iota
	levelClusterCoarsening
)

func (k levelKind) String() string {
	if k == levelClusterCoarsening {
		return "cluster_coarsening"
	}
	return "matching"
}

// LevelStats describes one coarsening level.
type LevelStats struct {
	Level        int           `json:"level" yaml:"level"`
	Nodes        int           `json:"nodes" yaml:"nodes"`
	Edges        int           `json:"edges" yaml:"edges"`
	CoarserNodes int           `json:"coarser_nodes" yaml:"coarser_nodes"`
	Kind         string        `json:"kind" yaml:"kind"`
	Clustered    bool          `json:"clustered" yaml:"clustered"`
	Modularity   float64       `json:"modularity,omitempty" yaml:"modularity,omitempty"`
	Verified     bool          `json:"verified" yaml:"verified"`
	Duration     time.Duration `json:"duration_ns" yaml:"duration"`
}

// Stats summarizes a coarsening run.
type Stats struct {
	Levels   []LevelStats  `json:"levels" yaml:"levels"`
	Duration time.Duration `json:"duration_ns" yaml:"duration"`
}

// NumLevels returns the number of contracted levels.
func (s *Stats) NumLevels() int {
	return len(s.Levels)
}

// StopRuleFactory builds the stop rule of a run.
type StopRuleFactory func(cfg config.PartitionConfig, g *graph.Graph) StopRule

// LevelObserver is notified after every completed level.
type LevelObserver func(stats LevelStats)

// Coarsener runs multilevel coarsening.
type Coarsener struct {
	adapter    *bcc.Adapter
	rater      EdgeRater
	matcher    MatcherFactory
	contractor Contractor
	stopRule   StopRuleFactory
	observers  []LevelObserver
	logger     zerolog.Logger
}

// Option configures a Coarsener.
type Option func(*Coarsener)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Coarsener) { c.logger = logger }
}

// WithAdapter sets the clustering oracle adapter used in multilevel mode.
func WithAdapter(a *bcc.Adapter) Option {
	return func(c *Coarsener) { c.adapter = a }
}

// WithEdgeRater replaces the edge rater.
func WithEdgeRater(r EdgeRater) Option {
	return func(c *Coarsener) { c.rater = r }
}

// WithMatcherFactory replaces the per-level matcher selection.
func WithMatcherFactory(f MatcherFactory) Option {
	return func(c *Coarsener) { c.matcher = f }
}

// WithContractor replaces the contraction routine.
func WithContractor(ct Contractor) Option {
	return func(c *Coarsener) { c.contractor = ct }
}

// WithStopRuleFactory replaces the stop rule selection.
func WithStopRuleFactory(f StopRuleFactory) Option {
	return func(c *Coarsener) { c.stopRule = f }
}

// WithLevelObserver registers a callback run after every level.
func WithLevelObserver(o LevelObserver) Option {
	return func(c *Coarsener) { c.observers = append(c.observers, o) }
}

// New creates a Coarsener with the default collaborators.
func New(opts ...Option) *Coarsener {
	c := &Coarsener{
		rater:      WeightRater{},
		matcher:    ConfigureMatcher,
		contractor: MappingContractor{},
		stopRule:   NewStopRule,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PerformCoarsening coarsens g until the stop rule fires and pushes every
// level into h, finishing with the coarsest graph and a nil mapping. g
// itself becomes the finest level.
//
// cfg is copied; the copy carries the level-local state (the combine flag
// set by the oracle adapter and the vertex weight bound of the stop rule)
// and never leaks back to the caller. Any error aborts the run and leaves h
// incomplete.
func (c *Coarsener) PerformCoarsening(ctx context.Context, cfg config.PartitionConfig, g *graph.Graph, h *hierarchy.GraphHierarchy) (*Stats, error) {
	ctx, span := tracer.Start(ctx, "coarsening.PerformCoarsening", trace.WithAttributes(
		attribute.Int("nodes", g.NumNodes),
		attribute.Int("edges", g.NumEdges()),
		attribute.String("bcc_mode", cfg.BCCMode.String()),
		attribute.String("bcc_combine_mode", cfg.BCCCombineMode.String()),
	))
	defer span.End()

	stats, err := c.run(ctx, cfg, g, h)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("levels", stats.NumLevels()))
	return stats, nil
}

func (c *Coarsener) run(ctx context.Context, cfg config.PartitionConfig, g *graph.Graph, h *hierarchy.GraphHierarchy) (*Stats, error) {
	start := time.Now()
	if g.NumNodes == 0 {
		runErrors.WithLabelValues("input").Inc()
		return nil, graph.ErrEmptyGraph
	}

	if !cfg.BCCMode.Valid() {
		runErrors.WithLabelValues("config").Inc()
		return nil, fmt.Errorf("%w: clustering mode %d", config.ErrInvalidValue, int(cfg.BCCMode))
	}
	if cfg.BCCMode != config.NoClustering && !cfg.BCCCombineMode.Valid() {
		runErrors.WithLabelValues("config").Inc()
		return nil, fmt.Errorf("%w: %d", bcc.ErrInvalidCombineMode, int(cfg.BCCCombineMode))
	}

	bccActive := cfg.BCCMode == config.MultiLevel && !cfg.InitialPartitioning
	if bccActive && c.adapter == nil {
		runErrors.WithLabelValues("config").Inc()
		return nil, ErrNoOracle
	}

	rule := c.stopRule(cfg, g)
	cfg.MaxVertexWeight = rule.MaxVertexWeight()
	rng := rand.New(rand.NewSource(int64(cfg.Seed)))

	c.logger.Info().
		Int("nodes", g.NumNodes).
		Int("edges", g.NumEdges()/2).
		Int("max_vertex_weight", cfg.MaxVertexWeight).
		Str("bcc_mode", cfg.BCCMode.String()).
		Str("combine_mode", cfg.BCCCombineMode.String()).
		Msg("Starting coarsening")

	stats := &Stats{}
	finer := g
	for level := 0; ; level++ {
		select {
		case <-ctx.Done():
			runErrors.WithLabelValues("cancelled").Inc()
			return nil, ctx.Err()
		default:
		}

		levelStart := time.Now()
		ls := LevelStats{Level: level, Nodes: finer.NumNodes, Edges: finer.NumEdges() / 2}
		kind := levelOrdinary

		var (
			mapping  graph.CoarseMapping
			matching graph.Matching
			k        int
		)

		if bccActive {
			var snapshot bcc.PartitionSnapshot
			if cfg.BCCCombineMode == config.FirstPartitionIndex {
				snapshot.Set(finer)
			}

			c.logger.Info().Int("level", level).Msg("Calculating a clustering")
			q, err := c.adapter.ComputeAndSetClustering(finer, &cfg)
			if err != nil {
				snapshot.Apply(finer)
				runErrors.WithLabelValues("oracle").Inc()
				return nil, fmt.Errorf("level %d: %w", level, err)
			}
			ls.Clustered = true
			ls.Modularity = q

			if cfg.BCCCombineMode == config.FirstPartitionIndex {
				kind = levelClusterCoarsening
				mapping = make(graph.CoarseMapping, finer.NumNodes)
				for u := range mapping {
					mapping[u] = finer.PartitionIndex(u)
				}
				k = finer.PartitionCount()
				snapshot.Apply(finer)

				if err := mapping.Validate(finer.NumNodes, k); err != nil {
					runErrors.WithLabelValues("mapping").Inc()
					return nil, fmt.Errorf("level %d: clustering is not a coarse mapping: %w", level, err)
				}
			}
		}

		if kind != levelClusterCoarsening {
			c.rater.Rate(cfg, finer, level)
		}

		if !bccActive || cfg.BCCCombineMode == config.SecondPartitionIndex {
			matching, mapping, k = c.matcher(cfg, level).Match(cfg, finer, rng)
		}

		if cfg.BCCMode != config.NoClustering && cfg.BCCCombineMode == config.SecondPartitionIndex && !cfg.InitialPartitioning {
			if err := bcc.VerifyMapping(finer, mapping, cfg); err != nil {
				runErrors.WithLabelValues("verify").Inc()
				return nil, fmt.Errorf("level %d: %w", level, err)
			}
			ls.Verified = true
		}

		coarser, err := c.contractor.Contract(cfg, finer, matching, mapping, k)
		if err != nil {
			runErrors.WithLabelValues("contract").Inc()
			return nil, fmt.Errorf("level %d: contraction: %w", level, err)
		}

		h.PushBack(finer, mapping)
		stop := rule.Stop(finer.NumNodes, k)

		ls.CoarserNodes = k
		ls.Kind = kind.String()
		ls.Duration = time.Since(levelStart)
		stats.Levels = append(stats.Levels, ls)

		levelsTotal.WithLabelValues(ls.Kind).Inc()
		levelDuration.Observe(ls.Duration.Seconds())
		if k > 0 {
			contractionRate.Observe(float64(finer.NumNodes) / float64(k))
		}
		trace.SpanFromContext(ctx).AddEvent("level", trace.WithAttributes(
			attribute.Int("level", level),
			attribute.Int("nodes", ls.Nodes),
			attribute.Int("coarser_nodes", k),
			attribute.String("kind", ls.Kind),
		))

		c.logger.Info().
			Int("level", level).
			Int("nodes", ls.Nodes).
			Int("coarser_nodes", k).
			Str("kind", ls.Kind).
			Dur("time", ls.Duration).
			Msg("Coarsening level finished")

		for _, observe := range c.observers {
			observe(ls)
		}

		finer = coarser
		if stop {
			break
		}
	}

	h.PushBack(finer, nil)
	stats.Duration = time.Since(start)

	c.logger.Info().
		Int("levels", stats.NumLevels()).
		Int("coarsest_nodes", finer.NumNodes).
		Dur("time", stats.Duration).
		Msg("Coarsening finished")

	return stats, nil
}
