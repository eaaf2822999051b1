package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gilchrisn/graph-coarsening/pkg/bcc"
	"github.com/gilchrisn/graph-coarsening/pkg/coarsening"
	"github.com/gilchrisn/graph-coarsening/pkg/config"
	"github.com/gilchrisn/graph-coarsening/pkg/graph"
	"github.com/gilchrisn/graph-coarsening/pkg/hierarchy"
	"github.com/gilchrisn/graph-coarsening/pkg/louvain"
	"github.com/gilchrisn/graph-coarsening/pkg/report"
)

func runCoarsen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	runID := uuid.NewString()
	logger := cfg.CreateLogger().With().Str("run_id", runID).Logger()

	if err := execute(ctx, cfg, runID, logger); err != nil {
		logger.Error().Err(err).Msg("Coarsening failed")
		return err
	}
	return nil
}

// execute runs one coarsening from a loaded configuration and writes every
// requested output file.
func execute(ctx context.Context, cfg *config.Config, runID string, logger zerolog.Logger) error {
	pc, err := cfg.ToPartitionConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Info().Str("config", pc.String()).Msg("Configuration loaded")

	start := time.Now()
	g, names, err := readGraph(cfg.GraphFormat(), pc.GraphFilename)
	if err != nil {
		return fmt.Errorf("failed to read graph: %w", err)
	}
	logger.Info().
		Int("n", g.NumNodes).
		Int("m", g.NumEdges()/2).
		Int("k", pc.K).
		Dur("io_time", time.Since(start)).
		Msg("Graph loaded")

	oracle, err := newOracle(cfg, logger)
	if err != nil {
		return err
	}
	adapter := bcc.NewAdapter(oracle, bcc.WithLogger(logger))

	if pc.BCCMode == config.TopLevel {
		q, err := adapter.ComputeAndSetClustering(g, &pc)
		if err != nil {
			return fmt.Errorf("top level clustering: %w", err)
		}
		if pc.BCCCombineMode == config.FirstPartitionIndex {
			pc.GraphAlreadyPartitioned = true
		}
		logger.Info().
			Float64("modularity", q).
			Int("clusters", clusterCount(g, pc)).
			Msg("Top level clustering computed")
	}

	opts := []coarsening.Option{
		coarsening.WithLogger(logger),
		coarsening.WithAdapter(adapter),
	}
	if path := cfg.TraceFile(); path != "" {
		tracker, err := report.NewLevelTracker(path, runID)
		if err != nil {
			return err
		}
		defer func() {
			if err := tracker.Close(); err != nil {
				logger.Warn().Err(err).Str("file", path).Msg("Level trace incomplete")
			}
		}()
		opts = append(opts, coarsening.WithLevelObserver(tracker.Observe))
	}

	h := hierarchy.New()
	stats, err := coarsening.New(opts...).PerformCoarsening(ctx, pc, g, h)
	if err != nil {
		return err
	}

	if path := cfg.ReportFile(); path != "" {
		if err := report.WriteFile(report.Build(runID, pc, stats, h), path); err != nil {
			return err
		}
		logger.Info().Str("file", path).Msg("Report written")
	}

	if path := cfg.OutputFile(); path != "" {
		if err := writeCoarseLabels(h, names, path); err != nil {
			return err
		}
		logger.Info().Str("file", path).Msg("Coarse node labels written")
	}

	if path := cfg.MetricsFile(); path != "" {
		if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	logger.Info().
		Int("levels", stats.NumLevels()).
		Dur("total_time", time.Since(start)).
		Msg("Done")
	return nil
}

// readGraph reads a METIS graph or a named edge list. names is nil for METIS.
func readGraph(format, path string) (*graph.Graph, []string, error) {
	switch format {
	case "metis":
		g, err := graph.ReadMetisFile(path)
		return g, nil, err
	case "edgelist":
		return graph.ReadEdgeListFile(path)
	default:
		return nil, nil, fmt.Errorf("%w: unknown graph format %q", config.ErrInvalidValue, format)
	}
}

func newOracle(cfg *config.Config, logger zerolog.Logger) (bcc.Oracle, error) {
	switch cfg.OracleBackend() {
	case "louvain":
		return louvain.NewOracle(louvain.Options{
			MaxLevels:              cfg.OracleMaxLevels(),
			MaxIterations:          cfg.OracleMaxIterations(),
			MinModularityGain:      cfg.OracleMinModularityGain(),
			Restarts:               cfg.OracleRestarts(),
			LabelPropagationRounds: cfg.OracleLabelPropagationRounds(),
		}, logger), nil
	case "gonum":
		return louvain.NewGonumOracle(logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown oracle backend %q", config.ErrInvalidValue, cfg.OracleBackend())
	}
}

// writeCoarseLabels labels every coarsest node with its own id, projects
// the labels down the hierarchy and writes the label of every input node,
// prefixed with the node name when names is set. It consumes h.
func writeCoarseLabels(h *hierarchy.GraphHierarchy, names []string, path string) error {
	coarsest := h.GetCoarsest()
	if coarsest == nil {
		return hierarchy.ErrEmptyHierarchy
	}
	for u := 0; u < coarsest.NumNodes; u++ {
		coarsest.SetPartitionIndex(u, u)
	}
	coarsest.SetPartitionCount(coarsest.NumNodes)

	finest := coarsest
	for !h.IsEmpty() {
		g, err := h.PopFinerAndProject()
		if err != nil {
			return err
		}
		finest = g
	}

	var err error
	if names != nil {
		err = graph.WriteNamedPartition(finest, names, path)
	} else {
		err = graph.WritePartition(finest, path)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func clusterCount(g *graph.Graph, pc config.PartitionConfig) int {
	if pc.BCCCombineMode == config.FirstPartitionIndex {
		return g.PartitionCount()
	}
	seen := make(map[int]struct{})
	for u := 0; u < g.NumNodes; u++ {
		seen[g.SecondPartitionIndex(u)] = struct{}{}
	}
	return len(seen)
}
