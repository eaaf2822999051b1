package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gilchrisn/graph-coarsening/pkg/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// --- Global Command Variables ---
var (
	configFile       string
	preconfiguration string

	rootCmd = &cobra.Command{
		Use:   "coarsen",
		Short: "Multilevel graph coarsening guided by a clustering oracle",
		Long: `coarsen reads a METIS graph or an edge list and contracts it level by level
until the stop rule fires. With a clustering mode enabled, a modularity
clustering decides which nodes may be contracted together.`,
		SilenceUsage: true,
	}

	runCmd = &cobra.Command{
		Use:   "run [graph file]",
		Short: "Coarsen a graph and write the requested reports",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCoarsen, // Defined in run.go
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "coarsen %s\n", version)
		},
	}
)

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"k":                "partition.k",
	"seed":             "partition.seed",
	"imbalance":        "partition.imbalance",
	"graph":            "input.graph",
	"format":           "input.format",
	"verify":           "bcc.verify",
	"time-limit":       "bcc.time_limit",
	"clustering-mode":  "bcc.mode",
	"vieclus-mode":     "bcc.vieclus_mode",
	"combine-mode":     "bcc.combine_mode",
	"reuse-clustering": "bcc.reuse_clustering",
	"oracle":           "oracle.backend",
	"report":           "output.report",
	"trace-levels":     "output.trace_levels",
	"metrics-file":     "output.metrics_file",
	"output":           "output.partition",
	"log-level":        "logging.level",
	"log-format":       "logging.format",
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&configFile, "config", "", "YAML configuration file")
	f.StringVar(&preconfiguration, "preconfiguration", "",
		"preset: "+strings.Join(config.PresetNames(), ", "))

	f.Int("k", 2, "number of blocks the coarse graph is prepared for")
	f.Int("seed", 0, "seed of the random generators")
	f.Float64("imbalance", 3, "allowed imbalance in percent")
	f.String("graph", "", "input graph file")
	f.String("format", "metis", "input graph format: metis or edgelist")
	f.Bool("verify", false, "cross-check oracle modularity and contracted mappings")
	f.Int("time-limit", 0, "time limit of each oracle call in seconds, 0 for none")
	f.String("clustering-mode", "no_clustering", "no_clustering, toplevel or multilevel")
	f.String("vieclus-mode", "default", "default, shallow or shallownolp")
	f.String("combine-mode", "second", "first or second partition index")
	f.Bool("reuse-clustering", false, "warm start the oracle with the propagated clustering")
	f.String("oracle", "louvain", "clustering backend: louvain or gonum")
	f.String("report", "", "write a hierarchy report (.yaml or text)")
	f.String("trace-levels", "", "write one JSON line per coarsening level")
	f.String("metrics-file", "", "write prometheus metrics in text format")
	f.String("output", "", "write the coarsest node of every input node")
	f.String("log-level", "info", "debug, info, warn or error")
	f.String("log-format", "console", "console or json")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig builds the configuration of a run: defaults, then the config
// file, then the preset, then every flag set on the command line.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", configFile, err)
		}
	}
	if preconfiguration != "" {
		if err := cfg.ApplyPreset(preconfiguration); err != nil {
			return nil, err
		}
	}

	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		cfg.Set(key, flag.Value.String())
	}

	if len(args) == 1 {
		cfg.Set("input.graph", args[0])
	}
	if cfg.GraphFile() == "" {
		return nil, fmt.Errorf("no graph file given")
	}
	return cfg, nil
}
