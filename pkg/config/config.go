// Package config holds the coarsening configuration: the typed
// PartitionConfig consumed by the engine and a viper-backed Config used to
// assemble it from defaults, presets, files and the environment.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages algorithm configuration using Viper
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with the standard defaults
func NewConfig() *Config {
	v := viper.New()

	v.SetDefault("partition.k", 2)
	v.SetDefault("partition.seed", 0)
	v.SetDefault("partition.imbalance", 3.0)

	v.SetDefault("input.format", "metis")

	v.SetDefault("matching.type", "gpa")
	v.SetDefault("matching.edge_rating", "expansionstar2")
	v.SetDefault("matching.aggressive_random_levels", 3)
	v.SetDefault("matching.disable_max_vertex_weight_constraint", false)

	v.SetDefault("coarsening.stop_rule", "simple")
	v.SetDefault("coarsening.num_vert_stop_factor", 20)

	// Cluster-guided coarsening
	v.SetDefault("bcc.mode", "no_clustering")
	v.SetDefault("bcc.combine_mode", "second")
	v.SetDefault("bcc.vieclus_mode", "default")
	v.SetDefault("bcc.verify", false)
	v.SetDefault("bcc.reuse_clustering", false)
	v.SetDefault("bcc.time_limit", 0)

	// Oracle parameters
	v.SetDefault("oracle.backend", "louvain")
	v.SetDefault("oracle.max_levels", 10)
	v.SetDefault("oracle.max_iterations", 100)
	v.SetDefault("oracle.min_modularity_gain", 1e-6)
	v.SetDefault("oracle.restarts", runtime.NumCPU())
	v.SetDefault("oracle.label_propagation_rounds", 10)

	// Logging parameters
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetEnvPrefix("COARSEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{v: v}
}

// LoadFromFile loads configuration from file
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// ApplyPreset layers one of the named preconfigurations over the defaults.
func (c *Config) ApplyPreset(name string) error {
	preset, ok := presets[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	for key, value := range preset {
		c.v.Set(key, value)
	}
	return nil
}

// Set allows dynamic configuration changes
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// Getters for partition parameters
func (c *Config) K() int { return c.v.GetInt("partition.k") }
func (c *Config) Seed() int { return c.v.GetInt("partition.seed") }
func (c *Config) Imbalance() float64 { return c.v.GetFloat64("partition.imbalance") }
func (c *Config) GraphFile() string { return c.v.GetString("input.graph") }
func (c *Config) GraphFormat() string { return c.v.GetString("input.format") }
func (c *Config) OutputFile() string { return c.v.GetString("output.partition") }
func (c *Config) ReportFile() string { return c.v.GetString("output.report") }
func (c *Config) TraceFile() string { return c.v.GetString("output.trace_levels") }
func (c *Config) MetricsFile() string { return c.v.GetString("output.metrics_file") }
func (c *Config) OracleBackend() string { return c.v.GetString("oracle.backend") }

// Getters for oracle parameters
func (c *Config) OracleMaxLevels() int { return c.v.GetInt("oracle.max_levels") }
func (c *Config) OracleMaxIterations() int { return c.v.GetInt("oracle.max_iterations") }
func (c *Config) OracleMinModularityGain() float64 { return c.v.GetFloat64("oracle.min_modularity_gain") }
func (c *Config) OracleRestarts() int { return c.v.GetInt("oracle.restarts") }
func (c *Config) OracleLabelPropagationRounds() int { return c.v.GetInt("oracle.label_propagation_rounds") }

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }
func (c *Config) LogFormat() string { return c.v.GetString("logging.format") }

// ToPartitionConfig parses every enum-valued key and returns the typed
// configuration. Unknown names are configuration errors.
func (c *Config) ToPartitionConfig() (PartitionConfig, error) {
	pc := PartitionConfig{
		K:                                c.K(),
		Seed:                             c.Seed(),
		Imbalance:                        c.Imbalance(),
		AggressiveRandomLevels:           c.v.GetInt("matching.aggressive_random_levels"),
		DisableMaxVertexWeightConstraint: c.v.GetBool("matching.disable_max_vertex_weight_constraint"),
		NumVertStopFactor:                c.v.GetInt("coarsening.num_vert_stop_factor"),
		BCCVerify:                        c.v.GetBool("bcc.verify"),
		BCCReuseClustering:               c.v.GetBool("bcc.reuse_clustering"),
		BCCTimeLimit:                     c.v.GetInt("bcc.time_limit"),
		GraphFilename:                    c.GraphFile(),
		OutputFilename:                   c.OutputFile(),
	}
	if pc.K <= 0 {
		return PartitionConfig{}, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidValue, pc.K)
	}

	var err error
	if pc.MatchingType, err = ParseMatchingType(c.v.GetString("matching.type")); err != nil {
		return PartitionConfig{}, err
	}
	if pc.EdgeRating, err = ParseEdgeRating(c.v.GetString("matching.edge_rating")); err != nil {
		return PartitionConfig{}, err
	}
	if pc.StopRule, err = ParseStopRule(c.v.GetString("coarsening.stop_rule")); err != nil {
		return PartitionConfig{}, err
	}
	if pc.BCCMode, err = ParseBCCMode(c.v.GetString("bcc.mode")); err != nil {
		return PartitionConfig{}, err
	}
	if pc.BCCCombineMode, err = ParseCombineMode(c.v.GetString("bcc.combine_mode")); err != nil {
		return PartitionConfig{}, err
	}
	if pc.BCCVieClusMode, err = ParseVieClusMode(c.v.GetString("bcc.vieclus_mode")); err != nil {
		return PartitionConfig{}, err
	}

	return pc, nil
}

// CreateLogger creates a zerolog logger based on config
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	if c.LogFormat() == "json" {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("service", "coarsen").Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "coarsen").Logger()
}
