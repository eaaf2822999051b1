// Package louvain provides in-process clustering oracles: a Louvain
// implementation with three variants and a backend on top of gonum's
// community package.
package louvain

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gilchrisn/graph-coarsening/pkg/bcc"
)

var _ bcc.Oracle = (*Oracle)(nil)

// Oracle runs Louvain on the oracle array contract.
//
// RunDefault runs batches of independent restarts in parallel and keeps the
// best result; with a time limit it keeps starting batches until the limit
// is reached. RunShallow warms up with label propagation and runs Louvain
// once. RunShallowNoLP runs Louvain once. All variants start from the
// initial clustering when one is given.
type Oracle struct {
	opts   Options
	logger zerolog.Logger
}

// NewOracle creates a Louvain oracle.
func NewOracle(opts Options, logger zerolog.Logger) *Oracle {
	if opts.Restarts < 1 {
		opts.Restarts = 1
	}
	return &Oracle{opts: opts, logger: logger.With().Str("component", "louvain").Logger()}
}

// RunDefault implements bcc.Oracle.
func (o *Oracle) RunDefault(in bcc.Input, partitionMap []int) (bcc.Output, error) {
	g, opts, err := o.prepare(in)
	if err != nil {
		return bcc.Output{}, err
	}

	var best *Result
	for batch := 0; ; batch++ {
		results := make([]*Result, opts.Restarts)
		eg, ctx := errgroup.WithContext(context.Background())
		for i := 0; i < opts.Restarts; i++ {
			seed := int64(in.Seed) + int64(batch*opts.Restarts+i)
			eg.Go(func() error {
				r, err := Run(ctx, g, opts, in.InitialClustering, rand.New(rand.NewSource(seed)), o.logger)
				if err != nil {
					return fmt.Errorf("restart %d: %w", i, err)
				}
				results[i] = r
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return bcc.Output{}, err
		}

		// strictly greater keeps the lowest restart index on ties
		for _, r := range results {
			if best == nil || r.Modularity > best.Modularity {
				best = r
			}
		}

		o.logger.Debug().
			Int("batch", batch).
			Int("restarts", opts.Restarts).
			Float64("best_modularity", best.Modularity).
			Msg("Louvain batch finished")

		if opts.Deadline.IsZero() || opts.expired() {
			break
		}
	}

	return o.finish(best, partitionMap), nil
}

// RunShallow implements bcc.Oracle.
func (o *Oracle) RunShallow(in bcc.Input, partitionMap []int) (bcc.Output, error) {
	g, opts, err := o.prepare(in)
	if err != nil {
		return bcc.Output{}, err
	}
	rng := rand.New(rand.NewSource(int64(in.Seed)))

	labels := make([]int, g.NumNodes)
	if in.InitialClustering != nil {
		copy(labels, in.InitialClustering)
	} else {
		for i := range labels {
			labels[i] = i
		}
	}
	changes := LabelPropagation(g, labels, opts.LabelPropagationRounds, rng)
	o.logger.Debug().Int("changes", changes).Msg("Label propagation finished")

	r, err := Run(context.Background(), g, opts, labels, rng, o.logger)
	if err != nil {
		return bcc.Output{}, err
	}
	return o.finish(r, partitionMap), nil
}

// RunShallowNoLP implements bcc.Oracle.
func (o *Oracle) RunShallowNoLP(in bcc.Input, partitionMap []int) (bcc.Output, error) {
	g, opts, err := o.prepare(in)
	if err != nil {
		return bcc.Output{}, err
	}

	r, err := Run(context.Background(), g, opts, in.InitialClustering, rand.New(rand.NewSource(int64(in.Seed))), o.logger)
	if err != nil {
		return bcc.Output{}, err
	}
	return o.finish(r, partitionMap), nil
}

func (o *Oracle) prepare(in bcc.Input) (*Graph, Options, error) {
	g, err := FromCSR(in.CSR)
	if err != nil {
		return nil, Options{}, err
	}
	if in.InitialClustering != nil && len(in.InitialClustering) != g.NumNodes {
		return nil, Options{}, fmt.Errorf("initial clustering has %d entries, graph has %d nodes",
			len(in.InitialClustering), g.NumNodes)
	}

	opts := o.opts
	if in.TimeLimit > 0 {
		opts.Deadline = time.Now().Add(time.Duration(in.TimeLimit) * time.Second)
	}
	return g, opts, nil
}

func (o *Oracle) finish(r *Result, partitionMap []int) bcc.Output {
	copy(partitionMap, r.Communities)
	o.logger.Debug().
		Int("levels", r.NumLevels).
		Int("communities", r.NumCommunities).
		Float64("modularity", r.Modularity).
		Int64("runtime_ms", r.RuntimeMS).
		Msg("Louvain completed")
	return bcc.Output{Modularity: r.Modularity, ClusterCount: r.NumCommunities}
}
