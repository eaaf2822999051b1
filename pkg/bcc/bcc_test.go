package bcc

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilchrisn/graph-coarsening/pkg/config"
	"github.com/gilchrisn/graph-coarsening/pkg/graph"
)

// stubOracle returns a fixed assignment and records which entry point ran.
type stubOracle struct {
	assignment []int
	out        Output
	err        error

	calls []string
	last  Input
}

func (s *stubOracle) run(name string, in Input, partitionMap []int) (Output, error) {
	s.calls = append(s.calls, name)
	s.last = in
	if s.err != nil {
		return Output{}, s.err
	}
	copy(partitionMap, s.assignment)
	return s.out, nil
}

func (s *stubOracle) RunDefault(in Input, pm []int) (Output, error) { return s.run("default", in, pm) }
func (s *stubOracle) RunShallow(in Input, pm []int) (Output, error) { return s.run("shallow", in, pm) }
func (s *stubOracle) RunShallowNoLP(in Input, pm []int) (Output, error) {
	return s.run("shallownolp", in, pm)
}

// twoTriangles builds two triangles {0,1,2} and {3,4,5} joined by edge 2-3.
// Its modularity for the triangle clustering is 5/14.
func twoTriangles(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.NewGraph(6)
	for _, e := range [][2]int{{0, 1}, {1, 2}, {0, 2}, {3, 4}, {4, 5}, {3, 5}, {2, 3}} {
		require.NoError(t, g.AddEdge(e[0], e[1], 1.0))
	}
	return g
}

const twoTrianglesQ = 5.0 / 14.0

func primary(g *graph.Graph) []int {
	out := make([]int, g.NumNodes)
	for u := range out {
		out[u] = g.PartitionIndex(u)
	}
	return out
}

func secondary(g *graph.Graph) []int {
	out := make([]int, g.NumNodes)
	for u := range out {
		out[u] = g.SecondPartitionIndex(u)
	}
	return out
}

func TestPartitionSnapshotRoundTrip(t *testing.T) {
	g := twoTriangles(t)
	for u := 0; u < g.NumNodes; u++ {
		g.SetPartitionIndex(u, u%3)
	}
	g.SetPartitionCount(3)
	before := primary(g)

	var s PartitionSnapshot
	s.Set(g)

	for u := 0; u < g.NumNodes; u++ {
		g.SetPartitionIndex(u, 7)
	}
	g.SetPartitionCount(8)

	require.True(t, s.Apply(g))
	assert.Equal(t, before, primary(g))
	assert.Equal(t, 3, g.PartitionCount())

	// the snapshot owns its copy
	g.SetPartitionIndex(0, 5)
	require.True(t, s.Apply(g))
	assert.Equal(t, 0, g.PartitionIndex(0))
}

func TestPartitionSnapshotZeroValue(t *testing.T) {
	g := twoTriangles(t)
	g.SetPartitionIndex(1, 4)
	g.SetPartitionCount(5)

	var s PartitionSnapshot
	assert.False(t, s.IsSet())
	assert.False(t, s.Apply(g))
	assert.Equal(t, 4, g.PartitionIndex(1))
	assert.Equal(t, 5, g.PartitionCount())

	s.Set(graph.NewGraph(2))
	assert.False(t, s.Apply(g), "snapshot of a different graph size must not apply")
}

func verifierGraph(t *testing.T) (*graph.Graph, config.PartitionConfig) {
	t.Helper()
	g := graph.NewGraph(4)
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(1, 2, 1))
	require.NoError(t, g.AddEdge(2, 3, 1))
	g.ResizeSecondPartitionIndex(4)
	for u, c := range []int{0, 0, 1, 1} {
		g.SetSecondPartitionIndex(u, c)
	}
	cfg := config.PartitionConfig{BCCCombineMode: config.SecondPartitionIndex, Combine: true}
	return g, cfg
}

func TestVerifyMapping(t *testing.T) {
	g, cfg := verifierGraph(t)

	t.Run("respects boundary", func(t *testing.T) {
		assert.NoError(t, VerifyMapping(g, graph.CoarseMapping{0, 0, 1, 1}, cfg))
		assert.NoError(t, VerifyMapping(g, graph.CoarseMapping{0, 1, 2, 3}, cfg))
	})

	t.Run("contracts across boundary", func(t *testing.T) {
		err := VerifyMapping(g, graph.CoarseMapping{0, 1, 1, 2}, cfg)
		assert.ErrorIs(t, err, ErrBoundaryContracted)
		assert.Contains(t, err.Error(), "edge 1-2")
	})

	t.Run("non adjacent nodes may share a coarse node", func(t *testing.T) {
		assert.NoError(t, VerifyMapping(g, graph.CoarseMapping{0, 1, 2, 0}, cfg))
	})
}

func TestVerifyMappingPreconditions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(g **graph.Graph, m *graph.CoarseMapping, cfg *config.PartitionConfig)
		wantErr error
	}{
		{
			name:    "first partition index mode",
			mutate:  func(_ **graph.Graph, _ *graph.CoarseMapping, cfg *config.PartitionConfig) { cfg.BCCCombineMode = config.FirstPartitionIndex },
			wantErr: ErrVerifierCombineMode,
		},
		{
			name:    "combine unset",
			mutate:  func(_ **graph.Graph, _ *graph.CoarseMapping, cfg *config.PartitionConfig) { cfg.Combine = false },
			wantErr: ErrVerifierCombineUnset,
		},
		{
			name:    "short mapping",
			mutate:  func(_ **graph.Graph, m *graph.CoarseMapping, _ *config.PartitionConfig) { *m = (*m)[:3] },
			wantErr: ErrMappingSize,
		},
		{
			name: "no second partition",
			mutate: func(g **graph.Graph, _ *graph.CoarseMapping, _ *config.PartitionConfig) {
				fresh := graph.NewGraph(4)
				*g = fresh
			},
			wantErr: ErrMissingSecondPartition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, cfg := verifierGraph(t)
			m := graph.CoarseMapping{0, 0, 1, 1}
			tt.mutate(&g, &m, &cfg)
			assert.ErrorIs(t, VerifyMapping(g, m, cfg), tt.wantErr)
		})
	}
}

func TestAdapterFirstPartitionIndex(t *testing.T) {
	g := twoTriangles(t)
	oracle := &stubOracle{
		assignment: []int{0, 0, 0, 1, 1, 1},
		out:        Output{Modularity: twoTrianglesQ, ClusterCount: 2},
	}
	cfg := config.PartitionConfig{
		BCCCombineMode: config.FirstPartitionIndex,
		BCCVieClusMode: config.VieClusShallow,
		BCCTimeLimit:   3,
		Seed:           11,
	}

	q, err := NewAdapter(oracle).ComputeAndSetClustering(g, &cfg)
	require.NoError(t, err)

	assert.InDelta(t, twoTrianglesQ, q, 1e-12)
	assert.Equal(t, []string{"shallow"}, oracle.calls)
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1}, primary(g))
	assert.Equal(t, 2, g.PartitionCount())
	assert.False(t, g.HasSecondPartitionIndex())
	assert.False(t, cfg.Combine)

	assert.Equal(t, 6, oracle.last.N)
	assert.Equal(t, 3, oracle.last.TimeLimit)
	assert.Equal(t, 11, oracle.last.Seed)
	assert.Nil(t, oracle.last.InitialClustering)
}

func TestAdapterSecondPartitionIndex(t *testing.T) {
	g := twoTriangles(t)
	oracle := &stubOracle{
		assignment: []int{1, 1, 1, 0, 0, 0},
		out:        Output{Modularity: twoTrianglesQ, ClusterCount: 2},
	}
	cfg := config.PartitionConfig{
		BCCCombineMode: config.SecondPartitionIndex,
		BCCVieClusMode: config.VieClusNormal,
		BCCVerify:      true,
	}

	_, err := NewAdapter(oracle).ComputeAndSetClustering(g, &cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"default"}, oracle.calls)
	require.True(t, g.HasSecondPartitionIndex())
	assert.Equal(t, []int{1, 1, 1, 0, 0, 0}, secondary(g))
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0}, primary(g), "primary partition must be untouched")
	assert.Equal(t, 0, g.PartitionCount())
	assert.True(t, cfg.Combine)
}

func TestAdapterCrossCheckTolerance(t *testing.T) {
	tests := []struct {
		name     string
		reported float64
		wantErr  bool
	}{
		{"exact", twoTrianglesQ, false},
		{"within tolerance", twoTrianglesQ + 0.004, false},
		{"below within tolerance", twoTrianglesQ - 0.0049, false},
		{"off by more than tolerance", twoTrianglesQ + 0.01, true},
		{"far off", 0.9, true},
	}

	for _, mode := range []config.CombineMode{config.FirstPartitionIndex, config.SecondPartitionIndex} {
		for _, tt := range tests {
			t.Run(mode.String()+"/"+tt.name, func(t *testing.T) {
				g := twoTriangles(t)
				oracle := &stubOracle{
					assignment: []int{0, 0, 0, 1, 1, 1},
					out:        Output{Modularity: tt.reported, ClusterCount: 2},
				}
				cfg := config.PartitionConfig{BCCCombineMode: mode, BCCVerify: true}

				_, err := NewAdapter(oracle).ComputeAndSetClustering(g, &cfg)
				if tt.wantErr {
					assert.ErrorIs(t, err, ErrModularityMismatch)
					assert.False(t, cfg.Combine)
					return
				}
				assert.NoError(t, err)
			})
		}
	}
}

func TestAdapterInjectedQualityMetric(t *testing.T) {
	g := twoTriangles(t)
	oracle := &stubOracle{assignment: []int{0, 0, 0, 1, 1, 1}, out: Output{Modularity: 0.5, ClusterCount: 2}}
	cfg := config.PartitionConfig{BCCCombineMode: config.SecondPartitionIndex, BCCVerify: true}

	var seen []int
	metric := func(g *graph.Graph) float64 {
		seen = primary(g)
		return 0.498
	}
	_, err := NewAdapter(oracle, WithQualityMetric(metric)).ComputeAndSetClustering(g, &cfg)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 0, 1, 1, 1}, seen, "metric must see the assignment as primary partition")
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0}, primary(g), "primary partition must be restored")
}

func TestAdapterOracleContract(t *testing.T) {
	tests := []struct {
		name    string
		oracle  *stubOracle
		wantErr error
	}{
		{
			name:    "negative cluster count",
			oracle:  &stubOracle{assignment: []int{0, 0, 0, 0, 0, 0}, out: Output{ClusterCount: -1}},
			wantErr: ErrUndefinedClusterCount,
		},
		{
			name:    "cluster id out of range",
			oracle:  &stubOracle{assignment: []int{0, 0, 0, 2, 2, 2}, out: Output{ClusterCount: 2}},
			wantErr: ErrClusterOutOfRange,
		},
		{
			name:    "oracle error",
			oracle:  &stubOracle{err: errors.New("timeout")},
			wantErr: ErrOracleFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := twoTriangles(t)
			cfg := config.PartitionConfig{BCCCombineMode: config.FirstPartitionIndex}
			_, err := NewAdapter(tt.oracle).ComputeAndSetClustering(g, &cfg)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, []int{0, 0, 0, 0, 0, 0}, primary(g))
		})
	}
}

func TestAdapterInvalidModes(t *testing.T) {
	g := twoTriangles(t)
	oracle := &stubOracle{assignment: []int{0, 0, 0, 1, 1, 1}, out: Output{ClusterCount: 2}}

	cfg := config.PartitionConfig{BCCVieClusMode: config.VieClusMode(9)}
	_, err := NewAdapter(oracle).ComputeAndSetClustering(g, &cfg)
	assert.ErrorIs(t, err, ErrInvalidVieClusMode)

	cfg = config.PartitionConfig{BCCCombineMode: config.CombineMode(4)}
	_, err = NewAdapter(oracle).ComputeAndSetClustering(g, &cfg)
	assert.ErrorIs(t, err, ErrInvalidCombineMode)

	assert.Empty(t, oracle.calls, "oracle must not run on a configuration error")
	assert.False(t, g.HasSecondPartitionIndex())
}

func TestAdapterWarmStart(t *testing.T) {
	g := twoTriangles(t)
	g.ResizeSecondPartitionIndex(6)
	for u, c := range []int{0, 0, 1, 1, 2, 2} {
		g.SetSecondPartitionIndex(u, c)
	}
	g.SetPartitionIndex(5, 3)
	g.SetPartitionCount(4)

	oracle := &stubOracle{assignment: []int{0, 0, 0, 1, 1, 1}, out: Output{Modularity: twoTrianglesQ, ClusterCount: 2}}
	cfg := config.PartitionConfig{
		BCCCombineMode:     config.SecondPartitionIndex,
		BCCVieClusMode:     config.VieClusShallowNoLP,
		BCCReuseClustering: true,
		BCCVerify:          true,
	}

	_, err := NewAdapter(oracle).ComputeAndSetClustering(g, &cfg)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 1, 1, 2, 2}, oracle.last.InitialClustering)
	assert.Equal(t, []int{0, 0, 0, 0, 0, 3}, primary(g), "warm start measurement must restore the primary partition")
	assert.Equal(t, 4, g.PartitionCount())
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1}, secondary(g))

	// without reuse the oracle gets no warm start
	cfg.BCCReuseClustering = false
	_, err = NewAdapter(oracle).ComputeAndSetClustering(g, &cfg)
	require.NoError(t, err)
	assert.Nil(t, oracle.last.InitialClustering)
}

func TestAdapterLogsWarmStartAgreement(t *testing.T) {
	var buf bytes.Buffer
	a := NewAdapter(&stubOracle{}, WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

	t.Run("same clustering", func(t *testing.T) {
		buf.Reset()
		a.logAgreement([]int{0, 0, 1, 1}, []int{1, 1, 0, 0})
		assert.Contains(t, buf.String(), `"nmi":`)
		assert.Contains(t, buf.String(), `"level":"info"`)
	})

	t.Run("length mismatch", func(t *testing.T) {
		buf.Reset()
		a.logAgreement([]int{0, 0, 1}, []int{0, 1})
		assert.Contains(t, buf.String(), `"level":"debug"`)
		assert.Contains(t, buf.String(), "same length")
	})
}
