package coarsening

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilchrisn/graph-coarsening/pkg/config"
	"github.com/gilchrisn/graph-coarsening/pkg/graph"
)

func TestNewStopRule(t *testing.T) {
	g := grid(t, 10, 10)

	tests := []struct {
		name      string
		modify    func(*config.PartitionConfig)
		maxWeight int
	}{
		{
			name:      "simple clamps to one",
			modify:    func(c *config.PartitionConfig) { c.StopRule = config.StopRuleSimple },
			maxWeight: 1,
		},
		{
			name: "multiple k",
			modify: func(c *config.PartitionConfig) {
				c.StopRule = config.StopRuleMultipleK
				c.NumVertStopFactor = 5
			},
			maxWeight: 15, // 1.5 * 100 / 10
		},
		{
			name:      "strong",
			modify:    func(c *config.PartitionConfig) { c.StopRule = config.StopRuleStrong },
			maxWeight: 51, // 1.03 * 50
		},
		{
			name: "constraint disabled",
			modify: func(c *config.PartitionConfig) {
				c.StopRule = config.StopRuleStrong
				c.DisableMaxVertexWeightConstraint = true
			},
			maxWeight: math.MaxInt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.DisableMaxVertexWeightConstraint = false
			tt.modify(&cfg)
			assert.Equal(t, tt.maxWeight, NewStopRule(cfg, g).MaxVertexWeight())
		})
	}
}

func TestStopRuleStop(t *testing.T) {
	cfg := baseConfig()
	cfg.StopRule = config.StopRuleMultipleK
	cfg.NumVertStopFactor = 5
	rule := NewStopRule(cfg, grid(t, 10, 10)) // stops below 10 nodes

	assert.False(t, rule.Stop(100, 50))
	assert.True(t, rule.Stop(100, 95), "contraction rate below 1.1")
	assert.True(t, rule.Stop(20, 9), "coarse graph small enough")
	assert.False(t, rule.Stop(20, 10))
	assert.True(t, rule.Stop(5, 0))
}

func TestWeightRater(t *testing.T) {
	g := graph.NewGraph(2)
	require.NoError(t, g.AddEdge(0, 1, 3.0))
	g.SetNodeWeight(0, 2)
	g.SetNodeWeight(1, 4)

	tests := []struct {
		rating config.EdgeRating
		want   float64
	}{
		{config.Weight, 3},
		{config.RealWeight, 3},
		{config.ExpansionStar, 3.0 / 8.0},
		{config.ExpansionStar2, 9.0 / 8.0},
	}
	for _, tt := range tests {
		t.Run(tt.rating.String(), func(t *testing.T) {
			cfg := baseConfig()
			cfg.EdgeRating = tt.rating
			WeightRater{}.Rate(cfg, g, 0)
			assert.InDelta(t, tt.want, g.EdgeRating(0, 0), 1e-12)
			assert.InDelta(t, tt.want, g.EdgeRating(1, 0), 1e-12)
		})
	}
}

func TestMappingFromMatching(t *testing.T) {
	mapping, k := mappingFromMatching(graph.Matching{3, 1, 4, 0, 2})
	assert.Equal(t, 3, k)
	assert.Equal(t, graph.CoarseMapping{0, 1, 2, 0, 2}, mapping)
}

func TestGPAMatchingPrefersHeavyEdges(t *testing.T) {
	// 0 -1- 1 -5- 2 -1- 3
	g := graph.NewGraph(4)
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(1, 2, 5))
	require.NoError(t, g.AddEdge(2, 3, 1))

	cfg := baseConfig()
	WeightRater{}.Rate(cfg, g, 0)

	matching, mapping, k := GPAMatching{}.Match(cfg, g, rand.New(rand.NewSource(1)))
	assert.Equal(t, graph.Matching{0, 2, 1, 3}, matching)
	assert.Equal(t, 3, k)
	assert.Equal(t, mapping[1], mapping[2])
}

func TestMatchersRespectConstraints(t *testing.T) {
	matchers := map[string]Matcher{"random": RandomMatching{}, "gpa": GPAMatching{}}

	for name, m := range matchers {
		t.Run(name+"/vertex weight", func(t *testing.T) {
			cfg := baseConfig()
			cfg.DisableMaxVertexWeightConstraint = false
			cfg.MaxVertexWeight = 1
			g := path(t, 6)
			WeightRater{}.Rate(cfg, g, 0)

			_, _, k := m.Match(cfg, g, rand.New(rand.NewSource(7)))
			assert.Equal(t, 6, k)
		})

		t.Run(name+"/secondary partition", func(t *testing.T) {
			cfg := baseConfig()
			cfg.Combine = true
			g := twoTriangles(t)
			g.ResizeSecondPartitionIndex(g.NumNodes)
			for u := 3; u < 6; u++ {
				g.SetSecondPartitionIndex(u, 1)
			}
			WeightRater{}.Rate(cfg, g, 0)

			for seed := int64(0); seed < 10; seed++ {
				matching, mapping, k := m.Match(cfg, g, rand.New(rand.NewSource(seed)))
				require.NoError(t, mapping.Validate(g.NumNodes, k))
				for u, v := range matching {
					assert.Equal(t, g.SecondPartitionIndex(u), g.SecondPartitionIndex(v))
				}
			}
		})

		t.Run(name+"/primary partition", func(t *testing.T) {
			cfg := baseConfig()
			cfg.GraphAlreadyPartitioned = true
			g := path(t, 4)
			g.SetPartitionIndex(2, 1)
			g.SetPartitionIndex(3, 1)
			WeightRater{}.Rate(cfg, g, 0)

			for seed := int64(0); seed < 10; seed++ {
				_, mapping, _ := m.Match(cfg, g, rand.New(rand.NewSource(seed)))
				assert.NotEqual(t, mapping[1], mapping[2])
			}
		})
	}
}

func TestConfigureMatcher(t *testing.T) {
	cfg := baseConfig()
	cfg.MatchingType = config.MatchingRandomGPA
	cfg.AggressiveRandomLevels = 2

	assert.IsType(t, RandomMatching{}, ConfigureMatcher(cfg, 0))
	assert.IsType(t, RandomMatching{}, ConfigureMatcher(cfg, 1))
	assert.IsType(t, GPAMatching{}, ConfigureMatcher(cfg, 2))

	cfg.MatchingType = config.MatchingRandom
	assert.IsType(t, RandomMatching{}, ConfigureMatcher(cfg, 5))
	cfg.MatchingType = config.MatchingGPA
	assert.IsType(t, GPAMatching{}, ConfigureMatcher(cfg, 0))
}

func TestMappingContractor(t *testing.T) {
	// square 0-1-2-3-0 with a diagonal 0-2, merged into {0,1} and {2,3}
	g := graph.NewGraph(4)
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(1, 2, 2))
	require.NoError(t, g.AddEdge(2, 3, 1))
	require.NoError(t, g.AddEdge(3, 0, 3))
	require.NoError(t, g.AddEdge(0, 2, 4))
	g.SetNodeWeight(3, 5)
	g.SetPartitionCount(2)
	g.SetPartitionIndex(2, 1)
	g.SetPartitionIndex(3, 1)
	g.ResizeSecondPartitionIndex(4)
	g.SetSecondPartitionIndex(2, 7)
	g.SetSecondPartitionIndex(3, 7)

	cfg := baseConfig()
	cfg.GraphAlreadyPartitioned = true
	cfg.Combine = true

	coarser, err := MappingContractor{}.Contract(cfg, g, graph.Matching{1, 0, 3, 2}, graph.CoarseMapping{0, 0, 1, 1}, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, coarser.NumNodes)
	assert.Equal(t, []int{2, 6}, coarser.NodeWeights)
	assert.Equal(t, 2, coarser.NumEdges(), "one undirected edge")
	assert.Equal(t, 9.0, coarser.GetEdgeWeight(0, 1))
	assert.NoError(t, coarser.Validate())

	assert.Equal(t, 2, coarser.PartitionCount())
	assert.Equal(t, 0, coarser.PartitionIndex(0))
	assert.Equal(t, 1, coarser.PartitionIndex(1))
	require.True(t, coarser.HasSecondPartitionIndex())
	assert.Equal(t, 7, coarser.SecondPartitionIndex(1))
}

func TestMappingContractorRejectsBadInput(t *testing.T) {
	g := path(t, 4)

	_, err := MappingContractor{}.Contract(baseConfig(), g, nil, graph.CoarseMapping{0, 0, 2, 2}, 2)
	assert.ErrorIs(t, err, graph.ErrInvalidMapping)

	_, err = MappingContractor{}.Contract(baseConfig(), g, graph.Matching{0, 1}, graph.CoarseMapping{0, 0, 1, 1}, 2)
	assert.ErrorIs(t, err, ErrInconsistentMatching)
}
