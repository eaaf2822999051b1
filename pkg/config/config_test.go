package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	pc, err := NewConfig().ToPartitionConfig()
	require.NoError(t, err)

	assert.Equal(t, 2, pc.K)
	assert.Equal(t, MatchingGPA, pc.MatchingType)
	assert.Equal(t, ExpansionStar2, pc.EdgeRating)
	assert.Equal(t, StopRuleSimple, pc.StopRule)
	assert.Equal(t, NoClustering, pc.BCCMode)
	assert.Equal(t, SecondPartitionIndex, pc.BCCCombineMode)
	assert.Equal(t, VieClusNormal, pc.BCCVieClusMode)
	assert.False(t, pc.Combine)
	assert.False(t, pc.InitialPartitioning)
}

func TestApplyPreset(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			c := NewConfig()
			require.NoError(t, c.ApplyPreset(name))
			_, err := c.ToPartitionConfig()
			require.NoError(t, err)
		})
	}

	c := NewConfig()
	require.NoError(t, c.ApplyPreset("fastsocial"))
	pc, err := c.ToPartitionConfig()
	require.NoError(t, err)
	assert.Equal(t, StopRuleMultipleK, pc.StopRule)
	assert.Equal(t, MatchingRandom, pc.MatchingType)

	err = NewConfig().ApplyPreset("turbo")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestToPartitionConfigRejectsUnknownNames(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"bcc.mode", "sometimes"},
		{"bcc.combine_mode", "third"},
		{"bcc.vieclus_mode", "deep"},
		{"matching.type", "heavy"},
		{"matching.edge_rating", "none"},
		{"coarsening.stop_rule", "never"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			c := NewConfig()
			c.Set(tt.key, tt.value)
			_, err := c.ToPartitionConfig()
			assert.ErrorIs(t, err, ErrInvalidValue)
		})
	}

	c := NewConfig()
	c.Set("partition.k", 0)
	_, err := c.ToPartitionConfig()
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coarsen.yaml")
	content := []byte(`partition:
  k: 8
bcc:
  mode: multilevel
  combine_mode: first
  vieclus_mode: shallownolp
  verify: true
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	c := NewConfig()
	require.NoError(t, c.LoadFromFile(path))
	pc, err := c.ToPartitionConfig()
	require.NoError(t, err)

	assert.Equal(t, 8, pc.K)
	assert.Equal(t, MultiLevel, pc.BCCMode)
	assert.Equal(t, FirstPartitionIndex, pc.BCCCombineMode)
	assert.Equal(t, VieClusShallowNoLP, pc.BCCVieClusMode)
	assert.True(t, pc.BCCVerify)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("COARSEN_PARTITION_K", "16")
	assert.Equal(t, 16, NewConfig().K())
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "BCC_MULTILEVEL", MultiLevel.String())
	assert.Equal(t, "BCC_SECOND_PARTITION_INDEX", SecondPartitionIndex.String())
	assert.Equal(t, "VIECLUS_SHALLOW", VieClusShallow.String())
	assert.Equal(t, "CLUSTER_COARSENING", ClusterCoarsening.String())
	assert.Equal(t, "7", BCCMode(7).String())

	assert.False(t, CombineMode(5).Valid())
	assert.False(t, VieClusMode(-1).Valid())
	assert.True(t, VieClusShallowNoLP.Valid())
}

func TestDisableBCC(t *testing.T) {
	pc := PartitionConfig{BCCMode: MultiLevel, BCCVerify: true, Combine: true, BCCReuseClustering: true}
	pc.DisableBCC()
	assert.Equal(t, NoClustering, pc.BCCMode)
	assert.False(t, pc.BCCVerify)
	assert.False(t, pc.Combine)
	assert.False(t, pc.BCCReuseClustering)
}

func TestUpperBoundPartition(t *testing.T) {
	pc := PartitionConfig{K: 2, Imbalance: 3}
	assert.Equal(t, 51, pc.UpperBoundPartition(100))

	pc.K = 0
	assert.Equal(t, 100, pc.UpperBoundPartition(100))
}
