package report

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gilchrisn/graph-coarsening/pkg/coarsening"
	"github.com/gilchrisn/graph-coarsening/pkg/config"
	"github.com/gilchrisn/graph-coarsening/pkg/graph"
	"github.com/gilchrisn/graph-coarsening/pkg/hierarchy"
)

func testConfig() config.PartitionConfig {
	return config.PartitionConfig{
		K:                                2,
		Imbalance:                        3,
		EdgeRating:                       config.Weight,
		MatchingType:                     config.MatchingGPA,
		DisableMaxVertexWeightConstraint: true,
		StopRule:                         config.StopRuleSimple,
		BCCCombineMode:                   config.SecondPartitionIndex,
		GraphFilename:                    "ring.graph",
	}
}

func ring(t *testing.T, n int) *graph.Graph {
	t.Helper()
	g := graph.NewGraph(n)
	for u := 0; u < n; u++ {
		require.NoError(t, g.AddEdge(u, (u+1)%n, 1.0))
	}
	return g
}

// coarsen runs a full coarsening of a ring and returns its report inputs.
func coarsen(t *testing.T, opts ...coarsening.Option) (*coarsening.Stats, *hierarchy.GraphHierarchy) {
	t.Helper()
	h := hierarchy.New()
	stats, err := coarsening.New(opts...).PerformCoarsening(context.Background(), testConfig(), ring(t, 8), h)
	require.NoError(t, err)
	return stats, h
}

func TestBuild(t *testing.T) {
	stats, h := coarsen(t)
	r := Build("run-1", testConfig(), stats, h)

	assert.Equal(t, "run-1", r.RunID)
	assert.Equal(t, "ring.graph", r.Graph)
	require.Len(t, r.Hierarchy, h.Size())
	assert.Equal(t, stats.Levels, r.Levels)

	finest := r.Hierarchy[0]
	assert.Equal(t, 8, finest.Nodes)
	assert.Equal(t, 8, finest.Edges)
	assert.Equal(t, 8, finest.TotalNodeWeight)
	assert.Equal(t, 1, finest.MaxNodeWeight)
	assert.True(t, finest.HasMapping)

	coarsest, ok := r.Coarsest()
	require.True(t, ok)
	assert.False(t, coarsest.HasMapping)
	assert.Equal(t, 8, coarsest.TotalNodeWeight)
	assert.Less(t, coarsest.Nodes, 8)
}

func TestCoarsestOfEmptyReport(t *testing.T) {
	_, ok := (&Report{}).Coarsest()
	assert.False(t, ok)
}

func TestYAMLWriter(t *testing.T) {
	stats, h := coarsen(t)
	r := Build("run-yaml", testConfig(), stats, h)

	var buf bytes.Buffer
	require.NoError(t, YAMLWriter{}.Write(r, &buf))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-yaml", decoded["run_id"])
	assert.Equal(t, "ring.graph", decoded["graph"])

	levels, ok := decoded["hierarchy"].([]interface{})
	require.True(t, ok)
	assert.Len(t, levels, len(r.Hierarchy))
}

func TestTextWriter(t *testing.T) {
	stats, h := coarsen(t)
	r := Build("run-text", testConfig(), stats, h)

	var buf bytes.Buffer
	require.NoError(t, TextWriter{}.Write(r, &buf))

	out := buf.String()
	assert.Contains(t, out, "run run-text")
	assert.Contains(t, out, "graph ring.graph")
	assert.Contains(t, out, "matching")
}

func TestNewWriter(t *testing.T) {
	tests := []struct {
		format  string
		want    Writer
		wantErr bool
	}{
		{"yaml", YAMLWriter{}, false},
		{"YML", YAMLWriter{}, false},
		{"text", TextWriter{}, false},
		{"txt", TextWriter{}, false},
		{"csv", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			w, err := NewWriter(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, w)
		})
	}
}

func TestWriteFile(t *testing.T) {
	stats, h := coarsen(t)
	r := Build("run-file", testConfig(), stats, h)
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "nested", "report.yaml")
	require.NoError(t, WriteFile(r, yamlPath))
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "run_id: run-file"))

	textPath := filepath.Join(dir, "report.out")
	require.NoError(t, WriteFile(r, textPath))
	data, err = os.ReadFile(textPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "run run-file"))
}

func TestLevelTracker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.jsonl")
	tracker, err := NewLevelTracker(path, "run-trace")
	require.NoError(t, err)

	stats, _ := coarsen(t, coarsening.WithLevelObserver(tracker.Observe))
	require.NoError(t, tracker.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var events []LevelEvent
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var e LevelEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		events = append(events, e)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, events, stats.NumLevels())
	for i, e := range events {
		assert.Equal(t, "run-trace", e.RunID)
		assert.Equal(t, i, e.Level)
		assert.Equal(t, stats.Levels[i].CoarserNodes, e.CoarserNodes)
	}
}

func TestNilLevelTracker(t *testing.T) {
	var tracker *LevelTracker
	assert.NoError(t, tracker.LogLevel(coarsening.LevelStats{}))
	assert.NoError(t, tracker.Close())
}
