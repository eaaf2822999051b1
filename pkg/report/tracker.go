package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gilchrisn/graph-coarsening/pkg/coarsening"
)

// LevelEvent is one line of the level trace.
type LevelEvent struct {
	RunID string `json:"run_id"`
	coarsening.LevelStats
	Timestamp int64 `json:"timestamp"`
}

// LevelTracker appends one JSON object per finished level to a file.
type LevelTracker struct {
	mu      sync.Mutex
	file    *os.File
	encoder *json.Encoder
	runID   string
	err     error
}

// NewLevelTracker creates (or truncates) filename.
func NewLevelTracker(filename, runID string) (*LevelTracker, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create level trace: %w", err)
	}
	return &LevelTracker{
		file:    file,
		encoder: json.NewEncoder(file),
		runID:   runID,
	}, nil
}

// LogLevel appends ls to the trace.
func (lt *LevelTracker) LogLevel(ls coarsening.LevelStats) error {
	if lt == nil {
		return nil
	}
	lt.mu.Lock()
	defer lt.mu.Unlock()

	event := LevelEvent{
		RunID:      lt.runID,
		LevelStats: ls,
		Timestamp:  time.Now().Unix(),
	}
	if err := lt.encoder.Encode(event); err != nil {
		if lt.err == nil {
			lt.err = err
		}
		return err
	}
	return nil
}

// Observe adapts the tracker to coarsening.WithLevelObserver. Write errors
// are kept and reported by Close.
func (lt *LevelTracker) Observe(ls coarsening.LevelStats) {
	_ = lt.LogLevel(ls)
}

// Close closes the trace file and returns the first write error, if any.
func (lt *LevelTracker) Close() error {
	if lt == nil || lt.file == nil {
		return nil
	}
	lt.mu.Lock()
	defer lt.mu.Unlock()

	closeErr := lt.file.Close()
	lt.file = nil
	if lt.err != nil {
		return lt.err
	}
	return closeErr
}
