package coarsening

import "errors"

var (
	// ErrNoOracle is returned when clustering is enabled but no oracle was configured.
	ErrNoOracle = errors.New("coarsening: clustering enabled without an oracle")
	// ErrInconsistentMatching is returned when a matched pair maps to different coarse nodes.
	ErrInconsistentMatching = errors.New("coarsening: matching and mapping disagree")
)
