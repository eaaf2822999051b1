package hierarchy

import "errors"

var (
	// ErrEmptyHierarchy is returned when popping from a hierarchy without levels.
	ErrEmptyHierarchy = errors.New("hierarchy: no levels")
	// ErrNoFinerLevel is returned when the coarsest level has nothing below it to project to.
	ErrNoFinerLevel = errors.New("hierarchy: no finer level to project to")
	// ErrIndexOutOfRange is returned by At for an index outside [0, Size()).
	ErrIndexOutOfRange = errors.New("hierarchy: level index out of range")
)
