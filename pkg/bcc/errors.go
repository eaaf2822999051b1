package bcc

import "errors"

// Configuration errors.
var (
	ErrInvalidVieClusMode = errors.New("bcc: unknown oracle variant")
	ErrInvalidCombineMode = errors.New("bcc: unknown combine mode")
)

// Oracle contract violations.
var (
	ErrOracleFailed          = errors.New("bcc: clustering oracle failed")
	ErrUndefinedClusterCount = errors.New("bcc: oracle reported an undefined cluster count")
	ErrClusterOutOfRange     = errors.New("bcc: oracle assigned a cluster id outside [0,k)")
	ErrModularityMismatch    = errors.New("bcc: oracle modularity does not match recomputed value")
)

// Mapping verifier failures.
var (
	ErrVerifierCombineMode    = errors.New("bcc: mapping verification requires the second partition index combine mode")
	ErrVerifierCombineUnset   = errors.New("bcc: mapping verification requires combine to be set")
	ErrMappingSize            = errors.New("bcc: mapping length differs from node count")
	ErrMissingSecondPartition = errors.New("bcc: graph has no second partition index")
	ErrBoundaryContracted     = errors.New("bcc: edge across a cluster boundary was contracted")
)
