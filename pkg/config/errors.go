package config

import "errors"

var (
	// ErrInvalidValue indicates an unrecognized enum name or an out-of-range value.
	ErrInvalidValue = errors.New("config: invalid value")
	// ErrUnknownPreset indicates an unrecognized preconfiguration name.
	ErrUnknownPreset = errors.New("config: unknown preconfiguration")
)
