package config

import "errors"

// Sentinel errors for the two config failure modes, matched with
// errors.Is.
var (
	// ErrInvalidConfig wraps anything structurally wrong with the
	// config file: malformed YAML, unknown keys, a bad alias entry.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrMissingRequired wraps a field that has no usable default and
	// was left empty.
	ErrMissingRequired = errors.New("config: missing required field")
)
