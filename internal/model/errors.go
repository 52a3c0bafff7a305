package model

import (
	"errors"
	"fmt"
)

// Summary access errors.
// Callers use errors.Is to tell an upstream contract violation (a key the
// profiling engine must always emit is absent) from a malformed document.
var (
	// ErrMissingKey is returned when a required key is absent from the summary.
	ErrMissingKey = errors.New("missing summary key")

	// ErrInvalidValue is returned when a key exists but holds a value of the
	// wrong kind, e.g. a string where a number is expected.
	ErrInvalidValue = errors.New("invalid summary value")

	// ErrInvalidSummary is returned when the document cannot be decoded or its
	// top level is not a mapping.
	ErrInvalidSummary = errors.New("invalid summary document")
)

// KeyError describes a lookup failure on a summary path.
type KeyError struct {
	// Path is the dotted path that was looked up, e.g. "table.n_var".
	Path string

	// Err is ErrMissingKey or ErrInvalidValue.
	Err error

	// Detail carries the decoder message for ErrInvalidValue.
	Detail string
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v %q: %s", e.Err, e.Path, e.Detail)
	}
	return fmt.Sprintf("%v %q", e.Err, e.Path)
}

// Unwrap returns the sentinel error for errors.Is support.
func (e *KeyError) Unwrap() error {
	return e.Err
}
