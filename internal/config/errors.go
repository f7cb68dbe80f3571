package config

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

var (
	// ErrInvalid is returned for structurally invalid parameter sets.
	ErrInvalid = errors.New("config: invalid configuration")

	// ErrNonPhysical is returned for values with no physical meaning.
	ErrNonPhysical = errors.New("config: non-physical value")

	// ErrUnknownFormat is returned by Load for unsupported file extensions.
	ErrUnknownFormat = errors.New("config: unknown file format")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func nonPhysical(path string, v float64) error {
	return fmt.Errorf("%w: %s = %g", ErrNonPhysical, path, v)
}

// Error codes carried by LoadError.
const (
	ErrCodeNotFound    = "E_NOT_FOUND"
	ErrCodeParse       = "E_PARSE"
	ErrCodeSchema      = "E_SCHEMA"
	ErrCodeDecode      = "E_DECODE"
	ErrCodeUnsupported = "E_UNSUPPORTED"
)

// LoadError represents an error that occurred while reading a parameter
// file. Pos is set when the CUE evaluator reported a position.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error { return e.Err }
