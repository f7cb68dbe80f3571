package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/cavity/internal/component"
)

// RuntimeError represents an error detected during assembly or execution.
//
// Runtime errors include:
//   - Invalid component: the component failed validation when added
//   - Assembly frozen: a component was added after the first round trip
//   - Component failed: a component returned an error mid round trip
//
// All of them are fatal for the run. There is no retry: numeric simulation
// has no transient failures.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Component is the name of the component involved, if any.
	Component string

	// Kind is the variant of that component.
	Kind component.Kind

	// RoundTrip is the round trip in progress when the error occurred.
	RoundTrip int64

	// Err is the underlying cause.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeInvalidComponent indicates a component failed validation.
	ErrCodeInvalidComponent RuntimeErrorCode = "INVALID_COMPONENT"

	// ErrCodeAssemblyFrozen indicates an Add after the first round trip.
	ErrCodeAssemblyFrozen RuntimeErrorCode = "ASSEMBLY_FROZEN"

	// ErrCodeComponentFailed indicates a component failed during a round trip.
	ErrCodeComponentFailed RuntimeErrorCode = "COMPONENT_FAILED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Component != "" {
		msg = fmt.Sprintf("%s (component=%s %q, round_trip=%d)", msg, e.Kind, e.Component, e.RoundTrip)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause so errors.Is reaches component and
// field sentinels.
func (e *RuntimeError) Unwrap() error { return e.Err }

// IsComponentError returns true if err is a mid-run component failure.
// Uses errors.As to handle wrapped errors.
func IsComponentError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeComponentFailed
	}
	return false
}

func componentFailed(c component.Component, rt int64, err error) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeComponentFailed,
		Message:   "component failed",
		Component: c.Name(),
		Kind:      c.Kind(),
		RoundTrip: rt,
		Err:       err,
	}
}
