package component

import (
	"errors"
	"fmt"
)

var (
	// ErrUnconfigured is returned when a parameter a calculation needs was
	// never set.
	ErrUnconfigured = errors.New("component: parameter not configured")

	// ErrNonPhysical is returned for parameter values with no physical
	// meaning, e.g. negative length or non-positive saturation energy.
	ErrNonPhysical = errors.New("component: non-physical parameter")
)

// ParamError names the component and parameter behind a configuration
// failure. Err is ErrUnconfigured or ErrNonPhysical.
type ParamError struct {
	Kind      Kind
	Component string
	Param     string
	Value     float64
	Err       error
}

// Error implements the error interface.
func (e *ParamError) Error() string {
	if errors.Is(e.Err, ErrUnconfigured) {
		return fmt.Sprintf("%s %q: %s: %v", e.Kind, e.Component, e.Param, e.Err)
	}
	return fmt.Sprintf("%s %q: %s=%g: %v", e.Kind, e.Component, e.Param, e.Value, e.Err)
}

// Unwrap returns the sentinel.
func (e *ParamError) Unwrap() error { return e.Err }

func unconfigured(kind Kind, name, param string) error {
	return &ParamError{Kind: kind, Component: name, Param: param, Err: ErrUnconfigured}
}

func nonPhysical(kind Kind, name, param string, v float64) error {
	return &ParamError{Kind: kind, Component: name, Param: param, Value: v, Err: ErrNonPhysical}
}
