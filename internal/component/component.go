package component

import (
	"fmt"

	"github.com/roach88/cavity/internal/field"
)

// Kind identifies a component variant.
type Kind string

// Component variants.
const (
	KindFiber       Kind = "fiber"
	KindActiveFiber Kind = "active_fiber"
	KindWavePlates  Kind = "wave_plates"
	KindAbsorber    Kind = "absorber"
	KindIsolator    Kind = "isolator"
	KindCoupler     Kind = "coupler"
)

// Component is one physical element of the cavity. rt is the index of the
// round trip in progress (0 for the first pass).
type Component interface {
	Name() string
	Kind() Kind
	Apply(rt int64, p *field.Polarizations) error
	ApplyField(rt int64, f *field.Field) error
}

// Validator is implemented by components that can check their parameters
// before the first round trip.
type Validator interface {
	Validate() error
}

// Tap receives copies of the signal leaving the cavity, tagged with the round
// trip they belong to. The recorder package provides the standard Tap.
type Tap interface {
	Capture(rt int64, p *field.Polarizations) error
	CaptureField(rt int64, f *field.Field) error
}

// gridError reports a frequency-domain operation on a field with no sampling
// rate.
func gridError(kind Kind, name string) error {
	return fmt.Errorf("%s %q: %w", kind, name, field.ErrInvalidGrid)
}
