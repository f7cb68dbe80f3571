package component

import (
	"fmt"
	"math"

	"github.com/roach88/cavity/internal/field"
)

// Coupler is an output coupler. A power fraction T stays in the cavity; the
// remaining 1 − T is out-coupled and, when a tap is attached, captured with
// the current round-trip index.
type Coupler struct {
	name         string
	transmission float64
	tap          Tap
}

// NewCoupler returns a coupler keeping the power fraction t ∈ (0, 1]. tap may
// be nil.
func NewCoupler(name string, t float64, tap Tap) (*Coupler, error) {
	c := &Coupler{name: name, tap: tap}
	if err := c.SetTransmission(t); err != nil {
		return nil, err
	}
	return c, nil
}

// Name implements Component.
func (c *Coupler) Name() string { return c.name }

// Kind implements Component.
func (c *Coupler) Kind() Kind { return KindCoupler }

// SetTransmission changes the in-cavity power fraction.
func (c *Coupler) SetTransmission(t float64) error {
	if !(t > 0 && t <= 1) {
		return nonPhysical(KindCoupler, c.name, "transmission", t)
	}
	c.transmission = t
	return nil
}

// Transmission returns the in-cavity power fraction.
func (c *Coupler) Transmission() float64 { return c.transmission }

// Apply implements Component.
func (c *Coupler) Apply(rt int64, p *field.Polarizations) error {
	if c.tap != nil {
		out := p.Scale(complex(math.Sqrt(1-c.transmission), 0))
		if err := c.tap.Capture(rt, out); err != nil {
			return fmt.Errorf("%s %q: tap: %w", c.Kind(), c.name, err)
		}
	}
	p.ScaleInPlace(complex(math.Sqrt(c.transmission), 0))
	return nil
}

// ApplyField implements Component.
func (c *Coupler) ApplyField(rt int64, f *field.Field) error {
	if c.tap != nil {
		out := f.Scale(complex(math.Sqrt(1-c.transmission), 0))
		if err := c.tap.CaptureField(rt, out); err != nil {
			return fmt.Errorf("%s %q: tap: %w", c.Kind(), c.name, err)
		}
	}
	f.ScaleInPlace(complex(math.Sqrt(c.transmission), 0))
	return nil
}

// String describes the coupler for module listings.
func (c *Coupler) String() string {
	return fmt.Sprintf("%s %q: T=%g%% tap=%t", c.Kind(), c.name, c.transmission*100, c.tap != nil)
}
