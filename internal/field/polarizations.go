package field

import (
	"fmt"
	"math"
)

// Polarizations holds the right- and left-circular components of the optical
// field. Both components always share length and sampling rate.
type Polarizations struct {
	Right *Field
	Left  *Field
}

// NewPolarizations pairs two fields, checking they agree on length and rate.
func NewPolarizations(right, left *Field) (*Polarizations, error) {
	if right == nil || left == nil {
		return nil, fmt.Errorf("%w: nil component", ErrDimensionMismatch)
	}
	if err := right.sameLen(left); err != nil {
		return nil, err
	}
	if right.rate != left.rate {
		return nil, fmt.Errorf("%w: sampling rates %v vs %v", ErrInvalidRate, right.rate, left.rate)
	}
	return &Polarizations{Right: right, Left: left}, nil
}

// Len returns the per-component sample count.
func (p *Polarizations) Len() int { return p.Right.Len() }

// HasGrid reports whether both components carry a frequency grid.
func (p *Polarizations) HasGrid() bool { return p.Right.HasGrid() && p.Left.HasGrid() }

// SetSamplingRate sets the same rate on both components.
func (p *Polarizations) SetSamplingRate(rate float64) error {
	if err := p.Right.SetSamplingRate(rate); err != nil {
		return err
	}
	return p.Left.SetSamplingRate(rate)
}

// Clone returns a deep copy of both components.
func (p *Polarizations) Clone() *Polarizations {
	return &Polarizations{Right: p.Right.Clone(), Left: p.Left.Clone()}
}

// X returns the linear x projection (R + L)/√2.
func (p *Polarizations) X() *Field {
	out := p.Right.Clone()
	s := complex(1/math.Sqrt2, 0)
	for i, l := range p.Left.samples {
		out.samples[i] = (out.samples[i] + l) * s
	}
	return out
}

// Y returns the linear y projection (R − L)/(i√2).
func (p *Polarizations) Y() *Field {
	out := p.Right.Clone()
	d := complex(0, math.Sqrt2)
	for i, l := range p.Left.samples {
		out.samples[i] = (out.samples[i] - l) / d
	}
	return out
}

// FromLinear builds a circular pair from linear x and y projections, the
// inverse of X and Y.
func FromLinear(x, y *Field) (*Polarizations, error) {
	if err := x.sameLen(y); err != nil {
		return nil, err
	}
	right, left := x.Clone(), x.Clone()
	s := complex(1/math.Sqrt2, 0)
	for i := range x.samples {
		iy := complex(0, 1) * y.samples[i]
		right.samples[i] = (x.samples[i] + iy) * s
		left.samples[i] = (x.samples[i] - iy) * s
	}
	return &Polarizations{Right: right, Left: left}, nil
}

// Scale returns both components multiplied by c.
func (p *Polarizations) Scale(c complex128) *Polarizations {
	return p.Clone().ScaleInPlace(c)
}

// ScaleInPlace multiplies both components by c and returns p.
func (p *Polarizations) ScaleInPlace(c complex128) *Polarizations {
	p.Right.ScaleInPlace(c)
	p.Left.ScaleInPlace(c)
	return p
}

// MulField multiplies both components by m sample by sample. Lengths are
// checked before either component changes.
func (p *Polarizations) MulField(m *Field) error {
	if err := p.check(m, m); err != nil {
		return err
	}
	p.Right.mulInto(m)
	p.Left.mulInto(m)
	return nil
}

// Add adds o component-wise. On error p is unchanged.
func (p *Polarizations) Add(o *Polarizations) error {
	if err := p.check(o.Right, o.Left); err != nil {
		return err
	}
	p.Right.addInto(o.Right, 1)
	p.Left.addInto(o.Left, 1)
	return nil
}

// Sub subtracts o component-wise. On error p is unchanged.
func (p *Polarizations) Sub(o *Polarizations) error {
	if err := p.check(o.Right, o.Left); err != nil {
		return err
	}
	p.Right.addInto(o.Right, -1)
	p.Left.addInto(o.Left, -1)
	return nil
}

func (p *Polarizations) check(right, left *Field) error {
	if err := p.Right.sameLen(right); err != nil {
		return err
	}
	return p.Left.sameLen(left)
}

// TotalPower returns |R|² + |L|² per sample.
func (p *Polarizations) TotalPower() []float64 {
	out := p.Right.TemporalPower()
	for i, v := range p.Left.samples {
		out[i] += norm(v)
	}
	return out
}

// PeakPower returns the maximum of |R|² + |L|².
func (p *Polarizations) PeakPower() float64 {
	peak := 0.0
	for _, v := range p.TotalPower() {
		if v > peak {
			peak = v
		}
	}
	return peak
}

// AveragePower returns the mean of |R|² + |L|².
func (p *Polarizations) AveragePower() float64 {
	return p.Right.AveragePower() + p.Left.AveragePower()
}

// Energy returns the pulse energy of both components in pJ.
func (p *Polarizations) Energy() (float64, error) {
	er, err := p.Right.Energy()
	if err != nil {
		return 0, err
	}
	el, err := p.Left.Energy()
	if err != nil {
		return 0, err
	}
	return er + el, nil
}
