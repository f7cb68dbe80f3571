package component

import (
	"fmt"
	"math"

	"github.com/roach88/cavity/internal/field"
	"github.com/roach88/cavity/internal/units"
)

// Isolator is a polarization-dependent isolator. It passes the linear x
// projection and suppresses y by the extinction ratio; an ideal isolator
// (the default) removes y entirely. Insertion loss applies to both.
type Isolator struct {
	name       string
	extinction float64 // dB, +Inf for ideal
	insertion  float64 // dB
}

// NewIsolator returns an ideal, lossless isolator.
func NewIsolator(name string) *Isolator {
	return &Isolator{name: name, extinction: math.Inf(1)}
}

// Name implements Component.
func (s *Isolator) Name() string { return s.name }

// Kind implements Component.
func (s *Isolator) Kind() Kind { return KindIsolator }

// SetExtinction sets a finite extinction ratio in dB.
func (s *Isolator) SetExtinction(db float64) error {
	if db < 0 || math.IsNaN(db) {
		return nonPhysical(KindIsolator, s.name, "extinction_db", db)
	}
	s.extinction = db
	return nil
}

// SetInsertionLoss sets the insertion loss in dB.
func (s *Isolator) SetInsertionLoss(db float64) error {
	if db < 0 || math.IsNaN(db) {
		return nonPhysical(KindIsolator, s.name, "insertion_loss_db", db)
	}
	s.insertion = db
	return nil
}

// amplitude converts a dB power loss to an amplitude factor.
func amplitude(db float64) float64 {
	if math.IsInf(db, 1) {
		return 0
	}
	return math.Sqrt(1 / units.DBToLinear(db))
}

// Apply implements Component. With x = (R+L)/√2 and iy = (R−L)/√2 the
// output is R' = (x' + iy')/√2, L' = (x' − iy')/√2.
func (s *Isolator) Apply(_ int64, p *field.Polarizations) error {
	leak := complex(amplitude(s.extinction), 0)
	half := complex(1/math.Sqrt2, 0)
	out := complex(amplitude(s.insertion)/math.Sqrt2, 0)
	r, l := p.Right.Samples(), p.Left.Samples()
	for i := range r {
		x := (r[i] + l[i]) * half
		iy := (r[i] - l[i]) * half * leak
		r[i] = (x + iy) * out
		l[i] = (x - iy) * out
	}
	return nil
}

// ApplyField applies only the insertion loss: a single field has no
// orthogonal polarization to reject.
func (s *Isolator) ApplyField(_ int64, f *field.Field) error {
	f.ScaleInPlace(complex(amplitude(s.insertion), 0))
	return nil
}

// String describes the isolator for module listings.
func (s *Isolator) String() string {
	return fmt.Sprintf("%s %q: extinction=%g dB insertion=%g dB", s.Kind(), s.name, s.extinction, s.insertion)
}
