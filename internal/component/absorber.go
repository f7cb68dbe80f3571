package component

import (
	"fmt"
	"math"

	"github.com/roach88/cavity/internal/field"
)

// Absorber is a saturable absorber with absorbance
//
//	A(I) = αns + (α0 − αns)/(1 + I/Isat)
//
// and power transmission 1 − A(I), applied per time sample. Transmission grows
// from 1 − α0 at low intensity towards 1 − αns when saturated.
type Absorber struct {
	name  string
	alpha float64 // α0, small-signal absorbance
	isat  float64 // W
	ns    float64 // αns, non-saturable absorbance
}

// NewAbsorber validates and returns an absorber. It requires Isat > 0 and
// 0 ≤ αns ≤ α0 ≤ 1.
func NewAbsorber(name string, alpha0, isat, alphaNS float64) (*Absorber, error) {
	a := &Absorber{name: name, alpha: alpha0, isat: isat, ns: alphaNS}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Name implements Component.
func (a *Absorber) Name() string { return a.name }

// Kind implements Component.
func (a *Absorber) Kind() Kind { return KindAbsorber }

// Validate implements Validator.
func (a *Absorber) Validate() error {
	switch {
	case !(a.isat > 0):
		return nonPhysical(KindAbsorber, a.name, "saturation_power", a.isat)
	case !(a.alpha >= 0 && a.alpha <= 1):
		return nonPhysical(KindAbsorber, a.name, "alpha0", a.alpha)
	case !(a.ns >= 0 && a.ns <= a.alpha):
		return nonPhysical(KindAbsorber, a.name, "alpha_ns", a.ns)
	}
	return nil
}

// ModulationDepth returns Δα = α0 − αns.
func (a *Absorber) ModulationDepth() float64 { return a.alpha - a.ns }

// Transmission returns the power transmission 1 − A(I) at intensity I (W).
// The expression αns + Δα/(1 + I/Isat) is the absorbed fraction A(I), not
// the transmitted one: using it directly would make the absorber darken as
// the pulse grows. 1 − A(I) rises with intensity, which is what lets the
// peak of a pulse pass while its wings are attenuated.
func (a *Absorber) Transmission(intensity float64) float64 {
	return 1 - (a.ns + a.ModulationDepth()/(1+intensity/a.isat))
}

// ApplyField implements Component.
func (a *Absorber) ApplyField(_ int64, f *field.Field) error {
	s := f.Samples()
	for i, v := range s {
		s[i] = v * complex(math.Sqrt(a.Transmission(power(v))), 0)
	}
	return nil
}

// Apply implements Component. The intensity is the total |R|² + |L|².
func (a *Absorber) Apply(_ int64, p *field.Polarizations) error {
	r, l := p.Right.Samples(), p.Left.Samples()
	for i := range r {
		t := complex(math.Sqrt(a.Transmission(power(r[i])+power(l[i]))), 0)
		r[i] *= t
		l[i] *= t
	}
	return nil
}

// String describes the absorber for module listings.
func (a *Absorber) String() string {
	return fmt.Sprintf("%s %q: α0=%g αns=%g Isat=%g W", a.Kind(), a.name, a.alpha, a.ns, a.isat)
}
