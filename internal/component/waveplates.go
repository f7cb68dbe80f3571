package component

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/roach88/cavity/internal/field"
)

// WavePlates models a half-wave plus quarter-wave plate pair:
//
//	E₊' = E₁·e^{iψ}·cos(ξ − π/4)
//	E₋' = E₁·e^{−iψ}·cos(ξ + π/4)
//
// E₁ is taken from the right-circular component rather than the linear x
// projection. Both outputs derive from E₁, so the left input is discarded and
// applying (ψ, ξ) followed by (−ψ, −ξ) does not restore the input.
type WavePlates struct {
	name string
	psi  float64
	xi   float64
}

// NewWavePlates returns plates with rotation angles psi and xi in radians.
func NewWavePlates(name string, psi, xi float64) *WavePlates {
	return &WavePlates{name: name, psi: psi, xi: xi}
}

// Name implements Component.
func (w *WavePlates) Name() string { return w.name }

// Kind implements Component.
func (w *WavePlates) Kind() Kind { return KindWavePlates }

// SetPsi changes ψ.
func (w *WavePlates) SetPsi(psi float64) { w.psi = psi }

// SetXi changes ξ.
func (w *WavePlates) SetXi(xi float64) { w.xi = xi }

// Angles returns (ψ, ξ).
func (w *WavePlates) Angles() (psi, xi float64) { return w.psi, w.xi }

// Apply implements Component.
func (w *WavePlates) Apply(_ int64, p *field.Polarizations) error {
	right := cmplx.Rect(math.Cos(w.xi-math.Pi/4), w.psi)
	left := cmplx.Rect(math.Cos(w.xi+math.Pi/4), -w.psi)
	r, l := p.Right.Samples(), p.Left.Samples()
	for i, e1 := range r {
		r[i] = e1 * right
		l[i] = e1 * left
	}
	return nil
}

// ApplyField is a no-op: the plates act on a polarization basis a single
// field does not carry.
func (w *WavePlates) ApplyField(int64, *field.Field) error { return nil }

// String describes the plates for module listings.
func (w *WavePlates) String() string {
	return fmt.Sprintf("%s %q: ψ=%.4gπ ξ=%.4gπ", w.Kind(), w.name, w.psi/math.Pi, w.xi/math.Pi)
}
