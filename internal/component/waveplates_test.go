package component

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cavity/internal/field"
)

func TestWavePlates_RightComponentInput(t *testing.T) {
	psi, xi := 0.7*math.Pi, 0.05*math.Pi
	w := NewWavePlates("plates", psi, xi)

	p := &field.Polarizations{Right: field.Filled(4, 1), Left: field.Filled(4, 0)}
	require.NoError(t, w.Apply(0, p))

	wantR := cmplx.Rect(math.Cos(0.05*math.Pi-0.25*math.Pi), psi)
	wantL := cmplx.Rect(math.Cos(0.05*math.Pi+0.25*math.Pi), -psi)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, real(wantR), real(p.Right.At(i)), 1e-12)
		assert.InDelta(t, imag(wantR), imag(p.Right.At(i)), 1e-12)
		assert.InDelta(t, real(wantL), real(p.Left.At(i)), 1e-12)
		assert.InDelta(t, imag(wantL), imag(p.Left.At(i)), 1e-12)
	}
	assert.InDelta(t, math.Cos(-0.2*math.Pi), cmplx.Abs(p.Right.At(0)), 1e-12)
	assert.InDelta(t, math.Cos(0.3*math.Pi), cmplx.Abs(p.Left.At(0)), 1e-12)
}

func TestWavePlates_DiscardsLeftInput(t *testing.T) {
	w := NewWavePlates("plates", 0.3, 0.1)

	a := &field.Polarizations{Right: field.Filled(4, 2), Left: field.Filled(4, 0)}
	b := &field.Polarizations{Right: field.Filled(4, 2), Left: field.Filled(4, 5i)}
	require.NoError(t, w.Apply(0, a))
	require.NoError(t, w.Apply(0, b))
	assert.Equal(t, a.Right.Samples(), b.Right.Samples())
	assert.Equal(t, a.Left.Samples(), b.Left.Samples())
}

func TestWavePlates_FieldIsUntouched(t *testing.T) {
	w := NewWavePlates("plates", 1, 1)
	f := field.Filled(4, 3)
	require.NoError(t, w.ApplyField(0, f))
	assert.Equal(t, field.Filled(4, 3).Samples(), f.Samples())
}

func TestWavePlates_Angles(t *testing.T) {
	w := NewWavePlates("plates", 0, 0)
	w.SetPsi(0.5 * math.Pi)
	w.SetXi(0.25 * math.Pi)
	psi, xi := w.Angles()
	assert.Equal(t, 0.5*math.Pi, psi)
	assert.Equal(t, 0.25*math.Pi, xi)
	assert.Equal(t, `wave_plates "plates": ψ=0.5π ξ=0.25π`, w.String())
}
