// Package pulse generates seed pulses for the cavity.
//
// Every generator returns a field with its time step already set, centred on
// sample n/2 with t = dt·(i − n/2). Peak powers are in W, widths and steps in
// ps. Generators are deterministic for a given set of arguments (Noise
// included, via its seed).
package pulse

import (
	"errors"
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"

	"github.com/roach88/cavity/internal/field"
)

var (
	// ErrUnknownShape is returned by Generate for unsupported shape names.
	ErrUnknownShape = errors.New("pulse: unknown shape")

	// ErrNonPhysical is returned for non-positive sample counts, widths or
	// steps, and negative powers.
	ErrNonPhysical = errors.New("pulse: non-physical parameter")
)

// Shape names a pulse profile.
type Shape string

// Supported shapes.
const (
	ShapeGaussian   Shape = "gaussian"
	ShapeSech       Shape = "sech"
	ShapeLorentzian Shape = "lorentzian"
	ShapeNoise      Shape = "noise"
)

// sechFWHM is the ratio between the intensity FWHM of sech² and its T0.
var sechFWHM = 2 * math.Log(1+math.Sqrt2)

// Spec describes a seed pulse.
type Spec struct {
	Shape     Shape
	Samples   int
	PeakPower float64 // W
	FWHM      float64 // ps, intensity full width at half maximum
	TimeStep  float64 // ps
	Seed      int64   // noise only
	// NoiseScale is the correlation length of the noise seed in samples.
	// Zero selects a default of 16.
	NoiseScale float64
}

// Generate dispatches on s.Shape.
func Generate(s Spec) (*field.Field, error) {
	switch s.Shape {
	case ShapeGaussian:
		return Gaussian(s.Samples, s.PeakPower, s.FWHM, s.TimeStep)
	case ShapeSech:
		return Sech(s.Samples, s.PeakPower, s.FWHM, s.TimeStep)
	case ShapeLorentzian:
		return Lorentzian(s.Samples, s.PeakPower, s.FWHM, s.TimeStep)
	case ShapeNoise:
		return Noise(s.Samples, s.PeakPower, s.TimeStep, s.Seed, s.NoiseScale)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, s.Shape)
	}
}

// Gaussian returns √P·exp(−2ln2·t²/fwhm²), whose intensity FWHM is fwhm.
func Gaussian(n int, peakPower, fwhm, dt float64) (*field.Field, error) {
	return shaped(n, peakPower, fwhm, dt, func(t float64) float64 {
		return math.Exp(-2 * math.Ln2 * t * t / (fwhm * fwhm))
	})
}

// Sech returns √P·sech(t/T0) with T0 chosen so the intensity FWHM is fwhm.
func Sech(n int, peakPower, fwhm, dt float64) (*field.Field, error) {
	t0 := fwhm / sechFWHM
	return shaped(n, peakPower, fwhm, dt, func(t float64) float64 {
		return 1 / math.Cosh(t/t0)
	})
}

// Lorentzian returns √P/(1 + 4t²/fwhm²).
func Lorentzian(n int, peakPower, fwhm, dt float64) (*field.Field, error) {
	return shaped(n, peakPower, fwhm, dt, func(t float64) float64 {
		return 1 / (1 + 4*t*t/(fwhm*fwhm))
	})
}

func shaped(n int, peakPower, fwhm, dt float64, envelope func(t float64) float64) (*field.Field, error) {
	if err := check(n, peakPower, dt); err != nil {
		return nil, err
	}
	if !(fwhm > 0) {
		return nil, fmt.Errorf("%w: fwhm %v", ErrNonPhysical, fwhm)
	}
	amp := math.Sqrt(peakPower)
	f := field.New(n)
	for i := 0; i < n; i++ {
		t := dt * float64(i-n/2)
		f.Set(i, complex(amp*envelope(t), 0))
	}
	if err := f.SetTimeStep(dt); err != nil {
		return nil, err
	}
	return f, nil
}

// Noise returns a smooth complex noise field with mean power close to power,
// built from two decorrelated OpenSimplex tracks. The same seed always yields
// the same field.
func Noise(n int, power, dt float64, seed int64, scale float64) (*field.Field, error) {
	if err := check(n, power, dt); err != nil {
		return nil, err
	}
	if scale <= 0 {
		scale = 16
	}
	noise := opensimplex.New(seed)
	f := field.New(n)
	for i := 0; i < n; i++ {
		x := float64(i) / scale
		f.Set(i, complex(noise.Eval2(x, 0), noise.Eval2(x, 1e3)))
	}
	if avg := f.AveragePower(); avg > 0 {
		f.ScaleInPlace(complex(math.Sqrt(power/avg), 0))
	}
	if err := f.SetTimeStep(dt); err != nil {
		return nil, err
	}
	return f, nil
}

// Pair builds a polarization pair with an independent copy of f in each
// circular component.
func Pair(f *field.Field) *field.Polarizations {
	return &field.Polarizations{Right: f.Clone(), Left: f.Clone()}
}

func check(n int, power, dt float64) error {
	if n < 1 {
		return fmt.Errorf("%w: %d samples", ErrNonPhysical, n)
	}
	if power < 0 || math.IsNaN(power) {
		return fmt.Errorf("%w: power %v", ErrNonPhysical, power)
	}
	if !(dt > 0) {
		return fmt.Errorf("%w: time step %v", ErrNonPhysical, dt)
	}
	return nil
}
