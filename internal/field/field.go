package field

import (
	"fmt"
	"math"
)

// Field is a fixed-length sequence of complex envelope samples with an
// optional sampling rate. The angular-frequency grid is valid only after
// SetSamplingRate (or SetTimeStep) has been called.
type Field struct {
	samples []complex128
	rate    float64
	omega   []float64
}

// New returns a zero-valued field of n samples without a sampling rate.
func New(n int) *Field {
	if n < 0 {
		panic("field: New(n<0)")
	}
	return &Field{samples: make([]complex128, n)}
}

// Filled returns a field of n samples all equal to v.
func Filled(n int, v complex128) *Field {
	f := New(n)
	for i := range f.samples {
		f.samples[i] = v
	}
	return f
}

// FromSamples returns a field holding a copy of s.
func FromSamples(s []complex128) *Field {
	f := New(len(s))
	copy(f.samples, s)
	return f
}

// Len returns the number of samples.
func (f *Field) Len() int { return len(f.samples) }

// At returns sample i. It panics when i is out of range, like a slice index.
func (f *Field) At(i int) complex128 { return f.samples[i] }

// Set assigns sample i.
func (f *Field) Set(i int, v complex128) { f.samples[i] = v }

// Samples exposes the backing slice. Writes through it mutate the field; the
// length must not be changed.
func (f *Field) Samples() []complex128 { return f.samples }

// Clone returns a deep copy, grid included.
func (f *Field) Clone() *Field {
	c := &Field{
		samples: make([]complex128, len(f.samples)),
		rate:    f.rate,
	}
	copy(c.samples, f.samples)
	if f.omega != nil {
		c.omega = make([]float64, len(f.omega))
		copy(c.omega, f.omega)
	}
	return c
}

// PeakPower returns max |E|².
func (f *Field) PeakPower() float64 {
	peak := 0.0
	for _, v := range f.samples {
		if p := norm(v); p > peak {
			peak = p
		}
	}
	return peak
}

// AveragePower returns mean |E|². An empty field has zero average power.
func (f *Field) AveragePower() float64 {
	if len(f.samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range f.samples {
		sum += norm(v)
	}
	return sum / float64(len(f.samples))
}

// Energy returns Σ|E|²·dt in W·ps (pJ).
func (f *Field) Energy() (float64, error) {
	if !f.HasGrid() {
		return 0, ErrInvalidGrid
	}
	sum := 0.0
	for _, v := range f.samples {
		sum += norm(v)
	}
	return sum * f.Dt(), nil
}

// Chomp returns a new field with begin samples removed from the front and end
// samples from the back. The sampling rate carries over.
func (f *Field) Chomp(begin, end int) (*Field, error) {
	if begin < 0 || end < 0 {
		return nil, fmt.Errorf("%w: negative chomp (%d, %d)", ErrChompRange, begin, end)
	}
	if begin+end >= len(f.samples) {
		return nil, fmt.Errorf("%w: %d+%d of %d", ErrChompRange, begin, end, len(f.samples))
	}
	out := FromSamples(f.samples[begin : len(f.samples)-end])
	if f.HasGrid() {
		out.buildGrid(f.rate)
	}
	return out, nil
}

// SetSamplingRate sets the rate (1/ps) and rebuilds the angular-frequency grid.
func (f *Field) SetSamplingRate(rate float64) error {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}
	f.buildGrid(rate)
	return nil
}

// SetTimeStep sets the rate from a time step dt (ps).
func (f *Field) SetTimeStep(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: time step %v", ErrInvalidRate, dt)
	}
	return f.SetSamplingRate(1 / dt)
}

func (f *Field) buildGrid(rate float64) {
	n := len(f.samples)
	f.rate = rate
	f.omega = make([]float64, n)
	if n == 0 {
		return
	}
	dw := 2 * math.Pi * rate / float64(n)
	for i := 0; i <= n/2 && i < n; i++ {
		f.omega[i] = dw * float64(i)
	}
	for i := n/2 + 1; i < n; i++ {
		f.omega[i] = dw * float64(i-n)
	}
}

// HasGrid reports whether a sampling rate has been set.
func (f *Field) HasGrid() bool { return f.rate > 0 && len(f.omega) == len(f.samples) }

// SamplingRate returns the rate in 1/ps, or 0 when unset.
func (f *Field) SamplingRate() float64 { return f.rate }

// Dt returns the time step. It is +Inf when the rate is unset.
func (f *Field) Dt() float64 { return 1 / f.rate }

// Df returns the frequency resolution rate/N.
func (f *Field) Df() float64 { return f.rate / float64(len(f.samples)) }

// Dw returns the angular frequency resolution 2π·rate/N.
func (f *Field) Dw() float64 { return 2 * math.Pi * f.rate / float64(len(f.samples)) }

// W returns the angular frequency of bin i.
func (f *Field) W(i int) (float64, error) {
	if !f.HasGrid() {
		return 0, ErrInvalidGrid
	}
	if i < 0 || i >= len(f.omega) {
		return 0, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return f.omega[i], nil
}

// F returns the frequency of bin i.
func (f *Field) F(i int) (float64, error) {
	w, err := f.W(i)
	if err != nil {
		return 0, err
	}
	return w / (2 * math.Pi), nil
}

// Omega returns the angular-frequency grid in DFT order. The slice is shared;
// callers must not modify it.
func (f *Field) Omega() ([]float64, error) {
	if !f.HasGrid() {
		return nil, ErrInvalidGrid
	}
	return f.omega, nil
}

// TemporalPower returns |E|² per sample.
func (f *Field) TemporalPower() []float64 {
	out := make([]float64, len(f.samples))
	for i, v := range f.samples {
		out[i] = norm(v)
	}
	return out
}

// SpectralPower returns |Ẽ|² per frequency bin in DFT order, computed from a
// transformed copy.
func (f *Field) SpectralPower() []float64 {
	return f.FFT().TemporalPower()
}

// Sqrt returns a field whose samples are the square roots of the real parts of
// f, as used to turn a power profile into an amplitude profile.
func Sqrt(f *Field) *Field {
	out := f.Clone()
	for i, v := range f.samples {
		out.samples[i] = complex(math.Sqrt(real(v)), 0)
	}
	return out
}

func norm(v complex128) float64 {
	return real(v)*real(v) + imag(v)*imag(v)
}
