package component

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/roach88/cavity/internal/field"
)

// Cross-phase weighting for circular components: φ± = (2/3)γh(|E±|² + 2|E∓|²).
const (
	selfPhaseWeight  = 2.0 / 3.0
	crossPhaseWeight = 4.0 / 3.0
)

type fiberParam uint8

const (
	paramAlpha fiberParam = 1 << iota
	paramBeta2
	paramGamma
	paramLength
	paramSteps

	paramAll = paramAlpha | paramBeta2 | paramGamma | paramLength | paramSteps
)

// Fiber is a passive fiber segment integrated with the split-step Fourier
// method. All five of attenuation, dispersion, nonlinearity, length and step
// count must be set before use.
type Fiber struct {
	name   string
	alpha  float64 // 1/km, power
	beta2  float64 // ps²/km
	beta3  float64 // ps³/km
	gamma  float64 // 1/(W·km)
	length float64 // km
	steps  int
	set    fiberParam

	kernel dispersionKernel
}

// NewFiber returns an unconfigured fiber.
func NewFiber(name string) *Fiber {
	return &Fiber{name: name}
}

// Name implements Component.
func (f *Fiber) Name() string { return f.name }

// Kind implements Component.
func (f *Fiber) Kind() Kind { return KindFiber }

// SetAttenuation sets α in natural units (1/km, power).
func (f *Fiber) SetAttenuation(alpha float64) {
	f.alpha = alpha
	f.mark(paramAlpha)
}

// SetDispersion sets β2 and clears β3.
func (f *Fiber) SetDispersion(beta2 float64) {
	f.SetDispersion3(beta2, 0)
}

// SetDispersion3 sets β2 and β3.
func (f *Fiber) SetDispersion3(beta2, beta3 float64) {
	f.beta2, f.beta3 = beta2, beta3
	f.mark(paramBeta2)
}

// SetNonlinearity sets γ.
func (f *Fiber) SetNonlinearity(gamma float64) {
	f.gamma = gamma
	f.mark(paramGamma)
}

// SetLength sets L in km.
func (f *Fiber) SetLength(length float64) {
	f.length = length
	f.mark(paramLength)
}

// SetSteps sets the number of split-step sub-steps N.
func (f *Fiber) SetSteps(n int) {
	f.steps = n
	f.mark(paramSteps)
}

func (f *Fiber) mark(p fiberParam) {
	f.set |= p
	f.kernel.reset()
}

// Length returns L in km.
func (f *Fiber) Length() float64 { return f.length }

// Steps returns N.
func (f *Fiber) Steps() int { return f.steps }

// Validate implements Validator.
func (f *Fiber) Validate() error {
	return f.validate(f.Kind())
}

func (f *Fiber) validate(kind Kind) error {
	for _, p := range []struct {
		bit  fiberParam
		name string
	}{
		{paramAlpha, "attenuation"},
		{paramBeta2, "dispersion"},
		{paramGamma, "nonlinearity"},
		{paramLength, "length"},
		{paramSteps, "steps"},
	} {
		if f.set&p.bit == 0 {
			return unconfigured(kind, f.name, p.name)
		}
	}
	switch {
	case f.length < 0 || math.IsNaN(f.length):
		return nonPhysical(kind, f.name, "length", f.length)
	case f.alpha < 0 || math.IsNaN(f.alpha):
		return nonPhysical(kind, f.name, "attenuation", f.alpha)
	case f.steps < 1:
		return nonPhysical(kind, f.name, "steps", float64(f.steps))
	}
	return nil
}

// stepSize returns h = L/N.
func (f *Fiber) stepSize() float64 { return f.length / float64(f.steps) }

// ApplyField implements Component.
func (f *Fiber) ApplyField(_ int64, sig *field.Field) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if f.length == 0 {
		return nil
	}
	if !sig.HasGrid() {
		return gridError(f.Kind(), f.name)
	}
	h := f.stepSize()
	lin := f.kernel.get(f, sig, h)
	for s := 0; s < f.steps; s++ {
		linearStep(sig, lin)
		selfPhase(sig, f.gamma*h)
	}
	return nil
}

// Apply implements Component.
func (f *Fiber) Apply(_ int64, p *field.Polarizations) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if f.length == 0 {
		return nil
	}
	if !p.HasGrid() {
		return gridError(f.Kind(), f.name)
	}
	h := f.stepSize()
	lin := f.kernel.get(f, p.Right, h)
	for s := 0; s < f.steps; s++ {
		linearStep(p.Right, lin)
		linearStep(p.Left, lin)
		coupledPhase(p, f.gamma*h)
	}
	return nil
}

// String describes the fiber for module listings.
func (f *Fiber) String() string { return f.describe(KindFiber) }

func (f *Fiber) describe(kind Kind) string {
	return fmt.Sprintf("%s %q: L=%g km α=%g 1/km β2=%g ps²/km β3=%g ps³/km γ=%g 1/W/km N=%d",
		kind, f.name, f.length, f.alpha, f.beta2, f.beta3, f.gamma, f.steps)
}

// dispersionKernel caches exp[(−α/2 + iβ2/2·ω² + iβ3/6·ω³)·h] for one grid and
// step size. It is rebuilt when the sampling rate, length or step changes.
type dispersionKernel struct {
	rate   float64
	n      int
	h      float64
	values []complex128
}

func (k *dispersionKernel) reset() { k.values = nil }

func (k *dispersionKernel) get(f *Fiber, sig *field.Field, h float64) []complex128 {
	if k.values != nil && k.rate == sig.SamplingRate() && k.n == sig.Len() && k.h == h {
		return k.values
	}
	omega, _ := sig.Omega()
	k.values = make([]complex128, len(omega))
	for i, w := range omega {
		w2 := w * w
		phase := (f.beta2/2*w2 + f.beta3/6*w2*w) * h
		k.values[i] = cmplx.Rect(math.Exp(-f.alpha/2*h), phase)
	}
	k.rate, k.n, k.h = sig.SamplingRate(), sig.Len(), h
	return k.values
}

// linearStep applies a frequency-domain factor to sig.
func linearStep(sig *field.Field, factor []complex128) {
	sig.FFTInPlace()
	s := sig.Samples()
	for i := range s {
		s[i] *= factor[i]
	}
	sig.IFFTInPlace()
}

// selfPhase multiplies each sample by exp(i·gh·|E|²).
func selfPhase(sig *field.Field, gh float64) {
	if gh == 0 {
		return
	}
	s := sig.Samples()
	for i, v := range s {
		s[i] = v * cmplx.Rect(1, gh*power(v))
	}
}

// coupledPhase applies self- and cross-phase modulation to a circular pair.
func coupledPhase(p *field.Polarizations, gh float64) {
	if gh == 0 {
		return
	}
	r, l := p.Right.Samples(), p.Left.Samples()
	for i := range r {
		pr, pl := power(r[i]), power(l[i])
		r[i] *= cmplx.Rect(1, gh*(selfPhaseWeight*pr+crossPhaseWeight*pl))
		l[i] *= cmplx.Rect(1, gh*(selfPhaseWeight*pl+crossPhaseWeight*pr))
	}
}

func power(v complex128) float64 {
	return real(v)*real(v) + imag(v)*imag(v)
}
