package component

import (
	"fmt"
	"math"

	"github.com/roach88/cavity/internal/field"
	"github.com/roach88/cavity/internal/units"
)

// ActiveFiber is a doped gain fiber. On top of the passive propagation it
// applies a saturable gain g = g0/(1 + E/Esat), where E is the pulse energy.
// g is recomputed after every sub-step and carried over to the next round
// trip. An optional Lorentzian gain profile limits the gain bandwidth.
type ActiveFiber struct {
	Fiber

	smallSignalGain float64 // g0, 1/km, power
	saturation      float64 // Esat, pJ
	gain            float64 // current saturated gain, 1/km

	filtered  bool
	centerNM  float64
	widthNM   float64
	carrierNM float64

	profile gainProfile
	buf     []complex128
}

// NewActiveFiber returns a gain fiber with small-signal gain g0 (1/km, power)
// and saturation energy esat (pJ). Fiber parameters are set with the
// embedded Fiber setters.
func NewActiveFiber(name string, g0, esat float64) (*ActiveFiber, error) {
	a := &ActiveFiber{Fiber: Fiber{name: name}}
	if g0 < 0 || math.IsNaN(g0) {
		return nil, nonPhysical(KindActiveFiber, name, "small_signal_gain", g0)
	}
	if !(esat > 0) {
		return nil, nonPhysical(KindActiveFiber, name, "saturation_energy", esat)
	}
	a.smallSignalGain, a.saturation, a.gain = g0, esat, g0
	return a, nil
}

// Kind implements Component.
func (a *ActiveFiber) Kind() Kind { return KindActiveFiber }

// Gain returns the current saturated gain in 1/km.
func (a *ActiveFiber) Gain() float64 { return a.gain }

// SaturationEnergy returns Esat in pJ.
func (a *ActiveFiber) SaturationEnergy() float64 { return a.saturation }

// ResetGain restores the small-signal gain.
func (a *ActiveFiber) ResetGain() { a.gain = a.smallSignalGain }

// SetGainBandwidth enables the Lorentzian gain profile, centred at centerNM
// with a full width of widthNM. The carrier defaults to the centre.
func (a *ActiveFiber) SetGainBandwidth(centerNM, widthNM float64) {
	a.filtered = true
	a.centerNM, a.widthNM = centerNM, widthNM
	if a.carrierNM == 0 {
		a.carrierNM = centerNM
	}
	a.profile.reset()
}

// SetCarrierWavelength sets the pulse carrier wavelength in nm, which places
// the gain peak relative to the envelope's zero frequency.
func (a *ActiveFiber) SetCarrierWavelength(nm float64) {
	a.carrierNM = nm
	a.profile.reset()
}

// Validate implements Validator.
func (a *ActiveFiber) Validate() error {
	if err := a.Fiber.validate(KindActiveFiber); err != nil {
		return err
	}
	if a.filtered {
		if !(a.centerNM > 0) {
			return nonPhysical(KindActiveFiber, a.name, "center_wavelength", a.centerNM)
		}
		if !(a.widthNM > 0) {
			return nonPhysical(KindActiveFiber, a.name, "gain_bandwidth", a.widthNM)
		}
		if !(a.carrierNM > 0) {
			return nonPhysical(KindActiveFiber, a.name, "carrier_wavelength", a.carrierNM)
		}
	}
	return nil
}

// ApplyField implements Component.
func (a *ActiveFiber) ApplyField(_ int64, sig *field.Field) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.length == 0 {
		return nil
	}
	if !sig.HasGrid() {
		return gridError(a.Kind(), a.name)
	}
	h := a.stepSize()
	for s := 0; s < a.steps; s++ {
		lin := a.linear(sig, h)
		linearStep(sig, lin)
		selfPhase(sig, a.gamma*h)
		e, err := sig.Energy()
		if err != nil {
			return err
		}
		a.saturate(e)
	}
	return nil
}

// Apply implements Component.
func (a *ActiveFiber) Apply(_ int64, p *field.Polarizations) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.length == 0 {
		return nil
	}
	if !p.HasGrid() {
		return gridError(a.Kind(), a.name)
	}
	h := a.stepSize()
	for s := 0; s < a.steps; s++ {
		lin := a.linear(p.Right, h)
		linearStep(p.Right, lin)
		linearStep(p.Left, lin)
		coupledPhase(p, a.gamma*h)
		e, err := p.Energy()
		if err != nil {
			return err
		}
		a.saturate(e)
	}
	return nil
}

func (a *ActiveFiber) saturate(energy float64) {
	a.gain = a.smallSignalGain / (1 + energy/a.saturation)
}

// linear returns the passive kernel multiplied by exp(g·G(ω)·h/2) for the
// current gain. The buffer is reused between sub-steps.
func (a *ActiveFiber) linear(sig *field.Field, h float64) []complex128 {
	disp := a.kernel.get(&a.Fiber, sig, h)
	if len(a.buf) != len(disp) {
		a.buf = make([]complex128, len(disp))
	}
	if !a.filtered {
		amp := complex(math.Exp(a.gain*h/2), 0)
		for i, d := range disp {
			a.buf[i] = d * amp
		}
		return a.buf
	}
	g := a.profile.get(a, sig)
	for i, d := range disp {
		a.buf[i] = d * complex(math.Exp(a.gain*g[i]*h/2), 0)
	}
	return a.buf
}

// String describes the fiber for module listings.
func (a *ActiveFiber) String() string {
	s := fmt.Sprintf("%s g0=%g 1/km Esat=%g pJ", a.describe(KindActiveFiber), a.smallSignalGain, a.saturation)
	if a.filtered {
		s += fmt.Sprintf(" band=%g nm @ %g nm", a.widthNM, a.centerNM)
	}
	return s
}

// gainProfile caches the Lorentzian G(ω) = 1/(1 + ((ω − Δ)/(Ω/2))²) for one
// grid. Δ is the gain-peak offset from the carrier and Ω the full width.
type gainProfile struct {
	rate   float64
	n      int
	values []float64
}

func (g *gainProfile) reset() { g.values = nil }

func (g *gainProfile) get(a *ActiveFiber, sig *field.Field) []float64 {
	if g.values != nil && g.rate == sig.SamplingRate() && g.n == sig.Len() {
		return g.values
	}
	omega, _ := sig.Omega()
	halfWidth := units.BandwidthToAngular(a.widthNM, a.centerNM) / 2
	offset := units.WavelengthToAngular(a.centerNM) - units.WavelengthToAngular(a.carrierNM)
	g.values = make([]float64, len(omega))
	for i, w := range omega {
		x := (w - offset) / halfWidth
		g.values[i] = 1 / (1 + x*x)
	}
	g.rate, g.n = sig.SamplingRate(), sig.Len()
	return g.values
}
