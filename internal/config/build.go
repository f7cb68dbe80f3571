package config

import (
	"fmt"
	"math"

	"github.com/roach88/cavity/internal/component"
	"github.com/roach88/cavity/internal/engine"
	"github.com/roach88/cavity/internal/field"
	"github.com/roach88/cavity/internal/pulse"
	"github.com/roach88/cavity/internal/recorder"
	"github.com/roach88/cavity/internal/units"
)

// Cavity is an assembled, ready-to-run laser cavity.
type Cavity struct {
	Engine *engine.Engine
	// Pulse is the seed pulse; Run mutates it in place.
	Pulse *field.Polarizations
	// Recorders are the coupler taps in order of first appearance in the
	// layout.
	Recorders []*recorder.Recorder
	// LengthKM is the total fiber length of one round trip.
	LengthKM float64
	// RoundTripTime is n·LengthKM/c in ps.
	RoundTripTime float64
}

// Recorder returns the recorder with the given name, or nil.
func (c *Cavity) Recorder(name string) *recorder.Recorder {
	for _, r := range c.Recorders {
		if r.Name() == name {
			return r
		}
	}
	return nil
}

// Build validates cfg, converts it to natural units and assembles the
// cavity. opts are passed to the engine.
func Build(cfg *Config, opts ...engine.EngineOption) (*Cavity, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cav := &Cavity{}
	for _, name := range cfg.Layout {
		if cc := cfg.Components[name]; cc.LengthKM != nil {
			cav.LengthKM += *cc.LengthKM
		}
	}
	cav.RoundTripTime = units.RoundTripTime(cav.LengthKM, cfg.Cavity.RefractiveIndex)

	seed, err := seedPulse(cfg)
	if err != nil {
		return nil, err
	}
	cav.Pulse = seed

	recorders := map[string]*recorder.Recorder{}
	built := map[string]component.Component{}
	cav.Engine = engine.New(opts...)
	for _, name := range cfg.Layout {
		c, ok := built[name]
		if !ok {
			cc := cfg.Components[name]
			var tap component.Tap
			if cc.Tap != "" {
				r, seen := recorders[cc.Tap]
				if !seen {
					r = recorder.New(cc.Tap,
						recorder.WithEvery(cfg.Recorder.Every),
						recorder.WithDelimiter(cfg.Recorder.Delimiter))
					recorders[cc.Tap] = r
					cav.Recorders = append(cav.Recorders, r)
				}
				tap = r
			}
			c, err = newComponent(name, cc, cfg, cav, tap)
			if err != nil {
				return nil, err
			}
			built[name] = c
		}
		if err := cav.Engine.Add(c); err != nil {
			return nil, err
		}
	}
	return cav, nil
}

func seedPulse(cfg *Config) (*field.Polarizations, error) {
	peak := cfg.Pulse.PeakPowerW
	if cfg.Pulse.PeakPowerDBm != nil {
		peak = units.DBmToWatts(*cfg.Pulse.PeakPowerDBm)
	}
	f, err := pulse.Generate(pulse.Spec{
		Shape:      pulse.Shape(cfg.Pulse.Shape),
		Samples:    cfg.Grid.Samples,
		PeakPower:  peak,
		FWHM:       cfg.Pulse.FWHMPS,
		TimeStep:   cfg.Grid.TimeStep(),
		Seed:       cfg.Pulse.Seed,
		NoiseScale: cfg.Pulse.NoiseScale,
	})
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	return pulse.Pair(f), nil
}

func newComponent(name string, cc ComponentConfig, cfg *Config, cav *Cavity, tap component.Tap) (component.Component, error) {
	switch component.Kind(cc.Kind) {
	case component.KindFiber:
		f := component.NewFiber(name)
		configureFiber(f, cc, cfg)
		return f, nil

	case component.KindActiveFiber:
		esat := cc.SaturationEnergyPJ
		if !(esat > 0) {
			esat = cav.RoundTripTime * cc.SaturationPowerW
		}
		a, err := component.NewActiveFiber(name, units.DBToNatural(cc.SmallSignalGainDBPerKM), esat)
		if err != nil {
			return nil, err
		}
		configureFiber(&a.Fiber, cc, cfg)
		if cc.GainBandwidthNM > 0 {
			center := cc.CenterWavelengthNM
			if center == 0 {
				center = cfg.Cavity.WavelengthNM
			}
			a.SetGainBandwidth(center, cc.GainBandwidthNM)
			a.SetCarrierWavelength(cfg.Cavity.WavelengthNM)
		}
		return a, nil

	case component.KindWavePlates:
		return component.NewWavePlates(name, cc.PsiPi*math.Pi, cc.XiPi*math.Pi), nil

	case component.KindAbsorber:
		return component.NewAbsorber(name, cc.Alpha0, cc.SaturationPowerW, cc.AlphaNS)

	case component.KindIsolator:
		s := component.NewIsolator(name)
		if cc.ExtinctionDB != nil {
			if err := s.SetExtinction(*cc.ExtinctionDB); err != nil {
				return nil, err
			}
		}
		if err := s.SetInsertionLoss(cc.InsertionLossDB); err != nil {
			return nil, err
		}
		return s, nil

	case component.KindCoupler:
		return component.NewCoupler(name, cc.TransmissionPercent/100, tap)
	}
	return nil, invalid("components.%s: unknown kind %q", name, cc.Kind)
}

// configureFiber sets every fiber parameter present in cc. Absent ones stay
// unset and are reported by the fiber itself.
func configureFiber(f *component.Fiber, cc ComponentConfig, cfg *Config) {
	if cc.AttenuationDBPerKM != nil {
		f.SetAttenuation(units.DBToNatural(*cc.AttenuationDBPerKM))
	}
	switch {
	case cc.Beta2 != nil:
		f.SetDispersion3(*cc.Beta2, cc.Beta3)
	case cc.DispersionPSPerNMKM != nil:
		beta2 := units.DispersionToBeta2(*cc.DispersionPSPerNMKM*units.NanometersPerKM, units.NMToKM(cfg.Cavity.WavelengthNM))
		f.SetDispersion3(beta2, cc.Beta3)
	}
	if cc.GammaPerWKM != nil {
		f.SetNonlinearity(*cc.GammaPerWKM)
	}
	if cc.LengthKM != nil {
		f.SetLength(*cc.LengthKM)
	}
	if cc.Steps != nil {
		f.SetSteps(*cc.Steps)
	}
}
