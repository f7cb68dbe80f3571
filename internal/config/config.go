// Package config loads, validates and assembles cavity run parameters.
//
// Parameters use laboratory units (dB/km, ps²/km, nm, percent). Build
// converts them to the natural units the simulation core consumes and
// returns a ready-to-run cavity.
//
// Parameter files are YAML or CUE. CUE files are unified with an embedded
// schema, so constraint violations come back with file positions.
package config

import (
	"fmt"
	"math"

	"github.com/roach88/cavity/internal/component"
	"github.com/roach88/cavity/internal/pulse"
)

// Defaults applied to fields left empty in a parameter file.
const (
	DefaultRefractiveIndex = 1.45
	DefaultWavelengthNM    = 1885.0
	DefaultRecorderName    = "coupler_logger"
	DefaultRecordEvery     = 1
	DefaultDelimiter       = ","
)

// Config is a complete parameter set for one run.
type Config struct {
	Grid       Grid                       `yaml:"grid" json:"grid"`
	Pulse      Pulse                      `yaml:"pulse" json:"pulse"`
	Cavity     CavityParams               `yaml:"cavity" json:"cavity"`
	Components map[string]ComponentConfig `yaml:"components" json:"components"`
	// Layout lists component names in traversal order. A name may appear
	// more than once; every occurrence is the same component instance.
	Layout   []string `yaml:"layout" json:"layout"`
	Recorder Recorder `yaml:"recorder" json:"recorder"`
}

// Grid is the time grid shared by every field.
type Grid struct {
	Samples  int     `yaml:"samples" json:"samples"`
	WindowPS float64 `yaml:"window_ps" json:"window_ps"`
}

// TimeStep returns the sample spacing in ps.
func (g Grid) TimeStep() float64 { return g.WindowPS / float64(g.Samples) }

// Pulse describes the seed pulse copied into both polarization components.
type Pulse struct {
	Shape        string   `yaml:"shape" json:"shape"`
	PeakPowerW   float64  `yaml:"peak_power_w,omitempty" json:"peak_power_w,omitempty"`
	PeakPowerDBm *float64 `yaml:"peak_power_dbm,omitempty" json:"peak_power_dbm,omitempty"`
	FWHMPS       float64  `yaml:"fwhm_ps,omitempty" json:"fwhm_ps,omitempty"`
	Seed         int64    `yaml:"seed,omitempty" json:"seed,omitempty"`
	NoiseScale   float64  `yaml:"noise_scale,omitempty" json:"noise_scale,omitempty"`
}

// CavityParams holds cavity-wide constants.
type CavityParams struct {
	RefractiveIndex float64 `yaml:"refractive_index" json:"refractive_index"`
	// WavelengthNM is the carrier wavelength. It places active-fiber gain
	// peaks and converts dispersion parameters to β2.
	WavelengthNM float64 `yaml:"wavelength_nm" json:"wavelength_nm"`
}

// Recorder configures the tap recorders.
type Recorder struct {
	Every     int64  `yaml:"every" json:"every"`
	Delimiter string `yaml:"delimiter" json:"delimiter"`
}

// ComponentConfig is one component definition. Which fields apply depends
// on Kind; fiber parameters left nil stay unset on the component.
type ComponentConfig struct {
	Kind string `yaml:"kind" json:"kind"`

	// fiber, active_fiber
	LengthKM            *float64 `yaml:"length_km,omitempty" json:"length_km,omitempty"`
	AttenuationDBPerKM  *float64 `yaml:"attenuation_db_per_km,omitempty" json:"attenuation_db_per_km,omitempty"`
	Beta2               *float64 `yaml:"beta2_ps2_per_km,omitempty" json:"beta2_ps2_per_km,omitempty"`
	DispersionPSPerNMKM *float64 `yaml:"dispersion_ps_per_nm_km,omitempty" json:"dispersion_ps_per_nm_km,omitempty"`
	Beta3               float64  `yaml:"beta3_ps3_per_km,omitempty" json:"beta3_ps3_per_km,omitempty"`
	GammaPerWKM         *float64 `yaml:"gamma_per_w_km,omitempty" json:"gamma_per_w_km,omitempty"`
	Steps               *int     `yaml:"steps,omitempty" json:"steps,omitempty"`

	// active_fiber
	SmallSignalGainDBPerKM float64 `yaml:"small_signal_gain_db_per_km,omitempty" json:"small_signal_gain_db_per_km,omitempty"`
	SaturationEnergyPJ     float64 `yaml:"saturation_energy_pj,omitempty" json:"saturation_energy_pj,omitempty"`
	CenterWavelengthNM     float64 `yaml:"center_wavelength_nm,omitempty" json:"center_wavelength_nm,omitempty"`
	GainBandwidthNM        float64 `yaml:"gain_bandwidth_nm,omitempty" json:"gain_bandwidth_nm,omitempty"`

	// active_fiber (Esat = T_rt·P_sat), absorber (Isat)
	SaturationPowerW float64 `yaml:"saturation_power_w,omitempty" json:"saturation_power_w,omitempty"`

	// absorber
	Alpha0  float64 `yaml:"alpha0,omitempty" json:"alpha0,omitempty"`
	AlphaNS float64 `yaml:"alpha_ns,omitempty" json:"alpha_ns,omitempty"`

	// wave_plates, angles in units of π
	PsiPi float64 `yaml:"psi_pi,omitempty" json:"psi_pi,omitempty"`
	XiPi  float64 `yaml:"xi_pi,omitempty" json:"xi_pi,omitempty"`

	// isolator; a nil extinction is ideal
	ExtinctionDB    *float64 `yaml:"extinction_db,omitempty" json:"extinction_db,omitempty"`
	InsertionLossDB float64  `yaml:"insertion_loss_db,omitempty" json:"insertion_loss_db,omitempty"`

	// coupler
	TransmissionPercent float64 `yaml:"transmission_percent,omitempty" json:"transmission_percent,omitempty"`
	// Tap names the recorder receiving the out-coupled pulse. Couplers
	// sharing a name share a recorder.
	Tap string `yaml:"tap,omitempty" json:"tap,omitempty"`
}

func ptr[T any](v T) *T { return &v }

// Default returns the reference Tm/Ho fiber ring cavity: wave plates, SMF,
// 50% output coupler, DWNT saturable absorber, thulium-doped gain fiber and a
// polarizing beam splitter, seeded with a 10 W, 1 ps Gaussian.
func Default() *Config {
	return &Config{
		Grid:  Grid{Samples: 8192, WindowPS: 100},
		Pulse: Pulse{Shape: string(pulse.ShapeGaussian), PeakPowerW: 10, FWHMPS: 1},
		Cavity: CavityParams{
			RefractiveIndex: DefaultRefractiveIndex,
			WavelengthNM:    DefaultWavelengthNM,
		},
		Components: map[string]ComponentConfig{
			"plates": {Kind: string(component.KindWavePlates), PsiPi: 0.7, XiPi: 0.05},
			"smf": {
				Kind:               string(component.KindFiber),
				LengthKM:           ptr(0.6e-3),
				AttenuationDBPerKM: ptr(14.0),
				Beta2:              ptr(74.0),
				GammaPerWKM:        ptr(0.78),
				Steps:              ptr(4000),
			},
			"coupler": {
				Kind:                string(component.KindCoupler),
				TransmissionPercent: 50,
				Tap:                 DefaultRecorderName,
			},
			"dwnt": {
				Kind:             string(component.KindAbsorber),
				Alpha0:           0.64,
				AlphaNS:          0.36,
				SaturationPowerW: 10,
			},
			"tdfa": {
				Kind:                   string(component.KindActiveFiber),
				LengthKM:               ptr(1e-3),
				AttenuationDBPerKM:     ptr(2.54e3),
				Beta2:                  ptr(76.0),
				GammaPerWKM:            ptr(0.78),
				Steps:                  ptr(4000),
				SmallSignalGainDBPerKM: 40 / 1e-3,
				SaturationPowerW:       0.03,
				CenterWavelengthNM:     1885,
				GainBandwidthNM:        100,
			},
			"pbs": {Kind: string(component.KindIsolator)},
		},
		Layout:   []string{"plates", "smf", "coupler", "smf", "dwnt", "smf", "tdfa", "smf", "pbs"},
		Recorder: Recorder{Every: DefaultRecordEvery, Delimiter: DefaultDelimiter},
	}
}

// applyDefaults fills cavity and recorder fields left at their zero value.
func (c *Config) applyDefaults() {
	if c.Cavity.RefractiveIndex == 0 {
		c.Cavity.RefractiveIndex = DefaultRefractiveIndex
	}
	if c.Cavity.WavelengthNM == 0 {
		c.Cavity.WavelengthNM = DefaultWavelengthNM
	}
	if c.Recorder.Every == 0 {
		c.Recorder.Every = DefaultRecordEvery
	}
	if c.Recorder.Delimiter == "" {
		c.Recorder.Delimiter = DefaultDelimiter
	}
}

var kinds = map[string]bool{
	string(component.KindFiber):       true,
	string(component.KindActiveFiber): true,
	string(component.KindWavePlates):  true,
	string(component.KindAbsorber):    true,
	string(component.KindIsolator):    true,
	string(component.KindCoupler):     true,
}

// Validate checks structure and value ranges. Fiber parameters left unset
// are not reported here; the components report them when the cavity is
// built.
func (c *Config) Validate() error {
	switch {
	case c.Grid.Samples < 2 || c.Grid.Samples%2 != 0:
		return invalid("grid.samples must be even and at least 2, got %d", c.Grid.Samples)
	case !(c.Grid.WindowPS > 0):
		return nonPhysical("grid.window_ps", c.Grid.WindowPS)
	case !(c.Cavity.RefractiveIndex > 0):
		return nonPhysical("cavity.refractive_index", c.Cavity.RefractiveIndex)
	case !(c.Cavity.WavelengthNM > 0):
		return nonPhysical("cavity.wavelength_nm", c.Cavity.WavelengthNM)
	case c.Recorder.Every < 1:
		return invalid("recorder.every must be at least 1, got %d", c.Recorder.Every)
	}
	if err := c.Pulse.validate(); err != nil {
		return err
	}
	if len(c.Layout) == 0 {
		return invalid("layout is empty")
	}
	for i, name := range c.Layout {
		if _, ok := c.Components[name]; !ok {
			return invalid("layout[%d]: unknown component %q", i, name)
		}
	}
	for name, cc := range c.Components {
		if err := cc.validate(); err != nil {
			return fmt.Errorf("components.%s: %w", name, err)
		}
	}
	return nil
}

func (p Pulse) validate() error {
	switch pulse.Shape(p.Shape) {
	case pulse.ShapeGaussian, pulse.ShapeSech, pulse.ShapeLorentzian:
		if !(p.FWHMPS > 0) {
			return nonPhysical("pulse.fwhm_ps", p.FWHMPS)
		}
	case pulse.ShapeNoise:
	default:
		return invalid("pulse.shape: unknown shape %q", p.Shape)
	}
	if p.PeakPowerW < 0 || math.IsNaN(p.PeakPowerW) {
		return nonPhysical("pulse.peak_power_w", p.PeakPowerW)
	}
	if p.PeakPowerDBm != nil && p.PeakPowerW != 0 {
		return invalid("pulse: peak_power_w and peak_power_dbm are mutually exclusive")
	}
	return nil
}

func (cc ComponentConfig) validate() error {
	if !kinds[cc.Kind] {
		return invalid("unknown kind %q", cc.Kind)
	}
	if cc.LengthKM != nil && *cc.LengthKM < 0 {
		return nonPhysical("length_km", *cc.LengthKM)
	}
	if cc.AttenuationDBPerKM != nil && *cc.AttenuationDBPerKM < 0 {
		return nonPhysical("attenuation_db_per_km", *cc.AttenuationDBPerKM)
	}
	if cc.Beta2 != nil && cc.DispersionPSPerNMKM != nil {
		return invalid("beta2_ps2_per_km and dispersion_ps_per_nm_km are mutually exclusive")
	}
	switch component.Kind(cc.Kind) {
	case component.KindActiveFiber:
		if cc.SmallSignalGainDBPerKM < 0 {
			return nonPhysical("small_signal_gain_db_per_km", cc.SmallSignalGainDBPerKM)
		}
		if !(cc.SaturationEnergyPJ > 0) && !(cc.SaturationPowerW > 0) {
			return invalid("one of saturation_energy_pj or saturation_power_w must be positive")
		}
		if cc.GainBandwidthNM < 0 {
			return nonPhysical("gain_bandwidth_nm", cc.GainBandwidthNM)
		}
	case component.KindAbsorber:
		if !(cc.SaturationPowerW > 0) {
			return nonPhysical("saturation_power_w", cc.SaturationPowerW)
		}
	case component.KindCoupler:
		if !(cc.TransmissionPercent > 0 && cc.TransmissionPercent <= 100) {
			return nonPhysical("transmission_percent", cc.TransmissionPercent)
		}
	}
	return nil
}

// Tapped reports whether any coupler in the layout feeds a recorder.
func (c *Config) Tapped() bool {
	for _, name := range c.Layout {
		if c.Components[name].Tap != "" {
			return true
		}
	}
	return false
}
