// Package units holds physical constants and the unit conversions applied to
// run parameters before they reach the simulation core.
//
// Reference units: length km, time ps, power W. Attenuation is given in
// dB/km and converted to natural units (1/km, power) with DBToNatural.
package units

import "math"

// Speed of light in vacuum.
const (
	LightSpeedMPS   = 299792458.0           // m/s
	LightSpeedKMPS  = LightSpeedMPS * 1e-15 // km/ps
	NanometersPerKM = 1e12
)

// DBToNatural converts a logarithmic coefficient in dB to natural units
// (power e-folding), e.g. dB/km to 1/km.
func DBToNatural(db float64) float64 {
	return db * math.Ln10 / 10
}

// DBToLinear converts a power ratio in dB to a linear factor.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/10)
}

// DBmToWatts converts an absolute power in dBm to watts.
func DBmToWatts(dbm float64) float64 {
	return 1e-3 * math.Pow(10, dbm/10)
}

// DispersionToBeta2 converts a dispersion parameter D to the group-velocity
// dispersion β2 = −λ²·D/(2πc), with c in km/ps. λ and D must use matching
// length units (λ in km, D in ps/km²).
func DispersionToBeta2(dispersion, wavelength float64) float64 {
	return -wavelength * wavelength * dispersion / (2 * math.Pi * LightSpeedKMPS)
}

// NMToKM converts nanometres to kilometres.
func NMToKM(nm float64) float64 { return nm / NanometersPerKM }

// BandwidthToAngular converts a wavelength width Δλ around λ (both in nm) to
// an angular-frequency width in rad/ps: Δω = 2πc·Δλ/λ².
func BandwidthToAngular(widthNM, centerNM float64) float64 {
	lambda := NMToKM(centerNM)
	return 2 * math.Pi * LightSpeedKMPS * NMToKM(widthNM) / (lambda * lambda)
}

// WavelengthToAngular returns the optical angular frequency 2πc/λ (rad/ps) for
// λ in nm.
func WavelengthToAngular(nm float64) float64 {
	return 2 * math.Pi * LightSpeedKMPS / NMToKM(nm)
}

// RoundTripTime returns the time in ps for light to traverse length km of
// fiber with refractive index n.
func RoundTripTime(lengthKM, n float64) float64 {
	return lengthKM * n / LightSpeedKMPS
}
