// Package field provides the dual-domain optical signal representation used by
// the cavity simulator.
//
// A Field is a fixed-length buffer of complex envelope samples together with a
// sampling rate and the angular-frequency grid derived from it. Polarizations
// pairs two Fields (right- and left-circular components) of equal length and
// rate.
//
// # Units
//
// Time is in picoseconds, so the sampling rate is in 1/ps and angular
// frequencies are in rad/ps. Sample magnitudes squared are powers in watts.
//
// # Transform convention
//
// FFT divides by N and IFFT does not, so IFFT(FFT(x)) reproduces x. The
// angular-frequency grid uses DFT bin order: index 0 is DC, 1..N/2 are
// positive frequencies and N/2+1..N-1 are negative frequencies.
//
// # Backends
//
// The transform itself is delegated to a Backend. Gonum (gonum dsp/fourier)
// is the default; GoDSP (mjibson/go-dsp) is available through UseBackend or
// BackendByName. Plans are cached per length inside each backend.
//
// Fields are not safe for concurrent mutation. The simulator threads one
// pulse through the cavity sequentially.
package field
