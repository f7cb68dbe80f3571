package field

// FFT returns the spectrum of f; f is left untouched.
func (f *Field) FFT() *Field {
	return f.Clone().FFTInPlace()
}

// IFFT returns the time-domain signal for spectrum f; f is left untouched.
func (f *Field) IFFT() *Field {
	return f.Clone().IFFTInPlace()
}

// FFTInPlace transforms f to the frequency domain, dividing by N, and returns f.
func (f *Field) FFTInPlace() *Field {
	n := len(f.samples)
	if n == 0 {
		return f
	}
	CurrentBackend().Plan(n).Forward(f.samples, f.samples)
	inv := complex(1/float64(n), 0)
	for i := range f.samples {
		f.samples[i] *= inv
	}
	return f
}

// IFFTInPlace transforms f back to the time domain without scaling and
// returns f.
func (f *Field) IFFTInPlace() *Field {
	n := len(f.samples)
	if n == 0 {
		return f
	}
	CurrentBackend().Plan(n).Inverse(f.samples, f.samples)
	return f
}

// FFTShift swaps the two halves of f in place, moving zero frequency to the
// centre.
func (f *Field) FFTShift() error {
	n := len(f.samples)
	if n%2 != 0 {
		return ErrOddLength
	}
	half := n / 2
	for i := 0; i < half; i++ {
		f.samples[i], f.samples[i+half] = f.samples[i+half], f.samples[i]
	}
	return nil
}
