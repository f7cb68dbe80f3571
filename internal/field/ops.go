package field

import "fmt"

func (f *Field) sameLen(o *Field) error {
	if len(f.samples) != len(o.samples) {
		return fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(f.samples), len(o.samples))
	}
	return nil
}

// Add returns f + o sample by sample.
func (f *Field) Add(o *Field) (*Field, error) {
	out := f.Clone()
	if err := out.AddInPlace(o); err != nil {
		return nil, err
	}
	return out, nil
}

// Sub returns f - o sample by sample.
func (f *Field) Sub(o *Field) (*Field, error) {
	out := f.Clone()
	if err := out.SubInPlace(o); err != nil {
		return nil, err
	}
	return out, nil
}

// Mul returns f * o sample by sample.
func (f *Field) Mul(o *Field) (*Field, error) {
	out := f.Clone()
	if err := out.MulInPlace(o); err != nil {
		return nil, err
	}
	return out, nil
}

// AddInPlace adds o to f.
func (f *Field) AddInPlace(o *Field) error {
	if err := f.sameLen(o); err != nil {
		return err
	}
	f.addInto(o, 1)
	return nil
}

// SubInPlace subtracts o from f.
func (f *Field) SubInPlace(o *Field) error {
	if err := f.sameLen(o); err != nil {
		return err
	}
	f.addInto(o, -1)
	return nil
}

// MulInPlace multiplies f by o.
func (f *Field) MulInPlace(o *Field) error {
	if err := f.sameLen(o); err != nil {
		return err
	}
	f.mulInto(o)
	return nil
}

// addInto adds sign·o to f. Lengths must already match.
func (f *Field) addInto(o *Field, sign complex128) {
	for i, v := range o.samples {
		f.samples[i] += sign * v
	}
}

func (f *Field) mulInto(o *Field) {
	for i, v := range o.samples {
		f.samples[i] *= v
	}
}

// Scale returns f * c.
func (f *Field) Scale(c complex128) *Field {
	return f.Clone().ScaleInPlace(c)
}

// ScaleInPlace multiplies every sample by c and returns f.
func (f *Field) ScaleInPlace(c complex128) *Field {
	for i := range f.samples {
		f.samples[i] *= c
	}
	return f
}

// DivScalar returns f / c.
func (f *Field) DivScalar(c complex128) (*Field, error) {
	if c == 0 {
		return nil, ErrDivideByZero
	}
	return f.Scale(1 / c), nil
}

// DivScalarInPlace divides every sample by c.
func (f *Field) DivScalarInPlace(c complex128) error {
	if c == 0 {
		return ErrDivideByZero
	}
	for i := range f.samples {
		f.samples[i] /= c
	}
	return nil
}
