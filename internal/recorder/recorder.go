// Package recorder implements the append-only sink that collects pulses
// leaving the cavity and writes them out as delimited tables.
//
// A Recorder is attached to a coupler as its tap. Each capture is stored with
// the round trip it belongs to; WriteTable serializes the accumulated entries
// in the time or the frequency domain. Rows hold the real and imaginary parts
// of each polarization component, one row per sample, and round-trip groups
// are separated by a blank line.
package recorder

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/roach88/cavity/internal/field"
)

// DefaultDelimiter separates columns in written tables.
const DefaultDelimiter = ","

// Domain selects the representation WriteTable emits.
type Domain int

const (
	// Time writes the samples as captured.
	Time Domain = iota
	// Frequency writes the centred spectrum (FFT followed by FFTShift).
	Frequency
)

// String implements fmt.Stringer.
func (d Domain) String() string {
	switch d {
	case Time:
		return "time"
	case Frequency:
		return "frequency"
	default:
		return fmt.Sprintf("Domain(%d)", int(d))
	}
}

// Entry is one captured pulse. Left is nil for single-field captures.
type Entry struct {
	RoundTrip int64
	Right     *field.Field
	Left      *field.Field
}

// Pair reports whether the entry holds both polarization components.
func (e Entry) Pair() bool { return e.Left != nil }

// Recorder collects captures. It implements component.Tap.
//
// Thread-safety: not safe for concurrent use; the cavity is single-threaded.
type Recorder struct {
	name    string
	every   int64
	delim   string
	entries []Entry
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithEvery keeps only captures whose round trip is a multiple of n.
// Values below 1 keep everything.
func WithEvery(n int64) Option {
	return func(r *Recorder) {
		r.every = n
	}
}

// WithDelimiter sets the column delimiter. Default: DefaultDelimiter.
func WithDelimiter(d string) Option {
	return func(r *Recorder) {
		r.delim = d
	}
}

// New creates an empty recorder.
func New(name string, opts ...Option) *Recorder {
	r := &Recorder{name: name, every: 1, delim: DefaultDelimiter}
	for _, opt := range opts {
		opt(r)
	}
	if r.every < 1 {
		r.every = 1
	}
	return r
}

// Name returns the recorder name.
func (r *Recorder) Name() string { return r.name }

func (r *Recorder) keep(rt int64) bool { return rt%r.every == 0 }

// Capture stores a copy of p.
func (r *Recorder) Capture(rt int64, p *field.Polarizations) error {
	if p == nil || p.Right == nil || p.Left == nil {
		return fmt.Errorf("recorder %q: nil polarizations", r.name)
	}
	if !r.keep(rt) {
		return nil
	}
	if p.Right.Len() != p.Left.Len() {
		return fmt.Errorf("recorder %q: %w", r.name, field.ErrDimensionMismatch)
	}
	r.entries = append(r.entries, Entry{RoundTrip: rt, Right: p.Right.Clone(), Left: p.Left.Clone()})
	return nil
}

// CaptureField stores a copy of f.
func (r *Recorder) CaptureField(rt int64, f *field.Field) error {
	if f == nil {
		return fmt.Errorf("recorder %q: nil field", r.name)
	}
	if !r.keep(rt) {
		return nil
	}
	r.entries = append(r.entries, Entry{RoundTrip: rt, Right: f.Clone()})
	return nil
}

// Entries returns the captured entries in capture order. The slice is a
// copy; the fields are shared.
func (r *Recorder) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of entries.
func (r *Recorder) Len() int { return len(r.entries) }

// Reset drops all entries.
func (r *Recorder) Reset() { r.entries = nil }

// WriteTable writes every entry to w in domain d.
func (r *Recorder) WriteTable(w io.Writer, d Domain) error {
	if d != Time && d != Frequency {
		return fmt.Errorf("recorder %q: unknown domain %v", r.name, d)
	}
	bw := bufio.NewWriter(w)
	var row []byte
	for i, e := range r.entries {
		if i > 0 {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		cols, err := columns(e, d)
		if err != nil {
			return fmt.Errorf("recorder %q: round trip %d: %w", r.name, e.RoundTrip, err)
		}
		for s := 0; s < cols[0].Len(); s++ {
			row = row[:0]
			for c, f := range cols {
				if c > 0 {
					row = append(row, r.delim...)
				}
				v := f.At(s)
				row = strconv.AppendFloat(row, real(v), 'g', -1, 64)
				row = append(row, r.delim...)
				row = strconv.AppendFloat(row, imag(v), 'g', -1, 64)
			}
			row = append(row, '\n')
			if _, err := bw.Write(row); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WriteFile creates (or truncates) path and writes the table to it.
func (r *Recorder) WriteFile(path string, d Domain) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return r.WriteTable(f, d)
}

func columns(e Entry, d Domain) ([]*field.Field, error) {
	cols := []*field.Field{e.Right}
	if e.Pair() {
		cols = append(cols, e.Left)
	}
	if d == Time {
		return cols, nil
	}
	for i, f := range cols {
		spec := f.FFT()
		if err := spec.FFTShift(); err != nil {
			return nil, err
		}
		cols[i] = spec
	}
	return cols, nil
}
