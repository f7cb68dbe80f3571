package component

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/cavity/internal/field"
	"github.com/roach88/cavity/internal/pulse"
)

const (
	testSamples = 256
	testStep    = 0.05 // ps
)

func gaussianField(t *testing.T, peak float64) *field.Field {
	t.Helper()
	f, err := pulse.Gaussian(testSamples, peak, 1, testStep)
	require.NoError(t, err)
	return f
}

func gaussianPair(t *testing.T, peak float64) *field.Polarizations {
	t.Helper()
	return pulse.Pair(gaussianField(t, peak))
}

func configuredFiber(alpha, beta2, gamma, length float64, steps int) *Fiber {
	f := NewFiber("smf")
	f.SetAttenuation(alpha)
	f.SetDispersion(beta2)
	f.SetNonlinearity(gamma)
	f.SetLength(length)
	f.SetSteps(steps)
	return f
}

func relDiff(a, b float64) float64 {
	return math.Abs(a-b) / math.Max(math.Abs(a), math.Abs(b))
}

// captured is one Tap call.
type captured struct {
	rt    int64
	pair  *field.Polarizations
	field *field.Field
}

// recordingTap keeps everything it is given.
type recordingTap struct {
	calls []captured
	err   error
}

func (r *recordingTap) Capture(rt int64, p *field.Polarizations) error {
	r.calls = append(r.calls, captured{rt: rt, pair: p})
	return r.err
}

func (r *recordingTap) CaptureField(rt int64, f *field.Field) error {
	r.calls = append(r.calls, captured{rt: rt, field: f})
	return r.err
}
