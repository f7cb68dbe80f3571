package component

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cavity/internal/field"
)

func activeFiber(t *testing.T, g0, esat, length float64, steps int) *ActiveFiber {
	t.Helper()
	a, err := NewActiveFiber("tdfa", g0, esat)
	require.NoError(t, err)
	a.SetAttenuation(0)
	a.SetDispersion(0)
	a.SetNonlinearity(0)
	a.SetLength(length)
	a.SetSteps(steps)
	return a
}

func TestActiveFiber_NewValidates(t *testing.T) {
	_, err := NewActiveFiber("tdfa", 1, 0)
	assert.ErrorIs(t, err, ErrNonPhysical)
	_, err = NewActiveFiber("tdfa", 1, -2)
	assert.ErrorIs(t, err, ErrNonPhysical)
	_, err = NewActiveFiber("tdfa", -1, 1)
	assert.ErrorIs(t, err, ErrNonPhysical)

	a, err := NewActiveFiber("tdfa", 3, 1)
	require.NoError(t, err)
	assert.Equal(t, KindActiveFiber, a.Kind())
	assert.Equal(t, 3.0, a.Gain())
	assert.ErrorIs(t, a.Validate(), ErrUnconfigured)
}

func TestActiveFiber_UnsaturatedGain(t *testing.T) {
	const (
		g0     = 4.0
		length = 0.25
	)
	a := activeFiber(t, g0, 1e15, length, 20)

	s := gaussianField(t, 1)
	require.NoError(t, a.ApplyField(0, s))
	assert.Less(t, relDiff(math.Exp(g0*length), s.PeakPower()), 1e-6)
	assert.InDelta(t, g0, a.Gain(), 1e-6)
}

func TestActiveFiber_GainSaturatesAndPersists(t *testing.T) {
	const g0 = 10.0
	a := activeFiber(t, g0, 0.5, 0.1, 10)

	weak := gaussianPair(t, 0.01)
	require.NoError(t, a.Apply(0, weak))
	weakGain := a.Gain()
	assert.Less(t, weakGain, g0)

	strong := gaussianPair(t, 100)
	require.NoError(t, a.Apply(1, strong))
	assert.Less(t, a.Gain(), weakGain)

	e, err := strong.Energy()
	require.NoError(t, err)
	assert.InDelta(t, g0/(1+e/0.5), a.Gain(), 1e-9)

	a.ResetGain()
	assert.Equal(t, g0, a.Gain())
}

func TestActiveFiber_GainBandwidth(t *testing.T) {
	const (
		g0     = 4.0
		length = 0.5
	)
	tone := func(bin int) *field.Field {
		f := field.New(testSamples)
		for i := 0; i < testSamples; i++ {
			f.Set(i, cmplx.Rect(1e-3, 2*math.Pi*float64(bin*i)/testSamples))
		}
		require.NoError(t, f.SetTimeStep(testStep))
		return f
	}

	a := activeFiber(t, g0, 1e15, length, 10)
	a.SetGainBandwidth(1885, 100)
	require.NoError(t, a.Validate())

	dc := tone(0)
	require.NoError(t, a.ApplyField(0, dc))
	a.ResetGain()
	edge := tone(testSamples / 4)
	require.NoError(t, a.ApplyField(0, edge))

	dcGain := dc.AveragePower() / 1e-6
	edgeGain := edge.AveragePower() / 1e-6
	assert.Less(t, relDiff(math.Exp(g0*length), dcGain), 1e-6)
	assert.Less(t, edgeGain, dcGain)
	assert.Greater(t, edgeGain, 1.0)
}

func TestActiveFiber_BandwidthValidation(t *testing.T) {
	a := activeFiber(t, 1, 1, 1, 1)
	a.SetGainBandwidth(1885, 0)
	assert.ErrorIs(t, a.Validate(), ErrNonPhysical)

	a.SetGainBandwidth(1885, 100)
	a.SetCarrierWavelength(-1)
	assert.ErrorIs(t, a.Validate(), ErrNonPhysical)
}

func TestActiveFiber_ZeroLengthKeepsGain(t *testing.T) {
	a := activeFiber(t, 2, 1, 0, 5)

	p := gaussianPair(t, 1)
	before := p.Clone()
	require.NoError(t, a.Apply(0, p))
	assert.Equal(t, before.Right.Samples(), p.Right.Samples())
	assert.Equal(t, 2.0, a.Gain())
}

func TestActiveFiber_String(t *testing.T) {
	a := activeFiber(t, 2, 1, 1, 5)
	a.SetGainBandwidth(1885, 100)
	s := a.String()
	assert.Contains(t, s, `active_fiber "tdfa"`)
	assert.Contains(t, s, "Esat=1 pJ")
	assert.Contains(t, s, "band=100 nm")
}
