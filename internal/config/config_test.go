package config

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cavity/internal/component"
	"github.com/roach88/cavity/internal/engine"
	"github.com/roach88/cavity/internal/units"
)

func loadTestdata(t *testing.T, name string) *Config {
	t.Helper()
	cfg, err := Load(filepath.Join("testdata", name))
	require.NoError(t, err)
	return cfg
}

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Tapped())
	assert.InDelta(t, 100.0/8192, cfg.Grid.TimeStep(), 1e-15)
}

func TestDefault_Builds(t *testing.T) {
	cav, err := Build(Default())
	require.NoError(t, err)

	cs := cav.Engine.Components()
	require.Len(t, cs, 9)
	// The same fiber instance is traversed four times.
	assert.Same(t, cs[1], cs[3])
	assert.Same(t, cs[1], cs[5])
	assert.Same(t, cs[1], cs[7])
	assert.Equal(t, component.KindActiveFiber, cs[6].Kind())

	assert.InDelta(t, 4*0.6e-3+1e-3, cav.LengthKM, 1e-15)
	assert.InDelta(t, units.RoundTripTime(3.4e-3, 1.45), cav.RoundTripTime, 1e-9)

	require.Len(t, cav.Recorders, 1)
	assert.Equal(t, DefaultRecorderName, cav.Recorders[0].Name())
	assert.NotNil(t, cav.Recorder(DefaultRecorderName))
	assert.Nil(t, cav.Recorder("missing"))

	tdfa := cs[6].(*component.ActiveFiber)
	assert.InDelta(t, cav.RoundTripTime*0.03, tdfa.SaturationEnergy(), 1e-9)
	assert.InDelta(t, units.DBToNatural(40000), tdfa.Gain(), 1e-9)

	assert.Equal(t, 8192, cav.Pulse.Len())
	assert.InDelta(t, 20.0, cav.Pulse.PeakPower(), 1e-9)
}

func TestLoad_YAMLAndCUEAgree(t *testing.T) {
	fromYAML := loadTestdata(t, "cavity.yaml")
	fromCUE := loadTestdata(t, "cavity.cue")
	assert.Equal(t, fromYAML, fromCUE)

	hy, err := fromYAML.Hash()
	require.NoError(t, err)
	hc, err := fromCUE.Hash()
	require.NoError(t, err)
	assert.Equal(t, hy, hc)
}

func TestLoad_CUESchemaViolation(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "bad_steps.cue"))
	require.Error(t, err)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, ErrCodeSchema, le.Code)
}

func TestLoad_YAMLUnknownKey(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "unknown_key.yaml"))
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, ErrCodeParse, le.Code)
	assert.Contains(t, le.Error(), "resolution")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "cavity.toml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join("testdata", "missing.yaml"))
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, ErrCodeNotFound, le.Code)

	_, err = DecodeYAML(bytes.NewReader(nil))
	require.True(t, errors.As(err, &le))
	assert.Equal(t, ErrCodeParse, le.Code)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := DecodeYAML(bytes.NewBufferString("grid: {samples: 4, window_ps: 1}\n"))
	require.NoError(t, err)
	cfg.applyDefaults()
	assert.Equal(t, DefaultRefractiveIndex, cfg.Cavity.RefractiveIndex)
	assert.Equal(t, DefaultWavelengthNM, cfg.Cavity.WavelengthNM)
	assert.Equal(t, int64(DefaultRecordEvery), cfg.Recorder.Every)
	assert.Equal(t, DefaultDelimiter, cfg.Recorder.Delimiter)
}

func TestEncodeYAML_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeYAML(&buf, Default()))

	back, err := DecodeYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, Default(), back)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"odd samples", func(c *Config) { c.Grid.Samples = 7 }, ErrInvalid},
		{"zero window", func(c *Config) { c.Grid.WindowPS = 0 }, ErrNonPhysical},
		{"zero index", func(c *Config) { c.Cavity.RefractiveIndex = 0 }, ErrNonPhysical},
		{"record every", func(c *Config) { c.Recorder.Every = 0 }, ErrInvalid},
		{"unknown shape", func(c *Config) { c.Pulse.Shape = "square" }, ErrInvalid},
		{"zero fwhm", func(c *Config) { c.Pulse.FWHMPS = 0 }, ErrNonPhysical},
		{"negative power", func(c *Config) { c.Pulse.PeakPowerW = -1 }, ErrNonPhysical},
		{"both powers", func(c *Config) { c.Pulse.PeakPowerDBm = ptr(10.0) }, ErrInvalid},
		{"empty layout", func(c *Config) { c.Layout = nil }, ErrInvalid},
		{"unknown layout name", func(c *Config) { c.Layout = append(c.Layout, "ghost") }, ErrInvalid},
		{"unknown kind", func(c *Config) {
			c.Components["pbs"] = ComponentConfig{Kind: "mirror"}
		}, ErrInvalid},
		{"negative length", func(c *Config) {
			cc := c.Components["smf"]
			cc.LengthKM = ptr(-1.0)
			c.Components["smf"] = cc
		}, ErrNonPhysical},
		{"two dispersions", func(c *Config) {
			cc := c.Components["smf"]
			cc.DispersionPSPerNMKM = ptr(17.0)
			c.Components["smf"] = cc
		}, ErrInvalid},
		{"coupler percent", func(c *Config) {
			cc := c.Components["coupler"]
			cc.TransmissionPercent = 0
			c.Components["coupler"] = cc
		}, ErrNonPhysical},
		{"absorber saturation", func(c *Config) {
			cc := c.Components["dwnt"]
			cc.SaturationPowerW = 0
			c.Components["dwnt"] = cc
		}, ErrNonPhysical},
		{"gain saturation", func(c *Config) {
			cc := c.Components["tdfa"]
			cc.SaturationPowerW = 0
			c.Components["tdfa"] = cc
		}, ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
			_, err := Build(cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuild_UnsetFiberParameter(t *testing.T) {
	cfg := Default()
	cc := cfg.Components["smf"]
	cc.Steps = nil
	cfg.Components["smf"] = cc

	_, err := Build(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, component.ErrUnconfigured)

	var re *engine.RuntimeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "smf", re.Component)
}

func TestBuild_AbsorberRange(t *testing.T) {
	cfg := Default()
	cc := cfg.Components["dwnt"]
	cc.AlphaNS = 0.9
	cfg.Components["dwnt"] = cc

	_, err := Build(cfg)
	assert.ErrorIs(t, err, component.ErrNonPhysical)
}

func TestBuild_PeakPowerDBm(t *testing.T) {
	cfg := loadTestdata(t, "cavity.yaml")
	cfg.Pulse.PeakPowerW = 0
	cfg.Pulse.PeakPowerDBm = ptr(30.0)

	cav, err := Build(cfg)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cav.Pulse.Right.PeakPower(), 1e-9)
}

func TestBuild_DispersionParameter(t *testing.T) {
	cfg := loadTestdata(t, "cavity.yaml")
	cc := cfg.Components["smf"]
	cc.Beta2 = nil
	cc.DispersionPSPerNMKM = ptr(17.0)
	cfg.Components["smf"] = cc

	cav, err := Build(cfg)
	require.NoError(t, err)
	assert.Contains(t, cav.Engine.Modules()[1], "β2=-")
}

func TestBuild_SharedTap(t *testing.T) {
	cfg := loadTestdata(t, "cavity.yaml")
	cfg.Components["oc2"] = cfg.Components["oc"]
	cfg.Layout = append(cfg.Layout, "oc2")

	cav, err := Build(cfg)
	require.NoError(t, err)
	require.Len(t, cav.Recorders, 1)

	require.NoError(t, cav.Engine.Execute(cav.Pulse))
	assert.Equal(t, 2, cav.Recorders[0].Len())
}

func TestBuild_Runs(t *testing.T) {
	cav, err := Build(loadTestdata(t, "cavity.yaml"), engine.WithProgressEvery(0))
	require.NoError(t, err)

	require.NoError(t, cav.Engine.Run(context.Background(), cav.Pulse, 3))
	assert.Equal(t, int64(3), cav.Engine.RoundTrips())

	entries := cav.Recorder(DefaultRecorderName).Entries()
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, int64(i), e.RoundTrip)
		assert.True(t, e.Pair())
		assert.Equal(t, 256, e.Right.Len())
	}
	assert.Greater(t, cav.Pulse.PeakPower(), 0.0)
}

func TestHash(t *testing.T) {
	a, err := Default().Hash()
	require.NoError(t, err)
	b, err := Default().Hash()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	changed := Default()
	changed.Grid.Samples = 4096
	c, err := changed.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestHash_NFC(t *testing.T) {
	build := func(name string) *Config {
		cfg := Default()
		cfg.Components[name] = cfg.Components["pbs"]
		delete(cfg.Components, "pbs")
		cfg.Layout[len(cfg.Layout)-1] = name
		return cfg
	}
	composed, err := build("caf\u00e9").Hash()
	require.NoError(t, err)
	decomposed, err := build("cafe\u0301").Hash()
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)
}

func TestMarshalCanonical(t *testing.T) {
	out, err := MarshalCanonical(map[string]any{
		"b": 1.0,
		"a": "x<y",
		"c": []any{0.5, true, nil},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x<y","b":1,"c":[0.5,true,null]}`, string(out))
}
