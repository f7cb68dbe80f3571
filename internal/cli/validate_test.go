package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cavity/internal/config"
)

func TestValidateValidFile(t *testing.T) {
	out, err := execute(t, "validate", "testdata/cavity.yaml")
	require.NoError(t, err)

	cfg, err := config.Load("testdata/cavity.yaml")
	require.NoError(t, err)
	hash, err := cfg.Hash()
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Parameters valid")
	assert.Contains(t, out, "hash:       "+hash)
	assert.Contains(t, out, "recorders:  [coupler_logger]")
	assert.Contains(t, out, `isolator "pbs"`)
}

func TestValidateJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "validate", "testdata/two_taps.yaml")
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, []string{"smf", "out1", "smf", "out2"}, resp.Data.Layout)
	assert.Equal(t, []string{"monitor", "output"}, resp.Data.Recorders)
	assert.InDelta(t, 0.0002, resp.Data.LengthKM, 1e-15)
	assert.Greater(t, resp.Data.RoundTripTime, 0.0)
}

func TestValidateUnknownKey(t *testing.T) {
	out, err := execute(t, "--format", "json", "validate", "testdata/bad_key.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.NotEmpty(t, resp.Error.Code)
}

func TestValidateCUESchemaViolation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cavity.cue")
	src := `package cavity

grid: {samples: 32, window_ps: 6.4}
pulse: {shape: "gaussian", peak_power_w: 1, fwhm_ps: 1}
components: smf: {
	kind:      "fiber"
	length_km: -1
}
layout: ["smf"]
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	out, err := execute(t, "--format", "json", "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp struct {
		Status string `json:"status"`
		Error  struct {
			Code    string           `json:"code"`
			Details LoadErrorDetails `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, config.ErrCodeSchema, resp.Error.Code)
	assert.Contains(t, resp.Error.Details.Cause, "length_km")
}

func TestValidateUnconfiguredFiber(t *testing.T) {
	out, err := execute(t, "validate", "testdata/unset_fiber.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E_CONFIG]: invalid parameters")
}

func TestValidateMissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
