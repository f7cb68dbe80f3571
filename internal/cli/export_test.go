package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cavity/internal/store"
)

// runStored runs the test cavity into p.db under a fixed run ID.
func runStored(t *testing.T, p logPaths, id, roundTrips string) string {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRunCommand(&RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		NewRunID:    func() string { return id },
	})
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetContext(context.Background())
	cmd.SetArgs([]string{"--config", "testdata/cavity.yaml", "--db", p.db,
		"--time-log", p.time, "--freq-log", p.freq, roundTrips})

	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestRunPersistsSnapshots(t *testing.T) {
	p := newLogPaths(t)
	out := runStored(t, p, "run-1", "3")
	assert.Contains(t, out, "Run stored: run-1")

	st, err := store.Open(p.db)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	run, err := st.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, store.StatusCompleted, run.Status)
	assert.Equal(t, int64(3), run.RoundTrips)
	assert.Equal(t, 64, run.Samples)
	assert.InDelta(t, 5.0, run.SamplingRate, 1e-12)
	assert.Len(t, run.ConfigHash, 64)
	assert.Contains(t, run.ConfigJSON, `"coupler_logger"`)

	names, err := st.Recorders(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"coupler_logger"}, names)

	count, err := st.SnapshotCount(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestExportMatchesRunTables(t *testing.T) {
	p := newLogPaths(t)
	runStored(t, p, "run-1", "3")

	wantTime, err := os.ReadFile(p.time)
	require.NoError(t, err)
	wantFreq, err := os.ReadFile(p.freq)
	require.NoError(t, err)

	exportTime := filepath.Join(p.dir, "export", "t.csv")
	exportFreq := filepath.Join(p.dir, "export", "f.csv")
	out, err := execute(t, "export", "--db", p.db, "--time-log", exportTime, "--freq-log", exportFreq, "run-1")
	require.NoError(t, err)
	assert.Contains(t, out, "File successfully saved: "+exportTime)

	gotTime, err := os.ReadFile(exportTime)
	require.NoError(t, err)
	gotFreq, err := os.ReadFile(exportFreq)
	require.NoError(t, err)
	assert.Equal(t, string(wantTime), string(gotTime))
	assert.Equal(t, string(wantFreq), string(gotFreq))
}

func TestExportUnknownRun(t *testing.T) {
	p := newLogPaths(t)
	runStored(t, p, "run-1", "1")

	_, err := execute(t, "export", "--db", p.db, "--time-log", filepath.Join(p.dir, "x.csv"), "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}

func TestExportMissingDatabase(t *testing.T) {
	p := newLogPaths(t)

	_, err := execute(t, "export", "--db", p.db, "run-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.NoFileExists(t, p.db)
}

func TestRunsListing(t *testing.T) {
	p := newLogPaths(t)
	runStored(t, p, "run-a", "2")
	runStored(t, p, "run-b", "1")

	out, err := execute(t, "runs", "--db", p.db)
	require.NoError(t, err)
	assert.Contains(t, out, "ROUND TRIPS")
	assert.Contains(t, out, "run-a")
	assert.Contains(t, out, "run-b")
	assert.Contains(t, out, store.StatusCompleted)

	out, err = execute(t, "--format", "json", "runs", "--db", p.db)
	require.NoError(t, err)
	var resp struct {
		Status string       `json:"status"`
		Data   []RunSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "run-a", resp.Data[0].ID)
	assert.Equal(t, int64(2), resp.Data[0].RoundTrips)
	assert.Equal(t, int64(2), resp.Data[0].Snapshots)
	assert.Equal(t, int64(1), resp.Data[1].Snapshots)
	assert.Empty(t, resp.Data[0].ConfigJSON)
}

func TestRunsEmptyDatabase(t *testing.T) {
	p := newLogPaths(t)
	st, err := store.Open(p.db)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, "runs", "--db", p.db)
	require.NoError(t, err)
	assert.Equal(t, "(no runs)\n", out)
}

func TestRunsRequiresDatabase(t *testing.T) {
	_, err := execute(t, "runs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}
