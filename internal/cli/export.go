package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/cavity/internal/config"
	"github.com/roach88/cavity/internal/field"
	"github.com/roach88/cavity/internal/recorder"
	"github.com/roach88/cavity/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
	TimeLog  string
	FreqLog  string
}

// ExportResult is the payload reported by the export command.
type ExportResult struct {
	RunID string      `json:"run_id"`
	Files []TableFile `json:"files"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Rewrite the tables of a stored run",
		Long: `Rebuild the time and frequency tables of a stored run from its
snapshots. The table delimiter is taken from the run's parameters.

Example:
  cavity export --db runs.db --time-log out/t.csv --freq-log out/f.csv 0192...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportRun(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.TimeLog, "time-log", DefaultTimeLog, "time-domain table path")
	cmd.Flags().StringVar(&opts.FreqLog, "freq-log", DefaultFreqLog, "frequency-domain table path")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func exportRun(opts *ExportOptions, runID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := setupLogging(opts.RootOptions)
	ctx := parentContext(cmd)

	st, err := openExisting(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	run, err := st.GetRun(ctx, runID)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to load run", err)
	}
	delim := recorder.DefaultDelimiter
	var cfg config.Config
	if err := json.Unmarshal([]byte(run.ConfigJSON), &cfg); err == nil && cfg.Recorder.Delimiter != "" {
		delim = cfg.Recorder.Delimiter
	}

	names, err := st.Recorders(ctx, runID)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to list recorders", err)
	}
	recs := make([]*recorder.Recorder, 0, len(names))
	for _, name := range names {
		entries, err := st.ReadSnapshots(ctx, runID, name)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to read snapshots", err)
		}
		r, err := replayEntries(name, delim, entries)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeStore, "corrupt snapshots", err)
		}
		formatter.VerboseLog("Recorder %s: %d snapshot(s)", name, r.Len())
		recs = append(recs, r)
	}

	files, err := writeTables(logger, recs, opts.TimeLog, opts.FreqLog)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeOutput, "failed to write tables", err)
	}

	result := ExportResult{RunID: runID, Files: files}
	if formatter.JSON() {
		return formatter.encode(CLIResponse{Status: "ok", Data: result, RunID: runID})
	}
	if len(files) == 0 {
		fmt.Fprintf(formatter.Writer, "Run %s has no recorded snapshots\n", runID)
		return nil
	}
	for _, f := range files {
		fmt.Fprintf(formatter.Writer, "File successfully saved: %s (%s)\n", f.Path, humanize.Bytes(uint64(f.Bytes)))
	}
	return nil
}

// replayEntries captures stored entries into a fresh recorder so its
// table writer can be reused.
func replayEntries(name, delim string, entries []recorder.Entry) (*recorder.Recorder, error) {
	r := recorder.New(name, recorder.WithDelimiter(delim))
	for _, e := range entries {
		if !e.Pair() {
			if err := r.CaptureField(e.RoundTrip, e.Right); err != nil {
				return nil, err
			}
			continue
		}
		p, err := field.NewPolarizations(e.Right, e.Left)
		if err != nil {
			return nil, err
		}
		if err := r.Capture(e.RoundTrip, p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// openExisting opens a database that must already exist.
func openExisting(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return store.Open(path)
}
