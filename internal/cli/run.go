package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/cavity/internal/config"
	"github.com/roach88/cavity/internal/engine"
	"github.com/roach88/cavity/internal/field"
	"github.com/roach88/cavity/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ConfigPath  string
	TimeLog     string
	FreqLog     string
	Database    string
	FFT         string
	RecordEvery int64

	// NewRunID names the stored run; store.NewRunID when nil.
	NewRunID func() string
}

// RunResult is the payload reported by the run command.
type RunResult struct {
	RunID        string      `json:"run_id,omitempty"`
	ConfigHash   string      `json:"config_hash"`
	Modules      []string    `json:"modules"`
	RoundTrips   int64       `json:"round_trips"`
	PeakPower    float64     `json:"peak_power_w"`
	AveragePower float64     `json:"average_power_w"`
	Files        []TableFile `json:"files"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <round-trips>",
		Short: "Propagate the seed pulse through the cavity",
		Long: `Propagate the seed pulse through the cavity for the given number of
round trips and write the coupler tap records as time and frequency tables.

Without --config the built-in thulium cavity is simulated. With --db the
run and every recorded snapshot are stored in a SQLite database.

Example:
  cavity run 500
  cavity run --config cavity.cue --db runs.db --fft godsp 2000`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCavity(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "parameter file (.yaml, .yml or .cue); built-in cavity if empty")
	cmd.Flags().StringVar(&opts.TimeLog, "time-log", DefaultTimeLog, "time-domain table path")
	cmd.Flags().StringVar(&opts.FreqLog, "freq-log", DefaultFreqLog, "frequency-domain table path")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database to persist the run in")
	cmd.Flags().StringVar(&opts.FFT, "fft", field.BackendGonum, fmt.Sprintf("FFT backend %v", field.BackendNames()))
	cmd.Flags().Int64Var(&opts.RecordEvery, "record-every", 0, "record every n-th round trip (overrides the parameter file)")

	return cmd
}

func runCavity(opts *RunOptions, arg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := setupLogging(opts.RootOptions)

	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || n < 1 {
		return formatter.Fail(ExitCommandError, ErrCodeUsage,
			fmt.Sprintf("round trips must be a positive integer, got %q", arg), nil)
	}

	backend, err := field.BackendByName(opts.FFT)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, "unknown FFT backend", err)
	}
	prev := field.UseBackend(backend)
	defer field.UseBackend(prev)

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to load parameters", err)
	}
	if opts.RecordEvery > 0 {
		cfg.Recorder.Every = opts.RecordEvery
	}
	hash, err := cfg.Hash()
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeConfig, "failed to hash parameters", err)
	}

	cav, err := config.Build(cfg, engine.WithLogger(logger))
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeConfig, "failed to assemble cavity", err)
	}

	result := RunResult{ConfigHash: hash, Modules: cav.Engine.Modules()}
	if !formatter.JSON() {
		for _, m := range result.Modules {
			fmt.Fprintln(formatter.Writer, m)
		}
	}
	if len(cav.Recorders) == 0 {
		logger.Warn("no coupler taps configured, nothing will be recorded")
	}

	var st *store.Store
	if opts.Database != "" {
		logger.Info("opening database", "path", opts.Database)
		st, err = store.Open(opts.Database)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()

		result.RunID, err = createRun(parentContext(cmd), st, opts.runID(), cfg, hash, cav)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to create run", err)
		}
		logger.Info("run created", "run_id", result.RunID)
	}

	ctx, stop := signal.NotifyContext(parentContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := cav.Engine.Run(ctx, cav.Pulse, n)
	result.RoundTrips = cav.Engine.RoundTrips()
	result.PeakPower = cav.Pulse.PeakPower()
	result.AveragePower = cav.Pulse.AveragePower()
	if runErr != nil {
		logger.Error("propagation stopped", "round_trips", result.RoundTrips, "error", runErr)
	} else if !formatter.JSON() {
		fmt.Fprintln(formatter.Writer, "Propagation finished")
	}

	// Tables cover the round trips that completed, even after a failure.
	if !formatter.JSON() {
		fmt.Fprintln(formatter.Writer, "Generating logs..")
	}
	result.Files, err = writeTables(logger, cav.Recorders, opts.TimeLog, opts.FreqLog)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeOutput, "failed to write tables", err)
	}

	if st != nil {
		if err := persistRun(context.WithoutCancel(ctx), logger, st, result.RunID, cav, runErr); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to persist run", err)
		}
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return formatter.Fail(ExitFailure, ErrCodeSimulation, "propagation interrupted", runErr)
		}
		return formatter.Fail(ExitFailure, ErrCodeSimulation, "propagation failed", runErr)
	}

	if formatter.JSON() {
		return formatter.encode(CLIResponse{Status: "ok", Data: result, RunID: result.RunID})
	}
	for _, f := range result.Files {
		fmt.Fprintf(formatter.Writer, "File successfully saved: %s (%s)\n", f.Path, humanize.Bytes(uint64(f.Bytes)))
	}
	if result.RunID != "" {
		fmt.Fprintf(formatter.Writer, "Run stored: %s\n", result.RunID)
	}
	return nil
}

func (o *RunOptions) runID() string {
	if o.NewRunID != nil {
		return o.NewRunID()
	}
	return store.NewRunID()
}

// loadConfig reads a parameter file, or returns the built-in cavity for an
// empty path.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func parentContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func createRun(ctx context.Context, st *store.Store, id string, cfg *config.Config, hash string, cav *config.Cavity) (string, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	run := store.Run{
		ID:           id,
		ConfigHash:   hash,
		ConfigJSON:   string(raw),
		Samples:      cfg.Grid.Samples,
		SamplingRate: cav.Pulse.Right.SamplingRate(),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := st.CreateRun(ctx, run); err != nil {
		return "", err
	}
	return run.ID, nil
}

func persistRun(ctx context.Context, logger *slog.Logger, st *store.Store, runID string, cav *config.Cavity, runErr error) error {
	for _, r := range cav.Recorders {
		written, err := st.WriteSnapshots(ctx, runID, r.Name(), r.Entries())
		if err != nil {
			return err
		}
		logger.Info("snapshots stored",
			"run_id", runID,
			"recorder", r.Name(),
			"entries", r.Len(),
			"size", humanize.Bytes(uint64(written)))
	}
	return st.FinishRun(ctx, runID, cav.Engine.RoundTrips(), runErr)
}
