package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cavity/internal/config"
)

// ValidationResult is the payload reported by the validate command.
type ValidationResult struct {
	Valid         bool     `json:"valid"`
	ConfigHash    string   `json:"config_hash"`
	Layout        []string `json:"layout"`
	Modules       []string `json:"modules"`
	Recorders     []string `json:"recorders,omitempty"`
	LengthKM      float64  `json:"length_km"`
	RoundTripTime float64  `json:"round_trip_time_ps"`
}

// LoadErrorDetails locates a parameter file error.
type LoadErrorDetails struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
	Cause  string `json:"cause,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Check a parameter file without running it",
		Long: `Load a parameter file, check it against the schema and the physical
constraints, assemble the cavity and print its content hash and layout.

Schema and decode errors exit with code 2; physically invalid parameters
exit with code 1.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := config.Load(path)
	if err != nil {
		var loadErr *config.LoadError
		if errors.As(err, &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, loadDetails(loadErr))
			return WrapExitError(ExitCommandError, "failed to load parameters", err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to load parameters", err)
	}
	formatter.VerboseLog("Loaded %d component(s) from %s", len(cfg.Components), path)

	cav, err := config.Build(cfg)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeConfig, "invalid parameters", err)
	}
	hash, err := cfg.Hash()
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeConfig, "failed to hash parameters", err)
	}

	result := ValidationResult{
		Valid:         true,
		ConfigHash:    hash,
		Layout:        cfg.Layout,
		Modules:       cav.Engine.Modules(),
		LengthKM:      cav.LengthKM,
		RoundTripTime: cav.RoundTripTime,
	}
	for _, r := range cav.Recorders {
		result.Recorders = append(result.Recorders, r.Name())
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintln(w, "✓ Parameters valid")
	fmt.Fprintf(w, "hash:       %s\n", result.ConfigHash)
	fmt.Fprintf(w, "length:     %g km\n", result.LengthKM)
	fmt.Fprintf(w, "round trip: %g ps\n", result.RoundTripTime)
	if len(result.Recorders) > 0 {
		fmt.Fprintf(w, "recorders:  %v\n", result.Recorders)
	}
	fmt.Fprintln(w)
	for _, m := range result.Modules {
		fmt.Fprintf(w, "  %s\n", m)
	}
	return nil
}

func loadDetails(e *config.LoadError) *LoadErrorDetails {
	d := &LoadErrorDetails{}
	if e.Err != nil {
		d.Cause = e.Err.Error()
	}
	if e.Pos.IsValid() {
		d.File = e.Pos.Filename()
		d.Line = e.Pos.Line()
		d.Column = e.Pos.Column()
	}
	return d
}
