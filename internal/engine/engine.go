package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/cavity/internal/component"
	"github.com/roach88/cavity/internal/field"
)

// DefaultProgressEvery is how many round trips pass between info-level
// progress lines in Run.
const DefaultProgressEvery = 100

// Observer is called after every completed round trip in Run with the
// number of completed round trips and the pulse as it left the cavity.
// Observers must not retain p.
type Observer func(rt int64, p *field.Polarizations)

// Engine is the cavity sequencer.
//
// INVARIANTS:
//   - components order NEVER changes after Add
//   - no component is added once a round trip has completed
//   - the clock advances only when every component succeeded
type Engine struct {
	components    []component.Component
	clock         *Clock
	observers     []Observer
	progressEvery int64
	logger        *slog.Logger
	started       bool // a round trip has completed in this engine
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithClock replaces the round-trip clock, e.g. to continue counting from a
// restored run.
func WithClock(c *Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithObserver registers a hook called after each round trip in Run.
// Observers run in registration order.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

// WithProgressEvery sets how often Run logs progress at info level.
// Values below 1 disable progress lines.
func WithProgressEvery(n int64) EngineOption {
	return func(e *Engine) {
		e.progressEvery = n
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an empty engine.
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		clock:         NewClock(0),
		progressEvery: DefaultProgressEvery,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Add appends c to the end of the component list.
//
// Components implementing component.Validator are validated here so that
// configuration errors surface before the first round trip. Add fails once
// a round trip has completed.
func (e *Engine) Add(c component.Component) error {
	if c == nil {
		return &RuntimeError{Code: ErrCodeInvalidComponent, Message: "nil component"}
	}
	// A clock restored with WithClock may start above zero; only round
	// trips run by this engine freeze the assembly.
	if e.started {
		return &RuntimeError{
			Code:      ErrCodeAssemblyFrozen,
			Message:   "cannot add components after the first round trip",
			Component: c.Name(),
			Kind:      c.Kind(),
			RoundTrip: e.clock.Completed(),
		}
	}
	if v, ok := c.(component.Validator); ok {
		if err := v.Validate(); err != nil {
			return &RuntimeError{
				Code:      ErrCodeInvalidComponent,
				Message:   "validation failed",
				Component: c.Name(),
				Kind:      c.Kind(),
				Err:       err,
			}
		}
	}
	e.components = append(e.components, c)
	e.logger.Debug("component added", "kind", c.Kind(), "name", c.Name(), "position", len(e.components)-1)
	return nil
}

// Components returns a copy of the component list in traversal order.
func (e *Engine) Components() []component.Component {
	out := make([]component.Component, len(e.components))
	copy(out, e.components)
	return out
}

// Modules describes each component, one line per component, in traversal
// order. Components implementing fmt.Stringer describe themselves.
func (e *Engine) Modules() []string {
	out := make([]string, len(e.components))
	for i, c := range e.components {
		if s, ok := c.(fmt.Stringer); ok {
			out[i] = s.String()
			continue
		}
		out[i] = fmt.Sprintf("%s %q", c.Kind(), c.Name())
	}
	return out
}

// RoundTrips returns the number of completed round trips.
func (e *Engine) RoundTrips() int64 {
	return e.clock.Completed()
}

// Execute threads p through every component once, in order, then advances
// the round-trip counter. On failure the pulse is left as the failing
// component left it and the counter is unchanged.
func (e *Engine) Execute(p *field.Polarizations) error {
	rt := e.clock.Completed()
	for _, c := range e.components {
		if err := c.Apply(rt, p); err != nil {
			return componentFailed(c, rt, err)
		}
	}
	e.started = true
	done := e.clock.Complete()
	e.logger.Debug("round trip complete", "round_trip", done, "peak_power", p.PeakPower())
	return nil
}

// ExecuteField is Execute for a single field.
func (e *Engine) ExecuteField(f *field.Field) error {
	rt := e.clock.Completed()
	for _, c := range e.components {
		if err := c.ApplyField(rt, f); err != nil {
			return componentFailed(c, rt, err)
		}
	}
	e.started = true
	done := e.clock.Complete()
	e.logger.Debug("round trip complete", "round_trip", done, "peak_power", f.PeakPower())
	return nil
}

// Run executes round trips until n have completed in total, checking ctx
// between round trips. If n round trips have already completed Run returns
// immediately.
func (e *Engine) Run(ctx context.Context, p *field.Polarizations, n int64) error {
	start := e.clock.Completed()
	e.logger.Info("cavity starting", "components", len(e.components), "from", start, "to", n)

	for e.clock.Completed() < n {
		if err := ctx.Err(); err != nil {
			e.logger.Info("cavity stopped", "round_trips", e.clock.Completed(), "reason", err)
			return err
		}
		if err := e.Execute(p); err != nil {
			return err
		}
		rt := e.clock.Completed()
		for _, o := range e.observers {
			o(rt, p)
		}
		if e.progressEvery > 0 && rt%e.progressEvery == 0 {
			e.logger.Info("progress", "round_trips", rt, "of", n,
				"peak_power", p.PeakPower(), "average_power", p.AveragePower())
		}
	}

	e.logger.Info("cavity finished", "round_trips", e.clock.Completed())
	return nil
}
