// Package testutil holds helpers shared by package tests.
package testutil

import (
	"sync"

	"github.com/roach88/cavity/internal/component"
	"github.com/roach88/cavity/internal/field"
)

// KindProbe is the component kind reported by Probe.
const KindProbe component.Kind = "probe"

// Visit is one call of a Probe.
type Visit struct {
	Name      string
	RoundTrip int64
}

// Trace collects visits from any number of probes in call order.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Trace struct {
	mu     sync.Mutex
	visits []Visit
}

// NewTrace creates an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

func (t *Trace) record(v Visit) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visits = append(t.visits, v)
}

// Visits returns a copy of the recorded visits.
func (t *Trace) Visits() []Visit {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Visit, len(t.visits))
	copy(out, t.visits)
	return out
}

// Names returns the probe names in visit order.
func (t *Trace) Names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.visits))
	for i, v := range t.visits {
		out[i] = v.Name
	}
	return out
}

// Reset clears the trace for test reuse.
func (t *Trace) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visits = nil
}

// Probe is a component that leaves the signal untouched and records each
// call in a Trace. It can be told to fail on a given round trip.
type Probe struct {
	name   string
	trace  *Trace
	failAt int64
	err    error
}

// NewProbe creates a probe recording into trace.
func NewProbe(name string, trace *Trace) *Probe {
	return &Probe{name: name, trace: trace, failAt: -1}
}

// FailAt makes the probe return err on round trip rt (after recording it).
func (p *Probe) FailAt(rt int64, err error) *Probe {
	p.failAt, p.err = rt, err
	return p
}

// Name implements component.Component.
func (p *Probe) Name() string { return p.name }

// Kind implements component.Component.
func (p *Probe) Kind() component.Kind { return KindProbe }

// Apply implements component.Component.
func (p *Probe) Apply(rt int64, _ *field.Polarizations) error {
	return p.visit(rt)
}

// ApplyField implements component.Component.
func (p *Probe) ApplyField(rt int64, _ *field.Field) error {
	return p.visit(rt)
}

func (p *Probe) visit(rt int64) error {
	p.trace.record(Visit{Name: p.name, RoundTrip: rt})
	if rt == p.failAt {
		return p.err
	}
	return nil
}
