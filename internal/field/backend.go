package field

import (
	"fmt"
	"sort"
	"sync"

	dspfft "github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Plan computes unnormalized discrete Fourier transforms of a fixed length.
// dst and src may be the same slice.
type Plan interface {
	Len() int
	Forward(dst, src []complex128)
	Inverse(dst, src []complex128)
}

// Backend produces transform plans. Implementations cache plans per length,
// so Plan is cheap after the first call for a given n.
type Backend interface {
	Name() string
	Plan(n int) Plan
}

// Backend names accepted by BackendByName.
const (
	BackendGonum = "gonum"
	BackendGoDSP = "godsp"
)

var (
	backendMu sync.RWMutex
	current   Backend = NewGonum()
)

// UseBackend replaces the backend used by every Field transform and returns
// the previous one so tests can restore it.
func UseBackend(b Backend) Backend {
	if b == nil {
		panic("field: UseBackend(nil)")
	}
	backendMu.Lock()
	defer backendMu.Unlock()
	prev := current
	current = b
	return prev
}

// CurrentBackend returns the backend in use.
func CurrentBackend() Backend {
	backendMu.RLock()
	defer backendMu.RUnlock()
	return current
}

// BackendByName builds a fresh backend for a registered name.
func BackendByName(name string) (Backend, error) {
	switch name {
	case BackendGonum, "":
		return NewGonum(), nil
	case BackendGoDSP:
		return NewGoDSP(), nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownBackend, name, BackendNames())
	}
}

// BackendNames lists the registered backend names in sorted order.
func BackendNames() []string {
	names := []string{BackendGonum, BackendGoDSP}
	sort.Strings(names)
	return names
}

// planCache memoises plans by length for one backend.
type planCache struct {
	mu    sync.Mutex
	plans map[int]Plan
	build func(n int) Plan
}

func (c *planCache) get(n int) Plan {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.plans[n]; ok {
		return p
	}
	if c.plans == nil {
		c.plans = make(map[int]Plan)
	}
	p := c.build(n)
	c.plans[n] = p
	return p
}

// Gonum is the default backend, built on gonum's complex FFT. It handles any
// length, not only powers of two.
type Gonum struct {
	cache planCache
}

// NewGonum creates a gonum-backed transform backend.
func NewGonum() *Gonum {
	g := &Gonum{}
	g.cache.build = func(n int) Plan {
		return &gonumPlan{fft: fourier.NewCmplxFFT(n)}
	}
	return g
}

// Name implements Backend.
func (g *Gonum) Name() string { return BackendGonum }

// Plan implements Backend.
func (g *Gonum) Plan(n int) Plan { return g.cache.get(n) }

// gonumPlan wraps a CmplxFFT. The CmplxFFT work buffers are not safe for
// concurrent use, hence the mutex.
type gonumPlan struct {
	mu  sync.Mutex
	fft *fourier.CmplxFFT
}

func (p *gonumPlan) Len() int { return p.fft.Len() }

func (p *gonumPlan) Forward(dst, src []complex128) {
	p.mu.Lock()
	p.fft.Coefficients(dst, src)
	p.mu.Unlock()
}

// Inverse relies on gonum's Sequence, which does not apply 1/n.
func (p *gonumPlan) Inverse(dst, src []complex128) {
	p.mu.Lock()
	p.fft.Sequence(dst, src)
	p.mu.Unlock()
}

// GoDSP is a backend built on mjibson/go-dsp. go-dsp allocates a new slice per
// call and scales its inverse by 1/n, which this wrapper undoes.
type GoDSP struct {
	cache planCache
}

// NewGoDSP creates a go-dsp-backed transform backend.
func NewGoDSP() *GoDSP {
	g := &GoDSP{}
	g.cache.build = func(n int) Plan { return godspPlan{n: n} }
	return g
}

// Name implements Backend.
func (g *GoDSP) Name() string { return BackendGoDSP }

// Plan implements Backend.
func (g *GoDSP) Plan(n int) Plan { return g.cache.get(n) }

type godspPlan struct {
	n int
}

func (p godspPlan) Len() int { return p.n }

func (p godspPlan) Forward(dst, src []complex128) {
	copy(dst, dspfft.FFT(src))
}

func (p godspPlan) Inverse(dst, src []complex128) {
	out := dspfft.IFFT(src)
	n := complex(float64(p.n), 0)
	for i, v := range out {
		dst[i] = v * n
	}
}
