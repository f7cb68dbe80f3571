// Package component implements the physical elements of the laser cavity.
//
// Every element satisfies Component and can act on either a single Field or a
// circular Polarizations pair. Elements that have no meaning for one of the
// two shapes document that shape as a no-op.
//
// Fiber and ActiveFiber integrate the nonlinear Schrödinger equation with the
// split-step Fourier method. Each of the N sub-steps of size h = L/N performs:
//
//  1. transform to the frequency domain
//  2. multiply by exp[(−α/2 + g·G(ω)/2 + iβ2/2·ω² + iβ3/6·ω³)·h]
//  3. transform back to the time domain
//  4. apply the Kerr phase exp(iγ|E|²h)
//  5. (ActiveFiber) update the saturated gain g from the pulse energy
//
// Passive fibers have g = 0. WavePlates, Absorber, Isolator and Coupler are
// single-step transfer maps.
//
// Components are configured once through constructors and setters and then
// invoked sequentially by the engine. Only ActiveFiber keeps state between
// round trips: its saturated gain.
package component
