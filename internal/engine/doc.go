// Package engine implements the cavity round-trip sequencer.
//
// The engine holds the ordered component list of a laser cavity and threads a
// pulse through it once per round trip. It does not interpret the signal; each
// component owns its own physics.
//
// ARCHITECTURE:
//
// Single-Threaded Loop:
// A round trip is one synchronous pass over the component list. Each
// component call completes before the next begins and each round trip
// completes before the next starts. There are no background goroutines and
// no suspension points other than the context check between round trips.
//
// Round-Trip Flow:
//  1. Components are appended with Add during assembly (validated on entry)
//  2. Execute passes the pulse through every component in list order
//  3. The round-trip clock advances by one
//  4. Observers see the pulse after the round trip completes
//
// Assembly is append-only and frozen once the first round trip has run.
//
// INVARIANTS:
//
// Fixed Order:
// The component list never changes order after assembly. Traversal order is
// identical on every round trip.
//
// Counting:
// After k successful calls to Execute the clock reads exactly k. A failed
// round trip does not advance the clock.
package engine
