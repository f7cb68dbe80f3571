// Package store provides SQLite-backed storage for simulation runs.
//
// The store keeps a record of:
//   - Runs: one row per simulation, with its parameter set and outcome
//   - Snapshots: every pulse captured by a recorder, tagged with its round trip
//
// Snapshots hold raw complex samples, so the delimited tables of a finished
// run can be regenerated at any time without re-running the cavity.
//
// # Ordering
//
//   - Runs are keyed by UUIDv7, so ORDER BY id is creation order
//   - Snapshots are ordered by their capture sequence within a recorder,
//     never by wall time
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5s for locks
//   - foreign_keys=ON: Snapshots must belong to a run
//
// # Schema Versioning
//
// PRAGMA user_version tracks the schema version. Open applies pending
// migrations.
package store
