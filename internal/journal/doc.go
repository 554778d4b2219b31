// Package journal provides a SQLite-backed record of kernel runs.
//
// The kernel itself persists nothing; the journal attaches from outside as
// a kernel.Observer and records two parallel streams per run:
//
//   - ops: the caller-issued commands (spawn, inject, run) in issue order -
//     enough to re-execute the run from scratch
//   - events: every processed event in processing order - the run's
//     observable trace
//
// A journaled run can be replayed onto a fresh kernel and the replayed
// trace hash compared against the recorded one; any divergence means
// non-deterministic execution and is reported as such.
//
// Uses SQLite with WAL mode for concurrent read access while a run is
// being written.
package journal
