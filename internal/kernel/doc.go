// Package kernel implements the Betti-RDL discrete event kernel.
//
// The kernel executes events over a fixed-size 3D process lattice with two
// hard guarantees:
//
// Bounded memory:
// The process table is a dense array sized width*height*depth at
// construction and never reallocates. Memory footprint is a function of the
// grid dimensions, not of how many events have been processed.
//
// Deterministic, resumable execution:
// All execution happens synchronously in the calling goroutine. Events are
// consumed in strict FIFO order - propagation-created events append to the
// tail and never jump ahead of pending work. Run takes an event budget and
// returns after processing at most that many events; because all state
// (queue contents, logical clock, counters, process states) persists across
// calls, repeated Run invocations are equivalent to one long run with the
// same total budget, split at arbitrary points.
//
// Event Processing Flow:
// 1. Callers spawn processes and inject events (validated against the grid)
// 2. Run() dequeues events one at a time in FIFO order
// 3. The target process absorbs the payload into its counter
// 4. If x+1 is still inside the grid, a successor event is enqueued at
//    (x+1, y, z) carrying the same payload
// 5. The logical clock and the lifetime processed-event counter advance by 1
//
// The kernel holds no resources requiring release and performs no I/O.
// Observers (see Observer) are how journaling and tracing attach; the
// kernel itself persists nothing.
//
// Thread-safety: none. The kernel assumes exclusive, sequential access.
// Embeddings that share a kernel across goroutines must provide their own
// mutual exclusion.
package kernel
