package journal

import (
	"context"
	"fmt"

	"github.com/betti-rdl/bettirdl/internal/kernel"
	"github.com/betti-rdl/bettirdl/internal/trace"
)

// ReplayResult is the outcome of re-executing a journaled run.
type ReplayResult struct {
	Run      *Run
	Snapshot *trace.Snapshot // Trace produced by the replay
	Hash     string          // Hash of the replayed trace

	// Deterministic is true when the replayed trace hash matches the
	// journaled one. A mismatch means the kernel diverged between the
	// original run and the replay, which the design rules out; it
	// indicates a bug, not an operational condition.
	Deterministic bool
}

// Replay re-executes a journaled run's command stream on a fresh kernel
// and compares the resulting trace hash against the recorded one.
//
// Replay is a pure re-execution: it writes nothing back to the journal.
func (j *Journal) Replay(ctx context.Context, runID string) (*ReplayResult, error) {
	run, err := j.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.TraceHash == "" {
		return nil, fmt.Errorf("run %s was never finished: no trace hash to compare against", runID)
	}

	ops, err := j.ReadOps(ctx, runID)
	if err != nil {
		return nil, err
	}

	rec := trace.NewRecorder()
	k := kernel.New(
		kernel.WithDimensions(run.Grid.Width, run.Grid.Height, run.Grid.Depth),
		kernel.WithObserver(rec),
	)

	for _, op := range ops {
		switch op.Kind {
		case OpSpawn:
			if err := k.SpawnProcess(op.X, op.Y, op.Z); err != nil {
				return nil, fmt.Errorf("replay op %d: %w", op.Pos, err)
			}
		case OpInject:
			if err := k.InjectEvent(op.X, op.Y, op.Z, op.Value); err != nil {
				return nil, fmt.Errorf("replay op %d: %w", op.Pos, err)
			}
		case OpRun:
			k.Run(op.Budget)
		default:
			return nil, fmt.Errorf("replay op %d: unknown kind %q", op.Pos, op.Kind)
		}
	}

	snap := rec.Snapshot(run.Name, k)
	hash, err := snap.Hash()
	if err != nil {
		return nil, fmt.Errorf("replay run %s: %w", runID, err)
	}

	return &ReplayResult{
		Run:           run,
		Snapshot:      snap,
		Hash:          hash,
		Deterministic: hash == run.TraceHash,
	}, nil
}
