package journal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/betti-rdl/bettirdl/internal/kernel"
)

// OpKind identifies a journaled command.
type OpKind string

const (
	OpSpawn  OpKind = "spawn"
	OpInject OpKind = "inject"
	OpRun    OpKind = "run"
)

// Op is one caller-issued command within a run.
// X/Y/Z apply to spawn and inject, Value to inject, Budget to run.
type Op struct {
	Pos    int
	Kind   OpKind
	X      int
	Y      int
	Z      int
	Value  int64
	Budget int
}

// RunWriter records one run: its command stream and its event trace.
//
// RunWriter implements kernel.Observer so it can be attached via
// kernel.WithObserver. Observer callbacks cannot return errors, so event
// write failures are logged and deferred; Finish surfaces the first one.
type RunWriter struct {
	j     *Journal
	runID string
	pos   int

	writeErr error // First deferred event-write failure
}

// BeginRun creates a run record and returns a writer for it.
// Run IDs are UUIDv7: time-sortable, so listing runs by ID follows
// creation order.
func (j *Journal) BeginRun(ctx context.Context, name string, grid kernel.Space) (*RunWriter, error) {
	id := uuid.Must(uuid.NewV7()).String()

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs (id, name, width, height, depth)
		VALUES (?, ?, ?, ?, ?)
	`, id, name, grid.Width, grid.Height, grid.Depth)
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}

	return &RunWriter{j: j, runID: id}, nil
}

// RunID returns the run's identifier.
func (w *RunWriter) RunID() string {
	return w.runID
}

// RecordSpawn journals a spawn command.
func (w *RunWriter) RecordSpawn(ctx context.Context, x, y, z int) error {
	return w.recordOp(ctx, Op{Kind: OpSpawn, X: x, Y: y, Z: z})
}

// RecordInject journals an inject command.
func (w *RunWriter) RecordInject(ctx context.Context, x, y, z int, value int64) error {
	return w.recordOp(ctx, Op{Kind: OpInject, X: x, Y: y, Z: z, Value: value})
}

// RecordRun journals a run (budgeted drain) command.
func (w *RunWriter) RecordRun(ctx context.Context, budget int) error {
	return w.recordOp(ctx, Op{Kind: OpRun, Budget: budget})
}

func (w *RunWriter) recordOp(ctx context.Context, op Op) error {
	_, err := w.j.db.ExecContext(ctx, `
		INSERT INTO ops (run_id, pos, kind, x, y, z, value, budget)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, w.runID, w.pos, string(op.Kind), op.X, op.Y, op.Z, op.Value, op.Budget)
	if err != nil {
		return fmt.Errorf("record op %d (%s): %w", w.pos, op.Kind, err)
	}
	w.pos++
	return nil
}

// OnEvent implements kernel.Observer. Runs synchronously inside
// Kernel.Run; failures are deferred to Finish to keep the kernel's
// "run cannot fail" contract intact.
func (w *RunWriter) OnEvent(e kernel.ProcessedEvent) {
	_, err := w.j.db.Exec(`
		INSERT INTO events (run_id, time, seq, x, y, z, value, state_after, propagated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, w.runID, e.Time, e.Seq, e.Coord.X, e.Coord.Y, e.Coord.Z, e.Value, e.StateAfter, boolToInt(e.Propagated))
	if err != nil && w.writeErr == nil {
		w.writeErr = fmt.Errorf("record event at time %d: %w", e.Time, err)
		slog.Error("journal event write failed", "run", w.runID, "time", e.Time, "error", err)
	}
}

// Finish stamps the run's trace hash and returns any deferred event-write
// failure.
func (w *RunWriter) Finish(ctx context.Context, traceHash string) error {
	if w.writeErr != nil {
		return w.writeErr
	}

	_, err := w.j.db.ExecContext(ctx, `
		UPDATE runs SET trace_hash = ? WHERE id = ?
	`, traceHash, w.runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
