package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/betti-rdl/bettirdl/internal/kernel"
)

// ErrRunNotFound is returned when a run ID does not exist in the journal.
var ErrRunNotFound = errors.New("run not found")

// Run is a journaled run's metadata.
type Run struct {
	ID        string
	Name      string
	Grid      kernel.Space
	TraceHash string // Empty until Finish was called
	CreatedAt time.Time
}

// GetRun returns the metadata for a single run.
func (j *Journal) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, name, width, height, depth, COALESCE(trace_hash, ''), created_at
		FROM runs WHERE id = ?
	`, runID)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// ListRuns returns all runs in creation order.
func (j *Journal) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, name, width, height, depth, COALESCE(trace_hash, ''), created_at
		FROM runs ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// ReadOps returns a run's command stream in issue order.
func (j *Journal) ReadOps(ctx context.Context, runID string) ([]Op, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT pos, kind, x, y, z, value, budget
		FROM ops WHERE run_id = ? ORDER BY pos
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read ops: %w", err)
	}
	defer rows.Close()

	var ops []Op
	for rows.Next() {
		var op Op
		var kind string
		if err := rows.Scan(&op.Pos, &kind, &op.X, &op.Y, &op.Z, &op.Value, &op.Budget); err != nil {
			return nil, fmt.Errorf("read ops: %w", err)
		}
		op.Kind = OpKind(kind)
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// ReadEvents returns a run's processed events in processing order.
func (j *Journal) ReadEvents(ctx context.Context, runID string) ([]kernel.ProcessedEvent, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT time, seq, x, y, z, value, state_after, propagated
		FROM events WHERE run_id = ? ORDER BY time
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	defer rows.Close()

	var events []kernel.ProcessedEvent
	for rows.Next() {
		var e kernel.ProcessedEvent
		var propagated int
		if err := rows.Scan(&e.Time, &e.Seq, &e.Coord.X, &e.Coord.Y, &e.Coord.Z,
			&e.Value, &e.StateAfter, &propagated); err != nil {
			return nil, fmt.Errorf("read events: %w", err)
		}
		e.Propagated = propagated != 0
		events = append(events, e)
	}
	return events, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var created string
	if err := row.Scan(&r.ID, &r.Name, &r.Grid.Width, &r.Grid.Height, &r.Grid.Depth,
		&r.TraceHash, &created); err != nil {
		return nil, err
	}

	// SQLite stores created_at as an ISO-8601 string.
	t, err := time.Parse("2006-01-02T15:04:05.999Z", created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	r.CreatedAt = t
	return &r, nil
}
