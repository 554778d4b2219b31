package scenario

import (
	"fmt"

	"github.com/betti-rdl/bettirdl/internal/kernel"
	"github.com/betti-rdl/bettirdl/internal/trace"
)

// Result is the outcome of running a scenario.
type Result struct {
	Scenario *Scenario

	// Snapshot is the full execution trace plus final counters.
	Snapshot *trace.Snapshot

	// Failures lists every expectation that did not hold. Empty means the
	// scenario passed.
	Failures []*AssertionError
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Run executes a scenario against a fresh kernel.
//
// A returned error means the scenario could not be executed (bad
// coordinates, invalid steps); expectation mismatches are not errors and
// land in Result.Failures instead, so a caller can report all of them.
//
// Observers are attached in addition to the runner's own trace recorder,
// letting the CLI journal a scenario run without the runner knowing about
// persistence.
func Run(s *Scenario, observers ...kernel.Observer) (*Result, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	rec := trace.NewRecorder()
	opts := []kernel.Option{kernel.WithObserver(kernel.Observers(append([]kernel.Observer{rec}, observers...)...))}
	if s.Grid != nil {
		opts = append(opts, kernel.WithDimensions(s.Grid.Width, s.Grid.Height, s.Grid.Depth))
	}
	k := kernel.New(opts...)

	result := &Result{Scenario: s}

	for i, step := range s.Steps {
		switch {
		case step.Spawn != nil:
			sp := step.Spawn
			if err := k.SpawnProcess(sp.X, sp.Y, sp.Z); err != nil {
				return nil, fmt.Errorf("step %d: spawn: %w", i, err)
			}
		case step.Inject != nil:
			in := step.Inject
			if err := k.InjectEvent(in.X, in.Y, in.Z, in.Value); err != nil {
				return nil, fmt.Errorf("step %d: inject: %w", i, err)
			}
		case step.Run != nil:
			processed := k.Run(step.Run.Budget)
			if want := step.Run.ExpectProcessed; want != nil && processed != *want {
				result.Failures = append(result.Failures, &AssertionError{
					Check:    fmt.Sprintf("step %d: run(%d)", i, step.Run.Budget),
					Expected: fmt.Sprintf("%d events processed", *want),
					Actual:   fmt.Sprintf("%d events processed", processed),
				})
			}
		}
	}

	result.Snapshot = rec.Snapshot(s.Name, k)

	if s.Expect != nil {
		result.Failures = append(result.Failures, checkExpectations(k, s.Expect)...)
	}

	return result, nil
}
