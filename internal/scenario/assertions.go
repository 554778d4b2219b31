package scenario

import (
	"fmt"

	"github.com/betti-rdl/bettirdl/internal/kernel"
)

// AssertionError describes one failed expectation with enough context to
// debug it without re-running the scenario.
type AssertionError struct {
	Check    string // What was being checked
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s\n  expected: %s\n  actual:   %s",
		e.Check, e.Expected, e.Actual)
}

// checkExpectations evaluates every final-state expectation and returns
// all failures rather than stopping at the first.
func checkExpectations(k *kernel.Kernel, expect *Expect) []*AssertionError {
	var failures []*AssertionError

	if expect.EventsProcessed != nil && k.EventsProcessed() != *expect.EventsProcessed {
		failures = append(failures, &AssertionError{
			Check:    "events_processed",
			Expected: fmt.Sprintf("%d", *expect.EventsProcessed),
			Actual:   fmt.Sprintf("%d", k.EventsProcessed()),
		})
	}

	if expect.CurrentTime != nil && k.CurrentTime() != *expect.CurrentTime {
		failures = append(failures, &AssertionError{
			Check:    "current_time",
			Expected: fmt.Sprintf("%d", *expect.CurrentTime),
			Actual:   fmt.Sprintf("%d", k.CurrentTime()),
		})
	}

	if expect.ProcessCount != nil && k.ProcessCount() != *expect.ProcessCount {
		failures = append(failures, &AssertionError{
			Check:    "process_count",
			Expected: fmt.Sprintf("%d", *expect.ProcessCount),
			Actual:   fmt.Sprintf("%d", k.ProcessCount()),
		})
	}

	if expect.PendingEvents != nil && k.PendingEvents() != *expect.PendingEvents {
		failures = append(failures, &AssertionError{
			Check:    "pending_events",
			Expected: fmt.Sprintf("%d", *expect.PendingEvents),
			Actual:   fmt.Sprintf("%d", k.PendingEvents()),
		})
	}

	for _, sc := range expect.States {
		state, err := k.ProcessState(sc.X, sc.Y, sc.Z)
		if err != nil {
			failures = append(failures, &AssertionError{
				Check:    fmt.Sprintf("state at (%d,%d,%d)", sc.X, sc.Y, sc.Z),
				Expected: fmt.Sprintf("%d", sc.Value),
				Actual:   err.Error(),
			})
			continue
		}
		if state != sc.Value {
			failures = append(failures, &AssertionError{
				Check:    fmt.Sprintf("state at (%d,%d,%d)", sc.X, sc.Y, sc.Z),
				Expected: fmt.Sprintf("%d", sc.Value),
				Actual:   fmt.Sprintf("%d", state),
			})
		}
	}

	return failures
}
