package scenario

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares its canonical trace
// against the golden file testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/scenario -update
//
// Golden files are the source of truth for expected trace behavior: any
// change to event ordering, propagation, or counter accounting shows up
// as a golden diff.
//
// Returns an error if the scenario could not be executed or its own
// expectations failed; trace mismatches fail the test via goldie.
func RunWithGolden(t *testing.T, s *Scenario) error {
	t.Helper()

	result, err := Run(s)
	if err != nil {
		return err
	}
	if !result.Passed() {
		return fmt.Errorf("scenario %q failed %d expectation(s), first: %w",
			s.Name, len(result.Failures), result.Failures[0])
	}

	canonical, err := result.Snapshot.Canonical()
	if err != nil {
		return fmt.Errorf("canonical trace for %q: %w", s.Name, err)
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, s.Name, canonical)
	return nil
}
