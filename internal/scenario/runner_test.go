package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betti-rdl/bettirdl/internal/kernel"
)

func loadScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := Load("testdata/" + name + ".yaml")
	require.NoError(t, err)
	return s
}

func TestRun_Boundary(t *testing.T) {
	result, err := Run(loadScenario(t, "boundary"))
	require.NoError(t, err)

	for _, f := range result.Failures {
		t.Errorf("%v", f)
	}
	assert.True(t, result.Passed())
	assert.Equal(t, uint64(3), result.Snapshot.Final.EventsProcessed)
}

func TestRun_SplitBudget(t *testing.T) {
	result, err := Run(loadScenario(t, "split-budget"))
	require.NoError(t, err)

	for _, f := range result.Failures {
		t.Errorf("%v", f)
	}
	assert.True(t, result.Passed())
	assert.Equal(t, uint64(10), result.Snapshot.Final.EventsProcessed)
}

func TestRun_Wavefront(t *testing.T) {
	result, err := Run(loadScenario(t, "wavefront"))
	require.NoError(t, err)

	assert.True(t, result.Passed())
	require.Len(t, result.Snapshot.Events, 3)
	assert.Equal(t, kernel.Space{Width: 3, Height: 1, Depth: 1}, result.Snapshot.Grid)
}

func TestRun_ReportsAllFailures(t *testing.T) {
	two := uint64(2)
	seven := 7
	result, err := Run(&Scenario{
		Name: "failing",
		Steps: []Step{
			{Inject: &InjectStep{X: 9, Value: 1}},
			{Run: &RunStep{Budget: 10}},
		},
		Expect: &Expect{
			EventsProcessed: &two,   // Actually 1
			ProcessCount:    &seven, // Actually 1
			States: []StateCheck{
				{X: 9, Y: 0, Z: 0, Value: 99}, // Actually 1
			},
		},
	})
	require.NoError(t, err, "expectation mismatches are failures, not errors")

	assert.False(t, result.Passed())
	assert.Len(t, result.Failures, 3, "all mismatches reported, not just the first")
}

func TestRun_StepExpectProcessed(t *testing.T) {
	one := 1
	result, err := Run(&Scenario{
		Name: "per-step",
		Steps: []Step{
			{Run: &RunStep{Budget: 5, ExpectProcessed: &one}}, // Queue empty: 0 processed
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0].Error(), "run(5)")
}

func TestRun_OutOfBoundsStepIsError(t *testing.T) {
	_, err := Run(&Scenario{
		Name: "oob",
		Grid: &GridSpec{Width: 2, Height: 2, Depth: 2},
		Steps: []Step{
			{Spawn: &SpawnStep{X: 5}},
		},
	})
	require.Error(t, err)
	assert.True(t, kernel.IsOutOfBounds(err))
}

func TestRun_ExtraObserversSeeEvents(t *testing.T) {
	var seen int
	obs := kernel.ObserverFunc(func(kernel.ProcessedEvent) { seen++ })

	result, err := Run(loadScenario(t, "wavefront"), obs)
	require.NoError(t, err)

	assert.Equal(t, len(result.Snapshot.Events), seen,
		"extra observers receive the same events as the trace recorder")
}
