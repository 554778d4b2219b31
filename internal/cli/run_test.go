package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betti-rdl/bettirdl/internal/journal"
	"github.com/betti-rdl/bettirdl/internal/testutil"
)

func TestRunCommand_BasicScenario(t *testing.T) {
	path := testutil.WriteFile(t, "demo.yaml", testutil.ScenarioYAML("demo", 9, 0, 0, 1, 10))

	out, err := execute(t, "run", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Scenario:         demo")
	assert.Contains(t, out, "Events processed: 1")
	assert.Contains(t, out, "Result:           PASS")
}

func TestRunCommand_JSONOutput(t *testing.T) {
	path := testutil.WriteFile(t, "demo.yaml", testutil.ScenarioYAML("demo", 9, 0, 0, 1, 10))

	out, err := execute(t, "--format", "json", "run", path)
	require.NoError(t, err)

	var result struct {
		Scenario        string `json:"scenario"`
		EventsProcessed uint64 `json:"events_processed"`
		TraceHash       string `json:"trace_hash"`
		Passed          bool   `json:"passed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "demo", result.Scenario)
	assert.Equal(t, uint64(1), result.EventsProcessed)
	assert.Len(t, result.TraceHash, 64)
	assert.True(t, result.Passed)
}

func TestRunCommand_FailingExpectationExitsNonZero(t *testing.T) {
	path := testutil.WriteFile(t, "fail.yaml", `name: fail
description: expectation cannot hold
steps:
  - inject: {x: 9, y: 0, z: 0, value: 1}
  - run: {budget: 10}
expect:
  events_processed: 99
`)

	out, err := execute(t, "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Result:           FAIL")
}

func TestRunCommand_MissingScenarioFile(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommand_JournalRecordsRun(t *testing.T) {
	scenarioPath := testutil.WriteFile(t, "demo.yaml", testutil.ScenarioYAML("journaled", 5, 0, 0, 3, 100))
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, "run", scenarioPath, "--journal", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Run ID:")

	jnl, err := journal.Open(dbPath)
	require.NoError(t, err)
	defer jnl.Close()

	ctx := context.Background()
	runs, err := jnl.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "journaled", runs[0].Name)
	assert.NotEmpty(t, runs[0].TraceHash)

	ops, err := jnl.ReadOps(ctx, runs[0].ID)
	require.NoError(t, err)
	assert.Len(t, ops, 2, "inject + run")

	// Injection at x=5 on the default width-10 grid cascades to x=9.
	events, err := jnl.ReadEvents(ctx, runs[0].ID)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestRunCommand_ConfigOverridesDefaultGrid(t *testing.T) {
	scenarioPath := testutil.WriteFile(t, "demo.yaml", testutil.ScenarioYAML("configured", 0, 0, 0, 1, 100))
	configPath := testutil.WriteFile(t, "grid.cue", testutil.GridCUE(3, 1, 1))

	out, err := execute(t, "run", scenarioPath, "--config", configPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Grid:             3x1x1")
	assert.Contains(t, out, "Events processed: 3", "wavefront spans the 3-wide grid")
}

func TestRunCommand_BadConfig(t *testing.T) {
	scenarioPath := testutil.WriteFile(t, "demo.yaml", testutil.ScenarioYAML("d", 0, 0, 0, 1, 1))
	configPath := testutil.WriteFile(t, "grid.cue", testutil.GridCUE(0, 1, 1))

	_, err := execute(t, "run", scenarioPath, "--config", configPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
