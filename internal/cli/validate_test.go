package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betti-rdl/bettirdl/internal/testutil"
)

func TestValidateCommand_ValidScenario(t *testing.T) {
	path := testutil.WriteFile(t, "ok.yaml", testutil.ScenarioYAML("ok", 0, 0, 0, 1, 10))

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OK    "+path)
}

func TestValidateCommand_InvalidScenario(t *testing.T) {
	path := testutil.WriteFile(t, "bad.yaml", "name: bad\nsteps: []\n")

	out, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL  "+path)
}

func TestValidateCommand_MixedFiles(t *testing.T) {
	good := testutil.WriteFile(t, "ok.yaml", testutil.ScenarioYAML("ok", 0, 0, 0, 1, 10))
	bad := testutil.WriteFile(t, "bad.yaml", "nonsense: [\n")

	out, err := execute(t, "--format", "json", "validate", good, bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result struct {
		Checked []struct {
			Path  string `json:"path"`
			Valid bool   `json:"valid"`
			Error string `json:"error"`
		} `json:"checked"`
		Valid bool `json:"valid"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Checked, 2)
	assert.True(t, result.Checked[0].Valid)
	assert.False(t, result.Checked[1].Valid)
	assert.NotEmpty(t, result.Checked[1].Error)
	assert.False(t, result.Valid)
}

func TestValidateCommand_WithConfig(t *testing.T) {
	scenarioPath := testutil.WriteFile(t, "ok.yaml", testutil.ScenarioYAML("ok", 0, 0, 0, 1, 10))
	configPath := testutil.WriteFile(t, "grid.cue", testutil.GridCUE(16, 16, 16))

	out, err := execute(t, "validate", scenarioPath, "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "OK    "+configPath)
}

func TestValidateCommand_InvalidConfig(t *testing.T) {
	scenarioPath := testutil.WriteFile(t, "ok.yaml", testutil.ScenarioYAML("ok", 0, 0, 0, 1, 10))
	configPath := testutil.WriteFile(t, "grid.cue", testutil.GridCUE(0, 16, 16))

	out, err := execute(t, "validate", scenarioPath, "--config", configPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL  "+configPath)
}

func TestValidateCommand_MissingFile(t *testing.T) {
	out, err := execute(t, "validate", "/nonexistent/file.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL")
}
