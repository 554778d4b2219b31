package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betti-rdl/bettirdl/internal/config"
	"github.com/betti-rdl/bettirdl/internal/scenario"
)

func TestWriteFile_RoundTrip(t *testing.T) {
	path := WriteFile(t, "note.txt", "hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestGridCUE_ParsesAsConfig(t *testing.T) {
	grid, err := config.Parse("grid.cue", []byte(GridCUE(6, 4, 4)))
	require.NoError(t, err)
	assert.Equal(t, config.Grid{Width: 6, Height: 4, Depth: 4}, grid)
}

func TestScenarioYAML_ParsesAsScenario(t *testing.T) {
	s, err := scenario.Parse([]byte(ScenarioYAML("smoke", 1, 2, 3, 7, 50)))
	require.NoError(t, err)
	assert.Equal(t, "smoke", s.Name)
	require.Len(t, s.Steps, 2)
	require.NotNil(t, s.Steps[0].Inject)
	assert.Equal(t, int64(7), s.Steps[0].Inject.Value)
	require.NotNil(t, s.Steps[1].Run)
	assert.Equal(t, 50, s.Steps[1].Run.Budget)
}
