package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGolden_Wavefront(t *testing.T) {
	require.NoError(t, RunWithGolden(t, loadScenario(t, "wavefront")))
}

func TestGolden_BudgetSlice(t *testing.T) {
	require.NoError(t, RunWithGolden(t, loadScenario(t, "budget-slice")))
}

func TestGolden_ReplayStability(t *testing.T) {
	// Running the same scenario repeatedly must keep matching the same
	// golden file; this is the determinism property end to end.
	for i := 0; i < 3; i++ {
		require.NoError(t, RunWithGolden(t, loadScenario(t, "wavefront")))
	}
}
