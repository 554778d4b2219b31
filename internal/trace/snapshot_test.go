package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betti-rdl/bettirdl/internal/kernel"
)

// record runs the given script against a fresh kernel with a recorder
// attached and returns the resulting snapshot.
func record(t *testing.T, name string, script func(*kernel.Kernel)) *Snapshot {
	t.Helper()

	rec := NewRecorder()
	k := kernel.New(kernel.WithDimensions(6, 4, 4), kernel.WithObserver(rec))
	script(k)
	return rec.Snapshot(name, k)
}

func TestRecorder_CapturesEventsInOrder(t *testing.T) {
	snap := record(t, "capture", func(k *kernel.Kernel) {
		require.NoError(t, k.InjectEvent(4, 0, 0, 7))
		k.Run(100)
	})

	// x=4 propagates once to x=5 (width 6), then terminates.
	require.Len(t, snap.Events, 2)
	assert.Equal(t, 4, snap.Events[0].Coord.X)
	assert.True(t, snap.Events[0].Propagated)
	assert.Equal(t, 5, snap.Events[1].Coord.X)
	assert.False(t, snap.Events[1].Propagated)
	assert.Equal(t, uint64(2), snap.Final.EventsProcessed)
}

func TestSnapshot_HashStableAcrossRuns(t *testing.T) {
	script := func(k *kernel.Kernel) {
		require.NoError(t, k.SpawnProcess(0, 0, 0))
		require.NoError(t, k.InjectEvent(2, 1, 3, 5))
		require.NoError(t, k.InjectEvent(5, 0, 0, -1))
		k.Run(3)
		k.Run(100)
	}

	h1, err := record(t, "stable", script).Hash()
	require.NoError(t, err)
	h2, err := record(t, "stable", script).Hash()
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "identical executions must hash identically")
	assert.Len(t, h1, 64)
}

func TestSnapshot_HashSensitiveToPayload(t *testing.T) {
	h1, err := record(t, "s", func(k *kernel.Kernel) {
		require.NoError(t, k.InjectEvent(5, 0, 0, 1))
		k.Run(10)
	}).Hash()
	require.NoError(t, err)

	h2, err := record(t, "s", func(k *kernel.Kernel) {
		require.NoError(t, k.InjectEvent(5, 0, 0, 2))
		k.Run(10)
	}).Hash()
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestSnapshot_HashSensitiveToOrder(t *testing.T) {
	h1, err := record(t, "s", func(k *kernel.Kernel) {
		require.NoError(t, k.InjectEvent(5, 0, 0, 1))
		require.NoError(t, k.InjectEvent(5, 1, 0, 2))
		k.Run(10)
	}).Hash()
	require.NoError(t, err)

	h2, err := record(t, "s", func(k *kernel.Kernel) {
		require.NoError(t, k.InjectEvent(5, 1, 0, 2))
		require.NoError(t, k.InjectEvent(5, 0, 0, 1))
		k.Run(10)
	}).Hash()
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "injection order is part of trace identity")
}

func TestSnapshot_CanonicalIsValidJSONShape(t *testing.T) {
	snap := record(t, "shape", func(k *kernel.Kernel) {
		require.NoError(t, k.InjectEvent(5, 0, 0, 1))
		k.Run(10)
	})

	b, err := snap.Canonical()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"name":"shape"`)
	assert.Contains(t, string(b), `"events_processed":1`)
}
