package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	b, err := MarshalCanonical(map[string]any{
		"z": 1,
		"a": 2,
		"m": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"m":3,"z":1}`, string(b))
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	b, err := MarshalCanonical("a<b>&c")
	require.NoError(t, err)
	assert.Equal(t, `"a<b>&c"`, string(b))
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	// "é" as combining sequence (e + U+0301) must normalize to precomposed.
	decomposed := "é"
	precomposed := "é"

	a, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	b, err := MarshalCanonical(precomposed)
	require.NoError(t, err)

	assert.Equal(t, string(b), string(a), "NFC-equal strings must serialize identically")
}

func TestMarshalCanonical_RejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(1.5)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"v": 2.0})
	assert.Error(t, err)
}

func TestMarshalCanonical_RejectsNull(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)
}

func TestMarshalCanonical_NestedStructures(t *testing.T) {
	b, err := MarshalCanonical(map[string]any{
		"events": []any{
			map[string]any{"seq": uint64(1), "propagated": true},
			map[string]any{"seq": uint64(2), "propagated": false},
		},
		"count": 2,
	})
	require.NoError(t, err)
	assert.Equal(t,
		`{"count":2,"events":[{"propagated":true,"seq":1},{"propagated":false,"seq":2}]}`,
		string(b))
}

func TestMarshalCanonical_Deterministic(t *testing.T) {
	m := map[string]any{"b": 1, "a": []any{"x", "y"}, "c": true}

	first, err := MarshalCanonical(m)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := MarshalCanonical(m)
		require.NoError(t, err)
		require.Equal(t, string(first), string(again))
	}
}
