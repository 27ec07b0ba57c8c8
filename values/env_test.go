package values

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvPreservesInsertionOrder(t *testing.T) {
	e := NewEnv()
	e.Set("b", NewNumber(2))
	e.Set("a", NewNumber(1))
	e.Set("b", NewNumber(20)) // re-set must not move it in order
	require.Equal(t, []string{"b", "a"}, e.Names())

	v, ok := e.Get("b")
	require.True(t, ok)
	require.Equal(t, float64(20), v.ToNumber())
}

func TestEnvDelete(t *testing.T) {
	e := NewEnv()
	e.Set("a", NewNumber(1))
	e.Set("b", NewNumber(2))
	e.Delete("a")
	require.False(t, e.Has("a"))
	require.Equal(t, []string{"b"}, e.Names())
	require.Equal(t, 1, e.Len())

	// deleting an unbound name is a no-op, not an error
	e.Delete("missing")
	require.Equal(t, 1, e.Len())
}

func TestEnvSnapshotIsDetached(t *testing.T) {
	e := NewEnv()
	e.Set("x", NewNumber(1))
	snap := e.Snapshot()
	e.Set("x", NewNumber(2))
	require.Equal(t, float64(1), snap["x"].ToNumber())
}
