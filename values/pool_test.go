package values

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolDedupesPrimitives(t *testing.T) {
	p := NewPool()
	a := p.Add(NewNumber(42))
	b := p.Add(NewNumber(42))
	c := p.Add(NewString("42"))
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Equal(t, 2, p.Len())
}

func TestPoolRoundTrip(t *testing.T) {
	p := NewPool()
	idx := p.Add(NewString("hello"))
	v, ok := p.Get(idx)
	require.True(t, ok)
	require.Equal(t, "hello", v.ToString())

	_, ok = p.Get(99)
	require.False(t, ok)
}

func TestPoolNeverDedupesComposites(t *testing.T) {
	p := NewPool()
	a := p.Add(NewArray([]Value{NewNumber(1)}))
	b := p.Add(NewArray([]Value{NewNumber(1)}))
	require.NotEqual(t, a, b)
}
