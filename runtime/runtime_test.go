package runtime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/student/scriptvm/values"
	"github.com/student/scriptvm/vm"
)

func call(t *testing.T, globals *values.Env, path string, args ...values.Value) values.Value {
	t.Helper()
	fn, ok := globals.Get(path)
	require.True(t, ok, "%s not seeded", path)
	require.True(t, fn.IsCallable())
	v, err := fn.AsHostFunction().Fn(values.Undef(), args)
	require.NoError(t, err)
	return v
}

func TestInstallSeedsMathAndGlobals(t *testing.T) {
	g := values.NewEnv()
	Install(g)

	require.True(t, g.Has("console"))
	require.True(t, g.Has("Math"))
	require.True(t, g.Has("undefined"))

	mathObj, _ := g.Get("Math")
	pi, ok := mathObj.AsObject().Props.Get("PI")
	require.True(t, ok)
	require.InDelta(t, math.Pi, pi.ToNumber(), 1e-9)

	result := call(t, g, "parseInt", values.NewString("42px"))
	require.Equal(t, float64(42), result.ToNumber())

	result = call(t, g, "isNaN", values.NewNumber(math.NaN()))
	require.True(t, result.ToBool())
}

func TestKeysBuiltinOverArrayAndObject(t *testing.T) {
	g := values.NewEnv()
	Install(g)

	arr := values.NewArray([]values.Value{values.NewNumber(1), values.NewNumber(2)})
	keys := call(t, g, "__keys__", arr)
	require.True(t, keys.IsArray())
	require.Len(t, keys.AsArray().Elements, 2)
	require.Equal(t, "0", keys.AsArray().Elements[0].ToString())
	require.Equal(t, "1", keys.AsArray().Elements[1].ToString())

	obj := values.NewObject()
	obj.AsObject().Props.Set("a", values.NewNumber(1))
	obj.AsObject().Props.Set("b", values.NewNumber(2))
	keys = call(t, g, "__keys__", obj)
	require.Equal(t, []string{"a", "b"}, []string{
		keys.AsArray().Elements[0].ToString(),
		keys.AsArray().Elements[1].ToString(),
	})
}

func TestThrowBuiltinReturnsThrownValue(t *testing.T) {
	g := values.NewEnv()
	Install(g)

	fn, ok := g.Get("__throw__")
	require.True(t, ok)
	_, err := fn.AsHostFunction().Fn(values.Undef(), []values.Value{values.NewString("boom")})
	require.Error(t, err)
	var tv *vm.ThrownValue
	require.ErrorAs(t, err, &tv)
	require.Equal(t, "boom", tv.Value.ToString())
}

func TestMathRandomIsWithinUnitRange(t *testing.T) {
	g := values.NewEnv()
	Install(g)
	mathObj, _ := g.Get("Math")
	randomFn, ok := mathObj.AsObject().Props.Get("random")
	require.True(t, ok)
	v, err := randomFn.AsHostFunction().Fn(values.Undef(), nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, v.ToNumber(), 0.0)
	require.Less(t, v.ToNumber(), 1.0)
}
