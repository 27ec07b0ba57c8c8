package scriptvm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/student/scriptvm/values"
	"github.com/student/scriptvm/vm"
)

func run(t *testing.T, src string) values.Value {
	t.Helper()
	e := NewEngine()
	v, err := e.Run(src, nil)
	require.NoError(t, err)
	return v
}

func TestArithmeticPrecedence(t *testing.T) {
	v := run(t, "2 + 3 * 4;")
	require.Equal(t, float64(14), v.ToNumber())
}

func TestRecursiveFactorial(t *testing.T) {
	v := run(t, `
		function fact(n) {
			if (n <= 1) return 1;
			return n * fact(n - 1);
		}
		fact(6);
	`)
	require.Equal(t, float64(720), v.ToNumber())
}

func TestRecursiveFibonacci(t *testing.T) {
	v := run(t, `
		function fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		fib(10);
	`)
	require.Equal(t, float64(55), v.ToNumber())
}

// TestClosureIsolation mirrors the seed scenario: two calls to the same
// outer function each return their own closure over `c`, mutating `c` via
// a returned closure must persist across repeated calls to that same
// closure, and the two closures' captured `c` bindings must stay disjoint
// from one another.
func TestClosureIsolation(t *testing.T) {
	v := run(t, `
		function mk(i) {
			var c = i;
			return function() { c++; return c; };
		}
		var a = mk(10);
		var b = mk(100);
		[a(), a(), b(), a(), b()];
	`)
	require.True(t, v.IsArray())
	got := make([]float64, len(v.AsArray().Elements))
	for i, e := range v.AsArray().Elements {
		got[i] = e.ToNumber()
	}
	require.Equal(t, []float64{11, 12, 101, 13, 102}, got)
}

// TestClosureCaptureIsDisjointAcrossIterations exercises a second shape of
// closure isolation: distinct closures captured across loop iterations must
// not share a binding, even after one slot in the holding array is
// overwritten with an unrelated closure.
func TestClosureCaptureIsDisjointAcrossIterations(t *testing.T) {
	v := run(t, `
		function makeCounters() {
			var counters = [];
			var base = 10;
			for (var i = 0; i < 3; i = i + 1) {
				var seed = base + i + 1;
				counters.push(function() { return seed; });
				base = base + 90;
			}
			return counters;
		}
		var fns = makeCounters();
		var out = [];
		out.push(fns[0]());
		out.push(fns[1]());
		fns[0] = function() { return 101; };
		out.push(fns[0]());
		out.push(fns[1]());
		fns[2] = function() { return 102; };
		out.push(fns[2]());
		out;
	`)
	require.True(t, v.IsArray())
	got := make([]float64, len(v.AsArray().Elements))
	for i, e := range v.AsArray().Elements {
		got[i] = e.ToNumber()
	}
	require.Equal(t, []float64{11, 12, 101, 13, 102}, got)
}

func TestHostBindingGreet(t *testing.T) {
	e := NewEngine()
	greet := values.NewHostFunction("greet", func(this values.Value, args []values.Value) (values.Value, error) {
		name := "world"
		if len(args) > 0 {
			name = args[0].ToString()
		}
		return values.NewString("hello, " + name), nil
	})
	v, err := e.Run(`greet("script");`, Context{"greet": greet})
	require.NoError(t, err)
	require.Equal(t, "hello, script", v.ToString())
}

func TestCompoundAssignmentToArrayElement(t *testing.T) {
	v := run(t, `
		var xs = [1, 2, 3];
		xs[1] += 40;
		xs[1];
	`)
	require.Equal(t, float64(42), v.ToNumber())
}

func TestInstructionBudgetExceeded(t *testing.T) {
	e := NewEngine()
	e.SetMaxInstructions(100)
	_, err := e.Run(`
		var i = 0;
		while (true) {
			i = i + 1;
		}
	`, nil)
	require.Error(t, err)
	var budgetErr *vm.BudgetError
	require.ErrorAs(t, err, &budgetErr)
}

func TestSetElemGrowsArrayOutOfRange(t *testing.T) {
	v := run(t, `
		var xs = [1];
		xs[4] = 9;
		xs.length;
	`)
	require.Equal(t, float64(5), v.ToNumber())
}

func TestStringPrototypeLengthFallback(t *testing.T) {
	v := run(t, `"hello".length;`)
	require.Equal(t, float64(5), v.ToNumber())
}

// TestUncaughtThrowSurfacesAsRuntimeError exercises the accept-and-ignore
// requirement: a try block that throws never reaches any handler logic
// (none is ever compiled), so the throw always propagates as an error.
func TestUncaughtThrowSurfacesAsRuntimeError(t *testing.T) {
	e := NewEngine()
	_, err := e.Run(`
		try {
			throw "boom";
		} catch (e) {
			"unreachable";
		}
	`, nil)
	require.Error(t, err)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, "boom", rerr.Value.ToString())
}

func TestForInUsesHostKeysEquivalent(t *testing.T) {
	v := run(t, `
		var obj = { a: 1, b: 2, c: 3 };
		var sum = 0;
		for (var k in obj) {
			sum = sum + obj[k];
		}
		sum;
	`)
	require.Equal(t, float64(6), v.ToNumber())
}

func TestResetClearsUserGlobals(t *testing.T) {
	e := NewEngine()
	_, err := e.Run(`var x = 5;`, nil)
	require.NoError(t, err)

	e.Reset()
	_, err = e.Run(`x;`, nil)
	require.Error(t, err)
}

func TestResetThenRunIsIdempotentForPureScripts(t *testing.T) {
	e := NewEngine()
	first, err := e.Run(`1 + 1;`, nil)
	require.NoError(t, err)
	e.Reset()
	second, err := e.Run(`1 + 1;`, nil)
	require.NoError(t, err)
	require.Equal(t, first.ToNumber(), second.ToNumber())
}

func TestCompileThenExecuteSeparately(t *testing.T) {
	e := NewEngine()
	prog, err := e.Compile(`3 * 7;`)
	require.NoError(t, err)
	v, err := e.Execute(prog, nil)
	require.NoError(t, err)
	require.Equal(t, float64(21), v.ToNumber())
}

func TestCompileDeterminism(t *testing.T) {
	e := NewEngine()
	p1, err := e.Compile(`function f(a, b) { return a + b; } f(1, 2);`)
	require.NoError(t, err)
	p2, err := e.Compile(`function f(a, b) { return a + b; } f(1, 2);`)
	require.NoError(t, err)
	require.Equal(t, len(p1.Instructions), len(p2.Instructions))
}

func TestDuplicateParameterNameRejected(t *testing.T) {
	e := NewEngine()
	_, err := e.Compile(`function f(a, a) { return a; }`)
	require.Error(t, err)
}

func TestStateReportsGlobalNames(t *testing.T) {
	e := NewEngine()
	_, err := e.Run(`var greeting = "hi";`, nil)
	require.NoError(t, err)
	st := e.State()
	require.True(t, st.Initialized)
	require.Contains(t, st.GlobalNames, "greeting")
	require.Equal(t, 0, st.CallDepth)
}
