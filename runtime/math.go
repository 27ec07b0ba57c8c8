package runtime

import (
	"math"
	"math/rand"

	"github.com/student/scriptvm/values"
)

func nan() float64 { return math.NaN() }
func inf() float64 { return math.Inf(1) }

// installMath seeds the `Math` global object (spec 6.3): the constants
// and the subset of unary/binary functions a scripting subset at this
// scale needs, each a thin wrapper over the math package, one
// HostFunction per entry.
func installMath(globals *values.Env) {
	m := values.NewObject()
	props := m.AsObject().Props

	props.Set("PI", values.NewNumber(math.Pi))
	props.Set("E", values.NewNumber(math.E))

	unary := map[string]func(float64) float64{
		"abs":   math.Abs,
		"floor": math.Floor,
		"ceil":  math.Ceil,
		"round": math.Round,
		"sqrt":  math.Sqrt,
		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"log":   math.Log,
		"exp":   math.Exp,
	}
	for name, fn := range unary {
		fn := fn
		props.Set(name, values.NewHostFunction(name, func(_ values.Value, args []values.Value) (values.Value, error) {
			return values.NewNumber(fn(arg(args, 0).ToNumber())), nil
		}))
	}

	props.Set("pow", values.NewHostFunction("pow", func(_ values.Value, args []values.Value) (values.Value, error) {
		return values.NewNumber(math.Pow(arg(args, 0).ToNumber(), arg(args, 1).ToNumber())), nil
	}))
	props.Set("max", values.NewHostFunction("max", func(_ values.Value, args []values.Value) (values.Value, error) {
		if len(args) == 0 {
			return values.NewNumber(math.Inf(-1)), nil
		}
		best := args[0].ToNumber()
		for _, a := range args[1:] {
			if n := a.ToNumber(); n > best {
				best = n
			}
		}
		return values.NewNumber(best), nil
	}))
	props.Set("min", values.NewHostFunction("min", func(_ values.Value, args []values.Value) (values.Value, error) {
		if len(args) == 0 {
			return values.NewNumber(math.Inf(1)), nil
		}
		best := args[0].ToNumber()
		for _, a := range args[1:] {
			if n := a.ToNumber(); n < best {
				best = n
			}
		}
		return values.NewNumber(best), nil
	}))
	props.Set("random", values.NewHostFunction("random", func(_ values.Value, args []values.Value) (values.Value, error) {
		return values.NewNumber(rand.Float64()), nil
	}))

	globals.Set("Math", m)
}

func arg(args []values.Value, i int) values.Value {
	if i < 0 || i >= len(args) {
		return values.Undef()
	}
	return args[i]
}
