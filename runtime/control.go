package runtime

import (
	"strconv"

	"github.com/student/scriptvm/values"
	"github.com/student/scriptvm/vm"
)

// installControlBuiltins seeds the two hidden built-ins the compiler
// emits calls to for language constructs with no dedicated opcode: an
// `Object.keys`-equivalent for for-in (spec 4.3.5), and the relay
// `throw` desugars to. There is no corresponding "__try__" built-in:
// per spec 7/9, try/catch/finally are accepted syntactically but the
// handler and finalizer are never compiled, so a thrown value inside a
// try block is never caught — it surfaces as an ordinary RuntimeError,
// which vm.ThrownValue here carries with the exact thrown value intact.
func installControlBuiltins(globals *values.Env) {
	globals.Set("__keys__", values.NewHostFunction("__keys__", func(_ values.Value, args []values.Value) (values.Value, error) {
		obj := arg(args, 0)
		switch obj.Type {
		case values.Array:
			arr := obj.AsArray()
			keys := make([]values.Value, len(arr.Elements))
			for i := range arr.Elements {
				keys[i] = values.NewString(strconv.Itoa(i))
			}
			return values.NewArray(keys), nil
		case values.Object:
			names := obj.AsObject().Props.Names()
			keys := make([]values.Value, len(names))
			for i, n := range names {
				keys[i] = values.NewString(n)
			}
			return values.NewArray(keys), nil
		default:
			return values.NewArray(nil), nil
		}
	}))

	globals.Set("__throw__", values.NewHostFunction("__throw__", func(_ values.Value, args []values.Value) (values.Value, error) {
		return values.Undef(), &vm.ThrownValue{Value: arg(args, 0)}
	}))
}
