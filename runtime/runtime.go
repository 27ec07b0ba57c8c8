// Package runtime seeds the global environment a freshly constructed or
// Reset VM starts with (spec 6.3): console/Math/global functions, plus
// the two hidden builtins the compiler emits calls to for language
// features with no dedicated opcode (for-in's key iteration, throw's
// relay). try/catch/finally need no builtin of their own: they are
// accepted syntactically but the handler and finalizer are never
// compiled (spec 7/9).
package runtime

import "github.com/student/scriptvm/values"

// Install seeds globals with the engine's standard builtins. It is safe
// to call repeatedly (e.g. on vm.Reset via the host facade) since every
// binding is freshly constructed.
func Install(globals *values.Env) {
	globals.Set("undefined", values.Undef())
	globals.Set("NaN", values.NewNumber(nan()))
	globals.Set("Infinity", values.NewNumber(inf()))

	installConsole(globals)
	installMath(globals)
	installGlobalFunctions(globals)
	installCoercionConstructors(globals)
	installControlBuiltins(globals)
}
