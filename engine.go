// Package scriptvm composes the lexer, parser, compiler, and vm packages
// behind a single embeddable Engine, matching the host API of spec 6.2.
package scriptvm

import (
	"github.com/student/scriptvm/bytecode"
	"github.com/student/scriptvm/compiler"
	"github.com/student/scriptvm/parser"
	"github.com/student/scriptvm/runtime"
	"github.com/student/scriptvm/values"
	"github.com/student/scriptvm/vm"
)

// Engine is the embeddable entry point: `new VM()` in spec 6.2 terms.
// It owns one vm.VM instance and reinitializes its globals with the
// standard built-ins on construction and on every Reset.
type Engine struct {
	vm *vm.VM
}

// NewEngine constructs an Engine with freshly seeded built-ins.
func NewEngine() *Engine {
	e := &Engine{vm: vm.New()}
	runtime.Install(e.vm.Globals())
	return e
}

// Context merges name/value pairs into globals ahead of a run or execute
// call, per spec 6.2's `context` parameter.
type Context map[string]values.Value

func (e *Engine) mergeContext(ctx Context) {
	for name, v := range ctx {
		e.vm.Globals().Set(name, v)
	}
}

// Run parses, compiles, and executes source in one step (spec 6.2).
func (e *Engine) Run(source string, ctx Context) (values.Value, error) {
	prog, err := e.Compile(source)
	if err != nil {
		return values.Undef(), err
	}
	e.mergeContext(ctx)
	return e.vm.Execute(prog)
}

// Compile parses and lowers source to a bytecode.Program without
// executing it (spec 6.2).
func (e *Engine) Compile(source string) (*bytecode.Program, error) {
	program, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	prog, err := compiler.Compile(program)
	if err != nil {
		return nil, &vm.CompileError{Underlying: err}
	}
	return prog, nil
}

// Execute runs a previously compiled Program against this engine's
// persistent globals, merging ctx in first (spec 6.2).
func (e *Engine) Execute(prog *bytecode.Program, ctx Context) (values.Value, error) {
	e.mergeContext(ctx)
	return e.vm.Execute(prog)
}

// Reset clears all globals and reinstalls the standard built-ins (spec
// 6.2: subsequent runs start as if the Engine were newly constructed).
func (e *Engine) Reset() {
	e.vm.Reset()
	runtime.Install(e.vm.Globals())
}

// SetMaxInstructions overrides the watchdog bound (spec 5.2, 6.2).
func (e *Engine) SetMaxInstructions(n int) { e.vm.SetMaxInstructions(n) }

// EnableDebug raises the trace level (spec 6.2: basic/detail/verbose).
func (e *Engine) EnableDebug(level vm.DebugLevel) { e.vm.EnableDebug(level) }

// DisableDebug turns tracing back off.
func (e *Engine) DisableDebug() { e.vm.DisableDebug() }

// SetDebugSymbols toggles name-level watch logging (spec 6.2). When
// enabled, every currently bound global is watched; when disabled, the
// watch set is cleared. Use the vm package directly via Globals/Watch
// for finer-grained per-name control.
func (e *Engine) SetDebugSymbols(enabled bool) {
	if !enabled {
		e.vm.SetDebugSymbols(nil)
		return
	}
	e.vm.SetDebugSymbols(e.vm.Globals().Names())
}

// State reports the engine's introspectable state (spec 6.2).
type State struct {
	Initialized bool
	GlobalNames []string
	CallDepth   int
}

// State returns a snapshot of the engine's current globals and call
// depth. CallDepth is always 0 between Run/Execute calls since the VM
// does not persist call frames across invocations.
func (e *Engine) State() State {
	return State{
		Initialized: true,
		GlobalNames: e.vm.Globals().Names(),
		CallDepth:   0,
	}
}
