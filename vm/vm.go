// Package vm implements the stack machine that executes a compiled
// bytecode.Program (spec 4.4): dispatch loop, call-frame stack, closure
// capture, and the instruction-count watchdog.
package vm

import (
	"fmt"
	"math"

	"github.com/student/scriptvm/bytecode"
	"github.com/student/scriptvm/opcodes"
	"github.com/student/scriptvm/values"
)

// DefaultMaxInstructions bounds a single Execute call absent an explicit
// override (spec 5.2).
const DefaultMaxInstructions = 200_000

// VM is the virtual machine. Globals persist across Execute calls on the
// same instance (spec 5.1); everything else is reset per call.
type VM struct {
	globals          *values.Env
	MaxInstructions  int
	DebugLevel       DebugLevel
	Watch            map[string]bool

	prog      *bytecode.Program
	stack     []values.Value
	frames    []*CallFrame
	pc        int
	instrUsed int
	trace     []traceEntry
	nextClosureID int64
}

// New constructs a VM with persistent empty globals.
func New() *VM {
	vm := &VM{
		globals:         values.NewEnv(),
		MaxInstructions: DefaultMaxInstructions,
		Watch:           make(map[string]bool),
	}
	return vm
}

// Globals exposes the persistent global environment (spec 6.2, used by
// the host facade and by runtime.Install to seed built-ins).
func (vm *VM) Globals() *values.Env { return vm.globals }

// Reset clears globals, discarding all previously declared top-level
// state (spec 6.2: Engine.Reset).
func (vm *VM) Reset() {
	vm.globals = values.NewEnv()
}

// SetMaxInstructions overrides DefaultMaxInstructions for this VM (spec
// 6.2: Engine.SetMaxInstructions).
func (vm *VM) SetMaxInstructions(n int) { vm.MaxInstructions = n }

// EnableDebug raises the trace level; DisableDebug turns it back off.
func (vm *VM) EnableDebug(level DebugLevel) { vm.DebugLevel = level }
func (vm *VM) DisableDebug()                { vm.DebugLevel = DebugNone }

// SetDebugSymbols marks a set of variable names to log on every
// LOAD/STORE (spec 6.2: Engine.SetDebugSymbols).
func (vm *VM) SetDebugSymbols(names []string) {
	vm.Watch = make(map[string]bool, len(names))
	for _, n := range names {
		vm.Watch[n] = true
	}
}

// Trace returns the recorded debug entries from the most recent Execute.
func (vm *VM) Trace() []string {
	out := make([]string, len(vm.trace))
	for i, e := range vm.trace {
		out[i] = fmt.Sprintf("%04d %s", e.PC, e.Note)
	}
	return out
}

// Execute runs prog to completion (HALT) or until a RuntimeError,
// BudgetError, or the program's own failure interrupts it. The result
// is the last value left on the stack, or undefined if the stack is
// empty at HALT.
func (vm *VM) Execute(prog *bytecode.Program) (values.Value, error) {
	traceID := newTraceID()
	vm.prog = prog
	vm.stack = vm.stack[:0]
	vm.frames = []*CallFrame{newFrame("<program>", values.Undef(), -1)}
	vm.frames[0].Locals = vm.globals
	vm.pc = 0
	vm.instrUsed = 0
	vm.trace = nil
	vm.logf(DebugBasic, "execute start trace=%s", traceID)

	for {
		if vm.pc < 0 || vm.pc >= len(prog.Instructions) {
			return values.Undef(), fmt.Errorf("pc %d out of range (%d instructions)", vm.pc, len(prog.Instructions))
		}
		instr := prog.Instructions[vm.pc]

		vm.instrUsed++
		if vm.instrUsed > vm.MaxInstructions {
			return values.Undef(), &BudgetError{Executed: vm.instrUsed, Limit: vm.MaxInstructions}
		}
		vm.logf(DebugDetailed, "%s %d", instr.Op, instr.Operand)

		if instr.Op == opcodes.OP_HALT {
			return vm.top(), nil
		}

		next, result, err := vm.step(instr)
		if err != nil {
			return values.Undef(), vm.wrapError(err)
		}
		if result != nil {
			return *result, nil
		}
		vm.pc = next
	}
}

// top returns the stack's top value, or undefined on an empty stack.
func (vm *VM) top() values.Value {
	if len(vm.stack) == 0 {
		return values.Undef()
	}
	return vm.stack[len(vm.stack)-1]
}

func (vm *VM) push(v values.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() values.Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) popN(n int) []values.Value {
	out := make([]values.Value, n)
	copy(out, vm.stack[len(vm.stack)-n:])
	vm.stack = vm.stack[:len(vm.stack)-n]
	return out
}

func (vm *VM) frame() *CallFrame { return vm.frames[len(vm.frames)-1] }

func (vm *VM) wrapError(err error) error {
	if _, ok := err.(*BudgetError); ok {
		return err
	}
	stack := make([]string, len(vm.frames))
	for i, f := range vm.frames {
		stack[len(vm.frames)-1-i] = f.FuncName
	}
	return asRuntimeError(err, stack)
}

// step executes one instruction. It returns the next pc, or a non-nil
// result when the top-level frame returns (ending Execute), or an error.
func (vm *VM) step(instr bytecode.Instruction) (nextPC int, result *values.Value, err error) {
	op := instr.Op
	operand := instr.Operand
	pc := vm.pc

	switch op {
	case opcodes.OP_NOP:
		return pc + 1, nil, nil

	case opcodes.OP_PUSH:
		c, ok := vm.prog.Constants.Get(operand)
		if !ok {
			return 0, nil, fmt.Errorf("invalid constant index %d", operand)
		}
		vm.push(vm.instantiate(c))
		return pc + 1, nil, nil

	case opcodes.OP_POP:
		vm.pop()
		return pc + 1, nil, nil

	case opcodes.OP_DUP:
		vm.push(vm.top())
		return pc + 1, nil, nil

	case opcodes.OP_ADD:
		b, a := vm.pop(), vm.pop()
		if a.IsString() || b.IsString() {
			vm.push(values.NewString(a.ToString() + b.ToString()))
		} else {
			vm.push(values.NewNumber(a.ToNumber() + b.ToNumber()))
		}
		return pc + 1, nil, nil
	case opcodes.OP_SUB:
		b, a := vm.pop(), vm.pop()
		vm.push(values.NewNumber(a.ToNumber() - b.ToNumber()))
		return pc + 1, nil, nil
	case opcodes.OP_MUL:
		b, a := vm.pop(), vm.pop()
		vm.push(values.NewNumber(a.ToNumber() * b.ToNumber()))
		return pc + 1, nil, nil
	case opcodes.OP_DIV:
		b, a := vm.pop(), vm.pop()
		vm.push(values.NewNumber(a.ToNumber() / b.ToNumber()))
		return pc + 1, nil, nil
	case opcodes.OP_MOD:
		b, a := vm.pop(), vm.pop()
		vm.push(values.NewNumber(mod(a.ToNumber(), b.ToNumber())))
		return pc + 1, nil, nil
	case opcodes.OP_NEG:
		a := vm.pop()
		vm.push(values.NewNumber(-a.ToNumber()))
		return pc + 1, nil, nil

	case opcodes.OP_SHL:
		b, a := vm.pop(), vm.pop()
		vm.push(values.NewNumber(float64(a.ToInt32() << (uint32(b.ToInt32()) & 31))))
		return pc + 1, nil, nil
	case opcodes.OP_SHR:
		b, a := vm.pop(), vm.pop()
		vm.push(values.NewNumber(float64(a.ToInt32() >> (uint32(b.ToInt32()) & 31))))
		return pc + 1, nil, nil
	case opcodes.OP_USHR:
		b, a := vm.pop(), vm.pop()
		vm.push(values.NewNumber(float64(a.ToUint32() >> (uint32(b.ToInt32()) & 31))))
		return pc + 1, nil, nil
	case opcodes.OP_BIT_AND:
		b, a := vm.pop(), vm.pop()
		vm.push(values.NewNumber(float64(a.ToInt32() & b.ToInt32())))
		return pc + 1, nil, nil
	case opcodes.OP_BIT_OR:
		b, a := vm.pop(), vm.pop()
		vm.push(values.NewNumber(float64(a.ToInt32() | b.ToInt32())))
		return pc + 1, nil, nil
	case opcodes.OP_BIT_XOR:
		b, a := vm.pop(), vm.pop()
		vm.push(values.NewNumber(float64(a.ToInt32() ^ b.ToInt32())))
		return pc + 1, nil, nil
	case opcodes.OP_BIT_NOT:
		a := vm.pop()
		vm.push(values.NewNumber(float64(^a.ToInt32())))
		return pc + 1, nil, nil

	case opcodes.OP_EQ:
		b, a := vm.pop(), vm.pop()
		vm.push(values.NewBool(values.Equal(a, b)))
		return pc + 1, nil, nil
	case opcodes.OP_NE:
		b, a := vm.pop(), vm.pop()
		vm.push(values.NewBool(!values.Equal(a, b)))
		return pc + 1, nil, nil
	case opcodes.OP_LT, opcodes.OP_LE, opcodes.OP_GT, opcodes.OP_GE:
		b, a := vm.pop(), vm.pop()
		cmp, ok := values.Compare(a, b)
		if !ok {
			vm.push(values.NewBool(false))
			return pc + 1, nil, nil
		}
		var res bool
		switch op {
		case opcodes.OP_LT:
			res = cmp < 0
		case opcodes.OP_LE:
			res = cmp <= 0
		case opcodes.OP_GT:
			res = cmp > 0
		case opcodes.OP_GE:
			res = cmp >= 0
		}
		vm.push(values.NewBool(res))
		return pc + 1, nil, nil

	case opcodes.OP_AND:
		b, a := vm.pop(), vm.pop()
		vm.push(values.NewBool(a.ToBool() && b.ToBool()))
		return pc + 1, nil, nil
	case opcodes.OP_OR:
		b, a := vm.pop(), vm.pop()
		vm.push(values.NewBool(a.ToBool() || b.ToBool()))
		return pc + 1, nil, nil
	case opcodes.OP_NOT:
		a := vm.pop()
		vm.push(values.NewBool(!a.ToBool()))
		return pc + 1, nil, nil
	case opcodes.OP_TYPEOF:
		a := vm.pop()
		vm.push(values.NewString(a.TypeOf()))
		return pc + 1, nil, nil

	case opcodes.OP_LOAD:
		name, err := vm.constString(operand)
		if err != nil {
			return 0, nil, err
		}
		v, ok := vm.resolve(name)
		if !ok {
			return 0, nil, fmt.Errorf("%s is not defined", name)
		}
		if vm.Watch[name] {
			vm.logf(DebugBasic, "watch: load %s = %s", name, v.Debug())
		}
		vm.push(v)
		return pc + 1, nil, nil

	case opcodes.OP_STORE:
		name, err := vm.constString(operand)
		if err != nil {
			return 0, nil, err
		}
		v := vm.top()
		vm.assign(name, v)
		if vm.Watch[name] {
			vm.logf(DebugBasic, "watch: store %s = %s", name, v.Debug())
		}
		return pc + 1, nil, nil

	case opcodes.OP_DECLARE:
		name, err := vm.constString(operand)
		if err != nil {
			return 0, nil, err
		}
		vm.frame().Locals.Set(name, vm.pop())
		return pc + 1, nil, nil

	case opcodes.OP_JMP:
		return operand, nil, nil
	case opcodes.OP_JIF:
		if vm.pop().ToBool() {
			return operand, nil, nil
		}
		return pc + 1, nil, nil
	case opcodes.OP_JNF:
		if !vm.pop().ToBool() {
			return operand, nil, nil
		}
		return pc + 1, nil, nil

	case opcodes.OP_CALL:
		return vm.doCall(operand, values.Undef(), false)
	case opcodes.OP_CALL_METHOD:
		return vm.doCallMethod(operand)
	case opcodes.OP_RET:
		return vm.doReturn()
	case opcodes.OP_NEW:
		return vm.doNew(operand)

	case opcodes.OP_NEW_OBJ:
		return vm.doNewObj(operand)
	case opcodes.OP_GET_PROP:
		return vm.doGetProp()
	case opcodes.OP_SET_PROP:
		return vm.doSetProp()

	case opcodes.OP_NEW_ARR:
		elems := vm.popN(operand)
		vm.push(values.NewArray(elems))
		return pc + 1, nil, nil
	case opcodes.OP_GET_ELEM:
		return vm.doGetElem()
	case opcodes.OP_SET_ELEM:
		return vm.doSetElem()

	default:
		return 0, nil, fmt.Errorf("unimplemented opcode %s", op)
	}
}

func (vm *VM) constString(idx int) (string, error) {
	c, ok := vm.prog.Constants.Get(idx)
	if !ok || !c.IsString() {
		return "", fmt.Errorf("invalid name constant at index %d", idx)
	}
	return c.Data.(string), nil
}

// mod implements the % operator's JS semantics: truncating remainder
// with the dividend's sign, exactly math.Mod's definition.
func mod(a, b float64) float64 {
	return math.Mod(a, b)
}
