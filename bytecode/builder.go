package bytecode

import (
	"github.com/student/scriptvm/opcodes"
	"github.com/student/scriptvm/values"
)

// Builder accumulates instructions for a Program under construction and
// tracks forward jumps so the compiler can patch them once the target
// region has been emitted (spec 4.3: "the compiler records placeholder
// operands (value 0) at emit time and back-patches after").
type Builder struct {
	prog *Program
}

// NewBuilder wraps a fresh Program in a Builder.
func NewBuilder() *Builder {
	return &Builder{prog: NewProgram()}
}

// Program returns the program built so far (and, once compilation is
// done, the final result).
func (b *Builder) Program() *Program {
	return b.prog
}

// Pos returns the index the next emitted instruction will occupy.
func (b *Builder) Pos() int {
	return len(b.prog.Instructions)
}

// Emit appends an instruction without a debug record and returns its pc.
func (b *Builder) Emit(op opcodes.Opcode, operand int) int {
	pc := b.Pos()
	b.prog.Instructions = append(b.prog.Instructions, Instruction{Op: op, Operand: operand})
	return pc
}

// EmitDebug appends an instruction carrying source position info.
func (b *Builder) EmitDebug(op opcodes.Opcode, operand int, dbg DebugInfo) int {
	pc := b.Emit(op, operand)
	b.prog.Debug[pc] = dbg
	return pc
}

// EmitJump emits a jump-family opcode with a provisional target of 0 and
// returns a patch handle (its own pc) for Patch.
func (b *Builder) EmitJump(op opcodes.Opcode) int {
	return b.Emit(op, 0)
}

// Patch rewrites the operand of a previously emitted instruction — used
// to resolve a jump's target once the destination pc is known.
func (b *Builder) Patch(pc int, target int) {
	b.prog.Instructions[pc].Operand = target
}

// PatchToHere patches pc's operand to the current emit position.
func (b *Builder) PatchToHere(pc int) {
	b.Patch(pc, b.Pos())
}

// AddConstant pools v and returns its index.
func (b *Builder) AddConstant(v values.Value) int {
	return b.prog.Constants.Add(v)
}

// EmitPush is shorthand for Emit(OP_PUSH, AddConstant(v)).
func (b *Builder) EmitPush(v values.Value) int {
	return b.Emit(opcodes.OP_PUSH, b.AddConstant(v))
}

// EmitName is shorthand for opcodes whose operand is a pooled name
// string (LOAD/STORE/DECLARE).
func (b *Builder) EmitName(op opcodes.Opcode, name string) int {
	return b.Emit(op, b.AddConstant(values.NewString(name)))
}
