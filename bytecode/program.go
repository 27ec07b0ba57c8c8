// Package bytecode holds the compiled program container (spec 3.3): an
// instruction sequence over a constant pool, plus optional debug info,
// and the Builder the compiler uses to emit and jump-patch it.
package bytecode

import (
	"fmt"
	"strings"

	"github.com/student/scriptvm/opcodes"
	"github.com/student/scriptvm/values"
)

// DebugInfo locates an instruction in the original source (spec 3.3).
type DebugInfo struct {
	Line       int
	Column     int
	SourceText string
}

// Instruction is a single (opcode, operand) record.
type Instruction struct {
	Op      opcodes.Opcode
	Operand int
	Debug   *DebugInfo
}

// Program is the compiler's output and the VM's input.
type Program struct {
	Instructions []Instruction
	Constants    *values.Pool
	Debug        map[int]DebugInfo
}

// NewProgram constructs an empty program with a fresh constant pool.
func NewProgram() *Program {
	return &Program{Constants: values.NewPool(), Debug: make(map[int]DebugInfo)}
}

// String renders the program as a disassembly listing: one line per
// instruction, with the pooled constant shown for constant operands.
func (p *Program) String() string {
	var b strings.Builder
	for i, instr := range p.Instructions {
		fmt.Fprintf(&b, "%04d %-12s", i, instr.Op.String())
		if instr.Op.HasOperand() {
			fmt.Fprintf(&b, " %d", instr.Operand)
			if c, ok := p.Constants.Get(instr.Operand); ok && isConstOperand(instr.Op) {
				fmt.Fprintf(&b, "  ; %s", c.Debug())
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func isConstOperand(op opcodes.Opcode) bool {
	switch op {
	case opcodes.OP_PUSH, opcodes.OP_LOAD, opcodes.OP_STORE, opcodes.OP_DECLARE:
		return true
	default:
		return false
	}
}
