package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/student/scriptvm/bytecode"
	"github.com/student/scriptvm/opcodes"
	"github.com/student/scriptvm/parser"
)

func compileSrc(t *testing.T, src string) (*bytecode.Program, error) {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	return Compile(prog)
}

func TestCompileEndsWithHalt(t *testing.T) {
	bc, err := compileSrc(t, `1 + 1;`)
	require.NoError(t, err)
	require.NotEmpty(t, bc.Instructions)
	require.Equal(t, opcodes.OP_HALT, bc.Instructions[len(bc.Instructions)-1].Op)
}

func TestCompileHasNoUnpatchedJumps(t *testing.T) {
	bc, err := compileSrc(t, `
		if (1 < 2) {
			1;
		} else {
			2;
		}
		var i = 0;
		while (i < 3) {
			i = i + 1;
		}
	`)
	require.NoError(t, err)
	for pc, instr := range bc.Instructions {
		if !isJump(instr.Op) {
			continue
		}
		require.NotEqual(t, 0, instr.Operand, "unpatched jump at pc %d", pc)
	}
}

func isJump(op opcodes.Opcode) bool {
	switch op {
	case opcodes.OP_JMP, opcodes.OP_JIF, opcodes.OP_JNF:
		return true
	default:
		return false
	}
}

func TestCompileDuplicateParamNameFails(t *testing.T) {
	_, err := compileSrc(t, `function f(x, x) { return x; }`)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
}

func TestCompileIsDeterministic(t *testing.T) {
	src := `function sq(n) { return n * n; } sq(4);`
	a, err := compileSrc(t, src)
	require.NoError(t, err)
	b, err := compileSrc(t, src)
	require.NoError(t, err)
	require.Equal(t, len(a.Instructions), len(b.Instructions))
	for i := range a.Instructions {
		require.Equal(t, a.Instructions[i].Op, b.Instructions[i].Op)
	}
}

func TestCompileTryIgnoresHandlerAndFinalizer(t *testing.T) {
	withHandler, err := compileSrc(t, `
		try {
			1;
		} catch (e) {
			2;
			3;
			4;
		} finally {
			5;
		}
	`)
	require.NoError(t, err)
	bareBlock, err := compileSrc(t, `{ 1; }`)
	require.NoError(t, err)
	require.Equal(t, len(bareBlock.Instructions), len(withHandler.Instructions))
}
