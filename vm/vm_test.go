package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/student/scriptvm/bytecode"
	"github.com/student/scriptvm/opcodes"
	"github.com/student/scriptvm/values"
)

func TestExecutePushAddHalt(t *testing.T) {
	b := bytecode.NewBuilder()
	b.EmitPush(values.NewNumber(2))
	b.EmitPush(values.NewNumber(3))
	b.Emit(opcodes.OP_ADD, 0)
	b.Emit(opcodes.OP_HALT, 0)

	m := New()
	result, err := m.Execute(b.Program())
	require.NoError(t, err)
	require.Equal(t, float64(5), result.ToNumber())
}

func TestExecuteLoadUndeclaredNameFails(t *testing.T) {
	b := bytecode.NewBuilder()
	b.EmitName(opcodes.OP_LOAD, "missing")
	b.Emit(opcodes.OP_HALT, 0)

	m := New()
	_, err := m.Execute(b.Program())
	require.Error(t, err)
}

func TestGlobalsPersistAcrossExecuteCalls(t *testing.T) {
	m := New()

	b1 := bytecode.NewBuilder()
	b1.EmitPush(values.NewNumber(41))
	b1.EmitName(opcodes.OP_DECLARE, "x")
	b1.Emit(opcodes.OP_HALT, 0)
	_, err := m.Execute(b1.Program())
	require.NoError(t, err)

	b2 := bytecode.NewBuilder()
	b2.EmitName(opcodes.OP_LOAD, "x")
	b2.EmitPush(values.NewNumber(1))
	b2.Emit(opcodes.OP_ADD, 0)
	b2.Emit(opcodes.OP_HALT, 0)
	result, err := m.Execute(b2.Program())
	require.NoError(t, err)
	require.Equal(t, float64(42), result.ToNumber())
}

func TestResetClearsGlobals(t *testing.T) {
	m := New()
	b := bytecode.NewBuilder()
	b.EmitPush(values.NewNumber(1))
	b.EmitName(opcodes.OP_DECLARE, "x")
	b.Emit(opcodes.OP_HALT, 0)
	_, err := m.Execute(b.Program())
	require.NoError(t, err)

	m.Reset()
	require.False(t, m.Globals().Has("x"))
}

func TestInstructionBudgetStopsAnInfiniteLoop(t *testing.T) {
	b := bytecode.NewBuilder()
	top := b.Pos()
	b.EmitPush(values.NewNumber(1))
	b.Emit(opcodes.OP_POP, 0)
	b.Emit(opcodes.OP_JMP, top)

	m := New()
	m.SetMaxInstructions(50)
	_, err := m.Execute(b.Program())
	require.Error(t, err)
	var budgetErr *BudgetError
	require.ErrorAs(t, err, &budgetErr)
}
