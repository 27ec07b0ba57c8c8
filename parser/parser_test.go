package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/student/scriptvm/ast"
)

func TestParseProgramCountsTopLevelStatements(t *testing.T) {
	prog, err := Parse(`var x = 1; var y = 2; x + y;`)
	require.NoError(t, err)
	require.Len(t, prog.Body, 3)
}

func TestParseBinaryExpressionShape(t *testing.T) {
	prog, err := Parse(`2 + 3 * 4;`)
	require.NoError(t, err)
	require.Len(t, prog.Body, 1)

	exprStmt, ok := prog.Body[0].(*ast.ExpressionStatement)
	require.True(t, ok)

	bin, ok := exprStmt.Expression.(*ast.BinaryExpression)
	require.True(t, ok)
	require.Equal(t, "+", bin.Operator)

	right, ok := bin.Right.(*ast.BinaryExpression)
	require.True(t, ok)
	require.Equal(t, "*", right.Operator)
}

func TestParseFunctionDeclaration(t *testing.T) {
	prog, err := Parse(`function add(a, b) { return a + b; }`)
	require.NoError(t, err)
	require.Len(t, prog.Body, 1)

	fn, ok := prog.Body[0].(*ast.FunctionDeclaration)
	require.True(t, ok)
	require.Equal(t, "add", fn.Id)
	require.Equal(t, []string{"a", "b"}, fn.Params)
}

func TestParseRejectsUnexpectedToken(t *testing.T) {
	_, err := Parse(`var = ;`)
	require.Error(t, err)
}

func TestParseForInStatement(t *testing.T) {
	prog, err := Parse(`for (var k in obj) { x; }`)
	require.NoError(t, err)
	_, ok := prog.Body[0].(*ast.ForInStatement)
	require.True(t, ok)
}
