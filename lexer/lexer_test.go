package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func collectTypes(src string) []TokenType {
	l := New(src)
	var out []TokenType
	for {
		tok := l.NextToken()
		out = append(out, tok.Type)
		if tok.Type == EOF {
			return out
		}
	}
}

func TestLexerArithmeticExpression(t *testing.T) {
	types := collectTypes("2 + 3 * 4;")
	require.Equal(t, []TokenType{NUMBER, PLUS, NUMBER, STAR, NUMBER, SEMI, EOF}, types)
}

func TestLexerKeywordsVsIdentifiers(t *testing.T) {
	l := New("function foo")
	fn := l.NextToken()
	require.Equal(t, FUNCTION, fn.Type)
	ident := l.NextToken()
	require.Equal(t, IDENT, ident.Type)
	require.Equal(t, "foo", ident.Lit)
}

func TestLexerStringEscapes(t *testing.T) {
	l := New(`"line1\nline2"`)
	tok := l.NextToken()
	require.Equal(t, STRING, tok.Type)
	require.Equal(t, "line1\nline2", tok.Lit)
}

func TestLexerTracksLineAndColumn(t *testing.T) {
	l := New("a\nb")
	first := l.NextToken()
	require.Equal(t, 1, first.Line)
	second := l.NextToken()
	require.Equal(t, 2, second.Line)
}
