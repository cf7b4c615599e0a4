package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/refit/internal/token"
)

// collect drains the lexer, failing the test on the first lexer error.
func collect(t *testing.T, input string) []token.Token {
	t.Helper()
	l := New(input)
	var out []token.Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		out = append(out, tok)
		if tok.Type == token.EOF {
			return out
		}
	}
}

func types(tokens []token.Token) []token.Type {
	out := make([]token.Type, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestSimpleStatement(t *testing.T) {
	tokens := collect(t, "x = 1\n")
	require.Equal(t, []token.Type{
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE, token.EOF,
	}, types(tokens))
	require.Equal(t, "x", tokens[0].Literal)
	require.Equal(t, "1", tokens[2].Literal)
}

func TestMissingFinalNewline(t *testing.T) {
	tokens := collect(t, "x = 1")
	require.Equal(t, []token.Type{
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE, token.EOF,
	}, types(tokens))
}

func TestIndentation(t *testing.T) {
	tokens := collect(t, "def f(a):\n    return a\n")
	require.Equal(t, []token.Type{
		token.DEF, token.IDENT, token.LPAREN, token.IDENT, token.RPAREN,
		token.COLON, token.NEWLINE,
		token.INDENT, token.RETURN, token.IDENT, token.NEWLINE,
		token.DEDENT, token.EOF,
	}, types(tokens))
}

func TestNestedIndentation(t *testing.T) {
	input := "while x:\n    if y:\n        pass\n"
	tokens := collect(t, input)
	require.Equal(t, []token.Type{
		token.WHILE, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT, token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT, token.PASS, token.NEWLINE,
		token.DEDENT, token.DEDENT, token.EOF,
	}, types(tokens))
}

func TestBlankLinesIgnored(t *testing.T) {
	input := "def f(a):\n\n    # a comment\n    return a\n\n"
	tokens := collect(t, input)
	require.Equal(t, []token.Type{
		token.DEF, token.IDENT, token.LPAREN, token.IDENT, token.RPAREN,
		token.COLON, token.NEWLINE,
		token.INDENT, token.RETURN, token.IDENT, token.NEWLINE,
		token.DEDENT, token.EOF,
	}, types(tokens))
}

func TestNewlinesInsideParens(t *testing.T) {
	tokens := collect(t, "f(1,\n  2)\n")
	require.Equal(t, []token.Type{
		token.IDENT, token.LPAREN, token.INT, token.COMMA, token.INT,
		token.RPAREN, token.NEWLINE, token.EOF,
	}, types(tokens))
}

func TestOperators(t *testing.T) {
	tokens := collect(t, "a //= b ** c != d\n")
	require.Equal(t, []token.Type{
		token.IDENT, token.FLOORDIV_EQ, token.IDENT, token.POW,
		token.IDENT, token.NOT_EQ, token.IDENT, token.NEWLINE, token.EOF,
	}, types(tokens))
}

func TestKeywords(t *testing.T) {
	tokens := collect(t, "for i in not None\n")
	require.Equal(t, []token.Type{
		token.FOR, token.IDENT, token.IN, token.NOT, token.NONE,
		token.NEWLINE, token.EOF,
	}, types(tokens))
}

func TestStringLiteral(t *testing.T) {
	tokens := collect(t, "s = 'ab\\nc'\n")
	require.Equal(t, token.STRING, tokens[2].Type)
	require.Equal(t, "ab\nc", tokens[2].Literal)
}

func TestUnterminatedString(t *testing.T) {
	l := New("s = 'oops\n")
	var err error
	for i := 0; i < 10 && err == nil; i++ {
		var tok token.Token
		tok, err = l.Next()
		if tok.Type == token.EOF {
			break
		}
	}
	require.Error(t, err)
	require.Contains(t, err.Error(), "unterminated string")
}

func TestBadDedent(t *testing.T) {
	l := New("if x:\n        pass\n    pass\n")
	var err error
	for i := 0; i < 20 && err == nil; i++ {
		var tok token.Token
		tok, err = l.Next()
		if tok.Type == token.EOF {
			break
		}
	}
	require.Error(t, err)
	require.Contains(t, err.Error(), "unindent")
}

func TestPositions(t *testing.T) {
	tokens := collect(t, "x = 1\ny = 2\n")
	// "y" starts at line 2, column 1.
	y := tokens[4]
	require.Equal(t, token.IDENT, y.Type)
	require.Equal(t, "y", y.Literal)
	require.Equal(t, 2, y.StartPosition.LineNumber())
	require.Equal(t, 1, y.StartPosition.ColumnNumber())
}

func TestLineJoining(t *testing.T) {
	tokens := collect(t, "x = 1 + \\\n    2\n")
	require.Equal(t, []token.Type{
		token.IDENT, token.ASSIGN, token.INT, token.PLUS, token.INT,
		token.NEWLINE, token.EOF,
	}, types(tokens))
}
