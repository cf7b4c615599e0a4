// Package lexer provides a lexer for Python-subset source code.
//
// Block structure is significant whitespace, so the lexer maintains an
// indentation stack and emits synthetic INDENT and DEDENT tokens around
// NEWLINE at the start of each logical line. Newlines inside parentheses
// or brackets are insignificant and are swallowed.
package lexer

import (
	"fmt"
	"strings"

	"github.com/cloudcmds/refit/internal/token"
)

// tabWidth is the number of columns a tab advances to, matching CPython's
// tokenizer default.
const tabWidth = 8

// Lexer tokenizes an input string.
type Lexer struct {
	input string

	// position is the byte offset of the current character.
	position int

	// readPosition is the byte offset of the next character to read.
	readPosition int

	// ch is the current character, or 0 at end of input.
	ch byte

	// line and lineStart describe the current character's location.
	line      int
	lineStart int

	// indents is the stack of active indentation widths. It always
	// contains at least the implicit width 0.
	indents []int

	// pending holds synthetic tokens (NEWLINE, INDENT, DEDENT, EOF)
	// queued for emission before more input is consumed.
	pending []token.Token

	// parenDepth tracks open parentheses and brackets, within which
	// newlines are insignificant.
	parenDepth int

	// atLineStart is true when the next characters to consume are the
	// indentation of a new logical line.
	atLineStart bool

	// emittedEOF prevents trailing NEWLINE/DEDENT tokens from being
	// generated more than once.
	emittedEOF bool

	filename string
}

// New returns a Lexer for the given input string.
func New(input string) *Lexer {
	l := &Lexer{
		input:       input,
		indents:     []int{0},
		atLineStart: true,
	}
	l.readChar()
	return l
}

// SetFilename sets the file name used in token positions and errors.
func (l *Lexer) SetFilename(filename string) {
	l.filename = filename
}

// Filename returns the file name associated with this lexer's input.
func (l *Lexer) Filename() string {
	return l.filename
}

// GetLineText returns the text of the line on which the given token starts.
func (l *Lexer) GetLineText(tok token.Token) string {
	start := tok.StartPosition.LineStart
	if start < 0 || start > len(l.input) {
		return ""
	}
	end := strings.IndexByte(l.input[start:], '\n')
	if end < 0 {
		return l.input[start:]
	}
	return l.input[start : start+end]
}

// Next returns the next token from the input. Once the input is exhausted,
// Next returns EOF tokens forever.
func (l *Lexer) Next() (token.Token, error) {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok, nil
	}
	if l.atLineStart && l.parenDepth == 0 {
		if err := l.handleIndentation(); err != nil {
			return l.newToken(token.ILLEGAL, ""), err
		}
		if len(l.pending) > 0 {
			tok := l.pending[0]
			l.pending = l.pending[1:]
			return tok, nil
		}
	}
	l.skipSpaces()
	if l.ch == '#' {
		l.skipComment()
	}

	switch l.ch {
	case 0:
		return l.endOfInput(), nil
	case '\n':
		start := l.currentPosition()
		l.readChar()
		if l.parenDepth > 0 {
			return l.Next()
		}
		l.atLineStart = true
		return token.Token{
			Type:          token.NEWLINE,
			Literal:       "\n",
			StartPosition: start,
			EndPosition:   start,
		}, nil
	case '"', '\'':
		return l.readString(l.ch)
	}

	if isDigit(l.ch) {
		return l.readNumber()
	}
	if isIdentStart(l.ch) {
		return l.readIdentifier(), nil
	}
	return l.readOperator()
}

// handleIndentation consumes leading whitespace on a new logical line and
// queues INDENT/DEDENT tokens as needed. Blank and comment-only lines are
// skipped entirely.
func (l *Lexer) handleIndentation() error {
	for {
		width := 0
		for l.ch == ' ' || l.ch == '\t' {
			if l.ch == '\t' {
				width = (width/tabWidth + 1) * tabWidth
			} else {
				width++
			}
			l.readChar()
		}
		if l.ch == '#' {
			l.skipComment()
		}
		if l.ch == '\n' {
			l.readChar()
			continue // blank line: indentation is not significant
		}
		if l.ch == 0 {
			return nil // end of input: only DEDENTs remain
		}
		l.atLineStart = false
		current := l.indents[len(l.indents)-1]
		switch {
		case width > current:
			l.indents = append(l.indents, width)
			l.pending = append(l.pending, l.newToken(token.INDENT, ""))
		case width < current:
			for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
				l.indents = l.indents[:len(l.indents)-1]
				l.pending = append(l.pending, l.newToken(token.DEDENT, ""))
			}
			if l.indents[len(l.indents)-1] != width {
				return fmt.Errorf("unindent does not match any outer indentation level (line %d)", l.line+1)
			}
		}
		return nil
	}
}

// endOfInput queues the final NEWLINE, any outstanding DEDENTs, and EOF.
func (l *Lexer) endOfInput() token.Token {
	if !l.emittedEOF {
		l.emittedEOF = true
		if !l.atLineStart {
			l.pending = append(l.pending, l.newToken(token.NEWLINE, ""))
		}
		for len(l.indents) > 1 {
			l.indents = l.indents[:len(l.indents)-1]
			l.pending = append(l.pending, l.newToken(token.DEDENT, ""))
		}
		l.pending = append(l.pending, l.newToken(token.EOF, ""))
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}
	return l.newToken(token.EOF, "")
}

func (l *Lexer) readIdentifier() token.Token {
	start := l.currentPosition()
	begin := l.position
	for isIdentStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	literal := l.input[begin:l.position]
	return token.Token{
		Type:          token.LookupIdentifier(literal),
		Literal:       literal,
		StartPosition: start,
		EndPosition:   l.currentPosition(),
	}
}

func (l *Lexer) readNumber() (token.Token, error) {
	start := l.currentPosition()
	begin := l.position
	typ := token.INT
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		typ = token.FLOAT
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return token.Token{
		Type:          typ,
		Literal:       l.input[begin:l.position],
		StartPosition: start,
		EndPosition:   l.currentPosition(),
	}, nil
}

func (l *Lexer) readString(quote byte) (token.Token, error) {
	start := l.currentPosition()
	l.readChar() // consume opening quote
	var sb strings.Builder
	for l.ch != quote {
		if l.ch == 0 || l.ch == '\n' {
			return l.newToken(token.ILLEGAL, sb.String()),
				fmt.Errorf("unterminated string literal (line %d)", start.LineNumber())
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '\'', '"':
				sb.WriteByte(l.ch)
			default:
				sb.WriteByte('\\')
				sb.WriteByte(l.ch)
			}
			l.readChar()
			continue
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote
	return token.Token{
		Type:          token.STRING,
		Literal:       sb.String(),
		StartPosition: start,
		EndPosition:   l.currentPosition(),
	}, nil
}

func (l *Lexer) readOperator() (token.Token, error) {
	start := l.currentPosition()
	two := l.twoChar()
	three := l.threeChar()

	var typ token.Type
	switch three {
	case "//=":
		typ = token.FLOORDIV_EQ
	}
	if typ == "" {
		switch two {
		case "**":
			typ = token.POW
		case "//":
			typ = token.FLOORDIV
		case "==":
			typ = token.EQ
		case "!=":
			typ = token.NOT_EQ
		case "<=":
			typ = token.LT_EQ
		case ">=":
			typ = token.GT_EQ
		case "+=":
			typ = token.PLUS_EQ
		case "-=":
			typ = token.MINUS_EQ
		case "*=":
			typ = token.ASTERISK_EQ
		case "/=":
			typ = token.SLASH_EQ
		case "%=":
			typ = token.MOD_EQ
		}
	}
	if typ != "" {
		literal := string(typ)
		for range literal {
			l.readChar()
		}
		return token.Token{
			Type:          typ,
			Literal:       literal,
			StartPosition: start,
			EndPosition:   l.currentPosition(),
		}, nil
	}

	ch := l.ch
	switch ch {
	case '+':
		typ = token.PLUS
	case '-':
		typ = token.MINUS
	case '*':
		typ = token.ASTERISK
	case '/':
		typ = token.SLASH
	case '%':
		typ = token.MOD
	case '=':
		typ = token.ASSIGN
	case '<':
		typ = token.LT
	case '>':
		typ = token.GT
	case ',':
		typ = token.COMMA
	case ':':
		typ = token.COLON
	case '.':
		typ = token.PERIOD
	case ';':
		typ = token.SEMICOLON
	case '(':
		typ = token.LPAREN
		l.parenDepth++
	case ')':
		typ = token.RPAREN
		if l.parenDepth > 0 {
			l.parenDepth--
		}
	case '[':
		typ = token.LBRACKET
		l.parenDepth++
	case ']':
		typ = token.RBRACKET
		if l.parenDepth > 0 {
			l.parenDepth--
		}
	default:
		l.readChar()
		return l.newToken(token.ILLEGAL, string(ch)),
			fmt.Errorf("unexpected character %q (line %d)", string(ch), start.LineNumber())
	}
	l.readChar()
	return token.Token{
		Type:          typ,
		Literal:       string(ch),
		StartPosition: start,
		EndPosition:   l.currentPosition(),
	}, nil
}

func (l *Lexer) skipSpaces() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
	// Explicit line joining with a trailing backslash.
	if l.ch == '\\' && l.peekChar() == '\n' {
		l.readChar()
		l.readChar()
		l.skipSpaces()
	}
}

func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.lineStart = l.readPosition
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		return
	}
	l.ch = l.input[l.readPosition]
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) twoChar() string {
	if l.readPosition >= len(l.input) {
		return ""
	}
	return l.input[l.position : l.readPosition+1]
}

func (l *Lexer) threeChar() string {
	if l.readPosition+1 >= len(l.input) {
		return ""
	}
	return l.input[l.position : l.readPosition+2]
}

func (l *Lexer) currentPosition() token.Position {
	return token.Position{
		Char:      l.position,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.position - l.lineStart,
		File:      l.filename,
	}
}

func (l *Lexer) newToken(typ token.Type, literal string) token.Token {
	pos := l.currentPosition()
	return token.Token{
		Type:          typ,
		Literal:       literal,
		StartPosition: pos,
		EndPosition:   pos,
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
