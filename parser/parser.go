// Package parser is used to generate the abstract syntax tree (AST) for a
// Python-subset program.
//
// A parser is created by calling New() with a lexer as input. The parser
// should then be used only once, by calling parser.Parse() to produce the
// AST.
package parser

import (
	"context"
	"fmt"

	"github.com/cloudcmds/refit/ast"
	"github.com/cloudcmds/refit/internal/lexer"
	"github.com/cloudcmds/refit/internal/token"
)

type (
	prefixParseFn func() *ast.Node
	infixParseFn  func(*ast.Node) *ast.Node
)

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// Parse the provided input as source code and return the wrapped AST. This
// is a shorthand way to create a Lexer and Parser and then call Parse on
// that. The returned tree has ids and parent links assigned.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Node, error) {
	l := lexer.New(input)
	p := New(l, options...)
	if p.filename != "" {
		l.SetFilename(p.filename)
	}
	return p.Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name used in error messages.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser. This
// prevents stack overflow on deeply nested input. The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	// l is our lexer
	l *lexer.Lexer

	// prevToken holds the previous token, which we already processed.
	prevToken token.Token

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	// parsing errors collected during parsing
	errors []ParserError

	// prefixParseFns holds a map of parsing methods for
	// prefix-based syntax.
	prefixParseFns map[token.Type]prefixParseFn

	// infixParseFns holds a map of parsing methods for
	// infix-based syntax.
	infixParseFns map[token.Type]infixParseFn

	// The filename of the input
	filename string

	// Current recursion depth
	depth int

	// Maximum allowed recursion depth
	maxDepth int
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:              l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}

	// Prime the token pump
	p.nextToken() // makes curToken=<empty>, peekToken=token[0]
	p.nextToken() // makes curToken=token[0], peekToken=token[1]

	// Register prefix-functions
	p.registerPrefix(token.IDENT, p.parseName)
	p.registerPrefix(token.INT, p.parseConstant)
	p.registerPrefix(token.FLOAT, p.parseConstant)
	p.registerPrefix(token.STRING, p.parseStringConstant)
	p.registerPrefix(token.TRUE, p.parseConstant)
	p.registerPrefix(token.FALSE, p.parseConstant)
	p.registerPrefix(token.NONE, p.parseConstant)
	p.registerPrefix(token.MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.NOT, p.parsePrefixExpr)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.EOF, p.illegalToken)
	p.registerPrefix(token.ILLEGAL, p.illegalToken)

	// Register infix functions
	p.registerInfix(token.PLUS, p.parseBinaryOp)
	p.registerInfix(token.MINUS, p.parseBinaryOp)
	p.registerInfix(token.ASTERISK, p.parseBinaryOp)
	p.registerInfix(token.SLASH, p.parseBinaryOp)
	p.registerInfix(token.FLOORDIV, p.parseBinaryOp)
	p.registerInfix(token.MOD, p.parseBinaryOp)
	p.registerInfix(token.POW, p.parseBinaryOp)
	p.registerInfix(token.EQ, p.parseCompare)
	p.registerInfix(token.NOT_EQ, p.parseCompare)
	p.registerInfix(token.LT, p.parseCompare)
	p.registerInfix(token.LT_EQ, p.parseCompare)
	p.registerInfix(token.GT, p.parseCompare)
	p.registerInfix(token.GT_EQ, p.parseCompare)
	p.registerInfix(token.IN, p.parseCompare)
	p.registerInfix(token.NOT, p.parseNotIn)
	p.registerInfix(token.AND, p.parseBoolOp)
	p.registerInfix(token.OR, p.parseBoolOp)
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.LBRACKET, p.parseSubscript)
	p.registerInfix(token.PERIOD, p.parseAttribute)
	p.registerInfix(token.IF, p.parseConditional)

	return p
}

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) {
	p.prefixParseFns[t] = fn
}

func (p *Parser) registerInfix(t token.Type, fn infixParseFn) {
	p.infixParseFns[t] = fn
}

// nextToken moves to the next token from the lexer, updating all of
// prevToken, curToken, and peekToken.
func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	var err error
	p.peekToken, err = p.l.Next()
	if err == nil {
		return
	}
	// The lexer encountered an error. We consider all lexer errors
	// "syntax errors" and parsing will now be considered broken.
	p.addError(NewSyntaxError(ErrorOpts{
		Cause:         err,
		File:          p.l.Filename(),
		StartPosition: p.peekToken.StartPosition,
		EndPosition:   p.peekToken.EndPosition,
		SourceCode:    p.l.GetLineText(p.peekToken),
	}))
}

// Parse the program that is provided via the lexer. Returns the wrapped
// AST root (a Module node) and any errors encountered.
func (p *Parser) Parse(ctx context.Context) (*ast.Node, error) {
	p.ctx = ctx
	if p.hasErrors() {
		return nil, NewErrors(p.errors)
	}
	module := ast.NewNode(ast.Module, "")
	for !p.curTokenIs(token.EOF) {
		if p.cancelled() {
			return nil, ctx.Err()
		}
		if p.hasErrors() {
			return nil, NewErrors(p.errors)
		}
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt == nil {
			if p.hasErrors() {
				return nil, NewErrors(p.errors)
			}
			p.setTokenError(p.curToken, "unexpected token %q", p.curToken.Literal)
			return nil, NewErrors(p.errors)
		}
		module.Children = append(module.Children, stmt)
	}
	if p.hasErrors() {
		return nil, NewErrors(p.errors)
	}
	return ast.Wrap(module), nil
}

func (p *Parser) cancelled() bool {
	select {
	case <-p.ctx.Done():
		return true
	default:
		return false
	}
}

func (p *Parser) hasErrors() bool {
	return len(p.errors) > 0
}

func (p *Parser) addError(err ParserError) {
	p.errors = append(p.errors, err)
}

// setTokenError records an error at the position of the given token.
func (p *Parser) setTokenError(tok token.Token, format string, args ...interface{}) {
	p.addError(NewSyntaxError(ErrorOpts{
		Message:       fmt.Sprintf(format, args...),
		File:          p.l.Filename(),
		StartPosition: tok.StartPosition,
		EndPosition:   tok.EndPosition,
		SourceCode:    p.l.GetLineText(tok),
	}))
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek advances to the next token if the peek token has the expected
// type, and otherwise records an error and returns false.
func (p *Parser) expectPeek(context string, t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	if context == "" {
		p.setTokenError(p.peekToken, "unexpected token %q (expected %s)",
			p.peekToken.Literal, string(t))
	} else {
		p.setTokenError(p.peekToken, "unexpected token %q in %s (expected %s)",
			p.peekToken.Literal, context, string(t))
	}
	return false
}

func (p *Parser) curPrecedence() int {
	if precedence, ok := precedences[p.curToken.Type]; ok {
		return precedence
	}
	return LOWEST
}

func (p *Parser) peekPrecedence() int {
	if precedence, ok := precedences[p.peekToken.Type]; ok {
		return precedence
	}
	return LOWEST
}

func (p *Parser) illegalToken() *ast.Node {
	p.setTokenError(p.curToken, "unexpected token %q", p.curToken.Literal)
	return nil
}

func (p *Parser) enterNode() bool {
	p.depth++
	if p.depth > p.maxDepth {
		p.setTokenError(p.curToken, "maximum nesting depth exceeded")
		return false
	}
	return true
}

func (p *Parser) exitNode() {
	p.depth--
}
