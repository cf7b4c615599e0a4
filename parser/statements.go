package parser

import (
	"github.com/cloudcmds/refit/ast"
	"github.com/cloudcmds/refit/internal/token"
)

// Statement parsing methods for the Parser.
// This file contains methods that parse statement constructs:
// - Function definitions
// - if/elif/else, while, for
// - return, pass
// - Assignment and augmented assignment
// - Suites (indented blocks and single-line suites)
//
// Every statement parser returns with curToken positioned on the first
// token following the statement, including its terminating NEWLINE.

// augAssignOps maps augmented-assignment token types to the operator text
// stored on the AugAssign node.
var augAssignOps = map[token.Type]string{
	token.PLUS_EQ:     "+=",
	token.MINUS_EQ:    "-=",
	token.ASTERISK_EQ: "*=",
	token.SLASH_EQ:    "/=",
	token.FLOORDIV_EQ: "//=",
	token.MOD_EQ:      "%=",
}

func (p *Parser) parseStatement() *ast.Node {
	switch p.curToken.Type {
	case token.DEF:
		return p.parseFunctionDef()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	default:
		return p.parseSimpleStatement()
	}
}

func (p *Parser) parseFunctionDef() *ast.Node {
	if !p.expectPeek("function definition", token.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	if !p.expectPeek("function definition", token.LPAREN) {
		return nil
	}
	var children []*ast.Node
	for !p.peekTokenIs(token.RPAREN) {
		if !p.expectPeek("parameter list", token.IDENT) {
			return nil
		}
		children = append(children, ast.NewNode(ast.Parameter, p.curToken.Literal))
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // consume ')'
	if !p.expectPeek("function definition", token.COLON) {
		return nil
	}
	body := p.parseSuite()
	if body == nil {
		return nil
	}
	children = append(children, body)
	return ast.NewNode(ast.FunctionDef, name, children...)
}

// parseIf parses an if statement along with any elif/else chain. An elif
// clause becomes a nested If statement as the sole member of the else
// suite.
func (p *Parser) parseIf() *ast.Node {
	p.nextToken() // consume 'if' / 'elif'
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	test := ast.NewNode(ast.IfTest, "", cond)
	if !p.expectPeek("if statement", token.COLON) {
		return nil
	}
	body := p.parseSuite()
	if body == nil {
		return nil
	}
	switch p.curToken.Type {
	case token.ELIF:
		nested := p.parseIf()
		if nested == nil {
			return nil
		}
		orelse := ast.NewNode(ast.Suite, "", nested)
		return ast.NewNode(ast.If, "", test, body, orelse)
	case token.ELSE:
		if !p.expectPeek("else clause", token.COLON) {
			return nil
		}
		orelse := p.parseSuite()
		if orelse == nil {
			return nil
		}
		return ast.NewNode(ast.If, "", test, body, orelse)
	}
	return ast.NewNode(ast.If, "", test, body)
}

func (p *Parser) parseWhile() *ast.Node {
	p.nextToken() // consume 'while'
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	test := ast.NewNode(ast.IfTest, "", cond)
	if !p.expectPeek("while statement", token.COLON) {
		return nil
	}
	body := p.parseSuite()
	if body == nil {
		return nil
	}
	return ast.NewNode(ast.While, "", test, body)
}

func (p *Parser) parseFor() *ast.Node {
	p.nextToken() // consume 'for'
	// Parse the target below IN precedence so that "in" remains the
	// loop keyword rather than a comparison.
	target := p.parseExpressionOrTuple(COMPARISON)
	if target == nil {
		return nil
	}
	if !p.expectPeek("for statement", token.IN) {
		return nil
	}
	p.nextToken()
	iter := p.parseExpressionOrTuple(LOWEST)
	if iter == nil {
		return nil
	}
	if !p.expectPeek("for statement", token.COLON) {
		return nil
	}
	body := p.parseSuite()
	if body == nil {
		return nil
	}
	return ast.NewNode(ast.For, "", target, iter, body)
}

func (p *Parser) parseReturn() *ast.Node {
	if p.peekTokenIs(token.NEWLINE) {
		return ast.NewNode(ast.Return, "")
	}
	p.nextToken()
	value := p.parseExpressionOrTuple(LOWEST)
	if value == nil {
		return nil
	}
	return ast.NewNode(ast.Return, "", value)
}

// parseSimpleStatement parses one statement that fits on a single line and
// consumes its terminating NEWLINE.
func (p *Parser) parseSimpleStatement() *ast.Node {
	var stmt *ast.Node
	switch p.curToken.Type {
	case token.RETURN:
		stmt = p.parseReturn()
	case token.PASS:
		stmt = ast.NewNode(ast.Pass, "")
	default:
		stmt = p.parseExpressionStatement()
	}
	if stmt == nil {
		return nil
	}
	if !p.expectPeek("statement", token.NEWLINE) {
		return nil
	}
	p.nextToken() // move past the NEWLINE
	return stmt
}

// parseExpressionStatement parses an expression line, which may turn out
// to be an assignment or augmented assignment.
func (p *Parser) parseExpressionStatement() *ast.Node {
	target := p.parseExpressionOrTuple(LOWEST)
	if target == nil {
		return nil
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken() // consume '='
		p.nextToken()
		value := p.parseExpressionOrTuple(LOWEST)
		if value == nil {
			return nil
		}
		return ast.NewNode(ast.Assign, "", target, value)
	}
	if op, ok := augAssignOps[p.peekToken.Type]; ok {
		p.nextToken() // consume the operator
		p.nextToken()
		value := p.parseExpressionOrTuple(LOWEST)
		if value == nil {
			return nil
		}
		return ast.NewNode(ast.AugAssign, op, target, value)
	}
	return ast.NewNode(ast.ExpressionStatement, "", target)
}

// parseSuite parses the body of a compound statement. The current token
// must be the COLON. Either an indented block follows on the next line, or
// a single simple statement follows on the same line.
func (p *Parser) parseSuite() *ast.Node {
	suite := ast.NewNode(ast.Suite, "")
	if !p.peekTokenIs(token.NEWLINE) {
		// Single-line suite: "if x: return y"
		p.nextToken()
		stmt := p.parseSimpleStatement()
		if stmt == nil {
			return nil
		}
		suite.Children = append(suite.Children, stmt)
		return suite
	}
	p.nextToken() // consume the NEWLINE
	if !p.expectPeek("indented block", token.INDENT) {
		return nil
	}
	p.nextToken() // move past the INDENT
	for !p.curTokenIs(token.DEDENT) && !p.curTokenIs(token.EOF) {
		if p.cancelled() {
			return nil
		}
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		suite.Children = append(suite.Children, stmt)
	}
	if p.curTokenIs(token.DEDENT) {
		p.nextToken() // move past the DEDENT
	}
	if len(suite.Children) == 0 {
		p.setTokenError(p.curToken, "expected an indented block")
		return nil
	}
	return suite
}
