package parser

import (
	"strings"

	"github.com/cloudcmds/refit/ast"
	"github.com/cloudcmds/refit/internal/token"
)

// Expression parsing methods for the Parser, using Pratt parsing driven by
// the prefix and infix function tables registered in New.
//
// Every expression parser returns with curToken positioned on the last
// token of the expression it parsed.

func (p *Parser) parseExpression(precedence int) *ast.Node {
	if !p.enterNode() {
		return nil
	}
	defer p.exitNode()
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.setTokenError(p.curToken, "invalid syntax near %q", p.curToken.Literal)
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}
	for !p.peekTokenIs(token.NEWLINE) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

// parseExpressionOrTuple parses one expression and, if a comma follows,
// keeps going to build an unparenthesized Tuple node.
func (p *Parser) parseExpressionOrTuple(precedence int) *ast.Node {
	first := p.parseExpression(precedence)
	if first == nil {
		return nil
	}
	if !p.peekTokenIs(token.COMMA) {
		return first
	}
	tuple := ast.NewNode(ast.Tuple, "", first)
	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // consume ','
		if p.peekTokenIs(token.NEWLINE) || p.peekTokenIs(token.RPAREN) ||
			p.peekTokenIs(token.RBRACKET) || p.peekTokenIs(token.COLON) {
			break // trailing comma
		}
		p.nextToken()
		item := p.parseExpression(precedence)
		if item == nil {
			return nil
		}
		tuple.Children = append(tuple.Children, item)
	}
	return tuple
}

func (p *Parser) parseName() *ast.Node {
	return ast.NewNode(ast.Name, p.curToken.Literal)
}

func (p *Parser) parseConstant() *ast.Node {
	return ast.NewNode(ast.Constant, p.curToken.Literal)
}

// parseStringConstant stores the string literal in Python source form so
// that unparsing reproduces a parseable literal.
func (p *Parser) parseStringConstant() *ast.Node {
	s := p.curToken.Literal
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "'", "\\'")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return ast.NewNode(ast.Constant, "'"+s+"'")
}

func (p *Parser) parsePrefixExpr() *ast.Node {
	op := p.curToken.Literal
	precedence := PREFIX
	if p.curTokenIs(token.NOT) {
		precedence = NOT
	}
	p.nextToken()
	operand := p.parseExpression(precedence)
	if operand == nil {
		return nil
	}
	return ast.NewNode(ast.UnaryOp, op, operand)
}

func (p *Parser) parseBinaryOp(left *ast.Node) *ast.Node {
	op := p.curToken.Literal
	precedence := p.curPrecedence()
	if p.curTokenIs(token.POW) {
		precedence-- // right associative
	}
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return ast.NewNode(ast.BinaryOp, op, left, right)
}

func (p *Parser) parseCompare(left *ast.Node) *ast.Node {
	op := p.curToken.Literal
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return ast.NewNode(ast.Compare, op, left, right)
}

// parseNotIn handles the two-token "not in" comparison operator.
func (p *Parser) parseNotIn(left *ast.Node) *ast.Node {
	if !p.expectPeek("comparison", token.IN) {
		return nil
	}
	p.nextToken()
	right := p.parseExpression(COMPARISON)
	if right == nil {
		return nil
	}
	return ast.NewNode(ast.Compare, "not in", left, right)
}

func (p *Parser) parseBoolOp(left *ast.Node) *ast.Node {
	op := p.curToken.Literal
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return ast.NewNode(ast.BoolOp, op, left, right)
}

func (p *Parser) parseCall(fn *ast.Node) *ast.Node {
	call := ast.NewNode(ast.Call, "", fn)
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return call
	}
	p.nextToken()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil
	}
	call.Children = append(call.Children, ast.NewNode(ast.Arg, "", arg))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // consume ','
		if p.peekTokenIs(token.RPAREN) {
			break // trailing comma
		}
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		call.Children = append(call.Children, ast.NewNode(ast.Arg, "", arg))
	}
	if !p.expectPeek("call arguments", token.RPAREN) {
		return nil
	}
	return call
}

func (p *Parser) parseSubscript(obj *ast.Node) *ast.Node {
	p.nextToken()
	index := p.parseExpressionOrTuple(LOWEST)
	if index == nil {
		return nil
	}
	if !p.expectPeek("subscript", token.RBRACKET) {
		return nil
	}
	return ast.NewNode(ast.Subscript, "", obj, index)
}

func (p *Parser) parseAttribute(obj *ast.Node) *ast.Node {
	if !p.expectPeek("attribute access", token.IDENT) {
		return nil
	}
	return ast.NewNode(ast.Attribute, p.curToken.Literal, obj)
}

// parseConditional parses "body if test else orelse".
func (p *Parser) parseConditional(body *ast.Node) *ast.Node {
	p.nextToken()
	test := p.parseExpression(LOWEST)
	if test == nil {
		return nil
	}
	if !p.expectPeek("conditional expression", token.ELSE) {
		return nil
	}
	p.nextToken()
	orelse := p.parseExpression(TERNARY)
	if orelse == nil {
		return nil
	}
	return ast.NewNode(ast.Conditional, "", body, test, orelse)
}

func (p *Parser) parseGroupedExpr() *ast.Node {
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return ast.NewNode(ast.Parenthesis, "", ast.NewNode(ast.Tuple, ""))
	}
	p.nextToken()
	inner := p.parseExpressionOrTuple(LOWEST)
	if inner == nil {
		return nil
	}
	if !p.expectPeek("parenthesized expression", token.RPAREN) {
		return nil
	}
	return ast.NewNode(ast.Parenthesis, "", inner)
}
