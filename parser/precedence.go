package parser

import "github.com/cloudcmds/refit/internal/token"

// Precedence order for operators
const (
	_ int = iota
	LOWEST
	TERNARY     // x if cond else y
	COND        // or, and
	NOT         // not x
	COMPARISON  // ==, !=, <, <=, >, >=, in, not in
	SUM         // + or -
	PRODUCT     // *, /, //, %
	POWER       // **
	PREFIX      // -x
	CALL        // f(x)
	INDEX       // a[i], a.b
	HIGHEST
)

// Precedences for each token type
var precedences = map[token.Type]int{
	token.IF:       TERNARY,
	token.OR:       COND,
	token.AND:      COND,
	token.NOT:      COMPARISON,
	token.EQ:       COMPARISON,
	token.NOT_EQ:   COMPARISON,
	token.LT:       COMPARISON,
	token.LT_EQ:    COMPARISON,
	token.GT:       COMPARISON,
	token.GT_EQ:    COMPARISON,
	token.IN:       COMPARISON,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.FLOORDIV: PRODUCT,
	token.MOD:      PRODUCT,
	token.POW:      POWER,
	token.LPAREN:   CALL,
	token.LBRACKET: INDEX,
	token.PERIOD:   INDEX,
}
