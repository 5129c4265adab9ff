package parser

import (
	"fmt"

	"github.com/glint-lang/glint/internal/ast"
	cerrors "github.com/glint-lang/glint/internal/errors"
	"github.com/glint-lang/glint/internal/lexer"
	"github.com/glint-lang/glint/internal/types"
)

// binaryPrecedence gives each binary operator's precedence level, lowest
// first: || and &&, then comparisons, then +/-, then * / %, then **.
// Every level is left-associative, including **.
var binaryPrecedence = map[lexer.TokenType]int{
	lexer.TokenOr:         1,
	lexer.TokenAnd:        1,
	lexer.TokenEquals:     2,
	lexer.TokenNotEquals:  2,
	lexer.TokenLess:       2,
	lexer.TokenMore:       2,
	lexer.TokenLE:         2,
	lexer.TokenGE:         2,
	lexer.TokenAdd:        3,
	lexer.TokenSubtract:   3,
	lexer.TokenMultiply:   4,
	lexer.TokenDivide:     4,
	lexer.TokenModulo:     4,
	lexer.TokenPower:      5,
}

var binaryOps = map[lexer.TokenType]ast.BinaryOperator{
	lexer.TokenOr:        ast.BinOr,
	lexer.TokenAnd:       ast.BinAnd,
	lexer.TokenEquals:    ast.BinEq,
	lexer.TokenNotEquals: ast.BinNotEq,
	lexer.TokenLess:      ast.BinLess,
	lexer.TokenMore:      ast.BinMore,
	lexer.TokenLE:        ast.BinLE,
	lexer.TokenGE:        ast.BinGE,
	lexer.TokenAdd:       ast.BinAdd,
	lexer.TokenSubtract:  ast.BinSub,
	lexer.TokenMultiply:  ast.BinMul,
	lexer.TokenDivide:    ast.BinDiv,
	lexer.TokenModulo:    ast.BinMod,
	lexer.TokenPower:     ast.BinPow,
}

// parseExprAgainst parses one full expression - values folded with
// left-associative binary operators by precedence - and checks the
// result against want. This is the only entry point statements and
// postfix/literal contexts use to parse a sub-expression.
func (p *Parser) parseExprAgainst(want *types.Type) (ast.Value, error) {
	v, err := p.parseBinary(1)
	if err != nil {
		return nil, err
	}
	if !typeCompatible(want, ast.TypeOf(v)) {
		return nil, p.errAt(p.peek(), cerrors.UnexpectedType, "expected %s, got %s", want, ast.TypeOf(v))
	}
	return v, nil
}

// parseBinary climbs precedence starting at minPrec. The left operand's
// resolved type (inferred bottom-up from an Auto-seeded atom) decides
// both whether the next operator is legal and what type the right
// operand is checked against - the bidirectional propagation the value
// parser doesn't need to know about.
func (p *Parser) parseBinary(minPrec int) (ast.Value, error) {
	lhs, err := p.parseValue(types.NewAuto())
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		prec, ok := binaryPrecedence[tok.Type]
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		resultType, operandWant, err := p.binaryOperandRules(tok, ast.TypeOf(lhs))
		if err != nil {
			return nil, err
		}
		rhs, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		if !typeCompatible(operandWant, ast.TypeOf(rhs)) {
			return nil, p.errAt(tok, cerrors.UnexpectedType, "operands of %q must agree in type", tok.Lexeme)
		}
		lhs = &ast.BinaryOp{
			ValueBase: ast.ValueBase{Type: resultType, ID: p.nextValueID()},
			Op:        binaryOps[tok.Type],
			LHS:       lhs,
			RHS:       rhs,
		}
	}
	return lhs, nil
}

// binaryOperandRules validates lhsType against the operator being applied
// and reports the expression's result type plus the type the right
// operand must match.
func (p *Parser) binaryOperandRules(tok lexer.Token, lhsType *types.Type) (resultType, operandType *types.Type, err error) {
	switch tok.Type {
	case lexer.TokenAnd, lexer.TokenOr:
		if !typeCompatible(types.NewBool(), lhsType) {
			return nil, nil, p.errAt(tok, cerrors.UnexpectedType, "operands of %q must be bool", tok.Lexeme)
		}
		return types.NewBool(), types.NewBool(), nil
	case lexer.TokenEquals, lexer.TokenNotEquals, lexer.TokenLess, lexer.TokenMore, lexer.TokenLE, lexer.TokenGE:
		return types.NewBool(), types.Copy(lhsType), nil
	case lexer.TokenAdd, lexer.TokenSubtract, lexer.TokenMultiply, lexer.TokenDivide, lexer.TokenModulo, lexer.TokenPower:
		if !typeCompatible(types.NewLong(), lhsType) && !typeCompatible(types.NewFloat(), lhsType) {
			return nil, nil, p.errAt(tok, cerrors.UnexpectedType, "operands of %q must be long or float", tok.Lexeme)
		}
		return types.Copy(lhsType), types.Copy(lhsType), nil
	default:
		return nil, nil, cerrors.NewInternal(tok.File, tok.Line, fmt.Errorf("unhandled binary operator %q", tok.Lexeme))
	}
}
