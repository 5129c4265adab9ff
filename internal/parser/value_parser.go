package parser

import (
	"strconv"
	"strings"

	"github.com/glint-lang/glint/internal/ast"
	cerrors "github.com/glint-lang/glint/internal/errors"
	"github.com/glint-lang/glint/internal/lexer"
	"github.com/glint-lang/glint/internal/types"
)

// parseValue parses a primary expression and its postfix chain
// (`[index]`, `(args)`, `<targs>(args)`), assigns the value's dense ID
// once per production, and checks the result against the type the caller
// expects. This is the workhorse the expression parser bottoms out into.
func (p *Parser) parseValue(want *types.Type) (ast.Value, error) {
	parenthesized := p.check(lexer.TokenLParen)
	v, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !parenthesized { // a parenthesized expression already has its ID
		ast.SetID(v, p.nextValueID())
	}

	for {
		tok := p.peek()
		isCallStart := tok.Type == lexer.TokenLParen ||
			(tok.Type == lexer.TokenLess && ast.TypeOf(v).Kind == types.Proc)
		if tok.Type == lexer.TokenLBracket {
			v, err = p.parseIndexPostfix(v)
		} else if isCallStart {
			v, err = p.parseCallPostfix(v)
		} else {
			break
		}
		if err != nil {
			return nil, err
		}
		ast.SetID(v, p.nextValueID())
	}

	if !typeCompatible(want, ast.TypeOf(v)) {
		return nil, p.errAt(p.peek(), cerrors.UnexpectedType, "expected %s, got %s", want, ast.TypeOf(v))
	}
	return v, nil
}

func (p *Parser) parseIndexPostfix(v ast.Value) (ast.Value, error) {
	open := p.advance() // consume '['
	if ast.TypeOf(v).Kind != types.Array {
		return nil, p.errAt(open, cerrors.UnexpectedType, "cannot index a non-array value")
	}
	index, err := p.parseExprAgainst(types.NewLong())
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRBracket, "']'"); err != nil {
		return nil, err
	}
	elem := ast.TypeOf(v).Elem()
	if p.check(lexer.TokenSet) {
		p.advance()
		rhs, err := p.parseExprAgainst(elem)
		if err != nil {
			return nil, err
		}
		return &ast.SetIndex{
			ValueBase: ast.ValueBase{Type: types.Copy(elem)},
			Array:     v, Index: index, Value: rhs,
		}, nil
	}
	return &ast.GetIndex{
		ValueBase: ast.ValueBase{Type: types.Copy(elem)},
		Array:     v, Index: index,
	}, nil
}

func (p *Parser) parseCallPostfix(callee ast.Value) (ast.Value, error) {
	calleeType := ast.TypeOf(callee)
	if calleeType.Kind != types.Proc {
		return nil, p.errAt(p.peek(), cerrors.UnexpectedType, "cannot call a non-procedure value")
	}
	callType := types.Copy(calleeType)
	if callType.Match > 0 {
		if !p.check(lexer.TokenLess) {
			return nil, p.errAt(p.peek(), cerrors.UnexpectedArgumentSize, "expected explicit type arguments for generic call")
		}
		targs, err := p.parseSubTypes(false, false)
		if err != nil {
			return nil, err
		}
		if len(targs) != callType.Match {
			return nil, p.errAt(p.peek(), cerrors.UnexpectedArgumentSize, "expected %d type argument(s), got %d", callType.Match, len(targs))
		}
		callType = types.SubstituteTypeArgs(targs, callType)
	}
	if _, err := p.expect(lexer.TokenLParen, "'('"); err != nil {
		return nil, err
	}
	params := callType.Params()
	var args []ast.Value
	if !p.check(lexer.TokenRParen) {
		for {
			if len(args) >= len(params) {
				return nil, p.errAt(p.peek(), cerrors.UnexpectedArgumentSize, "too many arguments, expected %d", len(params))
			}
			arg, err := p.parseExprAgainst(params[len(args)])
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.check(lexer.TokenComma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.TokenRParen, "')'"); err != nil {
		return nil, err
	}
	if len(args) != len(params) {
		return nil, p.errAt(p.peek(), cerrors.UnexpectedArgumentSize, "expected %d argument(s), got %d", len(params), len(args))
	}
	return &ast.ProcCall{
		ValueBase: ast.ValueBase{Type: types.Copy(callType.Return())},
		Callee:    callee, Args: args, CallID: p.nextProcCallID(),
	}, nil
}

func (p *Parser) parsePrimary() (ast.Value, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenNumber:
		return p.parseNumber(tok)
	case lexer.TokenChar:
		p.advance()
		r, _, err := lexer.UnescapeChar(tok.Lexeme, 0)
		if err != nil {
			return nil, p.errAt(tok, cerrors.UnexpectedToken, "%v", err)
		}
		p.noteConstant()
		return &ast.Primitive{ValueBase: ast.ValueBase{Type: types.NewChar()}, Kind: ast.PrimChar, Char: r}, nil
	case lexer.TokenTrue, lexer.TokenFalse:
		p.advance()
		p.noteConstant()
		return &ast.Primitive{ValueBase: ast.ValueBase{Type: types.NewBool()}, Kind: ast.PrimBool, Bool: tok.Type == lexer.TokenTrue}, nil
	case lexer.TokenString:
		return p.parseStringLiteral(tok)
	case lexer.TokenLBracket:
		return p.parseArrayLiteral()
	case lexer.TokenNew:
		return p.parseAllocArray()
	case lexer.TokenIdent:
		return p.parseIdentValue(tok)
	case lexer.TokenLParen:
		p.advance()
		inner, err := p.parseExprAgainst(types.NewAuto())
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.TokenNot, lexer.TokenHashtag, lexer.TokenSubtract:
		return p.parseUnary(tok)
	case lexer.TokenProcType:
		return p.parseProcLiteral()
	default:
		return nil, p.errAt(tok, cerrors.UnexpectedToken, "unexpected token %q in expression", tok.Lexeme)
	}
}

func (p *Parser) parseNumber(tok lexer.Token) (ast.Value, error) {
	p.advance()
	p.noteConstant()
	lex := tok.Lexeme
	switch {
	case strings.HasSuffix(lex, "f") || strings.Contains(lex, "."):
		text := strings.TrimSuffix(lex, "f")
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errAt(tok, cerrors.UnexpectedToken, "invalid float literal %q", lex)
		}
		return &ast.Primitive{ValueBase: ast.ValueBase{Type: types.NewFloat()}, Kind: ast.PrimFloat, Float: f}, nil
	case strings.HasSuffix(lex, "h"):
		text := strings.TrimSuffix(lex, "h")
		n, err := strconv.ParseInt(text, 16, 64)
		if err != nil {
			return nil, p.errAt(tok, cerrors.UnexpectedToken, "invalid hex literal %q", lex)
		}
		return &ast.Primitive{ValueBase: ast.ValueBase{Type: types.NewLong()}, Kind: ast.PrimLong, Long: n}, nil
	default:
		n, err := strconv.ParseInt(lex, 10, 64)
		if err != nil {
			return nil, p.errAt(tok, cerrors.UnexpectedToken, "invalid integer literal %q", lex)
		}
		return &ast.Primitive{ValueBase: ast.ValueBase{Type: types.NewLong()}, Kind: ast.PrimLong, Long: n}, nil
	}
}

func (p *Parser) parseStringLiteral(tok lexer.Token) (ast.Value, error) {
	p.advance()
	elemType := types.NewChar()
	lit := &ast.ArrayLiteral{
		ValueBase: ast.ValueBase{Type: types.NewArray(elemType)},
		ElemType:  elemType,
	}
	for i := 0; i < len(tok.Lexeme); {
		r, next, err := lexer.UnescapeChar(tok.Lexeme, i)
		if err != nil {
			return nil, p.errAt(tok, cerrors.UnexpectedToken, "%v", err)
		}
		i = next
		lit.Elements = append(lit.Elements, &ast.Primitive{
			ValueBase: ast.ValueBase{Type: types.NewChar(), ID: p.nextValueID()},
			Kind:      ast.PrimChar, Char: r,
		})
		p.noteConstant()
	}
	return lit, nil
}

func (p *Parser) parseArrayLiteral() (ast.Value, error) {
	p.advance() // consume '['
	elemType := types.NewAuto()
	lit := &ast.ArrayLiteral{ValueBase: ast.ValueBase{Type: types.NewArray(elemType)}, ElemType: elemType}
	for !p.check(lexer.TokenRBracket) {
		elem, err := p.parseExprAgainst(elemType)
		if err != nil {
			return nil, err
		}
		if elemType.Kind == types.Auto {
			elemType = types.Copy(ast.TypeOf(elem))
			lit.ElemType = elemType
			lit.Type = types.NewArray(elemType)
		}
		lit.Elements = append(lit.Elements, elem)
		if !p.check(lexer.TokenComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lexer.TokenRBracket, "']'"); err != nil {
		return nil, err
	}
	return lit, nil
}

func (p *Parser) parseAllocArray() (ast.Value, error) {
	p.advance() // consume 'new'
	elemType, err := p.parseType(false, false)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBracket, "'['"); err != nil {
		return nil, err
	}
	size, err := p.parseExprAgainst(types.NewLong())
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRBracket, "']'"); err != nil {
		return nil, err
	}
	return &ast.AllocArray{
		ValueBase: ast.ValueBase{Type: types.NewArray(elemType)},
		ElemType:  elemType, Size: size,
	}, nil
}

func (p *Parser) parseIdentValue(tok lexer.Token) (ast.Value, error) {
	p.advance()
	info := p.scope.FindVar(tok.Lexeme)
	if info == nil {
		return nil, p.errAt(tok, cerrors.Undeclared, "undeclared identifier %q", tok.Lexeme)
	}
	if p.check(lexer.TokenSet) {
		p.advance()
		if info.IsReadonly {
			return nil, p.errAt(tok, cerrors.ReadOnly, "cannot assign to readonly variable %q", tok.Lexeme)
		}
		rhs, err := p.parseExprAgainst(info.Type)
		if err != nil {
			return nil, err
		}
		return &ast.SetVar{ValueBase: ast.ValueBase{Type: types.Copy(info.Type)}, Info: info, Value: rhs}, nil
	}
	return &ast.Var{ValueBase: ast.ValueBase{Type: types.Copy(info.Type)}, Info: info}, nil
}

// parseUnary parses `!x`, `#x` and `-x`. Each operator's legal operand
// type is intrinsic to the operator, not to the position the unary
// expression appears in - unlike the distilled source, which checked the
// operand against the caller's expected type with its parens nested
// around the wrong sub-expression and so sometimes validated the wrong
// thing. Here the operand is parsed against the type the operator itself
// demands, and the result bubbles up to be checked against the caller's
// expectation by parseValue.
func (p *Parser) parseUnary(tok lexer.Token) (ast.Value, error) {
	p.advance()
	switch tok.Type {
	case lexer.TokenNot:
		operand, err := p.parseExprAgainst(types.NewBool())
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{ValueBase: ast.ValueBase{Type: types.NewBool()}, Op: ast.UnaryNot, Operand: operand}, nil
	case lexer.TokenHashtag:
		operand, err := p.parseExprAgainst(types.NewArray(types.NewAuto()))
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{ValueBase: ast.ValueBase{Type: types.NewLong()}, Op: ast.UnaryLen, Operand: operand}, nil
	default: // lexer.TokenSubtract
		operand, err := p.parseExprAgainst(types.NewAuto())
		if err != nil {
			return nil, err
		}
		ot := ast.TypeOf(operand)
		if !typeCompatible(types.NewLong(), ot) && !typeCompatible(types.NewFloat(), ot) {
			return nil, p.errAt(tok, cerrors.UnexpectedType, "'-' requires a long or float operand, got %s", ot)
		}
		return &ast.UnaryOp{ValueBase: ast.ValueBase{Type: types.Copy(ot)}, Op: ast.UnaryNeg, Operand: operand}, nil
	}
}
