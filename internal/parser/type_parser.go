package parser

import (
	cerrors "github.com/glint-lang/glint/internal/errors"
	"github.com/glint-lang/glint/internal/lexer"
	"github.com/glint-lang/glint/internal/types"
)

// parseType parses a single type expression per:
//
//	type ::= primitive
//	       | 'auto'                 (only if allowAuto)
//	       | 'nothing'              (only if allowNothing)
//	       | IDENT                  (must resolve as a generic)
//	       | ('array'|'proc') '<' type (',' type)* '>'
func (p *Parser) parseType(allowAuto, allowNothing bool) (*types.Type, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenBool:
		p.advance()
		return types.NewBool(), nil
	case lexer.TokenCharType:
		p.advance()
		return types.NewChar(), nil
	case lexer.TokenLongType:
		p.advance()
		return types.NewLong(), nil
	case lexer.TokenFloatType:
		p.advance()
		return types.NewFloat(), nil
	case lexer.TokenAuto:
		if !allowAuto {
			return nil, p.errAt(tok, cerrors.TypeNotAllowed, "'auto' is not allowed here")
		}
		p.advance()
		return types.NewAuto(), nil
	case lexer.TokenNothing:
		if !allowNothing {
			return nil, p.errAt(tok, cerrors.TypeNotAllowed, "'nothing' is not allowed here")
		}
		p.advance()
		return types.NewNothing(), nil
	case lexer.TokenIdent:
		idx := p.scope.FindGeneric(tok.Lexeme)
		if idx == 0 {
			return nil, p.errAt(tok, cerrors.Undeclared, "undeclared generic %q", tok.Lexeme)
		}
		p.advance()
		return types.NewTypeArg(idx - 1), nil
	case lexer.TokenArrayType:
		p.advance()
		sub, err := p.parseSubTypes(false, false)
		if err != nil {
			return nil, err
		}
		if len(sub) != 1 {
			return nil, p.errAt(tok, cerrors.ExpectedSubTypes, "array takes exactly one sub-type, got %d", len(sub))
		}
		return types.NewArray(sub[0]), nil
	case lexer.TokenProcType:
		p.advance()
		sub, err := p.parseProcSubTypes()
		if err != nil {
			return nil, err
		}
		return &types.Type{Kind: types.Proc, SubTypes: sub}, nil
	default:
		return nil, p.errAt(tok, cerrors.UnexpectedToken, "expected a type, got %q", tok.Lexeme)
	}
}

// parseSubTypes parses `< type (',' type)* >` where every sub-type is
// parsed with the given auto/nothing policy.
func (p *Parser) parseSubTypes(allowAuto, allowNothing bool) ([]*types.Type, error) {
	if _, err := p.expect(lexer.TokenLess, "'<'"); err != nil {
		return nil, err
	}
	var sub []*types.Type
	for {
		if len(sub) == types.MaxSubTypes {
			return nil, p.errAt(p.peek(), cerrors.Memory, "too many sub-types (max %d)", types.MaxSubTypes)
		}
		t, err := p.parseType(allowAuto, allowNothing)
		if err != nil {
			return nil, err
		}
		sub = append(sub, t)
		if !p.check(lexer.TokenComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lexer.TokenMore, "'>'"); err != nil {
		return nil, err
	}
	return sub, nil
}

// parseProcSubTypes is parseSubTypes specialized for `proc<...>`: the
// first sub-type (the return type) may be `nothing`, and none may be
// `auto`.
func (p *Parser) parseProcSubTypes() ([]*types.Type, error) {
	if _, err := p.expect(lexer.TokenLess, "'<'"); err != nil {
		return nil, err
	}
	var sub []*types.Type
	for {
		if len(sub) == types.MaxSubTypes {
			return nil, p.errAt(p.peek(), cerrors.Memory, "too many sub-types (max %d)", types.MaxSubTypes)
		}
		t, err := p.parseType(false, len(sub) == 0)
		if err != nil {
			return nil, err
		}
		sub = append(sub, t)
		if !p.check(lexer.TokenComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lexer.TokenMore, "'>'"); err != nil {
		return nil, err
	}
	return sub, nil
}
