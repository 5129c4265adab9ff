package parser

import (
	"github.com/glint-lang/glint/internal/ast"
	cerrors "github.com/glint-lang/glint/internal/errors"
	"github.com/glint-lang/glint/internal/lexer"
	"github.com/glint-lang/glint/internal/scope"
	"github.com/glint-lang/glint/internal/types"
)

// parseProcLiteral parses a first-class procedure value:
//
//	proc ['<' ident (',' ident)* '>'] '(' (type ident (',' type ident)*)? ')' 'return' type block
//
// The literal always opens a fresh generic scope. The generic parameters,
// if any, are declared there, and the parameter types, return type, and
// body may all reference them by name; parseType resolves such references
// through scope.FindGeneric.
func (p *Parser) parseProcLiteral() (ast.Value, error) {
	tok := p.advance() // consume 'proc'
	if _, err := p.scope.PushFrame(false); err != nil {
		return nil, p.scopeErr(tok, err)
	}

	match := 0
	if p.check(lexer.TokenLess) {
		p.advance()
		for {
			nameTok, err := p.expect(lexer.TokenIdent, "a generic parameter name")
			if err != nil {
				p.scope.PopFrame()
				return nil, err
			}
			if err := p.scope.DeclareGeneric(nameTok.Lexeme); err != nil {
				p.scope.PopFrame()
				return nil, p.scopeErr(nameTok, err)
			}
			match++
			if !p.check(lexer.TokenComma) {
				break
			}
			p.advance()
		}
		if _, err := p.expect(lexer.TokenMore, "'>'"); err != nil {
			p.scope.PopFrame()
			return nil, err
		}
	}

	if _, err := p.expect(lexer.TokenLParen, "'('"); err != nil {
		p.scope.PopFrame()
		return nil, err
	}
	var params []*scope.VarInfo
	var paramTypes []*types.Type
	if !p.check(lexer.TokenRParen) {
		for {
			if len(params) >= types.MaxSubTypes-1 {
				p.scope.PopFrame()
				return nil, p.errAt(p.peek(), cerrors.Memory, "too many parameters (max %d)", types.MaxSubTypes-1)
			}
			paramType, err := p.parseType(false, false)
			if err != nil {
				p.scope.PopFrame()
				return nil, err
			}
			nameTok, err := p.expect(lexer.TokenIdent, "a parameter name")
			if err != nil {
				p.scope.PopFrame()
				return nil, err
			}
			info := &scope.VarInfo{Type: paramType, IsReadonly: true}
			if err := p.scope.DeclareVar(nameTok.Lexeme, info); err != nil {
				p.scope.PopFrame()
				return nil, p.scopeErr(nameTok, err)
			}
			params = append(params, info)
			paramTypes = append(paramTypes, paramType)
			if !p.check(lexer.TokenComma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.TokenRParen, "')'"); err != nil {
		p.scope.PopFrame()
		return nil, err
	}

	if _, err := p.expect(lexer.TokenReturn, "'return'"); err != nil {
		p.scope.PopFrame()
		return nil, err
	}
	retType, err := p.parseType(true, true)
	if err != nil {
		p.scope.PopFrame()
		return nil, err
	}
	p.scope.SetReturnType(retType)

	procType := &types.Type{
		Kind:     types.Proc,
		SubTypes: append([]*types.Type{retType}, paramTypes...),
		Match:    match,
	}

	thisInfo := &scope.VarInfo{Type: types.Copy(procType), IsReadonly: true}
	if err := p.scope.DeclareVar(thisProcName, thisInfo); err != nil {
		p.scope.PopFrame()
		return nil, p.scopeErr(p.peek(), err)
	}

	body, err := p.parseBlock(true, false)
	if err != nil {
		p.scope.PopFrame()
		return nil, err
	}
	if err := p.scope.PopFrame(); err != nil {
		return nil, err
	}
	p.noteConstant()

	return &ast.Proc{
		ValueBase:  ast.ValueBase{Type: procType},
		Params:     params,
		ReturnType: retType,
		Body:       body,
		ThisProc:   thisInfo,
	}, nil
}
