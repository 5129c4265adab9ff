package parser

import (
	"github.com/glint-lang/glint/internal/ast"
	cerrors "github.com/glint-lang/glint/internal/errors"
	"github.com/glint-lang/glint/internal/lexer"
	"github.com/glint-lang/glint/internal/scope"
	"github.com/glint-lang/glint/internal/types"
)

// parseBlock parses a sequence of statements sharing one lexical frame.
// encapsulated blocks (if/while bodies, procedure bodies) are either
// wrapped in braces or, when no '{' follows, a single statement; the
// top-level program block is not and simply runs to EOF.
func (p *Parser) parseBlock(encapsulated, inLoop bool) (*ast.Block, error) {
	braced := encapsulated && p.check(lexer.TokenLBrace)
	if braced {
		p.advance()
	}
	if _, err := p.scope.PushFrame(true); err != nil {
		return nil, p.scopeErr(p.peek(), err)
	}
	if encapsulated && !braced {
		stmt, err := p.parseStmt(inLoop)
		p.scope.PopFrame()
		if err != nil {
			return nil, err
		}
		block := &ast.Block{}
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
		return block, nil
	}
	block := &ast.Block{}
	stop := func() bool {
		if encapsulated {
			return p.check(lexer.TokenRBrace)
		}
		return p.check(lexer.TokenEOF)
	}
	for !stop() {
		stmt, err := p.parseStmt(inLoop)
		if err != nil {
			p.scope.PopFrame()
			return nil, err
		}
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
	}
	if err := p.scope.PopFrame(); err != nil {
		return nil, err
	}
	if encapsulated {
		if _, err := p.expect(lexer.TokenRBrace, "'}'"); err != nil {
			return nil, err
		}
	}
	return block, nil
}

// parseStmt dispatches on the lookahead token. It returns a nil statement
// (with a nil error) for `include`, which splices a new source into the
// token stream without occupying a statement slot of its own.
func (p *Parser) parseStmt(inLoop bool) (ast.Stmt, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenInclude:
		return nil, p.parseInclude()
	case lexer.TokenIf:
		return p.parseIf(inLoop)
	case lexer.TokenWhile:
		return p.parseWhile()
	case lexer.TokenBreak:
		p.advance()
		if !inLoop {
			return nil, p.errAt(tok, cerrors.CannotBreak, "'break' outside a loop")
		}
		if _, err := p.expect(lexer.TokenSemi, "';'"); err != nil {
			return nil, err
		}
		return &ast.Break{}, nil
	case lexer.TokenContinue:
		p.advance()
		if !inLoop {
			return nil, p.errAt(tok, cerrors.CannotContinue, "'continue' outside a loop")
		}
		if _, err := p.expect(lexer.TokenSemi, "';'"); err != nil {
			return nil, err
		}
		return &ast.Continue{}, nil
	case lexer.TokenReturn:
		return p.parseReturn()
	case lexer.TokenGlobal, lexer.TokenReadonly,
		lexer.TokenBool, lexer.TokenCharType, lexer.TokenLongType, lexer.TokenFloatType,
		lexer.TokenAuto, lexer.TokenArrayType, lexer.TokenProcType:
		return p.parseVarDecl()
	case lexer.TokenIdent:
		return p.parseExprStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseInclude() error {
	p.advance() // consume 'include'
	nameTok, err := p.expect(lexer.TokenString, "a file name string")
	if err != nil {
		return err
	}
	if err := p.toks.Include(nameTok.Lexeme); err != nil {
		return cerrors.NewInternal(nameTok.File, nameTok.Line, err)
	}
	return nil
}

func (p *Parser) parseIf(inLoop bool) (*ast.If, error) {
	p.advance() // consume 'if'
	if _, err := p.expect(lexer.TokenLParen, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExprAgainst(types.NewBool())
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRParen, "')'"); err != nil {
		return nil, err
	}
	then, err := p.parseBlock(true, inLoop)
	if err != nil {
		return nil, err
	}
	stmt := &ast.If{Condition: cond, Then: then}
	if p.check(lexer.TokenElse) {
		p.advance()
		if p.check(lexer.TokenIf) {
			elseIf, err := p.parseIf(inLoop)
			if err != nil {
				return nil, err
			}
			stmt.ElseIf = elseIf
		} else {
			elseBlock, err := p.parseBlock(true, inLoop)
			if err != nil {
				return nil, err
			}
			stmt.Else = elseBlock
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (*ast.While, error) {
	p.advance() // consume 'while'
	if _, err := p.expect(lexer.TokenLParen, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExprAgainst(types.NewBool())
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRParen, "')'"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(true, true)
	if err != nil {
		return nil, err
	}
	return &ast.While{Condition: cond, Body: body}, nil
}

func (p *Parser) parseReturn() (*ast.Return, error) {
	tok := p.advance() // consume 'return'
	retType, hasReturn := p.scope.ReturnType()
	if !hasReturn {
		return nil, p.errAt(tok, cerrors.CannotReturn, "'return' outside a procedure")
	}
	if p.check(lexer.TokenSemi) {
		if retType.Kind != types.Nothing {
			return nil, p.errAt(tok, cerrors.UnexpectedType, "procedure must return a value of type %s", retType)
		}
		p.advance()
		return &ast.Return{HasValue: false}, nil
	}
	val, err := p.parseExprAgainst(retType)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemi, "';'"); err != nil {
		return nil, err
	}
	return &ast.Return{Value: val, HasValue: true}, nil
}

func (p *Parser) parseVarDecl() (*ast.VarDecl, error) {
	var isGlobal, isReadonly bool
modifiers:
	for {
		switch p.peek().Type {
		case lexer.TokenGlobal:
			p.advance()
			isGlobal = true
		case lexer.TokenReadonly:
			p.advance()
			isReadonly = true
		default:
			break modifiers
		}
	}

	declType, err := p.parseType(true, false)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.TokenIdent, "a variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSet, "'='"); err != nil {
		return nil, err
	}
	rhs, err := p.parseExprAgainst(declType)
	if err != nil {
		return nil, err
	}
	if declType.Kind == types.Auto {
		declType = types.Copy(ast.TypeOf(rhs))
	}
	info := &scope.VarInfo{Type: declType, IsGlobal: isGlobal, IsReadonly: isReadonly}
	if err := p.scope.DeclareVar(nameTok.Lexeme, info); err != nil {
		return nil, p.scopeErr(nameTok, err)
	}
	if _, err := p.expect(lexer.TokenSemi, "';'"); err != nil {
		return nil, err
	}
	return &ast.VarDecl{Info: info, Value: rhs}, nil
}

func (p *Parser) parseExprStmt() (*ast.ExprStmt, error) {
	v, err := p.parseExprAgainst(types.NewAuto())
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemi, "';'"); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Value: v}, nil
}
