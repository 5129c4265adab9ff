// Package parser is the front-end core: a single recursive-descent pass
// that simultaneously advances the token stream, mutates the scope frame
// stack, allocates AST nodes, and checks/infers types. It does not
// recover from errors - the first one aborts parsing.
package parser

import (
	"github.com/glint-lang/glint/internal/ast"
	cerrors "github.com/glint-lang/glint/internal/errors"
	"github.com/glint-lang/glint/internal/lexer"
	"github.com/glint-lang/glint/internal/scope"
	"github.com/glint-lang/glint/internal/types"
)

// TokenStream is the abstract token source the parser drives. lexer.MultiScanner
// implements it; tests may supply a fake.
type TokenStream interface {
	Peek() lexer.Token
	Advance() lexer.Token
	Include(name string) error
}

// thisProcName is the reserved self-reference bound inside every
// procedure literal, so the body can call the procedure recursively. It is
// declared in the procedure's root frame, so the ordinary redeclaration
// check rejects any colliding parameter, body variable or global.
const thisProcName = "thisproc"

// Parser holds all state for one parse: the token stream, the live frame
// stack, and the AST root under construction.
type Parser struct {
	toks  TokenStream
	scope *scope.Stack
	root  *ast.Root

	valueCount     int
	procCallCount  int
	totalConstants int
}

// New creates a parser over the given token stream.
func New(toks TokenStream) *Parser {
	return &Parser{
		toks:  toks,
		scope: scope.New(),
		root:  &ast.Root{},
	}
}

func (p *Parser) peek() lexer.Token    { return p.toks.Peek() }
func (p *Parser) advance() lexer.Token { return p.toks.Advance() }

func (p *Parser) errAt(tok lexer.Token, kind cerrors.Kind, format string, args ...interface{}) error {
	return cerrors.New(kind, tok.File, tok.Line, format, args...)
}

// expect consumes the current token if it has type t, otherwise raises
// UnexpectedToken.
func (p *Parser) expect(t lexer.TokenType, what string) (lexer.Token, error) {
	tok := p.peek()
	if tok.Type != t {
		return tok, p.errAt(tok, cerrors.UnexpectedToken, "expected %s, got %q", what, tok.Lexeme)
	}
	return p.advance(), nil
}

func (p *Parser) check(t lexer.TokenType) bool { return p.peek().Type == t }

// Parse runs the parser to completion and returns the finished AST root.
// The top-level block is unwrapped (no surrounding braces) and terminates
// at EOF.
func Parse(toks TokenStream) (*ast.Root, error) {
	p := New(toks)
	if _, err := p.scope.PushFrame(false); err != nil {
		return nil, err
	}
	block, err := p.parseBlock(false, false)
	if err != nil {
		p.scope.PopFrame()
		return nil, err
	}
	if err := p.scope.PopFrame(); err != nil {
		return nil, err
	}
	p.root.Block = block
	p.root.ValueCount = p.valueCount
	p.root.ProcCallCount = p.procCallCount
	p.root.TotalConstants = p.totalConstants
	p.root.TotalVarDecls = p.scope.TotalVarDecls()
	return p.root, nil
}

// nextValueID / nextProcCallID / noteConstant implement the AST root's
// monotonic counters; the parser increments them inline as it builds
// nodes, exactly where the distilled source does.
func (p *Parser) nextValueID() int {
	id := p.valueCount
	p.valueCount++
	return id
}

func (p *Parser) nextProcCallID() int {
	id := p.procCallCount
	p.procCallCount++
	return id
}

func (p *Parser) noteConstant() { p.totalConstants++ }

// typeCompatible is a thin wrapper kept so error sites read naturally.
func typeCompatible(expected, actual *types.Type) bool {
	return types.IsCompatible(expected, actual)
}

// scopeErr maps the scope package's sentinel errors onto the closed
// compiler error-kind enum, attaching the offending token's location.
func (p *Parser) scopeErr(tok lexer.Token, err error) error {
	switch err {
	case scope.ErrRedeclared:
		return p.errAt(tok, cerrors.Redeclaration, "%q is already declared in this scope", tok.Lexeme)
	case scope.ErrGlobalNotHere:
		return p.errAt(tok, cerrors.TypeNotAllowed, "global declarations are only allowed at the top level")
	case scope.ErrMaxDepth:
		return p.errAt(tok, cerrors.Memory, "scope nesting too deep")
	case scope.ErrMaxGenerics:
		return p.errAt(tok, cerrors.Memory, "too many generic parameters")
	default:
		return cerrors.NewInternal(tok.File, tok.Line, err)
	}
}
