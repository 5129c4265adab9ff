package ast

import "github.com/glint-lang/glint/internal/scope"

// Stmt is any top-level or nested statement.
type Stmt interface {
	Accept(v StmtVisitor) any
}

// Block is a sequence of statements sharing one lexical frame.
type Block struct {
	Stmts []Stmt
}

// VarDecl is a `[global] [readonly] T name = expr;` declaration.
type VarDecl struct {
	Info  *scope.VarInfo
	Value Value
}

func (d *VarDecl) Accept(v StmtVisitor) any { return v.VisitVarDecl(d) }

// ExprStmt wraps a bare expression statement.
type ExprStmt struct {
	Value Value
}

func (e *ExprStmt) Accept(v StmtVisitor) any { return v.VisitExprStmt(e) }

// If is an if/else chain. Else holds a plain `else` block; an `else if`
// is held instead as a nested *If in ElseIf. At most one of them is set.
type If struct {
	Condition Value
	Then      *Block
	Else      *Block
	ElseIf    *If
}

func (i *If) Accept(v StmtVisitor) any { return v.VisitIf(i) }

// While is a loop. Unlike the distilled C source (which represents a loop
// as a conditional node whose true-branch points back to itself), this is
// an explicit, acyclic variant - see the design notes on cyclic ASTs.
type While struct {
	Condition Value
	Body      *Block
}

func (w *While) Accept(v StmtVisitor) any { return v.VisitWhile(w) }

// Break / Continue are loop-escape statements, only valid inside a While.
type Break struct{}

func (b *Break) Accept(v StmtVisitor) any { return v.VisitBreak(b) }

type Continue struct{}

func (c *Continue) Accept(v StmtVisitor) any { return v.VisitContinue(c) }

// Return is a `return [expr];` statement.
type Return struct {
	Value    Value
	HasValue bool
}

func (r *Return) Accept(v StmtVisitor) any { return v.VisitReturn(r) }

// Root is the whole parsed program: its top-level block plus the
// monotonic counters assigned during parsing. These counters are the
// sole source of node identity downstream passes rely on.
type Root struct {
	Block           *Block
	ValueCount      int
	ProcCallCount   int
	TotalConstants  int
	TotalVarDecls   int
}

// StmtVisitor dispatches over every concrete Stmt kind.
type StmtVisitor interface {
	VisitVarDecl(*VarDecl) any
	VisitExprStmt(*ExprStmt) any
	VisitIf(*If) any
	VisitWhile(*While) any
	VisitBreak(*Break) any
	VisitContinue(*Continue) any
	VisitReturn(*Return) any
}
