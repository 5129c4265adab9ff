// Package ast defines the tree the parser produces: typed value nodes,
// statements, and the root that owns the program's top-level block plus
// the monotonic counters that are the sole source of node identity.
package ast

import (
	"github.com/glint-lang/glint/internal/scope"
	"github.com/glint-lang/glint/internal/types"
)

// Value is any expression node. Every concrete value carries its own
// inferred/checked Type and a dense ID assigned in parse order.
type Value interface {
	Accept(v ValueVisitor) any
	base() *ValueBase
}

// ValueBase is embedded by every concrete Value.
type ValueBase struct {
	Type *types.Type
	ID   int
}

func (b *ValueBase) base() *ValueBase { return b }

// TypeOf returns a value's checked type.
func TypeOf(v Value) *types.Type { return v.base().Type }

// IDOf returns a value's dense parse-order identity.
func IDOf(v Value) int { return v.base().ID }

// SetID records a value's dense parse-order identity.
func SetID(v Value, id int) { v.base().ID = id }

type PrimKind int

const (
	PrimBool PrimKind = iota
	PrimChar
	PrimLong
	PrimFloat
)

// Primitive is a literal bool, char, long or float.
type Primitive struct {
	ValueBase
	Kind  PrimKind
	Bool  bool
	Char  rune
	Long  int64
	Float float64
}

func (p *Primitive) Accept(v ValueVisitor) any { return v.VisitPrimitive(p) }

// ArrayLiteral is a bracketed `[a, b, c]` literal or a desugared string
// literal (one Primitive(Char) element per code point).
type ArrayLiteral struct {
	ValueBase
	ElemType *types.Type
	Elements []Value
}

func (a *ArrayLiteral) Accept(v ValueVisitor) any { return v.VisitArrayLiteral(a) }

// AllocArray is `new T[size]`.
type AllocArray struct {
	ValueBase
	ElemType *types.Type
	Size     Value
}

func (a *AllocArray) Accept(v ValueVisitor) any { return v.VisitAllocArray(a) }

// Var is a read of a declared variable.
type Var struct {
	ValueBase
	Info *scope.VarInfo
}

func (va *Var) Accept(v ValueVisitor) any { return v.VisitVar(va) }

// SetVar is an assignment to a declared (non-readonly) variable.
type SetVar struct {
	ValueBase
	Info  *scope.VarInfo
	Value Value
}

func (s *SetVar) Accept(v ValueVisitor) any { return v.VisitSetVar(s) }

// GetIndex is `array[index]`.
type GetIndex struct {
	ValueBase
	Array Value
	Index Value
}

func (g *GetIndex) Accept(v ValueVisitor) any { return v.VisitGetIndex(g) }

// SetIndex is `array[index] = value`.
type SetIndex struct {
	ValueBase
	Array Value
	Index Value
	Value Value
}

func (s *SetIndex) Accept(v ValueVisitor) any { return v.VisitSetIndex(s) }

type UnaryOperator int

const (
	UnaryNot UnaryOperator = iota // !
	UnaryLen                      // #
	UnaryNeg                      // -
)

// UnaryOp is `!x`, `#x` or `-x`.
type UnaryOp struct {
	ValueBase
	Op      UnaryOperator
	Operand Value
}

func (u *UnaryOp) Accept(v ValueVisitor) any { return v.VisitUnaryOp(u) }

type BinaryOperator int

const (
	BinAdd BinaryOperator = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinPow
	BinEq
	BinNotEq
	BinLess
	BinMore
	BinLE
	BinGE
	BinAnd
	BinOr
)

// BinaryOp is a left-associative binary expression.
type BinaryOp struct {
	ValueBase
	Op  BinaryOperator
	LHS Value
	RHS Value
}

func (b *BinaryOp) Accept(v ValueVisitor) any { return v.VisitBinaryOp(b) }

// Proc is a first-class procedure literal.
type Proc struct {
	ValueBase
	Params     []*scope.VarInfo
	ReturnType *types.Type
	Body       *Block
	ThisProc   *scope.VarInfo
}

func (p *Proc) Accept(v ValueVisitor) any { return v.VisitProc(p) }

// ProcCall is `callee(args...)`, optionally preceded by explicit generic
// type arguments applied to callee's type before argument parsing.
type ProcCall struct {
	ValueBase
	Callee Value
	Args   []Value
	CallID int
}

func (c *ProcCall) Accept(v ValueVisitor) any { return v.VisitProcCall(c) }

// ValueVisitor dispatches over every concrete Value kind.
type ValueVisitor interface {
	VisitPrimitive(*Primitive) any
	VisitArrayLiteral(*ArrayLiteral) any
	VisitAllocArray(*AllocArray) any
	VisitVar(*Var) any
	VisitSetVar(*SetVar) any
	VisitGetIndex(*GetIndex) any
	VisitSetIndex(*SetIndex) any
	VisitUnaryOp(*UnaryOp) any
	VisitBinaryOp(*BinaryOp) any
	VisitProc(*Proc) any
	VisitProcCall(*ProcCall) any
}
