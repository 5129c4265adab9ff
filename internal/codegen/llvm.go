// Package codegen is a supplemental, illustrative lowering from a parsed
// program to an LLVM module. It is not part of the front end's core
// contract - the parser's job ends at a checked AST - but it gives the
// structural type system and the AST a concrete downstream consumer the
// way a real toolchain would wire one in.
//
// It only handles the primitive-typed, non-generic, loop-free subset:
// arithmetic, comparisons, variables, if/else, and calls to
// already-defined top-level procedures. Anything wider (arrays, generics,
// closures capturing outer locals, while loops, '**') is out of scope here
// and reported as an error rather than silently miscompiled.
package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/glint-lang/glint/internal/ast"
	"github.com/glint-lang/glint/internal/scope"
	"github.com/glint-lang/glint/internal/types"
)

// Builder lowers one parsed Root into an *ir.Module.
type Builder struct {
	module *ir.Module
	block  *ir.Block
	locals map[int]value.Value // scope.VarInfo.ID -> SSA value
	procs  map[int]*ir.Func    // scope.VarInfo.ID of a proc-typed var -> defined function
}

// NewBuilder creates a Builder targeting a fresh empty module.
func NewBuilder() *Builder {
	return &Builder{
		module: ir.NewModule(),
		locals: make(map[int]value.Value),
		procs:  make(map[int]*ir.Func),
	}
}

// ErrUnsupported reports a construct this illustrative backend does not
// lower (arrays, generics, nested closures).
type ErrUnsupported struct{ What string }

func (e *ErrUnsupported) Error() string { return "codegen: unsupported construct: " + e.What }

// Build lowers root's top-level block. Every top-level `name = proc ...`
// declaration becomes a module-level function; other top-level
// declarations are skipped, and any top-level statement that is not a
// declaration is rejected, mirroring a real backend's expectation that it
// is handed whole procedures, not loose top-level statements.
func Build(root *ast.Root) (*ir.Module, error) {
	b := NewBuilder()
	for _, stmt := range root.Block.Stmts {
		decl, ok := stmt.(*ast.VarDecl)
		if !ok {
			return nil, &ErrUnsupported{What: "non-declaration statement at top level"}
		}
		procVal, ok := decl.Value.(*ast.Proc)
		if !ok {
			continue // a top-level primitive constant: nothing to lower until referenced
		}
		if err := b.declareFunc(decl.Info, procVal); err != nil {
			return nil, err
		}
	}
	for _, stmt := range root.Block.Stmts {
		decl := stmt.(*ast.VarDecl)
		procVal, ok := decl.Value.(*ast.Proc)
		if !ok {
			continue
		}
		if err := b.defineFunc(decl.Info, procVal); err != nil {
			return nil, err
		}
	}
	return b.module, nil
}

func llvmType(t *types.Type) (irtypes.Type, error) {
	switch t.Kind {
	case types.Nothing:
		return irtypes.Void, nil
	case types.Bool:
		return irtypes.I1, nil
	case types.Char:
		return irtypes.I8, nil
	case types.Long:
		return irtypes.I64, nil
	case types.Float:
		return irtypes.Double, nil
	default:
		return nil, &ErrUnsupported{What: fmt.Sprintf("type %s", t)}
	}
}

func (b *Builder) declareFunc(info *scope.VarInfo, p *ast.Proc) error {
	retType, err := llvmType(p.ReturnType)
	if err != nil {
		return err
	}
	var params []*ir.Param
	for i, param := range p.Params {
		pt, err := llvmType(param.Type)
		if err != nil {
			return err
		}
		params = append(params, ir.NewParam(fmt.Sprintf("p%d", i), pt))
	}
	fn := b.module.NewFunc(fmt.Sprintf("glint_%d", info.ID), retType, params...)
	b.procs[info.ID] = fn
	return nil
}

func (b *Builder) defineFunc(info *scope.VarInfo, p *ast.Proc) error {
	fn := b.procs[info.ID]
	entry := fn.NewBlock("entry")
	b.block = entry
	locals := make(map[int]value.Value, len(p.Params))
	for i, param := range p.Params {
		locals[param.ID] = fn.Params[i]
	}
	prevLocals := b.locals
	b.locals = locals
	defer func() { b.locals = prevLocals }()

	if err := b.genBlock(p.Body); err != nil {
		return err
	}
	if entry.Term == nil {
		if p.ReturnType.Kind == types.Nothing {
			entry.NewRet(nil)
		} else {
			return &ErrUnsupported{What: "missing return on every path"}
		}
	}
	return nil
}

func (b *Builder) genBlock(blk *ast.Block) error {
	for _, stmt := range blk.Stmts {
		if err := b.genStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) genStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		v, err := b.genExpr(s.Value)
		if err != nil {
			return err
		}
		b.locals[s.Info.ID] = v
		return nil
	case *ast.ExprStmt:
		_, err := b.genExpr(s.Value)
		return err
	case *ast.Return:
		if !s.HasValue {
			b.block.NewRet(nil)
			return nil
		}
		v, err := b.genExpr(s.Value)
		if err != nil {
			return err
		}
		b.block.NewRet(v)
		return nil
	case *ast.If:
		return b.genIf(s)
	case *ast.While:
		return &ErrUnsupported{What: "while loop"}
	case *ast.Break, *ast.Continue:
		return &ErrUnsupported{What: "break/continue"}
	default:
		return &ErrUnsupported{What: fmt.Sprintf("statement %T", stmt)}
	}
}

func (b *Builder) genIf(s *ast.If) error {
	cond, err := b.genExpr(s.Condition)
	if err != nil {
		return err
	}
	fn := b.block.Parent
	thenBlk := fn.NewBlock("")
	afterBlk := fn.NewBlock("")
	elseBlk := afterBlk
	if s.Else != nil || s.ElseIf != nil {
		elseBlk = fn.NewBlock("")
	}
	b.block.NewCondBr(cond, thenBlk, elseBlk)

	b.block = thenBlk
	if err := b.genBlock(s.Then); err != nil {
		return err
	}
	if b.block.Term == nil {
		b.block.NewBr(afterBlk)
	}

	if elseBlk != afterBlk {
		b.block = elseBlk
		switch {
		case s.ElseIf != nil:
			if err := b.genIf(s.ElseIf); err != nil {
				return err
			}
		case s.Else != nil:
			if err := b.genBlock(s.Else); err != nil {
				return err
			}
		}
		if b.block.Term == nil {
			b.block.NewBr(afterBlk)
		}
	}

	b.block = afterBlk
	return nil
}

func (b *Builder) genExpr(v ast.Value) (value.Value, error) {
	switch n := v.(type) {
	case *ast.Primitive:
		return b.genPrimitive(n)
	case *ast.Var:
		val, ok := b.locals[n.Info.ID]
		if !ok {
			return nil, &ErrUnsupported{What: "reference to a variable outside its defining function"}
		}
		return val, nil
	case *ast.SetVar:
		val, err := b.genExpr(n.Value)
		if err != nil {
			return nil, err
		}
		b.locals[n.Info.ID] = val
		return val, nil
	case *ast.UnaryOp:
		return b.genUnary(n)
	case *ast.BinaryOp:
		return b.genBinary(n)
	case *ast.ProcCall:
		return b.genCall(n)
	default:
		return nil, &ErrUnsupported{What: fmt.Sprintf("expression %T", v)}
	}
}

func (b *Builder) genPrimitive(p *ast.Primitive) (value.Value, error) {
	switch p.Kind {
	case ast.PrimBool:
		if p.Bool {
			return constant.True, nil
		}
		return constant.False, nil
	case ast.PrimChar:
		return constant.NewInt(irtypes.I8, int64(p.Char)), nil
	case ast.PrimLong:
		return constant.NewInt(irtypes.I64, p.Long), nil
	case ast.PrimFloat:
		return constant.NewFloat(irtypes.Double, p.Float), nil
	default:
		return nil, &ErrUnsupported{What: "primitive kind"}
	}
}

func (b *Builder) genUnary(n *ast.UnaryOp) (value.Value, error) {
	operand, err := b.genExpr(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.UnaryNot:
		return b.block.NewXor(operand, constant.True), nil
	case ast.UnaryNeg:
		if _, ok := operand.Type().(*irtypes.FloatType); ok {
			return b.block.NewFNeg(operand), nil
		}
		return b.block.NewSub(constant.NewInt(irtypes.I64, 0), operand), nil
	default:
		return nil, &ErrUnsupported{What: "'#' (array length) outside array support"}
	}
}

func (b *Builder) genBinary(n *ast.BinaryOp) (value.Value, error) {
	lhs, err := b.genExpr(n.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := b.genExpr(n.RHS)
	if err != nil {
		return nil, err
	}
	isFloat := types.IsCompatible(types.NewFloat(), ast.TypeOf(n.LHS))
	switch n.Op {
	case ast.BinAdd:
		if isFloat {
			return b.block.NewFAdd(lhs, rhs), nil
		}
		return b.block.NewAdd(lhs, rhs), nil
	case ast.BinSub:
		if isFloat {
			return b.block.NewFSub(lhs, rhs), nil
		}
		return b.block.NewSub(lhs, rhs), nil
	case ast.BinMul:
		if isFloat {
			return b.block.NewFMul(lhs, rhs), nil
		}
		return b.block.NewMul(lhs, rhs), nil
	case ast.BinDiv:
		if isFloat {
			return b.block.NewFDiv(lhs, rhs), nil
		}
		return b.block.NewSDiv(lhs, rhs), nil
	case ast.BinMod:
		if isFloat {
			return b.block.NewFRem(lhs, rhs), nil
		}
		return b.block.NewSRem(lhs, rhs), nil
	case ast.BinAnd:
		return b.block.NewAnd(lhs, rhs), nil
	case ast.BinOr:
		return b.block.NewOr(lhs, rhs), nil
	case ast.BinEq, ast.BinNotEq, ast.BinLess, ast.BinMore, ast.BinLE, ast.BinGE:
		return b.genComparison(n.Op, lhs, rhs, isFloat), nil
	case ast.BinPow:
		return nil, &ErrUnsupported{What: "'**' (no llvm.pow intrinsic wired)"}
	default:
		return nil, &ErrUnsupported{What: "binary operator"}
	}
}

var floatPreds = map[ast.BinaryOperator]enum.FPred{
	ast.BinEq: enum.FPredOEQ, ast.BinNotEq: enum.FPredONE,
	ast.BinLess: enum.FPredOLT, ast.BinMore: enum.FPredOGT,
	ast.BinLE: enum.FPredOLE, ast.BinGE: enum.FPredOGE,
}

var intPreds = map[ast.BinaryOperator]enum.IPred{
	ast.BinEq: enum.IPredEQ, ast.BinNotEq: enum.IPredNE,
	ast.BinLess: enum.IPredSLT, ast.BinMore: enum.IPredSGT,
	ast.BinLE: enum.IPredSLE, ast.BinGE: enum.IPredSGE,
}

func (b *Builder) genComparison(op ast.BinaryOperator, lhs, rhs value.Value, isFloat bool) value.Value {
	if isFloat {
		return b.block.NewFCmp(floatPreds[op], lhs, rhs)
	}
	return b.block.NewICmp(intPreds[op], lhs, rhs)
}

func (b *Builder) genCall(n *ast.ProcCall) (value.Value, error) {
	callee, ok := n.Callee.(*ast.Var)
	if !ok {
		return nil, &ErrUnsupported{What: "calling a non-variable procedure value"}
	}
	fn, ok := b.procs[callee.Info.ID]
	if !ok {
		return nil, &ErrUnsupported{What: "calling a procedure not defined at top level"}
	}
	var args []value.Value
	for _, a := range n.Args {
		v, err := b.genExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return b.block.NewCall(fn, args...), nil
}
