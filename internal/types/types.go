// Package types implements the structural type representation consumed by
// the parser: construction, compatibility checking, deep copy and generic
// substitution over the small closed set of type shapes the language
// supports.
package types

import (
	"errors"
	"fmt"
)

// MaxSubTypes bounds how many sub-types a single Array or Proc type may
// carry. Array always uses exactly one; Proc uses one per parameter plus
// the return type.
const MaxSubTypes = 16

// ErrTooManySubTypes is returned by NewProc when MaxSubTypes would be
// exceeded.
var ErrTooManySubTypes = errors.New("types: sub-type count exceeds MaxSubTypes")

// Kind enumerates the variants of the type sum type.
type Kind int

const (
	Auto Kind = iota
	Nothing
	Bool
	Char
	Long
	Float
	TypeArg
	Array
	Proc
)

func (k Kind) String() string {
	switch k {
	case Auto:
		return "auto"
	case Nothing:
		return "nothing"
	case Bool:
		return "bool"
	case Char:
		return "char"
	case Long:
		return "long"
	case Float:
		return "float"
	case TypeArg:
		return "typearg"
	case Array:
		return "array"
	case Proc:
		return "proc"
	default:
		return "unknown"
	}
}

// Type is the structural type value. Array uses exactly one entry in
// SubTypes (the element type). Proc uses SubTypes[0] as the return type
// and SubTypes[1:] as parameter types; Match records how many generic
// type parameters the procedure introduces.
type Type struct {
	Kind     Kind
	Index    int // valid when Kind == TypeArg: positional index of the generic parameter
	SubTypes []*Type
	Match    int // valid when Kind == Proc
}

func NewAuto() *Type    { return &Type{Kind: Auto} }
func NewNothing() *Type { return &Type{Kind: Nothing} }
func NewBool() *Type    { return &Type{Kind: Bool} }
func NewChar() *Type    { return &Type{Kind: Char} }
func NewLong() *Type    { return &Type{Kind: Long} }
func NewFloat() *Type   { return &Type{Kind: Float} }

// NewTypeArg builds a reference to the generic parameter at the given
// positional index (0-based).
func NewTypeArg(index int) *Type {
	return &Type{Kind: TypeArg, Index: index}
}

// NewArray builds an Array type parameterized by elem.
func NewArray(elem *Type) *Type {
	return &Type{Kind: Array, SubTypes: []*Type{elem}}
}

// NewProc builds a Proc type. ret is the return type, params are the
// parameter types in order; match is the number of generic parameters the
// procedure introduces.
func NewProc(ret *Type, params []*Type, match int) (*Type, error) {
	if len(params)+1 > MaxSubTypes {
		return nil, ErrTooManySubTypes
	}
	sub := make([]*Type, 0, len(params)+1)
	sub = append(sub, ret)
	sub = append(sub, params...)
	return &Type{Kind: Proc, SubTypes: sub, Match: match}, nil
}

// Return is the return type of a Proc type.
func (t *Type) Return() *Type { return t.SubTypes[0] }

// Params is the parameter type slice of a Proc type.
func (t *Type) Params() []*Type { return t.SubTypes[1:] }

// Elem is the element type of an Array type.
func (t *Type) Elem() *Type { return t.SubTypes[0] }

// IsCompatible implements the one-way structural match used throughout the
// parser: Auto on the expected side absorbs any concrete actual type;
// otherwise the two types must have the same Kind and, for Array and Proc,
// structurally compatible sub-types. TypeArg matches only a TypeArg with
// the same Index - generic parameters are never unified against concrete
// types by this predicate, only against each other.
func IsCompatible(expected, actual *Type) bool {
	if expected == nil || actual == nil {
		return false
	}
	if expected.Kind == Auto {
		return true
	}
	if expected.Kind != actual.Kind {
		return false
	}
	switch expected.Kind {
	case TypeArg:
		return expected.Index == actual.Index
	case Array:
		return IsCompatible(expected.Elem(), actual.Elem())
	case Proc:
		if len(expected.SubTypes) != len(actual.SubTypes) {
			return false
		}
		for i := range expected.SubTypes {
			if !IsCompatible(expected.SubTypes[i], actual.SubTypes[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Copy performs a deep copy of t.
func Copy(t *Type) *Type {
	if t == nil {
		return nil
	}
	cp := &Type{Kind: t.Kind, Index: t.Index, Match: t.Match}
	if t.SubTypes != nil {
		cp.SubTypes = make([]*Type, len(t.SubTypes))
		for i, s := range t.SubTypes {
			cp.SubTypes[i] = Copy(s)
		}
	}
	return cp
}

// SubstituteTypeArgs returns a copy of target with every TypeArg(i)
// replaced by args[i]. It is used when a generic procedure value is
// instantiated with explicit type arguments, and when a generic
// procedure's type is specialized for a particular call.
func SubstituteTypeArgs(args []*Type, target *Type) *Type {
	if target == nil {
		return nil
	}
	if target.Kind == TypeArg {
		if target.Index < 0 || target.Index >= len(args) {
			panic(fmt.Sprintf("types: type arg index %d out of range (have %d args)", target.Index, len(args)))
		}
		return Copy(args[target.Index])
	}
	cp := &Type{Kind: target.Kind, Index: target.Index, Match: target.Match}
	if target.SubTypes != nil {
		cp.SubTypes = make([]*Type, len(target.SubTypes))
		for i, s := range target.SubTypes {
			cp.SubTypes[i] = SubstituteTypeArgs(args, s)
		}
	}
	return cp
}

// String renders a human-readable form of the type, used in diagnostics.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Array:
		return fmt.Sprintf("array<%s>", t.Elem())
	case Proc:
		s := fmt.Sprintf("proc<%s", t.Return())
		for _, p := range t.Params() {
			s += fmt.Sprintf(", %s", p)
		}
		return s + ">"
	case TypeArg:
		return fmt.Sprintf("T%d", t.Index)
	default:
		return t.Kind.String()
	}
}
