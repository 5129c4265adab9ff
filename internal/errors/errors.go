// Package errors defines the error kinds the parser raises and a located
// CompileError type that carries enough context for a driver to print a
// source-pointing diagnostic.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind enumerates the error categories the parser can raise. Parsing
// aborts on the first error; there is no recovery.
type Kind string

const (
	UnexpectedToken        Kind = "UnexpectedToken"
	UnexpectedType         Kind = "UnexpectedType"
	Undeclared             Kind = "Undeclared"
	Redeclaration          Kind = "Redeclaration"
	ReadOnly               Kind = "ReadOnly"
	TypeNotAllowed         Kind = "TypeNotAllowed"
	CannotReturn           Kind = "CannotReturn"
	CannotContinue         Kind = "CannotContinue"
	CannotBreak            Kind = "CannotBreak"
	ExpectedSubTypes       Kind = "ExpectedSubTypes"
	UnexpectedArgumentSize Kind = "UnexpectedArgumentSize"
	Memory                 Kind = "Memory"
	Internal               Kind = "Internal"
)

// CompileError is the error type returned by every fallible parser
// operation. Ordinary semantic errors (a bad token, a type mismatch) carry
// no Cause; Internal-kind errors wrap the triggering error with a stack
// trace via Cause, since those mark an invariant violation worth
// inspecting beyond its message text.
type CompileError struct {
	Kind    Kind
	Message string
	File    string
	Line    int
	Cause   error
}

func (e *CompileError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes Cause to errors.Is/errors.As chains.
func (e *CompileError) Unwrap() error { return e.Cause }

// New builds a CompileError of the given kind at the given location.
func New(kind Kind, file string, line int, format string, args ...interface{}) *CompileError {
	return &CompileError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		File:    file,
		Line:    line,
	}
}

// NewInternal builds an Internal-kind CompileError wrapping cause with a
// stack trace attached at the point the invariant violation was detected.
func NewInternal(file string, line int, cause error) *CompileError {
	return &CompileError{
		Kind:    Internal,
		Message: cause.Error(),
		File:    file,
		Line:    line,
		Cause:   errors.WithStack(cause),
	}
}
