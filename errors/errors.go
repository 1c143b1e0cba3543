// Package errors implements the tagged error sum of spec §4.1/§7: one Kind
// per failure category, carrying a human-readable message and an optional
// byte offset into the original statement text. Internally it wraps
// github.com/juju/errors so a cause can be traced across package boundaries
// while the exported Kind/Reason stay the stable match key the host relies
// on (spec §7: "the recommended match key is the kind tag").
package errors

import (
	"fmt"

	jujuerrors "github.com/juju/errors"
)

// Kind identifies the category of failure.
type Kind int

const (
	SyntaxError Kind = iota
	UnknownTable
	UnknownColumn
	AmbiguousColumn
	UnsupportedFeature
	InvalidLiteral
	ConstraintViolation
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case UnknownTable:
		return "UnknownTable"
	case UnknownColumn:
		return "UnknownColumn"
	case AmbiguousColumn:
		return "AmbiguousColumn"
	case UnsupportedFeature:
		return "UnsupportedFeature"
	case InvalidLiteral:
		return "InvalidLiteral"
	case ConstraintViolation:
		return "ConstraintViolation"
	default:
		return "Unknown"
	}
}

// Reason is a ConstraintViolation sub-reason (spec §4.1).
type Reason int

const (
	NoReason Reason = iota
	NotNullViolation
	PrimaryKeyDuplicate
	TypeMismatch
	ProtectedTable
	DuplicateTable
	DuplicateColumn
	ColumnCountMismatch
)

func (r Reason) String() string {
	switch r {
	case NotNullViolation:
		return "NotNullViolation"
	case PrimaryKeyDuplicate:
		return "PrimaryKeyDuplicate"
	case TypeMismatch:
		return "TypeMismatch"
	case ProtectedTable:
		return "ProtectedTable"
	case DuplicateTable:
		return "DuplicateTable"
	case DuplicateColumn:
		return "DuplicateColumn"
	case ColumnCountMismatch:
		return "ColumnCountMismatch"
	default:
		return ""
	}
}

// Error is the one error object the caller of Execute ever receives (spec §7:
// "no retry and no partial result").
type Error struct {
	Kind    Kind
	Reason  Reason   // only meaningful when Kind == ConstraintViolation
	Message string   // human-readable, includes a remediation hint where useful
	Pos     int      // byte offset into the statement text; 0 when unknown
	cause   error    // wrapped via juju/errors for internal tracing only
}

func (e *Error) Error() string {
	if e.Reason != NoReason {
		return fmt.Sprintf("%s(%s): %s", e.Kind, e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying juju/errors-annotated cause, if any, so
// callers using errors.Is/As against internal sentinel errors still work.
func (e *Error) Unwrap() error { return e.cause }

// New builds a plain (non-constraint) tagged error at pos.
func New(kind Kind, pos int, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Kind: kind, Message: msg, Pos: pos, cause: jujuerrors.New(msg)}
}

// NewConstraint builds a ConstraintViolation error with a sub-reason.
func NewConstraint(reason Reason, pos int, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Kind: ConstraintViolation, Reason: reason, Message: msg, Pos: pos, cause: jujuerrors.New(msg)}
}

// Annotate wraps an existing *Error with additional context while preserving
// its Kind/Reason/Pos, tracing the original cause via juju/errors.
func Annotate(err *Error, context string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:    err.Kind,
		Reason:  err.Reason,
		Message: err.Message,
		Pos:     err.Pos,
		cause:   jujuerrors.Annotate(err.cause, context),
	}
}

// Internal wraps a recovered panic as a SyntaxError at position 0 with the
// stable message "internal" (spec §7: "the engine never throws raw
// host-language errors across its boundary"), tracing the real cause via
// juju/errors for local debugging without exposing it to the caller.
func Internal(recovered interface{}) *Error {
	cause := jujuerrors.Trace(fmt.Errorf("%v", recovered))
	return &Error{Kind: SyntaxError, Message: "internal", Pos: 0, cause: cause}
}

// Trace returns the chain of annotations/causes for diagnostics; it is never
// part of the message the caller is told to match on.
func Trace(err *Error) string {
	if err == nil || err.cause == nil {
		return ""
	}
	return jujuerrors.ErrorStack(err.cause)
}
