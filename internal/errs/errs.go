// Package errs provides the single structured error type used across the
// Mewo interpreter: every Syntax, Runtime, or Memory failure is anchored to
// exactly one Mewofile line.
package errs

import "fmt"

// Kind distinguishes the three failure categories the interpreter can
// report, per the error handling design.
type Kind string

const (
	Syntax  Kind = "Syntax"
	Runtime Kind = "Runtime"
	Memory  Kind = "Memory"
)

// MewoError is the structured error type for every failure surfaced by the
// parser, interpolator, executor, or spawner.
type MewoError struct {
	Kind    Kind
	Message string
	Line    int
	Cause   error
}

// Error implements the error interface. The top-level CLI formats the same
// fields as "<file>:<line>: <Kind>: <message>"; Error() gives a
// file-agnostic rendering useful in logs and tests.
func (e *MewoError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d: %s: %s: %v", e.Line, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%d: %s: %s", e.Line, e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *MewoError) Unwrap() error {
	return e.Cause
}

// New creates a MewoError with no wrapped cause.
func New(kind Kind, line int, message string) *MewoError {
	return &MewoError{Kind: kind, Line: line, Message: message}
}

// Newf creates a MewoError with a formatted message.
func Newf(kind Kind, line int, format string, args ...any) *MewoError {
	return &MewoError{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a MewoError that wraps an underlying error.
func Wrap(kind Kind, line int, message string, cause error) *MewoError {
	return &MewoError{Kind: kind, Line: line, Message: message, Cause: cause}
}

// Syntaxf is a convenience constructor for parser errors.
func Syntaxf(line int, format string, args ...any) *MewoError {
	return Newf(Syntax, line, format, args...)
}

// Runtimef is a convenience constructor for executor/interpolator/spawner
// errors.
func Runtimef(line int, format string, args ...any) *MewoError {
	return Newf(Runtime, line, format, args...)
}

// Format renders the error the way the CLI prints it to stderr:
// "<file>:<line>: <Kind>: <message>".
func (e *MewoError) Format(file string) string {
	return fmt.Sprintf("%s:%d: %s: %s", file, e.Line, e.Kind, e.Message)
}

// Slot holds the single first-error-wins error reported by a pipeline stage.
// It mirrors the base spec's "global error slot": the executor carries one
// and stops doing useful work once it is set. The parser and interpolator
// return their first error directly instead of holding a Slot.
type Slot struct {
	err *MewoError
}

// Set records err only if the slot is still empty (first error wins).
func (s *Slot) Set(err *MewoError) {
	if s.err == nil {
		s.err = err
	}
}

// Err returns the recorded error, or nil if none was set.
func (s *Slot) Err() *MewoError {
	return s.err
}

// HasError reports whether an error has been recorded.
func (s *Slot) HasError() bool {
	return s.err != nil
}

// Clear resets the slot. Used between independent test runs of the same
// interpreter value; the CLI never needs it in a single invocation.
func (s *Slot) Clear() {
	s.err = nil
}
