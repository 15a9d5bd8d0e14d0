package parser

import (
	"errors"
	"fmt"
)

// Position tracks a source location. Offset is in bytes; Line and Column
// are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Error represents a parse failure at a source position.
type Error struct {
	Err        error
	Pos        Position
	Incomplete bool

	// fatal errors stop backtracking: every alternative would fail the
	// same way.
	fatal bool
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(pos Position, err error) *Error {
	return &Error{Err: err, Pos: pos}
}

func newFatalError(pos Position, err error) *Error {
	return &Error{Err: err, Pos: pos, fatal: true}
}

func newIncompleteError(pos Position, err error) *Error {
	return &Error{
		Err:        err,
		Pos:        pos,
		Incomplete: true,
		fatal:      true,
	}
}

func errorf(pos Position, format string, args ...interface{}) *Error {
	return newError(pos, fmt.Errorf(format, args...))
}

// asError converts err to *Error, wrapping foreign errors as fatal.
func asError(err error) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}
	return &Error{Err: err, fatal: true}
}

// IsIncomplete reports whether the supplied error represents incomplete input.
func IsIncomplete(err error) bool {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Incomplete
	}
	return false
}
