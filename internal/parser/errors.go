package parser

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Parse wraps exactly one of these.
var (
	ErrSyntax                  = errors.New("syntax error")
	ErrEmptySource             = errors.New("no contract declarations found")
	ErrMissingName             = errors.New("missing name")
	ErrInvalidAssignmentTarget = errors.New("invalid assignment target")
	ErrMissingSubexpression    = errors.New("missing subexpression")
)

// Error is a positioned parse failure.
type Error struct {
	Kind    error
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// bailout carries the first parse error up to Parse, which recovers it.
type bailout struct {
	err *Error
}
