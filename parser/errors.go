package parser

import (
	"errors"
	"fmt"
)

var (
	// Lexical errors
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedComment = errors.New("unterminated block comment")

	// Structural errors
	ErrNoBootstrapCall     = errors.New("no SDK bootstrap call found")
	ErrMissingContainer    = errors.New("bootstrap call has no option container")
	ErrUnbalancedContainer = errors.New("option container is never closed")

	ErrUnknownDialect = errors.New("unknown dialect")
	ErrInternal       = errors.New("internal parser error")
)

type ErrorKind string

const (
	KindLex        ErrorKind = "lex"
	KindStructural ErrorKind = "structural"
	KindWarning    ErrorKind = "warning"
)

// ParseError is one diagnostic. Line and Column are nil when the problem
// cannot be pinned to a location.
type ParseError struct {
	Message string    `json:"message"`
	Line    *int      `json:"line,omitempty"`
	Column  *int      `json:"column,omitempty"`
	Kind    ErrorKind `json:"kind"`

	err error
}

func newError(kind ErrorKind, err error, pos *Position, format string, args ...any) *ParseError {
	pe := &ParseError{
		Message: fmt.Sprintf(format, args...),
		Kind:    kind,
		err:     err,
	}
	if pos != nil {
		line, col := pos.Line, pos.Column
		pe.Line = &line
		pe.Column = &col
	}
	return pe
}

func (e *ParseError) Error() string {
	if e.Line != nil && e.Column != nil {
		return fmt.Sprintf("%d:%d: %s", *e.Line, *e.Column, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.err
}

// Localized reports whether the error carries a source position.
func (e *ParseError) Localized() bool {
	return e.Line != nil
}
