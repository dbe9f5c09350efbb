package asm

import "fmt"

// Position identifies a source location for error reporting: a file
// name (or "<string>" for inline source) and a 1-based line number.
type Position struct {
	File string
	Line int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// ErrorKind classifies an AssemblerError the way a caller might want to
// branch on (e.g. an "include not found" vs a bad operand).
type ErrorKind int

const (
	ErrorLexical ErrorKind = iota
	ErrorSyntactic
	ErrorSemantic
	ErrorRange
	ErrorInclude
	ErrorUser
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorLexical:
		return "lexical"
	case ErrorSyntactic:
		return "syntactic"
	case ErrorSemantic:
		return "semantic"
	case ErrorRange:
		return "range"
	case ErrorInclude:
		return "include"
	case ErrorUser:
		return "user"
	default:
		return "unknown"
	}
}

// AssemblerError is a single fatal failure tied to the source line that
// caused it.
type AssemblerError struct {
	Pos     Position
	Kind    ErrorKind
	Message string
}

func (e *AssemblerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// NewError builds an AssemblerError at pos with the given kind.
func NewError(pos Position, kind ErrorKind, format string, args ...interface{}) *AssemblerError {
	return &AssemblerError{Pos: pos, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrorList accumulates AssemblerErrors. Assembly is first-error-wins
// per the pipeline's "fatal, no partial output" contract, but the list
// exists so a caller parsing many independent lines before the first
// hard stop (e.g. a linter) can report more than one at a time.
type ErrorList struct {
	Errors []*AssemblerError
}

func (l *ErrorList) Add(err *AssemblerError) {
	l.Errors = append(l.Errors, err)
}

func (l *ErrorList) HasErrors() bool {
	return len(l.Errors) > 0
}

func (l *ErrorList) Error() string {
	if len(l.Errors) == 0 {
		return "no errors"
	}
	if len(l.Errors) == 1 {
		return l.Errors[0].Error()
	}
	s := fmt.Sprintf("%d errors:\n", len(l.Errors))
	for _, e := range l.Errors {
		s += "  " + e.Error() + "\n"
	}
	return s
}
