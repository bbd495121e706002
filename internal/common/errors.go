// Package common holds the error kinds shared by the analysis packages.
package common

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every core operation fails with exactly one of these.
var (
	ErrNotFound   = errors.New("not found")
	ErrFormat     = errors.New("format error")
	ErrConfig     = errors.New("configuration error")
	ErrSchema     = errors.New("schema error")
	ErrEmptyInput = errors.New("empty input")
)

var kinds = []error{ErrNotFound, ErrFormat, ErrConfig, ErrSchema, ErrEmptyInput}

// Error carries a kind, the operation that failed and an optional cause.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Msg)
	if e.Err != nil {
		if e.Msg != "" {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the cause so errors.Is/As reach wrapped os or csv errors.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool { return e.Kind == target }

// E builds an *Error of the given kind with a formatted message.
func E(kind error, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and operation to an underlying error.
func Wrap(kind error, op string, err error, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind sentinel of err, or nil when err carries none.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// KindName is a short label for the kind of err ("NotFoundError", ...).
func KindName(err error) string {
	switch KindOf(err) {
	case ErrNotFound:
		return "NotFoundError"
	case ErrFormat:
		return "FormatError"
	case ErrConfig:
		return "ConfigError"
	case ErrSchema:
		return "SchemaError"
	case ErrEmptyInput:
		return "EmptyInputError"
	default:
		return "Error"
	}
}

// Exit codes used by the CLI.
const (
	ExitFailure = 1
	ExitUsage   = 3
)

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrConfig) {
		return ExitUsage
	}
	return ExitFailure
}

// Chain lists every layer of err from outermost to innermost.
func Chain(err error) []string {
	var out []string
	for err != nil {
		line := err.Error()
		if ce, ok := err.(*Error); ok {
			line = fmt.Sprintf("[%s] op=%q msg=%q", KindName(ce), ce.Op, ce.Msg)
		}
		out = append(out, fmt.Sprintf("%T: %s", err, line))
		err = errors.Unwrap(err)
	}
	return out
}
