package horsehttp

import (
	"errors"
	"fmt"
)

// Kind classifies engine errors so callers can tell a malformed request from
// their own misuse of Client.
type Kind int

const (
	// KindParse marks malformed wire input: request line, headers, or an
	// unparsable Content-Length.
	KindParse Kind = iota + 1
	// KindConfig marks a request that is missing what an operation needs,
	// such as a body read without a Content-Length header.
	KindConfig
	// KindState marks misuse of Client, such as setting the response after
	// it was sent.
	KindState
	// KindPanic marks a handler panic converted to an error at the
	// invocation boundary.
	KindPanic
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindConfig:
		return "config"
	case KindState:
		return "state"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error is the engine's error type.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return "horsehttp: " + e.msg + ": " + e.err.Error()
	}
	return "horsehttp: " + e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, err error, msg string) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

// IsKind reports whether err is an engine Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.kind == kind
}
