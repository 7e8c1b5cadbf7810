package lispy

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the interpreter wraps exactly
// one of these, so callers can test with errors.Is.
var (
	ErrParse     = errors.New("parse error")
	ErrBadSyntax = errors.New("bad syntax")
	ErrType      = errors.New("type error")
	ErrRuntime   = errors.New("runtime error")
	ErrInternal  = errors.New("internal error")
)

type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Kind.Error() + ": " + e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func ParseError(format string, args ...interface{}) error {
	return newError(ErrParse, format, args...)
}

func BadSyntax(format string, args ...interface{}) error {
	return newError(ErrBadSyntax, format, args...)
}

func TypeError(format string, args ...interface{}) error {
	return newError(ErrType, format, args...)
}

func RuntimeError(format string, args ...interface{}) error {
	return newError(ErrRuntime, format, args...)
}

func InternalError(format string, args ...interface{}) error {
	return newError(ErrInternal, format, args...)
}

// KindOf returns the sentinel kind of err, or nil if err did not come
// from the interpreter.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
