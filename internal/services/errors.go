package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies store and request failures
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindParseFailure
	KindValidationFailure
	KindOutOfRange
	KindWriteFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindParseFailure:
		return "ParseFailure"
	case KindValidationFailure:
		return "ValidationFailure"
	case KindOutOfRange:
		return "OutOfRange"
	case KindWriteFailure:
		return "WriteFailure"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinels for errors.Is
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrParseFailure      = &Error{Kind: KindParseFailure}
	ErrValidationFailure = &Error{Kind: KindValidationFailure}
	ErrOutOfRange        = &Error{Kind: KindOutOfRange}
	ErrWriteFailure      = &Error{Kind: KindWriteFailure}
)

// Error is a failure surfaced to callers as a kind plus a message
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or 0 when err is not an *Error
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// MessageOf returns the caller-facing message of err
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
