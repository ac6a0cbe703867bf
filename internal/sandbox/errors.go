package sandbox

import (
	"errors"
	"fmt"
)

// Kind classifies sandbox failures.
type Kind int

const (
	KindUnexpected Kind = iota
	KindNotInitialized
	KindNotFound
	KindNotADirectory
	KindPathTraversal
	KindTooLarge
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindNotInitialized:
		return "not initialized"
	case KindNotFound:
		return "not found"
	case KindNotADirectory:
		return "not a directory"
	case KindPathTraversal:
		return "path traversal"
	case KindTooLarge:
		return "too large"
	case KindInvalidArgument:
		return "invalid argument"
	default:
		return "unexpected"
	}
}

// Error is the error type returned by every sandbox operation.
type Error struct {
	Kind Kind
	Path string
	// Size is the actual file size for KindTooLarge.
	Size int64
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Kind == KindTooLarge {
		msg = fmt.Sprintf("%s (%d bytes)", msg, e.Size)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// ErrNotInitialized is returned when a session has no sandbox yet.
var ErrNotInitialized = &Error{Kind: KindNotInitialized}

// KindOf reports the Kind of err, or KindUnexpected when err is not a
// sandbox error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnexpected
}

func newError(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}
