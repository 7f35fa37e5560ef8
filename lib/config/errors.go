package config

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per failure class. Every error returned by this package
// matches exactly one of them with errors.Is.
var (
	// ErrIO covers any filesystem failure: read, write, mkdir, sync, rename.
	ErrIO = errors.New("config: filesystem error")
	// ErrInvalidFormat means the file exists but could not be decoded.
	ErrInvalidFormat = errors.New("config: invalid file format")
	// ErrSerialize means a value could not be encoded, either the default
	// written on first load or one passed to Save.
	ErrSerialize = errors.New("config: failed to serialize configuration")
	// ErrDirectoryNotFound means no explicit path was given and no default
	// configuration directory could be determined.
	ErrDirectoryNotFound = errors.New("config: unable to determine configuration directory")
	// ErrUnsupportedFormat means a Format with no built-in codec was requested.
	ErrUnsupportedFormat = errors.New("config: unsupported format")
)

// Kind classifies an Error.
type Kind int

const (
	KindIO Kind = iota + 1
	KindInvalidFormat
	KindSerialize
	KindDirectoryNotFound
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindInvalidFormat:
		return "invalid format"
	case KindSerialize:
		return "serialize"
	case KindDirectoryNotFound:
		return "directory not found"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindIO:
		return ErrIO
	case KindInvalidFormat:
		return ErrInvalidFormat
	case KindSerialize:
		return ErrSerialize
	case KindDirectoryNotFound:
		return ErrDirectoryNotFound
	default:
		return nil
	}
}

// Error is the concrete error type returned by Store operations.
type Error struct {
	Kind Kind
	// Op names the failing step, e.g. "read", "rename", "decode".
	Op string
	// Path is the file the operation was acting on, if any.
	Path string
	// Line and Column locate decode failures when the codec reports them.
	// Both are zero when unknown.
	Line   int
	Column int
	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidFormat:
		if e.Line > 0 {
			return fmt.Sprintf("invalid configuration in %s (line %d, column %d): %v", e.Path, e.Line, e.Column, e.Err)
		}
		return fmt.Sprintf("invalid configuration in %s: %v", e.Path, e.Err)
	case KindSerialize:
		return fmt.Sprintf("failed to serialize config: %v", e.Err)
	case KindDirectoryNotFound:
		if e.Err != nil {
			return fmt.Sprintf("unable to determine configuration directory: %v", e.Err)
		}
		return "unable to determine configuration directory"
	default:
		if e.Path != "" {
			return fmt.Sprintf("filesystem error during %s of %s: %v", e.Op, e.Path, e.Err)
		}
		return fmt.Sprintf("filesystem error during %s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func ioError(op, path string, err error) error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}
