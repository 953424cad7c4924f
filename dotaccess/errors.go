package dotaccess

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a path segment does not resolve.
	ErrNotFound = errors.New("path not found")

	// ErrTypeMismatch is returned when a segment cannot index its container,
	// e.g. a key on a sequence. It is a kind of ErrNotFound.
	ErrTypeMismatch = fmt.Errorf("%w: type mismatch", ErrNotFound)

	// ErrAmbiguousKey is returned when an integer-castable segment addresses
	// a mapping.
	ErrAmbiguousKey = errors.New("integer-castable key used on a mapping")

	// ErrOverwrite is returned by Set on a non-overwritable wrapper when the
	// path already holds a value.
	ErrOverwrite = errors.New("path already set and wrapper is not overwritable")

	// ErrInvalidPath is returned for empty paths, empty segments, and "[]"
	// where no append is possible.
	ErrInvalidPath = errors.New("invalid path")
)

// PathError records the failing path and the prefix at which it failed.
type PathError struct {
	Path    string
	Segment string
	Err     error
}

func (e *PathError) Error() string {
	if e.Segment == "" || e.Segment == e.Path {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s (at %s): %v", e.Path, e.Segment, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}
