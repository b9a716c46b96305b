package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures reported by the mask and placement primitives.
type ErrorKind string

const (
	KindShapeMismatch  ErrorKind = "SHAPE_MISMATCH"  // Mask/asset dimensions or channel layout disagree
	KindOutOfBounds    ErrorKind = "OUT_OF_BOUNDS"   // Strict placement does not fit the canvas
	KindDegenerateGrid ErrorKind = "DEGENERATE_GRID" // Grid proposal with a size-1 axis
)

// Error is a typed failure carrying its kind and the operation that raised it.
type Error struct {
	Kind ErrorKind
	Op   string
	Msg  string
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrShapeMismatch  = &Error{Kind: KindShapeMismatch, Msg: "shape mismatch"}
	ErrOutOfBounds    = &Error{Kind: KindOutOfBounds, Msg: "out of bounds"}
	ErrDegenerateGrid = &Error{Kind: KindDegenerateGrid, Msg: "degenerate grid"}
)

func newError(kind ErrorKind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// ShapeMismatch builds a KindShapeMismatch error for op.
func ShapeMismatch(op, format string, args ...any) *Error {
	return newError(KindShapeMismatch, op, format, args...)
}

// OutOfBounds builds a KindOutOfBounds error for op.
func OutOfBounds(op, format string, args ...any) *Error {
	return newError(KindOutOfBounds, op, format, args...)
}

// DegenerateGrid builds a KindDegenerateGrid error for op.
func DegenerateGrid(op, format string, args ...any) *Error {
	return newError(KindDegenerateGrid, op, format, args...)
}

// IsKind reports whether err is an *Error of the given kind anywhere in its chain.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
