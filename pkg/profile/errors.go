package profile

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGeometry reports a degenerate input where a direction or
	// angle is required, e.g. a zero-length radius vector.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrEmptyOrDegenerateProfile reports a profile with zero total weight.
	ErrEmptyOrDegenerateProfile = errors.New("empty or degenerate profile")

	// ErrInvalidScaleFactor reports a non-positive or non-finite scale factor.
	ErrInvalidScaleFactor = errors.New("invalid scale factor")

	// ErrUnsupportedPrimitive reports an operation not defined for a kind.
	ErrUnsupportedPrimitive = errors.New("unsupported primitive")
)

// PrimitiveError attaches the position and kind of the offending primitive
// to an error.
type PrimitiveError struct {
	Index int
	Kind  Kind
	Err   error
}

func (e *PrimitiveError) Error() string {
	return fmt.Sprintf("profile: %s #%d: %v", e.Kind, e.Index, e.Err)
}

func (e *PrimitiveError) Unwrap() error { return e.Err }
