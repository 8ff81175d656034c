package dynvec

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned by checked access outside [0, Len()).
	ErrOutOfRange = errors.New("dynvec: index out of range")

	// ErrLength is returned when a requested length exceeds MaxLen.
	ErrLength = errors.New("dynvec: length exceeds maximum")

	// ErrAllocatorMismatch is returned when an option supplies an allocator
	// for a different element type.
	ErrAllocatorMismatch = errors.New("dynvec: allocator element type mismatch")

	// ErrInvalidSnapshot is returned when a bit snapshot cannot be decoded.
	ErrInvalidSnapshot = errors.New("dynvec: invalid snapshot")
)

// IndexError indicates a checked access outside [0, Len).
//
// errors.Is(err, ErrOutOfRange) reports true for an *IndexError.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("dynvec: index %d out of range [0:%d]", e.Index, e.Len)
}

// Is reports whether target is ErrOutOfRange.
func (e *IndexError) Is(target error) bool { return target == ErrOutOfRange }

// LengthError indicates a length request above MaxLen.
//
// errors.Is(err, ErrLength) reports true for a *LengthError.
type LengthError struct {
	Requested int
	Max       int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("dynvec: requested length %d exceeds maximum %d", e.Requested, e.Max)
}

// Is reports whether target is ErrLength.
func (e *LengthError) Is(target error) bool { return target == ErrLength }

// SnapshotError describes a malformed bit snapshot.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type SnapshotError struct {
	Reason string
	cause  error
}

func (e *SnapshotError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("dynvec: invalid snapshot: %s: %v", e.Reason, e.cause)
	}
	return "dynvec: invalid snapshot: " + e.Reason
}

// Is reports whether target is ErrInvalidSnapshot.
func (e *SnapshotError) Is(target error) bool { return target == ErrInvalidSnapshot }

func (e *SnapshotError) Unwrap() error { return e.cause }

func allocError(op string, err error) error {
	return fmt.Errorf("dynvec: %s: %w", op, err)
}
