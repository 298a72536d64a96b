package dictionary

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when an operation is given a nil table or an
	// empty key.
	ErrInvalidInput = errors.New("dictionary: invalid input")

	// ErrDestroyed is returned by operations on a table after Destroy.
	// It matches ErrInvalidInput under errors.Is.
	ErrDestroyed = fmt.Errorf("%w: table destroyed", ErrInvalidInput)

	// ErrNoMemory is returned when an Allocator refuses an allocation.
	ErrNoMemory = errors.New("dictionary: out of memory")
)

// AllocError describes a refused allocation.
//
// It always matches ErrNoMemory under errors.Is. If the Allocator gave a
// reason, it is available as Err and is matched as well.
type AllocError struct {
	What string // "bucket array", "entry", "key" or "value"
	Size int
	Err  error
}

func (e *AllocError) Error() string {
	msg := fmt.Sprintf("cannot allocate %d bytes for %s", e.Size, e.What)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AllocError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNoMemory}
	}
	return []error{ErrNoMemory, e.Err}
}
