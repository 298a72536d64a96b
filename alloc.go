package dictionary

import "errors"

// An Allocator accounts for the memory a Table owns.
//
// The table calls Alloc before it creates a bucket array, an entry, or its
// own copy of a key or value, and gives up on the operation if Alloc returns
// an error. Every successful Alloc is paired with exactly one Free of the
// same size, on removal, on Destroy, on growth, or on the failure path of
// the operation that made it.
type Allocator interface {
	Alloc(what string, size int) error
	Free(what string, size int)
}

type unlimited struct{}

func (unlimited) Alloc(string, int) error { return nil }
func (unlimited) Free(string, int)        {}

// Unlimited is the default Allocator. It never refuses.
var Unlimited Allocator = unlimited{}

var (
	// ErrBudgetExceeded is the reason a Budget gives when its limit is hit.
	ErrBudgetExceeded = errors.New("budget exceeded")

	// ErrInjectedFailure is the reason a Budget gives for an allocation
	// refused by FailAt.
	ErrInjectedFailure = errors.New("injected allocation failure")
)

// Budget is an instrumented Allocator. It tracks bytes in use, can cap them,
// and can refuse a chosen allocation. A table created with a Budget that is
// later destroyed leaves the Budget with InUse() == 0.
//
// A Budget is not safe for concurrent use; share one only between tables
// driven by the same goroutine.
type Budget struct {
	limit    int
	inUse    int
	peak     int
	attempts int
	allocs   int
	frees    int
	failAt   int
}

// NewBudget returns a Budget that refuses allocations that would take the
// bytes in use past limit. A limit of zero or less means no limit.
func NewBudget(limit int) *Budget {
	if limit < 0 {
		limit = 0
	}
	return &Budget{limit: limit}
}

// Alloc implements Allocator.
func (b *Budget) Alloc(what string, size int) error {
	b.attempts++
	if b.failAt != 0 && b.attempts == b.failAt {
		b.failAt = 0
		return &AllocError{What: what, Size: size, Err: ErrInjectedFailure}
	}
	if b.limit > 0 && b.inUse+size > b.limit {
		return &AllocError{What: what, Size: size, Err: ErrBudgetExceeded}
	}
	b.inUse += size
	b.allocs++
	if b.inUse > b.peak {
		b.peak = b.inUse
	}
	return nil
}

// Free implements Allocator.
func (b *Budget) Free(what string, size int) {
	b.inUse -= size
	b.frees++
}

// FailAt makes the n-th Alloc call from now fail, counting from 1.
// FailAt(0) cancels a pending failure.
func (b *Budget) FailAt(n int) {
	if n <= 0 {
		b.failAt = 0
		return
	}
	b.failAt = b.attempts + n
}

// SetLimit changes the byte limit. Zero or less removes it.
func (b *Budget) SetLimit(limit int) {
	if limit < 0 {
		limit = 0
	}
	b.limit = limit
}

// InUse returns the bytes currently allocated.
func (b *Budget) InUse() int { return b.inUse }

// Peak returns the largest InUse seen.
func (b *Budget) Peak() int { return b.peak }

// Allocs returns the number of successful allocations.
func (b *Budget) Allocs() int { return b.allocs }

// Frees returns the number of frees.
func (b *Budget) Frees() int { return b.frees }
