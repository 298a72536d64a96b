// Package dictionary is a string-keyed, string-valued hash table using
// separate chaining, meant as the storage underneath configuration readers
// that store "section:key" composite keys.
//
// A Table owns copies of every key and value it stores and charges them to
// an Allocator, so callers can cap the memory a table uses and observe that
// Destroy gives it all back. Values may be Undefined, which is distinct from
// a missing key.
//
// A Table is not safe for concurrent use.
package dictionary

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
)

// MinCapacity is the smallest number of buckets a Table has.
const MinCapacity = 128

// A table grows before an insert once count reaches loadNum/loadDen of the
// bucket count. Kept as integers so the check is exact at every capacity.
const (
	loadNum = 7
	loadDen = 10
)

// Bucket indexes are tracked in a 32-bit bitmap.
const maxCapacity = 1 << 32

var (
	bucketSize = int(unsafe.Sizeof((*entry)(nil)))
	entrySize  = int(unsafe.Sizeof(entry{}))
)

type entry struct {
	key   string
	value Value
	next  *entry
}

// Table is a hash table of string keys to Values.
//
// Each bucket holds a singly linked chain of entries. New entries are linked
// at the head of their chain, so a walk sees a bucket's most recent insert
// first.
type Table struct {
	buckets []*entry
	count   int

	// occupied holds the index of every bucket with a non-empty chain,
	// so full walks skip empty buckets.
	occupied *roaring.Bitmap

	hashFunc HashFunc
	reporter Reporter
	alloc    Allocator

	stats Stats
}

// Stats are counters a Table keeps about its own work.
type Stats struct {
	Gets       int64 // calls to Get, Lookup and Contains
	Misses     int64 // of those, how many did not find the key
	ChainSteps int64 // entries compared across all key searches
	Grows      int64
}

// New returns a Table with max(capacity, MinCapacity) buckets.
//
// New fails only if the table's Allocator refuses the bucket array, in which
// case the error wraps ErrNoMemory and the failure is also reported.
func New(capacity int, opts ...Option) (*Table, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if capacity < MinCapacity {
		capacity = MinCapacity
	}

	t := &Table{
		hashFunc: o.hashFunc,
		reporter: o.reporter,
		alloc:    o.allocator,
	}
	buckets, err := t.allocBuckets(capacity)
	if err != nil {
		return nil, err
	}
	t.buckets = buckets
	t.occupied = roaring.New()
	return t, nil
}

// Destroy releases every entry and the bucket array back to the table's
// Allocator. Any later operation on t is invalid input. Destroying a nil or
// already destroyed table is reported and otherwise does nothing.
func (t *Table) Destroy() {
	if t.valid("destroy") != nil {
		return
	}
	it := t.occupied.Iterator()
	for it.HasNext() {
		i := it.Next()
		for t.buckets[i] != nil {
			e := t.buckets[i]
			t.buckets[i] = e.next
			t.release(e)
			t.count--
		}
	}
	t.alloc.Free("bucket array", len(t.buckets)*bucketSize)
	t.buckets = nil
	t.occupied = nil
}

// Get returns the value stored under key, which may be Undefined, or def if
// key is not in the table. A nil or destroyed table or an empty key is
// reported and returns def.
func (t *Table) Get(key string, def Value) Value {
	v, ok := t.Lookup(key)
	if !ok {
		return def
	}
	return v
}

// Lookup returns the value stored under key and whether key is present.
func (t *Table) Lookup(key string) (Value, bool) {
	if t.validKey("get", key) != nil {
		return Undefined, false
	}
	t.stats.Gets++
	e := t.find(key)
	if e == nil {
		t.stats.Misses++
		return Undefined, false
	}
	return e.value, true
}

// Contains reports whether key is present, including keys whose value is
// Undefined.
func (t *Table) Contains(key string) bool {
	_, ok := t.Lookup(key)
	return ok
}

// Set stores v under key.
//
// If key is present its value is replaced in place; the entry keeps its
// position in its chain and Len does not change. Otherwise the table grows
// first if it is at its load limit, then links a new entry at the head of
// the key's chain.
//
// Set returns an error wrapping ErrInvalidInput for a nil or destroyed table
// or an empty key, and an error wrapping ErrNoMemory if the Allocator refuses
// any allocation. In both cases the table is left as it was.
func (t *Table) Set(key string, v Value) error {
	if err := t.validKey("set", key); err != nil {
		return err
	}
	if e := t.find(key); e != nil {
		return t.replace(e, v)
	}

	if loadDen*t.count >= loadNum*len(t.buckets) {
		if err := t.grow(); err != nil {
			return err
		}
	}

	e, err := t.newEntry(key, v)
	if err != nil {
		return err
	}
	i := t.index(key)
	e.next = t.buckets[i]
	t.buckets[i] = e
	t.occupied.Add(uint32(i))
	t.count++
	return nil
}

// Unset removes key. Removing a key that is not present does nothing.
// A nil or destroyed table or an empty key is reported and ignored.
func (t *Table) Unset(key string) {
	if t.validKey("unset", key) != nil {
		return
	}
	i := t.index(key)
	var prev *entry
	for e := t.buckets[i]; e != nil; prev, e = e, e.next {
		t.stats.ChainSteps++
		if e.key != key {
			continue
		}
		if prev == nil {
			t.buckets[i] = e.next
		} else {
			prev.next = e.next
		}
		if t.buckets[i] == nil {
			t.occupied.Remove(uint32(i))
		}
		t.release(e)
		t.count--
		return
	}
}

// Len returns the number of keys in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.count
}

// Cap returns the number of buckets. It is zero after Destroy.
func (t *Table) Cap() int {
	if t == nil {
		return 0
	}
	return len(t.buckets)
}

// Range calls f for every entry, in bucket order and then chain order, until
// f returns false. f must not modify the table.
func (t *Table) Range(f func(key string, v Value) bool) {
	if t.valid("range") != nil {
		return
	}
	it := t.occupied.Iterator()
	for it.HasNext() {
		for e := t.buckets[it.Next()]; e != nil; e = e.next {
			if !f(e.key, e.value) {
				return
			}
		}
	}
}

// Keys returns every key in Range order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, t.Len())
	t.Range(func(key string, _ Value) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Stats returns a snapshot of t's counters.
func (t *Table) Stats() Stats {
	if t == nil {
		return Stats{}
	}
	return t.stats
}

func (t *Table) index(key string) int {
	return bucketIndex(t.hashFunc(key), len(t.buckets))
}

func bucketIndex(h uint32, capacity int) int {
	return int(uint64(h) % uint64(capacity))
}

func (t *Table) find(key string) *entry {
	for e := t.buckets[t.index(key)]; e != nil; e = e.next {
		t.stats.ChainSteps++
		if e.key == key {
			return e
		}
	}
	return nil
}

// grow doubles the bucket count and moves every entry to its new bucket.
// If the new array cannot be allocated the table is untouched.
func (t *Table) grow() error {
	newCap := 2 * len(t.buckets)
	buckets, err := t.allocBuckets(newCap)
	if err != nil {
		return err
	}

	occupied := roaring.New()
	it := t.occupied.Iterator()
	for it.HasNext() {
		e := t.buckets[it.Next()]
		for e != nil {
			next := e.next
			j := bucketIndex(t.hashFunc(e.key), newCap)
			e.next = buckets[j]
			buckets[j] = e
			occupied.Add(uint32(j))
			e = next
		}
	}

	t.alloc.Free("bucket array", len(t.buckets)*bucketSize)
	t.buckets = buckets
	t.occupied = occupied
	t.stats.Grows++
	if debug {
		fmt.Println("grow: capacity", newCap, "count", t.count)
	}
	return nil
}

func (t *Table) allocBuckets(n int) ([]*entry, error) {
	size := n * bucketSize
	if uint64(n) > maxCapacity {
		return nil, t.noMemory("bucket array", size, fmt.Errorf("%d buckets exceeds the maximum of %d", n, uint64(maxCapacity)))
	}
	if err := t.alloc.Alloc("bucket array", size); err != nil {
		return nil, t.noMemory("bucket array", size, err)
	}
	return make([]*entry, n), nil
}

// newEntry allocates an unlinked entry holding copies of key and v.
// On failure everything it allocated is freed again.
func (t *Table) newEntry(key string, v Value) (*entry, error) {
	if err := t.alloc.Alloc("entry", entrySize); err != nil {
		return nil, t.noMemory("entry", entrySize, err)
	}
	if err := t.alloc.Alloc("key", len(key)); err != nil {
		t.alloc.Free("entry", entrySize)
		return nil, t.noMemory("key", len(key), err)
	}
	if !v.IsUndefined() {
		if err := t.alloc.Alloc("value", v.size()); err != nil {
			t.alloc.Free("key", len(key))
			t.alloc.Free("entry", entrySize)
			return nil, t.noMemory("value", v.size(), err)
		}
	}
	return &entry{key: strings.Clone(key), value: v.clone()}, nil
}

// replace swaps the value of a linked entry. The new copy is allocated
// before the old one is freed, so a refused allocation keeps the old value.
func (t *Table) replace(e *entry, v Value) error {
	if !v.IsUndefined() {
		if err := t.alloc.Alloc("value", v.size()); err != nil {
			return t.noMemory("value", v.size(), err)
		}
	}
	t.freeValue(e.value)
	e.value = v.clone()
	return nil
}

// release frees an entry that has already been unlinked.
func (t *Table) release(e *entry) {
	t.freeValue(e.value)
	t.alloc.Free("key", len(e.key))
	t.alloc.Free("entry", entrySize)
	e.next = nil
}

func (t *Table) freeValue(v Value) {
	if !v.IsUndefined() {
		t.alloc.Free("value", v.size())
	}
}

func (t *Table) noMemory(what string, size int, err error) error {
	var ae *AllocError
	if !errors.As(err, &ae) {
		ae = &AllocError{What: what, Size: size, Err: err}
	}
	t.reportf("dictionary: %v", ae)
	return ae
}

// valid checks that t can be used by op, reporting if not.
func (t *Table) valid(op string) error {
	switch {
	case t == nil:
		t.reportf("dictionary: %s: nil table", op)
		return fmt.Errorf("%s: %w", op, ErrInvalidInput)
	case t.buckets == nil:
		t.reportf("dictionary: %s: table destroyed", op)
		return fmt.Errorf("%s: %w", op, ErrDestroyed)
	}
	return nil
}

func (t *Table) validKey(op, key string) error {
	if err := t.valid(op); err != nil {
		return err
	}
	if key == "" {
		t.reportf("dictionary: %s: empty key", op)
		return fmt.Errorf("%s: %w", op, ErrInvalidInput)
	}
	return nil
}

const debug = false
