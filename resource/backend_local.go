package resource

import (
	"sync"

	"github.com/wippyai/owned"
	"github.com/wippyai/owned/errors"
)

// ErrClosed is returned when adopting into a closed table or backend.
var ErrClosed = errors.Closed(errors.PhaseTable, "resource table")

// LocalBackend is an in-memory backend with free-list handle reuse.
type LocalBackend[T any] struct {
	entries  []*entry[T]
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type entry[T any] struct {
	ptr   owned.Ptr[T]
	valid bool
}

var _ Backend[int] = (*LocalBackend[int])(nil)

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend[T any]() *LocalBackend[T] {
	return &LocalBackend[T]{
		entries:  make([]*entry[T], 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// Adopt moves the value held by p into the backend. p is left empty.
func (b *LocalBackend[T]) Adopt(p *owned.Ptr[T]) (Handle, error) {
	if !p.Valid() {
		return 0, errors.New(errors.PhaseTable, errors.KindEmpty).
			Op("adopt").
			Detail("cannot adopt an empty handle").
			Build()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	if len(b.freeList) > 0 {
		handle := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		e := b.entries[handle-1]
		e.ptr.Assign(p)
		e.valid = true
		return handle, nil
	}

	e := &entry[T]{valid: true}
	e.ptr.Assign(p)
	b.entries = append(b.entries, e)
	return Handle(len(b.entries)), nil
}

// Get retrieves a value by handle.
func (b *LocalBackend[T]) Get(handle Handle) (*T, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.lookup(handle)
	if e == nil {
		return nil, false
	}
	return e.ptr.Get(), true
}

// Take moves the value out of the backend and frees its handle.
func (b *LocalBackend[T]) Take(handle Handle) (owned.Ptr[T], bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil {
		return owned.Ptr[T]{}, false
	}

	e.valid = false
	b.freeList = append(b.freeList, handle)
	return e.ptr.Move(), true
}

// Drain moves all values out in handle order and closes the backend.
func (b *LocalBackend[T]) Drain() ([]Handle, []owned.Ptr[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true

	var handles []Handle
	var ptrs []owned.Ptr[T]
	for i, e := range b.entries {
		if e.valid {
			e.valid = false
			handles = append(handles, Handle(i+1))
			ptrs = append(ptrs, e.ptr.Move())
		}
	}

	b.entries = nil
	b.freeList = nil
	return handles, ptrs
}

// Len returns the number of stored values.
func (b *LocalBackend[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, e := range b.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each iterates over all stored values in handle order.
func (b *LocalBackend[T]) Each(fn func(Handle, *T) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, e := range b.entries {
		if e.valid {
			if !fn(Handle(i+1), e.ptr.Get()) {
				break
			}
		}
	}
}

// lookup returns the live entry for handle, or nil. Caller holds mu.
func (b *LocalBackend[T]) lookup(handle Handle) *entry[T] {
	if handle == 0 {
		return nil
	}
	idx := int(handle) - 1
	if idx >= len(b.entries) {
		return nil
	}
	e := b.entries[idx]
	if !e.valid {
		return nil
	}
	return e
}
