package resource

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/owned"
	"github.com/wippyai/owned/errors"
)

// Table owns the values adopted into it and notifies observers of their
// lifecycle. Values are dropped outside the backend lock.
type Table[T any] struct {
	backend   *LocalBackend[T]
	observers []Observer
	obsMu     sync.RWMutex
}

// NewTable creates a new table with a LocalBackend.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		backend: NewLocalBackend[T](),
	}
}

// Adopt takes ownership of the value held by p and returns its handle.
// On success p is left empty; on error p is unchanged.
func (t *Table[T]) Adopt(p *owned.Ptr[T]) (Handle, error) {
	raw := p.Get()
	handle, err := t.backend.Adopt(p)
	if err != nil {
		return 0, err
	}

	Logger().Debug("resource adopted", zap.Uint32("handle", uint32(handle)))
	t.notify(Event{
		Type:   EventAdopted,
		Handle: handle,
		Value:  raw,
	})

	return handle, nil
}

// Get retrieves a value by handle without transferring ownership.
func (t *Table[T]) Get(handle Handle) (*T, bool) {
	return t.backend.Get(handle)
}

// Take moves a value out of the table. The returned handle is its sole owner.
func (t *Table[T]) Take(handle Handle) (owned.Ptr[T], error) {
	p, ok := t.backend.Take(handle)
	if !ok {
		return owned.Ptr[T]{}, errors.New(errors.PhaseTable, errors.KindNotFound).
			Op("take").
			Value(handle).
			Detail("handle %d not found", handle).
			Build()
	}

	Logger().Debug("resource taken", zap.Uint32("handle", uint32(handle)))
	t.notify(Event{
		Type:   EventTaken,
		Handle: handle,
		Value:  p.Get(),
	})

	return p.Move(), nil
}

// Drop destroys the value behind handle and frees the handle.
func (t *Table[T]) Drop(handle Handle) error {
	p, ok := t.backend.Take(handle)
	if !ok {
		return errors.New(errors.PhaseTable, errors.KindNotFound).
			Op("drop").
			Value(handle).
			Detail("handle %d not found", handle).
			Build()
	}
	t.drop(handle, &p)
	return nil
}

// Subscribe adds an observer for lifecycle events.
func (t *Table[T]) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table[T]) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of owned values.
func (t *Table[T]) Len() int {
	return t.backend.Len()
}

// Each iterates over all owned values in handle order.
// fn must not call back into the table.
func (t *Table[T]) Each(fn func(Handle, *T) bool) {
	t.backend.Each(fn)
}

// Clear drops all values. The table stays open.
func (t *Table[T]) Clear() {
	// Collect handles first to avoid holding the lock while dropping
	var handles []Handle
	t.backend.Each(func(h Handle, _ *T) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		_ = t.Drop(h)
	}
}

// Close drops all values and stops accepting new ones.
func (t *Table[T]) Close() error {
	handles, ptrs := t.backend.Drain()
	if len(ptrs) > 0 {
		Logger().Debug("closing resource table", zap.Int("remaining", len(ptrs)))
	}
	for i := range ptrs {
		t.drop(handles[i], &ptrs[i])
	}
	return nil
}

func (t *Table[T]) drop(handle Handle, p *owned.Ptr[T]) {
	raw := p.Get()
	p.Drop()

	Logger().Debug("resource dropped", zap.Uint32("handle", uint32(handle)))
	t.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		Value:  raw,
	})
}

func (t *Table[T]) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
