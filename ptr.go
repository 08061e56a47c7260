package owned

import "fmt"

// Dropper is implemented by resources that need cleanup when their owner
// drops them. Drop is called at most once per value.
type Dropper interface {
	Drop()
}

// Ptr exclusively owns at most one heap-allocated T.
// The zero value is an empty handle ready to use.
type Ptr[T any] struct {
	_ noCopy
	p *T
}

// New takes ownership of p. The caller must not use p afterwards except
// through the returned handle. New(nil) returns an empty handle.
func New[T any](p *T) Ptr[T] {
	return Ptr[T]{p: p}
}

// Make allocates a new T initialised from v and returns its owner.
func Make[T any](v T) Ptr[T] {
	p := new(T)
	*p = v
	return Ptr[T]{p: p}
}

// MakeFunc owns the value returned by ctor, which must be a fresh allocation.
func MakeFunc[T any](ctor func() *T) Ptr[T] {
	return Ptr[T]{p: ctor()}
}

// Drop destroys the held value, if any, and leaves the handle empty.
// Dropping an empty handle does nothing.
func (u *Ptr[T]) Drop() {
	p := u.p
	u.p = nil
	destroy(p)
}

// Move transfers ownership into a new handle and leaves u empty.
// Move never panics.
//
// The result must initialise a new variable or an empty handle. Assigning it
// over a handle that still holds a value forgets that value without dropping
// it; use Assign to replace a held value.
func (u *Ptr[T]) Move() Ptr[T] {
	p := u.p
	u.p = nil
	return Ptr[T]{p: p}
}

// Assign drops the value held by u and takes ownership of src's value,
// leaving src empty. Assigning a handle to itself does nothing.
// Assign never panics.
func (u *Ptr[T]) Assign(src *Ptr[T]) {
	if u == src {
		return
	}
	old := u.p
	u.p = nil
	destroy(old)
	u.p = src.p
	src.p = nil
}

// Release gives up ownership without destroying the value and returns it.
// The caller becomes responsible for the value. Release on an empty handle
// returns nil.
func (u *Ptr[T]) Release() *T {
	p := u.p
	u.p = nil
	return p
}

// Reset drops the current value and takes ownership of p, or empties the
// handle when p is nil. Resetting to the value already held does nothing.
func (u *Ptr[T]) Reset(p *T) {
	if u.p == p {
		return
	}
	old := u.p
	u.p = p
	destroy(old)
}

// Swap exchanges the values owned by u and other.
func (u *Ptr[T]) Swap(other *Ptr[T]) {
	if u == other {
		return
	}
	u.p, other.p = other.p, u.p
}

// Valid reports whether u holds a value.
func (u *Ptr[T]) Valid() bool {
	return u.p != nil
}

// Get returns the held value without transferring ownership, or nil.
// The pointer must not outlive the handle's ownership of it.
func (u *Ptr[T]) Get() *T {
	return u.p
}

// Value dereferences the held value. Calling Value on an empty handle is a
// contract violation and panics with a nil pointer dereference; check Valid
// first when the handle may be empty.
func (u *Ptr[T]) Value() T {
	return *u.p
}

func (u *Ptr[T]) String() string {
	if u.p == nil {
		return fmt.Sprintf("owned.Ptr[%T](nil)", u.p)
	}
	return fmt.Sprintf("owned.Ptr[%T](%p)", u.p, u.p)
}

func destroy[T any](p *T) {
	if p == nil {
		return
	}
	if d, ok := any(p).(Dropper); ok {
		d.Drop()
	}
}
