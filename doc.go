// Package owned provides Ptr, a single-owner handle for a heap-allocated value.
//
// A Ptr is the only owner of the value it holds. Ownership can move between
// handles but is never duplicated, and the value's destruction action runs
// exactly once, when its last owner drops it.
//
// # Lifecycle
//
//	p := owned.Make(Foo{X: 10}) // allocate and own
//	defer p.Drop()             // destroy on every exit path
//
//	q := p.Move()              // q owns, p is empty
//	defer q.Drop()
//
//	q.Reset(&Foo{X: 99})       // old value dropped, new one owned
//	raw := q.Release()         // caller owns raw, q is empty
//
// Dropping an empty handle is a no-op, so a deferred Drop keeps working after
// the value has been moved or released.
//
// # Copying
//
// A Ptr must not be copied. It embeds a marker that go vet's copylocks check
// reports on every by-value copy, and all methods take pointer receivers.
// Values returned by New, Make and Move may initialise a new variable or be
// stored into an empty handle:
//
//	q := p.Move()      // ok
//	r := q             // vet: assignment copies lock value
//
// Plain assignment over a handle that still holds a value forgets that value
// without dropping it, and vet does not catch it. Use Assign to move into a
// holding handle:
//
//	q = p.Move()       // q's old value is never dropped
//	q.Assign(&p)       // q's old value is dropped, q takes p's
//
// # Destruction
//
// The destruction action is the Dropper interface implemented by *T. Values
// that do not implement it are simply forgotten and reclaimed by the garbage
// collector.
//
// # Concurrency
//
// A Ptr is not safe for concurrent use. Moving, resetting or releasing the
// same handle from several goroutines races on its slot.
package owned
