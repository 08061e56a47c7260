package resource

import "github.com/wippyai/owned"

// Handle is an opaque reference to a resource in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Event types for resource lifecycle notifications.
type EventType uint8

const (
	EventAdopted EventType = iota
	EventTaken
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventAdopted:
		return "adopted"
	case EventTaken:
		return "taken"
	case EventDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Event represents a resource lifecycle event.
// Value is the raw identity involved; for EventDropped it has already been
// destroyed and must not be used.
type Event struct {
	Value  any
	Handle Handle
	Type   EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Backend provides the underlying storage for owned values.
type Backend[T any] interface {
	// Adopt moves the value held by p into storage and returns its handle.
	Adopt(p *owned.Ptr[T]) (Handle, error)

	// Get returns the stored value without transferring ownership.
	Get(handle Handle) (*T, bool)

	// Take moves the stored value out and frees the handle.
	Take(handle Handle) (owned.Ptr[T], bool)

	// Drain moves every stored value out and refuses further adoption.
	// handles[i] is the handle ptrs[i] was stored under.
	Drain() (handles []Handle, ptrs []owned.Ptr[T])
}
