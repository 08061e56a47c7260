package scenario

import "fmt"

// EventKind classifies trace events.
type EventKind uint8

const (
	EventConstruct EventKind = iota
	EventDestroy
	EventOutput
	EventLeak
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventConstruct:
		return "construct"
	case EventDestroy:
		return "destroy"
	case EventOutput:
		return "output"
	case EventLeak:
		return "leak"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one line of a scenario trace.
type Event struct {
	Text string
	ID   uint64
	X    int
	Kind EventKind
}

func (e Event) String() string {
	switch e.Kind {
	case EventConstruct:
		return fmt.Sprintf("ctor #%d (%d)", e.ID, e.X)
	case EventDestroy:
		return fmt.Sprintf("dtor #%d (%d)", e.ID, e.X)
	case EventLeak:
		return fmt.Sprintf("leak #%d (%d) %s", e.ID, e.X, e.Text)
	default:
		return e.Text
	}
}
