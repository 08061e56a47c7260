package scenario

import (
	"fmt"
	"sort"
)

// Tracked is the value owned by scenario handles. Its destruction is
// recorded in the ledger that allocated it.
type Tracked struct {
	ledger *Ledger
	ID     uint64
	X      int
}

// Hello renders the value the way the scenario output shows it.
func (t *Tracked) Hello() string {
	return fmt.Sprintf("Hello x=%d", t.X)
}

// Drop implements owned.Dropper.
func (t *Tracked) Drop() {
	t.ledger.destroy(t)
}

// Record is the lifecycle summary of one Tracked identity.
type Record struct {
	ID        uint64
	X         int
	Destroyed int
}

// Ledger allocates Tracked values and counts their destructions.
// It is not safe for concurrent use.
type Ledger struct {
	records map[uint64]*Record
	emit    func(Event)
	nextID  uint64
}

// NewLedger creates an empty ledger. emit, if non-nil, receives a
// construct or destroy event for every lifecycle change.
func NewLedger(emit func(Event)) *Ledger {
	return &Ledger{
		records: make(map[uint64]*Record),
		emit:    emit,
	}
}

// Alloc constructs a new Tracked value with a fresh identity.
func (l *Ledger) Alloc(x int) *Tracked {
	l.nextID++
	t := &Tracked{ID: l.nextID, X: x, ledger: l}
	l.records[t.ID] = &Record{ID: t.ID, X: x}
	if l.emit != nil {
		l.emit(Event{Kind: EventConstruct, ID: t.ID, X: x})
	}
	return t
}

func (l *Ledger) destroy(t *Tracked) {
	r, ok := l.records[t.ID]
	if !ok {
		return
	}
	r.Destroyed++
	if l.emit != nil {
		l.emit(Event{Kind: EventDestroy, ID: t.ID, X: t.X})
	}
}

// Destroyed returns how many times the identity has been destroyed.
func (l *Ledger) Destroyed(id uint64) int {
	if r, ok := l.records[id]; ok {
		return r.Destroyed
	}
	return 0
}

// Live returns the identities that have not been destroyed, in order.
func (l *Ledger) Live() []uint64 {
	var ids []uint64
	for id, r := range l.records {
		if r.Destroyed == 0 {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids
}

// Violations returns the identities destroyed more than once, in order.
func (l *Ledger) Violations() []uint64 {
	var ids []uint64
	for id, r := range l.records {
		if r.Destroyed > 1 {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids
}

// Records returns a copy of every record ordered by identity.
func (l *Ledger) Records() []Record {
	out := make([]Record, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortIDs(ids []uint64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
