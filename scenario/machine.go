package scenario

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/owned"
	"github.com/wippyai/owned/errors"
	"github.com/wippyai/owned/resource"
)

// SlotState is a snapshot of one named handle or raw identity.
type SlotState struct {
	Name  string
	ID    uint64
	X     int
	Valid bool
}

// VaultEntry is a snapshot of one value owned by the vault.
type VaultEntry struct {
	Handle resource.Handle
	ID     uint64
	X      int
}

// Machine executes scenario steps. It is not safe for concurrent use.
type Machine struct {
	ledger   *Ledger
	slots    map[string]*owned.Ptr[Tracked]
	raws     map[string]*Tracked
	vault    *resource.Table[Tracked]
	observer func(Event)
	trace    []Event
	order    []string
	closed   bool
}

// NewMachine creates a machine with no slots.
func NewMachine(opts ...Option) *Machine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	m := &Machine{
		slots:    make(map[string]*owned.Ptr[Tracked]),
		raws:     make(map[string]*Tracked),
		vault:    resource.NewTable[Tracked](),
		observer: o.observer,
	}
	m.ledger = NewLedger(m.record)
	m.vault.Subscribe(vaultObserver{m})
	return m
}

// Ledger returns the ledger that allocated every value in this machine.
func (m *Machine) Ledger() *Ledger {
	return m.ledger
}

// Trace returns the events recorded so far.
func (m *Machine) Trace() []Event {
	return append([]Event(nil), m.trace...)
}

// ExecLine parses and executes one command line. Blank lines and comments
// are ignored.
func (m *Machine) ExecLine(line string) error {
	step, ok, err := ParseLine(line)
	if err != nil || !ok {
		return err
	}
	return m.Exec(step)
}

// Exec executes a single step.
func (m *Machine) Exec(step Step) error {
	if m.closed {
		return errors.WithOp(errors.Closed(errors.PhaseExecute, "machine"), step.Op)
	}

	Logger().Debug("exec step",
		zap.String("op", step.Op),
		zap.Strings("args", step.Args))

	if err := m.exec(step); err != nil {
		return errors.WithOp(err, step.Op)
	}
	return nil
}

func (m *Machine) exec(step Step) error {
	a := step.Args
	if want, ok := ops[step.Op]; !ok {
		return errors.UnknownOp(errors.PhaseExecute, step.Op)
	} else if len(a) < want.min || len(a) > want.max {
		return errors.InvalidInput(errors.PhaseExecute, "wrong number of arguments")
	}

	switch step.Op {
	case "new":
		if err := m.declare(a[0]); err != nil {
			return err
		}
		m.slots[a[0]] = &owned.Ptr[Tracked]{}

	case "make":
		x, err := parseValue(a[1])
		if err != nil {
			return err
		}
		if s, ok := m.slots[a[0]]; ok {
			tmp := owned.New(m.ledger.Alloc(x))
			s.Assign(&tmp)
			return nil
		}
		if err := m.declare(a[0]); err != nil {
			return err
		}
		p := owned.New(m.ledger.Alloc(x))
		m.slots[a[0]] = &p

	case "move":
		src, err := m.slot(a[0])
		if err != nil {
			return err
		}
		if err := m.declare(a[1]); err != nil {
			return err
		}
		q := src.Move()
		m.slots[a[1]] = &q

	case "assign":
		dst, err := m.slot(a[0])
		if err != nil {
			return err
		}
		src, err := m.slot(a[1])
		if err != nil {
			return err
		}
		dst.Assign(src)

	case "reset":
		return m.reset(a)

	case "release":
		s, err := m.slot(a[0])
		if err != nil {
			return err
		}
		name, err := rawName(a[1])
		if err != nil {
			return err
		}
		if _, ok := m.raws[name]; ok {
			return errors.Duplicate(errors.PhaseExecute, "raw identity", "@"+name)
		}
		p := s.Release()
		if p == nil {
			m.output(a[0] + " released nothing")
			return nil
		}
		m.raws[name] = p

	case "delete":
		name, err := rawName(a[0])
		if err != nil {
			return err
		}
		p, err := m.raw(name)
		if err != nil {
			return err
		}
		delete(m.raws, name)
		p.Drop()

	case "swap":
		x, err := m.slot(a[0])
		if err != nil {
			return err
		}
		y, err := m.slot(a[1])
		if err != nil {
			return err
		}
		x.Swap(y)

	case "drop":
		s, err := m.slot(a[0])
		if err != nil {
			return err
		}
		m.forget(a[0])
		s.Drop()

	case "hello":
		t, err := m.deref(a[0])
		if err != nil {
			return err
		}
		m.output(t.Hello())

	case "check":
		s, err := m.slot(a[0])
		if err != nil {
			return err
		}
		if s.Valid() {
			m.output(a[0] + " is not null")
		} else {
			m.output(a[0] + " is null")
		}

	case "stash":
		s, err := m.slot(a[0])
		if err != nil {
			return err
		}
		h, err := m.vault.Adopt(s)
		if err != nil {
			return err
		}
		m.output(fmt.Sprintf("stashed %s as handle %d", a[0], h))

	case "claim":
		h, err := parseHandle(a[0])
		if err != nil {
			return err
		}
		if s, ok := m.slots[a[1]]; ok {
			q, err := m.vault.Take(h)
			if err != nil {
				return err
			}
			s.Assign(&q)
			return nil
		}
		if err := m.declare(a[1]); err != nil {
			return err
		}
		q, err := m.vault.Take(h)
		if err != nil {
			m.forget(a[1])
			return err
		}
		m.slots[a[1]] = &q

	case "discard":
		h, err := parseHandle(a[0])
		if err != nil {
			return err
		}
		return m.vault.Drop(h)
	}

	return nil
}

func (m *Machine) reset(a []string) error {
	s, err := m.slot(a[0])
	if err != nil {
		return err
	}
	if len(a) == 1 {
		s.Reset(nil)
		return nil
	}

	switch arg := a[1]; {
	case arg == "same":
		s.Reset(s.Get())
	case strings.HasPrefix(arg, "@"):
		name := arg[1:]
		p, err := m.raw(name)
		if err != nil {
			return err
		}
		// ownership of the raw identity moves back into the handle
		delete(m.raws, name)
		s.Reset(p)
	default:
		x, err := parseValue(arg)
		if err != nil {
			return err
		}
		s.Reset(m.ledger.Alloc(x))
	}
	return nil
}

// Close ends every remaining lifetime: slots in reverse declaration order,
// then the vault. Raw identities still held are reported as leaks.
// Close is idempotent.
func (m *Machine) Close() {
	if m.closed {
		return
	}
	m.closed = true

	for i := len(m.order) - 1; i >= 0; i-- {
		name := m.order[i]
		m.slots[name].Drop()
	}
	_ = m.vault.Close()

	names := make([]string, 0, len(m.raws))
	for name := range m.raws {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := m.raws[name]
		Logger().Warn("raw identity never deleted",
			zap.String("name", "@"+name),
			zap.Uint64("id", p.ID))
		m.record(Event{Kind: EventLeak, ID: p.ID, X: p.X, Text: "@" + name})
	}
}

// Slots returns the named handles in declaration order.
func (m *Machine) Slots() []SlotState {
	out := make([]SlotState, 0, len(m.order))
	for _, name := range m.order {
		st := SlotState{Name: name}
		if p := m.slots[name].Get(); p != nil {
			st.Valid = true
			st.ID = p.ID
			st.X = p.X
		}
		out = append(out, st)
	}
	return out
}

// Raws returns the released identities still held, sorted by name.
func (m *Machine) Raws() []SlotState {
	out := make([]SlotState, 0, len(m.raws))
	for name, p := range m.raws {
		out = append(out, SlotState{Name: "@" + name, ID: p.ID, X: p.X, Valid: true})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Vault returns the values owned by the vault in handle order.
func (m *Machine) Vault() []VaultEntry {
	var out []VaultEntry
	m.vault.Each(func(h resource.Handle, t *Tracked) bool {
		out = append(out, VaultEntry{Handle: h, ID: t.ID, X: t.X})
		return true
	})
	return out
}

func (m *Machine) declare(name string) error {
	if strings.HasPrefix(name, "@") {
		return errors.InvalidInput(errors.PhaseExecute, "handle names must not start with @")
	}
	if _, ok := m.slots[name]; ok {
		return errors.Duplicate(errors.PhaseExecute, "slot", name)
	}
	m.order = append(m.order, name)
	return nil
}

func (m *Machine) forget(name string) {
	delete(m.slots, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

func (m *Machine) slot(name string) (*owned.Ptr[Tracked], error) {
	s, ok := m.slots[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseExecute, "slot", name)
	}
	return s, nil
}

func (m *Machine) raw(name string) (*Tracked, error) {
	p, ok := m.raws[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseExecute, "raw identity", "@"+name)
	}
	return p, nil
}

// deref resolves a slot or @raw name to its value. Empty handles are
// reported instead of dereferenced.
func (m *Machine) deref(name string) (*Tracked, error) {
	if strings.HasPrefix(name, "@") {
		return m.raw(name[1:])
	}
	s, err := m.slot(name)
	if err != nil {
		return nil, err
	}
	if !s.Valid() {
		return nil, errors.Empty(errors.PhaseExecute, name)
	}
	return s.Get(), nil
}

func (m *Machine) output(text string) {
	m.record(Event{Kind: EventOutput, Text: text})
}

func (m *Machine) record(e Event) {
	m.trace = append(m.trace, e)
	if m.observer != nil {
		m.observer(e)
	}
}

func rawName(arg string) (string, error) {
	if !strings.HasPrefix(arg, "@") || len(arg) == 1 {
		return "", errors.New(errors.PhaseExecute, errors.KindInvalidInput).
			Value(arg).
			Detail("raw identity %q must be written @name", arg).
			Build()
	}
	return arg[1:], nil
}

func parseValue(arg string) (int, error) {
	x, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.New(errors.PhaseExecute, errors.KindInvalidInput).
			Value(arg).
			Detail("value %q is not an integer", arg).
			Cause(err).
			Build()
	}
	return x, nil
}

func parseHandle(arg string) (resource.Handle, error) {
	n, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || n == 0 {
		return 0, errors.New(errors.PhaseExecute, errors.KindInvalidInput).
			Value(arg).
			Detail("handle %q must be a positive integer", arg).
			Build()
	}
	return resource.Handle(n), nil
}

type vaultObserver struct {
	m *Machine
}

func (o vaultObserver) OnResourceEvent(e resource.Event) {
	if e.Type != resource.EventTaken {
		return
	}
	if t, ok := e.Value.(*Tracked); ok {
		o.m.output(fmt.Sprintf("claimed #%d from handle %d", t.ID, e.Handle))
	}
}
