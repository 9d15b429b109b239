// Package regmap turns an ordered list of register declarations into an
// address-indexed memory map.
package regmap

import (
	"fmt"
	"math/bits"

	"hdlgen/internal/errors"
)

// Kind is the access kind of a register entry
type Kind int

const (
	ReadWrite Kind = iota
	ReadOnly
	WriteOnly
	Trigger
)

func (k Kind) String() string {
	switch k {
	case ReadWrite:
		return "rw"
	case ReadOnly:
		return "ro"
	case WriteOnly:
		return "wo"
	case Trigger:
		return "trigger"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps the short names used in descriptions to a Kind
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "rw":
		return ReadWrite, true
	case "ro":
		return ReadOnly, true
	case "wo":
		return WriteOnly, true
	case "trigger":
		return Trigger, true
	}
	return 0, false
}

// Entry is one logical register group
type Entry struct {
	Name   string
	Kind   Kind
	Width  int
	Length int
}

// TriggerSignals returns the strobe and response signal names of a trigger
// register.
func TriggerSignals(name string) (trig, resp string) {
	return name + "_trig", name + "_resp"
}

// Slot is one addressable unit of the map. An empty Read or Write means
// the bus master cannot access the slot in that direction.
type Slot struct {
	Addr  int
	Width int
	Read  string
	Write string
}

// Readable reports whether the slot has a read signal
func (s Slot) Readable() bool { return s.Read != "" }

// Writable reports whether the slot has a write signal
func (s Slot) Writable() bool { return s.Write != "" }

// ============================================================================
// Register list
// ============================================================================

// List accumulates register entries in declaration order. The first invalid
// declaration is kept as the list error and reported by Allocate; later
// declarations are ignored.
type List struct {
	entries []Entry
	err     error
}

// NewList creates an empty register list
func NewList() *List {
	return &List{}
}

func (l *List) add(e Entry) *List {
	if l.err != nil {
		return l
	}
	switch {
	case e.Name == "":
		l.err = errors.EmptyName("register")
	case e.Width <= 0:
		l.err = errors.InvalidWidth("register", e.Name, e.Width)
	case e.Length <= 0:
		l.err = errors.InvalidLength("register", e.Name, e.Length)
	default:
		l.entries = append(l.entries, e)
	}
	return l
}

// ReadWrite declares a register the bus master can read and write
func (l *List) ReadWrite(name string, width, length int) *List {
	return l.add(Entry{Name: name, Kind: ReadWrite, Width: width, Length: length})
}

// ReadOnly declares a register the bus master can only read
func (l *List) ReadOnly(name string, width, length int) *List {
	return l.add(Entry{Name: name, Kind: ReadOnly, Width: width, Length: length})
}

// WriteOnly declares a register the bus master can only write
func (l *List) WriteOnly(name string, width, length int) *List {
	return l.add(Entry{Name: name, Kind: WriteOnly, Width: width, Length: length})
}

// Trigger declares a one-bit strobe/response pair
func (l *List) Trigger(name string) *List {
	return l.add(Entry{Name: name, Kind: Trigger, Width: 1, Length: 1})
}

// Add declares an entry of any kind. Trigger entries are normalised to
// width 1, length 1.
func (l *List) Add(e Entry) *List {
	if e.Kind == Trigger {
		e.Width, e.Length = 1, 1
	}
	return l.add(e)
}

// Entries returns a copy of the declared entries
func (l *List) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Err returns the first declaration error, if any
func (l *List) Err() error {
	return l.err
}

// ============================================================================
// Allocation
// ============================================================================

// Map is an allocated memory map
type Map struct {
	dataWidth int
	addrWidth int
	entries   []Entry
	slots     []Slot
}

// DataWidth is the bus data width the map was allocated for
func (m *Map) DataWidth() int { return m.dataWidth }

// AddrWidth is the number of address bits needed to select every slot
func (m *Map) AddrWidth() int { return m.addrWidth }

// TotalSlots is the number of addressable slots
func (m *Map) TotalSlots() int { return len(m.slots) }

// Entries returns a copy of the register entries in declaration order
func (m *Map) Entries() []Entry { return append([]Entry(nil), m.entries...) }

// Slots returns a copy of the allocated slots in address order
func (m *Map) Slots() []Slot { return append([]Slot(nil), m.slots...) }

// Allocate assigns consecutive addresses starting at 0 to every slot, in
// declaration order. dataWidth must be 32 or 64 and every entry must fit
// in it.
func (l *List) Allocate(dataWidth int) (*Map, error) {
	if l.err != nil {
		return nil, l.err
	}
	if dataWidth != 32 && dataWidth != 64 {
		return nil, errors.InvalidBusWidth("register map", dataWidth, 32, 64)
	}

	var slots []Slot
	addr := 0
	for _, e := range l.entries {
		if e.Width > dataWidth {
			return nil, errors.RegisterTooWide(e.Name, e.Width, dataWidth)
		}
		for idx := 0; idx < e.Length; idx++ {
			slots = append(slots, e.slot(addr, idx))
			addr++
		}
	}

	return &Map{
		dataWidth: dataWidth,
		addrWidth: AddrWidth(addr),
		entries:   l.Entries(),
		slots:     slots,
	}, nil
}

func (e Entry) slot(addr, idx int) Slot {
	name := e.Name + Select(idx, e.Length)
	s := Slot{Addr: addr, Width: e.Width}
	switch e.Kind {
	case ReadWrite:
		s.Read, s.Write = name, name
	case ReadOnly:
		s.Read = name
	case WriteOnly:
		s.Write = name
	case Trigger:
		s.Write, s.Read = TriggerSignals(e.Name)
	}
	return s
}

// ============================================================================
// Width helpers
// ============================================================================

// Clog2 returns ceil(log2(n)). ok is false for n == 0.
func Clog2(n int) (int, bool) {
	if n <= 0 {
		return 0, false
	}
	return bits.Len(uint(n - 1)), true
}

// AddrWidth is the address width needed for n slots, floored at 1
func AddrWidth(n int) int {
	w, _ := Clog2(n)
	return max(1, w)
}

// Select returns the index selector for element idx of an array of the
// given length, or "" for scalars.
func Select(idx, length int) string {
	if length <= 1 {
		return ""
	}
	return fmt.Sprintf("[%d]", idx)
}

// Range returns the low-bits part select for width bits, e.g. "[7:0]"
func Range(width int) string {
	if width <= 1 {
		return "[0]"
	}
	return fmt.Sprintf("[%d:0]", width-1)
}
