package bus

import (
	"fmt"

	"hdlgen/internal/errors"
	"hdlgen/internal/ext"
	"hdlgen/internal/module"
	"hdlgen/internal/regmap"
	"hdlgen/internal/stmt"
)

const (
	picoDataWidth = 32
	picoAddrLimit = 32
)

func checkPico(prefix string, mem *regmap.Map) error {
	if mem == nil {
		return errors.MissingMemoryMap(prefix)
	}
	if mem.DataWidth() != picoDataWidth {
		return errors.InvalidBusWidth("Pico", mem.DataWidth(), picoDataWidth)
	}
	if mem.AddrWidth() > picoAddrLimit {
		return errors.AddressTooWide("Pico", mem.AddrWidth(), picoAddrLimit)
	}
	return nil
}

// PicoSlave is a register file behind a single-cycle bus. A transfer
// completes in the cycle valid is seen; writes are selected by a non-zero
// byte strobe.
type PicoSlave struct {
	Signals Signals
	clock   string
	reset   string
	mem     *regmap.Map
}

// NewPicoSlave returns a slave whose signals are named `{prefix}_{role}`,
// or `{role}` for an empty prefix. The memory map must use a 32 bit data
// bus.
func NewPicoSlave(prefix, clock, reset string, mem *regmap.Map) (*PicoSlave, error) {
	if err := checkPico(prefix, mem); err != nil {
		return nil, err
	}
	return &PicoSlave{
		Signals: NewSignals(prefix, PicoRoles),
		clock:   clock,
		reset:   reset,
		mem:     mem,
	}, nil
}

// Map returns the memory map served by the slave
func (s *PicoSlave) Map() *regmap.Map {
	return s.mem
}

func (s *PicoSlave) n(r Role) string {
	return s.Signals.Name(r)
}

// WriteDecode returns the write address dispatch
func (s *PicoSlave) WriteDecode() stmt.Stmt {
	return WriteDecode(s.n(Addr), s.n(PicoWData), s.mem)
}

// ReadDecode returns the read multiplexer dispatch
func (s *PicoSlave) ReadDecode() stmt.Stmt {
	return ReadDecode(s.n(Addr), s.n(PicoRData), s.mem)
}

// WriteEnable is the condition under which the write dispatch runs
func (s *PicoSlave) WriteEnable() string {
	return fmt.Sprintf("%s && %s && |%s", s.n(Valid), s.n(Ready), s.n(PicoWStrb))
}

// Extend declares the slave ports and registers, the clocked write
// process and the combinational read multiplexer.
func (s *PicoSlave) Extend(b *module.Builder) error {
	if r, ok := s.Signals.has(PicoRoles); !ok {
		return errors.EmptyName(r.String() + " signal")
	}
	log.Debugf("Pico slave on %s: %d slots, %d bit address", b.Name(), s.mem.TotalSlots(), s.mem.AddrWidth())

	b.Input(s.n(Valid), 1).
		Output(s.n(Ready), 1).
		Input(s.n(Addr), s.mem.AddrWidth()).
		Input(s.n(PicoWData), picoDataWidth).
		Input(s.n(PicoWStrb), picoDataWidth/8).
		Output(s.n(PicoRData), picoDataWidth)

	DefineRegisters(b, s.mem)

	write := ext.SyncDFF(s.clock, s.reset,
		WriteReset(s.mem),
		stmt.Begin().If(s.WriteEnable(), stmt.Begin().Case(s.WriteDecode()).End()).End())
	if err := write.Extend(b); err != nil {
		return err
	}

	// rdata is cleared before the dispatch so no bit is left undriven
	b.AlwaysComb(stmt.Begin().
		Assign(s.n(Ready), s.n(Valid)).
		Assign(s.n(PicoRData), "0").
		Case(s.ReadDecode()).
		End())
	return nil
}

// PicoMaster declares the master side of a Pico bus together with the
// registers it exchanges. It carries no protocol logic.
type PicoMaster struct {
	Signals Signals
	mem     *regmap.Map
}

// NewPicoMaster returns a master whose signals are named like the slave's
func NewPicoMaster(prefix string, mem *regmap.Map) (*PicoMaster, error) {
	if err := checkPico(prefix, mem); err != nil {
		return nil, err
	}
	return &PicoMaster{Signals: NewSignals(prefix, PicoRoles), mem: mem}, nil
}

// Map returns the memory map of the master
func (m *PicoMaster) Map() *regmap.Map {
	return m.mem
}

// Extend declares the mirrored port set and the registers
func (m *PicoMaster) Extend(b *module.Builder) error {
	if r, ok := m.Signals.has(PicoRoles); !ok {
		return errors.EmptyName(r.String() + " signal")
	}
	log.Debugf("Pico master on %s: %d slots", b.Name(), m.mem.TotalSlots())

	n := m.Signals.Name
	b.Output(n(Valid), 1).
		Input(n(Ready), 1).
		Output(n(Addr), m.mem.AddrWidth()).
		Output(n(PicoWData), picoDataWidth).
		Output(n(PicoWStrb), picoDataWidth/8).
		Input(n(PicoRData), picoDataWidth)

	DefineRegisters(b, m.mem)
	return nil
}
