package bus

import (
	"fmt"

	"hdlgen/internal/errors"
	"hdlgen/internal/ext"
	"hdlgen/internal/module"
	"hdlgen/internal/regmap"
	"hdlgen/internal/stmt"
)

// AXILiteSlave is a register file behind an AXI-Lite style slave port.
// Ready signals pulse for one cycle; response valids are held until the
// master accepts them.
type AXILiteSlave struct {
	Signals Signals
	clock   string
	reset   string
	mem     *regmap.Map
}

// NewAXILiteSlave returns a slave whose signals are named `{prefix}_{role}`.
// The memory map must use a 32 or 64 bit data bus.
func NewAXILiteSlave(prefix, clock, reset string, mem *regmap.Map) (*AXILiteSlave, error) {
	if mem == nil {
		return nil, errors.MissingMemoryMap(prefix)
	}
	if w := mem.DataWidth(); w != 32 && w != 64 {
		return nil, errors.InvalidBusWidth("AXI-Lite", w, 32, 64)
	}
	return &AXILiteSlave{
		Signals: NewSignals(prefix, AXILiteRoles),
		clock:   clock,
		reset:   reset,
		mem:     mem,
	}, nil
}

// Map returns the memory map served by the slave
func (s *AXILiteSlave) Map() *regmap.Map {
	return s.mem
}

func (s *AXILiteSlave) n(r Role) string {
	return s.Signals.Name(r)
}

// WriteDecode returns the write address dispatch
func (s *AXILiteSlave) WriteDecode() stmt.Stmt {
	return WriteDecode(s.n(AWAddr), s.n(WData), s.mem)
}

// ReadDecode returns the read address dispatch
func (s *AXILiteSlave) ReadDecode() stmt.Stmt {
	return ReadDecode(s.n(ARAddr), s.n(RData), s.mem)
}

// ProtocolReset clears every handshake signal and both response codes
func (s *AXILiteSlave) ProtocolReset() stmt.Stmt {
	return stmt.Begin().
		Assign(s.n(AWReady), "0").
		Assign(s.n(WReady), "0").
		Assign(s.n(BValid), "0").
		Assign(s.n(ARReady), "0").
		Assign(s.n(RValid), "0").
		Assign(s.n(BResp), "0").
		Assign(s.n(RResp), "0").
		End()
}

// Protocol returns the body of the handshake process
func (s *AXILiteSlave) Protocol() stmt.Stmt {
	awvalid, awready := s.n(AWValid), s.n(AWReady)
	wvalid, wready := s.n(WValid), s.n(WReady)
	bvalid, bready := s.n(BValid), s.n(BReady)
	arvalid, arready := s.n(ARValid), s.n(ARReady)
	rvalid, rready := s.n(RValid), s.n(RReady)

	return stmt.Begin().
		Assign(awready, fmt.Sprintf("%s && !%s", awvalid, awready)).
		Assign(wready, fmt.Sprintf("%s && !%s", wvalid, wready)).
		Add(stmt.If(fmt.Sprintf("%s && %s", bvalid, bready), stmt.Assign(bvalid, "0")).
			ElseIf(fmt.Sprintf("%s && %s && !%s", awready, wready, bvalid), stmt.Assign(bvalid, "1")).
			End()).
		Assign(arready, fmt.Sprintf("%s && !%s", arvalid, arready)).
		Add(stmt.If(fmt.Sprintf("%s && %s", rvalid, rready), stmt.Assign(rvalid, "0")).
			ElseIf(fmt.Sprintf("%s && !%s", arvalid, arready), stmt.Assign(rvalid, "1")).
			End()).
		End()
}

// Extend declares the slave ports and registers and appends the write,
// read and handshake processes.
func (s *AXILiteSlave) Extend(b *module.Builder) error {
	if r, ok := s.Signals.has(AXILiteRoles); !ok {
		return errors.EmptyName(r.String() + " signal")
	}
	data := s.mem.DataWidth()
	addr := s.mem.AddrWidth()
	log.Debugf("AXI-Lite slave on %s: %d slots, %d bit address, %d bit data",
		b.Name(), s.mem.TotalSlots(), addr, data)

	b.Input(s.n(AWAddr), addr).
		Input(s.n(AWValid), 1).
		Output(s.n(AWReady), 1).
		Input(s.n(WData), data).
		Input(s.n(WStrb), data/8).
		Input(s.n(WValid), 1).
		Output(s.n(WReady), 1).
		Output(s.n(BResp), 2).
		Output(s.n(BValid), 1).
		Input(s.n(BReady), 1).
		Input(s.n(ARAddr), addr).
		Input(s.n(ARValid), 1).
		Output(s.n(ARReady), 1).
		Output(s.n(RData), data).
		Output(s.n(RResp), 2).
		Output(s.n(RValid), 1).
		Input(s.n(RReady), 1)

	DefineRegisters(b, s.mem)

	write := ext.SyncDFF(s.clock, s.reset,
		WriteReset(s.mem),
		stmt.Begin().
			If(fmt.Sprintf("%s && %s", s.n(WValid), s.n(AWValid)), stmt.Begin().Case(s.WriteDecode()).End()).
			End())
	read := ext.SyncDFF(s.clock, s.reset,
		stmt.Assign(s.n(RData), "0"),
		stmt.Begin().
			If(s.n(ARValid), stmt.Begin().Case(s.ReadDecode()).End()).
			End())
	protocol := ext.SyncDFF(s.clock, s.reset, s.ProtocolReset(), s.Protocol())

	for _, d := range []*ext.DFF{write, read, protocol} {
		if err := d.Extend(b); err != nil {
			return err
		}
	}
	return nil
}
