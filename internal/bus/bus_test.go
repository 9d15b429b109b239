package bus

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdlgen/internal/errors"
	"hdlgen/internal/module"
	"hdlgen/internal/regmap"
	"hdlgen/internal/stmt"
)

func sampleMap(t *testing.T, dataWidth int) *regmap.Map {
	t.Helper()
	mm, err := regmap.NewList().
		ReadWrite("csr_rw", 8, 4).
		ReadOnly("csr_ro", 8, 1).
		Trigger("csr_tw").
		Allocate(dataWidth)
	require.NoError(t, err)
	return mm
}

func axiModule(t *testing.T, mm *regmap.Map) *module.Module {
	t.Helper()
	slave, err := NewAXILiteSlave("cbus", "clk", "rstn", mm)
	require.NoError(t, err)
	m, err := module.New("axi_lite_slave").
		Input("clk", 1).
		Input("rstn", 1).
		Add(slave).
		Build()
	require.NoError(t, err)
	return m
}

func arms(t *testing.T, s stmt.Stmt) map[string]stmt.Stmt {
	t.Helper()
	c, ok := s.(*stmt.CaseStmt)
	require.True(t, ok, "expected a case statement, got %T", s)
	out := make(map[string]stmt.Stmt, len(c.Arms))
	for _, arm := range c.Arms {
		_, dup := out[arm.Label]
		require.False(t, dup, "duplicate arm %s", arm.Label)
		out[arm.Label] = arm.Body
	}
	require.NotNil(t, c.Default)
	return out
}

func TestSignals(t *testing.T) {
	s := NewSignals("cbus", AXILiteRoles)
	assert.Equal(t, "cbus_awaddr", s.Name(AWAddr))
	assert.Equal(t, "cbus_rready", s.Name(RReady))
	assert.Equal(t, "", s.Name(Valid))

	bare := NewSignals("", PicoRoles)
	assert.Equal(t, "valid", bare.Name(Valid))
	assert.Equal(t, "rdata", bare.Name(PicoRData))

	renamed := s.With(AWAddr, "s_axi_awaddr")
	assert.Equal(t, "s_axi_awaddr", renamed.Name(AWAddr))
	assert.Equal(t, "cbus_awaddr", s.Name(AWAddr), "With must not modify the receiver")

	assert.Equal(t, "x", Signals{}.With(Ready, "x").Name(Ready))
	assert.Equal(t, "unknown", Role(-1).String())
}

func TestAXILiteSample(t *testing.T) {
	mm := sampleMap(t, 32)
	slave, err := NewAXILiteSlave("cbus", "clk", "rstn", mm)
	require.NoError(t, err)

	read := arms(t, slave.ReadDecode())
	assert.Len(t, read, 6)
	for _, s := range mm.Slots() {
		if s.Readable() {
			assert.Contains(t, read, strconv.Itoa(s.Addr))
		}
	}
	assert.Equal(t, stmt.Assign("cbus_rdata[7:0]", "csr_rw[2]"), read["2"])
	assert.Equal(t, stmt.Assign("cbus_rdata[7:0]", "csr_ro"), read["4"])

	write := arms(t, slave.WriteDecode())
	assert.Len(t, write, 5)
	assert.NotContains(t, write, "4", "read-only slot must not be writable")
	assert.Equal(t, stmt.Assign("csr_rw[3]", "cbus_wdata[7:0]"), write["3"])

	m := axiModule(t, mm)
	awaddr, ok := m.Port("cbus_awaddr")
	require.True(t, ok)
	assert.Equal(t, 3, awaddr.Width)
	araddr, _ := m.Port("cbus_araddr")
	assert.Equal(t, 3, araddr.Width)
	wstrb, _ := m.Port("cbus_wstrb")
	assert.Equal(t, 4, wstrb.Width)
	bresp, _ := m.Port("cbus_bresp")
	assert.Equal(t, module.Out, bresp.Dir)
	assert.Equal(t, 2, bresp.Width)
	assert.Len(t, m.Ports(), 2+len(AXILiteRoles))
	assert.Len(t, m.ClockedProcesses(), 3)
}

func TestTriggerSignals(t *testing.T) {
	mm := sampleMap(t, 32)
	slave, err := NewAXILiteSlave("cbus", "clk", "rstn", mm)
	require.NoError(t, err)

	assert.Equal(t, stmt.Assign("csr_tw_trig", "cbus_wdata[0]"), arms(t, slave.WriteDecode())["5"])
	assert.Equal(t, stmt.Assign("cbus_rdata[0]", "csr_tw_resp"), arms(t, slave.ReadDecode())["5"])

	m := axiModule(t, mm)
	for _, name := range []string{"csr_tw_trig", "csr_tw_resp"} {
		l, ok := m.Logic(name)
		require.True(t, ok, name)
		assert.Equal(t, 1, l.Width)
	}
	_, ok := m.Logic("csr_tw")
	assert.False(t, ok)
}

func TestWriteOnlyHasNoReadArm(t *testing.T) {
	mm, err := regmap.NewList().WriteOnly("cmd", 8, 2).ReadOnly("stat", 4, 1).Allocate(64)
	require.NoError(t, err)
	slave, err := NewAXILiteSlave("", "clk", "rstn", mm)
	require.NoError(t, err)

	read := arms(t, slave.ReadDecode())
	assert.Equal(t, map[string]stmt.Stmt{"2": stmt.Assign("rdata[3:0]", "stat")}, read)
	write := arms(t, slave.WriteDecode())
	assert.Len(t, write, 2)
	assert.NotContains(t, write, "2")
}

func TestAXILiteRenders(t *testing.T) {
	lines := axiModule(t, sampleMap(t, 32)).Verilog()

	for _, want := range []string{
		"  input  logic [2:0] cbus_awaddr,",
		"  input  logic [31:0] cbus_wdata,",
		"  input  logic [3:0] cbus_wstrb,",
		"  output logic [1:0] cbus_bresp,",
		"  input  logic cbus_rready",
		"  logic [7:0] csr_rw[3:0];",
		"  logic [7:0] csr_ro;",
		"  logic csr_tw_trig;",
		"  logic csr_tw_resp;",
		"      if (cbus_wvalid && cbus_awvalid) begin",
		"          0: csr_rw[0] <= cbus_wdata[7:0];",
		"          5: csr_tw_trig <= cbus_wdata[0];",
		"          default: ;",
		"    if (!rstn) cbus_rdata <= 0;",
		"      if (cbus_arvalid) begin",
		"          4: cbus_rdata[7:0] <= csr_ro;",
		"          default: cbus_rdata <= 0;",
		"      cbus_awready <= cbus_awvalid && !cbus_awready;",
		"      if (cbus_bvalid && cbus_bready) cbus_bvalid <= 0;",
		"      else if (cbus_awready && cbus_wready && !cbus_bvalid) cbus_bvalid <= 1;",
		"      else if (cbus_arvalid && !cbus_arready) cbus_rvalid <= 1;",
	} {
		assert.Contains(t, lines, want)
	}
}

func TestAXILiteWidth64(t *testing.T) {
	m := axiModule(t, sampleMap(t, 64))
	wdata, _ := m.Port("cbus_wdata")
	assert.Equal(t, 64, wdata.Width)
	wstrb, _ := m.Port("cbus_wstrb")
	assert.Equal(t, 8, wstrb.Width)
}

func TestAXILiteErrors(t *testing.T) {
	_, err := NewAXILiteSlave("cbus", "clk", "rstn", nil)
	assert.Equal(t, errors.ErrorMissingMemoryMap, errors.Code(err))

	slave, err := NewAXILiteSlave("cbus", "clk", "rstn", sampleMap(t, 32))
	require.NoError(t, err)
	slave.Signals = slave.Signals.With(BReady, "")
	_, err = module.New("m").Add(slave).Build()
	assert.Equal(t, errors.ErrorEmptyName, errors.Code(err))

	slave, err = NewAXILiteSlave("cbus", "", "rstn", sampleMap(t, 32))
	require.NoError(t, err)
	_, err = module.New("m").Add(slave).Build()
	assert.Equal(t, errors.ErrorEmptyName, errors.Code(err))

	// A register named like a bus signal collides with the port
	mm, err := regmap.NewList().ReadWrite("cbus_rdata", 8, 1).Allocate(32)
	require.NoError(t, err)
	slave, err = NewAXILiteSlave("cbus", "clk", "rstn", mm)
	require.NoError(t, err)
	_, err = module.New("m").Add(slave).Build()
	assert.Equal(t, errors.ErrorDuplicateDeclaration, errors.Code(err))
}

func TestRenamedSignals(t *testing.T) {
	slave, err := NewAXILiteSlave("cbus", "clk", "rstn", sampleMap(t, 32))
	require.NoError(t, err)
	slave.Signals = slave.Signals.With(AWAddr, "s_axi_awaddr")

	m, err := module.New("m").Add(slave).Build()
	require.NoError(t, err)
	_, ok := m.Port("s_axi_awaddr")
	assert.True(t, ok)
	_, ok = m.Port("cbus_awaddr")
	assert.False(t, ok)
	assert.Contains(t, m.Verilog(), "        case (s_axi_awaddr)")
}

func TestGenerationIsIdempotent(t *testing.T) {
	first := axiModule(t, sampleMap(t, 32)).String()
	second := axiModule(t, sampleMap(t, 32)).String()
	assert.Equal(t, first, second)
}

func TestPicoSlave(t *testing.T) {
	mm, err := regmap.NewList().ReadWrite("ctrl", 32, 1).ReadOnly("status", 8, 1).Allocate(32)
	require.NoError(t, err)
	slave, err := NewPicoSlave("", "clk", "rstn", mm)
	require.NoError(t, err)

	m, err := module.New("regs").Input("clk", 1).Input("rstn", 1).Add(slave).Build()
	require.NoError(t, err)

	want := `module regs (
  input  logic clk,
  input  logic rstn,
  input  logic valid,
  output logic ready,
  input  logic addr,
  input  logic [31:0] wdata,
  input  logic [3:0] wstrb,
  output logic [31:0] rdata
);
  logic [31:0] ctrl;
  logic [7:0] status;
  always_ff @(posedge clk) begin
    if (!rstn) begin
      ctrl <= 0;
    end
    else begin
      if (valid && ready && |wstrb) begin
        case (addr)
          0: ctrl <= wdata[31:0];
          default: ;
        endcase
      end
    end
  end
  always_comb begin
    ready = valid;
    rdata = 0;
    case (addr)
      0: rdata[31:0] = ctrl;
      1: rdata[7:0] = status;
      default: rdata = 0;
    endcase
  end
endmodule`
	assert.Equal(t, want, m.String())
}

func TestPicoSlavePrefixed(t *testing.T) {
	slave, err := NewPicoSlave("mem", "clk", "rstn", sampleMap(t, 32))
	require.NoError(t, err)
	assert.Equal(t, "mem_valid && mem_ready && |mem_wstrb", slave.WriteEnable())
	assert.Len(t, arms(t, slave.ReadDecode()), 6)
	assert.Len(t, arms(t, slave.WriteDecode()), 5)

	m, err := module.New("m").Add(slave).Build()
	require.NoError(t, err)
	addr, ok := m.Port("mem_addr")
	require.True(t, ok)
	assert.Equal(t, 3, addr.Width)
	assert.Len(t, m.ClockedProcesses(), 1)
	assert.Len(t, m.CombProcesses(), 1)
}

func TestPicoRejects64Bit(t *testing.T) {
	_, err := NewPicoSlave("mem", "clk", "rstn", sampleMap(t, 64))
	require.Error(t, err)
	assert.Equal(t, errors.ErrorInvalidBusWidth, errors.Code(err))

	_, err = NewPicoMaster("mem", sampleMap(t, 64))
	assert.Equal(t, errors.ErrorInvalidBusWidth, errors.Code(err))

	_, err = NewPicoSlave("mem", "clk", "rstn", nil)
	assert.Equal(t, errors.ErrorMissingMemoryMap, errors.Code(err))
}

func TestPicoMaster(t *testing.T) {
	master, err := NewPicoMaster("mem", sampleMap(t, 32))
	require.NoError(t, err)
	m, err := module.New("cpu").Add(master).Build()
	require.NoError(t, err)

	dirs := map[string]module.Direction{}
	for _, p := range m.Ports() {
		dirs[p.Name] = p.Dir
	}
	assert.Equal(t, map[string]module.Direction{
		"mem_valid": module.Out,
		"mem_ready": module.In,
		"mem_addr":  module.Out,
		"mem_wdata": module.Out,
		"mem_wstrb": module.Out,
		"mem_rdata": module.In,
	}, dirs)
	assert.Empty(t, m.ClockedProcesses())
	assert.Empty(t, m.CombProcesses())
	_, ok := m.Logic("csr_tw_trig")
	assert.True(t, ok)
}

// ============================================================================
// Cycle evaluation of the generated handshake logic
// ============================================================================

// evaluator runs clocked statement trees with non-blocking semantics over
// the conjunctive expressions the bus generators emit.
type evaluator struct {
	t     *testing.T
	state map[string]int
}

func (e *evaluator) term(s string) int {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "!") {
		if e.term(s[1:]) == 0 {
			return 1
		}
		return 0
	}
	switch s {
	case "0":
		return 0
	case "1":
		return 1
	}
	return e.state[s]
}

func (e *evaluator) eval(expr string) int {
	for _, term := range strings.Split(expr, "&&") {
		if e.term(term) == 0 {
			return 0
		}
	}
	return 1
}

func (e *evaluator) exec(s stmt.Stmt, next map[string]int) {
	switch n := s.(type) {
	case nil, *stmt.EmptyStmt:
	case *stmt.BlockStmt:
		for _, child := range n.Stmts {
			e.exec(child, next)
		}
	case *stmt.AssignStmt:
		next[n.Target] = e.eval(n.Value)
	case *stmt.CondStmt:
		for _, arm := range n.Arms {
			if e.eval(arm.Cond) != 0 {
				e.exec(arm.Body, next)
				return
			}
		}
		e.exec(n.Else, next)
	default:
		e.t.Fatalf("unsupported statement %T", s)
	}
}

// clock applies one rising edge of every process
func (e *evaluator) clock(procs ...*module.AlwaysFF) {
	next := make(map[string]int, len(e.state))
	for k, v := range e.state {
		next[k] = v
	}
	for _, p := range procs {
		e.exec(p.Body, next)
	}
	e.state = next
}

func TestHandshakeTiming(t *testing.T) {
	m := axiModule(t, sampleMap(t, 32))
	protocol := m.ClockedProcesses()[2]

	e := &evaluator{t: t, state: map[string]int{"rstn": 0}}
	e.clock(protocol)
	for _, r := range []string{"cbus_awready", "cbus_wready", "cbus_bvalid", "cbus_arready", "cbus_rvalid"} {
		assert.Equal(t, 0, e.state[r], r)
	}
	e.state["rstn"] = 1

	// Write: both valids high for one cycle
	e.state["cbus_awvalid"], e.state["cbus_wvalid"] = 1, 1
	e.clock(protocol)
	assert.Equal(t, 1, e.state["cbus_awready"])
	assert.Equal(t, 1, e.state["cbus_wready"])
	assert.Equal(t, 0, e.state["cbus_bvalid"])

	e.state["cbus_awvalid"], e.state["cbus_wvalid"] = 0, 0
	e.clock(protocol)
	assert.Equal(t, 0, e.state["cbus_awready"], "awready is a single-cycle pulse")
	assert.Equal(t, 0, e.state["cbus_wready"], "wready is a single-cycle pulse")
	assert.Equal(t, 1, e.state["cbus_bvalid"], "bvalid follows the observed readies")

	for i := 0; i < 3; i++ {
		e.clock(protocol)
		assert.Equal(t, 1, e.state["cbus_bvalid"], "bvalid is held until bready")
	}

	e.state["cbus_bready"] = 1
	e.clock(protocol)
	assert.Equal(t, 0, e.state["cbus_bvalid"])
	e.state["cbus_bready"] = 0
	e.clock(protocol)
	assert.Equal(t, 0, e.state["cbus_bvalid"])

	// Read: address valid for one cycle
	e.state["cbus_arvalid"] = 1
	e.clock(protocol)
	assert.Equal(t, 1, e.state["cbus_arready"])
	assert.Equal(t, 1, e.state["cbus_rvalid"])

	e.state["cbus_arvalid"] = 0
	e.clock(protocol)
	assert.Equal(t, 0, e.state["cbus_arready"], "arready is a single-cycle pulse")
	assert.Equal(t, 1, e.state["cbus_rvalid"], "rvalid is held until rready")

	e.state["cbus_rready"] = 1
	e.clock(protocol)
	assert.Equal(t, 0, e.state["cbus_rvalid"])
}

func TestHandshakeHeldValid(t *testing.T) {
	m := axiModule(t, sampleMap(t, 32))
	protocol := m.ClockedProcesses()[2]
	e := &evaluator{t: t, state: map[string]int{"rstn": 1}}

	// A master holding awvalid sees alternating ready pulses
	e.state["cbus_awvalid"] = 1
	var trace []int
	for i := 0; i < 4; i++ {
		e.clock(protocol)
		trace = append(trace, e.state["cbus_awready"])
	}
	assert.Equal(t, []int{1, 0, 1, 0}, trace)
}
