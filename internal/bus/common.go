package bus

import (
	"strconv"

	"hdlgen/internal/module"
	"hdlgen/internal/regmap"
	"hdlgen/internal/stmt"
)

// DefineRegisters declares the storage of every entry in mm. A trigger
// entry declares its strobe and response signals.
func DefineRegisters(b *module.Builder, mm *regmap.Map) {
	for _, e := range mm.Entries() {
		if e.Kind == regmap.Trigger {
			trig, resp := regmap.TriggerSignals(e.Name)
			b.Logic(trig, 1, 1).Logic(resp, 1, 1)
			continue
		}
		b.Logic(e.Name, e.Width, e.Length)
	}
}

// WriteReset assigns 0 to every writable signal of mm
func WriteReset(mm *regmap.Map) stmt.Stmt {
	b := stmt.Begin()
	for _, s := range mm.Slots() {
		if s.Writable() {
			b.Assign(s.Write, "0")
		}
	}
	return b.End()
}

// WriteDecode dispatches on addr, assigning the low bits of wdata to the
// write signal of the addressed slot. Unmatched addresses do nothing.
func WriteDecode(addr, wdata string, mm *regmap.Map) stmt.Stmt {
	c := stmt.Case(addr)
	for _, s := range mm.Slots() {
		if s.Writable() {
			c.Arm(strconv.Itoa(s.Addr), stmt.Assign(s.Write, wdata+regmap.Range(s.Width)))
		}
	}
	return c.Default(stmt.Empty())
}

// ReadDecode dispatches on addr, driving the low bits of rdata from the
// read signal of the addressed slot. Unmatched addresses read 0.
func ReadDecode(addr, rdata string, mm *regmap.Map) stmt.Stmt {
	c := stmt.Case(addr)
	for _, s := range mm.Slots() {
		if s.Readable() {
			c.Arm(strconv.Itoa(s.Addr), stmt.Assign(rdata+regmap.Range(s.Width), s.Read))
		}
	}
	return c.Default(stmt.Assign(rdata, "0"))
}
