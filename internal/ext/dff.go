// Package ext holds reusable module extensions built on the statement IR:
// flip-flop processes, combinational muxes, state machines, FIFO storage
// and stream ports.
package ext

import (
	"hdlgen/internal/errors"
	"hdlgen/internal/module"
	"hdlgen/internal/stmt"
)

// DFF is a clocked process with an active-low reset. While reset is low the
// init statements run; otherwise body runs on every rising clock edge.
type DFF struct {
	async bool
	clock string
	reset string
	init  stmt.Stmt
	body  stmt.Stmt
}

// SyncDFF returns a flip-flop process with synchronous reset
func SyncDFF(clock, reset string, init, body stmt.Stmt) *DFF {
	return &DFF{clock: clock, reset: reset, init: init, body: body}
}

// AsyncDFF returns a flip-flop process with asynchronous reset, also
// sensitive to the falling edge of reset.
func AsyncDFF(clock, reset string, init, body stmt.Stmt) *DFF {
	return &DFF{async: true, clock: clock, reset: reset, init: init, body: body}
}

// Sens returns the sensitivity list of the process
func (d *DFF) Sens() module.Sens {
	sens := module.NewSens().Posedge(d.clock)
	if d.async {
		sens = sens.Negedge(d.reset)
	}
	return sens
}

// Stmt returns the process body with the reset branch applied
func (d *DFF) Stmt() stmt.Stmt {
	return stmt.Begin().
		Add(stmt.If("!"+d.reset, d.init).Else(d.body)).
		End()
}

// Extend appends the process to b
func (d *DFF) Extend(b *module.Builder) error {
	if d.clock == "" {
		return errors.EmptyName("clock")
	}
	if d.reset == "" {
		return errors.EmptyName("reset")
	}
	b.AlwaysFF(d.Sens(), d.Stmt())
	return nil
}
