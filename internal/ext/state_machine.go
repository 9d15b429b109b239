package ext

import (
	"strconv"

	"hdlgen/internal/errors"
	"hdlgen/internal/module"
	"hdlgen/internal/regmap"
	"hdlgen/internal/stmt"
)

type transition struct {
	cond string
	next string
}

type state struct {
	name     string
	jumps    []transition
	fallback string
}

// StateMachine is a clocked state register with one localparam per state.
// States are encoded in declaration order; the first state is the reset
// state.
type StateMachine struct {
	stateVar string
	clock    string
	reset    string
	states   []state
}

// NewStateMachine starts a state machine driving stateVar
func NewStateMachine(stateVar, clock, reset string) *StateMachine {
	return &StateMachine{stateVar: stateVar, clock: clock, reset: reset}
}

// State starts the declaration of a state
func (m *StateMachine) State(name string) *StateBuilder {
	return &StateBuilder{machine: m, name: name}
}

// StateBuilder collects the transitions of one state
type StateBuilder struct {
	machine *StateMachine
	name    string
	jumps   []transition
}

// Jump moves to next when cond holds. Earlier jumps take priority.
func (b *StateBuilder) Jump(cond, next string) *StateBuilder {
	b.jumps = append(b.jumps, transition{cond: cond, next: next})
	return b
}

// Else finishes the state, moving to next when no jump matches
func (b *StateBuilder) Else(next string) *StateMachine {
	b.machine.states = append(b.machine.states, state{name: b.name, jumps: b.jumps, fallback: next})
	return b.machine
}

// End finishes the state, staying in it when no jump matches
func (b *StateBuilder) End() *StateMachine {
	return b.Else(b.name)
}

// Width is the width of the state register
func (m *StateMachine) Width() int {
	return regmap.AddrWidth(len(m.states))
}

// Stmt returns the next-state logic of the clocked process
func (m *StateMachine) Stmt() stmt.Stmt {
	cases := stmt.Case(m.stateVar)
	for _, s := range m.states {
		stay := stmt.Assign(m.stateVar, s.fallback)
		if len(s.jumps) == 0 {
			cases.Arm(s.name, stay)
			continue
		}
		cond := stmt.If(s.jumps[0].cond, stmt.Assign(m.stateVar, s.jumps[0].next))
		for _, j := range s.jumps[1:] {
			cond.ElseIf(j.cond, stmt.Assign(m.stateVar, j.next))
		}
		cases.Arm(s.name, stmt.Begin().Add(cond.Else(stay)).End())
	}
	return stmt.Begin().Case(cases.Default(stmt.Assign(m.stateVar, m.states[0].name))).End()
}

// Extend declares the state register, the state encodings and the clocked
// next-state process.
func (m *StateMachine) Extend(b *module.Builder) error {
	if len(m.states) == 0 {
		return errors.EmptyStateMachine(m.stateVar)
	}
	b.Logic(m.stateVar, m.Width(), 1)
	for i, s := range m.states {
		b.LocalParam(s.name, strconv.Itoa(i))
	}
	return SyncDFF(m.clock, m.reset, stmt.Assign(m.stateVar, m.states[0].name), m.Stmt()).Extend(b)
}
