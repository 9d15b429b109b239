// Package module assembles ports, parameters, storage declarations,
// sub-instances and processes into one SystemVerilog module.
package module

import (
	"fmt"
	"slices"
	"strings"

	"hdlgen/internal/stmt"
)

// Direction is the direction of a module port
type Direction int

const (
	In Direction = iota
	Out
	InOut
)

func (d Direction) String() string {
	switch d {
	case In:
		return "input"
	case Out:
		return "output"
	case InOut:
		return "inout"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection maps a direction keyword to a Direction
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "input", "in":
		return In, true
	case "output", "out":
		return Out, true
	case "inout":
		return InOut, true
	}
	return 0, false
}

// Port is one module port
type Port struct {
	Name   string
	Dir    Direction
	Width  int
	Length int
}

// Param is one module parameter. An empty Default means no default value.
type Param struct {
	Name    string
	Default string
}

// ============================================================================
// Body elements
// ============================================================================

// ElementKind identifies the category of a body element
type ElementKind int

const (
	KindLocalParam ElementKind = iota
	KindLogic
	KindInstance
	KindAlwaysFF
	KindAlwaysComb
)

// Element is one body element of a module. The set is closed: LocalParam,
// Logic, Instance, AlwaysFF and AlwaysComb.
type Element interface {
	Kind() ElementKind
	// Verilog renders the element at the given indent level
	Verilog(indent int) []string
	element()
}

// LocalParam is a `localparam NAME = value;` line
type LocalParam struct {
	Name  string
	Value string
}

// Logic is a storage declaration
type Logic struct {
	Name   string
	Width  int
	Length int
}

// Conn is a named connection of an instance parameter or port
type Conn struct {
	Name  string
	Value string
}

// Instance is a sub-module instantiation
type Instance struct {
	Name   string
	Module string
	Params []Conn
	Ports  []Conn
}

// AlwaysFF is a clocked process. Its body renders with non-blocking
// assignments.
type AlwaysFF struct {
	Sens Sens
	Body stmt.Stmt
}

// AlwaysComb is a combinational process. Its body renders with blocking
// assignments.
type AlwaysComb struct {
	Body stmt.Stmt
}

func (*LocalParam) element() {}
func (*Logic) element()      {}
func (*Instance) element()   {}
func (*AlwaysFF) element()   {}
func (*AlwaysComb) element() {}

func (*LocalParam) Kind() ElementKind { return KindLocalParam }
func (*Logic) Kind() ElementKind      { return KindLogic }
func (*Instance) Kind() ElementKind   { return KindInstance }
func (*AlwaysFF) Kind() ElementKind   { return KindAlwaysFF }
func (*AlwaysComb) Kind() ElementKind { return KindAlwaysComb }

// NewInstance starts an instantiation of module named name
func NewInstance(name, module string) *Instance {
	return &Instance{Name: name, Module: module}
}

// Param connects an instance parameter
func (i *Instance) Param(param, value string) *Instance {
	i.Params = append(i.Params, Conn{Name: param, Value: value})
	return i
}

// Port connects an instance port to a wire
func (i *Instance) Port(port, wire string) *Instance {
	i.Ports = append(i.Ports, Conn{Name: port, Value: wire})
	return i
}

func (i *Instance) clone() *Instance {
	c := *i
	c.Params = slices.Clone(i.Params)
	c.Ports = slices.Clone(i.Ports)
	return &c
}

// ============================================================================
// Sensitivity lists
// ============================================================================

// EdgeKind is the kind of one sensitivity list item
type EdgeKind int

const (
	Posedge EdgeKind = iota
	Negedge
	Level
)

// Edge is one sensitivity list item
type Edge struct {
	Kind   EdgeKind
	Signal string
}

func (e Edge) String() string {
	switch e.Kind {
	case Posedge:
		return "posedge " + e.Signal
	case Negedge:
		return "negedge " + e.Signal
	default:
		return e.Signal
	}
}

// Sens is the sensitivity list of a clocked process. Methods return a new
// list and never modify the receiver.
type Sens struct {
	edges []Edge
}

// NewSens returns an empty sensitivity list
func NewSens() Sens {
	return Sens{}
}

func (s Sens) with(e Edge) Sens {
	edges := slices.Clone(s.edges)
	return Sens{edges: append(edges, e)}
}

// Posedge adds a rising edge of signal
func (s Sens) Posedge(signal string) Sens { return s.with(Edge{Kind: Posedge, Signal: signal}) }

// Negedge adds a falling edge of signal
func (s Sens) Negedge(signal string) Sens { return s.with(Edge{Kind: Negedge, Signal: signal}) }

// Level adds a level-sensitive signal
func (s Sens) Level(signal string) Sens { return s.with(Edge{Kind: Level, Signal: signal}) }

// Edges returns a copy of the list items
func (s Sens) Edges() []Edge { return slices.Clone(s.edges) }

// Len returns the number of list items
func (s Sens) Len() int { return len(s.edges) }

func (s Sens) String() string {
	parts := make([]string, len(s.edges))
	for i, e := range s.edges {
		parts[i] = e.String()
	}
	return strings.Join(parts, " or ")
}

// ============================================================================
// Module
// ============================================================================

// Module is an assembled module. It is immutable once built.
type Module struct {
	name   string
	params []Param
	ports  []Port
	body   []Element
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Params returns a copy of the parameters in declaration order
func (m *Module) Params() []Param { return slices.Clone(m.params) }

// Ports returns a copy of the ports in declaration order
func (m *Module) Ports() []Port { return slices.Clone(m.ports) }

// Elements returns the body elements in declaration order
func (m *Module) Elements() []Element { return slices.Clone(m.body) }

// Port looks up a port by name
func (m *Module) Port(name string) (Port, bool) {
	for _, p := range m.ports {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// Logic looks up a storage declaration by name
func (m *Module) Logic(name string) (*Logic, bool) {
	for _, e := range m.body {
		if l, ok := e.(*Logic); ok && l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// ClockedProcesses returns the clocked processes in declaration order
func (m *Module) ClockedProcesses() []*AlwaysFF {
	var out []*AlwaysFF
	for _, e := range m.body {
		if ff, ok := e.(*AlwaysFF); ok {
			out = append(out, ff)
		}
	}
	return out
}

// CombProcesses returns the combinational processes in declaration order
func (m *Module) CombProcesses() []*AlwaysComb {
	var out []*AlwaysComb
	for _, e := range m.body {
		if c, ok := e.(*AlwaysComb); ok {
			out = append(out, c)
		}
	}
	return out
}

// String renders the module in declaration order
func (m *Module) String() string {
	return strings.Join(m.Verilog(), "\n")
}
