package module

import (
	"slices"

	"hdlgen/internal/errors"
	"hdlgen/internal/stmt"
)

// Extension adds a group of related declarations and processes to a
// module, e.g. a bus slave or a flip-flop.
type Extension interface {
	Extend(b *Builder) error
}

// Builder accumulates a module through chained calls. The first failed
// precondition is recorded and every later call becomes a no-op; Build
// reports it.
type Builder struct {
	m     Module
	names map[string]bool
	err   error
}

// New starts a module named name
func New(name string) *Builder {
	b := &Builder{
		m:     Module{name: name},
		names: make(map[string]bool),
	}
	if name == "" {
		b.err = errors.EmptyName("module")
	}
	return b
}

// Name returns the name of the module being built
func (b *Builder) Name() string {
	return b.m.name
}

// Err returns the first recorded error
func (b *Builder) Err() error {
	return b.err
}

// Fail records err unless an earlier error is already recorded
func (b *Builder) Fail(err error) *Builder {
	if b.err == nil && err != nil {
		b.err = err
	}
	return b
}

// declare reserves a name in the module namespace
func (b *Builder) declare(what, name string) bool {
	if b.err != nil {
		return false
	}
	if name == "" {
		b.err = errors.EmptyName(what)
		return false
	}
	if b.names[name] {
		b.err = errors.DuplicateDeclaration(b.m.name, name)
		return false
	}
	b.names[name] = true
	return true
}

func (b *Builder) checkShape(what, name string, width, length int) bool {
	if b.err != nil {
		return false
	}
	switch {
	case width <= 0:
		b.err = errors.InvalidWidth(what, name, width)
	case length <= 0:
		b.err = errors.InvalidLength(what, name, length)
	}
	return b.err == nil
}

// Port appends a port
func (b *Builder) Port(p Port) *Builder {
	if b.checkShape("port", p.Name, p.Width, p.Length) && b.declare("port", p.Name) {
		b.m.ports = append(b.m.ports, p)
	}
	return b
}

// Input appends a scalar or vector input port
func (b *Builder) Input(name string, width int) *Builder {
	return b.Port(Port{Name: name, Dir: In, Width: width, Length: 1})
}

// Output appends a scalar or vector output port
func (b *Builder) Output(name string, width int) *Builder {
	return b.Port(Port{Name: name, Dir: Out, Width: width, Length: 1})
}

// Inout appends a scalar or vector bidirectional port
func (b *Builder) Inout(name string, width int) *Builder {
	return b.Port(Port{Name: name, Dir: InOut, Width: width, Length: 1})
}

// Param appends a module parameter; def may be empty
func (b *Builder) Param(name, def string) *Builder {
	if b.declare("parameter", name) {
		b.m.params = append(b.m.params, Param{Name: name, Default: def})
	}
	return b
}

// LocalParam appends a local parameter
func (b *Builder) LocalParam(name, value string) *Builder {
	if b.declare("localparam", name) {
		b.m.body = append(b.m.body, &LocalParam{Name: name, Value: value})
	}
	return b
}

// Logic appends a storage declaration
func (b *Builder) Logic(name string, width, length int) *Builder {
	if b.checkShape("logic", name, width, length) && b.declare("logic", name) {
		b.m.body = append(b.m.body, &Logic{Name: name, Width: width, Length: length})
	}
	return b
}

// Instance appends a sub-module instantiation
func (b *Builder) Instance(inst *Instance) *Builder {
	if inst == nil {
		return b.Fail(errors.EmptyName("instance"))
	}
	if inst.Module == "" {
		return b.Fail(errors.EmptyName("instantiated module"))
	}
	if b.declare("instance", inst.Name) {
		b.m.body = append(b.m.body, inst.clone())
	}
	return b
}

// AlwaysFF appends a clocked process
func (b *Builder) AlwaysFF(sens Sens, body stmt.Stmt) *Builder {
	if b.err != nil {
		return b
	}
	if sens.Len() == 0 {
		return b.Fail(errors.EmptySensitivity(b.m.name))
	}
	if err := stmt.Validate(body); err != nil {
		return b.Fail(err)
	}
	b.m.body = append(b.m.body, &AlwaysFF{Sens: sens, Body: orEmpty(body)})
	return b
}

// AlwaysComb appends a combinational process
func (b *Builder) AlwaysComb(body stmt.Stmt) *Builder {
	if b.err != nil {
		return b
	}
	if err := stmt.Validate(body); err != nil {
		return b.Fail(err)
	}
	b.m.body = append(b.m.body, &AlwaysComb{Body: orEmpty(body)})
	return b
}

// Add applies an extension
func (b *Builder) Add(ext Extension) *Builder {
	if b.err != nil {
		return b
	}
	return b.Fail(ext.Extend(b))
}

// Build returns the assembled module or the first recorded error
func (b *Builder) Build() (*Module, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &Module{
		name:   b.m.name,
		params: slices.Clone(b.m.params),
		ports:  slices.Clone(b.m.ports),
		body:   slices.Clone(b.m.body),
	}, nil
}

func orEmpty(s stmt.Stmt) stmt.Stmt {
	if s == nil {
		return stmt.Empty()
	}
	return s
}
