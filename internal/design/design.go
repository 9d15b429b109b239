// Package design elaborates design descriptions into modules and renders
// them as SystemVerilog.
package design

import (
	stderrors "errors"
	"strings"

	"github.com/tliron/commonlog"

	"hdlgen/internal/bus"
	"hdlgen/internal/config"
	"hdlgen/internal/errors"
	"hdlgen/internal/ext"
	"hdlgen/internal/module"
	"hdlgen/internal/regmap"
)

var log = commonlog.GetLogger("hdlgen.design")

// at attaches pos to err unless err already carries a position
func at(err error, pos errors.Position) error {
	var de *errors.DesignError
	if !pos.IsValid() || !stderrors.As(err, &de) || de.Position.IsValid() {
		return err
	}
	located := *de
	located.Position = pos
	return &located
}

// MemoryMap allocates the registers of one bus
func MemoryMap(b *config.Bus) (*regmap.Map, error) {
	list := regmap.NewList()
	for _, r := range b.Registers {
		kind, ok := regmap.ParseKind(r.Kind)
		if !ok {
			return nil, errors.UnknownRegisterKind(r.Kind, r.Pos)
		}
		list.Add(regmap.Entry{Name: r.Name, Kind: kind, Width: r.Width, Length: r.Length})
		if err := list.Err(); err != nil {
			return nil, at(err, r.Pos)
		}
	}
	mm, err := list.Allocate(b.DataWidth)
	if err != nil {
		return nil, at(err, b.Pos)
	}
	return mm, nil
}

// MemoryMaps allocates the registers of every bus of m, in bus order
func MemoryMaps(m *config.Module) ([]*regmap.Map, error) {
	maps := make([]*regmap.Map, 0, len(m.Buses))
	for i := range m.Buses {
		mm, err := MemoryMap(&m.Buses[i])
		if err != nil {
			return nil, err
		}
		maps = append(maps, mm)
	}
	return maps, nil
}

func busExtension(b *config.Bus, mm *regmap.Map) (module.Extension, error) {
	switch b.Kind {
	case config.BusAXILite:
		return bus.NewAXILiteSlave(b.Prefix, b.Clock, b.Reset, mm)
	case config.BusPico:
		return bus.NewPicoSlave(b.Prefix, b.Clock, b.Reset, mm)
	case config.BusPicoMaster:
		return bus.NewPicoMaster(b.Prefix, mm)
	}
	return nil, errors.UnknownBusKind(b.Kind, b.Pos)
}

func streamRole(role string) (ext.StreamRole, bool) {
	switch role {
	case "slave":
		return ext.StreamSlave, true
	case "master":
		return ext.StreamMaster, true
	case "wire":
		return ext.StreamWire, true
	}
	return 0, false
}

// Elaborate builds the module described by m
func Elaborate(m *config.Module) (*module.Module, error) {
	b := module.New(m.Name)

	for _, p := range m.Params {
		b.Param(p.Name, p.Default)
	}
	for _, p := range m.Ports {
		dir, ok := module.ParseDirection(p.Dir)
		if !ok {
			return nil, errors.UnknownDirection(p.Dir, p.Pos)
		}
		b.Port(module.Port{Name: p.Name, Dir: dir, Width: p.Width, Length: p.Length})
		if err := b.Err(); err != nil {
			return nil, at(err, p.Pos)
		}
	}
	for _, lp := range m.LocalParams {
		b.LocalParam(lp.Name, lp.Value)
	}
	for _, l := range m.Logic {
		b.Logic(l.Name, l.Width, l.Length)
		if err := b.Err(); err != nil {
			return nil, at(err, l.Pos)
		}
	}
	for _, f := range m.FIFOs {
		b.Add(ext.NewFIFO(f.Name, f.Width, f.Length))
		if err := b.Err(); err != nil {
			return nil, at(err, f.Pos)
		}
	}
	for _, s := range m.Streams {
		role, ok := streamRole(s.Role)
		if !ok {
			return nil, errors.UnknownDirection(s.Role, s.Pos)
		}
		b.Add(ext.NewStream(s.Name, s.Width, role))
		if err := b.Err(); err != nil {
			return nil, at(err, s.Pos)
		}
	}

	for i := range m.Buses {
		cb := &m.Buses[i]
		mm, err := MemoryMap(cb)
		if err != nil {
			return nil, err
		}
		e, err := busExtension(cb, mm)
		if err != nil {
			return nil, at(err, cb.Pos)
		}
		b.Add(e)
		if err := b.Err(); err != nil {
			return nil, at(err, cb.Pos)
		}
		log.Debugf("%s: %s bus with %d slots", m.Name, cb.Kind, mm.TotalSlots())
	}

	built, err := b.Build()
	if err != nil {
		return nil, at(err, m.Pos)
	}
	log.Debugf("elaborated module %s: %d ports, %d body elements", m.Name, len(built.Ports()), len(built.Elements()))
	return built, nil
}

// Render renders mod in declaration order, or grouped by element kind
func Render(mod *module.Module, grouped bool) string {
	if grouped {
		return strings.Join(mod.VerilogGrouped(), "\n")
	}
	return strings.Join(mod.Verilog(), "\n")
}

// Generate elaborates every module of d and renders them in order,
// separated by blank lines.
func Generate(d *config.Design) (string, error) {
	parts := make([]string, 0, len(d.Modules))
	for i := range d.Modules {
		m := &d.Modules[i]
		mod, err := Elaborate(m)
		if err != nil {
			return "", err
		}
		parts = append(parts, Render(mod, m.Grouped))
	}
	if len(parts) == 0 {
		return "", nil
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}
