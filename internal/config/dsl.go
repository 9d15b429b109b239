package config

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"

	"hdlgen/grammar"
	"hdlgen/internal/errors"
	"hdlgen/internal/regmap"
)

// ParseDSL parses an .rmap description
func ParseDSL(filename, source string) (*Design, error) {
	file, err := grammar.ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	return FromGrammar(file)
}

// converter carries warnings raised while lowering a parsed file
type converter struct {
	warnings []*errors.DesignError
}

func (c *converter) warn(pos lexer.Position, format string, args ...interface{}) {
	w := errors.NewDesignWarning(errors.WarningIgnoredAttribute, fmt.Sprintf(format, args...)).
		At(grammar.Position(pos)).
		Build()
	log.Warning(w.Error())
	c.warnings = append(c.warnings, w)
}

// shape resolves an optional width and length; omitted means 1
func shape(name string, width, length *int, pos lexer.Position) (int, int, error) {
	w, l := 1, 1
	if width != nil {
		w = *width
	}
	if length != nil {
		l = *length
	}
	var err *errors.DesignError
	switch {
	case w <= 0:
		err = errors.InvalidWidth("declaration", name, w)
	case l <= 0:
		err = errors.InvalidLength("declaration", name, l)
	default:
		return w, l, nil
	}
	err.Position = grammar.Position(pos)
	return 0, 0, err
}

// FromGrammar lowers a parsed file into a Design. Bus and register kinds
// are checked here so errors point at the offending token.
func FromGrammar(file *grammar.File) (*Design, error) {
	c := &converter{}
	d := &Design{}
	for _, gm := range file.Modules() {
		m, err := c.module(gm)
		if err != nil {
			return nil, err
		}
		d.Modules = append(d.Modules, m)
	}
	d.Warnings = c.warnings
	d.applyDefaults()
	return d, nil
}

func (c *converter) module(gm *grammar.Module) (Module, error) {
	m := Module{
		Name:    gm.Name.Value,
		Grouped: gm.Grouped,
		Pos:     grammar.Position(gm.Name.Pos),
	}

	for _, item := range gm.Items {
		switch {
		case item.Param != nil:
			m.Params = append(m.Params, Param{Name: item.Param.Name.Value, Default: item.Param.Default})

		case item.LocalParam != nil:
			m.LocalParams = append(m.LocalParams, LocalParam{Name: item.LocalParam.Name.Value, Value: item.LocalParam.Value})

		case item.Port != nil:
			p := item.Port
			w, l, err := shape(p.Name.Value, p.Width, p.Length, p.Pos)
			if err != nil {
				return m, err
			}
			m.Ports = append(m.Ports, Port{Name: p.Name.Value, Dir: p.Dir, Width: w, Length: l, Pos: grammar.Position(p.Pos)})

		case item.Logic != nil:
			lg := item.Logic
			w, l, err := shape(lg.Name.Value, lg.Width, lg.Length, lg.Pos)
			if err != nil {
				return m, err
			}
			m.Logic = append(m.Logic, Logic{Name: lg.Name.Value, Width: w, Length: l, Pos: grammar.Position(lg.Pos)})

		case item.Bus != nil:
			b, err := c.bus(item.Bus)
			if err != nil {
				return m, err
			}
			m.Buses = append(m.Buses, b)

		case item.FIFO != nil:
			f := item.FIFO
			w, l, err := shape(f.Name.Value, &f.Width, &f.Length, f.Pos)
			if err != nil {
				return m, err
			}
			m.FIFOs = append(m.FIFOs, FIFO{Name: f.Name.Value, Width: w, Length: l, Pos: grammar.Position(f.Pos)})

		case item.Stream != nil:
			s := item.Stream
			w, _, err := shape(s.Name.Value, s.Width, nil, s.Pos)
			if err != nil {
				return m, err
			}
			m.Streams = append(m.Streams, Stream{Role: s.Role, Name: s.Name.Value, Width: w, Pos: grammar.Position(s.Pos)})
		}
	}
	return m, nil
}

func (c *converter) bus(gb *grammar.Bus) (Bus, error) {
	switch gb.Kind.Value {
	case BusAXILite, BusPico, BusPicoMaster:
	default:
		return Bus{}, errors.UnknownBusKind(gb.Kind.Value, grammar.Position(gb.Kind.Pos))
	}

	b := Bus{
		Kind:      gb.Kind.Value,
		Prefix:    gb.Prefix,
		Clock:     gb.Clock,
		Reset:     gb.Reset,
		Registers: []Register{},
		Pos:       grammar.Position(gb.Pos),
	}
	if gb.DataWidth != nil {
		b.DataWidth = *gb.DataWidth
		if b.DataWidth == 0 {
			return Bus{}, errors.InvalidBusWidth(gb.Kind.Value, 0, 32, 64)
		}
	}

	for _, r := range gb.Registers() {
		kind, ok := regmap.ParseKind(r.Kind.Value)
		if !ok {
			return Bus{}, errors.UnknownRegisterKind(r.Kind.Value, grammar.Position(r.Kind.Pos))
		}
		if kind == regmap.Trigger && (r.Width != nil || r.Length != nil) {
			c.warn(r.Pos, "width and length of trigger register `%s` are ignored", r.Name.Value)
			r = &grammar.Register{Pos: r.Pos, Kind: r.Kind, Name: r.Name}
		}
		w, l, err := shape(r.Name.Value, r.Width, r.Length, r.Pos)
		if err != nil {
			return Bus{}, err
		}
		b.Registers = append(b.Registers, Register{
			Kind:   r.Kind.Value,
			Name:   r.Name.Value,
			Width:  w,
			Length: l,
			Pos:    grammar.Position(r.Pos),
		})
	}
	return b, nil
}
