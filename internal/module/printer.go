package module

import (
	"fmt"
	"strings"

	"hdlgen/internal/stmt"
)

// Printer renders a module into SystemVerilog lines
type Printer struct {
	indent int
	lines  []string
}

// Verilog renders the module with body elements in declaration order
func (m *Module) Verilog() []string {
	p := &Printer{}
	p.printModule(m, m.body)
	return p.lines
}

// VerilogGrouped renders the module with body elements grouped as local
// parameters, then storage declarations, then instances and processes.
// Relative order inside each group is preserved.
func (m *Module) VerilogGrouped() []string {
	var lparams, logic, rest []Element
	for _, e := range m.body {
		switch e.Kind() {
		case KindLocalParam:
			lparams = append(lparams, e)
		case KindLogic:
			logic = append(logic, e)
		default:
			rest = append(rest, e)
		}
	}
	body := append(append(lparams, logic...), rest...)

	p := &Printer{}
	p.printModule(m, body)
	return p.lines
}

// Helper methods

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.lines = append(p.lines, strings.Repeat("  ", p.indent)+fmt.Sprintf(format, args...))
}

func (p *Printer) writeList(items []string) {
	p.indent++
	for i, item := range items {
		if i < len(items)-1 {
			p.writeLine("%s,", item)
		} else {
			p.writeLine("%s", item)
		}
	}
	p.indent--
}

func (p *Printer) printModule(m *Module, body []Element) {
	params := make([]string, len(m.params))
	for i, param := range m.params {
		params[i] = param.verilog()
	}
	ports := make([]string, len(m.ports))
	for i, port := range m.ports {
		ports[i] = port.verilog()
	}

	switch {
	case len(params) > 0 && len(ports) > 0:
		p.writeLine("module %s #(", m.name)
		p.writeList(params)
		p.writeLine(") (")
		p.writeList(ports)
		p.writeLine(");")
	case len(params) > 0:
		p.writeLine("module %s #(", m.name)
		p.writeList(params)
		p.writeLine(");")
	case len(ports) > 0:
		p.writeLine("module %s (", m.name)
		p.writeList(ports)
		p.writeLine(");")
	default:
		p.writeLine("module %s;", m.name)
	}

	for _, e := range body {
		p.lines = append(p.lines, e.Verilog(p.indent+1)...)
	}

	p.writeLine("endmodule")
}

// widthRange renders a packed or unpacked range, omitted for n == 1
func widthRange(n int) string {
	if n <= 1 {
		return ""
	}
	return fmt.Sprintf("[%d:0]", n-1)
}

func declaration(name string, width, length int) string {
	decl := "logic "
	if r := widthRange(width); r != "" {
		decl += r + " "
	}
	return decl + name + widthRange(length)
}

func (p Param) verilog() string {
	if p.Default == "" {
		return fmt.Sprintf("parameter %s", p.Name)
	}
	return fmt.Sprintf("parameter %s = %s", p.Name, p.Default)
}

func (p Port) verilog() string {
	return fmt.Sprintf("%-6s %s", p.Dir, declaration(p.Name, p.Width, p.Length))
}

func indentString(indent int) string {
	return strings.Repeat("  ", indent)
}

// Verilog renders `localparam NAME = value;`
func (l *LocalParam) Verilog(indent int) []string {
	return []string{fmt.Sprintf("%slocalparam %s = %s;", indentString(indent), l.Name, l.Value)}
}

// Verilog renders the storage declaration
func (l *Logic) Verilog(indent int) []string {
	return []string{indentString(indent) + declaration(l.Name, l.Width, l.Length) + ";"}
}

// Verilog renders the instantiation with named connections
func (i *Instance) Verilog(indent int) []string {
	p := &Printer{indent: indent}

	conns := func(list []Conn) []string {
		out := make([]string, len(list))
		for j, c := range list {
			out[j] = fmt.Sprintf(".%s(%s)", c.Name, c.Value)
		}
		return out
	}

	if len(i.Params) > 0 {
		p.writeLine("%s #(", i.Module)
		p.writeList(conns(i.Params))
		p.writeLine(") %s (", i.Name)
	} else {
		p.writeLine("%s %s (", i.Module, i.Name)
	}
	p.writeList(conns(i.Ports))
	p.writeLine(");")
	return p.lines
}

// Verilog renders the clocked process
func (a *AlwaysFF) Verilog(indent int) []string {
	return stmt.Under(fmt.Sprintf("always_ff @(%s)", a.Sens), a.Body, stmt.NonBlocking, indent)
}

// Verilog renders the combinational process
func (a *AlwaysComb) Verilog(indent int) []string {
	return stmt.Under("always_comb", a.Body, stmt.Blocking, indent)
}
