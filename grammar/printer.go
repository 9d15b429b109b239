package grammar

import (
	"fmt"
	"strings"
)

func indent(level int) string {
	return strings.Repeat("  ", level)
}

func (f *File) String() string {
	var b strings.Builder
	for _, e := range f.Elements {
		b.WriteString(e.StringWithIndent(0))
	}
	return b.String()
}

func (e *Element) StringWithIndent(level int) string {
	if e.Comment != nil {
		return indent(level) + e.Comment.String() + "\n"
	}
	if e.Module != nil {
		return e.Module.StringWithIndent(level)
	}
	return ""
}

func (c *Comment) String() string {
	return c.Text
}

func (m *Module) StringWithIndent(level int) string {
	var b strings.Builder
	b.WriteString(indent(level))
	if m.Grouped {
		b.WriteString("grouped ")
	}
	b.WriteString(fmt.Sprintf("module %s {\n", m.Name.Value))
	for _, item := range m.Items {
		b.WriteString(item.StringWithIndent(level + 1))
	}
	b.WriteString(indent(level) + "}\n")
	return b.String()
}

func (i *Item) StringWithIndent(level int) string {
	switch {
	case i.Comment != nil:
		return indent(level) + i.Comment.String() + "\n"
	case i.Param != nil:
		return indent(level) + i.Param.String() + "\n"
	case i.LocalParam != nil:
		return indent(level) + i.LocalParam.String() + "\n"
	case i.Port != nil:
		return indent(level) + i.Port.String() + "\n"
	case i.Logic != nil:
		return indent(level) + i.Logic.String() + "\n"
	case i.Bus != nil:
		return i.Bus.StringWithIndent(level)
	case i.FIFO != nil:
		return indent(level) + i.FIFO.String() + "\n"
	case i.Stream != nil:
		return indent(level) + i.Stream.String() + "\n"
	}
	return ""
}

func shape(width, length *int) string {
	var s string
	if width != nil {
		s += fmt.Sprintf(" : %d", *width)
	}
	if length != nil {
		s += fmt.Sprintf(" [%d]", *length)
	}
	return s
}

func (p *Param) String() string {
	if p.Default == "" {
		return "param " + p.Name.Value
	}
	return fmt.Sprintf("param %s = %s", p.Name.Value, p.Default)
}

func (l *LocalParam) String() string {
	return fmt.Sprintf("localparam %s = %s", l.Name.Value, l.Value)
}

func (p *Port) String() string {
	return p.Dir + " " + p.Name.Value + shape(p.Width, p.Length)
}

func (l *Logic) String() string {
	return "logic " + l.Name.Value + shape(l.Width, l.Length)
}

func (b *Bus) StringWithIndent(level int) string {
	var sb strings.Builder
	sb.WriteString(indent(level) + "bus " + b.Kind.Value)
	if b.Prefix != "" {
		sb.WriteString(" prefix " + b.Prefix)
	}
	if b.Clock != "" {
		sb.WriteString(" clock " + b.Clock)
	}
	if b.Reset != "" {
		sb.WriteString(" reset " + b.Reset)
	}
	if b.DataWidth != nil {
		sb.WriteString(fmt.Sprintf(" data %d", *b.DataWidth))
	}
	sb.WriteString(" {\n")
	for _, item := range b.Items {
		if item.Comment != nil {
			sb.WriteString(indent(level+1) + item.Comment.String() + "\n")
		} else if item.Register != nil {
			sb.WriteString(indent(level+1) + item.Register.String() + "\n")
		}
	}
	sb.WriteString(indent(level) + "}\n")
	return sb.String()
}

func (r *Register) String() string {
	return r.Kind.Value + " " + r.Name.Value + shape(r.Width, r.Length)
}

func (f *FIFO) String() string {
	return fmt.Sprintf("fifo %s : %d [%d]", f.Name.Value, f.Width, f.Length)
}

func (s *Stream) String() string {
	return "stream " + s.Role + " " + s.Name.Value + shape(s.Width, nil)
}
