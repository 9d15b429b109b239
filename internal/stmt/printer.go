package stmt

import (
	"fmt"
	"strings"
)

// AssignOp is the assignment operator used when rendering AssignStmt nodes
type AssignOp string

const (
	// Blocking is the immediate assignment used in combinational processes
	Blocking AssignOp = "="
	// NonBlocking is the deferred assignment used in clocked processes
	NonBlocking AssignOp = "<="
)

// printer renders a statement tree into indented lines
type printer struct {
	op     AssignOp
	indent int
	lines  []string
}

// Render returns the lines of s, indented by indent levels of two spaces
func Render(s Stmt, op AssignOp, indent int) []string {
	p := &printer{op: op, indent: indent}
	p.stmt(s)
	return p.lines
}

// Under renders s as the body of a header line such as `always_comb` or
// `if (en)`. A block body opens on the header line.
func Under(head string, s Stmt, op AssignOp, indent int) []string {
	p := &printer{op: op, indent: indent}
	p.under(head, s)
	return p.lines
}

// String renders s with blocking assignments at indent zero
func String(s Stmt) string {
	return strings.Join(Render(s, Blocking, 0), "\n")
}

// Helper methods

func (p *printer) writeLine(format string, args ...interface{}) {
	p.lines = append(p.lines, strings.Repeat("  ", p.indent)+fmt.Sprintf(format, args...))
}

func (p *printer) assign(n *AssignStmt) string {
	return fmt.Sprintf("%s %s %s;", n.Target, p.op, n.Value)
}

func (p *printer) stmt(s Stmt) {
	switch n := s.(type) {
	case nil:
		return
	case *EmptyStmt:
		p.writeLine(";")
	case *BlockStmt:
		p.writeLine("begin")
		p.body(n)
		p.writeLine("end")
	case *AssignStmt:
		p.writeLine("%s", p.assign(n))
	case *CondStmt:
		for i, arm := range n.Arms {
			if i == 0 {
				p.under(fmt.Sprintf("if (%s)", arm.Cond), arm.Body)
			} else {
				p.under(fmt.Sprintf("else if (%s)", arm.Cond), arm.Body)
			}
		}
		if n.Else != nil {
			p.under("else", n.Else)
		}
	case *CaseStmt:
		// Rejected by Validate; renders to nothing
		if len(n.Arms) == 0 && n.Default == nil {
			return
		}
		p.writeLine("case (%s)", n.Selector)
		p.indent++
		for _, arm := range n.Arms {
			p.under(arm.Label+":", arm.Body)
		}
		if n.Default != nil {
			p.under("default:", n.Default)
		}
		p.indent--
		p.writeLine("endcase")
	}
}

func (p *printer) body(n *BlockStmt) {
	p.indent++
	for _, child := range n.Stmts {
		p.stmt(child)
	}
	p.indent--
}

// under writes head followed by body. Single-line bodies share the header
// line. Anything else is wrapped in begin/end so a nested if can never
// capture an else that belongs to the outer one.
func (p *printer) under(head string, body Stmt) {
	switch n := body.(type) {
	case nil, *EmptyStmt:
		p.writeLine("%s ;", head)
	case *AssignStmt:
		p.writeLine("%s %s", head, p.assign(n))
	case *BlockStmt:
		p.writeLine("%s begin", head)
		p.body(n)
		p.writeLine("end")
	default:
		p.writeLine("%s begin", head)
		p.indent++
		p.stmt(body)
		p.indent--
		p.writeLine("end")
	}
}
