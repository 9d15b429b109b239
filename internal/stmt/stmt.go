// Package stmt is the statement IR for imperative hardware behavior inside
// clocked and combinational processes. Expressions are opaque strings; the
// IR only models structure (assignments, conditionals, multi-way selects
// and sequential blocks).
package stmt

import (
	"slices"

	"hdlgen/internal/errors"
)

// Stmt is one node of the statement tree. The set of node types is closed:
// EmptyStmt, BlockStmt, AssignStmt, CondStmt and CaseStmt.
type Stmt interface {
	stmtNode()
}

// EmptyStmt is a no-op statement
type EmptyStmt struct{}

// BlockStmt is a begin/end sequence of statements
type BlockStmt struct {
	Stmts []Stmt
}

// AssignStmt assigns Value to Target. The assignment operator is chosen by
// the enclosing process at render time.
type AssignStmt struct {
	Target string
	Value  string
}

// CondArm is one `if`/`else if` arm
type CondArm struct {
	Cond string
	Body Stmt
}

// CondStmt is an if / else-if chain with an optional else body
type CondStmt struct {
	Arms []CondArm
	Else Stmt // nil when there is no else arm
}

// CaseArm is one labelled arm of a CaseStmt
type CaseArm struct {
	Label string
	Body  Stmt
}

// CaseStmt dispatches on Selector. Default is nil when there is no
// default arm.
type CaseStmt struct {
	Selector string
	Arms     []CaseArm
	Default  Stmt
}

func (*EmptyStmt) stmtNode()  {}
func (*BlockStmt) stmtNode()  {}
func (*AssignStmt) stmtNode() {}
func (*CondStmt) stmtNode()   {}
func (*CaseStmt) stmtNode()   {}

// Empty returns a no-op statement
func Empty() Stmt {
	return &EmptyStmt{}
}

// Assign returns `target = value` (or `<=` inside a clocked process)
func Assign(target, value string) Stmt {
	return &AssignStmt{Target: target, Value: value}
}

// ============================================================================
// Builders
// ============================================================================

// BlockBuilder accumulates the statements of a begin/end block
type BlockBuilder struct {
	stmts []Stmt
}

// Begin starts a new block
func Begin() *BlockBuilder {
	return &BlockBuilder{}
}

// Add appends a statement
func (b *BlockBuilder) Add(s Stmt) *BlockBuilder {
	if s != nil {
		b.stmts = append(b.stmts, s)
	}
	return b
}

// Assign appends an assignment
func (b *BlockBuilder) Assign(target, value string) *BlockBuilder {
	return b.Add(Assign(target, value))
}

// If appends a single-arm conditional without an else body
func (b *BlockBuilder) If(cond string, body Stmt) *BlockBuilder {
	return b.Add(If(cond, body).End())
}

// Case appends a multi-way select
func (b *BlockBuilder) Case(c Stmt) *BlockBuilder {
	return b.Add(c)
}

// End finishes the block
func (b *BlockBuilder) End() Stmt {
	return &BlockStmt{Stmts: slices.Clone(b.stmts)}
}

// CondBuilder accumulates the arms of a conditional
type CondBuilder struct {
	arms []CondArm
}

// If starts a conditional with its first arm
func If(cond string, body Stmt) *CondBuilder {
	return &CondBuilder{arms: []CondArm{{Cond: cond, Body: orEmpty(body)}}}
}

// ElseIf appends an `else if` arm
func (b *CondBuilder) ElseIf(cond string, body Stmt) *CondBuilder {
	b.arms = append(b.arms, CondArm{Cond: cond, Body: orEmpty(body)})
	return b
}

// Else finishes the conditional with an else body
func (b *CondBuilder) Else(body Stmt) Stmt {
	return &CondStmt{Arms: slices.Clone(b.arms), Else: orEmpty(body)}
}

// End finishes the conditional without an else body
func (b *CondBuilder) End() Stmt {
	return &CondStmt{Arms: slices.Clone(b.arms)}
}

// CaseBuilder accumulates the arms of a multi-way select
type CaseBuilder struct {
	selector string
	arms     []CaseArm
}

// Case starts a multi-way select on selector
func Case(selector string) *CaseBuilder {
	return &CaseBuilder{selector: selector}
}

// Arm appends a labelled arm
func (b *CaseBuilder) Arm(label string, body Stmt) *CaseBuilder {
	b.arms = append(b.arms, CaseArm{Label: label, Body: orEmpty(body)})
	return b
}

// Len returns the number of arms added so far
func (b *CaseBuilder) Len() int {
	return len(b.arms)
}

// Default finishes the select with a default arm
func (b *CaseBuilder) Default(body Stmt) Stmt {
	return &CaseStmt{Selector: b.selector, Arms: slices.Clone(b.arms), Default: orEmpty(body)}
}

// End finishes the select without a default arm
func (b *CaseBuilder) End() Stmt {
	return &CaseStmt{Selector: b.selector, Arms: slices.Clone(b.arms)}
}

func orEmpty(s Stmt) Stmt {
	if s == nil {
		return Empty()
	}
	return s
}

// ============================================================================
// Validation
// ============================================================================

// Validate walks the tree and reports the first construction error. A
// CaseStmt with neither arms nor a default is rejected.
func Validate(s Stmt) error {
	switch n := s.(type) {
	case nil, *EmptyStmt, *AssignStmt:
		return nil
	case *BlockStmt:
		for _, child := range n.Stmts {
			if err := Validate(child); err != nil {
				return err
			}
		}
	case *CondStmt:
		for _, arm := range n.Arms {
			if err := Validate(arm.Body); err != nil {
				return err
			}
		}
		return Validate(n.Else)
	case *CaseStmt:
		if len(n.Arms) == 0 && n.Default == nil {
			return errors.EmptyCase(n.Selector)
		}
		for _, arm := range n.Arms {
			if err := Validate(arm.Body); err != nil {
				return err
			}
		}
		return Validate(n.Default)
	}
	return nil
}

// Walk calls fn for every node of the tree in pre-order
func Walk(s Stmt, fn func(Stmt)) {
	if s == nil {
		return
	}
	fn(s)
	switch n := s.(type) {
	case *BlockStmt:
		for _, child := range n.Stmts {
			Walk(child, fn)
		}
	case *CondStmt:
		for _, arm := range n.Arms {
			Walk(arm.Body, fn)
		}
		Walk(n.Else, fn)
	case *CaseStmt:
		for _, arm := range n.Arms {
			Walk(arm.Body, fn)
		}
		Walk(n.Default, fn)
	}
}
