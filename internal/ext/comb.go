package ext

import (
	"hdlgen/internal/errors"
	"hdlgen/internal/module"
	"hdlgen/internal/stmt"
)

type combCase struct {
	cond   string
	values []string
}

// Comb is a combinational mux: the first matching condition assigns its
// values to the outputs, otherwise the default values are assigned.
type Comb struct {
	inputs  []string
	outputs []string
	cases   []combCase
	def     []string
	err     error
}

// NewComb starts an empty mux
func NewComb() *Comb {
	return &Comb{}
}

// Input records an input signal the mux reads
func (c *Comb) Input(name string) *Comb {
	c.inputs = append(c.inputs, name)
	return c
}

// Output adds an output signal
func (c *Comb) Output(name string) *Comb {
	c.outputs = append(c.outputs, name)
	return c
}

// Case adds a condition with one value per output
func (c *Comb) Case(cond string, values ...string) *Comb {
	if c.err == nil && len(values) != len(c.outputs) {
		c.err = errors.OutputMismatch(cond, len(values), len(c.outputs))
	}
	c.cases = append(c.cases, combCase{cond: cond, values: values})
	return c
}

// Default sets the values assigned when no condition matches
func (c *Comb) Default(values ...string) *Comb {
	if c.err == nil && len(values) != len(c.outputs) {
		c.err = errors.OutputMismatch("default", len(values), len(c.outputs))
	}
	c.def = values
	return c
}

// Inputs returns the recorded input signals
func (c *Comb) Inputs() []string {
	return append([]string(nil), c.inputs...)
}

func (c *Comb) assigns(values []string) stmt.Stmt {
	b := stmt.Begin()
	for i, out := range c.outputs {
		b.Assign(out, values[i])
	}
	return b.End()
}

// Stmt returns the mux body
func (c *Comb) Stmt() stmt.Stmt {
	def := c.def
	if def == nil {
		def = make([]string, len(c.outputs))
		for i := range def {
			def[i] = "0"
		}
	}
	if len(c.cases) == 0 {
		return c.assigns(def)
	}

	cond := stmt.If(c.cases[0].cond, c.assigns(c.cases[0].values))
	for _, cs := range c.cases[1:] {
		cond.ElseIf(cs.cond, c.assigns(cs.values))
	}
	return stmt.Begin().Add(cond.Else(c.assigns(def))).End()
}

// Extend appends the mux as a combinational process
func (c *Comb) Extend(b *module.Builder) error {
	if c.err != nil {
		return c.err
	}
	b.AlwaysComb(c.Stmt())
	return nil
}
