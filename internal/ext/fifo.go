package ext

import (
	"hdlgen/internal/errors"
	"hdlgen/internal/module"
	"hdlgen/internal/regmap"
)

// FIFO declares the storage of a circular buffer: the buffer itself and
// its read and write pointers.
type FIFO struct {
	Name   string
	Width  int
	Length int
}

// NewFIFO returns a FIFO of length entries, each width bits wide
func NewFIFO(name string, width, length int) *FIFO {
	return &FIFO{Name: name, Width: width, Length: length}
}

// PtrWidth is the width of the read and write pointers
func (f *FIFO) PtrWidth() int {
	return regmap.AddrWidth(f.Length)
}

// Signals returns the buffer, read pointer and write pointer names
func (f *FIFO) Signals() (buf, rptr, wptr string) {
	return f.Name + "_buf", f.Name + "_rptr", f.Name + "_wptr"
}

// Extend declares the FIFO storage
func (f *FIFO) Extend(b *module.Builder) error {
	if f.Length <= 0 {
		return errors.InvalidLength("fifo", f.Name, f.Length)
	}
	buf, rptr, wptr := f.Signals()
	b.Logic(buf, f.Width, f.Length).
		Logic(rptr, f.PtrWidth(), 1).
		Logic(wptr, f.PtrWidth(), 1)
	return nil
}
