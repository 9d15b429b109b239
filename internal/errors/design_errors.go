package errors

import (
	"fmt"
	"strings"
)

// DesignErrorBuilder provides a fluent interface for creating design errors
type DesignErrorBuilder struct {
	err DesignError
}

// NewDesignError creates a new design error builder
func NewDesignError(code, message string) *DesignErrorBuilder {
	return &DesignErrorBuilder{
		err: DesignError{
			Level:   Error,
			Code:    code,
			Message: message,
			Length:  1,
		},
	}
}

// NewDesignWarning creates a new design warning builder
func NewDesignWarning(code, message string) *DesignErrorBuilder {
	b := NewDesignError(code, message)
	b.err.Level = Warning
	return b
}

// At sets the source position of the error
func (b *DesignErrorBuilder) At(pos Position) *DesignErrorBuilder {
	b.err.Position = pos
	return b
}

// WithLength sets the length of the error span
func (b *DesignErrorBuilder) WithLength(length int) *DesignErrorBuilder {
	b.err.Length = length
	return b
}

// WithNote adds a note to the error
func (b *DesignErrorBuilder) WithNote(note string) *DesignErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *DesignErrorBuilder) WithHelp(help string) *DesignErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed design error
func (b *DesignErrorBuilder) Build() *DesignError {
	err := b.err
	err.Notes = append([]string(nil), b.err.Notes...)
	return &err
}

// Common design errors

// InvalidBusWidth reports a data width the protocol cannot carry
func InvalidBusWidth(bus string, width int, supported ...int) *DesignError {
	names := make([]string, len(supported))
	for i, w := range supported {
		names[i] = fmt.Sprintf("%d", w)
	}
	return NewDesignError(ErrorInvalidBusWidth,
		fmt.Sprintf("%s does not support a %d-bit data bus", bus, width)).
		WithHelp(fmt.Sprintf("supported data widths: %s", strings.Join(names, ", "))).
		Build()
}

// RegisterTooWide reports a register that does not fit the data bus
func RegisterTooWide(name string, width, dataWidth int) *DesignError {
	return NewDesignError(ErrorRegisterTooWide,
		fmt.Sprintf("register '%s' is %d bits wide but the data bus is %d bits", name, width, dataWidth)).
		WithHelp("split the register into several entries no wider than the bus").
		Build()
}

// InvalidWidth reports a zero or negative bit width
func InvalidWidth(what, name string, width int) *DesignError {
	return NewDesignError(ErrorInvalidWidth,
		fmt.Sprintf("%s '%s' has invalid bit width %d", what, name, width)).
		WithHelp("bit widths must be at least 1").
		Build()
}

// InvalidLength reports a zero or negative array length
func InvalidLength(what, name string, length int) *DesignError {
	return NewDesignError(ErrorInvalidLength,
		fmt.Sprintf("%s '%s' has invalid array length %d", what, name, length)).
		WithHelp("use length 1 for a scalar").
		Build()
}

// AddressTooWide reports an address bus wider than the protocol allows
func AddressTooWide(bus string, width, limit int) *DesignError {
	return NewDesignError(ErrorAddressTooWide,
		fmt.Sprintf("%s address bus would be %d bits wide (limit %d)", bus, width, limit)).
		Build()
}

// DuplicateDeclaration reports a signal declared twice in one module
func DuplicateDeclaration(module, name string) *DesignError {
	return NewDesignError(ErrorDuplicateDeclaration,
		fmt.Sprintf("'%s' is declared more than once in module '%s'", name, module)).
		WithNote("ports, storage and local parameters share one namespace").
		Build()
}

// EmptyCase reports a multi-way select that would render to nothing
func EmptyCase(selector string) *DesignError {
	return NewDesignError(ErrorEmptyCase,
		fmt.Sprintf("case on '%s' has no arms and no default", selector)).
		WithHelp("add at least one arm or a default arm").
		Build()
}

// EmptyName reports a declaration without a name
func EmptyName(what string) *DesignError {
	return NewDesignError(ErrorEmptyName, fmt.Sprintf("%s declared without a name", what)).Build()
}

// MissingMemoryMap reports a bus generator built without a memory map
func MissingMemoryMap(bus string) *DesignError {
	return NewDesignError(ErrorMissingMemoryMap, fmt.Sprintf("%s requires a memory map", bus)).
		WithHelp("allocate a register list with regmap.List.Allocate").
		Build()
}

// EmptyStateMachine reports a state machine without states
func EmptyStateMachine(stateVar string) *DesignError {
	return NewDesignError(ErrorEmptyStateMachine,
		fmt.Sprintf("state machine '%s' has no states", stateVar)).Build()
}

// OutputMismatch reports a mux case whose values do not match the outputs
func OutputMismatch(cond string, got, want int) *DesignError {
	return NewDesignError(ErrorOutputMismatch,
		fmt.Sprintf("case '%s' assigns %d values but the mux has %d outputs", cond, got, want)).
		Build()
}

// EmptySensitivity reports a clocked process with nothing to trigger it
func EmptySensitivity(module string) *DesignError {
	return NewDesignError(ErrorEmptySensitivity,
		fmt.Sprintf("clocked process in module '%s' has an empty sensitivity list", module)).
		WithHelp("add at least one posedge or negedge").
		Build()
}

// UnknownBusKind reports an unsupported bus kind in a description
func UnknownBusKind(kind string, pos Position) *DesignError {
	return NewDesignError(ErrorUnknownBusKind, fmt.Sprintf("unknown bus kind '%s'", kind)).
		At(pos).
		WithLength(len(kind)).
		WithHelp("expected one of: axi_lite, pico_slave, pico_master").
		Build()
}

// UnknownRegisterKind reports an unsupported register kind in a description
func UnknownRegisterKind(kind string, pos Position) *DesignError {
	return NewDesignError(ErrorUnknownRegisterKind, fmt.Sprintf("unknown register kind '%s'", kind)).
		At(pos).
		WithLength(len(kind)).
		WithHelp("expected one of: rw, ro, wo, trigger").
		Build()
}

// UnknownDirection reports an unsupported port direction in a description
func UnknownDirection(dir string, pos Position) *DesignError {
	return NewDesignError(ErrorUnknownDirection, fmt.Sprintf("unknown port direction '%s'", dir)).
		At(pos).
		WithLength(len(dir)).
		WithHelp("expected one of: input, output, inout").
		Build()
}
