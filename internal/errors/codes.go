package errors

// Error codes for the hdlgen generator
// These codes are used in error messages to identify a failed
// construction precondition across the toolchain.
//
// Error code ranges:
// E0001-E0099: Construction errors (registers, buses, modules, statements)
// E0100-E0199: Description input errors (DSL and JSON)
// E0800-E0899: Warning codes

const (
	// E0001: Bus data width is not one of the supported widths
	ErrorInvalidBusWidth = "E0001"

	// E0002: Register is wider than the bus data width
	ErrorRegisterTooWide = "E0002"

	// E0003: Register, port or storage declared with zero width
	ErrorInvalidWidth = "E0003"

	// E0004: Register, port or storage declared with zero length
	ErrorInvalidLength = "E0004"

	// E0005: Address bus would be wider than the protocol allows
	ErrorAddressTooWide = "E0005"

	// E0006: The same signal name is declared twice in one module
	ErrorDuplicateDeclaration = "E0006"

	// E0007: Multi-way select with neither arms nor a default
	ErrorEmptyCase = "E0007"

	// E0008: Declaration without a name
	ErrorEmptyName = "E0008"

	// E0009: Generator used without a memory map
	ErrorMissingMemoryMap = "E0009"

	// E0010: State machine without states
	ErrorEmptyStateMachine = "E0010"

	// E0011: Combinational mux case with the wrong number of outputs
	ErrorOutputMismatch = "E0011"

	// E0012: Clocked process without any edge in its sensitivity list
	ErrorEmptySensitivity = "E0012"

	// E0100: Description could not be read or parsed
	ErrorParse = "E0100"

	// E0101: Description does not match the schema
	ErrorSchemaViolation = "E0101"

	// E0102: Unknown bus kind
	ErrorUnknownBusKind = "E0102"

	// E0103: Unknown register kind
	ErrorUnknownRegisterKind = "E0103"

	// E0104: Unknown port direction
	ErrorUnknownDirection = "E0104"

	// E0800: Register attribute ignored for the register kind
	WarningIgnoredAttribute = "E0800"
)
