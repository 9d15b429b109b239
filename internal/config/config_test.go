package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdlgen/internal/errors"
)

func TestLoadDSL(t *testing.T) {
	d, err := Load("testdata/uart.rmap")
	require.NoError(t, err)
	require.Len(t, d.Modules, 2)
	assert.Empty(t, d.Warnings)

	uart := d.Modules[0]
	assert.Equal(t, "uart", uart.Name)
	assert.Equal(t, 2, uart.Pos.Line)
	assert.Equal(t, []Param{{Name: "BIT", Default: "8"}}, uart.Params)
	require.Len(t, uart.Ports, 4)
	assert.Equal(t, "clk", uart.Ports[0].Name)
	assert.Equal(t, 1, uart.Ports[0].Width)
	assert.Equal(t, 1, uart.Ports[0].Length)
	assert.Equal(t, 8, uart.Ports[3].Width)
	assert.Equal(t, 4, uart.Logic[0].Length)

	require.Len(t, uart.Buses, 1)
	bus := uart.Buses[0]
	assert.Equal(t, BusAXILite, bus.Kind)
	assert.Equal(t, "cbus", bus.Prefix)
	assert.Equal(t, 32, bus.DataWidth)
	require.Len(t, bus.Registers, 4)
	assert.Equal(t, "cmd", bus.Registers[2].Name)
	assert.Equal(t, 2, bus.Registers[2].Length)
	assert.Equal(t, 1, bus.Registers[3].Width)

	regs := d.Modules[1]
	assert.True(t, regs.Grouped)
	assert.Equal(t, []LocalParam{{Name: "DEPTH", Value: "16"}}, regs.LocalParams)
	assert.Equal(t, 16, regs.FIFOs[0].Length)
	assert.Equal(t, "slave", regs.Streams[0].Role)

	pico := regs.Buses[0]
	assert.Equal(t, BusPico, pico.Kind)
	assert.Equal(t, DefaultDataWidth, pico.DataWidth)
	assert.Equal(t, "clk", pico.Clock)
	assert.Equal(t, "rstn", pico.Reset)
}

func TestBusDefaults(t *testing.T) {
	d, err := ParseDSL("m.rmap", "module m {\n  bus pico_master {\n    rw a : 8\n  }\n}")
	require.NoError(t, err)
	bus := d.Modules[0].Buses[0]
	assert.Equal(t, DefaultClock, bus.Clock)
	assert.Equal(t, DefaultReset, bus.Reset)
	assert.Equal(t, DefaultDataWidth, bus.DataWidth)
	assert.Equal(t, "", bus.Prefix)
}

func TestTriggerShapeIsIgnored(t *testing.T) {
	d, err := ParseDSL("t.rmap", "module m {\n  bus pico {\n    trigger go : 8 [2]\n  }\n}")
	require.NoError(t, err)

	reg := d.Modules[0].Buses[0].Registers[0]
	assert.Equal(t, 1, reg.Width)
	assert.Equal(t, 1, reg.Length)

	require.Len(t, d.Warnings, 1)
	w := d.Warnings[0]
	assert.Equal(t, errors.Warning, w.Level)
	assert.Equal(t, errors.WarningIgnoredAttribute, w.Code)
	assert.Equal(t, 3, w.Position.Line)
}

func TestDSLErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   string
		line   int
	}{
		{"unknown bus", "module m {\n  bus spi {\n  }\n}", errors.ErrorUnknownBusKind, 2},
		{"unknown register", "module m {\n  bus pico {\n    rx a : 8\n  }\n}", errors.ErrorUnknownRegisterKind, 3},
		{"zero width port", "module m {\n  input a : 0\n}", errors.ErrorInvalidWidth, 2},
		{"zero length logic", "module m {\n\n  logic a : 8 [0]\n}", errors.ErrorInvalidLength, 3},
		{"zero width register", "module m {\n  bus pico {\n    rw a : 0\n  }\n}", errors.ErrorInvalidWidth, 3},
		{"syntax", "module m {\n  input\n}", errors.ErrorParse, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDSL("bad.rmap", tt.source)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.Code(err))

			var de *errors.DesignError
			require.ErrorAs(t, err, &de)
			if tt.line > 0 {
				assert.Equal(t, tt.line, de.Position.Line)
			}
		})
	}
}

func TestLoadJSON(t *testing.T) {
	d, err := Load("testdata/uart.json")
	require.NoError(t, err)
	require.Len(t, d.Modules, 1)

	uart := d.Modules[0]
	assert.Equal(t, "uart", uart.Name)
	assert.Equal(t, 1, uart.Ports[0].Width)
	assert.Equal(t, 1, uart.Ports[0].Length)
	assert.Equal(t, 8, uart.Ports[3].Width)

	bus := uart.Buses[0]
	assert.Equal(t, DefaultClock, bus.Clock)
	assert.Equal(t, DefaultReset, bus.Reset)
	assert.Equal(t, 1, bus.Registers[3].Width)
	assert.Equal(t, 2, bus.Registers[2].Length)
}

func TestDSLAndJSONAgree(t *testing.T) {
	fromDSL, err := Load("testdata/uart.rmap")
	require.NoError(t, err)
	fromJSON, err := Load("testdata/uart.json")
	require.NoError(t, err)

	dslJSON, err := (&Design{Modules: fromDSL.Modules[:1]}).JSON()
	require.NoError(t, err)
	jsonJSON, err := fromJSON.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(jsonJSON), string(dslJSON))
}

func TestJSONRoundTrip(t *testing.T) {
	d, err := Load("testdata/uart.rmap")
	require.NoError(t, err)

	data, err := d.JSON()
	require.NoError(t, err)
	again, err := ParseJSON(data)
	require.NoError(t, err)

	want, err := again.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(data))
}

func TestSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{"modules": [`},
		{"unknown field", `{"modules": [{"name": "m", "color": "red"}]}`},
		{"missing name", `{"modules": [{"ports": []}]}`},
		{"bad identifier", `{"modules": [{"name": "1abc"}]}`},
		{"bad direction", `{"modules": [{"name": "m", "ports": [{"name": "a", "dir": "sideways"}]}]}`},
		{"zero width", `{"modules": [{"name": "m", "logic": [{"name": "a", "width": 0}]}]}`},
		{"bad bus kind", `{"modules": [{"name": "m", "buses": [{"kind": "spi", "registers": []}]}]}`},
		{"bad data width", `{"modules": [{"name": "m", "buses": [{"kind": "pico", "dataWidth": 48, "registers": []}]}]}`},
		{"bad register kind", `{"modules": [{"name": "m", "buses": [{"kind": "pico", "registers": [{"kind": "rx", "name": "a"}]}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.json))
			require.Error(t, err)
			assert.Equal(t, errors.ErrorSchemaViolation, errors.Code(err))

			var de *errors.DesignError
			require.ErrorAs(t, err, &de)
			assert.NotEmpty(t, de.Notes)
		})
	}
}

func TestValidatorAcceptsMinimal(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)
	assert.NoError(t, v.ValidateJSON([]byte(`{"modules": [{"name": "m"}]}`)))
	assert.NoError(t, v.ValidateJSON([]byte(`{"modules": []}`)))
}

func TestParseDispatch(t *testing.T) {
	_, err := Parse("design.json", []byte("[1, 2"))
	assert.Equal(t, errors.ErrorSchemaViolation, errors.Code(err))

	d, err := Parse("design.rmap", []byte("module m {}"))
	require.NoError(t, err)
	assert.Equal(t, "m", d.Modules[0].Name)

	_, err = Load("testdata/missing.rmap")
	assert.Error(t, err)
}
