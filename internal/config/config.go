// Package config holds design descriptions: the modules to generate, their
// ports and storage, and the register maps behind each bus. Descriptions
// are read from the .rmap DSL or from JSON.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"

	"hdlgen/internal/errors"
)

var log = commonlog.GetLogger("hdlgen.config")

// Bus kinds
const (
	BusAXILite    = "axi_lite"
	BusPico       = "pico"
	BusPicoMaster = "pico_master"
)

// Defaults applied to omitted fields
const (
	DefaultClock     = "clk"
	DefaultReset     = "rstn"
	DefaultDataWidth = 32
)

// Design is a set of modules generated together
type Design struct {
	Modules []Module `json:"modules"`

	// Warnings raised while reading the description
	Warnings []*errors.DesignError `json:"-"`
}

type Module struct {
	Name        string       `json:"name"`
	Grouped     bool         `json:"grouped,omitempty"`
	Params      []Param      `json:"params,omitempty"`
	LocalParams []LocalParam `json:"localparams,omitempty"`
	Ports       []Port       `json:"ports,omitempty"`
	Logic       []Logic      `json:"logic,omitempty"`
	Buses       []Bus        `json:"buses,omitempty"`
	FIFOs       []FIFO       `json:"fifos,omitempty"`
	Streams     []Stream     `json:"streams,omitempty"`

	Pos errors.Position `json:"-"`
}

type Param struct {
	Name    string `json:"name"`
	Default string `json:"default,omitempty"`
}

type LocalParam struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Port struct {
	Name   string `json:"name"`
	Dir    string `json:"dir"`
	Width  int    `json:"width,omitempty"`
	Length int    `json:"length,omitempty"`

	Pos errors.Position `json:"-"`
}

type Logic struct {
	Name   string `json:"name"`
	Width  int    `json:"width,omitempty"`
	Length int    `json:"length,omitempty"`

	Pos errors.Position `json:"-"`
}

type Bus struct {
	Kind      string     `json:"kind"`
	Prefix    string     `json:"prefix,omitempty"`
	Clock     string     `json:"clock,omitempty"`
	Reset     string     `json:"reset,omitempty"`
	DataWidth int        `json:"dataWidth,omitempty"`
	Registers []Register `json:"registers"`

	Pos errors.Position `json:"-"`
}

type Register struct {
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Width  int    `json:"width,omitempty"`
	Length int    `json:"length,omitempty"`

	Pos errors.Position `json:"-"`
}

type FIFO struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Length int    `json:"length"`

	Pos errors.Position `json:"-"`
}

type Stream struct {
	Role  string `json:"role"`
	Name  string `json:"name"`
	Width int    `json:"width,omitempty"`

	Pos errors.Position `json:"-"`
}

func orOne(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

func orString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// applyDefaults fills every omitted width and length with 1, and omitted
// bus clocks, resets and data widths with the package defaults.
func (d *Design) applyDefaults() {
	for i := range d.Modules {
		m := &d.Modules[i]
		for j := range m.Ports {
			m.Ports[j].Width = orOne(m.Ports[j].Width)
			m.Ports[j].Length = orOne(m.Ports[j].Length)
		}
		for j := range m.Logic {
			m.Logic[j].Width = orOne(m.Logic[j].Width)
			m.Logic[j].Length = orOne(m.Logic[j].Length)
		}
		for j := range m.Streams {
			m.Streams[j].Width = orOne(m.Streams[j].Width)
		}
		for j := range m.Buses {
			b := &m.Buses[j]
			b.Clock = orString(b.Clock, DefaultClock)
			b.Reset = orString(b.Reset, DefaultReset)
			if b.DataWidth == 0 {
				b.DataWidth = DefaultDataWidth
			}
			for k := range b.Registers {
				b.Registers[k].Width = orOne(b.Registers[k].Width)
				b.Registers[k].Length = orOne(b.Registers[k].Length)
			}
		}
	}
}

// Load reads the description at path
func Load(path string) (*Design, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes a description, choosing the format from the file
// extension: .json is JSON, anything else is the DSL.
func Parse(filename string, data []byte) (*Design, error) {
	var (
		d   *Design
		err error
	)
	switch filepath.Ext(filename) {
	case ".json":
		d, err = ParseJSON(data)
	default:
		d, err = ParseDSL(filename, string(data))
	}
	if err != nil {
		return nil, err
	}
	log.Debugf("loaded %d modules from %s", len(d.Modules), filename)
	return d, nil
}
