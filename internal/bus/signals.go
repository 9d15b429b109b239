// Package bus generates memory-mapped register files behind a bus
// protocol: an AXI-Lite style handshake slave and a single-cycle Pico
// slave and master. Every generator is driven by a role-to-signal-name
// table so the same logic serves prefixed and externally named buses.
package bus

import (
	"maps"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("hdlgen.bus")

// Role is the function of one bus signal
type Role int

const (
	// AXI-Lite write address channel
	AWAddr Role = iota
	AWValid
	AWReady

	// AXI-Lite write data channel
	WData
	WStrb
	WValid
	WReady

	// AXI-Lite write response channel
	BResp
	BValid
	BReady

	// AXI-Lite read address channel
	ARAddr
	ARValid
	ARReady

	// AXI-Lite read data channel
	RData
	RResp
	RValid
	RReady

	// Pico bus
	Valid
	Ready
	Addr
	PicoWStrb
	PicoWData
	PicoRData
)

var roleNames = [...]string{
	AWAddr:    "awaddr",
	AWValid:   "awvalid",
	AWReady:   "awready",
	WData:     "wdata",
	WStrb:     "wstrb",
	WValid:    "wvalid",
	WReady:    "wready",
	BResp:     "bresp",
	BValid:    "bvalid",
	BReady:    "bready",
	ARAddr:    "araddr",
	ARValid:   "arvalid",
	ARReady:   "arready",
	RData:     "rdata",
	RResp:     "rresp",
	RValid:    "rvalid",
	RReady:    "rready",
	Valid:     "valid",
	Ready:     "ready",
	Addr:      "addr",
	PicoWStrb: "wstrb",
	PicoWData: "wdata",
	PicoRData: "rdata",
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "unknown"
	}
	return roleNames[r]
}

// AXILiteRoles lists the AXI-Lite roles in port order
var AXILiteRoles = []Role{
	AWAddr, AWValid, AWReady,
	WData, WStrb, WValid, WReady,
	BResp, BValid, BReady,
	ARAddr, ARValid, ARReady,
	RData, RResp, RValid, RReady,
}

// PicoRoles lists the Pico bus roles in port order
var PicoRoles = []Role{Valid, Ready, Addr, PicoWData, PicoWStrb, PicoRData}

// Signals maps bus roles to signal names
type Signals struct {
	names map[Role]string
}

// NewSignals names every role `{prefix}_{role}`, or just `{role}` when
// prefix is empty.
func NewSignals(prefix string, roles []Role) Signals {
	names := make(map[Role]string, len(roles))
	for _, r := range roles {
		if prefix == "" {
			names[r] = r.String()
		} else {
			names[r] = prefix + "_" + r.String()
		}
	}
	return Signals{names: names}
}

// With returns a copy of s with role renamed to name
func (s Signals) With(role Role, name string) Signals {
	names := maps.Clone(s.names)
	if names == nil {
		names = make(map[Role]string)
	}
	names[role] = name
	return Signals{names: names}
}

// Name returns the signal name bound to role, or "" if the role is unbound
func (s Signals) Name(role Role) string {
	return s.names[role]
}

func (s Signals) has(roles []Role) (Role, bool) {
	for _, r := range roles {
		if s.names[r] == "" {
			return r, false
		}
	}
	return 0, true
}
