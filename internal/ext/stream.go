package ext

import "hdlgen/internal/module"

// StreamRole selects which side of a stream a module sits on
type StreamRole int

const (
	// StreamSlave receives data: data/valid in, ready out
	StreamSlave StreamRole = iota
	// StreamMaster sends data: data/valid out, ready in
	StreamMaster
	// StreamWire declares the three signals as internal storage
	StreamWire
)

// Stream is a data/valid/ready interface
type Stream struct {
	Name  string
	Width int
	Role  StreamRole
}

// NewStream returns a stream interface named name
func NewStream(name string, width int, role StreamRole) *Stream {
	return &Stream{Name: name, Width: width, Role: role}
}

func (s *Stream) Data() string  { return s.Name + "_data" }
func (s *Stream) Valid() string { return s.Name + "_valid" }
func (s *Stream) Ready() string { return s.Name + "_ready" }

// Extend declares the stream signals
func (s *Stream) Extend(b *module.Builder) error {
	switch s.Role {
	case StreamSlave:
		b.Input(s.Data(), s.Width).Input(s.Valid(), 1).Output(s.Ready(), 1)
	case StreamMaster:
		b.Output(s.Data(), s.Width).Output(s.Valid(), 1).Input(s.Ready(), 1)
	default:
		b.Logic(s.Data(), s.Width, 1).Logic(s.Valid(), 1, 1).Logic(s.Ready(), 1, 1)
	}
	return nil
}
