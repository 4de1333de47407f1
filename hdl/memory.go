package hdl

import "loom/report"

// Memory is a word-addressable storage array.  Reads and writes go through
// explicitly created ports; the netlist emitter lowers the memory and its
// ports to dedicated storage cells.
type Memory struct {
	// The width of one word in bits.
	Width int

	// The number of words.
	Depth int

	// The name of the memory, used for diagnostics and dumps.
	Name string

	// The initial contents, one word per entry, missing entries zero.
	Init []int64

	// All ports created on this memory, in creation order.
	ReadPorts  []*ReadPort
	WritePorts []*WritePort

	loc report.Location
}

// NewMemory creates a memory array.
func NewMemory(a *Arena, name string, width, depth int) *Memory {
	if width < 0 || depth < 0 {
		report.Raise(report.KindShape, report.Location{}, "memory %q must have non-negative width and depth", name)
	}
	if name == "" {
		name = a.autoName("mem")
	}

	return &Memory{Width: width, Depth: depth, Name: name, loc: report.CallerLocation(0)}
}

// Loc returns the location the memory was created at.
func (m *Memory) Loc() report.Location {
	return m.loc
}

// AddrBits returns the number of address bits needed to index the memory.
func (m *Memory) AddrBits() int {
	if m.Depth <= 1 {
		return 0
	}

	return bitLen(uint64(m.Depth - 1))
}

// -----------------------------------------------------------------------------

// ReadPort reads one word per cycle of its domain, or combinationally when
// the domain is CombDomain.
type ReadPort struct {
	Memory *Memory

	// The domain the read is clocked in; CombDomain for asynchronous reads.
	Domain string

	// The address to read, unsigned.
	Addr Value

	// The read enable, or nil for an always-enabled port.  Combinational
	// ports cannot be gated.
	En Value

	// The data output signal.
	Data *Signal
}

// ReadPort creates a read port on the memory clocked in the given domain.
func (m *Memory) ReadPort(a *Arena, domain string, addr Value) *ReadPort {
	if addr.Shape().Signed {
		report.Raise(report.KindShape, report.Location{}, "memory %q read address must be unsigned", m.Name)
	}

	rp := &ReadPort{
		Memory: m,
		Domain: domain,
		Addr:   addr,
		Data:   a.Signal(Unsigned(m.Width), m.Name+"_rdata"),
	}
	m.ReadPorts = append(m.ReadPorts, rp)

	return rp
}

// WritePort writes one word per cycle of its domain under a per-bit enable.
type WritePort struct {
	Memory *Memory

	// The domain the write is clocked in.  Writes are always synchronous.
	Domain string

	// The address to write, unsigned.
	Addr Value

	// The data to write, memory word width.
	Data Value

	// The write enable: either 1 bit gating the whole word or one bit per
	// data bit.
	En Value
}

// WritePort creates a write port on the memory clocked in the given domain.
func (m *Memory) WritePort(domain string, addr, data, en Value) *WritePort {
	if domain == CombDomain {
		report.Raise(report.KindDomain, report.Location{}, "memory %q write port must be clocked in a named domain", m.Name)
	}
	if addr.Shape().Signed {
		report.Raise(report.KindShape, report.Location{}, "memory %q write address must be unsigned", m.Name)
	}
	if w := en.Shape().Width; w != 1 && w != m.Width {
		report.Raise(report.KindShape, report.Location{}, "memory %q write enable must be 1 or %d bits wide, not %d", m.Name, m.Width, w)
	}

	wp := &WritePort{Memory: m, Domain: domain, Addr: addr, Data: data, En: en}
	m.WritePorts = append(m.WritePorts, wp)

	return wp
}
