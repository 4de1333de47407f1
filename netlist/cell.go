package netlist

import (
	"loom/hdl"
	"loom/report"
)

// Cell is one computation, decision, storage or interface unit of the
// netlist.  Every cell belongs to exactly one module and exposes a fixed
// number of single-bit outputs addressed as (cell index, bit index).
type Cell interface {
	// ModuleIdx returns the index of the module the cell belongs to.
	ModuleIdx() int

	// Loc returns the user location the cell is attributed to, if any.
	Loc() report.Location

	// OutputWidth returns the number of output bits of the cell.
	OutputWidth() int

	// VisitNets calls fn with a pointer to every input net of the cell, so
	// that late nets can be resolved in place.
	VisitNets(fn func(*Net))

	// Sequential reports whether the cell's outputs are free of any
	// combinational dependency on its inputs: storage outputs, foreign
	// instance outputs and top-level inputs break combinational cycles.
	Sequential() bool
}

// CellBase carries the fields shared by all cells.
type CellBase struct {
	Module   int
	Location report.Location
}

func (cb *CellBase) ModuleIdx() int {
	return cb.Module
}

func (cb *CellBase) Loc() report.Location {
	return cb.Location
}

func (cb *CellBase) Sequential() bool {
	return false
}

// visitValue applies fn to each net of a value in place.
func visitValue(v Value, fn func(*Net)) {
	for i := range v {
		fn(&v[i])
	}
}

// -----------------------------------------------------------------------------

// TopPort is one port of the synthetic top cell.
type TopPort struct {
	Name  string
	Width int
	Dir   hdl.Direction

	// For input ports: the first output bit of the top cell carrying the
	// port.  Input ports own [Start, Start+Width) of the cell's outputs.
	Start int

	// For output ports: the nets driving the port.
	Value Value
}

// TopCell is the synthetic cell at index 0 holding the top-level ports:
// top-level inputs enter the netlist as its outputs, top-level outputs are
// its inputs.
type TopCell struct {
	CellBase

	Ports []TopPort
}

func (c *TopCell) OutputWidth() int {
	w := 0
	for _, p := range c.Ports {
		if p.Dir == hdl.DirInput {
			w += p.Width
		}
	}

	return w
}

func (c *TopCell) VisitNets(fn func(*Net)) {
	for i := range c.Ports {
		visitValue(c.Ports[i].Value, fn)
	}
}

func (c *TopCell) Sequential() bool {
	return true
}

// -----------------------------------------------------------------------------

// OperatorCell applies an operator to width-unified operand values.
type OperatorCell struct {
	CellBase

	// The operator symbol, same alphabet as the design-level operator table.
	Op string

	// The operand values.  Sign/zero extension was already applied by the
	// emitter wherever the result width requires it.
	Operands []Value

	// Whether the operands are interpreted as signed (division, modulo,
	// comparisons and right shifts care).
	Signed bool

	Width int
}

func (c *OperatorCell) OutputWidth() int {
	return c.Width
}

func (c *OperatorCell) VisitNets(fn func(*Net)) {
	for i := range c.Operands {
		visitValue(c.Operands[i], fn)
	}
}

// -----------------------------------------------------------------------------

// PartSelectCell selects Width bits of Input starting at bit Offset*Stride,
// yielding zero bits past the end of Input.
type PartSelectCell struct {
	CellBase

	Input  Value
	Offset Value
	Stride int
	Width  int
}

func (c *PartSelectCell) OutputWidth() int {
	return c.Width
}

func (c *PartSelectCell) VisitNets(fn func(*Net)) {
	visitValue(c.Input, fn)
	visitValue(c.Offset, fn)
}

// -----------------------------------------------------------------------------

// MuxCell is a ternary two-way multiplexer: A if Sel else B.
type MuxCell struct {
	CellBase

	Sel  Net
	A, B Value
}

func (c *MuxCell) OutputWidth() int {
	return len(c.A)
}

func (c *MuxCell) VisitNets(fn func(*Net)) {
	fn(&c.Sel)
	visitValue(c.A, fn)
	visitValue(c.B, fn)
}

// -----------------------------------------------------------------------------

// MatchCell matches Test against pattern groups, producing one output bit per
// group: bit i is set iff Test matches any pattern of group i.
type MatchCell struct {
	CellBase

	// An enable net gating all outputs.
	En Net

	Test Value

	// The pattern groups: each pattern is one character per bit of Test, most
	// significant first, over the alphabet 0, 1, -.
	Groups [][]string
}

func (c *MatchCell) OutputWidth() int {
	return len(c.Groups)
}

func (c *MatchCell) VisitNets(fn func(*Net)) {
	fn(&c.En)
	visitValue(c.Test, fn)
}

// -----------------------------------------------------------------------------

// PriorityMatchCell reduces a vector of match bits to at most one set bit:
// output bit i is set iff input bit i is set and no lower-indexed bit is.
// Decision priority in the netlist is structural, through this cell, not
// through statement order.
type PriorityMatchCell struct {
	CellBase

	Input Value
}

func (c *PriorityMatchCell) OutputWidth() int {
	return len(c.Input)
}

func (c *PriorityMatchCell) VisitNets(fn func(*Net)) {
	visitValue(c.Input, fn)
}

// -----------------------------------------------------------------------------

// Assignment is one conditional override of an assignment list.
type Assignment struct {
	// The priority condition: the override applies when Cond is set.
	Cond Net

	// The first bit of the target the override writes.
	Start int

	// The value written over [Start, Start+len(Value)).
	Value Value

	// The location of the assignment statement, for driver conflicts.
	Loc report.Location
}

// AssignmentListCell computes the flat value of one signal in one domain of
// one module: the default value overridden, in declaration order, by every
// assignment whose condition holds (a later assignment overrides an earlier
// one on the bits both write).
type AssignmentListCell struct {
	CellBase

	// The signal the list drives, for dumps and diagnostics.
	Signal *hdl.Signal

	Default     Value
	Assignments []Assignment
}

func (c *AssignmentListCell) OutputWidth() int {
	return len(c.Default)
}

func (c *AssignmentListCell) VisitNets(fn func(*Net)) {
	visitValue(c.Default, fn)
	for i := range c.Assignments {
		fn(&c.Assignments[i].Cond)
		visitValue(c.Assignments[i].Value, fn)
	}
}

// -----------------------------------------------------------------------------

// FlipFlopCell is edge-triggered storage.  Synchronous resets are encoded as
// a highest-priority override in the feeding assignment list; only an
// asynchronous reset appears on the cell itself.
type FlipFlopCell struct {
	CellBase

	Data Value
	Clk  Net

	// The active clock edge.
	NegEdge bool

	// The asynchronous reset net; unused unless HasArst.
	Arst    Net
	HasArst bool

	// The initial (power-on) value, which doubles as the asynchronous reset
	// value.  Always fully constant.
	Init Value
}

func (c *FlipFlopCell) OutputWidth() int {
	return len(c.Data)
}

func (c *FlipFlopCell) VisitNets(fn func(*Net)) {
	visitValue(c.Data, fn)
	fn(&c.Clk)
	if c.HasArst {
		fn(&c.Arst)
	}
}

func (c *FlipFlopCell) Sequential() bool {
	return true
}

// -----------------------------------------------------------------------------

// MemoryCell is a word-addressable storage array.  It has no outputs of its
// own; reads go through MemoryReadPortCells referencing it.
type MemoryCell struct {
	CellBase

	Name  string
	Width int
	Depth int
	Init  []int64
}

func (c *MemoryCell) OutputWidth() int {
	return 0
}

func (c *MemoryCell) VisitNets(fn func(*Net)) {}

// MemoryReadPortCell reads one word of a memory, combinationally or clocked.
type MemoryReadPortCell struct {
	CellBase

	// The index of the MemoryCell read.
	Memory int

	Addr Value

	// Synchronous ports only.
	En      Net
	Clk     Net
	NegEdge bool
	Sync    bool

	Width int
}

func (c *MemoryReadPortCell) OutputWidth() int {
	return c.Width
}

func (c *MemoryReadPortCell) VisitNets(fn func(*Net)) {
	visitValue(c.Addr, fn)
	if c.Sync {
		fn(&c.En)
		fn(&c.Clk)
	}
}

func (c *MemoryReadPortCell) Sequential() bool {
	return c.Sync
}

// MemoryWritePortCell writes one word of a memory under a per-bit enable.
// Writes are always synchronous.
type MemoryWritePortCell struct {
	CellBase

	// The index of the MemoryCell written.
	Memory int

	Addr Value
	Data Value
	En   Value

	Clk     Net
	NegEdge bool
}

func (c *MemoryWritePortCell) OutputWidth() int {
	return 0
}

func (c *MemoryWritePortCell) VisitNets(fn func(*Net)) {
	visitValue(c.Addr, fn)
	visitValue(c.Data, fn)
	visitValue(c.En, fn)
	fn(&c.Clk)
}

func (c *MemoryWritePortCell) Sequential() bool {
	return true
}

// -----------------------------------------------------------------------------

// InstanceParam is one named parameter of a foreign instance.
type InstanceParam struct {
	Name  string
	Value interface{} // int64 or string
}

// InstancePortIn is one named input connection of a foreign instance.
type InstancePortIn struct {
	Name  string
	Value Value
}

// InstancePortOut is one named output of a foreign instance; the instance
// cell's output bits [Start, Start+Width) carry it.
type InstancePortOut struct {
	Name  string
	Width int
	Start int
}

// InstancePortIO is one named IO connection of a foreign instance,
// referencing a top-level IO bundle by index.
type InstancePortIO struct {
	Name string
	IO   int
}

// InstanceCell is a foreign module instantiation.
type InstanceCell struct {
	CellBase

	Type string
	Name string

	Params   []InstanceParam
	PortsIn  []InstancePortIn
	PortsOut []InstancePortOut
	PortsIO  []InstancePortIO
}

func (c *InstanceCell) OutputWidth() int {
	w := 0
	for _, p := range c.PortsOut {
		w += p.Width
	}

	return w
}

func (c *InstanceCell) VisitNets(fn func(*Net)) {
	for i := range c.PortsIn {
		visitValue(c.PortsIn[i].Value, fn)
	}
}

func (c *InstanceCell) Sequential() bool {
	return true
}

// -----------------------------------------------------------------------------

// IOBufferCell connects an IO bundle to the netlist: its outputs are the
// input side of the buffer; O and OE drive the pads when present.
type IOBufferCell struct {
	CellBase

	// The index of the IO bundle in the netlist's IO port table.
	IO int

	// The output-side value and enable; unused unless HasO.
	O    Value
	OE   Net
	HasO bool

	Width int
}

func (c *IOBufferCell) OutputWidth() int {
	return c.Width
}

func (c *IOBufferCell) VisitNets(fn func(*Net)) {
	if c.HasO {
		visitValue(c.O, fn)
		fn(&c.OE)
	}
}

func (c *IOBufferCell) Sequential() bool {
	return true
}

// -----------------------------------------------------------------------------

// FormatChunk is one piece of a print or property message at the netlist
// level: a literal, or a value with a verb.
type FormatChunk struct {
	Literal string
	Value   Value
	Verb    string
	Signed  bool
}

// PrintCell emits its format when enabled, on the clock edge for clocked
// prints.
type PrintCell struct {
	CellBase

	En Net

	Clk     Net
	NegEdge bool
	Clocked bool

	Format []FormatChunk
}

func (c *PrintCell) OutputWidth() int {
	return 0
}

func (c *PrintCell) VisitNets(fn func(*Net)) {
	fn(&c.En)
	if c.Clocked {
		fn(&c.Clk)
	}
	for i := range c.Format {
		visitValue(c.Format[i].Value, fn)
	}
}

func (c *PrintCell) Sequential() bool {
	return true
}

// PropertyCell checks a formal property when enabled.
type PropertyCell struct {
	CellBase

	Kind string
	En   Net
	Test Net

	Clk     Net
	NegEdge bool
	Clocked bool

	Format []FormatChunk
}

func (c *PropertyCell) OutputWidth() int {
	return 0
}

func (c *PropertyCell) VisitNets(fn func(*Net)) {
	fn(&c.En)
	fn(&c.Test)
	if c.Clocked {
		fn(&c.Clk)
	}
	for i := range c.Format {
		visitValue(c.Format[i].Value, fn)
	}
}

func (c *PropertyCell) Sequential() bool {
	return true
}
