package netlist

import (
	"loom/hdl"
	"loom/report"
)

// Netlist is the flat, hierarchical net-level representation of an elaborated
// design.  Cell index 0 is always the synthetic top cell holding the
// top-level ports.
type Netlist struct {
	// All cells, index-addressable.
	Cells []Cell

	// The module hierarchy; index 0 is the top module.
	Modules []Module

	// The resolved nets of every design-level signal, for backends that need
	// to correlate signal names to net bits.
	Signals *hdl.SignalMap[Value]

	// The top-level bidirectional IO bundles, referenced by IO buffer and
	// instance cells by index.
	IOPorts []*hdl.IOPort

	// The number of late nets allocated so far.
	lateCount int

	// The resolution table from late net to its replacement, which may
	// itself be late until resolution completes.
	lateTable map[Net]Net
}

// New creates an empty netlist with the given top module in place and a top
// cell reserved at index 0.
func New(topName string) *Netlist {
	nl := &Netlist{
		Signals:   hdl.NewSignalMap[Value](),
		lateTable: make(map[Net]Net),
	}
	nl.Modules = append(nl.Modules, Module{Parent: -1, Name: []string{topName}})
	nl.AddCell(&TopCell{CellBase: CellBase{Module: 0}})

	return nl
}

// Top returns the synthetic top cell.
func (nl *Netlist) Top() *TopCell {
	return nl.Cells[0].(*TopCell)
}

// AddModule appends a module under the given parent and returns its index.
func (nl *Netlist) AddModule(parent int, name []string) int {
	idx := len(nl.Modules)
	nl.Modules = append(nl.Modules, Module{Parent: parent, Name: name})
	if parent >= 0 {
		nl.Modules[parent].Submodules = append(nl.Modules[parent].Submodules, idx)
	}

	return idx
}

// AddCell appends a cell and returns its index together with its full output
// value.
func (nl *Netlist) AddCell(c Cell) (int, Value) {
	idx := len(nl.Cells)
	nl.Cells = append(nl.Cells, c)
	nl.Modules[c.ModuleIdx()].Cells = append(nl.Modules[c.ModuleIdx()].Cells, idx)

	return idx, CellValue(idx, c.OutputWidth())
}

// AllocLate allocates a fresh late value of the given width for a forward
// reference.
func (nl *Netlist) AllocLate(width int) Value {
	v := make(Value, width)
	for i := range v {
		v[i] = LateNet(nl.lateCount)
		nl.lateCount++
	}

	return v
}

// ResolveLate records the replacement for one late net.  Recording two
// different replacements is an internal error: a late net has exactly one
// driver.
func (nl *Netlist) ResolveLate(late, actual Net) {
	if !late.IsLate() {
		report.ICE("net %s is not late", late)
	}
	if prev, ok := nl.lateTable[late]; ok && prev != actual {
		report.ICE("late net %s resolved twice (%s and %s)", late, prev, actual)
	}

	nl.lateTable[late] = actual
}

// ResolveLateValue records replacements for a whole late value.
func (nl *Netlist) ResolveLateValue(late, actual Value) {
	if len(late) != len(actual) {
		report.ICE("late value width mismatch: %d and %d", len(late), len(actual))
	}
	for i := range late {
		nl.ResolveLate(late[i], actual[i])
	}
}

// resolve follows the late table until a concrete net is found.
func (nl *Netlist) resolve(n Net) Net {
	for steps := 0; n.IsLate(); steps++ {
		next, ok := nl.lateTable[n]
		if !ok {
			report.ICE("late net %s was never resolved", n)
		}
		if steps > nl.lateCount {
			report.ICE("late net resolution cycle through %s", n)
		}
		n = next
	}

	return n
}

// ResolveAllNets replaces every late net in the netlist with its concrete
// net.  Any remaining unresolved late net is a fatal internal error: net
// identity is stable from here on.
func (nl *Netlist) ResolveAllNets() {
	fix := func(n *Net) {
		if n.IsLate() {
			*n = nl.resolve(*n)
		}
	}

	for _, c := range nl.Cells {
		c.VisitNets(fix)
	}
	for _, sig := range nl.Signals.Keys() {
		v, _ := nl.Signals.Get(sig)
		visitValue(v, fix)
	}

	nl.lateTable = nil
}
