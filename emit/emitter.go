package emit

import (
	"fmt"
	"strings"

	"loom/hdl"
	"loom/ir"
	"loom/netlist"
	"loom/report"
	"loom/util"
)

// driveSite records where a signal is driven at the netlist level, for
// conflict reporting.  A signal has at most one drive site: one module and
// one domain.
type driveSite struct {
	module int
	domain string
	loc    report.Location

	// Whether the site tolerates no other driver at all, even from the same
	// module and domain (top-level input ports).
	exclusive bool

	desc string
}

// assignList accumulates the conditional assignments targeting one signal
// within one (module, domain) pair.
type assignList struct {
	asgs []netlist.Assignment
}

type valueKey struct {
	module int
	node   hdl.Value
}

type emitter struct {
	d    *ir.Design
	nl   *netlist.Netlist
	opts options

	// The module index of every fragment and its inverse.
	moduleOf map[*ir.Fragment]int
	fragOf   []*ir.Fragment

	// The netlist value of every signal.  Allocated late on first reference
	// and resolved once the signal's drivers are known.
	sigNets *hdl.SignalMap[netlist.Value]

	// Which bits of each signal have a driver.
	driven *hdl.SignalMap[[]bool]

	// The drive site of every driven signal.
	sites *hdl.SignalMap[driveSite]

	// RHS compilation cache, keyed by expression-node identity per module.
	cache map[valueKey]netlist.Value

	ioIndex map[*hdl.IOPort]int

	// Top-level output port slots, filled once every driver is emitted.
	outPorts []topOut
}

type topOut struct {
	port   int // index into the top cell's ports
	m0port int // index into module 0's port table
	sig    *hdl.Signal
}

func newEmitter(d *ir.Design, name string, opts options) *emitter {
	e := &emitter{
		d:        d,
		nl:       netlist.New(name),
		opts:     opts,
		moduleOf: map[*ir.Fragment]int{d.Root: 0},
		fragOf:   []*ir.Fragment{d.Root},
		sigNets:  hdl.NewSignalMap[netlist.Value](),
		driven:   hdl.NewSignalMap[[]bool](),
		sites:    hdl.NewSignalMap[driveSite](),
		cache:    map[valueKey]netlist.Value{},
		ioIndex:  map[*hdl.IOPort]int{},
	}

	// The module tree mirrors the fragment tree, node for node.
	var walk func(f *ir.Fragment)
	walk = func(f *ir.Fragment) {
		for _, c := range f.Children() {
			fi := d.Info(c.Fragment)
			path := append([]string{name}, fi.Path[1:]...)
			mi := e.nl.AddModule(e.moduleOf[f], path)
			e.moduleOf[c.Fragment] = mi
			e.fragOf = append(e.fragOf, c.Fragment)
			walk(c.Fragment)
		}
	}
	walk(d.Root)

	return e
}

func cb(m int, loc report.Location) netlist.CellBase {
	return netlist.CellBase{Module: m, Location: loc}
}

func (e *emitter) modulePath(m int) string {
	return strings.Join(e.nl.Modules[m].Name, ".")
}

func (e *emitter) siteDesc(m int, domain string) string {
	return fmt.Sprintf("module %q in domain %q", e.modulePath(m), domain)
}

func (e *emitter) domainOf(f *ir.Fragment, name string) *hdl.ClockDomain {
	cd := f.Domain(name)
	if cd == nil {
		report.ICE("domain %q not resolved before emission", name)
	}

	return cd
}

// -----------------------------------------------------------------------------

// signalValue returns the netlist value of a signal, allocating a late value
// on first reference.
func (e *emitter) signalValue(sig *hdl.Signal) netlist.Value {
	if v, ok := e.sigNets.Get(sig); ok {
		return v
	}

	v := e.nl.AllocLate(sig.Shape().Width)
	e.sigNets.Set(sig, v)
	return v
}

// initValue returns the constant netlist value of a signal's initial value,
// normalized into its shape.
func initValue(sig *hdl.Signal) netlist.Value {
	return netlist.ConstValue(hdl.C(sig.Init, sig.Shape()).Value(), sig.Shape().Width)
}

// recordDriveSite registers site as the signal's single drive site.  A second
// site in a different module or domain is a driver conflict, reported with
// both locations.
func (e *emitter) recordDriveSite(sig *hdl.Signal, site driveSite) {
	prev, ok := e.sites.Get(sig)
	if !ok {
		e.sites.Set(sig, site)
		return
	}

	if prev.module != site.module || prev.domain != site.domain || prev.exclusive || site.exclusive {
		report.RaiseRelated(report.KindDriverConflict, site.loc, []report.Location{prev.loc},
			"signal %s driven by %s is already driven by %s", sig, site.desc, prev.desc)
	}
}

func (e *emitter) drivenOf(sig *hdl.Signal) []bool {
	bits, ok := e.driven.Get(sig)
	if !ok {
		bits = make([]bool, sig.Shape().Width)
		e.driven.Set(sig, bits)
	}

	return bits
}

// driveBits resolves bits [start, start+len(v)) of the signal's late value to
// the driving nets.  Driving the same bit twice from the same site is still a
// conflict (eg. two overlapping slices of one signal assigned by one
// instance).
func (e *emitter) driveBits(sig *hdl.Signal, start int, v netlist.Value, loc report.Location) {
	full := e.signalValue(sig)
	bits := e.drivenOf(sig)

	for i := range v {
		if bits[start+i] {
			report.RaiseRelated(report.KindDriverConflict, loc, []report.Location{sig.Loc()},
				"bit %d of signal %s is driven twice", start+i, sig)
		}
		bits[start+i] = true
		e.nl.ResolveLate(full[start+i], v[i])
	}
}

// -----------------------------------------------------------------------------

// emitTop lays out the synthetic top cell: input ports claim ranges of its
// output bits, output port values are filled in by finishTop once all
// drivers exist, and IO bundles get a top-level buffer each.
func (e *emitter) emitTop() {
	top := e.nl.Top()
	m0 := &e.nl.Modules[0]
	start := 0

	for _, p := range e.d.Ports {
		switch {
		case p.IO != nil:
			idx := e.ioFor(p.IO)
			_, out := e.nl.AddCell(&netlist.IOBufferCell{CellBase: cb(0, p.IO.Loc()), IO: idx, Width: p.IO.Width})
			top.Ports = append(top.Ports, netlist.TopPort{Name: p.Name, Width: p.IO.Width, Dir: hdl.DirInout})
			m0.Ports = append(m0.Ports, netlist.ModulePort{Name: p.Name, Nets: out, Flow: netlist.FlowInout})

		case p.Dir == hdl.DirInput:
			w := p.Signal.Shape().Width
			top.Ports = append(top.Ports, netlist.TopPort{Name: p.Name, Width: w, Dir: hdl.DirInput, Start: start})

			v := make(netlist.Value, w)
			for i := range v {
				v[i] = netlist.CellNet(0, start+i)
			}
			start += w

			e.recordDriveSite(p.Signal, driveSite{
				module:    0,
				domain:    hdl.CombDomain,
				loc:       p.Signal.Loc(),
				exclusive: true,
				desc:      fmt.Sprintf("top-level input port %q", p.Name),
			})
			e.sigNets.Set(p.Signal, v)
			bits := e.drivenOf(p.Signal)
			for i := range bits {
				bits[i] = true
			}
			m0.Ports = append(m0.Ports, netlist.ModulePort{Name: p.Name, Nets: v, Flow: netlist.FlowInput})

		case p.Dir == hdl.DirOutput:
			w := p.Signal.Shape().Width
			top.Ports = append(top.Ports, netlist.TopPort{Name: p.Name, Width: w, Dir: hdl.DirOutput})
			m0.Ports = append(m0.Ports, netlist.ModulePort{Name: p.Name, Flow: netlist.FlowOutput})
			e.outPorts = append(e.outPorts, topOut{port: len(top.Ports) - 1, m0port: len(m0.Ports) - 1, sig: p.Signal})

		default:
			report.Raise(report.KindSyntax, p.Signal.Loc(), "inout port %q must reference an IO bundle, not a signal", p.Name)
		}
	}
}

// finishTop fills the top-level output port values.
func (e *emitter) finishTop() {
	top := e.nl.Top()
	for _, o := range e.outPorts {
		v := e.extend(e.compileValue(0, o.sig), o.sig.Shape(), top.Ports[o.port].Width)
		top.Ports[o.port].Value = v
		e.nl.Modules[0].Ports[o.m0port].Nets = v
	}
}

func (e *emitter) ioFor(io *hdl.IOPort) int {
	if idx, ok := e.ioIndex[io]; ok {
		return idx
	}

	idx := len(e.nl.IOPorts)
	e.nl.IOPorts = append(e.nl.IOPorts, io)
	e.ioIndex[io] = idx
	return idx
}

// -----------------------------------------------------------------------------

func (e *emitter) emitFragment(f *ir.Fragment) {
	m := e.moduleOf[f]

	if inst := f.Instance(); inst != nil {
		e.emitInstance(f, m, inst)
	}

	for _, dom := range f.StatementDomains() {
		lists := hdl.NewSignalMap[*assignList]()
		e.compileStmts(f, m, dom, f.Statements(dom), netlist.ConstOne, lists)
		e.finishDomain(f, m, dom, lists)
	}

	for _, mem := range f.Memories() {
		e.emitMemory(f, m, mem)
	}

	for _, c := range f.Children() {
		e.emitFragment(c.Fragment)
	}
}

// compileStmts lowers a statement list under an enable net.  Assignments
// accumulate into per-signal assignment lists; side-effect statements become
// cells directly.
func (e *emitter) compileStmts(f *ir.Fragment, m int, dom string, stmts []hdl.Statement, en netlist.Net, lists *hdl.SignalMap[*assignList]) {
	for _, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *hdl.Assign:
			w := stmt.LHS.Shape().Width
			rhs := e.extend(e.compileValue(m, stmt.RHS), stmt.RHS.Shape(), w)
			e.emitAssign(f, m, dom, lists, stmt.LHS, 0, rhs, en, stmt.Loc())

		case *hdl.Print:
			cell := &netlist.PrintCell{CellBase: cb(m, stmt.Loc()), En: en, Format: e.compileFormat(m, stmt.Format)}
			e.clockCell(f, m, dom, &cell.Clk, &cell.NegEdge, &cell.Clocked)
			e.nl.AddCell(cell)

		case *hdl.Property:
			cell := &netlist.PropertyCell{
				CellBase: cb(m, stmt.Loc()),
				Kind:     stmt.Kind.String(),
				En:       en,
				Test:     e.boolNet(m, stmt.Test),
			}
			if stmt.Message != nil {
				cell.Format = e.compileFormat(m, stmt.Message)
			}
			e.clockCell(f, m, dom, &cell.Clk, &cell.NegEdge, &cell.Clocked)
			e.nl.AddCell(cell)

		case *hdl.Switch:
			e.compileSwitch(f, m, dom, stmt, en, lists)

		default:
			report.ICE("unknown statement %T in emission", stmt)
		}
	}
}

// compileSwitch lowers a switch statement: one match cell groups the case
// patterns, a priority-match cell makes the case selects one-hot, and each
// case body is compiled under its select bit.  Priority is structural from
// here on.
func (e *emitter) compileSwitch(f *ir.Fragment, m int, dom string, stmt *hdl.Switch, en netlist.Net, lists *hdl.SignalMap[*assignList]) {
	test := e.compileValue(m, stmt.Test)

	groups := make([][]string, len(stmt.Cases))
	for i, cs := range stmt.Cases {
		groups[i] = patternGroup(cs.Patterns, len(test))
	}

	_, match := e.nl.AddCell(&netlist.MatchCell{CellBase: cb(m, stmt.Loc()), En: en, Test: test, Groups: groups})
	_, sel := e.nl.AddCell(&netlist.PriorityMatchCell{CellBase: cb(m, stmt.Loc()), Input: match})

	for i, cs := range stmt.Cases {
		e.compileStmts(f, m, dom, cs.Body, sel[i], lists)
	}
}

// patternGroup renders a case's pattern set for a match cell over a test of
// the given width.  A nil set is the default case and matches everything;
// dead patterns are dropped, so a fully dead set never matches.
func patternGroup(patterns []hdl.Pattern, width int) []string {
	if patterns == nil {
		return []string{strings.Repeat("-", width)}
	}

	group := []string{}
	for _, p := range patterns {
		if !p.Dead {
			group = append(group, p.Bits)
		}
	}

	return group
}

// emitAssign adds rhs as a conditional assignment to bits
// [start, start+len(rhs)) of the assignable lhs, decomposing slices,
// concatenations and variable part selects down to whole-signal targets.
func (e *emitter) emitAssign(f *ir.Fragment, m int, dom string, lists *hdl.SignalMap[*assignList], lhs hdl.Value, start int, rhs netlist.Value, en netlist.Net, loc report.Location) {
	if len(rhs) == 0 {
		return
	}

	switch lhs := lhs.(type) {
	case *hdl.Signal:
		l := e.listFor(f, m, dom, lists, lhs, loc)
		l.asgs = append(l.asgs, netlist.Assignment{Cond: en, Start: start, Value: rhs, Loc: loc})

	case *hdl.Slice:
		e.emitAssign(f, m, dom, lists, lhs.Base, lhs.Start+start, rhs, en, loc)

	case *hdl.Concat:
		off := 0
		for _, p := range lhs.Parts {
			w := p.Shape().Width
			lo, hi := imax(start, off), imin(start+len(rhs), off+w)
			if lo < hi {
				e.emitAssign(f, m, dom, lists, p, lo-off, rhs[lo-start:hi-start], en, loc)
			}
			off += w
		}

	case *hdl.Part:
		e.emitAssignPart(f, m, dom, lists, lhs, start, rhs, en, loc)

	default:
		report.ICE("non-assignable value %T reached emission", lhs)
	}
}

// emitAssignPart expands a variable-offset write into one conditional
// assignment per reachable offset, each gated on the offset matching its
// position.
func (e *emitter) emitAssignPart(f *ir.Fragment, m int, dom string, lists *hdl.SignalMap[*assignList], lhs *hdl.Part, start int, rhs netlist.Value, en netlist.Net, loc report.Location) {
	baseWidth := lhs.Base.Shape().Width
	off := e.compileValue(m, lhs.Offset)
	offShape := lhs.Offset.Shape()

	for k := 0; k*lhs.Stride < baseWidth; k++ {
		pat := hdl.PatternOf(int64(k), offShape)
		if pat.Dead {
			// The offset cannot reach this position.
			break
		}

		pos := k*lhs.Stride + start
		width := imin(len(rhs), baseWidth-pos)
		if width <= 0 {
			continue
		}

		_, hit := e.nl.AddCell(&netlist.MatchCell{
			CellBase: cb(m, loc),
			En:       en,
			Test:     off,
			Groups:   [][]string{{pat.Bits}},
		})
		e.emitAssign(f, m, dom, lists, lhs.Base, pos, rhs[:width], hit[0], loc)
	}
}

func (e *emitter) listFor(f *ir.Fragment, m int, dom string, lists *hdl.SignalMap[*assignList], sig *hdl.Signal, loc report.Location) *assignList {
	if l, ok := lists.Get(sig); ok {
		return l
	}

	e.recordDriveSite(sig, driveSite{module: m, domain: dom, loc: loc, desc: e.siteDesc(m, dom)})
	l := &assignList{}
	lists.Set(sig, l)
	return l
}

// finishDomain closes one (fragment, domain) pair: every driven signal gets
// an assignment-list cell, and signals driven in a clocked domain additionally
// get a storage cell fed by it.  A synchronous reset is injected as the
// highest-priority override; an asynchronous reset goes onto the storage cell
// itself.
func (e *emitter) finishDomain(f *ir.Fragment, m int, dom string, lists *hdl.SignalMap[*assignList]) {
	for _, sig := range lists.Keys() {
		l, _ := lists.Get(sig)
		init := initValue(sig)
		loc := sig.Loc()

		if dom == hdl.CombDomain {
			_, out := e.nl.AddCell(&netlist.AssignmentListCell{
				CellBase:    cb(m, loc),
				Signal:      sig,
				Default:     init,
				Assignments: l.asgs,
			})
			e.driveBits(sig, 0, out, loc)
			continue
		}

		cd := e.domainOf(f, dom)
		clk := e.compileValue(m, cd.Clk)[0]
		var rst netlist.Net
		if cd.Rst != nil {
			rst = e.compileValue(m, cd.Rst)[0]
		}

		asgs := l.asgs
		if cd.Rst != nil && !cd.AsyncReset && !sig.ResetLess {
			asgs = append(asgs, netlist.Assignment{Cond: rst, Start: 0, Value: init, Loc: loc})
		}

		// The register's current value is the default: bits no assignment
		// touches hold their state.
		q := e.signalValue(sig)
		_, data := e.nl.AddCell(&netlist.AssignmentListCell{
			CellBase:    cb(m, loc),
			Signal:      sig,
			Default:     append(netlist.Value{}, q...),
			Assignments: asgs,
		})

		ff := &netlist.FlipFlopCell{
			CellBase: cb(m, loc),
			Data:     data,
			Clk:      clk,
			NegEdge:  cd.ClkEdge == hdl.EdgeNeg,
			Init:     init,
		}
		if cd.AsyncReset && cd.Rst != nil && !sig.ResetLess {
			ff.HasArst = true
			ff.Arst = rst
		}
		_, out := e.nl.AddCell(ff)
		e.driveBits(sig, 0, out, loc)
	}
}

func (e *emitter) clockCell(f *ir.Fragment, m int, dom string, clk *netlist.Net, negEdge, clocked *bool) {
	if dom == hdl.CombDomain {
		return
	}

	cd := e.domainOf(f, dom)
	*clk = e.compileValue(m, cd.Clk)[0]
	*negEdge = cd.ClkEdge == hdl.EdgeNeg
	*clocked = true
}

// -----------------------------------------------------------------------------

func (e *emitter) emitMemory(f *ir.Fragment, m int, mem *hdl.Memory) {
	memIdx, _ := e.nl.AddCell(&netlist.MemoryCell{
		CellBase: cb(m, mem.Loc()),
		Name:     mem.Name,
		Width:    mem.Width,
		Depth:    mem.Depth,
		Init:     mem.Init,
	})

	for _, rp := range mem.ReadPorts {
		cell := &netlist.MemoryReadPortCell{
			CellBase: cb(m, mem.Loc()),
			Memory:   memIdx,
			Addr:     e.extend(e.compileValue(m, rp.Addr), rp.Addr.Shape(), mem.AddrBits()),
			Width:    mem.Width,
		}
		if rp.Domain != hdl.CombDomain {
			cd := e.domainOf(f, rp.Domain)
			cell.Sync = true
			cell.Clk = e.compileValue(m, cd.Clk)[0]
			cell.NegEdge = cd.ClkEdge == hdl.EdgeNeg
			cell.En = netlist.ConstOne
			if rp.En != nil {
				cell.En = e.boolNet(m, rp.En)
			}
		}

		_, out := e.nl.AddCell(cell)
		e.recordDriveSite(rp.Data, driveSite{
			module: m,
			domain: rp.Domain,
			loc:    mem.Loc(),
			desc:   fmt.Sprintf("read port of memory %q", mem.Name),
		})
		e.driveBits(rp.Data, 0, out, mem.Loc())
	}

	for _, wp := range mem.WritePorts {
		cd := e.domainOf(f, wp.Domain)

		en := e.compileValue(m, wp.En)
		if len(en) == 1 {
			// A single-bit enable applies to the whole word.
			word := make(netlist.Value, mem.Width)
			for i := range word {
				word[i] = en[0]
			}
			en = word
		}

		e.nl.AddCell(&netlist.MemoryWritePortCell{
			CellBase: cb(m, mem.Loc()),
			Memory:   memIdx,
			Addr:     e.extend(e.compileValue(m, wp.Addr), wp.Addr.Shape(), mem.AddrBits()),
			Data:     e.extend(e.compileValue(m, wp.Data), wp.Data.Shape(), mem.Width),
			En:       en,
			Clk:      e.compileValue(m, cd.Clk)[0],
			NegEdge:  cd.ClkEdge == hdl.EdgeNeg,
		})
	}
}

// -----------------------------------------------------------------------------

func (e *emitter) emitInstance(f *ir.Fragment, m int, inst *ir.Instance) {
	cell := &netlist.InstanceCell{
		CellBase: cb(m, report.Location{}),
		Type:     inst.Type,
		Name:     e.d.Info(f).Name,
	}
	cell.Params = util.Map(inst.Params, func(p ir.InstanceParam) netlist.InstanceParam {
		return netlist.InstanceParam{Name: p.Name, Value: p.Value}
	})

	type outConn struct {
		lhs   hdl.Value
		start int
		width int
	}
	var outs []outConn
	start := 0

	for _, p := range inst.Ports {
		switch {
		case p.IO != nil:
			cell.PortsIO = append(cell.PortsIO, netlist.InstancePortIO{Name: p.Name, IO: e.ioFor(p.IO)})

		case p.Dir == hdl.DirInput:
			cell.PortsIn = append(cell.PortsIn, netlist.InstancePortIn{Name: p.Name, Value: e.compileValue(m, p.Value)})

		case p.Dir == hdl.DirOutput:
			w := p.Value.Shape().Width
			cell.PortsOut = append(cell.PortsOut, netlist.InstancePortOut{Name: p.Name, Width: w, Start: start})
			outs = append(outs, outConn{lhs: p.Value, start: start, width: w})
			start += w

		default:
			report.Raise(report.KindSyntax, report.Location{},
				"inout port %q of instance %q must connect through an IO bundle", p.Name, inst.Type)
		}
	}

	_, out := e.nl.AddCell(cell)
	for i, oc := range outs {
		e.connectOut(m, inst, cell.PortsOut[i].Name, oc.lhs, 0, out[oc.start:oc.start+oc.width])
	}
}

// connectOut hard-wires an instance output onto the connected signal bits.
// Unlike an assignment this is unconditional: the bits are resolved directly
// to the instance cell's outputs.
func (e *emitter) connectOut(m int, inst *ir.Instance, port string, lhs hdl.Value, start int, rhs netlist.Value) {
	switch lhs := lhs.(type) {
	case *hdl.Signal:
		e.recordDriveSite(lhs, driveSite{
			module: m,
			domain: hdl.CombDomain,
			loc:    lhs.Loc(),
			desc:   fmt.Sprintf("output %q of instance %q", port, inst.Type),
		})
		e.driveBits(lhs, start, rhs, lhs.Loc())

	case *hdl.Slice:
		e.connectOut(m, inst, port, lhs.Base, start+lhs.Start, rhs)

	case *hdl.Concat:
		off := 0
		for _, p := range lhs.Parts {
			w := p.Shape().Width
			lo, hi := imax(start, off), imin(start+len(rhs), off+w)
			if lo < hi {
				e.connectOut(m, inst, port, p, lo-off, rhs[lo-start:hi-start])
			}
			off += w
		}

	default:
		report.Raise(report.KindSyntax, report.Location{},
			"output %q of instance %q must connect to signals", port, inst.Type)
	}
}

// -----------------------------------------------------------------------------

// finishSignals resolves the nets of every signal without a full set of
// drivers: undriven bits are tied to the signal's initial value, or, under
// the driver-less-registers mode, fully undriven signals become free-running
// storage cells an external testbench can force.
func (e *emitter) finishSignals() {
	for _, sig := range e.d.UsedSignals() {
		e.nl.Signals.Set(sig, e.signalValue(sig))
	}

	for _, sig := range e.sigNets.Keys() {
		v, _ := e.sigNets.Get(sig)
		bits, _ := e.driven.Get(sig)

		undriven := 0
		for i := range v {
			if bits == nil || !bits[i] {
				undriven++
			}
		}
		if undriven == 0 {
			continue
		}

		init := initValue(sig)

		if e.opts.driverlessRegs && undriven == len(v) {
			m := 0
			if owner, ok := e.d.Owner(sig); ok {
				m = e.moduleOf[owner]
			}
			_, out := e.nl.AddCell(&netlist.FlipFlopCell{
				CellBase: cb(m, sig.Loc()),
				Data:     append(netlist.Value{}, v...),
				Clk:      netlist.ConstZero,
				Init:     init,
			})
			e.driveBits(sig, 0, out, sig.Loc())
			continue
		}

		for i := range v {
			if bits == nil || !bits[i] {
				e.nl.ResolveLate(v[i], init[i])
			}
		}
	}
}

// nameNets borrows the design-level signal names into each module's local
// net-name table, for port naming and dumps.
func (e *emitter) nameNets() {
	for mi, f := range e.fragOf {
		fi := e.d.Info(f)
		for _, sig := range fi.Uses.Keys() {
			name, _ := fi.SigNames.Get(sig)
			if v, ok := e.nl.Signals.Get(sig); ok && len(v) > 0 {
				e.nl.Modules[mi].NameNet(v[0], name)
			}
		}
	}
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func imin(a, b int) int {
	if a < b {
		return a
	}
	return b
}
