package dsl

import (
	"fmt"

	"loom/hdl"
	"loom/report"
)

// fsmState is one declared state of an FSM.
type fsmState struct {
	name string
	blk  *block
}

// fsmFrame is an open FSM block.  State encodings are dense integers handed
// out on first reference, so forward references through NextState work; the
// first state referenced is the initial state and encodes as zero.
type fsmFrame struct {
	loc    report.Location
	name   string
	domain string

	// Encoding of every referenced state name, in first-reference order.
	codes map[string]int64
	order []string

	// The declared states, in declaration order.
	states  []*fsmState
	defined map[string]bool
	armOpen bool

	// The generated state signal.  Created when the block closes; NextState
	// statements are late-bound against it.
	sig *hdl.Signal

	// Requested per-state ongoing indicators.
	ongoing      map[string]*hdl.Signal
	ongoingOrder []string
}

func (f *fsmFrame) what() string { return "FSM" }

// code returns the state's dense encoding, assigning the next one on first
// reference.
func (f *fsmFrame) code(name string) int64 {
	if c, ok := f.codes[name]; ok {
		return c
	}

	c := int64(len(f.order))
	f.codes[name] = c
	f.order = append(f.order, name)
	return c
}

// FSM opens a finite state machine block updating its state in the given
// domain.  States are declared with State; the machine compiles into one
// Switch over a generated state signal when EndFSM closes the block.
func (b *Builder) FSM(name, domain string) {
	loc := report.CallerLocation(0)
	b.checkOpen(loc)
	b.checkArmContext("FSM", loc)

	b.ctrl = append(b.ctrl, &fsmFrame{
		loc:     loc,
		name:    name,
		domain:  domain,
		codes:   map[string]int64{},
		defined: map[string]bool{},
		ongoing: map[string]*hdl.Signal{},
	})
}

// State opens a state of the innermost FSM, closing the previously open
// state.  The first state referenced anywhere in the machine is the initial
// state.
func (b *Builder) State(name string) {
	loc := report.CallerLocation(0)
	b.checkOpen(loc)

	f, ok := b.top().(*fsmFrame)
	if !ok {
		report.Raise(report.KindSyntax, loc, "State requires an enclosing FSM")
	}
	if f.defined[name] {
		report.Raise(report.KindName, loc, "FSM %q already has a state %q", f.name, name)
	}

	f.code(name)
	f.defined[name] = true

	if f.armOpen {
		b.popArm()
	}
	f.armOpen = true
	f.states = append(f.states, &fsmState{name: name, blk: b.pushArm()})
}

// NextState records a transition of the nearest enclosing FSM to the named
// state, in the FSM's domain.  The target state may be declared later; the
// statement is late-bound and resolves when the FSM closes.
func (b *Builder) NextState(name string) {
	loc := report.CallerLocation(0)
	b.checkOpen(loc)

	f := b.enclosingFSM()
	if f == nil {
		report.Raise(report.KindSyntax, loc, "NextState requires an enclosing FSM")
	}
	if top, ok := b.top().(*fsmFrame); ok && top == f && !f.armOpen {
		report.Raise(report.KindSyntax, loc, "NextState must appear inside a State")
	}

	f.code(name)
	b.cur().add(f.domain, &nextStateStmt{
		StmtBase: hdl.NewStmtBaseAt(loc),
		fsm:      f,
		target:   name,
	})
}

// Ongoing returns a single-bit signal that is set, combinationally, while
// the nearest enclosing FSM is in the named state.
func (b *Builder) Ongoing(name string) *hdl.Signal {
	loc := report.CallerLocation(0)
	b.checkOpen(loc)

	f := b.enclosingFSM()
	if f == nil {
		report.Raise(report.KindSyntax, loc, "Ongoing requires an enclosing FSM")
	}

	if sig, ok := f.ongoing[name]; ok {
		return sig
	}

	f.code(name)
	sig := b.arena.Signal(hdl.Unsigned(1), fmt.Sprintf("%s_%s_ongoing", f.name, name))
	f.ongoing[name] = sig
	f.ongoingOrder = append(f.ongoingOrder, name)
	return sig
}

// enclosingFSM returns the innermost FSM frame on the control stack.
func (b *Builder) enclosingFSM() *fsmFrame {
	for i := len(b.ctrl) - 1; i >= 0; i-- {
		if f, ok := b.ctrl[i].(*fsmFrame); ok {
			return f
		}
	}
	return nil
}

// EndFSM closes the innermost FSM: every referenced state must be declared,
// the state signal is created, NextState placeholders resolve against it,
// and the states compile into one Switch per domain.  Ongoing indicators are
// wired combinationally.
func (b *Builder) EndFSM() {
	loc := report.CallerLocation(0)
	b.checkOpen(loc)

	f, ok := b.top().(*fsmFrame)
	if !ok {
		report.Raise(report.KindSyntax, loc, "EndFSM requires an enclosing FSM")
	}

	if f.armOpen {
		b.popArm()
	}
	b.popCtrl()

	for _, name := range f.order {
		if !f.defined[name] {
			report.Raise(report.KindName, f.loc, "FSM %q references state %q, which is never declared", f.name, name)
		}
	}

	if len(f.states) == 0 {
		return
	}

	shape := hdl.ShapeFor(int64(len(f.states) - 1))
	if shape.Width == 0 {
		shape = hdl.Unsigned(1)
	}
	f.sig = b.arena.Signal(shape, f.name+"_state")

	// NextState placeholders can now resolve: the state signal exists and
	// every encoding is final.
	for _, st := range f.states {
		for _, dom := range st.blk.order {
			st.blk.stmts[dom] = hdl.ResolveLateStatements(st.blk.stmts[dom])
		}
	}

	var domains []string
	for _, st := range f.states {
		domains = st.blk.mergeOrder(domains)
	}

	for _, dom := range domains {
		cases := make([]hdl.SwitchCase, len(f.states))
		for i, st := range f.states {
			cases[i] = hdl.SwitchCase{
				Patterns: []hdl.Pattern{hdl.PatternOf(f.codes[st.name], shape)},
				Body:     st.blk.stmts[dom],
			}
		}
		b.cur().add(dom, hdl.NewSwitchAt(f.loc, f.sig, cases))
	}

	for _, name := range f.ongoingOrder {
		b.cur().add(hdl.CombDomain, hdl.NewAssignAt(f.loc,
			f.ongoing[name],
			hdl.Eq(f.sig, hdl.C(f.codes[name], shape))))
	}
}

// -----------------------------------------------------------------------------

// nextStateStmt is the late-bound form of an FSM transition.  It resolves
// into a plain assignment of the target state's encoding once the enclosing
// FSM has closed.
type nextStateStmt struct {
	hdl.StmtBase

	fsm    *fsmFrame
	target string
}

func (ns *nextStateStmt) String() string {
	return fmt.Sprintf("(next-state %s)", ns.target)
}

func (ns *nextStateStmt) ResolveLate() hdl.Statement {
	if ns.fsm.sig == nil {
		report.ICE("next-state statement resolved before FSM %q closed", ns.fsm.name)
	}

	return hdl.NewAssignAt(ns.Loc(), ns.fsm.sig, hdl.C(ns.fsm.codes[ns.target], ns.fsm.sig.Shape()))
}
