// Package dsl is the control-flow compiler: a stack-based builder that
// accepts nested If/Elif/Else, Switch/Case/Default and FSM/State blocks and
// rewrites each of them, at block close, into one flat Switch statement per
// signal-update domain of the block's bodies.
package dsl

import (
	"loom/hdl"
	"loom/ir"
	"loom/report"
	"loom/util"
)

// block accumulates per-domain statement lists for one arm of a control
// construct (or for the fragment body itself).
type block struct {
	stmts map[string][]hdl.Statement
	order []string
}

func newBlock() *block {
	return &block{stmts: map[string][]hdl.Statement{}}
}

func (b *block) add(domain string, stmts ...hdl.Statement) {
	if _, ok := b.stmts[domain]; !ok {
		b.order = append(b.order, domain)
	}
	b.stmts[domain] = append(b.stmts[domain], stmts...)
}

// mergeOrder appends b's domains to the given order, skipping duplicates.
func (b *block) mergeOrder(order []string) []string {
	for _, dom := range b.order {
		if !util.Contains(order, dom) {
			order = append(order, dom)
		}
	}

	return order
}

// ctrlFrame is one open control construct on the builder's stack.
type ctrlFrame interface {
	// what names the construct for misuse diagnostics.
	what() string
}

// Builder constructs one fragment.  Statements are recorded against the
// combinational domain or a named clock domain through Comb and In; control
// constructs are entered and left with explicit calls, and each close
// compiles the construct into flat Switch statements.
//
// Builder methods report misuse by raising; run them beneath Finish's
// recovery or build the whole fragment through Build.
type Builder struct {
	arena *hdl.Arena
	frag  *ir.Fragment

	// The block stack.  The bottom block is the fragment body; control
	// constructs push one block per open arm.
	blocks []*block

	// The control stack, parallel to the open constructs.
	ctrl []ctrlFrame

	finished bool
}

// NewBuilder creates a builder allocating signals from the given arena.
func NewBuilder(a *hdl.Arena) *Builder {
	return &Builder{
		arena:  a,
		frag:   ir.NewFragment(),
		blocks: []*block{newBlock()},
	}
}

// Build runs fn against a fresh builder and finishes it, converting any
// misuse or construction error into an ordinary error return.
func Build(a *hdl.Arena, fn func(b *Builder)) (f *ir.Fragment, err error) {
	defer report.Catch(&err)

	b := NewBuilder(a)
	fn(b)
	return b.finish(), nil
}

// Finish closes the builder and returns the built fragment.  All control
// constructs must have been closed.
func (b *Builder) Finish() (f *ir.Fragment, err error) {
	defer report.Catch(&err)

	return b.finish(), nil
}

func (b *Builder) finish() *ir.Fragment {
	b.checkOpen(report.CallerLocation(1))
	if len(b.ctrl) > 0 {
		report.Raise(report.KindSyntax, report.CallerLocation(1),
			"cannot finish the builder with an open %s block", b.ctrl[len(b.ctrl)-1].what())
	}

	root := b.blocks[0]
	for _, dom := range root.order {
		b.frag.AddStatements(dom, root.stmts[dom]...)
	}

	b.finished = true
	return b.frag
}

func (b *Builder) checkOpen(loc report.Location) {
	if b.finished {
		report.Raise(report.KindSyntax, loc, "the builder was already finished")
	}
}

// cur returns the block statements currently land in.
func (b *Builder) cur() *block {
	return b.blocks[len(b.blocks)-1]
}

// pushArm opens a new arm block on top of the stack.
func (b *Builder) pushArm() *block {
	arm := newBlock()
	b.blocks = append(b.blocks, arm)
	return arm
}

func (b *Builder) popArm() {
	b.blocks = b.blocks[:len(b.blocks)-1]
}

func (b *Builder) popCtrl() {
	b.ctrl = b.ctrl[:len(b.ctrl)-1]
}

// top returns the innermost open control frame, or nil.
func (b *Builder) top() ctrlFrame {
	if len(b.ctrl) == 0 {
		return nil
	}
	return b.ctrl[len(b.ctrl)-1]
}

// -----------------------------------------------------------------------------

// AddDomain defines a clock domain on the built fragment.
func (b *Builder) AddDomain(cd *hdl.ClockDomain) {
	b.checkOpen(report.CallerLocation(0))
	b.frag.AddDomain(cd)
}

// AddChild attaches a submodule fragment under the given name; an empty name
// makes the child anonymous.
func (b *Builder) AddChild(child *ir.Fragment, name string) {
	b.checkOpen(report.CallerLocation(0))
	b.frag.AddChild(child, name)
}

// AddMemory attaches a memory to the built fragment.
func (b *Builder) AddMemory(m *hdl.Memory) {
	b.checkOpen(report.CallerLocation(0))
	b.frag.AddMemory(m)
}

// Signal allocates a signal from the builder's arena.
func (b *Builder) Signal(sl hdl.ShapeLike, name string) *hdl.Signal {
	return b.arena.Signal(sl, name)
}

// -----------------------------------------------------------------------------

// Sink records statements against one signal-update domain.
type Sink struct {
	b      *Builder
	domain string
}

// Comb returns the sink for the combinational domain.
func (b *Builder) Comb() Sink {
	return Sink{b: b, domain: hdl.CombDomain}
}

// In returns the sink for a named clock domain.  The domain may be defined
// on this fragment, inherited from a parent, or supplied by the
// missing-domain resolver at elaboration.
func (b *Builder) In(domain string) Sink {
	return Sink{b: b, domain: domain}
}

// Add records statements in the sink's domain at the current control
// position.
func (s Sink) Add(stmts ...hdl.Statement) {
	s.b.addStmts(s.domain, report.CallerLocation(0), stmts...)
}

// Assign records lhs = rhs in the sink's domain.
func (s Sink) Assign(lhs, rhs hdl.ValueLike) {
	loc := report.CallerLocation(0)
	s.b.addStmts(s.domain, loc, hdl.NewAssignAt(loc, hdl.CastValue(lhs), hdl.CastValue(rhs)))
}

func (b *Builder) addStmts(domain string, loc report.Location, stmts ...hdl.Statement) {
	b.checkOpen(loc)
	b.checkArmContext("statements", loc)
	b.cur().add(domain, stmts...)
}

// checkArmContext rejects statements or nested constructs placed directly
// inside a Switch or FSM, outside any arm: the current block there is the
// one *surrounding* the construct, so anything added would silently escape
// it.
func (b *Builder) checkArmContext(what string, loc report.Location) {
	switch f := b.top().(type) {
	case *switchFrame:
		if !f.armOpen {
			report.Raise(report.KindSyntax, loc, "%s inside Switch must appear inside a Case or Default", what)
		}
	case *fsmFrame:
		if !f.armOpen {
			report.Raise(report.KindSyntax, loc, "%s inside FSM must appear inside a State", what)
		}
	}
}
