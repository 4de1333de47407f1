package dsl

import (
	"strings"

	"loom/hdl"
	"loom/report"
)

// ifFrame is an open If/Elif/Else chain.
type ifFrame struct {
	loc     report.Location
	conds   []hdl.Value
	arms    []*block
	hasElse bool
}

func (f *ifFrame) what() string { return "If" }

// If opens a conditional chain.  The condition is reduced to a single bit.
func (b *Builder) If(cond hdl.ValueLike) {
	loc := report.CallerLocation(0)
	b.checkOpen(loc)
	b.checkArmContext("If", loc)

	f := &ifFrame{loc: loc}
	f.conds = append(f.conds, boolCond(cond))
	b.ctrl = append(b.ctrl, f)
	f.arms = append(f.arms, b.pushArm())
}

// Elif adds a further condition arm to the innermost open If chain.
func (b *Builder) Elif(cond hdl.ValueLike) {
	loc := report.CallerLocation(0)
	b.checkOpen(loc)

	f, ok := b.top().(*ifFrame)
	if !ok {
		report.Raise(report.KindSyntax, loc, "Elif requires an enclosing If chain")
	}
	if f.hasElse {
		report.Raise(report.KindSyntax, loc, "Elif cannot follow Else")
	}

	b.popArm()
	f.conds = append(f.conds, boolCond(cond))
	f.arms = append(f.arms, b.pushArm())
}

// Else opens the final arm of the innermost open If chain.
func (b *Builder) Else() {
	loc := report.CallerLocation(0)
	b.checkOpen(loc)

	f, ok := b.top().(*ifFrame)
	if !ok {
		report.Raise(report.KindSyntax, loc, "Else requires an enclosing If chain")
	}
	if f.hasElse {
		report.Raise(report.KindSyntax, loc, "If chain already has an Else")
	}

	b.popArm()
	f.hasElse = true
	f.arms = append(f.arms, b.pushArm())
}

// EndIf closes the innermost If chain, compiling it into one Switch per
// domain the arms assign in.  The switch is keyed on the concatenation of
// all conditions; arm k matches on its own condition bit with every other
// bit left as a wildcard, so first-true-arm priority is carried by the
// switch's structural case priority.
func (b *Builder) EndIf() {
	loc := report.CallerLocation(0)
	b.checkOpen(loc)

	f, ok := b.top().(*ifFrame)
	if !ok {
		report.Raise(report.KindSyntax, loc, "EndIf requires an enclosing If chain")
	}

	b.popArm()
	b.popCtrl()

	n := len(f.conds)
	test := hdl.Cat(f.conds...)

	var domains []string
	for _, arm := range f.arms {
		domains = arm.mergeOrder(domains)
	}

	for _, dom := range domains {
		cases := make([]hdl.SwitchCase, 0, len(f.arms)+1)
		for k, arm := range f.arms {
			var pats []hdl.Pattern
			if k < n {
				pats = []hdl.Pattern{ifPattern(k, n)}
			}
			cases = append(cases, hdl.SwitchCase{Patterns: pats, Body: arm.stmts[dom]})
		}
		if !f.hasElse {
			// The implicit "none matched" case.
			cases = append(cases, hdl.SwitchCase{})
		}
		b.cur().add(dom, hdl.NewSwitchAt(f.loc, test, cases))
	}
}

// ifPattern is the match pattern of arm k (0-based) of an n-condition chain:
// a one on the arm's own condition bit, wildcards everywhere else.
func ifPattern(k, n int) hdl.Pattern {
	s := strings.Repeat("-", n-k-1) + "1" + strings.Repeat("-", k)
	return hdl.MustParsePattern(s, n)
}

// boolCond casts a condition and reduces it to one bit.
func boolCond(cond hdl.ValueLike) hdl.Value {
	c := hdl.CastValue(cond)
	if c.Shape().Width == 1 && !c.Shape().Signed {
		return c
	}
	return hdl.Bool(c)
}

// -----------------------------------------------------------------------------

type switchArm struct {
	patterns []hdl.Pattern // nil for the default arm
	blk      *block
}

// switchFrame is an open Switch block.
type switchFrame struct {
	loc        report.Location
	test       hdl.Value
	arms       []switchArm
	armOpen    bool
	sawDefault bool
}

func (f *switchFrame) what() string { return "Switch" }

// Switch opens a pattern-match block over a test value.  Statements may only
// be added after a Case or Default.
func (b *Builder) Switch(test hdl.ValueLike) {
	loc := report.CallerLocation(0)
	b.checkOpen(loc)
	b.checkArmContext("Switch", loc)

	b.ctrl = append(b.ctrl, &switchFrame{loc: loc, test: hdl.CastValue(test)})
}

// Case opens an arm of the innermost Switch matching any of the given
// patterns.  A pattern is either a string over "01-" (most significant bit
// first, parsed at the test's width) or an integer constant.
func (b *Builder) Case(patterns ...interface{}) {
	loc := report.CallerLocation(0)
	b.checkOpen(loc)

	f, ok := b.top().(*switchFrame)
	if !ok {
		report.Raise(report.KindSyntax, loc, "Case requires an enclosing Switch")
	}
	if f.sawDefault {
		report.Warn(loc, "Case after Default is unreachable")
	}

	shape := f.test.Shape()
	var pats []hdl.Pattern
	for _, raw := range patterns {
		var p hdl.Pattern
		switch raw := raw.(type) {
		case string:
			p = hdl.ParsePattern(raw, shape.Width)
		case int:
			p = hdl.PatternOf(int64(raw), shape)
		case int64:
			p = hdl.PatternOf(raw, shape)
		default:
			report.Raise(report.KindSyntax, loc, "case pattern must be a string or an integer, not %T", raw)
		}
		if p.Dead {
			report.Warn(loc, "case pattern %v never matches a value of shape %s", raw, shape)
		}
		pats = append(pats, p)
	}
	if pats == nil {
		// A case with no patterns matches nothing, but must stay distinct
		// from the default.
		pats = []hdl.Pattern{}
	}

	if f.armOpen {
		b.popArm()
	}
	f.armOpen = true
	f.arms = append(f.arms, switchArm{patterns: pats, blk: b.pushArm()})
}

// Default opens the default arm of the innermost Switch.
func (b *Builder) Default() {
	loc := report.CallerLocation(0)
	b.checkOpen(loc)

	f, ok := b.top().(*switchFrame)
	if !ok {
		report.Raise(report.KindSyntax, loc, "Default requires an enclosing Switch")
	}
	if f.sawDefault {
		report.Warn(loc, "second Default is unreachable")
	}
	f.sawDefault = true

	if f.armOpen {
		b.popArm()
	}
	f.armOpen = true
	f.arms = append(f.arms, switchArm{patterns: nil, blk: b.pushArm()})
}

// EndSwitch closes the innermost Switch, compiling it into one flat Switch
// statement per domain its arms assign in.  Arm declaration order carries
// over: it is the case priority order.
func (b *Builder) EndSwitch() {
	loc := report.CallerLocation(0)
	b.checkOpen(loc)

	f, ok := b.top().(*switchFrame)
	if !ok {
		report.Raise(report.KindSyntax, loc, "EndSwitch requires an enclosing Switch")
	}

	if f.armOpen {
		b.popArm()
	}
	b.popCtrl()

	var domains []string
	for _, arm := range f.arms {
		domains = arm.blk.mergeOrder(domains)
	}

	for _, dom := range domains {
		cases := make([]hdl.SwitchCase, len(f.arms))
		for i, arm := range f.arms {
			cases[i] = hdl.SwitchCase{Patterns: arm.patterns, Body: arm.blk.stmts[dom]}
		}
		b.cur().add(dom, hdl.NewSwitchAt(f.loc, f.test, cases))
	}
}
