package dsl

import (
	"strings"
	"testing"

	"loom/hdl"
	"loom/report"
)

func TestFSMCompilation(t *testing.T) {
	a := hdl.NewArena()
	out := a.Signal(hdl.Unsigned(1), "out")
	go1 := a.Signal(hdl.Unsigned(1), "go")

	f, err := Build(a, func(b *Builder) {
		b.FSM("ctl", "sync")

		b.State("idle")
		b.Comb().Assign(out, hdl.C(0))
		b.If(go1)
		b.NextState("run") // forward reference
		b.EndIf()

		b.State("run")
		b.Comb().Assign(out, hdl.C(1))
		b.NextState("idle")

		b.EndFSM()
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Two states fit one bit; the first state declared is the initial state
	// and encodes as zero.
	sync := f.Statements("sync")
	if len(sync) != 1 {
		t.Fatalf("sync statements = %d, want one switch", len(sync))
	}
	sw := sync[0].(*hdl.Switch)

	state, ok := sw.Test.(*hdl.Signal)
	if !ok || state.Name != "ctl_state" {
		t.Fatalf("switch test = %s, want the ctl_state signal", sw.Test)
	}
	if state.Shape() != hdl.Unsigned(1) {
		t.Errorf("state shape = %s, want unsigned(1)", state.Shape())
	}

	if len(sw.Cases) != 2 {
		t.Fatalf("cases = %d, want 2", len(sw.Cases))
	}
	if sw.Cases[0].Patterns[0].Bits != "0" || sw.Cases[1].Patterns[0].Bits != "1" {
		t.Errorf("state encodings = %v, %v", sw.Cases[0].Patterns, sw.Cases[1].Patterns)
	}

	// The run state's transition resolved into a plain assignment of idle's
	// encoding.
	asg, ok := sw.Cases[1].Body[0].(*hdl.Assign)
	if !ok {
		t.Fatalf("transition did not resolve: %s", sw.Cases[1].Body[0])
	}
	if asg.LHS != hdl.Value(state) {
		t.Errorf("transition target = %s", asg.LHS)
	}
	if c := asg.RHS.(*hdl.Const); c.Value() != 0 {
		t.Errorf("transition value = %d, want 0", c.Value())
	}
}

func TestFSMEncodingOrder(t *testing.T) {
	a := hdl.NewArena()

	f, err := Build(a, func(b *Builder) {
		b.FSM("seq", "sync")
		// The first *reference* fixes an encoding, not the first declaration.
		b.State("a")
		b.NextState("c")
		b.State("b")
		b.NextState("a")
		b.State("c")
		b.NextState("b")
		b.EndFSM()
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	sw := f.Statements("sync")[0].(*hdl.Switch)
	// Declaration order a, b, c; codes a=0, c=1 (referenced from a), b=2.
	wantPats := []string{"00", "10", "01"}
	for i, want := range wantPats {
		if got := sw.Cases[i].Patterns[0].Bits; got != want {
			t.Errorf("case %d pattern = %q, want %q", i, got, want)
		}
	}
}

func TestFSMOngoing(t *testing.T) {
	a := hdl.NewArena()
	busy := a.Signal(hdl.Unsigned(1), "busy")

	f, err := Build(a, func(b *Builder) {
		b.FSM("ctl", "sync")
		b.State("idle")
		b.NextState("run")
		b.State("run")
		b.Comb().Assign(busy, b.Ongoing("run"))
		b.NextState("idle")
		b.EndFSM()
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// The ongoing indicator is assigned combinationally outside the state
	// switch: an equality against the state's encoding.
	comb := f.Statements(hdl.CombDomain)
	var eqAsg *hdl.Assign
	for _, stmt := range comb {
		if asg, ok := stmt.(*hdl.Assign); ok {
			if sig, ok := asg.LHS.(*hdl.Signal); ok && strings.HasSuffix(sig.Name, "_ongoing") {
				eqAsg = asg
			}
		}
	}
	if eqAsg == nil {
		t.Fatalf("no ongoing assignment found in %v", comb)
	}
	if eqAsg.LHS.(*hdl.Signal).Name != "ctl_run_ongoing" {
		t.Errorf("ongoing signal name = %q", eqAsg.LHS.(*hdl.Signal).Name)
	}
	op, ok := eqAsg.RHS.(*hdl.Operator)
	if !ok || op.Op != hdl.OpEq {
		t.Errorf("ongoing value = %s, want an equality", eqAsg.RHS)
	}
}

func TestFSMSingleState(t *testing.T) {
	a := hdl.NewArena()
	x := a.Signal(hdl.Unsigned(1), "x")

	f, err := Build(a, func(b *Builder) {
		b.FSM("one", "sync")
		b.State("only")
		b.In("sync").Assign(x, hdl.C(1))
		b.EndFSM()
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// A single state still gets a 1-bit state signal.
	sw := f.Statements("sync")[0].(*hdl.Switch)
	if got := sw.Test.(*hdl.Signal).Shape(); got != hdl.Unsigned(1) {
		t.Errorf("single-state shape = %s, want unsigned(1)", got)
	}
}

func TestFSMErrors(t *testing.T) {
	a := hdl.NewArena()

	if _, err := Build(a, func(b *Builder) {
		b.FSM("ctl", "sync")
		b.State("idle")
		b.NextState("nowhere")
		b.EndFSM()
	}); !report.IsKind(err, report.KindName) {
		t.Errorf("undeclared state = %v, want name error", err)
	}

	if _, err := Build(a, func(b *Builder) {
		b.FSM("ctl", "sync")
		b.State("idle")
		b.State("idle")
	}); !report.IsKind(err, report.KindName) {
		t.Errorf("duplicate state = %v, want name error", err)
	}

	if _, err := Build(a, func(b *Builder) {
		b.NextState("idle")
	}); !report.IsKind(err, report.KindSyntax) {
		t.Errorf("NextState outside FSM = %v, want syntax error", err)
	}

	x := a.Signal(hdl.Unsigned(1), "x")
	if _, err := Build(a, func(b *Builder) {
		b.FSM("ctl", "sync")
		b.In("sync").Assign(x, hdl.C(1))
	}); !report.IsKind(err, report.KindSyntax) {
		t.Errorf("statement outside State = %v, want syntax error", err)
	}
}

func TestFSMEmpty(t *testing.T) {
	a := hdl.NewArena()

	f, err := Build(a, func(b *Builder) {
		b.FSM("ctl", "sync")
		b.EndFSM()
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(f.StatementDomains()) != 0 {
		t.Errorf("empty FSM produced statements: %v", f.StatementDomains())
	}
}
