package dsl

import (
	"testing"

	"loom/hdl"
	"loom/ir"
	"loom/report"
)

func TestBuildFlatAssignments(t *testing.T) {
	a := hdl.NewArena()
	x := a.Signal(hdl.Unsigned(4), "x")
	y := a.Signal(hdl.Unsigned(4), "y")

	f, err := Build(a, func(b *Builder) {
		b.Comb().Assign(y, x)
		b.In("sync").Assign(x, hdl.Add(x, hdl.C(1)))
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	domains := f.StatementDomains()
	if len(domains) != 2 || domains[0] != hdl.CombDomain || domains[1] != "sync" {
		t.Fatalf("domains = %v", domains)
	}
	if len(f.Statements(hdl.CombDomain)) != 1 || len(f.Statements("sync")) != 1 {
		t.Errorf("statement counts = %d, %d",
			len(f.Statements(hdl.CombDomain)), len(f.Statements("sync")))
	}

	asg := f.Statements(hdl.CombDomain)[0].(*hdl.Assign)
	if asg.LHS != hdl.Value(y) || asg.RHS != hdl.Value(x) {
		t.Errorf("comb assignment = %s", asg)
	}
}

func TestBuilderFinish(t *testing.T) {
	a := hdl.NewArena()
	x := a.Signal(hdl.Unsigned(1), "x")

	b := NewBuilder(a)
	b.Comb().Assign(x, hdl.C(1))
	f, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if len(f.Statements(hdl.CombDomain)) != 1 {
		t.Errorf("statements lost by Finish")
	}

	// A finished builder rejects everything.
	if _, err := b.Finish(); !report.IsKind(err, report.KindSyntax) {
		t.Errorf("second Finish = %v, want syntax error", err)
	}
}

func TestFinishWithOpenBlock(t *testing.T) {
	a := hdl.NewArena()
	x := a.Signal(hdl.Unsigned(1), "x")

	_, err := Build(a, func(b *Builder) {
		b.If(x)
	})
	if !report.IsKind(err, report.KindSyntax) {
		t.Errorf("Build with open If = %v, want syntax error", err)
	}
}

func TestBuilderPassthroughs(t *testing.T) {
	a := hdl.NewArena()
	cd := hdl.NewClockDomain(a, "sync", hdl.DomainConfig{})
	child, _ := Build(a, func(b *Builder) {})
	mem := hdl.NewMemory(a, "buf", 8, 4)

	f, err := Build(a, func(b *Builder) {
		b.AddDomain(cd)
		b.AddChild(child, "sub")
		b.AddMemory(mem)
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if f.Domain("sync") != cd {
		t.Errorf("domain not attached")
	}
	if len(f.Children()) != 1 || f.Children()[0].Fragment != child {
		t.Errorf("child not attached")
	}
	if len(f.Memories()) != 1 || f.Memories()[0] != mem {
		t.Errorf("memory not attached")
	}
}

func TestBuildResolvesWithPrepare(t *testing.T) {
	a := hdl.NewArena()
	q := a.Signal(hdl.Unsigned(4), "q")
	en := a.Signal(hdl.Unsigned(1), "en")

	f, err := Build(a, func(b *Builder) {
		b.If(en)
		b.In("sync").Assign(q, hdl.Add(q, hdl.C(1)))
		b.EndIf()
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	resolver := func(name string) *hdl.ClockDomain {
		return hdl.NewClockDomain(a, name, hdl.DomainConfig{})
	}
	if _, err := ir.Prepare(f, []ir.Port{{Signal: en}, {Signal: q}}, resolver); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
}
