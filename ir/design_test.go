package ir

import (
	"testing"

	"loom/hdl"
	"loom/report"
)

// syncResolver supplies a default domain for every missing name.
func syncResolver(a *hdl.Arena) MissingDomainResolver {
	return func(name string) *hdl.ClockDomain {
		return hdl.NewClockDomain(a, name, hdl.DomainConfig{})
	}
}

func TestPrepareFreezes(t *testing.T) {
	a := hdl.NewArena()
	x := a.Signal(hdl.Unsigned(4), "x")

	root := NewFragment()
	root.AddStatements(hdl.CombDomain, hdl.NewAssign(x, hdl.C(1)))

	d, err := Prepare(root, nil, nil)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if !root.Frozen() {
		t.Errorf("root not frozen after Prepare")
	}
	if d.Root != root {
		t.Errorf("design root mismatch")
	}

	func() {
		defer func() {
			ee, ok := recover().(*report.ElabError)
			if !ok || ee.Kind != report.KindFrozen {
				t.Errorf("AddStatements after freeze panicked with %v, want frozen error", ee)
			}
		}()
		root.AddStatements(hdl.CombDomain, hdl.NewAssign(x, hdl.C(2)))
	}()

	if _, err := Prepare(root, nil, nil); !report.IsKind(err, report.KindFrozen) {
		t.Errorf("second Prepare = %v, want frozen error", err)
	}
}

func TestSignalOwnershipLCA(t *testing.T) {
	a := hdl.NewArena()
	x := a.Signal(hdl.Unsigned(4), "x")
	y := a.Signal(hdl.Unsigned(4), "y")

	left := NewFragment()
	left.AddStatements(hdl.CombDomain, hdl.NewAssign(x, hdl.C(1)))

	right := NewFragment()
	right.AddStatements(hdl.CombDomain, hdl.NewAssign(y, x))

	root := NewFragment()
	root.AddChild(left, "left")
	root.AddChild(right, "right")

	d, err := Prepare(root, nil, nil)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	// x is used in both children, so the root owns it and every fragment on
	// the path between the uses routes it.
	owner, ok := d.Owner(x)
	if !ok || owner != root {
		t.Errorf("owner of x = %v, want root", owner)
	}
	for _, f := range []*Fragment{root, left, right} {
		if !d.Info(f).Uses.Has(x) {
			t.Errorf("%s does not use x", d.Info(f).Name)
		}
	}

	// y never leaves the right child.
	if owner, _ := d.Owner(y); owner != right {
		t.Errorf("owner of y = %v, want right child", owner)
	}
	if d.Info(root).Uses.Has(y) || d.Info(left).Uses.Has(y) {
		t.Errorf("y leaked outside its fragment")
	}
}

func TestFragmentPaths(t *testing.T) {
	inner := NewFragment()
	mid := NewFragment()
	mid.AddChild(inner, "inner")
	root := NewFragment()
	root.AddChild(mid, "mid")
	root.AddChild(NewFragment(), "") // anonymous

	d, err := Prepare(root, nil, nil)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	tests := []struct {
		f    *Fragment
		path []string
	}{
		{root, []string{"top"}},
		{mid, []string{"top", "mid"}},
		{inner, []string{"top", "mid", "inner"}},
	}
	for _, tt := range tests {
		got := d.Info(tt.f).Path
		if len(got) != len(tt.path) {
			t.Errorf("path = %v, want %v", got, tt.path)
			continue
		}
		for i := range got {
			if got[i] != tt.path[i] {
				t.Errorf("path = %v, want %v", got, tt.path)
				break
			}
		}
	}

	if name := d.Info(root.Children()[1].Fragment).Name; name != "U$1" {
		t.Errorf("anonymous child name = %q, want U$1", name)
	}
}

func TestPortDirectionInference(t *testing.T) {
	a := hdl.NewArena()
	in := a.Signal(hdl.Unsigned(4), "in")
	out := a.Signal(hdl.Unsigned(5), "out")

	root := NewFragment()
	root.AddStatements(hdl.CombDomain, hdl.NewAssign(out, hdl.Add(in, hdl.C(1))))

	d, err := Prepare(root, []Port{
		{Signal: in},
		{Signal: out},
	}, nil)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	if d.Ports[0].Dir != hdl.DirInput {
		t.Errorf("undriven port inferred as %s, want input", d.Ports[0].Dir)
	}
	if d.Ports[1].Dir != hdl.DirOutput {
		t.Errorf("driven port inferred as %s, want output", d.Ports[1].Dir)
	}
	if d.Ports[0].Name != "in" || d.Ports[1].Name != "out" {
		t.Errorf("port names = %q, %q", d.Ports[0].Name, d.Ports[1].Name)
	}
}

func TestPortErrors(t *testing.T) {
	a := hdl.NewArena()
	x := a.Signal(hdl.Unsigned(4), "x")
	y := a.Signal(hdl.Unsigned(4), "x")

	root := NewFragment()
	root.AddStatements(hdl.CombDomain, hdl.NewAssign(y, x))

	if _, err := Prepare(root, []Port{{Signal: x}, {Signal: y}}, nil); !report.IsKind(err, report.KindName) {
		t.Errorf("duplicate port name = %v, want name error", err)
	}

	root2 := NewFragment()
	if _, err := Prepare(root2, []Port{{}}, nil); !report.IsKind(err, report.KindSyntax) {
		t.Errorf("empty port = %v, want syntax error", err)
	}

	root3 := NewFragment()
	io := hdl.NewIOPort("pad", 4)
	if _, err := Prepare(root3, []Port{{Signal: x, IO: io}}, nil); !report.IsKind(err, report.KindSyntax) {
		t.Errorf("signal+IO port = %v, want syntax error", err)
	}
}

func TestNameDisambiguation(t *testing.T) {
	a := hdl.NewArena()
	// Two distinct signals that share a name must get distinct local names.
	v1 := a.Signal(hdl.Unsigned(4), "v")
	v2 := a.Signal(hdl.Unsigned(4), "v")
	out := a.Signal(hdl.Unsigned(5), "out")

	root := NewFragment()
	root.AddStatements(hdl.CombDomain, hdl.NewAssign(out, hdl.Add(v1, v2)))

	d, err := Prepare(root, nil, nil)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	fi := d.Info(root)
	n1, _ := fi.SigNames.Get(v1)
	n2, _ := fi.SigNames.Get(v2)
	if n1 == n2 {
		t.Errorf("both signals named %q", n1)
	}
	if n1 != "v" || n2 != "v$2" {
		t.Errorf("names = %q, %q, want v and v$2", n1, n2)
	}
}

func TestDriverOf(t *testing.T) {
	a := hdl.NewArena()
	q := a.Signal(hdl.Unsigned(4), "q")
	cd := hdl.NewClockDomain(a, "sync", hdl.DomainConfig{})

	child := NewFragment()
	child.AddStatements("sync", hdl.NewAssign(q, hdl.Add(q, hdl.C(1))))

	root := NewFragment()
	root.AddDomain(cd)
	root.AddChild(child, "ctr")

	d, err := Prepare(root, nil, nil)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	drv, ok := d.DriverOf(q)
	if !ok || drv.Fragment != child || drv.Domain != "sync" {
		t.Errorf("DriverOf(q) = %+v, %v", drv, ok)
	}
	if _, ok := d.DriverOf(cd.Clk); ok {
		t.Errorf("clock reported as driven")
	}
}
