package ir

import (
	"fmt"

	"loom/hdl"
	"loom/report"
)

// Port is one top-level port of a design: a named signal or IO bundle with a
// direction.  The zero Name borrows the signal's own name; DirAuto infers the
// direction from whether the signal is driven inside the design.
type Port struct {
	Name   string
	Signal *hdl.Signal
	IO     *hdl.IOPort
	Dir    hdl.Direction
}

// Driver records where a signal is driven: the fragment, the domain, and the
// location of the first assignment seen.
type Driver struct {
	Fragment *Fragment
	Domain   string
	Loc      report.Location
}

// FragInfo is the elaboration result for one fragment: its place and name in
// the hierarchy, the signals it uses directly or routes, and the local names
// assigned to them.
type FragInfo struct {
	Fragment *Fragment
	Parent   *Fragment
	Depth    int

	// The fragment's name within its parent and its full hierarchical path.
	Name string
	Path []string

	// The signals used directly in this fragment or routed through it.
	Uses *hdl.SignalSet

	// The IO bundles used in this fragment's subtree.
	IOUses []*hdl.IOPort

	// The name of each used signal, unique within this fragment.
	SigNames *hdl.SignalMap[string]

	// The name of each used IO bundle, unique within this fragment.
	IONames map[*hdl.IOPort]string
}

// Design is the result of elaborating a fragment tree against a port list.
type Design struct {
	// The root fragment, frozen.
	Root *Fragment

	// The top-level ports with names and directions resolved.
	Ports []Port

	frags   []*Fragment
	info    map[*Fragment]*FragInfo
	owner   *hdl.SignalMap[*Fragment]
	drivers *hdl.SignalMap[Driver]
}

// Prepare elaborates a fragment tree: clock domains are propagated and
// synthesized, signal usage is computed over the hierarchy, ports are
// resolved, and every used signal receives a name unique within its fragment.
// The fragment tree is frozen on success.
func Prepare(root *Fragment, ports []Port, resolver MissingDomainResolver) (d *Design, err error) {
	defer report.Catch(&err)

	return prepare(root, ports, resolver, true), nil
}

// PrepareNoPropagation is Prepare without the downward domain propagation
// step: every fragment must define each domain it references itself.
func PrepareNoPropagation(root *Fragment, ports []Port, resolver MissingDomainResolver) (d *Design, err error) {
	defer report.Catch(&err)

	return prepare(root, ports, resolver, false), nil
}

func prepare(root *Fragment, ports []Port, resolver MissingDomainResolver, propagate bool) *Design {
	if root.frozen {
		report.Raise(report.KindFrozen, root.loc, "fragment tree was already elaborated")
	}

	// Late-bound statements are resolved in a fixed pass before anything else
	// looks at the statement lists.
	forEachFragment(root, func(f *Fragment) {
		for _, domain := range f.stmtOrder {
			f.stmts[domain] = hdl.ResolveLateStatements(f.stmts[domain])
		}
	})

	resolveDomains(root, resolver, propagate)
	resolvePlaceholders(root)

	d := &Design{
		Root:    root,
		info:    make(map[*Fragment]*FragInfo),
		owner:   hdl.NewSignalMap[*Fragment](),
		drivers: hdl.NewSignalMap[Driver](),
	}

	d.indexFragment(root, nil, "top", 0)
	for _, f := range d.frags {
		d.collectUsage(f)
	}

	d.resolvePorts(ports)
	for _, f := range d.frags {
		d.assignNames(f)
	}

	root.Freeze()
	return d
}

func forEachFragment(f *Fragment, fn func(*Fragment)) {
	fn(f)
	for _, c := range f.children {
		forEachFragment(c.Fragment, fn)
	}
}

// indexFragment assigns hierarchy names and depth-first order.
func (d *Design) indexFragment(f *Fragment, parent *Fragment, name string, depth int) {
	fi := &FragInfo{
		Fragment: f,
		Parent:   parent,
		Depth:    depth,
		Name:     name,
		Uses:     hdl.NewSignalSet(),
		SigNames: hdl.NewSignalMap[string](),
		IONames:  make(map[*hdl.IOPort]string),
	}
	if parent != nil {
		fi.Path = append(append([]string{}, d.info[parent].Path...), name)
	} else {
		fi.Path = []string{name}
	}

	d.frags = append(d.frags, f)
	d.info[f] = fi

	for i, c := range f.children {
		childName := c.Name
		if childName == "" {
			childName = fmt.Sprintf("U$%d", i)
		}
		d.indexFragment(c.Fragment, f, childName, depth+1)
	}
}

// collectUsage records every signal and IO bundle used by the fragment's own
// statements, domains, memories and instance connections.
func (d *Design) collectUsage(f *Fragment) {
	useValue := func(v hdl.Value) {
		visitValues(v, func(v hdl.Value) {
			if sig, ok := v.(*hdl.Signal); ok {
				d.useSignal(f, sig)
			}
		})
	}

	for _, domain := range f.stmtOrder {
		for _, stmt := range f.stmts[domain] {
			visitStatementValues(stmt, func(v hdl.Value) {
				if sig, ok := v.(*hdl.Signal); ok {
					d.useSignal(f, sig)
				}
			})
			d.recordDrivers(f, domain, stmt)
		}
	}

	// The clock and reset of every domain the fragment assigns in are used by
	// the storage the emitter will infer.
	for _, domain := range f.stmtOrder {
		if domain == hdl.CombDomain {
			continue
		}
		cd := f.lookupDomain(domain)
		d.useSignal(f, cd.Clk)
		if cd.Rst != nil {
			d.useSignal(f, cd.Rst)
		}
	}

	for _, m := range f.memories {
		for _, rp := range m.ReadPorts {
			useValue(rp.Addr)
			if rp.En != nil {
				useValue(rp.En)
			}
			d.useSignal(f, rp.Data)
			d.recordDriver(f, rp.Domain, rp.Data, m.Loc())
			if rp.Domain != hdl.CombDomain {
				cd := f.lookupDomain(rp.Domain)
				d.useSignal(f, cd.Clk)
			}
		}
		for _, wp := range m.WritePorts {
			useValue(wp.Addr)
			useValue(wp.Data)
			useValue(wp.En)
			cd := f.lookupDomain(wp.Domain)
			d.useSignal(f, cd.Clk)
		}
	}

	if inst := f.instance; inst != nil {
		for _, p := range inst.Ports {
			if p.Value != nil {
				useValue(p.Value)
				if p.Dir == hdl.DirOutput {
					for _, sig := range lhsSignals(p.Value) {
						d.recordDriver(f, hdl.CombDomain, sig, f.loc)
					}
				}
			}
			if p.IO != nil {
				d.useIO(f, p.IO)
			}
		}
	}
}

// recordDrivers records the driver of every signal assigned by the statement,
// descending into switch cases.
func (d *Design) recordDrivers(f *Fragment, domain string, stmt hdl.Statement) {
	switch stmt := stmt.(type) {
	case *hdl.Assign:
		for _, sig := range lhsSignals(stmt.LHS) {
			d.recordDriver(f, domain, sig, stmt.Loc())
		}
	case *hdl.Switch:
		for _, cs := range stmt.Cases {
			for _, sub := range cs.Body {
				d.recordDrivers(f, domain, sub)
			}
		}
	}
}

func (d *Design) recordDriver(f *Fragment, domain string, sig *hdl.Signal, loc report.Location) {
	if _, ok := d.drivers.Get(sig); !ok {
		d.drivers.Set(sig, Driver{Fragment: f, Domain: domain, Loc: loc})
	}
}

// lhsSignals returns the signals assigned by an assignable value.
func lhsSignals(v hdl.Value) []*hdl.Signal {
	switch v := v.(type) {
	case *hdl.Signal:
		return []*hdl.Signal{v}
	case *hdl.Slice:
		return lhsSignals(v.Base)
	case *hdl.Part:
		return lhsSignals(v.Base)
	case *hdl.Concat:
		var sigs []*hdl.Signal
		for _, p := range v.Parts {
			sigs = append(sigs, lhsSignals(p)...)
		}
		return sigs
	}

	return nil
}

// -----------------------------------------------------------------------------

// useSignal records a use of sig in fragment f.  If the signal was first seen
// in another fragment, both fragments and every fragment between them and
// their lowest common ancestor are marked as using the signal, so that each
// intermediate hierarchy level can route it; the ancestor becomes the
// signal's new first-seen fragment.
func (d *Design) useSignal(f *Fragment, sig *hdl.Signal) {
	d.info[f].Uses.Add(sig)

	g, ok := d.owner.Get(sig)
	if !ok {
		d.owner.Set(sig, f)
		return
	}
	if g == f {
		return
	}

	for f != g {
		fi, gi := d.info[f], d.info[g]
		if fi.Depth >= gi.Depth {
			fi.Uses.Add(sig)
			f = fi.Parent
		} else {
			gi.Uses.Add(sig)
			g = gi.Parent
		}
	}

	d.info[f].Uses.Add(sig)
	d.owner.Set(sig, f)
}

// useIO records a use of an IO bundle in fragment f and every fragment up to
// the root: IO bundles always surface at the top level.
func (d *Design) useIO(f *Fragment, io *hdl.IOPort) {
	for ; f != nil; f = d.info[f].Parent {
		fi := d.info[f]
		for _, existing := range fi.IOUses {
			if existing == io {
				return
			}
		}
		fi.IOUses = append(fi.IOUses, io)
	}
}

// -----------------------------------------------------------------------------

// resolvePorts validates the port list, infers missing names and directions,
// and makes every port signal visible at the root.
func (d *Design) resolvePorts(ports []Port) {
	seen := map[string]bool{}

	for _, p := range ports {
		if (p.Signal == nil) == (p.IO == nil) {
			report.Raise(report.KindSyntax, report.Location{}, "port must reference exactly one of a signal or an IO bundle")
		}

		name := p.Name
		if name == "" {
			if p.Signal != nil {
				name = p.Signal.Name
			} else {
				name = p.IO.Name
			}
		}
		if seen[name] {
			report.Raise(report.KindName, report.Location{}, "duplicate port name %q", name)
		}
		seen[name] = true

		dir := p.Dir
		switch {
		case p.IO != nil:
			if dir == hdl.DirAuto {
				dir = hdl.DirInout
			}
			d.useIO(d.Root, p.IO)
		default:
			if dir == hdl.DirAuto {
				if _, driven := d.drivers.Get(p.Signal); driven {
					dir = hdl.DirOutput
				} else {
					dir = hdl.DirInput
				}
			}
			d.useSignal(d.Root, p.Signal)
		}

		d.Ports = append(d.Ports, Port{Name: name, Signal: p.Signal, IO: p.IO, Dir: dir})
	}
}

// assignNames gives every signal and IO bundle used in the fragment a name
// unique within the fragment.  At the root the port names are assigned first
// and a port absorbs the slot of the identically-named signal it exposes.
func (d *Design) assignNames(f *Fragment) {
	fi := d.info[f]
	taken := map[string]bool{}

	pick := func(want string) string {
		if want == "" {
			want = "$"
		}
		name := want
		for n := 2; taken[name]; n++ {
			name = fmt.Sprintf("%s$%d", want, n)
		}
		taken[name] = true
		return name
	}

	if f == d.Root {
		for _, p := range d.Ports {
			taken[p.Name] = true
			if p.Signal != nil {
				fi.SigNames.Set(p.Signal, p.Name)
			} else {
				fi.IONames[p.IO] = p.Name
			}
		}
	}

	for _, sig := range fi.Uses.Keys() {
		if _, ok := fi.SigNames.Get(sig); ok {
			continue
		}
		fi.SigNames.Set(sig, pick(sig.Name))
	}

	for _, io := range fi.IOUses {
		if _, ok := fi.IONames[io]; ok {
			continue
		}
		fi.IONames[io] = pick(io.Name)
	}
}

// -----------------------------------------------------------------------------

// Fragments returns every fragment in depth-first declaration order, root
// first.
func (d *Design) Fragments() []*Fragment {
	return d.frags
}

// Info returns the elaboration results for a fragment.
func (d *Design) Info(f *Fragment) *FragInfo {
	return d.info[f]
}

// Owner returns the fragment a signal is owned by: the lowest common ancestor
// of all its uses.
func (d *Design) Owner(sig *hdl.Signal) (*Fragment, bool) {
	return d.owner.Get(sig)
}

// DriverOf returns where a signal is driven, if it is driven at all.
func (d *Design) DriverOf(sig *hdl.Signal) (Driver, bool) {
	return d.drivers.Get(sig)
}

// UsedSignals returns every signal used anywhere in the design, in first-use
// order.
func (d *Design) UsedSignals() []*hdl.Signal {
	return d.owner.Keys()
}
