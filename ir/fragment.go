package ir

import (
	"fmt"

	"loom/hdl"
	"loom/report"
)

// Fragment is a node of the pre-netlist hierarchy: per-domain statement
// lists, the clock domains visible in the fragment, attached memories, and
// child fragments.  A fragment is exclusively owned by the code building it
// until it is elaborated with Prepare, after which it is frozen: any further
// structural mutation fails with a frozen error.
type Fragment struct {
	// Statements per domain name.  Statement order within a domain is
	// semantically significant.
	stmts map[string][]hdl.Statement

	// Domain names in the order first assigned to, for deterministic
	// iteration.
	stmtOrder []string

	// The clock domains visible in this fragment, by name.
	domains     map[string]*hdl.ClockDomain
	domainOrder []string

	// The child fragments in declaration order.  Child names may be empty.
	children []Child

	// The memories attached to this fragment.
	memories []*hdl.Memory

	// A non-nil Instance makes this fragment a foreign instance leaf.
	instance *Instance

	frozen bool

	loc report.Location
}

// Child is one child fragment together with its submodule name.  An empty
// name marks an anonymous child; elaboration assigns it a U$N name.
type Child struct {
	Fragment *Fragment
	Name     string
}

// NewFragment creates a new empty fragment.
func NewFragment() *Fragment {
	return &Fragment{
		stmts:   make(map[string][]hdl.Statement),
		domains: make(map[string]*hdl.ClockDomain),
		loc:     report.CallerLocation(0),
	}
}

// checkMutable raises a frozen error if the fragment has been elaborated.
func (f *Fragment) checkMutable() {
	if f.frozen {
		report.Raise(report.KindFrozen, f.loc, "fragment was frozen by elaboration and can no longer be modified")
	}
}

// AddStatements appends statements to the given domain's statement list.
func (f *Fragment) AddStatements(domain string, stmts ...hdl.Statement) {
	f.checkMutable()

	if _, ok := f.stmts[domain]; !ok {
		f.stmtOrder = append(f.stmtOrder, domain)
	}
	f.stmts[domain] = append(f.stmts[domain], stmts...)
}

// AddDomain defines a clock domain in this fragment.  Defining two distinct
// domains under one name is a name error.
func (f *Fragment) AddDomain(cd *hdl.ClockDomain) {
	f.checkMutable()

	if prev, ok := f.domains[cd.Name]; ok {
		if prev != cd {
			report.Raise(report.KindName, f.loc, "clock domain %q is already defined in this fragment", cd.Name)
		}
		return
	}

	f.domains[cd.Name] = cd
	f.domainOrder = append(f.domainOrder, cd.Name)
}

// AddChild appends a child fragment.  Duplicate non-empty child names are a
// name error.
func (f *Fragment) AddChild(child *Fragment, name string) {
	f.checkMutable()

	if name != "" {
		for _, c := range f.children {
			if c.Name == name {
				report.Raise(report.KindName, f.loc, "submodule name %q is already taken", name)
			}
		}
	}

	f.children = append(f.children, Child{Fragment: child, Name: name})
}

// AddMemory attaches a memory to this fragment.
func (f *Fragment) AddMemory(m *hdl.Memory) {
	f.checkMutable()

	f.memories = append(f.memories, m)
}

// Freeze marks the fragment tree immutable.  Called by Prepare.
func (f *Fragment) Freeze() {
	f.frozen = true
	for _, c := range f.children {
		c.Fragment.Freeze()
	}
}

// Frozen returns whether the fragment has been frozen.
func (f *Fragment) Frozen() bool {
	return f.frozen
}

// -----------------------------------------------------------------------------
// Read-only accessors, usable after freezing.

// StatementDomains returns the domain names with statements, in first-use
// order.
func (f *Fragment) StatementDomains() []string {
	return f.stmtOrder
}

// Statements returns the statement list of the given domain.
func (f *Fragment) Statements(domain string) []hdl.Statement {
	return f.stmts[domain]
}

// DomainNames returns the names of the domains visible in this fragment, in
// definition order.
func (f *Fragment) DomainNames() []string {
	return f.domainOrder
}

// Domain returns the clock domain with the given name, or nil.
func (f *Fragment) Domain(name string) *hdl.ClockDomain {
	return f.domains[name]
}

// Children returns the child fragments in declaration order.
func (f *Fragment) Children() []Child {
	return f.children
}

// Memories returns the memories attached to this fragment.
func (f *Fragment) Memories() []*hdl.Memory {
	return f.memories
}

// -----------------------------------------------------------------------------

// Instance describes a foreign (externally implemented) module instantiated
// as a leaf of the hierarchy.  The netlist emitter lowers it to an instance
// cell; only its port connections participate in elaboration.
type Instance struct {
	// The foreign module type name.
	Type string

	// The instantiation parameters in declaration order.
	Params []InstanceParam

	// The port connections in declaration order.
	Ports []InstancePort
}

// InstanceParam is one named instantiation parameter.
type InstanceParam struct {
	Name  string
	Value interface{} // int64 or string
}

// InstancePort is one named port connection of an instance.
type InstancePort struct {
	Name string

	// Exactly one of Value and IO is set: Value connects a design-level
	// value, IO connects a top-level IO bundle.
	Value hdl.Value
	IO    *hdl.IOPort

	// The direction of the connection as seen from the instance.
	Dir hdl.Direction
}

// NewInstanceFragment creates a leaf fragment wrapping a foreign instance.
func NewInstanceFragment(inst *Instance) *Fragment {
	if inst.Type == "" {
		report.Raise(report.KindName, report.Location{}, "instance must have a type name")
	}
	for _, p := range inst.Ports {
		if p.Dir == hdl.DirAuto {
			report.Raise(report.KindSyntax, report.Location{}, "instance port %q must have an explicit direction", p.Name)
		}
		if (p.Value == nil) == (p.IO == nil) {
			report.Raise(report.KindSyntax, report.Location{}, "instance port %q must connect exactly one of a value or an IO bundle", p.Name)
		}
	}

	f := NewFragment()
	f.instance = inst
	f.loc = report.CallerLocation(0)

	return f
}

// Instance returns the foreign instance wrapped by this fragment, or nil.
func (f *Fragment) Instance() *Instance {
	return f.instance
}

func (f *Fragment) String() string {
	if f.instance != nil {
		return fmt.Sprintf("(instance %s)", f.instance.Type)
	}

	return fmt.Sprintf("(fragment %d children)", len(f.children))
}
