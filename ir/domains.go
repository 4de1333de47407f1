package ir

import (
	"sort"

	"loom/hdl"
	"loom/report"
)

// MissingDomainResolver supplies a clock domain for a domain name that is
// referenced somewhere in the fragment tree but defined nowhere.  Returning
// nil declines to resolve the domain, which is a domain error.
type MissingDomainResolver func(name string) *hdl.ClockDomain

// resolveDomains closes the fragment tree over clock domains: defined domains
// are propagated to all descendants first, then the resolver is invoked once
// per missing domain name and propagation repeats until no domain is missing.
func resolveDomains(root *Fragment, resolver MissingDomainResolver, propagate bool) {
	resolved := map[string]bool{}

	for {
		if propagate {
			propagateDown(root)
		}

		missing := map[string]bool{}
		collectMissing(root, missing)
		if len(missing) == 0 {
			return
		}

		// Deterministic resolution order.
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if resolved[name] {
				// The resolver already supplied this domain; if it is still
				// missing, propagation is off and cannot close the tree.
				report.Raise(report.KindDomain, root.loc, "domain %q remains missing after resolution", name)
			}

			var cd *hdl.ClockDomain
			if resolver != nil {
				cd = resolver(name)
			}
			if cd == nil {
				report.Raise(report.KindDomain, root.loc, "domain %q is used but not defined", name)
			}
			if cd.Name != name {
				report.Raise(report.KindDomain, root.loc, "resolver returned domain %q for missing domain %q", cd.Name, name)
			}

			root.AddDomain(cd)
			resolved[name] = true
		}
	}
}

// propagateDown copies every non-local domain of f into its descendants.  A
// child's own definition under the same name shadows the parent's within the
// child's subtree.
func propagateDown(f *Fragment) {
	for _, c := range f.children {
		for _, name := range f.domainOrder {
			cd := f.domains[name]
			if cd.Local {
				continue
			}
			if _, ok := c.Fragment.domains[name]; ok {
				continue
			}

			c.Fragment.domains[name] = cd
			c.Fragment.domainOrder = append(c.Fragment.domainOrder, name)
		}

		propagateDown(c.Fragment)
	}
}

// collectMissing records every domain name referenced in a fragment where the
// fragment's domain map does not define it.
func collectMissing(f *Fragment, missing map[string]bool) {
	ref := map[string]bool{}

	for _, domain := range f.stmtOrder {
		if domain != hdl.CombDomain {
			ref[domain] = true
		}
		for _, stmt := range f.stmts[domain] {
			visitStatementValues(stmt, func(v hdl.Value) {
				switch v := v.(type) {
				case *hdl.ClockSignal:
					ref[v.Domain] = true
				case *hdl.ResetSignal:
					ref[v.Domain] = true
				}
			})
		}
	}

	for _, m := range f.memories {
		for _, rp := range m.ReadPorts {
			if rp.Domain != hdl.CombDomain {
				ref[rp.Domain] = true
			}
		}
		for _, wp := range m.WritePorts {
			ref[wp.Domain] = true
		}
	}

	for name := range ref {
		if _, ok := f.domains[name]; !ok {
			missing[name] = true
		}
	}

	for _, c := range f.children {
		collectMissing(c.Fragment, missing)
	}
}

// resolvePlaceholders replaces every ClockSignal and ResetSignal reference in
// the tree with the concrete clock or reset signal of the named domain.
func resolvePlaceholders(f *Fragment) {
	xf := func(v hdl.Value) (hdl.Value, bool) {
		switch v := v.(type) {
		case *hdl.ClockSignal:
			return f.lookupDomain(v.Domain).Clk, true
		case *hdl.ResetSignal:
			cd := f.lookupDomain(v.Domain)
			if cd.Rst == nil {
				report.Raise(report.KindDomain, f.loc, "domain %q is reset-less and has no reset signal", v.Domain)
			}
			return cd.Rst, true
		}
		return nil, false
	}

	for _, domain := range f.stmtOrder {
		f.stmts[domain] = RewriteStatements(f.stmts[domain], xf)
	}

	for _, m := range f.memories {
		for _, rp := range m.ReadPorts {
			rp.Addr = RewriteValue(rp.Addr, xf)
			if rp.En != nil {
				rp.En = RewriteValue(rp.En, xf)
			}
		}
		for _, wp := range m.WritePorts {
			wp.Addr = RewriteValue(wp.Addr, xf)
			wp.Data = RewriteValue(wp.Data, xf)
			wp.En = RewriteValue(wp.En, xf)
		}
	}

	if f.instance != nil {
		for i := range f.instance.Ports {
			if f.instance.Ports[i].Value != nil {
				f.instance.Ports[i].Value = RewriteValue(f.instance.Ports[i].Value, xf)
			}
		}
	}

	for _, c := range f.children {
		resolvePlaceholders(c.Fragment)
	}
}

// lookupDomain returns the named domain visible in the fragment; domain
// resolution guarantees it exists.
func (f *Fragment) lookupDomain(name string) *hdl.ClockDomain {
	cd := f.domains[name]
	if cd == nil {
		report.Raise(report.KindDomain, f.loc, "domain %q is used but not defined", name)
	}

	return cd
}

// -----------------------------------------------------------------------------

// visitValues calls fn for every node of an expression, top-down.
func visitValues(v hdl.Value, fn func(hdl.Value)) {
	RewriteValue(v, func(v hdl.Value) (hdl.Value, bool) {
		fn(v)
		return nil, false
	})
}

// visitStatementValues calls fn for every value node referenced by a
// statement, including switch tests and case bodies.
func visitStatementValues(stmt hdl.Statement, fn func(hdl.Value)) {
	RewriteStatements([]hdl.Statement{stmt}, func(v hdl.Value) (hdl.Value, bool) {
		fn(v)
		return nil, false
	})
}
