// Package emit lowers a prepared design into a flat netlist: statements
// become assignment-list and decision cells, signals assigned in clocked
// domains become storage cells, and the module hierarchy mirrors the
// fragment hierarchy.
package emit

import (
	"loom/ir"
	"loom/netlist"
	"loom/report"
)

type options struct {
	driverlessRegs bool
}

// Option configures netlist emission.
type Option func(*options)

// WithDriverlessRegisters turns every completely undriven signal into a
// free-running storage cell instead of tying it to its initial value.
// Simulation targets use this so an external testbench can force such
// signals.
func WithDriverlessRegisters() Option {
	return func(o *options) {
		o.driverlessRegs = true
	}
}

// BuildNetlist compiles a prepared design into a netlist named after the
// given top module name.  Emission, late-net resolution, the combinational
// cycle check, and net-flow and port computation run in that fixed order.
func BuildNetlist(d *ir.Design, name string, opts ...Option) (nl *netlist.Netlist, err error) {
	defer report.Catch(&err)

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	e := newEmitter(d, name, o)
	e.emitTop()
	e.emitFragment(d.Root)
	e.finishTop()
	e.finishSignals()

	e.nl.ResolveAllNets()
	checkCombCycles(e.nl)
	computeNetFlows(e.nl)
	e.nameNets()
	e.computePorts()

	return e.nl, nil
}

// Build prepares a fragment tree against a port list and builds its netlist
// in one step.
func Build(root *ir.Fragment, ports []ir.Port, name string, resolver ir.MissingDomainResolver, opts ...Option) (*netlist.Netlist, error) {
	d, err := ir.Prepare(root, ports, resolver)
	if err != nil {
		return nil, err
	}

	return BuildNetlist(d, name, opts...)
}
