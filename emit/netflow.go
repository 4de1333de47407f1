package emit

import (
	"fmt"
	"sort"

	"loom/netlist"
	"loom/report"
)

// checkCombCycles verifies that no net is defined in terms of itself without
// a storage element breaking the loop.  Only combinational cells can form
// such a cycle: sequential cells declare their outputs free of combinational
// dependency on their inputs.
func checkCombCycles(nl *netlist.Netlist) {
	const (
		white = iota
		grey
		black
	)
	state := make([]byte, len(nl.Cells))

	var visit func(i int)
	visit = func(i int) {
		switch state[i] {
		case grey:
			report.Raise(report.KindCycle, nl.Cells[i].Loc(),
				"combinational cycle through cell %d with no storage element breaking it", i)
		case black:
			return
		}

		state[i] = grey
		nl.Cells[i].VisitNets(func(n *netlist.Net) {
			if !n.IsCell() {
				return
			}
			j, _ := n.CellBit()
			if !nl.Cells[j].Sequential() {
				visit(j)
			}
		})
		state[i] = black
	}

	for i, c := range nl.Cells {
		if !c.Sequential() {
			visit(i)
		}
	}
}

// -----------------------------------------------------------------------------

// computeNetFlows classifies the visibility of every net per module: a net is
// Internal in the lowest common ancestor of its definition and all its uses,
// Output in every module below that ancestor on the definition side, and
// Input in every module a use enters from outside.  Each use walks the use
// module and the net's current ancestor upward in lock-step, the same way
// signal usage propagates over the fragment tree.
func computeNetFlows(nl *netlist.Netlist) {
	parent := make([]int, len(nl.Modules))
	depth := make([]int, len(nl.Modules))
	for i := range nl.Modules {
		parent[i] = nl.Modules[i].Parent
		if parent[i] >= 0 {
			depth[i] = depth[parent[i]] + 1
		}
		nl.Modules[i].Flows = map[netlist.Net]netlist.Flow{}
	}

	owner := map[netlist.Net]int{}

	use := func(n netlist.Net, m int) {
		if !n.IsCell() {
			return
		}

		g, ok := owner[n]
		if !ok {
			cell, _ := n.CellBit()
			g = nl.Cells[cell].ModuleIdx()
			nl.Modules[g].Flows[n] = netlist.FlowInternal
			owner[n] = g
		}

		// Already connected through this module: the whole path to the
		// current ancestor is marked.
		if _, ok := nl.Modules[m].Flows[n]; ok {
			return
		}

		f := m
		for f != g {
			if depth[f] >= depth[g] {
				if _, ok := nl.Modules[f].Flows[n]; !ok {
					nl.Modules[f].Flows[n] = netlist.FlowInput
				}
				f = parent[f]
			} else {
				nl.Modules[g].Flows[n] = netlist.FlowOutput
				g = parent[g]
			}
		}

		if _, ok := nl.Modules[f].Flows[n]; !ok {
			nl.Modules[f].Flows[n] = netlist.FlowInternal
		}
		owner[n] = f
	}

	for _, c := range nl.Cells {
		m := c.ModuleIdx()
		c.VisitNets(func(n *netlist.Net) {
			use(*n, m)
		})
	}
}

// -----------------------------------------------------------------------------

// computePorts builds each non-top module's port table from its net flows:
// whole routed signals become ports under their local names first, then any
// leftover flow nets coalesce into ports along runs of adjacent cell output
// bits, named after the run's first net.
func (e *emitter) computePorts() {
	for mi := 1; mi < len(e.nl.Modules); mi++ {
		m := &e.nl.Modules[mi]
		covered := map[netlist.Net]bool{}

		fi := e.d.Info(e.fragOf[mi])
		for _, sig := range fi.Uses.Keys() {
			v, ok := e.nl.Signals.Get(sig)
			if !ok || len(v) == 0 {
				continue
			}

			flow, ok := m.Flows[v[0]]
			if !ok || flow == netlist.FlowInternal {
				continue
			}
			if !uniformFlow(m, v, flow, covered) {
				continue
			}

			name, _ := fi.SigNames.Get(sig)
			m.Ports = append(m.Ports, netlist.ModulePort{Name: name, Nets: append(netlist.Value{}, v...), Flow: flow})
			for _, n := range v {
				covered[n] = true
			}
		}

		// Leftover flow nets, in deterministic net order.
		var rest []netlist.Net
		for n, flow := range m.Flows {
			if flow != netlist.FlowInternal && !covered[n] {
				rest = append(rest, n)
			}
		}
		sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })

		for len(rest) > 0 {
			run := netlist.Value{rest[0]}
			flow := m.Flows[rest[0]]
			k := 1
			for ; k < len(rest); k++ {
				if rest[k] != rest[k-1]+1 || m.Flows[rest[k]] != flow {
					break
				}
				cell, bit := rest[k].CellBit()
				prevCell, _ := rest[k-1].CellBit()
				if cell != prevCell || bit == 0 {
					break
				}
				run = append(run, rest[k])
			}
			rest = rest[k:]

			name, ok := m.NetName(run[0])
			if !ok {
				cell, bit := run[0].CellBit()
				name = fmt.Sprintf("port$%d$%d", cell, bit)
			}
			m.Ports = append(m.Ports, netlist.ModulePort{Name: name, Nets: run, Flow: flow})
		}
	}
}

// uniformFlow reports whether every net of a value has the given flow in the
// module and none of it is already part of a port.
func uniformFlow(m *netlist.Module, v netlist.Value, flow netlist.Flow, covered map[netlist.Net]bool) bool {
	for _, n := range v {
		if covered[n] {
			return false
		}
		if f, ok := m.Flows[n]; !ok || f != flow {
			return false
		}
	}

	return true
}
