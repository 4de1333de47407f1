package netlist

// Flow classifies the visibility of a net within one module of the
// hierarchy.
type Flow int

const (
	// FlowInternal: the net is defined and fully consumed within the
	// module's subtree.
	FlowInternal Flow = iota

	// FlowInput: the net is consumed but not defined within the subtree.
	FlowInput

	// FlowOutput: the net is defined within the subtree and consumed outside
	// it.
	FlowOutput

	// FlowInout: the net belongs to a designated top-level bidirectional IO
	// bundle.
	FlowInout
)

func (f Flow) String() string {
	switch f {
	case FlowInternal:
		return "internal"
	case FlowInput:
		return "input"
	case FlowOutput:
		return "output"
	default:
		return "inout"
	}
}

// ModulePort is a named port of a module: a maximal run of adjacent same-flow
// nets coalesced under one name.
type ModulePort struct {
	Name string
	Nets Value
	Flow Flow
}

// Module is one node of the netlist hierarchy.  The module tree is isomorphic
// to the design's fragment tree.
type Module struct {
	// The index of the parent module; -1 for the top module.
	Parent int

	// The hierarchical name path, starting at the top module's name.
	Name []string

	// The indices of this module's submodules.
	Submodules []int

	// The indices of the cells scoped to this module.
	Cells []int

	// The flow of every net visible in this module.  Populated by the
	// net-flow computation.
	Flows map[Net]Flow

	// The named port table.  Populated by port computation from Flows.
	Ports []ModulePort

	// Local names for nets routed through this module, borrowed from the
	// design-level signal names.  Used to name ports.
	netNames map[Net]string
}

// NameNet records a local name for the first bit of a routed value; port
// computation prefers these names over synthesized ones.
func (m *Module) NameNet(n Net, name string) {
	if m.netNames == nil {
		m.netNames = make(map[Net]string)
	}
	if _, ok := m.netNames[n]; !ok {
		m.netNames[n] = name
	}
}

// NetName returns the local name recorded for a net, if any.
func (m *Module) NetName(n Net) (string, bool) {
	name, ok := m.netNames[n]
	return name, ok
}
