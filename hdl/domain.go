package hdl

import "loom/report"

// Edge enumerates clock edge polarities.
type Edge int

const (
	EdgePos Edge = iota
	EdgeNeg
)

func (e Edge) String() string {
	if e == EdgeNeg {
		return "neg"
	}

	return "pos"
}

// ResetStyle enumerates how a clock domain is reset.
type ResetStyle int

const (
	ResetSync ResetStyle = iota
	ResetAsync
	ResetNone
)

// DomainConfig configures a new clock domain.  The zero value is a
// positive-edge domain with a synchronous reset.
type DomainConfig struct {
	Edge  Edge
	Reset ResetStyle

	// Local marks a domain that is not propagated to descendant fragments.
	Local bool
}

// ClockDomain is a named clock with an optional reset.  Every signal assigned
// in a named domain becomes a register clocked by it.  The domain's identity
// is the struct itself; its name and signals can be renamed in place by
// domain-renaming transforms.
type ClockDomain struct {
	// The name of the domain.  "comb" is reserved for combinational logic.
	Name string

	// The clock signal, always 1 bit.
	Clk *Signal

	// The reset signal, or nil for a reset-less domain.
	Rst *Signal

	// The active clock edge.
	ClkEdge Edge

	// Whether the reset is asynchronous.
	AsyncReset bool

	// Whether the domain is local to the fragment that defines it.
	Local bool
}

// CombDomain is the reserved name of the combinational pseudo-domain.
const CombDomain = "comb"

// NewClockDomain creates a clock domain with a fresh clock signal (and reset
// signal unless the config disables it) allocated from the arena.
func NewClockDomain(a *Arena, name string, cfg DomainConfig) *ClockDomain {
	if name == CombDomain {
		report.Raise(report.KindDomain, report.Location{}, "clock domain name %q is reserved", name)
	}
	if name == "" {
		report.Raise(report.KindDomain, report.Location{}, "clock domain must have a name")
	}

	cd := &ClockDomain{
		Name:       name,
		Clk:        a.Signal(Unsigned(1), name+"_clk"),
		ClkEdge:    cfg.Edge,
		AsyncReset: cfg.Reset == ResetAsync,
		Local:      cfg.Local,
	}
	if cfg.Reset != ResetNone {
		cd.Rst = a.Signal(Unsigned(1), name+"_rst")
	}

	return cd
}

// Rename renames the domain and its clock and reset signals in place.
func (cd *ClockDomain) Rename(name string) {
	if name == CombDomain {
		report.Raise(report.KindDomain, report.Location{}, "clock domain name %q is reserved", name)
	}

	cd.Name = name
	cd.Clk.Name = name + "_clk"
	if cd.Rst != nil {
		cd.Rst.Name = name + "_rst"
	}
}
