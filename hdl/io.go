package hdl

import (
	"fmt"

	"loom/report"
)

// Direction enumerates port directions.
type Direction int

const (
	// DirAuto lets elaboration infer the direction: driven signals become
	// outputs, all others inputs.
	DirAuto Direction = iota
	DirInput
	DirOutput
	DirInout
)

func (d Direction) String() string {
	switch d {
	case DirInput:
		return "input"
	case DirOutput:
		return "output"
	case DirInout:
		return "inout"
	default:
		return "auto"
	}
}

// IOPort is a top-level bidirectional IO net bundle.  Unlike a Signal, an
// IOPort has no value semantics: it can only be connected to IO buffers and
// instance IO connections and exposed as an inout port of the top module.
type IOPort struct {
	// The name of the port.
	Name string

	// The number of IO nets in the bundle.
	Width int

	loc report.Location
}

// NewIOPort creates an IO port bundle.
func NewIOPort(name string, width int) *IOPort {
	if width < 0 {
		report.Raise(report.KindShape, report.Location{}, "IO port width must be non-negative, not %d", width)
	}

	return &IOPort{Name: name, Width: width, loc: report.CallerLocation(0)}
}

// Loc returns the location the port was created at.
func (p *IOPort) Loc() report.Location {
	return p.loc
}

func (p *IOPort) String() string {
	return fmt.Sprintf("(io %s)", p.Name)
}
