package netlist

import (
	"fmt"
	"strings"

	"loom/hdl"
	"loom/report"
)

// Dump renders the netlist as an S-expression. The format is meant for
// debugging and golden-file tests; it is not a stability-guaranteed wire
// format.
func (nl *Netlist) Dump() string {
	d := &dumper{}
	d.line(0, "(netlist")

	for i := range nl.Modules {
		m := &nl.Modules[i]
		d.line(1, "(module %d %d (name %s)", i, m.Parent, strings.Join(m.Name, " "))
		for _, p := range m.Ports {
			d.line(2, "(port %q %s %s)", p.Name, p.Flow, p.Nets)
		}
		d.text(")")
	}

	for i, c := range nl.Cells {
		d.line(1, "(cell %d %d %s)", i, c.ModuleIdx(), dumpCell(c))
	}

	for _, sig := range nl.Signals.Keys() {
		v, _ := nl.Signals.Get(sig)
		d.line(1, "(signal %q %s)", sig.Name, v)
	}
	for i, io := range nl.IOPorts {
		d.line(1, "(io %d %q %d)", i, io.Name, io.Width)
	}

	d.text(")\n")
	return d.sb.String()
}

type dumper struct {
	sb strings.Builder
}

func (d *dumper) line(indent int, format string, args ...interface{}) {
	if d.sb.Len() > 0 {
		d.sb.WriteString("\n")
	}
	d.sb.WriteString(strings.Repeat("  ", indent))
	fmt.Fprintf(&d.sb, format, args...)
}

func (d *dumper) text(s string) {
	d.sb.WriteString(s)
}

// dumpCell renders the cell-specific part of a cell line.
func dumpCell(c Cell) string {
	switch c := c.(type) {
	case *TopCell:
		parts := make([]string, 0, len(c.Ports)+1)
		parts = append(parts, "top")
		for _, p := range c.Ports {
			if p.Dir == hdl.DirInput {
				parts = append(parts, fmt.Sprintf("(input %q %d %d)", p.Name, p.Start, p.Width))
			} else {
				parts = append(parts, fmt.Sprintf("(%s %q %s)", p.Dir, p.Name, p.Value))
			}
		}
		return strings.Join(parts, " ")

	case *OperatorCell:
		ops := make([]string, len(c.Operands))
		for i, o := range c.Operands {
			ops[i] = o.String()
		}
		sign := ""
		if c.Signed {
			sign = " signed"
		}
		return fmt.Sprintf("(%s%s %s)", c.Op, sign, strings.Join(ops, " "))

	case *PartSelectCell:
		return fmt.Sprintf("(part %s %s %d %d)", c.Input, c.Offset, c.Stride, c.Width)

	case *MuxCell:
		return fmt.Sprintf("(mux %s %s %s)", c.Sel, c.A, c.B)

	case *MatchCell:
		groups := make([]string, len(c.Groups))
		for i, g := range c.Groups {
			groups[i] = "(" + strings.Join(g, " ") + ")"
		}
		return fmt.Sprintf("(match %s %s %s)", c.En, c.Test, strings.Join(groups, " "))

	case *PriorityMatchCell:
		return fmt.Sprintf("(priority-match %s)", c.Input)

	case *AssignmentListCell:
		name := "$value"
		if c.Signal != nil {
			name = c.Signal.Name
		}
		sb := strings.Builder{}
		fmt.Fprintf(&sb, "(assignment-list %q %s", name, c.Default)
		for _, a := range c.Assignments {
			fmt.Fprintf(&sb, " (%s %d %s)", a.Cond, a.Start, a.Value)
		}
		sb.WriteString(")")
		return sb.String()

	case *FlipFlopCell:
		arst := ""
		if c.HasArst {
			arst = fmt.Sprintf(" (arst %s)", c.Arst)
		}
		return fmt.Sprintf("(flipflop %s (clk %s %s)%s (init %s))", c.Data, c.Clk, edgeName(c.NegEdge), arst, c.Init)

	case *MemoryCell:
		return fmt.Sprintf("(memory %q %d %d)", c.Name, c.Width, c.Depth)

	case *MemoryReadPortCell:
		if c.Sync {
			return fmt.Sprintf("(read-port %d %s (en %s) (clk %s %s))", c.Memory, c.Addr, c.En, c.Clk, edgeName(c.NegEdge))
		}
		return fmt.Sprintf("(read-port %d %s comb)", c.Memory, c.Addr)

	case *MemoryWritePortCell:
		return fmt.Sprintf("(write-port %d %s %s (en %s) (clk %s %s))", c.Memory, c.Addr, c.Data, c.En, c.Clk, edgeName(c.NegEdge))

	case *InstanceCell:
		sb := strings.Builder{}
		fmt.Fprintf(&sb, "(instance %q %q", c.Type, c.Name)
		for _, p := range c.Params {
			fmt.Fprintf(&sb, " (param %q %v)", p.Name, p.Value)
		}
		for _, p := range c.PortsIn {
			fmt.Fprintf(&sb, " (in %q %s)", p.Name, p.Value)
		}
		for _, p := range c.PortsOut {
			fmt.Fprintf(&sb, " (out %q %d %d)", p.Name, p.Start, p.Width)
		}
		for _, p := range c.PortsIO {
			fmt.Fprintf(&sb, " (io %q %d)", p.Name, p.IO)
		}
		sb.WriteString(")")
		return sb.String()

	case *IOBufferCell:
		if c.HasO {
			return fmt.Sprintf("(io-buffer %d (o %s) (oe %s))", c.IO, c.O, c.OE)
		}
		return fmt.Sprintf("(io-buffer %d)", c.IO)

	case *PrintCell:
		return fmt.Sprintf("(print (en %s)%s %s)", c.En, dumpTrigger(c.Clocked, c.Clk, c.NegEdge), dumpFormat(c.Format))

	case *PropertyCell:
		return fmt.Sprintf("(%s (en %s) (test %s)%s)", c.Kind, c.En, c.Test, dumpTrigger(c.Clocked, c.Clk, c.NegEdge))

	default:
		report.ICE("unknown cell %T", c)
		return "" // unreachable
	}
}

func edgeName(neg bool) string {
	if neg {
		return "neg"
	}
	return "pos"
}

func dumpTrigger(clocked bool, clk Net, neg bool) string {
	if !clocked {
		return ""
	}
	return fmt.Sprintf(" (clk %s %s)", clk, edgeName(neg))
}

func dumpFormat(chunks []FormatChunk) string {
	parts := make([]string, len(chunks))
	for i, ch := range chunks {
		if ch.Value == nil {
			parts[i] = fmt.Sprintf("%q", ch.Literal)
		} else {
			parts[i] = fmt.Sprintf("(%s %s)", ch.Verb, ch.Value)
		}
	}
	return "(format " + strings.Join(parts, " ") + ")"
}
