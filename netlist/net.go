package netlist

import (
	"fmt"

	"loom/report"
)

// Net is a single bit of the netlist.  It encodes one of: a constant zero or
// one, a late placeholder for a forward reference (negative), or the output
// bit of a cell.  Net identity is stable once ResolveAllNets has run: no late
// nets remain after that point.
type Net int64

const (
	// ConstZero and ConstOne are the two constant nets.
	ConstZero Net = 0
	ConstOne  Net = 1
)

// cellNetBase offsets cell output encodings past the constant nets.
const cellNetBase = 2

// bitShift is the number of bits reserved for the output bit index within a
// cell net encoding.
const bitShift = 16

// CellNet encodes output bit `bit` of cell `cell`.
func CellNet(cell, bit int) Net {
	if bit < 0 || bit >= 1<<bitShift {
		report.ICE("cell output bit %d out of range", bit)
	}

	return Net(int64(cell)<<bitShift|int64(bit)) + cellNetBase
}

// LateNet encodes the late placeholder with the given allocation index.
func LateNet(index int) Net {
	return Net(-1 - int64(index))
}

// IsConst returns whether the net is one of the two constant nets.
func (n Net) IsConst() bool {
	return n == ConstZero || n == ConstOne
}

// ConstBit returns the value of a constant net.
func (n Net) ConstBit() bool {
	return n == ConstOne
}

// IsLate returns whether the net is an unresolved late placeholder.
func (n Net) IsLate() bool {
	return n < 0
}

// LateIndex returns the allocation index of a late net.
func (n Net) LateIndex() int {
	return int(-1 - n)
}

// IsCell returns whether the net is a cell output bit.
func (n Net) IsCell() bool {
	return n >= cellNetBase
}

// CellBit decodes a cell output net into its cell index and bit index.
func (n Net) CellBit() (cell, bit int) {
	raw := int64(n - cellNetBase)
	return int(raw >> bitShift), int(raw & (1<<bitShift - 1))
}

func (n Net) String() string {
	switch {
	case n.IsConst():
		if n.ConstBit() {
			return "1'1"
		}
		return "1'0"
	case n.IsLate():
		return fmt.Sprintf("late$%d", n.LateIndex())
	default:
		cell, bit := n.CellBit()
		return fmt.Sprintf("%d.%d", cell, bit)
	}
}

// -----------------------------------------------------------------------------

// Value is an ordered sequence of nets, least significant first.
type Value []Net

// CellValue returns the full output value of a cell of the given width.
func CellValue(cell, width int) Value {
	v := make(Value, width)
	for i := range v {
		v[i] = CellNet(cell, i)
	}

	return v
}

// ConstValue returns the value of a constant, least significant bit first.
func ConstValue(bits int64, width int) Value {
	v := make(Value, width)
	for i := range v {
		if (bits>>i)&1 != 0 {
			v[i] = ConstOne
		} else {
			v[i] = ConstZero
		}
	}

	return v
}

// IsConst returns whether every net of the value is constant.
func (v Value) IsConst() bool {
	for _, n := range v {
		if !n.IsConst() {
			return false
		}
	}

	return true
}

// ConstBits returns the value of a fully constant Value, zero-extended.
func (v Value) ConstBits() int64 {
	bits := int64(0)
	for i, n := range v {
		if n.ConstBit() {
			bits |= 1 << i
		}
	}

	return bits
}

// Concat appends the given values after v, least significant first.
func (v Value) Concat(others ...Value) Value {
	out := append(Value{}, v...)
	for _, o := range others {
		out = append(out, o...)
	}

	return out
}

func (v Value) String() string {
	if len(v) == 0 {
		return "()"
	}

	s := ""
	for i, n := range v {
		if i > 0 {
			s += " "
		}
		s += n.String()
	}

	return "(" + s + ")"
}
