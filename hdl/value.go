package hdl

import (
	"fmt"
	"strings"

	"loom/report"
)

// Value is the interface implemented by every expression node.  The node set
// is closed: a Value is always one of *Const, *Signal, *Operator, *Slice,
// *Part, *Concat, *SwitchValue, *ClockSignal or *ResetSignal.  Expression
// nodes are immutable once built and may be freely shared, forming a DAG;
// the netlist emitter caches compilations by node identity.
type Value interface {
	// Shape returns the shape of the value, computed purely from the shapes
	// of its operands.
	Shape() Shape

	fmt.Stringer
}

// ValueLike is the capability interface for external adapter types that can
// be converted to a Value.
type ValueLike interface {
	AsValue() Value
}

// CastValue converts a value-like object to a Value.
func CastValue(vl ValueLike) Value {
	v := vl.AsValue()
	if v == nil {
		report.Raise(report.KindShape, report.Location{}, "%v is not castable to a value", vl)
	}

	return v
}

// -----------------------------------------------------------------------------

// Const is a constant value normalized into its shape.
type Const struct {
	value int64
	shape Shape
}

// C builds a constant.  With no explicit shape the minimal shape of the value
// is inferred; otherwise the value is truncated or sign-extended into the
// given shape, two's complement.
func C(value int64, shape ...ShapeLike) *Const {
	var s Shape
	if len(shape) > 0 {
		s = CastShape(shape[0])
	} else {
		s = ShapeFor(value)
	}

	return &Const{value: normalize(value, s), shape: s}
}

// normalize truncates v to the width of s and reinterprets the result
// according to the signedness of s.
func normalize(v int64, s Shape) int64 {
	if s.Width == 0 {
		return 0
	}
	if s.Width >= 64 {
		return v
	}

	u := uint64(v) & (1<<s.Width - 1)
	if s.Signed && u&(1<<(s.Width-1)) != 0 {
		return int64(u) - 1<<s.Width
	}

	return int64(u)
}

// Value returns the constant's value as normalized into its shape.
func (c *Const) Value() int64 {
	return c.value
}

func (c *Const) Shape() Shape {
	return c.shape
}

func (c *Const) String() string {
	return fmt.Sprintf("(const %d'%s%d)", c.shape.Width, map[bool]string{true: "sd", false: "d"}[c.shape.Signed], c.value)
}

func (c *Const) AsValue() Value {
	return c
}

// Bit returns bit i of the constant's two's complement representation.
func (c *Const) Bit(i int) bool {
	return (c.value>>i)&1 != 0
}

// -----------------------------------------------------------------------------

// Slice selects the constant-offset bit range [Start, Stop) of a value.  The
// result is always unsigned.
type Slice struct {
	Base        Value
	Start, Stop int
}

// NewSlice slices value down to the half-open bit range [start, stop).
// Negative indices are normalized relative to the end of the value and
// out-of-range endpoints are clamped; start must not exceed stop after
// normalization.
func NewSlice(v Value, start, stop int) *Slice {
	width := v.Shape().Width

	if start < 0 {
		start += width
	}
	if stop < 0 {
		stop += width
	}
	start = clamp(start, 0, width)
	stop = clamp(stop, 0, width)

	if start > stop {
		report.Raise(report.KindSyntax, report.Location{}, "slice start %d is greater than slice stop %d", start, stop)
	}

	return &Slice{Base: v, Start: start, Stop: stop}
}

// Bit selects the single bit i of a value.
func Bit(v Value, i int) *Slice {
	width := v.Shape().Width
	if i < 0 {
		i += width
	}
	if i < 0 || i >= width {
		report.Raise(report.KindSyntax, report.Location{}, "bit index %d is out of range for width %d", i, width)
	}

	return NewSlice(v, i, i+1)
}

// Bits selects the strided bit range [start, stop) of a value.  A non-unit
// stride lowers to a concatenation of unit slices.
func Bits(v Value, start, stop, stride int) Value {
	if stride < 1 {
		report.Raise(report.KindSyntax, report.Location{}, "slice stride must be positive, not %d", stride)
	}
	if stride == 1 {
		return NewSlice(v, start, stop)
	}

	width := v.Shape().Width
	if start < 0 {
		start += width
	}
	if stop < 0 {
		stop += width
	}
	start = clamp(start, 0, width)
	stop = clamp(stop, 0, width)
	if start > stop {
		report.Raise(report.KindSyntax, report.Location{}, "slice start %d is greater than slice stop %d", start, stop)
	}

	parts := []Value{}
	for i := start; i < stop; i += stride {
		parts = append(parts, NewSlice(v, i, i+1))
	}

	return Cat(parts...)
}

func (s *Slice) Shape() Shape {
	return Unsigned(s.Stop - s.Start)
}

func (s *Slice) String() string {
	return fmt.Sprintf("(slice %s %d:%d)", s.Base, s.Start, s.Stop)
}

func (s *Slice) AsValue() Value {
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// -----------------------------------------------------------------------------

// Part selects a variable-offset bit range of a value: Width bits starting at
// bit Offset*Stride.  The result is always unsigned.
type Part struct {
	Base   Value
	Offset Value
	Width  int
	Stride int
}

// NewPart builds a variable part select.  The offset must be unsigned.
func NewPart(v Value, offset Value, width, stride int) *Part {
	if offset.Shape().Signed {
		report.Raise(report.KindShape, report.Location{}, "part select offset must be unsigned, not %s", offset.Shape())
	}
	if width < 0 {
		report.Raise(report.KindShape, report.Location{}, "part select width must be non-negative, not %d", width)
	}
	if stride < 1 {
		report.Raise(report.KindShape, report.Location{}, "part select stride must be positive, not %d", stride)
	}

	return &Part{Base: v, Offset: offset, Width: width, Stride: stride}
}

func (p *Part) Shape() Shape {
	return Unsigned(p.Width)
}

func (p *Part) String() string {
	return fmt.Sprintf("(part %s %s %d %d)", p.Base, p.Offset, p.Width, p.Stride)
}

func (p *Part) AsValue() Value {
	return p
}

// -----------------------------------------------------------------------------

// Concat concatenates values, the first part occupying the least significant
// bits.  The result is always unsigned.
type Concat struct {
	Parts []Value
}

// Cat concatenates the given values, first value least significant.
func Cat(parts ...Value) *Concat {
	return &Concat{Parts: parts}
}

func (c *Concat) Shape() Shape {
	width := 0
	for _, p := range c.Parts {
		width += p.Shape().Width
	}

	return Unsigned(width)
}

func (c *Concat) String() string {
	strs := make([]string, len(c.Parts))
	for i, p := range c.Parts {
		strs[i] = p.String()
	}

	return fmt.Sprintf("(cat %s)", strings.Join(strs, " "))
}

func (c *Concat) AsValue() Value {
	return c
}

// -----------------------------------------------------------------------------

// SwitchValue is a multi-way select: the value of the first case whose
// pattern set matches the test value, in declaration order.
type SwitchValue struct {
	Test  Value
	Cases []ValueCase
}

// ValueCase is one alternative of a SwitchValue.  A nil pattern set is the
// default case.
type ValueCase struct {
	Patterns []Pattern
	Value    Value
}

// Mux builds a two-way select: a if sel is non-zero, else b.
func Mux(sel, a, b Value) *SwitchValue {
	return &SwitchValue{
		Test: Bool(sel),
		Cases: []ValueCase{
			{Patterns: []Pattern{MustParsePattern("0", 1)}, Value: b},
			{Patterns: nil, Value: a},
		},
	}
}

func (sv *SwitchValue) Shape() Shape {
	// The result shape unifies all case values like a chain of two-way
	// selections would.
	shape := Unsigned(0)
	for _, cs := range sv.Cases {
		shape = unify(shape, cs.Value.Shape(), 0)
	}

	return shape
}

func (sv *SwitchValue) String() string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "(switch-value %s", sv.Test)
	for _, cs := range sv.Cases {
		if cs.Patterns == nil {
			fmt.Fprintf(&sb, " (default %s)", cs.Value)
		} else {
			pats := make([]string, len(cs.Patterns))
			for i, p := range cs.Patterns {
				pats[i] = p.String()
			}
			fmt.Fprintf(&sb, " (case (%s) %s)", strings.Join(pats, " "), cs.Value)
		}
	}
	sb.WriteString(")")

	return sb.String()
}

func (sv *SwitchValue) AsValue() Value {
	return sv
}

// -----------------------------------------------------------------------------

// ClockSignal stands for the clock of a named domain.  It is a placeholder:
// domain propagation replaces it with the domain's concrete clock signal
// before any statement reaches the netlist emitter.
type ClockSignal struct {
	// The name of the clock domain.
	Domain string
}

func (cs *ClockSignal) Shape() Shape {
	return Unsigned(1)
}

func (cs *ClockSignal) String() string {
	return fmt.Sprintf("(clk %s)", cs.Domain)
}

func (cs *ClockSignal) AsValue() Value {
	return cs
}

// ResetSignal stands for the reset of a named domain. Like ClockSignal it is
// resolved to a concrete signal during domain propagation; requesting the
// reset of a reset-less domain is a domain error at that point.
type ResetSignal struct {
	// The name of the clock domain.
	Domain string
}

func (rs *ResetSignal) Shape() Shape {
	return Unsigned(1)
}

func (rs *ResetSignal) String() string {
	return fmt.Sprintf("(rst %s)", rs.Domain)
}

func (rs *ResetSignal) AsValue() Value {
	return rs
}
