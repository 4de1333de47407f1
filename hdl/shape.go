package hdl

import (
	"fmt"
	"math"
	"math/bits"

	"loom/report"
)

// Shape describes the bit representation of a value: a width in bits and a
// signedness.  Shapes are immutable value types.
type Shape struct {
	// The width of the shape in bits.  Always non-negative.
	Width int

	// Whether values of this shape are interpreted as two's complement signed
	// integers.  Signed shapes always have a width of at least 1.
	Signed bool
}

// Unsigned returns an unsigned shape of the given width.
func Unsigned(width int) Shape {
	if width < 0 {
		report.Raise(report.KindShape, report.Location{}, "unsigned width must be non-negative, not %d", width)
	}

	return Shape{Width: width}
}

// Signed returns a signed shape of the given width.
func Signed(width int) Shape {
	if width < 1 {
		report.Raise(report.KindShape, report.Location{}, "signed width must be at least 1, not %d", width)
	}

	return Shape{Width: width, Signed: true}
}

func (s Shape) String() string {
	if s.Signed {
		return fmt.Sprintf("signed(%d)", s.Width)
	}

	return fmt.Sprintf("unsigned(%d)", s.Width)
}

// AsShape makes Shape its own fixed point under shape casting.
func (s Shape) AsShape() ShapeLike {
	return s
}

// Min returns the smallest value representable in the shape.  Constant
// values are int64, so shapes with more than 64 value bits saturate at the
// int64 range, matching constant normalization.
func (s Shape) Min() int64 {
	if !s.Signed {
		return 0
	}
	if s.Width > 64 {
		return math.MinInt64
	}

	return -1 << (s.Width - 1)
}

// Max returns the largest value representable in the shape, saturating at
// the int64 range like Min.
func (s Shape) Max() int64 {
	w := s.Width
	if s.Signed {
		w--
	}
	if w >= 64 {
		return math.MaxInt64
	}

	return int64(uint64(1)<<w - 1)
}

// -----------------------------------------------------------------------------

// ShapeLike is the capability interface for anything that can be cast to a
// Shape.  The core shapes (Shape, Range, Enum) implement it; external adapter
// types may implement it as well and are resolved by CastShape.
type ShapeLike interface {
	// AsShape returns either the final Shape or another ShapeLike one step
	// closer to it.  CastShape iterates this to a fixed point.
	AsShape() ShapeLike
}

// castDepthLimit bounds the AsShape fixed-point iteration.  Adapter chains in
// practice are one or two conversions deep; hitting the limit means a cycle.
const castDepthLimit = 64

// CastShape casts a shape-like object to a concrete Shape, iterating AsShape
// to a fixed point.  A conversion cycle is a shape error.
func CastShape(sl ShapeLike) Shape {
	for depth := 0; depth < castDepthLimit; depth++ {
		if s, ok := sl.(Shape); ok {
			return s
		}

		next := sl.AsShape()
		if next == nil {
			report.Raise(report.KindShape, report.Location{}, "%v is not castable to a shape", sl)
		}
		sl = next
	}

	report.Raise(report.KindShape, report.Location{}, "shape cast of %v does not terminate", sl)
	return Shape{} // unreachable
}

// ShapeOf returns the shape of a non-negative integer constant: an unsigned
// shape of its bit length.
func ShapeOf(v int64) Shape {
	if v < 0 {
		return ShapeFor(v, v)
	}

	return Unsigned(bitLen(uint64(v)))
}

// ShapeFor returns the minimal shape able to represent every one of the given
// values.  The shape is signed iff any value is negative.
func ShapeFor(values ...int64) Shape {
	if len(values) == 0 {
		return Unsigned(0)
	}

	signed := false
	for _, v := range values {
		if v < 0 {
			signed = true
			break
		}
	}

	width := 0
	for _, v := range values {
		if w := bitsFor(v, signed); w > width {
			width = w
		}
	}

	if signed {
		return Signed(width)
	}
	return Unsigned(width)
}

// Range is a half-open integer range [Start, Stop) usable as a shape: it casts
// to the minimal shape able to represent every element of the range.
type Range struct {
	Start, Stop int64
}

func (r Range) AsShape() ShapeLike {
	// An empty range holds no values at all.
	if r.Start >= r.Stop {
		return Unsigned(0)
	}

	return ShapeFor(r.Start, r.Stop-1)
}

// Enum is an ordered set of named integer constants usable as a shape: it
// casts to the minimal shape able to represent every member value.
type Enum struct {
	// The name of the enumeration, used for diagnostics only.
	Name string

	// The member values in declaration order.
	Values []int64
}

func (e Enum) AsShape() ShapeLike {
	if len(e.Values) == 0 {
		report.Raise(report.KindShape, report.Location{}, "enum %s has no members", e.Name)
	}

	return ShapeFor(e.Values...)
}

// -----------------------------------------------------------------------------

// bitLen returns the number of bits needed to represent v.
func bitLen(v uint64) int {
	return bits.Len64(v)
}

// bitsFor returns the number of bits needed to represent v in the given
// signedness, including the sign bit for signed representations.
func bitsFor(v int64, signed bool) int {
	if v >= 0 {
		n := bitLen(uint64(v))
		if signed {
			n++
		}
		return n
	}

	// Negative values require a signed representation: -2^(n-1) <= v.
	return bitLen(uint64(-v-1)) + 1
}
