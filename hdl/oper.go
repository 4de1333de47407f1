package hdl

import (
	"fmt"
	"strings"

	"loom/report"
)

// Operator applies an operation to one or more operand values.  The result
// shape follows a fixed table and is computed at construction time so that
// shape errors surface at the point the expression is built.
type Operator struct {
	// The operator symbol.  Must be one of the enumerated symbols below.
	Op string

	// The operand values.
	Operands []Value

	shape Shape
}

// Enumeration of the operator symbols.
const (
	OpAdd = "+"
	OpSub = "-"
	OpMul = "*"
	OpDiv = "//"
	OpMod = "%"

	OpAnd = "&"
	OpOr  = "|"
	OpXor = "^"

	OpShl = "<<"
	OpShr = ">>"

	OpEq = "=="
	OpNe = "!="
	OpLt = "<"
	OpLe = "<="
	OpGt = ">"
	OpGe = ">="

	OpNeg    = "u-"
	OpInvert = "~"
	OpBool   = "b"

	OpRedOr  = "r|"
	OpRedAnd = "r&"
	OpRedXor = "r^"

	OpAsUnsigned = "u"
	OpAsSigned   = "s"
)

// Op builds an operator expression, computing the result shape per the
// operator table.  Unknown symbols and arity mismatches are internal errors;
// operand shape violations (eg. a signed shift amount) are shape errors.
func Op(op string, operands ...Value) *Operator {
	return &Operator{
		Op:       op,
		Operands: operands,
		shape:    resultShape(op, operands),
	}
}

func (o *Operator) Shape() Shape {
	return o.shape
}

func (o *Operator) String() string {
	strs := make([]string, len(o.Operands))
	for i, v := range o.Operands {
		strs[i] = v.String()
	}

	return fmt.Sprintf("(%s %s)", o.Op, strings.Join(strs, " "))
}

func (o *Operator) AsValue() Value {
	return o
}

// -----------------------------------------------------------------------------

// unify returns the shape able to represent every value of both operand
// shapes, widened by extra bits.  Mixing signed and unsigned costs the
// unsigned operand one extra bit for the sign.
func unify(a, b Shape, extra int) Shape {
	switch {
	case !a.Signed && !b.Signed:
		return Unsigned(imax(a.Width, b.Width) + extra)
	case a.Signed && b.Signed:
		return Signed(imax(a.Width, b.Width) + extra)
	case a.Signed:
		return Signed(imax(a.Width, b.Width+1) + extra)
	default:
		return Signed(imax(a.Width+1, b.Width) + extra)
	}
}

// resultShape computes the result shape of applying op to the operands.
func resultShape(op string, operands []Value) Shape {
	switch op {
	case OpNeg, OpInvert, OpBool, OpRedOr, OpRedAnd, OpRedXor, OpAsUnsigned, OpAsSigned:
		if len(operands) != 1 {
			report.ICE("operator %q takes one operand, got %d", op, len(operands))
		}

		a := operands[0].Shape()
		switch op {
		case OpNeg:
			return Signed(a.Width + 1)
		case OpInvert:
			return a
		case OpAsUnsigned:
			return Unsigned(a.Width)
		case OpAsSigned:
			return Signed(imax(a.Width, 1))
		default: // OpBool and the reductions
			return Unsigned(1)
		}

	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpAnd, OpOr, OpXor, OpShl, OpShr,
		OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		if len(operands) != 2 {
			report.ICE("operator %q takes two operands, got %d", op, len(operands))
		}

		a, b := operands[0].Shape(), operands[1].Shape()
		switch op {
		case OpAdd, OpSub:
			return unify(a, b, 1)
		case OpMul:
			s := Shape{Width: a.Width + b.Width, Signed: a.Signed || b.Signed}
			if s.Signed && s.Width < 1 {
				s.Width = 1
			}
			return s
		case OpDiv:
			w := a.Width
			if b.Signed {
				w++
			}
			if a.Signed || b.Signed {
				return Signed(imax(w, 1))
			}
			return Unsigned(w)
		case OpMod:
			if b.Signed {
				return Signed(imax(b.Width, 1))
			}
			return Unsigned(b.Width)
		case OpAnd, OpOr, OpXor:
			return unify(a, b, 0)
		case OpShl:
			if b.Signed {
				report.Raise(report.KindShape, report.Location{}, "cannot shift by a signed amount %s", b)
			}
			return Shape{Width: a.Width + 1<<b.Width - 1, Signed: a.Signed}
		case OpShr:
			if b.Signed {
				report.Raise(report.KindShape, report.Location{}, "cannot shift by a signed amount %s", b)
			}
			return a
		default: // the comparisons
			return Unsigned(1)
		}
	}

	report.ICE("unknown operator %q", op)
	return Shape{} // unreachable
}

// -----------------------------------------------------------------------------
// Convenience constructors for the operator table.

func Add(a, b Value) *Operator { return Op(OpAdd, a, b) }
func Sub(a, b Value) *Operator { return Op(OpSub, a, b) }
func Mul(a, b Value) *Operator { return Op(OpMul, a, b) }
func Div(a, b Value) *Operator { return Op(OpDiv, a, b) }
func Mod(a, b Value) *Operator { return Op(OpMod, a, b) }

func And(a, b Value) *Operator { return Op(OpAnd, a, b) }
func Or(a, b Value) *Operator  { return Op(OpOr, a, b) }
func Xor(a, b Value) *Operator { return Op(OpXor, a, b) }

func Shl(a, b Value) *Operator { return Op(OpShl, a, b) }
func Shr(a, b Value) *Operator { return Op(OpShr, a, b) }

func Eq(a, b Value) *Operator { return Op(OpEq, a, b) }
func Ne(a, b Value) *Operator { return Op(OpNe, a, b) }
func Lt(a, b Value) *Operator { return Op(OpLt, a, b) }
func Le(a, b Value) *Operator { return Op(OpLe, a, b) }
func Gt(a, b Value) *Operator { return Op(OpGt, a, b) }
func Ge(a, b Value) *Operator { return Op(OpGe, a, b) }

func Neg(a Value) *Operator    { return Op(OpNeg, a) }
func Invert(a Value) *Operator { return Op(OpInvert, a) }

// Bool reduces a value to a single bit that is set iff the value is non-zero.
func Bool(a Value) *Operator { return Op(OpBool, a) }

func RedOr(a Value) *Operator  { return Op(OpRedOr, a) }
func RedAnd(a Value) *Operator { return Op(OpRedAnd, a) }
func RedXor(a Value) *Operator { return Op(OpRedXor, a) }

// AsUnsigned reinterprets the bits of a value as unsigned.
func AsUnsigned(a Value) *Operator { return Op(OpAsUnsigned, a) }

// AsSigned reinterprets the bits of a value as signed.
func AsSigned(a Value) *Operator { return Op(OpAsSigned, a) }

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
