package emit

import (
	"loom/hdl"
	"loom/netlist"
	"loom/report"
)

// compileValue lowers an expression into the nets carrying it, emitting
// computation cells as needed.  Results are cached by expression-node
// identity per module, so shared subexpressions lower to shared cells.
func (e *emitter) compileValue(m int, v hdl.Value) netlist.Value {
	key := valueKey{module: m, node: v}
	if cv, ok := e.cache[key]; ok {
		return cv
	}

	cv := e.lowerValue(m, v)
	e.cache[key] = cv
	return cv
}

func (e *emitter) lowerValue(m int, v hdl.Value) netlist.Value {
	switch v := v.(type) {
	case *hdl.Const:
		return netlist.ConstValue(v.Value(), v.Shape().Width)

	case *hdl.Signal:
		return e.signalValue(v)

	case *hdl.Slice:
		base := e.compileValue(m, v.Base)
		return append(netlist.Value{}, base[v.Start:v.Stop]...)

	case *hdl.Part:
		_, out := e.nl.AddCell(&netlist.PartSelectCell{
			CellBase: cb(m, report.Location{}),
			Input:    e.compileValue(m, v.Base),
			Offset:   e.compileValue(m, v.Offset),
			Stride:   v.Stride,
			Width:    v.Width,
		})
		return out

	case *hdl.Concat:
		out := netlist.Value{}
		for _, p := range v.Parts {
			out = append(out, e.compileValue(m, p)...)
		}
		return out

	case *hdl.Operator:
		return e.lowerOperator(m, v)

	case *hdl.SwitchValue:
		return e.lowerSwitch(m, v)

	default:
		report.ICE("unresolved value %T reached emission", v)
		return nil
	}
}

// lowerOperator extends the operands to the width the operator table
// computed and emits the computation cell.
func (e *emitter) lowerOperator(m int, v *hdl.Operator) netlist.Value {
	sh := v.Shape()
	w := sh.Width

	newCell := func(signed bool, width int, operands ...netlist.Value) netlist.Value {
		_, out := e.nl.AddCell(&netlist.OperatorCell{
			CellBase: cb(m, report.Location{}),
			Op:       v.Op,
			Operands: operands,
			Signed:   signed,
			Width:    width,
		})
		return out
	}

	switch v.Op {
	case hdl.OpAsUnsigned, hdl.OpAsSigned:
		// Pure reinterpretation: no cell, just the operand's nets.
		a := v.Operands[0]
		return e.extend(e.compileValue(m, a), a.Shape(), w)

	case hdl.OpBool, hdl.OpRedOr, hdl.OpRedAnd, hdl.OpRedXor:
		return newCell(false, 1, e.compileValue(m, v.Operands[0]))

	case hdl.OpNeg, hdl.OpInvert:
		a := v.Operands[0]
		return newCell(sh.Signed, w, e.extend(e.compileValue(m, a), a.Shape(), w))

	case hdl.OpShl, hdl.OpShr:
		a, b := v.Operands[0], v.Operands[1]
		return newCell(a.Shape().Signed, w,
			e.extend(e.compileValue(m, a), a.Shape(), w),
			e.compileValue(m, b))

	case hdl.OpEq, hdl.OpNe, hdl.OpLt, hdl.OpLe, hdl.OpGt, hdl.OpGe:
		a, b := v.Operands[0], v.Operands[1]
		uw, signed := comparisonWidth(a.Shape(), b.Shape())
		return newCell(signed, 1,
			e.extend(e.compileValue(m, a), a.Shape(), uw),
			e.extend(e.compileValue(m, b), b.Shape(), uw))

	default:
		// The remaining binary operators compute at the result width.
		a, b := v.Operands[0], v.Operands[1]
		return newCell(a.Shape().Signed || b.Shape().Signed, w,
			e.extend(e.compileValue(m, a), a.Shape(), w),
			e.extend(e.compileValue(m, b), b.Shape(), w))
	}
}

// comparisonWidth returns the width both comparison operands are extended to
// and whether the comparison is signed.  Mixing signed and unsigned widens
// the unsigned side by one bit for the sign.
func comparisonWidth(a, b hdl.Shape) (int, bool) {
	switch {
	case !a.Signed && !b.Signed:
		return imax(a.Width, b.Width), false
	case a.Signed && b.Signed:
		return imax(a.Width, b.Width), true
	case a.Signed:
		return imax(a.Width, b.Width+1), true
	default:
		return imax(a.Width+1, b.Width), true
	}
}

// lowerSwitch lowers a multi-way select: a match cell produces one bit per
// case, a priority-match cell makes the selects one-hot, and an
// assignment-list cell picks the case value.  The common two-way select on a
// single-bit test short-circuits to a multiplexer cell.
func (e *emitter) lowerSwitch(m int, v *hdl.SwitchValue) netlist.Value {
	w := v.Shape().Width
	test := e.compileValue(m, v.Test)

	if b, a, ok := muxArms(v); ok {
		_, out := e.nl.AddCell(&netlist.MuxCell{
			CellBase: cb(m, report.Location{}),
			Sel:      test[0],
			A:        e.extend(e.compileValue(m, a), a.Shape(), w),
			B:        e.extend(e.compileValue(m, b), b.Shape(), w),
		})
		return out
	}

	groups := make([][]string, len(v.Cases))
	for i, cs := range v.Cases {
		groups[i] = patternGroup(cs.Patterns, len(test))
	}
	_, match := e.nl.AddCell(&netlist.MatchCell{
		CellBase: cb(m, report.Location{}),
		En:       netlist.ConstOne,
		Test:     test,
		Groups:   groups,
	})
	_, sel := e.nl.AddCell(&netlist.PriorityMatchCell{CellBase: cb(m, report.Location{}), Input: match})

	asgs := make([]netlist.Assignment, len(v.Cases))
	for i, cs := range v.Cases {
		asgs[i] = netlist.Assignment{
			Cond:  sel[i],
			Start: 0,
			Value: e.extend(e.compileValue(m, cs.Value), cs.Value.Shape(), w),
		}
	}
	_, out := e.nl.AddCell(&netlist.AssignmentListCell{
		CellBase:    cb(m, report.Location{}),
		Default:     netlist.ConstValue(0, w),
		Assignments: asgs,
	})
	return out
}

// muxArms recognizes a two-way select on a single-bit test and returns the
// values chosen when the test is zero and non-zero.
func muxArms(v *hdl.SwitchValue) (b, a hdl.Value, ok bool) {
	if len(v.Cases) != 2 || v.Test.Shape().Width != 1 {
		return nil, nil, false
	}

	c0, c1 := v.Cases[0], v.Cases[1]
	if len(c0.Patterns) != 1 || c0.Patterns[0].Dead {
		return nil, nil, false
	}
	if c1.Patterns != nil {
		// The second arm must be a default or the complementary bit.
		if len(c1.Patterns) != 1 || c1.Patterns[0].Dead {
			return nil, nil, false
		}
		if c1.Patterns[0].Bits == c0.Patterns[0].Bits {
			return nil, nil, false
		}
	}

	switch c0.Patterns[0].Bits {
	case "0":
		return c0.Value, c1.Value, true
	case "1":
		return c1.Value, c0.Value, true
	default:
		return nil, nil, false
	}
}

// -----------------------------------------------------------------------------

// extend zero- or sign-extends (per the source shape) a compiled value to the
// given width, truncating if it is wider.
func (e *emitter) extend(v netlist.Value, sh hdl.Shape, width int) netlist.Value {
	if len(v) >= width {
		return v[:width]
	}

	out := append(netlist.Value{}, v...)
	fill := netlist.ConstZero
	if sh.Signed && len(v) > 0 {
		fill = v[len(v)-1]
	}
	for len(out) < width {
		out = append(out, fill)
	}

	return out
}

// boolNet reduces a value to the single net that is set iff the value is
// non-zero.
func (e *emitter) boolNet(m int, v hdl.Value) netlist.Net {
	cv := e.compileValue(m, v)
	switch len(cv) {
	case 0:
		return netlist.ConstZero
	case 1:
		return cv[0]
	}

	_, out := e.nl.AddCell(&netlist.OperatorCell{
		CellBase: cb(m, report.Location{}),
		Op:       hdl.OpBool,
		Operands: []netlist.Value{cv},
		Width:    1,
	})
	return out[0]
}

func (e *emitter) compileFormat(m int, f *hdl.Format) []netlist.FormatChunk {
	chunks := make([]netlist.FormatChunk, len(f.Chunks))
	for i, ch := range f.Chunks {
		if ch.Value == nil {
			chunks[i] = netlist.FormatChunk{Literal: ch.Literal}
			continue
		}
		chunks[i] = netlist.FormatChunk{
			Value:  e.compileValue(m, ch.Value),
			Verb:   ch.Verb,
			Signed: ch.Value.Shape().Signed,
		}
	}

	return chunks
}
