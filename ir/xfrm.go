package ir

import (
	"loom/hdl"
	"loom/report"
)

// ValueTransform inspects a value node and either supplies a replacement
// (true) or lets the rewriter descend into the node's operands (false).
type ValueTransform func(v hdl.Value) (hdl.Value, bool)

// RewriteValue rebuilds an expression bottom-up under the given transform.
// Nodes the transform does not replace are reconstructed only if one of their
// operands changed, so shared subtrees stay shared.
func RewriteValue(v hdl.Value, xf ValueTransform) hdl.Value {
	if repl, ok := xf(v); ok {
		return repl
	}

	switch v := v.(type) {
	case *hdl.Const, *hdl.Signal, *hdl.ClockSignal, *hdl.ResetSignal:
		return v

	case *hdl.Operator:
		operands := rewriteAll(v.Operands, xf)
		if operands == nil {
			return v
		}
		return hdl.Op(v.Op, operands...)

	case *hdl.Slice:
		base := RewriteValue(v.Base, xf)
		if base == v.Base {
			return v
		}
		return hdl.NewSlice(base, v.Start, v.Stop)

	case *hdl.Part:
		base := RewriteValue(v.Base, xf)
		offset := RewriteValue(v.Offset, xf)
		if base == v.Base && offset == v.Offset {
			return v
		}
		return hdl.NewPart(base, offset, v.Width, v.Stride)

	case *hdl.Concat:
		parts := rewriteAll(v.Parts, xf)
		if parts == nil {
			return v
		}
		return hdl.Cat(parts...)

	case *hdl.SwitchValue:
		test := RewriteValue(v.Test, xf)
		changed := test != v.Test
		cases := make([]hdl.ValueCase, len(v.Cases))
		for i, cs := range v.Cases {
			val := RewriteValue(cs.Value, xf)
			changed = changed || val != cs.Value
			cases[i] = hdl.ValueCase{Patterns: cs.Patterns, Value: val}
		}
		if !changed {
			return v
		}
		return &hdl.SwitchValue{Test: test, Cases: cases}

	default:
		report.ICE("unknown value node %T", v)
		return nil // unreachable
	}
}

// rewriteAll rewrites a value list, returning nil if nothing changed.
func rewriteAll(vals []hdl.Value, xf ValueTransform) []hdl.Value {
	changed := false
	out := make([]hdl.Value, len(vals))
	for i, v := range vals {
		out[i] = RewriteValue(v, xf)
		changed = changed || out[i] != v
	}

	if !changed {
		return nil
	}
	return out
}

// RewriteStatements rebuilds a statement list under the given value
// transform, descending into switch cases and format chunks.
func RewriteStatements(stmts []hdl.Statement, xf ValueTransform) []hdl.Statement {
	out := make([]hdl.Statement, len(stmts))
	for i, stmt := range stmts {
		out[i] = rewriteStatement(stmt, xf)
	}

	return out
}

func rewriteStatement(stmt hdl.Statement, xf ValueTransform) hdl.Statement {
	switch stmt := stmt.(type) {
	case *hdl.Assign:
		lhs := RewriteValue(stmt.LHS, xf)
		rhs := RewriteValue(stmt.RHS, xf)
		if lhs == stmt.LHS && rhs == stmt.RHS {
			return stmt
		}
		return &hdl.Assign{StmtBase: hdl.NewStmtBaseAt(stmt.Loc()), LHS: lhs, RHS: rhs}

	case *hdl.Print:
		format, changed := rewriteFormat(stmt.Format, xf)
		if !changed {
			return stmt
		}
		return &hdl.Print{StmtBase: hdl.NewStmtBaseAt(stmt.Loc()), Format: format}

	case *hdl.Property:
		test := RewriteValue(stmt.Test, xf)
		message, changed := rewriteFormat(stmt.Message, xf)
		if test == stmt.Test && !changed {
			return stmt
		}
		return &hdl.Property{StmtBase: hdl.NewStmtBaseAt(stmt.Loc()), Kind: stmt.Kind, Test: test, Message: message}

	case *hdl.Switch:
		test := RewriteValue(stmt.Test, xf)
		changed := test != stmt.Test
		cases := make([]hdl.SwitchCase, len(stmt.Cases))
		for i, cs := range stmt.Cases {
			body := RewriteStatements(cs.Body, xf)
			for j := range body {
				changed = changed || body[j] != cs.Body[j]
			}
			cases[i] = hdl.SwitchCase{Patterns: cs.Patterns, Body: body}
		}
		if !changed {
			return stmt
		}
		return hdl.NewSwitchAt(stmt.Loc(), test, cases)

	default:
		// Late statements must have been resolved when their block closed.
		report.ICE("unknown statement node %T", stmt)
		return nil // unreachable
	}
}

func rewriteFormat(f *hdl.Format, xf ValueTransform) (*hdl.Format, bool) {
	if f == nil {
		return nil, false
	}

	changed := false
	chunks := make([]hdl.FormatChunk, len(f.Chunks))
	for i, ch := range f.Chunks {
		chunks[i] = ch
		if ch.Value != nil {
			chunks[i].Value = RewriteValue(ch.Value, xf)
			changed = changed || chunks[i].Value != ch.Value
		}
	}

	if !changed {
		return f, false
	}
	return &hdl.Format{Chunks: chunks}, true
}

// -----------------------------------------------------------------------------

// DomainRenamer renames clock domain *uses* across a fragment tree: statement
// domains, ClockSignal/ResetSignal references, and memory port domains.  A
// fragment that itself defines a renamed domain keeps the definition; rename
// the ClockDomain in place for that.
type DomainRenamer struct {
	// Old domain name to new domain name.
	Map map[string]string
}

// Apply rewrites the fragment tree in place.  The fragment must not be
// frozen.
func (dr DomainRenamer) Apply(f *Fragment) {
	f.checkMutable()

	xf := func(v hdl.Value) (hdl.Value, bool) {
		switch v := v.(type) {
		case *hdl.ClockSignal:
			if to, ok := dr.Map[v.Domain]; ok {
				return &hdl.ClockSignal{Domain: to}, true
			}
		case *hdl.ResetSignal:
			if to, ok := dr.Map[v.Domain]; ok {
				return &hdl.ResetSignal{Domain: to}, true
			}
		}
		return nil, false
	}

	newStmts := make(map[string][]hdl.Statement, len(f.stmts))
	newOrder := make([]string, 0, len(f.stmtOrder))
	for _, domain := range f.stmtOrder {
		to := domain
		if t, ok := dr.Map[domain]; ok && domain != hdl.CombDomain {
			to = t
		}

		// Two old domains renamed onto one concatenate in order.
		if _, ok := newStmts[to]; !ok {
			newOrder = append(newOrder, to)
		}
		newStmts[to] = append(newStmts[to], RewriteStatements(f.stmts[domain], xf)...)
	}

	f.stmts = newStmts
	f.stmtOrder = newOrder

	for _, m := range f.memories {
		for _, rp := range m.ReadPorts {
			if to, ok := dr.Map[rp.Domain]; ok && rp.Domain != hdl.CombDomain {
				rp.Domain = to
			}
		}
		for _, wp := range m.WritePorts {
			if to, ok := dr.Map[wp.Domain]; ok {
				wp.Domain = to
			}
		}
	}

	for _, c := range f.children {
		// Stop renaming below a child that redefines the domain locally.
		sub := dr
		for from := range dr.Map {
			if c.Fragment.domains[from] != nil {
				sub = DomainRenamer{Map: make(map[string]string, len(dr.Map))}
				for k, v := range dr.Map {
					if c.Fragment.domains[k] == nil {
						sub.Map[k] = v
					}
				}
				break
			}
		}
		if len(sub.Map) > 0 {
			sub.Apply(c.Fragment)
		}
	}
}
