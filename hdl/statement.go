package hdl

import (
	"fmt"
	"strings"

	"loom/report"
)

// Statement is the interface implemented by every statement node.  Statements
// form ordered lists; order is semantically significant (a later assignment
// to the same bits overrides an earlier one).
type Statement interface {
	// Loc returns the user call site the statement was created at.
	Loc() report.Location

	fmt.Stringer
}

// StmtBase carries the construction location shared by all statements.
type StmtBase struct {
	loc report.Location
}

// NewStmtBaseAt creates a statement base with an explicit location.
func NewStmtBaseAt(loc report.Location) StmtBase {
	return StmtBase{loc: loc}
}

func (sb StmtBase) Loc() report.Location {
	return sb.loc
}

// -----------------------------------------------------------------------------

// Assign drives the left-hand side value from the right-hand side value.
type Assign struct {
	StmtBase

	LHS Value
	RHS Value
}

// NewAssign builds an assignment, capturing the caller's location.  The
// left-hand side must be assignable: a signal, a slice or part of an
// assignable value, or a concatenation of assignable values.
func NewAssign(lhs, rhs Value) *Assign {
	loc := report.CallerLocation(0)
	checkAssignable(lhs, loc)

	return &Assign{StmtBase: StmtBase{loc: loc}, LHS: lhs, RHS: rhs}
}

// NewAssignAt is NewAssign with an explicit location, for builders that
// capture the call site themselves.
func NewAssignAt(loc report.Location, lhs, rhs Value) *Assign {
	checkAssignable(lhs, loc)

	return &Assign{StmtBase: StmtBase{loc: loc}, LHS: lhs, RHS: rhs}
}

// checkAssignable validates that v may appear on the left of an assignment.
func checkAssignable(v Value, loc report.Location) {
	switch v := v.(type) {
	case *Signal:
	case *Slice:
		checkAssignable(v.Base, loc)
	case *Part:
		checkAssignable(v.Base, loc)
	case *Concat:
		for _, p := range v.Parts {
			checkAssignable(p, loc)
		}
	default:
		report.Raise(report.KindSyntax, loc, "cannot assign to %s", v)
	}
}

func (a *Assign) String() string {
	return fmt.Sprintf("(assign %s %s)", a.LHS, a.RHS)
}

// -----------------------------------------------------------------------------

// FormatChunk is one piece of a format: either a literal string or an
// embedded value with a verb.
type FormatChunk struct {
	// The literal text; empty for value chunks.
	Literal string

	// The embedded value; nil for literal chunks.
	Value Value

	// The formatting verb for the embedded value: "d", "b", "x" or "s".
	Verb string
}

// Format is an ordered sequence of format chunks.
type Format struct {
	Chunks []FormatChunk
}

// Lit builds a literal format chunk.
func Lit(s string) FormatChunk {
	return FormatChunk{Literal: s}
}

// Fmt builds a value format chunk with the given verb.
func Fmt(v Value, verb string) FormatChunk {
	return FormatChunk{Value: v, Verb: verb}
}

func (f *Format) String() string {
	sb := strings.Builder{}
	for _, ch := range f.Chunks {
		if ch.Value == nil {
			fmt.Fprintf(&sb, "%q", ch.Literal)
		} else {
			fmt.Fprintf(&sb, "{%s:%s}", ch.Value, ch.Verb)
		}
	}

	return sb.String()
}

// Print emits its format each time the enclosing conditions hold.
type Print struct {
	StmtBase

	Format *Format
}

// NewPrint builds a print statement from the given chunks.
func NewPrint(chunks ...FormatChunk) *Print {
	return &Print{
		StmtBase: StmtBase{loc: report.CallerLocation(0)},
		Format:   &Format{Chunks: chunks},
	}
}

func (p *Print) String() string {
	return fmt.Sprintf("(print %s)", p.Format)
}

// -----------------------------------------------------------------------------

// PropertyKind enumerates the kinds of formal properties.
type PropertyKind int

const (
	PropAssert PropertyKind = iota
	PropAssume
	PropCover
)

func (pk PropertyKind) String() string {
	switch pk {
	case PropAssert:
		return "assert"
	case PropAssume:
		return "assume"
	default:
		return "cover"
	}
}

// Property checks a formal property of its test value whenever the enclosing
// conditions hold.
type Property struct {
	StmtBase

	Kind    PropertyKind
	Test    Value
	Message *Format // may be nil
}

// NewProperty builds a property statement.
func NewProperty(kind PropertyKind, test Value, message *Format) *Property {
	return &Property{
		StmtBase: StmtBase{loc: report.CallerLocation(0)},
		Kind:     kind,
		Test:     test,
		Message:  message,
	}
}

func (p *Property) String() string {
	return fmt.Sprintf("(%s %s)", p.Kind, p.Test)
}

// -----------------------------------------------------------------------------

// SwitchCase is one alternative of a Switch statement.  A nil pattern set is
// the default case.
type SwitchCase struct {
	Patterns []Pattern
	Body     []Statement
}

// Switch applies the body of the first case whose pattern set matches the
// test value.  Declaration order of the cases is load-bearing: patterns may
// overlap, and the first matching case in declaration order applies.
type Switch struct {
	StmtBase

	Test  Value
	Cases []SwitchCase
}

// NewSwitch builds a switch statement.
func NewSwitch(test Value, cases []SwitchCase) *Switch {
	return &Switch{
		StmtBase: StmtBase{loc: report.CallerLocation(0)},
		Test:     test,
		Cases:    cases,
	}
}

// NewSwitchAt builds a switch statement with an explicit location.
func NewSwitchAt(loc report.Location, test Value, cases []SwitchCase) *Switch {
	return &Switch{StmtBase: StmtBase{loc: loc}, Test: test, Cases: cases}
}

func (s *Switch) String() string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "(switch %s", s.Test)
	for _, cs := range s.Cases {
		if cs.Patterns == nil {
			sb.WriteString(" (default")
		} else {
			pats := make([]string, len(cs.Patterns))
			for i, p := range cs.Patterns {
				pats[i] = p.String()
			}
			fmt.Fprintf(&sb, " (case (%s)", strings.Join(pats, " "))
		}
		for _, stmt := range cs.Body {
			sb.WriteString(" ")
			sb.WriteString(stmt.String())
		}
		sb.WriteString(")")
	}
	sb.WriteString(")")

	return sb.String()
}

// -----------------------------------------------------------------------------

// LateStatement is a statement that cannot be fully constructed where it is
// written and is resolved in a fixed post-pass when the enclosing block
// closes; an FSM next-state statement is late because the target state may
// not be defined yet.  No late statement ever reaches the netlist emitter.
type LateStatement interface {
	Statement

	// ResolveLate returns the concrete statement this placeholder stands for.
	// The placeholder itself carries everything needed to resolve it.
	ResolveLate() Statement
}

// ResolveLateStatements replaces every late statement in the list, descending
// into switch case bodies.  It is run on each block body as the block closes.
func ResolveLateStatements(stmts []Statement) []Statement {
	out := make([]Statement, len(stmts))
	for i, stmt := range stmts {
		switch stmt := stmt.(type) {
		case LateStatement:
			out[i] = stmt.ResolveLate()
		case *Switch:
			cases := make([]SwitchCase, len(stmt.Cases))
			for j, cs := range stmt.Cases {
				cases[j] = SwitchCase{Patterns: cs.Patterns, Body: ResolveLateStatements(cs.Body)}
			}
			out[i] = NewSwitchAt(stmt.Loc(), stmt.Test, cases)
		default:
			out[i] = stmt
		}
	}

	return out
}
