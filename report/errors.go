package report

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies an elaboration error.  Callers are expected to dispatch on
// the kind programmatically rather than on message text.
type Kind int

// Enumeration of the different error kinds.
const (
	// KindShape indicates an invalid width or signedness, a shift by a signed
	// amount, or a value that cannot be cast to a shape.
	KindShape Kind = iota

	// KindSyntax indicates a control-flow construct used outside its required
	// context, a malformed pattern string, or an assignment to a
	// non-assignable expression.
	KindSyntax

	// KindName indicates a duplicate submodule, domain, or port name, or an
	// FSM state that is referenced but never defined.
	KindName

	// KindDriverConflict indicates the same signal bit driven from two clock
	// domains or from two modules.
	KindDriverConflict

	// KindCycle indicates a combinational cycle: a net defined in terms of
	// itself with no storage element breaking the loop.
	KindCycle

	// KindDomain indicates a clock domain that is referenced but undefined
	// with no resolver-supplied fallback, or a reset request on a reset-less
	// domain.
	KindDomain

	// KindFrozen indicates a structural mutation attempted after elaboration.
	KindFrozen
)

var kindStrings = map[Kind]string{
	KindShape:          "shape",
	KindSyntax:         "syntax",
	KindName:           "name",
	KindDriverConflict: "driver conflict",
	KindCycle:          "combinational cycle",
	KindDomain:         "domain",
	KindFrozen:         "frozen",
}

func (k Kind) String() string {
	if s, ok := kindStrings[k]; ok {
		return s
	}

	return "unknown"
}

// -----------------------------------------------------------------------------

// ElabError is the error value produced by every failure of elaboration.
// Elaboration has no partial-failure policy: the first ElabError aborts the
// whole design.
type ElabError struct {
	// The kind of the error.
	Kind Kind

	// The error message.
	Message string

	// The primary location the error occurred at, if one was captured.
	Loc Location

	// Additional locations involved in the error: eg. for a driver conflict,
	// the location of the other conflicting assignment.
	Related []Location
}

func (ee *ElabError) Error() string {
	sb := strings.Builder{}

	sb.WriteString(ee.Kind.String())
	sb.WriteString(" error: ")
	sb.WriteString(ee.Message)

	if ee.Loc.IsValid() {
		fmt.Fprintf(&sb, " (at %s)", ee.Loc)
	}

	for _, rel := range ee.Related {
		fmt.Fprintf(&sb, " (see also %s)", rel)
	}

	return sb.String()
}

// KindOf extracts the error kind of err, unwrapping any context wrapping
// applied with github.com/pkg/errors.  The second return value is false if err
// is not an ElabError.
func KindOf(err error) (Kind, bool) {
	if ee, ok := errors.Cause(err).(*ElabError); ok {
		return ee.Kind, true
	}

	return 0, false
}

// IsKind returns whether err is an ElabError of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
