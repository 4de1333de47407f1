package report

import "fmt"

// Raise panics with a new ElabError of the given kind.  The compiler's
// internal passes are deeply recursive, so errors propagate by panic and are
// recovered into ordinary error returns at the public entry points with Catch.
// NB: Raise must only be called beneath a deferred Catch.
func Raise(kind Kind, loc Location, msg string, args ...interface{}) {
	panic(&ElabError{
		Kind:    kind,
		Message: fmt.Sprintf(msg, args...),
		Loc:     loc,
	})
}

// RaiseRelated is Raise with additional related locations attached: eg. the
// two conflicting assignment sites of a driver conflict.
func RaiseRelated(kind Kind, loc Location, related []Location, msg string, args ...interface{}) {
	panic(&ElabError{
		Kind:    kind,
		Message: fmt.Sprintf(msg, args...),
		Loc:     loc,
		Related: related,
	})
}

// Catch recovers an ElabError raised below the deferring function and stores
// it into *err.  Panics that are not ElabErrors are re-raised: those are
// internal bugs, not user errors.
// NB: This function must ALWAYS be deferred.
func Catch(err *error) {
	if x := recover(); x != nil {
		if ee, ok := x.(*ElabError); ok {
			*err = ee
		} else {
			panic(x)
		}
	}
}

// ICE panics with an internal inconsistency message.  These indicate a bug in
// the compiler itself: they are never supposed to happen and are deliberately
// not recoverable with Catch.
func ICE(msg string, args ...interface{}) {
	panic(fmt.Sprintf("internal elaboration error: "+msg, args...))
}
