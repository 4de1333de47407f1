package hdl

import (
	"fmt"

	"loom/report"
)

// An Arena hands out signal identities for one elaboration session.  Two
// signals are the same signal iff they came from the same arena with the same
// index: signals are never compared structurally, since two signals with
// identical shape and name are still distinct nets.  Keeping the counter in an
// arena rather than a process-wide global makes concurrent elaborations of
// independent designs possible.
type Arena struct {
	// The next signal index to hand out.
	next uint64
}

// NewArena creates a new empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// autoName reserves a fresh auto-generated name off the arena's counter.
func (a *Arena) autoName(prefix string) string {
	id := a.next
	a.next++
	return fmt.Sprintf("%s$%d", prefix, id)
}

// Signal creates a new signal of the given shape.  If name is empty, the
// signal receives an auto-generated name following the sig$N convention.  The
// caller's location is captured for diagnostics.
func (a *Arena) Signal(sl ShapeLike, name string) *Signal {
	shape := CastShape(sl)

	id := a.next
	a.next++

	if name == "" {
		name = fmt.Sprintf("sig$%d", id)
	}

	return &Signal{
		id:    id,
		shape: shape,
		Name:  name,
		loc:   report.CallerLocation(0),
	}
}

// -----------------------------------------------------------------------------

// A Signal is a named design-level net of a fixed shape.  Signal identity is
// its arena index; the exported fields may be freely read and, for Name, Init
// and ResetLess, adjusted before elaboration.
type Signal struct {
	id    uint64
	shape Shape
	loc   report.Location

	// The name of the signal.  Renaming transforms may rewrite it in place.
	Name string

	// The initial (power-on / reset) value of the signal.
	Init int64

	// ResetLess excludes the signal from its domain's reset, keeping only the
	// power-on initial value.
	ResetLess bool
}

// ID returns the signal's arena index.
func (s *Signal) ID() uint64 {
	return s.id
}

func (s *Signal) Shape() Shape {
	return s.shape
}

// Loc returns the location the signal was created at.
func (s *Signal) Loc() report.Location {
	return s.loc
}

func (s *Signal) String() string {
	return fmt.Sprintf("(sig %s)", s.Name)
}

func (s *Signal) AsValue() Value {
	return s
}

// -----------------------------------------------------------------------------

// SignalMap is an insertion-order-preserving map keyed by signal identity.
type SignalMap[V any] struct {
	vals  map[*Signal]V
	order []*Signal
}

// NewSignalMap creates a new empty signal map.
func NewSignalMap[V any]() *SignalMap[V] {
	return &SignalMap[V]{vals: make(map[*Signal]V)}
}

// Get returns the value stored for sig and whether one is present.
func (sm *SignalMap[V]) Get(sig *Signal) (V, bool) {
	v, ok := sm.vals[sig]
	return v, ok
}

// Has returns whether sig is present in the map.
func (sm *SignalMap[V]) Has(sig *Signal) bool {
	_, ok := sm.vals[sig]
	return ok
}

// Set stores a value for sig, preserving the original insertion position if
// sig is already present.
func (sm *SignalMap[V]) Set(sig *Signal, v V) {
	if _, ok := sm.vals[sig]; !ok {
		sm.order = append(sm.order, sig)
	}

	sm.vals[sig] = v
}

// Len returns the number of signals in the map.
func (sm *SignalMap[V]) Len() int {
	return len(sm.vals)
}

// Keys returns the signals in insertion order.  The returned slice must not be
// mutated.
func (sm *SignalMap[V]) Keys() []*Signal {
	return sm.order
}

// -----------------------------------------------------------------------------

// SignalSet is an insertion-order-preserving set of signals.
type SignalSet struct {
	m SignalMap[struct{}]
}

// NewSignalSet creates a new empty signal set.
func NewSignalSet() *SignalSet {
	return &SignalSet{m: SignalMap[struct{}]{vals: make(map[*Signal]struct{})}}
}

// Add inserts sig into the set.
func (ss *SignalSet) Add(sig *Signal) {
	ss.m.Set(sig, struct{}{})
}

// Has returns whether sig is in the set.
func (ss *SignalSet) Has(sig *Signal) bool {
	return ss.m.Has(sig)
}

// Len returns the number of signals in the set.
func (ss *SignalSet) Len() int {
	return ss.m.Len()
}

// Keys returns the signals in insertion order.
func (ss *SignalSet) Keys() []*Signal {
	return ss.m.Keys()
}
