package hdl

import (
	"strings"

	"loom/report"
)

// Pattern is a match pattern normalized to the width of the value it tests:
// one character per bit, most significant first, each of '0', '1' or '-'
// (don't care).  A dead pattern is syntactically valid but can never match
// (eg. a constant not representable in the tested shape); dead patterns are
// diagnosed as warnings where they are written, never as errors.
type Pattern struct {
	// The normalized pattern bits, MSB first.  len(Bits) equals the width of
	// the tested value.
	Bits string

	// Whether the pattern can never match.
	Dead bool
}

func (p Pattern) String() string {
	if p.Dead {
		return "(dead)"
	}

	return p.Bits
}

// ParsePattern parses a literal bit-string pattern against a test value of
// the given width.  Whitespace and underscores are ignored; any other
// character besides '0', '1' and '-' is a syntax error.  Short patterns are
// zero-extended; long patterns are trimmed when the excess bits cannot
// constrain the match, and dead otherwise.
func ParsePattern(s string, width int) Pattern {
	sb := strings.Builder{}
	for _, c := range s {
		switch c {
		case '0', '1', '-':
			sb.WriteRune(c)
		case ' ', '\t', '_':
			// ignored
		default:
			report.Raise(report.KindSyntax, report.Location{}, "invalid pattern %q: bad character %q", s, c)
		}
	}

	bits := sb.String()
	switch {
	case len(bits) < width:
		bits = strings.Repeat("0", width-len(bits)) + bits
	case len(bits) > width:
		excess := bits[:len(bits)-width]
		if strings.ContainsRune(excess, '1') {
			return Pattern{Bits: strings.Repeat("0", width), Dead: true}
		}
		bits = bits[len(bits)-width:]
	}

	return Pattern{Bits: bits}
}

// MustParsePattern is ParsePattern for compiler-generated patterns that are
// known to be well formed.
func MustParsePattern(s string, width int) Pattern {
	p := ParsePattern(s, width)
	if p.Dead {
		report.ICE("generated pattern %q is dead", s)
	}

	return p
}

// PatternOf builds the pattern matching the given constant against a test
// value of the given shape.  A constant that is not representable in the
// shape yields a dead pattern.
func PatternOf(v int64, shape Shape) Pattern {
	if normalize(v, shape) != v {
		return Pattern{Bits: strings.Repeat("0", shape.Width), Dead: true}
	}

	sb := strings.Builder{}
	for i := shape.Width - 1; i >= 0; i-- {
		if (v>>i)&1 != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return Pattern{Bits: sb.String()}
}

// MatchesConst reports whether the pattern matches a constant value
// normalized into the tested shape.
func (p Pattern) MatchesConst(v int64) bool {
	if p.Dead {
		return false
	}

	width := len(p.Bits)
	for i := 0; i < width; i++ {
		bit := (v >> (width - 1 - i)) & 1
		switch p.Bits[i] {
		case '0':
			if bit != 0 {
				return false
			}
		case '1':
			if bit != 1 {
				return false
			}
		}
	}

	return true
}

// Matches builds the 1-bit value that is set iff v matches any of the given
// patterns.
func Matches(v Value, patterns ...Pattern) *SwitchValue {
	return &SwitchValue{
		Test: v,
		Cases: []ValueCase{
			{Patterns: patterns, Value: C(1, Unsigned(1))},
			{Patterns: nil, Value: C(0, Unsigned(1))},
		},
	}
}
