package hdl

import (
	"testing"

	"loom/report"
)

func TestParsePattern(t *testing.T) {
	tests := []struct {
		s     string
		width int
		bits  string
		dead  bool
	}{
		{"101", 3, "101", false},
		{"1-0", 5, "001-0", false},
		{"1_0 1", 3, "101", false},
		{"", 4, "0000", false},
		// Excess high bits that cannot constrain the match are trimmed.
		{"001-", 2, "1-", false},
		{"--11", 2, "11", false},
		// Excess high bits that must be set can never match.
		{"100", 2, "", true},
	}

	for _, tt := range tests {
		p := ParsePattern(tt.s, tt.width)
		if p.Dead != tt.dead {
			t.Errorf("ParsePattern(%q, %d).Dead = %v, want %v", tt.s, tt.width, p.Dead, tt.dead)
			continue
		}
		if !tt.dead && p.Bits != tt.bits {
			t.Errorf("ParsePattern(%q, %d) = %q, want %q", tt.s, tt.width, p.Bits, tt.bits)
		}
	}

	if err := elabErr(func() { ParsePattern("1x0", 3) }); !report.IsKind(err, report.KindSyntax) {
		t.Errorf("ParsePattern with bad character = %v, want syntax error", err)
	}
}

func TestPatternOf(t *testing.T) {
	tests := []struct {
		v     int64
		shape Shape
		bits  string
		dead  bool
	}{
		{5, Unsigned(4), "0101", false},
		{0, Unsigned(3), "000", false},
		{-2, Signed(3), "110", false},
		{-4, Signed(3), "100", false},
		// Values not representable in the tested shape never match.
		{16, Unsigned(4), "", true},
		{-1, Unsigned(3), "", true},
		{4, Signed(3), "", true},
	}

	for _, tt := range tests {
		p := PatternOf(tt.v, tt.shape)
		if p.Dead != tt.dead {
			t.Errorf("PatternOf(%d, %s).Dead = %v, want %v", tt.v, tt.shape, p.Dead, tt.dead)
			continue
		}
		if !tt.dead && p.Bits != tt.bits {
			t.Errorf("PatternOf(%d, %s) = %q, want %q", tt.v, tt.shape, p.Bits, tt.bits)
		}
	}
}

func TestPatternMatchesConst(t *testing.T) {
	p := ParsePattern("1-0", 3)

	tests := []struct {
		v    int64
		want bool
	}{
		{0b100, true},
		{0b110, true},
		{0b101, false},
		{0b010, false},
		{0b000, false},
	}

	for _, tt := range tests {
		if got := p.MatchesConst(tt.v); got != tt.want {
			t.Errorf("%q.MatchesConst(%#b) = %v, want %v", p.Bits, tt.v, got, tt.want)
		}
	}

	dead := PatternOf(16, Unsigned(4))
	if dead.MatchesConst(0) {
		t.Errorf("dead pattern matched")
	}
}

func TestMatches(t *testing.T) {
	a := NewArena()
	v := a.Signal(Unsigned(3), "v")

	sv := Matches(v, ParsePattern("1--", 3), ParsePattern("001", 3))
	if got := sv.Shape(); got != Unsigned(1) {
		t.Errorf("Matches shape = %s, want unsigned(1)", got)
	}
	if len(sv.Cases) != 2 || sv.Cases[1].Patterns != nil {
		t.Errorf("Matches must end in a default case")
	}
}
