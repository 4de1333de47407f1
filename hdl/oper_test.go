package hdl

import (
	"testing"

	"loom/report"
)

func TestOperatorResultShapes(t *testing.T) {
	a := NewArena()
	u0 := a.Signal(Unsigned(0), "u0")
	u1 := a.Signal(Unsigned(1), "u1")
	u2 := a.Signal(Unsigned(2), "u2")
	u4 := a.Signal(Unsigned(4), "u4")
	u8 := a.Signal(Unsigned(8), "u8")
	s4 := a.Signal(Signed(4), "s4")
	s8 := a.Signal(Signed(8), "s8")

	tests := []struct {
		name string
		v    Value
		want Shape
	}{
		{"add_uu", Add(u8, u8), Unsigned(9)},
		{"add_us", Add(u8, s8), Signed(10)},
		{"add_su", Add(s4, u8), Signed(10)},
		{"add_ss", Add(s4, s8), Signed(9)},
		{"sub_uu", Sub(u4, u4), Unsigned(5)},
		{"sub_ss", Sub(s4, s4), Signed(5)},
		{"mul_uu", Mul(u4, u4), Unsigned(8)},
		{"mul_us", Mul(u4, s4), Signed(8)},
		{"div_uu", Div(u8, u4), Unsigned(8)},
		{"div_us", Div(u8, s4), Signed(9)},
		{"div_su", Div(s8, u4), Signed(8)},
		{"mod_uu", Mod(u8, u4), Unsigned(4)},
		{"mod_us", Mod(u8, s4), Signed(4)},
		{"and_uu", And(u4, u8), Unsigned(8)},
		{"and_us", And(u4, s8), Signed(8)},
		{"or_su", Or(s8, u8), Signed(9)},
		{"xor_ss", Xor(s4, s8), Signed(8)},
		{"shl", Shl(u4, u2), Unsigned(7)},
		{"shl_signed_base", Shl(s4, u2), Signed(7)},
		{"shr", Shr(u8, u4), Unsigned(8)},
		{"eq", Eq(u8, s4), Unsigned(1)},
		{"lt", Lt(s4, s8), Unsigned(1)},
		{"neg", Neg(u4), Signed(5)},
		{"neg_signed", Neg(s4), Signed(5)},
		{"invert", Invert(s4), Signed(4)},
		{"bool", Bool(u8), Unsigned(1)},
		{"red_or", RedOr(u8), Unsigned(1)},
		{"red_and", RedAnd(s8), Unsigned(1)},
		{"red_xor", RedXor(u4), Unsigned(1)},
		{"as_unsigned", AsUnsigned(s4), Unsigned(4)},
		{"as_signed", AsSigned(u4), Signed(4)},
		{"as_signed_zero", AsSigned(u0), Signed(1)},
		{"bool_narrow", Bool(u1), Unsigned(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Shape(); got != tt.want {
				t.Errorf("shape = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSignedShiftAmount(t *testing.T) {
	a := NewArena()
	u4 := a.Signal(Unsigned(4), "u4")
	s2 := a.Signal(Signed(2), "s2")

	if err := elabErr(func() { Shl(u4, s2) }); !report.IsKind(err, report.KindShape) {
		t.Errorf("Shl by signed amount = %v, want shape error", err)
	}
	if err := elabErr(func() { Shr(u4, s2) }); !report.IsKind(err, report.KindShape) {
		t.Errorf("Shr by signed amount = %v, want shape error", err)
	}
}

func TestOperatorString(t *testing.T) {
	a := NewArena()
	x := a.Signal(Unsigned(4), "x")

	if got := Add(x, C(1)).String(); got != "(+ (sig x) (const 1'd1))" {
		t.Errorf("String() = %q", got)
	}
}
