package netlist

import (
	"testing"
)

func TestNetEncoding(t *testing.T) {
	tests := []struct {
		net       Net
		cell, bit int
		str       string
	}{
		{CellNet(0, 0), 0, 0, "0.0"},
		{CellNet(0, 1), 0, 1, "0.1"},
		{CellNet(3, 5), 3, 5, "3.5"},
		{CellNet(1, 0), 1, 0, "1.0"},
	}
	for _, tt := range tests {
		if !tt.net.IsCell() || tt.net.IsConst() || tt.net.IsLate() {
			t.Errorf("%s misclassified", tt.str)
		}
		cell, bit := tt.net.CellBit()
		if cell != tt.cell || bit != tt.bit {
			t.Errorf("CellBit(%s) = (%d, %d), want (%d, %d)", tt.str, cell, bit, tt.cell, tt.bit)
		}
		if tt.net.String() != tt.str {
			t.Errorf("String() = %q, want %q", tt.net.String(), tt.str)
		}
	}

	if !ConstZero.IsConst() || ConstZero.ConstBit() || ConstZero.String() != "1'0" {
		t.Errorf("constant zero misbehaves: %s", ConstZero)
	}
	if !ConstOne.IsConst() || !ConstOne.ConstBit() || ConstOne.String() != "1'1" {
		t.Errorf("constant one misbehaves: %s", ConstOne)
	}

	late := LateNet(2)
	if !late.IsLate() || late.LateIndex() != 2 || late.String() != "late$2" {
		t.Errorf("late net misbehaves: %s (index %d)", late, late.LateIndex())
	}
}

func TestConstValue(t *testing.T) {
	v := ConstValue(5, 4)
	want := Value{ConstOne, ConstZero, ConstOne, ConstZero}
	if len(v) != 4 {
		t.Fatalf("width = %d, want 4", len(v))
	}
	for i := range v {
		if v[i] != want[i] {
			t.Errorf("bit %d = %s, want %s", i, v[i], want[i])
		}
	}
	if !v.IsConst() || v.ConstBits() != 5 {
		t.Errorf("round trip = %d, want 5", v.ConstBits())
	}

	mixed := Value{ConstOne, CellNet(1, 0)}
	if mixed.IsConst() {
		t.Errorf("value with a cell net reported constant")
	}
}

func TestCellValue(t *testing.T) {
	v := CellValue(2, 3)
	if len(v) != 3 {
		t.Fatalf("width = %d, want 3", len(v))
	}
	for i, n := range v {
		cell, bit := n.CellBit()
		if cell != 2 || bit != i {
			t.Errorf("bit %d = %s", i, n)
		}
	}
}

func TestValueConcat(t *testing.T) {
	a := Value{ConstOne}
	b := Value{ConstZero, ConstZero}
	c := a.Concat(b, Value{ConstOne})

	if len(c) != 4 || c.ConstBits() != 0b1001 {
		t.Errorf("concat = %s", c)
	}
	// The receiver is not modified.
	if len(a) != 1 {
		t.Errorf("concat modified its receiver: %s", a)
	}

	if (Value{}).String() != "()" {
		t.Errorf("empty value renders as %q", Value{}.String())
	}
	if s := (Value{ConstOne, CellNet(1, 2)}).String(); s != "(1'1 1.2)" {
		t.Errorf("value renders as %q", s)
	}
}

func TestResolveLateChain(t *testing.T) {
	nl := New("t")

	v := nl.AllocLate(2)
	w := nl.AllocLate(1)
	if !v[0].IsLate() || v[0] == v[1] || w[0] == v[1] {
		t.Fatalf("late allocation reused a net: %s %s %s", v[0], v[1], w[0])
	}

	// v[0] resolves through another late net.
	nl.ResolveLate(v[0], w[0])
	nl.ResolveLate(w[0], ConstOne)
	nl.ResolveLate(v[1], ConstZero)

	_, _ = nl.AddCell(&OperatorCell{
		CellBase: CellBase{Module: 0},
		Op:       "+",
		Operands: []Value{{v[0], v[1]}},
		Width:    2,
	})

	nl.ResolveAllNets()

	got := nl.Cells[1].(*OperatorCell).Operands[0]
	if got[0] != ConstOne || got[1] != ConstZero {
		t.Errorf("resolved operands = %s, want (1'1 1'0)", got)
	}
}
