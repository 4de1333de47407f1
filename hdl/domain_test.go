package hdl

import (
	"testing"

	"loom/report"
)

func TestNewClockDomain(t *testing.T) {
	a := NewArena()

	cd := NewClockDomain(a, "sync", DomainConfig{})
	if cd.Name != "sync" || cd.ClkEdge != EdgePos || cd.AsyncReset {
		t.Errorf("default domain = %+v", cd)
	}
	if cd.Clk == nil || cd.Clk.Name != "sync_clk" || cd.Clk.Shape() != Unsigned(1) {
		t.Errorf("default domain clock = %v", cd.Clk)
	}
	if cd.Rst == nil || cd.Rst.Name != "sync_rst" {
		t.Errorf("default domain reset = %v", cd.Rst)
	}

	noRst := NewClockDomain(a, "free", DomainConfig{Reset: ResetNone})
	if noRst.Rst != nil {
		t.Errorf("reset-less domain has a reset signal")
	}

	arst := NewClockDomain(a, "aon", DomainConfig{Reset: ResetAsync, Edge: EdgeNeg})
	if !arst.AsyncReset || arst.ClkEdge != EdgeNeg || arst.Rst == nil {
		t.Errorf("async domain = %+v", arst)
	}
}

func TestClockDomainNameErrors(t *testing.T) {
	a := NewArena()

	if err := elabErr(func() { NewClockDomain(a, CombDomain, DomainConfig{}) }); !report.IsKind(err, report.KindDomain) {
		t.Errorf("NewClockDomain(comb) = %v, want domain error", err)
	}
	if err := elabErr(func() { NewClockDomain(a, "", DomainConfig{}) }); !report.IsKind(err, report.KindDomain) {
		t.Errorf("NewClockDomain(\"\") = %v, want domain error", err)
	}
}

func TestClockDomainRename(t *testing.T) {
	a := NewArena()
	cd := NewClockDomain(a, "sync", DomainConfig{})

	cd.Rename("core")
	if cd.Name != "core" || cd.Clk.Name != "core_clk" || cd.Rst.Name != "core_rst" {
		t.Errorf("renamed domain = %s clk %s rst %s", cd.Name, cd.Clk.Name, cd.Rst.Name)
	}

	if err := elabErr(func() { cd.Rename(CombDomain) }); !report.IsKind(err, report.KindDomain) {
		t.Errorf("Rename(comb) = %v, want domain error", err)
	}
}

func TestMemoryAddrBits(t *testing.T) {
	a := NewArena()

	tests := []struct {
		depth int
		want  int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{8, 3},
		{9, 4},
	}

	for _, tt := range tests {
		m := NewMemory(a, "", 8, tt.depth)
		if got := m.AddrBits(); got != tt.want {
			t.Errorf("depth %d: AddrBits() = %d, want %d", tt.depth, got, tt.want)
		}
	}
}

func TestMemoryPortErrors(t *testing.T) {
	a := NewArena()
	m := NewMemory(a, "buf", 8, 16)
	addr := a.Signal(Unsigned(4), "addr")
	data := a.Signal(Unsigned(8), "data")
	en := a.Signal(Unsigned(1), "en")

	if err := elabErr(func() { m.WritePort(CombDomain, addr, data, en) }); !report.IsKind(err, report.KindDomain) {
		t.Errorf("combinational write port = %v, want domain error", err)
	}

	saddr := a.Signal(Signed(4), "saddr")
	if err := elabErr(func() { m.ReadPort(a, CombDomain, saddr) }); !report.IsKind(err, report.KindShape) {
		t.Errorf("signed read address = %v, want shape error", err)
	}

	wideEn := a.Signal(Unsigned(3), "wide_en")
	if err := elabErr(func() { m.WritePort("sync", addr, data, wideEn) }); !report.IsKind(err, report.KindShape) {
		t.Errorf("3-bit enable on 8-bit words = %v, want shape error", err)
	}

	rp := m.ReadPort(a, "sync", addr)
	if rp.Data.Shape() != Unsigned(8) {
		t.Errorf("read data shape = %s, want unsigned(8)", rp.Data.Shape())
	}
}
