package platform

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"loom/hdl"
)

const simProfile = `
name = "sim"

[[domains]]
name = "sync"

[[domains]]
name = "fast"
edge = "neg"
reset = "none"

[emit]
driverless-registers = true
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(simProfile))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Name != "sim" {
		t.Errorf("name = %q, want sim", p.Name)
	}
	if len(p.Domains) != 2 {
		t.Fatalf("domains = %d, want 2", len(p.Domains))
	}
	if p.Domains[0].Name != "sync" || p.Domains[0].Edge != "" || p.Domains[0].Reset != "" {
		t.Errorf("first domain = %+v", p.Domains[0])
	}
	if p.Domains[1].Name != "fast" || p.Domains[1].Edge != "neg" || p.Domains[1].Reset != "none" {
		t.Errorf("second domain = %+v", p.Domains[1])
	}
	if !p.Emit.DriverlessRegisters {
		t.Errorf("driverless-registers not picked up")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"nameless domain", "[[domains]]\nedge = \"pos\""},
		{"reserved name", "[[domains]]\nname = \"comb\""},
		{"duplicate name", "[[domains]]\nname = \"sync\"\n[[domains]]\nname = \"sync\""},
		{"bad edge", "[[domains]]\nname = \"sync\"\nedge = \"both\""},
		{"bad reset", "[[domains]]\nname = \"sync\"\nreset = \"maybe\""},
		{"malformed toml", "name = "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.toml)); err == nil {
				t.Errorf("Parse accepted %q", tt.toml)
			}
		})
	}
}

func TestResolver(t *testing.T) {
	p, err := Parse([]byte(simProfile))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	a := hdl.NewArena()
	r := p.Resolver(a)

	cd := r("sync")
	if cd == nil {
		t.Fatalf("resolver declined a profile domain")
	}
	if cd.Name != "sync" || cd.ClkEdge != hdl.EdgePos || cd.Rst == nil || cd.AsyncReset {
		t.Errorf("sync domain = %+v, want pos edge with a synchronous reset", cd)
	}

	fast := r("fast")
	if fast == nil {
		t.Fatalf("resolver declined a profile domain")
	}
	if fast.ClkEdge != hdl.EdgeNeg || fast.Rst != nil {
		t.Errorf("fast domain = %+v, want neg edge, reset-less", fast)
	}

	if r("bogus") != nil {
		t.Errorf("resolver supplied a domain the profile does not cover")
	}
}

func TestEmitOptions(t *testing.T) {
	p, err := Parse([]byte(simProfile))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.EmitOptions()) != 1 {
		t.Errorf("options = %d, want the driver-less register switch", len(p.EmitOptions()))
	}

	if len((&Profile{}).EmitOptions()) != 0 {
		t.Errorf("empty profile selects options")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.toml")
	if err := ioutil.WriteFile(path, []byte(simProfile), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Name != "sim" {
		t.Errorf("name = %q, want sim", p.Name)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("Load of a missing file succeeded")
	}
}
