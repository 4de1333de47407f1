// Package platform loads target profiles: the clock domains a target
// supplies to a design and the emission options it wants.  Profiles are
// TOML files, so a design can be retargeted without touching its sources.
package platform

import (
	"fmt"
	"io/ioutil"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"loom/emit"
	"loom/hdl"
	"loom/ir"
)

// DomainSpec describes one clock domain a profile supplies.
type DomainSpec struct {
	Name string `toml:"name"`

	// The active clock edge: "pos" (default) or "neg".
	Edge string `toml:"edge"`

	// The reset style: "sync" (default), "async" or "none".
	Reset string `toml:"reset"`
}

// EmitOptions carries the emission switches of a profile.
type EmitOptions struct {
	// Whether undriven signals become free-running storage for testbench
	// control (simulation targets).
	DriverlessRegisters bool `toml:"driverless-registers"`
}

// Profile is one target profile.
type Profile struct {
	Name    string       `toml:"name"`
	Domains []DomainSpec `toml:"domains"`
	Emit    EmitOptions  `toml:"emit"`
}

// Load reads a profile from a TOML file.
func Load(path string) (*Profile, error) {
	buff, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read profile at `%s`", path)
	}

	return Parse(buff)
}

// Parse deserializes and validates a profile.
func Parse(buff []byte) (*Profile, error) {
	p := &Profile{}
	if err := toml.Unmarshal(buff, p); err != nil {
		return nil, errors.Wrap(err, "error parsing profile")
	}

	seen := map[string]bool{}
	for _, d := range p.Domains {
		if d.Name == "" {
			return nil, fmt.Errorf("profile domain without a name")
		}
		if d.Name == hdl.CombDomain {
			return nil, fmt.Errorf("domain name %q is reserved for combinational logic", d.Name)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("duplicate profile domain %q", d.Name)
		}
		seen[d.Name] = true

		if _, err := parseEdge(d.Edge); err != nil {
			return nil, errors.Wrapf(err, "domain %q", d.Name)
		}
		if _, err := parseReset(d.Reset); err != nil {
			return nil, errors.Wrapf(err, "domain %q", d.Name)
		}
	}

	return p, nil
}

func parseEdge(s string) (hdl.Edge, error) {
	switch s {
	case "", "pos":
		return hdl.EdgePos, nil
	case "neg":
		return hdl.EdgeNeg, nil
	default:
		return 0, fmt.Errorf("unknown clock edge %q", s)
	}
}

func parseReset(s string) (hdl.ResetStyle, error) {
	switch s {
	case "", "sync":
		return hdl.ResetSync, nil
	case "async":
		return hdl.ResetAsync, nil
	case "none":
		return hdl.ResetNone, nil
	default:
		return 0, fmt.Errorf("unknown reset style %q", s)
	}
}

// Resolver returns the missing-domain resolver supplying the profile's
// domains during elaboration.  Domains are created against the given arena
// on demand; names the profile does not cover are declined.
func (p *Profile) Resolver(a *hdl.Arena) ir.MissingDomainResolver {
	return func(name string) *hdl.ClockDomain {
		for _, d := range p.Domains {
			if d.Name != name {
				continue
			}

			edge, _ := parseEdge(d.Edge)
			reset, _ := parseReset(d.Reset)
			return hdl.NewClockDomain(a, name, hdl.DomainConfig{Edge: edge, Reset: reset})
		}

		return nil
	}
}

// EmitOptions returns the emission options the profile selects, in the
// form emit.Build accepts.
func (p *Profile) EmitOptions() []emit.Option {
	var opts []emit.Option
	if p.Emit.DriverlessRegisters {
		opts = append(opts, emit.WithDriverlessRegisters())
	}
	return opts
}
