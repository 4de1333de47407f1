package main

import (
	"sort"

	"loom/dsl"
	"loom/hdl"
	"loom/ir"
)

// A demo is a small self-contained design bundled with the CLI so that the
// elaboration pipeline can be exercised without writing any code.
type demo struct {
	desc  string
	build func(a *hdl.Arena) (*ir.Fragment, []ir.Port, error)
}

var demos = map[string]demo{
	"counter": {"an 8-bit counter with enable and overflow flag", buildCounter},
	"blinker": {"an FSM-driven LED blinker with a programmable timer", buildBlinker},
	"gray":    {"a free-running counter feeding a binary-to-gray encoder child", buildGray},
}

// demoNames returns the demo names in a stable order.
func demoNames() []string {
	var names []string
	for name := range demos {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// -----------------------------------------------------------------------------

func buildCounter(a *hdl.Arena) (*ir.Fragment, []ir.Port, error) {
	en := a.Signal(hdl.Unsigned(1), "en")
	count := a.Signal(hdl.Unsigned(8), "count")
	ovf := a.Signal(hdl.Unsigned(1), "ovf")

	root, err := dsl.Build(a, func(b *dsl.Builder) {
		b.Comb().Assign(ovf, hdl.Eq(count, hdl.C(255)))

		b.If(en)
		b.In("sync").Assign(count, hdl.Add(count, hdl.C(1)))
		b.EndIf()
	})
	if err != nil {
		return nil, nil, err
	}

	ports := []ir.Port{
		{Signal: en, Dir: hdl.DirInput},
		{Signal: count, Dir: hdl.DirOutput},
		{Signal: ovf, Dir: hdl.DirOutput},
	}
	return root, ports, nil
}

func buildBlinker(a *hdl.Arena) (*ir.Fragment, []ir.Port, error) {
	led := a.Signal(hdl.Unsigned(1), "led")
	timer := a.Signal(hdl.Unsigned(4), "timer")

	root, err := dsl.Build(a, func(b *dsl.Builder) {
		b.FSM("blink", "sync")

		b.State("off")
		b.Comb().Assign(led, hdl.C(0))
		b.In("sync").Assign(timer, hdl.Add(timer, hdl.C(1)))
		b.If(hdl.Eq(timer, hdl.C(15)))
		b.NextState("on")
		b.EndIf()

		b.State("on")
		b.Comb().Assign(led, hdl.C(1))
		b.In("sync").Assign(timer, hdl.Add(timer, hdl.C(1)))
		b.If(hdl.Eq(timer, hdl.C(15)))
		b.NextState("off")
		b.EndIf()

		b.EndFSM()
	})
	if err != nil {
		return nil, nil, err
	}

	ports := []ir.Port{
		{Signal: led, Dir: hdl.DirOutput},
	}
	return root, ports, nil
}

func buildGray(a *hdl.Arena) (*ir.Fragment, []ir.Port, error) {
	bin := a.Signal(hdl.Unsigned(4), "bin")
	gray := a.Signal(hdl.Unsigned(4), "gray")

	encoder, err := dsl.Build(a, func(b *dsl.Builder) {
		b.Comb().Assign(gray, hdl.Xor(bin, hdl.Shr(bin, hdl.C(1))))
	})
	if err != nil {
		return nil, nil, err
	}

	root, err := dsl.Build(a, func(b *dsl.Builder) {
		b.In("sync").Assign(bin, hdl.Add(bin, hdl.C(1)))
		b.AddChild(encoder, "encoder")
	})
	if err != nil {
		return nil, nil, err
	}

	ports := []ir.Port{
		{Signal: gray, Dir: hdl.DirOutput},
	}
	return root, ports, nil
}
