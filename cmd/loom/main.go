package main

import (
	"fmt"
	"os"

	"github.com/ComedicChimera/olive"

	"loom/emit"
	"loom/hdl"
	"loom/ir"
	"loom/platform"
	"loom/report"
)

// loomVersion is the current loom version as a string.
const loomVersion = "0.1.0"

func main() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("loom", "loom is a toolkit for building and elaborating hardware designs", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	demoCmd := cli.AddSubcommand("demo", "elaborate a bundled demo design and print its netlist", true)
	demoCmd.AddPrimaryArg("demo-name", "the name of the demo to elaborate", true)
	demoCmd.AddStringArg("profile", "p", "the path of a target profile to elaborate against", false)

	cli.AddSubcommand("list", "list the bundled demo designs", false)
	cli.AddSubcommand("version", "print the loom version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.DisplayError(err)
		os.Exit(1)
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "demo":
		execDemoCommand(subResult, result.Arguments["loglevel"].(string))
	case "list":
		for _, name := range demoNames() {
			fmt.Printf("%-10s %s\n", name, demos[name].desc)
		}
	case "version":
		report.DisplayInfo("Loom Version", loomVersion)
	}
}

// execDemoCommand executes the demo subcommand and handles all errors.
func execDemoCommand(result *olive.ArgParseResult, loglevel string) {
	initReporter(loglevel)

	// get the primary argument: the demo name
	name, _ := result.PrimaryArg()
	d, ok := demos[name]
	if !ok {
		report.DisplayError(fmt.Errorf("unknown demo %q; run `loom list` to see the bundled demos", name))
		os.Exit(1)
	}

	// load the target profile if one was selected
	var prof *platform.Profile
	if profArgVal, ok := result.Arguments["profile"]; ok {
		var err error
		prof, err = platform.Load(profArgVal.(string))
		if err != nil {
			report.DisplayError(err)
			os.Exit(1)
		}
	}

	// build the demo design
	report.BeginPhase("Building")
	arena := hdl.NewArena()
	root, ports, err := d.build(arena)
	report.EndPhase(err == nil)
	if err != nil {
		report.DisplayError(err)
		os.Exit(1)
	}

	// elaborate it against the profile's domains, or free-running
	// positive-edge domains with synchronous reset if no profile was given
	resolver := defaultResolver(arena)
	var opts []emit.Option
	if prof != nil {
		resolver = prof.Resolver(arena)
		opts = prof.EmitOptions()
	}

	report.BeginPhase("Elaborating")
	nl, err := emit.Build(root, ports, name, resolver, opts...)
	report.EndPhase(err == nil)
	if err != nil {
		report.DisplayError(err)
		os.Exit(1)
	}

	fmt.Println(nl.Dump())
}

// initReporter initializes the global reporter from the log level argument.
func initReporter(loglevel string) {
	switch loglevel {
	case "silent":
		report.InitReporter(report.LogLevelSilent)
	case "error":
		report.InitReporter(report.LogLevelError)
	case "warn":
		report.InitReporter(report.LogLevelWarn)
	default:
		report.InitReporter(report.LogLevelVerbose)
	}
}

// defaultResolver supplies a default clock domain for every domain name a
// design mentions but never declares.
func defaultResolver(a *hdl.Arena) ir.MissingDomainResolver {
	return func(name string) *hdl.ClockDomain {
		return hdl.NewClockDomain(a, name, hdl.DomainConfig{})
	}
}
