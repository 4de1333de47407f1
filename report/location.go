package report

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// Location identifies the user source location of a design construct.  Because
// the design language is embedded in Go, a "source location" is the file and
// line of the Go call site that created the construct: it is captured with
// runtime.Caller at the few construction points where a later diagnostic may
// need to point back at user code (signal creation, assignments, control-flow
// blocks).
type Location struct {
	// The file and line of the call site.  A zero Location means the location
	// could not be captured or was not recorded.
	File string
	Line int
}

// CallerLocation captures the location of the caller skip frames above the
// caller of CallerLocation itself.  skip = 0 designates the immediate caller.
func CallerLocation(skip int) Location {
	_, file, line, ok := runtime.Caller(skip + 2)
	if !ok {
		return Location{}
	}

	return Location{File: file, Line: line}
}

// IsValid returns whether the location was actually captured.
func (loc Location) IsValid() bool {
	return loc.File != ""
}

func (loc Location) String() string {
	if !loc.IsValid() {
		return "<unknown>"
	}

	return fmt.Sprintf("%s:%d", filepath.Base(loc.File), loc.Line)
}
