package report

import (
	"fmt"
	"sync"
)

// Reporter collects and displays warnings and progress messages produced while
// a design elaborates.  It respects the configured log level and is
// synchronized so that it is safe to use even if a caller elaborates several
// independent designs from different goroutines.
type Reporter struct {
	// The mutex used to synchronize report calls.
	m sync.Mutex

	// The selected log level.  Must be one of the enumerated log levels below.
	logLevel int

	// All warnings reported so far.
	warnings []*Warning
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors.
	LogLevelWarn           // Displays warnings and errors.
	LogLevelVerbose        // Displays all messages (default).
)

// A Warning is a non-fatal diagnostic: the design still elaborates, but the
// construct it points at is almost certainly not what the author meant (a
// dead switch case, an unreachable case after a default).
type Warning struct {
	Message string
	Loc     Location
}

func (w *Warning) String() string {
	if w.Loc.IsValid() {
		return fmt.Sprintf("%s: %s", w.Loc, w.Message)
	}

	return w.Message
}

// rep is the global reporter instance.
var rep = &Reporter{logLevel: LogLevelWarn}

// InitReporter initializes the global reporter with the given log level.
func InitReporter(logLevel int) {
	rep = &Reporter{logLevel: logLevel}
}

// -----------------------------------------------------------------------------

// Warn reports an elaboration warning.
func Warn(loc Location, msg string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	w := &Warning{Message: fmt.Sprintf(msg, args...), Loc: loc}
	rep.warnings = append(rep.warnings, w)

	if rep.logLevel >= LogLevelWarn {
		displayWarning(w)
	}
}

// Warnings returns all warnings reported since the reporter was initialized.
func Warnings() []*Warning {
	rep.m.Lock()
	defer rep.m.Unlock()

	ws := make([]*Warning, len(rep.warnings))
	copy(ws, rep.warnings)
	return ws
}

// DisplayError displays a terminal error message.  Used by the CLI driver; the
// library API returns errors instead.
func DisplayError(err error) {
	if rep.logLevel >= LogLevelError {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayError(err)
	}
}

// DisplayInfo displays a tagged informational message.
func DisplayInfo(tag, msg string) {
	if rep.logLevel == LogLevelVerbose {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayInfo(tag, msg)
	}
}
