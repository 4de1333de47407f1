package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

var (
	successColorFG = pterm.FgLightGreen
	successStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	warnColorFG    = pterm.FgYellow
	warnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	errorColorFG   = pterm.FgRed
	errorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	infoColorFG    = successColorFG
	infoStyleBG    = successStyleBG
)

// displayError displays an error message to the console.
func displayError(err error) {
	errorStyleBG.Print("Error")
	errorColorFG.Println(" " + err.Error())
}

// displayWarning displays a warning message to the console.
func displayWarning(w *Warning) {
	warnStyleBG.Print("Warning")
	warnColorFG.Println(" " + w.String())
}

// displayInfo displays a tagged informational message to the console.
func displayInfo(tag, msg string) {
	infoStyleBG.Print(tag)
	infoColorFG.Println(" " + msg)
}

// -----------------------------------------------------------------------------
// Phase display used by the CLI driver: each elaboration phase gets a spinner
// that resolves to Done/Fail with its duration.

// phaseSpinner stores the current phase spinner.
var phaseSpinner *pterm.SpinnerPrinter
var currentPhase string
var phaseStartTime time.Time

const maxPhaseLength = len("Elaborating")

// BeginPhase displays the beginning of an elaboration phase.
func BeginPhase(phase string) {
	if rep.logLevel < LogLevelVerbose {
		return
	}

	currentPhase = phase
	phaseText := phase + "..." + strings.Repeat(" ", maxPhaseLength-len(phase)+2)
	phaseSpinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(infoColorFG))

	phaseSpinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: successStyleBG,
			Text:  "Done",
		},
	}

	phaseSpinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: errorStyleBG,
			Text:  "Fail",
		},
	}

	phaseSpinner.Start(phaseText)
	phaseStartTime = time.Now()
}

// EndPhase displays the end of the current elaboration phase.
func EndPhase(success bool) {
	if phaseSpinner == nil {
		return
	}

	phaseText := currentPhase + strings.Repeat(" ", maxPhaseLength-len(currentPhase)+2)
	if success {
		phaseSpinner.Success(phaseText, fmt.Sprintf("(%.3fs)", time.Since(phaseStartTime).Seconds()))
	} else {
		phaseSpinner.Fail(phaseText)
	}

	phaseSpinner = nil
}
