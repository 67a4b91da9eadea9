// Package controller provides progress and result displays for mutation runs.
package controller

import (
	"os"

	"github.com/mattn/go-isatty"

	m "mutlab.dev/pkg/mutlab/internal/model"
)

// UI receives progress events from the lab as the run advances and renders
// the final summary. Implementations must tolerate being called from a
// single goroutine in scenario order.
type UI interface {
	// BeginCopy announces the scratch copy is starting.
	BeginCopy(copyTarget bool)
	// CopyProgress reports cumulative bytes copied into the scratch tree.
	CopyProgress(bytes int64)
	// MutantsFound reports how many mutations will be tested.
	MutantsFound(n int)
	// ScenarioStarted announces one pipeline run beginning.
	ScenarioStarted(scenario m.Scenario)
	// PhaseStarted announces a phase transition within a scenario.
	PhaseStarted(scenario m.Scenario, phase m.Phase)
	// ScenarioFinished reports a completed outcome.
	ScenarioFinished(outcome m.Outcome, showTimes bool)
	// Info prints a one-line informational message.
	Info(message string)
	// Error prints a one-line error summary.
	Error(message string)
	// Summary renders the end-of-run results.
	Summary(lab *m.LabOutcome)
	// Close releases any display resources; no events may follow it.
	Close()
}

// IsTTY reports whether f is attached to a terminal, deciding between the
// live progress view and plain console output.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
