package controller

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	m "mutlab.dev/pkg/mutlab/internal/model"
)

var (
	styleCaught  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleMissed  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	styleTimeout = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleUnbuilt = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Console is the plain line-oriented UI, used when stdout is not a terminal
// or the live view is disabled.
type Console struct {
	out io.Writer
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// BeginCopy announces the scratch copy.
func (c *Console) BeginCopy(copyTarget bool) {
	if copyTarget {
		c.printf("Copying source and build products to scratch directory\n")
		return
	}

	c.printf("Copying source to scratch directory\n")
}

// CopyProgress is a no-op for the plain console; per-file updates would
// flood a non-interactive stream.
func (c *Console) CopyProgress(int64) {}

// MutantsFound reports the size of the plan.
func (c *Console) MutantsFound(n int) {
	noun := "mutations"
	if n == 1 {
		noun = "mutation"
	}

	c.printf("Found %d %s to test\n", n, noun)
}

// ScenarioStarted prints the scenario header with mutant progress.
func (c *Console) ScenarioStarted(scenario m.Scenario) {
	if scenario.IsMutant() {
		c.printf("[%d/%d] %s ", scenario.Mutant.Index+1, scenario.Mutant.Total, scenario)
		return
	}

	c.printf("%s ", scenario)
}

// PhaseStarted marks a phase transition inline.
func (c *Console) PhaseStarted(_ m.Scenario, phase m.Phase) {
	c.printf("... %s ", phase)
}

// ScenarioFinished prints the outcome's status, and timings when asked.
func (c *Console) ScenarioFinished(outcome m.Outcome, showTimes bool) {
	c.printf("... %s", StatusLabel(outcome))

	if showTimes {
		var total time.Duration
		for _, pr := range outcome.Phases {
			total += pr.Duration
		}

		c.printf(" in %.1fs", total.Seconds())
	}

	c.printf("\n")
}

// Info prints an informational line.
func (c *Console) Info(message string) {
	c.printf("%s\n", message)
}

// Error prints a one-line error summary.
func (c *Console) Error(message string) {
	c.printf("%s\n", styleError.Render(message))
}

// Summary renders the final counts table and mutation score, plus the diff
// location of every missed mutant.
func (c *Console) Summary(lab *m.LabOutcome) {
	if lab.State() == m.RunSetupFailed {
		return
	}

	for _, missed := range lab.MissedMutants() {
		c.printf("%s %s\n", styleMissed.Render("MISSED"), missed.Scenario)
	}

	c.printf("\n%s", renderSummaryTable(lab))
	c.printf("Mutation score: %.0f%%\n", lab.Score()*100)
}

// Close is a no-op for the plain console.
func (c *Console) Close() {}

func (c *Console) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// StatusLabel renders the styled one-word status for a finished outcome.
func StatusLabel(outcome m.Outcome) string {
	if !outcome.Scenario.IsMutant() {
		if outcome.Success() {
			return styleCaught.Render("ok")
		}

		return styleMissed.Render(fmt.Sprintf("%s FAILED", outcome.LastPhase()))
	}

	switch {
	case outcome.Success():
		return styleMissed.Render("missed")
	case outcome.TimedOut():
		return styleTimeout.Render("timeout")
	case outcome.LastPhase() == m.PhaseTest:
		return styleCaught.Render("caught")
	default:
		return styleUnbuilt.Render(fmt.Sprintf("%s failed", outcome.LastPhase()))
	}
}

func renderSummaryTable(lab *m.LabOutcome) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Result", "Count"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	table.Append([]string{"caught", fmt.Sprintf("%d", lab.CaughtCount())})
	table.Append([]string{"timeout", fmt.Sprintf("%d", lab.TimeoutCount())})
	table.Append([]string{"missed", fmt.Sprintf("%d", len(lab.MissedMutants()))})
	table.SetFooter([]string{"total mutants", fmt.Sprintf("%d", lab.MutantCount())})

	table.Render()

	return buf.String()
}
