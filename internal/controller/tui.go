package controller

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "mutlab.dev/pkg/mutlab/internal/model"
)

// TUI is the live progress view for interactive terminals: a spinner, the
// scenario and phase currently running, and a progress bar over the mutant
// plan. The final summary is printed as plain text once the program exits.
type TUI struct {
	out      io.Writer
	program  *tea.Program
	done     chan struct{}
	shutdown sync.Once
	console  *Console
}

// NewTUI starts the Bubble Tea program and returns a UI that feeds it
// events.
func NewTUI(out io.Writer) *TUI {
	t := &TUI{
		out:     out,
		done:    make(chan struct{}),
		console: NewConsole(out),
	}

	t.program = tea.NewProgram(newRunModel(), tea.WithOutput(out), tea.WithoutSignalHandler())

	go func() {
		defer close(t.done)
		_, _ = t.program.Run()
	}()

	return t
}

type beginCopyMsg struct{ copyTarget bool }

type copyProgressMsg struct{ bytes int64 }

type mutantsFoundMsg struct{ total int }

type scenarioStartedMsg struct{ scenario m.Scenario }

type phaseStartedMsg struct{ phase m.Phase }

type scenarioFinishedMsg struct {
	outcome   m.Outcome
	showTimes bool
}

type lineMsg struct{ text string }

// BeginCopy announces the scratch copy.
func (t *TUI) BeginCopy(copyTarget bool) {
	t.program.Send(beginCopyMsg{copyTarget: copyTarget})
}

// CopyProgress updates the bytes-copied readout.
func (t *TUI) CopyProgress(bytes int64) {
	t.program.Send(copyProgressMsg{bytes: bytes})
}

// MutantsFound sizes the progress bar.
func (t *TUI) MutantsFound(n int) {
	t.program.Send(mutantsFoundMsg{total: n})
}

// ScenarioStarted switches the status line to the new scenario.
func (t *TUI) ScenarioStarted(scenario m.Scenario) {
	t.program.Send(scenarioStartedMsg{scenario: scenario})
}

// PhaseStarted updates the phase shown on the status line.
func (t *TUI) PhaseStarted(_ m.Scenario, phase m.Phase) {
	t.program.Send(phaseStartedMsg{phase: phase})
}

// ScenarioFinished logs the outcome above the status area and advances the
// progress bar.
func (t *TUI) ScenarioFinished(outcome m.Outcome, showTimes bool) {
	t.program.Send(scenarioFinishedMsg{outcome: outcome, showTimes: showTimes})
}

// Info prints a line above the status area.
func (t *TUI) Info(message string) {
	t.program.Send(lineMsg{text: message})
}

// Error prints a styled error line above the status area.
func (t *TUI) Error(message string) {
	t.program.Send(lineMsg{text: styleError.Render(message)})
}

// Summary shuts the live view down and prints the plain summary, so it
// remains in the scrollback after the program exits.
func (t *TUI) Summary(lab *m.LabOutcome) {
	t.Close()
	t.console.Summary(lab)
}

// Close stops the Bubble Tea program and waits for it to unwind.
func (t *TUI) Close() {
	t.shutdown.Do(func() {
		t.program.Quit()
		<-t.done
	})
}

var styleStatusLine = lipgloss.NewStyle().Faint(true)

// runModel is the Bubble Tea model behind the live view.
type runModel struct {
	spinner  spinner.Model
	progress progress.Model

	copying    bool
	copyTarget bool
	bytes      int64

	total    int
	finished int

	scenario string
	phase    m.Phase
}

func newRunModel() runModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return runModel{
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

func (rm runModel) Init() tea.Cmd {
	return rm.spinner.Tick
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case beginCopyMsg:
		rm.copying = true
		rm.copyTarget = msg.copyTarget

		return rm, nil
	case copyProgressMsg:
		rm.bytes = msg.bytes
		return rm, nil
	case mutantsFoundMsg:
		rm.copying = false
		rm.total = msg.total

		return rm, tea.Printf("Found %d mutations to test", msg.total)
	case scenarioStartedMsg:
		rm.copying = false
		rm.scenario = msg.scenario.String()
		rm.phase = ""

		return rm, nil
	case phaseStartedMsg:
		rm.phase = msg.phase
		return rm, nil
	case scenarioFinishedMsg:
		if msg.outcome.Scenario.IsMutant() {
			rm.finished++
		}

		rm.scenario = ""

		return rm, tea.Printf("%s ... %s", msg.outcome.Scenario, StatusLabel(msg.outcome))
	case lineMsg:
		return rm, tea.Println(msg.text)
	case spinner.TickMsg:
		var cmd tea.Cmd

		rm.spinner, cmd = rm.spinner.Update(msg)

		return rm, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return rm, tea.Quit
		}

		return rm, nil
	default:
		return rm, nil
	}
}

func (rm runModel) View() string {
	if rm.copying {
		what := "source"
		if rm.copyTarget {
			what = "source and build products"
		}

		return fmt.Sprintf("%s copying %s to scratch directory (%d MB)\n",
			rm.spinner.View(), what, rm.bytes/(1<<20))
	}

	if rm.scenario == "" {
		return ""
	}

	status := rm.scenario
	if rm.phase != "" {
		status = fmt.Sprintf("%s · %s", rm.scenario, rm.phase)
	}

	line := fmt.Sprintf("%s %s", rm.spinner.View(), styleStatusLine.Render(status))
	if rm.total > 0 {
		line += "\n" + rm.progress.ViewAs(float64(rm.finished)/float64(rm.total))
	}

	return line + "\n"
}
