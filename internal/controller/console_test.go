package controller

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	m "mutlab.dev/pkg/mutlab/internal/model"
)

func mutantOutcome(t *testing.T, phases ...m.PhaseResult) m.Outcome {
	t.Helper()

	mu := m.Mutation{File: "calc.go", Line: 4, Column: 11, Original: "+", Replacement: "-"}
	o := m.NewOutcome(m.MutantScenario(mu, 0, 3), "")
	o.Phases = phases

	return *o
}

func TestStatusLabel(t *testing.T) {
	pass := func(p m.Phase) m.PhaseResult { return m.PhaseResult{Phase: p, Status: m.StatusSuccess} }
	fail := func(p m.Phase) m.PhaseResult { return m.PhaseResult{Phase: p, Status: m.StatusFailure} }

	t.Run("baseline", func(t *testing.T) {
		o := m.NewOutcome(m.BaselineScenario(), "")
		o.Phases = []m.PhaseResult{pass(m.PhaseCheck), pass(m.PhaseBuild), pass(m.PhaseTest)}
		require.Contains(t, StatusLabel(*o), "ok")

		o.Phases = []m.PhaseResult{fail(m.PhaseCheck)}
		require.Contains(t, StatusLabel(*o), "check FAILED")
	})

	t.Run("mutant caught by a failing test", func(t *testing.T) {
		o := mutantOutcome(t, pass(m.PhaseCheck), pass(m.PhaseBuild), fail(m.PhaseTest))
		require.Contains(t, StatusLabel(o), "caught")
	})

	t.Run("surviving mutant is missed", func(t *testing.T) {
		o := mutantOutcome(t, pass(m.PhaseCheck), pass(m.PhaseBuild), pass(m.PhaseTest))
		require.Contains(t, StatusLabel(o), "missed")
	})

	t.Run("hung mutant is a timeout", func(t *testing.T) {
		o := mutantOutcome(t, pass(m.PhaseCheck), pass(m.PhaseBuild),
			m.PhaseResult{Phase: m.PhaseTest, Status: m.StatusTimeout})
		require.Contains(t, StatusLabel(o), "timeout")
	})

	t.Run("mutant stopped before the tests", func(t *testing.T) {
		o := mutantOutcome(t, pass(m.PhaseCheck), fail(m.PhaseBuild))
		require.Contains(t, StatusLabel(o), "build failed")
	})
}

func TestConsole(t *testing.T) {
	t.Run("mutant header shows one-based progress", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewConsole(&buf)

		mu := m.Mutation{File: "calc.go", Line: 4, Column: 11, Original: "+", Replacement: "-"}
		c.ScenarioStarted(m.MutantScenario(mu, 0, 3))

		require.Contains(t, buf.String(), "[1/3]")
		require.Contains(t, buf.String(), "calc.go:4:11: replace + with -")
	})

	t.Run("mutation count uses the right noun", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewConsole(&buf)

		c.MutantsFound(1)
		c.MutantsFound(7)

		require.Contains(t, buf.String(), "Found 1 mutation to test")
		require.Contains(t, buf.String(), "Found 7 mutations to test")
	})

	t.Run("timings shown only when requested", func(t *testing.T) {
		o := mutantOutcome(t,
			m.PhaseResult{Phase: m.PhaseTest, Duration: 1500 * time.Millisecond, Status: m.StatusFailure})

		var quiet bytes.Buffer
		NewConsole(&quiet).ScenarioFinished(o, false)
		require.NotContains(t, quiet.String(), "in 1.5s")

		var timed bytes.Buffer
		NewConsole(&timed).ScenarioFinished(o, true)
		require.Contains(t, timed.String(), "in 1.5s")
	})

	t.Run("summary lists missed mutants and the score", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewConsole(&buf)

		caught := mutantOutcome(t, m.PhaseResult{Phase: m.PhaseTest, Status: m.StatusFailure})
		missed := mutantOutcome(t, m.PhaseResult{Phase: m.PhaseTest, Status: m.StatusSuccess})

		lab := &m.LabOutcome{}
		lab.Add(caught)
		lab.Add(missed)

		c.Summary(lab)

		out := buf.String()
		require.Contains(t, out, "MISSED")
		require.Contains(t, out, "calc.go:4:11: replace + with -")
		require.Contains(t, out, "Mutation score: 50%")
	})

	t.Run("summary is suppressed after a setup failure", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewConsole(&buf)

		o := m.NewOutcome(m.BaselineScenario(), "")
		o.AddPhaseResult(m.PhaseTest, time.Second, m.StatusFailure)

		lab := &m.LabOutcome{}
		lab.Add(*o)

		c.Summary(lab)
		require.Empty(t, buf.String())
	})
}
