package domain

import (
	"context"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mutlab.dev/pkg/mutlab/internal/adapter"
	"mutlab.dev/pkg/mutlab/internal/controller"
	m "mutlab.dev/pkg/mutlab/internal/model"
)

type runnerCall struct {
	args    []string
	dir     string
	timeout time.Duration
}

// fakeRunner scripts phase statuses instead of invoking a build tool. Check
// and build phases use fixed statuses; each test phase call pops the next
// entry from testQueue. The zero value of a status means success.
type fakeRunner struct {
	mu          sync.Mutex
	calls       []runnerCall
	checkStatus m.PhaseStatus
	buildStatus m.PhaseStatus
	testQueue   []m.PhaseStatus
}

func (f *fakeRunner) Run(
	_ context.Context,
	args []string,
	dir string,
	timeout time.Duration,
	log io.Writer,
) (m.PhaseStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, runnerCall{args: args, dir: dir, timeout: timeout})
	_, _ = log.Write([]byte("tool output\n"))

	status := m.StatusSuccess

	switch args[0] {
	case "vet":
		if f.checkStatus != "" {
			status = f.checkStatus
		}
	case "build":
		if f.buildStatus != "" {
			status = f.buildStatus
		}
	case "test":
		if len(f.testQueue) > 0 {
			status = f.testQueue[0]
			f.testQueue = f.testQueue[1:]
		}
	}

	return status, nil
}

func (f *fakeRunner) phasesRun() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var phases []string
	for _, call := range f.calls {
		phases = append(phases, call.args[0])
	}

	return phases
}

func newTestLab(t *testing.T, runner adapter.BuildRunner) *Lab {
	t.Helper()

	out, err := adapter.NewOutputDir(t.TempDir())
	require.NoError(t, err)

	lab := NewLab(runner, adapter.NewLocalWorkspace(), NewMutagen(), controller.NewConsole(io.Discard))
	lab.out = out

	return lab
}

func TestRunPhases(t *testing.T) {
	ctx := context.Background()

	t.Run("phases run in order with success", func(t *testing.T) {
		runner := &fakeRunner{}
		lab := newTestLab(t, runner)

		outcome, err := lab.runPhases(ctx, t.TempDir(), m.BaselineScenario(), m.AllPhases, &m.Options{})
		require.NoError(t, err)
		require.True(t, outcome.Success())
		require.Equal(t, []string{"vet", "build", "test"}, runner.phasesRun())
		require.Len(t, outcome.Phases, 3)
	})

	t.Run("failing check stops the pipeline with one recorded phase", func(t *testing.T) {
		runner := &fakeRunner{checkStatus: m.StatusFailure}
		lab := newTestLab(t, runner)

		outcome, err := lab.runPhases(ctx, t.TempDir(), m.BaselineScenario(), m.AllPhases, &m.Options{})
		require.NoError(t, err)
		require.False(t, outcome.Success())
		require.Equal(t, []string{"vet"}, runner.phasesRun())
		require.Len(t, outcome.Phases, 1)
		require.Equal(t, m.PhaseCheck, outcome.LastPhase())
	})

	t.Run("failing build never reaches test", func(t *testing.T) {
		runner := &fakeRunner{buildStatus: m.StatusFailure}
		lab := newTestLab(t, runner)

		outcome, err := lab.runPhases(ctx, t.TempDir(), m.BaselineScenario(), m.AllPhases, &m.Options{})
		require.NoError(t, err)
		require.Equal(t, []string{"vet", "build"}, runner.phasesRun())
		require.Equal(t, m.PhaseBuild, outcome.LastPhase())
	})

	t.Run("check-only stops after a successful check", func(t *testing.T) {
		runner := &fakeRunner{}
		lab := newTestLab(t, runner)

		outcome, err := lab.runPhases(ctx, t.TempDir(), m.BaselineScenario(), m.AllPhases, &m.Options{CheckOnly: true})
		require.NoError(t, err)
		require.True(t, outcome.Success())
		require.Equal(t, []string{"vet"}, runner.phasesRun())
		require.Len(t, outcome.Phases, 1)
	})

	t.Run("only the test phase runs under a timeout", func(t *testing.T) {
		runner := &fakeRunner{}
		lab := newTestLab(t, runner)

		opts := &m.Options{TestTimeout: 7 * time.Second, ExtraTestArgs: []string{"-count=1"}}

		_, err := lab.runPhases(ctx, t.TempDir(), m.BaselineScenario(), m.AllPhases, opts)
		require.NoError(t, err)

		require.Len(t, runner.calls, 3)
		require.Zero(t, runner.calls[0].timeout)
		require.Zero(t, runner.calls[1].timeout)
		require.Equal(t, 7*time.Second, runner.calls[2].timeout)
		require.Equal(t, []string{"test", "./...", "-count=1"}, runner.calls[2].args)
	})

	t.Run("timed-out test is recorded as timeout", func(t *testing.T) {
		runner := &fakeRunner{testQueue: []m.PhaseStatus{m.StatusTimeout}}
		lab := newTestLab(t, runner)

		outcome, err := lab.runPhases(ctx, t.TempDir(), m.BaselineScenario(), m.AllPhases, &m.Options{})
		require.NoError(t, err)
		require.True(t, outcome.TimedOut())
		require.False(t, outcome.Success())
	})

	t.Run("mutant diff is written to the scenario log", func(t *testing.T) {
		runner := &fakeRunner{}
		lab := newTestLab(t, runner)

		mu := m.Mutation{File: "calc.go", Original: "+", Replacement: "-", Diff: "--- calc.go\n+++ calc.go (mutated)\n"}
		scenario := m.MutantScenario(mu, 0, 1)

		outcome, err := lab.runPhases(ctx, t.TempDir(), scenario, m.AllPhases, &m.Options{})
		require.NoError(t, err)

		data, err := os.ReadFile(outcome.LogPath)
		require.NoError(t, err)
		require.Contains(t, string(data), "+++ calc.go (mutated)")
		require.Contains(t, string(data), "tool output")
	})
}
