package domain

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"mutlab.dev/pkg/mutlab/internal/adapter"
	"mutlab.dev/pkg/mutlab/internal/controller"
	m "mutlab.dev/pkg/mutlab/internal/model"
)

const (
	// minAutoTimeout floors the derived test timeout so short suites are
	// not killed by normal variance.
	minAutoTimeout = 20 * time.Second
	// autoTimeoutMultiplier scales the baseline test duration into the
	// timeout that catches mutants inducing infinite loops.
	autoTimeoutMultiplier = 5

	traceLogMaxSizeMB = 10
)

// Lab runs the whole experiment: validate the unmutated tree, calibrate the
// test timeout, then apply and test every mutation in an isolated scratch
// copy, persisting outcomes incrementally.
//
// The scratch workspace is a single mutable resource; scenarios run strictly
// one at a time so at most one mutation is ever applied to it.
type Lab struct {
	runner    adapter.BuildRunner
	workspace adapter.Workspace
	mutagen   Mutagen
	ui        controller.UI

	// out is the results directory of the run in progress.
	out *adapter.OutputDir
}

// NewLab constructs a Lab from its collaborators.
func NewLab(runner adapter.BuildRunner, workspace adapter.Workspace, mutagen Mutagen, ui controller.UI) *Lab {
	return &Lab{
		runner:    runner,
		workspace: workspace,
		mutagen:   mutagen,
		ui:        ui,
	}
}

// autoTestTimeout derives the test-phase timeout from the baseline's
// measured test duration: max(20s, 5 x duration).
func autoTestTimeout(baselineTest time.Duration) time.Duration {
	timeout := baselineTest * autoTimeoutMultiplier
	if timeout < minAutoTimeout {
		return minAutoTimeout
	}

	return timeout
}

// Run tests the unmutated tree and then every mutation, returning the
// accumulated outcomes. Expected build and test failures are captured as
// outcome data; the error return is reserved for environment failures and
// interruption. On interruption the outcomes accumulated so far are returned
// alongside the error.
func (l *Lab) Run(ctx context.Context, tree string, opts m.Options) (*m.LabOutcome, error) {
	lab := &m.LabOutcome{}

	baseDir := opts.OutputDir
	if baseDir == "" {
		baseDir = tree
	}

	out, err := adapter.NewOutputDir(baseDir)
	if err != nil {
		return lab, err
	}

	l.out = out

	// The trace logger is scoped to the run: installed here, restored on
	// return, so diagnostics land in the run's own output directory.
	restoreLogger := installTraceLogger(out.TraceLogPath())
	defer restoreLogger()

	slog.Info("created trace log", "path", out.TraceLogPath())

	if opts.BuildSource {
		// Checking and building the real tree first keeps its build cache
		// warm and fails fast on a tree that cannot build at all.
		phases := []m.Phase{m.PhaseCheck, m.PhaseBuild}
		if opts.CheckOnly {
			phases = phases[:1]
		}

		outcome, err := l.runPhases(ctx, tree, m.SourceTreeScenario(), phases, &opts)
		if err != nil {
			return lab, err
		}

		lab.Add(outcome)

		if err := out.WriteLabOutcome(lab); err != nil {
			return lab, err
		}

		if !outcome.Success() {
			l.ui.Error(fmt.Sprintf("%s failed in the source tree, not continuing", outcome.LastPhase()))
			return lab, nil
		}
	}

	l.ui.BeginCopy(opts.CopyTarget)

	buildDir, err := l.workspace.CopyTree(ctx, tree, opts.CopyTarget, l.ui.CopyProgress)
	if err != nil {
		return lab, err
	}

	defer func() {
		if rmErr := l.workspace.Remove(buildDir); rmErr != nil {
			slog.Warn("failed to remove scratch directory", "dir", buildDir, "error", rmErr)
		}
	}()

	// Mutation results mean nothing against a tree whose own tests fail.
	baseline, err := l.runPhases(ctx, buildDir, m.BaselineScenario(), m.AllPhases, &opts)
	if err != nil {
		return lab, err
	}

	lab.Add(baseline)

	if err := out.WriteLabOutcome(lab); err != nil {
		return lab, err
	}

	if !baseline.Success() {
		l.ui.Error(fmt.Sprintf("%s failed in an unmutated tree, so no mutants were tested", baseline.LastPhase()))
		return lab, nil
	}

	if !opts.HasTestTimeout() {
		if baselineTest, ok := baseline.TestDuration(); ok {
			opts.TestTimeout = autoTestTimeout(baselineTest)

			slog.Info("auto-set test timeout", "timeout", opts.TestTimeout)

			if opts.ShowTimes {
				l.ui.Info(fmt.Sprintf("Auto-set test timeout to %.1fs", opts.TestTimeout.Seconds()))
			}
		}
	}

	mutations, err := l.mutagen.Mutations(ctx, tree)
	if err != nil {
		return lab, err
	}

	if opts.Shuffle {
		rand.Shuffle(len(mutations), func(i, j int) {
			mutations[i], mutations[j] = mutations[j], mutations[i]
		})
	}

	// The full plan is durably recorded before any mutant runs, so a crash
	// mid-run still leaves a record of what was intended.
	if err := out.WriteMutants(mutations); err != nil {
		return lab, err
	}

	l.ui.MutantsFound(len(mutations))

	for i, mu := range mutations {
		if err := ctx.Err(); err != nil {
			return lab, fmt.Errorf("run interrupted: %w", err)
		}

		scenario := m.MutantScenario(mu, i, len(mutations))

		var outcome m.Outcome

		err := ApplyAndRun(buildDir, mu, func() error {
			var runErr error

			outcome, runErr = l.runPhases(ctx, buildDir, scenario, m.AllPhases, &opts)

			return runErr
		})
		if err != nil {
			return lab, err
		}

		lab.Add(outcome)

		// Rewritten after every scenario so the file can be watched, and so
		// nothing is lost if the run stops or is interrupted.
		if err := out.WriteLabOutcome(lab); err != nil {
			return lab, err
		}
	}

	return lab, nil
}

// installTraceLogger points the process-wide slog default at the run's
// trace.log, size-rotated, and returns a restore function.
func installTraceLogger(path string) func() {
	prev := slog.Default()

	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    traceLogMaxSizeMB,
		MaxBackups: 1,
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(sink, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	return func() {
		slog.SetDefault(prev)
		_ = sink.Close()
	}
}
