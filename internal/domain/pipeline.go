package domain

import (
	"context"
	"log/slog"
	"time"

	m "mutlab.dev/pkg/mutlab/internal/model"
)

// phaseArgs maps a phase to its fixed build tool arguments. Only the test
// phase takes user-supplied extra arguments.
func phaseArgs(phase m.Phase, opts *m.Options) []string {
	switch phase {
	case m.PhaseCheck:
		return []string{"vet", "./..."}
	case m.PhaseBuild:
		return []string{"build", "./..."}
	case m.PhaseTest:
		return append([]string{"test", "./..."}, opts.ExtraTestArgs...)
	}

	return nil
}

// runPhases executes phases strictly in order against dir for one scenario,
// stopping at the first failing or timed-out phase. In check-only mode a
// successful check ends the pipeline regardless of the phases requested.
// Only the test phase runs under a timeout.
//
// Build and test failures are recorded in the outcome, not returned; the
// error return is reserved for environment problems.
func (l *Lab) runPhases(
	ctx context.Context,
	dir string,
	scenario m.Scenario,
	phases []m.Phase,
	opts *m.Options,
) (m.Outcome, error) {
	logFile, err := l.out.CreateLog(scenario.LogName())
	if err != nil {
		return m.Outcome{}, err
	}

	defer func() { _ = logFile.Close() }()

	logFile.Message(scenario.String())

	if scenario.IsMutant() {
		logFile.Message(scenario.Mutant.Mutation.Diff)
	}

	l.ui.ScenarioStarted(scenario)

	outcome := m.NewOutcome(scenario, logFile.Path())

	for _, phase := range phases {
		l.ui.PhaseStarted(scenario, phase)
		logFile.Message("** " + phase.String())

		var timeout time.Duration
		if phase == m.PhaseTest {
			timeout = opts.TestTimeout
		}

		start := time.Now()

		status, err := l.runner.Run(ctx, phaseArgs(phase, opts), dir, timeout, logFile)
		if err != nil {
			return *outcome, err
		}

		outcome.AddPhaseResult(phase, time.Since(start), status)

		if (phase == m.PhaseCheck && opts.CheckOnly) || !status.Success() {
			break
		}
	}

	slog.Info("scenario finished",
		"scenario", scenario.String(),
		"last_phase", outcome.LastPhase().String(),
		"status", outcome.LastStatus().String(),
	)

	l.ui.ScenarioFinished(*outcome, opts.ShowTimes)

	return *outcome, nil
}
