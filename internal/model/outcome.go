package model

import "time"

// PhaseResult records one executed phase: its status and wall-clock duration.
type PhaseResult struct {
	Phase    Phase         `json:"phase"`
	Duration time.Duration `json:"duration_ns"`
	Status   PhaseStatus   `json:"status"`
}

// Outcome is the result of one full pipeline run for one scenario. It is
// created when the run starts and grows by appending phase results in
// execution order; recorded results are never altered.
type Outcome struct {
	Scenario Scenario      `json:"scenario"`
	LogPath  string        `json:"log_path"`
	Phases   []PhaseResult `json:"phases"`
}

// NewOutcome returns an empty outcome for the scenario, logging to logPath.
func NewOutcome(scenario Scenario, logPath string) *Outcome {
	return &Outcome{Scenario: scenario, LogPath: logPath}
}

// AddPhaseResult appends the result of the phase that just completed.
func (o *Outcome) AddPhaseResult(phase Phase, d time.Duration, status PhaseStatus) {
	o.Phases = append(o.Phases, PhaseResult{Phase: phase, Duration: d, Status: status})
}

// Success reports whether every recorded phase succeeded.
func (o *Outcome) Success() bool {
	for _, pr := range o.Phases {
		if !pr.Status.Success() {
			return false
		}
	}

	return true
}

// LastPhase returns the most recently recorded phase. It is only meaningful
// after at least one phase has run.
func (o *Outcome) LastPhase() Phase {
	if len(o.Phases) == 0 {
		return ""
	}

	return o.Phases[len(o.Phases)-1].Phase
}

// LastStatus returns the status of the most recently recorded phase.
func (o *Outcome) LastStatus() PhaseStatus {
	if len(o.Phases) == 0 {
		return ""
	}

	return o.Phases[len(o.Phases)-1].Status
}

// TimedOut reports whether any recorded phase hit its deadline.
func (o *Outcome) TimedOut() bool {
	for _, pr := range o.Phases {
		if pr.Status == StatusTimeout {
			return true
		}
	}

	return false
}

// TestDuration returns the wall-clock duration of the test phase, if it ran.
func (o *Outcome) TestDuration() (time.Duration, bool) {
	for _, pr := range o.Phases {
		if pr.Phase == PhaseTest {
			return pr.Duration, true
		}
	}

	return 0, false
}

// RunState is the terminal state of a whole run. A run whose source tree or
// baseline fails is reported as setup failure, never conflated with a
// completed run in which every mutant was caught.
type RunState string

const (
	// RunComplete means the baseline passed and every planned mutant ran.
	RunComplete RunState = "complete"
	// RunSetupFailed means the source tree or baseline scenario failed, so
	// no mutants were tested.
	RunSetupFailed RunState = "setup_failed"
)

// LabOutcome accumulates the outcomes of every scenario in one run. It only
// grows; it is serializable at any instant so a running or interrupted
// session can be inspected.
type LabOutcome struct {
	Outcomes []Outcome `json:"outcomes"`
}

// Add appends one scenario's outcome.
func (l *LabOutcome) Add(o Outcome) {
	l.Outcomes = append(l.Outcomes, o)
}

// Success reports whether the run found no problems: setup passed and every
// mutant was caught.
func (l *LabOutcome) Success() bool {
	if l.State() != RunComplete {
		return false
	}

	return len(l.MissedMutants()) == 0
}

// State classifies the run: setup failure if any non-mutant scenario failed,
// complete otherwise.
func (l *LabOutcome) State() RunState {
	for i := range l.Outcomes {
		o := &l.Outcomes[i]
		if !o.Scenario.IsMutant() && !o.Success() {
			return RunSetupFailed
		}
	}

	return RunComplete
}

// MissedMutants returns the mutant outcomes whose every phase passed: the
// test suite did not catch them.
func (l *LabOutcome) MissedMutants() []Outcome {
	var missed []Outcome

	for _, o := range l.Outcomes {
		if o.Scenario.IsMutant() && o.Success() {
			missed = append(missed, o)
		}
	}

	return missed
}

// CaughtCount counts mutants stopped by a failing or timed-out phase,
// excluding timeouts (see TimeoutCount).
func (l *LabOutcome) CaughtCount() int {
	count := 0

	for _, o := range l.Outcomes {
		if o.Scenario.IsMutant() && !o.Success() && !o.TimedOut() {
			count++
		}
	}

	return count
}

// TimeoutCount counts mutants whose test phase hung past the deadline.
func (l *LabOutcome) TimeoutCount() int {
	count := 0

	for _, o := range l.Outcomes {
		if o.Scenario.IsMutant() && o.TimedOut() {
			count++
		}
	}

	return count
}

// MutantCount counts mutant scenarios recorded so far.
func (l *LabOutcome) MutantCount() int {
	count := 0

	for _, o := range l.Outcomes {
		if o.Scenario.IsMutant() {
			count++
		}
	}

	return count
}

// Score is the fraction of tested mutants that did not survive, in [0, 1].
func (l *LabOutcome) Score() float64 {
	total := l.MutantCount()
	if total == 0 {
		return 0
	}

	return float64(total-len(l.MissedMutants())) / float64(total)
}
