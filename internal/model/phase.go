// Package model defines the data structures for mutation testing runs.
package model

// Phase is one step of the build pipeline for a single scenario.
type Phase string

const (
	// PhaseCheck runs the build tool's static check (`go vet`).
	PhaseCheck Phase = "check"
	// PhaseBuild compiles the tree including its tests.
	PhaseBuild Phase = "build"
	// PhaseTest runs the test suite.
	PhaseTest Phase = "test"
)

// AllPhases lists every phase in pipeline order: check, then build, then test.
var AllPhases = []Phase{PhaseCheck, PhaseBuild, PhaseTest}

func (p Phase) String() string {
	return string(p)
}

// PhaseStatus is the structured result of running one phase.
type PhaseStatus string

const (
	// StatusSuccess means the build tool exited zero.
	StatusSuccess PhaseStatus = "success"
	// StatusFailure means the build tool exited non-zero.
	StatusFailure PhaseStatus = "failure"
	// StatusTimeout means the phase exceeded its deadline and was killed.
	// Kept distinct from failure so reporting can tell "mutant survived"
	// from "mutant hung".
	StatusTimeout PhaseStatus = "timeout"
)

// Success reports whether the phase completed successfully.
func (s PhaseStatus) Success() bool {
	return s == StatusSuccess
}

func (s PhaseStatus) String() string {
	return string(s)
}
