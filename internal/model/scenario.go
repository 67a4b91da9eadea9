package model

import "strings"

// ScenarioKind tags the variants of Scenario.
type ScenarioKind string

const (
	// ScenarioSourceTree builds in the original source tree.
	ScenarioSourceTree ScenarioKind = "source_tree"
	// ScenarioBaseline builds a scratch copy with no mutation applied.
	ScenarioBaseline ScenarioKind = "baseline"
	// ScenarioMutant builds with one mutation applied.
	ScenarioMutant ScenarioKind = "mutant"
)

// Scenario identifies what one pipeline run is building: the real source
// tree, the unmutated baseline copy, or one mutant. Only the mutant variant
// carries a payload. A Scenario is immutable once constructed.
type Scenario struct {
	Kind   ScenarioKind `json:"kind"`
	Mutant *MutantInfo  `json:"mutant,omitempty"`
}

// MutantInfo is the payload of a mutant scenario: the mutation plus its
// position in the run, fixed at enumeration time so progress display stays
// stable regardless of execution order.
type MutantInfo struct {
	Mutation Mutation `json:"mutation"`
	// Index is the zero-based position of this mutant in the run.
	Index int `json:"index"`
	// Total is the number of mutants in the run.
	Total int `json:"total"`
}

// SourceTreeScenario returns the scenario for the unmodified source tree.
func SourceTreeScenario() Scenario {
	return Scenario{Kind: ScenarioSourceTree}
}

// BaselineScenario returns the scenario for the unmutated scratch copy.
func BaselineScenario() Scenario {
	return Scenario{Kind: ScenarioBaseline}
}

// MutantScenario returns the scenario for one mutation with its index and
// the total mutant count.
func MutantScenario(mu Mutation, index, total int) Scenario {
	return Scenario{
		Kind:   ScenarioMutant,
		Mutant: &MutantInfo{Mutation: mu, Index: index, Total: total},
	}
}

// IsMutant reports whether the scenario builds with a mutation applied.
func (s Scenario) IsMutant() bool {
	return s.Kind == ScenarioMutant
}

// String renders the stable display form used in console output.
func (s Scenario) String() string {
	switch s.Kind {
	case ScenarioSourceTree:
		return "source tree"
	case ScenarioBaseline:
		return "baseline"
	case ScenarioMutant:
		return s.Mutant.Mutation.String()
	}

	return string(s.Kind)
}

// logNameReplacer maps characters that cannot appear in a flat log filename.
var logNameReplacer = strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_")

// LogName returns the display string flattened into a safe log filename,
// without extension.
func (s Scenario) LogName() string {
	return logNameReplacer.Replace(s.String())
}
