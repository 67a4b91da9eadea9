package model

import "fmt"

// MutagenKind is the category of mutation a mutagen produces.
type MutagenKind string

const (
	// MutagenArithmetic swaps arithmetic operators (+, -, *, /, %).
	MutagenArithmetic MutagenKind = "arithmetic"
	// MutagenBoolean flips boolean literals (true <-> false).
	MutagenBoolean MutagenKind = "boolean"
	// MutagenComparison swaps comparison operators (<, <=, >, >=, ==, !=).
	MutagenComparison MutagenKind = "comparison"
)

// Mutation is one candidate change to the source tree: replace Original with
// Replacement at Offset in File. A mutation is immutable once enumerated; the
// same value is applied to the scratch workspace and reverted after its
// scenario runs.
type Mutation struct {
	// File is the path of the mutated file, relative to the tree root.
	File string `json:"file"`
	// Line and Column locate the mutation site (1-based).
	Line   int `json:"line"`
	Column int `json:"column"`
	// Offset is the byte offset of Original within the file.
	Offset int `json:"offset"`
	// Scope names the enclosing function, if any.
	Scope string `json:"scope,omitempty"`

	Kind        MutagenKind `json:"kind"`
	Original    string      `json:"original"`
	Replacement string      `json:"replacement"`

	// Diff is a unified diff of the file with the mutation applied. It is
	// rendered at enumeration time and written to scenario logs; it is not
	// persisted in mutants.json.
	Diff string `json:"-"`
}

func (mu Mutation) String() string {
	return fmt.Sprintf("%s:%d:%d: replace %s with %s",
		mu.File, mu.Line, mu.Column, mu.Original, mu.Replacement)
}
