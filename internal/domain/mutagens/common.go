// Package mutagens generates candidate mutations from Go syntax trees.
package mutagens

import (
	"go/ast"
	"go/token"

	m "mutlab.dev/pkg/mutlab/internal/model"
)

// Mutagen inspects one AST node and returns the mutations it can produce
// there. File is the path relative to the tree root; scope names the
// enclosing function.
type Mutagen func(n ast.Node, fset *token.FileSet, file, scope string) []m.Mutation

// All lists every built-in mutagen.
var All = []Mutagen{Arithmetic, Comparison, Boolean}

// operatorMutation builds a mutation that replaces the operator token at pos.
func operatorMutation(
	fset *token.FileSet,
	file, scope string,
	kind m.MutagenKind,
	pos token.Pos,
	original, replacement token.Token,
) m.Mutation {
	p := fset.Position(pos)

	return m.Mutation{
		File:        file,
		Line:        p.Line,
		Column:      p.Column,
		Offset:      p.Offset,
		Scope:       scope,
		Kind:        kind,
		Original:    original.String(),
		Replacement: replacement.String(),
	}
}
