package mutagens

import (
	"go/ast"
	"go/token"

	m "mutlab.dev/pkg/mutlab/internal/model"
)

// Boolean produces a mutation flipping a boolean literal.
func Boolean(n ast.Node, fset *token.FileSet, file, scope string) []m.Mutation {
	ident, ok := n.(*ast.Ident)
	if !ok {
		return nil
	}

	var replacement string

	switch ident.Name {
	case "true":
		replacement = "false"
	case "false":
		replacement = "true"
	default:
		return nil
	}

	// Only the predeclared identifiers are flipped; anything resolved to a
	// local declaration is some shadowing name, not a literal.
	if ident.Obj != nil {
		return nil
	}

	p := fset.Position(ident.Pos())

	return []m.Mutation{{
		File:        file,
		Line:        p.Line,
		Column:      p.Column,
		Offset:      p.Offset,
		Scope:       scope,
		Kind:        m.MutagenBoolean,
		Original:    ident.Name,
		Replacement: replacement,
	}}
}
