package mutagens

import (
	"go/ast"
	"go/token"

	m "mutlab.dev/pkg/mutlab/internal/model"
)

// comparisonSwaps pairs each comparison operator with the one that flips
// boundary behavior: strict with non-strict, equal with not-equal.
var comparisonSwaps = map[token.Token]token.Token{
	token.LSS: token.LEQ,
	token.LEQ: token.LSS,
	token.GTR: token.GEQ,
	token.GEQ: token.GTR,
	token.EQL: token.NEQ,
	token.NEQ: token.EQL,
}

// Comparison produces a mutation swapping the operator of a comparison.
func Comparison(n ast.Node, fset *token.FileSet, file, scope string) []m.Mutation {
	binExpr, ok := n.(*ast.BinaryExpr)
	if !ok {
		return nil
	}

	replacement, ok := comparisonSwaps[binExpr.Op]
	if !ok {
		return nil
	}

	return []m.Mutation{
		operatorMutation(fset, file, scope, m.MutagenComparison, binExpr.OpPos, binExpr.Op, replacement),
	}
}
