package mutagens

import (
	"go/ast"
	"go/token"

	m "mutlab.dev/pkg/mutlab/internal/model"
)

// arithmeticSwaps maps each arithmetic operator to its mutated counterpart.
// One swap per site keeps the plan size linear in the source.
var arithmeticSwaps = map[token.Token]token.Token{
	token.ADD: token.SUB,
	token.SUB: token.ADD,
	token.MUL: token.QUO,
	token.QUO: token.MUL,
	token.REM: token.MUL,
}

// Arithmetic produces a mutation swapping the operator of an arithmetic
// binary expression.
func Arithmetic(n ast.Node, fset *token.FileSet, file, scope string) []m.Mutation {
	binExpr, ok := n.(*ast.BinaryExpr)
	if !ok {
		return nil
	}

	replacement, ok := arithmeticSwaps[binExpr.Op]
	if !ok {
		return nil
	}

	// `+` on strings is concatenation; `-` on them would not compile. The
	// parser alone cannot tell, so string-literal operands are skipped.
	if isStringLiteral(binExpr.X) || isStringLiteral(binExpr.Y) {
		return nil
	}

	return []m.Mutation{
		operatorMutation(fset, file, scope, m.MutagenArithmetic, binExpr.OpPos, binExpr.Op, replacement),
	}
}

func isStringLiteral(expr ast.Expr) bool {
	lit, ok := expr.(*ast.BasicLit)
	return ok && lit.Kind == token.STRING
}
