package parser

import (
	"gopkg.starbuild.dev/langfront.go/internal/ast"
	"gopkg.starbuild.dev/langfront.go/internal/diag"
)

// isLegalAssignTargetExpr reports whether expr may appear, on its own, as
// an assignment target: an identifier, an attribute access, a subscript
// (single or double index), or a slice. Literals, calls, comprehensions,
// conditionals, operators, and lambdas are never legal targets.
func isLegalAssignTargetExpr(expr ast.Expr) bool {
	switch expr.(type) {
	case ast.Identifier, ast.Dot, ast.Index, ast.Index2, ast.Slice:
		return true
	default:
		return false
	}
}

// checkAssignTarget validates lhs as the target of a plain assignment or a
// for-loop, where a bare or parenthesized tuple/list of legal targets is
// permitted in addition to a single legal target.
func (p *Parser) checkAssignTarget(lhs ast.Expr) bool {
	switch t := lhs.(type) {
	case ast.Tuple:
		if len(t.Elts) == 0 {
			p.fail(diag.IllegalAssignmentTarget, t.GetSpan(), "cannot assign to an empty target list")
			return false
		}
		for _, e := range t.Elts {
			if !p.checkAssignTarget(e) {
				return false
			}
		}
		return true
	case ast.List:
		if len(t.Elts) == 0 {
			p.fail(diag.IllegalAssignmentTarget, t.GetSpan(), "cannot assign to an empty target list")
			return false
		}
		for _, e := range t.Elts {
			if !p.checkAssignTarget(e) {
				return false
			}
		}
		return true
	case ast.Slice:
		if t.Step != nil {
			p.fail(diag.IllegalAssignmentTarget, t.GetSpan(), "slice with a step is not a valid assignment target")
			return false
		}
		return true
	default:
		if !isLegalAssignTargetExpr(lhs) {
			p.fail(diag.IllegalAssignmentTarget, lhs.GetSpan(), "%s is not a valid assignment target", describeExpr(lhs))
			return false
		}
		return true
	}
}

// checkSingleAssignTarget validates lhs as the target of an augmented
// assignment (`+=` and friends), which unlike plain assignment never
// accepts a tuple or list of targets.
func (p *Parser) checkSingleAssignTarget(lhs ast.Expr) bool {
	if !isLegalAssignTargetExpr(lhs) {
		p.fail(diag.IllegalAssignmentTarget, lhs.GetSpan(), "%s is not a valid target for augmented assignment", describeExpr(lhs))
		return false
	}
	return true
}

func describeExpr(expr ast.Expr) string {
	switch expr.(type) {
	case ast.Literal:
		return "a literal"
	case ast.Call:
		return "a call expression"
	case ast.ListComprehension, ast.DictComprehension:
		return "a comprehension"
	case ast.If:
		return "a conditional expression"
	case ast.Op:
		return "an operator expression"
	case ast.Lambda:
		return "a lambda expression"
	case ast.Tuple:
		return "a tuple"
	case ast.List:
		return "a list"
	case ast.Dict:
		return "a dict"
	default:
		return "this expression"
	}
}
