package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.starbuild.dev/langfront.go/internal/ast"
	"gopkg.starbuild.dev/langfront.go/internal/dialect"
	"gopkg.starbuild.dev/langfront.go/internal/diag"
	"gopkg.starbuild.dev/langfront.go/internal/fs"
	"gopkg.starbuild.dev/langfront.go/internal/lexer"
	"gopkg.starbuild.dev/langfront.go/internal/token"
)

func mustParse(t *testing.T, src string, gate dialect.Gate) ast.StatementsStmt {
	t.Helper()
	ctx := context.Background()
	body, err := fs.NewFileString("t.star", src).Body(ctx)
	require.NoError(t, err)

	toks, d := lexer.Lex(ctx, body, diag.NewReporter())
	require.Nil(t, d, "lex failed: %v", d)

	tree, d := New(ctx, token.NewSliceStream(toks, 2), gate).Parse()
	require.Nil(t, d, "parse failed: %v", d)
	return tree
}

func mustFailParse(t *testing.T, src string, gate dialect.Gate) diag.Diagnostic {
	t.Helper()
	ctx := context.Background()
	body, err := fs.NewFileString("t.star", src).Body(ctx)
	require.NoError(t, err)

	toks, d := lexer.Lex(ctx, body, diag.NewReporter())
	if d != nil {
		return d
	}

	_, d = New(ctx, token.NewSliceStream(toks, 2), gate).Parse()
	require.NotNil(t, d, "expected parse to fail")
	return d
}

func TestParseSimpleAssignment(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "x = 1\n", dialect.Strict())
	require.Len(t, tree.Stmts, 1)
	assign, ok := tree.Stmts[0].(ast.AssignStmt)
	require.True(t, ok)
	require.Equal(t, "x", assign.LHS.(ast.Identifier).Name)
	require.Equal(t, ast.AssignPlain, assign.Op)
	lit := assign.RHS.(ast.Literal)
	require.Equal(t, ast.LiteralInt, lit.Kind)
	require.Equal(t, int64(1), lit.Int.Int64())
}

func TestParseIfElifElseDesugarsToNestedIfElse(t *testing.T) {
	t.Parallel()

	src := "if a:\n    pass\nelif b:\n    pass\nelse:\n    pass\n"
	tree := mustParse(t, src, dialect.Strict())
	require.Len(t, tree.Stmts, 1)

	outer, ok := tree.Stmts[0].(ast.IfElseStmt)
	require.True(t, ok)
	require.Equal(t, "a", outer.Cond.(ast.Identifier).Name)

	inner, ok := outer.Else.(ast.IfElseStmt)
	require.True(t, ok)
	require.Equal(t, "b", inner.Cond.(ast.Identifier).Name)

	innerBody, ok := inner.Else.(ast.StatementsStmt)
	require.True(t, ok)
	require.Len(t, innerBody.Stmts, 1)
	require.IsType(t, ast.PassStmt{}, innerBody.Stmts[0])
}

func TestParseForLoopTargetDoesNotSwallowIn(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "for x in y:\n    pass\n", dialect.Strict())
	forStmt, ok := tree.Stmts[0].(ast.ForStmt)
	require.True(t, ok)
	require.Equal(t, "x", forStmt.Target.(ast.Identifier).Name)
	require.Equal(t, "y", forStmt.Iter.(ast.Identifier).Name)
}

func TestParseForLoopTupleTarget(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "for k, v in items:\n    pass\n", dialect.Strict())
	forStmt := tree.Stmts[0].(ast.ForStmt)
	tup, ok := forStmt.Target.(ast.Tuple)
	require.True(t, ok)
	require.Len(t, tup.Elts, 2)
	require.Equal(t, "k", tup.Elts[0].(ast.Identifier).Name)
	require.Equal(t, "v", tup.Elts[1].(ast.Identifier).Name)
}

func TestParseDefWithParamsAndReturn(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "def f(a, b=1, *rest, **kw):\n    return a + b\n", dialect.Strict())
	def, ok := tree.Stmts[0].(ast.DefStmt)
	require.True(t, ok)
	require.Equal(t, "f", def.Name)
	require.Len(t, def.Params, 4)
	require.IsType(t, ast.Positional{}, def.Params[0])
	require.IsType(t, ast.PositionalDefault{}, def.Params[1])
	require.IsType(t, ast.Rest{}, def.Params[2])
	require.IsType(t, ast.KwArgs{}, def.Params[3])

	body := def.Body.(ast.StatementsStmt)
	ret := body.Stmts[0].(ast.ReturnStmt)
	op := ret.Value.(ast.Op)
	require.Equal(t, ast.OpAdd, op.Op)
}

func TestParseLoadStatement(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `load("//lib:defs.bzl", "foo", bar = "baz")`+"\n", dialect.Strict())
	load, ok := tree.Stmts[0].(ast.LoadStmt)
	require.True(t, ok)
	require.Equal(t, "//lib:defs.bzl", load.Module)
	require.Equal(t, []ast.LoadPair{
		{Local: "foo", Exported: "foo"},
		{Local: "bar", Exported: "baz"},
	}, load.Pairs)
}

func TestParseLoadWithNoSymbolsFails(t *testing.T) {
	t.Parallel()

	d := mustFailParse(t, `load("//lib:defs.bzl")`+"\n", dialect.Strict())
	require.Equal(t, diag.MalformedLoad, d.Kind())
}

func TestParseOperatorPrecedence(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "x = 1 + 2 * 3\n", dialect.Strict())
	assign := tree.Stmts[0].(ast.AssignStmt)
	op := assign.RHS.(ast.Op)
	require.Equal(t, ast.OpAdd, op.Op)
	require.Equal(t, int64(1), op.Left.(ast.Literal).Int.Int64())

	rhsMul := op.Right.(ast.Op)
	require.Equal(t, ast.OpMul, rhsMul.Op)
	require.Equal(t, int64(2), rhsMul.Left.(ast.Literal).Int.Int64())
	require.Equal(t, int64(3), rhsMul.Right.(ast.Literal).Int.Int64())
}

func TestParseAddIsLeftAssociative(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "x = 1 - 2 - 3\n", dialect.Strict())
	assign := tree.Stmts[0].(ast.AssignStmt)
	outer := assign.RHS.(ast.Op)
	require.Equal(t, ast.OpSub, outer.Op)
	require.Equal(t, int64(3), outer.Right.(ast.Literal).Int.Int64())

	inner := outer.Left.(ast.Op)
	require.Equal(t, ast.OpSub, inner.Op)
	require.Equal(t, int64(1), inner.Left.(ast.Literal).Int.Int64())
	require.Equal(t, int64(2), inner.Right.(ast.Literal).Int.Int64())
}

func TestParseComparisonIsNonChaining(t *testing.T) {
	t.Parallel()

	// `a < b < c` parses as `(a < b) < c`, not a chained comparison.
	tree := mustParse(t, "x = a < b < c\n", dialect.Strict())
	assign := tree.Stmts[0].(ast.AssignStmt)
	outer := assign.RHS.(ast.Op)
	require.Equal(t, ast.OpLt, outer.Op)
	require.Equal(t, "c", outer.Right.(ast.Identifier).Name)

	inner := outer.Left.(ast.Op)
	require.Equal(t, ast.OpLt, inner.Op)
	require.Equal(t, "a", inner.Left.(ast.Identifier).Name)
	require.Equal(t, "b", inner.Right.(ast.Identifier).Name)
}

func TestParseNotInBindsAsSingleOperator(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "x = a not in b\n", dialect.Strict())
	assign := tree.Stmts[0].(ast.AssignStmt)
	op := assign.RHS.(ast.Op)
	require.Equal(t, ast.OpNotIn, op.Op)
}

func TestParseTernaryIsRightAssociative(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "x = a if p else b if q else c\n", dialect.Strict())
	assign := tree.Stmts[0].(ast.AssignStmt)
	outer := assign.RHS.(ast.If)
	require.Equal(t, "a", outer.Then.(ast.Identifier).Name)
	require.Equal(t, "p", outer.Cond.(ast.Identifier).Name)

	inner := outer.Else.(ast.If)
	require.Equal(t, "b", inner.Then.(ast.Identifier).Name)
	require.Equal(t, "q", inner.Cond.(ast.Identifier).Name)
	require.Equal(t, "c", inner.Else.(ast.Identifier).Name)
}

func TestParsePostfixChain(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "x = a.b(1, 2)[0]\n", dialect.Strict())
	assign := tree.Stmts[0].(ast.AssignStmt)
	idx := assign.RHS.(ast.Index)
	require.Equal(t, int64(0), idx.Index.(ast.Literal).Int.Int64())

	call := idx.X.(ast.Call)
	require.Len(t, call.Args, 2)

	dot := call.Func.(ast.Dot)
	require.Equal(t, "b", dot.Attr)
	require.Equal(t, "a", dot.X.(ast.Identifier).Name)
}

func TestParseSliceExpression(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "x = a[1:2:3]\n", dialect.Strict())
	assign := tree.Stmts[0].(ast.AssignStmt)
	sl := assign.RHS.(ast.Slice)
	require.Equal(t, int64(1), sl.Start.(ast.Literal).Int.Int64())
	require.Equal(t, int64(2), sl.Stop.(ast.Literal).Int.Int64())
	require.Equal(t, int64(3), sl.Step.(ast.Literal).Int.Int64())
}

func TestParseListComprehension(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "x = [y for y in z if y]\n", dialect.Strict())
	assign := tree.Stmts[0].(ast.AssignStmt)
	lc := assign.RHS.(ast.ListComprehension)
	require.Equal(t, "y", lc.Head.(ast.Identifier).Name)
	require.Equal(t, "y", lc.First.Target.(ast.Identifier).Name)
	require.Equal(t, "z", lc.First.Iter.(ast.Identifier).Name)
	require.Len(t, lc.Rest, 1)
	ifc := lc.Rest[0].(ast.IfClause)
	require.Equal(t, "y", ifc.Test.(ast.Identifier).Name)
}

func TestParseDictComprehension(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "x = {k: v for k, v in items}\n", dialect.Strict())
	assign := tree.Stmts[0].(ast.AssignStmt)
	dc := assign.RHS.(ast.DictComprehension)
	require.Equal(t, "k", dc.KeyHead.(ast.Identifier).Name)
	require.Equal(t, "v", dc.ValueHead.(ast.Identifier).Name)
}

func TestParseLambdaRequiresPermissiveDialect(t *testing.T) {
	t.Parallel()

	d := mustFailParse(t, "x = lambda a, b: a + b\n", dialect.Strict())
	require.Equal(t, diag.DisallowedFeature, d.Kind())

	tree := mustParse(t, "x = lambda a, b: a + b\n", dialect.Permissive())
	assign := tree.Stmts[0].(ast.AssignStmt)
	lam := assign.RHS.(ast.Lambda)
	require.Len(t, lam.Params, 2)
}

func TestParseTypedParametersRequirePermissiveDialect(t *testing.T) {
	t.Parallel()

	d := mustFailParse(t, "def f(x: int):\n    pass\n", dialect.Strict())
	require.Equal(t, diag.DisallowedFeature, d.Kind())

	tree := mustParse(t, "def f(x: int):\n    pass\n", dialect.Permissive())
	def := tree.Stmts[0].(ast.DefStmt)
	pos := def.Params[0].(ast.Positional)
	require.Equal(t, "int", pos.Type.(ast.Identifier).Name)
}

func TestParseIllegalAssignmentTargetFails(t *testing.T) {
	t.Parallel()

	d := mustFailParse(t, "1 + 1 = 2\n", dialect.Strict())
	require.Equal(t, diag.IllegalAssignmentTarget, d.Kind())
}

func TestParseAugmentedAssignmentRejectsTupleTarget(t *testing.T) {
	t.Parallel()

	d := mustFailParse(t, "a, b += 1\n", dialect.Strict())
	require.Equal(t, diag.IllegalAssignmentTarget, d.Kind())
}

func TestParseEmptyListTargetFails(t *testing.T) {
	t.Parallel()

	d := mustFailParse(t, "[] = x\n", dialect.Strict())
	require.Equal(t, diag.IllegalAssignmentTarget, d.Kind())
}

func TestParseSliceWithStepTargetFails(t *testing.T) {
	t.Parallel()

	d := mustFailParse(t, "a[1:2:3] = x\n", dialect.Strict())
	require.Equal(t, diag.IllegalAssignmentTarget, d.Kind())

	tree := mustParse(t, "a[1:2] = x\n", dialect.Strict())
	assign := tree.Stmts[0].(ast.AssignStmt)
	require.IsType(t, ast.Slice{}, assign.LHS)
}

func TestParseDuplicateParameterNameFails(t *testing.T) {
	t.Parallel()

	d := mustFailParse(t, "def f(a, a):\n    pass\n", dialect.Strict())
	require.Equal(t, diag.IllegalParameter, d.Kind())
}

func TestParseDefaultBeforeNonDefaultFails(t *testing.T) {
	t.Parallel()

	d := mustFailParse(t, "def f(a=1, b):\n    pass\n", dialect.Strict())
	require.Equal(t, diag.IllegalParameter, d.Kind())
}

func TestParseKwArgsMustBeLastParameter(t *testing.T) {
	t.Parallel()

	d := mustFailParse(t, "def f(**kw, a):\n    pass\n", dialect.Strict())
	require.Equal(t, diag.IllegalParameter, d.Kind())
}

func TestParseBareStarWithoutKeywordOnlyParamsRequiresPermissiveDialect(t *testing.T) {
	t.Parallel()

	d := mustFailParse(t, "def f(a, *):\n    pass\n", dialect.Strict())
	require.Equal(t, diag.DisallowedFeature, d.Kind())

	tree := mustParse(t, "def f(a, *):\n    pass\n", dialect.Permissive())
	def := tree.Stmts[0].(ast.DefStmt)
	require.Len(t, def.Params, 2)
}

func TestParsePositionalArgAfterKeywordFails(t *testing.T) {
	t.Parallel()

	d := mustFailParse(t, "x = f(a=1, 2)\n", dialect.Strict())
	require.Equal(t, diag.IllegalArgumentOrder, d.Kind())
}

func TestParseDuplicateKeywordArgumentFails(t *testing.T) {
	t.Parallel()

	d := mustFailParse(t, "x = f(a=1, a=2)\n", dialect.Strict())
	require.Equal(t, diag.IllegalArgumentOrder, d.Kind())
}

func TestParseFStringBareIdentifierInterpolation(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `x = f"hi {name}"`+"\n", dialect.Strict())
	assign := tree.Stmts[0].(ast.AssignStmt)
	fstr := assign.RHS.(ast.FString)
	require.Len(t, fstr.Parts, 2)
	require.Equal(t, "hi ", fstr.Parts[0].Text)
	require.Equal(t, "name", fstr.Parts[1].Expr.(ast.Identifier).Name)
}

func TestParseFStringGeneralExpressionRequiresPermissiveDialect(t *testing.T) {
	t.Parallel()

	d := mustFailParse(t, `x = f"{a + 1}"`+"\n", dialect.Strict())
	require.Equal(t, diag.MalformedFString, d.Kind())

	tree := mustParse(t, `x = f"{a + 1}"`+"\n", dialect.Permissive())
	assign := tree.Stmts[0].(ast.AssignStmt)
	fstr := assign.RHS.(ast.FString)
	op := fstr.Parts[0].Expr.(ast.Op)
	require.Equal(t, ast.OpAdd, op.Op)
}

func TestParseSpanCoversEntireStatement(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "x = 1\n", dialect.Strict())
	stmt := tree.Stmts[0]
	require.Equal(t, 0, stmt.GetSpan().Start)
	require.Equal(t, len("x = 1"), stmt.GetSpan().End)
}

func TestParseBareExpressionStatement(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "f(1, 2)\n", dialect.Strict())
	exprStmt, ok := tree.Stmts[0].(ast.ExprStmt)
	require.True(t, ok)
	require.IsType(t, ast.Call{}, exprStmt.X)
}

func TestParseSemicolonSeparatedSimpleStatements(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, "x = 1; y = 2\n", dialect.Strict())
	require.Len(t, tree.Stmts, 2)
	require.Equal(t, "x", tree.Stmts[0].(ast.AssignStmt).LHS.(ast.Identifier).Name)
	require.Equal(t, "y", tree.Stmts[1].(ast.AssignStmt).LHS.(ast.Identifier).Name)
}
