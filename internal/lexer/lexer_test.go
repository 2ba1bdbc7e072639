package lexer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.starbuild.dev/langfront.go/internal/diag"
	"gopkg.starbuild.dev/langfront.go/internal/fs"
	"gopkg.starbuild.dev/langfront.go/internal/token"
)

func lexKinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	ctx := context.Background()
	body, err := fs.NewFileString("test.star", src).Body(ctx)
	require.NoError(t, err)

	toks, d := Lex(ctx, body, diag.NewReporter())
	require.Nil(t, d, "unexpected diagnostic: %v", d)

	kinds := make([]token.Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	return kinds
}

func lexFails(t *testing.T, src string) diag.Diagnostic {
	t.Helper()
	ctx := context.Background()
	body, err := fs.NewFileString("test.star", src).Body(ctx)
	require.NoError(t, err)

	_, d := Lex(ctx, body, diag.NewReporter())
	require.NotNil(t, d)
	return d
}

func TestLexSimpleAssignment(t *testing.T) {
	t.Parallel()

	kinds := lexKinds(t, "x = 1\n")
	require.Equal(t, []token.Kind{
		token.KindIdentifier, token.KindAssign, token.KindInteger,
		token.KindNewline, token.KindEOF,
	}, kinds)
}

func TestLexMissingTrailingNewlineIsSynthesized(t *testing.T) {
	t.Parallel()

	kinds := lexKinds(t, "x = 1")
	require.Equal(t, []token.Kind{
		token.KindIdentifier, token.KindAssign, token.KindInteger,
		token.KindNewline, token.KindEOF,
	}, kinds)
}

func TestLexBlankAndCommentLinesDoNotAffectIndentation(t *testing.T) {
	t.Parallel()

	src := "if x:\n    pass\n\n    # a comment\n    pass\n"
	kinds := lexKinds(t, src)
	require.Equal(t, []token.Kind{
		token.KindIf, token.KindIdentifier, token.KindColon, token.KindNewline,
		token.KindIndent,
		token.KindPass, token.KindNewline,
		token.KindPass, token.KindNewline,
		token.KindDedent,
		token.KindEOF,
	}, kinds)
}

func TestLexIndentDedentNesting(t *testing.T) {
	t.Parallel()

	src := "def f():\n    if x:\n        pass\n    pass\n"
	kinds := lexKinds(t, src)
	require.Equal(t, []token.Kind{
		token.KindDef, token.KindIdentifier, token.KindLParen, token.KindRParen, token.KindColon, token.KindNewline,
		token.KindIndent,
		token.KindIf, token.KindIdentifier, token.KindColon, token.KindNewline,
		token.KindIndent,
		token.KindPass, token.KindNewline,
		token.KindDedent,
		token.KindPass, token.KindNewline,
		token.KindDedent,
		token.KindEOF,
	}, kinds)
}

func TestLexInconsistentDedentFails(t *testing.T) {
	t.Parallel()

	d := lexFails(t, "if x:\n    pass\n   pass\n")
	require.Equal(t, diag.Syntax, d.Kind())
}

func TestLexNewlineSuppressedInsideBrackets(t *testing.T) {
	t.Parallel()

	kinds := lexKinds(t, "x = [\n    1,\n    2,\n]\n")
	require.Equal(t, []token.Kind{
		token.KindIdentifier, token.KindAssign, token.KindLBracket,
		token.KindInteger, token.KindComma,
		token.KindInteger, token.KindComma,
		token.KindRBracket, token.KindNewline, token.KindEOF,
	}, kinds)
}

func TestLexExplicitLineContinuation(t *testing.T) {
	t.Parallel()

	kinds := lexKinds(t, "x = 1 + \\\n    2\n")
	require.Equal(t, []token.Kind{
		token.KindIdentifier, token.KindAssign, token.KindInteger, token.KindPlus, token.KindInteger,
		token.KindNewline, token.KindEOF,
	}, kinds)
}

func TestLexIntegerBases(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	body, err := fs.NewFileString("t.star", "0x1F 0o17 0b101 1_000\n").Body(ctx)
	require.NoError(t, err)
	toks, d := Lex(ctx, body, diag.NewReporter())
	require.Nil(t, d)

	require.Len(t, toks, 6) // 4 ints + NEWLINE + EOF
	require.Equal(t, int64(31), toks[0].Int.Int64())
	require.Equal(t, int64(15), toks[1].Int.Int64())
	require.Equal(t, int64(5), toks[2].Int.Int64())
	require.Equal(t, int64(1000), toks[3].Int.Int64())
}

func TestLexFloatLiteral(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	body, err := fs.NewFileString("t.star", "1.5 2. .0 1e10 1.5e-3\n").Body(ctx)
	require.NoError(t, err)
	toks, d := Lex(ctx, body, diag.NewReporter())
	require.Nil(t, d)

	require.Equal(t, token.KindFloat, toks[0].Kind)
	require.Equal(t, 1.5, toks[0].Float)
	require.Equal(t, 1e10, toks[3].Float)
	require.Equal(t, 1.5e-3, toks[4].Float)
}

func TestLexOperatorDisambiguation(t *testing.T) {
	t.Parallel()

	kinds := lexKinds(t, "a // b << c >>= d != e == f ** g\n")
	require.Equal(t, []token.Kind{
		token.KindIdentifier, token.KindSlashSlash, token.KindIdentifier, token.KindLShift, token.KindIdentifier,
		token.KindRShiftEq, token.KindIdentifier, token.KindNotEq, token.KindIdentifier,
		token.KindEqEq, token.KindIdentifier, token.KindDoubleStar, token.KindIdentifier,
		token.KindNewline, token.KindEOF,
	}, kinds)
}

func TestLexStringEscapes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	body, err := fs.NewFileString("t.star", `"a\nb\tc"` + "\n").Body(ctx)
	require.NoError(t, err)
	toks, d := Lex(ctx, body, diag.NewReporter())
	require.Nil(t, d)
	require.Equal(t, "a\nb\tc", toks[0].Text)
}

func TestLexTripleQuotedStringSpansNewlines(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	body, err := fs.NewFileString("t.star", "\"\"\"a\nb\"\"\"\n").Body(ctx)
	require.NoError(t, err)
	toks, d := Lex(ctx, body, diag.NewReporter())
	require.Nil(t, d)
	require.Equal(t, "a\nb", toks[0].Text)
}

func TestLexUnterminatedStringFails(t *testing.T) {
	t.Parallel()

	d := lexFails(t, `"abc`+"\n")
	require.Equal(t, diag.Syntax, d.Kind())
}

func TestLexFStringBareIdentifierInterpolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	body, err := fs.NewFileString("t.star", `f"hello {name}!"`+"\n").Body(ctx)
	require.NoError(t, err)
	toks, d := Lex(ctx, body, diag.NewReporter())
	require.Nil(t, d)

	require.Equal(t, token.KindFString, toks[0].Kind)
	frags := toks[0].FStr
	require.Len(t, frags, 3)
	require.True(t, frags[0].Literal)
	require.Equal(t, "hello ", frags[0].Text)
	require.True(t, frags[1].IdentOnly)
	require.Equal(t, "name", frags[1].Text)
	require.True(t, frags[2].Literal)
	require.Equal(t, "!", frags[2].Text)
}

func TestLexFStringExpressionInterpolationSubLexes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	body, err := fs.NewFileString("t.star", `f"{a + 1}"`+"\n").Body(ctx)
	require.NoError(t, err)
	toks, d := Lex(ctx, body, diag.NewReporter())
	require.Nil(t, d)

	frags := toks[0].FStr
	require.Len(t, frags, 1)
	require.False(t, frags[0].Literal)
	require.False(t, frags[0].IdentOnly)
	require.Len(t, frags[0].Tokens, 3)
	require.Equal(t, token.KindIdentifier, frags[0].Tokens[0].Kind)
	require.Equal(t, token.KindPlus, frags[0].Tokens[1].Kind)
	require.Equal(t, token.KindInteger, frags[0].Tokens[2].Kind)
}

func TestLexFStringDoubledBraceIsLiteral(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	body, err := fs.NewFileString("t.star", `f"{{literal}}"`+"\n").Body(ctx)
	require.NoError(t, err)
	toks, d := Lex(ctx, body, diag.NewReporter())
	require.Nil(t, d)

	require.Len(t, toks[0].FStr, 1)
	require.True(t, toks[0].FStr[0].Literal)
	require.Equal(t, "{literal}", toks[0].FStr[0].Text)
}

func TestLexKeywordsAreNotIdentifiers(t *testing.T) {
	t.Parallel()

	kinds := lexKinds(t, "def return break continue pass lambda load and or not if elif else for in\n")
	require.Equal(t, []token.Kind{
		token.KindDef, token.KindReturn, token.KindBreak, token.KindContinue, token.KindPass,
		token.KindLambda, token.KindLoad, token.KindAnd, token.KindOr, token.KindNot,
		token.KindIf, token.KindElif, token.KindElse, token.KindFor, token.KindIn,
		token.KindNewline, token.KindEOF,
	}, kinds)
}

func TestLexUnexpectedCharacterFails(t *testing.T) {
	t.Parallel()

	d := lexFails(t, "x = 1 $ 2\n")
	require.Equal(t, diag.Syntax, d.Kind())
}
