package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.starbuild.dev/langfront.go/internal/ast"
	"gopkg.starbuild.dev/langfront.go/internal/diag"
	"gopkg.starbuild.dev/langfront.go/internal/dialect"
	"gopkg.starbuild.dev/langfront.go/internal/fs"
	"gopkg.starbuild.dev/langfront.go/internal/source"
)

// memFS serves a fixed set of in-memory files keyed by path, so tests never
// touch the local disk default roots.
type memFS map[string]string

func (m memFS) Open(ctx context.Context, uri string) ([]source.File, error) {
	content, ok := m[uri]
	if !ok {
		return nil, errNotFound(uri)
	}
	return []source.File{fs.NewFileString(uri, content)}, nil
}

type errNotFound string

func (e errNotFound) Error() string { return "not found: " + string(e) }

func TestCompilerParseMultipleFiles(t *testing.T) {
	t.Parallel()

	mem := memFS{
		"/a.star": "x = 1\n",
		"/b.star": "y = 2\n",
	}
	c, err := New(WithFS(mem), WithDialect(dialect.Strict()))
	require.NoError(t, err)

	result, d := c.Parse(context.Background(), []string{"/a.star", "/b.star"}, ParseOptions{})
	require.Nil(t, d)
	require.Len(t, result.Files, 2)

	byPath := map[string]*FileResult{}
	for _, fr := range result.Files {
		byPath[fr.Path] = fr
	}
	require.Contains(t, byPath, "/a.star")
	require.Contains(t, byPath, "/b.star")
	require.IsType(t, ast.StatementsStmt{}, byPath["/a.star"].Tree)
}

func TestCompilerParseStopsAtFirstDiagnostic(t *testing.T) {
	t.Parallel()

	mem := memFS{
		"/good.star": "x = 1\n",
		"/bad.star":  "x = $\n",
	}
	c, err := New(WithFS(mem))
	require.NoError(t, err)

	result, d := c.Parse(context.Background(), []string{"/good.star", "/bad.star"}, ParseOptions{})
	require.Nil(t, result)
	require.NotNil(t, d)
	require.Equal(t, diag.Syntax, d.Kind())
}

func TestCompilerParseUnknownTargetFails(t *testing.T) {
	t.Parallel()

	c, err := New(WithFS(memFS{}))
	require.NoError(t, err)

	result, d := c.Parse(context.Background(), []string{"/missing.star"}, ParseOptions{})
	require.Nil(t, result)
	require.NotNil(t, d)
}

func TestCompilerParseDumpTokensRetainsTokenStream(t *testing.T) {
	t.Parallel()

	mem := memFS{"/a.star": "x = 1\n"}
	c, err := New(WithFS(mem))
	require.NoError(t, err)

	result, d := c.Parse(context.Background(), []string{"/a.star"}, ParseOptions{DumpTokens: true})
	require.Nil(t, d)
	require.Len(t, result.Files, 1)
	require.NotEmpty(t, result.Files[0].Tokens)
}

func TestCompilerParseHonorsDialectGate(t *testing.T) {
	t.Parallel()

	mem := memFS{"/a.star": "f = lambda x: x\n"}

	strict, err := New(WithFS(mem), WithDialect(dialect.Strict()))
	require.NoError(t, err)
	_, d := strict.Parse(context.Background(), []string{"/a.star"}, ParseOptions{})
	require.NotNil(t, d)
	require.Equal(t, diag.DisallowedFeature, d.Kind())

	permissive, err := New(WithFS(mem), WithDialect(dialect.Permissive()))
	require.NoError(t, err)
	result, d := permissive.Parse(context.Background(), []string{"/a.star"}, ParseOptions{})
	require.Nil(t, d)
	require.Len(t, result.Files, 1)
}
