package dialect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrictRejectsTypesAndLambdas(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := Strict()
	require.False(t, g.AllowTypedParameters(ctx))
	require.False(t, g.AllowReturnTypes(ctx))
	require.False(t, g.AllowAssignmentTypeAnnotation(ctx))
	require.False(t, g.AllowLambdas(ctx))
	require.False(t, g.AllowLoneKeywordOnlyMarker(ctx))
	require.True(t, g.RequireFStringIdentifierOnlyInterpolation(ctx))
}

func TestPermissiveAcceptsEverything(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := Permissive()
	require.True(t, g.AllowTypedParameters(ctx))
	require.True(t, g.AllowReturnTypes(ctx))
	require.True(t, g.AllowAssignmentTypeAnnotation(ctx))
	require.True(t, g.AllowLambdas(ctx))
	require.True(t, g.AllowLoneKeywordOnlyMarker(ctx))
	require.False(t, g.RequireFStringIdentifierOnlyInterpolation(ctx))
}

func TestOptionsOverrideBase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := Strict(WithLambdas(true))
	require.True(t, g.AllowLambdas(ctx))
	require.False(t, g.AllowTypedParameters(ctx))
}
