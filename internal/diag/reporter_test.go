package diag

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.starbuild.dev/langfront.go/internal/span"
)

func TestReporterFirstWins(t *testing.T) {
	t.Parallel()

	r := NewReporter()
	require.Nil(t, r.First())

	first := New(Syntax, span.New(0, 1), "unexpected token")
	second := New(MalformedLoad, span.New(10, 12), "load must have at least one symbol")

	got := r.Report(first)
	require.Equal(t, first, got)
	require.Equal(t, first, r.First())

	got = r.Report(second)
	require.Equal(t, first, got, "second report must not displace the first")
	require.Equal(t, first, r.First())
}

func TestDiagnosticError(t *testing.T) {
	t.Parallel()

	d := Newf(IllegalParameter, span.New(3, 7), "parameter %q after **kwargs", "x")
	require.Equal(t, IllegalParameter, d.Kind())
	require.Equal(t, span.New(3, 7), d.Span())
	require.Contains(t, d.Error(), `parameter "x" after **kwargs`)
}
