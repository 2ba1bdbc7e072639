// Package dialect defines the policy object consulted at the handful of
// productions where the grammar forks on dialect: typed parameters, return
// types, assignment type annotations, lambdas, the lone `*` keyword-only
// marker, and f-string identifier-only interpolation. The parser treats a
// Gate as opaque and never caches an answer across productions.
package dialect

import "context"

// Gate exposes the boolean predicates the parser consults. Implementations
// may hard-code policy (Strict, Permissive below) or resolve it from
// configuration; either way every call is re-evaluated, so a Gate backed
// by mutable configuration stays consistent within a single parse even if
// that configuration changes mid-parse.
type Gate interface {
	// AllowTypedParameters permits `def f(x: int):`-style parameter type
	// annotations.
	AllowTypedParameters(ctx context.Context) bool
	// AllowReturnTypes permits `def f() -> T:`.
	AllowReturnTypes(ctx context.Context) bool
	// AllowAssignmentTypeAnnotation permits `x: T = value` at statement
	// level.
	AllowAssignmentTypeAnnotation(ctx context.Context) bool
	// AllowLambdas permits the `lambda` expression form at all.
	AllowLambdas(ctx context.Context) bool
	// AllowLoneKeywordOnlyMarker permits a bare trailing `*` in a
	// parameter list with no following keyword-only parameter. This does
	// not govern `*args`, which is always self-sufficient.
	AllowLoneKeywordOnlyMarker(ctx context.Context) bool
	// RequireFStringIdentifierOnlyInterpolation, when true, rejects
	// f-string interpolation fragments that are not a bare identifier.
	RequireFStringIdentifierOnlyInterpolation(ctx context.Context) bool
}

type gate struct {
	typedParameters          bool
	returnTypes              bool
	assignmentTypeAnnotation bool
	lambdas                  bool
	loneKeywordOnlyMarker    bool
	fstringIdentifierOnly    bool
}

func (g *gate) AllowTypedParameters(ctx context.Context) bool { return g.typedParameters }
func (g *gate) AllowReturnTypes(ctx context.Context) bool      { return g.returnTypes }
func (g *gate) AllowAssignmentTypeAnnotation(ctx context.Context) bool {
	return g.assignmentTypeAnnotation
}
func (g *gate) AllowLambdas(ctx context.Context) bool { return g.lambdas }
func (g *gate) AllowLoneKeywordOnlyMarker(ctx context.Context) bool {
	return g.loneKeywordOnlyMarker
}
func (g *gate) RequireFStringIdentifierOnlyInterpolation(ctx context.Context) bool {
	return g.fstringIdentifierOnly
}

// Option configures a Gate built by New.
type Option func(*gate)

// WithTypedParameters overrides whether parameter type annotations are
// accepted.
func WithTypedParameters(v bool) Option {
	return func(g *gate) { g.typedParameters = v }
}

// WithReturnTypes overrides whether `-> type` is accepted on `def`.
func WithReturnTypes(v bool) Option {
	return func(g *gate) { g.returnTypes = v }
}

// WithAssignmentTypeAnnotation overrides whether `x: T = value` is
// accepted.
func WithAssignmentTypeAnnotation(v bool) Option {
	return func(g *gate) { g.assignmentTypeAnnotation = v }
}

// WithLambdas overrides whether `lambda` expressions are accepted.
func WithLambdas(v bool) Option {
	return func(g *gate) { g.lambdas = v }
}

// WithLoneKeywordOnlyMarker overrides whether a bare trailing `*` with no
// keyword-only parameters after it is accepted.
func WithLoneKeywordOnlyMarker(v bool) Option {
	return func(g *gate) { g.loneKeywordOnlyMarker = v }
}

// WithFStringIdentifierOnlyInterpolation overrides whether f-string
// interpolation fragments must be bare identifiers.
func WithFStringIdentifierOnlyInterpolation(v bool) Option {
	return func(g *gate) { g.fstringIdentifierOnly = v }
}

// New builds a Gate from the given base and applies options over it.
// Strict and Permissive are the two bases this module ships; callers may
// also start from either and layer options to build a custom dialect.
func New(base Gate, opts ...Option) Gate {
	g := &gate{}
	if base != nil {
		ctx := context.Background()
		g.typedParameters = base.AllowTypedParameters(ctx)
		g.returnTypes = base.AllowReturnTypes(ctx)
		g.assignmentTypeAnnotation = base.AllowAssignmentTypeAnnotation(ctx)
		g.lambdas = base.AllowLambdas(ctx)
		g.loneKeywordOnlyMarker = base.AllowLoneKeywordOnlyMarker(ctx)
		g.fstringIdentifierOnly = base.RequireFStringIdentifierOnlyInterpolation(ctx)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Strict is the CPython-grammar-adjacent dialect: no type annotations
// anywhere, no lambdas, and a bare `*` must be followed by at least one
// keyword-only parameter.
func Strict(opts ...Option) Gate {
	return New(&gate{
		typedParameters:          false,
		returnTypes:              false,
		assignmentTypeAnnotation: false,
		lambdas:                  false,
		loneKeywordOnlyMarker:    false,
		fstringIdentifierOnly:    true,
	}, opts...)
}

// Permissive is the build-rule dialect this grammar was distilled from
// (Buck2's embedded Starlark): type annotations, return types, and
// lambdas are all accepted, and a bare `*` needs no keyword-only tail.
func Permissive(opts ...Option) Gate {
	return New(&gate{
		typedParameters:          true,
		returnTypes:              true,
		assignmentTypeAnnotation: true,
		lambdas:                  true,
		loneKeywordOnlyMarker:    true,
		fstringIdentifierOnly:    false,
	}, opts...)
}
