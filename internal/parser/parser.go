// Package parser lifts a token.Stream into a span-annotated ast.Stmt tree,
// applying dialect-sensitive semantic checks as it goes. A Parser is single
// use: construct one per parse with New, call Parse once, and discard it.
// Parsing is synchronous and holds no state outside the Parser value
// itself, so independent Parsers may run concurrently with no
// coordination.
package parser

import (
	"context"
	"fmt"

	"gopkg.starbuild.dev/langfront.go/internal/ast"
	"gopkg.starbuild.dev/langfront.go/internal/dialect"
	"gopkg.starbuild.dev/langfront.go/internal/diag"
	"gopkg.starbuild.dev/langfront.go/internal/span"
	"gopkg.starbuild.dev/langfront.go/internal/token"
)

// Parser holds the mutable state threaded through every production: the
// token lookahead buffer, the active dialect policy, and the diagnostic
// sink. There is no package-level or goroutine-shared state.
type Parser struct {
	ctx    context.Context
	tokens token.Stream
	gate   dialect.Gate
	report diag.Reporter

	// loc is the end offset of the last token successfully consumed; used
	// to give a meaningful span to "unexpected EOF" diagnostics.
	loc int
}

// New constructs a Parser over tokens, enforcing the given dialect.
func New(ctx context.Context, tokens token.Stream, gate dialect.Gate) *Parser {
	return &Parser{
		ctx:    ctx,
		tokens: tokens,
		gate:   gate,
		report: diag.NewReporter(),
	}
}

// Parse consumes the entire token stream and returns the root Statements
// node, or the first diagnostic encountered. Per the fail-fast contract,
// parsing never recovers past the first error: no synthetic nodes, no
// statement skipping.
func (p *Parser) Parse() (ast.StatementsStmt, diag.Diagnostic) {
	root := p.parseFile()
	if d := p.report.First(); d != nil {
		return ast.StatementsStmt{}, d
	}
	return root, nil
}

// failed reports whether a diagnostic has already been recorded.
func (p *Parser) failed() bool {
	return p.report.First() != nil
}

// fail records a diagnostic at sp and returns it. Productions check
// failed() (or the boolean this returns through a wrapping helper) and
// unwind rather than continue building a partial node.
func (p *Parser) fail(kind diag.Kind, sp span.Span, format string, args ...interface{}) diag.Diagnostic {
	return p.report.Report(diag.Newf(kind, sp, format, args...))
}

func (p *Parser) here() span.Span {
	return span.New(p.loc, p.loc)
}

// peekN returns the token n positions ahead of the cursor without
// consuming it, or nil at end of stream.
func (p *Parser) peekN(n uint8) *token.Token {
	maybe := p.tokens.Lookahead(p.ctx, n)
	if !maybe.IsPresent() {
		return nil
	}
	return maybe.Value()
}

func (p *Parser) peek() *token.Token {
	return p.peekN(0)
}

func (p *Parser) peekKind() token.Kind {
	t := p.peek()
	if t == nil {
		return token.KindEOF
	}
	return t.Kind
}

// advance consumes the current token.
func (p *Parser) advance() {
	t := p.peek()
	if t != nil {
		p.loc = t.Span.End
	}
	_ = p.tokens.Next(p.ctx)
}

// at reports whether the current token has the given kind.
func (p *Parser) at(k token.Kind) bool {
	t := p.peek()
	return t != nil && t.Kind == k
}

// atAny reports whether the current token is one of the given kinds.
func (p *Parser) atAny(ks ...token.Kind) bool {
	t := p.peek()
	if t == nil {
		return false
	}
	for _, k := range ks {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// expect reports a Syntax diagnostic and returns (nil, false) if the
// current token is not of kind k; otherwise it advances and returns the
// token.
func (p *Parser) expect(k token.Kind) (*token.Token, bool) {
	t := p.peek()
	if t == nil {
		p.fail(diag.Syntax, p.here(), "unexpected end of input (expecting %s)", k)
		return nil, false
	}
	if t.Kind != k {
		p.fail(diag.Syntax, t.Span, "unexpected %s (expecting %s)", describe(t), k)
		return nil, false
	}
	p.advance()
	return t, true
}

func describe(t *token.Token) string {
	switch t.Kind {
	case token.KindIdentifier:
		return fmt.Sprintf("identifier %q", t.Text)
	case token.KindInteger, token.KindFloat, token.KindString, token.KindFString:
		return fmt.Sprintf("%s literal", t.Kind)
	default:
		return t.Kind.String()
	}
}

// skipNewlines consumes zero or more NEWLINE tokens.
func (p *Parser) skipNewlines() {
	for p.at(token.KindNewline) {
		p.advance()
	}
}
