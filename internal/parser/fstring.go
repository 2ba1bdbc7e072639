package parser

import (
	"gopkg.starbuild.dev/langfront.go/internal/ast"
	"gopkg.starbuild.dev/langfront.go/internal/diag"
	"gopkg.starbuild.dev/langfront.go/internal/token"
)

// parseFString assembles a pre-lexed FString token into its ast.FString,
// parsing each non-literal fragment's token run as its own expression and
// enforcing the dialect's interpolation restriction.
func (p *Parser) parseFString(t *token.Token) (ast.Expr, bool) {
	p.advance()

	parts := make([]ast.FStringPart, 0, len(t.FStr))
	identOnlyRequired := p.gate.RequireFStringIdentifierOnlyInterpolation(p.ctx)

	for _, frag := range t.FStr {
		if frag.Literal {
			parts = append(parts, ast.FStringPart{Text: frag.Text})
			continue
		}
		if frag.IdentOnly {
			parts = append(parts, ast.FStringPart{
				Expr: ast.Identifier{Meta: ast.Meta{Span: frag.Span}, Name: frag.Text},
			})
			continue
		}
		if identOnlyRequired {
			p.fail(diag.MalformedFString, frag.Span, "f-string interpolation must be a bare identifier in this dialect")
			return nil, false
		}
		expr, ok := p.parseFStringExpr(frag)
		if !ok {
			return nil, false
		}
		parts = append(parts, ast.FStringPart{Expr: expr})
	}

	return ast.FString{Meta: ast.Meta{Span: t.Span}, Parts: parts}, true
}

// parseFStringExpr parses one interpolation fragment's token run as a
// standalone Test, sharing this Parser's reporter and dialect so a failure
// inside the fragment still wins fail-fast over the outer parse.
func (p *Parser) parseFStringExpr(frag token.FStringFragment) (ast.Expr, bool) {
	sub := &Parser{
		ctx:    p.ctx,
		tokens: token.NewSliceStream(frag.Tokens, 2),
		gate:   p.gate,
		report: p.report,
	}
	expr, ok := sub.parseTest()
	if !ok {
		return nil, false
	}
	if sub.peek() != nil {
		p.fail(diag.MalformedFString, sub.peek().Span, "unexpected %s after interpolation expression", describe(sub.peek()))
		return nil, false
	}
	return expr, true
}
