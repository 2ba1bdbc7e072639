package parser

import (
	"gopkg.starbuild.dev/langfront.go/internal/ast"
	"gopkg.starbuild.dev/langfront.go/internal/diag"
	"gopkg.starbuild.dev/langfront.go/internal/span"
	"gopkg.starbuild.dev/langfront.go/internal/token"
)

// parseParameterList parses a parameter list. allowTypes distinguishes the
// two shapes this grammar ever uses it for: a `def`'s parenthesized,
// optionally-typed list (allowTypes true), or a `lambda`'s bare,
// never-typed list terminated by `:` (allowTypes false).
func (p *Parser) parseParameterList(allowTypes bool) ([]ast.Param, bool) {
	if allowTypes {
		if _, ok := p.expect(token.KindLParen); !ok {
			return nil, false
		}
	}

	var params []ast.Param
	for p.atAny(token.KindStar, token.KindDoubleStar, token.KindIdentifier) {
		param, ok := p.parseParameter(allowTypes)
		if !ok {
			return nil, false
		}
		params = append(params, param)
		if !p.at(token.KindComma) {
			break
		}
		p.advance()
	}

	if allowTypes {
		if _, ok := p.expect(token.KindRParen); !ok {
			return nil, false
		}
	}
	return params, true
}

func (p *Parser) parseParameter(allowTypes bool) (ast.Param, bool) {
	left := p.here()

	if p.at(token.KindDoubleStar) {
		p.advance()
		nameTok, ok := p.expect(token.KindIdentifier)
		if !ok {
			return nil, false
		}
		typ, ok := p.parseOptionalParamType(allowTypes)
		if !ok {
			return nil, false
		}
		return ast.KwArgs{Meta: ast.Meta{Span: span.Join(left, p.here())}, Name: nameTok.Text, Type: typ}, true
	}

	if p.at(token.KindStar) {
		p.advance()
		if !p.at(token.KindIdentifier) {
			return ast.BareStar{Meta: ast.Meta{Span: span.Join(left, p.here())}}, true
		}
		nameTok, _ := p.expect(token.KindIdentifier)
		typ, ok := p.parseOptionalParamType(allowTypes)
		if !ok {
			return nil, false
		}
		return ast.Rest{Meta: ast.Meta{Span: span.Join(left, p.here())}, Name: nameTok.Text, Type: typ}, true
	}

	nameTok, ok := p.expect(token.KindIdentifier)
	if !ok {
		return nil, false
	}
	typ, ok := p.parseOptionalParamType(allowTypes)
	if !ok {
		return nil, false
	}
	if p.at(token.KindAssign) {
		p.advance()
		def, ok := p.parseTest()
		if !ok {
			return nil, false
		}
		return ast.PositionalDefault{
			Meta: ast.Meta{Span: span.Join(left, p.here())}, Name: nameTok.Text, Type: typ, Default: def,
		}, true
	}
	return ast.Positional{Meta: ast.Meta{Span: span.Join(left, p.here())}, Name: nameTok.Text, Type: typ}, true
}

// parseOptionalParamType parses a `: Type` annotation when present. A
// lambda (allowTypes false) never sees this syntax — its `:` terminates
// the parameter list, not a single parameter.
func (p *Parser) parseOptionalParamType(allowTypes bool) (ast.Expr, bool) {
	if !allowTypes || !p.at(token.KindColon) {
		return nil, true
	}
	colonSpan := p.peek().Span
	p.advance()
	typ, ok := p.parseTest()
	if !ok {
		return nil, false
	}
	if !p.gate.AllowTypedParameters(p.ctx) {
		p.fail(diag.DisallowedFeature, colonSpan, "parameter type annotations are not permitted by this dialect")
		return nil, false
	}
	return typ, true
}

func paramName(param ast.Param) string {
	switch t := param.(type) {
	case ast.Positional:
		return t.Name
	case ast.PositionalDefault:
		return t.Name
	case ast.Rest:
		return t.Name
	case ast.KwArgs:
		return t.Name
	default:
		return ""
	}
}

// checkParameterList enforces ordering: positional parameters without a
// default may not follow one with a default (outside the keyword-only
// section after a `*`/`*rest` marker), at most one rest-or-bare-star
// marker is permitted, at most one **kwargs is permitted and it must be
// last, names must be unique, and a bare `*` must be followed by at least
// one keyword-only parameter unless the dialect allows it lone.
func (p *Parser) checkParameterList(params []ast.Param) bool {
	seen := map[string]bool{}
	sawStar := false
	sawBareStar := false
	sawDefault := false
	sawKwArgs := false
	keywordOnlyCount := 0
	var starSpan span.Span

	for _, param := range params {
		if name := paramName(param); name != "" {
			if seen[name] {
				p.fail(diag.IllegalParameter, param.GetSpan(), "duplicate parameter name %q", name)
				return false
			}
			seen[name] = true
		}

		switch pr := param.(type) {
		case ast.Positional:
			if sawKwArgs {
				p.fail(diag.IllegalParameter, pr.GetSpan(), "parameter %q must come before **kwargs", pr.Name)
				return false
			}
			if sawStar {
				keywordOnlyCount++
			} else if sawDefault {
				p.fail(diag.IllegalParameter, pr.GetSpan(), "non-default parameter %q follows a default parameter", pr.Name)
				return false
			}
		case ast.PositionalDefault:
			if sawKwArgs {
				p.fail(diag.IllegalParameter, pr.GetSpan(), "parameter %q must come before **kwargs", pr.Name)
				return false
			}
			if sawStar {
				keywordOnlyCount++
			}
			sawDefault = true
		case ast.Rest:
			if sawStar {
				p.fail(diag.IllegalParameter, pr.GetSpan(), "parameter list may contain at most one *%s or bare *", pr.Name)
				return false
			}
			if sawKwArgs {
				p.fail(diag.IllegalParameter, pr.GetSpan(), "*%s must come before **kwargs", pr.Name)
				return false
			}
			sawStar = true
			sawDefault = false
			starSpan = pr.GetSpan()
		case ast.BareStar:
			if sawStar {
				p.fail(diag.IllegalParameter, pr.GetSpan(), "parameter list may contain at most one rest parameter or bare *")
				return false
			}
			if sawKwArgs {
				p.fail(diag.IllegalParameter, pr.GetSpan(), "bare * must come before **kwargs")
				return false
			}
			sawStar = true
			sawBareStar = true
			sawDefault = false
			starSpan = pr.GetSpan()
		case ast.KwArgs:
			if sawKwArgs {
				p.fail(diag.IllegalParameter, pr.GetSpan(), "parameter list may contain at most one **kwargs")
				return false
			}
			sawKwArgs = true
		}
	}

	if sawBareStar && keywordOnlyCount == 0 && !p.gate.AllowLoneKeywordOnlyMarker(p.ctx) {
		p.fail(diag.DisallowedFeature, starSpan, "bare * must be followed by at least one keyword-only parameter")
		return false
	}
	return true
}
