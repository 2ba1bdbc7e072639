package parser

import (
	"gopkg.starbuild.dev/langfront.go/internal/ast"
	"gopkg.starbuild.dev/langfront.go/internal/diag"
	"gopkg.starbuild.dev/langfront.go/internal/span"
	"gopkg.starbuild.dev/langfront.go/internal/token"
)

// parseArguments parses a parenthesized call-argument list, consuming
// both the opening and closing parenthesis.
func (p *Parser) parseArguments() ([]ast.Argument, bool) {
	if _, ok := p.expect(token.KindLParen); !ok {
		return nil, false
	}
	var args []ast.Argument
	for !p.at(token.KindRParen) {
		arg, ok := p.parseArgument()
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		if !p.at(token.KindComma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.KindRParen); !ok {
		return nil, false
	}
	return args, true
}

func (p *Parser) parseArgument() (ast.Argument, bool) {
	left := p.here()

	if p.at(token.KindDoubleStar) {
		p.advance()
		v, ok := p.parseTest()
		if !ok {
			return nil, false
		}
		return ast.SplatKwArg{Meta: ast.Meta{Span: span.Join(left, p.here())}, Value: v}, true
	}
	if p.at(token.KindStar) {
		p.advance()
		v, ok := p.parseTest()
		if !ok {
			return nil, false
		}
		return ast.SplatArg{Meta: ast.Meta{Span: span.Join(left, p.here())}, Value: v}, true
	}
	if p.at(token.KindIdentifier) && p.peekN(1) != nil && p.peekN(1).Kind == token.KindAssign {
		nameTok, _ := p.expect(token.KindIdentifier)
		p.advance() // `=`
		v, ok := p.parseTest()
		if !ok {
			return nil, false
		}
		return ast.NamedArg{Meta: ast.Meta{Span: span.Join(left, p.here())}, Name: nameTok.Text, Value: v}, true
	}

	v, ok := p.parseTest()
	if !ok {
		return nil, false
	}
	return ast.PositionalArg{Meta: ast.Meta{Span: span.Join(left, p.here())}, Value: v}, true
}

// checkArguments enforces call-argument ordering: positional arguments
// (plain or `*splat`) must precede named arguments and `**splat`; at most
// one `*splat` and one `**splat` are permitted, and `**splat` must be
// last.
func (p *Parser) checkArguments(args []ast.Argument) bool {
	sawKeyword := false
	sawSplatPositional := false
	sawSplatKwArg := false
	seenNames := map[string]bool{}

	for _, arg := range args {
		switch a := arg.(type) {
		case ast.PositionalArg:
			if sawKeyword {
				p.fail(diag.IllegalArgumentOrder, a.GetSpan(), "positional argument follows a keyword argument")
				return false
			}
		case ast.SplatArg:
			if sawSplatPositional {
				p.fail(diag.IllegalArgumentOrder, a.GetSpan(), "call may contain at most one *args splat")
				return false
			}
			if sawKeyword {
				p.fail(diag.IllegalArgumentOrder, a.GetSpan(), "*args splat follows a keyword argument")
				return false
			}
			sawSplatPositional = true
		case ast.NamedArg:
			if sawSplatKwArg {
				p.fail(diag.IllegalArgumentOrder, a.GetSpan(), "keyword argument follows **kwargs splat")
				return false
			}
			if seenNames[a.Name] {
				p.fail(diag.IllegalArgumentOrder, a.GetSpan(), "duplicate keyword argument %q", a.Name)
				return false
			}
			seenNames[a.Name] = true
			sawKeyword = true
		case ast.SplatKwArg:
			if sawSplatKwArg {
				p.fail(diag.IllegalArgumentOrder, a.GetSpan(), "call may contain at most one **kwargs splat")
				return false
			}
			sawSplatKwArg = true
			sawKeyword = true
		}
	}
	return true
}
