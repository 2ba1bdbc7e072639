package parser

import (
	"math/big"

	"gopkg.starbuild.dev/langfront.go/internal/ast"
	"gopkg.starbuild.dev/langfront.go/internal/diag"
	"gopkg.starbuild.dev/langfront.go/internal/span"
	"gopkg.starbuild.dev/langfront.go/internal/token"
)

// canStartTest reports whether k can begin a Test production. Used to
// decide whether a comma in a test-list is a separator (another element
// follows) or a trailing comma (the list ends here).
func canStartTest(k token.Kind) bool {
	switch k {
	case token.KindIdentifier, token.KindInteger, token.KindFloat, token.KindString, token.KindFString,
		token.KindLParen, token.KindLBracket, token.KindLBrace,
		token.KindPlus, token.KindMinus, token.KindTilde, token.KindNot, token.KindLambda:
		return true
	default:
		return false
	}
}

// parseTestList parses a comma-separated sequence of Test expressions,
// building a Tuple when either a trailing comma is present or more than
// one element was parsed; otherwise it returns the single expression.
func (p *Parser) parseTestList() (ast.Expr, bool) {
	return p.parseCommaList(p.parseTest)
}

// parseTestListNoCond parses the restricted expression list used as an
// assignment/for-loop target: it enters the precedence ladder at the
// bitwise-or tier, skipping ternary/or/and/not/comparison, so that `for x
// in y` does not swallow `in` as a comparison operator while parsing the
// target `x`.
func (p *Parser) parseTestListNoCond() (ast.Expr, bool) {
	return p.parseCommaList(p.parseBitOr)
}

func (p *Parser) parseCommaList(elem func() (ast.Expr, bool)) (ast.Expr, bool) {
	left := p.here()
	first, ok := elem()
	if !ok {
		return nil, false
	}
	elts := []ast.Expr{first}
	trailingComma := false
	for p.at(token.KindComma) {
		p.advance()
		trailingComma = true
		if !canStartTest(p.peekKind()) {
			break
		}
		next, ok := elem()
		if !ok {
			return nil, false
		}
		elts = append(elts, next)
		trailingComma = false
	}
	if len(elts) == 1 && !trailingComma {
		return first, true
	}
	return ast.Tuple{Meta: ast.Meta{Span: span.Join(left, p.here())}, Elts: elts}, true
}

// parseTest is precedence level 0: ternary conditional, lambda, or OrTest.
func (p *Parser) parseTest() (ast.Expr, bool) {
	left := p.here()
	if p.at(token.KindLambda) {
		return p.parseLambda()
	}

	then, ok := p.parseOrTest()
	if !ok {
		return nil, false
	}
	if !p.at(token.KindIf) {
		return then, true
	}
	p.advance()
	cond, ok := p.parseOrTest()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.KindElse); !ok {
		return nil, false
	}
	els, ok := p.parseTest()
	if !ok {
		return nil, false
	}
	return ast.If{Meta: ast.Meta{Span: span.Join(left, p.here())}, Then: then, Cond: cond, Else: els}, true
}

// parseLambda parses `lambda [params]: body`.
func (p *Parser) parseLambda() (ast.Expr, bool) {
	left := p.here()
	kwTok := p.peek()
	p.advance() // `lambda`

	var params []ast.Param
	if !p.at(token.KindColon) {
		ps, ok := p.parseParameterList(false)
		if !ok {
			return nil, false
		}
		params = ps
	}
	if !p.checkParameterList(params) {
		return nil, false
	}
	if _, ok := p.expect(token.KindColon); !ok {
		return nil, false
	}
	body, ok := p.parseTest()
	if !ok {
		return nil, false
	}
	if !p.gate.AllowLambdas(p.ctx) {
		p.fail(diag.DisallowedFeature, kwTok.Span, "lambda expressions are not permitted by this dialect")
		return nil, false
	}
	return ast.Lambda{Meta: ast.Meta{Span: span.Join(left, p.here())}, Params: params, Body: body}, true
}

func (p *Parser) parseOrTest() (ast.Expr, bool) {
	left := p.here()
	result, ok := p.parseAndTest()
	if !ok {
		return nil, false
	}
	for p.at(token.KindOr) {
		p.advance()
		rhs, ok := p.parseAndTest()
		if !ok {
			return nil, false
		}
		result = ast.Op{Meta: ast.Meta{Span: span.Join(left, p.here())}, Left: result, Op: ast.OpOr, Right: rhs}
	}
	return result, true
}

func (p *Parser) parseAndTest() (ast.Expr, bool) {
	left := p.here()
	result, ok := p.parseNotTest()
	if !ok {
		return nil, false
	}
	for p.at(token.KindAnd) {
		p.advance()
		rhs, ok := p.parseNotTest()
		if !ok {
			return nil, false
		}
		result = ast.Op{Meta: ast.Meta{Span: span.Join(left, p.here())}, Left: result, Op: ast.OpAnd, Right: rhs}
	}
	return result, true
}

func (p *Parser) parseNotTest() (ast.Expr, bool) {
	left := p.here()
	if p.at(token.KindNot) {
		p.advance()
		operand, ok := p.parseNotTest()
		if !ok {
			return nil, false
		}
		return ast.Not{Meta: ast.Meta{Span: span.Join(left, p.here())}, X: operand}, true
	}
	return p.parseComparison()
}

var comparisonOps = map[token.Kind]ast.BinOp{
	token.KindEqEq:      ast.OpEq,
	token.KindNotEq:     ast.OpNotEq,
	token.KindLess:      ast.OpLt,
	token.KindGreater:   ast.OpGt,
	token.KindLessEq:    ast.OpLtEq,
	token.KindGreaterEq: ast.OpGtEq,
	token.KindIn:        ast.OpIn,
}

// parseComparison is precedence level 4. Per design, comparisons are
// binary (non-chained): `a < b < c` parses as `(a < b) < c`, not Python's
// chained comparison.
func (p *Parser) parseComparison() (ast.Expr, bool) {
	left := p.here()
	result, ok := p.parseBitOr()
	if !ok {
		return nil, false
	}
	for {
		var op ast.BinOp
		if p.at(token.KindNot) && p.peekN(1) != nil && p.peekN(1).Kind == token.KindIn {
			p.advance()
			p.advance()
			op = ast.OpNotIn
		} else if o, ok := comparisonOps[p.peekKind()]; ok {
			p.advance()
			op = o
		} else {
			break
		}
		rhs, ok := p.parseBitOr()
		if !ok {
			return nil, false
		}
		result = ast.Op{Meta: ast.Meta{Span: span.Join(left, p.here())}, Left: result, Op: op, Right: rhs}
	}
	return result, true
}

func (p *Parser) parseBitOr() (ast.Expr, bool) {
	left := p.here()
	result, ok := p.parseBitXor()
	if !ok {
		return nil, false
	}
	for p.at(token.KindPipe) {
		p.advance()
		rhs, ok := p.parseBitXor()
		if !ok {
			return nil, false
		}
		result = ast.Op{Meta: ast.Meta{Span: span.Join(left, p.here())}, Left: result, Op: ast.OpBitOr, Right: rhs}
	}
	return result, true
}

func (p *Parser) parseBitXor() (ast.Expr, bool) {
	left := p.here()
	result, ok := p.parseBitAnd()
	if !ok {
		return nil, false
	}
	for p.at(token.KindCaret) {
		p.advance()
		rhs, ok := p.parseBitAnd()
		if !ok {
			return nil, false
		}
		result = ast.Op{Meta: ast.Meta{Span: span.Join(left, p.here())}, Left: result, Op: ast.OpBitXor, Right: rhs}
	}
	return result, true
}

func (p *Parser) parseBitAnd() (ast.Expr, bool) {
	left := p.here()
	result, ok := p.parseShift()
	if !ok {
		return nil, false
	}
	for p.at(token.KindAmp) {
		p.advance()
		rhs, ok := p.parseShift()
		if !ok {
			return nil, false
		}
		result = ast.Op{Meta: ast.Meta{Span: span.Join(left, p.here())}, Left: result, Op: ast.OpBitAnd, Right: rhs}
	}
	return result, true
}

var shiftOps = map[token.Kind]ast.BinOp{
	token.KindLShift: ast.OpLShift,
	token.KindRShift: ast.OpRShift,
}

func (p *Parser) parseShift() (ast.Expr, bool) {
	left := p.here()
	result, ok := p.parseAddSub()
	if !ok {
		return nil, false
	}
	for {
		op, isShift := shiftOps[p.peekKind()]
		if !isShift {
			break
		}
		p.advance()
		rhs, ok := p.parseAddSub()
		if !ok {
			return nil, false
		}
		result = ast.Op{Meta: ast.Meta{Span: span.Join(left, p.here())}, Left: result, Op: op, Right: rhs}
	}
	return result, true
}

var addSubOps = map[token.Kind]ast.BinOp{
	token.KindPlus:  ast.OpAdd,
	token.KindMinus: ast.OpSub,
}

func (p *Parser) parseAddSub() (ast.Expr, bool) {
	left := p.here()
	result, ok := p.parseMulDiv()
	if !ok {
		return nil, false
	}
	for {
		op, isAddSub := addSubOps[p.peekKind()]
		if !isAddSub {
			break
		}
		p.advance()
		rhs, ok := p.parseMulDiv()
		if !ok {
			return nil, false
		}
		result = ast.Op{Meta: ast.Meta{Span: span.Join(left, p.here())}, Left: result, Op: op, Right: rhs}
	}
	return result, true
}

var mulDivOps = map[token.Kind]ast.BinOp{
	token.KindStar:      ast.OpMul,
	token.KindSlash:     ast.OpDiv,
	token.KindSlashSlash: ast.OpFloorDiv,
	token.KindPercent:   ast.OpMod,
}

func (p *Parser) parseMulDiv() (ast.Expr, bool) {
	left := p.here()
	result, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	for {
		op, isMulDiv := mulDivOps[p.peekKind()]
		if !isMulDiv {
			break
		}
		p.advance()
		rhs, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		result = ast.Op{Meta: ast.Meta{Span: span.Join(left, p.here())}, Left: result, Op: op, Right: rhs}
	}
	return result, true
}

// parseUnary is precedence level 11: prefix `+`, `-`, `~`, right-associative.
func (p *Parser) parseUnary() (ast.Expr, bool) {
	left := p.here()
	switch p.peekKind() {
	case token.KindPlus:
		p.advance()
		x, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return ast.Plus{Meta: ast.Meta{Span: span.Join(left, p.here())}, X: x}, true
	case token.KindMinus:
		p.advance()
		x, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return ast.Minus{Meta: ast.Meta{Span: span.Join(left, p.here())}, X: x}, true
	case token.KindTilde:
		p.advance()
		x, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return ast.BitNot{Meta: ast.Meta{Span: span.Join(left, p.here())}, X: x}, true
	default:
		return p.parsePrimary()
	}
}

// parsePrimary is precedence level 12: an atom followed by any sequence
// of attribute access, call, or subscript/slice trailers.
func (p *Parser) parsePrimary() (ast.Expr, bool) {
	left := p.here()
	result, ok := p.parseAtom()
	if !ok {
		return nil, false
	}
	for {
		switch p.peekKind() {
		case token.KindDot:
			p.advance()
			attrTok, ok := p.expect(token.KindIdentifier)
			if !ok {
				return nil, false
			}
			result = ast.Dot{Meta: ast.Meta{Span: span.Join(left, p.here())}, X: result, Attr: attrTok.Text}
		case token.KindLParen:
			args, ok := p.parseArguments()
			if !ok {
				return nil, false
			}
			if !p.checkArguments(args) {
				return nil, false
			}
			result = ast.Call{Meta: ast.Meta{Span: span.Join(left, p.here())}, Func: result, Args: args}
		case token.KindLBracket:
			next, ok := p.parseSubscript(result, left)
			if !ok {
				return nil, false
			}
			result = next
		default:
			return result, true
		}
	}
}

// parseSubscript parses `[...]` after x: a slice (when a `:` appears),
// two comma-separated keys (Index2), or a single key (Index).
func (p *Parser) parseSubscript(x ast.Expr, left span.Span) (ast.Expr, bool) {
	p.advance() // `[`

	var start ast.Expr
	if !p.at(token.KindColon) {
		s, ok := p.parseTest()
		if !ok {
			return nil, false
		}
		start = s
	}
	if p.at(token.KindColon) {
		p.advance()
		var stop, step ast.Expr
		if !p.atAny(token.KindColon, token.KindRBracket) {
			s, ok := p.parseTest()
			if !ok {
				return nil, false
			}
			stop = s
		}
		if p.at(token.KindColon) {
			p.advance()
			if !p.at(token.KindRBracket) {
				s, ok := p.parseTest()
				if !ok {
					return nil, false
				}
				step = s
			}
		}
		if _, ok := p.expect(token.KindRBracket); !ok {
			return nil, false
		}
		return ast.Slice{Meta: ast.Meta{Span: span.Join(left, p.here())}, X: x, Start: start, Stop: stop, Step: step}, true
	}

	if p.at(token.KindComma) {
		p.advance()
		second, ok := p.parseTest()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.KindRBracket); !ok {
			return nil, false
		}
		return ast.Index2{Meta: ast.Meta{Span: span.Join(left, p.here())}, X: x, Index1: start, Index2: second}, true
	}
	if _, ok := p.expect(token.KindRBracket); !ok {
		return nil, false
	}
	return ast.Index{Meta: ast.Meta{Span: span.Join(left, p.here())}, X: x, Index: start}, true
}

// parseAtom is precedence level 13.
func (p *Parser) parseAtom() (ast.Expr, bool) {
	left := p.here()
	t := p.peek()
	if t == nil {
		p.fail(diag.Syntax, p.here(), "unexpected end of input (expecting an expression)")
		return nil, false
	}

	switch t.Kind {
	case token.KindIdentifier:
		p.advance()
		return ast.Identifier{Meta: ast.Meta{Span: t.Span}, Name: t.Text}, true
	case token.KindInteger:
		p.advance()
		val := t.Int
		if val == nil {
			val = new(big.Int)
		}
		return ast.Literal{Meta: ast.Meta{Span: t.Span}, Kind: ast.LiteralInt, Int: val}, true
	case token.KindFloat:
		p.advance()
		return ast.Literal{Meta: ast.Meta{Span: t.Span}, Kind: ast.LiteralFloat, Float: t.Float}, true
	case token.KindString:
		p.advance()
		return ast.Literal{Meta: ast.Meta{Span: t.Span}, Kind: ast.LiteralString, Str: t.Text}, true
	case token.KindFString:
		return p.parseFString(t)
	case token.KindLParen:
		return p.parseParenthesized(left)
	case token.KindLBracket:
		return p.parseListOrComprehension(left)
	case token.KindLBrace:
		return p.parseDictOrComprehension(left)
	default:
		p.fail(diag.Syntax, t.Span, "unexpected %s (expecting an expression)", describe(t))
		return nil, false
	}
}

// parseParenthesized handles `()` (empty tuple), `(e)` (grouping), and
// `(e,)`/`(e, e2, ...)` (tuple).
func (p *Parser) parseParenthesized(left span.Span) (ast.Expr, bool) {
	p.advance() // `(`
	if p.at(token.KindRParen) {
		p.advance()
		return ast.Tuple{Meta: ast.Meta{Span: span.Join(left, p.here())}}, true
	}
	first, ok := p.parseTest()
	if !ok {
		return nil, false
	}
	if p.at(token.KindComma) {
		elts := []ast.Expr{first}
		for p.at(token.KindComma) {
			p.advance()
			if p.at(token.KindRParen) {
				break
			}
			next, ok := p.parseTest()
			if !ok {
				return nil, false
			}
			elts = append(elts, next)
		}
		if _, ok := p.expect(token.KindRParen); !ok {
			return nil, false
		}
		return ast.Tuple{Meta: ast.Meta{Span: span.Join(left, p.here())}, Elts: elts}, true
	}
	if _, ok := p.expect(token.KindRParen); !ok {
		return nil, false
	}
	return first, true
}

func (p *Parser) parseListOrComprehension(left span.Span) (ast.Expr, bool) {
	p.advance() // `[`
	if p.at(token.KindRBracket) {
		p.advance()
		return ast.List{Meta: ast.Meta{Span: span.Join(left, p.here())}}, true
	}
	head, ok := p.parseTest()
	if !ok {
		return nil, false
	}
	if p.at(token.KindFor) {
		first, rest, ok := p.parseComprehensionClauses()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.KindRBracket); !ok {
			return nil, false
		}
		return ast.ListComprehension{Meta: ast.Meta{Span: span.Join(left, p.here())}, Head: head, First: first, Rest: rest}, true
	}
	elts := []ast.Expr{head}
	for p.at(token.KindComma) {
		p.advance()
		if p.at(token.KindRBracket) {
			break
		}
		next, ok := p.parseTest()
		if !ok {
			return nil, false
		}
		elts = append(elts, next)
	}
	if _, ok := p.expect(token.KindRBracket); !ok {
		return nil, false
	}
	return ast.List{Meta: ast.Meta{Span: span.Join(left, p.here())}, Elts: elts}, true
}

func (p *Parser) parseDictOrComprehension(left span.Span) (ast.Expr, bool) {
	p.advance() // `{`
	if p.at(token.KindRBrace) {
		p.advance()
		return ast.Dict{Meta: ast.Meta{Span: span.Join(left, p.here())}}, true
	}
	keyHead, ok := p.parseTest()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.KindColon); !ok {
		return nil, false
	}
	valueHead, ok := p.parseTest()
	if !ok {
		return nil, false
	}
	if p.at(token.KindFor) {
		first, rest, ok := p.parseComprehensionClauses()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.KindRBrace); !ok {
			return nil, false
		}
		return ast.DictComprehension{
			Meta: ast.Meta{Span: span.Join(left, p.here())},
			KeyHead: keyHead, ValueHead: valueHead, First: first, Rest: rest,
		}, true
	}
	keys := []ast.Expr{keyHead}
	values := []ast.Expr{valueHead}
	for p.at(token.KindComma) {
		p.advance()
		if p.at(token.KindRBrace) {
			break
		}
		k, ok := p.parseTest()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.KindColon); !ok {
			return nil, false
		}
		v, ok := p.parseTest()
		if !ok {
			return nil, false
		}
		keys = append(keys, k)
		values = append(values, v)
	}
	if _, ok := p.expect(token.KindRBrace); !ok {
		return nil, false
	}
	return ast.Dict{Meta: ast.Meta{Span: span.Join(left, p.here())}, Keys: keys, Values: values}, true
}

// parseComprehensionClauses parses the mandatory leading for-clause and
// zero or more trailing for/if clauses of a comprehension.
func (p *Parser) parseComprehensionClauses() (ast.ForClause, []ast.Clause, bool) {
	first, ok := p.parseForClause()
	if !ok {
		return ast.ForClause{}, nil, false
	}
	var rest []ast.Clause
	for p.atAny(token.KindFor, token.KindIf) {
		if p.at(token.KindFor) {
			c, ok := p.parseForClause()
			if !ok {
				return ast.ForClause{}, nil, false
			}
			rest = append(rest, c)
		} else {
			c, ok := p.parseIfClause()
			if !ok {
				return ast.ForClause{}, nil, false
			}
			rest = append(rest, c)
		}
	}
	return first, rest, true
}

func (p *Parser) parseForClause() (ast.ForClause, bool) {
	left := p.here()
	if _, ok := p.expect(token.KindFor); !ok {
		return ast.ForClause{}, false
	}
	target, ok := p.parseTestListNoCond()
	if !ok {
		return ast.ForClause{}, false
	}
	if !p.checkAssignTarget(target) {
		return ast.ForClause{}, false
	}
	if _, ok := p.expect(token.KindIn); !ok {
		return ast.ForClause{}, false
	}
	iter, ok := p.parseOrTest()
	if !ok {
		return ast.ForClause{}, false
	}
	return ast.ForClause{Meta: ast.Meta{Span: span.Join(left, p.here())}, Target: target, Iter: iter}, true
}

func (p *Parser) parseIfClause() (ast.IfClause, bool) {
	left := p.here()
	if _, ok := p.expect(token.KindIf); !ok {
		return ast.IfClause{}, false
	}
	test, ok := p.parseOrTest()
	if !ok {
		return ast.IfClause{}, false
	}
	return ast.IfClause{Meta: ast.Meta{Span: span.Join(left, p.here())}, Test: test}, true
}
