package parser

import (
	"gopkg.starbuild.dev/langfront.go/internal/ast"
	"gopkg.starbuild.dev/langfront.go/internal/diag"
	"gopkg.starbuild.dev/langfront.go/internal/span"
	"gopkg.starbuild.dev/langfront.go/internal/token"
)

// parseFile implements the top-level production: zero-or-more NEWLINEs,
// then zero-or-more statements each followed by zero-or-more NEWLINEs.
func (p *Parser) parseFile() ast.StatementsStmt {
	left := p.here()
	p.skipNewlines()

	var stmts []ast.Stmt
	for !p.failed() && p.peekKind() != token.KindEOF {
		stmts = append(stmts, p.parseStatement()...)
		if p.failed() {
			break
		}
		p.skipNewlines()
	}
	return ast.StatementsStmt{
		Meta:  ast.Meta{Span: span.Join(left, p.here())},
		Stmts: stmts,
	}
}

// parseStatement parses one compound statement (returned as a single
// element) or one line of semicolon-separated simple statements (returned
// as one element per simple statement, NEWLINE-terminated).
func (p *Parser) parseStatement() []ast.Stmt {
	switch p.peekKind() {
	case token.KindDef:
		if s, ok := p.parseDef(); ok {
			return []ast.Stmt{s}
		}
		return nil
	case token.KindIf:
		if s, ok := p.parseIf(); ok {
			return []ast.Stmt{s}
		}
		return nil
	case token.KindFor:
		if s, ok := p.parseFor(); ok {
			return []ast.Stmt{s}
		}
		return nil
	default:
		return p.parseSimpleStatementLine()
	}
}

// parseSuite parses the body of a compound statement: either an inline
// simple-statement sequence, or an indented block.
func (p *Parser) parseSuite() (ast.Stmt, bool) {
	left := p.here()
	if !p.at(token.KindNewline) {
		stmts := p.parseSimpleStatementLine()
		if p.failed() {
			return nil, false
		}
		return ast.StatementsStmt{Meta: ast.Meta{Span: span.Join(left, p.here())}, Stmts: stmts}, true
	}

	p.skipNewlines()
	if _, ok := p.expect(token.KindIndent); !ok {
		return nil, false
	}
	p.skipNewlines()

	var stmts []ast.Stmt
	for {
		stmts = append(stmts, p.parseStatement()...)
		if p.failed() {
			return nil, false
		}
		p.skipNewlines()
		if p.at(token.KindDedent) || p.peek() == nil {
			break
		}
	}
	if _, ok := p.expect(token.KindDedent); !ok {
		return nil, false
	}
	return ast.StatementsStmt{Meta: ast.Meta{Span: span.Join(left, p.here())}, Stmts: stmts}, true
}

// parseIf parses `if`/`elif`/`else`, desugaring `elif` into an IfStmt (or
// IfElseStmt) nested in the Else slot of the enclosing IfElseStmt.
func (p *Parser) parseIf() (ast.Stmt, bool) {
	left := p.here()
	if _, ok := p.expect(token.KindIf); !ok {
		return nil, false
	}
	cond, ok := p.parseTest()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.KindColon); !ok {
		return nil, false
	}
	then, ok := p.parseSuite()
	if !ok {
		return nil, false
	}

	if p.at(token.KindElif) {
		els, ok := p.parseElif()
		if !ok {
			return nil, false
		}
		return ast.IfElseStmt{Meta: ast.Meta{Span: span.Join(left, p.here())}, Cond: cond, Then: then, Else: els}, true
	}
	if p.at(token.KindElse) {
		p.advance()
		if _, ok := p.expect(token.KindColon); !ok {
			return nil, false
		}
		els, ok := p.parseSuite()
		if !ok {
			return nil, false
		}
		return ast.IfElseStmt{Meta: ast.Meta{Span: span.Join(left, p.here())}, Cond: cond, Then: then, Else: els}, true
	}
	return ast.IfStmt{Meta: ast.Meta{Span: span.Join(left, p.here())}, Cond: cond, Then: then}, true
}

// parseElif parses an `elif` clause as if it were `if` (the keyword is
// already positioned at `elif`), producing the nested statement that
// becomes the enclosing IfElseStmt's Else branch.
func (p *Parser) parseElif() (ast.Stmt, bool) {
	left := p.here()
	if _, ok := p.expect(token.KindElif); !ok {
		return nil, false
	}
	cond, ok := p.parseTest()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.KindColon); !ok {
		return nil, false
	}
	then, ok := p.parseSuite()
	if !ok {
		return nil, false
	}
	if p.at(token.KindElif) {
		els, ok := p.parseElif()
		if !ok {
			return nil, false
		}
		return ast.IfElseStmt{Meta: ast.Meta{Span: span.Join(left, p.here())}, Cond: cond, Then: then, Else: els}, true
	}
	if p.at(token.KindElse) {
		p.advance()
		if _, ok := p.expect(token.KindColon); !ok {
			return nil, false
		}
		els, ok := p.parseSuite()
		if !ok {
			return nil, false
		}
		return ast.IfElseStmt{Meta: ast.Meta{Span: span.Join(left, p.here())}, Cond: cond, Then: then, Else: els}, true
	}
	return ast.IfStmt{Meta: ast.Meta{Span: span.Join(left, p.here())}, Cond: cond, Then: then}, true
}

// parseFor parses `for target in iter: suite`. The target is checked for
// assign-target legality, same as an assignment LHS.
func (p *Parser) parseFor() (ast.Stmt, bool) {
	left := p.here()
	if _, ok := p.expect(token.KindFor); !ok {
		return nil, false
	}
	target, ok := p.parseTestListNoCond()
	if !ok {
		return nil, false
	}
	if !p.checkAssignTarget(target) {
		return nil, false
	}
	if _, ok := p.expect(token.KindIn); !ok {
		return nil, false
	}
	iter, ok := p.parseTestList()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.KindColon); !ok {
		return nil, false
	}
	body, ok := p.parseSuite()
	if !ok {
		return nil, false
	}
	return ast.ForStmt{Meta: ast.Meta{Span: span.Join(left, p.here())}, Target: target, Iter: iter, Body: body}, true
}

// parseDef parses `def name(params) -> returnType: suite`.
func (p *Parser) parseDef() (ast.Stmt, bool) {
	left := p.here()
	if _, ok := p.expect(token.KindDef); !ok {
		return nil, false
	}
	nameTok, ok := p.expect(token.KindIdentifier)
	if !ok {
		return nil, false
	}
	params, ok := p.parseParameterList(true)
	if !ok {
		return nil, false
	}
	if !p.checkParameterList(params) {
		return nil, false
	}

	var returnType ast.Expr
	if p.at(token.KindArrow) {
		arrowSpan := p.peek().Span
		p.advance()
		rt, ok := p.parseTest()
		if !ok {
			return nil, false
		}
		if !p.gate.AllowReturnTypes(p.ctx) {
			p.fail(diag.DisallowedFeature, arrowSpan, "return type annotations are not permitted by this dialect")
			return nil, false
		}
		returnType = rt
	}
	if _, ok := p.expect(token.KindColon); !ok {
		return nil, false
	}
	body, ok := p.parseSuite()
	if !ok {
		return nil, false
	}
	return ast.DefStmt{
		Meta:       ast.Meta{Span: span.Join(left, p.here())},
		Name:       nameTok.Text,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
	}, true
}

// parseSimpleStatementLine parses one or more `;`-separated small
// statements terminated by NEWLINE (or end of input). A trailing `;` is
// permitted.
func (p *Parser) parseSimpleStatementLine() []ast.Stmt {
	var stmts []ast.Stmt
	for {
		s, ok := p.parseSmallStatement()
		if !ok {
			return nil
		}
		stmts = append(stmts, s)
		if !p.at(token.KindSemicolon) {
			break
		}
		p.advance()
		if p.at(token.KindNewline) || p.peek() == nil {
			break
		}
	}
	if p.peek() != nil && !p.at(token.KindNewline) {
		p.fail(diag.Syntax, p.peek().Span, "unexpected %s (expecting end of statement)", describe(p.peek()))
		return nil
	}
	return stmts
}

func (p *Parser) parseSmallStatement() (ast.Stmt, bool) {
	left := p.here()
	switch p.peekKind() {
	case token.KindReturn:
		p.advance()
		var value ast.Expr
		if !p.atAny(token.KindNewline, token.KindSemicolon) && p.peek() != nil {
			v, ok := p.parseTestList()
			if !ok {
				return nil, false
			}
			value = v
		}
		return ast.ReturnStmt{Meta: ast.Meta{Span: span.Join(left, p.here())}, Value: value}, true
	case token.KindBreak:
		p.advance()
		return ast.BreakStmt{Meta: ast.Meta{Span: span.Join(left, p.here())}}, true
	case token.KindContinue:
		p.advance()
		return ast.ContinueStmt{Meta: ast.Meta{Span: span.Join(left, p.here())}}, true
	case token.KindPass:
		p.advance()
		return ast.PassStmt{Meta: ast.Meta{Span: span.Join(left, p.here())}}, true
	case token.KindLoad:
		return p.parseLoad()
	default:
		return p.parseAssignOrExprStatement()
	}
}

// parseLoad parses `load("module", "sym", alias = "name", ...)`.
func (p *Parser) parseLoad() (ast.Stmt, bool) {
	left := p.here()
	p.advance() // `load`
	if _, ok := p.expect(token.KindLParen); !ok {
		return nil, false
	}
	modTok, ok := p.expect(token.KindString)
	if !ok {
		return nil, false
	}

	var pairs []ast.LoadPair
	for p.at(token.KindComma) {
		p.advance()
		if p.at(token.KindRParen) {
			break // trailing comma
		}
		pair, ok := p.parseLoadPair()
		if !ok {
			return nil, false
		}
		pairs = append(pairs, pair)
	}
	closeTok, ok := p.expect(token.KindRParen)
	if !ok {
		return nil, false
	}
	if len(pairs) == 0 {
		p.fail(diag.MalformedLoad, span.Join(left, closeTok.Span), "load statement must import at least one symbol")
		return nil, false
	}
	return ast.LoadStmt{
		Meta:   ast.Meta{Span: span.Join(left, p.here())},
		Module: modTok.Text,
		Pairs:  pairs,
	}, true
}

func (p *Parser) parseLoadPair() (ast.LoadPair, bool) {
	if p.at(token.KindString) {
		nameTok, _ := p.expect(token.KindString)
		return ast.LoadPair{Local: nameTok.Text, Exported: nameTok.Text}, true
	}
	if p.at(token.KindIdentifier) {
		localTok, _ := p.expect(token.KindIdentifier)
		if _, ok := p.expect(token.KindAssign); !ok {
			return ast.LoadPair{}, false
		}
		expTok, ok := p.expect(token.KindString)
		if !ok {
			return ast.LoadPair{}, false
		}
		return ast.LoadPair{Local: localTok.Text, Exported: expTok.Text}, true
	}
	t := p.peek()
	if t == nil {
		p.fail(diag.MalformedLoad, p.here(), "unexpected end of input in load statement")
	} else {
		p.fail(diag.MalformedLoad, t.Span, "unexpected %s in load statement", describe(t))
	}
	return ast.LoadPair{}, false
}

var augmentedAssignOps = map[token.Kind]ast.AssignOp{
	token.KindPlusEq:       ast.AssignAdd,
	token.KindMinusEq:      ast.AssignSub,
	token.KindStarEq:       ast.AssignMul,
	token.KindSlashEq:      ast.AssignDiv,
	token.KindSlashSlashEq: ast.AssignFloorDiv,
	token.KindPercentEq:    ast.AssignMod,
	token.KindAmpEq:        ast.AssignBitAnd,
	token.KindPipeEq:       ast.AssignBitOr,
	token.KindCaretEq:      ast.AssignBitXor,
	token.KindLShiftEq:     ast.AssignLShift,
	token.KindRShiftEq:     ast.AssignRShift,
}

// parseAssignOrExprStatement parses a bare expression statement, a plain
// assignment (optionally type-annotated), or an augmented assignment.
func (p *Parser) parseAssignOrExprStatement() (ast.Stmt, bool) {
	left := p.here()
	lhs, ok := p.parseTestList()
	if !ok {
		return nil, false
	}

	var typeAnn ast.Expr
	if p.at(token.KindColon) {
		colonSpan := p.peek().Span
		p.advance()
		t, ok := p.parseTest()
		if !ok {
			return nil, false
		}
		typeAnn = t
		if !p.gate.AllowAssignmentTypeAnnotation(p.ctx) {
			p.fail(diag.DisallowedFeature, colonSpan, "assignment type annotations are not permitted by this dialect")
			return nil, false
		}
		if _, isIdent := lhs.(ast.Identifier); !isIdent {
			p.fail(diag.IllegalAssignmentTarget, lhs.GetSpan(), "type annotation is only permitted on assignment to a single identifier")
			return nil, false
		}
	}

	if p.at(token.KindAssign) {
		p.advance()
		rhs, ok := p.parseTestList()
		if !ok {
			return nil, false
		}
		if !p.checkAssignTarget(lhs) {
			return nil, false
		}
		return ast.AssignStmt{
			Meta: ast.Meta{Span: span.Join(left, p.here())},
			LHS:  lhs, Type: typeAnn, Op: ast.AssignPlain, RHS: rhs,
		}, true
	}

	if op, isAug := augmentedAssignOps[p.peekKind()]; isAug {
		if typeAnn != nil {
			p.fail(diag.Syntax, p.peek().Span, "expected `=` after type annotation")
			return nil, false
		}
		p.advance()
		rhs, ok := p.parseTestList()
		if !ok {
			return nil, false
		}
		if !p.checkSingleAssignTarget(lhs) {
			return nil, false
		}
		return ast.AssignStmt{
			Meta: ast.Meta{Span: span.Join(left, p.here())},
			LHS:  lhs, Type: nil, Op: op, RHS: rhs,
		}, true
	}

	if typeAnn != nil {
		p.fail(diag.Syntax, p.here(), "expected `=` after type annotation")
		return nil, false
	}
	return ast.ExprStmt{Meta: ast.Meta{Span: span.Join(left, p.here())}, X: lhs}, true
}
