// Package lexer turns source bytes into the pre-lexed token.Stream the
// parser consumes. It exists so the parser package can be exercised and
// tested against real source text; the token/diagnostic contract it
// produces is the one the parser actually depends on, not this specific
// tokenization strategy.
package lexer

import (
	"context"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.starbuild.dev/langfront.go/internal/diag"
	"gopkg.starbuild.dev/langfront.go/internal/iter"
	"gopkg.starbuild.dev/langfront.go/internal/optional"
	"gopkg.starbuild.dev/langfront.go/internal/source"
	"gopkg.starbuild.dev/langfront.go/internal/span"
	"gopkg.starbuild.dev/langfront.go/internal/token"
)

const lookaheadDepth = 2

var keywords = map[string]token.Kind{
	"and":      token.KindAnd,
	"or":       token.KindOr,
	"not":      token.KindNot,
	"if":       token.KindIf,
	"elif":     token.KindElif,
	"else":     token.KindElse,
	"for":      token.KindFor,
	"in":       token.KindIn,
	"def":      token.KindDef,
	"return":   token.KindReturn,
	"break":    token.KindBreak,
	"continue": token.KindContinue,
	"pass":     token.KindPass,
	"lambda":   token.KindLambda,
	"load":     token.KindLoad,
}

// Lex tokenizes the entirety of body, reporting the first lexical error to
// report (using the same fail-fast Reporter the parser uses) and returning
// the complete token slice otherwise.
func Lex(ctx context.Context, body source.FileBody, report diag.Reporter) ([]*token.Token, diag.Diagnostic) {
	l := &lexer{
		runes:   iter.NewLookahead(newRuneIterator(ctx, body), lookaheadDepth),
		report:  report,
		indents: []int{0},
	}
	return l.run(ctx)
}

type lexer struct {
	runes   iter.Lookahead[rune]
	report  diag.Reporter
	offset  int
	indents []int
	depth   int // nesting depth of (), [], {}
}

func (l *lexer) fail(sp span.Span, format string, args ...interface{}) {
	l.report.Report(diag.Newf(diag.Syntax, sp, format, args...))
}

func (l *lexer) failed() bool { return l.report.First() != nil }

func (l *lexer) peekN(n uint8) optional.Optional[rune] {
	return l.runes.Lookahead(context.Background(), n)
}

func (l *lexer) peek() optional.Optional[rune] { return l.peekN(0) }

func (l *lexer) advance() rune {
	v := l.runes.Next(context.Background())
	r := v.Value()
	l.offset += utf8.RuneLen(r)
	return r
}

func (l *lexer) run(ctx context.Context) ([]*token.Token, diag.Diagnostic) {
	var toks []*token.Token
	emit := func(t *token.Token) { toks = append(toks, t) }

	atLineStart := true
	for !l.failed() {
		if atLineStart && l.depth == 0 {
			done, ok := l.handleIndentation(emit)
			if !ok {
				return nil, l.report.First()
			}
			if done {
				break
			}
			atLineStart = false
			continue
		}

		t, nl, eof, ok := l.next()
		if !ok {
			return nil, l.report.First()
		}
		if eof {
			break
		}
		if t != nil {
			emit(t)
		}
		if nl {
			atLineStart = true
		}
	}

	if l.failed() {
		return nil, l.report.First()
	}

	if n := len(toks); n > 0 && toks[n-1].Kind != token.KindNewline {
		emit(&token.Token{Kind: token.KindNewline, Span: span.New(l.offset, l.offset)})
	}

	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		emit(&token.Token{Kind: token.KindDedent, Span: span.New(l.offset, l.offset)})
	}
	emit(&token.Token{Kind: token.KindEOF, Span: span.New(l.offset, l.offset)})
	return toks, nil
}

// handleIndentation measures leading whitespace at the start of a logical
// line, skips blank/comment-only lines without affecting the indent
// stack, and emits INDENT/DEDENT tokens against the stack. Returns
// done=true when EOF was reached while scanning indentation.
func (l *lexer) handleIndentation(emit func(*token.Token)) (done bool, ok bool) {
	for {
		width := 0
		for {
			r := l.peek()
			if !r.IsPresent() {
				return true, true
			}
			switch r.Value() {
			case ' ':
				width++
				l.advance()
				continue
			case '\t':
				width += 8 - (width % 8)
				l.advance()
				continue
			}
			break
		}
		r := l.peek()
		if !r.IsPresent() {
			return true, true
		}
		switch r.Value() {
		case '\n':
			l.advance()
			continue
		case '\r':
			l.advance()
			if n := l.peek(); n.IsPresent() && n.Value() == '\n' {
				l.advance()
			}
			continue
		case '#':
			l.skipComment()
			continue
		}

		top := l.indents[len(l.indents)-1]
		if width > top {
			l.indents = append(l.indents, width)
			emit(&token.Token{Kind: token.KindIndent, Span: span.New(l.offset, l.offset)})
		} else {
			for width < l.indents[len(l.indents)-1] {
				l.indents = l.indents[:len(l.indents)-1]
				emit(&token.Token{Kind: token.KindDedent, Span: span.New(l.offset, l.offset)})
			}
			if width != l.indents[len(l.indents)-1] {
				l.fail(span.New(l.offset, l.offset), "inconsistent indentation")
				return false, false
			}
		}
		return false, true
	}
}

func (l *lexer) skipComment() {
	for {
		r := l.peek()
		if !r.IsPresent() || r.Value() == '\n' || r.Value() == '\r' {
			return
		}
		l.advance()
	}
}

// next reads one token body (i.e. not the line-start indentation scan).
// nl reports whether a logical-line-ending NEWLINE token was produced, eof
// reports end of input.
func (l *lexer) next() (t *token.Token, nl bool, eof bool, ok bool) {
	for {
		r := l.peek()
		if !r.IsPresent() {
			return nil, false, true, true
		}
		switch r.Value() {
		case ' ', '\t':
			l.advance()
			continue
		case '#':
			l.skipComment()
			continue
		case '\\':
			// explicit line continuation
			if n := l.peekN(1); n.IsPresent() && (n.Value() == '\n' || n.Value() == '\r') {
				l.advance()
				l.consumeNewline()
				continue
			}
		case '\n', '\r':
			start := l.offset
			l.consumeNewline()
			if l.depth > 0 {
				continue
			}
			return &token.Token{Kind: token.KindNewline, Span: span.New(start, l.offset)}, true, false, true
		}
		break
	}
	tok, ok := l.lexOne()
	return tok, false, false, ok
}

func (l *lexer) consumeNewline() {
	r := l.advance()
	if r == '\r' {
		if n := l.peek(); n.IsPresent() && n.Value() == '\n' {
			l.advance()
		}
	}
}

func (l *lexer) lexOne() (*token.Token, bool) {
	start := l.offset
	r := l.advance()

	switch {
	case r == '_' || unicode.IsLetter(r):
		return l.lexIdentifierOrPrefixedString(start, r)
	case unicode.IsDigit(r):
		return l.lexNumber(start, r)
	case r == '"' || r == '\'':
		return l.lexString(start, r, false)
	}

	switch r {
	case ',':
		return l.simple(start, token.KindComma), true
	case ';':
		return l.simple(start, token.KindSemicolon), true
	case ':':
		return l.simple(start, token.KindColon), true
	case '.':
		if n := l.peek(); n.IsPresent() && unicode.IsDigit(n.Value()) {
			return l.lexNumber(start, r)
		}
		return l.simple(start, token.KindDot), true
	case '(':
		l.depth++
		return l.simple(start, token.KindLParen), true
	case ')':
		l.depth--
		return l.simple(start, token.KindRParen), true
	case '[':
		l.depth++
		return l.simple(start, token.KindLBracket), true
	case ']':
		l.depth--
		return l.simple(start, token.KindRBracket), true
	case '{':
		l.depth++
		return l.simple(start, token.KindLBrace), true
	case '}':
		l.depth--
		return l.simple(start, token.KindRBrace), true
	case '~':
		return l.simple(start, token.KindTilde), true
	case '+':
		return l.oneOrTwo(start, '=', token.KindPlus, token.KindPlusEq), true
	case '%':
		return l.oneOrTwo(start, '=', token.KindPercent, token.KindPercentEq), true
	case '^':
		return l.oneOrTwo(start, '=', token.KindCaret, token.KindCaretEq), true
	case '=':
		return l.oneOrTwo(start, '=', token.KindAssign, token.KindEqEq), true
	case '&':
		return l.oneOrTwo(start, '=', token.KindAmp, token.KindAmpEq), true
	case '|':
		return l.oneOrTwo(start, '=', token.KindPipe, token.KindPipeEq), true
	case '-':
		if n := l.peek(); n.IsPresent() && n.Value() == '>' {
			l.advance()
			return &token.Token{Kind: token.KindArrow, Span: span.New(start, l.offset)}, true
		}
		return l.oneOrTwo(start, '=', token.KindMinus, token.KindMinusEq), true
	case '*':
		if n := l.peek(); n.IsPresent() && n.Value() == '*' {
			l.advance()
			return &token.Token{Kind: token.KindDoubleStar, Span: span.New(start, l.offset)}, true
		}
		return l.oneOrTwo(start, '=', token.KindStar, token.KindStarEq), true
	case '/':
		if n := l.peek(); n.IsPresent() && n.Value() == '/' {
			l.advance()
			return l.oneOrTwo(start, '=', token.KindSlashSlash, token.KindSlashSlashEq), true
		}
		return l.oneOrTwo(start, '=', token.KindSlash, token.KindSlashEq), true
	case '<':
		if n := l.peek(); n.IsPresent() && n.Value() == '<' {
			l.advance()
			return l.oneOrTwo(start, '=', token.KindLShift, token.KindLShiftEq), true
		}
		return l.oneOrTwo(start, '=', token.KindLess, token.KindLessEq), true
	case '>':
		if n := l.peek(); n.IsPresent() && n.Value() == '>' {
			l.advance()
			return l.oneOrTwo(start, '=', token.KindRShift, token.KindRShiftEq), true
		}
		return l.oneOrTwo(start, '=', token.KindGreater, token.KindGreaterEq), true
	case '!':
		if n := l.peek(); n.IsPresent() && n.Value() == '=' {
			l.advance()
			return &token.Token{Kind: token.KindNotEq, Span: span.New(start, l.offset)}, true
		}
	}

	l.fail(span.New(start, l.offset), "unexpected character %q", r)
	return nil, false
}

func (l *lexer) simple(start int, k token.Kind) *token.Token {
	return &token.Token{Kind: k, Span: span.New(start, l.offset)}
}

// oneOrTwo reads one more rune: if it matches second, returns twoKind;
// otherwise returns oneKind without consuming.
func (l *lexer) oneOrTwo(start int, second rune, oneKind, twoKind token.Kind) *token.Token {
	if n := l.peek(); n.IsPresent() && n.Value() == second {
		l.advance()
		return &token.Token{Kind: twoKind, Span: span.New(start, l.offset)}
	}
	return &token.Token{Kind: oneKind, Span: span.New(start, l.offset)}
}

func (l *lexer) lexIdentifierOrPrefixedString(start int, first rune) (*token.Token, bool) {
	var b strings.Builder
	b.WriteRune(first)
	for {
		n := l.peek()
		if !n.IsPresent() {
			break
		}
		if n.Value() == '_' || unicode.IsLetter(n.Value()) || unicode.IsDigit(n.Value()) {
			b.WriteRune(l.advance())
			continue
		}
		break
	}
	text := b.String()

	if text == "f" || text == "F" {
		if n := l.peek(); n.IsPresent() && (n.Value() == '"' || n.Value() == '\'') {
			quote := l.advance()
			return l.lexString(start, quote, true)
		}
	}
	if k, isKeyword := keywords[text]; isKeyword {
		return &token.Token{Kind: k, Span: span.New(start, l.offset), Text: text}, true
	}
	return &token.Token{Kind: token.KindIdentifier, Span: span.New(start, l.offset), Text: text}, true
}

func (l *lexer) lexNumber(start int, first rune) (*token.Token, bool) {
	if first == '.' {
		return l.lexLeadingDotFloat(start)
	}

	var b strings.Builder
	b.WriteRune(first)
	base := 10
	if first == '0' {
		if n := l.peek(); n.IsPresent() {
			switch n.Value() {
			case 'x', 'X':
				b.WriteRune(l.advance())
				base = 16
			case 'o', 'O':
				b.WriteRune(l.advance())
				base = 8
			case 'b', 'B':
				b.WriteRune(l.advance())
				base = 2
			}
		}
	}

	isDigit := func(r rune) bool {
		switch base {
		case 16:
			return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
		case 8:
			return r >= '0' && r <= '7'
		case 2:
			return r == '0' || r == '1'
		default:
			return unicode.IsDigit(r)
		}
	}

	digitsStart := b.Len()
	if base == 10 {
		digitsStart = 0
	}
	for {
		n := l.peek()
		if !n.IsPresent() || !(isDigit(n.Value()) || n.Value() == '_') {
			break
		}
		b.WriteRune(l.advance())
	}

	isFloat := false
	if base == 10 {
		if n := l.peek(); n.IsPresent() && n.Value() == '.' {
			if n2 := l.peekN(1); !n2.IsPresent() || n2.Value() != '.' {
				isFloat = true
				b.WriteRune(l.advance())
				for {
					n := l.peek()
					if !n.IsPresent() || !unicode.IsDigit(n.Value()) {
						break
					}
					b.WriteRune(l.advance())
				}
			}
		}
		if n := l.peek(); n.IsPresent() && (n.Value() == 'e' || n.Value() == 'E') {
			isFloat = true
			b.WriteRune(l.advance())
			if n := l.peek(); n.IsPresent() && (n.Value() == '+' || n.Value() == '-') {
				b.WriteRune(l.advance())
			}
			for {
				n := l.peek()
				if !n.IsPresent() || !unicode.IsDigit(n.Value()) {
					break
				}
				b.WriteRune(l.advance())
			}
		}
	}

	text := b.String()
	sp := span.New(start, l.offset)
	if isFloat {
		f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
		if err != nil {
			l.fail(sp, "invalid float literal %q", text)
			return nil, false
		}
		return &token.Token{Kind: token.KindFloat, Span: sp, Text: text, Float: f}, true
	}

	digits := strings.ReplaceAll(text[digitsStart:], "_", "")
	if digits == "" {
		digits = "0"
	}
	i := new(big.Int)
	if _, ok := i.SetString(digits, base); !ok {
		l.fail(sp, "invalid integer literal %q", text)
		return nil, false
	}
	return &token.Token{Kind: token.KindInteger, Span: sp, Text: text, Int: i}, true
}

// lexLeadingDotFloat lexes a float literal with no integer part (`.5`),
// whose leading `.` was already disambiguated from the Dot punctuation by
// lexOne's one-rune lookahead.
func (l *lexer) lexLeadingDotFloat(start int) (*token.Token, bool) {
	var b strings.Builder
	b.WriteRune('.')
	for {
		n := l.peek()
		if !n.IsPresent() || !unicode.IsDigit(n.Value()) {
			break
		}
		b.WriteRune(l.advance())
	}
	if n := l.peek(); n.IsPresent() && (n.Value() == 'e' || n.Value() == 'E') {
		b.WriteRune(l.advance())
		if n := l.peek(); n.IsPresent() && (n.Value() == '+' || n.Value() == '-') {
			b.WriteRune(l.advance())
		}
		for {
			n := l.peek()
			if !n.IsPresent() || !unicode.IsDigit(n.Value()) {
				break
			}
			b.WriteRune(l.advance())
		}
	}

	text := b.String()
	sp := span.New(start, l.offset)
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil {
		l.fail(sp, "invalid float literal %q", text)
		return nil, false
	}
	return &token.Token{Kind: token.KindFloat, Span: sp, Text: text, Float: f}, true
}

func (l *lexer) lexString(start int, quote rune, isFString bool) (*token.Token, bool) {
	triple := false
	if n1 := l.peek(); n1.IsPresent() && n1.Value() == quote {
		if n2 := l.peekN(1); n2.IsPresent() && n2.Value() == quote {
			l.advance()
			l.advance()
			triple = true
		}
	}

	var frags []token.FStringFragment
	var lit strings.Builder
	flushLiteral := func(litStart int) {
		if lit.Len() == 0 {
			return
		}
		frags = append(frags, token.FStringFragment{Literal: true, Text: lit.String(), Span: span.New(litStart, l.offset)})
		lit.Reset()
	}

	litStart := l.offset
	for {
		n := l.peek()
		if !n.IsPresent() {
			l.fail(span.New(start, l.offset), "unterminated string literal")
			return nil, false
		}
		if n.Value() == quote {
			if !triple {
				l.advance()
				break
			}
			l.advance()
			if n2 := l.peek(); n2.IsPresent() && n2.Value() == quote {
				if n3 := l.peekN(1); n3.IsPresent() && n3.Value() == quote {
					l.advance()
					l.advance()
					break
				}
			}
			lit.WriteRune(quote)
			continue
		}
		if n.Value() == '\\' {
			l.advance()
			esc := l.peek()
			if !esc.IsPresent() {
				l.fail(span.New(start, l.offset), "unterminated escape sequence")
				return nil, false
			}
			lit.WriteRune(decodeEscape(l.advance()))
			continue
		}
		if isFString && n.Value() == '{' {
			if n2 := l.peekN(1); n2.IsPresent() && n2.Value() == '{' {
				l.advance()
				l.advance()
				lit.WriteRune('{')
				continue
			}
			flushLiteral(litStart)
			frag, ok := l.lexFStringInterpolation()
			if !ok {
				return nil, false
			}
			frags = append(frags, frag)
			litStart = l.offset
			continue
		}
		if isFString && n.Value() == '}' {
			if n2 := l.peekN(1); n2.IsPresent() && n2.Value() == '}' {
				l.advance()
				l.advance()
				lit.WriteRune('}')
				continue
			}
		}
		if !triple && (n.Value() == '\n' || n.Value() == '\r') {
			l.fail(span.New(start, l.offset), "newline in single-line string literal")
			return nil, false
		}
		lit.WriteRune(l.advance())
	}
	flushLiteral(litStart)

	sp := span.New(start, l.offset)
	if isFString {
		return &token.Token{Kind: token.KindFString, Span: sp, FStr: frags}, true
	}
	var s strings.Builder
	for _, f := range frags {
		s.WriteString(f.Text)
	}
	return &token.Token{Kind: token.KindString, Span: sp, Text: s.String()}, true
}

// lexFStringInterpolation reads a `{expr}` fragment, tracking brace
// nesting so an expression containing its own `{`/`}` (a nested dict or
// set literal) is captured whole, then sub-lexes that text. When the
// fragment is a bare identifier, it is recorded directly without a
// sub-lex pass.
func (l *lexer) lexFStringInterpolation() (token.FStringFragment, bool) {
	braceSpanStart := l.offset
	l.advance() // `{`
	exprStart := l.offset

	depth := 1
	var raw strings.Builder
	for depth > 0 {
		n := l.peek()
		if !n.IsPresent() {
			l.fail(span.New(braceSpanStart, l.offset), "unterminated f-string interpolation")
			return token.FStringFragment{}, false
		}
		switch n.Value() {
		case '{':
			depth++
			raw.WriteRune(l.advance())
		case '}':
			depth--
			if depth == 0 {
				l.advance()
			} else {
				raw.WriteRune(l.advance())
			}
		default:
			raw.WriteRune(l.advance())
		}
	}

	text := raw.String()
	sp := span.New(exprStart, l.offset-1)
	if isBareIdentifier(text) {
		return token.FStringFragment{Text: text, Span: sp, IdentOnly: true}, true
	}

	subReporter := diag.NewReporter()
	toks, d := lexInline(text, exprStart, subReporter)
	if d != nil {
		l.report.Report(d)
		return token.FStringFragment{}, false
	}
	return token.FStringFragment{Tokens: toks, Span: sp}, true
}

func isBareIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if r != '_' && !unicode.IsLetter(r) {
				return false
			}
			continue
		}
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func decodeEscape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return r
	}
}
