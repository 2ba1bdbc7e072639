package lexer

import (
	"gopkg.starbuild.dev/langfront.go/internal/diag"
	"gopkg.starbuild.dev/langfront.go/internal/iter"
	"gopkg.starbuild.dev/langfront.go/internal/token"
)

// lexInline tokenizes an in-memory expression fragment (an f-string
// interpolation body) rather than a source.FileBody, offsetting every
// span by offsetBase so positions remain correct against the original
// file. It never synthesizes INDENT/DEDENT/NEWLINE: an interpolation
// expression is always a single logical line.
func lexInline(text string, offsetBase int, report diag.Reporter) ([]*token.Token, diag.Diagnostic) {
	l := &lexer{
		runes:   iter.NewLookahead[rune](newStringRuneIterator(text), lookaheadDepth),
		report:  report,
		indents: []int{0},
		offset:  offsetBase,
	}

	var toks []*token.Token
	for !l.failed() {
		for {
			r := l.peek()
			if !r.IsPresent() || r.Value() != ' ' {
				break
			}
			l.advance()
		}
		if !l.peek().IsPresent() {
			break
		}
		t, ok := l.lexOne()
		if !ok {
			return nil, l.report.First()
		}
		toks = append(toks, t)
	}
	if l.failed() {
		return nil, l.report.First()
	}
	return toks, nil
}

func newStringRuneIterator(s string) iter.Iterator[rune] {
	return iter.NewSlice([]rune(s))
}