// Package token defines the contract between the lexer and the parser: a
// stream of spanned, tagged tokens. The parser depends only on Stream and
// Token below — never on how a particular lexer produces them.
package token

import (
	"math/big"

	"gopkg.starbuild.dev/langfront.go/internal/iter"
	"gopkg.starbuild.dev/langfront.go/internal/span"
)

// Kind tags a Token's lexical category.
type Kind uint16

const (
	KindUnknown Kind = iota

	// Structural
	KindIndent
	KindDedent
	KindNewline
	KindEOF

	// Payload-carrying
	KindIdentifier
	KindInteger
	KindFloat
	KindString
	KindFString

	// Keywords
	KindAnd
	KindOr
	KindNot
	KindIf
	KindElif
	KindElse
	KindFor
	KindIn
	KindDef
	KindReturn
	KindBreak
	KindContinue
	KindPass
	KindLambda
	KindLoad

	// Punctuation
	KindComma
	KindSemicolon
	KindColon
	KindDot
	KindAssign
	KindArrow
	KindLParen
	KindRParen
	KindLBracket
	KindRBracket
	KindLBrace
	KindRBrace

	// Arithmetic / bitwise / shift operators
	KindPlus
	KindMinus
	KindStar
	KindSlash
	KindSlashSlash
	KindPercent
	KindAmp
	KindPipe
	KindCaret
	KindTilde
	KindLShift
	KindRShift
	KindDoubleStar // `**`: reserved for **kwargs, never exponentiation

	// Comparison
	KindEqEq
	KindNotEq
	KindLess
	KindGreater
	KindLessEq
	KindGreaterEq

	// Augmented assignment
	KindPlusEq
	KindMinusEq
	KindStarEq
	KindSlashEq
	KindSlashSlashEq
	KindPercentEq
	KindAmpEq
	KindPipeEq
	KindCaretEq
	KindLShiftEq
	KindRShiftEq
)

// FStringFragment is one piece of a pre-lexed f-string template: either a
// literal text run, a bare-identifier interpolation (IdentOnly, name given
// directly in Text — the common case, and the only one a strict dialect
// permits), or a general interpolation expression given as its own
// already-lexed token run, parsed independently by the parser once the
// fragment list has been assembled into the right order.
type FStringFragment struct {
	Literal   bool
	Text      string   // literal text (Literal) or bare identifier name (IdentOnly)
	Tokens    []*Token // interpolation tokens, when !Literal && !IdentOnly
	Span      span.Span
	IdentOnly bool // true if the lexer already confirmed this is a bare identifier
}

// Token is a single lexical unit: a kind, its span, and whatever payload
// its kind carries. Only the field matching Kind is meaningful.
type Token struct {
	Kind  Kind
	Span  span.Span
	Text  string   // raw source text, identifiers, decoded strings
	Int   *big.Int // KindInteger
	Float float64  // KindFloat
	FStr  []FStringFragment
}

// Stream is the lazy, finite, ordered sequence of Tokens a lexer produces.
// The parser never looks past Lookahead's fixed depth.
type Stream = iter.Lookahead[*Token]

// NewSliceStream wraps a fully materialized token slice as a Stream with
// the given lookahead depth. Useful for tests and for lexers that tokenize
// eagerly rather than lazily.
func NewSliceStream(toks []*Token, lookahead uint8) Stream {
	return iter.NewLookahead[*Token](iter.NewSlice(toks), lookahead)
}
