// Package diag defines the single diagnostic channel every parser
// production reports through. Unlike an accumulating error reporter, a
// parse surfaces at most one Diagnostic: the first production to fail wins
// and nothing downstream is given a chance to recover or continue (there is
// no synthetic-node insertion, no statement skipping).
package diag

import (
	"fmt"

	"gopkg.starbuild.dev/langfront.go/internal/span"
)

// Diagnostic is a single parse failure: a kind, a human-readable message,
// and the source span it occurred at.
type Diagnostic interface {
	error
	Kind() Kind
	Message() string
	Span() span.Span
}

type diagnostic struct {
	kind    Kind
	message string
	span    span.Span
}

func (d *diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.span.Start, d.span.End, d.kind, d.message)
}

func (d *diagnostic) Kind() Kind {
	return d.kind
}

func (d *diagnostic) Message() string {
	return d.message
}

func (d *diagnostic) Span() span.Span {
	return d.span
}

// New constructs a Diagnostic of the given kind at the given span.
func New(k Kind, sp span.Span, message string) Diagnostic {
	return &diagnostic{kind: k, message: message, span: sp}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(k Kind, sp span.Span, format string, args ...interface{}) Diagnostic {
	return New(k, sp, fmt.Sprintf(format, args...))
}
