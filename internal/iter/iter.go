// Package iter provides small generic sequence helpers shared by the lexer
// (over code points) and the parser (over tokens): a slice source and a
// fixed-depth lookahead buffer.
package iter

import (
	"context"

	"gopkg.starbuild.dev/langfront.go/internal/optional"
)

type Closer interface {
	Close(ctx context.Context) error
}

// Iterator is a lazy, finite, ordered sequence of values.
type Iterator[T any] interface {
	Next(ctx context.Context) optional.Optional[T]
	Closer
}

// Lookahead is an Iterator that additionally supports peeking up to a fixed
// number of positions ahead of the cursor without consuming them.
type Lookahead[T any] interface {
	Iterator[T]
	Lookahead(ctx context.Context, n uint8) optional.Optional[T]
}

// NewSlice converts a slice of values into an Iterator implementation.
func NewSlice[T any](vs []T) Iterator[T] {
	return &iteratorSlice[T]{slice: vs, offset: -1}
}

type iteratorSlice[T any] struct {
	slice  []T
	offset int
}

func (it *iteratorSlice[T]) Next(ctx context.Context) optional.Optional[T] {
	it.offset = it.offset + 1
	if it.offset >= len(it.slice) {
		return optional.None[T]()
	}
	return optional.Some(it.slice[it.offset])
}

func (it *iteratorSlice[T]) Close(ctx context.Context) error {
	return nil
}

// NewLookahead wraps an iterator in a Lookahead implementation to enable
// peeking at the next n+1 values: Lookahead(0) is the value the next call
// to Next returns, and Lookahead(n) is the furthest position available.
func NewLookahead[T any](it Iterator[T], n uint8) Lookahead[T] {
	return &lookahead[T]{
		iter: it,
		n:    n,
	}
}

type lookahead[T any] struct {
	iter  Iterator[T]
	n     uint8
	peeks []optional.Optional[T]
}

func (look *lookahead[T]) init(ctx context.Context) {
	if look.peeks == nil {
		look.peeks = make([]optional.Optional[T], look.n+1)
		for x := 0; x <= int(look.n); x = x + 1 {
			look.peeks[x] = look.iter.Next(ctx)
		}
	}
}

func (look *lookahead[T]) Next(ctx context.Context) optional.Optional[T] {
	look.init(ctx)
	next := look.peeks[0]
	copy(look.peeks, look.peeks[1:])
	look.peeks[len(look.peeks)-1] = look.iter.Next(ctx)
	return next
}

func (look *lookahead[T]) Close(ctx context.Context) error {
	return look.iter.Close(ctx)
}

func (look *lookahead[T]) Lookahead(ctx context.Context, n uint8) optional.Optional[T] {
	if look.peeks == nil {
		look.init(ctx)
	}
	if n > look.n {
		return optional.None[T]()
	}
	return look.peeks[n]
}
