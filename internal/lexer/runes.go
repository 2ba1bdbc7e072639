package lexer

import (
	"bufio"
	"context"
	"errors"
	"io"
	"unicode/utf8"

	"gopkg.starbuild.dev/langfront.go/internal/iter"
	"gopkg.starbuild.dev/langfront.go/internal/optional"
	"gopkg.starbuild.dev/langfront.go/internal/source"
)

// newRuneIterator converts a FileBody into an iterator of runes. It carries
// no byte offsets; the lexer counts them itself as it advances.
func newRuneIterator(ctx context.Context, b source.FileBody) iter.Iterator[rune] {
	rc := &fileBodyIO{ctx: ctx, body: b}
	scanner := bufio.NewScanner(rc)
	scanner.Split(bufio.ScanRunes)
	return &runeIterator{readCloser: rc, scanner: scanner}
}

type runeIterator struct {
	readCloser io.ReadCloser
	scanner    *bufio.Scanner
}

func (f *runeIterator) Next(ctx context.Context) optional.Optional[rune] {
	if !f.scanner.Scan() {
		return optional.None[rune]()
	}
	r, _ := utf8.DecodeRune(f.scanner.Bytes())
	return optional.Some(r)
}

func (f *runeIterator) Close(ctx context.Context) error {
	_ = f.readCloser.Close()
	return f.scanner.Err()
}

type fileBodyIO struct {
	ctx  context.Context
	body source.FileBody
}

func (f *fileBodyIO) Read(p []byte) (int, error) {
	b, err := f.body.Read(f.ctx, int32(len(p)))
	if err != nil && !errors.Is(err, io.EOF) {
		return len(b), err
	}
	copy(p, b)
	if errors.Is(err, io.EOF) {
		return len(b), io.EOF
	}
	return len(b), nil
}

func (f *fileBodyIO) Close() error {
	return f.body.Close(f.ctx)
}
