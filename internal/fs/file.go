// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"bufio"
	"context"
	"io"
	"strings"

	"gopkg.starbuild.dev/langfront.go/internal/source"
)

// NewFileString wraps static string content in source.File. Mainly used by
// tests, which supply source text directly rather than a path on disk.
func NewFileString(path string, content string) source.File {
	return NewFileFN(path, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	})
}

type fileIOFunc struct {
	path string
	body func() (io.ReadCloser, error)
}

// NewFileFN wraps arbitrary content in the source.File interface. The given
// body function is called each time source.File.Body is invoked, so it must
// return a fresh io.ReadCloser handle; there is no guarantee only one output
// of the body function is in use at a time.
func NewFileFN(path string, body func() (io.ReadCloser, error)) source.File {
	return &fileIOFunc{
		path: path,
		body: body,
	}
}

func (f *fileIOFunc) Path(ctx context.Context) string {
	return f.path
}

func (f *fileIOFunc) Body(ctx context.Context) (source.FileBody, error) {
	rc, err := f.body()
	if err != nil {
		return nil, err
	}
	rcb := bufio.NewReader(rc)
	rcbc := &bufioReaderCloser{
		Reader: rcb,
		Closer: rc,
	}
	return bodyFromIO(rcbc), nil
}

type bufioReaderCloser struct {
	*bufio.Reader
	io.Closer
}
