// Package source defines the file-system abstraction the lexer reads
// through: a File names a path and opens a byte-oriented FileBody, and a
// FileSystem resolves URIs/paths to zero or more Files. Nothing above this
// package ever touches os.Open directly, so a parse can run the same way
// over local disk, an in-memory fixture, or a composite search path.
package source

import "context"

// Reader is a chunked byte reader, mirroring io.Reader's shape without
// pulling in the io package's broader surface.
type Reader interface {
	Read(ctx context.Context, size int32) ([]byte, error)
}

// Closer releases resources held by a FileBody or an Iterator.
type Closer interface {
	Close(ctx context.Context) error
}

// FileBody is an open file's content stream.
type FileBody interface {
	Reader
	Closer
}

// File names a single source file. Body may be opened more than once.
type File interface {
	Path(ctx context.Context) string
	Body(ctx context.Context) (FileBody, error)
}

// FileSystem resolves a URI or path to the Files it names. A single URI may
// expand to more than one File when it names a directory or glob.
type FileSystem interface {
	Open(ctx context.Context, uri string) ([]File, error)
}
