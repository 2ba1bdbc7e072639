// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package compiler fans a batch of source files out to the lexer and
// parser, one goroutine per file, and joins the results. It is the only
// place in this module where parsing happens concurrently — per spec, a
// single parse is synchronous and holds no shared state, but "multiple
// parses may run in parallel on disjoint inputs with no coordination", and
// this package is that coordination-free fan-out.
package compiler

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.starbuild.dev/langfront.go/internal/ast"
	"gopkg.starbuild.dev/langfront.go/internal/diag"
	"gopkg.starbuild.dev/langfront.go/internal/dialect"
	"gopkg.starbuild.dev/langfront.go/internal/fs"
	"gopkg.starbuild.dev/langfront.go/internal/lexer"
	"gopkg.starbuild.dev/langfront.go/internal/parser"
	"gopkg.starbuild.dev/langfront.go/internal/source"
	"gopkg.starbuild.dev/langfront.go/internal/span"
	"gopkg.starbuild.dev/langfront.go/internal/target"
	"gopkg.starbuild.dev/langfront.go/internal/token"
)

// Option configures a Compiler.
type Option func(c *Compiler) error

// WithFS installs the file system used to resolve targets passed to Parse.
// The default is NewDefaultFS, a search path seeded from the platform's
// conventional data directories.
func WithFS(fs source.FileSystem) Option {
	return func(c *Compiler) error {
		c.fs = fs
		return nil
	}
}

// WithLookupEnv installs the environment lookup used by the default file
// system to expand its search path. The default is os.LookupEnv.
func WithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(c *Compiler) error {
		c.lookupEnv = lookupEnv
		return nil
	}
}

// WithDialect sets the dialect gate every file in a batch is parsed under.
// The default is dialect.Strict().
func WithDialect(gate dialect.Gate) Option {
	return func(c *Compiler) error {
		c.gate = gate
		return nil
	}
}

// WithMaxConcurrency bounds how many files are lexed/parsed at once. The
// default is GOMAXPROCS capped at NumCPU.
func WithMaxConcurrency(n int) Option {
	return func(c *Compiler) error {
		c.maxConcurrency = n
		return nil
	}
}

// WithFSRoots builds the Compiler's file system as a search path: each root
// given, in order, followed by NewDefaultFS's platform-conventional data
// directories. This is the option the CLI entry point uses so that `--root`
// flags are tried before falling back to the installed default search path.
func WithFSRoots(roots []string) Option {
	return func(c *Compiler) error {
		lookup := c.lookupEnv
		if lookup == nil {
			lookup = os.LookupEnv
		}
		dfs, err := NewDefaultFS(lookup)
		if err != nil {
			return err
		}
		mf := make(fs.FileSystemMulti, 0, len(roots)+1)
		for _, root := range roots {
			absRoot, err := filepath.Abs(root)
			if err != nil {
				return err
			}
			rf, err := fs.NewFileSystemLocal(absRoot)
			if err != nil {
				return err
			}
			mf = append(mf, rf)
		}
		mf = append(mf, dfs.(fs.FileSystemMulti)...)
		c.fs = mf
		return nil
	}
}

// New builds a Compiler from opts.
func New(opts ...Option) (*Compiler, error) {
	c := &Compiler{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.lookupEnv == nil {
		c.lookupEnv = os.LookupEnv
	}
	if c.fs == nil {
		dfs, err := NewDefaultFS(c.lookupEnv)
		if err != nil {
			return nil, err
		}
		c.fs = dfs
	}
	if c.gate == nil {
		c.gate = dialect.Strict()
	}
	if c.maxConcurrency == 0 {
		max := runtime.GOMAXPROCS(-1)
		if cpus := runtime.NumCPU(); max > cpus {
			max = cpus
		}
		c.maxConcurrency = max
	}
	c.sema = newSemaphore(c.maxConcurrency)
	return c, nil
}

// Compiler resolves a batch of targets to source files and parses each one
// under a shared dialect. A Compiler is safe to reuse across calls to
// Parse, and safe for concurrent use.
type Compiler struct {
	fs             source.FileSystem
	lookupEnv      func(string) (string, bool)
	gate           dialect.Gate
	maxConcurrency int
	sema           *semaphore
}

// FileResult is one file's parse outcome. One exists only for a file that
// lexed and parsed without a diagnostic; Tokens is populated only when the
// corresponding Parse call requested a token dump.
type FileResult struct {
	Path   string
	Tokens []*token.Token
	Tree   ast.StatementsStmt
}

// Result is the outcome of parsing a batch of targets.
type Result struct {
	Files []*FileResult
}

// ParseOptions controls per-call behavior that does not belong on the
// Compiler itself because it varies call to call (a CLI flag, not a
// standing configuration).
type ParseOptions struct {
	// DumpTokens retains each file's token stream in its FileResult.
	DumpTokens bool
}

// Parse resolves every target to one or more source files, then lexes and
// parses each file on its own goroutine, bounded by the Compiler's
// concurrency limit. Every file shares a single diag.Reporter: the batch as
// a whole is fail-fast, so the first diagnostic raised by any file wins and
// is returned: the caller gets either a complete Result or exactly one
// Diagnostic, never a partial Result paired with an error.
func (c *Compiler) Parse(ctx context.Context, targets []string, opts ParseOptions) (*Result, diag.Diagnostic) {
	var files []source.File
	for _, t := range targets {
		resolved, err := c.fs.Open(ctx, target.Normalize(t))
		if err != nil {
			return nil, diag.Newf(diag.Syntax, span.New(0, 0), "opening %s: %s", t, err)
		}
		files = append(files, resolved...)
	}

	report := diag.NewReporter()
	results := make(chan *FileResult, len(files))

	for _, file := range files {
		go func(file source.File) {
			results <- c.parseFile(ctx, file, report, opts)
		}(file)
	}

	out := &Result{Files: make([]*FileResult, 0, len(files))}
	for i := 0; i < len(files); i++ {
		select {
		case <-ctx.Done():
			return nil, diag.Newf(diag.Syntax, span.New(0, 0), "compile canceled: %s", ctx.Err())
		case fr := <-results:
			if fr != nil {
				out.Files = append(out.Files, fr)
			}
		}
	}
	if d := report.First(); d != nil {
		return nil, d
	}
	return out, nil
}

func (c *Compiler) parseFile(ctx context.Context, file source.File, report diag.Reporter, opts ParseOptions) *FileResult {
	c.sema.Lock()
	defer c.sema.Unlock()

	path := file.Path(ctx)
	body, err := file.Body(ctx)
	if err != nil {
		report.Report(diag.Newf(diag.Syntax, span.New(0, 0), "opening %s: %s", path, err))
		return nil
	}

	toks, d := lexer.Lex(ctx, body, report)
	if d != nil {
		return nil
	}

	tree, d := parser.New(ctx, token.NewSliceStream(toks, 2), c.gate).Parse()
	if d != nil {
		report.Report(d)
		return nil
	}

	fr := &FileResult{Path: path, Tree: tree}
	if opts.DumpTokens {
		fr.Tokens = toks
	}
	return fr
}
