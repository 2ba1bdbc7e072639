// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.starbuild.dev/langfront.go/internal/source"
)

// knownExts is the set of file extensions FileSystemLocal's default filter
// recognizes as source when opening a directory.
var knownExts = map[string]bool{
	".star": true,
	".bzl":  true,
}

var _ source.FileSystem = FileSystemMulti{}

// FileSystemMulti is an ordered set of FileSystem implementations tried in
// order; the first to successfully resolve a URI wins.
type FileSystemMulti []source.FileSystem

func (r FileSystemMulti) Open(ctx context.Context, uri string) ([]source.File, error) {
	for _, fsys := range r {
		files, err := fsys.Open(ctx, uri)
		if err != nil {
			continue
		}
		return files, nil
	}
	return nil, fmt.Errorf("could not open %s from any file system", uri)
}

// FileFilter selects which files to open when the path being opened is a
// directory. Implementations should return true if the file should be
// opened, false otherwise.
type FileFilter func(ctx context.Context, fname string) bool

type FileSystemLocalOption func(*fileSystemLocal)

// WithOptionFSFactory installs a custom factory function used to generate
// the underlying file system handle. The default is os.DirFS. The string
// given to the factory is the root directory of the file system; all paths
// given to Open are relative to this root.
func WithOptionFSFactory(v func(root string) fs.FS) FileSystemLocalOption {
	return func(rfs *fileSystemLocal) {
		rfs.fsFactory = v
	}
}

// WithOptionFileFilter installs a custom filter function used to select
// files when a target is a directory. The default filters on knownExts.
func WithOptionFileFilter(v FileFilter) FileSystemLocalOption {
	return func(rfs *fileSystemLocal) {
		rfs.fileFilter = v
	}
}

type fileSystemLocal struct {
	root       string
	fsFactory  func(string) fs.FS
	fileFilter FileFilter
}

// NewFileSystemLocal creates a new FileSystem backed by the local file
// system rooted at root.
func NewFileSystemLocal(root string, options ...FileSystemLocalOption) (source.FileSystem, error) {
	absroot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}
	result := &fileSystemLocal{
		root:      absroot,
		fsFactory: os.DirFS,
		fileFilter: func(ctx context.Context, fname string) bool {
			return knownExts[filepath.Ext(fname)]
		},
	}
	for _, option := range options {
		option(result)
	}
	return result, nil
}

func (r *fileSystemLocal) Open(ctx context.Context, uri string) ([]source.File, error) {
	path := uri
	u, err := url.Parse(uri)
	if err == nil {
		path = u.Path
	}
	path = filepath.Join("/", path)

	dir := r.fsFactory(r.root)
	p := filepath.Clean(path)
	if p == "" || p == "/" {
		// If the entire path was a root then set to '.' to satisfy the
		// fs.ValidPath method which only allows, and requires, '.' when
		// it is expressing the root path.
		p = "."
	}
	p = strings.TrimPrefix(p, "/")
	// Trim the first slash character if present because fs.FS requires an
	// un-rooted path.
	d, err := dir.Open(p)
	if err != nil {
		return nil, fsErr(p, err)
	}
	defer d.Close()
	stat, _ := d.Stat()
	if !stat.IsDir() {
		f := NewFileFN(path, func() (io.ReadCloser, error) {
			return dir.Open(p)
		})
		return []source.File{f}, nil
	}
	dfs, err := d.(fs.ReadDirFile).ReadDir(0)
	if err != nil {
		return nil, fsErr(p, err)
	}
	files := make([]source.File, 0, len(dfs))
	for _, df := range dfs {
		if df.IsDir() {
			continue
		}
		if !r.fileFilter(ctx, df.Name()) {
			continue
		}
		dfPath := filepath.Join(p, df.Name())
		rc, err := dir.Open(dfPath)
		if err != nil {
			return nil, fsErr(dfPath, err)
		}
		defer rc.Close()
		f := NewFileFN(dfPath, func() (io.ReadCloser, error) {
			return dir.Open(dfPath)
		})
		files = append(files, f)
	}
	if len(files) < 1 {
		return nil, fmt.Errorf("found directory %s but it is empty", path)
	}
	return files, nil
}

func fsErr(path string, err error) error {
	if errT, ok := err.(*fs.PathError); ok {
		return fmt.Errorf("%s: %w", errT.Path, errT.Err)
	}
	return fmt.Errorf("%s: %w", path, err)
}
