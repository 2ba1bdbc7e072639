// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"path/filepath"

	"gopkg.starbuild.dev/langfront.go/internal/fs"
	"gopkg.starbuild.dev/langfront.go/internal/source"
)

// NewDefaultFS builds the search path a Compiler falls back to when no
// WithFS option is given: one FileSystemLocal per platform conventional
// data directory, tried in order.
func NewDefaultFS(lookup func(string) (string, bool)) (source.FileSystem, error) {
	roots := getDefaultRoots(lookup)
	f := make(fs.FileSystemMulti, 0, len(roots))
	for _, root := range roots {
		absRoot, errAbs := filepath.Abs(root)
		if errAbs != nil {
			return nil, errAbs
		}
		rf, err := fs.NewFileSystemLocal(absRoot)
		if err != nil {
			return nil, err
		}
		f = append(f, rf)
	}
	return f, nil
}
