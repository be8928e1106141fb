// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fsops holds the filesystem helpers used by the CLI: expanding an
// input folder and writing output files. Both take an afero.Fs so tests run
// against an in-memory filesystem.
package fsops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ListFiles walks root recursively and returns every regular file in walk
// order (lexical within each directory). Directories themselves are not
// listed.
func ListFiles(fsys afero.Fs, root string) ([]string, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading input folder %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input folder %s is not a directory", root)
	}

	files := []string{}
	err = afero.Walk(fsys, root, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.Mode().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking input folder %s: %w", root, err)
	}
	return files, nil
}

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(fsys afero.Fs, path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
