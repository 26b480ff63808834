// Package scan turns command line input arguments into a list of image
// files.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type Options struct {
	// MaxDepth limits recursion into directory inputs; -1 is unlimited and
	// 0 only lists the directory itself.
	MaxDepth int

	Extensions []string
}

func DefaultOptions() Options {
	return Options{
		MaxDepth:   -1,
		Extensions: []string{".jpg", ".jpeg", ".jpe", ".tif", ".tiff"},
	}
}

// Expand expands each argument as a glob pattern, in argument order.
//
// Matched files are returned as matched, whatever their extension.
// Matched directories are replaced by the image files found beneath them,
// sorted by path. Arguments that match nothing contribute nothing.
func Expand(patterns []string, opts Options) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				return nil, err
			}
			if !info.IsDir() {
				paths = append(paths, m)
				continue
			}

			found, err := Scan(os.DirFS(m), ".", opts)
			if err != nil {
				return nil, err
			}
			for _, rel := range found {
				paths = append(paths, filepath.Join(m, filepath.FromSlash(rel)))
			}
		}
	}
	return paths, nil
}

// Scan returns the image files under root, relative to root and sorted.
func Scan(fsys fs.FS, root string, opts Options) ([]string, error) {
	if opts.MaxDepth < -1 {
		return nil, fs.ErrInvalid
	}

	exts := normalizeExts(opts.Extensions)

	var matches []string
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if opts.MaxDepth >= 0 && depth(rel) >= opts.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}

		if !exts[strings.ToLower(filepath.Ext(rel))] {
			return nil
		}

		matches = append(matches, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)
	return matches, nil
}

func normalizeExts(exts []string) map[string]bool {
	m := make(map[string]bool, len(exts))
	for _, ext := range exts {
		e := strings.TrimSpace(strings.ToLower(ext))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		m[e] = true
	}
	return m
}

// depth is the number of directories between root and rel.
func depth(rel string) int {
	rel = filepath.Clean(rel)
	if rel == "." {
		return 0
	}
	return strings.Count(filepath.ToSlash(rel), "/")
}
