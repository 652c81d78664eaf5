package ingest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type SourceFile struct {
	Path string
	Name string
}

// DiscoverCards lists the record files directly inside dir whose extension
// matches ext (case-insensitive), in directory listing order. A missing
// directory is not an error.
func DiscoverCards(dir, ext string) ([]SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	ext = strings.ToLower(ext)
	var out []SourceFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(e.Name())) != ext {
			continue
		}
		out = append(out, SourceFile{
			Path: filepath.Join(dir, e.Name()),
			Name: e.Name(),
		})
	}
	return out, nil
}

// DiscoverPages walks root for Markdown pages, skipping any directory listed
// in skip (relative to root).
func DiscoverPages(root string, skip ...string) ([]SourceFile, error) {
	skipSet := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		skipSet[filepath.Clean(s)] = struct{}{}
	}

	var out []SourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if _, ok := skipSet[rel]; ok {
				return filepath.SkipDir
			}
			return nil
		}
		if isMarkdown(d.Name()) {
			out = append(out, SourceFile{Path: path, Name: rel})
		}
		return nil
	})
	return out, err
}

func isMarkdown(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".md") || strings.HasSuffix(n, ".markdown")
}
