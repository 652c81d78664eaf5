package build

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gallery/internal/app"
	"gallery/internal/domain/site"
	"gallery/internal/ingest"
)

type asset struct {
	file  ingest.SourceFile
	route site.Route
	data  []byte
}

// collectAssets gathers every non-Markdown file under the docs root, then the
// theme's static/ folder. Theme files win on conflicting paths.
func (b *Builder) collectAssets() ([]asset, error) {
	docs, err := walkAssets(b.Cfg.Build.DocsDir)
	if err != nil {
		return nil, err
	}
	var theme []ingest.SourceFile
	if b.Cfg.Build.ThemeDir != "" {
		if theme, err = walkAssets(filepath.Join(b.Cfg.Build.ThemeDir, "static")); err != nil {
			return nil, err
		}
	}

	rb := &app.RouteBuilder{}
	byOut := map[string]int{}
	var out []asset
	for _, group := range [][]ingest.SourceFile{docs, theme} {
		routes := rb.BuildAssetRoutes(group)
		for i, f := range group {
			data, err := os.ReadFile(f.Path)
			if err != nil {
				return nil, err
			}
			a := asset{file: f, route: routes[i], data: data}
			if idx, ok := byOut[a.route.OutPath]; ok {
				out[idx] = a
				continue
			}
			byOut[a.route.OutPath] = len(out)
			out = append(out, a)
		}
	}
	return out, nil
}

func walkAssets(src string) ([]ingest.SourceFile, error) {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var out []ingest.SourceFile
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if path != src && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		lower := strings.ToLower(name)
		if strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown") {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		out = append(out, ingest.SourceFile{Path: path, Name: rel})
		return nil
	})
	return out, err
}
