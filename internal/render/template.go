package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"gallery/internal/domain/card"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

type TemplateRenderer struct {
	tpl *template.Template
}

// NewTemplateRenderer loads the built-in card and layout templates, then any
// *.tmpl under themeDir, whose definitions replace the built-in ones.
func NewTemplateRenderer(themeDir string) (*TemplateRenderer, error) {
	tpl, err := template.New("").Funcs(templateFuncs()).ParseFS(builtinTemplates, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse built-in templates: %w", err)
	}

	if themeDir != "" {
		pattern := filepath.Join(themeDir, "*.tmpl")
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			if tpl, err = tpl.ParseFiles(matches...); err != nil {
				return nil, fmt.Errorf("parse theme templates(%s): %w", themeDir, err)
			}
		}
	}
	return &TemplateRenderer{tpl: tpl}, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"date": func(t interface{}, layout string) string {
			switch v := t.(type) {
			case nil:
				return ""
			case string:
				return v
			case interface{ Format(string) string }:
				return v.Format(layout)
			default:
				return ""
			}
		},
		"join": strings.Join,
	}
}

// RenderCard renders one record. The fragment has no blank lines, so it stays
// a single HTML block when spliced into Markdown.
func (r *TemplateRenderer) RenderCard(rec card.Record) (string, error) {
	out, err := r.exec("card", NewCardView(rec))
	if err != nil {
		return "", err
	}
	return compactLines(string(out)), nil
}

func (r *TemplateRenderer) RenderPage(ctx context.Context, page PageView) ([]byte, error) {
	return r.exec("layout", page)
}

func (r *TemplateRenderer) exec(name string, data interface{}) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func compactLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, strings.TrimRight(l, " \t\r"))
	}
	return strings.Join(out, "\n")
}
