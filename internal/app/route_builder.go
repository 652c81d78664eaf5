package app

import (
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"gallery/internal/domain/site"
	"gallery/internal/ingest"
)

type RouteBuilder struct{}

// BuildPageRoutes maps Markdown sources to pretty URLs: index.md becomes the
// directory index, any other page gets its own directory. Routes come back
// ordered by URL.
func (rb *RouteBuilder) BuildPageRoutes(pages []ingest.SourceFile) []site.Route {
	routes := make([]site.Route, 0, len(pages))
	for _, p := range pages {
		rel := filepath.ToSlash(p.Name)
		dir, file := path.Split(rel)
		stem := strings.TrimSuffix(file, path.Ext(file))

		var segs []string
		for _, s := range strings.Split(strings.Trim(dir, "/"), "/") {
			if seg := slugify(s); seg != "" {
				segs = append(segs, seg)
			}
		}
		kind := site.RouteIndex
		if !strings.EqualFold(stem, "index") && !strings.EqualFold(stem, "readme") {
			kind = site.RoutePage
			seg := slugify(stem)
			if seg == "" {
				seg = "untitled"
			}
			segs = append(segs, seg)
		}

		url := "/"
		if len(segs) > 0 {
			url = "/" + strings.Join(segs, "/") + "/"
		}
		routes = append(routes, site.Route{
			Kind:    kind,
			Source:  rel,
			OutPath: filepath.Join(append(segs, "index.html")...),
			URL:     url,
		})
	}
	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].URL < routes[j].URL
	})
	return routes
}

// BuildAssetRoutes keeps asset paths as they are under the docs root.
func (rb *RouteBuilder) BuildAssetRoutes(assets []ingest.SourceFile) []site.Route {
	routes := make([]site.Route, 0, len(assets))
	for _, a := range assets {
		rel := filepath.ToSlash(a.Name)
		routes = append(routes, site.Route{
			Kind:    site.RouteAsset,
			Source:  rel,
			OutPath: filepath.FromSlash(rel),
			URL:     "/" + rel,
		})
	}
	return routes
}

func slugify(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var out []rune
	lastDash := false

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			out = append(out, unicode.ToLower(r))
			lastDash = false
		default:
			if !lastDash && len(out) > 0 {
				out = append(out, '-')
				lastDash = true
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}
