package site

import (
	"strings"
)

type RouteKind string

const (
	RouteIndex RouteKind = "index"
	RoutePage  RouteKind = "page"
	RouteAsset RouteKind = "asset"
)

type Route struct {
	Kind RouteKind
	// Source is the path relative to the docs root.
	Source  string
	OutPath string
	URL     string
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Source != "" {
		parts = append(parts, "src="+r.Source)
	}
	if r.URL != "" {
		parts = append(parts, "url="+r.URL)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}
