package render

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"gallery/internal/domain/card"
	"gallery/internal/domain/config"
)

type Heading struct {
	Level int
	ID    string
	Text  string
}

type MetaItem struct {
	Label string
	Value string
}

type LinkItem struct {
	Label string
	Text  string
	URL   string
}

// CardView is what card.tmpl sees: the record plus the pieces each section
// needs precomputed so the template only decides presence.
type CardView struct {
	card.Record

	KeywordAttr    string
	Meta           []MetaItem
	Impact         []string
	PublicationURL string
	Links          []LinkItem
}

func (v CardView) HasMetricsSection() bool {
	return len(v.Impact) > 0 || v.Funding != "" || v.Publication != "" || len(v.Keywords) > 0
}

func NewCardView(r card.Record) CardView {
	v := CardView{
		Record:         r,
		KeywordAttr:    strings.Join(r.Keywords, ","),
		PublicationURL: publicationURL(r.Publication),
	}

	if r.ResearchField != "" {
		v.Meta = append(v.Meta, MetaItem{Label: "Field", Value: r.ResearchField})
	}
	if r.Institution != "" {
		v.Meta = append(v.Meta, MetaItem{Label: "Institution", Value: r.Institution})
	}
	if r.Country != "" {
		v.Meta = append(v.Meta, MetaItem{Label: "Country", Value: r.Country})
	}

	if r.HasMetrics() {
		if n, ok := card.Count(r.ActiveUsers); ok {
			v.Impact = append(v.Impact, fmt.Sprintf("%d Users", n))
		}
		if n, ok := card.Count(r.Downloads); ok {
			v.Impact = append(v.Impact, fmt.Sprintf("%d Downloads", n))
		}
	}

	if r.RepoLink != "" {
		v.Links = append(v.Links, LinkItem{Label: "Repo", Text: r.RepoName, URL: r.RepoLink})
	}
	if r.EntryLink != "" {
		v.Links = append(v.Links, LinkItem{Label: "Launch", Text: r.EntryName, URL: r.EntryLink})
	}
	if r.MediaURL != "" {
		v.Links = append(v.Links, LinkItem{Label: "Media/Video", Text: "Watch Demo", URL: r.MediaURL})
	}
	if v.PublicationURL != "" {
		v.Links = append(v.Links, LinkItem{Label: "Publication", Text: "Read Publication", URL: v.PublicationURL})
	}
	return v
}

// publicationURL resolves a publication reference to something clickable:
// http(s) links as they are, DOIs through doi.org. Anything else is text.
func publicationURL(ref string) string {
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return ref
	}
	doi := ref
	if len(doi) > 4 && strings.EqualFold(doi[:4], "doi:") {
		doi = strings.TrimSpace(doi[4:])
	}
	if strings.HasPrefix(doi, "10.") && strings.Contains(doi, "/") && !strings.ContainsAny(doi, " \t") {
		return "https://doi.org/" + doi
	}
	return ""
}

type PageView struct {
	Site        config.SiteConfig
	Title       string
	Description string
	HTML        template.HTML
	TOC         []Heading
	Scripts     []string
	LiveReload  bool
	Generated   time.Time
}
