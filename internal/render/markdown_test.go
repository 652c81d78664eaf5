package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery/internal/domain/config"
)

func TestMarkdownRenderer_Headings(t *testing.T) {
	md := NewMarkdownRenderer()

	res, err := md.Render([]byte("# The *NOMAD* Gallery\n\nIntro\n\n## Submit\n"))
	require.NoError(t, err)

	require.Len(t, res.Headings, 2)
	assert.Equal(t, "The NOMAD Gallery", res.Title())
	assert.Equal(t, 2, res.Headings[1].Level)
	assert.Equal(t, "submit", res.Headings[1].ID)
	assert.Contains(t, string(res.HTML), `<h2 id="submit">Submit</h2>`)
}

func TestMarkdownRenderer_PassesCardBlocksThrough(t *testing.T) {
	md := NewMarkdownRenderer()
	src := "Intro\n\n<div class=\"gallery-card\" data-country=\"DE\">\n<h2>A &amp; B</h2>\n</div>\n\n<div class=\"gallery-card\">\n<h2>C</h2>\n</div>\n"

	res, err := md.Render([]byte(src))
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(res.HTML)))
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Find("div.gallery-card").Length())
	assert.Equal(t, "A & B", doc.Find("div.gallery-card h2").First().Text())
	assert.Empty(t, res.Title())
}

func TestMarkdownRenderer_FencedMarkdown(t *testing.T) {
	md := NewMarkdownRenderer()
	res, err := md.Render([]byte("```markdown\n---\ntitle: <x>\n---\n```\n"))
	require.NoError(t, err)
	assert.Contains(t, string(res.HTML), `<code class="language-markdown">`)
	assert.Contains(t, string(res.HTML), "title: &lt;x&gt;")
}

func TestRenderPage(t *testing.T) {
	r := newRenderer(t)
	page := PageView{
		Site:        config.SiteConfig{Title: "Gallery", Language: "en"},
		Title:       "Home",
		Description: `a "quoted" description`,
		HTML:        "<p>hello</p>",
		Scripts:     []string{"/javascript.js"},
		LiveReload:  true,
		Generated:   time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
	}

	out, err := r.RenderPage(context.Background(), page)
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(out)))
	require.NoError(t, err)
	assert.Equal(t, "Home · Gallery", doc.Find("title").Text())
	assert.Equal(t, `a "quoted" description`, doc.Find(`meta[name=description]`).AttrOr("content", ""))
	assert.Equal(t, "hello", doc.Find("main p").Text())
	assert.Equal(t, "/javascript.js", doc.Find("script[src]").AttrOr("src", ""))
	assert.Contains(t, string(out), "/dev/events")
	assert.Contains(t, doc.Find("footer").Text(), "2024-01-02 03:04")
}

func TestRenderPage_NoLiveReload(t *testing.T) {
	out, err := newRenderer(t).RenderPage(context.Background(), PageView{Site: config.SiteConfig{Title: "G"}})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "/dev/events")
	assert.Contains(t, string(out), "<title>G</title>")
}

func TestRenderPage_TOC(t *testing.T) {
	page := PageView{
		Site: config.SiteConfig{Title: "G"},
		TOC: []Heading{
			{Level: 1, ID: "gallery", Text: "Gallery"},
			{Level: 2, ID: "submit", Text: "Submit"},
		},
	}
	out, err := newRenderer(t).RenderPage(context.Background(), page)
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(out)))
	require.NoError(t, err)
	links := doc.Find("nav.toc a")
	require.Equal(t, 1, links.Length())
	assert.Equal(t, "#submit", links.AttrOr("href", ""))
}
