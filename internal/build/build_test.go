package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery/internal/domain/config"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newSite(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	docs := filepath.Join(root, "docs")

	mustWrite(t, filepath.Join(docs, "index.md"), "---\ndescription: All entries\n---\n# The Gallery\n\n{{ render_sorted_cards() }}\n")
	mustWrite(t, filepath.Join(docs, "submit.md"), "# Submit\n\n{{ include_raw_markdown(\"template.md\") }}\n\n{{ not_a_macro() }}\n")
	mustWrite(t, filepath.Join(docs, "draft.md"), "---\ndraft: true\n---\n# Hidden\n")
	mustWrite(t, filepath.Join(docs, "template.md"), "---\ntitle: <title>\n---\n")
	mustWrite(t, filepath.Join(docs, "javascript.js"), "console.log('filters')\n")
	mustWrite(t, filepath.Join(docs, "cards", "a.md"), "---\ntitle: Older\nsubmission_date: 2023-05-01\n---\n")
	mustWrite(t, filepath.Join(docs, "cards", "b.md"), "---\ntitle: Newer\nsubmission_date: 2024-05-01\n---\n")
	mustWrite(t, filepath.Join(root, "theme", "static", "css", "extra.css"), "body{}")

	cfg := config.Default()
	cfg.Build.DocsDir = docs
	cfg.Build.PublicDir = filepath.Join(root, "public")
	cfg.Build.ThemeDir = filepath.Join(root, "theme")
	cfg.Build.Now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return cfg
}

func readDoc(t *testing.T, path string) *goquery.Document {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return doc
}

func TestBuilder_Run(t *testing.T) {
	cfg := newSite(t)
	b := &Builder{Cfg: cfg}

	res, err := b.Run(context.Background())
	require.NoError(t, err)

	// index, submit and template; the draft is skipped
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, 2, res.Assets)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Msg, "not_a_macro")

	index := readDoc(t, filepath.Join(cfg.Build.PublicDir, "index.html"))
	assert.Equal(t, "The Gallery · Gallery", index.Find("title").Text())
	assert.Equal(t, "All entries", index.Find(`meta[name=description]`).AttrOr("content", ""))
	var titles []string
	index.Find("main div.gallery-card h2").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, s.Text())
	})
	assert.Equal(t, []string{"Newer", "Older"}, titles)
	assert.Equal(t, "/javascript.js", index.Find("script[src]").AttrOr("src", ""))

	submit := readDoc(t, filepath.Join(cfg.Build.PublicDir, "submit", "index.html"))
	code := submit.Find("pre code.language-markdown")
	require.Equal(t, 1, code.Length())
	assert.Contains(t, code.Text(), "title: <title>")
	assert.Contains(t, submit.Find("main").Text(), "{{ not_a_macro() }}")

	assert.NoFileExists(t, filepath.Join(cfg.Build.PublicDir, "draft", "index.html"))
	assert.FileExists(t, filepath.Join(cfg.Build.PublicDir, "css", "extra.css"))
	assert.FileExists(t, filepath.Join(cfg.Build.PublicDir, "javascript.js"))
	assert.NoFileExists(t, filepath.Join(cfg.Build.PublicDir, "cards", "index.html"))
	assert.NotEmpty(t, res.Fingerprint.RenderHash)
}

func TestBuilder_RunTwiceWritesNothing(t *testing.T) {
	cfg := newSite(t)
	b := &Builder{Cfg: cfg}

	first, err := b.Run(context.Background())
	require.NoError(t, err)
	second, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, second.Written)
	assert.Equal(t, first.Written, second.Unchanged)
	assert.Equal(t, first.Fingerprint.RenderHash, second.Fingerprint.RenderHash)

	mustWrite(t, filepath.Join(cfg.Build.DocsDir, "cards", "c.md"), "---\ntitle: Newest\nsubmission_date: 2024-06-01\n---\n")
	third, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, third.Written)
	assert.NotEqual(t, first.Fingerprint.RenderHash, third.Fingerprint.RenderHash)

	index := readDoc(t, filepath.Join(cfg.Build.PublicDir, "index.html"))
	assert.Equal(t, "Newest", index.Find("main div.gallery-card h2").First().Text())
}

func TestBuilder_LiveReload(t *testing.T) {
	cfg := newSite(t)
	_, err := (&Builder{Cfg: cfg, LiveReload: true}).Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.Build.PublicDir, "index.html"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "/dev/events"))
}

func TestBuilder_MissingDocs(t *testing.T) {
	cfg := config.Default()
	cfg.Build.DocsDir = filepath.Join(t.TempDir(), "nope")
	_, err := (&Builder{Cfg: cfg}).Run(context.Background())
	assert.Error(t, err)
}
