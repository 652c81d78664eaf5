// Package gallery exposes the entry points a page host calls: render one card
// file, render a whole cards directory newest first, and include a file as a
// fenced Markdown block. Every entry point returns a string that is safe to
// splice into a page; failures become a visible inline message.
package gallery

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"gallery/internal/domain/card"
	"gallery/internal/ingest"
	"gallery/internal/logger"
	"gallery/internal/macro"
)

type CardRenderer interface {
	RenderCard(r card.Record) (string, error)
}

type Options struct {
	// DocsDir is the root that card and include paths are relative to.
	DocsDir     string
	CardsDir    string
	CardExt     string
	DateLayouts []string
	Renderer    CardRenderer
	Logger      logger.Logger
}

type Gallery struct {
	opts Options
	log  logger.Logger
}

func New(opts Options) (*Gallery, error) {
	if opts.Renderer == nil {
		return nil, fmt.Errorf("gallery: missing card renderer")
	}
	if opts.CardsDir == "" {
		opts.CardsDir = "cards"
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &Gallery{opts: opts, log: opts.Logger}, nil
}

func (g *Gallery) resolve(path string) string {
	return filepath.Join(g.opts.DocsDir, path)
}

// RenderCardFromFile renders the card whose front matter lives at path.
func (g *Gallery) RenderCardFromFile(path string) string {
	out, err := g.renderCard(path)
	if err != nil {
		return errorFragment("card", path, err)
	}
	return out
}

func (g *Gallery) renderCard(path string) (string, error) {
	raw, err := os.ReadFile(g.resolve(path))
	if err != nil {
		return "", err
	}
	data, _, err := ingest.ParseRecord(raw)
	if err != nil {
		return "", err
	}
	return g.opts.Renderer.RenderCard(card.Extract(data))
}

// RenderSortedCards renders every card in dir, newest submission first,
// separated by a blank line. Cards whose front matter cannot be read are
// logged and rendered last as inline errors. A missing dir renders as "".
func (g *Gallery) RenderSortedCards(dir string) string {
	if dir == "" {
		dir = g.opts.CardsDir
	}
	col, _, err := ingest.Collect(g.resolve(dir), ingest.Options{
		Ext:         g.opts.CardExt,
		DateLayouts: g.opts.DateLayouts,
		Logger:      g.log,
	})
	if err != nil {
		g.log.Error("collect cards", logger.String("dir", dir), logger.Error(err))
		return ""
	}

	parts := make([]string, 0, len(col.Entries)+len(col.Broken))
	for _, e := range col.Entries {
		parts = append(parts, g.RenderCardFromFile(filepath.Join(dir, e.File.Name)))
	}
	for _, b := range col.Broken {
		parts = append(parts, g.RenderCardFromFile(filepath.Join(dir, b.File.Name)))
	}
	g.log.Debug("rendered cards",
		logger.String("dir", dir),
		logger.Int("cards", len(col.Entries)),
		logger.Int("broken", len(col.Broken)),
	)
	return strings.Join(parts, "\n\n")
}

// IncludeRawMarkdown returns the file verbatim inside a markdown code fence.
func (g *Gallery) IncludeRawMarkdown(path string) string {
	raw, err := os.ReadFile(g.resolve(path))
	if err != nil {
		return errorFragment("file", path, err)
	}
	content := strings.TrimRight(string(raw), "\n")
	fence := fenceFor(content)
	return fence + "markdown\n" + content + "\n" + fence
}

// fenceFor picks a backtick fence longer than any run inside content.
func fenceFor(content string) string {
	longest, run := 0, 0
	for _, r := range content {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	n := 3
	if longest >= n {
		n = longest + 1
	}
	return strings.Repeat("`", n)
}

func errorFragment(kind, path string, err error) string {
	msg := strings.Join(strings.Fields(err.Error()), " ")
	return fmt.Sprintf(`<p class="gallery-card-error"><strong>Error loading %s from %s: %s</strong></p>`,
		kind, template.HTMLEscapeString(path), template.HTMLEscapeString(msg))
}

// Macros registers the entry points under the names page sources call them by.
func (g *Gallery) Macros() macro.Registry {
	return macro.Registry{
		"render_card_from_file": func(args ...string) string {
			if len(args) != 1 {
				return errorFragment("card", strings.Join(args, ","), fmt.Errorf("expected one file path"))
			}
			return g.RenderCardFromFile(args[0])
		},
		"render_sorted_cards": func(args ...string) string {
			if len(args) == 0 {
				return g.RenderSortedCards("")
			}
			return g.RenderSortedCards(args[0])
		},
		"include_raw_markdown": func(args ...string) string {
			if len(args) != 1 {
				return errorFragment("file", strings.Join(args, ","), fmt.Errorf("expected one file path"))
			}
			return g.IncludeRawMarkdown(args[0])
		},
	}
}
