package build

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"gallery/internal/app"
	domainbuild "gallery/internal/domain/build"
	"gallery/internal/domain/config"
	"gallery/internal/domain/site"
	"gallery/internal/gallery"
	"gallery/internal/ingest"
	"gallery/internal/logger"
	"gallery/internal/macro"
	"gallery/internal/render"
)

type Builder struct {
	Cfg    config.Config
	Logger logger.Logger
	// LiveReload adds the dev event listener to every page.
	LiveReload bool
}

type Result struct {
	Pages       int
	Assets      int
	Written     int
	Unchanged   int
	Warnings    []ingest.Warning
	Fingerprint domainbuild.Fingerprint
}

type pageMeta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Draft       bool   `yaml:"draft"`
}

// Pages may open with a macro call, so only "---" blocks count as front matter.
var yamlFrontMatter = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

type pipeline struct {
	md      *render.MarkdownRenderer
	tpl     render.Renderer
	macros  macro.Registry
	scripts []string
}

func (b *Builder) log() logger.Logger {
	if b.Logger == nil {
		return logger.NewNop()
	}
	return b.Logger
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	docs := b.Cfg.Build.DocsDir
	if info, err := os.Stat(docs); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("docs dir %s: not a directory", docs)
	}

	tpl, err := render.NewTemplateRenderer(b.Cfg.Build.ThemeDir)
	if err != nil {
		return nil, fmt.Errorf("load themes(%s): %w", b.Cfg.Build.ThemeDir, err)
	}
	gal, err := gallery.New(gallery.Options{
		DocsDir:     docs,
		CardsDir:    b.Cfg.Build.CardsDir,
		CardExt:     b.Cfg.Build.CardExt,
		DateLayouts: b.Cfg.Gallery.DateLayouts,
		Renderer:    tpl,
		Logger:      b.log(),
	})
	if err != nil {
		return nil, err
	}

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	res := &Result{}
	rb := &app.RouteBuilder{}

	assets, err := b.collectAssets()
	if err != nil {
		return nil, fmt.Errorf("collect assets: %w", err)
	}
	p := &pipeline{
		md:     render.NewMarkdownRenderer(),
		tpl:    tpl,
		macros: gal.Macros(),
	}
	for _, a := range assets {
		if strings.EqualFold(filepath.Ext(a.file.Name), ".js") {
			p.scripts = append(p.scripts, a.route.URL)
		}
		if err := b.write(res, outDir, a.route.OutPath, a.data); err != nil {
			return nil, err
		}
	}
	sort.Strings(p.scripts)
	res.Assets = len(assets)

	pages, err := ingest.DiscoverPages(docs, b.Cfg.Build.CardsDir)
	if err != nil {
		return nil, fmt.Errorf("discover pages: %w", err)
	}
	for _, route := range rb.BuildPageRoutes(pages) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		built, err := b.buildPage(ctx, p, res, route)
		if err != nil {
			return nil, fmt.Errorf("build page(%s): %w", route.Source, err)
		}
		if built == nil {
			continue
		}
		if err := b.write(res, outDir, route.OutPath, built); err != nil {
			return nil, err
		}
		res.Pages++
	}

	fp, err := b.fingerprint()
	if err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}
	res.Fingerprint = fp

	b.log().Info("build complete",
		logger.String("out", outDir),
		logger.Int("pages", res.Pages),
		logger.Int("assets", res.Assets),
		logger.Int("written", res.Written),
		logger.Int("unchanged", res.Unchanged),
	)
	return res, nil
}

func (b *Builder) buildPage(ctx context.Context, p *pipeline, res *Result, route site.Route) ([]byte, error) {
	srcPath := filepath.Join(b.Cfg.Build.DocsDir, filepath.FromSlash(route.Source))
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, err
	}

	var meta pageMeta
	body, fmErr := frontmatter.Parse(bytes.NewReader(src), &meta, yamlFrontMatter)
	if fmErr != nil {
		b.warn(res, route.Source, fmt.Sprintf("page front matter ignored: %v", fmErr))
		meta, body = pageMeta{}, src
	}
	if meta.Draft {
		b.log().Debug("skipping draft page", logger.String("page", route.Source))
		return nil, nil
	}

	expanded, missed := p.macros.Expand(string(body))
	for _, m := range missed {
		b.warn(res, route.Source, fmt.Sprintf("unresolved macro %s: %s", m.Name, m.Call))
	}

	mdResult, err := p.md.Render([]byte(expanded))
	if err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}

	title := meta.Title
	if title == "" {
		title = mdResult.Title()
	}
	page := render.PageView{
		Site:        b.Cfg.Site,
		Title:       title,
		Description: firstNonEmpty(meta.Description, b.Cfg.Site.Description),
		HTML:        template.HTML(mdResult.HTML),
		TOC:         mdResult.Headings,
		Scripts:     p.scripts,
		LiveReload:  b.LiveReload,
		Generated:   b.Cfg.Build.Now,
	}
	return p.tpl.RenderPage(ctx, page)
}

func (b *Builder) warn(res *Result, path, msg string) {
	res.Warnings = append(res.Warnings, ingest.Warning{Path: path, Msg: msg})
	b.log().Warn(msg, logger.String("page", path))
}

// write skips files whose content is already on disk.
func (b *Builder) write(res *Result, outDir, rel string, data []byte) error {
	full := filepath.Join(outDir, rel)
	if domainbuild.SameContent(full, data) {
		res.Unchanged++
		return nil
	}
	if err := writeFile(outDir, rel, data); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	res.Written++
	return nil
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func (b *Builder) fingerprint() (domainbuild.Fingerprint, error) {
	var fp domainbuild.Fingerprint

	content, err := listFiles(b.Cfg.Build.DocsDir)
	if err != nil {
		return fp, err
	}
	if fp.ContentHash, err = domainbuild.HashFiles(content); err != nil {
		return fp, err
	}

	if b.Cfg.Build.ThemeDir != "" {
		theme, err := listFiles(b.Cfg.Build.ThemeDir)
		if err != nil {
			return fp, err
		}
		if fp.ThemeHash, err = domainbuild.HashFiles(theme); err != nil {
			return fp, err
		}
	}

	cfgBytes, err := yaml.Marshal(b.Cfg)
	if err != nil {
		return fp, err
	}
	fp.ConfigHash = domainbuild.HashBytes(cfgBytes)
	fp.ComputeRenderHash()
	return fp, nil
}

func listFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
