package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	domainerr "gallery/internal/domain/errors"
	"gallery/internal/logger"
)

type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Build   BuildConfig   `yaml:"build"`
	Gallery GalleryConfig `yaml:"gallery"`
	Serve   ServeConfig   `yaml:"serve"`
	Log     logger.Config `yaml:"log"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	SiteURL     string `yaml:"site_url"`
	Language    string `yaml:"language"`
}

type BuildConfig struct {
	DocsDir   string `yaml:"docs_dir"`
	PublicDir string `yaml:"public_dir"`
	// ThemeDir may hold card.tmpl / layout.tmpl overrides and a static/ folder.
	ThemeDir string `yaml:"theme_dir"`
	// CardsDir is relative to DocsDir and is not built as pages.
	CardsDir string    `yaml:"cards_dir"`
	CardExt  string    `yaml:"card_ext"`
	Now      time.Time `yaml:"-"`
}

type GalleryConfig struct {
	// DateLayouts are tried in order when sorting by submission_date.
	DateLayouts []string `yaml:"date_layouts"`
}

type ServeConfig struct {
	Addr string `yaml:"addr"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Gallery",
			Language: "en",
		},
		Build: BuildConfig{
			DocsDir:   "docs",
			PublicDir: "public",
			CardsDir:  "cards",
			CardExt:   ".md",
			Now:       time.Now(),
		},
		Gallery: GalleryConfig{
			DateLayouts: []string{time.DateOnly},
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:8000",
		},
		Log: logger.Config{
			Level: "info",
		},
	}
}

var extPattern = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	site := validation.Errors{
		"title":    validation.Validate(strings.TrimSpace(c.Site.Title), validation.Required),
		"site_url": validation.Validate(c.Site.SiteURL, validation.By(absURL)),
	}
	addAll(&ve, "site", site)

	bld := validation.Errors{
		"docs_dir":   validation.Validate(strings.TrimSpace(c.Build.DocsDir), validation.Required),
		"public_dir": validation.Validate(strings.TrimSpace(c.Build.PublicDir), validation.Required),
		"cards_dir":  validation.Validate(strings.TrimSpace(c.Build.CardsDir), validation.Required),
		"card_ext":   validation.Validate(c.Build.CardExt, validation.Required, validation.Match(extPattern)),
	}
	addAll(&ve, "build", bld)

	gal := validation.Errors{
		"date_layouts": validation.Validate(c.Gallery.DateLayouts,
			validation.Required,
			validation.Each(validation.Required),
		),
	}
	addAll(&ve, "gallery", gal)

	addAll(&ve, "serve", validation.Errors{
		"addr": validation.Validate(strings.TrimSpace(c.Serve.Addr), validation.Required),
	})
	addAll(&ve, "log", validation.Errors{
		"level": validation.Validate(strings.ToLower(c.Log.Level), validation.In("debug", "info", "warn", "warning", "error")),
	})

	if ve.HasAny() {
		return ve
	}
	return nil
}

func addAll(ve *domainerr.ValidationError, prefix string, errs validation.Errors) {
	filtered := errs.Filter()
	if filtered == nil {
		return
	}
	var verrs validation.Errors
	if errors.As(filtered, &verrs) {
		ve.AddAll(prefix, verrs)
	}
}

func absURL(value any) error {
	s, _ := value.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return validation.NewError("validation_abs_url", "must be a valid absolute URL")
	}
	return nil
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	// 文件中写到的字段覆盖默认值，其他字段保留 Default
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		return cfg, cfg.Validate()
	}
	return cfg, err
}
