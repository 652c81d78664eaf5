package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gallery/internal/domain/config"
	"gallery/internal/gallery"
	"gallery/internal/logger"
	"gallery/internal/render"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	log     logger.Logger
}

// overrides maps viper keys onto config fields. Keys are also read from the
// environment as GALLERY_<KEY>.
var overrides = []struct {
	key   string
	flag  string
	apply func(*config.Config, string)
}{
	{"docs_dir", "docs", func(c *config.Config, s string) { c.Build.DocsDir = s }},
	{"public_dir", "public", func(c *config.Config, s string) { c.Build.PublicDir = s }},
	{"theme_dir", "theme", func(c *config.Config, s string) { c.Build.ThemeDir = s }},
	{"cards_dir", "cards", func(c *config.Config, s string) { c.Build.CardsDir = s }},
	{"log_level", "log-level", func(c *config.Config, s string) { c.Log.Level = s }},
	{"addr", "", func(c *config.Config, s string) { c.Serve.Addr = s }},
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "gallery",
		Short:         "Render gallery submissions into cards and build the gallery site",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "gallery.yaml", "config file")
	pf.String("docs", "", "docs root that card paths are relative to")
	pf.String("public", "", "output directory for build and serve")
	pf.String("theme", "", "theme directory with template overrides and static/")
	pf.String("cards", "", "cards directory, relative to the docs root")
	pf.String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newRenderCmd(a),
		newRenderAllCmd(a),
		newListCmd(a),
		newBuildCmd(a),
		newServeCmd(a),
		newSchemaCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("GALLERY")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()
	for _, o := range overrides {
		if o.flag == "" {
			continue
		}
		if f := cmd.Flags().Lookup(o.flag); f != nil {
			if err := a.v.BindPFlag(o.key, f); err != nil {
				return fmt.Errorf("failed to bind %s flag: %w", o.flag, err)
			}
		}
	}

	cfg, err := config.LoadOrDefault(a.cfgFile)
	if err != nil {
		return fmt.Errorf("load config(%s): %w", a.cfgFile, err)
	}
	for _, o := range overrides {
		if a.v.IsSet(o.key) {
			if s := strings.TrimSpace(a.v.GetString(o.key)); s != "" {
				o.apply(&cfg, s)
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

func (a *app) renderer() (*render.TemplateRenderer, error) {
	return render.NewTemplateRenderer(a.cfg.Build.ThemeDir)
}

func (a *app) gallery() (*gallery.Gallery, error) {
	tpl, err := a.renderer()
	if err != nil {
		return nil, err
	}
	return gallery.New(gallery.Options{
		DocsDir:     a.cfg.Build.DocsDir,
		CardsDir:    a.cfg.Build.CardsDir,
		CardExt:     a.cfg.Build.CardExt,
		DateLayouts: a.cfg.Gallery.DateLayouts,
		Renderer:    tpl,
		Logger:      a.log,
	})
}
