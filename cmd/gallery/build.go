package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gallery/internal/build"
)

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the gallery site into the public directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := &build.Builder{Cfg: a.cfg, Logger: a.log}
			res, err := b.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "built %d pages, %d assets into %s (%d written, %d unchanged, %d warnings)\n",
				res.Pages, res.Assets, a.cfg.Build.PublicDir, res.Written, res.Unchanged, len(res.Warnings))
			return nil
		},
	}
}
