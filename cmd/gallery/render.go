package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRenderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render <file>",
		Short: "Render one card file, relative to the docs root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.gallery()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), g.RenderCardFromFile(args[0]))
			return nil
		},
	}
}

func newRenderAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render-all [dir]",
		Short: "Render every card in a directory, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.gallery()
			if err != nil {
				return err
			}
			var dir string
			if len(args) == 1 {
				dir = args[0]
			}
			if out := g.RenderSortedCards(dir); out != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}
}
