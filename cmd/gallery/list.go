package main

import (
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"gallery/internal/ingest"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [dir]",
		Short: "List cards in the order the gallery shows them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Build.CardsDir
			if len(args) == 1 {
				dir = args[0]
			}
			col, _, err := ingest.Collect(filepath.Join(a.cfg.Build.DocsDir, dir), ingest.Options{
				Ext:         a.cfg.Build.CardExt,
				DateLayouts: a.cfg.Gallery.DateLayouts,
				Logger:      a.log,
			})
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"#", "Date", "File", "Title", "Status"})

			n := 0
			for _, e := range col.Entries {
				n++
				date, status := "-", "undated"
				if !e.Date.IsZero() {
					date, status = e.Date.Format("2006-01-02"), "ok"
				}
				t.AppendRow(table.Row{n, date, e.File.Name, e.Title, status})
			}
			for _, b := range col.Broken {
				n++
				t.AppendRow(table.Row{n, "-", b.File.Name, "", "broken: " + b.Err.Error()})
			}
			t.AppendFooter(table.Row{"", "", "", "Total", n})
			t.Render()
			return nil
		},
	}
}
