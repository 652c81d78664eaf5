package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gallery/internal/domain/card"
	"gallery/internal/schema"
)

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect the GalleryEntry schema package",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "print",
		Short: "Print the GalleryEntry JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg := schema.SchemaPackageEntryPoint.Load()
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(pkg.Sections[0].JSONSchema())
		},
	})

	validate := &cobra.Command{
		Use:   "validate <archive.yaml>",
		Short: "Validate an archive's data section against GalleryEntry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			archive, err := schema.ParseArchive(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			archive.Data.Normalize(a.log)

			renderCard, _ := cmd.Flags().GetBool("render")
			if !renderCard {
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %s\n", archive.Data.Name)
				return nil
			}
			tpl, err := a.renderer()
			if err != nil {
				return err
			}
			out, err := tpl.RenderCard(card.Extract(archive.Data.Raw()))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	validate.Flags().Bool("render", false, "render the entry as a card")
	cmd.AddCommand(validate)

	return cmd
}
