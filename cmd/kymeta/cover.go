package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anezih/calibre-kitapyurdu/internal/config"
	"github.com/anezih/calibre-kitapyurdu/internal/domain"
	"github.com/anezih/calibre-kitapyurdu/internal/source"
)

func newCoverCmd(cfgPath *string) *cobra.Command {
	var (
		title   string
		authors []string
		itemID  string
		coverID string
		out     string
	)

	cmd := &cobra.Command{
		Use:   "cover",
		Short: "Download a book's cover image",
		Long: `Downloads a cover image. With --cover-id the image URL is built
directly; otherwise an identify run finds the best match first.`,
		Example: `  # Fast path with a captured cover id
  kymeta cover --cover-id 12345 -o cover.jpg

  # Identify first, then fetch the best match's cover
  kymeta cover --title "Kürk Mantolu Madonna" --author "Sabahattin Ali"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}

			src := &source.Source{
				MaxResults:  cfg.MaxResults,
				AppendExtra: cfg.AppendExtra,
				Timeout:     cfg.Timeout(),
			}

			identifiers := map[string]string{}
			if itemID != "" {
				identifiers[domain.IdentifierKey] = itemID
			}
			if coverID != "" {
				identifiers[domain.CoverIdentifierKey] = coverID
			}
			req := source.Request{Title: title, Authors: authors, Identifiers: identifiers}

			var data []byte
			src.DownloadCover(cmd.Context(), req, func(b []byte) { data = b })
			if len(data) == 0 {
				return fmt.Errorf("no cover found")
			}

			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write cover: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(data), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "book title")
	cmd.Flags().StringArrayVar(&authors, "author", nil, "author name (repeatable)")
	cmd.Flags().StringVar(&itemID, "id", "", "kitapyurdu item id")
	cmd.Flags().StringVar(&coverID, "cover-id", "", "kitapyurdu cover id (skips identify)")
	cmd.Flags().StringVarP(&out, "output", "o", "cover.jpg", "output file")

	return cmd
}
