package main

import (
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/anezih/calibre-kitapyurdu/internal/config"
	"github.com/anezih/calibre-kitapyurdu/internal/domain"
	"github.com/anezih/calibre-kitapyurdu/internal/source"
)

func newIdentifyCmd(cfgPath *string) *cobra.Command {
	var (
		title   string
		authors []string
		itemID  string
	)

	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Search for a book and print matching metadata records as JSON",
		Example: `  # Title and author search
  kymeta identify --title "Kürk Mantolu Madonna" --author "Sabahattin Ali"

  # Direct item id lookup (skips search)
  kymeta identify --id 49438`,
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

			req := source.Request{Title: title, Authors: authors}
			if itemID != "" {
				req.Identifiers = map[string]string{domain.IdentifierKey: itemID}
			}

			var results []domain.Metadata
			src.Identify(cmd.Context(), req, func(m domain.Metadata) {
				results = append(results, m)
			})
			if len(results) == 0 {
				slog.Info("nothing found")
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "book title")
	cmd.Flags().StringArrayVar(&authors, "author", nil, "author name (repeatable; only the first is used for the query)")
	cmd.Flags().StringVar(&itemID, "id", "", "kitapyurdu item id (skips search)")

	return cmd
}
