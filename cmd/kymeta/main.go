package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "1.1.1"

func newRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "kymeta",
		Short: "Look up book metadata and covers on kitapyurdu.com",
		Long: `kymeta queries kitapyurdu.com for bibliographic metadata.

Given a title/author pair or a known kitapyurdu item id it fetches the
matching item pages and prints normalized records as JSON, or downloads
the cover image for a captured cover id.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env if present; env overrides beat the config file.
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file (optional)")

	cmd.AddCommand(newIdentifyCmd(&cfgPath))
	cmd.AddCommand(newCoverCmd(&cfgPath))

	return cmd
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
