package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/learnhub/learnhub/config"
	"github.com/learnhub/learnhub/data"
	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/service"
)

// NewIngestCommand creates the ingest command. It loads documents into
// the chat knowledge base.
func NewIngestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Embed documents into the chat knowledge base",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				return err
			}

			ctx := context.Background()
			log := logger.StdLogger()

			d, err := data.New(ctx, cfg.Data, log)
			if err != nil {
				return err
			}
			defer d.Close()

			svc, err := service.New(cfg, d, log)
			if err != nil {
				return err
			}

			for _, path := range args {
				text, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				n, err := svc.Chat.Ingest(ctx, filepath.Base(path), string(text))
				if err != nil {
					return fmt.Errorf("failed to ingest %s: %w", path, err)
				}
				log.Info(ctx, "ingested", "source", filepath.Base(path), "chunks", n)
			}
			return nil
		},
	}
}
