package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/learnhub/learnhub/config"
	"github.com/learnhub/learnhub/data"
	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/service"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the product catalog with sample data",
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

			created, err := svc.Catalog.Seed(ctx, size)
			if err != nil {
				return err
			}
			if created == 0 {
				log.Info(ctx, "catalog already seeded, nothing to do")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", 250, "number of products to create")
	return cmd
}
