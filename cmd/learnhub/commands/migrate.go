package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/learnhub/learnhub/config"
	"github.com/learnhub/learnhub/data"
	"github.com/learnhub/learnhub/logging/logger"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				return err
			}

			ctx := context.Background()
			log := logger.StdLogger()

			// data.New applies the schema on open.
			d, err := data.New(ctx, cfg.Data, log)
			if err != nil {
				return err
			}
			defer d.Close()

			log.Info(ctx, "schema applied", "driver", cfg.Data.Database.Driver)
			return nil
		},
	}
}
