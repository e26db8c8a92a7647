// Package commands defines the learnhub CLI.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "learnhub",
		Short: "LearnHub learning platform API server",
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "path to config file")

	rootCmd.AddCommand(
		NewServeCommand(),
		NewMigrateCommand(),
		NewSeedCommand(),
		NewIngestCommand(),
		NewVersionCommand(),
	)

	return rootCmd
}

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}
