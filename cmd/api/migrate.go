package main

import (
	"fmt"

	"tweetbloom/infrastructure/config"
	"tweetbloom/infrastructure/persistence/sqlite"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the SQLite schema",
	Long: `Create the SQLite tables and indexes if they do not exist.
The DynamoDB table is provisioned with the deployment, so there is nothing to do for it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if cfg.Store != config.StoreSQLite {
			logger.Info("Nothing to migrate", zap.String("store", cfg.Store))
			return nil
		}

		store, err := sqlite.Open(cmd.Context(), cfg.SQLitePath, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(cmd.Context()); err != nil {
			return err
		}
		logger.Info("Schema is up to date", zap.String("path", cfg.SQLitePath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
