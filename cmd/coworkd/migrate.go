package main

import (
	"fmt"

	"github.com/goliatone/go-coworking/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			db, err := store.Open(cmd.Context(), store.Config{
				Driver:       cfg.Database.Driver,
				DSN:          cfg.Database.DSN,
				MaxOpenConns: cfg.Database.MaxOpenConns,
			})
			if err != nil {
				return err
			}
			defer db.Close()

			if err := store.Migrate(cmd.Context(), db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info("schema up to date", zap.String("driver", cfg.Database.Driver))
			return nil
		},
	}
}
