package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gastos/internal/config"
	"gastos/internal/log"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long:  `Open the configured SQL backend and apply every pending migration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if cfg.DataBackend == config.BackendMemory {
				return fmt.Errorf("migrate needs a SQL backend, DATA_BACKEND is %q", cfg.DataBackend)
			}

			store, err := openBackend(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			logger.InfoContext(cmd.Context(), "Migrations applied",
				log.FieldOperation, log.OpMigrate,
				"backend", cfg.DataBackend)
			return nil
		},
	}
}
