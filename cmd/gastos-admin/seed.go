package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gastos/internal/config"
	"gastos/internal/seed"
)

func seedCmd() *cobra.Command {
	var (
		people  int
		rngSeed int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty database with sample data",
		Long: `Create the default categories, fake people and recent transactions.
Each step is skipped when its table already has rows.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if cfg.DataBackend == config.BackendMemory {
				return fmt.Errorf("seeding the memory backend has no lasting effect, use SEED_ON_START instead")
			}
			if !cmd.Flags().Changed("people") {
				people = cfg.SeedPeople
			}

			store, err := openBackend(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			report, err := seed.New(store.Repositories, seed.WithSeed(rngSeed), seed.WithLogger(logger)).Run(cmd.Context(), people)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "categories: %d\npeople: %d\ntransactions: %d\n",
				report.Categories, report.People, report.Transactions)
			return nil
		},
	}

	cmd.Flags().IntVar(&people, "people", seed.DefaultPeople, "number of people to create (default: SEED_PEOPLE)")
	cmd.Flags().Int64Var(&rngSeed, "rand-seed", 0, "seed for reproducible data, 0 picks one at random")
	return cmd
}
