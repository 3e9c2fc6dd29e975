package main

import (
	"github.com/spf13/cobra"

	"github.com/go-petr/pet-ledger/db"
)

func migrateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply or roll back the database schema",
	}

	cmd.AddCommand(migrateUpCommand(a))
	cmd.AddCommand(migrateDownCommand(a))

	return cmd
}

func migrateUpCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "apply all pending migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			conn, err := a.connect()
			if err != nil {
				return err
			}
			defer conn.Close()

			n, err := db.Up(conn)
			if err != nil {
				a.logger.Error().Err(err).Msg("migrating up failed")
				return err
			}

			a.logger.Info().Int("applied", n).Msg("migrations applied")

			return nil
		},
	}
}

func migrateDownCommand(a *app) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "roll back migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			conn, err := a.connect()
			if err != nil {
				return err
			}
			defer conn.Close()

			n, err := db.Down(conn, steps)
			if err != nil {
				a.logger.Error().Err(err).Msg("migrating down failed")
				return err
			}

			a.logger.Info().Int("rolled_back", n).Msg("migrations rolled back")

			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to roll back, 0 rolls back all")

	return cmd
}
