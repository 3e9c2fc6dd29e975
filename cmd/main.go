// Package main provides the pet-ledger command line: the HTTP API server, schema migrations and demo data seeding.
package main

import (
	"database/sql"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"

	_ "github.com/lib/pq"
)

// app holds what every command needs once the configuration is loaded.
type app struct {
	configPath string
	config     configpkg.Config
	logger     zerolog.Logger
}

func (a *app) preRun(_ *cobra.Command, _ []string) error {
	config, err := configpkg.Load(a.configPath)
	if err != nil {
		return err
	}

	a.config = config
	a.logger = middleware.CreateLogger(config)

	return nil
}

func (a *app) connect() (*sql.DB, error) {
	return dbpkg.Setup(a.config.DBDriver, a.config.DBSource, a.config.DBConnectTimeout)
}

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:               "pet-ledger",
		Short:             "Bank account ledger API",
		SilenceUsage:      true,
		PersistentPreRunE: a.preRun,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "./configs", "directory holding app.env")

	cmd.AddCommand(serveCommand(a))
	cmd.AddCommand(migrateCommand(a))
	cmd.AddCommand(seedCommand(a))

	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Error().Err(err).Send()
		os.Exit(1)
	}
}
