package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
)

const shutdownTimeout = 10 * time.Second

func serveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := a.connect()
			if err != nil {
				a.logger.Error().Err(err).Msg("cannot connect to database")
				return err
			}
			defer conn.Close()

			server, err := httpserver.New(conn, a.logger, a.config)
			if err != nil {
				a.logger.Error().Err(err).Msg("cannot create server")
				return err
			}
			defer server.Close()

			srv := &http.Server{
				Addr:              a.config.ServerAddress,
				Handler:           server,
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)

			go func() {
				a.logger.Info().Str("address", srv.Addr).Msg("LEDGER API SERVER HAS STARTED")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					a.logger.Error().Err(err).Msg("cannot start server")
					return err
				}

				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			a.logger.Info().Msg("shutting down")

			return srv.Shutdown(shutdownCtx)
		},
	}
}
