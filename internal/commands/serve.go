package commands

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"moneyleft/internal/cli"
	apphttp "moneyleft/internal/http"
	"moneyleft/internal/log"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger tools over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()

			app, err := cli.Bootstrap(ctx, log.ComponentHTTP)
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					app.Logger.Error("Shutdown cleanup failed", log.FieldError, err)
				}
			}()

			if addr == "" {
				addr = ":" + app.Config.Port
			}
			srv := apphttp.NewServer(addr, app.Registry, app.Backend.Store, apphttp.Options{
				RateLimitPerMinute: app.Config.RateLimitPerMinute,
				Logger:             app.Logger,
			})

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				app.Logger.Info("Starting ledger server", "addr", addr, "backend", app.Config.DataBackend)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("listen on %s: %w", addr, err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				app.Logger.Info("Shutting down server")
				shutdownCtx, cancel := cli.ShutdownContext(shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shutdown server: %w", err)
				}
				app.Logger.Info("Server stopped gracefully")
				return nil
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default \":$PORT\")")
	return cmd
}
