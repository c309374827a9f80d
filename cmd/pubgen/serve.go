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

	"github.com/eringen/pubgen"
	"github.com/eringen/pubgen/internal/logfields"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the built site over HTTP",
		Long: `Serve build_root over HTTP for local preview. Nothing is rebuilt:
run "pubgen build" after changing the sources.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e := pubgen.NewPreviewServer(cfg.BuildRoot, a.logger)
			errCh := make(chan error, 1)
			go func() {
				errCh <- e.Start(addr)
			}()
			a.logger.Info("serving build directory", logfields.Path(cfg.BuildRoot), logfields.Addr(addr))
			newPrinter(cmd.OutOrStdout()).success("serving " + cfg.BuildRoot + " on " + addr)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default addr from the config)")
	return cmd
}
