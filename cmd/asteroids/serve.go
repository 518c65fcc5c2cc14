package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/davidsl88/asteroids/internal/api"
	"github.com/davidsl88/asteroids/internal/health"
	"github.com/davidsl88/asteroids/internal/neo"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve GET /api/asteroids/get?days=N",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cmd, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides ASTEROIDS_HTTP_ADDR, default :8080)")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, addr string) error {
	logger := newLogger(cmd.OutOrStdout(), loadLogLevel())

	clientCfg, err := loadClientConfig(logger)
	if err != nil {
		logger.Error("invalid NEO client configuration", "error", err)
		return err
	}

	fetcher := neo.NewFetcher(clientCfg, logger, neo.WithTimeout(loadFeedTimeout(logger)))

	apiCfg, err := loadAPIConfig(logger, addr, fetcher.Timeout())
	if err != nil {
		logger.Error("invalid API configuration", "error", err)
		return err
	}

	srv := api.NewServer(apiCfg, logger, fetcher)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			"addr", apiCfg.Addr,
			"auth_enabled", apiCfg.Auth.Enabled,
			"cors_origins", apiCfg.CORSOrigins,
			"feed_timeout_seconds", fetcher.Timeout().Seconds(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	health.SetReady(true)

	select {
	case err := <-errCh:
		health.SetReady(false)
		if err != nil {
			logger.Error("server listen error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	health.SetReady(false)
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}
