package main

import (
	"context"
	"fmt"
	"net/http"

	"dota-dashboard/internal/config"
	"dota-dashboard/internal/constants"
	fxmodules "dota-dashboard/internal/fx"
	"dota-dashboard/internal/server"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

// newHTTPServer sets no WriteTimeout; response time grows with the id list.
func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:     handler,
		ReadTimeout: constants.ServerReadTimeout,
	}
}

func runServer(
	lc fx.Lifecycle,
	dashboardServer *server.DashboardServer,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	srv := newHTTPServer(cfg, dashboardServer.Handler())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
