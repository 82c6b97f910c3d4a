package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/distr-sh/recoverd/internal/env"
	"github.com/distr-sh/recoverd/internal/handlers"
	"github.com/distr-sh/recoverd/internal/routing"
	"github.com/distr-sh/recoverd/internal/svc"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the recovery HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		registry, err := svc.New(ctx, svc.EnableJobs(true))
		if err != nil {
			return err
		}
		log := registry.GetLogger()

		var pinger handlers.Pinger
		if pool := registry.GetDbPool(); pool != nil {
			pinger = pool
		}
		server := &http.Server{
			Addr: env.ListenAddr(),
			Handler: routing.NewRouter(routing.Options{
				Logger:         log,
				Service:        registry.GetRecoveryService(),
				Pinger:         pinger,
				RateLimit:      env.RecoveryRateLimit(),
				TracerProvider: registry.GetTracerProvider(),
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		if scheduler := registry.GetJobsScheduler(); scheduler != nil {
			scheduler.Start()
		}

		serverErr := make(chan error, 1)
		go func() {
			log.Info("starting server", zap.String("addr", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
			close(serverErr)
		}()

		select {
		case err = <-serverErr:
		case <-ctx.Done():
			stop()
			if delay := env.ServerShutdownDelayDuration(); delay != nil {
				log.Info("delaying server shutdown", zap.Duration("delay", *delay))
				time.Sleep(*delay)
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err = multierr.Append(err, server.Shutdown(shutdownCtx))
		return multierr.Append(err, registry.Shutdown(shutdownCtx))
	},
}
