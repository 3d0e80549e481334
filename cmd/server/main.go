package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"usersvc/internal/app/server/api"
	"usersvc/internal/app/server/config"
	"usersvc/internal/domain/user"
	"usersvc/internal/infrastructure/metrics"
	"usersvc/internal/infrastructure/storage"
	"usersvc/internal/utils/logger"
)

const readHeaderTimeout = 5 * time.Second

func main() {
	conf := config.MustLoad()
	log := logger.New(conf.Env, logger.WithLevel(conf.Logger.LogLevel))

	if err := run(conf, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(conf *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, conf.Storage, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close storage", "error", err)
		}
	}()

	opts := []user.Option{user.WithConflictRetries(conf.Server.ConflictRetries)}
	var metricsHandler http.Handler
	if conf.Metrics.Enabled {
		m := metrics.New()
		opts = append(opts, user.WithObserver(m))
		metricsHandler = m.Handler()
	}
	service := user.NewService(store, log, opts...)

	srv := &http.Server{
		Addr:              conf.Server.RunAddress,
		Handler:           api.New(service, store, metricsHandler, log),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "address", conf.Server.RunAddress, "env", conf.Env, "backend", conf.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
