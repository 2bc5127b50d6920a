package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"gradeassist/internal/config"
	"gradeassist/internal/httpapi"
	"gradeassist/internal/manager"
)

const shutdownTimeout = 5 * time.Second

// configureHTTP installs process-wide HTTP settings from cfg.
func configureHTTP(cfg config.Config, log zerolog.Logger) {
	httpapi.SetLogger(log)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetUploadMaxBytes(cfg.UploadMaxBytes)
	httpapi.SetRequestTimeoutSeconds(int64(cfg.RequestTimeoutSeconds))
	httpapi.SetCORSOptions(cfg.CORS.Enabled, cfg.CORS.Origins, nil, nil)
}

// runServe builds one service, probes its backends and serves HTTP until
// SIGINT/SIGTERM or ctx is cancelled.
func runServe(ctx context.Context, service string, cfg config.Config, log zerolog.Logger) error {
	if err := cfg.Validate(service); err != nil {
		return err
	}
	addr := cfg.Addr
	if addr == "" {
		addr = config.DefaultAddr(service)
	}
	log = log.With().Str("service", service).Logger()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := build(ctx, service, cfg, log)
	if err != nil {
		return fmt.Errorf("build %s: %w", service, err)
	}
	defer a.close()

	a.mgr.SetPublisher(manager.NewLogPublisher(log))
	if err := a.mgr.Load(ctx); err != nil {
		return err
	}

	configureHTTP(cfg, log)
	httpapi.SetBaseContext(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewMux(a.mgr, a.mounts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("model", a.mgr.PrimaryModel()).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
