package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/pakketpunt/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the locator API and geocode missing points in the background",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer application.Close()
	logger := application.log

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Geocode whatever the cache is still missing.
	if err = application.resolver.Start(ctx); err != nil {
		logger.WarnContext(ctx, "Initial geocoding run not started", "error", err)
	}

	srv := server.New(
		ctx,
		logger,
		application.catalog,
		application.cache,
		application.resolver,
		application.slot,
		application.reg,
	)

	readTimeout := 5
	writeTimeout := 10
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", application.cfg.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "Starting HTTP server", "port", application.cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")
	case err = <-errCh:
		logger.ErrorContext(ctx, "HTTP server failed", "error", err)
		return err
	}

	shutdownTimeout := 5 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "HTTP server shutdown failed", "error", err)
	}

	// The cache slot is closed on return; let a background run store its last entries first.
	if err = application.resolver.Wait(shutdownCtx); err != nil {
		logger.WarnContext(shutdownCtx, "Abandoning geocoding run", "error", err)
	}

	logger.InfoContext(shutdownCtx, "Application stopped gracefully.")

	return nil
}
