package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/chatops-processor/internal/instrumentation"
	"github.com/giantswarm/chatops-processor/internal/logging"
	"github.com/giantswarm/chatops-processor/internal/server"
)

// runHTTPServer serves handler on addr, plus the metrics server when enabled,
// until ctx is cancelled or one of the servers fails. Both servers are shut
// down gracefully before it returns.
func runHTTPServer(ctx context.Context, addr string, handler http.Handler, health *server.HealthChecker, metricsConfig MetricsServeConfig, provider *instrumentation.Provider, logger *slog.Logger) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return serveListener(ctx, listener, handler, health, metricsConfig, provider, logger)
}

// serveListener is runHTTPServer on an already bound listener.
func serveListener(ctx context.Context, listener net.Listener, handler http.Handler, health *server.HealthChecker, metricsConfig MetricsServeConfig, provider *instrumentation.Provider, logger *slog.Logger) error {
	var metricsServer *server.MetricsServer
	if metricsConfig.Enabled && provider != nil && provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
			Enabled:                 metricsConfig.Enabled,
			InstrumentationProvider: provider,
		})
		if err != nil {
			_ = listener.Close()
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
	}

	// Create HTTP server with security timeouts
	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server starting",
			"addr", listener.Addr().String(),
			"endpoints", []string{"/process", "/healthz", "/readyz", "/healthz/detailed"})
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		return nil
	})

	if metricsServer != nil {
		g.Go(func() error {
			logger.Info("metrics server starting", "addr", metricsServer.Addr())
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server stopped with error: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received, stopping HTTP servers")
		if health != nil {
			health.SetReady(false)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()

		// Shutdown metrics server first
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("error shutting down metrics server", logging.Err(err))
			}
		}

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
