package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vyrodovalexey/avrouter/internal/config"
	"github.com/vyrodovalexey/avrouter/internal/observability"
)

const shutdownTimeout = 30 * time.Second

// runRouter runs the router and handles shutdown.
func runRouter(app *application, configPath string, logger observability.Logger) {
	go func() {
		if err := app.server.Start(); err != nil {
			fatalWithSync(logger, "http server error", observability.Error(err))
		}
	}()

	if app.metricsServer != nil {
		go runMetricsServer(app.metricsServer, logger)
	}

	watcher := startConfigWatcher(app, configPath, logger)

	waitForShutdown(app, watcher, logger)
}

// runMetricsServer runs the metrics HTTP server.
func runMetricsServer(srv *http.Server, logger observability.Logger) {
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server error", observability.Error(err))
	}
}

// startConfigWatcher starts the hot-reload watcher. A change to the
// configuration file rebuilds the dispatcher and swaps it in; a failed
// reload keeps the running dispatcher.
func startConfigWatcher(app *application, configPath string, logger observability.Logger) *config.Watcher {
	watcher, err := config.NewWatcher(configPath, func(cfg *config.Config) {
		dispatcher, err := buildDispatcher(cfg, logger)
		if err != nil {
			logger.Error("reloaded configuration rejected, keeping previous routes",
				observability.Error(err))
			return
		}
		app.server.SetDispatcher(dispatcher)
		app.health.SetRoutes(len(cfg.Routes))
		logger.Info("routes reloaded", observability.Int("routes", len(cfg.Routes)))
	}, config.WithWatcherLogger(logger))
	if err != nil {
		logger.Warn("config watcher unavailable, hot reload disabled",
			observability.Error(err))
		return nil
	}

	if err := watcher.Start(); err != nil {
		logger.Warn("config watcher failed to start, hot reload disabled",
			observability.Error(err))
		return nil
	}
	return watcher
}

// waitForShutdown waits for a shutdown signal and performs graceful
// shutdown.
func waitForShutdown(app *application, watcher *config.Watcher, logger observability.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", observability.String("signal", sig.String()))

	app.health.SetDraining()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if watcher != nil {
		watcher.Stop()
	}

	if app.metricsServer != nil {
		logger.Info("stopping metrics server")
		if err := app.metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to stop metrics server gracefully", observability.Error(err))
		}
	}

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to stop http server gracefully", observability.Error(err))
	}

	if app.tracer != nil {
		if err := app.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down tracer", observability.Error(err))
		}
	}

	logger.Info("shutdown complete")
}
