// Command server runs the air-quality upload HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/aqingest/internal/config"
	"github.com/JonMunkholm/aqingest/internal/core"
	"github.com/JonMunkholm/aqingest/internal/logging"
	"github.com/JonMunkholm/aqingest/internal/metrics"
	"github.com/JonMunkholm/aqingest/internal/web"
)

func main() {
	// .env values win over the environment, as in local development.
	if err := godotenv.Overload(); err == nil {
		slog.Info("loaded .env file")
	}

	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"upload_max_file_size", cfg.Upload.MaxFileSize,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"metrics_enabled", cfg.Metrics.Enabled,
	)
	logger.Debug("effective configuration", "config", cfg.String())

	m := metrics.New(metrics.Config{Enabled: cfg.Metrics.Enabled})

	service, err := core.NewService(cfg, m)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	server := web.NewServer(service, cfg, m)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if active := service.UploadLimiterStatus().Active; active > 0 {
			logger.Info("waiting for uploads to complete", "active", active)
			if err := service.WaitForUploads(shutdownCtx); err != nil {
				logger.Warn("uploads did not complete in time", "error", err)
			}
		}

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
