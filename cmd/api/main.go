package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saturnino-fabrica-de-software/aiface/internal/api"
	"github.com/saturnino-fabrica-de-software/aiface/internal/audit"
	"github.com/saturnino-fabrica-de-software/aiface/internal/config"
	"github.com/saturnino-fabrica-de-software/aiface/internal/face"
	"github.com/saturnino-fabrica-de-software/aiface/internal/fetch"
	"github.com/saturnino-fabrica-de-software/aiface/internal/metrics"
	"github.com/saturnino-fabrica-de-software/aiface/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer := config.NewLogger(cfg.Environment, cfg.LogFile)
	defer func() { _ = closer.Close() }()
	slog.SetDefault(logger)

	logger.Info("starting AI Face API",
		slog.String("environment", cfg.Environment),
		slog.String("provider", cfg.ProviderType),
		slog.Int("port", cfg.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer, err := face.NewFaceAnalyzer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create face analyzer: %w", err)
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	faceService := service.NewFaceService(
		analyzer,
		fetch.New(fetch.Config{Timeout: cfg.FetchTimeout, MaxSize: int64(cfg.MaxImageSize)}),
		service.WithMetrics(m),
		service.WithAuditLogger(audit.NewSlogLogger(logger)),
		service.WithLogger(logger),
	)

	router := api.NewRouter(logger, &api.Dependencies{
		FaceService:    faceService,
		ProviderName:   analyzer.Name(),
		Metrics:        m,
		Host:           fmt.Sprintf("localhost:%d", cfg.Port),
		MaxImageSize:   int64(cfg.MaxImageSize),
		RequestTimeout: cfg.RequestTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	router.Setup()

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server...", slog.Int("open_sessions", router.Sessions()))

	done := make(chan error, 1)
	go func() { done <- router.Shutdown() }()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	case <-time.After(shutdownTimeout):
		logger.Warn("shutdown timed out", slog.Duration("timeout", shutdownTimeout))
	}

	logger.Info("server stopped")
	return nil
}
