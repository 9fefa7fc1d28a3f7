package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saturnino-fabrica-de-software/facex/internal/analysis"
	"github.com/saturnino-fabrica-de-software/facex/internal/api"
	"github.com/saturnino-fabrica-de-software/facex/internal/config"
	"github.com/saturnino-fabrica-de-software/facex/internal/report"
	"github.com/saturnino-fabrica-de-software/facex/internal/scratch"
	"github.com/saturnino-fabrica-de-software/facex/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting FaceX API",
		slog.String("environment", cfg.Environment),
		slog.String("provider", cfg.ProviderType),
		slog.Int("port", cfg.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Scratch directory for inference artifacts
	scratchDir, err := scratch.New(cfg.ScratchDir)
	if err != nil {
		return fmt.Errorf("failed to prepare scratch dir: %w", err)
	}
	logger.Info("scratch directory ready", slog.String("path", scratchDir.Root()))

	// Attribute provider and analysis gateway
	attrProvider, err := analysis.NewProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	gateway := analysis.NewGateway(attrProvider, scratchDir, logger)
	compiler := report.NewCompiler(logger)
	store := session.NewStore()

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		Store:    store,
		Analyzer: gateway,
		Compiler: compiler,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	// Session artifacts do not outlive the process
	store.Clear()

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
