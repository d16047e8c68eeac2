package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"ecommerce-trend-analyzer/config"
	"ecommerce-trend-analyzer/internal/handlers"
	"ecommerce-trend-analyzer/internal/middleware"
	"ecommerce-trend-analyzer/internal/models"
	"ecommerce-trend-analyzer/internal/services"
	"ecommerce-trend-analyzer/internal/sources"
)

type application struct {
	config *config.Config
	logger *slog.Logger
	server *http.Server
}

// New creates and initializes a new application instance with all dependencies.
// The source API clients are constructed once here and shared read-only
// across all requests.
func New(cfg *config.Config, logger *slog.Logger) *application {
	amazonClient := sources.NewPAAPIClient(cfg.Amazon.AccessKey, cfg.Amazon.SecretKey, cfg.Amazon.PartnerTag, cfg.Amazon.Region)
	ebayClient := sources.NewFindingClient(cfg.Ebay.AppID, cfg.Ebay.Domain)
	trendsClient := sources.NewTrendsClient(cfg.Trends.HostLanguage)

	// Dispatch table. The Etsy adapter exists but has no entry here, so
	// "etsy" requests are rejected as unsupported.
	registry := sources.NewRegistry(map[models.Source]sources.Adapter{
		models.SourceAmazon: sources.NewAmazonAdapter(amazonClient, logger),
		models.SourceEbay:   sources.NewEbayAdapter(ebayClient, logger),
		models.SourceGoogle: sources.NewGoogleAdapter(trendsClient, logger),
	})

	analyzer := services.NewTrendAnalyzer(registry, logger)
	trendsHandler := handlers.NewTrendsHandler(analyzer, logger)

	// Setup the HTTP surface
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.RequestLogging(logger))
	e.Use(middleware.RateLimit(nil))

	trendsHandler.Register(e)

	server := &http.Server{
		Addr:    cfg.GetServerAddress(),
		Handler: e,
	}

	return &application{
		config: cfg,
		logger: logger,
		server: server,
	}
}

// Run starts the HTTP server and handles graceful shutdown.
// Uses BaseContext to propagate cancellation to all active requests when
// shutdown is initiated.
func (app *application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Every request's context inherits from this one, so in-flight
	// requests are notified when we cancel() during shutdown.
	app.server.BaseContext = func(_ net.Listener) context.Context {
		return ctx
	}

	// Channel to communicate shutdown errors from the shutdown goroutine
	shutdownErrCh := make(chan error)

	go func() {
		signalCh := make(chan os.Signal, 1)
		signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

		// Block until we receive a shutdown signal
		sig := <-signalCh
		app.logger.Info("Shutdown signal received", "signal", sig.String())

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer shutdownCancel()

		app.logger.Info("Shutting down server gracefully...")
		if err := app.server.Shutdown(shutdownCtx); err != nil {
			shutdownErrCh <- err
			return
		}

		app.logger.Info("Server stopped gracefully")
		shutdownErrCh <- nil
	}()

	app.logger.Info("HTTP server starting", "address", app.config.GetServerAddress())
	err := app.server.ListenAndServe()

	// ListenAndServe always returns an error; after Shutdown it is
	// ErrServerClosed, which is expected.
	if !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	if err := <-shutdownErrCh; err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}
