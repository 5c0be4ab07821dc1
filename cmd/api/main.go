package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/homemedreview/hmr-platform/cmd/mainconfig"
	"github.com/homemedreview/hmr-platform/internal/api/router"
	"github.com/homemedreview/hmr-platform/internal/archive"
	appconfig "github.com/homemedreview/hmr-platform/internal/config"
	"github.com/homemedreview/hmr-platform/internal/extraction"
	"github.com/homemedreview/hmr-platform/internal/http/handlers"
	"github.com/homemedreview/hmr-platform/internal/observability/metrics"
	"github.com/homemedreview/hmr-platform/internal/templates"
	"github.com/homemedreview/hmr-platform/pkg/logging"
)

func main() {
	// Load .env if present (local development)
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting hmr-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Document archive is optional: without a bucket the service runs
	// stateless and archival is a no-op.
	var store *archive.Store
	if cfg.ArchiveBucket != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		store = archive.NewStore(s3.NewFromConfig(awsCfg), cfg.ArchiveBucket, logger)
		logger.Info("document archive enabled", "bucket", cfg.ArchiveBucket)
	}

	// Initialize extraction and template services
	engine := newExtractionEngine(cfg, logger)
	resolver := templates.Resolver{
		PharmacistEmail: cfg.PharmacistContactEmail,
		Now:             time.Now,
	}
	filler := templates.NewFiller(resolver, logger)

	metricsHandler, documentMetrics := setupDocumentMetrics()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.Env)
	documentsHandler := handlers.NewDocumentsHandler(engine, store, documentMetrics, logger, cfg.MaxUploadBytes)
	templatesHandler := handlers.NewTemplatesHandler(filler, store, documentMetrics, logger, cfg.MaxUploadBytes)

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		Health:             healthHandler,
		Documents:          documentsHandler,
		Templates:          templatesHandler,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// newExtractionEngine wires the recognizer stack: PDF text layer first, OCR
// for scans, sample-referral fallback unless disabled by config.
func newExtractionEngine(cfg *appconfig.Config, logger *logging.Logger) *extraction.Engine {
	factory := func() extraction.TextRecognizer {
		return extraction.NewLayeredRecognizer(extraction.NewTesseractRecognizer(cfg.OCRLanguage))
	}
	opts := []extraction.Option{extraction.WithLogger(logger)}
	if !cfg.OCRFallbackSample {
		opts = append(opts, extraction.WithFallbackText(""))
	}
	return extraction.NewEngine(factory, opts...)
}

// setupDocumentMetrics builds the Prometheus registry and the /metrics
// handler backed by it.
func setupDocumentMetrics() (http.Handler, *metrics.DocumentMetrics) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	documentMetrics := metrics.NewDocumentMetrics(registry)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), documentMetrics
}
