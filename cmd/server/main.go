package main

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
	"github.com/labellens/backend/config"
	httpDelivery "github.com/labellens/backend/internal/delivery/http"
	"github.com/labellens/backend/internal/infrastructure/export"
	"github.com/labellens/backend/internal/infrastructure/gemini"
	"github.com/labellens/backend/internal/infrastructure/tempfile"
	"github.com/labellens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	setupLogging(cfg.Server.Environment)

	log.WithFields(log.Fields{
		"environment": cfg.Server.Environment,
		"addr":        cfg.Server.Addr(),
	}).Info("starting LabelLens backend v1.0.0")

	if err := run(context.Background(), cfg); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// run wires the service and blocks serving HTTP. The Gemini client is closed
// on every return path.
func run(ctx context.Context, cfg *config.Config) error {
	// Initialize infrastructure dependencies
	client, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Temperature)
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Warn("failed to close Gemini client")
		}
	}()

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		client.SetDebug(true)
		log.Info("Gemini client debug mode enabled")
	}

	log.WithFields(log.Fields{
		"model":       cfg.Gemini.Model,
		"temperature": cfg.Gemini.Temperature,
		"timeout":     cfg.Gemini.Timeout.String(),
		"key":         maskKey(cfg.Gemini.APIKey),
	}).Info("Gemini API configured")

	stager := tempfile.NewStager(cfg.Upload.TempDir)
	log.WithField("dir", stager.Dir()).Info("staging uploads")

	// Initialize usecase layer
	labelService := usecase.NewLabelService(
		stager,
		client,
		usecase.LabelServiceConfig{
			ModelTimeout: cfg.Gemini.Timeout,
			KeepUploads:  cfg.Gemini.KeepUploads,
		},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(labelService, export.NewXLSXExporter())

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	log.WithField("addr", cfg.Server.Addr()).Info("server listening")
	if err := router.Run(cfg.Server.Addr()); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// setupLogging uses readable output in development and JSON lines elsewhere
func setupLogging(environment string) {
	if environment == "development" {
		log.SetHandler(text.New(os.Stderr))
		log.SetLevel(log.DebugLevel)
		return
	}
	log.SetHandler(json.New(os.Stderr))
	log.SetLevel(log.InfoLevel)
}

// maskKey keeps only the first characters of a secret for logging
func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:8] + "..."
}
