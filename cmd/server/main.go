// Package main implements the entry point for the retouch API server,
// which manages a queue of uploaded images and applies edit instructions
// to them through an LLM image model, one item at a time.
package main

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/calref/retouch-api/internal/config"
	"github.com/calref/retouch-api/internal/platform/logger"
)

// main initializes configuration, logging, and the application's
// dependencies, then runs the HTTP server until a shutdown signal arrives.
func main() {
	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	if err := app.startHTTPServer(app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration and sets up structured logging.
// Returns the loaded config, the application logger, and any error.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"model", cfg.LLM.ModelName)

	if cfg.LLM.GeminiAPIKey != "" {
		appLogger.Debug("LLM configuration", "api_key_present", true)
	}

	return cfg, appLogger, nil
}
