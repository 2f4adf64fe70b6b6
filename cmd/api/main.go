package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/nearwork/internal/config"
	"github.com/joshua-takyi/nearwork/internal/connect"
	"github.com/joshua-takyi/nearwork/internal/container"
	"github.com/joshua-takyi/nearwork/internal/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg)
	logger.Info("Starting nearwork API server",
		"environment", cfg.Environment,
		"store", cfg.StoreDriver,
	)

	// Open the location store once for the lifetime of the process
	store, err := connect.OpenStore(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to open location store", "store", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	logger.Info("Location store ready", "store", cfg.StoreDriver)

	// Initialize dependency container
	appContainer := container.NewContainer(logger, cfg, store)

	// Setup routes
	router := routes.SetupRoutes(appContainer)

	// Create HTTP server
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := store.Close(ctx); err != nil {
		logger.Error("Error closing location store", "error", err)
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		})
	} else {
		// Human-readable logging for development, with call sites
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     cfg.SlogLevel(),
			AddSource: cfg.IsDevelopment(),
		})
	}

	return slog.New(handler)
}
