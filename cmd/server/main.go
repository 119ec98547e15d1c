package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contract-analyzer/internal/config"
	"contract-analyzer/internal/handler"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Wiring
	container, err := config.NewContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize dependencies: %v", err)
	}
	defer container.Close()

	// Handlers
	documentHandler := handler.NewDocumentHandler(
		container.DocumentService,
		cfg.GetMaxFileSize(),
		container.Logger,
	)
	analysisHandler := handler.NewAnalysisHandler(
		container.AnalysisService,
		container.Logger,
	)

	// Router
	router := handler.NewRouter(
		documentHandler,
		analysisHandler,
		container.Logger,
		cfg.GetAllowedOrigins(),
	)

	// Generation calls can hold a request open for a long time, so the write
	// timeout is generous.
	server := &http.Server{
		Addr:              ":" + cfg.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	// Run server
	serverErr := make(chan error, 1)
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		container.Logger.Error("Server failed to start", err)
		container.Close()
		os.Exit(1)
	}

	container.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		container.Logger.Error("Graceful shutdown failed", err)
		_ = server.Close()
	}

	container.Logger.Info("Server exited")
}
