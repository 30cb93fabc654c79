package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jwebster45206/village-engine/internal/config"
	"github.com/jwebster45206/village-engine/internal/handlers"
	"github.com/jwebster45206/village-engine/internal/logger"
	"github.com/jwebster45206/village-engine/internal/middleware"
	"github.com/jwebster45206/village-engine/internal/queue"
	"github.com/jwebster45206/village-engine/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Village Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"redis_url", cfg.RedisURL)

	storageService := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := storageService.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	queueClient, err := queue.NewClient(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to create queue client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing queue client", "error", err)
		}
	}()
	intentQueue := queue.NewIntentQueue(queueClient)
	log.Info("Queue service initialized successfully")

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(storageService, log)
	mux.Handle("/health", healthHandler)

	gameStateHandler := handlers.NewGameStateHandler(log, storageService)
	commandHandler := handlers.NewCommandHandler(log, storageService)
	intentHandler := handlers.NewIntentHandler(log, storageService, intentQueue)

	mux.Handle("/v1/gamestate", gameStateHandler)
	mux.HandleFunc("/v1/gamestate/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/commands"):
			commandHandler.ServeHTTP(w, r)
		case strings.HasSuffix(r.URL.Path, "/intents"):
			intentHandler.ServeHTTP(w, r)
		default:
			gameStateHandler.ServeHTTP(w, r)
		}
	})

	catalogHandler := handlers.NewCatalogHandler(log, storageService)
	mux.Handle("/v1/catalog/", catalogHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := storageService.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
