package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/village-engine/internal/config"
	"github.com/jwebster45206/village-engine/internal/logger"
	"github.com/jwebster45206/village-engine/internal/queue"
	"github.com/jwebster45206/village-engine/internal/storage"
	"github.com/jwebster45206/village-engine/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Village Engine Worker",
		"environment", cfg.Environment,
		"redis_url", cfg.RedisURL)

	// Initialize queue service
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

	// Initialize storage service
	storageService := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := storageService.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage service initialized successfully")

	// Separate Redis client for session locking
	// (separate from queue client to avoid connection conflicts)
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis client", "error", err)
		}
	}()

	log.Info("Redis connection established successfully")

	// Create and start worker
	w := worker.New(intentQueue, storageService, redisClient, log, os.Getenv("WORKER_ID"))

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := w.Start(); err != nil {
			log.Error("Worker error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("Worker started, waiting for intents...")

	<-quit
	log.Info("Worker shutdown signal received")

	w.Stop()

	// Give the worker time to finish the current intent
	time.Sleep(2 * time.Second)

	log.Info("Worker exited")
}
