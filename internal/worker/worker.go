package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/village-engine/internal/queue"
	"github.com/jwebster45206/village-engine/internal/storage"
	"github.com/jwebster45206/village-engine/pkg/store"
)

const (
	workerTimeout = 5 * time.Second
	lockTTL       = 30 * time.Second
)

// Worker drains the intent queue and applies each intent to its
// session's gamestate through the store, so every mutation goes
// through the same transition path the in-process scene uses.
type Worker struct {
	id          string
	queue       *queue.IntentQueue
	storage     storage.Storage
	redisClient *redis.Client
	log         *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new worker instance
func New(intentQueue *queue.IntentQueue, store storage.Storage, redisClient *redis.Client, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:          workerID,
		queue:       intentQueue,
		storage:     store,
		redisClient: redisClient,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins processing requests from the queue
func (w *Worker) Start() error {
	w.log.Info("Worker starting", "worker_id", w.id)

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down", "worker_id", w.id)
			return nil
		default:
			if err := w.processNextRequest(); err != nil {
				w.log.Error("Error processing request", "error", err, "worker_id", w.id)
				// Continue processing even on error
				time.Sleep(1 * time.Second)
			}
		}
	}
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested", "worker_id", w.id)
	w.cancel()
}

// processNextRequest pulls the next request from the queue and processes it
func (w *Worker) processNextRequest() error {
	// Block waiting for the next request, timing out periodically so
	// shutdown is noticed.
	req, err := w.queue.BlockingDequeue(w.ctx, workerTimeout)
	if err != nil {
		if w.ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to dequeue request: %w", err)
	}
	if req == nil {
		// Queue is empty or timeout occurred - this is normal
		return nil
	}

	w.log.Info("Received intent from queue",
		"worker_id", w.id,
		"request_id", req.RequestID,
		"kind", req.Intent.Kind,
		"game_state_id", req.GameStateID.String(),
	)

	locked, err := w.acquireSessionLock(req.GameStateID)
	if err != nil {
		return fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !locked {
		// Another worker holds this session. Re-queue at the end and
		// move on.
		w.log.Info("Session already locked, re-queueing request",
			"worker_id", w.id,
			"request_id", req.RequestID,
			"game_state_id", req.GameStateID.String(),
		)
		if err := w.queue.Enqueue(w.ctx, req); err != nil {
			return fmt.Errorf("failed to re-queue request: %w", err)
		}
		return nil
	}

	defer w.releaseSessionLock(req.GameStateID)
	return w.ProcessRequest(w.ctx, req)
}

// ProcessRequest applies a single intent request. The caller must hold
// the session lock.
func (w *Worker) ProcessRequest(ctx context.Context, req *queue.Request) error {
	start := time.Now()

	gs, err := w.storage.LoadGameState(ctx, req.GameStateID)
	if err != nil {
		return fmt.Errorf("failed to load gamestate: %w", err)
	}
	if gs == nil {
		w.log.Warn("Dropping intent for unknown session",
			"request_id", req.RequestID,
			"game_state_id", req.GameStateID.String(),
		)
		return nil
	}

	// Every intent runs through the same store apply path the
	// in-process scene uses, which also persists the new snapshot.
	s := store.New(gs, w.storage, w.log)
	bridge := store.NewBridge(s, w.log)
	if err := bridge.Handle(ctx, req.Intent); err != nil {
		return fmt.Errorf("failed to apply intent %q: %w", req.Intent.Kind, err)
	}

	w.log.Info("Intent processed",
		"worker_id", w.id,
		"request_id", req.RequestID,
		"kind", req.Intent.Kind,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// acquireSessionLock attempts to acquire a lock for a session.
// Returns true if the lock was acquired, false if already locked.
func (w *Worker) acquireSessionLock(gameStateID uuid.UUID) (bool, error) {
	lockKey := fmt.Sprintf("session-lock:%s", gameStateID.String())

	result, err := w.redisClient.SetNX(w.ctx, lockKey, w.id, lockTTL).Result()
	if err != nil {
		return false, err
	}
	return result, nil
}

// releaseSessionLock releases the lock for a session
func (w *Worker) releaseSessionLock(gameStateID uuid.UUID) {
	lockKey := fmt.Sprintf("session-lock:%s", gameStateID.String())

	// Only delete if we own the lock
	script := redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`)

	if err := script.Run(w.ctx, w.redisClient, []string{lockKey}, w.id).Err(); err != nil {
		w.log.Error("Failed to release session lock", "error", err, "game_state_id", gameStateID.String())
	}
}
