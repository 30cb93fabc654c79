package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/village-engine/pkg/store"
)

// intentsKey is the global list every scene process pushes onto and
// every worker drains from.
const intentsKey = "intents"

// Request is one scene intent in flight between the api and the
// worker, tagged with the session it belongs to.
type Request struct {
	RequestID   string       `json:"request_id"`
	GameStateID uuid.UUID    `json:"game_state_id"`
	Intent      store.Intent `json:"intent"`
	EnqueuedAt  time.Time    `json:"enqueued_at"`
}

// IntentQueue is the Redis-backed scene-to-store channel for the
// api/worker split. Intents are applied strictly in enqueue order per
// session; the worker's session lock keeps two workers off the same
// gamestate.
type IntentQueue struct {
	client *Client
}

func NewIntentQueue(client *Client) *IntentQueue {
	return &IntentQueue{
		client: client,
	}
}

// Enqueue adds an intent request to the end of the global queue.
func (q *IntentQueue) Enqueue(ctx context.Context, req *Request) error {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	if req.EnqueuedAt.IsZero() {
		req.EnqueuedAt = time.Now()
	}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to serialize intent request: %w", err)
	}

	if err := q.client.rdb.RPush(ctx, intentsKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue intent request: %w", err)
	}
	return nil
}

// Dequeue removes and returns the next request from the global queue.
// Returns nil if the queue is empty.
func (q *IntentQueue) Dequeue(ctx context.Context) (*Request, error) {
	result, err := q.client.rdb.LPop(ctx, intentsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Queue is empty
		}
		return nil, fmt.Errorf("failed to dequeue intent request: %w", err)
	}
	return parseRequest([]byte(result))
}

// BlockingDequeue blocks until a request is available or the timeout
// elapses. Returns nil on timeout.
func (q *IntentQueue) BlockingDequeue(ctx context.Context, timeout time.Duration) (*Request, error) {
	result, err := q.client.rdb.BLPop(ctx, timeout, intentsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Timed out with nothing queued
		}
		return nil, fmt.Errorf("failed to dequeue intent request: %w", err)
	}

	// BLPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BLPop result: %v", result)
	}
	return parseRequest([]byte(result[1]))
}

// Depth returns the number of requests in the global queue
func (q *IntentQueue) Depth(ctx context.Context) (int, error) {
	count, err := q.client.rdb.LLen(ctx, intentsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue depth: %w", err)
	}
	return int(count), nil
}

// Clear removes all queued intent requests
func (q *IntentQueue) Clear(ctx context.Context) error {
	if err := q.client.rdb.Del(ctx, intentsKey).Err(); err != nil {
		return fmt.Errorf("failed to clear intent queue: %w", err)
	}
	return nil
}

func parseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse intent request: %w", err)
	}
	return &req, nil
}
