package queue

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/jwebster45206/village-engine/pkg/store"
)

func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	client, err := NewClient(mr.Addr(), logger)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create queue client: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestIntentQueue_EnqueueAndDequeue(t *testing.T) {
	client, _ := setupTestRedis(t)
	q := NewIntentQueue(client)

	ctx := context.Background()
	gameStateID := uuid.New()

	x := 120.0
	intents := []store.Intent{
		{Kind: store.IntentMoveTo, X: &x},
		{Kind: store.IntentAdvanceTime, Hours: 0.5},
		{Kind: store.IntentEndDialogue},
	}
	for _, intent := range intents {
		err := q.Enqueue(ctx, &Request{GameStateID: gameStateID, Intent: intent})
		if err != nil {
			t.Fatalf("Failed to enqueue intent: %v", err)
		}
	}

	depth, err := q.Depth(ctx)
	if err != nil {
		t.Fatalf("Failed to get depth: %v", err)
	}
	if depth != len(intents) {
		t.Errorf("Expected depth %d, got %d", len(intents), depth)
	}

	// Dequeue in FIFO order
	for i, want := range intents {
		req, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("Failed to dequeue intent %d: %v", i, err)
		}
		if req == nil {
			t.Fatalf("Intent %d missing from queue", i)
		}
		if req.Intent.Kind != want.Kind {
			t.Errorf("Intent %d kind mismatch: expected %q, got %q", i, want.Kind, req.Intent.Kind)
		}
		if req.GameStateID != gameStateID {
			t.Errorf("Intent %d game_state_id mismatch: got %s", i, req.GameStateID)
		}
		if req.RequestID == "" {
			t.Errorf("Intent %d has no request id", i)
		}
		if req.EnqueuedAt.IsZero() {
			t.Errorf("Intent %d has no enqueue timestamp", i)
		}
	}

	// Queue should be empty after draining
	req, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Failed to dequeue from empty queue: %v", err)
	}
	if req != nil {
		t.Errorf("Expected nil from empty queue, got %+v", req)
	}
}

func TestIntentQueue_DequeuePreservesPayload(t *testing.T) {
	client, _ := setupTestRedis(t)
	q := NewIntentQueue(client)

	ctx := context.Background()
	gameStateID := uuid.New()

	err := q.Enqueue(ctx, &Request{
		GameStateID: gameStateID,
		Intent: store.Intent{
			Kind:       store.IntentStartDialogue,
			VillagerID: "nomvula",
			NodeID:     "greeting",
		},
	})
	if err != nil {
		t.Fatalf("Failed to enqueue intent: %v", err)
	}

	req, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Failed to dequeue intent: %v", err)
	}
	if req.Intent.VillagerID != "nomvula" || req.Intent.NodeID != "greeting" {
		t.Errorf("Intent payload mismatch: %+v", req.Intent)
	}
}

func TestIntentQueue_BlockingDequeueTimeout(t *testing.T) {
	client, _ := setupTestRedis(t)
	q := NewIntentQueue(client)

	req, err := q.BlockingDequeue(context.Background(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("BlockingDequeue: %v", err)
	}
	if req != nil {
		t.Errorf("Expected nil on timeout, got %+v", req)
	}
}

func TestIntentQueue_Clear(t *testing.T) {
	client, _ := setupTestRedis(t)
	q := NewIntentQueue(client)

	ctx := context.Background()
	gameStateID := uuid.New()

	q.Enqueue(ctx, &Request{GameStateID: gameStateID, Intent: store.Intent{Kind: store.IntentEndDialogue}})
	q.Enqueue(ctx, &Request{GameStateID: gameStateID, Intent: store.Intent{Kind: store.IntentAdvanceTime, Hours: 1}})

	if err := q.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}

	depth, _ := q.Depth(ctx)
	if depth != 0 {
		t.Errorf("Expected empty queue after clear, got depth %d", depth)
	}
}
