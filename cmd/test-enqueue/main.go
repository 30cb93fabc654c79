package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/jwebster45206/village-engine/internal/queue"
	"github.com/jwebster45206/village-engine/pkg/state"
	"github.com/jwebster45206/village-engine/pkg/store"
)

// Manual testing helper: pushes a couple of intents onto the queue so a
// running worker has something to chew on.
func main() {
	redisURL := flag.String("redis", "localhost:6379", "Redis address")
	session := flag.String("session", "", "Game state id (defaults to a fixed test id)")
	flag.Parse()

	gameStateID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	if *session != "" {
		parsed, err := uuid.Parse(*session)
		if err != nil {
			log.Fatal("Invalid session id:", err)
		}
		gameStateID = parsed
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	client, err := queue.NewClient(*redisURL, logger)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer client.Close()

	fmt.Println("Connected to Redis successfully!")

	ctx := context.Background()
	intentQueue := queue.NewIntentQueue(client)

	// A gather: costs stamina, adds wood, moves the clock half an hour.
	gatherReq := &queue.Request{
		GameStateID: gameStateID,
		Intent: store.Intent{
			Kind: store.IntentGatherResource,
			Item: &state.ItemStack{
				ID:        "wood",
				Name:      "Wood",
				Category:  state.CategoryResource,
				Quantity:  1,
				Stackable: true,
			},
		},
	}
	if err := intentQueue.Enqueue(ctx, gatherReq); err != nil {
		log.Fatal("Failed to enqueue request:", err)
	}
	fmt.Printf("✅ Enqueued gather intent: %s\n", gatherReq.RequestID)

	// And an evening's rest.
	restReq := &queue.Request{
		GameStateID: gameStateID,
		Intent: store.Intent{
			Kind:  store.IntentAdvanceTime,
			Hours: 8,
		},
	}
	if err := intentQueue.Enqueue(ctx, restReq); err != nil {
		log.Fatal("Failed to enqueue request:", err)
	}
	fmt.Printf("✅ Enqueued advance_time intent: %s\n", restReq.RequestID)

	depth, err := intentQueue.Depth(ctx)
	if err != nil {
		log.Fatal("Failed to get queue depth:", err)
	}

	fmt.Printf("\n📊 Queue depth: %d requests\n", depth)
	fmt.Println("\n💡 Now start the worker to see it process these requests!")
	fmt.Println("   Run: go run cmd/worker/main.go")
}
