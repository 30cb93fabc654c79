package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/village-engine/pkg/state"
)

// IntentKind names one discrete event the scene/simulation layer can
// raise. The scene never mutates the store directly: it enqueues
// intents, and a single dispatch loop drains them in order and applies
// the matching store commands. The channel is strictly one-way.
type IntentKind string

const (
	IntentStartDialogue       IntentKind = "start_dialogue"
	IntentEndDialogue         IntentKind = "end_dialogue"
	IntentGatherResource      IntentKind = "gather_resource"
	IntentMoveTo              IntentKind = "move_to"
	IntentBuildingInteraction IntentKind = "building_interaction"
	IntentNotify              IntentKind = "notify"
	IntentAdvanceTime         IntentKind = "advance_time"
	IntentUseItem             IntentKind = "use_item"
)

// Stamina economy for gathering, mirroring the village scene rules.
const (
	gatherStaminaCost = 5
	gatherHours       = 0.5
)

// Intent is one scene event. Only the fields relevant to its kind are
// set.
type Intent struct {
	Kind IntentKind `json:"kind"`

	VillagerID string `json:"villager_id,omitempty"`
	NodeID     string `json:"node_id,omitempty"`

	Item *state.ItemStack `json:"item,omitempty"`

	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
	Scene string   `json:"scene,omitempty"`

	Building string `json:"building,omitempty"`

	Message string                 `json:"message,omitempty"`
	Type    state.NotificationType `json:"type,omitempty"`

	Hours float64 `json:"hours,omitempty"`

	ItemID string `json:"item_id,omitempty"`
}

// Bridge translates scene intents into store transitions. It is the
// only consumer of the intent queue.
type Bridge struct {
	store  *Store
	logger *slog.Logger
}

func NewBridge(s *Store, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{store: s, logger: logger}
}

// Handle applies one intent. Composite intents (gathering) run as a
// single transition so observers never see the stamina spent without
// the item gathered.
func (b *Bridge) Handle(ctx context.Context, intent Intent) error {
	switch intent.Kind {
	case IntentStartDialogue:
		b.store.apply(ctx, func(gs *state.GameState) {
			gs.StartDialogue(intent.VillagerID, intent.NodeID)
		})
		return nil

	case IntentEndDialogue:
		b.store.apply(ctx, func(gs *state.GameState) {
			gs.EndDialogue()
		})
		return nil

	case IntentGatherResource:
		if intent.Item == nil {
			return fmt.Errorf("gather_resource intent without an item")
		}
		b.store.apply(ctx, func(gs *state.GameState) {
			if gs.Player.Stamina < gatherStaminaCost {
				gs.AddNotification("Too tired to gather resources!", state.NotificationWarning)
				return
			}
			stamina := gs.Player.Stamina - gatherStaminaCost
			gs.UpdatePlayerStats(state.PlayerStats{Stamina: &stamina})
			gs.AddToInventory(*intent.Item)
			gs.AdvanceTime(gatherHours)
		})
		return nil

	case IntentMoveTo:
		b.store.apply(ctx, func(gs *state.GameState) {
			update := state.PositionUpdate{X: intent.X, Y: intent.Y}
			if intent.Scene != "" {
				update.Scene = &intent.Scene
			}
			gs.UpdatePlayerPosition(update)
		})
		return nil

	case IntentBuildingInteraction:
		// Buildings have no store effect yet; the event is logged so
		// a future interior scene can pick it up.
		b.logger.Debug("Building interaction", "building", intent.Building)
		return nil

	case IntentNotify:
		typ := intent.Type
		if typ == "" {
			typ = state.NotificationInfo
		}
		b.store.apply(ctx, func(gs *state.GameState) {
			gs.AddNotification(intent.Message, typ)
		})
		return nil

	case IntentAdvanceTime:
		b.store.apply(ctx, func(gs *state.GameState) {
			gs.AdvanceTime(intent.Hours)
		})
		return nil

	case IntentUseItem:
		b.store.apply(ctx, func(gs *state.GameState) {
			gs.UseItem(intent.ItemID)
		})
		return nil

	default:
		return fmt.Errorf("unknown intent kind: %q", intent.Kind)
	}
}

// IntentQueue is the in-process scene-to-store channel: a FIFO drained
// by a single goroutine, preserving the order intents were raised.
// The Redis-backed equivalent for the api/worker split lives in
// internal/queue.
type IntentQueue struct {
	bridge *Bridge
	logger *slog.Logger
	ch     chan Intent
}

func NewIntentQueue(bridge *Bridge, size int, logger *slog.Logger) *IntentQueue {
	if size <= 0 {
		size = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IntentQueue{
		bridge: bridge,
		logger: logger,
		ch:     make(chan Intent, size),
	}
}

// Enqueue adds an intent. It blocks when the queue is full, which
// back-pressures a scene loop that raises events faster than they can
// be applied.
func (q *IntentQueue) Enqueue(intent Intent) {
	q.ch <- intent
}

// Run drains the queue until the context is cancelled. Intents are
// applied strictly in order on this single goroutine; a bad intent is
// logged and skipped.
func (q *IntentQueue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case intent := <-q.ch:
			if err := q.bridge.Handle(ctx, intent); err != nil {
				q.logger.Warn("Dropping intent", "kind", intent.Kind, "error", err)
			}
		}
	}
}
