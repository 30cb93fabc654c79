package store

import (
	"context"
	"testing"
	"time"

	"github.com/jwebster45206/village-engine/pkg/state"
)

func woodItem() *state.ItemStack {
	return &state.ItemStack{ID: "wood", Name: "Wood", Category: state.CategoryResource, Quantity: 1, Stackable: true}
}

func TestBridge_GatherResource(t *testing.T) {
	gs := state.NewGameState()
	s := New(gs, nil, testLogger())
	bridge := NewBridge(s, testLogger())

	err := bridge.Handle(context.Background(), Intent{Kind: IntentGatherResource, Item: woodItem()})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Player.Inventory) != 1 || snap.Player.Inventory[0].ID != "wood" {
		t.Errorf("inventory = %+v, want gathered wood", snap.Player.Inventory)
	}
	// Gathering spends 5 stamina, then the half-hour advance restores
	// 2.5 of it.
	if snap.Player.Stamina != 97.5 {
		t.Errorf("Stamina = %v, want 97.5", snap.Player.Stamina)
	}
	if snap.Time.Hour != 6.5 {
		t.Errorf("Hour = %v, want 6.5", snap.Time.Hour)
	}
}

func TestBridge_GatherResourceTooTired(t *testing.T) {
	gs := state.NewGameState()
	gs.Player.Stamina = 3
	s := New(gs, nil, testLogger())
	bridge := NewBridge(s, testLogger())

	if err := bridge.Handle(context.Background(), Intent{Kind: IntentGatherResource, Item: woodItem()}); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Player.Inventory) != 0 {
		t.Error("item gathered while exhausted")
	}
	if snap.Time.Hour != 6 {
		t.Error("clock advanced on a failed gather")
	}
	if len(snap.UI.Notifications) != 1 || snap.UI.Notifications[0].Type != state.NotificationWarning {
		t.Errorf("notifications = %+v, want one warning", snap.UI.Notifications)
	}
}

func TestBridge_GatherResourceWithoutItem(t *testing.T) {
	s := New(state.NewGameState(), nil, testLogger())
	bridge := NewBridge(s, testLogger())

	if err := bridge.Handle(context.Background(), Intent{Kind: IntentGatherResource}); err == nil {
		t.Fatal("expected error for gather intent without an item")
	}
}

func TestBridge_MoveTo(t *testing.T) {
	s := New(state.NewGameState(), nil, testLogger())
	bridge := NewBridge(s, testLogger())

	x, y := 120.0, 450.0
	if err := bridge.Handle(context.Background(), Intent{Kind: IntentMoveTo, X: &x, Y: &y}); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	pos := s.Snapshot().Player.Position
	if pos.X != 120 || pos.Y != 450 {
		t.Errorf("position = %+v, want (120,450)", pos)
	}
	if pos.Scene != "village" {
		t.Errorf("scene changed by a move without a scene: %q", pos.Scene)
	}
}

func TestBridge_DialogueIntents(t *testing.T) {
	s := New(state.NewGameState(), nil, testLogger())
	bridge := NewBridge(s, testLogger())
	ctx := context.Background()

	if err := bridge.Handle(ctx, Intent{Kind: IntentStartDialogue, VillagerID: "nomvula", NodeID: "greeting"}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !s.Snapshot().Dialogue.IsActive {
		t.Fatal("dialogue not active")
	}

	if err := bridge.Handle(ctx, Intent{Kind: IntentEndDialogue}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if s.Snapshot().Dialogue.IsActive {
		t.Error("dialogue still active")
	}
}

func TestBridge_UnknownKind(t *testing.T) {
	s := New(state.NewGameState(), nil, testLogger())
	bridge := NewBridge(s, testLogger())

	if err := bridge.Handle(context.Background(), Intent{Kind: "teleport"}); err == nil {
		t.Fatal("expected error for unknown intent kind")
	}
}

func TestIntentQueue_DrainsInOrder(t *testing.T) {
	gs := state.NewGameState()
	s := New(gs, nil, testLogger())
	bridge := NewBridge(s, testLogger())
	q := NewIntentQueue(bridge, 16, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	applied := 0
	s.Subscribe(func(snap *state.GameState) {
		applied++
		if applied == 3 {
			close(done)
		}
	})

	go q.Run(ctx)

	// Position updates must land in raised order: the last write wins.
	for _, x := range []float64{10, 20, 30} {
		x := x
		q.Enqueue(Intent{Kind: IntentMoveTo, X: &x})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queue did not drain")
	}

	if got := s.Snapshot().Player.Position.X; got != 30 {
		t.Errorf("X = %v, want 30 (intents applied out of order?)", got)
	}
}
