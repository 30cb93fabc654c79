package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/jwebster45206/village-engine/pkg/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// recordingSaver captures every persisted snapshot.
type recordingSaver struct {
	mu    sync.Mutex
	saved []*state.GameState
	err   error
}

func (r *recordingSaver) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, gs)
	return nil
}

func mustArgs(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal args: %v", err)
	}
	return data
}

func TestStore_SnapshotIsolation(t *testing.T) {
	gs := state.NewGameState()
	s := New(gs, nil, testLogger())

	snap := s.Snapshot()
	snap.Player.Health = 1

	if s.Snapshot().Player.Health != 100 {
		t.Error("mutating a snapshot changed the live state")
	}
}

func TestStore_DispatchPersistsAndNotifies(t *testing.T) {
	gs := state.NewGameState()
	saver := &recordingSaver{}
	s := New(gs, saver, testLogger())

	var seen []*state.GameState
	unsubscribe := s.Subscribe(func(snap *state.GameState) {
		seen = append(seen, snap)
	})

	err := s.Dispatch(context.Background(), Command{
		Name: CmdAdvanceTime,
		Args: mustArgs(t, AdvanceTimeArgs{Hours: 2}),
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if len(saver.saved) != 1 {
		t.Fatalf("saves = %d, want 1", len(saver.saved))
	}
	if saver.saved[0].Time.Hour != 8 {
		t.Errorf("persisted Hour = %v, want 8", saver.saved[0].Time.Hour)
	}
	if len(seen) != 1 {
		t.Fatalf("subscriber calls = %d, want 1", len(seen))
	}
	if seen[0].Time.Hour != 8 {
		t.Errorf("subscriber Hour = %v, want 8", seen[0].Time.Hour)
	}

	unsubscribe()
	if err := s.Dispatch(context.Background(), Command{Name: CmdEndDialogue}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(seen) != 1 {
		t.Error("subscriber called after unsubscribe")
	}
}

func TestStore_SaveFailureDoesNotPropagate(t *testing.T) {
	gs := state.NewGameState()
	saver := &recordingSaver{err: errors.New("redis is down")}
	s := New(gs, saver, testLogger())

	err := s.Dispatch(context.Background(), Command{
		Name: CmdAdvanceTime,
		Args: mustArgs(t, AdvanceTimeArgs{Hours: 1}),
	})
	if err != nil {
		t.Fatalf("Dispatch returned persistence error: %v", err)
	}
	if s.Snapshot().Time.Hour != 7 {
		t.Error("transition rolled back on save failure")
	}
}

func TestStore_DispatchUnknownCommand(t *testing.T) {
	s := New(state.NewGameState(), nil, testLogger())

	err := s.Dispatch(context.Background(), Command{Name: "cast_fireball"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestStore_DispatchMalformedArgs(t *testing.T) {
	gs := state.NewGameState()
	saver := &recordingSaver{}
	s := New(gs, saver, testLogger())

	err := s.Dispatch(context.Background(), Command{
		Name: CmdAdvanceTime,
		Args: json.RawMessage(`{"hours": "not a number"}`),
	})
	if err == nil {
		t.Fatal("expected error for malformed args")
	}
	if len(saver.saved) != 0 {
		t.Error("malformed command reached the apply point")
	}
}

func TestStore_CompositeTransitionIsAtomic(t *testing.T) {
	gs := state.NewGameState()
	gs.StartQuest(state.Quest{
		ID:    "gather_herbs",
		Title: "Gather Healing Herbs",
		Rewards: state.QuestRewards{
			KnowledgePoints: 10,
			Items:           []state.ItemStack{{ID: "bread", Name: "Bread", Category: state.CategoryFood, Quantity: 1, Stackable: true}},
		},
	})
	s := New(gs, nil, testLogger())

	// A subscriber observing a quest completion must see every nested
	// effect already applied: rewards, notification, and the move to
	// the completed bucket.
	calls := 0
	s.Subscribe(func(snap *state.GameState) {
		calls++
		if snap.Player.KnowledgePoints != 10 {
			t.Errorf("subscriber saw partial rewards: kp = %d", snap.Player.KnowledgePoints)
		}
		if len(snap.Quests.Active) != 0 || len(snap.Quests.Completed) != 1 {
			t.Errorf("subscriber saw partial quest move: %+v", snap.Quests)
		}
		if len(snap.Player.Inventory) != 1 {
			t.Errorf("subscriber saw missing reward item")
		}
	})

	err := s.Dispatch(context.Background(), Command{
		Name: CmdCompleteQuest,
		Args: mustArgs(t, QuestIDArgs{QuestID: "gather_herbs"}),
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if calls != 1 {
		t.Errorf("subscriber calls = %d, want 1 (one transition)", calls)
	}
}

func TestStore_DispatchCommandCatalogue(t *testing.T) {
	// One smoke dispatch per player/village command that carries args,
	// pinning down the wire names.
	health := 55.0
	tests := []struct {
		name  CommandName
		args  any
		check func(t *testing.T, gs *state.GameState)
	}{
		{
			name: CmdUpdatePlayerStats,
			args: state.PlayerStats{Health: &health},
			check: func(t *testing.T, gs *state.GameState) {
				if gs.Player.Health != 55 {
					t.Errorf("Health = %v, want 55", gs.Player.Health)
				}
			},
		},
		{
			name: CmdAddToInventory,
			args: state.ItemStack{ID: "wood", Name: "Wood", Category: state.CategoryResource, Quantity: 2, Stackable: true},
			check: func(t *testing.T, gs *state.GameState) {
				if len(gs.Player.Inventory) != 1 || gs.Player.Inventory[0].Quantity != 2 {
					t.Errorf("inventory = %+v", gs.Player.Inventory)
				}
			},
		},
		{
			name: CmdSetVillagers,
			args: []state.Villager{{ID: "zola", Name: "Zola", Role: "Elder", Relationship: 80}},
			check: func(t *testing.T, gs *state.GameState) {
				if len(gs.Villagers) != 1 || gs.Villagers[0].ID != "zola" {
					t.Errorf("villagers = %+v", gs.Villagers)
				}
			},
		},
		{
			name: CmdTriggerCrisis,
			args: state.Crisis{ID: "storm", Title: "Storm"},
			check: func(t *testing.T, gs *state.GameState) {
				if gs.Crisis.Active == nil || gs.Crisis.Active.ID != "storm" {
					t.Errorf("crisis = %+v", gs.Crisis)
				}
			},
		},
		{
			name: CmdStartDialogue,
			args: StartDialogueArgs{VillagerID: "zola", NodeID: "greeting"},
			check: func(t *testing.T, gs *state.GameState) {
				if !gs.Dialogue.IsActive || gs.Dialogue.VillagerID != "zola" {
					t.Errorf("dialogue = %+v", gs.Dialogue)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			s := New(state.NewGameState(), nil, testLogger())
			err := s.Dispatch(context.Background(), Command{Name: tt.name, Args: mustArgs(t, tt.args)})
			if err != nil {
				t.Fatalf("Dispatch: %v", err)
			}
			tt.check(t, s.Snapshot())
		})
	}
}
