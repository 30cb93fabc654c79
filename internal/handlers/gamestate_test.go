package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/jwebster45206/village-engine/internal/storage"
	"github.com/jwebster45206/village-engine/pkg/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func seededMockStorage() *storage.MockStorage {
	mock := storage.NewMockStorage()
	mock.SetSeedData(
		[]state.Villager{
			{ID: "nomvula", Name: "Nomvula", Role: "Healer", Relationship: 50},
			{ID: "sipho", Name: "Sipho", Role: "Fisherman", Relationship: 40},
		},
		[]state.ItemStack{
			{ID: "herbs", Name: "Healing Herbs", Category: state.CategoryMedical, Stackable: true},
		},
		[]state.Quest{
			{ID: "gather_herbs", Title: "Gather Healing Herbs", Giver: "nomvula"},
		},
		[]state.Crisis{
			{ID: "drought", Title: "Drought"},
		},
	)
	return mock
}

func TestGameStateHandler_Create(t *testing.T) {
	mock := seededMockStorage()
	handler := NewGameStateHandler(testLogger(), mock)

	req := httptest.NewRequest(http.MethodPost, "/v1/gamestate", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Response body: %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", rr.Header().Get("Content-Type"))
	}

	var response state.GameState
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.ID == uuid.Nil {
		t.Error("Expected non-nil game state ID")
	}
	if len(response.Villagers) != 2 {
		t.Errorf("Expected seeded villagers, got %+v", response.Villagers)
	}
	if len(response.Quests.Available) != 1 {
		t.Errorf("Expected seeded available quests, got %+v", response.Quests)
	}
	if response.Player.Health != 100 {
		t.Errorf("Expected default player health 100, got %v", response.Player.Health)
	}

	// Verify the gamestate was saved
	saved, err := mock.LoadGameState(context.Background(), response.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve saved game state: %v", err)
	}
	if saved == nil {
		t.Fatal("Expected saved game state to exist in storage")
	}
}

func TestGameStateHandler_Read(t *testing.T) {
	mock := seededMockStorage()
	handler := NewGameStateHandler(testLogger(), mock)

	gs := state.NewGameState()
	if err := mock.SaveGameState(context.Background(), gs.ID, gs); err != nil {
		t.Fatalf("seed gamestate: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/gamestate/"+gs.ID.String(), nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Response body: %s", rr.Code, rr.Body.String())
	}

	var response state.GameState
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.ID != gs.ID {
		t.Errorf("Expected ID %s, got %s", gs.ID, response.ID)
	}
}

func TestGameStateHandler_Read_NotFound(t *testing.T) {
	handler := NewGameStateHandler(testLogger(), seededMockStorage())

	req := httptest.NewRequest(http.MethodGet, "/v1/gamestate/"+uuid.New().String(), nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestGameStateHandler_InvalidID(t *testing.T) {
	handler := NewGameStateHandler(testLogger(), seededMockStorage())

	req := httptest.NewRequest(http.MethodGet, "/v1/gamestate/not-a-uuid", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

func TestGameStateHandler_Reset(t *testing.T) {
	mock := seededMockStorage()
	handler := NewGameStateHandler(testLogger(), mock)

	gs := state.NewGameState()
	gs.SetVillagers([]state.Villager{{ID: "nomvula", Name: "Nomvula", Relationship: 50}})
	gs.UpdateVillagerRelationship("nomvula", 80)
	gs.AdvanceTime(48)
	if err := mock.SaveGameState(context.Background(), gs.ID, gs); err != nil {
		t.Fatalf("seed gamestate: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/gamestate/"+gs.ID.String()+"/reset", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Response body: %s", rr.Code, rr.Body.String())
	}

	var response state.GameState
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Time.Day != 1 {
		t.Errorf("Expected day reset to 1, got %d", response.Time.Day)
	}
	// Roster and earned relationships survive a reset.
	if len(response.Villagers) != 1 || response.Villagers[0].Relationship != 80 {
		t.Errorf("Expected roster to survive reset, got %+v", response.Villagers)
	}
}

func TestGameStateHandler_Delete(t *testing.T) {
	mock := seededMockStorage()
	handler := NewGameStateHandler(testLogger(), mock)

	gs := state.NewGameState()
	if err := mock.SaveGameState(context.Background(), gs.ID, gs); err != nil {
		t.Fatalf("seed gamestate: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/gamestate/"+gs.ID.String(), nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rr.Code)
	}
	if mock.GameStateCount() != 0 {
		t.Error("Expected gamestate to be deleted from storage")
	}
}

func TestGameStateHandler_MethodNotAllowed(t *testing.T) {
	handler := NewGameStateHandler(testLogger(), seededMockStorage())

	req := httptest.NewRequest(http.MethodPut, "/v1/gamestate/"+uuid.New().String(), nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rr.Code)
	}
}
