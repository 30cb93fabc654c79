package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/village-engine/pkg/state"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu         sync.RWMutex
	gamestates map[uuid.UUID]*state.GameState
	villagers  []state.Villager
	items      []state.ItemStack
	quests     []state.Quest
	crises     []state.Crisis
	pingError  error
	saveError  error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		gamestates: make(map[uuid.UUID]*state.GameState),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail on save with the given error
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// SetSeedData configures the seed catalogues returned by the mock
func (m *MockStorage) SetSeedData(villagers []state.Villager, items []state.ItemStack, quests []state.Quest, crises []state.Crisis) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.villagers = villagers
	m.items = items
	m.quests = quests
	m.crises = crises
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	if gs == nil {
		return errors.New("gamestate cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.gamestates[id] = gs.Clone()
	return nil
}

func (m *MockStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gs, ok := m.gamestates[id]
	if !ok {
		return nil, nil // Not found returns nil, matching RedisStorage
	}
	cp := gs.Clone()
	cp.ClearTransient()
	return cp, nil
}

func (m *MockStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.gamestates, id)
	return nil
}

func (m *MockStorage) GetVillagerSeed(ctx context.Context) ([]state.Villager, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.villagers, nil
}

func (m *MockStorage) GetItemCatalog(ctx context.Context) ([]state.ItemStack, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items, nil
}

func (m *MockStorage) GetQuestCatalog(ctx context.Context) ([]state.Quest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.quests, nil
}

func (m *MockStorage) GetCrisisCatalog(ctx context.Context) ([]state.Crisis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.crises, nil
}

// GameStateCount returns the number of stored gamestates (test helper)
func (m *MockStorage) GameStateCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.gamestates)
}
