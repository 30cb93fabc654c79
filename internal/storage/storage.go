package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/village-engine/pkg/state"
)

// Storage is the unified interface for gamestate persistence (Redis)
// and static seed-data loading (filesystem).
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// GameState operations (Redis-backed)
	SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error
	LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error)
	DeleteGameState(ctx context.Context, id uuid.UUID) error

	// Seed data (filesystem-backed, loaded once at session creation)
	GetVillagerSeed(ctx context.Context) ([]state.Villager, error)
	GetItemCatalog(ctx context.Context) ([]state.ItemStack, error)
	GetQuestCatalog(ctx context.Context) ([]state.Quest, error)
	GetCrisisCatalog(ctx context.Context) ([]state.Crisis, error)
}
