package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/village-engine/pkg/state"
)

func gamestateKey(id uuid.UUID) string {
	return "gamestate:" + id.String()
}

// SaveGameState persists a full gamestate snapshot. Saves carry the
// current schema version so older payloads can be migrated on load.
func (r *RedisStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	gs.Version = state.SchemaVersion
	gs.UpdatedAt = time.Now()

	data, err := json.Marshal(gs)
	if err != nil {
		r.logger.Error("Failed to marshal gamestate", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal gamestate: %w", err)
	}

	if err := r.client.Set(ctx, gamestateKey(id), string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to save gamestate", "uuid", id, "error", err)
		return fmt.Errorf("failed to save gamestate: %w", err)
	}

	return nil
}

// LoadGameState restores a gamestate by session id. Returns nil for a
// missing session. Payloads from older schema versions run through the
// migration chain; unknown or future versions return nil so the caller
// falls back to a fresh default state instead of a partial decode.
// Transient dialogue/UI state never survives a restore.
func (r *RedisStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	data, err := r.client.Get(ctx, gamestateKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			r.logger.Warn("Gamestate not found", "uuid", id)
			return nil, nil
		}
		r.logger.Error("Failed to load gamestate", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load gamestate: %w", err)
	}

	migrated, ok, err := Migrate([]byte(data), r.logger)
	if err != nil {
		r.logger.Error("Failed to migrate gamestate", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to migrate gamestate: %w", err)
	}
	if !ok {
		// Incompatible payload: treat as not found so a default state
		// is used instead.
		return nil, nil
	}

	var gs state.GameState
	if err := json.Unmarshal(migrated, &gs); err != nil {
		r.logger.Error("Failed to unmarshal gamestate", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal gamestate: %w", err)
	}

	gs.ClearTransient()
	return &gs, nil
}

func (r *RedisStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, gamestateKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete gamestate", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete gamestate: %w", err)
	}
	return nil
}
