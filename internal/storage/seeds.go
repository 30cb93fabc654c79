package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jwebster45206/village-engine/pkg/state"
)

// Seed data operations (filesystem-backed). Each catalogue is a single
// JSON file under the data dir, loaded when a session is created or a
// client asks for the catalogue.

func (r *RedisStorage) GetVillagerSeed(ctx context.Context) ([]state.Villager, error) {
	var villagers []state.Villager
	if err := r.readSeedFile("villagers.json", &villagers); err != nil {
		return nil, err
	}
	return villagers, nil
}

func (r *RedisStorage) GetItemCatalog(ctx context.Context) ([]state.ItemStack, error) {
	var items []state.ItemStack
	if err := r.readSeedFile("items.json", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *RedisStorage) GetQuestCatalog(ctx context.Context) ([]state.Quest, error) {
	var quests []state.Quest
	if err := r.readSeedFile("quests.json", &quests); err != nil {
		return nil, err
	}
	return quests, nil
}

func (r *RedisStorage) GetCrisisCatalog(ctx context.Context) ([]state.Crisis, error) {
	var crises []state.Crisis
	if err := r.readSeedFile("crises.json", &crises); err != nil {
		return nil, err
	}
	return crises, nil
}

func (r *RedisStorage) readSeedFile(name string, dst any) error {
	path := filepath.Join(r.dataDir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("seed file not found: %s", name)
		}
		return fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return nil
}
