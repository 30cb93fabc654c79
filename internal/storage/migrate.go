package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/village-engine/pkg/state"
)

// A migration transforms the serialized shape of version v into the
// shape of version v+1. Migrations work on the decoded JSON tree, not
// on state types, so an old payload never passes through a struct that
// no longer matches it.
type migration func(doc map[string]any) error

// migrations[v] upgrades a version-v payload to v+1. Every schema bump
// ships exactly one entry here.
var migrations = map[int]migration{
	1: migrateV1ItemType,
}

// Migrate upgrades a serialized gamestate to the current schema
// version. The second return is false when the payload is
// incompatible (future or unregistered version) and the caller should
// fall back to defaults.
func Migrate(data []byte, logger *slog.Logger) (json.RawMessage, bool, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("failed to decode gamestate payload: %w", err)
	}

	version := 0
	if v, ok := doc["version"].(float64); ok {
		version = int(v)
	}

	if version == state.SchemaVersion {
		return data, true, nil
	}
	if version > state.SchemaVersion {
		logger.Warn("Gamestate from a future schema version, using defaults",
			"version", version, "current", state.SchemaVersion)
		return nil, false, nil
	}

	for v := version; v < state.SchemaVersion; v++ {
		step, ok := migrations[v]
		if !ok {
			logger.Warn("No migration registered for gamestate version, using defaults",
				"version", v, "current", state.SchemaVersion)
			return nil, false, nil
		}
		if err := step(doc); err != nil {
			return nil, false, fmt.Errorf("migration from version %d failed: %w", v, err)
		}
	}
	doc["version"] = state.SchemaVersion

	migrated, err := json.Marshal(doc)
	if err != nil {
		return nil, false, fmt.Errorf("failed to re-encode migrated gamestate: %w", err)
	}
	return migrated, true, nil
}

// migrateV1ItemType renames the inventory item field "type" to
// "category", the rename made when the item category enum was
// introduced in schema version 2.
func migrateV1ItemType(doc map[string]any) error {
	player, _ := doc["player"].(map[string]any)
	if player != nil {
		renameItemType(player["inventory"])
	}

	quests, _ := doc["quests"].(map[string]any)
	if quests != nil {
		for _, bucket := range []string{"available", "active", "completed"} {
			list, _ := quests[bucket].([]any)
			for _, q := range list {
				quest, _ := q.(map[string]any)
				if quest == nil {
					continue
				}
				rewards, _ := quest["rewards"].(map[string]any)
				if rewards != nil {
					renameItemType(rewards["items"])
				}
			}
		}
	}
	return nil
}

func renameItemType(items any) {
	list, _ := items.([]any)
	for _, entry := range list {
		item, _ := entry.(map[string]any)
		if item == nil {
			continue
		}
		if typ, ok := item["type"]; ok {
			if _, exists := item["category"]; !exists {
				item["category"] = typ
			}
			delete(item, "type")
		}
	}
}
