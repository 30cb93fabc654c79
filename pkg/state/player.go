package state

// ItemCategory groups inventory items for display and filtering.
type ItemCategory string

const (
	CategoryFood     ItemCategory = "food"
	CategoryMedical  ItemCategory = "medical"
	CategoryMaterial ItemCategory = "material"
	CategoryTool     ItemCategory = "tool"
	CategoryResource ItemCategory = "resource"
)

// ItemEffects are the stat deltas applied when an item is used.
type ItemEffects struct {
	Health  float64 `json:"health,omitempty"`
	Stamina float64 `json:"stamina,omitempty"`
}

// ItemStack is one inventory entry: an item id and its quantity.
// A stackable item has at most one stack per id in the inventory.
type ItemStack struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Category  ItemCategory `json:"category"`
	Quantity  int          `json:"quantity"`
	Stackable bool         `json:"stackable"`
	Effects   *ItemEffects `json:"effects,omitempty"`
}

// Position is the player's location within a scene.
type Position struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scene string  `json:"scene"`
}

// Player holds all player-owned state. Health, Stamina and Influence
// are gauges clamped to [0,100] by every transition that writes them.
type Player struct {
	Health           float64     `json:"health"`
	Stamina          float64     `json:"stamina"`
	KnowledgePoints  int         `json:"knowledge_points"`
	Influence        float64     `json:"influence"`
	Position         Position    `json:"position"`
	Inventory        []ItemStack `json:"inventory"`
	Skills           []string    `json:"skills"`
	MaxInventorySize int         `json:"max_inventory_size"`
}

// PlayerStats is a partial update to player stats. Nil fields are
// left unchanged.
type PlayerStats struct {
	Health          *float64 `json:"health,omitempty"`
	Stamina         *float64 `json:"stamina,omitempty"`
	KnowledgePoints *int     `json:"knowledge_points,omitempty"`
	Influence       *float64 `json:"influence,omitempty"`
}

// PositionUpdate is a partial update to the player position.
type PositionUpdate struct {
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
	Scene *string  `json:"scene,omitempty"`
}

// UpdatePlayerStats merges the provided fields into the player. Gauges
// are clamped to [0,100] and knowledge points floored at zero here, at
// the mutation boundary, regardless of caller.
func (gs *GameState) UpdatePlayerStats(stats PlayerStats) {
	p := &gs.Player
	if stats.Health != nil {
		p.Health = clampGauge(*stats.Health)
	}
	if stats.Stamina != nil {
		p.Stamina = clampGauge(*stats.Stamina)
	}
	if stats.Influence != nil {
		p.Influence = clampGauge(*stats.Influence)
	}
	if stats.KnowledgePoints != nil {
		kp := *stats.KnowledgePoints
		if kp < 0 {
			kp = 0
		}
		p.KnowledgePoints = kp
	}
}

// AddToInventory adds an item to the player inventory. When the
// inventory is at capacity the add is dropped and a single warning
// notification is emitted. An incoming quantity of zero defaults to 1.
// Stackable items merge into their existing stack; anything else
// appends a new entry in insertion order.
func (gs *GameState) AddToInventory(item ItemStack) {
	// Capacity is checked before stacking: a full pack rejects every
	// add, matching the gathering flow where the player must make room
	// before picking anything else up.
	if len(gs.Player.Inventory) >= gs.Player.MaxInventorySize {
		gs.AddNotification("Inventory is full!", NotificationWarning)
		return
	}

	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	if item.Stackable {
		for i := range gs.Player.Inventory {
			existing := &gs.Player.Inventory[i]
			if existing.ID == item.ID && existing.Stackable {
				existing.Quantity += item.Quantity
				return
			}
		}
	}

	gs.Player.Inventory = append(gs.Player.Inventory, item)
}

// RemoveFromInventory decrements the matching stack by quantity,
// removing the entry once its quantity reaches zero. Unknown ids are a
// no-op.
func (gs *GameState) RemoveFromInventory(itemID string, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}
	for i := range gs.Player.Inventory {
		if gs.Player.Inventory[i].ID != itemID {
			continue
		}
		gs.Player.Inventory[i].Quantity -= quantity
		if gs.Player.Inventory[i].Quantity <= 0 {
			gs.Player.Inventory = append(gs.Player.Inventory[:i], gs.Player.Inventory[i+1:]...)
		}
		return
	}
}

// UseItem consumes one of the named item, applying its effects to the
// player. Unknown ids are a no-op.
func (gs *GameState) UseItem(itemID string) {
	var item *ItemStack
	for i := range gs.Player.Inventory {
		if gs.Player.Inventory[i].ID == itemID {
			item = &gs.Player.Inventory[i]
			break
		}
	}
	if item == nil {
		return
	}

	if item.Effects != nil {
		if item.Effects.Health != 0 {
			h := gs.Player.Health + item.Effects.Health
			gs.UpdatePlayerStats(PlayerStats{Health: &h})
		}
		if item.Effects.Stamina != 0 {
			s := gs.Player.Stamina + item.Effects.Stamina
			gs.UpdatePlayerStats(PlayerStats{Stamina: &s})
		}
	}

	gs.RemoveFromInventory(itemID, 1)
}

// UpdatePlayerPosition merges the provided fields into the player
// position. World bounds are a scene/collision concern and are not
// validated here.
func (gs *GameState) UpdatePlayerPosition(pos PositionUpdate) {
	if pos.X != nil {
		gs.Player.Position.X = *pos.X
	}
	if pos.Y != nil {
		gs.Player.Position.Y = *pos.Y
	}
	if pos.Scene != nil {
		gs.Player.Position.Scene = *pos.Scene
	}
}

// AddSkill appends a skill identifier to the player's skill set.
// Already-known skills are a no-op.
func (gs *GameState) AddSkill(skill string) {
	for _, s := range gs.Player.Skills {
		if s == skill {
			return
		}
	}
	gs.Player.Skills = append(gs.Player.Skills, skill)
}
