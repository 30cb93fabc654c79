package state

// Villager is one member of the village roster. Villagers are created
// once from seed data at startup and never destroyed, only mutated.
type Villager struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	Relationship float64 `json:"relationship"`
	Status       string  `json:"status,omitempty"`
}

// SetVillagers replaces the whole roster. Used once at startup with
// static seed data; it never merges.
func (gs *GameState) SetVillagers(villagers []Villager) {
	gs.Villagers = villagers
}

// UpdateVillagerRelationship adjusts a villager's relationship by
// delta, clamped to [0,100]. Unknown ids are a no-op.
func (gs *GameState) UpdateVillagerRelationship(villagerID string, delta float64) {
	for i := range gs.Villagers {
		if gs.Villagers[i].ID == villagerID {
			gs.Villagers[i].Relationship = clampGauge(gs.Villagers[i].Relationship + delta)
			return
		}
	}
}

// UpdateVillagerStatus overwrites a villager's status tag. Unknown ids
// are a no-op.
func (gs *GameState) UpdateVillagerStatus(villagerID, status string) {
	for i := range gs.Villagers {
		if gs.Villagers[i].ID == villagerID {
			gs.Villagers[i].Status = status
			return
		}
	}
}

// Villager returns the roster entry for id, or nil if unknown.
func (gs *GameState) Villager(id string) *Villager {
	for i := range gs.Villagers {
		if gs.Villagers[i].ID == id {
			return &gs.Villagers[i]
		}
	}
	return nil
}
