package state

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the current persisted gamestate schema version.
// Bump when the serialized shape changes, and register a migration
// in internal/storage for the previous version.
const SchemaVersion = 2

// GameState is the full state of one village game session. It is the
// single source of truth: presentation layers read snapshots and mutate
// only through the named transition methods in this package, applied
// via a store.Store dispatch.
type GameState struct {
	ID      uuid.UUID `json:"id"`
	Version int       `json:"version"`

	Player    Player      `json:"player"`
	Village   Village     `json:"village"`
	Villagers []Villager  `json:"villagers"`
	Time      TimeState   `json:"time"`
	Quests    QuestLog    `json:"quests"`
	Crisis    CrisisState `json:"crisis"`

	// Dialogue and UI are transient session state. They are serialized
	// for API responses but reset when a gamestate is restored from
	// storage.
	Dialogue DialogueState `json:"dialogue,omitempty"`
	UI       UIState       `json:"ui,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NewGameState creates a session with default starting state and an
// empty villager roster. Villagers are seeded separately via
// SetVillagers, so that "new game" and "world data" stay independent.
func NewGameState() *GameState {
	gs := &GameState{
		ID:        uuid.New(),
		Version:   SchemaVersion,
		CreatedAt: time.Now(),
	}
	gs.applyDefaults()
	return gs
}

// applyDefaults sets every subtree except Villagers to its starting value.
func (gs *GameState) applyDefaults() {
	gs.Player = Player{
		Health:           100,
		Stamina:          100,
		KnowledgePoints:  0,
		Influence:        50,
		Position:         Position{X: 400, Y: 300, Scene: "village"},
		Inventory:        []ItemStack{},
		Skills:           []string{},
		MaxInventorySize: 20,
	}
	gs.Village = Village{
		Population:           18,
		Happiness:            75,
		FoodSupply:           100,
		Health:               85,
		Security:             70,
		CulturalPreservation: 80,
	}
	gs.Time = TimeState{
		Day:       1,
		Hour:      6,
		TimeOfDay: TimeOfDayFor(6),
		Season:    SeasonDry,
	}
	gs.Quests = QuestLog{
		Available: []Quest{},
		Active:    []Quest{},
		Completed: []Quest{},
	}
	gs.Crisis = CrisisState{
		Active:       nil,
		History:      []ResolvedCrisis{},
		WarningLevel: 0,
	}
	gs.Dialogue = DialogueState{}
	gs.UI = UIState{Notifications: []Notification{}}
}

// ResetGame restores all defaults for a new game. The villager roster is
// intentionally preserved: it is world data seeded by the presentation
// layer at startup, not per-run progress.
func (gs *GameState) ResetGame() {
	villagers := gs.Villagers
	gs.applyDefaults()
	gs.Villagers = villagers
}

// ClearTransient resets dialogue and UI state. Called when a gamestate
// is restored from storage; transient state does not survive a session.
func (gs *GameState) ClearTransient() {
	gs.Dialogue = DialogueState{}
	gs.UI = UIState{Notifications: []Notification{}}
}

// Clone returns a deep copy of the gamestate. Consumers of store
// snapshots never share slices or pointers with the live state.
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	cp := *gs

	cp.Player.Inventory = slices.Clone(gs.Player.Inventory)
	cp.Player.Skills = slices.Clone(gs.Player.Skills)
	cp.Villagers = slices.Clone(gs.Villagers)

	cp.Quests.Available = cloneQuests(gs.Quests.Available)
	cp.Quests.Active = cloneQuests(gs.Quests.Active)
	cp.Quests.Completed = cloneQuests(gs.Quests.Completed)

	if gs.Crisis.Active != nil {
		active := *gs.Crisis.Active
		cp.Crisis.Active = &active
	}
	cp.Crisis.History = slices.Clone(gs.Crisis.History)

	cp.Dialogue.History = slices.Clone(gs.Dialogue.History)
	cp.UI.Notifications = slices.Clone(gs.UI.Notifications)
	return &cp
}

func cloneQuests(qs []Quest) []Quest {
	out := slices.Clone(qs)
	for i := range out {
		out[i].Objectives = slices.Clone(out[i].Objectives)
		out[i].Rewards.Items = slices.Clone(out[i].Rewards.Items)
	}
	return out
}

// clampGauge bounds a gauge value to [0,100]. Every transition that
// writes a gauge goes through this at the mutation site, so callers
// never need to pre-clamp.
func clampGauge(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
