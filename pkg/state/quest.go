package state

import "fmt"

// Objective is one step of a quest, with progress toward a target.
type Objective struct {
	Description string `json:"description"`
	Current     int    `json:"current"`
	Target      int    `json:"target"`
}

// QuestRewards are granted on completion. Delivery is best-effort:
// items that do not fit in the inventory are dropped silently.
type QuestRewards struct {
	KnowledgePoints int         `json:"knowledge_points,omitempty"`
	Influence       float64     `json:"influence,omitempty"`
	Items           []ItemStack `json:"items,omitempty"`
}

// Quest moves through the lifecycle available -> active -> completed.
// A quest id appears in at most one bucket of the QuestLog at a time.
type Quest struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Type         string       `json:"type,omitempty"`
	Giver        string       `json:"giver,omitempty"`
	Objectives   []Objective  `json:"objectives,omitempty"`
	Rewards      QuestRewards `json:"rewards,omitempty"`
	Progress     int          `json:"progress"`
	StartDay     int          `json:"start_day,omitempty"`
	CompletedDay int          `json:"completed_day,omitempty"`
}

// QuestLog holds the three quest lifecycle buckets.
type QuestLog struct {
	Available []Quest `json:"available"`
	Active    []Quest `json:"active"`
	Completed []Quest `json:"completed"`
}

// SetAvailableQuests replaces the available quest list, typically with
// the seed catalogue at startup.
func (gs *GameState) SetAvailableQuests(quests []Quest) {
	gs.Quests.Available = quests
}

// StartQuest moves a quest into the active list with zero progress and
// the current day stamped. Starting an id that is already active is a
// no-op, so a quest can never be active twice.
func (gs *GameState) StartQuest(quest Quest) {
	for _, q := range gs.Quests.Active {
		if q.ID == quest.ID {
			return
		}
	}

	quest.Progress = 0
	quest.StartDay = gs.Time.Day
	gs.Quests.Active = append(gs.Quests.Active, quest)

	available := gs.Quests.Available[:0]
	for _, q := range gs.Quests.Available {
		if q.ID != quest.ID {
			available = append(available, q)
		}
	}
	gs.Quests.Available = available
}

// UpdateQuestProgress overwrites the progress of an active quest.
// Reaching the target does not auto-complete; completion is an
// explicit step. Unknown ids are a no-op.
func (gs *GameState) UpdateQuestProgress(questID string, progress int) {
	for i := range gs.Quests.Active {
		if gs.Quests.Active[i].ID == questID {
			gs.Quests.Active[i].Progress = progress
			return
		}
	}
}

// CompleteQuest finishes an active quest: rewards are applied
// best-effort through the player-stats and inventory paths, a success
// notification is emitted, and the quest moves to the completed list
// with the day stamped. Ids not in the active list are a no-op, which
// also makes a repeated completion call idempotent.
func (gs *GameState) CompleteQuest(questID string) {
	idx := -1
	for i := range gs.Quests.Active {
		if gs.Quests.Active[i].ID == questID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	quest := gs.Quests.Active[idx]

	if quest.Rewards.KnowledgePoints != 0 {
		kp := gs.Player.KnowledgePoints + quest.Rewards.KnowledgePoints
		gs.UpdatePlayerStats(PlayerStats{KnowledgePoints: &kp})
	}
	if quest.Rewards.Influence != 0 {
		influence := gs.Player.Influence + quest.Rewards.Influence
		gs.UpdatePlayerStats(PlayerStats{Influence: &influence})
	}
	for _, item := range quest.Rewards.Items {
		gs.AddToInventory(item)
	}

	gs.AddNotification(fmt.Sprintf("Quest completed: %s", quest.Title), NotificationSuccess)

	gs.Quests.Active = append(gs.Quests.Active[:idx], gs.Quests.Active[idx+1:]...)
	quest.CompletedDay = gs.Time.Day
	gs.Quests.Completed = append(gs.Quests.Completed, quest)
}
