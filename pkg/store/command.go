package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwebster45206/village-engine/pkg/state"
)

// CommandName identifies one operation in the store's catalogue.
type CommandName string

const (
	CmdUpdatePlayerStats    CommandName = "update_player_stats"
	CmdAddToInventory       CommandName = "add_to_inventory"
	CmdRemoveFromInventory  CommandName = "remove_from_inventory"
	CmdUseItem              CommandName = "use_item"
	CmdUpdatePlayerPosition CommandName = "update_player_position"
	CmdAddSkill             CommandName = "add_skill"

	CmdUpdateVillageMetrics CommandName = "update_village_metrics"
	CmdAdvanceTime          CommandName = "advance_time"

	CmdSetVillagers               CommandName = "set_villagers"
	CmdUpdateVillagerRelationship CommandName = "update_villager_relationship"
	CmdUpdateVillagerStatus       CommandName = "update_villager_status"

	CmdSetAvailableQuests  CommandName = "set_available_quests"
	CmdStartQuest          CommandName = "start_quest"
	CmdUpdateQuestProgress CommandName = "update_quest_progress"
	CmdCompleteQuest       CommandName = "complete_quest"

	CmdTriggerCrisis     CommandName = "trigger_crisis"
	CmdUpdateCrisisPhase CommandName = "update_crisis_phase"
	CmdRaiseWarningLevel CommandName = "raise_warning_level"
	CmdResolveCrisis     CommandName = "resolve_crisis"

	CmdStartDialogue      CommandName = "start_dialogue"
	CmdEndDialogue        CommandName = "end_dialogue"
	CmdAddDialogueHistory CommandName = "add_dialogue_history"
	CmdSetActivePanel     CommandName = "set_active_panel"
	CmdAddNotification    CommandName = "add_notification"
	CmdRemoveNotification CommandName = "remove_notification"

	CmdResetGame CommandName = "reset_game"
)

// Command is one named transition with its JSON-encoded arguments.
// Commands arrive from the API and the intent queue in this shape.
type Command struct {
	Name CommandName     `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// Argument payloads for commands whose arguments are not a state type.

type RemoveFromInventoryArgs struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity,omitempty"`
}

type UseItemArgs struct {
	ItemID string `json:"item_id"`
}

type AddSkillArgs struct {
	Skill string `json:"skill"`
}

type AdvanceTimeArgs struct {
	Hours float64 `json:"hours"`
}

type VillagerRelationshipArgs struct {
	VillagerID string  `json:"villager_id"`
	Delta      float64 `json:"delta"`
}

type VillagerStatusArgs struct {
	VillagerID string `json:"villager_id"`
	Status     string `json:"status"`
}

type QuestProgressArgs struct {
	QuestID  string `json:"quest_id"`
	Progress int    `json:"progress"`
}

type QuestIDArgs struct {
	QuestID string `json:"quest_id"`
}

type CrisisPhaseArgs struct {
	Phase state.CrisisPhase `json:"phase"`
}

type WarningLevelArgs struct {
	Delta int `json:"delta"`
}

type StartDialogueArgs struct {
	VillagerID string `json:"villager_id"`
	NodeID     string `json:"node_id,omitempty"`
}

type ActivePanelArgs struct {
	Panel string `json:"panel"`
}

type AddNotificationArgs struct {
	Message string                 `json:"message"`
	Type    state.NotificationType `json:"type,omitempty"`
}

type RemoveNotificationArgs struct {
	ID uuid.UUID `json:"id"`
}

// Dispatch decodes and applies a named command through the store's
// single apply point. An unknown command name or a malformed argument
// payload is an error before any state is touched; a decoded command
// never fails, per the store's no-throw transition contract (unknown
// ids inside a transition are silent no-ops).
func (s *Store) Dispatch(ctx context.Context, cmd Command) error {
	transition, err := buildTransition(cmd)
	if err != nil {
		return err
	}
	s.apply(ctx, transition)
	return nil
}

// buildTransition decodes the command arguments into a transition
// closure. Decoding happens before apply so a bad payload can never
// partially mutate state.
func buildTransition(cmd Command) (func(*state.GameState), error) {
	switch cmd.Name {
	case CmdUpdatePlayerStats:
		var args state.PlayerStats
		if err := decodeArgs(cmd, &args); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.UpdatePlayerStats(args) }, nil

	case CmdAddToInventory:
		var item state.ItemStack
		if err := decodeArgs(cmd, &item); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.AddToInventory(item) }, nil

	case CmdRemoveFromInventory:
		var args RemoveFromInventoryArgs
		if err := decodeArgs(cmd, &args); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.RemoveFromInventory(args.ItemID, args.Quantity) }, nil

	case CmdUseItem:
		var args UseItemArgs
		if err := decodeArgs(cmd, &args); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.UseItem(args.ItemID) }, nil

	case CmdUpdatePlayerPosition:
		var args state.PositionUpdate
		if err := decodeArgs(cmd, &args); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.UpdatePlayerPosition(args) }, nil

	case CmdAddSkill:
		var args AddSkillArgs
		if err := decodeArgs(cmd, &args); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.AddSkill(args.Skill) }, nil

	case CmdUpdateVillageMetrics:
		var args state.VillageMetrics
		if err := decodeArgs(cmd, &args); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.UpdateVillageMetrics(args) }, nil

	case CmdAdvanceTime:
		var args AdvanceTimeArgs
		if err := decodeArgs(cmd, &args); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.AdvanceTime(args.Hours) }, nil

	case CmdSetVillagers:
		var villagers []state.Villager
		if err := decodeArgs(cmd, &villagers); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.SetVillagers(villagers) }, nil

	case CmdUpdateVillagerRelationship:
		var args VillagerRelationshipArgs
		if err := decodeArgs(cmd, &args); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.UpdateVillagerRelationship(args.VillagerID, args.Delta) }, nil

	case CmdUpdateVillagerStatus:
		var args VillagerStatusArgs
		if err := decodeArgs(cmd, &args); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.UpdateVillagerStatus(args.VillagerID, args.Status) }, nil

	case CmdSetAvailableQuests:
		var quests []state.Quest
		if err := decodeArgs(cmd, &quests); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.SetAvailableQuests(quests) }, nil

	case CmdStartQuest:
		var quest state.Quest
		if err := decodeArgs(cmd, &quest); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.StartQuest(quest) }, nil

	case CmdUpdateQuestProgress:
		var args QuestProgressArgs
		if err := decodeArgs(cmd, &args); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.UpdateQuestProgress(args.QuestID, args.Progress) }, nil

	case CmdCompleteQuest:
		var args QuestIDArgs
		if err := decodeArgs(cmd, &args); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.CompleteQuest(args.QuestID) }, nil

	case CmdTriggerCrisis:
		var crisis state.Crisis
		if err := decodeArgs(cmd, &crisis); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.TriggerCrisis(crisis) }, nil

	case CmdUpdateCrisisPhase:
		var args CrisisPhaseArgs
		if err := decodeArgs(cmd, &args); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.UpdateCrisisPhase(args.Phase) }, nil

	case CmdRaiseWarningLevel:
		var args WarningLevelArgs
		if err := decodeArgs(cmd, &args); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.RaiseWarningLevel(args.Delta) }, nil

	case CmdResolveCrisis:
		var outcome state.CrisisOutcome
		if err := decodeArgs(cmd, &outcome); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.ResolveCrisis(outcome) }, nil

	case CmdStartDialogue:
		var args StartDialogueArgs
		if err := decodeArgs(cmd, &args); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.StartDialogue(args.VillagerID, args.NodeID) }, nil

	case CmdEndDialogue:
		return func(gs *state.GameState) { gs.EndDialogue() }, nil

	case CmdAddDialogueHistory:
		var entry state.DialogueEntry
		if err := decodeArgs(cmd, &entry); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.AddDialogueHistory(entry) }, nil

	case CmdSetActivePanel:
		var args ActivePanelArgs
		if err := decodeArgs(cmd, &args); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.SetActivePanel(args.Panel) }, nil

	case CmdAddNotification:
		var args AddNotificationArgs
		if err := decodeArgs(cmd, &args); err != nil {
			return nil, err
		}
		if args.Type == "" {
			args.Type = state.NotificationInfo
		}
		return func(gs *state.GameState) { gs.AddNotification(args.Message, args.Type) }, nil

	case CmdRemoveNotification:
		var args RemoveNotificationArgs
		if err := decodeArgs(cmd, &args); err != nil {
			return nil, err
		}
		return func(gs *state.GameState) { gs.RemoveNotification(args.ID) }, nil

	case CmdResetGame:
		return func(gs *state.GameState) { gs.ResetGame() }, nil

	default:
		return nil, fmt.Errorf("unknown command: %q", cmd.Name)
	}
}

func decodeArgs(cmd Command, dst any) error {
	if len(cmd.Args) == 0 {
		return fmt.Errorf("command %q requires arguments", cmd.Name)
	}
	if err := json.Unmarshal(cmd.Args, dst); err != nil {
		return fmt.Errorf("invalid arguments for command %q: %w", cmd.Name, err)
	}
	return nil
}
