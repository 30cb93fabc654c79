package state

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType is the severity of a HUD notification.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationDanger  NotificationType = "danger"
)

// DisplayDuration is how long a notification stays on screen before
// the presentation layer removes it.
const DisplayDuration = 5 * time.Second

// Notification is one transient HUD message.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
}

// DialogueEntry is one line of an in-progress conversation.
type DialogueEntry struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// DialogueState is the transient state of a conversation with a
// villager. It does not survive a session.
type DialogueState struct {
	IsActive   bool            `json:"is_active"`
	VillagerID string          `json:"villager_id,omitempty"`
	NodeID     string          `json:"node_id,omitempty"`
	History    []DialogueEntry `json:"history,omitempty"`
}

// UIState is transient presentation state tracked in the store so all
// clients of a session agree on it.
type UIState struct {
	ActivePanel   string         `json:"active_panel,omitempty"`
	Notifications []Notification `json:"notifications"`
}

// StartDialogue opens a conversation with a villager, clearing any
// previous dialogue history.
func (gs *GameState) StartDialogue(villagerID, nodeID string) {
	gs.Dialogue = DialogueState{
		IsActive:   true,
		VillagerID: villagerID,
		NodeID:     nodeID,
		History:    []DialogueEntry{},
	}
}

// EndDialogue closes the active conversation. The history is kept
// until the next StartDialogue so a closing panel can still render it.
func (gs *GameState) EndDialogue() {
	gs.Dialogue.IsActive = false
	gs.Dialogue.VillagerID = ""
	gs.Dialogue.NodeID = ""
}

// AddDialogueHistory appends one spoken line to the active dialogue.
func (gs *GameState) AddDialogueHistory(entry DialogueEntry) {
	gs.Dialogue.History = append(gs.Dialogue.History, entry)
}

// SetActivePanel records which UI panel is open, or clears it with an
// empty string.
func (gs *GameState) SetActivePanel(panel string) {
	gs.UI.ActivePanel = panel
}

// AddNotification appends a HUD notification and returns its generated
// id, which the presentation layer uses to expire it after
// DisplayDuration.
func (gs *GameState) AddNotification(message string, typ NotificationType) uuid.UUID {
	n := Notification{
		ID:        uuid.New(),
		Message:   message,
		Type:      typ,
		CreatedAt: time.Now(),
	}
	gs.UI.Notifications = append(gs.UI.Notifications, n)
	return n.ID
}

// RemoveNotification filters out the notification with the given id.
// Unknown ids are a no-op.
func (gs *GameState) RemoveNotification(id uuid.UUID) {
	for i := range gs.UI.Notifications {
		if gs.UI.Notifications[i].ID == id {
			gs.UI.Notifications = append(gs.UI.Notifications[:i], gs.UI.Notifications[i+1:]...)
			return
		}
	}
}
