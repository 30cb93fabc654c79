package state

import "fmt"

// CrisisPhase is the lifecycle stage of an active crisis.
type CrisisPhase string

const (
	CrisisPhaseWarning   CrisisPhase = "warning"
	CrisisPhaseActive    CrisisPhase = "active"
	CrisisPhaseResolving CrisisPhase = "resolving"
)

// The warning level is a bounded escalation counter [0,maxWarningLevel].
const maxWarningLevel = 10

// Crisis is a village-wide event threatening one or more metrics.
type Crisis struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Phase       CrisisPhase `json:"phase,omitempty"`
	StartDay    int         `json:"start_day,omitempty"`
}

// CrisisOutcome describes how a crisis ended and what it did to the
// village.
type CrisisOutcome struct {
	Summary        string          `json:"summary,omitempty"`
	VillageEffects *VillageMetrics `json:"village_effects,omitempty"`
}

// ResolvedCrisis is one entry in the append-only crisis history.
type ResolvedCrisis struct {
	Crisis      Crisis        `json:"crisis"`
	Outcome     CrisisOutcome `json:"outcome"`
	ResolvedDay int           `json:"resolved_day"`
}

// CrisisState tracks the single active crisis, the resolution history,
// and the escalation warning level.
type CrisisState struct {
	Active       *Crisis          `json:"active,omitempty"`
	History      []ResolvedCrisis `json:"history"`
	WarningLevel int              `json:"warning_level"`
}

// TriggerCrisis starts a crisis in the warning phase and emits a
// danger notification. At most one crisis is active at a time: a
// trigger while another crisis is active is rejected and the state is
// left unchanged. Reports whether the crisis was accepted.
func (gs *GameState) TriggerCrisis(crisis Crisis) bool {
	if gs.Crisis.Active != nil {
		return false
	}

	crisis.Phase = CrisisPhaseWarning
	crisis.StartDay = gs.Time.Day
	gs.Crisis.Active = &crisis

	gs.AddNotification(fmt.Sprintf("CRISIS: %s", crisis.Title), NotificationDanger)
	return true
}

// UpdateCrisisPhase overwrites the phase of the active crisis. A no-op
// when no crisis is active.
func (gs *GameState) UpdateCrisisPhase(phase CrisisPhase) {
	if gs.Crisis.Active == nil {
		return
	}
	gs.Crisis.Active.Phase = phase
}

// RaiseWarningLevel adjusts the escalation counter, clamped to
// [0,maxWarningLevel].
func (gs *GameState) RaiseWarningLevel(delta int) {
	level := gs.Crisis.WarningLevel + delta
	if level < 0 {
		level = 0
	}
	if level > maxWarningLevel {
		level = maxWarningLevel
	}
	gs.Crisis.WarningLevel = level
}

// ResolveCrisis ends the active crisis: village effects from the
// outcome are applied through the village-metrics path, the crisis is
// appended to the history with the day stamped, and the warning level
// resets. A no-op when no crisis is active.
func (gs *GameState) ResolveCrisis(outcome CrisisOutcome) {
	if gs.Crisis.Active == nil {
		return
	}

	if outcome.VillageEffects != nil {
		gs.UpdateVillageMetrics(*outcome.VillageEffects)
	}

	gs.Crisis.History = append(gs.Crisis.History, ResolvedCrisis{
		Crisis:      *gs.Crisis.Active,
		Outcome:     outcome,
		ResolvedDay: gs.Time.Day,
	})
	gs.Crisis.Active = nil
	gs.Crisis.WarningLevel = 0
}
