package state

import "testing"

func drought() Crisis {
	return Crisis{ID: "drought", Title: "Drought", Description: "The rains have not come."}
}

func TestTriggerCrisis(t *testing.T) {
	gs := NewGameState()
	gs.Time.Day = 3

	if !gs.TriggerCrisis(drought()) {
		t.Fatal("TriggerCrisis rejected with no active crisis")
	}

	active := gs.Crisis.Active
	if active == nil {
		t.Fatal("no active crisis after trigger")
	}
	if active.Phase != CrisisPhaseWarning {
		t.Errorf("Phase = %q, want %q", active.Phase, CrisisPhaseWarning)
	}
	if active.StartDay != 3 {
		t.Errorf("StartDay = %d, want 3", active.StartDay)
	}

	var danger int
	for _, n := range gs.UI.Notifications {
		if n.Type == NotificationDanger {
			danger++
		}
	}
	if danger != 1 {
		t.Errorf("danger notifications = %d, want 1", danger)
	}
}

func TestTriggerCrisis_RejectedWhileActive(t *testing.T) {
	gs := NewGameState()
	gs.TriggerCrisis(drought())
	notifs := len(gs.UI.Notifications)

	storm := Crisis{ID: "storm", Title: "Storm"}
	if gs.TriggerCrisis(storm) {
		t.Error("second trigger accepted while a crisis is active")
	}

	if gs.Crisis.Active.ID != "drought" {
		t.Errorf("active crisis = %q, want the original %q", gs.Crisis.Active.ID, "drought")
	}
	if len(gs.UI.Notifications) != notifs {
		t.Errorf("rejected trigger emitted a notification")
	}
}

func TestUpdateCrisisPhase(t *testing.T) {
	gs := NewGameState()

	gs.UpdateCrisisPhase(CrisisPhaseActive) // no active crisis: no-op
	if gs.Crisis.Active != nil {
		t.Fatal("phase update created a crisis")
	}

	gs.TriggerCrisis(drought())
	gs.UpdateCrisisPhase(CrisisPhaseActive)
	if gs.Crisis.Active.Phase != CrisisPhaseActive {
		t.Errorf("Phase = %q, want %q", gs.Crisis.Active.Phase, CrisisPhaseActive)
	}
}

func TestResolveCrisis(t *testing.T) {
	gs := NewGameState()
	gs.Time.Day = 3
	gs.TriggerCrisis(drought())
	gs.RaiseWarningLevel(4)
	gs.Time.Day = 5

	happiness := 60.0
	gs.ResolveCrisis(CrisisOutcome{
		Summary:        "The village rationed water until the rains returned.",
		VillageEffects: &VillageMetrics{Happiness: &happiness},
	})

	if gs.Crisis.Active != nil {
		t.Error("crisis still active after resolution")
	}
	if gs.Crisis.WarningLevel != 0 {
		t.Errorf("WarningLevel = %d, want 0", gs.Crisis.WarningLevel)
	}
	if len(gs.Crisis.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(gs.Crisis.History))
	}
	resolved := gs.Crisis.History[0]
	if resolved.Crisis.ID != "drought" {
		t.Errorf("history crisis = %q, want %q", resolved.Crisis.ID, "drought")
	}
	if resolved.ResolvedDay != 5 {
		t.Errorf("ResolvedDay = %d, want 5", resolved.ResolvedDay)
	}
	if gs.Village.Happiness != 60 {
		t.Errorf("Happiness = %v, want 60 (outcome effect)", gs.Village.Happiness)
	}
}

func TestResolveCrisis_NoActiveIsNoop(t *testing.T) {
	gs := NewGameState()
	gs.ResolveCrisis(CrisisOutcome{Summary: "nothing happened"})

	if len(gs.Crisis.History) != 0 {
		t.Errorf("resolution recorded with no active crisis")
	}
}

func TestRaiseWarningLevel_Clamped(t *testing.T) {
	gs := NewGameState()

	gs.RaiseWarningLevel(100)
	if gs.Crisis.WarningLevel != maxWarningLevel {
		t.Errorf("WarningLevel = %d, want %d", gs.Crisis.WarningLevel, maxWarningLevel)
	}

	gs.RaiseWarningLevel(-100)
	if gs.Crisis.WarningLevel != 0 {
		t.Errorf("WarningLevel = %d, want 0", gs.Crisis.WarningLevel)
	}
}
