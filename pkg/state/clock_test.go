package state

import "testing"

func TestTimeOfDayFor(t *testing.T) {
	tests := []struct {
		hour float64
		want TimeOfDay
	}{
		{0, Night},
		{5.5, Night},
		{6, Morning},
		{11.9, Morning},
		{12, Afternoon},
		{16.5, Afternoon},
		{17, Evening},
		{20.9, Evening},
		{21, Night},
		{23, Night},
	}

	for _, tt := range tests {
		if got := TimeOfDayFor(tt.hour); got != tt.want {
			t.Errorf("TimeOfDayFor(%v) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestAdvanceTime_SameDay(t *testing.T) {
	gs := NewGameState() // day 1, 06:00
	foodBefore := gs.Village.FoodSupply

	gs.AdvanceTime(7)

	if gs.Time.Day != 1 {
		t.Errorf("Day = %d, want 1", gs.Time.Day)
	}
	if gs.Time.Hour != 13 {
		t.Errorf("Hour = %v, want 13", gs.Time.Hour)
	}
	if gs.Time.TimeOfDay != Afternoon {
		t.Errorf("TimeOfDay = %q, want %q", gs.Time.TimeOfDay, Afternoon)
	}
	if gs.Village.FoodSupply != foodBefore {
		t.Errorf("daily consumption fired without a day rollover")
	}
}

func TestAdvanceTime_MultiDayRolloverConsumesOnce(t *testing.T) {
	gs := NewGameState()
	gs.Time.Day = 1
	gs.Time.Hour = 23

	gs.AdvanceTime(25) // 23+25=48: two day boundaries in one call

	if gs.Time.Day != 3 {
		t.Errorf("Day = %d, want 3", gs.Time.Day)
	}
	if gs.Time.Hour != 0 {
		t.Errorf("Hour = %v, want 0", gs.Time.Hour)
	}
	if gs.Time.TimeOfDay != Night {
		t.Errorf("TimeOfDay = %q, want %q", gs.Time.TimeOfDay, Night)
	}

	// Consumption fires exactly once per call, not per boundary:
	// 100 - 18*0.5 = 91.
	if gs.Village.FoodSupply != 91 {
		t.Errorf("FoodSupply = %v, want 91", gs.Village.FoodSupply)
	}
}

func TestAdvanceTime_StaminaRegenClamped(t *testing.T) {
	gs := NewGameState()
	gs.Player.Stamina = 40

	gs.AdvanceTime(3)
	if gs.Player.Stamina != 55 {
		t.Errorf("Stamina = %v, want 55", gs.Player.Stamina)
	}

	gs.AdvanceTime(20)
	if gs.Player.Stamina != 100 {
		t.Errorf("Stamina = %v, want 100 (clamped)", gs.Player.Stamina)
	}
}

func TestAdvanceTime_FractionalHours(t *testing.T) {
	gs := NewGameState()

	gs.AdvanceTime(0.5) // gathering costs half an hour

	if gs.Time.Hour != 6.5 {
		t.Errorf("Hour = %v, want 6.5", gs.Time.Hour)
	}
	if gs.Time.TimeOfDay != Morning {
		t.Errorf("TimeOfDay = %q, want %q", gs.Time.TimeOfDay, Morning)
	}
}

func TestAdvanceTime_NonPositiveIsNoop(t *testing.T) {
	gs := NewGameState()
	gs.AdvanceTime(0)
	gs.AdvanceTime(-2)

	if gs.Time.Day != 1 || gs.Time.Hour != 6 {
		t.Errorf("clock moved on non-positive advance: day %d hour %v", gs.Time.Day, gs.Time.Hour)
	}
}

func TestConsumeDailyResources_LowFoodCostsHappiness(t *testing.T) {
	tests := []struct {
		name          string
		food          float64
		population    int
		wantFood      float64
		wantHappiness float64
	}{
		{name: "plentiful food keeps happiness", food: 100, population: 18, wantFood: 91, wantHappiness: 75},
		{name: "low food costs happiness", food: 35, population: 18, wantFood: 26, wantHappiness: 70},
		{name: "supply floors at zero", food: 3, population: 18, wantFood: 0, wantHappiness: 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGameState()
			gs.Village.FoodSupply = tt.food
			gs.Village.Population = tt.population

			gs.ConsumeDailyResources()

			if gs.Village.FoodSupply != tt.wantFood {
				t.Errorf("FoodSupply = %v, want %v", gs.Village.FoodSupply, tt.wantFood)
			}
			if gs.Village.Happiness != tt.wantHappiness {
				t.Errorf("Happiness = %v, want %v", gs.Village.Happiness, tt.wantHappiness)
			}
		})
	}
}
