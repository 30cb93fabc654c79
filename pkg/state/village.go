package state

// Village holds the shared village metrics. All gauges are [0,100];
// FoodSupply is floored at zero but unbounded above, since production
// is driven externally.
type Village struct {
	Population           int     `json:"population"`
	Happiness            float64 `json:"happiness"`
	FoodSupply           float64 `json:"food_supply"`
	Health               float64 `json:"health"`
	Security             float64 `json:"security"`
	CulturalPreservation float64 `json:"cultural_preservation"`
}

// VillageMetrics is a partial update to village metrics. Nil fields
// are left unchanged.
type VillageMetrics struct {
	Population           *int     `json:"population,omitempty"`
	Happiness            *float64 `json:"happiness,omitempty"`
	FoodSupply           *float64 `json:"food_supply,omitempty"`
	Health               *float64 `json:"health,omitempty"`
	Security             *float64 `json:"security,omitempty"`
	CulturalPreservation *float64 `json:"cultural_preservation,omitempty"`
}

// Food consumption constants for the daily village tick.
const (
	foodPerVillager      = 0.5
	lowFoodThreshold     = 30
	lowFoodHappinessLoss = 5
)

// UpdateVillageMetrics merges the provided fields into the village.
// Gauges are clamped at this boundary; FoodSupply is floored at zero.
func (gs *GameState) UpdateVillageMetrics(metrics VillageMetrics) {
	v := &gs.Village
	if metrics.Population != nil {
		pop := *metrics.Population
		if pop < 0 {
			pop = 0
		}
		v.Population = pop
	}
	if metrics.Happiness != nil {
		v.Happiness = clampGauge(*metrics.Happiness)
	}
	if metrics.FoodSupply != nil {
		supply := *metrics.FoodSupply
		if supply < 0 {
			supply = 0
		}
		v.FoodSupply = supply
	}
	if metrics.Health != nil {
		v.Health = clampGauge(*metrics.Health)
	}
	if metrics.Security != nil {
		v.Security = clampGauge(*metrics.Security)
	}
	if metrics.CulturalPreservation != nil {
		v.CulturalPreservation = clampGauge(*metrics.CulturalPreservation)
	}
}

// ConsumeDailyResources applies the daily village tick: the population
// eats, and a low food supply costs happiness. Invoked by AdvanceTime
// when the day rolls over; presentation code never calls it directly.
func (gs *GameState) ConsumeDailyResources() {
	consumed := float64(gs.Village.Population) * foodPerVillager
	supply := gs.Village.FoodSupply - consumed
	if supply < 0 {
		supply = 0
	}
	gs.Village.FoodSupply = supply

	if supply < lowFoodThreshold {
		gs.Village.Happiness = clampGauge(gs.Village.Happiness - lowFoodHappinessLoss)
	}
}
