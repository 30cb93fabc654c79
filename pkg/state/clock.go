package state

import "math"

// TimeOfDay is the derived bracket of the current hour.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"   // 06:00 - 11:59
	Afternoon TimeOfDay = "afternoon" // 12:00 - 16:59
	Evening   TimeOfDay = "evening"   // 17:00 - 20:59
	Night     TimeOfDay = "night"     // 21:00 - 05:59
)

// Season of the village year. Current rules never advance it; seasonal
// progression is an external extension point.
type Season string

const (
	SeasonDry   Season = "dry"
	SeasonRainy Season = "rainy"
)

// TimeState is the in-game clock. Hour is fractional in [0,24) so that
// short activities (gathering costs half an hour) move the clock.
type TimeState struct {
	Day       int       `json:"day"`
	Hour      float64   `json:"hour"`
	TimeOfDay TimeOfDay `json:"time_of_day"`
	Season    Season    `json:"season"`
}

// Stamina recovered per in-game hour that passes.
const staminaRegenPerHour = 5

// TimeOfDayFor returns the bracket for an hour in [0,24).
func TimeOfDayFor(hour float64) TimeOfDay {
	switch {
	case hour >= 6 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 21:
		return Evening
	default:
		return Night
	}
}

// AdvanceTime moves the clock forward by the given number of in-game
// hours. Crossing midnight rolls the day counter and fires the daily
// resource consumption exactly once per call, even when several day
// boundaries are crossed at once: time skips are a fast-forward, not a
// multi-day catch-up. Stamina regenerates with rest, clamped through
// the player-stats path. The whole sequence is one logical transition.
func (gs *GameState) AdvanceTime(hours float64) {
	if hours <= 0 {
		return
	}

	newHour := gs.Time.Hour + hours
	if newHour >= 24 {
		gs.Time.Day += int(newHour / 24)
		newHour = math.Mod(newHour, 24)
		gs.ConsumeDailyResources()
	}
	gs.Time.Hour = newHour
	gs.Time.TimeOfDay = TimeOfDayFor(newHour)

	stamina := gs.Player.Stamina + hours*staminaRegenPerHour
	gs.UpdatePlayerStats(PlayerStats{Stamina: &stamina})
}
