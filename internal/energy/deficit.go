package energy

import "time"

// SafetyTier annotates a target daily deficit. Tiers never block a goal.
type SafetyTier string

const (
	TierMinimal    SafetyTier = "minimal"
	TierSafe       SafetyTier = "safe"
	TierModerate   SafetyTier = "moderate"
	TierAggressive SafetyTier = "aggressive"
	TierTooHigh    SafetyTier = "too_high"
)

// ClassifySafety maps a target daily deficit to its tier. Each threshold
// belongs to the higher tier (exactly 250 is safe). Zero or negative
// deficits (maintain, gain) are minimal.
func ClassifySafety(targetDeficitKcal float64) SafetyTier {
	switch {
	case targetDeficitKcal < 250:
		return TierMinimal
	case targetDeficitKcal < 500:
		return TierSafe
	case targetDeficitKcal < 750:
		return TierModerate
	case targetDeficitKcal < 1000:
		return TierAggressive
	default:
		return TierTooHigh
	}
}

// DailyDeficit is maintenance minus intake. Positive is a deficit, negative
// a surplus.
func DailyDeficit(maintenanceKcal, intakeKcal float64) float64 {
	return maintenanceKcal - intakeKcal
}

// DayDeficit is one day of the trailing window.
type DayDeficit struct {
	Date        Day     `json:"date"`
	Maintenance float64 `json:"maintenance_kcal"`
	Intake      float64 `json:"intake_kcal"`
	Deficit     float64 `json:"deficit_kcal"`
	// Logged is false when no meals were logged that day. Such days are
	// excluded from the rolling average rather than counted as zero intake.
	Logged bool `json:"logged"`
}

// Window holds the inputs for TrailingDeficits. Entries and Samples may cover
// more than the window; anything outside it is ignored.
type Window struct {
	End      Day
	Location *time.Location
	BMR      float64
	Entries  []MealEntry
	Samples  []ActiveEnergySample
	// Fallback, when set, estimates maintenance with an activity multiplier
	// on days without a sample. When empty those days count as zero active
	// calories.
	Fallback ActivityLevel
}

// maintenance returns the TDEE for day given the window's samples.
func (w Window) maintenance(day Day, byDay map[Day]ActiveEnergySample) float64 {
	if s, ok := byDay[day]; ok {
		return TDEE(w.BMR, s.ActiveKcal)
	}
	if w.Fallback != "" {
		if tdee, err := TDEEWithActivityLevel(w.BMR, w.Fallback); err == nil {
			return tdee
		}
	}
	return TDEE(w.BMR, 0)
}

// TrailingDeficits returns the WindowDays days ending on w.End, oldest first.
func TrailingDeficits(w Window) []DayDeficit {
	byDay := samplesByDay(w.Samples)
	totals := DailyTotals(w.Entries, w.Location)

	out := make([]DayDeficit, WindowDays)
	for i := range out {
		day := w.End.AddDays(i - (WindowDays - 1))
		t := totals[day]
		m := w.maintenance(day, byDay)
		out[i] = DayDeficit{
			Date:        day,
			Maintenance: m,
			Intake:      t.Calories,
			Deficit:     DailyDeficit(m, t.Calories),
			Logged:      t.Entries > 0,
		}
	}
	return out
}

// RollingAverageDeficit averages the deficits of logged days only and returns
// how many days contributed. With no logged days it returns (0, 0); callers
// decide how to display "no data".
func RollingAverageDeficit(days []DayDeficit) (avg float64, logged int) {
	var sum float64
	for _, d := range days {
		if !d.Logged {
			continue
		}
		sum += d.Deficit
		logged++
	}
	if logged == 0 {
		return 0, 0
	}
	return sum / float64(logged), logged
}
