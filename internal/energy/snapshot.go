package energy

import "time"

// ProjectionBasis says which deficit drove the weight projection.
type ProjectionBasis string

const (
	// BasisRealized uses the trailing average of logged days.
	BasisRealized ProjectionBasis = "realized"
	// BasisPlanned uses the goal's target deficit because nothing was logged.
	BasisPlanned ProjectionBasis = "planned"
)

// SnapshotInput is everything ComputeSnapshot needs, already resolved.
type SnapshotInput struct {
	Profile        Profile
	Goals          GoalParameters
	TargetWeightKg *float64
	Today          Day
	Location       *time.Location

	// TodaysEntries feeds today's intake. TrailingEntries feeds the rolling
	// deficit and should span the seven days ending today, today included.
	TodaysEntries   []MealEntry
	TrailingEntries []MealEntry
	ActiveEnergy    []ActiveEnergySample

	// FallbackActivity is optional; see Window.Fallback.
	FallbackActivity ActivityLevel
}

// Snapshot is the full computed state for one display cycle. It is never
// persisted.
type Snapshot struct {
	Date Day     `json:"date"`
	BMR  float64 `json:"bmr_kcal"`
	TDEE float64 `json:"tdee_kcal"`

	CalorieGoal  float64 `json:"calorie_goal_kcal"`
	ProteinGoalG float64 `json:"protein_goal_g"`
	CarbGoalG    float64 `json:"carb_goal_g"`
	FatGoalG     float64 `json:"fat_goal_g"`
	BelowBMR     bool    `json:"below_bmr"`

	TodayIntake     Totals  `json:"today_intake"`
	RealizedDeficit float64 `json:"realized_deficit_kcal"`

	Trailing               []DayDeficit `json:"trailing"`
	Trailing7DayAvgDeficit float64      `json:"trailing_7_day_avg_deficit_kcal"`
	TrailingDaysLogged     int          `json:"trailing_days_logged"`

	TargetDeficit float64    `json:"target_deficit_kcal"`
	SafetyTier    SafetyTier `json:"deficit_safety_tier"`

	ProjectionBasis         ProjectionBasis `json:"projection_basis"`
	ProjectedWeeklyChangeKg float64         `json:"projected_weekly_change_kg"`
	// WeeksToTarget is nil when no target weight is set or no progress is
	// projected.
	WeeksToTarget *int `json:"estimated_weeks_to_target"`
}

// ComputeSnapshot runs the whole engine once so BMR and TDEE are derived a
// single time per render. The only error is an invalid profile.
func ComputeSnapshot(in SnapshotInput) (Snapshot, error) {
	bmr, err := BMR(in.Profile)
	if err != nil {
		return Snapshot{}, err
	}

	w := Window{
		End:      in.Today,
		Location: in.Location,
		BMR:      bmr,
		Entries:  in.TrailingEntries,
		Samples:  in.ActiveEnergy,
		Fallback: in.FallbackActivity,
	}
	tdee := w.maintenance(in.Today, samplesByDay(in.ActiveEnergy))
	goals := ComputeGoals(tdee, bmr, in.Profile.WeightKg, in.Goals)

	today := Aggregate(in.TodaysEntries, in.Today, in.Location)
	trailing := TrailingDeficits(w)
	avg, logged := RollingAverageDeficit(trailing)

	basis, deficit := BasisPlanned, goals.TargetDeficit
	if logged > 0 {
		basis, deficit = BasisRealized, avg
	}
	weekly := WeeklyChangeForDirection(in.Goals.Direction, deficit)

	s := Snapshot{
		Date:                    in.Today,
		BMR:                     bmr,
		TDEE:                    tdee,
		CalorieGoal:             goals.CalorieGoal,
		ProteinGoalG:            goals.ProteinGoalG,
		CarbGoalG:               goals.CarbGoalG,
		FatGoalG:                goals.FatGoalG,
		BelowBMR:                goals.BelowBMR,
		TodayIntake:             today,
		RealizedDeficit:         DailyDeficit(tdee, today.Calories),
		Trailing:                trailing,
		Trailing7DayAvgDeficit:  avg,
		TrailingDaysLogged:      logged,
		TargetDeficit:           goals.TargetDeficit,
		SafetyTier:              ClassifySafety(goals.TargetDeficit),
		ProjectionBasis:         basis,
		ProjectedWeeklyChangeKg: weekly,
	}
	// A target on the far side of the goal direction is never reached.
	if in.TargetWeightKg != nil && headsToward(in.Goals.Direction, in.Profile.WeightKg, *in.TargetWeightKg) {
		if weeks, ok := WeeksToTarget(in.Profile.WeightKg, *in.TargetWeightKg, weekly); ok {
			s.WeeksToTarget = &weeks
		}
	}
	return s, nil
}
