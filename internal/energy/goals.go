package energy

import "math"

// KcalPerKg is the energy equivalent of one kilogram of body mass. It is the
// usual 3500 kcal/lb rule in metric form and is an approximation, not a
// metabolic constant.
const KcalPerKg = 7700.0

// Bounds for the weekly rate of change. Rates outside the band are clamped.
const (
	MinWeeklyRateKg = 0.25
	MaxWeeklyRateKg = 1.0
)

// Macro constants, grams per kg of body weight unless noted.
const (
	proteinPerKgLose  = 2.0
	proteinPerKgOther = 1.8
	fatPerKg          = 0.9
	minCarbsG         = 50.0

	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0
)

// Direction is the user's weight-change goal.
type Direction string

const (
	Lose     Direction = "lose"
	Maintain Direction = "maintain"
	Gain     Direction = "gain"
)

func (d Direction) Valid() bool {
	return d == Lose || d == Maintain || d == Gain
}

// GoalParameters are the user-adjustable goal settings. The overrides are
// nil unless the user typed an explicit value.
type GoalParameters struct {
	Direction           Direction `json:"direction"`
	WeeklyRateKg        float64   `json:"weekly_rate_kg"`
	CalorieGoalOverride *float64  `json:"calorie_goal_override,omitempty"`
	DeficitGoalOverride *float64  `json:"deficit_goal_override,omitempty"`
}

// DefaultGoalParameters is the initial suggestion for a new user.
func DefaultGoalParameters() GoalParameters {
	return GoalParameters{Direction: Maintain, WeeklyRateKg: 0.5}
}

// Goals are the daily targets derived from TDEE and GoalParameters.
type Goals struct {
	CalorieGoal   float64 `json:"calorie_goal_kcal"`
	ProteinGoalG  float64 `json:"protein_goal_g"`
	CarbGoalG     float64 `json:"carb_goal_g"`
	FatGoalG      float64 `json:"fat_goal_g"`
	TargetDeficit float64 `json:"target_deficit_kcal"`
	// BelowBMR flags a calorie goal under BMR. Only an explicit override can
	// produce one; it is an advisory and never changes the goal.
	BelowBMR bool `json:"below_bmr"`
}

// ClampWeeklyRate forces rate into [MinWeeklyRateKg, MaxWeeklyRateKg].
// NaN falls back to the minimum.
func ClampWeeklyRate(rate float64) float64 {
	if math.IsNaN(rate) || rate < MinWeeklyRateKg {
		return MinWeeklyRateKg
	}
	return min(rate, MaxWeeklyRateKg)
}

// DailyAdjustment converts a weekly rate into a daily calorie adjustment:
// weeklyRateKg * 7700 / 7.
func DailyAdjustment(weeklyRateKg float64) float64 {
	return ClampWeeklyRate(weeklyRateKg) * KcalPerKg / 7
}

// ComputeGoals derives the calorie and macro targets.
//
// Losing never recommends eating below bmr. An explicit deficit override
// replaces the rate-derived adjustment and is still floored at bmr; an
// explicit calorie override replaces the computed goal outright.
func ComputeGoals(tdee, bmr, weightKg float64, params GoalParameters) Goals {
	adjustment := DailyAdjustment(params.WeeklyRateKg)
	if params.DeficitGoalOverride != nil {
		adjustment = math.Abs(*params.DeficitGoalOverride)
	}

	var calories float64
	switch params.Direction {
	case Lose:
		calories = max(tdee-adjustment, bmr)
	case Gain:
		calories = tdee + adjustment
	default:
		calories = tdee
	}
	if params.CalorieGoalOverride != nil {
		calories = *params.CalorieGoalOverride
	}

	proteinPerKg := proteinPerKgOther
	if params.Direction == Lose {
		proteinPerKg = proteinPerKgLose
	}
	protein := weightKg * proteinPerKg
	fat := weightKg * fatPerKg
	carbs := max((calories-protein*kcalPerGramProtein-fat*kcalPerGramFat)/kcalPerGramCarbs, minCarbsG)

	return Goals{
		CalorieGoal:   calories,
		ProteinGoalG:  protein,
		CarbGoalG:     carbs,
		FatGoalG:      fat,
		TargetDeficit: tdee - calories,
		BelowBMR:      calories < bmr,
	}
}
