package energy

import (
	"errors"
	"fmt"
)

// ActivityLevel names a fixed TDEE multiplier used when no measured active
// energy is available for a day.
type ActivityLevel string

const (
	Sedentary        ActivityLevel = "sedentary"
	LightlyActive    ActivityLevel = "lightly_active"
	ModeratelyActive ActivityLevel = "moderately_active"
	VeryActive       ActivityLevel = "very_active"
	ExtraActive      ActivityLevel = "extra_active"
)

// activityMultipliers maps each activity level to its TDEE multiplier.
// This is the single source of truth for valid levels; the API validates
// input against it through ParseActivityLevel.
var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:        1.2,
	LightlyActive:    1.375,
	ModeratelyActive: 1.55,
	VeryActive:       1.725,
	ExtraActive:      1.9,
}

// ErrUnknownActivityLevel is returned for a level with no multiplier.
var ErrUnknownActivityLevel = errors.New("unknown activity level")

// ParseActivityLevel validates s against the known levels.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	level := ActivityLevel(s)
	if _, ok := activityMultipliers[level]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownActivityLevel, s)
	}
	return level, nil
}

// Multiplier returns the TDEE multiplier for the level, or false if unknown.
func (l ActivityLevel) Multiplier() (float64, bool) {
	m, ok := activityMultipliers[l]
	return m, ok
}

// BMR computes basal metabolic rate (kcal/day) with Mifflin-St Jeor:
// 10*weightKg + 6.25*heightCm - 5*ageYears, plus 5 for males or minus 161
// for females.
func BMR(p Profile) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*p.AgeYears
	if p.Sex == SexFemale {
		bmr -= 161
	} else {
		bmr += 5
	}
	return bmr, nil
}

// TDEE adds measured active calories to BMR. Negative active values are
// treated as zero.
func TDEE(bmr, activeKcal float64) float64 {
	return bmr + max(activeKcal, 0)
}

// TDEEWithActivityLevel is the multiplier fallback for days without telemetry.
func TDEEWithActivityLevel(bmr float64, level ActivityLevel) (float64, error) {
	m, ok := level.Multiplier()
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownActivityLevel, level)
	}
	return bmr * m, nil
}

// activityBand pairs a half-open active-calorie range with an inclusive
// workout-day range. max < 0 means unbounded.
type activityBand struct {
	level                          ActivityLevel
	minKcal, maxKcal               float64
	minWorkoutDays, maxWorkoutDays int
}

var activityBands = []activityBand{
	{Sedentary, 0, 200, 0, 1},
	{LightlyActive, 200, 400, 1, 3},
	{ModeratelyActive, 400, 600, 3, 5},
	{VeryActive, 600, 800, 5, 7},
	{ExtraActive, 800, -1, 6, -1},
}

// ClassifyActivityLevel picks a fallback activity level from a week's average
// daily active calories and the number of days with at least one workout.
// A band matches when both the calorie range and the workout range hold;
// otherwise the level is decided by calories alone.
func ClassifyActivityLevel(avgActiveKcal float64, workoutDays int) ActivityLevel {
	for _, b := range activityBands {
		if avgActiveKcal < b.minKcal || (b.maxKcal >= 0 && avgActiveKcal >= b.maxKcal) {
			continue
		}
		if workoutDays < b.minWorkoutDays || (b.maxWorkoutDays >= 0 && workoutDays > b.maxWorkoutDays) {
			continue
		}
		return b.level
	}
	switch {
	case avgActiveKcal >= 400:
		return ModeratelyActive
	case avgActiveKcal >= 200:
		return LightlyActive
	default:
		return Sedentary
	}
}

// ActivitySummary is the trailing-week input to ClassifyActivityLevel.
type ActivitySummary struct {
	AvgActiveKcal float64       `json:"avg_active_kcal"`
	WorkoutDays   int           `json:"workout_days"`
	Level         ActivityLevel `json:"level"`
}

// WeeklyActivitySummary averages active calories over the seven days ending
// on end (absent days count as zero) and counts days with a workout.
func WeeklyActivitySummary(samples []ActiveEnergySample, end Day) ActivitySummary {
	byDay := samplesByDay(samples)
	var sum float64
	var workoutDays int
	for i := 0; i < WindowDays; i++ {
		s, ok := byDay[end.AddDays(-i)]
		if !ok {
			continue
		}
		sum += max(s.ActiveKcal, 0)
		if s.Workouts > 0 {
			workoutDays++
		}
	}
	avg := sum / WindowDays
	return ActivitySummary{
		AvgActiveKcal: avg,
		WorkoutDays:   workoutDays,
		Level:         ClassifyActivityLevel(avg, workoutDays),
	}
}
