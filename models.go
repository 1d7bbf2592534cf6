package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Neel-Sh/HealthAI-sub002/internal/energy"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

// Day converts to the engine's calendar day.
func (d DateOnly) Day() energy.Day {
	return energy.DayOf(d.Time, time.UTC)
}

/* ─── Table rows ─────────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// profileRow maps to profiles. Every body attribute is nullable; a missing
// value falls back to the engine defaults at resolve time.
type profileRow struct {
	UserID         int        `json:"user_id"          db:"user_id"`
	WeightKg       *float64   `json:"weight_kg"        db:"weight_kg"`
	HeightCm       *float64   `json:"height_cm"        db:"height_cm"`
	AgeYears       *float64   `json:"age_years"        db:"age_years"`
	Sex            *string    `json:"sex"              db:"sex"`
	TargetWeightKg *float64   `json:"target_weight_kg" db:"target_weight_kg"`
	UpdatedAt      *time.Time `json:"updated_at"       db:"updated_at"`
}

// input builds the engine's ProfileInput. A logged weight is more recent
// than the profile's stored weight, so it wins.
func (p profileRow) input(latest *weightEntry) energy.ProfileInput {
	in := energy.ProfileInput{
		WeightKg: p.WeightKg,
		HeightCm: p.HeightCm,
		AgeYears: p.AgeYears,
	}
	if latest != nil {
		w := latest.WeightKg
		in.WeightKg = &w
	}
	if p.Sex != nil {
		s := energy.Sex(*p.Sex)
		in.Sex = &s
	}
	return in
}

// goalRow maps to goal_parameters, one row per user.
type goalRow struct {
	UserID                int        `json:"user_id"                           db:"user_id"`
	Direction             string     `json:"direction"                         db:"direction"`
	WeeklyRateKg          float64    `json:"weekly_rate_kg"                    db:"weekly_rate_kg"`
	CalorieGoalOverride   *float64   `json:"calorie_goal_override"             db:"calorie_goal_override"`
	DeficitGoalOverride   *float64   `json:"deficit_goal_override"             db:"deficit_goal_override"`
	FallbackActivityLevel *string    `json:"fallback_activity_level"           db:"fallback_activity_level"`
	UpdatedAt             *time.Time `json:"updated_at"                        db:"updated_at"`
}

// defaultGoalRow is returned for users who never saved goal parameters.
func defaultGoalRow(userID int) goalRow {
	d := energy.DefaultGoalParameters()
	return goalRow{UserID: userID, Direction: string(d.Direction), WeeklyRateKg: d.WeeklyRateKg}
}

func (g goalRow) params() energy.GoalParameters {
	return energy.GoalParameters{
		Direction:           energy.Direction(g.Direction),
		WeeklyRateKg:        g.WeeklyRateKg,
		CalorieGoalOverride: g.CalorieGoalOverride,
		DeficitGoalOverride: g.DeficitGoalOverride,
	}
}

// fallbackLevel returns the stored activity level, or "" when none is set
// (or the stored value is no longer recognized).
func (g goalRow) fallbackLevel() energy.ActivityLevel {
	if g.FallbackActivityLevel == nil {
		return ""
	}
	level, err := energy.ParseActivityLevel(*g.FallbackActivityLevel)
	if err != nil {
		return ""
	}
	return level
}

// mealRow maps to meal_entries.
type mealRow struct {
	ID        uuid.UUID  `db:"id"`
	UserID    int        `db:"user_id"`
	LoggedAt  time.Time  `db:"logged_at"`
	Name      string     `db:"name"`
	Calories  float64    `db:"calories"`
	ProteinG  float64    `db:"protein_g"`
	CarbsG    float64    `db:"carbs_g"`
	FatG      float64    `db:"fat_g"`
	FiberG    float64    `db:"fiber_g"`
	SugarG    float64    `db:"sugar_g"`
	SodiumMg  float64    `db:"sodium_mg"`
	WaterMl   float64    `db:"water_ml"`
	Source    string     `db:"source"`
	CreatedAt *time.Time `db:"created_at"`
}

func (r mealRow) entry() energy.MealEntry {
	return energy.MealEntry{
		ID:       r.ID,
		LoggedAt: r.LoggedAt.UTC(),
		Name:     r.Name,
		Calories: r.Calories,
		ProteinG: r.ProteinG,
		CarbsG:   r.CarbsG,
		FatG:     r.FatG,
		FiberG:   r.FiberG,
		SugarG:   r.SugarG,
		SodiumMg: r.SodiumMg,
		WaterMl:  r.WaterMl,
		Source:   energy.MealSource(r.Source),
	}
}

// activeEnergyRow maps to active_energy. UNIQUE(user_id, date) keeps at most
// one sample per day.
type activeEnergyRow struct {
	UserID     int        `db:"user_id"`
	Date       DateOnly   `db:"date"`
	ActiveKcal float64    `db:"active_kcal"`
	Workouts   int        `db:"workouts"`
	UpdatedAt  *time.Time `db:"updated_at"`
}

func (r activeEnergyRow) sample() energy.ActiveEnergySample {
	return energy.ActiveEnergySample{Date: r.Date.Day(), ActiveKcal: r.ActiveKcal, Workouts: r.Workouts}
}

// weightEntry maps to weight_log.
type weightEntry struct {
	ID        int        `json:"id"         db:"id"`
	UserID    int        `json:"user_id"    db:"user_id"`
	Date      DateOnly   `json:"date"       db:"date"`
	WeightKg  float64    `json:"weight_kg"  db:"weight_kg"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

/* ─── Request / response shapes ──────────────────────────────────────── */

// profileResponse is the shape for GET/PATCH /api/profile: the stored
// attributes plus the resolved profile the engine will actually use.
type profileResponse struct {
	Stored   profileRow     `json:"stored"`
	Resolved energy.Profile `json:"resolved"`
	// Valid is false when the resolved profile would fail BMR; the client
	// should route the user to setup.
	Valid bool `json:"valid"`
}

// patchProfileRequest is the body for PATCH /api/profile. Nil fields are left unchanged.
type patchProfileRequest struct {
	WeightKg       *float64 `json:"weight_kg"`
	HeightCm       *float64 `json:"height_cm"`
	AgeYears       *float64 `json:"age_years"`
	Sex            *string  `json:"sex"`
	TargetWeightKg *float64 `json:"target_weight_kg"`
}

// patchGoalsRequest is the body for PATCH /api/goals. Nil fields are left
// unchanged; the clear_* flags remove an override.
type patchGoalsRequest struct {
	Direction                *string  `json:"direction"`
	WeeklyRateKg             *float64 `json:"weekly_rate_kg"`
	CalorieGoalOverride      *float64 `json:"calorie_goal_override"`
	DeficitGoalOverride      *float64 `json:"deficit_goal_override"`
	FallbackActivityLevel    *string  `json:"fallback_activity_level"`
	ClearCalorieGoalOverride bool     `json:"clear_calorie_goal_override"`
	ClearDeficitGoalOverride bool     `json:"clear_deficit_goal_override"`
	ClearFallbackActivity    bool     `json:"clear_fallback_activity_level"`
}

// createMealRequest is the body for POST /api/meals.
type createMealRequest struct {
	LoggedAt *time.Time `json:"logged_at"`
	Name     string     `json:"name"`
	Calories float64    `json:"calories"`
	ProteinG float64    `json:"protein_g"`
	CarbsG   float64    `json:"carbs_g"`
	FatG     float64    `json:"fat_g"`
	FiberG   float64    `json:"fiber_g"`
	SugarG   float64    `json:"sugar_g"`
	SodiumMg float64    `json:"sodium_mg"`
	WaterMl  float64    `json:"water_ml"`
	Source   string     `json:"source"`
}

// dailyMeals is the response for GET /api/meals.
type dailyMeals struct {
	Date    energy.Day         `json:"date"`
	Entries []energy.MealEntry `json:"entries"`
	Totals  energy.Totals      `json:"totals"`
}

// weekDeficit is the response for GET /api/deficit/week.
type weekDeficit struct {
	End        energy.Day          `json:"end"`
	Days       []energy.DayDeficit `json:"days"`
	AvgDeficit float64             `json:"avg_deficit_kcal"`
	DaysLogged int                 `json:"days_logged"`
	TargetTier energy.SafetyTier   `json:"target_safety_tier"`
	TargetKcal float64             `json:"target_deficit_kcal"`
}
