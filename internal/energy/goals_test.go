package energy

import "testing"

// TestDailyAdjustment checks the 7700 kcal/kg conversion and rate clamping.
func TestDailyAdjustment(t *testing.T) {
	cases := []struct {
		rate, want float64
	}{
		{0.5, 550},
		{0.25, 275},
		{1.0, 1100},
		{0.1, 275},  // clamped up
		{3.0, 1100}, // clamped down
	}
	for _, tc := range cases {
		if got := DailyAdjustment(tc.rate); !floatEq(got, tc.want) {
			t.Errorf("DailyAdjustment(%v) = %v, want %v", tc.rate, got, tc.want)
		}
	}
}

// TestComputeGoals_FlooredAtBMR is the worked example: 70kg/175cm/25y male,
// 300 active kcal, losing 0.5kg/week. TDEE-550 falls under BMR so the goal
// is the BMR itself.
func TestComputeGoals_FlooredAtBMR(t *testing.T) {
	bmr, err := BMR(Profile{WeightKg: 70, HeightCm: 175, AgeYears: 25, Sex: SexMale})
	if err != nil {
		t.Fatal(err)
	}
	tdee := TDEE(bmr, 300)
	if !floatEq(tdee, 2016.25) {
		t.Fatalf("TDEE = %v, want 2016.25", tdee)
	}
	g := ComputeGoals(tdee, bmr, 70, GoalParameters{Direction: Lose, WeeklyRateKg: 0.5})
	if !floatEq(g.CalorieGoal, 1716.25) {
		t.Errorf("calorie goal = %v, want 1716.25", g.CalorieGoal)
	}
	if !floatEq(g.TargetDeficit, 300) {
		t.Errorf("target deficit = %v, want 300", g.TargetDeficit)
	}
	if g.BelowBMR {
		t.Error("expected BelowBMR=false for a floored goal")
	}
}

// TestComputeGoals_NeverBelowBMRWhenLosing sweeps rates across the allowed band.
func TestComputeGoals_NeverBelowBMRWhenLosing(t *testing.T) {
	bmr := 1500.0
	for _, tdee := range []float64{1500, 1700, 2200, 3500} {
		for rate := MinWeeklyRateKg; rate <= MaxWeeklyRateKg; rate += 0.05 {
			g := ComputeGoals(tdee, bmr, 80, GoalParameters{Direction: Lose, WeeklyRateKg: rate})
			if g.CalorieGoal < bmr {
				t.Errorf("tdee=%v rate=%v: calorie goal %v below BMR %v", tdee, rate, g.CalorieGoal, bmr)
			}
		}
	}
}

func TestComputeGoals_Directions(t *testing.T) {
	cases := []struct {
		dir         Direction
		wantCal     float64
		wantProtein float64
	}{
		{Lose, 2500 - 550, 160},
		{Maintain, 2500, 144},
		{Gain, 2500 + 550, 144},
	}
	for _, tc := range cases {
		t.Run(string(tc.dir), func(t *testing.T) {
			g := ComputeGoals(2500, 1700, 80, GoalParameters{Direction: tc.dir, WeeklyRateKg: 0.5})
			if !floatEq(g.CalorieGoal, tc.wantCal) {
				t.Errorf("calorie goal = %v, want %v", g.CalorieGoal, tc.wantCal)
			}
			if !floatEq(g.ProteinGoalG, tc.wantProtein) {
				t.Errorf("protein = %v, want %v", g.ProteinGoalG, tc.wantProtein)
			}
			if !floatEq(g.FatGoalG, 72) {
				t.Errorf("fat = %v, want 72", g.FatGoalG)
			}
			wantCarbs := (tc.wantCal - tc.wantProtein*4 - 72*9) / 4
			if !floatEq(g.CarbGoalG, wantCarbs) {
				t.Errorf("carbs = %v, want %v", g.CarbGoalG, wantCarbs)
			}
		})
	}
}

// TestComputeGoals_CarbFloor verifies carbs never drop below 50g, even with a
// deliberately tiny calorie override.
func TestComputeGoals_CarbFloor(t *testing.T) {
	for _, cal := range []float64{0, 500, 1000, 1200} {
		g := ComputeGoals(2500, 1700, 100, GoalParameters{
			Direction:           Lose,
			WeeklyRateKg:        1,
			CalorieGoalOverride: ptr(cal),
		})
		if g.CarbGoalG < 50 {
			t.Errorf("override %v: carbs = %v, want >= 50", cal, g.CarbGoalG)
		}
	}
}

// TestComputeGoals_CalorieOverride verifies an explicit goal replaces the
// computed one outright and raises the BelowBMR advisory.
func TestComputeGoals_CalorieOverride(t *testing.T) {
	g := ComputeGoals(2500, 1700, 80, GoalParameters{
		Direction:           Lose,
		WeeklyRateKg:        0.5,
		CalorieGoalOverride: ptr(1400.0),
	})
	if g.CalorieGoal != 1400 {
		t.Errorf("calorie goal = %v, want 1400", g.CalorieGoal)
	}
	if !g.BelowBMR {
		t.Error("expected BelowBMR advisory for override under BMR")
	}
	if !floatEq(g.TargetDeficit, 1100) {
		t.Errorf("target deficit = %v, want 1100", g.TargetDeficit)
	}
}

// TestComputeGoals_DeficitOverride verifies the deficit override replaces the
// rate-derived adjustment and is still floored at BMR.
func TestComputeGoals_DeficitOverride(t *testing.T) {
	g := ComputeGoals(2500, 1700, 80, GoalParameters{
		Direction:           Lose,
		WeeklyRateKg:        0.5,
		DeficitGoalOverride: ptr(400.0),
	})
	if g.CalorieGoal != 2100 {
		t.Errorf("calorie goal = %v, want 2100", g.CalorieGoal)
	}

	g = ComputeGoals(2500, 1700, 80, GoalParameters{
		Direction:           Lose,
		WeeklyRateKg:        0.5,
		DeficitGoalOverride: ptr(1500.0),
	})
	if g.CalorieGoal != 1700 {
		t.Errorf("calorie goal = %v, want BMR floor 1700", g.CalorieGoal)
	}
}
