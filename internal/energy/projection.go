package energy

import "math"

// WeeklyProjectedChangeKg converts a daily deficit into expected weekly mass
// change: deficit * 7 / 7700, floored at zero so a surplus never projects loss.
func WeeklyProjectedChangeKg(deficitKcalPerDay float64) float64 {
	return max(deficitKcalPerDay*7/KcalPerKg, 0)
}

// WeeklyChangeForDirection applies WeeklyProjectedChangeKg in the goal's
// direction: for gain the surplus (negated deficit) is projected as weekly
// gain. Maintain projects no change.
func WeeklyChangeForDirection(direction Direction, deficitKcalPerDay float64) float64 {
	switch direction {
	case Lose:
		return WeeklyProjectedChangeKg(deficitKcalPerDay)
	case Gain:
		return WeeklyProjectedChangeKg(-deficitKcalPerDay)
	default:
		return 0
	}
}

// WeeksToTarget estimates whole weeks to reach targetWeightKg at
// weeklyChangeKg per week, rounding up. ok is false (indeterminate) when no
// progress is projected.
func WeeksToTarget(currentWeightKg, targetWeightKg, weeklyChangeKg float64) (weeks int, ok bool) {
	if !(weeklyChangeKg > 0) || math.IsInf(weeklyChangeKg, 0) {
		return 0, false
	}
	// Round away float noise first so exact multiples (0.7 kg at 0.7 kg/week)
	// don't ceil up to an extra week.
	q := math.Abs(currentWeightKg-targetWeightKg) / weeklyChangeKg
	return int(math.Ceil(math.Round(q*1e9) / 1e9)), true
}

// headsToward reports whether moving in direction closes the gap from
// current to target. A target already reached counts for any direction.
func headsToward(direction Direction, currentWeightKg, targetWeightKg float64) bool {
	switch {
	case currentWeightKg == targetWeightKg:
		return true
	case direction == Lose:
		return targetWeightKg < currentWeightKg
	case direction == Gain:
		return targetWeightKg > currentWeightKg
	default:
		return false
	}
}
