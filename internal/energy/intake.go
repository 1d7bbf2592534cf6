package energy

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

// WaterNormalizationFactor converts liters of logged water into the display
// unit the app has always reported (ml / 1000 * 4.2). The derivation of 4.2
// is unknown; WaterMl carries the raw total for callers that need liters.
const WaterNormalizationFactor = 4.2

// MealSource records how an entry was created.
type MealSource string

const (
	SourceManualQuickAdd MealSource = "manual_quick_add"
	SourceAIDescription  MealSource = "ai_description"
	SourceAIImage        MealSource = "ai_image"
)

func (s MealSource) Valid() bool {
	return s == SourceManualQuickAdd || s == SourceAIDescription || s == SourceAIImage
}

// ErrInvalidEntry is returned for entries with negative nutrition values.
var ErrInvalidEntry = errors.New("invalid meal entry")

// MealEntry is one logged food item. Entries are immutable once created.
type MealEntry struct {
	ID       uuid.UUID  `json:"id"`
	LoggedAt time.Time  `json:"logged_at"`
	Name     string     `json:"name"`
	Calories float64    `json:"calories"`
	ProteinG float64    `json:"protein_g"`
	CarbsG   float64    `json:"carbs_g"`
	FatG     float64    `json:"fat_g"`
	FiberG   float64    `json:"fiber_g"`
	SugarG   float64    `json:"sugar_g"`
	SodiumMg float64    `json:"sodium_mg"`
	WaterMl  float64    `json:"water_ml"`
	Source   MealSource `json:"source"`
}

// Validate checks that calories and every nutrient amount are finite and
// non-negative.
func (e MealEntry) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"calories", e.Calories},
		{"protein_g", e.ProteinG},
		{"carbs_g", e.CarbsG},
		{"fat_g", e.FatG},
		{"fiber_g", e.FiberG},
		{"sugar_g", e.SugarG},
		{"sodium_mg", e.SodiumMg},
		{"water_ml", e.WaterMl},
	}
	for _, f := range fields {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidEntry, f.name, f.value)
		}
	}
	if e.Source != "" && !e.Source.Valid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidEntry, e.Source)
	}
	return nil
}

// Totals is the sum of a set of meal entries.
type Totals struct {
	Entries  int     `json:"entries"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
	SugarG   float64 `json:"sugar_g"`
	SodiumMg float64 `json:"sodium_mg"`
	WaterMl  float64 `json:"water_ml"`
	Water    float64 `json:"water"`
}

// Add folds e into t.
func (t Totals) Add(e MealEntry) Totals {
	t.Entries++
	t.Calories += e.Calories
	t.ProteinG += e.ProteinG
	t.CarbsG += e.CarbsG
	t.FatG += e.FatG
	t.FiberG += e.FiberG
	t.SugarG += e.SugarG
	t.SodiumMg += e.SodiumMg
	t.WaterMl += e.WaterMl
	t.Water = t.WaterMl / 1000 * WaterNormalizationFactor
	return t
}

// AggregateSeq sums the entries whose local calendar day (in loc) is day.
// The sequence is consumed once and never buffered.
func AggregateSeq(entries iter.Seq[MealEntry], day Day, loc *time.Location) Totals {
	var t Totals
	for e := range entries {
		if DayOf(e.LoggedAt, loc) == day {
			t = t.Add(e)
		}
	}
	return t
}

// Aggregate is AggregateSeq over a slice.
func Aggregate(entries []MealEntry, day Day, loc *time.Location) Totals {
	return AggregateSeq(slices.Values(entries), day, loc)
}

// DailyTotals groups entries by local calendar day.
func DailyTotals(entries []MealEntry, loc *time.Location) map[Day]Totals {
	out := make(map[Day]Totals)
	for _, e := range entries {
		d := DayOf(e.LoggedAt, loc)
		out[d] = out[d].Add(e)
	}
	return out
}
