package energy

import (
	"fmt"
	"time"
)

// WindowDays is the length of the trailing window used for rolling averages.
const WindowDays = 7

const dayLayout = "2006-01-02"

// Day is a calendar day in the caller's local calendar. The zero value is
// not a valid day.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day containing t in loc. A nil loc means UTC.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(t, time.UTC), nil
}

// Start returns local midnight at the beginning of the day.
func (d Day) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays uses time.AddDate so month and year boundaries normalize correctly.
func (d Day) AddDays(n int) Day {
	return DayOf(d.Start(time.UTC).AddDate(0, 0, n), time.UTC)
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	return d.Start(time.UTC).Before(other.Start(time.UTC))
}

func (d Day) IsZero() bool {
	return d == Day{}
}

func (d Day) String() string {
	return d.Start(time.UTC).Format(dayLayout)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Day) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"`+dayLayout+`"`, string(b))
	if err != nil {
		return err
	}
	*d = DayOf(t, time.UTC)
	return nil
}

// ActiveEnergySample is one day's measured active energy. Workouts counts the
// workouts recorded that day and only feeds the activity-level classifier.
type ActiveEnergySample struct {
	Date       Day     `json:"date"`
	ActiveKcal float64 `json:"active_kcal"`
	Workouts   int     `json:"workouts"`
}

// samplesByDay indexes samples by date. If a provider sends duplicates for a
// day, the last one wins.
func samplesByDay(samples []ActiveEnergySample) map[Day]ActiveEnergySample {
	byDay := make(map[Day]ActiveEnergySample, len(samples))
	for _, s := range samples {
		byDay[s.Date] = s
	}
	return byDay
}
