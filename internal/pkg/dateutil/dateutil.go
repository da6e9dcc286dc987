package dateutil

import (
	"fmt"
	"time"
)

const (
	// DateKeyLayout is the stable local-calendar-day key format.
	DateKeyLayout = "2006-01-02"
	// MonthKeyLayout is the payroll period key format (MM-YYYY).
	MonthKeyLayout = "01-2006"
	// ClockLayout is the wall-clock format used for shift times.
	ClockLayout = "15:04"
)

// shiftDuration is the default length of a worked shift.
const shiftDuration = 9 * time.Hour

// DateKey formats t as a local-calendar-day key (YYYY-MM-DD).
// The key is derived from local date components only, so a timestamp
// near midnight never shifts to the neighbouring day.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a YYYY-MM-DD key into local midnight of that day.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// Midnight normalizes t to local midnight of the same calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// WeekStart returns local midnight of the Monday of t's week.
// A Sunday belongs to the week that started six days earlier.
func WeekStart(t time.Time) time.Time {
	day := Midnight(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}

// MonthKey formats t's month as MM-YYYY.
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// ParseMonthKey parses an MM-YYYY payroll period key.
func ParseMonthKey(key string) (year int, month time.Month, err error) {
	t, err := time.ParseInLocation(MonthKeyLayout, key, time.Local)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month key %q: %w", key, err)
	}
	return t.Year(), t.Month(), nil
}

// MonthRange returns the half-open local range [start, end) covering the month.
func MonthRange(year int, month time.Month) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end = start.AddDate(0, 1, 0)
	return start, end
}

// GridCell is one cell of the 6-week calendar grid.
type GridCell struct {
	Date    time.Time
	InMonth bool
}

// MonthGrid enumerates the 42-cell (6-week, Monday-start) grid for a month.
// Leading and trailing cells from adjacent months carry InMonth=false.
func MonthGrid(year int, month time.Month) []GridCell {
	first, _ := MonthRange(year, month)
	cursor := WeekStart(first)

	cells := make([]GridCell, 0, 42)
	for i := 0; i < 42; i++ {
		cells = append(cells, GridCell{
			Date:    cursor,
			InMonth: cursor.Month() == month,
		})
		cursor = cursor.AddDate(0, 0, 1)
	}
	return cells
}

// ParseClock parses an HH:MM wall-clock string into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DefaultEndTime derives the default end of a shift starting at start:
// start plus nine hours, capped at 23:59 so the shift never crosses midnight.
func DefaultEndTime(start string) (string, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return "", err
	}
	endMin := startMin + int(shiftDuration.Minutes())
	if endMin > 23*60+59 {
		endMin = 23*60 + 59
	}
	return FormatClock(endMin), nil
}

// ClockDiffMinutes returns end minus start in minutes. Both are same-day
// wall-clock values; a negative difference is reported as an error.
func ClockDiffMinutes(start, end string) (int, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	if endMin < startMin {
		return 0, fmt.Errorf("end time %s is before start time %s", end, start)
	}
	return endMin - startMin, nil
}
