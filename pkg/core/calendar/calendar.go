// Package calendar is the single date/time abstraction for the scheduling
// core. All date-string parsing, week-boundary math and overnight-shift
// arithmetic lives here so the edge cases are testable in one place.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

const minutesPerDay = 24 * 60

// ParseDate parses a YYYY-MM-DD date string
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a time as a YYYY-MM-DD date string
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseClock parses a HH:MM or HH:MM:SS wall-clock string into minutes
// since midnight. Seconds are accepted and discarded.
func ParseClock(s string) (int, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("invalid clock time %q", s)
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return h*60 + m, nil
}

// NormalizeClock reduces a HH:MM[:SS] string to HH:MM so that shift times
// and template times compare equal regardless of a seconds suffix
func NormalizeClock(s string) (string, error) {
	minutes, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

// AddDays returns the date shifted by the given number of calendar days
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// DaysBetween returns the whole-day difference b−a
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// WeekStart returns the Monday of the ISO (Mon–Sun) week containing t
func WeekStart(t time.Time) time.Time {
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday belongs to the preceding Monday's week
	}
	return t.AddDate(0, 0, -offset)
}

// MonthRange returns the first and last day of the given month
func MonthRange(year, month int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// ShiftHours computes the worked hours of a shift: (end − start) minus the
// break. An end before the start means the shift runs overnight into the next
// calendar day, so 24h is added first. Never negative by construction.
func ShiftHours(start, end string, breakMinutes int) (float64, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return 0, err
	}

	duration := endMin - startMin
	if duration < 0 {
		duration += minutesPerDay
	}
	worked := duration - breakMinutes
	if worked < 0 {
		worked = 0
	}
	return float64(worked) / 60, nil
}

// RestHours computes the wall-clock gap in hours between the end instant of
// one shift and the start instant of a later shift. When the first shift is
// overnight its end instant falls on the day after its date. The result is
// negative when the shifts overlap; callers decide how to treat that.
func RestHours(date1, start1, end1, date2, start2 string) (float64, error) {
	d1, err := ParseDate(date1)
	if err != nil {
		return 0, err
	}
	d2, err := ParseDate(date2)
	if err != nil {
		return 0, err
	}
	start1Min, err := ParseClock(start1)
	if err != nil {
		return 0, err
	}
	end1Min, err := ParseClock(end1)
	if err != nil {
		return 0, err
	}
	start2Min, err := ParseClock(start2)
	if err != nil {
		return 0, err
	}

	endInstant := d1.Add(time.Duration(end1Min) * time.Minute)
	if end1Min < start1Min {
		// Overnight shift: the end belongs to the next calendar day
		endInstant = endInstant.Add(24 * time.Hour)
	}
	startInstant := d2.Add(time.Duration(start2Min) * time.Minute)

	return startInstant.Sub(endInstant).Hours(), nil
}
