// Package dates builds the day grids shown by the month, week and day views.
// Calendar days are carried as time.Time values at midnight UTC so that day
// arithmetic never crosses a DST boundary.
package dates

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

type View string

const (
	Month View = "month"
	Week  View = "week"
	Day   View = "day"
)

func (v View) Valid() bool {
	return v == Month || v == Week || v == Day
}

func Parse(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// MustParse is Parse for dates that were validated earlier.
func MustParse(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func Format(t time.Time) string {
	return t.Format(time.DateOnly)
}

// Truncate returns the calendar day of t, read in t's location, as midnight UTC.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfWeek returns the first day of the week containing date.
func StartOfWeek(date time.Time, firstDay time.Weekday) time.Time {
	delta := (int(date.Weekday()) - int(firstDay) + 7) % 7
	return date.AddDate(0, 0, -delta)
}

func WeekDays(date time.Time, firstDay time.Weekday) []time.Time {
	start := StartOfWeek(date, firstDay)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// MonthDays returns whole weeks covering the month of date, starting on
// firstDay. The result has 28, 35 or 42 days.
func MonthDays(date time.Time, firstDay time.Weekday) []time.Time {
	monthStart := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	start := StartOfWeek(monthStart, firstDay)
	end := StartOfWeek(monthEnd, firstDay).AddDate(0, 0, 6)

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Shift moves date one step of the given view forward (dir > 0) or back.
// Month steps follow AddDate normalisation: March 31 minus a month is March 3.
func Shift(date time.Time, view View, dir int) time.Time {
	switch view {
	case Month:
		return date.AddDate(0, dir, 0)
	case Week:
		return date.AddDate(0, 0, 7*dir)
	case Day:
		return date.AddDate(0, 0, dir)
	}
	return date
}

func IsSameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func IsWeekend(d time.Time) bool {
	return d.Weekday() == time.Saturday || d.Weekday() == time.Sunday
}

// DaysBetween returns the absolute number of whole days between a and b.
func DaysBetween(a, b time.Time) int {
	d := b.Sub(a)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}

// VisibleDays returns the days shown by view around date. When showWeekends
// is false, Saturdays and Sundays are dropped from week and month grids.
func VisibleDays(view View, date time.Time, firstDay time.Weekday, showWeekends bool) []time.Time {
	var days []time.Time
	switch view {
	case Month:
		days = MonthDays(date, firstDay)
	case Week:
		days = WeekDays(date, firstDay)
	default:
		return []time.Time{date}
	}
	if showWeekends {
		return days
	}
	out := days[:0:0]
	for _, d := range days {
		if !IsWeekend(d) {
			out = append(out, d)
		}
	}
	return out
}

// RangeTitle renders the header text for view around date, e.g.
// "March 2025", "Mar 9 - 15, 2025", "Dec 29, 2024 - Jan 4, 2025" or
// "Monday, March 10, 2025".
func RangeTitle(view View, date time.Time, firstDay time.Weekday) string {
	switch view {
	case Month:
		return date.Format("January 2006")
	case Week:
		days := WeekDays(date, firstDay)
		start, end := days[0], days[6]
		switch {
		case IsSameMonth(start, end):
			return fmt.Sprintf("%s %d - %d, %d", start.Format("Jan"), start.Day(), end.Day(), end.Year())
		case start.Year() == end.Year():
			return fmt.Sprintf("%s - %s, %d", start.Format("Jan 2"), end.Format("Jan 2"), end.Year())
		default:
			return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
		}
	}
	return date.Format("Monday, January 2, 2006")
}
