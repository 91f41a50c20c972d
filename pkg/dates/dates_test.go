package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2025-03-10", Format(d))

	_, err = Parse("10/03/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Panics(t, func() { MustParse("2025-13-01") })
}

func TestTruncate(t *testing.T) {
	tokyo := time.FixedZone("UTC+9", 9*60*60)
	// 2025-03-10 23:30 UTC is already the 11th in Tokyo.
	late := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC).In(tokyo)

	got := Truncate(late)

	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestWeekDays(t *testing.T) {
	wednesday := MustParse("2025-03-12")

	sundayFirst := WeekDays(wednesday, time.Sunday)
	require.Len(t, sundayFirst, 7)
	assert.Equal(t, "2025-03-09", Format(sundayFirst[0]))
	assert.Equal(t, "2025-03-15", Format(sundayFirst[6]))

	mondayFirst := WeekDays(wednesday, time.Monday)
	assert.Equal(t, "2025-03-10", Format(mondayFirst[0]))
	assert.Equal(t, "2025-03-16", Format(mondayFirst[6]))

	// the first day itself starts its own week
	assert.Equal(t, "2025-03-09", Format(StartOfWeek(MustParse("2025-03-09"), time.Sunday)))
}

func TestMonthDays(t *testing.T) {
	testCases := []struct {
		name     string
		date     string
		firstDay time.Weekday
		first    string
		last     string
		count    int
	}{
		{"march 2025 sunday first", "2025-03-15", time.Sunday, "2025-02-23", "2025-04-05", 42},
		{"march 2025 monday first", "2025-03-15", time.Monday, "2025-02-24", "2025-04-06", 42},
		{"february 2026 fits four weeks", "2026-02-10", time.Sunday, "2026-02-01", "2026-02-28", 28},
		{"june 2025", "2025-06-01", time.Sunday, "2025-06-01", "2025-07-05", 35},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			days := MonthDays(MustParse(tc.date), tc.firstDay)
			require.Len(t, days, tc.count)
			assert.Equal(t, tc.first, Format(days[0]))
			assert.Equal(t, tc.last, Format(days[len(days)-1]))
			assert.Equal(t, tc.firstDay, days[0].Weekday())
		})
	}
}

func TestShift(t *testing.T) {
	d := MustParse("2025-01-31")
	assert.Equal(t, "2025-03-03", Format(Shift(d, Month, 1)), "month overflow normalises forward")
	assert.Equal(t, "2024-12-31", Format(Shift(d, Month, -1)))
	assert.Equal(t, "2025-02-07", Format(Shift(d, Week, 1)))
	assert.Equal(t, "2025-01-24", Format(Shift(d, Week, -1)))
	assert.Equal(t, "2025-02-01", Format(Shift(d, Day, 1)))
	assert.Equal(t, "2025-01-30", Format(Shift(d, Day, -1)))
	assert.Equal(t, d, Shift(d, View("year"), 1))
}

func TestVisibleDays(t *testing.T) {
	d := MustParse("2025-03-12")

	assert.Len(t, VisibleDays(Week, d, time.Sunday, true), 7)
	workWeek := VisibleDays(Week, d, time.Sunday, false)
	require.Len(t, workWeek, 5)
	assert.Equal(t, "2025-03-10", Format(workWeek[0]))
	assert.Equal(t, "2025-03-14", Format(workWeek[4]))

	assert.Len(t, VisibleDays(Month, d, time.Sunday, false), 30)
	assert.Equal(t, []time.Time{d}, VisibleDays(Day, d, time.Sunday, false))
}

func TestRangeTitle(t *testing.T) {
	assert.Equal(t, "March 2025", RangeTitle(Month, MustParse("2025-03-12"), time.Sunday))
	assert.Equal(t, "Mar 9 - 15, 2025", RangeTitle(Week, MustParse("2025-03-12"), time.Sunday))
	assert.Equal(t, "Mar 30 - Apr 5, 2025", RangeTitle(Week, MustParse("2025-04-01"), time.Sunday))
	assert.Equal(t, "Dec 28, 2025 - Jan 3, 2026", RangeTitle(Week, MustParse("2025-12-31"), time.Sunday))
	assert.Equal(t, "Wednesday, March 12, 2025", RangeTitle(Day, MustParse("2025-03-12"), time.Sunday))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 9, DaysBetween(MustParse("2025-03-01"), MustParse("2025-03-10")))
	assert.Equal(t, 9, DaysBetween(MustParse("2025-03-10"), MustParse("2025-03-01")))
	assert.True(t, IsSameMonth(MustParse("2025-03-01"), MustParse("2025-03-31")))
	assert.False(t, IsSameMonth(MustParse("2025-03-01"), MustParse("2024-03-01")))
}
