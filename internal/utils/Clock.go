package utils

import (
	"time"

	"github.com/klokku/calgrid/pkg/dates"
)

type Clock interface {
	Now() time.Time
}

// SystemClock reports wall time in a fixed display offset. A nil Location
// means UTC.
type SystemClock struct {
	Location *time.Location
}

func (s SystemClock) Now() time.Time {
	if s.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(s.Location)
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}

// DisplayLocation is the fixed zone events are shown in, offsetMinutes east
// of UTC.
func DisplayLocation(offsetMinutes int) *time.Location {
	if offsetMinutes == 0 {
		return time.UTC
	}
	return time.FixedZone("display", offsetMinutes*60)
}

// Today is the calendar day of clock.Now() as a UTC midnight, the form used
// for all date arithmetic.
func Today(clock Clock) time.Time {
	now := clock.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func TodayString(clock Clock) string {
	return dates.Format(Today(clock))
}
