package event

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidClock = errors.New("invalid time of day")

// ParseClock converts an "HH:MM" 24-hour string into minutes since midnight.
// "24:00" is rejected; the latest valid value is "23:59".
func ParseClock(hhmm string) (int, error) {
	hourPart, minutePart, ok := strings.Cut(hhmm, ":")
	if !ok || len(hourPart) == 0 || len(hourPart) > 2 || len(minutePart) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, hhmm)
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, hhmm)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, hhmm)
	}
	return hour*60 + minute, nil
}

// Minutes is ParseClock for already validated input. A malformed value is a
// programming error and panics.
func Minutes(hhmm string) int {
	m, err := ParseClock(hhmm)
	if err != nil {
		panic(err)
	}
	return m
}

// FormatClock renders hours and minutes as zero padded "HH:MM".
func FormatClock(hours, minutes int) string {
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// FormatMinutes is the inverse of Minutes.
func FormatMinutes(m int) string {
	return FormatClock(m/60, m%60)
}

// Duration returns end minus start in minutes, or zero when either time is
// malformed.
func Duration(startTime, endTime string) int {
	start, err := ParseClock(startTime)
	if err != nil {
		return 0
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return 0
	}
	return end - start
}
