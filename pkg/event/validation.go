package event

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// ValidationError collects every problem found in a Draft so the form can
// show them all at once.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid event: " + strings.Join(e.Problems, "; ")
}

// Validate checks the fields the rest of the system relies on. Timed events
// must carry parseable times with start strictly before end; the layout
// engine assumes this holds.
func Validate(d Draft) error {
	var problems []string

	title := strings.TrimSpace(deref(d.Title))
	if title == "" {
		problems = append(problems, "title is required")
	} else if utf8.RuneCountInString(title) > MaxTitleLength {
		problems = append(problems, "title must be at most 100 characters")
	}

	date := deref(d.Date)
	if date == "" {
		problems = append(problems, "date is required")
	} else if _, err := time.Parse(time.DateOnly, date); err != nil {
		problems = append(problems, "date must be in YYYY-MM-DD format")
	}

	if !derefBool(d.IsAllDay) {
		start, startErr := ParseClock(deref(d.StartTime))
		end, endErr := ParseClock(deref(d.EndTime))
		if startErr != nil {
			problems = append(problems, "start time must be in HH:MM format")
		}
		if endErr != nil {
			problems = append(problems, "end time must be in HH:MM format")
		}
		if startErr == nil && endErr == nil && start >= end {
			problems = append(problems, "end time must be after start time")
		}
	}

	if utf8.RuneCountInString(deref(d.Description)) > MaxDescriptionLength {
		problems = append(problems, "description must be at most 500 characters")
	}

	if d.Recurrence != nil {
		if !d.Recurrence.Type.Valid() {
			problems = append(problems, "recurrence type must be daily, weekly, monthly or yearly")
		}
		if d.Recurrence.Interval < 0 || d.Recurrence.Count < 0 {
			problems = append(problems, "recurrence interval and count must not be negative")
		}
		if d.Recurrence.EndDate != "" {
			if _, err := time.Parse(time.DateOnly, d.Recurrence.EndDate); err != nil {
				problems = append(problems, "recurrence end date must be in YYYY-MM-DD format")
			} else if validDate(date) && d.Recurrence.EndDate < date {
				problems = append(problems, "recurrence end date must not be before the event date")
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func validDate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}
