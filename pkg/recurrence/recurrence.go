package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/klokku/calgrid/pkg/dates"
	"github.com/klokku/calgrid/pkg/event"
	"github.com/teambition/rrule-go"
)

const DefaultMaxEvents = 100

var ErrInvalidRecurrence = errors.New("invalid recurrence")

var frequencies = map[event.RecurrenceType]rrule.Frequency{
	event.Daily:   rrule.DAILY,
	event.Weekly:  rrule.WEEKLY,
	event.Monthly: rrule.MONTHLY,
	event.Yearly:  rrule.YEARLY,
}

// Default returns the preset offered by the event form for each type.
func Default(t event.RecurrenceType) event.Recurrence {
	count := 5
	switch t {
	case event.Daily:
		count = 365
	case event.Weekly:
		count = 52
	case event.Monthly:
		count = 12
	}
	return event.Recurrence{Type: t, Interval: 1, Count: count}
}

// Rule builds the RRULE for cfg anchored at the event's date. The number of
// occurrences is cfg.Count when set, otherwise max, and never more than max.
func Rule(date string, cfg event.Recurrence, max int) (*rrule.RRule, error) {
	freq, ok := frequencies[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidRecurrence, cfg.Type)
	}
	start, err := dates.Parse(date)
	if err != nil {
		return nil, err
	}
	if max <= 0 {
		max = DefaultMaxEvents
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 1
	}
	count := cfg.Count
	if count <= 0 || count > max {
		count = max
	}
	opt := rrule.ROption{
		Freq:     freq,
		Interval: interval,
		Count:    count,
		Dtstart:  start,
	}
	if cfg.EndDate != "" {
		until, err := dates.Parse(cfg.EndDate)
		if err != nil {
			return nil, err
		}
		opt.Until = until
	}
	return rrule.NewRRule(opt)
}

// Generate expands base into its occurrences. The first element is base
// itself; the others are copies on later dates with ids from newID. Months
// lacking the start day (a series starting on the 31st) are skipped rather
// than rolled over into the next month.
func Generate(base event.Event, cfg event.Recurrence, max int, newID func() string) ([]event.Event, error) {
	rule, err := Rule(base.Date, cfg, max)
	if err != nil {
		return nil, err
	}
	occurrences := rule.All()

	events := make([]event.Event, 0, len(occurrences))
	for i, at := range occurrences {
		if i == 0 {
			events = append(events, base)
			continue
		}
		events = append(events, event.Duplicate(base, dates.Format(at), newID()))
	}
	return events, nil
}

// Describe renders a short preview such as "Every 2 weeks (10 times)".
func Describe(cfg event.Recurrence) string {
	units := map[event.RecurrenceType][2]string{
		event.Daily:   {"day", "days"},
		event.Weekly:  {"week", "weeks"},
		event.Monthly: {"month", "months"},
		event.Yearly:  {"year", "years"},
	}
	unit, ok := units[cfg.Type]
	if !ok {
		return ""
	}

	text := "Every " + unit[0]
	if cfg.Interval > 1 {
		text = fmt.Sprintf("Every %d %s", cfg.Interval, unit[1])
	}

	if cfg.EndDate != "" {
		text += " (until " + cfg.EndDate + ")"
	} else if cfg.Count > 0 {
		text += fmt.Sprintf(" (%d times)", cfg.Count)
	}
	return text
}

// Next returns the first occurrence strictly after the given day, or false
// when the series has ended.
func Next(date string, cfg event.Recurrence, after time.Time) (string, bool) {
	rule, err := Rule(date, cfg, DefaultMaxEvents)
	if err != nil {
		return "", false
	}
	next := rule.After(after, false)
	if next.IsZero() {
		return "", false
	}
	return dates.Format(next), true
}
