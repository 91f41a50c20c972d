package event

import (
	"slices"
	"sort"
	"strings"
)

// ByDate returns the events that fall on date (YYYY-MM-DD).
func ByDate(events []Event, date string) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

// ByDateRange returns the events between from and to, both inclusive.
func ByDateRange(events []Event, from, to string) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	return out
}

// SortByTime returns a sorted copy: all-day events first ordered by title,
// then timed events by start time. Equal keys keep their input order.
func SortByTime(events []Event) []Event {
	out := slices.Clone(events)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsAllDay != b.IsAllDay {
			return a.IsAllDay
		}
		if a.IsAllDay {
			return a.Title < b.Title
		}
		return a.StartTime < b.StartTime
	})
	return out
}

func FormatTime(e Event) string {
	if e.IsAllDay {
		return "All day"
	}
	return e.StartTime + " - " + e.EndTime
}

// Search matches term case-insensitively against title, description and
// location. A blank term matches everything.
func Search(events []Event, term string) []Event {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return events
	}
	var out []Event
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Title), term) ||
			strings.Contains(strings.ToLower(e.Description), term) ||
			strings.Contains(strings.ToLower(e.Location), term) {
			out = append(out, e)
		}
	}
	return out
}

// FilterByCategory keeps events whose category is listed. An empty list
// disables the filter.
func FilterByCategory(events []Event, categories []string) []Event {
	if len(categories) == 0 {
		return events
	}
	var out []Event
	for _, e := range events {
		if e.Category != "" && slices.Contains(categories, e.Category) {
			out = append(out, e)
		}
	}
	return out
}

// Duplicate copies e onto another day under a new id.
func Duplicate(e Event, newDate, newID string) Event {
	c := e.Clone()
	c.ID = newID
	c.Date = newDate
	return c
}
