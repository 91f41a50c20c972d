package calendar

import (
	"time"

	"github.com/klokku/calgrid/pkg/dates"
	"github.com/klokku/calgrid/pkg/event"
)

type sampleEvent struct {
	weekday     time.Weekday
	title       string
	description string
	start, end  string
	color       string
	category    string
}

var sampleWeek = []sampleEvent{
	{time.Monday, "Team meeting", "Weekly team sync", "09:00", "10:30", "#4285f4", "work"},
	{time.Monday, "Design review", "Review of the new onboarding flow", "10:00", "11:00", "#9c27b0", "work"},
	{time.Monday, "Project review", "Quarterly project review", "14:00", "16:00", "#ea4335", "work"},
	{time.Tuesday, "Doctor visit", "Regular checkup", "11:00", "12:00", "#34a853", "health"},
	{time.Wednesday, "Important meeting", "5:30 PM - 9:15 PM", "17:30", "21:15", "#4285f4", "work"},
	{time.Thursday, "Family dinner", "Time with the family", "18:00", "20:00", "#ea4335", "personal"},
	{time.Friday, "Workout", "Gym session", "07:00", "08:30", "#fbbc04", "health"},
	{time.Friday, "Company party", "Quarterly team dinner", "19:00", "22:00", "#9c27b0", "social"},
	{time.Saturday, "Movie night", "Movies with friends", "15:00", "17:30", "#ff9800", "personal"},
}

// SampleEvents fills the week containing today with demo events.
func SampleEvents(today time.Time, firstDay time.Weekday, newID func() string) []event.Event {
	start := dates.StartOfWeek(dates.Truncate(today), firstDay)
	events := make([]event.Event, 0, len(sampleWeek))
	for _, s := range sampleWeek {
		offset := (int(s.weekday) - int(firstDay) + 7) % 7
		events = append(events, event.Event{
			ID:          newID(),
			Title:       s.title,
			Description: s.description,
			Date:        dates.Format(start.AddDate(0, 0, offset)),
			StartTime:   s.start,
			EndTime:     s.end,
			Color:       s.color,
			Category:    s.category,
		})
	}
	return events
}
