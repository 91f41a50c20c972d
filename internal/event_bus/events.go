package event_bus

const (
	CalendarEventCreatedType EventType = "calendar.event.created"
	CalendarEventUpdatedType EventType = "calendar.event.updated"
	CalendarEventDeletedType EventType = "calendar.event.deleted"
	StateChangedType         EventType = "state.changed"
)

// CalendarEventChanged is published for every created, updated or deleted
// calendar event. PreviousDate is set when an update moved the event to
// another day.
type CalendarEventChanged struct {
	ID           string
	Title        string
	Date         string
	PreviousDate string
	StartTime    string
	EndTime      string
	IsAllDay     bool
}

// Dates returns the days whose layout is affected by the change.
func (c CalendarEventChanged) Dates() []string {
	if c.PreviousDate != "" && c.PreviousDate != c.Date {
		return []string{c.Date, c.PreviousDate}
	}
	return []string{c.Date}
}

type StateChanged struct {
	Action  string
	Version uint64
}
