package event

type Event struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Date        string      `json:"date"`                // YYYY-MM-DD
	StartTime   string      `json:"startTime,omitempty"` // HH:MM, 24h
	EndTime     string      `json:"endTime,omitempty"`   // HH:MM, 24h
	IsAllDay    bool        `json:"isAllDay,omitempty"`
	Color       string      `json:"color,omitempty"`
	Category    string      `json:"category,omitempty"`
	Description string      `json:"description,omitempty"`
	Location    string      `json:"location,omitempty"`
	Attendees   []string    `json:"attendees,omitempty"`
	Recurrence  *Recurrence `json:"recurrence,omitempty"`
}

type RecurrenceType string

const (
	Daily   RecurrenceType = "daily"
	Weekly  RecurrenceType = "weekly"
	Monthly RecurrenceType = "monthly"
	Yearly  RecurrenceType = "yearly"
)

// Recurrence describes how an event repeats. Interval is the step between
// occurrences (every 2 weeks = Weekly with Interval 2). EndDate is inclusive.
type Recurrence struct {
	Type     RecurrenceType `json:"type"`
	Interval int            `json:"interval"`
	EndDate  string         `json:"endDate,omitempty"`
	Count    int            `json:"count,omitempty"`
}

func (t RecurrenceType) Valid() bool {
	switch t {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// StartMinutes returns the start time in minutes since midnight.
// It panics when StartTime is malformed.
func (e Event) StartMinutes() int {
	return Minutes(e.StartTime)
}

// EndMinutes returns the end time in minutes since midnight.
// It panics when EndTime is malformed.
func (e Event) EndMinutes() int {
	return Minutes(e.EndTime)
}

// Clone returns a copy that shares no slices or pointers with e.
func (e Event) Clone() Event {
	c := e
	if e.Attendees != nil {
		c.Attendees = append([]string(nil), e.Attendees...)
	}
	if e.Recurrence != nil {
		r := *e.Recurrence
		c.Recurrence = &r
	}
	return c
}
