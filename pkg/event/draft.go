package event

import "strings"

// Draft is a partially filled event as edited in the event form. Nil fields
// are unset; Merge only overlays fields that are set in the patch.
type Draft struct {
	ID          *string     `json:"id,omitempty"`
	Title       *string     `json:"title,omitempty"`
	Date        *string     `json:"date,omitempty"`
	StartTime   *string     `json:"startTime,omitempty"`
	EndTime     *string     `json:"endTime,omitempty"`
	IsAllDay    *bool       `json:"isAllDay,omitempty"`
	Color       *string     `json:"color,omitempty"`
	Category    *string     `json:"category,omitempty"`
	Description *string     `json:"description,omitempty"`
	Location    *string     `json:"location,omitempty"`
	Attendees   []string    `json:"attendees,omitempty"`
	Recurrence  *Recurrence `json:"recurrence,omitempty"`
}

func DraftOf(e Event) Draft {
	e = e.Clone()
	return Draft{
		ID:          &e.ID,
		Title:       &e.Title,
		Date:        &e.Date,
		StartTime:   &e.StartTime,
		EndTime:     &e.EndTime,
		IsAllDay:    &e.IsAllDay,
		Color:       &e.Color,
		Category:    &e.Category,
		Description: &e.Description,
		Location:    &e.Location,
		Attendees:   e.Attendees,
		Recurrence:  e.Recurrence,
	}
}

// Merge returns a new Draft with every set field of patch applied over d.
func (d Draft) Merge(patch Draft) Draft {
	out := d
	if patch.ID != nil {
		out.ID = patch.ID
	}
	if patch.Title != nil {
		out.Title = patch.Title
	}
	if patch.Date != nil {
		out.Date = patch.Date
	}
	if patch.StartTime != nil {
		out.StartTime = patch.StartTime
	}
	if patch.EndTime != nil {
		out.EndTime = patch.EndTime
	}
	if patch.IsAllDay != nil {
		out.IsAllDay = patch.IsAllDay
	}
	if patch.Color != nil {
		out.Color = patch.Color
	}
	if patch.Category != nil {
		out.Category = patch.Category
	}
	if patch.Description != nil {
		out.Description = patch.Description
	}
	if patch.Location != nil {
		out.Location = patch.Location
	}
	if patch.Attendees != nil {
		out.Attendees = append([]string(nil), patch.Attendees...)
	}
	if patch.Recurrence != nil {
		r := *patch.Recurrence
		out.Recurrence = &r
	}
	return out
}

// Build validates the draft and turns it into an Event with the given id.
// All-day events drop their times.
func (d Draft) Build(id string) (Event, error) {
	if err := Validate(d); err != nil {
		return Event{}, err
	}
	e := Event{
		ID:          id,
		Title:       strings.TrimSpace(deref(d.Title)),
		Date:        deref(d.Date),
		StartTime:   deref(d.StartTime),
		EndTime:     deref(d.EndTime),
		IsAllDay:    derefBool(d.IsAllDay),
		Color:       deref(d.Color),
		Category:    deref(d.Category),
		Description: deref(d.Description),
		Location:    deref(d.Location),
	}
	if d.Attendees != nil {
		e.Attendees = append([]string(nil), d.Attendees...)
	}
	if d.Recurrence != nil {
		r := *d.Recurrence
		e.Recurrence = &r
	}
	if e.IsAllDay {
		e.StartTime = ""
		e.EndTime = ""
	}
	return e, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool) bool {
	return b != nil && *b
}
