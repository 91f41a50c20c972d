package calendar

import (
	"github.com/klokku/calgrid/pkg/dates"
	"github.com/klokku/calgrid/pkg/event"
	"github.com/klokku/calgrid/pkg/layout"
)

// DayView is one column of the time grid. All-day events are listed apart
// from the laid out timed events.
type DayView struct {
	Date   string
	AllDay []event.Event
	Timed  []layout.EventLayout
}

type WeekView struct {
	Title string
	Days  []DayView
}

type MonthDay struct {
	Date      string
	InMonth   bool
	IsToday   bool
	IsWeekend bool
	Events    []event.Event
}

type MonthView struct {
	Title string
	Days  []MonthDay
}

// ViewRange describes what the current calendar state shows.
type ViewRange struct {
	View         dates.View
	CurrentDate  string
	SelectedDate string
	Title        string
	From         string
	To           string
	Days         []string
}
