package state

import (
	"time"

	"github.com/klokku/calgrid/pkg/dates"
	"github.com/klokku/calgrid/pkg/event"
)

type HeaderView string

const (
	HeaderCalendar HeaderView = "calendar"
	HeaderTasks    HeaderView = "tasks"
)

type CalendarState struct {
	CurrentDate    string       `json:"currentDate"`
	SelectedDate   string       `json:"selectedDate"`
	View           dates.View   `json:"view"`
	ShowWeekends   bool         `json:"showWeekends"`
	FirstDayOfWeek time.Weekday `json:"firstDayOfWeek"`
}

type Filters struct {
	Categories    []string `json:"categories"`
	ShowCompleted bool     `json:"showCompleted"`
}

// EventsState is the in-memory event store. Events is replaced, never
// modified in place, so a slice handed out by a snapshot stays valid.
type EventsState struct {
	Events          []event.Event `json:"events"`
	Loading         bool          `json:"loading"`
	Error           string        `json:"error,omitempty"`
	Filters         Filters       `json:"filters"`
	SelectedEventID string        `json:"selectedEventId,omitempty"`
}

type UIState struct {
	SidebarOpen    bool         `json:"sidebarOpen"`
	EventModalOpen bool         `json:"eventModalOpen"`
	EventFormData  *event.Draft `json:"eventFormData"`
	MobileView     bool         `json:"mobileView"`
	HeaderView     HeaderView   `json:"headerView"`
	ShowDatePicker bool         `json:"showDatePicker"`
}

type State struct {
	Calendar CalendarState `json:"calendar"`
	Events   EventsState   `json:"events"`
	UI       UIState       `json:"ui"`
}

type Options struct {
	View           dates.View
	FirstDayOfWeek time.Weekday
	ShowWeekends   bool
	MobileView     bool
}

func Initial(today time.Time, opts Options) State {
	todayStr := dates.Format(today)
	view := opts.View
	if !view.Valid() {
		view = dates.Week
	}
	return State{
		Calendar: CalendarState{
			CurrentDate:    todayStr,
			SelectedDate:   todayStr,
			View:           view,
			ShowWeekends:   opts.ShowWeekends,
			FirstDayOfWeek: opts.FirstDayOfWeek,
		},
		Events: EventsState{
			Events:  []event.Event{},
			Filters: defaultFilters(),
		},
		UI: UIState{
			SidebarOpen: !opts.MobileView,
			MobileView:  opts.MobileView,
			HeaderView:  HeaderCalendar,
		},
	}
}

func defaultFilters() Filters {
	return Filters{Categories: []string{}, ShowCompleted: true}
}

// Reduce applies a to s and returns the next state. s is left untouched.
func Reduce(s State, a Action) State {
	return a.apply(s)
}

// VisibleEvents applies the category filter to the stored events.
func (s EventsState) VisibleEvents() []event.Event {
	return event.FilterByCategory(s.Events, s.Filters.Categories)
}

func (s EventsState) Find(id string) (event.Event, bool) {
	for _, e := range s.Events {
		if e.ID == id {
			return e, true
		}
	}
	return event.Event{}, false
}
