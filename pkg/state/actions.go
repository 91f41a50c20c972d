package state

import (
	"slices"
	"time"

	"github.com/klokku/calgrid/pkg/dates"
	"github.com/klokku/calgrid/pkg/event"
)

const (
	errUpdateNotFound = "event to update not found"
	errDeleteNotFound = "event to delete not found"
)

// Action is a state transition. Type is the name used on the wire.
type Action interface {
	Type() string
	apply(State) State
}

// calendar

type SetCurrentDate struct{ Date string }

func (SetCurrentDate) Type() string { return "calendar/setCurrentDate" }
func (a SetCurrentDate) apply(s State) State {
	s.Calendar.CurrentDate = a.Date
	return s
}

type SetSelectedDate struct{ Date string }

func (SetSelectedDate) Type() string { return "calendar/setSelectedDate" }
func (a SetSelectedDate) apply(s State) State {
	s.Calendar.SelectedDate = a.Date
	return s
}

type SetView struct{ View dates.View }

func (SetView) Type() string { return "calendar/setView" }
func (a SetView) apply(s State) State {
	s.Calendar.View = a.View
	return s
}

type ToggleWeekends struct{}

func (ToggleWeekends) Type() string { return "calendar/toggleWeekends" }
func (ToggleWeekends) apply(s State) State {
	s.Calendar.ShowWeekends = !s.Calendar.ShowWeekends
	return s
}

type SetFirstDayOfWeek struct{ Day time.Weekday }

func (SetFirstDayOfWeek) Type() string { return "calendar/setFirstDayOfWeek" }
func (a SetFirstDayOfWeek) apply(s State) State {
	s.Calendar.FirstDayOfWeek = a.Day
	return s
}

type GoToPrevious struct{}

func (GoToPrevious) Type() string        { return "calendar/goToPrevious" }
func (GoToPrevious) apply(s State) State { return shiftCurrent(s, -1) }

type GoToNext struct{}

func (GoToNext) Type() string        { return "calendar/goToNext" }
func (GoToNext) apply(s State) State { return shiftCurrent(s, 1) }

func shiftCurrent(s State, dir int) State {
	current, err := dates.Parse(s.Calendar.CurrentDate)
	if err != nil {
		return s
	}
	s.Calendar.CurrentDate = dates.Format(dates.Shift(current, s.Calendar.View, dir))
	return s
}

// GoToToday carries the date to jump to so that reducing stays pure.
type GoToToday struct{ Today string }

func (GoToToday) Type() string { return "calendar/goToToday" }
func (a GoToToday) apply(s State) State {
	s.Calendar.CurrentDate = a.Today
	s.Calendar.SelectedDate = a.Today
	return s
}

type NavigateToDate struct{ Date string }

func (NavigateToDate) Type() string { return "calendar/navigateToDate" }
func (a NavigateToDate) apply(s State) State {
	s.Calendar.CurrentDate = a.Date
	s.Calendar.SelectedDate = a.Date
	return s
}

// events

type SetLoading struct{ Loading bool }

func (SetLoading) Type() string { return "events/setLoading" }
func (a SetLoading) apply(s State) State {
	s.Events.Loading = a.Loading
	return s
}

type SetError struct{ Error string }

func (SetError) Type() string { return "events/setError" }
func (a SetError) apply(s State) State {
	s.Events.Error = a.Error
	return s
}

type AddEvent struct{ Event event.Event }

func (AddEvent) Type() string { return "events/addEvent" }
func (a AddEvent) apply(s State) State {
	events := make([]event.Event, 0, len(s.Events.Events)+1)
	events = append(events, s.Events.Events...)
	s.Events.Events = append(events, a.Event.Clone())
	s.Events.Error = ""
	return s
}

type UpdateEvent struct{ Event event.Event }

func (UpdateEvent) Type() string { return "events/updateEvent" }
func (a UpdateEvent) apply(s State) State {
	i := indexOf(s.Events.Events, a.Event.ID)
	if i < 0 {
		s.Events.Error = errUpdateNotFound
		return s
	}
	events := slices.Clone(s.Events.Events)
	events[i] = a.Event.Clone()
	s.Events.Events = events
	s.Events.Error = ""
	return s
}

type DeleteEvent struct{ ID string }

func (DeleteEvent) Type() string { return "events/deleteEvent" }
func (a DeleteEvent) apply(s State) State {
	i := indexOf(s.Events.Events, a.ID)
	if i < 0 {
		s.Events.Error = errDeleteNotFound
		return s
	}
	events := make([]event.Event, 0, len(s.Events.Events)-1)
	events = append(events, s.Events.Events[:i]...)
	s.Events.Events = append(events, s.Events.Events[i+1:]...)
	s.Events.Error = ""
	if s.Events.SelectedEventID == a.ID {
		s.Events.SelectedEventID = ""
	}
	return s
}

type SetEvents struct{ Events []event.Event }

func (SetEvents) Type() string { return "events/setEvents" }
func (a SetEvents) apply(s State) State {
	events := make([]event.Event, 0, len(a.Events))
	for _, e := range a.Events {
		events = append(events, e.Clone())
	}
	s.Events.Events = events
	s.Events.Error = ""
	return s
}

// UpsertEvents replaces stored events that share an ID with one of Events
// and appends the rest in order.
type UpsertEvents struct{ Events []event.Event }

func (UpsertEvents) Type() string { return "events/upsertEvents" }
func (a UpsertEvents) apply(s State) State {
	events := slices.Clone(s.Events.Events)
	positions := make(map[string]int, len(events))
	for i, e := range events {
		positions[e.ID] = i
	}
	for _, e := range a.Events {
		if i, ok := positions[e.ID]; ok {
			events[i] = e.Clone()
		} else {
			positions[e.ID] = len(events)
			events = append(events, e.Clone())
		}
	}
	s.Events.Events = events
	s.Events.Error = ""
	return s
}

// SelectEvent with an empty ID clears the selection.
type SelectEvent struct{ ID string }

func (SelectEvent) Type() string { return "events/selectEvent" }
func (a SelectEvent) apply(s State) State {
	s.Events.SelectedEventID = a.ID
	return s
}

type ToggleCategoryFilter struct{ Category string }

func (ToggleCategoryFilter) Type() string { return "events/toggleCategoryFilter" }
func (a ToggleCategoryFilter) apply(s State) State {
	current := s.Events.Filters.Categories
	if i := slices.Index(current, a.Category); i >= 0 {
		s.Events.Filters.Categories = slices.Delete(slices.Clone(current), i, i+1)
	} else {
		categories := make([]string, 0, len(current)+1)
		categories = append(categories, current...)
		s.Events.Filters.Categories = append(categories, a.Category)
	}
	return s
}

type ToggleShowCompleted struct{}

func (ToggleShowCompleted) Type() string { return "events/toggleShowCompleted" }
func (ToggleShowCompleted) apply(s State) State {
	s.Events.Filters.ShowCompleted = !s.Events.Filters.ShowCompleted
	return s
}

type ResetFilters struct{}

func (ResetFilters) Type() string { return "events/resetFilters" }
func (ResetFilters) apply(s State) State {
	s.Events.Filters = defaultFilters()
	return s
}

func indexOf(events []event.Event, id string) int {
	return slices.IndexFunc(events, func(e event.Event) bool { return e.ID == id })
}

// ui

type ToggleSidebar struct{}

func (ToggleSidebar) Type() string { return "ui/toggleSidebar" }
func (ToggleSidebar) apply(s State) State {
	s.UI.SidebarOpen = !s.UI.SidebarOpen
	return s
}

type SetSidebarOpen struct{ Open bool }

func (SetSidebarOpen) Type() string { return "ui/setSidebarOpen" }
func (a SetSidebarOpen) apply(s State) State {
	s.UI.SidebarOpen = a.Open
	return s
}

// OpenEventModal opens the event form, prefilled with Form when it is set.
type OpenEventModal struct{ Form *event.Draft }

func (OpenEventModal) Type() string { return "ui/openEventModal" }
func (a OpenEventModal) apply(s State) State {
	s.UI.EventModalOpen = true
	s.UI.EventFormData = nil
	if a.Form != nil {
		form := event.Draft{}.Merge(*a.Form)
		s.UI.EventFormData = &form
	}
	return s
}

type CloseEventModal struct{}

func (CloseEventModal) Type() string { return "ui/closeEventModal" }
func (CloseEventModal) apply(s State) State {
	s.UI.EventModalOpen = false
	s.UI.EventFormData = nil
	return s
}

type UpdateEventFormData struct{ Patch event.Draft }

func (UpdateEventFormData) Type() string { return "ui/updateEventFormData" }
func (a UpdateEventFormData) apply(s State) State {
	var form event.Draft
	if s.UI.EventFormData != nil {
		form = *s.UI.EventFormData
	}
	form = form.Merge(a.Patch)
	s.UI.EventFormData = &form
	return s
}

// SetMobileView also closes the sidebar when switching to mobile.
type SetMobileView struct{ Mobile bool }

func (SetMobileView) Type() string { return "ui/setMobileView" }
func (a SetMobileView) apply(s State) State {
	s.UI.MobileView = a.Mobile
	if a.Mobile {
		s.UI.SidebarOpen = false
	}
	return s
}

type SetHeaderView struct{ View HeaderView }

func (SetHeaderView) Type() string { return "ui/setHeaderView" }
func (a SetHeaderView) apply(s State) State {
	s.UI.HeaderView = a.View
	return s
}

type ToggleDatePicker struct{}

func (ToggleDatePicker) Type() string { return "ui/toggleDatePicker" }
func (ToggleDatePicker) apply(s State) State {
	s.UI.ShowDatePicker = !s.UI.ShowDatePicker
	return s
}

type SetShowDatePicker struct{ Show bool }

func (SetShowDatePicker) Type() string { return "ui/setShowDatePicker" }
func (a SetShowDatePicker) apply(s State) State {
	s.UI.ShowDatePicker = a.Show
	return s
}
