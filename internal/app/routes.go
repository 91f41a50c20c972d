package app

import (
	"github.com/gorilla/mux"
	"github.com/klokku/calgrid/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Calendar events
	r.HandleFunc("/api/calendar/event", deps.CalendarHandler.GetEvents).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/calendar/event", deps.CalendarHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/calendar/event/{eventId}", deps.CalendarHandler.GetEvent).Methods("GET")
	r.HandleFunc("/api/calendar/event/{eventId}", deps.CalendarHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/calendar/event/{eventId}", deps.CalendarHandler.DeleteEvent).Methods("DELETE")
	r.HandleFunc("/api/calendar/event/{eventId}/recurrence", deps.CalendarHandler.AddRecurrence).Methods("POST")
	r.HandleFunc("/api/calendar/search", deps.CalendarHandler.Search).Methods("GET")
	r.HandleFunc("/api/calendar/now", deps.CalendarHandler.GetCurrentEvents).Methods("GET")

	// Layout
	r.HandleFunc("/api/calendar/layout/day", deps.CalendarHandler.GetDayLayout).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/calendar/layout/week", deps.CalendarHandler.GetWeekLayout).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/calendar/month", deps.CalendarHandler.GetMonth).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/calendar/view", deps.CalendarHandler.GetView).Methods("GET")

	// ICS
	r.HandleFunc("/api/calendar/export.ics", deps.CalendarHandler.ExportICS).Methods("GET")
	r.HandleFunc("/api/calendar/import", deps.CalendarHandler.ImportICS).Methods("POST")

	// State
	r.HandleFunc("/api/state", deps.StateHandler.GetState).Methods("GET")
	r.HandleFunc("/api/state/dispatch", deps.StateHandler.Dispatch).Methods("POST")

	// Settings
	r.HandleFunc("/api/settings", deps.SettingsHandler.GetSettings).Methods("GET")
}
