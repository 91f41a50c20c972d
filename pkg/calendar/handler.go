package calendar

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/klokku/calgrid/internal/rest"
	"github.com/klokku/calgrid/pkg/color"
	"github.com/klokku/calgrid/pkg/dates"
	"github.com/klokku/calgrid/pkg/event"
	"github.com/klokku/calgrid/pkg/ical"
	"github.com/klokku/calgrid/pkg/layout"
	"github.com/klokku/calgrid/pkg/recurrence"
	log "github.com/sirupsen/logrus"
)

// maxImportSize bounds the body accepted by ImportICS.
const maxImportSize = 5 << 20

type Handler struct {
	calendar Calendar
}

type EventDTO struct {
	event.Event
	TextColor      string `json:"textColor"`
	TimeText       string `json:"timeText"`
	Minutes        int    `json:"durationMinutes,omitempty"`
	RecurrenceText string `json:"recurrenceText,omitempty"`
}

type LayoutDTO struct {
	Event        EventDTO   `json:"event"`
	Column       int        `json:"column"`
	TotalColumns int        `json:"totalColumns"`
	Width        float64    `json:"width"`
	Left         float64    `json:"left"`
	Box          layout.Box `json:"box"`
}

type DayDTO struct {
	Date   string      `json:"date"`
	AllDay []EventDTO  `json:"allDay"`
	Timed  []LayoutDTO `json:"timed"`
}

type WeekDTO struct {
	Title string   `json:"title"`
	Days  []DayDTO `json:"days"`
}

type MonthDayDTO struct {
	Date      string     `json:"date"`
	InMonth   bool       `json:"inMonth"`
	IsToday   bool       `json:"isToday"`
	IsWeekend bool       `json:"isWeekend"`
	Events    []EventDTO `json:"events"`
}

type MonthDTO struct {
	Title string        `json:"title"`
	Days  []MonthDayDTO `json:"days"`
}

type ViewDTO struct {
	View         dates.View `json:"view"`
	CurrentDate  string     `json:"currentDate"`
	SelectedDate string     `json:"selectedDate"`
	Title        string     `json:"title"`
	From         string     `json:"from"`
	To           string     `json:"to"`
	Days         []string   `json:"days"`
}

func NewHandler(c Calendar) *Handler {
	return &Handler{c}
}

// GetEvents godoc
// @Summary List events in a date range
// @Description Events between from and to (inclusive) matching the active category filter
// @Tags Calendar
// @Produce json
// @Param from query string true "First day, YYYY-MM-DD"
// @Param to query string true "Last day, YYYY-MM-DD"
// @Success 200 {array} EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date format"
// @Router /api/calendar/event [get]
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	events, err := h.calendar.GetEvents(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err, "Invalid date range")
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventsToDTO(events))
}

// GetEvent godoc
// @Summary Get an event
// @Tags Calendar
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} EventDTO
// @Failure 404 {object} rest.ErrorResponse "Event not found"
// @Router /api/calendar/event/{eventId} [get]
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.calendar.GetEvent(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		writeServiceError(w, err, "")
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventToDTO(e))
}

// CreateEvent godoc
// @Summary Create an event
// @Tags Calendar
// @Accept json
// @Produce json
// @Param event body event.Draft true "Event form data"
// @Success 201 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid event"
// @Router /api/calendar/event [post]
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var draft event.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	created, err := h.calendar.AddEvent(r.Context(), draft)
	if err != nil {
		writeServiceError(w, err, "Invalid event")
		return
	}
	rest.WriteJSON(w, http.StatusCreated, eventToDTO(created))
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Only the fields present in the body are changed
// @Tags Calendar
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param event body event.Draft true "Fields to change"
// @Success 200 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid event"
// @Failure 404 {object} rest.ErrorResponse "Event not found"
// @Router /api/calendar/event/{eventId} [put]
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var patch event.Draft
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	updated, err := h.calendar.UpdateEvent(r.Context(), mux.Vars(r)["eventId"], patch)
	if err != nil {
		writeServiceError(w, err, "Invalid event")
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventToDTO(updated))
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags Calendar
// @Param eventId path string true "Event ID"
// @Success 204
// @Failure 404 {object} rest.ErrorResponse "Event not found"
// @Router /api/calendar/event/{eventId} [delete]
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.calendar.DeleteEvent(r.Context(), mux.Vars(r)["eventId"]); err != nil {
		writeServiceError(w, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddRecurrence godoc
// @Summary Make an event repeat
// @Description Stores the following occurrences as separate events and returns the whole series
// @Tags Calendar
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param recurrence body event.Recurrence true "Recurrence rule"
// @Success 201 {array} EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid recurrence"
// @Failure 404 {object} rest.ErrorResponse "Event not found"
// @Router /api/calendar/event/{eventId}/recurrence [post]
func (h *Handler) AddRecurrence(w http.ResponseWriter, r *http.Request) {
	var cfg event.Recurrence
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	series, err := h.calendar.AddRecurring(r.Context(), mux.Vars(r)["eventId"], cfg)
	if err != nil {
		writeServiceError(w, err, "Invalid recurrence")
		return
	}
	rest.WriteJSON(w, http.StatusCreated, eventsToDTO(series))
}

// Search godoc
// @Summary Search events
// @Description Case-insensitive match on title, description and location
// @Tags Calendar
// @Produce json
// @Param q query string false "Search term"
// @Param category query []string false "Category IDs" collectionFormat(multi)
// @Success 200 {array} EventDTO
// @Router /api/calendar/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var categories []string
	for _, c := range query["category"] {
		for _, part := range strings.Split(c, ",") {
			if part = strings.TrimSpace(part); part != "" {
				categories = append(categories, part)
			}
		}
	}
	rest.WriteJSON(w, http.StatusOK, eventsToDTO(h.calendar.Search(r.Context(), query.Get("q"), categories)))
}

// GetCurrentEvents godoc
// @Summary Events in progress now
// @Tags Calendar
// @Produce json
// @Success 200 {array} EventDTO
// @Router /api/calendar/now [get]
func (h *Handler) GetCurrentEvents(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, eventsToDTO(h.calendar.CurrentEvents(r.Context())))
}

// GetDayLayout godoc
// @Summary Lay out a single day
// @Tags Layout
// @Produce json
// @Param date query string true "Day, YYYY-MM-DD"
// @Success 200 {object} DayDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date format"
// @Router /api/calendar/layout/day [get]
func (h *Handler) GetDayLayout(w http.ResponseWriter, r *http.Request) {
	day, err := h.calendar.DayLayout(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err, "Invalid date format")
		return
	}
	rest.WriteJSON(w, http.StatusOK, dayToDTO(day))
}

// GetWeekLayout godoc
// @Summary Lay out the week containing a date
// @Tags Layout
// @Produce json
// @Param date query string true "Any day of the week, YYYY-MM-DD"
// @Success 200 {object} WeekDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date format"
// @Router /api/calendar/layout/week [get]
func (h *Handler) GetWeekLayout(w http.ResponseWriter, r *http.Request) {
	week, err := h.calendar.WeekLayout(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err, "Invalid date format")
		return
	}
	dto := WeekDTO{Title: week.Title, Days: make([]DayDTO, 0, len(week.Days))}
	for _, d := range week.Days {
		dto.Days = append(dto.Days, dayToDTO(d))
	}
	rest.WriteJSON(w, http.StatusOK, dto)
}

// GetMonth godoc
// @Summary Month grid for a date
// @Tags Layout
// @Produce json
// @Param date query string true "Any day of the month, YYYY-MM-DD"
// @Success 200 {object} MonthDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date format"
// @Router /api/calendar/month [get]
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	month, err := h.calendar.MonthGrid(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err, "Invalid date format")
		return
	}
	dto := MonthDTO{Title: month.Title, Days: make([]MonthDayDTO, 0, len(month.Days))}
	for _, d := range month.Days {
		dto.Days = append(dto.Days, MonthDayDTO{
			Date:      d.Date,
			InMonth:   d.InMonth,
			IsToday:   d.IsToday,
			IsWeekend: d.IsWeekend,
			Events:    eventsToDTO(d.Events),
		})
	}
	rest.WriteJSON(w, http.StatusOK, dto)
}

// GetView godoc
// @Summary Range shown by the current calendar state
// @Tags Layout
// @Produce json
// @Success 200 {object} ViewDTO
// @Router /api/calendar/view [get]
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	view, err := h.calendar.CurrentView(r.Context())
	if err != nil {
		writeServiceError(w, err, "")
		return
	}
	rest.WriteJSON(w, http.StatusOK, ViewDTO(view))
}

// ExportICS godoc
// @Summary Export all events as iCalendar
// @Tags Calendar
// @Produce text/calendar
// @Success 200 {string} string "VCALENDAR"
// @Router /api/calendar/export.ics [get]
func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	body, err := h.calendar.ExportICS(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Errorf("failed to write calendar export: %v", err)
	}
}

// ImportICS godoc
// @Summary Import an iCalendar feed
// @Description Events whose UID is already stored are replaced
// @Tags Calendar
// @Accept text/calendar
// @Produce json
// @Success 200 {array} EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid calendar"
// @Router /api/calendar/import [post]
func (h *Handler) ImportICS(w http.ResponseWriter, r *http.Request) {
	imported, err := h.calendar.ImportICS(r.Context(), http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		writeServiceError(w, err, "Invalid calendar")
		return
	}
	log.Tracef("imported events returned: %d", len(imported))
	rest.WriteJSON(w, http.StatusOK, eventsToDTO(imported))
}

// writeServiceError maps service errors to responses. Client errors are
// reported with badRequest as the message.
func writeServiceError(w http.ResponseWriter, err error, badRequest string) {
	var validationErr *event.ValidationError
	switch {
	case errors.Is(err, ErrEventNotFound):
		rest.WriteError(w, http.StatusNotFound, "Event not found", err.Error())
	case errors.As(err, &validationErr),
		errors.Is(err, dates.ErrInvalidDate),
		errors.Is(err, recurrence.ErrInvalidRecurrence),
		errors.Is(err, ical.ErrInvalidCalendar),
		errors.Is(err, ical.ErrEmptyCalendar):
		if badRequest == "" {
			badRequest = "Invalid request"
		}
		rest.WriteError(w, http.StatusBadRequest, badRequest, err.Error())
	default:
		log.Errorf("calendar request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func eventToDTO(e event.Event) EventDTO {
	dto := EventDTO{
		Event:     e,
		TextColor: color.ContrastText(e.Color),
		TimeText:  event.FormatTime(e),
	}
	if !e.IsAllDay {
		dto.Minutes = event.Duration(e.StartTime, e.EndTime)
	}
	if e.Recurrence != nil {
		dto.RecurrenceText = recurrence.Describe(*e.Recurrence)
	}
	return dto
}

func eventsToDTO(events []event.Event) []EventDTO {
	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, eventToDTO(e))
	}
	return dtos
}

func dayToDTO(d DayView) DayDTO {
	dto := DayDTO{
		Date:   d.Date,
		AllDay: eventsToDTO(d.AllDay),
		Timed:  make([]LayoutDTO, 0, len(d.Timed)),
	}
	for _, l := range d.Timed {
		dto.Timed = append(dto.Timed, LayoutDTO{
			Event:        eventToDTO(*l.Event),
			Column:       l.Column,
			TotalColumns: l.TotalColumns,
			Width:        l.Width,
			Left:         l.Left,
			Box:          layout.Geometry(l),
		})
	}
	return dto
}
