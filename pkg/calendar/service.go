package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klokku/calgrid/internal/event_bus"
	"github.com/klokku/calgrid/internal/utils"
	"github.com/klokku/calgrid/pkg/color"
	"github.com/klokku/calgrid/pkg/dates"
	"github.com/klokku/calgrid/pkg/event"
	"github.com/klokku/calgrid/pkg/ical"
	"github.com/klokku/calgrid/pkg/layout"
	"github.com/klokku/calgrid/pkg/recurrence"
	"github.com/klokku/calgrid/pkg/state"
	log "github.com/sirupsen/logrus"
)

var ErrEventNotFound = errors.New("event not found")

const untitled = "(No title)"

type Options struct {
	// Location is the fixed display offset used for ICS times.
	Location       *time.Location
	MaxRecurrences int
	CacheLayouts   bool
}

type Service struct {
	store    *state.Store
	eventBus *event_bus.EventBus
	clock    utils.Clock
	cache    *layout.Cache
	newID    func() string
	opts     Options
}

func NewService(store *state.Store, eventBus *event_bus.EventBus, clock utils.Clock, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.MaxRecurrences <= 0 {
		opts.MaxRecurrences = recurrence.DefaultMaxEvents
	}
	service := &Service{
		store:    store,
		eventBus: eventBus,
		clock:    clock,
		newID:    uuid.NewString,
		opts:     opts,
	}
	if opts.CacheLayouts {
		service.cache = layout.NewCache()
		if eventBus != nil {
			service.subscribeCacheInvalidation()
		}
	}
	return service
}

func (s *Service) subscribeCacheInvalidation() {
	invalidate := func(e event_bus.EventT[event_bus.CalendarEventChanged]) error {
		for _, date := range e.Data.Dates() {
			s.cache.Invalidate(date)
		}
		log.Tracef("layout cache invalidated for %v", e.Data.Dates())
		return nil
	}
	for _, t := range []event_bus.EventType{
		event_bus.CalendarEventCreatedType,
		event_bus.CalendarEventUpdatedType,
		event_bus.CalendarEventDeletedType,
	} {
		event_bus.SubscribeTyped[event_bus.CalendarEventChanged](s.eventBus, t, invalidate)
	}
	event_bus.SubscribeTyped[event_bus.StateChanged](
		s.eventBus,
		event_bus.StateChangedType,
		func(e event_bus.EventT[event_bus.StateChanged]) error {
			switch e.Data.Action {
			case state.SetEvents{}.Type(), state.UpsertEvents{}.Type():
				s.cache.Purge()
				log.Debugf("layout cache purged after %s", e.Data.Action)
			}
			return nil
		},
	)
}

func (s *Service) AddEvent(ctx context.Context, draft event.Draft) (event.Event, error) {
	e, err := draft.Build(s.newID())
	if err != nil {
		return event.Event{}, err
	}
	if e.Color == "" {
		e.Color = color.ForCategory(e.Category)
	}

	if _, _, err := s.store.Dispatch(ctx, state.AddEvent{Event: e}); err != nil {
		return event.Event{}, fmt.Errorf("failed to store event: %w", err)
	}
	log.Debugf("event %s added on %s", e.ID, e.Date)

	if err := s.publish(ctx, event_bus.CalendarEventCreatedType, e, ""); err != nil {
		return event.Event{}, err
	}
	return e, nil
}

// UpdateEvent applies the set fields of patch to the stored event.
func (s *Service) UpdateEvent(ctx context.Context, id string, patch event.Draft) (event.Event, error) {
	current, err := s.GetEvent(ctx, id)
	if err != nil {
		return event.Event{}, err
	}
	patch.ID = nil
	updated, err := event.DraftOf(current).Merge(patch).Build(id)
	if err != nil {
		return event.Event{}, err
	}

	_, _, err = s.store.DispatchIf(ctx, state.UpdateEvent{Event: updated}, eventExists(id))
	if err != nil {
		return event.Event{}, err
	}
	log.Debugf("event %s updated", id)

	if err := s.publish(ctx, event_bus.CalendarEventUpdatedType, updated, current.Date); err != nil {
		return event.Event{}, err
	}
	return updated, nil
}

func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	current, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if _, _, err := s.store.DispatchIf(ctx, state.DeleteEvent{ID: id}, eventExists(id)); err != nil {
		return err
	}
	log.Debugf("event %s deleted", id)
	return s.publish(ctx, event_bus.CalendarEventDeletedType, current, "")
}

func (s *Service) GetEvent(_ context.Context, id string) (event.Event, error) {
	snapshot, _ := s.store.Snapshot()
	e, ok := snapshot.Events.Find(id)
	if !ok {
		return event.Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	return e, nil
}

// GetEvents returns the events between from and to inclusive, honoring the
// category filter, ordered by date and then time.
func (s *Service) GetEvents(_ context.Context, from string, to string) ([]event.Event, error) {
	if _, err := dates.Parse(from); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if _, err := dates.Parse(to); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	snapshot, _ := s.store.Snapshot()
	events := event.SortByTime(event.ByDateRange(snapshot.Events.VisibleEvents(), from, to))
	slices.SortStableFunc(events, func(a, b event.Event) int {
		return strings.Compare(a.Date, b.Date)
	})
	return events, nil
}

func (s *Service) Search(_ context.Context, term string, categories []string) []event.Event {
	snapshot, _ := s.store.Snapshot()
	return event.FilterByCategory(event.Search(snapshot.Events.Events, term), categories)
}

func (s *Service) DayLayout(_ context.Context, date string) (DayView, error) {
	day, err := dates.Parse(date)
	if err != nil {
		return DayView{}, err
	}
	snapshot, version := s.store.Snapshot()
	return s.dayView(snapshot, version, dates.Format(day)), nil
}

func (s *Service) WeekLayout(_ context.Context, date string) (WeekView, error) {
	day, err := dates.Parse(date)
	if err != nil {
		return WeekView{}, err
	}
	snapshot, version := s.store.Snapshot()
	cal := snapshot.Calendar

	days := dates.VisibleDays(dates.Week, day, cal.FirstDayOfWeek, cal.ShowWeekends)
	view := WeekView{
		Title: dates.RangeTitle(dates.Week, day, cal.FirstDayOfWeek),
		Days:  make([]DayView, 0, len(days)),
	}
	for _, d := range days {
		view.Days = append(view.Days, s.dayView(snapshot, version, dates.Format(d)))
	}
	return view, nil
}

func (s *Service) dayView(snapshot state.State, version uint64, date string) DayView {
	view := DayView{Date: date}
	var timed []event.Event
	for _, e := range event.ByDate(snapshot.Events.VisibleEvents(), date) {
		if e.IsAllDay {
			view.AllDay = append(view.AllDay, e)
		} else {
			timed = append(timed, e)
		}
	}
	if s.cache != nil {
		view.Timed = s.cache.Get(date, version, timed)
	} else {
		view.Timed = layout.Compute(timed)
	}
	return view
}

// CurrentEvents returns the timed events in progress at the clock's current
// minute.
func (s *Service) CurrentEvents(_ context.Context) []event.Event {
	now := s.clock.Now().In(s.opts.Location)
	today := utils.TodayString(s.clock)
	minute := now.Hour()*60 + now.Minute()

	snapshot, _ := s.store.Snapshot()
	var current []event.Event
	for _, e := range event.ByDate(snapshot.Events.VisibleEvents(), today) {
		if !e.IsAllDay && e.StartMinutes() <= minute && minute < e.EndMinutes() {
			current = append(current, e)
		}
	}
	return event.SortByTime(current)
}

func (s *Service) MonthGrid(_ context.Context, date string) (MonthView, error) {
	day, err := dates.Parse(date)
	if err != nil {
		return MonthView{}, err
	}
	snapshot, _ := s.store.Snapshot()
	cal := snapshot.Calendar
	today := utils.TodayString(s.clock)
	visible := snapshot.Events.VisibleEvents()

	days := dates.VisibleDays(dates.Month, day, cal.FirstDayOfWeek, cal.ShowWeekends)
	view := MonthView{
		Title: dates.RangeTitle(dates.Month, day, cal.FirstDayOfWeek),
		Days:  make([]MonthDay, 0, len(days)),
	}
	for _, d := range days {
		ds := dates.Format(d)
		view.Days = append(view.Days, MonthDay{
			Date:      ds,
			InMonth:   dates.IsSameMonth(d, day),
			IsToday:   ds == today,
			IsWeekend: dates.IsWeekend(d),
			Events:    event.SortByTime(event.ByDate(visible, ds)),
		})
	}
	return view, nil
}

func (s *Service) CurrentView(_ context.Context) (ViewRange, error) {
	snapshot, _ := s.store.Snapshot()
	cal := snapshot.Calendar
	current, err := dates.Parse(cal.CurrentDate)
	if err != nil {
		return ViewRange{}, fmt.Errorf("current date: %w", err)
	}

	days := dates.VisibleDays(cal.View, current, cal.FirstDayOfWeek, cal.ShowWeekends)
	view := ViewRange{
		View:         cal.View,
		CurrentDate:  cal.CurrentDate,
		SelectedDate: cal.SelectedDate,
		Title:        dates.RangeTitle(cal.View, current, cal.FirstDayOfWeek),
		Days:         make([]string, 0, len(days)),
	}
	for _, d := range days {
		view.Days = append(view.Days, dates.Format(d))
	}
	if len(view.Days) > 0 {
		view.From = view.Days[0]
		view.To = view.Days[len(view.Days)-1]
	}
	return view, nil
}

// AddRecurring attaches cfg to the event and stores its future occurrences
// as separate events.
func (s *Service) AddRecurring(ctx context.Context, id string, cfg event.Recurrence) ([]event.Event, error) {
	base, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	draft := event.DraftOf(base)
	draft.Recurrence = &cfg
	if err := event.Validate(draft); err != nil {
		return nil, err
	}
	base.Recurrence = &cfg

	series, err := recurrence.Generate(base, cfg, s.opts.MaxRecurrences, s.newID)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no occurrences on or after %s", recurrence.ErrInvalidRecurrence, base.Date)
	}

	if _, _, err := s.store.DispatchIf(ctx, state.UpsertEvents{Events: series}, eventExists(id)); err != nil {
		return nil, err
	}
	log.Debugf("event %s repeats %s, %d occurrences", id, recurrence.Describe(cfg), len(series))

	if err := s.publish(ctx, event_bus.CalendarEventUpdatedType, base, base.Date); err != nil {
		return nil, err
	}
	for _, e := range series[1:] {
		if err := s.publish(ctx, event_bus.CalendarEventCreatedType, e, ""); err != nil {
			return nil, err
		}
	}
	return series, nil
}

func (s *Service) ExportICS(_ context.Context) (string, error) {
	snapshot, _ := s.store.Snapshot()
	return ical.Export(snapshot.Events.Events, s.opts.Location)
}

// ImportICS adds the events of an ICS feed. Events whose UID is already
// stored replace the stored event. Titles are defaulted or trimmed to fit;
// events that still fail validation are skipped.
func (s *Service) ImportICS(ctx context.Context, r io.Reader) ([]event.Event, error) {
	parsed, err := ical.Import(r, s.opts.Location)
	if err != nil {
		return nil, err
	}

	imported := make([]event.Event, 0, len(parsed))
	for _, e := range parsed {
		e.Title = strings.TrimSpace(e.Title)
		if e.Title == "" {
			e.Title = untitled
		}
		if runes := []rune(e.Title); len(runes) > event.MaxTitleLength {
			e.Title = string(runes[:event.MaxTitleLength])
		}
		if runes := []rune(e.Description); len(runes) > event.MaxDescriptionLength {
			e.Description = string(runes[:event.MaxDescriptionLength])
		}
		if e.Color == "" {
			e.Color = color.ForCategory(e.Category)
		}
		if err := event.Validate(event.DraftOf(e)); err != nil {
			log.Warnf("skipping imported event %s: %v", e.ID, err)
			continue
		}
		imported = append(imported, e)
	}
	if len(imported) == 0 {
		return imported, nil
	}

	if _, _, err := s.store.Dispatch(ctx, state.UpsertEvents{Events: imported}); err != nil {
		return nil, fmt.Errorf("failed to store imported events: %w", err)
	}
	log.Infof("imported %d events", len(imported))
	for _, e := range imported {
		if err := s.publish(ctx, event_bus.CalendarEventCreatedType, e, ""); err != nil {
			return nil, err
		}
	}
	return imported, nil
}

func (s *Service) LoadSample(ctx context.Context, today time.Time) ([]event.Event, error) {
	snapshot, _ := s.store.Snapshot()
	events := SampleEvents(today, snapshot.Calendar.FirstDayOfWeek, s.newID)
	if _, _, err := s.store.Dispatch(ctx, state.UpsertEvents{Events: events}); err != nil {
		return nil, fmt.Errorf("failed to store sample events: %w", err)
	}
	log.Infof("loaded %d sample events", len(events))
	return events, nil
}

func (s *Service) publish(ctx context.Context, t event_bus.EventType, e event.Event, previousDate string) error {
	if s.eventBus == nil {
		return nil
	}
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, t, event_bus.CalendarEventChanged{
		ID:           e.ID,
		Title:        e.Title,
		Date:         e.Date,
		PreviousDate: previousDate,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		IsAllDay:     e.IsAllDay,
	}))
	if err != nil {
		log.Errorf("failed to publish %s for event %s: %v", t, e.ID, err)
		return err
	}
	return nil
}

func eventExists(id string) func(state.State) error {
	return func(s state.State) error {
		if _, ok := s.Events.Find(id); !ok {
			return fmt.Errorf("%w: %s", ErrEventNotFound, id)
		}
		return nil
	}
}
