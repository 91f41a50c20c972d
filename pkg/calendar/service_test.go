package calendar

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/klokku/calgrid/internal/event_bus"
	"github.com/klokku/calgrid/internal/utils"
	"github.com/klokku/calgrid/pkg/dates"
	"github.com/klokku/calgrid/pkg/event"
	"github.com/klokku/calgrid/pkg/recurrence"
	"github.com/klokku/calgrid/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday
var now = time.Date(2025, 3, 12, 8, 15, 0, 0, time.UTC)

type testEnv struct {
	service   *Service
	store     *state.Store
	bus       *event_bus.EventBus
	published []event_bus.CalendarEventChanged
}

func setupServiceTest(t *testing.T, opts Options) *testEnv {
	t.Helper()
	env := &testEnv{bus: event_bus.NewEventBus()}
	clock := &utils.MockClock{}
	clock.SetNow(now)
	env.store = state.NewStore(state.Initial(utils.Today(clock), state.Options{
		View:           dates.Week,
		FirstDayOfWeek: time.Monday,
		ShowWeekends:   true,
	}), env.bus)
	for _, et := range []event_bus.EventType{
		event_bus.CalendarEventCreatedType,
		event_bus.CalendarEventUpdatedType,
		event_bus.CalendarEventDeletedType,
	} {
		event_bus.SubscribeTyped[event_bus.CalendarEventChanged](env.bus, et, func(e event_bus.EventT[event_bus.CalendarEventChanged]) error {
			env.published = append(env.published, e.Data)
			return nil
		})
	}
	env.service = NewService(env.store, env.bus, clock, opts)
	seq := 0
	env.service.newID = func() string {
		seq++
		return fmt.Sprintf("ev-%d", seq)
	}
	return env
}

func draft(title, date, start, end string) event.Draft {
	return event.Draft{Title: &title, Date: &date, StartTime: &start, EndTime: &end}
}

func ptr[T any](v T) *T {
	return &v
}

func TestService_AddEvent(t *testing.T) {
	env := setupServiceTest(t, Options{})
	d := draft("  Standup ", "2025-03-10", "09:00", "09:15")
	d.Category = ptr("personal")

	created, err := env.service.AddEvent(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, "ev-1", created.ID)
	assert.Equal(t, "Standup", created.Title)
	assert.Equal(t, "#34a853", created.Color, "color defaults to the category color")

	stored, err := env.service.GetEvent(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, created, stored)

	require.Len(t, env.published, 1)
	assert.Equal(t, "ev-1", env.published[0].ID)
	assert.Equal(t, "2025-03-10", env.published[0].Date)
}

func TestService_AddEvent_Invalid(t *testing.T) {
	env := setupServiceTest(t, Options{})

	_, err := env.service.AddEvent(context.Background(), draft("Backwards", "2025-03-10", "10:00", "09:00"))

	var validationErr *event.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Problems, "end time must be after start time")
	snapshot, _ := env.store.Snapshot()
	assert.Empty(t, snapshot.Events.Events)
	assert.Empty(t, env.published)
}

func TestService_UpdateEvent(t *testing.T) {
	env := setupServiceTest(t, Options{})
	ctx := context.Background()
	created, err := env.service.AddEvent(ctx, draft("Standup", "2025-03-10", "09:00", "09:15"))
	require.NoError(t, err)

	updated, err := env.service.UpdateEvent(ctx, created.ID, event.Draft{
		ID:   ptr("ignored"),
		Date: ptr("2025-03-11"),
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Standup", updated.Title)
	assert.Equal(t, "2025-03-11", updated.Date)
	assert.Equal(t, "09:00", updated.StartTime)

	require.Len(t, env.published, 2)
	assert.Equal(t, []string{"2025-03-11", "2025-03-10"}, env.published[1].Dates())
}

func TestService_UpdateEvent_NotFound(t *testing.T) {
	env := setupServiceTest(t, Options{})

	_, err := env.service.UpdateEvent(context.Background(), "missing", event.Draft{Title: ptr("x")})

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestService_UpdateEvent_InvalidPatch(t *testing.T) {
	env := setupServiceTest(t, Options{})
	ctx := context.Background()
	created, err := env.service.AddEvent(ctx, draft("Standup", "2025-03-10", "09:00", "09:15"))
	require.NoError(t, err)

	_, err = env.service.UpdateEvent(ctx, created.ID, event.Draft{EndTime: ptr("08:00")})

	var validationErr *event.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	stored, _ := env.service.GetEvent(ctx, created.ID)
	assert.Equal(t, "09:15", stored.EndTime)
}

func TestService_DeleteEvent(t *testing.T) {
	env := setupServiceTest(t, Options{})
	ctx := context.Background()
	created, err := env.service.AddEvent(ctx, draft("Standup", "2025-03-10", "09:00", "09:15"))
	require.NoError(t, err)

	require.NoError(t, env.service.DeleteEvent(ctx, created.ID))

	_, err = env.service.GetEvent(ctx, created.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.ErrorIs(t, env.service.DeleteEvent(ctx, created.ID), ErrEventNotFound)
	require.Len(t, env.published, 2)
}

func TestService_GetEvents(t *testing.T) {
	env := setupServiceTest(t, Options{})
	ctx := context.Background()
	for _, d := range []event.Draft{
		draft("Late", "2025-03-11", "15:00", "16:00"),
		draft("Early", "2025-03-11", "08:00", "09:00"),
		draft("Monday", "2025-03-10", "12:00", "13:00"),
		draft("Outside", "2025-03-20", "12:00", "13:00"),
	} {
		_, err := env.service.AddEvent(ctx, d)
		require.NoError(t, err)
	}

	events, err := env.service.GetEvents(ctx, "2025-03-10", "2025-03-16")
	require.NoError(t, err)

	var titles []string
	for _, e := range events {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"Monday", "Early", "Late"}, titles)

	_, err = env.service.GetEvents(ctx, "10/03/2025", "2025-03-16")
	assert.ErrorIs(t, err, dates.ErrInvalidDate)
}

func TestService_GetEvents_CategoryFilter(t *testing.T) {
	env := setupServiceTest(t, Options{})
	ctx := context.Background()
	work := draft("Work", "2025-03-10", "09:00", "10:00")
	work.Category = ptr("work")
	gym := draft("Gym", "2025-03-10", "18:00", "19:00")
	gym.Category = ptr("health")
	for _, d := range []event.Draft{work, gym} {
		_, err := env.service.AddEvent(ctx, d)
		require.NoError(t, err)
	}
	_, _, err := env.store.Dispatch(ctx, state.ToggleCategoryFilter{Category: "health"})
	require.NoError(t, err)

	events, err := env.service.GetEvents(ctx, "2025-03-10", "2025-03-10")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Gym", events[0].Title)
}

func TestService_Search(t *testing.T) {
	env := setupServiceTest(t, Options{})
	ctx := context.Background()
	review := draft("Design review", "2025-03-10", "10:00", "11:00")
	review.Category = ptr("work")
	_, err := env.service.AddEvent(ctx, review)
	require.NoError(t, err)
	dinner := draft("Dinner", "2025-03-10", "19:00", "21:00")
	dinner.Location = ptr("Review bar")
	dinner.Category = ptr("social")
	_, err = env.service.AddEvent(ctx, dinner)
	require.NoError(t, err)

	assert.Len(t, env.service.Search(ctx, "REVIEW", nil), 2)
	found := env.service.Search(ctx, "review", []string{"social"})
	require.Len(t, found, 1)
	assert.Equal(t, "Dinner", found[0].Title)
}

func TestService_DayLayout(t *testing.T) {
	env := setupServiceTest(t, Options{CacheLayouts: true})
	ctx := context.Background()
	allDay := event.Draft{Title: ptr("Holiday"), Date: ptr("2025-03-10"), IsAllDay: ptr(true)}
	for _, d := range []event.Draft{
		draft("Team meeting", "2025-03-10", "09:00", "10:30"),
		draft("Design review", "2025-03-10", "10:00", "11:00"),
		draft("Lunch", "2025-03-10", "12:00", "13:00"),
		allDay,
	} {
		_, err := env.service.AddEvent(ctx, d)
		require.NoError(t, err)
	}

	day, err := env.service.DayLayout(ctx, "2025-03-10")
	require.NoError(t, err)

	require.Len(t, day.AllDay, 1)
	assert.Equal(t, "Holiday", day.AllDay[0].Title)
	require.Len(t, day.Timed, 3)
	byTitle := map[string]int{}
	for _, l := range day.Timed {
		byTitle[l.Event.Title] = l.TotalColumns
	}
	assert.Equal(t, map[string]int{"Team meeting": 2, "Design review": 2, "Lunch": 1}, byTitle)

	_, err = env.service.DayLayout(ctx, "2025-3-10")
	assert.ErrorIs(t, err, dates.ErrInvalidDate)
}

func TestService_DayLayout_FollowsUpdates(t *testing.T) {
	env := setupServiceTest(t, Options{CacheLayouts: true})
	ctx := context.Background()
	_, err := env.service.AddEvent(ctx, draft("A", "2025-03-10", "09:00", "10:30"))
	require.NoError(t, err)
	b, err := env.service.AddEvent(ctx, draft("B", "2025-03-10", "10:00", "11:00"))
	require.NoError(t, err)

	before, err := env.service.DayLayout(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 2, before.Timed[0].TotalColumns)
	assert.Equal(t, 1, env.service.cache.Len())

	_, err = env.service.UpdateEvent(ctx, b.ID, event.Draft{StartTime: ptr("10:30")})
	require.NoError(t, err)
	assert.Equal(t, 0, env.service.cache.Len(), "updating an event invalidates its day")

	after, err := env.service.DayLayout(ctx, "2025-03-10")
	require.NoError(t, err)
	for _, l := range after.Timed {
		assert.Equal(t, 1, l.TotalColumns, l.Event.Title)
	}
}

func TestService_WeekLayout(t *testing.T) {
	env := setupServiceTest(t, Options{})
	ctx := context.Background()
	_, err := env.service.AddEvent(ctx, draft("Gym", "2025-03-15", "09:00", "10:00"))
	require.NoError(t, err)

	week, err := env.service.WeekLayout(ctx, "2025-03-12")
	require.NoError(t, err)
	assert.Equal(t, "Mar 10 - 16, 2025", week.Title)
	require.Len(t, week.Days, 7)
	assert.Equal(t, "2025-03-10", week.Days[0].Date)
	assert.Equal(t, "2025-03-16", week.Days[6].Date)
	require.Len(t, week.Days[5].Timed, 1)

	_, _, err = env.store.Dispatch(ctx, state.ToggleWeekends{})
	require.NoError(t, err)
	week, err = env.service.WeekLayout(ctx, "2025-03-12")
	require.NoError(t, err)
	assert.Len(t, week.Days, 5)
}

func TestService_MonthGrid(t *testing.T) {
	env := setupServiceTest(t, Options{})
	ctx := context.Background()
	_, err := env.service.AddEvent(ctx, draft("Late", "2025-03-12", "15:00", "16:00"))
	require.NoError(t, err)
	_, err = env.service.AddEvent(ctx, draft("Early", "2025-03-12", "08:00", "09:00"))
	require.NoError(t, err)

	month, err := env.service.MonthGrid(ctx, "2025-03-01")
	require.NoError(t, err)

	assert.Equal(t, "March 2025", month.Title)
	assert.Zero(t, len(month.Days)%7)
	assert.Equal(t, "2025-02-24", month.Days[0].Date)
	assert.False(t, month.Days[0].InMonth)

	var today []MonthDay
	for _, d := range month.Days {
		if d.IsToday {
			today = append(today, d)
		}
	}
	require.Len(t, today, 1)
	assert.Equal(t, "2025-03-12", today[0].Date)
	require.Len(t, today[0].Events, 2)
	assert.Equal(t, "Early", today[0].Events[0].Title)
}

func TestService_CurrentView(t *testing.T) {
	env := setupServiceTest(t, Options{})
	ctx := context.Background()

	view, err := env.service.CurrentView(ctx)
	require.NoError(t, err)
	assert.Equal(t, dates.Week, view.View)
	assert.Equal(t, "2025-03-12", view.CurrentDate)
	assert.Equal(t, "2025-03-10", view.From)
	assert.Equal(t, "2025-03-16", view.To)
	assert.Len(t, view.Days, 7)

	_, _, err = env.store.Dispatch(ctx, state.SetView{View: dates.Day})
	require.NoError(t, err)
	view, err = env.service.CurrentView(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-12"}, view.Days)
	assert.Equal(t, "Wednesday, March 12, 2025", view.Title)
}

func TestService_AddRecurring(t *testing.T) {
	env := setupServiceTest(t, Options{})
	ctx := context.Background()
	base, err := env.service.AddEvent(ctx, draft("Gym", "2025-03-10", "18:00", "19:00"))
	require.NoError(t, err)

	series, err := env.service.AddRecurring(ctx, base.ID, event.Recurrence{Type: event.Weekly, Interval: 1, Count: 3})
	require.NoError(t, err)

	require.Len(t, series, 3)
	assert.Equal(t, base.ID, series[0].ID)
	assert.NotNil(t, series[0].Recurrence)
	assert.Equal(t, "2025-03-17", series[1].Date)
	assert.Equal(t, "2025-03-24", series[2].Date)
	assert.NotEqual(t, series[1].ID, series[2].ID)

	events, err := env.service.GetEvents(ctx, "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Len(t, events, 3)
	// one created for the base event, one update, two created for the copies
	assert.Len(t, env.published, 4)
}

func TestService_AddRecurring_RespectsMax(t *testing.T) {
	env := setupServiceTest(t, Options{MaxRecurrences: 4})
	ctx := context.Background()
	base, err := env.service.AddEvent(ctx, draft("Standup", "2025-03-10", "09:00", "09:15"))
	require.NoError(t, err)

	series, err := env.service.AddRecurring(ctx, base.ID, event.Recurrence{Type: event.Daily})
	require.NoError(t, err)
	assert.Len(t, series, 4)
}

func TestService_AddRecurring_CountCappedAtMax(t *testing.T) {
	env := setupServiceTest(t, Options{MaxRecurrences: 4})
	ctx := context.Background()
	base, err := env.service.AddEvent(ctx, draft("Standup", "2025-03-10", "09:00", "09:15"))
	require.NoError(t, err)

	series, err := env.service.AddRecurring(ctx, base.ID, event.Recurrence{Type: event.Daily, Count: 10})
	require.NoError(t, err)
	assert.Len(t, series, 4)

	events, err := env.service.GetEvents(ctx, "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Len(t, events, 4)
}

func TestService_AddRecurring_EndBeforeEventDate(t *testing.T) {
	env := setupServiceTest(t, Options{})
	ctx := context.Background()
	base, err := env.service.AddEvent(ctx, draft("Gym", "2025-03-10", "18:00", "19:00"))
	require.NoError(t, err)
	_, before := env.store.Snapshot()
	published := len(env.published)

	series, err := env.service.AddRecurring(ctx, base.ID, event.Recurrence{Type: event.Daily, EndDate: "2025-03-01"})

	var validationErr *event.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Problems, "recurrence end date must not be before the event date")
	assert.Nil(t, series)
	_, after := env.store.Snapshot()
	assert.Equal(t, before, after, "nothing is dispatched")
	assert.Len(t, env.published, published)
	stored, err := env.service.GetEvent(ctx, base.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Recurrence)
}

func TestService_AddRecurring_Invalid(t *testing.T) {
	env := setupServiceTest(t, Options{})
	ctx := context.Background()
	base, err := env.service.AddEvent(ctx, draft("Gym", "2025-03-10", "18:00", "19:00"))
	require.NoError(t, err)

	_, err = env.service.AddRecurring(ctx, base.ID, event.Recurrence{Type: "hourly"})
	var validationErr *event.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = env.service.AddRecurring(ctx, "missing", event.Recurrence{Type: event.Daily})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestService_ExportImport(t *testing.T) {
	source := setupServiceTest(t, Options{Location: utils.DisplayLocation(120)})
	ctx := context.Background()
	d := draft("Planning", "2025-03-10", "09:30", "11:00")
	d.Category = ptr("work")
	_, err := source.service.AddEvent(ctx, d)
	require.NoError(t, err)

	out, err := source.service.ExportICS(ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "DTSTART:20250310T073000Z")

	target := setupServiceTest(t, Options{Location: utils.DisplayLocation(120)})
	imported, err := target.service.ImportICS(ctx, strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, "ev-1", imported[0].ID)
	assert.Equal(t, "09:30", imported[0].StartTime)
	assert.Equal(t, "#4285f4", imported[0].Color)

	// importing the same feed again replaces instead of duplicating
	_, err = target.service.ImportICS(ctx, strings.NewReader(out))
	require.NoError(t, err)
	snapshot, _ := target.store.Snapshot()
	assert.Len(t, snapshot.Events.Events, 1)
}

func TestService_ImportICS_DefaultsTitle(t *testing.T) {
	env := setupServiceTest(t, Options{})
	feed := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:untitled-1",
		"DTSTART:20250310T090000Z",
		"DTEND:20250310T100000Z",
		"DESCRIPTION:" + strings.Repeat("x", event.MaxDescriptionLength+20),
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	imported, err := env.service.ImportICS(context.Background(), strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, untitled, imported[0].Title)
	assert.Len(t, imported[0].Description, event.MaxDescriptionLength)
	assert.Equal(t, "09:00", imported[0].StartTime)
}

func TestService_LoadSample(t *testing.T) {
	env := setupServiceTest(t, Options{})
	ctx := context.Background()

	events, err := env.service.LoadSample(ctx, utils.Today(&utils.MockClock{FixedNow: now}))
	require.NoError(t, err)
	assert.Len(t, events, len(sampleWeek))

	monday, err := env.service.DayLayout(ctx, "2025-03-10")
	require.NoError(t, err)
	columns := map[string]int{}
	for _, l := range monday.Timed {
		columns[l.Event.Title] = l.TotalColumns
	}
	assert.Equal(t, 2, columns["Team meeting"])
	assert.Equal(t, 2, columns["Design review"])
	assert.Equal(t, 1, columns["Project review"])
}

func TestService_NilBus(t *testing.T) {
	clock := &utils.MockClock{FixedNow: now}
	store := state.NewStore(state.Initial(utils.Today(clock), state.Options{}), nil)
	service := NewService(store, nil, clock, Options{CacheLayouts: true})

	created, err := service.AddEvent(context.Background(), draft("Solo", "2025-03-12", "09:00", "10:00"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, recurrence.DefaultMaxEvents, service.opts.MaxRecurrences)
}
