package app

import (
	"context"
	"fmt"
	"time"

	"github.com/klokku/calgrid/internal/config"
	"github.com/klokku/calgrid/internal/event_bus"
	"github.com/klokku/calgrid/internal/utils"
	"github.com/klokku/calgrid/pkg/calendar"
	"github.com/klokku/calgrid/pkg/dates"
	"github.com/klokku/calgrid/pkg/state"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	Store        *state.Store
	StateHandler *state.Handler

	CalendarService *calendar.Service
	CalendarHandler *calendar.Handler

	SettingsHandler *SettingsHandler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	location := utils.DisplayLocation(cfg.Display.OffsetMinutes)
	deps.Clock = &utils.SystemClock{Location: location}
	deps.EventBus = event_bus.NewEventBus()

	today := utils.Today(deps.Clock)
	deps.Store = state.NewStore(state.Initial(today, state.Options{
		View:           dates.View(cfg.Calendar.DefaultView),
		FirstDayOfWeek: time.Weekday(cfg.Calendar.FirstDayOfWeek),
		ShowWeekends:   cfg.Calendar.ShowWeekends,
		MobileView:     cfg.Display.Mobile,
	}), deps.EventBus)
	deps.StateHandler = state.NewHandler(deps.Store, deps.Clock)

	deps.CalendarService = calendar.NewService(deps.Store, deps.EventBus, deps.Clock, calendar.Options{
		Location:       location,
		MaxRecurrences: cfg.Events.MaxRecurrences,
		CacheLayouts:   cfg.Layout.Cache,
	})
	deps.CalendarHandler = calendar.NewHandler(deps.CalendarService)

	deps.SettingsHandler = NewSettingsHandler(cfg)

	if cfg.Events.SampleData {
		if _, err := deps.CalendarService.LoadSample(context.Background(), today); err != nil {
			return nil, fmt.Errorf("failed to load sample events: %w", err)
		}
	}
	log.Debugf("dependencies ready, display offset %s", location)

	return deps, nil
}
