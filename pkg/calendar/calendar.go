package calendar

import (
	"context"
	"io"
	"time"

	"github.com/klokku/calgrid/pkg/event"
)

type Calendar interface {
	AddEvent(ctx context.Context, draft event.Draft) (event.Event, error)
	UpdateEvent(ctx context.Context, id string, patch event.Draft) (event.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	GetEvent(ctx context.Context, id string) (event.Event, error)
	GetEvents(ctx context.Context, from string, to string) ([]event.Event, error)
	Search(ctx context.Context, term string, categories []string) []event.Event
	DayLayout(ctx context.Context, date string) (DayView, error)
	WeekLayout(ctx context.Context, date string) (WeekView, error)
	CurrentEvents(ctx context.Context) []event.Event
	MonthGrid(ctx context.Context, date string) (MonthView, error)
	CurrentView(ctx context.Context) (ViewRange, error)
	AddRecurring(ctx context.Context, id string, cfg event.Recurrence) ([]event.Event, error)
	ExportICS(ctx context.Context) (string, error)
	ImportICS(ctx context.Context, r io.Reader) ([]event.Event, error)
	LoadSample(ctx context.Context, today time.Time) ([]event.Event, error)
}
