package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/klokku/calgrid/pkg/dates"
	"github.com/klokku/calgrid/pkg/event"
)

var (
	ErrUnknownAction  = errors.New("unknown action")
	ErrInvalidPayload = errors.New("invalid action payload")
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type decoder func(payload json.RawMessage, today time.Time) (Action, error)

var decoders = map[string]decoder{
	SetCurrentDate{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		d, err := decodeDate(p)
		return SetCurrentDate{Date: d}, err
	},
	SetSelectedDate{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		d, err := decodeDate(p)
		return SetSelectedDate{Date: d}, err
	},
	SetView{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		var v dates.View
		if err := decodePayload(p, &v); err != nil {
			return nil, err
		}
		if !v.Valid() {
			return nil, fmt.Errorf("%w: view %q", ErrInvalidPayload, v)
		}
		return SetView{View: v}, nil
	},
	ToggleWeekends{}.Type(): static(ToggleWeekends{}),
	SetFirstDayOfWeek{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		var day int
		if err := decodePayload(p, &day); err != nil {
			return nil, err
		}
		if day < 0 || day > 6 {
			return nil, fmt.Errorf("%w: first day of week %d", ErrInvalidPayload, day)
		}
		return SetFirstDayOfWeek{Day: time.Weekday(day)}, nil
	},
	GoToPrevious{}.Type(): static(GoToPrevious{}),
	GoToNext{}.Type():     static(GoToNext{}),
	GoToToday{}.Type(): func(_ json.RawMessage, today time.Time) (Action, error) {
		return GoToToday{Today: dates.Format(today)}, nil
	},
	NavigateToDate{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		d, err := decodeDate(p)
		return NavigateToDate{Date: d}, err
	},

	SetLoading{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		var b bool
		err := decodePayload(p, &b)
		return SetLoading{Loading: b}, err
	},
	SetError{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		var msg *string
		if err := decodeOptional(p, &msg); err != nil {
			return nil, err
		}
		if msg == nil {
			return SetError{}, nil
		}
		return SetError{Error: *msg}, nil
	},
	AddEvent{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		e, err := decodeEvent(p)
		return AddEvent{Event: e}, err
	},
	UpdateEvent{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		e, err := decodeEvent(p)
		return UpdateEvent{Event: e}, err
	},
	DeleteEvent{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		var id string
		err := decodePayload(p, &id)
		return DeleteEvent{ID: id}, err
	},
	SetEvents{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		events, err := decodeEvents(p)
		return SetEvents{Events: events}, err
	},
	UpsertEvents{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		events, err := decodeEvents(p)
		return UpsertEvents{Events: events}, err
	},
	SelectEvent{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		var id *string
		if err := decodeOptional(p, &id); err != nil {
			return nil, err
		}
		if id == nil {
			return SelectEvent{}, nil
		}
		return SelectEvent{ID: *id}, nil
	},
	ToggleCategoryFilter{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		var c string
		err := decodePayload(p, &c)
		return ToggleCategoryFilter{Category: c}, err
	},
	ToggleShowCompleted{}.Type(): static(ToggleShowCompleted{}),
	ResetFilters{}.Type():        static(ResetFilters{}),

	ToggleSidebar{}.Type(): static(ToggleSidebar{}),
	SetSidebarOpen{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		var b bool
		err := decodePayload(p, &b)
		return SetSidebarOpen{Open: b}, err
	},
	OpenEventModal{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		var form *event.Draft
		if err := decodeOptional(p, &form); err != nil {
			return nil, err
		}
		return OpenEventModal{Form: form}, nil
	},
	CloseEventModal{}.Type(): static(CloseEventModal{}),
	UpdateEventFormData{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		var patch event.Draft
		err := decodePayload(p, &patch)
		return UpdateEventFormData{Patch: patch}, err
	},
	SetMobileView{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		var b bool
		err := decodePayload(p, &b)
		return SetMobileView{Mobile: b}, err
	},
	SetHeaderView{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		var v HeaderView
		if err := decodePayload(p, &v); err != nil {
			return nil, err
		}
		if v != HeaderCalendar && v != HeaderTasks {
			return nil, fmt.Errorf("%w: header view %q", ErrInvalidPayload, v)
		}
		return SetHeaderView{View: v}, nil
	},
	ToggleDatePicker{}.Type(): static(ToggleDatePicker{}),
	SetShowDatePicker{}.Type(): func(p json.RawMessage, _ time.Time) (Action, error) {
		var b bool
		err := decodePayload(p, &b)
		return SetShowDatePicker{Show: b}, err
	},
}

// DecodeAction parses a {"type": ..., "payload": ...} message. today is
// used by calendar/goToToday. Events in the payload are validated so that
// nothing malformed reaches the store.
func DecodeAction(data []byte, today time.Time) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	decode, ok := decoders[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, env.Type)
	}
	action, err := decode(env.Payload, today)
	if err != nil {
		return nil, err
	}
	return action, nil
}

func static(a Action) decoder {
	return func(json.RawMessage, time.Time) (Action, error) { return a, nil }
}

func decodePayload(p json.RawMessage, v any) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: missing payload", ErrInvalidPayload)
	}
	if err := json.Unmarshal(p, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return nil
}

// decodeOptional treats a missing payload like null.
func decodeOptional(p json.RawMessage, v any) error {
	if len(p) == 0 {
		return nil
	}
	return decodePayload(p, v)
}

func decodeDate(p json.RawMessage) (string, error) {
	var d string
	if err := decodePayload(p, &d); err != nil {
		return "", err
	}
	if _, err := dates.Parse(d); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return d, nil
}

func decodeEvent(p json.RawMessage) (event.Event, error) {
	var e event.Event
	if err := decodePayload(p, &e); err != nil {
		return e, err
	}
	if e.ID == "" {
		return e, fmt.Errorf("%w: event id is required", ErrInvalidPayload)
	}
	if err := event.Validate(event.DraftOf(e)); err != nil {
		return e, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return e, nil
}

func decodeEvents(p json.RawMessage) ([]event.Event, error) {
	var events []event.Event
	if err := decodePayload(p, &events); err != nil {
		return nil, err
	}
	for _, e := range events {
		if e.ID == "" {
			return nil, fmt.Errorf("%w: event id is required", ErrInvalidPayload)
		}
		if err := event.Validate(event.DraftOf(e)); err != nil {
			return nil, fmt.Errorf("%w: event %s: %w", ErrInvalidPayload, e.ID, err)
		}
	}
	return events, nil
}
